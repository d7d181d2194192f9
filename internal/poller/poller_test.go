package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollerTicksUntilStopped(t *testing.T) {
	var runs atomic.Int32
	p := New("test", 5*time.Millisecond, func(ctx context.Context, manual bool) {
		runs.Add(1)
	})

	p.Start(context.Background())
	require.True(t, p.Running())
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)

	p.Stop()
	assert.False(t, p.Running())

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load(), "no runs after Stop returns")
}

func TestPollerSkipsTicksWhileRunInFlight(t *testing.T) {
	release := make(chan struct{})
	var runs atomic.Int32
	p := New("slow", 2*time.Millisecond, func(ctx context.Context, manual bool) {
		runs.Add(1)
		select {
		case <-release:
		case <-ctx.Done():
		}
	})

	p.Start(context.Background())
	require.Eventually(t, func() bool { return p.Skipped() >= 3 }, time.Second, time.Millisecond)
	assert.Equal(t, int32(1), runs.Load(), "overlapping ticks must not start new runs")

	close(release)
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)
	p.Stop()
}

func TestPollerStopCancelsInFlightRun(t *testing.T) {
	started := make(chan struct{}, 1)
	var cancelled atomic.Bool
	p := New("cancel", 2*time.Millisecond, func(ctx context.Context, manual bool) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		cancelled.Store(true)
	})

	p.Start(context.Background())
	<-started
	p.Stop()
	assert.True(t, cancelled.Load())
}

func TestPollerTriggerRunsManually(t *testing.T) {
	manualRuns := make(chan bool, 4)
	p := New("manual", time.Hour, func(ctx context.Context, manual bool) {
		manualRuns <- manual
	})

	p.Trigger() // not running yet: ignored
	p.Start(context.Background())
	defer p.Stop()

	p.Trigger()
	select {
	case manual := <-manualRuns:
		assert.True(t, manual)
	case <-time.After(time.Second):
		t.Fatal("triggered run did not happen")
	}
}

func TestPollerStopIsIdempotent(t *testing.T) {
	p := New("idle", time.Hour, func(ctx context.Context, manual bool) {})
	p.Stop()
	p.Start(context.Background())
	p.Start(context.Background())
	p.Stop()
	p.Stop()
	assert.False(t, p.Running())
}

func TestNewDefaultsInterval(t *testing.T) {
	p := New("default", 0, func(ctx context.Context, manual bool) {})
	assert.Equal(t, DefaultInterval, p.interval)
}

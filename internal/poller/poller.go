// Package poller runs a function on a fixed cadence until stopped.
package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akycode08/xtrend-app/internal/logging"
)

// DefaultInterval is the reconciliation cadence for deep scans.
const DefaultInterval = 15 * time.Second

// Func is one poll run. manual is true for runs requested through Trigger.
type Func func(ctx context.Context, manual bool)

// Poller is a cancellable scheduled task. Runs never overlap: a tick that
// fires while the previous run is still outstanding is skipped, not queued.
type Poller struct {
	name     string
	interval time.Duration
	fn       Func

	mu      sync.Mutex
	cancel  context.CancelFunc
	trigger chan struct{}
	wg      sync.WaitGroup

	inFlight atomic.Bool
	skipped  atomic.Int64
}

// New creates a poller that calls fn every interval once started.
func New(name string, interval time.Duration, fn Func) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{name: name, interval: interval, fn: fn}
}

// Start begins ticking in the background. The first run happens one
// interval after Start. Calling Start on a running poller does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.trigger = make(chan struct{}, 1)

	log := logging.Component("poller")
	log.Debug().Str("poller", p.name).Dur("interval", p.interval).Msg("starting")

	p.wg.Add(1)
	go p.loop(ctx, p.trigger)
}

func (p *Poller) loop(ctx context.Context, trigger <-chan struct{}) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.launch(ctx, false)
		case <-trigger:
			p.launch(ctx, true)
		case <-ctx.Done():
			log := logging.Component("poller")
			log.Debug().Str("poller", p.name).Msg("stopping")
			return
		}
	}
}

func (p *Poller) launch(ctx context.Context, manual bool) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.skipped.Add(1)
		log := logging.Component("poller")
		log.Debug().Str("poller", p.name).Bool("manual", manual).Msg("previous run still in flight, skipping")
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.inFlight.Store(false)
		p.fn(ctx, manual)
	}()
}

// Trigger requests an immediate run. It is a no-op when the poller is not
// running; at most one request is buffered.
func (p *Poller) Trigger() {
	p.mu.Lock()
	trigger := p.trigger
	running := p.cancel != nil
	p.mu.Unlock()
	if !running {
		return
	}
	select {
	case trigger <- struct{}{}:
	default:
	}
}

// Stop cancels the schedule and waits for the loop and any in-flight run to
// return. Runs observe cancellation through their context. Stop is safe to
// call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	p.wg.Wait()
}

// Running reports whether the schedule is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Skipped counts ticks dropped by the in-flight guard.
func (p *Poller) Skipped() int64 {
	return p.skipped.Load()
}

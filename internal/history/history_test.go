package history

import (
	"testing"

	"github.com/akycode08/xtrend-app/internal/trend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func report(handle string, followers int64) trend.ProfileReport {
	return trend.ProfileReport{Author: trend.Author{Username: handle, Followers: followers}}
}

func TestUpsertMovesExistingToFront(t *testing.T) {
	s := NewStore(0)
	s.Upsert(report("a", 1))
	s.Upsert(report("b", 1))
	s.Upsert(report("a", 2))

	assert.Equal(t, []string{"a", "b"}, s.Handles())

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(2), got.Author.Followers, "front entry should carry the latest content")
}

func TestUpsertOneEntryPerHandle(t *testing.T) {
	s := NewStore(0)
	for _, h := range []string{"a", "b", "c", "b", "a", "a"} {
		s.Upsert(report(h, 0))
	}
	assert.Equal(t, []string{"a", "b", "c"}, s.Handles())
	assert.Equal(t, 3, s.Len())
}

func TestLimitEvictsOldest(t *testing.T) {
	s := NewStore(2)
	s.Upsert(report("a", 0))
	s.Upsert(report("b", 0))
	s.Upsert(report("c", 0))

	assert.Equal(t, []string{"c", "b"}, s.Handles())
	_, ok := s.Get("a")
	assert.False(t, ok)

	// re-viewing an entry inside the cap does not evict anything else
	s.Upsert(report("b", 0))
	assert.Equal(t, []string{"b", "c"}, s.Handles())
}

func TestEntriesReturnsCopy(t *testing.T) {
	s := NewStore(0)
	s.Upsert(report("a", 0))

	entries := s.Entries()
	entries[0].Author.Username = "mutated"

	assert.Equal(t, []string{"a"}, s.Handles())
}

func TestClear(t *testing.T) {
	s := NewStore(0)
	s.Upsert(report("a", 0))
	s.Clear()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Entries())
}

package history

import "github.com/akycode08/xtrend-app/internal/trend"

// Store keeps profile reports viewed during this session, one per author
// handle, most recent first. A positive limit caps the number of entries;
// the oldest fall off. Not safe for concurrent use.
type Store struct {
	limit   int
	entries []trend.ProfileReport
}

// NewStore returns an empty store. limit <= 0 means unbounded.
func NewStore(limit int) *Store {
	return &Store{limit: limit}
}

// Upsert removes any entry for the report's handle and puts the report at
// the front.
func (s *Store) Upsert(report trend.ProfileReport) {
	handle := report.Handle()

	out := make([]trend.ProfileReport, 0, len(s.entries)+1)
	out = append(out, report)
	for _, e := range s.entries {
		if e.Handle() != handle {
			out = append(out, e)
		}
	}

	if s.limit > 0 && len(out) > s.limit {
		out = out[:s.limit]
	}
	s.entries = out
}

// Entries returns a copy of the history, most recently viewed first.
func (s *Store) Entries() []trend.ProfileReport {
	out := make([]trend.ProfileReport, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Handles() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Handle()
	}
	return out
}

// Get returns the stored report for handle, if any.
func (s *Store) Get(handle string) (trend.ProfileReport, bool) {
	for _, e := range s.entries {
		if e.Handle() == handle {
			return e, true
		}
	}
	return trend.ProfileReport{}, false
}

func (s *Store) Len() int {
	return len(s.entries)
}

func (s *Store) Clear() {
	s.entries = nil
}

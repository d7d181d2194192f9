package cache

import "time"

// Scan is one search recorded in the journal.
type Scan struct {
	ID          int64
	Query       string
	Mode        string
	Deep        bool
	RescanHours int
	ItemCount   int
	StartedAt   time.Time
}

type QueryOpts struct {
	Since time.Time
	Query string
	Limit int
}

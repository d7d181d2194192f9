package session

import (
	"context"
	"time"

	"github.com/akycode08/xtrend-app/internal/api"
	"github.com/akycode08/xtrend-app/internal/cache"
	"github.com/akycode08/xtrend-app/internal/logging"
	"github.com/akycode08/xtrend-app/internal/trend"
)

// Journal records scans issued from this machine.
type Journal interface {
	RecordScan(ctx context.Context, s cache.Scan) error
}

// Dispatcher performs the I/O for requests the controller prepared. It holds
// no session state and may be called from any goroutine.
type Dispatcher struct {
	backend api.Backend
	journal Journal
}

// NewDispatcher wires a backend and an optional journal (nil disables it).
func NewDispatcher(backend api.Backend, journal Journal) *Dispatcher {
	return &Dispatcher{backend: backend, journal: journal}
}

func (d *Dispatcher) Search(ctx context.Context, req SearchRequest) ([]trend.VideoItem, error) {
	started := time.Now()
	items, err := d.backend.Search(ctx, req.SearchParams)
	if err != nil {
		return nil, err
	}
	if d.journal != nil {
		scan := cache.Scan{
			Query:       req.Target,
			Mode:        string(req.Mode),
			Deep:        req.IsDeep,
			RescanHours: trend.ClampHours(req.RescanHours),
			ItemCount:   len(items),
			StartedAt:   started,
		}
		if err := d.journal.RecordScan(ctx, scan); err != nil {
			log := logging.Component("session")
			log.Warn().Err(err).Str("target", req.Target).Msg("journal write failed")
		}
	}
	return items, nil
}

func (d *Dispatcher) Profile(ctx context.Context, req ProfileRequest) (trend.ProfileReport, error) {
	return d.backend.Profile(ctx, req.Handle)
}

func (d *Dispatcher) Results(ctx context.Context, req SyncRequest) ([]trend.VideoItem, error) {
	return d.backend.Results(ctx, req.Keyword, req.Mode)
}

// Package session holds the state of one interactive session: the active
// tab, the query, the result list being reconciled and the profile history.
package session

import (
	"errors"
	"strings"

	"github.com/akycode08/xtrend-app/internal/api"
	"github.com/akycode08/xtrend-app/internal/history"
	"github.com/akycode08/xtrend-app/internal/logging"
	"github.com/akycode08/xtrend-app/internal/trend"
)

var (
	ErrEmptyQuery  = errors.New("enter a keyword or username to scan")
	ErrEmptyHandle = errors.New("enter a profile handle or link")
	ErrWrongMode   = errors.New("not available in this tab")
)

// SearchRequest is a search prepared by the controller. Epoch ties the
// eventual response back to the state that issued it.
type SearchRequest struct {
	api.SearchParams
	Epoch uint64
}

type ProfileRequest struct {
	Handle string
	Epoch  uint64
}

// SyncRequest is one reconciliation fetch. Silent syncs come from the timer
// and never touch the loading indicator.
type SyncRequest struct {
	Keyword string
	Mode    trend.SubMode
	Silent  bool
	Epoch   uint64
}

// PollKey identifies what the poller is tracking. A change of key means the
// running schedule belongs to a stale query and must be stopped.
type PollKey struct {
	Query   string
	SubMode trend.SubMode
	Epoch   uint64
}

type Options struct {
	Mode         trend.Mode
	SubMode      trend.SubMode
	RescanHours  int
	HistoryLimit int
}

// Controller is the session state machine. Every method runs on the caller's
// goroutine; it is not safe for concurrent use.
type Controller struct {
	mode        trend.Mode
	subMode     trend.SubMode
	query       string
	rescanHours int

	items   []trend.VideoItem
	report  *trend.ProfileReport
	history *history.Store

	loading bool
	syncing bool
	err     string
	epoch   uint64
}

func NewController(opts Options) *Controller {
	sub := opts.SubMode
	if sub == "" {
		sub = trend.SubModeKeywords
	}
	return &Controller{
		mode:        opts.Mode,
		subMode:     sub,
		rescanHours: trend.ClampHours(opts.RescanHours),
		history:     history.NewStore(opts.HistoryLimit),
	}
}

// reset discards the result list and invalidates every outstanding request.
func (c *Controller) reset() {
	c.items = nil
	c.loading = false
	c.syncing = false
	c.epoch++
}

// SetMode switches tabs. The result list does not survive a tab change.
func (c *Controller) SetMode(m trend.Mode) {
	if m == c.mode {
		return
	}
	c.mode = m
	c.err = ""
	c.reset()
}

// SetSubMode switches the deep scan target kind and clears the list, since
// keyword and username results are not comparable.
func (c *Controller) SetSubMode(s trend.SubMode) {
	if s == c.subMode {
		return
	}
	c.subMode = s
	c.reset()
}

// SetQuery updates the query. A different query invalidates outstanding
// requests, so nothing is loading afterwards; the list stays in place.
func (c *Controller) SetQuery(q string) {
	if q == c.query {
		return
	}
	c.query = q
	c.loading = false
	c.syncing = false
	c.epoch++
}

// SetRescanHours parses raw and stores the clamped value.
func (c *Controller) SetRescanHours(raw string) int {
	c.rescanHours = trend.ClampRescanHours(raw)
	return c.rescanHours
}

func (c *Controller) fail(err error) error {
	c.err = err.Error()
	return err
}

// PrepareSearch validates the query and builds the request for the trends or
// deep tab. On success the list is cleared and loading starts.
func (c *Controller) PrepareSearch() (SearchRequest, error) {
	if c.mode == trend.ModeProfiles {
		return SearchRequest{}, c.fail(ErrWrongMode)
	}
	target := strings.TrimSpace(c.query)
	if target == "" {
		return SearchRequest{}, c.fail(ErrEmptyQuery)
	}

	mode := trend.SubModeKeywords
	if c.mode == trend.ModeDeep {
		mode = c.subMode
	}

	c.reset()
	c.err = ""
	c.loading = true

	return SearchRequest{
		SearchParams: api.SearchParams{
			Target:      target,
			Mode:        mode,
			IsDeep:      c.mode == trend.ModeDeep,
			RescanHours: trend.ClampHours(c.rescanHours),
		},
		Epoch: c.epoch,
	}, nil
}

// PrepareProfile extracts the handle from the query and builds the request.
// The current report stays on screen until the new one arrives.
func (c *Controller) PrepareProfile() (ProfileRequest, error) {
	if c.mode != trend.ModeProfiles {
		return ProfileRequest{}, c.fail(ErrWrongMode)
	}
	handle := trend.ExtractHandle(c.query)
	if handle == "" {
		return ProfileRequest{}, c.fail(ErrEmptyHandle)
	}

	c.epoch++
	c.err = ""
	c.loading = true
	return ProfileRequest{Handle: handle, Epoch: c.epoch}, nil
}

// ApplySearch installs a search response. It reports false when the
// response is stale and was dropped.
func (c *Controller) ApplySearch(req SearchRequest, items []trend.VideoItem, err error) bool {
	log := logging.Component("session")
	if req.Epoch != c.epoch {
		log.Debug().Str("target", req.Target).Uint64("epoch", req.Epoch).Msg("discarding stale search response")
		return false
	}
	c.loading = false

	if err != nil {
		c.items = nil
		c.err = api.Message(err)
		log.Warn().Err(err).Str("target", req.Target).Msg("search failed")
		return true
	}

	kept, rejected := trend.SanitizeItems(items)
	if rejected > 0 {
		log.Warn().Int("rejected", rejected).Str("target", req.Target).Msg("dropped items without a unique url")
	}
	trend.SeedInitialStats(kept)
	c.items = kept
	c.err = ""
	return true
}

// ApplyProfile installs a profile report and records it in the history.
func (c *Controller) ApplyProfile(req ProfileRequest, report trend.ProfileReport, err error) bool {
	log := logging.Component("session")
	if req.Epoch != c.epoch {
		log.Debug().Str("handle", req.Handle).Msg("discarding stale profile response")
		return false
	}
	c.loading = false

	if err != nil {
		c.err = api.Message(err)
		log.Warn().Err(err).Str("handle", req.Handle).Msg("profile fetch failed")
		return true
	}
	if err := report.Validate(); err != nil {
		c.err = err.Error()
		log.Warn().Err(err).Str("handle", req.Handle).Msg("rejected profile report")
		return true
	}

	c.report = &report
	c.history.Upsert(report)
	c.err = ""
	return true
}

// ShowHistory puts a previously fetched report back on screen.
func (c *Controller) ShowHistory(handle string) bool {
	r, ok := c.history.Get(handle)
	if !ok {
		return false
	}
	c.report = &r
	return true
}

// PollActive reports whether reconciliation should be running.
func (c *Controller) PollActive() bool {
	return c.mode == trend.ModeDeep && len(c.items) > 0
}

// PollKey returns the key of the active poll, and false when polling
// should not run.
func (c *Controller) PollKey() (PollKey, bool) {
	if !c.PollActive() {
		return PollKey{}, false
	}
	return PollKey{Query: strings.TrimSpace(c.query), SubMode: c.subMode, Epoch: c.epoch}, true
}

// BeginSync claims the single sync slot. It returns false when polling is
// inactive or a sync is already outstanding.
func (c *Controller) BeginSync(silent bool) (SyncRequest, bool) {
	if !c.PollActive() || c.syncing {
		return SyncRequest{}, false
	}
	c.syncing = true
	if !silent {
		c.loading = true
	}
	return SyncRequest{
		Keyword: strings.TrimSpace(c.query),
		Mode:    c.subMode,
		Silent:  silent,
		Epoch:   c.epoch,
	}, true
}

// ApplySync merges a reconciliation response into the list and returns how
// many items were replaced. Failures are logged and otherwise ignored.
func (c *Controller) ApplySync(req SyncRequest, fetched []trend.VideoItem, err error) (int, bool) {
	log := logging.Component("session")
	if req.Epoch != c.epoch {
		log.Debug().Str("keyword", req.Keyword).Msg("discarding stale sync response")
		return 0, false
	}
	c.syncing = false
	if !req.Silent {
		c.loading = false
	}

	if err != nil {
		log.Warn().Err(err).Str("keyword", req.Keyword).Bool("manual", !req.Silent).Msg("reconciliation fetch failed")
		return 0, true
	}

	merged, changed := trend.Reconcile(c.items, fetched)
	c.items = merged
	if changed > 0 {
		log.Info().Str("keyword", req.Keyword).Int("updated", changed).Msg("merged rescanned items")
	}
	return changed, true
}

// ClearError drops the message shown to the user.
func (c *Controller) ClearError() {
	c.err = ""
}

func (c *Controller) Mode() trend.Mode       { return c.mode }
func (c *Controller) SubMode() trend.SubMode { return c.subMode }
func (c *Controller) Query() string          { return c.query }
func (c *Controller) RescanHours() int       { return c.rescanHours }
func (c *Controller) Loading() bool          { return c.loading }
func (c *Controller) Syncing() bool          { return c.syncing }
func (c *Controller) Err() string            { return c.err }
func (c *Controller) Epoch() uint64          { return c.epoch }
func (c *Controller) History() []trend.ProfileReport {
	return c.history.Entries()
}

// Items returns the current result list. Callers must not modify it.
func (c *Controller) Items() []trend.VideoItem {
	return c.items
}

// Report returns the profile report on screen, if any.
func (c *Controller) Report() (trend.ProfileReport, bool) {
	if c.report == nil {
		return trend.ProfileReport{}, false
	}
	return *c.report, true
}

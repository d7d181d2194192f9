package tui

import (
	"github.com/akycode08/xtrend-app/internal/session"
	"github.com/akycode08/xtrend-app/internal/trend"
)

type searchDoneMsg struct {
	req   session.SearchRequest
	items []trend.VideoItem
	err   error
}

type profileDoneMsg struct {
	req    session.ProfileRequest
	report trend.ProfileReport
	err    error
}

type syncDoneMsg struct {
	req   session.SyncRequest
	items []trend.VideoItem
	err   error
}

// pollTickMsg is posted by the reconciliation poller.
type pollTickMsg struct{}

type openErrMsg struct {
	err error
}

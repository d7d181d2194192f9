package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akycode08/xtrend-app/internal/trend"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", opts...)
}

func TestSearchSendsBodyAndDecodesItems(t *testing.T) {
	var got SearchParams
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/trends/search", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"url":"https://tiktok.com/@a/video/1","stats":{"playCount":10},"uts_score":0},
			{"url":"https://tiktok.com/@a/video/2","stats":{"playCount":20},"uts_score":4.2}
		]}`))
	})

	items, err := c.Search(context.Background(), SearchParams{
		Target: "bmw", Mode: trend.SubModeKeywords, IsDeep: true, RescanHours: 0,
	})
	require.NoError(t, err)

	assert.Equal(t, SearchParams{Target: "bmw", Mode: trend.SubModeKeywords, IsDeep: true, RescanHours: 1}, got)
	require.Len(t, items, 2)
	assert.Equal(t, int64(20), items[1].Stats.PlayCount)
	assert.Equal(t, 4.2, items[1].UTSScore)
}

func TestResultsQueryAndQuarantine(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/trends/results", r.URL.Path)
		assert.Equal(t, "bmw m5", r.URL.Query().Get("keyword"))
		assert.Equal(t, "username", r.URL.Query().Get("mode"))
		_, _ = w.Write([]byte(`{"items":[
			{"url":"u1","stats":{"playCount":5},"last_scanned_at":"2026-10-19T10:00:00"},
			{"url":"u2","last_scanned_at":"not a time"},
			{"url":"u3","stats":{"playCount":7}}
		]}`))
	})

	items, err := c.Results(context.Background(), "bmw m5", trend.SubModeUsername)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "u1", items[0].URL)
	assert.True(t, items[0].Rescanned())
	assert.Equal(t, "u3", items[1].URL)
	assert.False(t, items[1].Rescanned())
}

func TestResultsIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithRetryMaxElapsed(time.Second))

	_, err := c.Results(context.Background(), "bmw", trend.SubModeKeywords)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestProfileEscapesHandleAndValidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/profiles/foo.bar", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"author":{"username":"foo.bar","nickname":"Foo","followers":1200,"avatar":""},
			"metrics":{"avg_views":300,"engagement_rate":4.5,"efficiency_score":7,"status":"Stable","avg_viral_lift":1.8},
			"top_3_hits":[{"url":"v1","views":900}],
			"full_feed":[{"url":"v1","views":900},{"url":"v2","views":100}]
		}`))
	})

	report, err := c.Profile(context.Background(), "foo.bar")
	require.NoError(t, err)
	assert.Equal(t, "foo.bar", report.Handle())
	assert.Equal(t, 1.8, report.Metrics.AvgViralLift)
	require.Len(t, report.FullFeed, 2)
	assert.Equal(t, int64(900), report.FullFeed[0].Stats.PlayCount)
}

func TestProfileRejectsReportWithoutAuthor(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"author":{},"metrics":{}}`))
	})
	_, err := c.Profile(context.Background(), "ghost")
	require.Error(t, err)
}

func TestServerErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"profile not found or private"}`))
	})

	_, err := c.Profile(context.Background(), "ghost")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.False(t, apiErr.Retryable())
	assert.Equal(t, "profile not found or private", Message(err))
}

func TestSearchRetriesGatewayErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"items":[]}`))
	}, WithRetryMaxElapsed(10*time.Second))

	items, err := c.Search(context.Background(), SearchParams{Target: "x", Mode: trend.SubModeKeywords})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int32(2), calls.Load())
}

func TestConnectionRefusedMessage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(base+"/api", WithRetryMaxElapsed(0))
	_, err := c.Search(context.Background(), SearchParams{Target: "x"})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.Retryable())
	assert.Equal(t, "backend unreachable; check that it is running", Message(err))
}

func TestTimeoutMessage(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	}, WithTimeout(20*time.Millisecond), WithRetryMaxElapsed(0))
	defer close(release)

	_, err := c.Results(context.Background(), "x", trend.SubModeKeywords)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.Timeout())
	assert.Contains(t, Message(err), "waking up")
}

func TestMessageForPlainErrors(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "context canceled", Message(context.Canceled))
	assert.Equal(t, "server error (500 Internal Server Error)", Message(&Error{Op: "search", Status: 500}))
}

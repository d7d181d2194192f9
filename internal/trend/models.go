// Package trend holds the video and profile models plus the pure logic that
// operates on them: handle extraction, growth and rescan reconciliation.
package trend

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Stats holds the engagement counters reported for a video.
type Stats struct {
	PlayCount    int64 `json:"playCount"`
	DiggCount    int64 `json:"diggCount,omitempty"`
	CommentCount int64 `json:"commentCount,omitempty"`
	ShareCount   int64 `json:"shareCount,omitempty"`
}

// VideoItem is one scanned video. URL is its identity within a result list.
type VideoItem struct {
	ID              string     `json:"id,omitempty"`
	URL             string     `json:"url"`
	CoverURL        string     `json:"cover_url,omitempty"`
	Title           string     `json:"title,omitempty"`
	Description     string     `json:"description,omitempty"`
	AuthorUsername  string     `json:"author_username,omitempty"`
	AuthorFollowers int64      `json:"author_followers,omitempty"`
	Stats           Stats      `json:"stats"`
	InitialStats    *Stats     `json:"initial_stats,omitempty"`
	UTSScore        float64    `json:"uts_score"`
	AISummary       string     `json:"ai_summary,omitempty"`
	LastScannedAt   *time.Time `json:"last_scanned_at,omitempty"`
}

// Rescanned reports whether the record reflects a completed backend rescan.
func (v VideoItem) Rescanned() bool {
	return v.LastScannedAt != nil
}

// Caption returns the best text to show for the video.
func (v VideoItem) Caption() string {
	if v.Title != "" {
		return v.Title
	}
	if v.Description != "" {
		return v.Description
	}
	return "No description"
}

// wireItem mirrors the backend payload, which is looser than VideoItem:
// profile feeds put the play count in a root "views" field and timestamps
// may arrive without a zone.
type wireItem struct {
	ID              json.RawMessage `json:"id"`
	URL             string          `json:"url"`
	CoverURL        string          `json:"cover_url"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	AuthorUsername  string          `json:"author_username"`
	AuthorFollowers int64           `json:"author_followers"`
	Views           *int64          `json:"views"`
	Stats           *wireStats      `json:"stats"`
	InitialStats    *wireStats      `json:"initial_stats"`
	UTSScore        float64         `json:"uts_score"`
	AISummary       string          `json:"ai_summary"`
	LastScannedAt   string          `json:"last_scanned_at"`
}

// Profile feeds use likes/comments/shares instead of the TikTok names.
type wireStats struct {
	PlayCount    *int64 `json:"playCount"`
	DiggCount    int64  `json:"diggCount"`
	CommentCount int64  `json:"commentCount"`
	ShareCount   int64  `json:"shareCount"`
	Likes        int64  `json:"likes"`
	Comments     int64  `json:"comments"`
	Shares       int64  `json:"shares"`
}

func (w *wireStats) toStats() Stats {
	s := Stats{
		DiggCount:    firstNonZero(w.DiggCount, w.Likes),
		CommentCount: firstNonZero(w.CommentCount, w.Comments),
		ShareCount:   firstNonZero(w.ShareCount, w.Shares),
	}
	if w.PlayCount != nil {
		s.PlayCount = *w.PlayCount
	}
	return s
}

func firstNonZero(a, b int64) int64 {
	if a != 0 {
		return a
	}
	return b
}

func (v *VideoItem) UnmarshalJSON(data []byte) error {
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	item := VideoItem{
		ID:              rawID(w.ID),
		URL:             strings.TrimSpace(w.URL),
		CoverURL:        w.CoverURL,
		Title:           w.Title,
		Description:     w.Description,
		AuthorUsername:  w.AuthorUsername,
		AuthorFollowers: w.AuthorFollowers,
		UTSScore:        w.UTSScore,
		AISummary:       w.AISummary,
	}
	if item.UTSScore < 0 {
		item.UTSScore = 0
	}

	if w.Stats != nil {
		item.Stats = w.Stats.toStats()
	}
	if (w.Stats == nil || w.Stats.PlayCount == nil) && w.Views != nil {
		item.Stats.PlayCount = *w.Views
	}
	if w.InitialStats != nil {
		s := w.InitialStats.toStats()
		item.InitialStats = &s
	}

	if w.LastScannedAt != "" {
		t, err := parseTimestamp(w.LastScannedAt)
		if err != nil {
			return fmt.Errorf("item %s: last_scanned_at: %w", item.URL, err)
		}
		item.LastScannedAt = &t
	}

	*v = item
	return nil
}

func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// parseTimestamp accepts RFC 3339 and the naive UTC form the backend emits.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Author describes the creator behind a profile report.
type Author struct {
	Username  string `json:"username"`
	Nickname  string `json:"nickname,omitempty"`
	Followers int64  `json:"followers"`
	Avatar    string `json:"avatar,omitempty"`
}

// Metrics are computed server-side and displayed as-is.
type Metrics struct {
	AvgViews        int64   `json:"avg_views"`
	EngagementRate  float64 `json:"engagement_rate"`
	AvgViralLift    float64 `json:"avg_viral_lift"`
	EfficiencyScore float64 `json:"efficiency_score"`
	Status          string  `json:"status"`
}

// ProfileReport is one creator audit.
type ProfileReport struct {
	Author   Author      `json:"author"`
	Metrics  Metrics     `json:"metrics"`
	Top3Hits []VideoItem `json:"top_3_hits"`
	FullFeed []VideoItem `json:"full_feed"`
}

// Handle returns the author handle the report is keyed by.
func (r ProfileReport) Handle() string {
	return r.Author.Username
}

// Validate rejects reports the client cannot key or render.
func (r ProfileReport) Validate() error {
	if strings.TrimSpace(r.Author.Username) == "" {
		return fmt.Errorf("profile report: missing author username")
	}
	return nil
}

// SanitizeItems drops items without a url and repeated urls, keeping the
// first occurrence. It returns the kept items and how many were dropped.
func SanitizeItems(items []VideoItem) ([]VideoItem, int) {
	seen := make(map[string]bool, len(items))
	out := make([]VideoItem, 0, len(items))
	for _, it := range items {
		if it.URL == "" || seen[it.URL] {
			continue
		}
		seen[it.URL] = true
		out = append(out, it)
	}
	return out, len(items) - len(out)
}

// SeedInitialStats fills a missing Point A with the current stats. Items
// fresh from a search have not been rescanned, so both snapshots agree.
func SeedInitialStats(items []VideoItem) {
	for i := range items {
		if items[i].InitialStats == nil {
			s := items[i].Stats
			items[i].InitialStats = &s
		}
	}
}

package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/akycode08/xtrend-app/internal/trend"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
	}
	for _, tt := range tests {
		got := truncateStr(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateStrUTF8(t *testing.T) {
	got := truncateStr("日本語テスト", 5)
	want := "日本..."
	if got != want {
		t.Errorf("truncateStr(Japanese, 5) = %q, want %q", got, want)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-2 * 24 * time.Hour), "2d"},
	}
	for _, tt := range tests {
		got := relativeTime(tt.t)
		if got != tt.want {
			t.Errorf("relativeTime(%v ago) = %q, want %q", now.Sub(tt.t), got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{4800, "4.8K"},
		{12_345, "12.3K"},
		{4_100_000, "4.1M"},
		{2_000_000_000, "2.0B"},
	}
	for _, tt := range tests {
		if got := formatCount(tt.n); got != tt.want {
			t.Errorf("formatCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRenderCardBadges(t *testing.T) {
	ts := time.Now().Add(-10 * time.Minute)
	grown := trend.VideoItem{
		URL:           "u1",
		Title:         "street drift",
		Stats:         trend.Stats{PlayCount: 5000},
		InitialStats:  &trend.Stats{PlayCount: 200},
		UTSScore:      7.26,
		LastScannedAt: &ts,
	}
	card := renderCard(grown, false, 60)
	for _, want := range []string{"[7.3]", "+4.8K", "5.0K views", "rescanned 10m"} {
		if !strings.Contains(card, want) {
			t.Errorf("card missing %q:\n%s", want, card)
		}
	}

	fresh := trend.VideoItem{URL: "u2", Stats: trend.Stats{PlayCount: 10}}
	card = renderCard(fresh, true, 60)
	if !strings.Contains(card, "[WAIT]") {
		t.Errorf("unscored card should show WAIT:\n%s", card)
	}
	if !strings.Contains(card, "No description") {
		t.Errorf("card without text should fall back:\n%s", card)
	}
	if strings.Contains(card, "+") {
		t.Errorf("card without growth should have no badge:\n%s", card)
	}
}

func TestRenderDetailCover(t *testing.T) {
	v := trend.VideoItem{URL: "https://www.tiktok.com/@a/video/1"}
	out := renderDetail(&v, "https://xtrend-app.onrender.com", 100, 30, 0)
	if !strings.Contains(out, noCover) {
		t.Errorf("missing cover should show placeholder:\n%s", out)
	}

	v.CoverURL = "https://p16.tiktokcdn.com/a.jpeg"
	out = renderDetail(&v, "https://xtrend-app.onrender.com", 160, 30, 0)
	if !strings.Contains(out, "/api/images/proxy?url=") {
		t.Errorf("tiktokcdn cover should be proxied:\n%s", out)
	}
}

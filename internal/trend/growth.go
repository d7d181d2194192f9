package trend

import "fmt"

// Growth is the view delta between Point B (Stats) and Point A
// (InitialStats). A missing or zero Point A counts as equal to Point B, so
// missing data never produces a negative delta.
func Growth(v VideoItem) int64 {
	views := v.Stats.PlayCount
	initial := views
	if v.InitialStats != nil && v.InitialStats.PlayCount != 0 {
		initial = v.InitialStats.PlayCount
	}
	return views - initial
}

// HasGrowth reports whether the growth indicator should be shown.
func HasGrowth(v VideoItem) bool {
	return Growth(v) > 0
}

// UTSLabel renders the score badge; unscored items wait for the backend.
func UTSLabel(score float64) string {
	if score > 0 {
		return fmt.Sprintf("%.1f", score)
	}
	return "WAIT"
}

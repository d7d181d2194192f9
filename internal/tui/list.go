package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/akycode08/xtrend-app/internal/trend"
)

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

// formatCount shortens view and follower counts: 950, 12.3K, 4.1M.
func formatCount(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1e9)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1e6)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1e3)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func utsBadge(score float64) string {
	label := trend.UTSLabel(score)
	if score == 0 {
		return utsWaitStyle.Render("[" + label + "]")
	}
	return utsStyle.Render("[" + label + "]")
}

func growthBadge(v trend.VideoItem) string {
	if !trend.HasGrowth(v) {
		return ""
	}
	return growthStyle.Render("+" + formatCount(trend.Growth(v)))
}

func renderCard(v trend.VideoItem, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	caption := truncateStr(v.Caption(), width-11)
	var title string
	if selected {
		title = itemSelectedStyle.Render("> ") + utsBadge(v.UTSScore) + " " + itemSelectedStyle.Render(caption)
	} else {
		title = "  " + utsBadge(v.UTSScore) + " " + itemTitleStyle.Render(caption)
	}

	meta := []string{formatCount(v.Stats.PlayCount) + " views"}
	if g := growthBadge(v); g != "" {
		meta = append(meta, g)
	}
	if v.AuthorUsername != "" {
		meta = append(meta, "@"+v.AuthorUsername)
	}
	if v.Rescanned() {
		meta = append(meta, "rescanned "+relativeTime(*v.LastScannedAt))
	}

	return title + "\n  " + itemMetaStyle.Render(strings.Join(meta, " · "))
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func renderList(items []trend.VideoItem, cursor int, height int, width int, empty string) string {
	if len(items) == 0 {
		return lipglossCenter(empty, width, height)
	}

	// Each card is 2 lines + 1 blank line
	itemHeight := 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(items) {
		end = len(items)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderCard(items[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}

	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - len([]rune(s))) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/akycode08/xtrend-app/internal/api"
	"github.com/akycode08/xtrend-app/internal/trend"
)

const noCover = "[no cover]"

func detailRow(label, value string) string {
	return detailLabelStyle.Render(label) + value
}

// renderDetail shows one video: both snapshots, the growth between them and
// the links the user can open.
func renderDetail(v *trend.VideoItem, origin string, width, height, scroll int) string {
	if v == nil {
		return lipglossCenter("Select a video", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := detailTitleStyle.Width(contentWidth).Render(v.Caption())

	var author string
	if v.AuthorUsername != "" {
		author = detailAuthorStyle.Render("@" + v.AuthorUsername)
		if v.AuthorFollowers > 0 {
			author += itemMetaStyle.Render(fmt.Sprintf(" · %s followers", formatCount(v.AuthorFollowers)))
		}
	}

	pointA := v.Stats.PlayCount
	if v.InitialStats != nil && v.InitialStats.PlayCount != 0 {
		pointA = v.InitialStats.PlayCount
	}
	growth := itemMetaStyle.Render("no growth yet")
	if g := growthBadge(*v); g != "" {
		growth = g
	}

	scanned := itemMetaStyle.Render("awaiting rescan")
	if v.Rescanned() {
		scanned = v.LastScannedAt.Local().Format("Jan 2 15:04") + itemMetaStyle.Render(" ("+relativeTime(*v.LastScannedAt)+" ago)")
	}

	rows := []string{
		detailRow("UTS", utsBadge(v.UTSScore)),
		detailRow("Point A", formatCount(pointA)+" views"),
		detailRow("Point B", formatCount(v.Stats.PlayCount)+" views"),
		detailRow("Growth", growth),
		detailRow("Rescanned", scanned),
		detailRow("Engagement", fmt.Sprintf("%s likes · %s comments · %s shares",
			formatCount(v.Stats.DiggCount), formatCount(v.Stats.CommentCount), formatCount(v.Stats.ShareCount))),
	}

	parts := []string{title}
	if author != "" {
		parts = append(parts, author, "")
	}
	parts = append(parts, rows...)

	if v.AISummary != "" {
		parts = append(parts, "", detailBodyStyle.Width(contentWidth).Render(wrapText(v.AISummary, contentWidth)))
	}
	if v.Description != "" && v.Description != v.Caption() {
		parts = append(parts, "", detailBodyStyle.Width(contentWidth).Render(wrapText(v.Description, contentWidth)))
	}

	cover := placeholderStyle.Render(noCover)
	if u := api.ImageURL(origin, v.CoverURL); u != "" {
		cover = truncateStr(u, contentWidth-12)
	}
	parts = append(parts, "",
		detailLinkStyle.Render(truncateStr("Video: "+v.URL, contentWidth)),
		detailLinkStyle.Render("Cover: ")+cover,
	)

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return clip(content, height, scroll)
}

// clip applies a scroll offset and pads or cuts content to height lines.
func clip(content string, height, scroll int) string {
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

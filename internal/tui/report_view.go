package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/akycode08/xtrend-app/internal/trend"
)

// renderReport draws the audit summary for a creator: who they are, the
// backend's metrics and their three strongest videos.
func renderReport(r *trend.ProfileReport, width, height, scroll int) string {
	if r == nil {
		return lipglossCenter("Enter a handle or profile link", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	name := r.Author.Nickname
	if name == "" {
		name = r.Author.Username
	}
	lines := []string{
		detailTitleStyle.Render(name),
		detailAuthorStyle.Render("@"+r.Author.Username) +
			itemMetaStyle.Render(fmt.Sprintf(" · %s followers", formatCount(r.Author.Followers))),
		"",
		reportHeadingStyle.Render("Metrics"),
		detailRow("Avg views", reportValueStyle.Render(formatCount(r.Metrics.AvgViews))),
		detailRow("Engagement", reportValueStyle.Render(fmt.Sprintf("%.2f%%", r.Metrics.EngagementRate))),
		detailRow("Viral lift", reportValueStyle.Render(fmt.Sprintf("%.2fx", r.Metrics.AvgViralLift))),
		detailRow("Efficiency", reportValueStyle.Render(fmt.Sprintf("%.1f", r.Metrics.EfficiencyScore))),
	}
	if r.Metrics.Status != "" {
		lines = append(lines, detailRow("Status", r.Metrics.Status))
	}

	if len(r.Top3Hits) > 0 {
		lines = append(lines, "", reportHeadingStyle.Render("Top hits"))
		for i, v := range r.Top3Hits {
			lines = append(lines, fmt.Sprintf("%d. %s %s",
				i+1,
				reportValueStyle.Render(formatCount(v.Stats.PlayCount)),
				truncateStr(v.Caption(), contentWidth-12),
			))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return clip(content, height, scroll)
}

// renderHistory lists the reports fetched this session, newest first.
func renderHistory(entries []trend.ProfileReport, cursor, height, width int) string {
	if len(entries) == 0 {
		return lipglossCenter("No profiles viewed yet", width, height)
	}

	var b strings.Builder
	b.WriteString(reportHeadingStyle.Render("History"))
	for i, r := range entries {
		line := fmt.Sprintf("@%s · %s followers", r.Author.Username, formatCount(r.Author.Followers))
		line = truncateStr(line, width-2)
		if i == cursor {
			b.WriteString("\n" + itemSelectedStyle.Render("> "+line))
		} else {
			b.WriteString("\n  " + itemTitleStyle.Render(line))
		}
	}
	return clip(b.String(), height, 0)
}

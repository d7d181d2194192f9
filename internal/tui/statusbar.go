package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type statusInfo struct {
	count   int
	live    bool
	syncing bool
	loading bool
	spinner string
	hints   string
}

func renderStatusBar(s statusInfo, width int) string {
	left := ""
	if s.count > 0 {
		left = fmt.Sprintf("%d OBJECTS IDENTIFIED", s.count)
	}
	if s.live {
		left += " · " + statusLiveStyle.Render("Monitoring live viral growth")
	}
	switch {
	case s.loading:
		if left != "" {
			left = " · " + left
		}
		left = s.spinner + " scanning..." + left
	case s.syncing:
		left += " (syncing)"
	}

	right := " " + s.hints + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/akycode08/xtrend-app/internal/trend"
)

var asciiLogo = []string{
	`██╗  ██╗████████╗██████╗ ███████╗███╗   ██╗██████╗ `,
	`╚██╗██╔╝╚══██╔══╝██╔══██╗██╔════╝████╗  ██║██╔══██╗`,
	` ╚███╔╝    ██║   ██████╔╝█████╗  ██╔██╗ ██║██║  ██║`,
	` ██╔██╗    ██║   ██╔══██╗██╔══╝  ██║╚██╗██║██║  ██║`,
	`██╔╝ ██╗   ██║   ██║  ██║███████╗██║ ╚████║██████╔╝`,
	`╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝╚══════╝╚═╝  ╚═══╝╚═════╝ `,
}

var tabBlurbs = map[trend.Mode]string{
	trend.ModeTrends:   "Search a keyword to find what is trending right now.",
	trend.ModeProfiles: "Paste a profile link or @handle for a live audit.",
	trend.ModeDeep:     "Scan a keyword or creator, then watch views grow between rescans.",
}

// renderHomeScreen fills the content area while there is nothing to list.
func renderHomeScreen(mode trend.Mode, width, height int) string {
	logoStyle := lipgloss.NewStyle().Foreground(colorAccent)
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(colorText)

	var lines []string
	for _, l := range asciiLogo {
		lines = append(lines, logoStyle.Render(l))
	}
	lines = append(lines, "", labelStyle.Render(tabBlurbs[mode]), "")

	lines = append(lines, keyStyle.Render("[/]")+"  "+labelStyle.Render("Type a query"))
	lines = append(lines, keyStyle.Render("[tab]")+"  "+labelStyle.Render("Switch tab"))
	if mode == trend.ModeDeep {
		lines = append(lines, keyStyle.Render("[m]")+"  "+labelStyle.Render("Toggle keywords / username"))
		lines = append(lines, keyStyle.Render("[r]")+"  "+labelStyle.Render("Set rescan hours"))
	}
	lines = append(lines, keyStyle.Render("[q]")+"  "+labelStyle.Render("Quit"))

	content := strings.Join(lines, "\n")
	contentHeight := strings.Count(content, "\n") + 1

	topPad := (height - contentHeight) / 3
	if topPad < 0 {
		topPad = 0
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		strings.Repeat("\n", topPad)+content)
}

package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/akycode08/xtrend-app/internal/trend"
)

var tabOrder = []trend.Mode{trend.ModeTrends, trend.ModeProfiles, trend.ModeDeep}

var tabLabels = map[trend.Mode]string{
	trend.ModeTrends:   "Trends",
	trend.ModeProfiles: "Profiles",
	trend.ModeDeep:     "Deep Scan",
}

func nextTab(m trend.Mode) trend.Mode {
	for i, t := range tabOrder {
		if t == m {
			return tabOrder[(i+1)%len(tabOrder)]
		}
	}
	return trend.ModeTrends
}

// renderTabBar draws the tabs, and for the deep tab the sub-mode and rescan
// interval it will scan with.
func renderTabBar(active trend.Mode, sub trend.SubMode, hours int, width int) string {
	sep := tabSeparatorStyle.Render(" · ")

	var row string
	for i, m := range tabOrder {
		style := tabInactiveStyle
		if m == active {
			style = tabActiveStyle
		}
		part := style.Render(fmt.Sprintf("%d %s", i+1, tabLabels[m]))
		if i > 0 {
			row += sep
		}
		row += part
	}

	if active == trend.ModeDeep {
		row += "   " + itemMetaStyle.Render(fmt.Sprintf("target: %s · rescan every %dh", sub, hours))
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}

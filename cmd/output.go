package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/akycode08/xtrend-app/internal/trend"
)

var (
	headingColor = color.New(color.FgMagenta, color.Bold)
	growthColor  = color.New(color.FgGreen, color.Bold)
	dimColor     = color.New(color.Faint)
	warnColor    = color.New(color.FgYellow)
)

// newTable builds a borderless left-aligned table.
func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := newTable(w)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("building table: %w", err)
	}
	return table.Render()
}

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

func growthCell(v trend.VideoItem) string {
	if !trend.HasGrowth(v) {
		return "-"
	}
	return growthColor.Sprint("+" + formatCount(trend.Growth(v)))
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// itemRows renders a result list as table rows.
func itemRows(items []trend.VideoItem) [][]string {
	rows := make([][]string, 0, len(items))
	for i, v := range items {
		scanned := "-"
		if v.Rescanned() {
			scanned = v.LastScannedAt.Local().Format("Jan 2 15:04")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			trend.UTSLabel(v.UTSScore),
			formatCount(v.Stats.PlayCount),
			growthCell(v),
			scanned,
			truncate(v.Caption(), 40),
			v.URL,
		})
	}
	return rows
}

var itemHeader = []string{"#", "UTS", "Views", "Growth", "Rescanned", "Caption", "URL"}

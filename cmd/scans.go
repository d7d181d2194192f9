package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/akycode08/xtrend-app/internal/cache"
	"github.com/akycode08/xtrend-app/internal/config"
)

var (
	flagScansLimit int
	flagScansSince string
	flagScansQuery string
)

var scansCmd = &cobra.Command{
	Use:   "scans",
	Short: "List scans issued from this machine",
	Long: `Print the local scan journal, newest first. Only what was asked and when is
recorded; result lists are never stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cache.QueryOpts{Limit: flagScansLimit, Query: flagScansQuery}
		if flagScansSince != "" {
			d, err := config.ParseDays(flagScansSince)
			if err != nil {
				return fmt.Errorf("invalid --since value: %w", err)
			}
			opts.Since = time.Now().Add(-d)
		}

		return withJournal(cmd, func(ctx context.Context, _ *config.Config, db *cache.Cache) error {
			scans, err := db.GetScans(ctx, opts)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(scans) == 0 {
				fmt.Fprintln(w, "No scans recorded.")
				return nil
			}
			return renderTable(w, []string{"Started", "Query", "Mode", "Deep", "Rescan", "Items"}, scanRows(scans))
		})
	},
}

func init() {
	scansCmd.Flags().IntVarP(&flagScansLimit, "limit", "n", 20, "maximum scans to list")
	scansCmd.Flags().StringVar(&flagScansSince, "since", "", "only scans from the last duration (e.g., 7d, 24h)")
	scansCmd.Flags().StringVar(&flagScansQuery, "query", "", "only scans whose query contains this text")
}

func scanRows(scans []cache.Scan) [][]string {
	rows := make([][]string, 0, len(scans))
	for _, s := range scans {
		deep := "no"
		rescan := "-"
		if s.Deep {
			deep = "yes"
			rescan = strconv.Itoa(s.RescanHours) + "h"
		}
		rows = append(rows, []string{
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			s.Query,
			s.Mode,
			deep,
			rescan,
			strconv.Itoa(s.ItemCount),
		})
	}
	return rows
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/akycode08/xtrend-app/internal/cache"
	"github.com/akycode08/xtrend-app/internal/config"
)

var flagPruneOlderThan string

// withJournal opens the scan journal for maintenance commands. Unlike the
// scanning commands these fail when the journal is unavailable.
func withJournal(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, db *cache.Cache) error) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	db, err := cache.Open(config.CachePath())
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer db.Close()
	return fn(commandContext(cmd), cfg, db)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop old entries from the scan journal",
	Long: `Delete journaled scans older than the configured retention (default 90d)
and compact the database file. --older-than overrides the retention.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJournal(cmd, func(_ context.Context, cfg *config.Config, db *cache.Cache) error {
			retention, err := pruneRetention(cfg, flagPruneOlderThan)
			if err != nil {
				return err
			}
			deleted, err := db.Prune(retention)
			if err != nil {
				return fmt.Errorf("pruning journal: %w", err)
			}
			printPruned(cmd.OutOrStdout(), deleted, retention)
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show scan journal statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJournal(cmd, func(_ context.Context, _ *config.Config, db *cache.Cache) error {
			path := config.CachePath()
			count, size, err := db.Stats(path)
			if err != nil {
				return fmt.Errorf("reading journal stats: %w", err)
			}
			last, ok := db.LastScan()
			return renderTable(cmd.OutOrStdout(), []string{"Journal", ""}, statsRows(path, count, size, last, ok))
		})
	},
}

func init() {
	pruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override retention period (e.g., 30d, 720h)")
}

func pruneRetention(cfg *config.Config, override string) (time.Duration, error) {
	if override == "" {
		return cfg.RetentionDuration(), nil
	}
	d, err := config.ParseDays(override)
	if err != nil {
		return 0, fmt.Errorf("invalid --older-than value: %w", err)
	}
	return d, nil
}

func printPruned(w io.Writer, deleted int64, retention time.Duration) {
	if deleted == 0 {
		fmt.Fprintln(w, dimColor.Sprintf("No scans older than %s.", formatDuration(retention)))
		return
	}
	fmt.Fprintf(w, "Pruned %d scan(s) older than %s.\n", deleted, formatDuration(retention))
}

func statsRows(path string, count int, size int64, last time.Time, hasLast bool) [][]string {
	lastCell := "never"
	if hasLast {
		lastCell = last.Local().Format("2006-01-02 15:04")
	}
	return [][]string{
		{"path", path},
		{"scans", fmt.Sprintf("%d", count)},
		{"size", formatBytes(size)},
		{"last scan", lastCell},
		{"log", config.LogPath()},
	}
}

func formatDuration(d time.Duration) string {
	if days := int(d / (24 * time.Hour)); days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(d/time.Hour))
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	if b < unit*unit {
		return fmt.Sprintf("%.1f KB", float64(b)/unit)
	}
	return fmt.Sprintf("%.1f MB", float64(b)/(unit*unit))
}

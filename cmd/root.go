package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/akycode08/xtrend-app/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig   string
	flagLocal    bool
	flagLogLevel string
	flagNoColor  bool

	flagTab   string
	flagQuery string

	flagCheckUpdate bool
)

var rootCmd = &cobra.Command{
	Use:   "xtrend",
	Short: "Terminal client for short-video trend scanning",
	Long: `xtrend searches trending short videos, audits creator profiles and runs
deep scans that track how view counts grow between a video's first
snapshot and a later backend rescan.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&flagLocal, "local", false, "use the local backend regardless of config")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	rootCmd.Flags().StringVar(&flagTab, "tab", "trends", "tab to open (trends, profiles, deep)")
	rootCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "run this query as soon as the TUI starts")

	versionCmd.Flags().BoolVar(&flagCheckUpdate, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(scansCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "xtrend %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheckUpdate {
			return nil
		}
		return printUpdate(commandContext(cmd), out, update.Checker{}, version)
	},
}

func printUpdate(ctx context.Context, out io.Writer, checker update.Checker, current string) error {
	res, err := checker.Check(ctx, current)
	if err != nil {
		return err
	}
	if res == nil {
		fmt.Fprintln(out, dimColor.Sprint("up to date"))
		return nil
	}
	fmt.Fprintf(out, "%s %s\n", growthColor.Sprintf("update available: v%s", res.LatestVersion), res.URL)
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

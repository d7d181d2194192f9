package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akycode08/xtrend-app/internal/api"
	"github.com/akycode08/xtrend-app/internal/session"
	"github.com/akycode08/xtrend-app/internal/trend"
)

var (
	flagSearchDeep  bool
	flagSearchMode  string
	flagSearchHours string
	flagSearchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search trending videos and print the results",
	Long: `Run one trend search and print the result list.

With --deep the backend also schedules a rescan; use "xtrend watch" to follow
the growth, or re-run the deep tab later.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sub, err := trend.ParseSubMode(flagSearchMode)
		if err != nil {
			return err
		}

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		var journal session.Journal
		if db := e.openJournal(); db != nil {
			defer db.Close()
			journal = db
		}

		mode := trend.ModeTrends
		if flagSearchDeep {
			mode = trend.ModeDeep
		}
		ctrl := session.NewController(session.Options{Mode: mode, SubMode: sub, RescanHours: e.cfg.GetRescanHours()})
		if flagSearchHours != "" {
			ctrl.SetRescanHours(flagSearchHours)
		}
		ctrl.SetQuery(strings.Join(args, " "))

		req, err := ctrl.PrepareSearch()
		if err != nil {
			return err
		}

		d := session.NewDispatcher(e.client, journal)
		items, err := d.Search(commandContext(cmd), req)
		ctrl.ApplySearch(req, items, err)
		if err != nil {
			return fmt.Errorf("search %q: %s", req.Target, api.Message(err))
		}

		return printItems(cmd.OutOrStdout(), ctrl.Items(), flagSearchJSON)
	},
}

func init() {
	searchCmd.Flags().BoolVar(&flagSearchDeep, "deep", false, "schedule a deep rescan of the results")
	searchCmd.Flags().StringVar(&flagSearchMode, "mode", "keywords", "deep scan target kind (keywords, username)")
	searchCmd.Flags().StringVar(&flagSearchHours, "hours", "", "rescan interval in hours (minimum 1)")
	searchCmd.Flags().BoolVar(&flagSearchJSON, "json", false, "print results as JSON")
}

func printItems(w io.Writer, items []trend.VideoItem, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "No videos found.")
		return nil
	}
	if err := renderTable(w, itemHeader, itemRows(items)); err != nil {
		return err
	}
	fmt.Fprintln(w, headingColor.Sprintf("%d OBJECTS IDENTIFIED", len(items)))
	return nil
}

// commandContext falls back to Background for commands run outside Execute
// (tests call RunE directly).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akycode08/xtrend-app/internal/session"
	"github.com/akycode08/xtrend-app/internal/trend"
	"github.com/akycode08/xtrend-app/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	mode, err := trend.ParseMode(flagTab)
	if err != nil {
		return fmt.Errorf("invalid --tab value: %w", err)
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	var journal session.Journal
	if db := e.openJournal(); db != nil {
		defer db.Close()
		// Auto-prune the journal on launch
		db.Prune(e.cfg.RetentionDuration())
		journal = db
	}

	return tui.Run(tui.RunOpts{
		Dispatcher: session.NewDispatcher(e.client, journal),
		Session: session.Options{
			Mode:         mode,
			SubMode:      trend.SubModeKeywords,
			RescanHours:  e.cfg.GetRescanHours(),
			HistoryLimit: e.cfg.HistoryLimit,
		},
		BaseURL:      e.baseURL,
		Origin:       e.origin,
		PollInterval: e.cfg.PollDuration(),
		Query:        flagQuery,
		Submit:       flagQuery != "",
	})
}

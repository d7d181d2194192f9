package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/akycode08/xtrend-app/internal/api"
	"github.com/akycode08/xtrend-app/internal/session"
	"github.com/akycode08/xtrend-app/internal/trend"
)

var flagProfileParallel int

var profileCmd = &cobra.Command{
	Use:   "profile <handle|link>...",
	Short: "Audit one or more creator profiles",
	Long: `Fetch a live audit report for each handle. Handles may be given as @name,
name or a full profile link. Several handles are fetched in parallel and
printed in the order given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		reports, errs := fetchProfiles(commandContext(cmd), session.NewDispatcher(e.client, nil), args, flagProfileParallel)

		w := cmd.OutOrStdout()
		failed := 0
		for i, arg := range args {
			if errs[i] != nil {
				failed++
				warnColor.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", arg, errs[i])
				continue
			}
			printReport(w, reports[i])
		}
		if failed == len(args) {
			return fmt.Errorf("no profile could be fetched")
		}
		return nil
	},
}

func init() {
	profileCmd.Flags().IntVar(&flagProfileParallel, "parallel", 4, "maximum concurrent profile fetches")
}

// fetchProfiles runs one controller per handle so each request is validated
// and applied exactly as the TUI does. Results and errors are index-aligned
// with args.
func fetchProfiles(ctx context.Context, d *session.Dispatcher, args []string, parallel int) ([]trend.ProfileReport, []error) {
	reports := make([]trend.ProfileReport, len(args))
	errs := make([]error, len(args))

	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, arg := range args {
		ctrl := session.NewController(session.Options{Mode: trend.ModeProfiles})
		ctrl.SetQuery(arg)
		req, err := ctrl.PrepareProfile()
		if err != nil {
			errs[i] = err
			continue
		}
		g.Go(func() error {
			report, err := d.Profile(gctx, req)
			ctrl.ApplyProfile(req, report, err)
			if err != nil {
				errs[i] = fmt.Errorf("%s", api.Message(err))
				return nil
			}
			if r, ok := ctrl.Report(); ok {
				reports[i] = r
			} else {
				errs[i] = fmt.Errorf("%s", ctrl.Err())
			}
			return nil
		})
	}
	g.Wait()
	return reports, errs
}

func printReport(w io.Writer, r trend.ProfileReport) {
	name := r.Author.Nickname
	if name == "" {
		name = r.Author.Username
	}
	headingColor.Fprintf(w, "%s ", name)
	fmt.Fprintf(w, "@%s · %s followers\n", r.Author.Username, formatCount(r.Author.Followers))

	m := r.Metrics
	fmt.Fprintf(w, "  avg views %s · engagement %.2f%% · viral lift %.2fx · efficiency %.1f",
		formatCount(m.AvgViews), m.EngagementRate, m.AvgViralLift, m.EfficiencyScore)
	if m.Status != "" {
		fmt.Fprintf(w, " · %s", m.Status)
	}
	fmt.Fprintln(w)

	for i, v := range r.Top3Hits {
		fmt.Fprintf(w, "  %d. %s views  %s\n", i+1, formatCount(v.Stats.PlayCount), truncate(v.Caption(), 60))
		fmt.Fprintf(w, "     %s\n", dimColor.Sprint(v.URL))
	}
	fmt.Fprintf(w, "  %s\n\n", dimColor.Sprintf("%d videos in feed", len(r.FullFeed)))
}

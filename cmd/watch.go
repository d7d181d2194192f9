package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/akycode08/xtrend-app/internal/api"
	"github.com/akycode08/xtrend-app/internal/logging"
	"github.com/akycode08/xtrend-app/internal/poller"
	"github.com/akycode08/xtrend-app/internal/session"
	"github.com/akycode08/xtrend-app/internal/trend"
)

var (
	flagWatchMode     string
	flagWatchHours    string
	flagWatchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <query>",
	Short: "Start a deep scan and follow rescans as they land",
	Long: `Start a deep scan, then poll the backend for rescanned videos and print
every growth update until interrupted. Press Enter to sync immediately.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sub, err := trend.ParseSubMode(flagWatchMode)
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

		ctrl := session.NewController(session.Options{
			Mode:        trend.ModeDeep,
			SubMode:     sub,
			RescanHours: e.cfg.GetRescanHours(),
		})
		if flagWatchHours != "" {
			ctrl.SetRescanHours(flagWatchHours)
		}
		ctrl.SetQuery(strings.Join(args, " "))

		interval := e.cfg.PollDuration()
		if flagWatchInterval > 0 {
			interval = flagWatchInterval
		}

		w := &watcher{
			ctrl: ctrl,
			disp: session.NewDispatcher(e.client, journal),
			out:  cmd.OutOrStdout(),
		}
		return w.run(commandContext(cmd), interval, cmd.InOrStdin())
	},
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchMode, "mode", "keywords", "scan target kind (keywords, username)")
	watchCmd.Flags().StringVar(&flagWatchHours, "hours", "", "rescan interval in hours (minimum 1)")
	watchCmd.Flags().DurationVar(&flagWatchInterval, "interval", 0, "poll interval (default from config)")
}

// watcher drives a controller without a UI. After the initial search the
// controller is only touched from poller runs, which never overlap.
type watcher struct {
	ctrl *session.Controller
	disp *session.Dispatcher
	out  io.Writer

	mu   sync.Mutex // serializes writes to out
	seen map[string]int64
}

func (w *watcher) printf(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, format, args...)
}

func (w *watcher) run(ctx context.Context, interval time.Duration, in io.Reader) error {
	req, err := w.ctrl.PrepareSearch()
	if err != nil {
		return err
	}
	items, err := w.disp.Search(ctx, req)
	w.ctrl.ApplySearch(req, items, err)
	if err != nil {
		return fmt.Errorf("search %q: %s", req.Target, api.Message(err))
	}

	current := w.ctrl.Items()
	if len(current) == 0 {
		fmt.Fprintln(w.out, "No videos found; nothing to watch.")
		return nil
	}
	if err := renderTable(w.out, itemHeader, itemRows(current)); err != nil {
		return err
	}
	w.seen = make(map[string]int64, len(current))
	for _, v := range current {
		w.seen[v.URL] = trend.Growth(v)
	}
	w.printf("%s · %s\n",
		headingColor.Sprintf("%d OBJECTS IDENTIFIED", len(current)),
		growthColor.Sprint("Monitoring live viral growth"))
	w.printf("%s\n", dimColor.Sprintf("polling every %s, rescan every %dh; Enter to sync, Ctrl+C to stop", interval, req.RescanHours))

	p := poller.New("watch", interval, w.tick)
	p.Start(ctx)
	defer p.Stop()

	if in != nil {
		go readTriggers(ctx, in, p)
	}

	<-ctx.Done()
	return nil
}

// tick is one reconciliation run on the poller goroutine.
func (w *watcher) tick(ctx context.Context, manual bool) {
	req, ok := w.ctrl.BeginSync(!manual)
	if !ok {
		return
	}
	fetched, err := w.disp.Results(ctx, req)
	changed, _ := w.ctrl.ApplySync(req, fetched, err)
	if err != nil {
		if manual {
			w.printf("%s\n", warnColor.Sprintf("sync failed: %s", api.Message(err)))
		}
		return
	}
	if changed == 0 || w.report(w.ctrl.Items()) == 0 {
		if manual {
			w.printf("%s\n", dimColor.Sprint("no new rescans"))
		}
	}
}

// report prints items whose growth moved since the last report and returns
// how many it printed.
func (w *watcher) report(items []trend.VideoItem) int {
	stamp := time.Now().Format("15:04:05")
	printed := 0
	for _, v := range items {
		g := trend.Growth(v)
		if g == w.seen[v.URL] {
			continue
		}
		w.seen[v.URL] = g
		printed++
		w.printf("%s %s %s views (%s)  %s\n",
			dimColor.Sprint(stamp),
			growthCell(v),
			formatCount(v.Stats.PlayCount),
			"UTS "+trend.UTSLabel(v.UTSScore),
			truncate(v.Caption(), 50),
		)
	}
	return printed
}

// readTriggers turns each input line into a manual sync.
func readTriggers(ctx context.Context, in io.Reader, p *poller.Poller) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		p.Trigger()
	}
	if err := sc.Err(); err != nil {
		log := logging.Component("watch")
		log.Debug().Err(err).Msg("trigger input closed")
	}
}

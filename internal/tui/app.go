package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/akycode08/xtrend-app/internal/api"
	"github.com/akycode08/xtrend-app/internal/browser"
	"github.com/akycode08/xtrend-app/internal/logging"
	"github.com/akycode08/xtrend-app/internal/poller"
	"github.com/akycode08/xtrend-app/internal/session"
	"github.com/akycode08/xtrend-app/internal/trend"
)

type inputFocus int

const (
	focusNone inputFocus = iota
	focusQuery
	focusHours
)

type App struct {
	ctrl   *session.Controller
	disp   *session.Dispatcher
	origin string
	host   string
	open   browser.Opener

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	pollInterval time.Duration
	poll         *poller.Poller
	pollKey      session.PollKey
	pollCh       chan struct{}

	width  int
	height int

	cursor        int
	detailScroll  int
	historyCursor int
	showHistory   bool
	focus         inputFocus
	submitOnStart bool

	// Sub-components
	queryInput textinput.Model
	hoursInput textinput.Model
	spinner    spinner.Model

	err error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Dispatcher   *session.Dispatcher
	Session      session.Options
	BaseURL      string
	Origin       string
	PollInterval time.Duration
	Opener       browser.Opener
	Query        string
	Submit       bool
}

func NewApp(opts RunOpts) *App {
	ctrl := session.NewController(opts.Session)

	qi := textinput.New()
	qi.Placeholder = "keyword, @handle or profile link"
	qi.Prompt = searchPromptStyle.Render("/ ")
	qi.CharLimit = 200
	qi.SetValue(opts.Query)

	hi := textinput.New()
	hi.Prompt = searchPromptStyle.Render("rescan every (hours): ")
	hi.CharLimit = 4
	hi.SetValue(strconv.Itoa(ctrl.RescanHours()))

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	open := opts.Opener
	if open == nil {
		open = browser.System
	}

	host := opts.BaseURL
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		ctrl:          ctrl,
		disp:          opts.Dispatcher,
		origin:        opts.Origin,
		host:          host,
		open:          open,
		ctx:           ctx,
		cancel:        cancel,
		pollInterval:  opts.PollInterval,
		pollCh:        make(chan struct{}, 1),
		queryInput:    qi,
		hoursInput:    hi,
		spinner:       sp,
		submitOnStart: opts.Submit && strings.TrimSpace(opts.Query) != "",
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForPoll(a.ctx, a.pollCh)}
	if a.submitOnStart {
		cmds = append(cmds, a.submit())
	}
	return tea.Batch(cmds...)
}

// waitForPoll delivers the next poller tick into the Update loop.
func waitForPoll(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ch:
			return pollTickMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// onPollTick runs on the poller goroutine. It only signals; the sync itself
// is started from Update so the controller has a single mutator.
func (a *App) onPollTick(context.Context, bool) {
	select {
	case a.pollCh <- struct{}{}:
	default:
	}
}

// syncPoller starts or stops reconciliation to match the controller.
func (a *App) syncPoller() {
	if a.closed {
		return
	}
	key, active := a.ctrl.PollKey()
	if a.poll != nil && (!active || key != a.pollKey) {
		a.poll.Stop()
		a.poll = nil
	}
	if active && a.poll == nil {
		a.pollKey = key
		a.poll = poller.New("reconcile", a.pollInterval, a.onPollTick)
		a.poll.Start(a.ctx)
	}
}

func (a *App) shutdown() {
	a.closed = true
	if a.poll != nil {
		a.poll.Stop()
		a.poll = nil
	}
	a.cancel()
}

func (a *App) quit() tea.Cmd {
	a.shutdown()
	return tea.Quit
}

// The request commands capture what they need so they never touch App
// from their own goroutine.
func (a *App) searchCmd(req session.SearchRequest) tea.Cmd {
	d, ctx := a.disp, a.ctx
	return func() tea.Msg {
		items, err := d.Search(ctx, req)
		return searchDoneMsg{req: req, items: items, err: err}
	}
}

func (a *App) profileCmd(req session.ProfileRequest) tea.Cmd {
	d, ctx := a.disp, a.ctx
	return func() tea.Msg {
		report, err := d.Profile(ctx, req)
		return profileDoneMsg{req: req, report: report, err: err}
	}
}

func (a *App) syncCmd(req session.SyncRequest) tea.Cmd {
	d, ctx := a.disp, a.ctx
	return func() tea.Msg {
		items, err := d.Results(ctx, req)
		return syncDoneMsg{req: req, items: items, err: err}
	}
}

func (a *App) openCmd(rawURL string) tea.Cmd {
	open := a.open
	return func() tea.Msg {
		if err := browser.OpenWith(open, rawURL); err != nil {
			return openErrMsg{err: err}
		}
		return nil
	}
}

// submit sends the query for the active tab.
func (a *App) submit() tea.Cmd {
	a.ctrl.SetQuery(a.queryInput.Value())
	a.cursor, a.detailScroll = 0, 0

	if a.ctrl.Mode() == trend.ModeProfiles {
		req, err := a.ctrl.PrepareProfile()
		if err != nil {
			return nil
		}
		a.showHistory = false
		return tea.Batch(a.profileCmd(req), a.spinner.Tick)
	}

	req, err := a.ctrl.PrepareSearch()
	if err != nil {
		return nil
	}
	return tea.Batch(a.searchCmd(req), a.spinner.Tick)
}

func (a *App) manualSync() tea.Cmd {
	req, ok := a.ctrl.BeginSync(false)
	if !ok {
		return nil
	}
	return tea.Batch(a.syncCmd(req), a.spinner.Tick)
}

func (a *App) switchTab(m trend.Mode) {
	a.ctrl.SetMode(m)
	a.cursor, a.detailScroll = 0, 0
	a.showHistory = false
}

// listItems is what the cursor moves over: the scan results, or the feed
// of the report on screen.
func (a *App) listItems() []trend.VideoItem {
	if a.ctrl.Mode() == trend.ModeProfiles {
		if r, ok := a.ctrl.Report(); ok {
			return r.FullFeed
		}
		return nil
	}
	return a.ctrl.Items()
}

func (a *App) selected() *trend.VideoItem {
	items := a.listItems()
	if a.cursor < 0 || a.cursor >= len(items) {
		return nil
	}
	return &items[a.cursor]
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := a.update(msg)
	a.syncPoller()
	return model, cmd
}

func (a *App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case searchDoneMsg:
		if a.ctrl.ApplySearch(msg.req, msg.items, msg.err) {
			a.cursor, a.detailScroll = 0, 0
		}
		return a, nil

	case profileDoneMsg:
		if a.ctrl.ApplyProfile(msg.req, msg.report, msg.err) {
			a.cursor, a.detailScroll = 0, 0
		}
		return a, nil

	case syncDoneMsg:
		a.ctrl.ApplySync(msg.req, msg.items, msg.err)
		if n := len(a.listItems()); a.cursor >= n {
			a.cursor = max(0, n-1)
		}
		return a, nil

	case pollTickMsg:
		next := waitForPoll(a.ctx, a.pollCh)
		req, ok := a.ctrl.BeginSync(true)
		if !ok {
			log := logging.Component("tui")
			log.Debug().Msg("poll tick skipped")
			return a, next
		}
		return a, tea.Batch(next, a.syncCmd(req))

	case openErrMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.ctrl.Loading() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, a.quit()
	}

	switch a.focus {
	case focusQuery:
		return a.handleQueryKey(msg)
	case focusHours:
		return a.handleHoursKey(msg)
	}

	mode := a.ctrl.Mode()
	switch msg.String() {
	case "q":
		return a, a.quit()
	case "tab":
		a.switchTab(nextTab(mode))
		return a, nil
	case "1", "2", "3":
		a.switchTab(tabOrder[int(msg.String()[0]-'1')])
		return a, nil
	case "/", "i":
		a.focus = focusQuery
		a.queryInput.Focus()
		return a, textinput.Blink
	case "m":
		if mode == trend.ModeDeep {
			sub := trend.SubModeUsername
			if a.ctrl.SubMode() == trend.SubModeUsername {
				sub = trend.SubModeKeywords
			}
			a.ctrl.SetSubMode(sub)
			a.cursor, a.detailScroll = 0, 0
		}
		return a, nil
	case "r":
		if mode == trend.ModeDeep {
			a.focus = focusHours
			a.hoursInput.Focus()
			return a, textinput.Blink
		}
		return a, nil
	case "s":
		return a, a.manualSync()
	case "H":
		if mode == trend.ModeProfiles {
			a.showHistory = !a.showHistory
			a.historyCursor = 0
		}
		return a, nil
	case "esc":
		a.showHistory = false
		a.ctrl.ClearError()
		return a, nil
	case "j", "down":
		if a.showHistory {
			if a.historyCursor < len(a.ctrl.History())-1 {
				a.historyCursor++
			}
		} else if a.cursor < len(a.listItems())-1 {
			a.cursor++
			a.detailScroll = 0
		}
		return a, nil
	case "k", "up":
		if a.showHistory {
			if a.historyCursor > 0 {
				a.historyCursor--
			}
		} else if a.cursor > 0 {
			a.cursor--
			a.detailScroll = 0
		}
		return a, nil
	case "J":
		a.detailScroll++
		return a, nil
	case "K":
		if a.detailScroll > 0 {
			a.detailScroll--
		}
		return a, nil
	case "o", "enter":
		if a.showHistory {
			hist := a.ctrl.History()
			if a.historyCursor < len(hist) {
				a.ctrl.ShowHistory(hist[a.historyCursor].Handle())
				a.showHistory = false
				a.cursor, a.detailScroll = 0, 0
			}
			return a, nil
		}
		if v := a.selected(); v != nil {
			return a, a.openCmd(v.URL)
		}
		return a, nil
	case "c":
		v := a.selected()
		if v == nil {
			return a, nil
		}
		cover := api.ImageURL(a.origin, v.CoverURL)
		if cover == "" {
			a.err = errors.New("no cover for this video")
			return a, nil
		}
		return a, a.openCmd(cover)
	}

	return a, nil
}

func (a *App) handleQueryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.focus = focusNone
		a.queryInput.Blur()
		return a, nil
	case "enter":
		a.focus = focusNone
		a.queryInput.Blur()
		return a, a.submit()
	}

	var cmd tea.Cmd
	a.queryInput, cmd = a.queryInput.Update(msg)
	return a, cmd
}

func (a *App) handleHoursKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		h := a.ctrl.SetRescanHours(a.hoursInput.Value())
		a.hoursInput.SetValue(strconv.Itoa(h))
		a.focus = focusNone
		a.hoursInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.hoursInput, cmd = a.hoursInput.Update(msg)
	return a, cmd
}

func (a *App) hints() string {
	if a.focus != focusNone {
		return "esc cancel  enter confirm"
	}
	switch a.ctrl.Mode() {
	case trend.ModeProfiles:
		if a.showHistory {
			return "j/k move  enter show  H close  q quit"
		}
		return "/ audit  H history  o open  tab switch  q quit"
	case trend.ModeDeep:
		h := "/ scan  m target  r hours"
		if a.ctrl.PollActive() {
			h += "  s sync"
		}
		return h + "  o open  c cover  q quit"
	default:
		return "/ search  o open  c cover  tab switch  q quit"
	}
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  xtrend")
	}

	mode := a.ctrl.Mode()

	// Layout calculations
	headerHeight, tabsHeight, inputHeight, statusHeight := 1, 1, 1, 1
	contentHeight := a.height - headerHeight - tabsHeight - inputHeight - statusHeight - 2 // borders
	if contentHeight < 3 {
		contentHeight = 3
	}

	headerLeft := headerStyle.Render("xtrend")
	headerRight := headerHostStyle.Render(a.host)
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	tabs := renderTabBar(mode, a.ctrl.SubMode(), a.ctrl.RescanHours(), a.width)

	input := a.queryInput.View()
	if a.focus == focusHours {
		input = a.hoursInput.View()
	}

	items := a.listItems()
	var report *trend.ProfileReport
	if r, ok := a.ctrl.Report(); ok && mode == trend.ModeProfiles {
		report = &r
	}
	hasReport := report != nil

	var content string
	switch {
	case a.ctrl.Loading() && len(items) == 0 && !hasReport:
		content = lipgloss.Place(a.width, contentHeight+2, lipgloss.Center, lipgloss.Center,
			a.spinner.View()+" scanning "+a.ctrl.Query()+"...")
	case len(items) == 0 && !hasReport && !a.showHistory:
		content = renderHomeScreen(mode, a.width, contentHeight+2)
	default:
		listWidth := int(float64(a.width) * 0.45)
		detailWidth := a.width - listWidth

		var left string
		if mode == trend.ModeProfiles && a.showHistory {
			left = renderHistory(a.ctrl.History(), a.historyCursor, contentHeight, listWidth-4)
		} else {
			left = renderList(items, a.cursor, contentHeight, listWidth-4, "No videos found")
		}

		var right string
		if mode == trend.ModeProfiles {
			right = renderReport(report, detailWidth-4, contentHeight, a.detailScroll)
		} else {
			right = renderDetail(a.selected(), a.origin, detailWidth-4, contentHeight, a.detailScroll)
		}

		paneStyle := listPaneActiveStyle
		if a.focus != focusNone {
			paneStyle = listPaneStyle
		}
		listPane := paneStyle.Width(listWidth - 2).Height(contentHeight).Render(left)
		detailPane := detailPaneStyle.Width(detailWidth - 2).Height(contentHeight).Render(right)
		content = lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
	}

	status := renderStatusBar(statusInfo{
		count:   len(items),
		live:    a.ctrl.PollActive(),
		syncing: a.ctrl.Syncing(),
		loading: a.ctrl.Loading(),
		spinner: a.spinner.View(),
		hints:   a.hints(),
	}, a.width)

	// Error display
	switch {
	case a.err != nil:
		status = errorStyle.Render(a.err.Error())
	case a.ctrl.Err() != "":
		status = errorStyle.Render(a.ctrl.Err())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, input, content, status)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	defer app.shutdown()
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

package runner

import (
	"context"
	"errors"
	"golfboard/internal/components/chrono"
	"golfboard/internal/components/telemetry"
	"golfboard/lib/browser"
	"golfboard/lib/runstore"
	"golfboard/lib/scrapers/leaderboard"
	"golfboard/lib/scrapers/leaderboard/leaderboardtest"
	"golfboard/lib/sheet"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	mastersURL = "https://www.espn.com/golf/leaderboard/_/tournamentId/401580344"
	openURL    = "https://www.espn.com/golf/leaderboard/_/tournamentId/401580360"
)

func mastersSite() leaderboardtest.Site {
	return leaderboardtest.Site{
		Title: "Masters Tournament",
		Date:  "April 11 - 14, 2024",
		Rows: []leaderboardtest.Row{
			{Name: "Ludvig Åberg", Score: "-7"},
			{
				Name:       "Scottie Scheffler",
				Score:      "-11",
				HasControl: true,
				Options: []leaderboardtest.Option{
					{Value: "R1", Pars: []string{"4", "5"}, Scores: []string{"4", "4"}},
					{Value: "R2", Pars: []string{"4", "5"}, Scores: []string{"3", "5"}},
				},
			},
		},
	}
}

func openSite() leaderboardtest.Site {
	return leaderboardtest.Site{
		Title: "The Open",
		Date:  "July 18 - 21, 2024",
		Rows: []leaderboardtest.Row{
			{Name: "Xander Schauffele", Score: "-9"},
		},
	}
}

type memWorkbook struct {
	sheet.MemorySink
	saveErr error
	closed  bool
}

func (w *memWorkbook) Save(path string) error {
	if w.saveErr != nil {
		return &sheet.WriteError{Path: path, Err: w.saveErr}
	}
	return w.MemorySink.Save(path)
}

func (w *memWorkbook) Close() error {
	w.closed = true
	return nil
}

type fakeHistory struct {
	mu   sync.Mutex
	runs []runstore.Run
}

func (h *fakeHistory) Push(ctx context.Context, run runstore.Run) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs = append(h.runs, run)
	return int64(len(h.runs)), nil
}

func (h *fakeHistory) Runs() []runstore.Run {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]runstore.Run(nil), h.runs...)
}

type sentMail struct {
	to   []string
	rows int
	path string
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) SendWorkbook(ctx context.Context, to []string, event leaderboard.EventMetadata, rows int, path string) error {
	m.sent = append(m.sent, sentMail{to: to, rows: rows, path: path})
	return nil
}

type preflightFunc func(ctx context.Context, url string) error

func (f preflightFunc) Check(ctx context.Context, url string) error {
	return f(ctx, url)
}

type debugPage struct {
	*leaderboardtest.Page
	dumps []string
}

func (p *debugPage) DebugFailure(ctx context.Context, dir, name string) {
	p.dumps = append(p.dumps, dir+"/"+name)
}

type harness struct {
	clock     *chrono.FakeImpl
	tel       *telemetry.Recorder
	history   *fakeHistory
	mailer    *fakeMailer
	workbooks []*memWorkbook
	saveErr   error
	opened    int
	released  int
}

func newHarness() *harness {
	return &harness{
		clock:   chrono.NewFakeImpl(time.Date(2024, 4, 14, 9, 0, 0, 0, time.UTC)),
		tel:     &telemetry.Recorder{},
		history: &fakeHistory{},
		mailer:  &fakeMailer{},
	}
}

// runner opens the given pages in order, one per target.
func (h *harness) runner(pages []browser.Page, options Options) Runner {
	return New(Params{
		Open: func(ctx context.Context) (browser.Page, func(), error) {
			if len(pages) == 0 {
				return nil, nil, errors.New("no browser")
			}
			page := pages[0]
			pages = pages[1:]
			h.opened++
			return page, func() { h.released++ }, nil
		},
		Clock:   h.clock,
		Tel:     h.tel,
		Options: options,
		History: h.history,
		Mailer:  h.mailer,
		NewWorkbook: func() (Workbook, error) {
			wb := &memWorkbook{saveErr: h.saveErr}
			h.workbooks = append(h.workbooks, wb)
			return wb, nil
		},
	})
}

func scrapeOptions(page *leaderboardtest.Page) leaderboard.Options {
	return leaderboard.Options{
		Selectors:   page.Selectors(),
		SettleDelay: time.Second,
		WaitTimeout: time.Second,
	}
}

func TestRunTargets(t *testing.T) {
	masters := leaderboardtest.NewPage(mastersSite())
	open := leaderboardtest.NewPage(openSite())
	h := newHarness()
	r := h.runner([]browser.Page{masters, open}, Options{
		Scrape:      scrapeOptions(masters),
		TargetDelay: 10 * time.Second,
	})

	results, err := r.Run(context.Background(), []Target{
		{URL: mastersURL, Output: "out/masters.xlsx", MailTo: []string{"fan@example.com"}},
		{URL: openURL, Output: "out/open.xlsx"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, "Masters Tournament", results[0].Event.Title)
	require.Len(t, results[0].Rows, 3)
	require.Len(t, results[1].Rows, 1)
	require.Equal(t, int64(1), results[0].HistoryID)
	require.Equal(t, int64(2), results[1].HistoryID)

	require.Equal(t, []string{mastersURL}, masters.Visited())
	require.Equal(t, []string{openURL}, open.Visited())
	require.Equal(t, 2, h.released)

	require.Len(t, h.workbooks, 2)
	require.Equal(t, []string{"out/masters.xlsx"}, h.workbooks[0].Saved)
	require.Equal(t, []string{"Event Title", "Masters Tournament"}, h.workbooks[0].Rows[0])
	require.Len(t, h.workbooks[0].Rows, 4+3)
	require.True(t, h.workbooks[0].closed)
	require.Equal(t, []string{"out/open.xlsx"}, h.workbooks[1].Saved)

	require.Contains(t, h.clock.Sleeps(), 10*time.Second)
	count := 0
	for _, d := range h.clock.Sleeps() {
		if d == 10*time.Second {
			count++
		}
	}
	require.Equal(t, 1, count)

	runs := h.history.Runs()
	require.Len(t, runs, 2)
	require.Equal(t, mastersURL, runs[0].URL)
	require.Equal(t, results[0].Rows, runs[0].Rows)

	require.Equal(t, []sentMail{{to: []string{"fan@example.com"}, rows: 3, path: "out/masters.xlsx"}}, h.mailer.sent)
}

func TestRunIsolatesFailures(t *testing.T) {
	broken := mastersSite()
	broken.Rows[1].Name = ""
	masters := &debugPage{Page: leaderboardtest.NewPage(broken)}
	open := leaderboardtest.NewPage(openSite())

	h := newHarness()
	r := h.runner([]browser.Page{masters, open}, Options{
		Scrape:      scrapeOptions(open),
		TargetDelay: time.Second,
		DebugDir:    "debug",
	})

	results, err := r.Run(context.Background(), []Target{
		{URL: mastersURL, Output: "masters.xlsx"},
		{URL: openURL, Output: "open.xlsx"},
	})
	require.ErrorIs(t, err, browser.ErrSelectorNotFound)
	require.ErrorContains(t, err, mastersURL)
	require.NotContains(t, err.Error(), openURL)

	require.Len(t, results, 2)
	require.Error(t, results[0].Err)
	require.Nil(t, results[0].Rows)
	require.NoError(t, results[1].Err)

	// no file is written for the failed target
	require.Len(t, h.workbooks, 1)
	require.Equal(t, []string{"open.xlsx"}, h.workbooks[0].Saved)
	require.Len(t, h.history.Runs(), 1)

	require.Len(t, masters.dumps, 1)
	require.Contains(t, masters.dumps[0], "debug/www.espn.com_golf_leaderboard")
	require.False(t, masters.Expanded())
	require.Equal(t, 2, h.released)

	require.Equal(t, []string{
		"runner.leaderboard: scrape-row",
		"runner: run-target",
	}, h.tel.IDs(telemetry.LevelBroken))
}

func TestRunPreflightFailure(t *testing.T) {
	masters := leaderboardtest.NewPage(mastersSite())
	h := newHarness()
	r := h.runner([]browser.Page{masters}, Options{Scrape: scrapeOptions(masters)})
	r.Preflight = preflightFunc(func(ctx context.Context, url string) error {
		return &browser.NavigationError{URL: url, Status: 503}
	})

	results, err := r.Run(context.Background(), []Target{{URL: mastersURL, Output: "masters.xlsx"}})
	var navErr *browser.NavigationError
	require.True(t, errors.As(err, &navErr))
	require.Equal(t, 503, navErr.Status)
	require.Len(t, results, 1)
	require.Zero(t, h.opened)
	require.Empty(t, h.workbooks)
}

func TestRunWriteFailure(t *testing.T) {
	masters := leaderboardtest.NewPage(mastersSite())
	h := newHarness()
	h.saveErr = errors.New("permission denied")
	r := h.runner([]browser.Page{masters}, Options{Scrape: scrapeOptions(masters)})

	results, err := r.Run(context.Background(), []Target{{URL: mastersURL, Output: "/readonly/masters.xlsx", MailTo: []string{"fan@example.com"}}})
	var writeErr *sheet.WriteError
	require.True(t, errors.As(err, &writeErr))
	require.Equal(t, "/readonly/masters.xlsx", writeErr.Path)
	require.Error(t, results[0].Err)
	require.Empty(t, h.history.Runs())
	require.Empty(t, h.mailer.sent)
}

func TestRunCancelledBetweenTargets(t *testing.T) {
	masters := leaderboardtest.NewPage(mastersSite())
	open := leaderboardtest.NewPage(openSite())
	h := newHarness()
	r := h.runner([]browser.Page{masters, open}, Options{Scrape: scrapeOptions(masters)})

	ctx, cancel := context.WithCancel(context.Background())
	r.Mailer = nil
	r.History = historyFunc(func(ctx context.Context, run runstore.Run) (int64, error) {
		cancel()
		return 1, nil
	})

	results, err := r.Run(ctx, []Target{
		{URL: mastersURL, Output: "masters.xlsx"},
		{URL: openURL, Output: "open.xlsx"},
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	require.Empty(t, open.Visited())
}

type historyFunc func(ctx context.Context, run runstore.Run) (int64, error)

func (f historyFunc) Push(ctx context.Context, run runstore.Run) (int64, error) {
	return f(ctx, run)
}

func TestWatch(t *testing.T) {
	first := leaderboardtest.NewPage(openSite())
	second := leaderboardtest.NewPage(openSite())
	h := newHarness()
	r := h.runner([]browser.Page{first, second}, Options{Scrape: scrapeOptions(first)})

	cron := &chrono.FakeCron{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Watch(ctx, cron, "*/15 * * * *", []Target{{URL: openURL, Output: "open.xlsx"}})
	}()

	require.Eventually(t, func() bool {
		return len(cron.Specs()) == 1
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, []string{"*/15 * * * *"}, cron.Specs())

	cron.Tick()
	cron.Tick()
	cancel()
	require.NoError(t, <-done)

	require.Len(t, h.history.Runs(), 2)
	require.Equal(t, []string{openURL}, first.Visited())
	require.Equal(t, []string{openURL}, second.Visited())
}

func TestDebugName(t *testing.T) {
	now := time.Unix(1713085200, 0)
	require.Equal(t, "www.espn.com_golf_leaderboard-1713085200", debugName("https://www.espn.com/golf/leaderboard", now))
	require.Equal(t, "not_a_url-1713085200", debugName("not a url", now))
}

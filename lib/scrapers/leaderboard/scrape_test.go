package leaderboard_test

import (
	"context"
	"errors"
	"golfboard/internal/components/chrono"
	"golfboard/internal/components/telemetry"
	"golfboard/lib/browser"
	"golfboard/lib/scrapers/leaderboard"
	"golfboard/lib/scrapers/leaderboard/leaderboardtest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const targetURL = "https://www.espn.com/golf/leaderboard"

var fixtureStart = time.Date(2024, 4, 14, 9, 0, 0, 0, time.UTC)

func newScraper(page *leaderboardtest.Page) (leaderboard.Scraper, *chrono.FakeImpl) {
	clock := chrono.NewFakeImpl(fixtureStart)
	return leaderboard.NewScraper(page, clock, telemetry.NewSlogAPI(), leaderboard.Options{
		Selectors:   page.Selectors(),
		SettleDelay: time.Second,
		WaitTimeout: time.Second,
	}), clock
}

func masters() leaderboardtest.Site {
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
					{Value: "R1", Pars: []string{"4", "5", "4"}, Scores: []string{"4", "4", "3"}},
					{Value: "R2", Pars: []string{"4", "5", "4"}, Scores: []string{"5", "5", "4"}},
				},
			},
		},
	}
}

func TestScrapeMixedRows(t *testing.T) {
	page := leaderboardtest.NewPage(masters())
	scraper, clock := newScraper(page)

	board, err := scraper.Scrape(context.Background(), targetURL)
	require.NoError(t, err)

	require.Equal(t, []string{targetURL}, page.Visited())
	require.Equal(t, targetURL, board.URL)
	require.Equal(t, leaderboard.EventMetadata{Title: "Masters Tournament", Date: "April 11 - 14, 2024"}, board.Event)

	expected := []leaderboard.PlayerRecord{
		{PlayerName: "Ludvig Åberg", Score: "-7"},
		{
			PlayerName:    "Scottie Scheffler",
			Score:         "-11",
			DetailOptions: []string{"R1", "R2"},
			Pars:          [][]string{{"4", "5", "4"}, {"4", "5", "4"}},
			Scores:        [][]string{{"4", "4", "3"}, {"5", "5", "4"}},
		},
	}
	if diff := cmp.Diff(expected, board.Players); diff != "" {
		t.Fatalf("unexpected players (-want +got):\n%s", diff)
	}

	rows := leaderboard.Flatten(board.Players)
	require.Equal(t, []leaderboard.FlattenedRow{
		{PlayerName: "Ludvig Åberg", Score: "-7", DetailOption: "No additional data", Pars: "No additional data", Scores: "No additional data"},
		{PlayerName: "Scottie Scheffler", Score: "-11", DetailOption: "R1", Pars: "4, 5, 4", Scores: "4, 4, 3"},
		{PlayerName: "Scottie Scheffler", Score: "-11", DetailOption: "R2", Pars: "4, 5, 4", Scores: "5, 5, 4"},
	}, rows)

	// expand + collapse per row, plus one settle per selected option
	require.Len(t, clock.Sleeps(), 2+2+2)
	for _, d := range clock.Sleeps() {
		require.Equal(t, time.Second, d)
	}
}

func TestScrapeWithoutDetailControls(t *testing.T) {
	site := leaderboardtest.Site{Title: "The Open", Date: "July 18 - 21, 2024"}
	names := []string{"Xander Schauffele", "Justin Rose", "Billy Horschel", "Thriston Lawrence"}
	for _, name := range names {
		site.Rows = append(site.Rows, leaderboardtest.Row{Name: name, Score: "E"})
	}
	page := leaderboardtest.NewPage(site)
	scraper, _ := newScraper(page)

	board, err := scraper.Scrape(context.Background(), targetURL)
	require.NoError(t, err)

	rows := leaderboard.Flatten(board.Players)
	require.Len(t, rows, len(names))
	for i, row := range rows {
		require.Equal(t, names[i], row.PlayerName)
		require.Equal(t, leaderboard.NoAdditionalData, row.DetailOption)
		require.Equal(t, leaderboard.NoAdditionalData, row.Pars)
		require.Equal(t, leaderboard.NoAdditionalData, row.Scores)
	}
}

func TestScrapeControlWithoutOptions(t *testing.T) {
	page := leaderboardtest.NewPage(leaderboardtest.Site{
		Title: "PGA Championship",
		Date:  "May 16 - 19, 2024",
		Rows: []leaderboardtest.Row{
			{Name: "Collin Morikawa", Score: "-19", HasControl: true},
		},
	})
	scraper, clock := newScraper(page)

	board, err := scraper.Scrape(context.Background(), targetURL)
	require.NoError(t, err)
	require.Len(t, board.Players, 1)
	require.Empty(t, board.Players[0].DetailOptions)
	require.Empty(t, board.Players[0].Pars)
	require.Empty(t, board.Players[0].Scores)

	rows := leaderboard.Flatten(board.Players)
	require.Len(t, rows, 1)
	require.Equal(t, leaderboard.NoAdditionalData, rows[0].DetailOption)
	require.Len(t, clock.Sleeps(), 2)
}

func TestScrapeKeepsOptionOrderAndEmptyLines(t *testing.T) {
	options := []leaderboardtest.Option{
		{Value: "4", Pars: []string{"3"}, Scores: nil},
		{Value: "1", Pars: []string{"4", "3"}, Scores: []string{"4", "2"}},
		{Value: "3", Pars: []string{}, Scores: []string{}},
		{Value: "2", Pars: []string{"5"}, Scores: []string{"6"}},
	}
	page := leaderboardtest.NewPage(leaderboardtest.Site{
		Title: "U.S. Open",
		Date:  "June 13 - 16, 2024",
		Rows: []leaderboardtest.Row{
			{Name: "Bryson DeChambeau", Score: "-6", HasControl: true, Options: options},
		},
	})
	scraper, _ := newScraper(page)

	board, err := scraper.Scrape(context.Background(), targetURL)
	require.NoError(t, err)

	rows := leaderboard.Flatten(board.Players)
	require.Len(t, rows, len(options))
	for i, o := range options {
		require.Equal(t, o.Value, rows[i].DetailOption)
	}
	require.Equal(t, "3", rows[0].Pars)
	require.Equal(t, "", rows[0].Scores)
	require.Equal(t, "", rows[2].Pars)
	require.Equal(t, "", rows[2].Scores)
	require.Equal(t, "4, 2", rows[1].Scores)
}

func TestScrapeIsRepeatable(t *testing.T) {
	page := leaderboardtest.NewPage(masters())
	scraper, _ := newScraper(page)

	first, err := scraper.Scrape(context.Background(), targetURL)
	require.NoError(t, err)
	second, err := scraper.Scrape(context.Background(), targetURL)
	require.NoError(t, err)

	if diff := cmp.Diff(leaderboard.Flatten(first.Players), leaderboard.Flatten(second.Players)); diff != "" {
		t.Fatalf("scrapes of the same page differ (-first +second):\n%s", diff)
	}
}

func TestScrapeLeavesPageCollapsed(t *testing.T) {
	site := masters()
	site.Rows = append(site.Rows, site.Rows...)
	page := leaderboardtest.NewPage(site)
	scraper, _ := newScraper(page)

	_, err := scraper.Scrape(context.Background(), targetURL)
	require.NoError(t, err)

	require.False(t, page.Expanded())
	require.Equal(t, 1, page.MaxExpanded())
	require.Equal(t, 2*len(site.Rows), page.Clicks())
}

func TestScrapeMissingPlayerNameAborts(t *testing.T) {
	site := masters()
	site.Rows = append(site.Rows, leaderboardtest.Row{Score: "+2"}, leaderboardtest.Row{Name: "Tiger Woods", Score: "+16"})
	page := leaderboardtest.NewPage(site)
	scraper, _ := newScraper(page)

	_, err := scraper.Scrape(context.Background(), targetURL)
	require.ErrorIs(t, err, browser.ErrSelectorNotFound)

	var selErr *browser.SelectorError
	require.True(t, errors.As(err, &selErr))
	require.Equal(t, leaderboard.DefaultSelectors.PlayerName, selErr.Selector)

	// the failing row is collapsed again and the row after it is never touched
	require.False(t, page.Expanded())
	require.Equal(t, 2*2+2, page.Clicks())
}

func TestScrapeSelectFailureRestoresRow(t *testing.T) {
	page := leaderboardtest.NewPage(masters())
	page.SelectErr = map[string]error{"R2": errors.New("detached node")}
	scraper, _ := newScraper(page)

	_, err := scraper.Scrape(context.Background(), targetURL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "detail 'R2'")
	require.False(t, page.Expanded())
}

func TestScrapeCollapseErrorAfterToggle(t *testing.T) {
	page := leaderboardtest.NewPage(masters())
	page.CollapseErr = context.DeadlineExceeded
	scraper, _ := newScraper(page)

	_, err := scraper.Scrape(context.Background(), targetURL)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Contains(t, err.Error(), "collapse")

	// the row already collapsed, so it is not clicked again
	require.False(t, page.Expanded())
	require.Equal(t, 2, page.Clicks())
}

func TestScrapeCollapseErrorWithoutExpandedSelector(t *testing.T) {
	page := leaderboardtest.NewPage(masters())
	page.SelectErr = map[string]error{"R1": errors.New("detached node")}
	sel := page.Selectors()
	sel.ExpandedRow = ""
	scraper := leaderboard.NewScraper(page, chrono.NewFakeImpl(fixtureStart), telemetry.NewSlogAPI(), leaderboard.Options{
		Selectors:   sel,
		SettleDelay: time.Second,
		WaitTimeout: time.Second,
	})

	_, err := scraper.Scrape(context.Background(), targetURL)
	require.Error(t, err)
	require.False(t, page.Expanded())
}

func TestScrapeNavigationFailure(t *testing.T) {
	page := leaderboardtest.NewPage(masters())
	page.NavigateErr = errors.New("net::ERR_NAME_NOT_RESOLVED")
	scraper, _ := newScraper(page)

	_, err := scraper.Scrape(context.Background(), targetURL)
	var navErr *browser.NavigationError
	require.True(t, errors.As(err, &navErr))
	require.Equal(t, targetURL, navErr.URL)
	require.Equal(t, 0, page.Clicks())
}

func TestScrapeMissingEventMetadata(t *testing.T) {
	site := masters()
	site.Date = ""
	page := leaderboardtest.NewPage(site)
	scraper, _ := newScraper(page)

	_, err := scraper.Scrape(context.Background(), targetURL)
	require.ErrorIs(t, err, browser.ErrSelectorNotFound)
	require.Contains(t, err.Error(), "event date")
}

func TestScrapeCancelled(t *testing.T) {
	page := leaderboardtest.NewPage(masters())
	scraper, _ := newScraper(page)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := scraper.Scrape(ctx, targetURL)
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, page.Expanded())
}

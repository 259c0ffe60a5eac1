package leaderboard

import (
	"context"
	"fmt"
	"golfboard/internal/components/chrono"
	"golfboard/internal/components/telemetry"
	"golfboard/lib/browser"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultWaitTimeout = 10 * time.Second

type Options struct {
	Selectors Selectors
	// SettleDelay is how long to wait after every click or selection for the
	// page to re-render before reading from it.
	SettleDelay time.Duration
	// WaitTimeout bounds every condition based wait.
	WaitTimeout time.Duration
}

// Scraper extracts a Leaderboard from a single page. A Scraper mutates the page
// it drives and must not be used from more than one goroutine.
type Scraper struct {
	page  browser.Page
	clock chrono.API
	tel   telemetry.API
	opts  Options
}

func NewScraper(page browser.Page, clock chrono.API, tel telemetry.API, opts Options) Scraper {
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = DefaultWaitTimeout
	}
	if opts.Selectors == (Selectors{}) {
		opts.Selectors = DefaultSelectors
	}
	return Scraper{
		page:  page,
		clock: clock,
		tel:   telemetry.NewScopedAPI("leaderboard", tel),
		opts:  opts,
	}
}

// Scrape navigates to url and extracts the event metadata and every player row.
// Any failure aborts the whole extraction.
func (s Scraper) Scrape(ctx context.Context, url string) (Leaderboard, error) {
	ctx, span := tracer.Start(ctx, "leaderboard:Scrape", trace.WithAttributes(attribute.String("url", url)))
	defer span.End()

	err := s.page.Navigate(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to navigate")
		return Leaderboard{}, err
	}

	event, err := s.scrapeEvent(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read event metadata")
		return Leaderboard{}, err
	}

	rows, err := s.page.QueryAll(ctx, s.opts.Selectors.ExpandableRow)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query rows")
		return Leaderboard{}, err
	}
	s.tel.ReportCount(report_scrape_rows, int64(len(rows)))

	state := newRowState()
	players := make([]PlayerRecord, 0, len(rows))
	for i, row := range rows {
		record, err := s.scrapeRow(ctx, state, i, row)
		if err != nil {
			s.tel.ReportBroken(report_scrape_row, err, url, i)
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to scrape row")
			return Leaderboard{}, fmt.Errorf("row %d: %w", i, err)
		}
		players = append(players, record)
	}

	return Leaderboard{
		URL:     url,
		Event:   event,
		Players: players,
	}, nil
}

func (s Scraper) scrapeEvent(ctx context.Context) (EventMetadata, error) {
	title, err := s.page.Text(ctx, s.opts.Selectors.EventTitle, nil)
	if err != nil {
		return EventMetadata{}, fmt.Errorf("event title: %w", err)
	}
	date, err := s.page.Text(ctx, s.opts.Selectors.EventDate, nil)
	if err != nil {
		return EventMetadata{}, fmt.Errorf("event date: %w", err)
	}
	return EventMetadata{Title: title, Date: date}, nil
}

// scrapeRow expands the row, reads it, and collapses it again. On success the
// page is left in the state it was found in.
func (s Scraper) scrapeRow(ctx context.Context, state *rowState, index int, row *cdp.Node) (record PlayerRecord, err error) {
	sel := s.opts.Selectors

	err = s.assertCollapsed(ctx, state)
	if err != nil {
		return PlayerRecord{}, err
	}
	err = s.page.Click(ctx, row)
	if err != nil {
		return PlayerRecord{}, fmt.Errorf("expand: %w", err)
	}
	err = state.expand(index)
	if err != nil {
		return PlayerRecord{}, err
	}
	defer func() {
		if err != nil && state.isExpanded() {
			s.restore(ctx, state, index, row)
		}
	}()

	err = s.settle(ctx)
	if err != nil {
		return PlayerRecord{}, err
	}

	record.PlayerName, err = s.page.Text(ctx, sel.PlayerName, row)
	if err != nil {
		return PlayerRecord{}, fmt.Errorf("player name: %w", err)
	}
	record.Score, err = s.page.Text(ctx, sel.Score, row)
	if err != nil {
		return PlayerRecord{}, fmt.Errorf("score: %w", err)
	}

	hasControl, err := s.page.Exists(ctx, sel.DetailControl)
	if err != nil {
		return PlayerRecord{}, err
	}
	if hasControl {
		err = s.waitFor(ctx, sel.DetailControl)
		if err != nil {
			return PlayerRecord{}, err
		}
		values, err := s.page.Values(ctx, sel.DetailOptions())
		if err != nil {
			return PlayerRecord{}, err
		}
		for _, value := range values {
			pars, scores, err := s.scrapeDetail(ctx, value)
			if err != nil {
				s.tel.ReportBroken(report_scrape_detail, err, record.PlayerName, value)
				return PlayerRecord{}, fmt.Errorf("detail '%s': %w", value, err)
			}
			record.DetailOptions = append(record.DetailOptions, value)
			record.Pars = append(record.Pars, pars)
			record.Scores = append(record.Scores, scores)
		}
	}

	err = s.page.Click(ctx, row)
	if err != nil {
		return PlayerRecord{}, fmt.Errorf("collapse: %w", err)
	}
	err = state.collapse(index)
	if err != nil {
		return PlayerRecord{}, err
	}
	err = s.settle(ctx)
	if err != nil {
		return PlayerRecord{}, err
	}
	err = s.assertCollapsed(ctx, state)
	if err != nil {
		return PlayerRecord{}, err
	}

	s.tel.ReportDebug("scraped row", index, record.PlayerName, len(record.DetailOptions))
	return record, nil
}

// restore makes a best effort to collapse a row left expanded by a failure,
// it runs detached from ctx so that a cancelled run still cleans up. When
// ExpandedRow is set the page is asked first, since a click that failed may
// still have toggled the row and clicking again would expand it.
func (s Scraper) restore(ctx context.Context, state *rowState, index int, row *cdp.Node) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.WaitTimeout)
	defer cancel()

	if s.opts.Selectors.ExpandedRow != "" {
		expanded, err := s.page.Exists(ctx, s.opts.Selectors.ExpandedRow)
		if err != nil {
			s.tel.ReportWarning(report_scrape_restore, err, index)
			return
		}
		if !expanded {
			err = state.collapse(index)
			if err != nil {
				s.tel.ReportWarning(report_scrape_restore, err, index)
			}
			return
		}
	}

	err := s.page.Click(ctx, row)
	if err != nil {
		s.tel.ReportWarning(report_scrape_restore, err, index)
		return
	}
	err = state.collapse(index)
	if err != nil {
		s.tel.ReportWarning(report_scrape_restore, err, index)
		return
	}
	err = s.settle(ctx)
	if err != nil {
		s.tel.ReportWarning(report_scrape_restore, err, index)
	}
}

func (s Scraper) assertCollapsed(ctx context.Context, state *rowState) error {
	if state.isExpanded() {
		return fmt.Errorf("%w: state is %s", ErrRowStillExpanded, state)
	}
	if s.opts.Selectors.ExpandedRow == "" {
		return nil
	}
	expanded, err := s.page.Exists(ctx, s.opts.Selectors.ExpandedRow)
	if err != nil {
		return err
	}
	if expanded {
		return fmt.Errorf("%w: page reports an expanded row", ErrRowStillExpanded)
	}
	return nil
}

// settle gives the page time to re-render after an interaction.
func (s Scraper) settle(ctx context.Context) error {
	if s.opts.SettleDelay <= 0 {
		return ctx.Err()
	}
	return s.clock.Sleep(ctx, s.opts.SettleDelay)
}

func (s Scraper) waitFor(ctx context.Context, selector string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.WaitTimeout)
	defer cancel()
	return s.page.WaitFor(ctx, selector)
}

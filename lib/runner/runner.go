// Package runner scrapes a list of targets one after another and writes a
// workbook for each of them.
package runner

import (
	"context"
	"errors"
	"fmt"
	"golfboard/internal/components/chrono"
	"golfboard/internal/components/telemetry"
	"golfboard/lib/browser"
	"golfboard/lib/runstore"
	"golfboard/lib/scrapers/leaderboard"
	"golfboard/lib/sheet"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("golfboard/lib/runner")
var meter = otel.Meter("golfboard/lib/runner")
var rowsCounter, _ = meter.Int64Counter("scraped_rows")
var failedCounter, _ = meter.Int64Counter("failed_targets")

const (
	report_run_target = "run-target"
	report_history    = "push-history"
	report_mail       = "mail"
)

const DefaultTargetDelay = 10 * time.Second

type Target struct {
	URL    string   `json:"url"`
	Output string   `json:"output"`
	MailTo []string `json:"mail_to"`
}

// PageOpener opens a fresh page, the returned function releases it.
type PageOpener = func(ctx context.Context) (browser.Page, func(), error)

// Debugger is implemented by pages that can dump their state after a failure.
type Debugger interface {
	DebugFailure(ctx context.Context, dir, name string)
}

type Preflight interface {
	Check(ctx context.Context, url string) error
}

type History interface {
	Push(ctx context.Context, run runstore.Run) (int64, error)
}

type Mailer interface {
	SendWorkbook(ctx context.Context, to []string, event leaderboard.EventMetadata, rows int, path string) error
}

// Workbook is a sheet.Sink that holds resources until it is closed.
type Workbook interface {
	sheet.Sink
	Close() error
}

type Options struct {
	Scrape leaderboard.Options
	// TargetDelay is waited between two targets, a negative value disables it.
	TargetDelay time.Duration
	// DebugDir receives page dumps of failed targets when it is not empty.
	DebugDir string
}

// Params holds the dependencies of a Runner, Preflight, History and Mailer
// are optional.
type Params struct {
	Open    PageOpener
	Clock   chrono.API
	Tel     telemetry.API
	Options Options

	Preflight Preflight
	History   History
	Mailer    Mailer
	// NewWorkbook defaults to sheet.NewWorkbook.
	NewWorkbook func() (Workbook, error)
}

type Runner struct {
	Params
}

func New(params Params) Runner {
	if params.Options.TargetDelay == 0 {
		params.Options.TargetDelay = DefaultTargetDelay
	}
	if params.NewWorkbook == nil {
		params.NewWorkbook = func() (Workbook, error) {
			return sheet.NewWorkbook()
		}
	}
	params.Tel = telemetry.NewScopedAPI("runner", params.Tel)
	return Runner{Params: params}
}

type Result struct {
	Target    Target
	Event     leaderboard.EventMetadata
	Rows      []leaderboard.FlattenedRow
	HistoryID int64
	Err       error
}

// Run processes targets in order, waiting between them. A failed target does
// not stop the targets after it, every failure is joined into the returned
// error.
func (r Runner) Run(ctx context.Context, targets []Target) ([]Result, error) {
	results := make([]Result, 0, len(targets))
	var errs []error
	for i, target := range targets {
		if i > 0 && r.Options.TargetDelay > 0 {
			err := r.Clock.Sleep(ctx, r.Options.TargetDelay)
			if err != nil {
				errs = append(errs, err)
				break
			}
		}

		result := r.RunTarget(ctx, target)
		results = append(results, result)
		if result.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", target.URL, result.Err))
		}
	}
	return results, errors.Join(errs...)
}

// RunTarget scrapes a single target and writes its workbook, the workbook is
// only written once every row has been read.
func (r Runner) RunTarget(ctx context.Context, target Target) (result Result) {
	ctx, span := tracer.Start(ctx, "runner:RunTarget", trace.WithAttributes(
		attribute.String("url", target.URL),
		attribute.String("output", target.Output),
	))
	defer span.End()

	result.Target = target
	defer func() {
		if result.Err != nil {
			failedCounter.Add(ctx, 1)
			r.Tel.ReportBroken(report_run_target, result.Err, target.URL)
			span.RecordError(result.Err)
			span.SetStatus(codes.Error, "failed to run target")
		}
	}()

	startedAt := r.Clock.Now()
	board, err := r.scrape(ctx, target)
	if err != nil {
		result.Err = err
		return result
	}
	result.Event = board.Event
	result.Rows = leaderboard.Flatten(board.Players)
	rowsCounter.Add(ctx, int64(len(result.Rows)))

	err = r.write(target.Output, board.Event, result.Rows)
	if err != nil {
		result.Err = err
		return result
	}
	r.Tel.ReportDebug("workbook written", target.Output, len(result.Rows))

	if r.History != nil {
		result.HistoryID, err = r.History.Push(ctx, runstore.Run{
			URL:       target.URL,
			Event:     board.Event,
			StartedAt: startedAt,
			Rows:      result.Rows,
		})
		if err != nil {
			// the workbook is already written, history is best effort
			r.Tel.ReportWarning(report_history, err, target.URL)
		}
	}

	if r.Mailer != nil && len(target.MailTo) > 0 {
		err = r.Mailer.SendWorkbook(ctx, target.MailTo, board.Event, len(result.Rows), target.Output)
		if err != nil {
			r.Tel.ReportWarning(report_mail, err, target.URL)
		}
	}

	return result
}

func (r Runner) scrape(ctx context.Context, target Target) (leaderboard.Leaderboard, error) {
	if r.Preflight != nil {
		err := r.Preflight.Check(ctx, target.URL)
		if err != nil {
			return leaderboard.Leaderboard{}, fmt.Errorf("preflight: %w", err)
		}
	}

	page, release, err := r.Open(ctx)
	if err != nil {
		return leaderboard.Leaderboard{}, fmt.Errorf("open page: %w", err)
	}
	defer release()

	scraper := leaderboard.NewScraper(page, r.Clock, r.Tel, r.Options.Scrape)
	board, err := scraper.Scrape(ctx, target.URL)
	if err != nil {
		debugger, ok := page.(Debugger)
		if ok && r.Options.DebugDir != "" {
			debugCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			debugger.DebugFailure(debugCtx, r.Options.DebugDir, debugName(target.URL, r.Clock.Now()))
			cancel()
		}
		return leaderboard.Leaderboard{}, err
	}
	return board, nil
}

func (r Runner) write(path string, event leaderboard.EventMetadata, rows []leaderboard.FlattenedRow) error {
	wb, err := r.NewWorkbook()
	if err != nil {
		return err
	}
	defer wb.Close()

	err = sheet.WriteLeaderboard(wb, event, rows)
	if err != nil {
		return err
	}
	return wb.Save(path)
}

// debugName makes a file name out of the host and path of a target url.
func debugName(target string, now time.Time) string {
	name := target
	u, err := url.Parse(target)
	if err == nil && u.Host != "" {
		name = u.Host + u.Path
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, strings.Trim(name, "/"))
	return filepath.Base(fmt.Sprintf("%s-%d", name, now.Unix()))
}

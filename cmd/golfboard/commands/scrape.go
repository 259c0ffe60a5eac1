package commands

import (
	"context"
	"fmt"
	"golfboard/internal/components/chrono"
	"golfboard/internal/components/telemetry"
	"golfboard/lib/browser"
	"golfboard/lib/mailer"
	"golfboard/lib/preflight"
	"golfboard/lib/runner"
	"golfboard/lib/runstore"
	rundb "golfboard/lib/runstore/db"
	libtelemetry "golfboard/lib/telemetry"
	"golfboard/lib/util/serviceutil"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	printRows bool
	schedule  string
)

func init() {
	scrapeCmd.Flags().BoolVar(&printRows, "print", false, "Print the scraped rows as a table.")
	scrapeCmd.Flags().StringVar(&schedule, "cron", "", "Keep running on a cron schedule (ex. \"*/10 * * * *\") until interrupted.")
	rootCmd.AddCommand(scrapeCmd)
}

func scrapeArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return fmt.Errorf("accepts either no args or <url> <output.xlsx>, received %d", len(args))
	}
	return nil
}

// resolveTargets returns the single target given on the command line, or every target
// in the config.
func resolveTargets(config Config, args []string) ([]runner.Target, error) {
	if len(args) == 2 {
		return []runner.Target{{URL: args[0], Output: args[1]}}, nil
	}
	if len(config.Targets) == 0 {
		return nil, fmt.Errorf("no targets: pass <url> <output.xlsx> or list targets in %s", configPath)
	}
	for i, t := range config.Targets {
		if t.URL == "" || t.Output == "" {
			return nil, fmt.Errorf("target %d: url and output are required", i)
		}
	}
	return config.Targets, nil
}

func newRunner(ctx context.Context, config Config, clock chrono.API, tel telemetry.API) (runner.Runner, func(), error) {
	params := runner.Params{
		Open: func(ctx context.Context) (browser.Page, func(), error) {
			page, err := browser.Launch(ctx, config.Browser, tel)
			if err != nil {
				return nil, nil, err
			}
			return page, page.Close, nil
		},
		Clock:   clock,
		Tel:     tel,
		Options: config.RunnerOptions(),
	}
	cleanup := func() {}

	if config.Scrape.Preflight {
		client, err := preflight.NewClient(tel, config.Scrape.DebugDir)
		if err != nil {
			return runner.Runner{}, nil, err
		}
		params.Preflight = client
	}
	if config.HasHistory() {
		db, err := config.History.OpenAndMigrate(ctx, rundb.Schema)
		if err != nil {
			return runner.Runner{}, nil, fmt.Errorf("open history: %w", err)
		}
		params.History = runstore.NewStore(db)
		cleanup = func() { db.Close() }
	}
	if config.Mail.Enabled() {
		params.Mailer = mailer.New(config.Mail)
	}

	return runner.New(params), cleanup, nil
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [<url> <output.xlsx>] [--config golfboard.json5] [--print] [--cron <schedule>] [--history <path>]",
	Short: "Scrapes leaderboards into xlsx workbooks, either the one given or every target in the config.",
	Args:  scrapeArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		config, err := loadConfig(cmd)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		targets, err := resolveTargets(config, args)
		if err != nil {
			serviceutil.Fatal("nothing to scrape", err)
		}

		clock, err := chrono.NewStandardImpl(config.Scrape.Timezone)
		if err != nil {
			serviceutil.Fatal("failed to load timezone", err)
		}
		tel := telemetry.NewSlogAPI()

		r, cleanup, err := newRunner(ctx, config, clock, tel)
		if err != nil {
			serviceutil.Fatal("failed to setup", err)
		}
		defer cleanup()

		if schedule != "" {
			if otel.Enabled() {
				libtelemetry.InstrumentPerfStats(ctx, 30*time.Second, tel)
			}
			slog.Info("watching", "schedule", schedule, "targets", len(targets))
			err = r.Watch(ctx, chrono.NewStandardCron(tel, clock.Location()), schedule, targets)
			if err != nil {
				cleanup()
				serviceutil.Fatal("failed to watch", err)
			}
			return
		}

		results, err := r.Run(ctx, targets)
		for _, res := range results {
			if res.Err != nil {
				continue
			}
			slog.Info("workbook written", "path", res.Target.Output, "rows", len(res.Rows))
			if printRows {
				renderRows(os.Stdout, res.Event, res.Rows)
			}
		}
		if err != nil {
			cleanup()
			serviceutil.Fatal("scrape failed", err)
		}
	},
}

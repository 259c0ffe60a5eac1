package commands

import (
	"errors"
	"golfboard/lib/browser"
	"golfboard/lib/configutil"
	configlibsql "golfboard/lib/configutil/libsql"
	"golfboard/lib/mailer"
	"golfboard/lib/runner"
	"golfboard/lib/scrapers/leaderboard"
	"os"
	"time"
)

const defaultConfigPath = "golfboard.json5"

type ScrapeConfig struct {
	// a negative delay disables it, zero means the default
	SettleDelayMs int  `json:"settle_delay_ms"`
	WaitTimeoutMs int  `json:"wait_timeout_ms"`
	TargetDelayMs int  `json:"target_delay_ms"`
	Preflight     bool `json:"preflight"`
	// DebugDir receives page dumps and preflight exchanges of failed targets.
	DebugDir string `json:"debug_dir"`
	// Timezone is the IANA zone cron schedules are read in, defaults to local.
	Timezone string `json:"timezone"`
}

type Config struct {
	Scrape    ScrapeConfig          `json:"scrape"`
	Browser   browser.Options       `json:"browser"`
	Selectors leaderboard.Selectors `json:"selectors"`
	Targets   []runner.Target       `json:"targets"`
	History   configlibsql.Struct   `json:"history"`
	Mail      mailer.Config         `json:"mail"`
}

var defaultConfig = Config{
	Scrape: ScrapeConfig{
		SettleDelayMs: 1000,
		WaitTimeoutMs: int(leaderboard.DefaultWaitTimeout / time.Millisecond),
		TargetDelayMs: int(runner.DefaultTargetDelay / time.Millisecond),
	},
	Browser: browser.Options{
		WindowWidth:  1920,
		WindowHeight: 1080,
	},
	Selectors: leaderboard.DefaultSelectors,
}

// readConfig reads the config at path merged with the defaults. A missing
// file is only an error when required is set.
func readConfig(path string, required bool) (Config, error) {
	config, err := configutil.ReadConfig[Config](path)
	if errors.Is(err, os.ErrNotExist) && !required {
		err = nil
	}
	if err != nil {
		return Config{}, err
	}
	return configutil.WithDefaults(config, defaultConfig)
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func (c Config) HasHistory() bool {
	return c.History.File != "" || c.History.Url != ""
}

func (c Config) RunnerOptions() runner.Options {
	return runner.Options{
		Scrape: leaderboard.Options{
			Selectors:   c.Selectors,
			SettleDelay: millis(c.Scrape.SettleDelayMs),
			WaitTimeout: millis(c.Scrape.WaitTimeoutMs),
		},
		TargetDelay: millis(c.Scrape.TargetDelayMs),
		DebugDir:    c.Scrape.DebugDir,
	}
}

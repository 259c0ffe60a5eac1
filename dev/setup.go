package main

import (
	"context"
	"fmt"
	devenv "golfboard/dev/env"
	rundb "golfboard/lib/runstore/db"
	"golfboard/pkg/migrations"
	"log/slog"
	"os"
)

func CreateHistoryDB() error {
	path, err := devenv.ResolvePath("<dev_state>/history.db")
	if err != nil {
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("database already created at", path)
		return nil
	}

	fmt.Println("creating database at", path)
	db, err := migrations.OpenAndMigrateDB(context.Background(), rundb.Schema, path)
	if err != nil {
		return err
	}
	return db.Close()
}

const exampleConfig = `{
  scrape: {
    settle_delay_ms: 1000,
    debug_dir: "dev/.state/debug",
  },
  browser: {
    show_browser: true,
  },
  history: {
    file: "<dev_state>/history.db",
  },
  targets: [
    {
      url: "https://www.espn.com/golf/leaderboard",
      output: "dev/.state/leaderboard.xlsx",
    },
  ],
}
`

const exampleBrowserTestConfig = `{
  // set to the devtools url of a running chrome (ex. ws://127.0.0.1:9222)
  // or set exec to launch a local one
  remote_url: "",
  exec: false,
}
`

func writeIfMissing(name, contents string) error {
	path, err := devenv.GetStateFilePath(name)
	if err != nil {
		return err
	}
	_, err = os.Stat(path)
	if err == nil {
		return nil
	}
	fmt.Println("writing", path)
	return os.WriteFile(path, []byte(contents), 0666)
}

func WriteExampleConfigs() error {
	err := writeIfMissing("golfboard.json5", exampleConfig)
	if err != nil {
		return err
	}
	return writeIfMissing("browser_test.json5", exampleBrowserTestConfig)
}

func PrintConfigLocations() {
	slog.Info("browser tests are skipped unless dev/.state/browser_test.json5 is filled in or CHROME_URL is set, run `golfboard scrape --config dev/.state/golfboard.json5` to try a scrape.")
}

package commands

import (
	"golfboard/lib/runner"
	"golfboard/lib/scrapers/leaderboard"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestReadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golfboard.json5")

	config, err := readConfig(path, false)
	require.NoError(t, err)
	require.Equal(t, defaultConfig.Scrape, config.Scrape)
	require.Equal(t, leaderboard.DefaultSelectors, config.Selectors)
	require.False(t, config.HasHistory())
	require.False(t, config.Mail.Enabled())

	_, err = readConfig(path, true)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "golfboard.json5")
	writeFile(t, path, `{
		// comments are fine
		scrape: { settle_delay_ms: 250, debug_dir: "debug" },
		selectors: { score: ".Score" },
		targets: [
			{ url: "https://www.espn.com/golf/leaderboard", output: "out/masters.xlsx" },
		],
	}`)
	writeFile(t, filepath.Join(dir, "golfboard.local.json5"), `{
		history: { file: "history.db" },
		mail: { server: "smtp.example.com", port: 587 },
	}`)

	config, err := readConfig(path, true)
	require.NoError(t, err)

	require.Equal(t, 250, config.Scrape.SettleDelayMs)
	require.Equal(t, defaultConfig.Scrape.WaitTimeoutMs, config.Scrape.WaitTimeoutMs)
	require.Equal(t, ".Score", config.Selectors.Score)
	require.Equal(t, leaderboard.DefaultSelectors.PlayerName, config.Selectors.PlayerName)
	require.Equal(t, []runner.Target{
		{URL: "https://www.espn.com/golf/leaderboard", Output: "out/masters.xlsx"},
	}, config.Targets)
	require.True(t, config.HasHistory())
	require.True(t, config.Mail.Enabled())

	opts := config.RunnerOptions()
	require.Equal(t, 250*time.Millisecond, opts.Scrape.SettleDelay)
	require.Equal(t, leaderboard.DefaultWaitTimeout, opts.Scrape.WaitTimeout)
	require.Equal(t, runner.DefaultTargetDelay, opts.TargetDelay)
	require.Equal(t, "debug", opts.DebugDir)
}

func TestReadConfigNegativeSettleDelay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golfboard.json5")
	writeFile(t, path, `{ scrape: { settle_delay_ms: -1 } }`)

	config, err := readConfig(path, true)
	require.NoError(t, err)
	require.Negative(t, config.RunnerOptions().Scrape.SettleDelay)
}

func TestReadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golfboard.json5")
	writeFile(t, path, `{ scrape: `)

	_, err := readConfig(path, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse")
}

func TestResolveTargets(t *testing.T) {
	config := defaultConfig

	targets, err := resolveTargets(config, []string{"https://example.com/board", "board.xlsx"})
	require.NoError(t, err)
	require.Equal(t, []runner.Target{{URL: "https://example.com/board", Output: "board.xlsx"}}, targets)

	_, err = resolveTargets(config, nil)
	require.Error(t, err)

	config.Targets = []runner.Target{{URL: "https://example.com/board"}}
	_, err = resolveTargets(config, nil)
	require.ErrorContains(t, err, "target 0")

	config.Targets[0].Output = "board.xlsx"
	targets, err = resolveTargets(config, nil)
	require.NoError(t, err)
	require.Len(t, targets, 1)
}

func TestScrapeArgs(t *testing.T) {
	require.NoError(t, scrapeArgs(scrapeCmd, nil))
	require.NoError(t, scrapeArgs(scrapeCmd, []string{"url", "out.xlsx"}))
	require.Error(t, scrapeArgs(scrapeCmd, []string{"url"}))
}

package commands

import (
	"context"
	"fmt"
	"golfboard/lib/linker"
	"golfboard/lib/runstore"
	rundb "golfboard/lib/runstore/db"
	"golfboard/lib/util/serviceutil"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var listURL string

func init() {
	historyListCmd.Flags().StringVar(&listURL, "url", "", "Only list runs of this url.")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDiffCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadConfig reads --config, a missing file is fine unless --config was given.
func loadConfig(cmd *cobra.Command) (Config, error) {
	config, err := readConfig(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return Config{}, err
	}
	if historyPath != "" {
		config.History.File = historyPath
		config.History.Url = ""
	}
	return config, nil
}

func openStore(cmd *cobra.Command) (runstore.Store, func()) {
	config, err := loadConfig(cmd)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if !config.HasHistory() {
		serviceutil.Fatal("no history configured", fmt.Errorf("set history in %s or pass --history", configPath))
	}
	db, err := config.History.OpenAndMigrate(cmd.Context(), rundb.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open history", err)
	}
	return runstore.NewStore(db), func() { db.Close() }
}

// withStore runs fn against the history store, the store is closed before a
// failure exits the process.
func withStore(cmd *cobra.Command, message string, fn func(store runstore.Store) error) {
	store, cleanup := openStore(cmd)
	err := fn(store)
	cleanup()
	if err != nil {
		serviceutil.Fatal(message, err)
	}
}

func parseRunId(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid run id '%s'", arg)
	}
	return id, nil
}

func listRuns(ctx context.Context, store runstore.Store, url string, out io.Writer) error {
	runs, err := store.List(ctx, url)
	if err != nil {
		return err
	}
	renderRuns(out, runs)
	return nil
}

func showRun(ctx context.Context, store runstore.Store, arg string, out io.Writer) error {
	id, err := parseRunId(arg)
	if err != nil {
		return err
	}
	run, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	renderRows(out, run.Event, run.Rows)
	return nil
}

func diffRuns(ctx context.Context, store runstore.Store, beforeArg, afterArg string, out io.Writer) error {
	var runs [2]runstore.Run
	for i, arg := range []string{beforeArg, afterArg} {
		id, err := parseRunId(arg)
		if err != nil {
			return err
		}
		runs[i], err = store.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("run %d: %w", id, err)
		}
	}

	diff := linker.DiffPlayers(
		linker.Players(runs[0].Rows),
		linker.Players(runs[1].Rows),
		linker.DefaultMinCorrelation,
	)
	renderDiff(out, runs[0], runs[1], diff)
	return nil
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspects the runs kept in the history database.",
}

var historyListCmd = &cobra.Command{
	Use:   "list [--url <url>]",
	Short: "Lists runs, newest first.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withStore(cmd, "failed to list runs", func(store runstore.Store) error {
			return listRuns(cmd.Context(), store, listURL, os.Stdout)
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Prints the rows of a run.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(cmd, "failed to show run", func(store runstore.Store) error {
			return showRun(cmd.Context(), store, args[0], os.Stdout)
		})
	},
}

var historyDiffCmd = &cobra.Command{
	Use:   "diff <before id> <after id>",
	Short: "Compares player scores between two runs.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(cmd, "failed to diff runs", func(store runstore.Store) error {
			return diffRuns(cmd.Context(), store, args[0], args[1], os.Stdout)
		})
	},
}

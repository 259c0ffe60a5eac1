package commands

import (
	"context"
	"fmt"
	"golfboard/internal/components/telemetry"
	libtelemetry "golfboard/lib/telemetry"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	historyPath string
	verbose     bool
)

var otel libtelemetry.Telemetry

var rootCmd = &cobra.Command{
	Use:   "golfboard",
	Short: "golfboard scrapes golf leaderboards into spreadsheets.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)

		var err error
		otel, err = libtelemetry.SetupFromEnv(cmd.Context(), "golfboard")
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to setup telemetry:", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		otel.Shutdown(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "The config file to read, <name>.local.json5 next to it overrides it.")
	rootCmd.PersistentFlags().StringVar(&historyPath, "history", "", "The sqlite database to keep run history in, overrides history in the config.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

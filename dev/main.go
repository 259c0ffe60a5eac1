// Command dev sets up dev/.state with an example config, a history database
// and the browser test settings.
package main

import (
	"flag"
	"fmt"
	devenv "golfboard/dev/env"
	"log/slog"
	"os"
	"path/filepath"
)

func create(recreate bool) error {
	root, err := devenv.GetWorkspaceRoot()
	if err != nil {
		return fmt.Errorf("run this inside the golfboard repository: %w", err)
	}
	state := filepath.Join(root, "dev", ".state")

	if recreate {
		err = os.RemoveAll(state)
		if err != nil {
			return err
		}
	}
	err = os.MkdirAll(state, 0777)
	if err != nil {
		return err
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"history database", CreateHistoryDB},
		{"example configs", WriteExampleConfigs},
	}
	for _, step := range steps {
		err = step.run()
		if err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	PrintConfigLocations()
	return nil
}

func main() {
	recreate := flag.Bool("recreate", false, "delete dev/.state before creating it")
	flag.Parse()

	err := create(*recreate)
	if err != nil {
		slog.Error("failed to create dev environment", "err", err.Error())
		os.Exit(1)
	}
	slog.Info("dev environment ready")
}

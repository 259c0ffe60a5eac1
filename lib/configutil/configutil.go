package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// LocalPath returns the path of the local override of name, ex.
// golfboard.json5 -> golfboard.local.json5.
func LocalPath(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

// readLayer decodes the file at path on top of out, only the fields present in
// the file are replaced. found is false when there is no such file (or it is
// empty).
func readLayer(path string, out any) (found bool, err error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// ReadConfig reads the json5 config at name, then its local override (see
// LocalPath) on top of it. Every field the local file sets wins, including
// false, 0 and "". It fails with os.ErrNotExist only when neither file exists.
func ReadConfig[T any](name string) (T, error) {
	var out T
	found, err := readLayer(name, &out)
	if err != nil {
		return out, err
	}

	localPath := LocalPath(name)
	foundLocal, err := readLayer(localPath, &out)
	if err != nil {
		return out, err
	}
	if !found && !foundLocal {
		return out, os.ErrNotExist
	}
	if foundLocal {
		slog.Debug("merged config with local overrides", "local", localPath)
	}
	return out, nil
}

// ReadRecursively looks for name in the working directory and every parent of
// it, returning the first config found.
func ReadRecursively[T any](name string) (T, error) {
	dir, err := os.Getwd()
	if err != nil {
		var out T
		return out, err
	}
	for {
		config, err := ReadConfig[T](filepath.Join(dir, name))
		if !errors.Is(err, os.ErrNotExist) {
			return config, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return config, os.ErrNotExist
		}
		dir = parent
	}
}

// WithDefaults fills every zero field of config with the value in defaults.
// A zero value can not be told apart from an unset one, so a default of true
// or a non-zero number can not be turned off by config, keep switches false
// by default.
func WithDefaults[T any](config, defaults T) (T, error) {
	err := mergo.Merge(&config, defaults)
	return config, err
}

// Package devenv locates the workspace and the dev state directory (dev/.state)
// that local configs, databases and browser test settings live in.
package devenv

import (
	"bytes"
	"fmt"
	"golfboard/lib/configutil"
	"os"
	"path/filepath"
	"strings"
)

// StatePrefix at the start of a path stands for the dev state directory.
const StatePrefix = "<dev_state>"

const moduleLine = "module golfboard"

func isWorkspaceRoot(dir string) bool {
	mod, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return false
	}
	for _, line := range bytes.Split(mod, []byte("\n")) {
		if string(bytes.TrimSpace(line)) == moduleLine {
			return true
		}
	}
	return false
}

// GetWorkspaceRoot walks up from the working directory to the directory
// holding golfboard's go.mod.
func GetWorkspaceRoot() (string, error) {
	dir, err := filepath.Abs(".")
	if err != nil {
		return "", err
	}
	for {
		if isWorkspaceRoot(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("workspace root: %w", os.ErrNotExist)
		}
		dir = parent
	}
}

func stateDir() (string, error) {
	root, err := GetWorkspaceRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "dev", ".state"), nil
}

func GetStateFilePath(path string) (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, path), nil
}

func GetStateConfig[T any](path string) (T, error) {
	configPath, err := GetStateFilePath(path)
	if err != nil {
		var out T
		return out, err
	}
	return configutil.ReadConfig[T](configPath)
}

// ResolvePath replaces a leading <dev_state> with the dev state directory,
// creating it if needed. Other paths are returned as is.
func ResolvePath(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, StatePrefix)
	if !ok {
		return path, nil
	}
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, strings.TrimLeft(rest, `/\`)), nil
}

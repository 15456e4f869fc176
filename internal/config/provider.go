package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the settings directory created by `prefs init`.
const DirName = ".prefs"

// ResolveDir locates the .prefs directory.
// Resolution order: explicit path (flag) > PREFS_DIR > walking up from the
// current directory.
func ResolveDir(path string) (string, error) {
	if path == "" {
		path = os.Getenv(EnvDir)
	}
	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("cannot access settings directory %s: %w", path, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("settings path is not a directory: %s", path)
		}
		if filepath.Base(path) != DirName {
			if sub := filepath.Join(path, DirName); isDir(sub) {
				return sub, nil
			}
		}
		return path, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("cannot get current directory: %w", err)
	}

	dir := cwd
	for {
		candidate := filepath.Join(dir, DirName)
		if isDir(candidate) {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s directory found (searched from %s to /, run `prefs init`)", DirName, cwd)
		}
		dir = parent
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

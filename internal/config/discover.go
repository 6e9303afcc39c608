package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the configuration file name looked up during discovery, both
// bare and under .config/.
const FileName = "commitlang.toml"

// FindFile walks up from startDir and returns the first configuration file
// found, checking .config/commitlang.toml before commitlang.toml in each
// directory.
func FindFile(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, candidate := range []string{
			filepath.Join(dir, ".config", FileName),
			filepath.Join(dir, FileName),
		} {
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the configuration governing startDir. Without a config file
// it returns the defaults and an empty path.
func Discover(startDir string) (*Config, string, error) {
	path, ok, err := FindFile(startDir)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// RepoFileName is the per-repository configuration file.
const RepoFileName = ".commitlint.yaml"

// Environment overrides, applied on top of every file layer.
const (
	EnvEnforceRefs = "COMMITLINT_ENFORCE_REFS"
	EnvLogLevel    = "COMMITLINT_LOG_LEVEL"
)

// Options selects the layers Resolve reads.
type Options struct {
	// RepoRoot is searched for RepoFileName. Empty skips the repo layer.
	RepoRoot string
	// File replaces the repo layer when set; it must exist.
	File string
	// UserFile overrides the user-level layer path, mainly for tests.
	// Empty uses UserConfigPath().
	UserFile string
}

// UserConfigPath returns $XDG_CONFIG_HOME/commitlint/config.yaml, falling
// back to ~/.config. It returns "" when no home directory is known.
func UserConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "commitlint", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "commitlint", "config.yaml")
}

// Resolve merges defaults, the user layer, the repo layer and environment
// overrides, in that order.
func Resolve(opts Options) (Config, error) {
	cfg := Default()

	userFile := opts.UserFile
	if userFile == "" {
		userFile = UserConfigPath()
	}
	if userFile != "" {
		layer, _, err := loadOptional(userFile)
		if err != nil {
			return Config{}, err
		}
		cfg = Merge(cfg, layer)
	}

	switch {
	case opts.File != "":
		var layer Config
		if err := Load(opts.File, &layer); err != nil {
			return Config{}, err
		}
		cfg = Merge(cfg, layer)
	case opts.RepoRoot != "":
		layer, _, err := loadOptional(filepath.Join(opts.RepoRoot, RepoFileName))
		if err != nil {
			return Config{}, err
		}
		cfg = Merge(cfg, layer)
	}

	env, err := envLayer()
	if err != nil {
		return Config{}, err
	}
	cfg = Merge(cfg, env)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func envLayer() (Config, error) {
	var layer Config
	if v, ok := os.LookupEnv(EnvEnforceRefs); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvEnforceRefs, err)
		}
		layer.EnforceIssueReference = &b
	}
	layer.LogLevel = os.Getenv(EnvLogLevel)
	return layer, nil
}

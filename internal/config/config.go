// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads commitlint settings from YAML files and the
// environment. Layers are merged explicitly: a child layer overrides its
// parent field by field, and unset fields fall through.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/bartekus/commitlint/internal/commitmsg"
	"github.com/bartekus/commitlint/internal/githook"
)

// Log levels accepted in log_level.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// DefaultCommitMsgTask is what the commit-msg hook runs; git passes the
// message file as $1.
const DefaultCommitMsgTask = `lint --file "$1"`

// Config is one configuration layer. Pointer and empty-string fields mean
// "not set in this layer".
type Config struct {
	EnforceIssueReference *bool       `yaml:"enforce_issue_reference,omitempty"`
	MessageFile           string      `yaml:"message_file,omitempty"`
	HooksDir              string      `yaml:"hooks_dir,omitempty"`
	LogLevel              string      `yaml:"log_level,omitempty"`
	Hooks                 HooksConfig `yaml:"hooks,omitempty"`
}

// HooksConfig groups per-hook settings.
type HooksConfig struct {
	CommitMsg HookConfig `yaml:"commit_msg,omitempty"`
}

// HookConfig configures one generated hook.
type HookConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Task    string `yaml:"task,omitempty"`
	Shell   string `yaml:"shell,omitempty"`
}

// Default returns the built-in root layer.
func Default() Config {
	return Config{
		EnforceIssueReference: boolPtr(false),
		LogLevel:              LogLevelInfo,
		Hooks: HooksConfig{
			CommitMsg: HookConfig{
				Enabled: boolPtr(true),
				Task:    DefaultCommitMsgTask,
			},
		},
	}
}

// Merge returns parent with every field set in child applied on top.
func Merge(parent, child Config) Config {
	out := parent
	if child.EnforceIssueReference != nil {
		out.EnforceIssueReference = boolPtr(*child.EnforceIssueReference)
	}
	out.MessageFile = pick(parent.MessageFile, child.MessageFile)
	out.HooksDir = pick(parent.HooksDir, child.HooksDir)
	out.LogLevel = pick(parent.LogLevel, child.LogLevel)
	out.Hooks.CommitMsg = mergeHook(parent.Hooks.CommitMsg, child.Hooks.CommitMsg)
	return out
}

func mergeHook(parent, child HookConfig) HookConfig {
	out := parent
	if child.Enabled != nil {
		out.Enabled = boolPtr(*child.Enabled)
	}
	out.Task = pick(parent.Task, child.Task)
	out.Shell = pick(parent.Shell, child.Shell)
	return out
}

func pick(parent, child string) string {
	if child != "" {
		return child
	}
	return parent
}

// Validate checks the layer.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)),
	); err != nil {
		return err
	}
	return c.Hooks.CommitMsg.Validate()
}

// Validate checks the hook settings. A fragment carrying the ownership
// marker would make user edits indistinguishable from generated hooks.
func (h *HookConfig) Validate() error {
	noMarker := validation.NewStringRule(func(s string) bool {
		return !strings.Contains(s, githook.Marker)
	}, "must not contain the hook ownership marker")

	return validation.ValidateStruct(h,
		validation.Field(&h.Task, noMarker),
		validation.Field(&h.Shell, noMarker),
	)
}

// Policy returns the validator policy for this configuration.
func (c Config) Policy() commitmsg.Policy {
	return commitmsg.Policy{EnforceIssueReference: c.EnforceIssueReference != nil && *c.EnforceIssueReference}
}

// CommitMsgHook returns the commit-msg hook spec and whether it is enabled.
func (c Config) CommitMsgHook() (githook.Spec, bool) {
	h := c.Hooks.CommitMsg
	enabled := h.Enabled == nil || *h.Enabled
	return githook.CommitMsg(h.Task, h.Shell), enabled
}

var envRefRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${NAME} references only, so shell fragments such as
// "$1" or "$?" reach the hook script untouched.
func expandEnv(s string) string {
	return envRefRe.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	})
}

// Load reads a YAML layer with ${NAME} environment expansion and validates it.
func Load(path string, target *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: config path chosen by the user
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal([]byte(expandEnv(string(data))), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := target.Validate(); err != nil {
		return fmt.Errorf("config validation failed for %s: %w", path, err)
	}
	return nil
}

// loadOptional is Load for layers that may not exist.
func loadOptional(path string) (Config, bool, error) {
	var layer Config
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return layer, false, nil
	}
	if err := Load(path, &layer); err != nil {
		return Config{}, false, err
	}
	return layer, true, nil
}

func boolPtr(b bool) *bool { return &b }

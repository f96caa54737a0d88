// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Commitlint - conventional commit message linting and git hook management.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bartekus/commitlint/cmd/commitlint/internal/clierr"
	"github.com/bartekus/commitlint/internal/config"
	"github.com/bartekus/commitlint/internal/gitrepo"
	"github.com/bartekus/commitlint/internal/logging"
	"github.com/bartekus/commitlint/internal/projectroot"
)

// Version is set at build time with -ldflags "-X ...commands.Version=...".
var Version = ""

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	verbose    bool
	configPath string
	dir        string
}

// session is what a subcommand works with after flags are parsed.
type session struct {
	cfg  config.Config
	repo *gitrepo.Repo // nil outside a repository
	dir  string
	log  *slog.Logger
}

// resolvePath anchors p at the repository root, or at the working
// directory outside a repository.
func (s *session) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	if s.repo != nil {
		return filepath.Join(s.repo.Root(), p)
	}
	return filepath.Join(s.dir, p)
}

// fromWorkdir anchors a path given on the command line at the working
// directory.
func (s *session) fromWorkdir(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.dir, p)
}

// requireRepo returns the repository or a configuration error.
func (s *session) requireRepo() (*gitrepo.Repo, error) {
	if s.repo == nil {
		return nil, clierr.Wrap(clierr.ExitConfig, "commitlint", projectroot.ErrNotFound)
	}
	return s.repo, nil
}

func (o *globalOptions) open(cmd *cobra.Command) (*session, error) {
	dir := o.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, clierr.Wrap(clierr.ExitConfig, "resolving working directory", err)
		}
		dir = wd
	}

	repo, err := gitrepo.Open(dir)
	if err != nil && !errors.Is(err, projectroot.ErrNotFound) {
		return nil, clierr.Wrap(clierr.ExitConfig, "locating repository", err)
	}

	opts := config.Options{File: o.configPath}
	if repo != nil {
		opts.RepoRoot = repo.Root()
	}
	cfg, err := config.Resolve(opts)
	if err != nil {
		return nil, clierr.WithCode(clierr.ExitConfig, err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, clierr.WithCode(clierr.ExitConfig, err)
	}
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := logging.Setup(cmd.ErrOrStderr(), level)

	s := &session{cfg: cfg, repo: repo, dir: dir, log: logger}
	if repo != nil {
		logger.Debug("repository found", slog.String("root", repo.Root()))
	}
	return s, nil
}

// NewRootCmd constructs the commitlint root Cobra command.
func NewRootCmd() *cobra.Command {
	version := Version
	if version == "" {
		version = os.Getenv("COMMITLINT_VERSION")
	}
	if version == "" {
		version = "0.0.0-dev"
	}

	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "commitlint",
		Short: "Commitlint - conventional commit linting and git hook management",
		Long: "Commitlint checks commit messages against the conventional commit grammar " +
			"and installs a commit-msg hook that runs the check on every commit.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a config file used instead of "+config.RepoFileName)
	cmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", "", "Run as if started in this directory")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of commitlint",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "commitlint version %s\n", version)
		},
	})

	cmd.AddCommand(NewLintCommand(opts))
	cmd.AddCommand(NewHooksCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

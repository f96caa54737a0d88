// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bartekus/commitlint/cmd/commitlint/internal/clierr"
	"github.com/bartekus/commitlint/internal/githook"
)

// NewHooksCommand returns the `commitlint hooks` command group.
func NewHooksCommand(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Manage the commit-msg git hook",
		Long: "Install, inspect or remove the generated commit-msg hook. Hook files written by " +
			"anyone else are detected by the missing " + githook.Marker + " marker and never touched.",
	}

	// Shared flag for all hooks subcommands
	cmd.PersistentFlags().String("hooks-dir", "", "Hooks directory (default: config hooks_dir, then git's hooks path)")

	cmd.AddCommand(newHooksInstallCommand(global))
	cmd.AddCommand(newHooksStatusCommand(global))
	cmd.AddCommand(newHooksUninstallCommand(global))

	return cmd
}

func newHooksInstallCommand(global *globalOptions) *cobra.Command {
	var command string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the commit-msg hook",
		Long: "Writes a commit-msg hook that runs `commitlint lint` on the drafted message. " +
			"Safe to run repeatedly; a hook you wrote yourself is left alone.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := global.open(cmd)
			if err != nil {
				return err
			}

			hooksDir, err := s.hooksDir(cmd)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(hooksDir, 0o755); err != nil {
				return clierr.Wrap(clierr.ExitConfig, "creating hooks directory", err)
			}

			if command == "" {
				if command, err = os.Executable(); err != nil {
					return clierr.Wrap(clierr.ExitConfig, "locating commitlint executable", err)
				}
			}

			spec, enabled := s.cfg.CommitMsgHook()
			if !enabled {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: disabled in config\n", spec.Name)
				return nil
			}

			outcome, err := githook.Install(hooksDir, command, spec)
			if err != nil {
				return clierr.Wrapf(clierr.ExitConfig, err, "installing %s hook", spec.Name)
			}
			s.log.Info("hook install finished",
				slog.String("hook", spec.Name),
				slog.String("dir", hooksDir),
				slog.String("outcome", string(outcome)))

			out := cmd.OutOrStdout()
			switch outcome {
			case githook.OutcomeUserOwned:
				_, _ = fmt.Fprintf(out, "%s: left untouched, existing hook was not generated by commitlint\n", spec.Name)
			default:
				_, _ = fmt.Fprintf(out, "%s: %s\n", spec.Name, outcome)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&command, "command", "", "Executable the hook invokes (default: this binary)")

	return cmd
}

func newHooksStatusCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether each supported hook is missing, managed or user-owned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := global.open(cmd)
			if err != nil {
				return err
			}
			hooksDir, err := s.hooksDir(cmd)
			if err != nil {
				return err
			}

			for _, name := range githook.SupportedNames() {
				state, err := githook.Inspect(hooksDir, name)
				if err != nil {
					return clierr.WithCode(clierr.ExitConfig, err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, state)
			}
			return nil
		},
	}
}

func newHooksUninstallCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove generated hooks, keeping user-owned ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := global.open(cmd)
			if err != nil {
				return err
			}
			hooksDir, err := s.hooksDir(cmd)
			if err != nil {
				return err
			}

			for _, name := range githook.SupportedNames() {
				removed, err := githook.Remove(hooksDir, name)
				if err != nil {
					return clierr.WithCode(clierr.ExitConfig, err)
				}
				if removed {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: removed\n", name)
				}
			}
			return nil
		},
	}
}

// hooksDir picks --hooks-dir, then config hooks_dir, then git's hooks path.
func (s *session) hooksDir(cmd *cobra.Command) (string, error) {
	if dir, _ := cmd.Flags().GetString("hooks-dir"); dir != "" {
		return s.fromWorkdir(dir), nil
	}
	if s.cfg.HooksDir != "" {
		return s.resolvePath(s.cfg.HooksDir), nil
	}
	repo, err := s.requireRepo()
	if err != nil {
		return "", err
	}
	dir, err := repo.HooksDir(cmd.Context())
	if err != nil {
		return "", clierr.Wrap(clierr.ExitConfig, "locating hooks directory", err)
	}
	return dir, nil
}

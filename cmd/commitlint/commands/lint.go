// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bartekus/commitlint/cmd/commitlint/internal/clierr"
	"github.com/bartekus/commitlint/internal/commitmsg"
)

// NewLintCommand returns the `commitlint lint` command.
func NewLintCommand(global *globalOptions) *cobra.Command {
	var (
		file        string
		enforceRefs bool
	)

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check a commit message",
		Long: "Reads the pending commit message (by default the repository's COMMIT_EDITMSG) " +
			"and checks it against the conventional commit rules. Exits 1 on the first violation.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := global.open(cmd)
			if err != nil {
				return err
			}

			policy := s.cfg.Policy()
			if cmd.Flags().Changed("enforce-refs") {
				policy.EnforceIssueReference = enforceRefs
			}

			message, source, err := readMessage(cmd, s, file)
			if err != nil {
				return err
			}
			s.log.Debug("linting commit message",
				slog.String("source", source),
				slog.Bool("enforce_issue_reference", policy.EnforceIssueReference))

			res := commitmsg.Validate(message, policy)
			switch {
			case res.Exempt:
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ commit message exempt (%s)\n", res.Reason)
				return nil
			case res.OK():
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ commit message ok")
				return nil
			default:
				s.log.Debug("commit message rejected", slog.String("rule", res.Kind.String()))
				return clierr.WithCode(clierr.ExitViolation, res.Err())
			}
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Commit message file, or - for stdin (default: COMMIT_EDITMSG)")
	cmd.Flags().BoolVar(&enforceRefs, "enforce-refs", false, "Require an issue reference such as 'refs #42'")

	return cmd
}

// readMessage loads the message from --file, the configured message_file or
// the repository's COMMIT_EDITMSG, in that order.
func readMessage(cmd *cobra.Command, s *session, file string) (string, string, error) {
	if file == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", clierr.Wrap(clierr.ExitConfig, "reading commit message from stdin", err)
		}
		return string(data), "stdin", nil
	}

	path := file
	switch {
	case path != "":
		path = s.fromWorkdir(path)
	case s.cfg.MessageFile != "":
		path = s.resolvePath(s.cfg.MessageFile)
	default:
		repo, err := s.requireRepo()
		if err != nil {
			return "", "", err
		}
		if path, err = repo.CommitEditMsgPath(cmd.Context()); err != nil {
			return "", "", clierr.Wrap(clierr.ExitConfig, "locating commit message", err)
		}
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path chosen by git or the user
	if err != nil {
		return "", "", clierr.Wrap(clierr.ExitConfig, "reading commit message", err)
	}
	return string(data), path, nil
}

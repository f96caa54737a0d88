// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bartekus/commitlint/cmd/commitlint/internal/clierr"
	"github.com/bartekus/commitlint/internal/reports/commithealth"
)

// NewHistoryCommand returns the `commitlint history` command.
func NewHistoryCommand(global *globalOptions) *cobra.Command {
	var (
		format      string
		enforceRefs bool
	)

	cmd := &cobra.Command{
		Use:   "history <revision-range>",
		Short: "Lint the messages of existing commits",
		Long: "Runs the commit message checks over every commit in a revision range " +
			"(for example origin/main..HEAD) and lists the commits that fail.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return clierr.Newf(clierr.ExitConfig, "invalid format: %s (must be 'text' or 'json')", format)
			}

			s, err := global.open(cmd)
			if err != nil {
				return err
			}
			repo, err := s.requireRepo()
			if err != nil {
				return err
			}

			policy := s.cfg.Policy()
			if cmd.Flags().Changed("enforce-refs") {
				policy.EnforceIssueReference = enforceRefs
			}

			report, err := commithealth.Analyze(repo.History(cmd.Context(), args[0]), policy)
			if err != nil {
				return clierr.WithCode(clierr.ExitConfig, err)
			}
			s.log.Debug("history analysed",
				slog.String("range", args[0]),
				slog.Int("total", report.Total),
				slog.Int("failed", len(report.Findings)))

			out := cmd.OutOrStdout()
			switch format {
			case "text":
				for _, f := range report.Findings {
					_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", shortSHA(f.SHA), f.Rule, f.Subject)
				}
				_, _ = fmt.Fprintf(out, "%d commits checked, %d exempt, %d failed\n",
					report.Total, report.Exempt, len(report.Findings))
			case "json":
				jsonData, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling JSON: %w", err)
				}
				jsonData = append(jsonData, '\n')
				if _, err := out.Write(jsonData); err != nil {
					return fmt.Errorf("writing JSON output: %w", err)
				}
			}

			if !report.Healthy() {
				return clierr.Newf(clierr.ExitViolation, "%d of %d commits fail commit message rules", len(report.Findings), report.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text (default) or json")
	cmd.Flags().BoolVar(&enforceRefs, "enforce-refs", false, "Require an issue reference such as 'refs #42'")

	return cmd
}

func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}

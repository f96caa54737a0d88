// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Commitlint - conventional commit message linting and git hook management.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package commithealth lints the messages of existing commits and summarises
// the result.
package commithealth

import (
	"fmt"

	"github.com/bartekus/commitlint/internal/commitmsg"
)

// CommitMetadata represents a single commit's metadata.
type CommitMetadata struct {
	SHA     string
	Message string
}

// HistorySource provides commit history for analysis.
type HistorySource interface {
	Commits() ([]CommitMetadata, error)
}

// Finding is one commit that failed linting.
type Finding struct {
	SHA     string         `json:"sha"`
	Subject string         `json:"subject"`
	Kind    commitmsg.Kind `json:"-"`
	Rule    string         `json:"rule"`
}

// Report summarises a lint run over a commit range.
type Report struct {
	Total    int       `json:"total"`
	Exempt   int       `json:"exempt"`
	Findings []Finding `json:"findings"`
}

// Healthy reports whether every commit passed.
func (r *Report) Healthy() bool { return len(r.Findings) == 0 }

// Analyze validates every commit from src under policy. Findings keep the
// order of the source.
func Analyze(src HistorySource, policy commitmsg.Policy) (*Report, error) {
	commits, err := src.Commits()
	if err != nil {
		return nil, fmt.Errorf("reading commit history: %w", err)
	}

	report := &Report{Total: len(commits), Findings: []Finding{}}
	for _, c := range commits {
		res := commitmsg.Validate(c.Message, policy)
		if res.Exempt {
			report.Exempt++
		}
		if res.OK() {
			continue
		}
		report.Findings = append(report.Findings, Finding{
			SHA:     c.SHA,
			Subject: subject(c.Message),
			Kind:    res.Kind,
			Rule:    res.Kind.String(),
		})
	}
	return report, nil
}

func subject(message string) string {
	if lines := commitmsg.LogicalLines(message); len(lines) > 0 {
		return lines[0]
	}
	return ""
}

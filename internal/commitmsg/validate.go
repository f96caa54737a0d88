// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commitmsg checks commit messages against the conventional commit
// header grammar and the repository's line-length and issue-reference rules.
package commitmsg

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	headerRe   = regexp.MustCompile(`^(build|chore|ci|docs|feat|fix|perf|refactor|revert|style|test)(\([a-z ]+\))?!?: .+$`)
	issueRefRe = regexp.MustCompile(`refs #\d+`)
)

// Policy holds the per-invocation switches of the validator.
type Policy struct {
	EnforceIssueReference bool
}

// Result is the outcome of Validate. Kind is KindNone on success.
type Result struct {
	Kind Kind
	// Exempt is set when an exemption rule let the message through; Reason
	// then names the rule.
	Exempt bool
	Reason string
}

// OK reports whether the message passed.
func (r Result) OK() bool { return r.Kind == KindNone }

// Err converts a failing result into a *ViolationError, or nil on success.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &ViolationError{Kind: r.Kind}
}

// ViolationError carries a violation as an error value for callers that need
// to abort with it.
type ViolationError struct {
	Kind Kind
}

func (e *ViolationError) Error() string { return e.Kind.Message() }

// LogicalLines drops VCS comment lines (first non-blank character '#') and
// trailing blank lines, keeping order and interior blank lines.
func LogicalLines(message string) []string {
	raw := strings.Split(message, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "#") {
			continue
		}
		lines = append(lines, line)
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Validate runs the checks in fixed order and reports the first violation.
func Validate(message string, policy Policy) Result {
	if reason, ok := IsExempt(message); ok {
		return Result{Exempt: true, Reason: reason}
	}

	lines := LogicalLines(message)
	if len(lines) == 0 {
		return Result{Kind: KindEmptyMessage}
	}

	checks := []func([]string, Policy) Kind{
		checkHeader,
		checkBlankLine,
		checkBodyLength,
		checkIssueReference,
	}
	for _, check := range checks {
		if kind := check(lines, policy); kind != KindNone {
			return Result{Kind: kind}
		}
	}
	return Result{}
}

func checkHeader(lines []string, _ Policy) Kind {
	header := lines[0]
	if !headerRe.MatchString(header) {
		return KindInvalidHeaderFormat
	}
	if utf8.RuneCountInString(header) > MaxSubjectLength {
		return KindSubjectTooLong
	}
	return KindNone
}

func checkBlankLine(lines []string, _ Policy) Kind {
	if len(lines) > 1 && lines[1] != "" {
		return KindMissingBlankLineBeforeBody
	}
	return KindNone
}

func checkBodyLength(lines []string, _ Policy) Kind {
	for _, line := range lines[min(2, len(lines)):] {
		if utf8.RuneCountInString(line) > MaxBodyLineLength {
			return KindBodyLineTooLong
		}
	}
	return KindNone
}

func checkIssueReference(lines []string, policy Policy) Kind {
	if !policy.EnforceIssueReference {
		return KindNone
	}
	for _, line := range lines {
		if issueRefRe.MatchString(line) {
			return KindNone
		}
	}
	return KindMissingIssueReference
}

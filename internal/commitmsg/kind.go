// SPDX-License-Identifier: AGPL-3.0-or-later

package commitmsg

import "fmt"

// Kind identifies the single rule a commit message violated.
// The zero value means the message passed.
type Kind int

const (
	KindNone Kind = iota
	KindEmptyMessage
	KindInvalidHeaderFormat
	KindSubjectTooLong
	KindMissingBlankLineBeforeBody
	KindBodyLineTooLong
	KindMissingIssueReference
)

const (
	MaxSubjectLength  = 50
	MaxBodyLineLength = 72
)

const conventionalCommitsURL = "https://www.conventionalcommits.org/en/v1.0.0/"

var kindNames = map[Kind]string{
	KindNone:                       "none",
	KindEmptyMessage:               "empty-message",
	KindInvalidHeaderFormat:        "invalid-header-format",
	KindSubjectTooLong:             "subject-too-long",
	KindMissingBlankLineBeforeBody: "missing-blank-line-before-body",
	KindBodyLineTooLong:            "body-line-too-long",
	KindMissingIssueReference:      "missing-issue-reference",
}

var kindMessages = map[Kind]string{
	KindEmptyMessage: "Commit message is empty. Write a header such as 'feat(api): add user authentication'.\n" +
		"See " + conventionalCommitsURL,
	KindInvalidHeaderFormat: "Invalid commit message format. The commit message must start with a valid type\n" +
		"(build, chore, ci, docs, feat, fix, perf, refactor, revert, style, or test),\n" +
		"followed by an optional scope in parentheses, an optional '!' for breaking changes,\n" +
		"and then a description. Example: 'feat(api): add user authentication'.\n" +
		"See " + conventionalCommitsURL,
	KindSubjectTooLong:             fmt.Sprintf("Commit message exceeds %d characters.", MaxSubjectLength),
	KindMissingBlankLineBeforeBody: "Add a blank line before the BODY.",
	KindBodyLineTooLong:            fmt.Sprintf("Commit message line exceeds %d characters.", MaxBodyLineLength),
	KindMissingIssueReference:      "Commit message should reference an issue in the format 'refs #number'",
}

// String returns a stable identifier suitable for logs and JSON.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Message returns the human-readable rule description shown to the committer.
func (k Kind) Message() string {
	return kindMessages[k]
}

// Kinds lists every violation kind in check order.
func Kinds() []Kind {
	return []Kind{
		KindEmptyMessage,
		KindInvalidHeaderFormat,
		KindSubjectTooLong,
		KindMissingBlankLineBeforeBody,
		KindBodyLineTooLong,
		KindMissingIssueReference,
	}
}

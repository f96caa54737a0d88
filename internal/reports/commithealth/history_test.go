package commithealth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/commitlint/internal/commitmsg"
)

type staticHistory struct {
	commits []CommitMetadata
	err     error
}

func (s staticHistory) Commits() ([]CommitMetadata, error) { return s.commits, s.err }

func TestAnalyze(t *testing.T) {
	src := staticHistory{commits: []CommitMetadata{
		{SHA: "a1", Message: "feat: add lint command\n"},
		{SHA: "b2", Message: "Fixed stuff\n"},
		{SHA: "c3", Message: "Merge branch 'main' into topic\n"},
		{SHA: "d4", Message: "fix: typo\nno separator\n"},
		{SHA: "e5", Message: "\n"},
	}}

	report, err := Analyze(src, commitmsg.Policy{})
	require.NoError(t, err)

	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 1, report.Exempt)
	assert.False(t, report.Healthy())
	assert.Equal(t, []Finding{
		{SHA: "b2", Subject: "Fixed stuff", Kind: commitmsg.KindInvalidHeaderFormat, Rule: "invalid-header-format"},
		{SHA: "d4", Subject: "fix: typo", Kind: commitmsg.KindMissingBlankLineBeforeBody, Rule: "missing-blank-line-before-body"},
		{SHA: "e5", Subject: "", Kind: commitmsg.KindEmptyMessage, Rule: "empty-message"},
	}, report.Findings)
}

func TestAnalyze_Policy(t *testing.T) {
	src := staticHistory{commits: []CommitMetadata{{SHA: "a1", Message: "fix: bug\n"}}}

	report, err := Analyze(src, commitmsg.Policy{})
	require.NoError(t, err)
	assert.True(t, report.Healthy())

	report, err = Analyze(src, commitmsg.Policy{EnforceIssueReference: true})
	require.NoError(t, err)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, commitmsg.KindMissingIssueReference, report.Findings[0].Kind)
}

func TestAnalyze_SourceError(t *testing.T) {
	_, err := Analyze(staticHistory{err: errors.New("boom")}, commitmsg.Policy{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

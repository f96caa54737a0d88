package githook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/commitlint/internal/testutil/golden"
)

const lintTask = `lint --file "$1"`

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		command string
		spec    Spec
	}{
		{"commit_msg_task", "/usr/local/bin/commitlint", CommitMsg(lintTask, "")},
		{"commit_msg_task_and_shell", "/opt/my tools/commitlint", CommitMsg(lintTask, "go vet ./...")},
		{"commit_msg_empty", "", CommitMsg("  ", "\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.command, tt.spec)
			require.NoError(t, err)
			golden.Assert(t, tt.name, got)
		})
	}
}

func TestRender_TaskNeedsCommand(t *testing.T) {
	_, err := Render("", CommitMsg(lintTask, ""))
	require.Error(t, err)
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, `'plain'`, shellQuote("plain"))
	assert.Equal(t, `'it'\''s'`, shellQuote("it's"))
}

func TestInstall_CreatesExecutableHook(t *testing.T) {
	dir := t.TempDir()

	outcome, err := Install(dir, "/bin/commitlint", CommitMsg(lintTask, ""))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)

	path := filepath.Join(dir, CommitMsgHook)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, IsManaged(content))
	assert.Contains(t, string(content), `'/bin/commitlint' lint --file "$1"`)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o111), info.Mode().Perm()&0o111)
}

func TestInstall_Idempotent(t *testing.T) {
	dir := t.TempDir()
	spec := CommitMsg(lintTask, "echo done")
	path := filepath.Join(dir, CommitMsgHook)

	_, err := Install(dir, "/bin/commitlint", spec)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	firstInfo, err := os.Stat(path)
	require.NoError(t, err)

	outcome, err := Install(dir, "/bin/commitlint", spec)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, outcome)

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	secondInfo, err := os.Stat(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstInfo.Mode(), secondInfo.Mode())
}

func TestInstall_RegeneratesManagedHook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CommitMsgHook)
	stale := "#!/bin/sh\n" + Marker + "\nold-command\n"
	require.NoError(t, os.WriteFile(path, []byte(stale), 0o700))

	outcome, err := Install(dir, "/bin/commitlint", CommitMsg(lintTask, ""))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "old-command")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o711), info.Mode().Perm())
}

func TestInstall_RestoresExecuteBit(t *testing.T) {
	dir := t.TempDir()
	spec := CommitMsg(lintTask, "")
	path := filepath.Join(dir, CommitMsgHook)

	_, err := Install(dir, "/bin/commitlint", spec)
	require.NoError(t, err)
	require.NoError(t, os.Chmod(path, 0o644))

	outcome, err := Install(dir, "/bin/commitlint", spec)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestInstall_UserOwnedIsPermanent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CommitMsgHook)
	userScript := "#!/bin/sh\nnpx commitlint --edit \"$1\"\n"
	require.NoError(t, os.WriteFile(path, []byte(userScript), 0o644))

	specs := []Spec{
		CommitMsg(lintTask, ""),
		CommitMsg(lintTask, "echo extra"),
		CommitMsg("", "make check"),
	}
	for _, spec := range specs {
		outcome, err := Install(dir, "/bin/commitlint", spec)
		require.NoError(t, err)
		assert.Equal(t, OutcomeUserOwned, outcome)
	}

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, userScript, string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestInstall_EmptyFileIsUserOwned(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CommitMsgHook)
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	outcome, err := Install(dir, "/bin/commitlint", CommitMsg(lintTask, ""))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUserOwned, outcome)
}

func TestInstall_MarkerAnywhereCountsAsManaged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CommitMsgHook)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/bash\necho hi # build-logic-githook v0\n"), 0o755))

	outcome, err := Install(dir, "/bin/commitlint", CommitMsg(lintTask, ""))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
}

func TestInstall_UnsupportedName(t *testing.T) {
	dir := t.TempDir()

	outcome, err := Install(dir, "/bin/commitlint", Spec{Name: "pre-push", Task: "lint"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnsupported, outcome)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInstall_MissingHooksDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")

	_, err := Install(dir, "/bin/commitlint", CommitMsg(lintTask, ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInstall_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()

	_, err := Install(dir, "/bin/commitlint", CommitMsg(lintTask, ""))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, CommitMsgHook, entries[0].Name())
}

func TestInspectAndRemove(t *testing.T) {
	dir := t.TempDir()

	state, err := Inspect(dir, CommitMsgHook)
	require.NoError(t, err)
	assert.Equal(t, StateMissing, state)

	_, err = Install(dir, "/bin/commitlint", CommitMsg(lintTask, ""))
	require.NoError(t, err)

	state, err = Inspect(dir, CommitMsgHook)
	require.NoError(t, err)
	assert.Equal(t, StateManaged, state)

	removed, err := Remove(dir, CommitMsgHook)
	require.NoError(t, err)
	assert.True(t, removed)

	require.NoError(t, os.WriteFile(filepath.Join(dir, CommitMsgHook), []byte("#!/bin/sh\n"), 0o755))
	state, err = Inspect(dir, CommitMsgHook)
	require.NoError(t, err)
	assert.Equal(t, StateUserOwned, state)

	removed, err = Remove(dir, CommitMsgHook)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.FileExists(t, filepath.Join(dir, CommitMsgHook))
}

func TestSupportedNames(t *testing.T) {
	assert.Equal(t, []string{"commit-msg"}, SupportedNames())
}

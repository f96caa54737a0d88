// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gitrepo resolves repository paths and reads commit history by
// asking the git binary.
package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bartekus/commitlint/internal/projectroot"
	"github.com/bartekus/commitlint/internal/reports/commithealth"
)

// CommitEditMsg is the file git leaves the drafted message in.
const CommitEditMsg = "COMMIT_EDITMSG"

// Repo is a git working tree.
type Repo struct {
	root string

	mu       sync.Mutex
	gitPaths map[string]string
}

// Open finds the repository enclosing dir.
func Open(dir string) (*Repo, error) {
	root, err := projectroot.Find(dir)
	if err != nil {
		return nil, err
	}
	return &Repo{root: root, gitPaths: map[string]string{}}, nil
}

// Root returns the working tree root.
func (r *Repo) Root() string { return r.root }

// GitPath resolves name inside the git directory the way git does, which
// follows worktree links and core.hooksPath. Results are cached for the
// instance lifetime. Without a usable git binary it falls back to
// <root>/.git/<name>.
func (r *Repo) GitPath(ctx context.Context, name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.gitPaths[name]; ok {
		return p, nil
	}

	out, err := r.git(ctx, "rev-parse", "--git-path", name)
	var p string
	if err != nil {
		slog.Debug("git rev-parse failed, using .git directly", slog.String("name", name), slog.String("error", err.Error()))
		p = filepath.Join(r.root, ".git", name)
	} else {
		p = strings.TrimSpace(string(out))
		if !filepath.IsAbs(p) {
			p = filepath.Join(r.root, p)
		}
	}

	r.gitPaths[name] = p
	return p, nil
}

// HooksDir returns the directory git runs hooks from.
func (r *Repo) HooksDir(ctx context.Context) (string, error) {
	return r.GitPath(ctx, "hooks")
}

// CommitEditMsgPath returns the path of the pending commit message.
func (r *Repo) CommitEditMsgPath(ctx context.Context) (string, error) {
	return r.GitPath(ctx, CommitEditMsg)
}

// Messages returns SHA and raw message of every commit in revRange, newest
// first, as git log lists them.
func (r *Repo) Messages(ctx context.Context, revRange string) ([]commithealth.CommitMetadata, error) {
	// %x00 separates hash from body; -z separates commits.
	out, err := r.git(ctx, "log", "-z", "--format=%H%x00%B", revRange, "--")
	if err != nil {
		return nil, err
	}
	return parseLog(out)
}

// History adapts a revision range to commithealth.HistorySource.
func (r *Repo) History(ctx context.Context, revRange string) commithealth.HistorySource {
	return &history{ctx: ctx, repo: r, revRange: revRange}
}

type history struct {
	ctx      context.Context
	repo     *Repo
	revRange string
}

func (h *history) Commits() ([]commithealth.CommitMetadata, error) {
	return h.repo.Messages(h.ctx, h.revRange)
}

func parseLog(out []byte) ([]commithealth.CommitMetadata, error) {
	out = bytes.TrimSuffix(out, []byte{0})
	if len(out) == 0 {
		return []commithealth.CommitMetadata{}, nil
	}

	fields := strings.Split(string(out), "\x00")
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("unexpected git log output: %d fields", len(fields))
	}

	commits := make([]commithealth.CommitMetadata, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		commits = append(commits, commithealth.CommitMetadata{
			SHA:     strings.TrimSpace(fields[i]),
			Message: fields[i+1],
		})
	}
	return commits, nil
}

func (r *Repo) git(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.root
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s failed: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

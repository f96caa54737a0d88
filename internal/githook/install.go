// SPDX-License-Identifier: AGPL-3.0-or-later

// Package githook renders and installs the git hooks managed by commitlint.
//
// A hook file is ours when it contains Marker. Files without it were written
// by someone else and are never created over, rewritten or removed.
package githook

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// CommitMsgHook is the git hook invoked with the path of the drafted message.
const CommitMsgHook = "commit-msg"

var supportedNames = []string{CommitMsgHook}

// SupportedNames lists the hooks Install will write.
func SupportedNames() []string {
	return slices.Clone(supportedNames)
}

// Spec describes one hook independent of rendering. Empty Task or Shell
// means the fragment is absent.
type Spec struct {
	Name  string
	Task  string
	Shell string
}

// CommitMsg returns the Spec for the commit-msg hook.
func CommitMsg(task, shell string) Spec {
	return Spec{Name: CommitMsgHook, Task: task, Shell: shell}
}

// Outcome reports what Install did.
type Outcome string

const (
	OutcomeUnsupported Outcome = "unsupported"
	OutcomeCreated     Outcome = "created"
	OutcomeUpdated     Outcome = "updated"
	OutcomeUnchanged   Outcome = "unchanged"
	OutcomeUserOwned   Outcome = "user-owned"
)

// State is the ownership status of a hook path.
type State string

const (
	StateMissing   State = "missing"
	StateManaged   State = "managed"
	StateUserOwned State = "user-owned"
)

// IsManaged reports whether content carries the ownership marker.
func IsManaged(content []byte) bool {
	return bytes.Contains(content, []byte(Marker))
}

// Install writes spec into hooksDir unless the target belongs to the user.
// Unsupported hook names and user-owned files are no-ops, not errors.
// File-system failures, including a missing hooksDir, are returned.
func Install(hooksDir, commandPath string, spec Spec) (Outcome, error) {
	if !slices.Contains(supportedNames, spec.Name) {
		return OutcomeUnsupported, nil
	}

	info, err := os.Stat(hooksDir)
	if err != nil {
		return "", fmt.Errorf("hooks directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("hooks directory %s is not a directory", hooksDir)
	}

	path := filepath.Join(hooksDir, spec.Name)
	existing, mode, err := readHook(path)
	if err != nil {
		return "", err
	}
	if existing != nil && !IsManaged(existing) {
		return OutcomeUserOwned, nil
	}

	script, err := Render(commandPath, spec)
	if err != nil {
		return "", err
	}

	outcome := OutcomeCreated
	if existing != nil {
		if bytes.Equal(existing, []byte(script)) && mode&0o111 == 0o111 {
			return OutcomeUnchanged, nil
		}
		outcome = OutcomeUpdated
	} else {
		mode = 0o755
	}

	if err := replaceFile(path, []byte(script), mode|0o111); err != nil {
		return "", err
	}
	return outcome, nil
}

// Inspect reports whether hooksDir/name is absent, ours or the user's.
func Inspect(hooksDir, name string) (State, error) {
	content, _, err := readHook(filepath.Join(hooksDir, name))
	if err != nil {
		return "", err
	}
	switch {
	case content == nil:
		return StateMissing, nil
	case IsManaged(content):
		return StateManaged, nil
	default:
		return StateUserOwned, nil
	}
}

// Remove deletes hooksDir/name if it is a managed hook and reports whether a
// file was removed.
func Remove(hooksDir, name string) (bool, error) {
	state, err := Inspect(hooksDir, name)
	if err != nil || state != StateManaged {
		return false, err
	}
	if err := os.Remove(filepath.Join(hooksDir, name)); err != nil {
		return false, fmt.Errorf("removing hook %s: %w", name, err)
	}
	return true, nil
}

// readHook returns nil content when path does not exist.
func readHook(path string) ([]byte, fs.FileMode, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("stat hook %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("hook path %s is a directory", path)
	}
	content, err := os.ReadFile(path) //nolint:gosec // G304: path is inside the hooks directory
	if err != nil {
		return nil, 0, fmt.Errorf("reading hook %s: %w", path, err)
	}
	if content == nil {
		content = []byte{}
	}
	return content, info.Mode().Perm(), nil
}

// replaceFile swaps path for data in one rename so a reader never sees a
// partially written hook.
func replaceFile(path string, data []byte, mode fs.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp hook: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing hook: %w", err)
	}
	if err = tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod hook: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing hook: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("installing hook %s: %w", path, err)
	}
	return nil
}

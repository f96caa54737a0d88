// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projectroot locates the working tree root of a git repository.
package projectroot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when no enclosing repository exists.
var ErrNotFound = errors.New("not inside a git repository")

// Find walks up from dir to the first directory containing a .git entry.
// A .git file (worktrees, submodules) counts as well as a directory.
func Find(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}

	for cur := abs; ; {
		if _, err := os.Lstat(filepath.Join(cur, ".git")); err == nil {
			return cur, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("checking %s: %w", cur, err)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", fmt.Errorf("%w (searched up from %s)", ErrNotFound, abs)
		}
		cur = parent
	}
}

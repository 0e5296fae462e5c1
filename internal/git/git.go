// Package git locates repositories and reads their current commit.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var (
	// ErrNotARepository is returned when no .git entry exists in a directory or its parents.
	ErrNotARepository = errors.New("could not identify a git repository")
	// ErrNoCommit is returned when HEAD cannot be resolved.
	ErrNoCommit = errors.New("not in a git repository or git is not installed")
)

// RepoRoot walks upward from start and returns the first directory that
// contains a .git entry. An empty start means the working directory.
// .git may be a file, as in worktrees and submodules.
func RepoRoot(start string) (string, error) {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		start = wd
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w starting from %s", ErrNotARepository, start)
		}
		dir = parent
	}
}

// CommitHash returns the full hash of HEAD for the repository containing dir.
// An empty dir means the working directory.
func CommitHash(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoCommit, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// Repo is a repository rooted at a directory.
type Repo struct {
	root string
}

// Open finds the repository containing start.
func Open(start string) (*Repo, error) {
	root, err := RepoRoot(start)
	if err != nil {
		return nil, err
	}
	return &Repo{root: root}, nil
}

// Root returns the repository's top-level directory.
func (r *Repo) Root() string {
	return r.root
}

// Head returns the commit hash of HEAD.
func (r *Repo) Head(ctx context.Context) (string, error) {
	return CommitHash(ctx, r.root)
}

package paths

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fxnlabs/againkit/internal/metrics"
)

// DefaultNamespace is the directory under the repository root that holds run outputs.
const DefaultNamespace = "outputs"

// ErrOutsideRepo is returned when a namespace would escape the repository root.
var ErrOutsideRepo = errors.New("namespace is outside the git repository root")

// RepoInfo is the repository a run directory is created in.
type RepoInfo interface {
	Root() string
	Head(ctx context.Context) (string, error)
}

// UniqueRunDir creates and returns
// {root}/{namespace}/{YYYY-MM-DD}/{HH-MM-SS}/{commit}.
// The timestamp is taken from now in local time. namespace may be absolute
// as long as it resolves inside root.
func UniqueRunDir(ctx context.Context, repo RepoInfo, namespace string, now time.Time) (string, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	root, err := resolve(repo.Root())
	if err != nil {
		return "", err
	}
	target := namespace
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, namespace)
	}
	namespaceDir, err := resolve(target)
	if err != nil {
		return "", err
	}
	if !within(root, namespaceDir) {
		return "", fmt.Errorf("%w: %q resolves to %s, outside %s; use a relative path without '..'",
			ErrOutsideRepo, namespace, namespaceDir, root)
	}

	commit, err := repo.Head(ctx)
	if err != nil {
		return "", err
	}

	local := now.Local()
	dir, err := NormalizeDirPath(filepath.Join(
		namespaceDir,
		local.Format("2006-01-02"),
		local.Format("15-04-05"),
		commit,
	), true)
	if err != nil {
		return "", err
	}
	metrics.RunDirsCreated.Inc()
	return dir, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Package paths normalizes filesystem paths and builds run output directories.
package paths

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const dirPerm = 0o755

// ErrEmptyPath is returned when an empty string is given as a path.
var ErrEmptyPath = errors.New("empty path")

type fileOptions struct {
	mustExist  bool
	makeParent bool
}

// FileOption configures NormalizeFilePath.
type FileOption func(*fileOptions)

// MustExist makes NormalizeFilePath fail when the file does not exist.
func MustExist() FileOption {
	return func(o *fileOptions) { o.mustExist = true }
}

// NoParent stops NormalizeFilePath from creating the parent directory.
func NoParent() FileOption {
	return func(o *fileOptions) { o.makeParent = false }
}

// NormalizeFilePath returns the absolute, symlink-resolved form of path.
// By default the parent directory is created.
func NormalizeFilePath(path string, opts ...FileOption) (string, error) {
	o := fileOptions{makeParent: true}
	for _, opt := range opts {
		opt(&o)
	}

	normalized, err := resolve(path)
	if err != nil {
		return "", err
	}

	if o.makeParent {
		if err := os.MkdirAll(filepath.Dir(normalized), dirPerm); err != nil {
			return "", fmt.Errorf("failed to create parent of %s: %w", normalized, err)
		}
	}

	if o.mustExist {
		if _, err := os.Stat(normalized); err != nil {
			return "", fmt.Errorf("path %s does not exist: %w", normalized, err)
		}
	}

	return normalized, nil
}

// NormalizeDirPath returns the absolute, symlink-resolved form of path,
// creating the directory and its parents when create is set.
func NormalizeDirPath(path string, create bool) (string, error) {
	normalized, err := resolve(path)
	if err != nil {
		return "", err
	}

	if create {
		if err := os.MkdirAll(normalized, dirPerm); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", normalized, err)
		}
	}

	return normalized, nil
}

// ToString returns the resolved absolute form of path. Symlinks are
// evaluated as far as the path exists; nothing is created.
func ToString(path string) (string, error) {
	return resolve(path)
}

// resolve makes path absolute and evaluates symlinks in the longest prefix
// that exists. Missing trailing components are kept as given.
func resolve(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	existing, rest := abs, ""
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			return filepath.Join(resolved, rest), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(existing), rest)
		existing = parent
	}
}

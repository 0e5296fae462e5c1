// Package expconfig composes experiment configuration trees from YAML and
// TOML files, command-line overrides and interpolations.
package expconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/fxnlabs/againkit/internal/git"
)

const (
	// DefaultDirName is the directory under the repository root searched when no config dir is given.
	DefaultDirName = "conf"

	defaultsKey = "defaults"
	selfEntry   = "_self_"
)

var (
	ErrNoConfigName = errors.New("no config name given")
	ErrCycle        = errors.New("defaults cycle")
)

var extensions = []string{".yaml", ".yml", ".toml"}

// LoadOptions selects the config to compose. Explicit fields win over
// values parsed from Argv.
type LoadOptions struct {
	ConfigName string
	ConfigDir  string
	Overrides  []string
	// Argv is parsed with ParseArgs; its overrides are applied before Overrides.
	Argv []string
	// RepoRoot locates the repository whose conf directory is used when no
	// config dir is given. Defaults to git.RepoRoot from the working directory.
	RepoRoot func() (string, error)
}

// DefaultDir returns {repo root}/conf for the repository containing the working directory.
func DefaultDir() (string, error) {
	root, err := git.RepoRoot("")
	if err != nil {
		return "", err
	}
	return filepath.Join(root, DefaultDirName), nil
}

// Load composes the named config, applies overrides and resolves interpolations.
func Load(opts LoadOptions) (map[string]any, error) {
	var cli Args
	if opts.Argv != nil {
		var err error
		if cli, err = ParseArgs(opts.Argv); err != nil {
			return nil, err
		}
	}

	name := firstNonEmpty(opts.ConfigName, cli.ConfigName)
	if name == "" {
		return nil, ErrNoConfigName
	}

	dir := firstNonEmpty(opts.ConfigDir, cli.ConfigDir)
	if dir == "" {
		repoRoot := opts.RepoRoot
		if repoRoot == nil {
			repoRoot = func() (string, error) { return git.RepoRoot("") }
		}
		root, err := repoRoot()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(root, DefaultDirName)
	}

	tree, err := compose(dir, name, make(map[string]bool))
	if err != nil {
		return nil, err
	}

	overrides := append(append([]string{}, cli.Overrides...), opts.Overrides...)
	for _, raw := range overrides {
		o, err := parseOverride(raw)
		if err != nil {
			return nil, err
		}
		if err := o.apply(tree); err != nil {
			return nil, err
		}
	}

	return resolveTree(tree)
}

// compose reads dir/name and merges its defaults list. The file's own
// values are merged last unless _self_ appears in the list.
func compose(dir, name string, seen map[string]bool) (map[string]any, error) {
	file, err := findFile(dir, name)
	if err != nil {
		return nil, err
	}
	if seen[file] {
		return nil, fmt.Errorf("%w: %s", ErrCycle, file)
	}
	seen[file] = true
	defer delete(seen, file)

	own, err := readFile(file)
	if err != nil {
		return nil, err
	}
	defaults, err := defaultsList(own, file)
	if err != nil {
		return nil, err
	}
	delete(own, defaultsKey)

	merged := make(map[string]any)
	selfMerged := false
	for _, entry := range defaults {
		switch e := entry.(type) {
		case string:
			if e == selfEntry {
				merge(merged, own)
				selfMerged = true
				continue
			}
			sub, err := compose(dir, e, seen)
			if err != nil {
				return nil, err
			}
			merge(merged, sub)
		case map[string]any:
			for _, group := range sortedKeys(e) {
				option := e[group]
				if option == nil {
					continue
				}
				optionName, ok := option.(string)
				if !ok {
					return nil, fmt.Errorf("%s: defaults entry %s must name a config", file, group)
				}
				sub, err := compose(filepath.Join(dir, filepath.FromSlash(group)), optionName, seen)
				if err != nil {
					return nil, err
				}
				merge(merged, nest(group, sub))
			}
		default:
			return nil, fmt.Errorf("%s: unsupported defaults entry %v", file, entry)
		}
	}
	if !selfMerged {
		merge(merged, own)
	}
	return merged, nil
}

func defaultsList(tree map[string]any, file string) ([]any, error) {
	raw, ok := tree[defaultsKey]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: %s must be a list", file, defaultsKey)
	}
	return list, nil
}

func findFile(dir, name string) (string, error) {
	base := filepath.Join(dir, filepath.FromSlash(name))
	if hasKnownExtension(name) {
		if _, err := os.Stat(base); err != nil {
			return "", fmt.Errorf("config %q not found in %s: %w", name, dir, err)
		}
		return base, nil
	}
	for _, ext := range extensions {
		if _, err := os.Stat(base + ext); err == nil {
			return base + ext, nil
		}
	}
	return "", fmt.Errorf("config %q not found in %s: %w", name, dir, fs.ErrNotExist)
}

func hasKnownExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range extensions {
		if ext == known {
			return true
		}
	}
	return false
}

func readFile(file string) (map[string]any, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	tree := make(map[string]any)
	if strings.ToLower(filepath.Ext(file)) == ".toml" {
		err = toml.Unmarshal(data, &tree)
	} else {
		err = yaml.Unmarshal(data, &tree)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	normalize(tree)
	return tree, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

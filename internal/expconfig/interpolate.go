package expconfig

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrUnresolved is returned when an interpolation cannot be resolved.
var ErrUnresolved = errors.New("unresolved interpolation")

var interpolation = regexp.MustCompile(`\$\{([^${}]+)\}`)

// resolver expands ${path.to.key} and ${env:NAME[,default]} in string values.
type resolver struct {
	root   map[string]any
	active map[string]bool
}

func resolveTree(tree map[string]any) (map[string]any, error) {
	r := &resolver{root: tree, active: make(map[string]bool)}
	if _, err := r.value(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func (r *resolver) value(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return r.str(t)
	case map[string]any:
		for _, k := range sortedKeys(t) {
			resolved, err := r.value(t[k])
			if err != nil {
				return nil, err
			}
			t[k] = resolved
		}
		return t, nil
	case []any:
		for i, e := range t {
			resolved, err := r.value(e)
			if err != nil {
				return nil, err
			}
			t[i] = resolved
		}
		return t, nil
	}
	return v, nil
}

// str resolves a string. A string that is exactly one interpolation takes
// the type of the referenced value; otherwise results are formatted in place.
func (r *resolver) str(s string) (any, error) {
	loc := interpolation.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, nil
	}
	if loc[0] == 0 && loc[1] == len(s) {
		return r.expr(s[loc[2]:loc[3]])
	}

	var firstErr error
	out := interpolation.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}
		v, err := r.expr(match[2 : len(match)-1])
		if err != nil {
			firstErr = err
			return match
		}
		return fmt.Sprint(v)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func (r *resolver) expr(e string) (any, error) {
	e = strings.TrimSpace(e)
	for _, prefix := range []string{"env:", "oc.env:"} {
		if ref, ok := strings.CutPrefix(e, prefix); ok {
			return env(ref)
		}
	}
	return r.ref(e)
}

func (r *resolver) ref(path string) (any, error) {
	if r.active[path] {
		return nil, fmt.Errorf("%w: ${%s} refers to itself", ErrUnresolved, path)
	}
	v, ok := lookup(r.root, path)
	if !ok {
		return nil, fmt.Errorf("%w: ${%s} is not in config", ErrUnresolved, path)
	}

	r.active[path] = true
	defer delete(r.active, path)
	resolved, err := r.value(v)
	if err != nil {
		return nil, err
	}
	return deepCopy(resolved), nil
}

func env(ref string) (any, error) {
	name, fallback, hasDefault := strings.Cut(ref, ",")
	name = strings.TrimSpace(name)
	if v, ok := os.LookupEnv(name); ok {
		return v, nil
	}
	if hasDefault {
		return strings.TrimSpace(fallback), nil
	}
	return nil, fmt.Errorf("%w: environment variable %s is not set", ErrUnresolved, name)
}

package expconfig

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// normalize converts decoded YAML and TOML values to map[string]any and []any.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = normalize(e)
		}
		return m
	case []map[string]any:
		list := make([]any, len(t))
		for i, e := range t {
			list[i] = normalize(e)
		}
		return list
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	}
	return v
}

// merge copies src into dst. Mappings merge recursively; any other value in
// src replaces the one in dst.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if srcMap, ok := v.(map[string]any); ok {
			if dstMap, ok := dst[k].(map[string]any); ok {
				merge(dstMap, srcMap)
				continue
			}
		}
		dst[k] = deepCopy(v)
	}
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = deepCopy(e)
		}
		return m
	case []any:
		list := make([]any, len(t))
		for i, e := range t {
			list[i] = deepCopy(e)
		}
		return list
	}
	return v
}

// lookup follows a dotted path through mappings and lists.
func lookup(tree map[string]any, path string) (any, bool) {
	var node any = tree
	for _, segment := range strings.Split(path, ".") {
		switch t := node.(type) {
		case map[string]any:
			next, ok := t[segment]
			if !ok {
				return nil, false
			}
			node = next
		case []any:
			i, err := strconv.Atoi(segment)
			if err != nil || i < 0 || i >= len(t) {
				return nil, false
			}
			node = t[i]
		default:
			return nil, false
		}
	}
	return node, true
}

// nest places v under a slash-separated group path, e.g. "db/replica".
func nest(group string, v map[string]any) map[string]any {
	parts := strings.Split(group, "/")
	out := map[string]any(v)
	for i := len(parts) - 1; i >= 0; i-- {
		out = map[string]any{parts[i]: out}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package expconfig

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrBadOverride = errors.New("invalid override")
	ErrMissingKey  = errors.New("key is not in config")
	ErrKeyExists   = errors.New("key already in config")
)

type overrideOp int

const (
	opSet    overrideOp = iota // key=value, key must exist
	opAdd                      // +key=value, key must not exist
	opForce                    // ++key=value
	opDelete                   // ~key
)

type override struct {
	op    overrideOp
	path  []string
	value any
}

func parseOverride(raw string) (override, error) {
	var o override
	s := raw
	switch {
	case strings.HasPrefix(s, "++"):
		o.op, s = opForce, s[2:]
	case strings.HasPrefix(s, "+"):
		o.op, s = opAdd, s[1:]
	case strings.HasPrefix(s, "~"):
		o.op, s = opDelete, s[1:]
	}

	key, value, hasValue := strings.Cut(s, "=")
	if !hasValue && o.op != opDelete {
		return o, fmt.Errorf("%w %q: expected key=value", ErrBadOverride, raw)
	}

	o.path = strings.Split(strings.TrimSpace(key), ".")
	for _, segment := range o.path {
		if segment == "" {
			return o, fmt.Errorf("%w %q: empty key segment", ErrBadOverride, raw)
		}
	}

	if o.op != opDelete {
		v, err := parseValue(value)
		if err != nil {
			return o, fmt.Errorf("%w %q: %v", ErrBadOverride, raw, err)
		}
		o.value = v
	}
	return o, nil
}

// parseValue reads an override value as a YAML scalar or flow collection.
// An empty value is the empty string, and text YAML rejects is kept as a
// string unless it opens a collection.
func parseValue(s string) (any, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", nil
	}
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
			return nil, err
		}
		return s, nil
	}
	return normalize(v), nil
}

func (o override) key() string {
	return strings.Join(o.path, ".")
}

func (o override) apply(tree map[string]any) error {
	create := o.op == opAdd || o.op == opForce
	parent, err := walk(tree, o.path[:len(o.path)-1], create)
	if err != nil {
		return fmt.Errorf("override %s: %w", o.key(), err)
	}
	last := o.path[len(o.path)-1]
	_, exists := parent[last]

	switch o.op {
	case opSet:
		if !exists {
			return fmt.Errorf("%w: %s (use +%s=... to add it)", ErrMissingKey, o.key(), o.key())
		}
		parent[last] = o.value
	case opAdd:
		if exists {
			return fmt.Errorf("%w: %s (use ++%s=... to force it)", ErrKeyExists, o.key(), o.key())
		}
		parent[last] = o.value
	case opForce:
		parent[last] = o.value
	case opDelete:
		if !exists {
			return fmt.Errorf("%w: %s", ErrMissingKey, o.key())
		}
		delete(parent, last)
	}
	return nil
}

// walk returns the mapping at path, creating missing mappings when create is set.
func walk(tree map[string]any, path []string, create bool) (map[string]any, error) {
	node := tree
	for i, segment := range path {
		next, ok := node[segment]
		if !ok {
			if !create {
				return nil, fmt.Errorf("%w: %s", ErrMissingKey, strings.Join(path[:i+1], "."))
			}
			child := make(map[string]any)
			node[segment] = child
			node = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a mapping", ErrBadOverride, strings.Join(path[:i+1], "."))
		}
		node = child
	}
	return node, nil
}

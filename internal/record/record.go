package record

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Record is one structured record: string keys mapping to primitive or nested
// values, as decoded from JSON or YAML.
type Record map[string]any

// OverrideKey is the reserved key under which a record carries its own
// validation overrides. It is never part of the compared content.
const OverrideKey = "_validation"

// Path is a parsed dot-delimited field path.
type Path []string

// ParsePath parses "field" or "nested.field". Wildcard segments ("*") are
// accepted so ignore patterns parse too.
func ParsePath(path string) (Path, error) {
	if path == "" {
		return nil, errors.New("empty path")
	}

	parts := strings.Split(path, ".")
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("invalid path %q: empty segment", path)
		}

		if strings.TrimSpace(part) != part {
			return nil, fmt.Errorf("invalid path %q: whitespace around segment %q", path, part)
		}
	}

	return parts, nil
}

// String joins the path back with dots.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// HasWildcard returns true if any segment is "*".
func (p Path) HasWildcard() bool {
	for _, s := range p {
		if s == "*" {
			return true
		}
	}

	return false
}

// AsMap returns v as a plain map if it is one.
func AsMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, t != nil
	case Record:
		return map[string]any(t), t != nil
	default:
		return nil, false
	}
}

// Lookup returns the value at path and whether it is present.
// A present key holding nil counts as present.
func (r Record) Lookup(path string) (any, bool) {
	if r == nil || path == "" {
		return nil, false
	}

	var current any = map[string]any(r)

	for _, seg := range strings.Split(path, ".") {
		m, ok := AsMap(current)
		if !ok {
			return nil, false
		}

		current, ok = m[seg]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// Has returns true if a value is present at path.
func (r Record) Has(path string) bool {
	_, ok := r.Lookup(path)
	return ok
}

// Set writes v at path, creating intermediate objects. It returns false when an
// intermediate segment exists but is not an object.
func (r Record) Set(path string, v any) bool {
	if r == nil || path == "" {
		return false
	}

	segs := strings.Split(path, ".")
	current := map[string]any(r)

	for _, seg := range segs[:len(segs)-1] {
		next, exists := current[seg]
		if !exists {
			child := map[string]any{}
			current[seg] = child
			current = child

			continue
		}

		m, ok := AsMap(next)
		if !ok {
			return false
		}

		current = m
	}

	current[segs[len(segs)-1]] = v

	return true
}

// Delete removes the value at path and reports whether anything was removed.
func (r Record) Delete(path string) bool {
	if r == nil || path == "" {
		return false
	}

	segs := strings.Split(path, ".")
	current := map[string]any(r)

	for _, seg := range segs[:len(segs)-1] {
		m, ok := AsMap(current[seg])
		if !ok {
			return false
		}

		current = m
	}

	last := segs[len(segs)-1]
	if _, ok := current[last]; !ok {
		return false
	}

	delete(current, last)

	return true
}

// Clone returns a deep copy of the record. Nested maps become map[string]any
// and slices are copied element-wise.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}

	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}

	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return t
		}

		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}

		return out
	case Record:
		return map[string]any(t.Clone())
	case []any:
		if t == nil {
			return t
		}

		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}

		return out
	default:
		return v
	}
}

// Content returns a deep copy without the override key.
func (r Record) Content() Record {
	out := r.Clone()
	delete(out, OverrideKey)

	return out
}

// Walk calls fn for every key path in the record, parents before children,
// with keys visited in sorted order. Returning false from fn skips the subtree.
func (r Record) Walk(fn func(path string, value any) bool) {
	walkMap(map[string]any(r), "", fn)
}

func walkMap(m map[string]any, prefix string, fn func(string, any) bool) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		v := m[k]
		if !fn(path, v) {
			continue
		}

		if child, ok := AsMap(v); ok {
			walkMap(child, path, fn)
		}
	}
}

// Paths returns every key path in the record in Walk order.
func (r Record) Paths() []string {
	var out []string

	r.Walk(func(path string, _ any) bool {
		out = append(out, path)
		return true
	})

	return out
}

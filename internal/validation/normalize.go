package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/the-project-b/ritagraph-sub004/internal/canon"
	"github.com/the-project-b/ritagraph-sub004/internal/record"
)

// IsZero reports whether no normalization is enabled.
func (n *Normalization) IsZero() bool {
	return n == nil ||
		(!n.TrimWhitespace && !n.CaseInsensitive && !n.EmptyAsNull && !n.NumericStrings && len(n.UnorderedArrays) == 0)
}

// Normalize returns a normalized copy of rec. String leaves are trimmed,
// lowercased, nulled when empty and parsed as numbers, in that order, for
// whichever options are enabled. Arrays at UnorderedArrays paths are then
// sorted by canonical text.
func Normalize(rec record.Record, n *Normalization) record.Record {
	if n.IsZero() {
		return rec.Clone()
	}

	out, _ := n.value(map[string]any(rec), "").(map[string]any)

	return out
}

func (n *Normalization) value(v any, path string) any {
	switch t := v.(type) {
	case string:
		return n.scalar(t)

	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = n.value(child, join(path, k))
		}

		return out

	case record.Record:
		return n.value(map[string]any(t), path)

	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = n.value(child, path)
		}

		if n.unordered(path) {
			return canon.SortValues(out)
		}

		return out

	default:
		return v
	}
}

func (n *Normalization) scalar(s string) any {
	if n.TrimWhitespace {
		s = strings.TrimSpace(s)
	}

	if n.CaseInsensitive {
		s = strings.ToLower(s)
	}

	if n.EmptyAsNull && strings.TrimSpace(s) == "" {
		return nil
	}

	if n.NumericStrings {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}

	return s
}

func (n *Normalization) unordered(path string) bool {
	for _, pattern := range n.UnorderedArrays {
		if MatchPattern(pattern, path) {
			return true
		}
	}

	return false
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}

	return prefix + "." + key
}

package validation

import (
	"maps"
	"slices"
	"strings"

	"github.com/the-project-b/ritagraph-sub004/internal/canon"
	"github.com/the-project-b/ritagraph-sub004/internal/common"
)

// Wildcard matches exactly one path segment in an ignore pattern.
const Wildcard = "*"

// Config is one layer of comparison configuration. A nil facet means "not
// provided by this layer"; a non-nil empty facet is an explicit override.
type Config struct {
	// IgnorePaths lists dot-delimited paths excluded from comparison. A "*"
	// segment matches any single segment.
	IgnorePaths []string `yaml:"ignorePaths" mapstructure:"ignorePaths"`
	// Transformers maps a field path to a transformer key.
	Transformers map[string]string `yaml:"transformers" mapstructure:"transformers"`
	// Normalization enables value normalization before comparison.
	Normalization *Normalization `yaml:"normalization" mapstructure:"normalization"`
}

// Normalization options applied to both records before comparison.
type Normalization struct {
	TrimWhitespace  bool `yaml:"trimWhitespace" mapstructure:"trimWhitespace"`
	CaseInsensitive bool `yaml:"caseInsensitive" mapstructure:"caseInsensitive"`
	EmptyAsNull     bool `yaml:"emptyAsNull" mapstructure:"emptyAsNull"`
	NumericStrings  bool `yaml:"numericStrings" mapstructure:"numericStrings"`
	// UnorderedArrays lists paths whose array values are compared as
	// multisets.
	UnorderedArrays []string `yaml:"unorderedArrays" mapstructure:"unorderedArrays"`
}

// IsZero reports whether the layer provides no facet at all.
func (c *Config) IsZero() bool {
	return c == nil || (c.IgnorePaths == nil && c.Transformers == nil && c.Normalization == nil)
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	out := &Config{
		IgnorePaths:  slices.Clone(c.IgnorePaths),
		Transformers: maps.Clone(c.Transformers),
	}

	if c.Normalization != nil {
		n := *c.Normalization
		n.UnorderedArrays = slices.Clone(n.UnorderedArrays)
		out.Normalization = &n
	}

	return out
}

// Resolve collapses layers ordered from least to most specific. Each facet is
// taken whole from the last layer that provides it. Nil layers are skipped.
func Resolve(layers ...*Config) Config {
	var out Config

	for _, l := range layers {
		if l == nil {
			continue
		}

		if l.IgnorePaths != nil {
			out.IgnorePaths = l.IgnorePaths
		}

		if l.Transformers != nil {
			out.Transformers = l.Transformers
		}

		if l.Normalization != nil {
			out.Normalization = l.Normalization
		}
	}

	return *out.Clone()
}

// Merge resolves the global, per-example and per-record layers.
func Merge(global, example, perRecord *Config) Config {
	return Resolve(global, example, perRecord)
}

// TransformerPaths returns the configured transformer paths in sorted order.
func (c Config) TransformerPaths() []string {
	return canon.SortedKeys(c.Transformers)
}

// ShouldIgnorePath reports whether path or any of its ancestors matches an
// ignore pattern of cfg.
func ShouldIgnorePath(path string, cfg Config) bool {
	if common.IsEmpty(cfg.IgnorePaths) || path == "" {
		return false
	}

	segments := strings.Split(path, ".")
	for n := 1; n <= len(segments); n++ {
		for _, pattern := range cfg.IgnorePaths {
			if matchPattern(pattern, segments[:n]) {
				return true
			}
		}
	}

	return false
}

// MatchPattern reports whether pattern matches path exactly, segment by
// segment, with "*" matching any one segment.
func MatchPattern(pattern, path string) bool {
	return matchPattern(pattern, strings.Split(path, "."))
}

func matchPattern(pattern string, segments []string) bool {
	parts := strings.Split(pattern, ".")
	if len(parts) != len(segments) {
		return false
	}

	for i, p := range parts {
		if p != Wildcard && p != segments[i] {
			return false
		}
	}

	return true
}

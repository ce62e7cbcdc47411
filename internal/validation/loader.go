package validation

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/the-project-b/ritagraph-sub004/internal/record"
)

// DefaultMetadataKey is the metadata key holding an example's configuration.
const DefaultMetadataKey = "validation"

// File is the root of a configuration file. The global layer sits at the top
// level; Examples holds per-example layers keyed by example id.
//
//	ignorePaths: [mutationVariables.id]
//	transformers:
//	  effectiveDate: transformer-template-currentMonth+1
//	normalization:
//	  trimWhitespace: true
//	examples:
//	  raise-salary:
//	    transformers: {}
type File struct {
	Config   `yaml:",inline"`
	Examples map[string]*Config `yaml:"examples"`
}

// LoadFile loads and parses a YAML configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read validation config %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse validation config: %w", err)
	}

	return &f, nil
}

// Global returns the top-level layer, or nil when it provides nothing.
func (f *File) Global() *Config {
	if f == nil || f.Config.IsZero() {
		return nil
	}

	return &f.Config
}

// Example returns the layer for example id, or nil.
func (f *File) Example(id string) *Config {
	if f == nil {
		return nil
	}

	return f.Examples[id]
}

// FromMap decodes one configuration layer from generic data, as found in
// JSON metadata or a record override. Unknown keys are rejected.
func FromMap(m map[string]any) (*Config, error) {
	var c Config

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &c,
		ErrorUnused: true,
		TagName:     "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}

	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("failed to decode validation config: %w", err)
	}

	return &c, nil
}

// FromMetadata decodes the layer stored under key in metadata. A missing or
// null key yields nil.
func FromMetadata(metadata map[string]any, key string) (*Config, error) {
	raw, ok := metadata[key]
	if !ok || raw == nil {
		return nil, nil
	}

	m, ok := record.AsMap(raw)
	if !ok {
		return nil, fmt.Errorf("metadata %q: expected an object, got %T", key, raw)
	}

	return FromMap(m)
}

// ErrInvalidOverride is wrapped by RecordOverride for malformed overrides.
var ErrInvalidOverride = errors.New("invalid record override")

// RecordOverride decodes the "_validation" layer carried by rec, or nil.
func RecordOverride(rec record.Record) (*Config, error) {
	c, err := FromMetadata(rec, record.OverrideKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOverride, err)
	}

	return c, nil
}

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/the-project-b/ritagraph-sub004/internal/record"
)

// caseFile is one evaluation case: the expected and actual proposals plus
// the example metadata that may carry a validation layer. JSON files parse
// as well since JSON is valid YAML.
type caseFile struct {
	ID       string          `yaml:"id"`
	Metadata map[string]any  `yaml:"metadata"`
	Expected []record.Record `yaml:"expected"`
	Actual   []record.Record `yaml:"actual"`
}

func loadCase(path string) (*caseFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case file %s: %w", path, err)
	}

	var c caseFile
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse case file %s: %w", path, err)
	}

	return &c, nil
}

func loadRecords(path string) ([]record.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records %s: %w", path, err)
	}

	var recs []record.Record
	if err := yaml.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("failed to parse records %s: %w", path, err)
	}

	return recs, nil
}

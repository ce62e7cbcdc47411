package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-project-b/ritagraph-sub004/internal/record"
	"github.com/the-project-b/ritagraph-sub004/internal/transform"
)

func TestValidate(t *testing.T) {
	cfg := &Config{
		IgnorePaths: []string{"ok.*", "bad..path"},
		Transformers: map[string]string{
			"name":      "lowercse",
			"items.*":   transform.KeyTrim,
			"ok.field":  transform.KeyTrim,
			"startDate": transform.TemplateKeyPrefix + "currentMonth+1",
		},
		Normalization: &Normalization{UnorderedArrays: []string{""}},
	}

	diags := Validate(cfg, newRegistry(), "global")
	require.True(t, diags.HasErrors())

	codes := map[string]int{}
	for _, d := range diags.All() {
		codes[d.Code]++
		assert.Equal(t, "global", d.Scope)
	}

	assert.Equal(t, 1, codes[CodeInvalidIgnorePath])
	assert.Equal(t, 1, codes[CodeInvalidTransformerPath])
	assert.Equal(t, 1, codes[CodeUnknownTransformer])
	assert.Equal(t, 1, codes[CodeInvalidUnorderedPath])
	assert.Equal(t, 1, codes[CodeIgnoredTransformer])

	for _, d := range diags.Errors {
		if d.Code == CodeUnknownTransformer {
			assert.Equal(t, "name", d.FieldPath)
			assert.Contains(t, d.Suggestions, transform.KeyLowercase)
		}
	}
}

func TestValidate_Nil(t *testing.T) {
	assert.True(t, Validate(nil, newRegistry(), "global").IsValid())
}

func TestValidateRecords(t *testing.T) {
	records := []record.Record{
		{"name": "plain"},
		{record.OverrideKey: map[string]any{}},
		{record.OverrideKey: map[string]any{"transformers": map[string]any{"x": "nope"}}},
		{record.OverrideKey: "not-an-object"},
	}

	diags := ValidateRecords(records, newRegistry())
	require.Len(t, diags.Errors, 2)
	assert.Equal(t, "record[2]", diags.Errors[0].Scope)
	assert.Equal(t, CodeUnknownTransformer, diags.Errors[0].Code)
	assert.Equal(t, "record[3]", diags.Errors[1].Scope)
	assert.Equal(t, CodeInvalidOverride, diags.Errors[1].Code)
	require.Len(t, diags.Infos, 1)
	assert.Equal(t, CodeEmptyOverride, diags.Infos[0].Code)
}

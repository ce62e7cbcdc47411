package canon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize_Idempotent(t *testing.T) {
	values := []any{
		nil,
		"text",
		42,
		3.5,
		true,
		[]any{3, 1, 2},
		map[string]any{"b": 2, "a": map[string]any{"z": nil, "y": []any{"q", "p"}}},
		map[string]string{"k": "v"},
		[]map[string]any{{"b": 1, "a": 2}},
	}

	for _, v := range values {
		once := Canonicalize(v)
		twice := Canonicalize(once)
		assert.Equal(t, ToCanonicalText(once), ToCanonicalText(twice))
	}
}

func TestToCanonicalText_KeyOrderInsensitive(t *testing.T) {
	a := map[string]any{"a": 1, "b": 2}
	b := map[string]any{"b": 2, "a": 1}

	assert.Equal(t, `{"a":1,"b":2}`, ToCanonicalText(a))
	assert.Equal(t, ToCanonicalText(a), ToCanonicalText(b))
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestToCanonicalText_ArrayOrderSensitive(t *testing.T) {
	assert.NotEqual(t, ToCanonicalText([]any{1, 2}), ToCanonicalText([]any{2, 1}))
	assert.NotEqual(t, Fingerprint([]any{1, 2}), Fingerprint([]any{2, 1}))
}

func TestToCanonicalText_Nested(t *testing.T) {
	v := map[string]any{
		"z": []any{map[string]any{"d": 1, "c": 2}},
		"a": map[string]any{"y": "<b>", "x": nil},
	}

	assert.Equal(t, `{"a":{"x":null,"y":"<b>"},"z":[{"c":2,"d":1}]}`, ToCanonicalText(v))
}

func TestCanonicalize_NilValues(t *testing.T) {
	var m map[string]any
	var s []any
	var p *int

	assert.Nil(t, Canonicalize(nil))
	assert.Nil(t, Canonicalize(m))
	assert.Nil(t, Canonicalize(s))
	assert.Nil(t, Canonicalize(p))
	assert.Equal(t, "null", ToCanonicalText(m))
}

func TestCanonicalize_Structs(t *testing.T) {
	type inner struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	got := ToCanonicalText(inner{Name: "x", Count: 2})
	assert.Equal(t, `{"count":2,"name":"x"}`, got)
}

func TestEqual_IntAndFloat(t *testing.T) {
	assert.True(t, Equal(map[string]any{"n": 1}, map[string]any{"n": 1.0}))
	assert.False(t, Equal(map[string]any{"n": 1}, map[string]any{"n": "1"}))
}

func TestFingerprint_Format(t *testing.T) {
	fp := Fingerprint(map[string]any{"a": 1})
	assert.Len(t, fp, 16)
	assert.Regexp(t, `^[0-9a-f]{16}$`, fp)
}

func TestToPrettyText(t *testing.T) {
	out, err := ToPrettyText(map[string]any{"b": 1, "a": []any{"x"}})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": [\n    \"x\"\n  ],\n  \"b\": 1\n}", out)
}

func TestToPrettyText_Unserializable(t *testing.T) {
	_, err := ToPrettyText(map[string]any{"n": math.NaN()})
	require.Error(t, err)

	// Hashing still succeeds for the same value.
	assert.NotEmpty(t, Fingerprint(map[string]any{"n": math.NaN()}))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
}

func TestSortValues(t *testing.T) {
	in := []any{"b", map[string]any{"k": 1}, "a", 3, "a"}
	got := SortValues(in)

	assert.Equal(t, []any{"a", "a", "b", 3, map[string]any{"k": 1}}, got)
	assert.Equal(t, "b", in[0], "input is not modified")
	assert.Empty(t, SortValues(nil))
}

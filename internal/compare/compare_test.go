package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/the-project-b/ritagraph-sub004/internal/record"
)

func TestCompareProposals_SetEquality(t *testing.T) {
	expected := []record.Record{
		{"a": 1, "b": map[string]any{"x": 1, "y": 2}},
		{"c": []any{1, 2}},
	}
	actual := []record.Record{
		{"c": []any{1, 2}},
		{"b": map[string]any{"y": 2, "x": 1}, "a": 1},
	}

	res := CompareProposals(expected, actual)
	assert.True(t, res.Matches)
	assert.Empty(t, res.MissingInActual)
	assert.Empty(t, res.UnexpectedInActual)
	assert.Empty(t, res.Duplicates)
}

func TestCompareProposals_ArrayOrderMatters(t *testing.T) {
	res := CompareProposals(
		[]record.Record{{"c": []any{2, 1}}},
		[]record.Record{{"c": []any{1, 2}}},
	)

	assert.False(t, res.Matches)
	assert.Equal(t, []string{Fingerprint(record.Record{"c": []any{2, 1}})}, res.MissingInActual)
	assert.Equal(t, []string{Fingerprint(record.Record{"c": []any{1, 2}})}, res.UnexpectedInActual)
}

func TestCompareProposals_Duplicates(t *testing.T) {
	r := record.Record{"changedField": "salary"}

	res := CompareProposals([]record.Record{r, r.Clone()}, []record.Record{r})
	assert.True(t, res.Matches, "set semantics collapse duplicates")
	assert.Equal(t, []string{Fingerprint(r)}, res.Duplicates)

	res = CompareProposals([]record.Record{r}, []record.Record{r, r, r})
	assert.True(t, res.Matches)
	assert.Len(t, res.Duplicates, 1)
}

func TestCompareProposals_IgnoresOverrideKey(t *testing.T) {
	res := CompareProposals(
		[]record.Record{{"a": 1, record.OverrideKey: map[string]any{"ignorePaths": []any{"b"}}}},
		[]record.Record{{"a": 1}},
	)

	assert.True(t, res.Matches)
}

func TestCompareProposals_Empty(t *testing.T) {
	assert.True(t, CompareProposals(nil, nil).Matches)

	res := CompareProposals(nil, []record.Record{{"a": 1}})
	assert.False(t, res.Matches)
	assert.Empty(t, res.MissingInActual)
	assert.Len(t, res.UnexpectedInActual, 1)
}

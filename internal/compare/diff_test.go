package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-project-b/ritagraph-sub004/internal/record"
)

func TestRenderDiff(t *testing.T) {
	expected := []record.Record{{"changedField": "salary", "newValue": 5000}}
	actual := []record.Record{{"changedField": "salary", "newValue": 6000}}
	pairs := []Pair{{ExpectedIndex: 0, ActualIndex: 0, Score: 10}}

	report, err := RenderDiff(expected, actual, pairs)
	require.NoError(t, err)
	require.Len(t, report.Blocks, 1)

	block := report.Blocks[0]
	assert.Equal(t, "#1 expected[0] vs actual[0] (score 10): salary = 5000", block.Header)
	assert.Equal(t, []DiffLine{
		{DiffUnchanged, "{"},
		{DiffUnchanged, `  "changedField": "salary",`},
		{DiffRemoved, `  "newValue": 5000`},
		{DiffAdded, `  "newValue": 6000`},
		{DiffUnchanged, "}"},
	}, block.Lines)
	assert.Equal(t, 2, block.Changed())

	want := "#1 expected[0] vs actual[0] (score 10): salary = 5000\n" +
		"  {\n" +
		"    \"changedField\": \"salary\",\n" +
		"-   \"newValue\": 5000\n" +
		"+   \"newValue\": 6000\n" +
		"  }\n"
	assert.Equal(t, want, report.Text())
}

func TestRenderDiff_Solo(t *testing.T) {
	expected := []record.Record{{"changeType": "creation", "changedField": "employee"}}
	actual := []record.Record{{"a": 1}}
	pairs := []Pair{
		{ExpectedIndex: 0, ActualIndex: NoIndex},
		{ExpectedIndex: NoIndex, ActualIndex: 0},
	}

	report, err := RenderDiff(expected, actual, pairs)
	require.NoError(t, err)
	require.Len(t, report.Blocks, 2)

	assert.Equal(t, "#1 expected[0] only: creation employee", report.Blocks[0].Header)
	for _, l := range report.Blocks[0].Lines {
		assert.Equal(t, DiffRemoved, l.Op)
	}

	assert.Equal(t, "#2 actual[0] only", report.Blocks[1].Header)
	for _, l := range report.Blocks[1].Lines {
		assert.Equal(t, DiffAdded, l.Op)
	}

	assert.Contains(t, report.Text(), "\n\n#2 actual[0] only\n")
}

func TestRenderDiff_Errors(t *testing.T) {
	_, err := RenderDiff(nil, nil, []Pair{{ExpectedIndex: 3, ActualIndex: NoIndex}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	bad := []record.Record{{"f": func() {}}}
	_, err = RenderDiff(bad, nil, []Pair{{ExpectedIndex: 0, ActualIndex: NoIndex}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected[0]")
}

func TestRenderDiff_Empty(t *testing.T) {
	report, err := RenderDiff(nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, report.Text())
}

func TestDiffOp(t *testing.T) {
	assert.Equal(t, "Unchanged", DiffUnchanged.String())
	assert.Equal(t, "Added", DiffAdded.String())
	assert.Equal(t, "Removed", DiffRemoved.String())
	assert.Equal(t, "DiffOp(7)", DiffOp(7).String())
	assert.Equal(t, "+ ", DiffAdded.Prefix())
}

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

const configYAML = `
transformers:
  effectiveDate: transformer-template-currentMonth+1
examples:
  raise-salary:
    ignorePaths: [mutationVariables.requestId]
`

const caseYAML = `
id: raise-salary
expected:
  - changeType: change
    changedField: salary
    newValue: 5000
    mutationVariables: {requestId: a}
actual:
  - changedField: salary
    changeType: change
    newValue: %s
    effectiveDate: "2024-10-01T00:00:00.000Z"
    mutationVariables: {requestId: b}
`

func TestCompare_Match(t *testing.T) {
	cfg := writeFile(t, "config.yaml", configYAML)
	c := writeFile(t, "case.yaml", fmt.Sprintf(caseYAML, "5000"))

	out, _, err := run(t, "compare", "--case", c, "--config", cfg, "--now", "2024-09-18")
	require.NoError(t, err, out)
	assert.Contains(t, out, "MATCH (1 expected, 1 actual)")
	assert.Contains(t, out, "added expected[0].effectiveDate for comparison")
}

func TestCompare_Mismatch(t *testing.T) {
	cfg := writeFile(t, "config.yaml", configYAML)
	c := writeFile(t, "case.yaml", fmt.Sprintf(caseYAML, "6000"))

	out, _, err := run(t, "compare", "--case", c, "--config", cfg, "--now", "2024-09-18")
	require.ErrorIs(t, err, errMismatch)
	assert.Contains(t, out, "MISMATCH: 1 missing in actual, 1 unexpected in actual")
	assert.Contains(t, out, `+   "newValue": 6000`)
}

func TestCompare_MetadataLayerWins(t *testing.T) {
	cfg := writeFile(t, "config.yaml", configYAML)
	c := writeFile(t, "case.yaml", `
id: raise-salary
metadata:
  validation:
    transformers: {}
expected:
  - changedField: salary
actual:
  - changedField: salary
`)

	out, _, err := run(t, "compare", "--case", c, "--config", cfg)
	require.NoError(t, err)
	assert.NotContains(t, out, "added expected")
}

func TestCompare_SeparateFiles(t *testing.T) {
	exp := writeFile(t, "expected.json", `[{"changedField": "salary", "newValue": 1}]`)
	act := writeFile(t, "actual.json", `[{"newValue": 1, "changedField": "salary"}]`)

	out, stderr, err := run(t, "compare", "--expected", exp, "--actual", act, "--debug")
	require.NoError(t, err)
	assert.Contains(t, out, "MATCH")
	assert.Contains(t, stderr, "Evaluation", "debug dumps the evaluation")
}

func TestCompare_Errors(t *testing.T) {
	_, _, err := run(t, "compare")
	require.Error(t, err)

	_, _, err = run(t, "compare", "--case", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	c := writeFile(t, "case.yaml", "expected: []\nactual: []\n")
	_, _, err = run(t, "compare", "--case", c, "--now", "yesterday")
	require.Error(t, err)

	_, _, err = run(t, "compare", "--case", c, "--log-level", "loud")
	require.Error(t, err)
}

func TestTemplate(t *testing.T) {
	out, _, err := run(t, "template", "--now", "2024-09-18", "Update salary starting {{currentMonth}}")
	require.NoError(t, err)
	assert.Equal(t, "Update salary starting September\n", out)

	out, _, err = run(t, "template", "--now", "2024-11-15", "-v", "Starts", "[[currentMonth+2]]", "--start", "[[", "--end", "]]")
	require.NoError(t, err)
	assert.Contains(t, out, "Starts January 2025\n")
	assert.Contains(t, out, `currentMonth+2 -> "January 2025" (data 2025-01-01T00:00:00.000Z)`)
}

func TestTransformers(t *testing.T) {
	defs := writeFile(t, "defs.yaml", `
transformers:
  - key: salary-start
    strategy: add-missing-only
    template: currentMonth+1
`)

	out, _, err := run(t, "transformers", "--transformers-file", defs)
	require.NoError(t, err)
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "lowercase")
	assert.Contains(t, out, "salary-start")
	assert.Contains(t, out, `actual: changeType == "change"`)
	assert.Contains(t, out, "transformer-template-<expr>")
}

func TestCheckConfig(t *testing.T) {
	good := writeFile(t, "good.yaml", configYAML)

	out, _, err := run(t, "check-config", good)
	require.NoError(t, err)
	assert.Contains(t, out, "0 errors, 0 warnings")

	bad := writeFile(t, "bad.yaml", `
transformers:
  name: lowercse
examples:
  x:
    ignorePaths: ["a..b"]
`)

	out, _, err = run(t, "check-config", bad)
	require.ErrorIs(t, err, errInvalidConfig)
	assert.Contains(t, out, `did you mean "lowercase"?`)
	assert.Contains(t, out, "[example x]")
	assert.Contains(t, out, "2 errors, 0 warnings")
}

func TestCheckConfig_CaseOverrides(t *testing.T) {
	c := writeFile(t, "case.yaml", `
expected:
  - changedField: salary
    _validation:
      transformers: {startDate: nope}
`)

	out, _, err := run(t, "check-config", "--case", c)
	require.ErrorIs(t, err, errInvalidConfig)
	assert.Contains(t, out, "[record[0]] startDate")
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenarios writes scenarios against testdata/valid.cue into a temp
// directory and returns it.
func writeScenarios(t *testing.T, scenarios map[string]string) string {
	t.Helper()
	doc, err := filepath.Abs(filepath.Join("testdata", "valid.cue"))
	require.NoError(t, err)

	dir := t.TempDir()
	for name, body := range scenarios {
		content := fmt.Sprintf("name: %s\ndescription: %s\ndocument: %s\n%s", name, name, doc, body)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0644))
	}
	return dir
}

const adultsScenario = `query: adults
expect:
  valid: true
  kind: match
  text: |
    match
    $x isa person, has age >= 18;
    get $x;
`

const eitherScenario = `query: either
expect:
  branches:
    - "{\n    $x isa entity;\n    $x isa person;\n}"
    - "{\n    $x isa entity;\n    $x isa company;\n}"
`

func TestTest_AllPass(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"adults": adultsScenario, "either": eitherScenario})

	out, _, err := execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ adults")
	assert.Contains(t, out, "✓ either")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTest_Failure(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"adults": "query: adults\nexpect:\n  errors: [TQL07]\n"})

	out, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ adults")
	assert.Contains(t, out, "Expectation failed: errors")
	assert.Contains(t, out, "Test Summary: 0 passed, 1 failed, 1 total")
}

func TestTest_Filter(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"adults": adultsScenario, "either": eitherScenario})

	out, _, err := execute(t, "test", dir, "--filter", "adu*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
	assert.NotContains(t, out, "either")
}

func TestTest_GoldenUpdateAndCompare(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"adults": adultsScenario})

	_, _, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)

	golden := filepath.Join(dir, "golden", "adults.golden")
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario":"adults"`)
	assert.Contains(t, string(data), `"kind":"match"`)

	_, _, err = execute(t, "test", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(golden, []byte(`{"scenario":"adults"}`), 0644))
	out, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "snapshot does not match golden file")
}

func TestTest_BadScenario(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"broken": "query: adults\nexpect: {}\n"})

	out, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "at least one expectation is required")
}

func TestTest_NoScenarios(t *testing.T) {
	out, _, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTest_MissingDirectory(t *testing.T) {
	_, _, err := execute(t, "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTest_JSON(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"adults": adultsScenario})

	out, _, err := execute(t, "--format", "json", "test", dir)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Passed)
}

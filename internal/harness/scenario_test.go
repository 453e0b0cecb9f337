package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes a scenario next to a copy-free reference to the
// shared library document and returns its path.
func writeScenario(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	doc, err := filepath.Abs(filepath.Join("testdata", "library.cue"))
	require.NoError(t, err)
	path := filepath.Join(dir, "scenario.yaml")
	content := "document: " + doc + "\n" + body
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "adults.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "adults", s.Name)
	assert.Equal(t, "adults", s.Query)
	assert.Equal(t, filepath.Join("testdata", "library.cue"), s.Document)
	require.NotNil(t, s.Expect.Valid)
	assert.True(t, *s.Expect.Valid)
	assert.Equal(t, "match", s.Expect.Kind)
	assert.Contains(t, s.Expect.Text, "limit 10;")
}

func TestLoadScenarioRejectsUnknownFields(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: misspelt expectation key
query: adults
expect:
  error: [TQL07]
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenarioValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing name", "description: d\nquery: q\nexpect: {kind: match}\n", "name is required"},
		{"missing description", "name: n\nquery: q\nexpect: {kind: match}\n", "description is required"},
		{"missing query", "name: n\ndescription: d\nexpect: {kind: match}\n", "query is required"},
		{"no expectations", "name: n\ndescription: d\nquery: q\n", "at least one expectation"},
		{"valid with errors", "name: n\ndescription: d\nquery: q\nexpect: {valid: true, errors: [TQL07]}\n", "valid is true but errors"},
		{"compile error with text", "name: n\ndescription: d\nquery: q\nexpect: {compile_error: x, text: y}\n", "compile_error cannot be combined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenarioMissingDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	body := "name: n\ndescription: d\ndocument: nowhere.cue\nquery: q\nexpect: {kind: match}\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document not found")
}

func TestLoadScenarioWithBasePath(t *testing.T) {
	s, err := LoadScenarioWithBasePath(filepath.Join("testdata", "scenarios", "adults.yaml"), "testdata/scenarios")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "library.cue"), s.Document)
}

package harness

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func loadScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestRunScenarios(t *testing.T) {
	for _, name := range []string{"adults", "either-name", "unbounded-filter", "typo", "recursive-rule"} {
		t.Run(name, func(t *testing.T) {
			result, err := Run(loadScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRunReportsFailedExpectations(t *testing.T) {
	s := loadScenario(t, "adults")
	s.Expect.Text = "match\n$x isa person;\n"
	s.Expect.Errors = []string{"TQL07"}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "Expectation failed: text")
	assert.Contains(t, result.Errors[0], "Diff (-want +got)")
	assert.Contains(t, result.Errors[1], "Expectation failed: errors")
	assert.Contains(t, result.Errors[1], "(no errors)")
}

func TestRunUnexpectedCompileError(t *testing.T) {
	s := loadScenario(t, "typo")
	s.Expect = Expectation{Kind: "match"}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.CompileError, "unknown field")
	assert.Contains(t, result.Errors[0], "Expected: query compiles")
}

func TestRunResultFields(t *testing.T) {
	result, err := Run(loadScenario(t, "unbounded-filter"))
	require.NoError(t, err)

	assert.Equal(t, []string{"TQL07"}, result.Codes)
	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0], "[TQL07] TypeQL Error:")
	assert.Len(t, result.Fingerprint, 64)
	assert.False(t, result.Valid())
}

func TestRunQueryNotFound(t *testing.T) {
	s := loadScenario(t, "adults")
	s.Query = "missing"

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `query "missing" not found`)
}

func TestHarnessCompilesDocumentOnce(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := New(zap.New(core))

	var wg sync.WaitGroup
	for _, name := range []string{"adults", "either-name", "unbounded-filter", "recursive-rule"} {
		s := loadScenario(t, name)
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := h.Run(s)
			assert.NoError(t, err)
			assert.True(t, result.Pass, "%s: %v", s.Name, result.Errors)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, logs.FilterMessage("compiling document").Len())
	assert.Equal(t, 4, logs.FilterMessage("scenario finished").Len())
}

package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"adults", "recursive-rule"} {
		t.Run(name, func(t *testing.T) {
			result, err := RunWithGolden(t, loadScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestSnapshotOmitsEmptyFields(t *testing.T) {
	data, err := SnapshotOf(&Result{Scenario: "s", CompileError: "boom"}).MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t, `{"compile_error":"boom","scenario":"s"}`, string(data))
}

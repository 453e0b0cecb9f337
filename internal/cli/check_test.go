package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestCheck_Valid(t *testing.T) {
	out, _, err := execute(t, "check", "testdata/valid.cue")
	require.NoError(t, err)

	assert.Contains(t, out, "testdata/valid.cue\n")
	assert.Contains(t, out, "✓ adults (match)")
	assert.Contains(t, out, "✓ either (match)")
	assert.Contains(t, out, "Check Summary: 2 valid, 0 invalid, 2 total")
}

func TestCheck_Invalid(t *testing.T) {
	out, _, err := execute(t, "check", "testdata/invalid.cue")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "2 of 2 queries invalid", err.Error())

	assert.Contains(t, out, "✗ unbound (insert)")
	assert.Contains(t, out, "[TQL09]")
	assert.Contains(t, out, "✗ typo\n")
	assert.Contains(t, out, "match[0].colour: unknown field")
}

func TestCheck_MissingDocument(t *testing.T) {
	out, _, err := execute(t, "check", "testdata/valid.cue", "testdata/missing.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E005: document not found: testdata/missing.cue")
	assert.Contains(t, out, "✓ adults")
}

func TestCheck_RuleCycleWarning(t *testing.T) {
	out, _, err := execute(t, "check", "testdata/rules.cue")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ reach (define)")
	assert.Contains(t, out, "! Recursive rule detected: transitive-reach")
}

func TestCheck_JSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "check", "testdata/valid.cue", "testdata/invalid.cue")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string      `json:"status"`
		Data   CheckResult `json:"data"`
		Error  *CLIError   `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 2, resp.Data.Valid)
	assert.Equal(t, 2, resp.Data.Invalid)
	require.Len(t, resp.Data.Documents, 2)

	// Reports keep argument order.
	assert.Equal(t, "testdata/valid.cue", resp.Data.Documents[0].Path)
	adults := resp.Data.Documents[0].Queries[0]
	assert.Equal(t, "adults", adults.Name)
	assert.Equal(t, "match\n$x isa person, has age >= 18;\nget $x;", adults.Text)
	assert.Len(t, adults.Fingerprint, 64)

	require.NotNil(t, resp.Error)
	assert.Equal(t, "TQL09", resp.Error.Code)
}

func TestCheck_ManyDocumentsConcurrently(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var args []string
	for range 8 {
		args = append(args, "testdata/valid.cue", "testdata/rules.cue")
	}
	out, _, err := execute(t, append([]string{"check"}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Check Summary: 24 valid, 0 invalid, 24 total")
}

func TestCheck_RecordAndHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "checks.db")

	_, _, err := execute(t, "check", "--record", db, "testdata/valid.cue", "testdata/invalid.cue")
	require.Error(t, err)

	out, _, err := execute(t, "history", db)
	require.NoError(t, err)
	// Compile failures are not recorded.
	assert.Contains(t, out, "   1 ✓ testdata/valid.cue#adults match")
	assert.Contains(t, out, "   2 ✓ testdata/valid.cue#either match")
	assert.Contains(t, out, "   3 ✗ testdata/invalid.cue#unbound insert")
	assert.Contains(t, out, "TQL09")
	assert.NotContains(t, out, "typo")

	var resp struct {
		Data []struct {
			Seq         int64  `json:"seq"`
			Query       string `json:"query"`
			Fingerprint string `json:"fingerprint"`
		} `json:"data"`
	}
	out, _, err = execute(t, "--format", "json", "history", db)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 3)

	// Record again; the latest check of adults moves to seq 4.
	_, _, err = execute(t, "check", "--record", db, "testdata/valid.cue")
	require.NoError(t, err)

	out, _, err = execute(t, "history", db, "--fingerprint", resp.Data[0].Fingerprint)
	require.NoError(t, err)
	assert.Contains(t, out, "   4 ✓ testdata/valid.cue#adults match")
	assert.NotContains(t, out, "   1 ")
}

func TestCheck_RecordFromEnvironment(t *testing.T) {
	db := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("TYPEQL_RECORD", db)

	_, _, err := execute(t, "check", "testdata/valid.cue")
	require.NoError(t, err)

	out, _, err := execute(t, "history", db)
	require.NoError(t, err)
	assert.Contains(t, out, "#adults")
}

func TestHistory_MissingCatalog(t *testing.T) {
	_, _, err := execute(t, "history", filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistory_UnknownFingerprint(t *testing.T) {
	db := filepath.Join(t.TempDir(), "checks.db")
	_, _, err := execute(t, "check", "--record", db, "testdata/valid.cue")
	require.NoError(t, err)

	out, _, err := execute(t, "history", db, "--fingerprint", "deadbeef")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "no check recorded for deadbeef")
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(&RootOptions{Logger: zap.NewNop()})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--color", "never"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "typeql", cmd.Use)
	assert.Contains(t, cmd.Long, "canonical text")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"check", "fmt", "normalise", "test", "history"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err, "command %s should exist", name)
			assert.Equal(t, name, sub.Name())
		})
	}

	sub, _, err := cmd.Find([]string{"normalize"})
	require.NoError(t, err)
	assert.Equal(t, "normalise", sub.Name())
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("color"))
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "--format", "xml", "check", "testdata/valid.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestFormatFromEnvironment(t *testing.T) {
	t.Setenv("TYPEQL_FORMAT", "json")

	out, _, err := execute(t, "fmt", "testdata/valid.cue")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "ok"`)
}

func TestFormatFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typeql.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: json\n"), 0644))

	out, _, err := execute(t, "--config", path, "fmt", "testdata/valid.cue")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "ok"`)

	// Flags win over the file.
	out, _, err = execute(t, "--config", path, "--format", "text", "fmt", "testdata/valid.cue")
	require.NoError(t, err)
	assert.NotContains(t, out, `"status"`)
}

func TestMissingConfigFile(t *testing.T) {
	_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "fmt", "testdata/valid.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBindFlags(t *testing.T) {
	cmd := NewRootCommand()
	check, _, err := cmd.Find([]string{"check"})
	require.NoError(t, err)

	v := viper.New()
	bindFlags(v, check.Flags(), "record")
	require.NoError(t, check.Flags().Set("record", "catalog.db"))
	assert.Equal(t, "catalog.db", v.GetString("record"))

	assert.Panics(t, func() {
		bindFlags(v, check.Flags(), "missing")
	})
}

func TestNewLoggerWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(false, &buf)
	logger.Debug("hidden")
	logger.Info("shown", zap.String("query", "adults"))
	require.NoError(t, logger.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"query":"adults"`)

	buf.Reset()
	verbose := newLogger(true, &buf)
	verbose.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "x")))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "x", assert.AnError)))
}

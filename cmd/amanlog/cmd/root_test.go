package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/amanlog/internal/logging"
)

// testEnv isolates a command run: empty user config dir, no AMANLOG_*
// variables, and a temp working directory for the relative default paths.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"AMANLOG_VERBOSE", "AMANLOG_FILE", "AMANLOG_ARCHIVE_PATTERN", "AMANLOG_GATING", "AMANLOG_IMMEDIATE_SYNC"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	chdirForTest(t, dir)
	return dir
}

// newTestRoot builds the root command with a non-global installer that
// captures console output and closes the handle at cleanup.
func newTestRoot(t *testing.T) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var console, stdout bytes.Buffer
	cmd := newRootCmd(func(lc logging.Config) (*logging.Handle, error) {
		lc.Console = &console
		h, err := logging.New(lc)
		if err == nil {
			t.Cleanup(func() { _ = h.Close() })
		}
		return h, err
	})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	return cmd, &stdout, &console
}

func TestRootCmd_ShowsHelp(t *testing.T) {
	cmd, out, _ := newTestRoot(t)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "amanlog")
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "--archive-pattern")
}

func TestRootCmd_ShowsVersion(t *testing.T) {
	cmd, out, _ := newTestRoot(t)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "amanlog version")
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	var names []string
	for _, c := range NewRootCmd().Commands() {
		names = append(names, c.Name())
	}

	assert.Contains(t, names, "emit")
	assert.Contains(t, names, "config")
	assert.Contains(t, names, "version")
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"verbose", "file", "archive-pattern", "config", "gating", "immediate-sync", "profile-cpu", "profile-mem", "profile-trace"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "v", cmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestRootCmd_VersionSkipsConfig(t *testing.T) {
	testEnv(t)
	cmd, _, _ := newTestRoot(t)
	cmd.SetArgs([]string{"--config", "missing.yaml", "version", "--short"})

	assert.NoError(t, cmd.Execute(), "version does not load configuration")
	assert.NoFileExists(t, filepath.Join("log", "file.log"))
}

func TestRootCmd_Profiling(t *testing.T) {
	dir := testEnv(t)
	cmd, _, _ := newTestRoot(t)
	cpu := filepath.Join(dir, "cpu.prof")
	heap := filepath.Join(dir, "heap.prof")
	cmd.SetArgs([]string{"--profile-cpu", cpu, "--profile-mem", heap, "emit", "--count", "10"})

	require.NoError(t, cmd.Execute())
	assert.FileExists(t, cpu)
	assert.FileExists(t, heap)
}

func TestRootCmd_ProfilingBadPath(t *testing.T) {
	testEnv(t)
	cmd, _, _ := newTestRoot(t)
	cmd.SetArgs([]string{"--profile-cpu", filepath.Join("no", "such", "cpu.prof"), "version"})

	assert.Error(t, cmd.Execute())
}

func TestRootCmd_LogsInitialization(t *testing.T) {
	testEnv(t)
	cmd, _, console := newTestRoot(t)
	cmd.SetArgs([]string{"--verbose", "emit", "--level", "info"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, console.String(), "logging initialized")
	assert.Contains(t, console.String(), "command finished")

	data, err := os.ReadFile(filepath.Join("log", "file.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"logging initialized"`)
}

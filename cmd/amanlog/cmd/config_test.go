package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/amanlog/internal/config"
)

func TestConfigCmd_ShowsEffectiveYAML(t *testing.T) {
	testEnv(t)
	t.Setenv("AMANLOG_GATING", "root")
	cmd, out, _ := newTestRoot(t)
	cmd.SetArgs([]string{"--archive-pattern", "old/x.{}.log", "config"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "file: log/file.log")
	assert.Contains(t, out.String(), "gating: root")
	assert.Contains(t, out.String(), "old/x.{}.log")
	assert.NoFileExists(t, filepath.Join("log", "file.log"), "config does not initialize logging")
}

func TestConfigCmd_JSON(t *testing.T) {
	testEnv(t)
	cmd, out, _ := newTestRoot(t)
	cmd.SetArgs([]string{"--verbose", "config", "--json"})

	require.NoError(t, cmd.Execute())

	var cfg config.Config
	require.NoError(t, json.Unmarshal(out.Bytes(), &cfg))
	assert.True(t, cfg.Logging.Verbose)
	assert.Equal(t, "archive/file.{}.log", cfg.Logging.ArchivePattern)
}

func TestConfigCmd_InvalidConfigFile(t *testing.T) {
	dir := testEnv(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  gating: sideways\n"), 0o644))

	cmd, _, _ := newTestRoot(t)
	cmd.SetArgs([]string{"--config", path, "config"})
	assert.Error(t, cmd.Execute())
}

func TestConfigInit_WritesAndBacksUp(t *testing.T) {
	testEnv(t)

	cmd, out, _ := newTestRoot(t)
	cmd.SetArgs([]string{"--verbose", "config", "init"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Wrote user configuration")

	cfg, err := config.LoadUserConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.True(t, cfg.Logging.Verbose)

	// Second init without --force leaves the file alone.
	cmd, out, _ = newTestRoot(t)
	cmd.SetArgs([]string{"config", "init"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "already exists")

	// --force backs up the old file before writing.
	cmd, out, _ = newTestRoot(t)
	cmd.SetArgs([]string{"--verbose=false", "config", "init", "--force"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Backup:")

	cfg, err = config.LoadUserConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Logging.Verbose)

	backups, err := config.ListUserConfigBackups()
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestConfigPath(t *testing.T) {
	testEnv(t)
	cmd, out, _ := newTestRoot(t)
	cmd.SetArgs([]string{"config", "path"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, config.GetUserConfigPath(), strings.TrimSpace(out.String()))
}

func TestConfigBackupsAndRestore(t *testing.T) {
	testEnv(t)
	require.NoError(t, config.NewConfig().WriteYAML(config.GetUserConfigPath()))
	backup, err := config.BackupUserConfig()
	require.NoError(t, err)

	modified := config.NewConfig()
	modified.Logging.File = "changed.log"
	require.NoError(t, modified.WriteYAML(config.GetUserConfigPath()))

	cmd, out, _ := newTestRoot(t)
	cmd.SetArgs([]string{"config", "backups"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), backup)

	cmd, out, _ = newTestRoot(t)
	cmd.SetArgs([]string{"config", "restore", backup})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Restored")

	cfg, err := config.LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "log/file.log", cfg.Logging.File)
}

func TestConfigRestore_RequiresArg(t *testing.T) {
	testEnv(t)
	cmd, _, _ := newTestRoot(t)
	cmd.SetArgs([]string{"config", "restore"})
	assert.Error(t, cmd.Execute())
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupUserConfig_NoConfig(t *testing.T) {
	isolate(t)

	path, err := BackupUserConfig()
	require.NoError(t, err)
	assert.Empty(t, path)

	backups, err := ListUserConfigBackups()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestBackupUserConfig_CopiesContent(t *testing.T) {
	isolate(t)
	content := "logging:\n  verbose: true\n"
	writeFile(t, GetUserConfigPath(), content)

	path, err := BackupUserConfig()
	require.NoError(t, err)
	require.NotEmpty(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
	assert.Equal(t, GetUserConfigDir(), filepath.Dir(path))
}

func TestBackupUserConfig_PrunesOld(t *testing.T) {
	isolate(t)
	writeFile(t, GetUserConfigPath(), "version: 1\n")

	// Seed older backups with sortable names.
	for _, stamp := range []string{"20200101-000000.000000", "20200102-000000.000000", "20200103-000000.000000"} {
		writeFile(t, GetUserConfigPath()+BackupSuffix+"."+stamp, "old\n")
	}

	newest, err := BackupUserConfig()
	require.NoError(t, err)

	backups, err := ListUserConfigBackups()
	require.NoError(t, err)
	require.Len(t, backups, MaxBackups)
	assert.Equal(t, newest, backups[0])
	assert.NoFileExists(t, GetUserConfigPath()+BackupSuffix+".20200101-000000.000000")
}

func TestRestoreUserConfig(t *testing.T) {
	isolate(t)
	writeFile(t, GetUserConfigPath(), "logging:\n  file: first.log\n")

	backup, err := BackupUserConfig()
	require.NoError(t, err)

	writeFile(t, GetUserConfigPath(), "logging:\n  file: second.log\n")
	require.NoError(t, RestoreUserConfig(backup))

	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "first.log", cfg.Logging.File)

	backups, err := ListUserConfigBackups()
	require.NoError(t, err)
	assert.Len(t, backups, 2, "restore backs up the config it replaces")
}

func TestRestoreUserConfig_MissingBackup(t *testing.T) {
	isolate(t)
	assert.Error(t, RestoreUserConfig(filepath.Join(t.TempDir(), "nope.bak")))
}

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withTestConfigDir redirects config storage to a temp dir for the test.
func withTestConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig := getConfigDirFunc
	getConfigDirFunc = func() (string, error) { return dir, nil }
	t.Cleanup(func() { getConfigDirFunc = orig })
	return dir
}

// setServerFlag sets the global --server flag value for the test.
func setServerFlag(t *testing.T, value string) {
	t.Helper()
	orig := serverFlag
	serverFlag = value
	t.Cleanup(func() { serverFlag = orig })
}

func TestLoadConfigMissingFile(t *testing.T) {
	withTestConfigDir(t)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.ServerURL)
	assert.Empty(t, cfg.Username)
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := withTestConfigDir(t)

	require.NoError(t, saveConfig(&Config{
		ServerURL: "https://console.example.com",
		Username:  "asha",
	}))

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://console.example.com", cfg.ServerURL)
	assert.Equal(t, "asha", cfg.Username)

	info, err := os.Stat(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadConfigMalformed(t *testing.T) {
	dir := withTestConfigDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0600))

	_, err := loadConfig()
	require.Error(t, err)
}

func TestResolveServerURLPrecedence(t *testing.T) {
	withTestConfigDir(t)
	require.NoError(t, saveConfig(&Config{ServerURL: "https://from-config.example.com"}))

	t.Run("env wins over everything", func(t *testing.T) {
		t.Setenv("MCTL_SERVER", "https://from-env.example.com")
		setServerFlag(t, "https://from-flag.example.com")

		assert.Equal(t, "https://from-env.example.com", resolveServerURL())
	})

	t.Run("flag wins over config", func(t *testing.T) {
		t.Setenv("MCTL_SERVER", "")
		setServerFlag(t, "https://from-flag.example.com")

		assert.Equal(t, "https://from-flag.example.com", resolveServerURL())
	})

	t.Run("config wins over default", func(t *testing.T) {
		t.Setenv("MCTL_SERVER", "")
		setServerFlag(t, "")

		assert.Equal(t, "https://from-config.example.com", resolveServerURL())
	})
}

func TestResolveServerURLDefault(t *testing.T) {
	withTestConfigDir(t)
	t.Setenv("MCTL_SERVER", "")
	setServerFlag(t, "")

	assert.Equal(t, defaultServerURL, resolveServerURL())
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PARAMEDIT_CONFIG", "")
	t.Setenv("PARAMEDIT_DOCUMENT", "")
	t.Setenv("PARAMEDIT_LOG_LEVEL", "")
	t.Setenv("PARAMEDIT_PORT", "")
	t.Setenv("PARAMEDIT_HOST_URL", "")
	t.Setenv("PARAMEDIT_NAV_WRAP", "")
}

func TestLoadDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Document)
	assert.Equal(t, "INFO", cfg.LogLevel)
	require.NotNil(t, cfg.Navigation)
	assert.True(t, cfg.Navigation.Wrap)
	require.NotNil(t, cfg.Server)
	assert.Equal(t, 8235, cfg.Server.Port)
}

func TestLoadProjectConfig(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "paramedit.json", `{
		"document": "bracket",
		"navigation": {"wrap": false},
		"keys": {"next": "tab"}
	}`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "bracket", cfg.Document)
	assert.False(t, cfg.Navigation.Wrap)
	assert.Equal(t, "tab", cfg.Keys["next"])
}

func TestLoadJSONCComments(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "paramedit.jsonc", `{
		// active design document
		"document": "wheel",
	}`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "wheel", cfg.Document)
}

func TestLoadYAML(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "paramedit.yaml", "document: chassis\nlogLevel: DEBUG\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "chassis", cfg.Document)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestGlobalThenProjectPrecedence(t *testing.T) {
	isolateEnv(t)
	globalDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "paramedit")
	require.NoError(t, os.MkdirAll(globalDir, 0755))
	writeFile(t, globalDir, "paramedit.json", `{"document": "global", "logLevel": "WARN"}`)

	projectDir := t.TempDir()
	writeFile(t, projectDir, "paramedit.json", `{"document": "project"}`)

	cfg, err := Load(projectDir)
	require.NoError(t, err)
	// Project overrides global; untouched fields survive.
	assert.Equal(t, "project", cfg.Document)
	assert.Equal(t, "WARN", cfg.LogLevel)
}

func TestEnvOverrides(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "paramedit.json", `{"document": "fromfile"}`)

	t.Setenv("PARAMEDIT_DOCUMENT", "fromenv")
	t.Setenv("PARAMEDIT_PORT", "9999")
	t.Setenv("PARAMEDIT_HOST_URL", "http://bridge:7000")
	t.Setenv("PARAMEDIT_NAV_WRAP", "false")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.Document)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "remote", cfg.Host.Kind)
	assert.Equal(t, "http://bridge:7000", cfg.Host.URL)
	assert.False(t, cfg.Navigation.Wrap)
}

func TestExplicitConfigFile(t *testing.T) {
	isolateEnv(t)
	other := t.TempDir()
	path := writeFile(t, other, "paramedit.json", `{"document": "explicit"}`)
	t.Setenv("PARAMEDIT_CONFIG", path)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.Document)
}

func TestIsConfigFile(t *testing.T) {
	assert.True(t, isConfigFile("/x/paramedit.json"))
	assert.True(t, isConfigFile("paramedit.jsonc"))
	assert.True(t, isConfigFile("paramedit.yaml"))
	assert.False(t, isConfigFile("other.json"))
	assert.False(t, isConfigFile("paramedit.txt"))
}

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tgdownloader/pkg/config"
)

func TestExampleConfigMatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tgdownloader.yaml")
	require.NoError(t, os.WriteFile(path, []byte(exampleConfig), 0644))

	cfg := config.DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, config.DefaultConfig(), cfg)
	assert.Equal(t, 2*time.Second, cfg.Telegram.PageRetryDelay)
}

func TestConfigInitRefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tgdownloader.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  base_directory: mine\n"), 0644))

	configFile = path
	t.Cleanup(func() { configFile = "" })

	assert.Error(t, runConfigInit(initCmd, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mine")
}

func TestConfigInitWritesExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tgdownloader.yaml")
	configFile = path
	t.Cleanup(func() { configFile = "" })

	require.NoError(t, runConfigInit(initCmd, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, exampleConfig, string(data))
}

func TestCheckPaths(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Output.BaseDirectory = filepath.Join(dir, "downloads")
	cfg.Telegram.SessionFile = filepath.Join(dir, "state", "session.json")

	assert.Empty(t, checkPaths(cfg))
	assert.DirExists(t, cfg.Output.BaseDirectory)
	assert.DirExists(t, filepath.Join(dir, "state"))

	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	cfg.Output.BaseDirectory = filepath.Join(blocker, "downloads")
	assert.Len(t, checkPaths(cfg), 1)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deploy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
workspace-url: https://kbase.us/services/ws
scratch: /kb/module/work/tmp
log_level: debug
fail_on_tool_error: true
lock_ttl: 30s
tool:
  command: /opt/interproscan/interproscan.sh
  args: ["-cpu", "8"]
  env:
    JAVA_OPTS: -Xmx4g
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://kbase.us/services/ws", cfg.WorkspaceURL)
	assert.Equal(t, "/kb/module/work/tmp", cfg.Scratch)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.FailOnToolError)
	assert.Equal(t, 30*time.Second, cfg.LockTTL)
	assert.Equal(t, StoreWorkspace, cfg.Store)
	assert.Equal(t, "/opt/interproscan/interproscan.sh", cfg.Tool.Command)
	assert.Equal(t, []string{"-cpu", "8"}, cfg.Tool.Args)
	assert.Equal(t, "-Xmx4g", cfg.Tool.Env["JAVA_OPTS"])
	// Untouched defaults survive.
	assert.Equal(t, "interpro2go:", cfg.Redis.Prefix)
}

func TestLoad_JSONFile(t *testing.T) {
	path := writeConfig(t, `{"store": "memory", "scratch": "tmp"}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvWorkspaceURL, "http://localhost:7058")
	t.Setenv(EnvScratch, "/tmp/scratch")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:7058", cfg.WorkspaceURL)
	assert.Equal(t, "/tmp/scratch", cfg.Scratch)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvWorkspaceURL, "")

	// The memory store needs no workspace-url, so the override must apply before validation.
	cfg, err := Load("", func(c *Config) { c.Store = StoreMemory })
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)

	cfg, err = Load(writeConfig(t, "store: redis\nredis:\n  lock: true\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Redis.Lock)
	assert.Equal(t, "interpro2go:", cfg.Redis.Prefix)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(EnvWorkspaceURL, "")

	_, err := Load("")
	assert.ErrorContains(t, err, "workspace-url")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")

	_, err = Load(writeConfig(t, "store: postgres\n"))
	assert.ErrorContains(t, err, "unknown store")

	_, err = Load(writeConfig(t, "store: [\n"))
	assert.ErrorContains(t, err, "failed to parse")
}

func TestPrepareScratch(t *testing.T) {
	cfg := Default()
	cfg.Scratch = filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, cfg.PrepareScratch())
	assert.True(t, filepath.IsAbs(cfg.Scratch))
	assert.DirExists(t, cfg.Scratch)
}

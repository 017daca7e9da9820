package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/stageplan/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestResolve_Defaults(t *testing.T) {
	cfg, err := Resolve(New())

	require.NoError(t, err)
	assert.Equal(t, DefaultDBPath(), cfg.DBPath)
	assert.False(t, cfg.LLM.Enabled)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.Endpoint)
	assert.Equal(t, 45*time.Second, cfg.LLM.TaskTimeout(llm.TaskOrganize))
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
db: /tmp/plans.db
log_use_cases: true
llm:
  enabled: true
  model: mistral
  timeout_ms: 5000
  tasks:
    summary:
      timeout_ms: 9000
`)

	cfg, err := Load(New(), path)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/plans.db", cfg.DBPath)
	assert.True(t, cfg.LogUseCases)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "mistral", cfg.LLM.Model)
	assert.Equal(t, 5000, cfg.LLM.TimeoutMs)
	assert.Equal(t, 9*time.Second, cfg.LLM.TaskTimeout(llm.TaskSummary))
	assert.Equal(t, 30*time.Second, cfg.LLM.TaskTimeout(llm.TaskSuggest), "untouched task keeps its default")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "llm:\n  model: mistral\n")
	t.Setenv("STAGEPLAN_LLM_MODEL", "qwen2.5")
	t.Setenv("STAGEPLAN_DB", "/var/lib/stageplan.db")

	cfg, err := Load(New(), path)

	require.NoError(t, err)
	assert.Equal(t, "qwen2.5", cfg.LLM.Model)
	assert.Equal(t, "/var/lib/stageplan.db", cfg.DBPath)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(New(), "")

	require.NoError(t, err)
	assert.False(t, cfg.LLM.Enabled)
}

func TestResolve_InvalidLLMSettings(t *testing.T) {
	v := New()
	v.Set("llm.enabled", true)
	v.Set("llm.timeout_ms", 0)

	_, err := Resolve(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.timeout_ms")
}

func TestResolve_EmptyDBPath(t *testing.T) {
	v := New()
	v.Set("db", "")

	_, err := Resolve(v)

	assert.Error(t, err)
}

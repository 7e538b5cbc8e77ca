package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/worksummary/internal/llm"
	"github.com/alexanderramin/worksummary/internal/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worksummary.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", env(nil))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7860", cfg.Server.Addr)
	assert.Equal(t, timesheet.PolicySkip, cfg.LoadOptions().Policy)
	assert.False(t, cfg.LLM.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout())
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":8080"
  session_idle_minutes: 5
timesheet:
  policy: abort
llm:
  provider: ollama
  model: llama3.2
  enabled: true
log:
  level: debug
  file: /tmp/worksummary.log
`)
	cfg, err := Load(path, env(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Minute, cfg.SessionIdleTimeout())
	assert.Equal(t, timesheet.PolicyAbort, cfg.LoadOptions().Policy)
	assert.Equal(t, llm.ProviderOllama, cfg.LLM.Provider)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, timesheet.DefaultMaxBytes, cfg.Timesheet.MaxBytes)
	assert.Equal(t, 0.6, cfg.LLM.Temperature)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""), env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load(writeConfig(t, "server:\n  adress: x\n"), env(nil))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), env(nil))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":8080\"\n")
	cfg, err := Load(path, env(map[string]string{
		"WORKSUMMARY_ADDR":             ":9090",
		"WORKSUMMARY_LOAD_POLICY":      "STRICT",
		"WORKSUMMARY_MAX_UPLOAD_BYTES": "2048",
		"WORKSUMMARY_LOG_LEVEL":        "WARN",
		"GROQ_API_KEY":                 "gsk-test",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, timesheet.PolicyAbort, cfg.LoadOptions().Policy)
	assert.Equal(t, int64(2048), cfg.Server.MaxUploadBytes)
	assert.Equal(t, int64(2048), cfg.LoadOptions().MaxBytes)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "gsk-test", cfg.LLM.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadBytes = 0 }},
		{"zero load limit", func(c *Config) { c.Timesheet.MaxBytes = 0 }},
		{"bad policy", func(c *Config) { c.Timesheet.Policy = "ignore" }},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }},
		{"enabled llm without key", func(c *Config) { c.LLM.Enabled = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

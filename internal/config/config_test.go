package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[llm]
provider = "openai"
model = "gpt-4o-mini"
api_key = "sk-test"

[reconcile]
engine = "rules"

[prompts]
verification = "confira a minuta"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "rules", cfg.Reconcile.Engine)
	assert.Equal(t, "confira a minuta", cfg.Prompts.Verification)
	// Untouched sections keep their defaults.
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Concurrency.ProfileLookups)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[llm\nprovider ="), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse TOML")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "claude")
	t.Setenv("LLM_MODEL", "claude-3-5-sonnet-latest")
	t.Setenv("PORT", "9090")
	t.Setenv("RECONCILE_ENGINE", "rules")
	t.Setenv("LLM_TIMEOUT_SECONDS", "42")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "claude", cfg.LLM.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", cfg.LLM.Model)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "rules", cfg.Reconcile.Engine)
	assert.Equal(t, 42, cfg.LLM.TimeoutSeconds)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.LLM.Provider = "watson"
	cfg.Reconcile.Engine = "magic"
	cfg.Concurrency.ProfileLookups = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config.LLM.Provider")
	assert.Contains(t, err.Error(), "Config.Reconcile.Engine")
	assert.Contains(t, err.Error(), "Config.Concurrency.ProfileLookups")
}

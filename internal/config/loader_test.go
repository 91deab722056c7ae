package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", name), []byte(content), 0o644))
}

const baseConfig = `
app:
  name: "sow-ai-api"
  env: "${APP_ENV:development}"

server:
  http:
    port: 9090
    read_timeout: 15s

llm:
  default_provider: "openai"
  providers:
    openai:
      api_key: "${OPENAI_API_KEY:}"
      model: "gpt-4o-mini"
      timeout: 90s

sow:
  limiter:
    max_uses: 2
    cooldown: 120s
    bypass_identities:
      - "admin@example.com"
  parser:
    min_sections: 7
  prompt:
    first_payment_percent: 25.0
`

func TestLoad_FromFileWithEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", baseConfig)
	t.Chdir(dir)
	t.Setenv("APP_ENV", "development")
	t.Setenv("OPENAI_API_KEY", "sk-test-123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sow-ai-api", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 9090, cfg.Server.HTTP.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.HTTP.ReadTimeout)

	provider, ok := cfg.LLM.Providers["openai"]
	require.True(t, ok)
	assert.Equal(t, "sk-test-123", provider.APIKey)
	assert.Equal(t, 90*time.Second, provider.Timeout)

	assert.Equal(t, 2, cfg.SOW.Limiter.MaxUses)
	assert.Equal(t, 120*time.Second, cfg.SOW.Limiter.Cooldown)
	assert.Equal(t, []string{"admin@example.com"}, cfg.SOW.Limiter.BypassIdentities)
	assert.Equal(t, 7, cfg.SOW.Parser.MinSections)
	assert.Equal(t, 25.0, cfg.SOW.Prompt.FirstPaymentPercent)

	// 文件未覆盖的字段取默认值
	assert.Equal(t, 3, cfg.SOW.Prompt.MaxRecentNotes)
	assert.Equal(t, "0.0.0.0", cfg.Server.HTTP.Host)
	assert.Equal(t, 9464, cfg.Observability.Metrics.Port)
}

func TestLoad_EnvOverlayMerges(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", baseConfig)
	writeConfig(t, dir, "config.test.yaml", `
server:
  http:
    port: 18080
observability:
  logging:
    level: "debug"
`)
	t.Chdir(dir)
	t.Setenv("APP_ENV", "test")
	t.Setenv("OPENAI_API_KEY", "sk-test-123")

	cfg, err := Load()
	require.NoError(t, err)

	// 覆盖文件只改动列出的键
	assert.Equal(t, 18080, cfg.Server.HTTP.Port)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, 2, cfg.SOW.Limiter.MaxUses)
}

func TestLoad_MissingBaseFileFails(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "development")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configs/config.yaml")
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("DEFINED_VAR", "value")

	assert.Equal(t, "value", expandEnv("${DEFINED_VAR}"))
	assert.Equal(t, "value", expandEnv("${DEFINED_VAR:fallback}"))
	assert.Equal(t, "fallback", expandEnv("${UNDEFINED_VAR_X:fallback}"))
	assert.Equal(t, "", expandEnv("${UNDEFINED_VAR_X:}"))
	// 无默认值且未定义的变量原样保留
	assert.Equal(t, "${UNDEFINED_VAR_X}", expandEnv("${UNDEFINED_VAR_X}"))
	assert.Equal(t, "prefix-value-suffix", expandEnv("prefix-${DEFINED_VAR}-suffix"))
}

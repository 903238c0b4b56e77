package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 6, len(cfg.Research.MacroQueries))
	assert.Equal(t, []string{"^GSPC", "^VIX", "^TNX", "DX-Y.NYB"}, cfg.Research.MacroTickers)
	assert.Equal(t, PoolConfig{Sources: 4, Resolve: 8, Symbols: 8}, cfg.Pools)
	assert.Equal(t, 100, cfg.Summary.MinChars)
	assert.Equal(t, 4000, cfg.Summary.MaxChars)
	assert.Equal(t, nil, validate(cfg))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Equal(t, nil, err)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL())
	assert.Equal(t, "8080", cfg.Env.Port)
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	path := writeConfig(t, `
llm:
  provider: anthropic
cache:
  backend: sqlite
  ttl: 2d
research:
  macro_queries:
    - Oil prices today
`)

	cfg, err := Load(path)

	assert.Equal(t, nil, err)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "60s", cfg.LLM.Timeout)
	assert.Equal(t, 48*time.Hour, cfg.CacheTTL())
	assert.Equal(t, []string{"Oil prices today"}, cfg.Research.MacroQueries)
	assert.Equal(t, 3, cfg.Research.SymbolNewsLimit)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Equal(t, nil, err)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "g-key", cfg.LLMKey())
	assert.Equal(t, "9090", cfg.Env.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoadConfigFromEnvPath(t *testing.T) {
	path := writeConfig(t, "market:\n  provider: yahoo\n")
	t.Setenv("STOCKSCOUT_CONFIG", path)

	cfg, err := Load("")

	assert.Equal(t, nil, err)
	assert.Equal(t, "yahoo", cfg.Market.Provider)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []string{
		"cache:\n  backend: mongo\n",
		"market:\n  provider: bloomberg\n",
		"research:\n  feeds:\n    - ftp://example.com/feed\n",
		"research:\n  macro_queries:\n    - same\n    - same\n",
		"llm: [",
	}

	for _, body := range tests {
		_, err := Load(writeConfig(t, body))
		assert.NotEqual(t, nil, err)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"30m", 30 * time.Minute},
		{"7d", 7 * 24 * time.Hour},
		{"", time.Hour},
		{"invalid", time.Hour},
		{"-5s", time.Hour},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseDuration(tt.input, time.Hour))
	}
}

package config

import (
	"embed"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type LLMConfig struct {
	Provider     string `yaml:"provider"` // openai, anthropic or gemini
	Model        string `yaml:"model"`
	SummaryModel string `yaml:"summary_model,omitempty"`
	Timeout      string `yaml:"timeout"`
}

type CacheConfig struct {
	Backend string `yaml:"backend"` // postgres, sqlite, redis or memory
	TTL     string `yaml:"ttl"`
	Path    string `yaml:"path,omitempty"`
}

type MarketConfig struct {
	Provider string `yaml:"provider"` // finnhub or yahoo
}

type ResearchConfig struct {
	FetchTimeout          string   `yaml:"fetch_timeout"`
	SymbolNewsLimit       int      `yaml:"symbol_news_limit"`
	SearchResultsPerQuery int      `yaml:"search_results_per_query"`
	TickerNewsLimit       int      `yaml:"ticker_news_limit"`
	FeedItems             int      `yaml:"feed_items"`
	MacroTickers          []string `yaml:"macro_tickers"`
	MacroQueries          []string `yaml:"macro_queries"`
	Feeds                 []string `yaml:"feeds"`
}

type SummaryConfig struct {
	MinChars int `yaml:"min_chars"`
	MaxChars int `yaml:"max_chars"`
}

type PoolConfig struct {
	Sources int `yaml:"sources"`
	Resolve int `yaml:"resolve"`
	Symbols int `yaml:"symbols"`
}

// Env holds secrets and endpoints, which only ever come from the
// environment.
type Env struct {
	DatabaseURL   string
	RedisURL      string
	FinnhubKey    string
	OpenAIKey     string
	AnthropicKey  string
	GeminiKey     string
	FrontendURL   string
	Port          string
	LogLevel      string
	PortfolioFile string
}

type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Cache    CacheConfig    `yaml:"cache"`
	Market   MarketConfig   `yaml:"market"`
	Research ResearchConfig `yaml:"research"`
	Summary  SummaryConfig  `yaml:"summary"`
	Pools    PoolConfig     `yaml:"pools"`

	Env Env `yaml:"-"`
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "stockscout", "config.yaml")
}

func DefaultCachePath() string {
	return filepath.Join(xdg.CacheHome, "stockscout", "summaries.db")
}

func DefaultPortfolioPath() string {
	return filepath.Join(xdg.ConfigHome, "stockscout", "portfolio.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the YAML file at path over the embedded defaults, then applies
// the environment. An empty path falls back to STOCKSCOUT_CONFIG and then to
// the XDG config location; a missing file means defaults only.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv("STOCKSCOUT_CONFIG")
	}
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		slog.Debug("no config file, using defaults", "path", path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Env = Env{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		FinnhubKey:    os.Getenv("FINNHUB_API_KEY"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:  os.Getenv("ANTHROPIC_API_KEY"),
		GeminiKey:     os.Getenv("GEMINI_API_KEY"),
		FrontendURL:   os.Getenv("FRONTEND_URL"),
		Port:          os.Getenv("PORT"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		PortfolioFile: os.Getenv("PORTFOLIO_FILE"),
	}

	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}

	if c.Env.Port == "" {
		c.Env.Port = "8080"
	}
	if c.Env.PortfolioFile == "" {
		c.Env.PortfolioFile = DefaultPortfolioPath()
	}
}

func validate(cfg *Config) error {
	switch strings.ToLower(cfg.Cache.Backend) {
	case "postgres", "sqlite", "redis", "memory", "none":
	default:
		return fmt.Errorf("cache: unknown backend %q", cfg.Cache.Backend)
	}

	switch strings.ToLower(cfg.Market.Provider) {
	case "finnhub", "yahoo":
	default:
		return fmt.Errorf("market: unknown provider %q", cfg.Market.Provider)
	}

	for _, f := range cfg.Research.Feeds {
		u, err := url.Parse(f)
		if err != nil {
			return fmt.Errorf("feed %q: invalid url: %w", f, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("feed %q: url scheme must be http or https, got %q", f, u.Scheme)
		}
	}

	seen := make(map[string]bool)
	for _, q := range cfg.Research.MacroQueries {
		if seen[q] {
			return fmt.Errorf("macro query %q listed twice", q)
		}
		seen[q] = true
	}

	return nil
}

// LLMKey returns the API key for the configured provider.
func (c *Config) LLMKey() string {
	switch strings.ToLower(c.LLM.Provider) {
	case "anthropic", "claude":
		return c.Env.AnthropicKey
	case "gemini", "google":
		return c.Env.GeminiKey
	default:
		return c.Env.OpenAIKey
	}
}

func (c *Config) LLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 60*time.Second)
}

func (c *Config) FetchTimeout() time.Duration {
	return parseDuration(c.Research.FetchTimeout, 10*time.Second)
}

// CacheTTL accepts Go durations and a day suffix, e.g. "2d".
func (c *Config) CacheTTL() time.Duration {
	return parseDuration(c.Cache.TTL, 24*time.Hour)
}

func (c *Config) CachePath() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	return DefaultCachePath()
}

func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Env.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Package config loads scanner configuration from a YAML file with
// DATAGUARD_-prefixed environment overrides.
package config

import (
	"fmt"
	"time"

	"github.com/SamuelRCrider/dataguard-go/core"
)

// Config is the full scanner configuration.
type Config struct {
	Cache    CacheConfig    `koanf:"cache"`
	AI       AIConfig       `koanf:"ai"`
	Detector DetectorConfig `koanf:"detector"`
	History  HistoryConfig  `koanf:"history"`
	Log      LogConfig      `koanf:"log"`
}

// CacheConfig selects and tunes the result cache backend.
type CacheConfig struct {
	// Backend is one of "memory", "redis", "none".
	Backend string `koanf:"backend"`

	// Addr is the redis/valkey host:port, used when Backend is "redis".
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`

	// TTL is how long results stay cached.
	TTL time.Duration `koanf:"ttl"`

	// MaxEntries bounds the in-memory backend.
	MaxEntries int `koanf:"max_entries"`
}

// AIConfig configures the probabilistic detector.
type AIConfig struct {
	// Provider is one of "gemini", "mcp", "none".
	Provider string `koanf:"provider"`

	Model   string `koanf:"model"`
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`

	// Timeout bounds the AI branch of a scan. The deterministic branch is
	// never subject to it.
	Timeout time.Duration `koanf:"timeout"`

	// MCPServerPath and MCPToolName configure the MCP provider.
	MCPServerPath string `koanf:"mcp_server_path"`
	MCPToolName   string `koanf:"mcp_tool_name"`
}

// DetectorConfig tunes the pattern matcher.
type DetectorConfig struct {
	GenericTokenMinLength int                  `koanf:"generic_token_min_length"`
	DisableGenericToken   bool                 `koanf:"disable_generic_token"`
	CustomPatterns        []core.CustomPattern `koanf:"custom_patterns"`

	// PatternsFile points at a standalone YAML pattern list, appended after
	// CustomPatterns.
	PatternsFile string `koanf:"patterns_file"`
}

// HistoryConfig configures the scan log.
type HistoryConfig struct {
	// Path is the JSONL file; empty disables history.
	Path string `koanf:"path"`

	// RotationSize in bytes; 0 selects the default.
	RotationSize int64 `koanf:"rotation_size"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `koanf:"level"`

	// Format is "json" or "console".
	Format string `koanf:"format"`
}

// Default returns the configuration used when no file or environment is
// present: in-memory cache, no AI provider, built-in detectors only.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 24 * time.Hour
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 4096
	}

	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "none"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.0-flash-lite"
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 60 * time.Second
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

// Validate rejects configurations that cannot be wired.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "memory", "none":
	case "redis":
		if c.Cache.Addr == "" {
			return fmt.Errorf("cache backend %q requires cache.addr", c.Cache.Backend)
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}

	switch c.AI.Provider {
	case "none", "gemini", "mcp":
	default:
		return fmt.Errorf("unknown ai provider %q", c.AI.Provider)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/interpro2go/pkg/adapters/process"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreWorkspace = "workspace"
	StoreMemory    = "memory"
	StoreRedis     = "redis"
)

// Environment variables that override file values.
const (
	EnvWorkspaceURL = "INTERPRO2GO_WORKSPACE_URL"
	EnvScratch      = "INTERPRO2GO_SCRATCH"
	EnvRedisAddr    = "INTERPRO2GO_REDIS_ADDR"
)

// Config is the service configuration. It is loaded once at startup and not modified afterwards.
type Config struct {
	WorkspaceURL string `yaml:"workspace-url"`
	Scratch      string `yaml:"scratch"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Store selects the object store backend: workspace, memory or redis.
	Store string      `yaml:"store"`
	Redis RedisConfig `yaml:"redis"`

	Tool process.ToolConfig `yaml:"tool"`

	// FailOnToolError turns a non-zero tool exit status into a failed invocation.
	FailOnToolError bool `yaml:"fail_on_tool_error"`

	// LockTTL enables per-output-object locking when a redis locker is available.
	LockTTL time.Duration `yaml:"lock_ttl"`

	// Listen is the address of the HTTP server.
	Listen string `yaml:"listen"`
}

// RedisConfig configures the redis store and locker.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`

	// Lock serialises saves through redis even when another store is selected.
	Lock bool `yaml:"lock"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Scratch:   "scratch",
		LogLevel:  "info",
		LogFormat: "text",
		Store:     StoreWorkspace,
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "interpro2go:",
		},
		Tool:    process.ToolConfig{Command: process.DefaultCommand},
		LockTTL: 10 * time.Minute,
		Listen:  ":5000",
	}
}

// Load reads a YAML (or JSON) config file over the defaults and applies environment overrides,
// then the given overrides (typically command line flags). An empty path skips the file.
func Load(path string, overrides ...func(*Config)) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if v := os.Getenv(EnvWorkspaceURL); v != "" {
		cfg.WorkspaceURL = v
	}
	if v := os.Getenv(EnvScratch); v != "" {
		cfg.Scratch = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Redis.Addr = v
	}
	for _, override := range overrides {
		override(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field combinations.
func (c Config) Validate() error {
	switch c.Store {
	case StoreWorkspace:
		if c.WorkspaceURL == "" {
			return fmt.Errorf("workspace-url is required for the %s store", StoreWorkspace)
		}
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (expected workspace, memory or redis)", c.Store)
	}
	if c.Scratch == "" {
		return fmt.Errorf("scratch directory is required")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log_format %q (expected text or json)", c.LogFormat)
	}
	return nil
}

// PrepareScratch makes the scratch path absolute and creates the directory if missing.
func (c *Config) PrepareScratch() error {
	abs, err := filepath.Abs(c.Scratch)
	if err != nil {
		return fmt.Errorf("invalid scratch path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	c.Scratch = abs
	return nil
}

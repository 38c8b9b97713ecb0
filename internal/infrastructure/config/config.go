// Package config loads backend configuration from the environment.
package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Workspace WorkspaceConfig
	Search    SearchConfig
	Walk      WalkConfig
	Store     StoreConfig
	Dispatch  DispatchConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"7430"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
	// AllowOrigins lists the webview origins allowed by CORS
	AllowOrigins    []string      `envconfig:"CORS_ORIGINS" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"200"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"400"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"false"`
}

// WorkspaceConfig holds path policy and session settings.
type WorkspaceConfig struct {
	// Home overrides the detected home directory
	Home          string `envconfig:"WORKSPACE_HOME"`
	CaseSensitive bool   `envconfig:"WORKSPACE_CASE_SENSITIVE" default:"true"`
	// RecentCapacity bounds the recent-workspace list
	RecentCapacity int    `envconfig:"WORKSPACE_RECENT_CAPACITY" default:"10"`
	DataDir        string `envconfig:"WORKSPACE_DATA_DIR"`
	AppName        string `envconfig:"WORKSPACE_APP_NAME" default:"workspace"`
}

// SearchConfig holds search defaults.
type SearchConfig struct {
	MaxResults      uint32   `envconfig:"SEARCH_MAX_RESULTS" default:"200"`
	MaxContentBytes int64    `envconfig:"SEARCH_MAX_CONTENT_BYTES" default:"8388608"`
	Ignore          []string `envconfig:"SEARCH_IGNORE" default:".git,node_modules"`
}

// WalkConfig bounds buffered walk responses.
type WalkConfig struct {
	MaxEntries int `envconfig:"WALK_MAX_ENTRIES" default:"10000"`
}

// StoreConfig selects the persistence codec.
type StoreConfig struct {
	Format string `envconfig:"STORE_FORMAT" default:"json"`
}

// DispatchConfig sizes the command worker pool.
type DispatchConfig struct {
	Workers int `envconfig:"WORKERS" default:"0"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "7430",
			Host:            "127.0.0.1",
			AllowOrigins:    []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 200,
			Burst:             400,
		},
		Workspace: WorkspaceConfig{
			CaseSensitive:  true,
			RecentCapacity: 10,
			AppName:        "workspace",
		},
		Search: SearchConfig{
			MaxResults:      200,
			MaxContentBytes: 8 << 20,
			Ignore:          []string{".git", "node_modules"},
		},
		Walk: WalkConfig{
			MaxEntries: 10000,
		},
		Store: StoreConfig{
			Format: "json",
		},
	}
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	if c.Workspace.RecentCapacity <= 0 {
		return fmt.Errorf("WORKSPACE_RECENT_CAPACITY must be positive, got %d", c.Workspace.RecentCapacity)
	}
	if c.Walk.MaxEntries <= 0 {
		return fmt.Errorf("WALK_MAX_ENTRIES must be positive, got %d", c.Walk.MaxEntries)
	}
	switch c.Store.Format {
	case "json", "toml", "yaml":
	default:
		return fmt.Errorf("unsupported STORE_FORMAT %q", c.Store.Format)
	}
	return nil
}

// EffectiveWorkers returns the worker pool size, defaulting to the CPU count.
func (c DispatchConfig) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Proxy   ProxyConfig
	Logging LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port      string `envconfig:"PORT" default:"3001"`
	Host      string `envconfig:"HOST" default:""`
	PublicDir string `envconfig:"PUBLIC_DIR" default:"public"`
}

// ProxyConfig holds upstream fetch and rewrite configuration.
type ProxyConfig struct {
	Ruleset string `envconfig:"RULESET" default:""`
	// Timeout in seconds; 0 keeps the HTTP client default.
	Timeout   int    `envconfig:"HTTP_TIMEOUT" default:"0"`
	UserAgent string `envconfig:"USER_AGENT" default:"Mozilla/5.0 (compatible; faleproxy/1.0)"`
	LogURLs   bool   `envconfig:"LOG_URLS" default:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Proxy.Timeout < 0 {
		return nil, fmt.Errorf("failed to load config: HTTP_TIMEOUT must not be negative, got %d", cfg.Proxy.Timeout)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      "3001",
			PublicDir: "public",
		},
		Proxy: ProxyConfig{
			UserAgent: "Mozilla/5.0 (compatible; faleproxy/1.0)",
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// FetchTimeout returns the configured upstream timeout.
func (p ProxyConfig) FetchTimeout() time.Duration {
	return time.Duration(p.Timeout) * time.Second
}

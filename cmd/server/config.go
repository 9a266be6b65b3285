// Package main provides the LogStack server CLI.
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the server configuration.
type Config struct {
	Server        ServerConfig       `yaml:"server"`
	Database      DatabaseConfig     `yaml:"database"`
	Auth          AuthConfig         `yaml:"auth"`
	SMTP          SMTPConfig         `yaml:"smtp"`
	Notifications NotificationConfig `yaml:"notifications"`
	Verbose       bool               `yaml:"-"` // set via CLI flag
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address        string `yaml:"address"`           // HTTP listen address (default: :8080)
	RateLimitPerIP int    `yaml:"rate_limit_per_ip"` // unauthenticated requests per IP per minute
	MaxPageSize    int    `yaml:"max_page_size"`     // upper bound for search page sizes
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLite database file path
}

// AuthConfig contains operator authentication settings.
type AuthConfig struct {
	TokenTTLMinutes int `yaml:"token_ttl_minutes"` // access token lifetime (default: 15)
}

// SMTPConfig contains outbound email settings for alert notifications.
// The SMTP password is read from LOGSTACK_SMTP_PASSWORD, never from the file.
type SMTPConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	From     string `yaml:"from"`
}

// NotificationConfig bounds outbound notification volume.
type NotificationConfig struct {
	MaxPerMinute int `yaml:"max_per_minute"` // notifications per minute across all channels (default: 10)
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// setDefaults sets default values for missing config fields.
func (c *Config) setDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.RateLimitPerIP == 0 {
		c.Server.RateLimitPerIP = 120
	}
	if c.Server.MaxPageSize == 0 {
		c.Server.MaxPageSize = 100
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/logstack.db"
	}
	if c.Auth.TokenTTLMinutes == 0 {
		c.Auth.TokenTTLMinutes = 15
	}
	if c.Notifications.MaxPerMinute == 0 {
		c.Notifications.MaxPerMinute = 10
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	if c.Server.MaxPageSize < 1 {
		return fmt.Errorf("server.max_page_size must be positive")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Auth.TokenTTLMinutes < 1 {
		return fmt.Errorf("auth.token_ttl_minutes must be positive")
	}
	if c.SMTP.Enabled {
		if c.SMTP.Host == "" {
			return fmt.Errorf("smtp.host is required when SMTP is enabled")
		}
		if c.SMTP.Port == 0 {
			return fmt.Errorf("smtp.port is required when SMTP is enabled")
		}
		if c.SMTP.From == "" {
			return fmt.Errorf("smtp.from is required when SMTP is enabled")
		}
	}
	return nil
}

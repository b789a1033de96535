// Package config loads and validates service configuration.
//
// Configuration is loaded once at process start from a YAML file plus
// environment overrides (with optional .env file support) and never re-read
// per request. Validate runs every sub-config check; any failure is a fatal
// misconfiguration and must abort startup.
package config

import (
	"fmt"

	"github.com/kbukum/authgate/logger"
	"github.com/kbukum/authgate/password"
	"github.com/kbukum/authgate/server"
	"github.com/kbukum/authgate/token"
)

// Config is the composed service configuration.
type Config struct {
	Logging  logger.Config   `yaml:"logging" mapstructure:"logging"`
	Server   server.Config   `yaml:"server" mapstructure:"server"`
	Token    token.Config    `yaml:"token" mapstructure:"token"`
	Password password.Config `yaml:"password" mapstructure:"password"`
	Store    StoreConfig     `yaml:"store" mapstructure:"store"`
}

// StoreConfig selects the principal directory backend.
type StoreConfig struct {
	// Driver is "sqlite" or "memory" (default: "sqlite").
	Driver string `yaml:"driver" mapstructure:"driver"`

	// DSN is the SQLite data source name (default: "authgate.db").
	DSN string `yaml:"dsn" mapstructure:"dsn"`
}

// ApplyDefaults applies defaults across all sub-configurations.
func (c *Config) ApplyDefaults() {
	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Token.ApplyDefaults()
	c.Password.ApplyDefaults()
	if c.Store.Driver == "" {
		c.Store.Driver = "sqlite"
	}
	if c.Store.DSN == "" {
		c.Store.DSN = "authgate.db"
	}
}

// Validate checks all sub-configurations. Any error is fatal at startup.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Token.Validate(); err != nil {
		return err
	}
	if err := c.Password.Validate(); err != nil {
		return err
	}
	switch c.Store.Driver {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("store: unsupported driver: %s (use sqlite or memory)", c.Store.Driver)
	}
	return nil
}

// Describe returns a human-readable one-liner for the startup summary.
func (c *Config) Describe() string {
	return fmt.Sprintf("token TTL=%s password=%s store=%s origins=%d",
		c.Token.AccessTokenTTL,
		c.Password.Algorithm,
		c.Store.Driver,
		len(c.Server.CORS.AllowedOrigins),
	)
}

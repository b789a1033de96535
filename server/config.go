package server

import (
	"fmt"
	"time"

	"github.com/kbukum/authgate/server/middleware"
)

// Config holds HTTP server configuration.
type Config struct {
	Host          string                `yaml:"host" mapstructure:"host"`
	Port          int                   `yaml:"port" mapstructure:"port"`
	ReadTimeout   int                   `yaml:"read_timeout" mapstructure:"read_timeout"`     // seconds
	WriteTimeout  int                   `yaml:"write_timeout" mapstructure:"write_timeout"`   // seconds
	IdleTimeout   int                   `yaml:"idle_timeout" mapstructure:"idle_timeout"`     // seconds
	LookupTimeout time.Duration         `yaml:"lookup_timeout" mapstructure:"lookup_timeout"` // directory lookup bound
	CORS          middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.LookupTimeout == 0 {
		c.LookupTimeout = middleware.DefaultLookupTimeout
	}
	c.CORS.ApplyDefaults()
}

// Validate checks the configuration for invalid values, including the
// cross-origin policy's static invariants.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("server.read_timeout must be non-negative (got: %d)", c.ReadTimeout)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("server.write_timeout must be non-negative (got: %d)", c.WriteTimeout)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("server.idle_timeout must be non-negative (got: %d)", c.IdleTimeout)
	}
	if err := c.CORS.Validate(); err != nil {
		return err
	}
	return nil
}

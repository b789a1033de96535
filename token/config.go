package token

import (
	"fmt"
	"time"
)

// MinSecretLength is the minimum accepted HMAC secret length in bytes.
const MinSecretLength = 32

// Config configures the token codec.
type Config struct {
	// Secret is the HMAC signing key. Required, minimum 32 bytes.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// Issuer is the "iss" claim (optional).
	Issuer string `yaml:"issuer" mapstructure:"issuer"`

	// AccessTokenTTL is the lifetime of access tokens (default: 15m).
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" mapstructure:"access_token_ttl"`

	// RefreshTokenTTL is the lifetime of refresh tokens (default: 7d).
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" mapstructure:"refresh_token_ttl"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = 15 * time.Minute
	}
	if c.RefreshTokenTTL == 0 {
		c.RefreshTokenTTL = 7 * 24 * time.Hour
	}
}

// Validate checks required fields. A missing or short secret is a fatal
// startup misconfiguration, never a request-time error.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("token: secret is required")
	}
	if len(c.Secret) < MinSecretLength {
		return fmt.Errorf("token: secret must be at least %d bytes (got: %d)", MinSecretLength, len(c.Secret))
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("token: access_token_ttl must be positive (got: %s)", c.AccessTokenTTL)
	}
	if c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token: refresh_token_ttl must be positive (got: %s)", c.RefreshTokenTTL)
	}
	return nil
}

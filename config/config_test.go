package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// writeConfigFile stages a config.yml and an empty .env in a temp dir so the
// loader's search paths never pick up files from the working tree.
func writeConfigFile(t *testing.T, content string) (configPath, envPath string) {
	t.Helper()
	dir := t.TempDir()
	configPath = filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	envPath = filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, nil, 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return configPath, envPath
}

func TestLoad_Defaults(t *testing.T) {
	configPath, envPath := writeConfigFile(t, "")

	var cfg Config
	if err := Load("authgate", &cfg, WithConfigFile(configPath), WithEnvFile(envPath)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Token.AccessTokenTTL != 15*time.Minute {
		t.Errorf("token.access_token_ttl = %s, want 15m", cfg.Token.AccessTokenTTL)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("store.driver = %q, want sqlite", cfg.Store.Driver)
	}
	if cfg.Password.Algorithm == "" {
		t.Error("password.algorithm must default to a concrete value")
	}
}

func TestLoad_FromFile(t *testing.T) {
	configPath, envPath := writeConfigFile(t, `
server:
  port: 9090
  cors:
    allowed_origins:
      - https://app.example.com
token:
  secret: `+testSecret+`
  access_token_ttl: 1h
store:
  driver: memory
`)

	var cfg Config
	if err := Load("authgate", &cfg, WithConfigFile(configPath), WithEnvFile(envPath)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Token.AccessTokenTTL != time.Hour {
		t.Errorf("token.access_token_ttl = %s, want 1h", cfg.Token.AccessTokenTTL)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("store.driver = %q, want memory", cfg.Store.Driver)
	}
	if len(cfg.Server.CORS.AllowedOrigins) != 1 || cfg.Server.CORS.AllowedOrigins[0] != "https://app.example.com" {
		t.Errorf("cors.allowed_origins = %v", cfg.Server.CORS.AllowedOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	configPath, envPath := writeConfigFile(t, `
server:
  port: 9090
`)
	t.Setenv("AUTHGATE_SERVER_PORT", "7070")
	t.Setenv("AUTHGATE_TOKEN_SECRET", testSecret)

	var cfg Config
	if err := Load("authgate", &cfg, WithConfigFile(configPath), WithEnvFile(envPath)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d, want env override 7070", cfg.Server.Port)
	}
	if cfg.Token.Secret != testSecret {
		t.Error("token.secret must be settable from the environment alone")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.ApplyDefaults()
		cfg.Token.Secret = testSecret
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "missing token secret",
			mutate: func(c *Config) { c.Token.Secret = "" },
			want:   "secret",
		},
		{
			name:   "short token secret",
			mutate: func(c *Config) { c.Token.Secret = "tooshort" },
			want:   "secret",
		},
		{
			name:   "unknown store driver",
			mutate: func(c *Config) { c.Store.Driver = "postgres" },
			want:   "driver",
		},
		{
			name: "wildcard origin with credentials",
			mutate: func(c *Config) {
				c.Server.CORS.AllowedOrigins = []string{"*"}
				c.Server.CORS.AllowCredentials = true
			},
			want: "credentials",
		},
		{
			name:   "negative port",
			mutate: func(c *Config) { c.Server.Port = -1 },
			want:   "port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

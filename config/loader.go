package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderOption customizes Load.
type LoaderOption func(*loaderConfig)

type loaderConfig struct {
	configFile string
	envFile    string
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.configFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.envFile = path }
}

// Load loads configuration for the service into cfg. It searches for
// config.yml and .env files in standard locations, binds environment
// variables with the AUTHGATE_ prefix, and unmarshals the result.
// Defaults are applied; Validate is the caller's responsibility.
func Load(serviceName string, cfg *Config, opts ...LoaderOption) error {
	var lc loaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.configFile == "" {
		lc.configFile = findFile(configSearchPaths(serviceName))
	}
	if lc.envFile == "" {
		lc.envFile = findFile([]string{".env." + serviceName, ".env"})
	}

	if lc.envFile != "" {
		if err := godotenv.Load(lc.envFile); err != nil {
			fmt.Printf("[config] warning: failed to load .env file %s: %v\n", lc.envFile, err)
		}
	}

	v := viper.New()
	if lc.configFile != "" {
		v.SetConfigFile(lc.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", lc.configFile, err)
		}
	}

	v.SetEnvPrefix(strings.ToUpper(serviceName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKnownEnvKeys(v)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.ApplyDefaults()
	return nil
}

// bindKnownEnvKeys binds keys that must be overridable from the environment
// even when absent from the YAML file. AutomaticEnv alone only resolves keys
// viper has already seen.
func bindKnownEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.host",
		"server.port",
		"token.secret",
		"token.access_token_ttl",
		"token.refresh_token_ttl",
		"password.algorithm",
		"store.driver",
		"store.dsn",
		"logging.level",
		"logging.format",
	} {
		_ = v.BindEnv(key)
	}
}

func configSearchPaths(serviceName string) []string {
	return []string{
		fmt.Sprintf("./cmd/%s/config.yml", serviceName),
		fmt.Sprintf("../cmd/%s/config.yml", serviceName),
		"./config/config.yml",
		"./config.yml",
	}
}

func findFile(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

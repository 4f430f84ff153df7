// Package config loads application configuration from the environment
// and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the process reads once at startup. The two
// signing secrets are the only long-lived in-process auth state; they are
// never rotated at runtime.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on.
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// RedisURL is the Redis connection URL backing accounts, session
	// versions and the event stream.
	RedisURL string `mapstructure:"REDIS_URL"`
	// AccessSecret signs access tokens. Required.
	AccessSecret string `mapstructure:"ACCESS_SECRET"`
	// RefreshSecret signs refresh tokens; must differ from AccessSecret.
	RefreshSecret string `mapstructure:"REFRESH_SECRET"`
	// AccessTokenTTL is the access token lifetime (e.g. "5m").
	AccessTokenTTL time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	// RefreshTokenTTL bounds the refresh cookie MaxAge (e.g. "168h").
	RefreshTokenTTL time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`
	// BcryptCost is the bcrypt cost factor; 0 means the library default.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// Env is the application environment ("development" or "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env when present, then the environment. Env vars override
// .env. Fails when the secrets are missing, equal, or the access window
// is not materially shorter than the refresh window.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("HTTP_ADDR", ":9000")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("ACCESS_SECRET", "")
	v.SetDefault("REFRESH_SECRET", "")
	v.SetDefault("ACCESS_TOKEN_TTL", "5m")
	v.SetDefault("REFRESH_TOKEN_TTL", "168h")
	v.SetDefault("BCRYPT_COST", 0)
	v.SetDefault("APP_ENV", "development")

	// Missing .env is fine (e.g. in CI); env vars still apply.
	if _, err := os.Stat(".env"); err == nil {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return errors.New("config: ACCESS_SECRET and REFRESH_SECRET are required")
	}
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("config: access and refresh secrets must differ")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("config: token lifetimes must be positive")
	}
	if c.AccessTokenTTL >= c.RefreshTokenTTL {
		return errors.New("config: access token lifetime must be shorter than refresh lifetime")
	}
	return nil
}

// IsDev reports whether the process runs in development mode; it relaxes
// the Secure flag on the refresh cookie.
func (c *Config) IsDev() bool {
	return c.Env != "production"
}

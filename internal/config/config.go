// Package config manages application configuration
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration. Values come from the built-in
// defaults, an optional TOML file, a .env file and MARKETIQ_* environment
// variables, in that order.
type Config struct {
	Server      ServerConfig     `toml:"server"`
	DatabaseURL string           `toml:"database_url"`
	MarketData  MarketDataConfig `toml:"market_data"`
	Redis       RedisConfig      `toml:"redis"`
	API         APIConfig        `toml:"api"`
	Log         LogConfig        `toml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        string   `toml:"port"`
	Environment string   `toml:"environment"` // "development" or "production"
	CORSOrigins []string `toml:"cors_origins"`
}

// MarketDataConfig selects the quote provider and cache
type MarketDataConfig struct {
	Provider string   `toml:"provider"` // "mock" serves the seeded catalog
	Cache    string   `toml:"cache"`    // "memory" or "redis"
	CacheTTL Duration `toml:"cache_ttl"`
}

// RedisConfig holds Redis connection parameters for the quote cache
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// APIConfig configures the REST client used by the CLI dashboard
type APIConfig struct {
	BaseURL   string   `toml:"base_url"`
	Timeout   Duration `toml:"timeout"`
	RateLimit float64  `toml:"rate_limit"` // requests per second, 0 disables
	Burst     int      `toml:"burst"`
}

// LogConfig controls the logger
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// Duration wraps time.Duration so TOML strings like "5m" decode
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the configuration used when nothing is overridden
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:        "8080",
			Environment: "development",
			CORSOrigins: []string{"http://localhost:5173"},
		},
		DatabaseURL: "marketiq.db",
		MarketData: MarketDataConfig{
			Provider: "mock",
			Cache:    "memory",
			CacheTTL: Duration{5 * time.Minute},
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		API: APIConfig{
			BaseURL: "http://localhost:3001/api",
			Timeout: Duration{10 * time.Second},
			Burst:   1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Validate checks that the loaded values are usable
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port == "" {
		errs = append(errs, "server.port is required")
	}
	switch c.MarketData.Provider {
	case "mock":
	default:
		errs = append(errs, fmt.Sprintf("market_data.provider %q is not supported", c.MarketData.Provider))
	}
	switch c.MarketData.Cache {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			errs = append(errs, "redis.addr is required when market_data.cache is redis")
		}
	default:
		errs = append(errs, fmt.Sprintf("market_data.cache %q must be memory or redis", c.MarketData.Cache))
	}
	if c.MarketData.CacheTTL.Duration <= 0 {
		errs = append(errs, "market_data.cache_ttl must be positive")
	}
	if c.API.BaseURL == "" {
		errs = append(errs, "api.base_url is required")
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, "api.rate_limit must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

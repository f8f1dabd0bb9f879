package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "MARKETIQ_"

// Load merges the TOML file at path (skipped when path is empty) over the
// defaults, loads .env if present and applies MARKETIQ_* overrides. The
// result is not validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}

	// Missing .env is fine
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// LoadFromEnv loads using the file named by MARKETIQ_CONFIG, if any
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv(EnvPrefix + "CONFIG"))
}

func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Server.Port, "PORT")
	setStr(&cfg.Server.Environment, "ENV")
	setStringSlice(&cfg.Server.CORSOrigins, "CORS_ORIGINS")

	setStr(&cfg.DatabaseURL, "DATABASE_URL")

	setStr(&cfg.MarketData.Provider, "MARKET_DATA_PROVIDER")
	setStr(&cfg.MarketData.Cache, "MARKET_DATA_CACHE")
	setDuration(&cfg.MarketData.CacheTTL, "MARKET_DATA_CACHE_TTL")

	setStr(&cfg.Redis.Addr, "REDIS_ADDR")
	setStr(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")

	setStr(&cfg.API.BaseURL, "API_BASE_URL")
	setDuration(&cfg.API.Timeout, "API_TIMEOUT")
	setFloat64(&cfg.API.RateLimit, "API_RATE_LIMIT")
	setInt(&cfg.API.Burst, "API_BURST")

	setStr(&cfg.Log.Level, "LOG_LEVEL")
	setStr(&cfg.Log.Format, "LOG_FORMAT")
}

func getEnv(key string) string {
	return os.Getenv(EnvPrefix + key)
}

func setStr(dst *string, key string) {
	if v := getEnv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := getEnv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := getEnv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setDuration(dst *Duration, key string) {
	if v := getEnv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := getEnv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}

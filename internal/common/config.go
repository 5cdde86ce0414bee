package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Cartera
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Auth        AuthConfig      `toml:"auth"`
	FXRates     FXRatesConfig   `toml:"fxrates"`
	Portfolio   PortfolioConfig `toml:"portfolio"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds the SQLite database location.
type StorageConfig struct {
	Path string `toml:"path"`
}

// AuthConfig holds single-user authentication configuration.
type AuthConfig struct {
	PasswordHash string `toml:"password_hash"` // bcrypt hash of the owner's password
	JWTSecret    string `toml:"jwt_secret"`
	TokenExpiry  string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// FXRatesConfig holds the exchange-rate API client configuration.
type FXRatesConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
	CacheTTL  string `toml:"cache_ttl"`
}

// GetTimeout parses and returns the request timeout duration
func (c *FXRatesConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetCacheTTL parses and returns the quote cache lifetime.
func (c *FXRatesConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// PortfolioConfig holds portfolio computation preferences.
type PortfolioConfig struct {
	TopPositions    int    `toml:"top_positions"`
	TrackCash       bool   `toml:"track_cash"`
	CostBasisMethod string `toml:"cost_basis_method"` // "average" or "fifo"
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `toml:"level"`
	FilePath   string `toml:"file_path"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "data/cartera.db",
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		FXRates: FXRatesConfig{
			BaseURL:   "https://dolarapi.com/v1",
			RateLimit: 5,
			Timeout:   "10s",
			CacheTTL:  "5m",
		},
		Portfolio: PortfolioConfig{
			TopPositions:    5,
			TrackCash:       true,
			CostBasisMethod: "average",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 7,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("CARTERA_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("CARTERA_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("CARTERA_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("CARTERA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("CARTERA_DB_PATH"); path != "" {
		config.Storage.Path = path
	}

	if v := os.Getenv("CARTERA_AUTH_PASSWORD_HASH"); v != "" {
		config.Auth.PasswordHash = v
	}
	if v := os.Getenv("CARTERA_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("CARTERA_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}

	if v := os.Getenv("CARTERA_FX_BASE_URL"); v != "" {
		config.FXRates.BaseURL = v
	}
	if v := os.Getenv("CARTERA_COST_BASIS_METHOD"); v != "" {
		config.Portfolio.CostBasisMethod = strings.ToLower(v)
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"stayledger/internal/finance"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Logger   LoggerConfig
	Security SecurityConfig
	Tax      TaxConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type StoreConfig struct {
	Driver    string
	DSN       string
	AccountID string
}

type LoggerConfig struct {
	Level          string
	Format         string
	File           string
	FileMaxSizeMB  int
	FileMaxBackups int
	FileMaxAgeDays int
}

type SecurityConfig struct {
	EnableRateLimit bool
	RateLimitRPS    int
	RateLimitBurst  int
	AllowedOrigins  []string
	TrustedProxies  []string
}

// TaxConfig holds the municipal tourist-tax rule.
type TaxConfig struct {
	Rate             decimal.Decimal
	MaxNights        int
	MinExemptAge     int
	EligibleChannels []string
	DirectChannels   []string
}

// Load reads envFile (or .env when empty) into the environment and builds
// the configuration from it. A missing default .env is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnvString("SERVER_HOST", "localhost"),
			Port:            getEnvInt("SERVER_PORT", 8084),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Store: StoreConfig{
			Driver:    getEnvString("STORE_DRIVER", "sqlite"),
			DSN:       getEnvString("STORE_DSN", "data/stayledger.db"),
			AccountID: getEnvString("STORE_ACCOUNT_ID", "default"),
		},
		Logger: LoggerConfig{
			Level:          getEnvString("LOG_LEVEL", "info"),
			Format:         getEnvString("LOG_FORMAT", "json"),
			File:           getEnvString("LOG_FILE", ""),
			FileMaxSizeMB:  getEnvInt("LOG_FILE_MAX_SIZE_MB", 100),
			FileMaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 3),
			FileMaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 28),
		},
		Security: SecurityConfig{
			EnableRateLimit: getEnvBool("SECURITY_RATE_LIMIT_ENABLED", true),
			RateLimitRPS:    getEnvInt("SECURITY_RATE_LIMIT_RPS", 100),
			RateLimitBurst:  getEnvInt("SECURITY_RATE_LIMIT_BURST", 10),
			AllowedOrigins:  getEnvStringSlice("SECURITY_ALLOWED_ORIGINS", []string{"http://localhost:8084"}),
			TrustedProxies:  getEnvStringSlice("SECURITY_TRUSTED_PROXIES", []string{"127.0.0.1"}),
		},
		Tax: TaxConfig{
			Rate:             getEnvDecimal("TAX_RATE_PER_PERSON_NIGHT", decimal.NewFromInt(2)),
			MaxNights:        getEnvInt("TAX_MAX_NIGHTS", 10),
			MinExemptAge:     getEnvInt("TAX_MIN_EXEMPT_AGE", 14),
			EligibleChannels: getEnvStringSlice("TAX_ELIGIBLE_CHANNELS", []string{"booking", "airbnb"}),
			DirectChannels:   getEnvStringSlice("TAX_DIRECT_CHANNELS", []string{"direct", "diretto"}),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	validDrivers := []string{"sqlite", "postgres"}
	if !slices.Contains(validDrivers, c.Store.Driver) {
		return fmt.Errorf("invalid store driver %q, must be one of: %s", c.Store.Driver, strings.Join(validDrivers, ", "))
	}

	if c.Store.DSN == "" {
		return fmt.Errorf("store DSN cannot be empty")
	}

	if c.Store.AccountID == "" {
		return fmt.Errorf("store account id cannot be empty")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !slices.Contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	if c.Tax.Rate.IsNegative() {
		return fmt.Errorf("tax rate cannot be negative")
	}

	if c.Tax.MaxNights < 1 {
		return fmt.Errorf("tax max nights must be at least 1")
	}

	if c.Tax.MinExemptAge < 0 {
		return fmt.Errorf("tax exempt age cannot be negative")
	}

	return nil
}

// TaxRule converts the tax settings into the rule reports are computed with.
func (c *Config) TaxRule() finance.TaxRule {
	return finance.TaxRule{
		RatePerPersonPerNight: c.Tax.Rate,
		MaxTaxableNights:      c.Tax.MaxNights,
		MinExemptAge:          c.Tax.MinExemptAge,
		EligibleChannels:      c.Tax.EligibleChannels,
		DirectChannels:        c.Tax.DirectChannels,
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

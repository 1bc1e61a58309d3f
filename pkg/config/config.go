package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Feed venue
	PolymarketWSURL    string
	PolymarketGammaURL string

	// Feed client (spec.md §4.D / §6)
	ReconnectDelay     time.Duration
	SubscribeBatchSize int
	WSDialTimeout      time.Duration
	WSPingInterval     time.Duration

	// Catalog (external collaborator, §6)
	CatalogCacheTTL time.Duration

	// Arbitrage detection (§4.E / §6)
	FeeRate      float64
	MinNetSpread float64

	// Order sizing and risk admission (§4.F, §4.G / §6)
	MaxPositionQuote      float64
	MaxTotalExposureQuote float64
	BankrollQuote         float64
	PerTradeFraction      float64
	CooldownDuration      time.Duration
	StatsPrintInterval    time.Duration

	// Trading gateway (§6)
	DryRun               bool
	PolymarketAPIKey     string
	PolymarketSecret     string
	PolymarketPassphrase string
	PolymarketPrivateKey string
	PolymarketAddress    string
	PolymarketProxyAddr  string
	PolymarketSigType    int
	PolymarketTickSize   float64

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		PolymarketWSURL:    getEnvOrDefault("POLYMARKET_WS_URL", "wss://ws-subscriptions-clob.polymarket.com/ws/market"),
		PolymarketGammaURL: getEnvOrDefault("POLYMARKET_GAMMA_API_URL", "https://gamma-api.polymarket.com"),

		ReconnectDelay:     getDurationOrDefault("RECONNECT_DELAY_S", 2*time.Second),
		SubscribeBatchSize: getIntOrDefault("SUBSCRIBE_BATCH_SIZE", 500),
		WSDialTimeout:      getDurationOrDefault("WS_DIAL_TIMEOUT", 10*time.Second),
		WSPingInterval:     getDurationOrDefault("WS_PING_INTERVAL", 30*time.Second),

		CatalogCacheTTL: getDurationOrDefault("CATALOG_CACHE_TTL", 5*time.Minute),

		FeeRate:      getFloat64OrDefault("FEE_RATE", 0.02),
		MinNetSpread: getFloat64OrDefault("MIN_NET_SPREAD", 0.02),

		MaxPositionQuote:      getFloat64OrDefault("MAX_POSITION_QUOTE", 100),
		MaxTotalExposureQuote: getFloat64OrDefault("MAX_TOTAL_EXPOSURE_QUOTE", 500),
		BankrollQuote:         getFloat64OrDefault("BANKROLL_QUOTE", 1000),
		PerTradeFraction:      getFloat64OrDefault("PER_TRADE_FRACTION", 0.01),
		CooldownDuration:      getDurationOrDefault("COOLDOWN_S", 10*time.Second),
		StatsPrintInterval:    getDurationOrDefault("STATS_PRINT_INTERVAL", 60*time.Second),

		DryRun:               getBoolOrDefault("DRY_RUN", true),
		PolymarketAPIKey:     os.Getenv("POLYMARKET_API_KEY"),
		PolymarketSecret:     os.Getenv("POLYMARKET_SECRET"),
		PolymarketPassphrase: os.Getenv("POLYMARKET_PASSPHRASE"),
		PolymarketPrivateKey: os.Getenv("POLYMARKET_PRIVATE_KEY"),
		PolymarketAddress:    os.Getenv("POLYMARKET_ADDRESS"),
		PolymarketProxyAddr:  os.Getenv("POLYMARKET_PROXY_ADDRESS"),
		PolymarketSigType:    getIntOrDefault("POLYMARKET_SIGNATURE_TYPE", 0),
		PolymarketTickSize:   getFloat64OrDefault("POLYMARKET_TICK_SIZE", 0.01),

		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "arbcore"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "arbcore123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "arbcore"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid. A fatal
// configuration error (missing credentials with dry_run=false, or an
// inconsistent risk/storage setting) aborts startup per spec.md §7.
func (c *Config) Validate() (err error) {
	if c.HTTPPort == "" {
		return errors.New("HTTP_PORT cannot be empty")
	}
	if c.PolymarketWSURL == "" {
		return errors.New("POLYMARKET_WS_URL cannot be empty")
	}
	if c.PolymarketGammaURL == "" {
		return errors.New("POLYMARKET_GAMMA_API_URL cannot be empty")
	}

	if c.FeeRate < 0 || c.FeeRate >= 1.0 {
		return fmt.Errorf("FEE_RATE must be between 0 and 1.0, got %f", c.FeeRate)
	}
	if c.MinNetSpread < 0 {
		return fmt.Errorf("MIN_NET_SPREAD must be non-negative, got %f", c.MinNetSpread)
	}

	if c.MaxPositionQuote <= 0 {
		return fmt.Errorf("MAX_POSITION_QUOTE must be positive, got %f", c.MaxPositionQuote)
	}
	if c.MaxTotalExposureQuote <= 0 {
		return fmt.Errorf("MAX_TOTAL_EXPOSURE_QUOTE must be positive, got %f", c.MaxTotalExposureQuote)
	}
	if c.MaxTotalExposureQuote < c.MaxPositionQuote {
		return fmt.Errorf("MAX_TOTAL_EXPOSURE_QUOTE (%f) must be >= MAX_POSITION_QUOTE (%f)",
			c.MaxTotalExposureQuote, c.MaxPositionQuote)
	}
	if c.PerTradeFraction <= 0 || c.PerTradeFraction > 1.0 {
		return fmt.Errorf("PER_TRADE_FRACTION must be between 0 (exclusive) and 1.0, got %f", c.PerTradeFraction)
	}
	if c.BankrollQuote < 0 {
		return fmt.Errorf("BANKROLL_QUOTE must be non-negative, got %f", c.BankrollQuote)
	}

	if c.CooldownDuration <= 0 {
		return fmt.Errorf("COOLDOWN_S must be positive, got %s", c.CooldownDuration)
	}
	if c.SubscribeBatchSize <= 0 {
		return fmt.Errorf("SUBSCRIBE_BATCH_SIZE must be positive, got %d", c.SubscribeBatchSize)
	}
	if c.ReconnectDelay <= 0 {
		return fmt.Errorf("RECONNECT_DELAY_S must be positive, got %s", c.ReconnectDelay)
	}

	if !c.DryRun && c.PolymarketPrivateKey == "" {
		return errors.New("POLYMARKET_PRIVATE_KEY is required when DRY_RUN=false")
	}

	if c.StorageMode != "postgres" && c.StorageMode != "console" {
		return fmt.Errorf("STORAGE_MODE must be 'postgres' or 'console', got %q", c.StorageMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolVal
}

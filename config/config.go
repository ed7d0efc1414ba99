package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"astraldraw/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// SecretKey is the process-wide secret backing the key codec.
	// Required outside of tests; the codec refuses to construct without it.
	SecretKey string

	// Redis configuration (cache store)
	RedisAddrs    []string
	RedisPassword string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Ledger service configuration
	LedgerServiceURL     string
	LedgerRequestTimeout time.Duration

	// Serial configuration
	SerialPrefix string // Alphanumeric prefix for ticket serials

	// Metadata configuration
	MetadataImageBaseURL string // Base URL for ticket artwork links

	// Cache TTLs
	StatsCacheTTL      time.Duration
	DrawDetailCacheTTL time.Duration

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// Codec secret
		SecretKey: os.Getenv("SECRET_KEY"),

		// Redis
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		// NATS
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		// Ledger service
		LedgerServiceURL:     getEnvWithDefault("LEDGER_SERVICE_URL", "http://ledger:8090"),
		LedgerRequestTimeout: 10 * time.Second,

		// Serials
		SerialPrefix: getEnvWithDefault("SERIAL_PREFIX", "AK"),

		// Metadata
		MetadataImageBaseURL: getEnvWithDefault("METADATA_IMAGE_BASE_URL", "https://astraldraw.app/keys"),

		// Cache TTLs
		StatsCacheTTL:      10 * time.Minute,
		DrawDetailCacheTTL: 5 * time.Minute,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	for _, addr := range strings.Split(getEnvWithDefault("REDIS_ADDRS", "redis:6379"), ",") {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			config.RedisAddrs = append(config.RedisAddrs, addr)
		}
	}

	if timeout := os.Getenv("LEDGER_REQUEST_TIMEOUT_SECONDS"); timeout != "" {
		if parsed, err := strconv.Atoi(timeout); err == nil && parsed > 0 {
			config.LedgerRequestTimeout = time.Duration(parsed) * time.Second
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.SecretKey == "" {
			return nil, fmt.Errorf("SECRET_KEY is required")
		}
		// If DatabaseName is provided, ensure it's not empty
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:          "test",
		SecretKey:            "test-secret-key",
		SerialPrefix:         "AK",
		MetadataImageBaseURL: "https://astraldraw.test/keys",
		StatsCacheTTL:        10 * time.Minute,
		DrawDetailCacheTTL:   5 * time.Minute,
		LedgerRequestTimeout: 10 * time.Second,
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"mew/database"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken  string `validate:"required_unless=Environment test"`
	GuildID       string // Primary Discord guild ID, commands are registered globally when empty
	PokeMeowBotID string // Discord ID of the PokéMeow bot whose messages are classified

	// Database configuration
	DatabaseURL      string `validate:"required_unless=Environment test"`
	DatabaseName     string
	DatabaseMaxConns int32 `validate:"gte=1"`

	// Cache and scheduling
	CacheReloadInterval time.Duration `validate:"gte=1m"`
	DueScanInterval     time.Duration `validate:"gte=1s"`
	ResetTimezone       string        `validate:"required,timezone"`
	FactionResetCron    string        `validate:"required"`
	BattleTowerCron     string        `validate:"required"`
	AuctionReminderLead time.Duration `validate:"gte=0"`

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated), event bridge disabled when empty

	// Observability
	MetricsAddr string // Address of the metrics/health server, disabled when empty
	LogLevel    string `validate:"oneof=trace debug info warn warning error"`
	LogFormat   string `validate:"oneof=text json"`

	// Environment
	Environment string `validate:"oneof=development production test"` // "development", "production" or "test"
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
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Init loads and validates the configuration once, returning the problem
// instead of panicking so the binary can report it and exit cleanly.
// Later calls to Get return the same instance.
func Init() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance, nil
	}
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	instance = cfg
	once.Do(func() {})
	return cfg, nil
}

// LoadEnvFiles reads .env.local and .env into the process environment.
// Missing files are fine, variables already set are never overridden.
func LoadEnvFiles() {
	_ = godotenv.Load(".env.local", ".env")
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// Location returns the timezone used for daily reset triggers
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ResetTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// load loads configuration from environment variables
func load() (*Config, error) {
	LoadEnvFiles()

	config := &Config{
		// Discord
		DiscordToken:  os.Getenv("DISCORD_TOKEN"),
		GuildID:       os.Getenv("GUILD_ID"),
		PokeMeowBotID: getEnvWithDefault("POKEMEOW_BOT_ID", "664508672713424926"),

		// Database
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DatabaseName:     os.Getenv("DATABASE_NAME"),
		DatabaseMaxConns: 10,

		// Cache and scheduling defaults
		CacheReloadInterval: time.Hour,
		DueScanInterval:     5 * time.Second,
		ResetTimezone:       getEnvWithDefault("RESET_TIMEZONE", "America/Los_Angeles"),
		FactionResetCron:    getEnvWithDefault("FACTION_RESET_CRON", "0 0 * * *"),
		BattleTowerCron:     getEnvWithDefault("BATTLE_TOWER_CRON", "0 0 * * 1"),
		AuctionReminderLead: 5 * time.Minute,

		// NATS
		NATSServers: os.Getenv("NATS_SERVERS"),

		// Observability
		MetricsAddr: getEnvWithDefault("METRICS_ADDR", ":9090"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:   getEnvWithDefault("LOG_FORMAT", "text"),

		// Environment
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	// Override defaults if environment variables are set
	if maxConns := os.Getenv("DATABASE_MAX_CONNS"); maxConns != "" {
		parsed, err := strconv.ParseInt(maxConns, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid DATABASE_MAX_CONNS %q: %w", maxConns, err)
		}
		config.DatabaseMaxConns = int32(parsed)
	}

	durations := map[string]*time.Duration{
		"CACHE_RELOAD_INTERVAL": &config.CacheReloadInterval,
		"DUE_SCAN_INTERVAL":     &config.DueScanInterval,
		"AUCTION_REMINDER_LEAD": &config.AuctionReminderLead,
	}
	for key, target := range durations {
		value := os.Getenv(key)
		if value == "" {
			continue
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		*target = parsed
	}

	config.LogLevel = strings.ToLower(config.LogLevel)
	config.LogFormat = strings.ToLower(config.LogFormat)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
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
		Environment:         "test",
		PokeMeowBotID:       "664508672713424926",
		DatabaseMaxConns:    4,
		CacheReloadInterval: time.Hour,
		DueScanInterval:     time.Second,
		ResetTimezone:       "America/Los_Angeles",
		FactionResetCron:    "0 0 * * *",
		BattleTowerCron:     "0 0 * * 1",
		AuctionReminderLead: 5 * time.Minute,
		LogLevel:            "debug",
		LogFormat:           "text",
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL string

	// Economy defaults (per-guild settings may override some of these)
	DailyBaseReward  int64 // base check-in reward when a guild has no override
	CheckInXP        int64 // XP granted per daily check-in
	StartingBalance  int64 // balance for newly created members
	CurrencyName     string
	CurrencySymbol   string

	// Moderation thresholds
	MuteWarningThreshold int // warning count that triggers an automatic mute
	BanWarningThreshold  int // warning count that triggers an automatic ban

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Economy defaults
		DailyBaseReward: 100,
		CheckInXP:       25,
		StartingBalance: 0,
		CurrencyName:    "Roses",
		CurrencySymbol:  "🌹",

		// Moderation defaults
		MuteWarningThreshold: 3,
		BanWarningThreshold:  5,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if reward := os.Getenv("DAILY_BASE_REWARD"); reward != "" {
		if parsed, err := strconv.ParseInt(reward, 10, 64); err == nil {
			config.DailyBaseReward = parsed
		}
	}
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		if parsed, err := strconv.ParseInt(balance, 10, 64); err == nil {
			config.StartingBalance = parsed
		}
	}
	if name := os.Getenv("CURRENCY_NAME"); name != "" {
		config.CurrencyName = name
	}
	if symbol := os.Getenv("CURRENCY_SYMBOL"); symbol != "" {
		config.CurrencySymbol = symbol
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

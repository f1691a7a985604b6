package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"rosethorn/bot"
	"rosethorn/config"
	"rosethorn/database"
	"rosethorn/events"
	"rosethorn/repository"
	"rosethorn/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting rosethorn bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Info("Initializing services...")
	rng := service.NewRand(time.Now().UnixNano())
	clock := service.SystemClock()
	economyService := service.NewEconomyService(uowFactory, rng, clock)
	gamblingService := service.NewGamblingService(uowFactory, rng)
	shopService := service.NewShopService(uowFactory)
	moderationService := service.NewModerationService(uowFactory, clock)
	statsService := service.NewStatsService(uowFactory, clock)
	settingsService := service.NewGuildSettingsService(uowFactory)
	log.Info("Services initialized successfully")

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.DiscordGuildID,
	}
	discordBot, err := bot.New(botConfig, economyService, gamblingService, shopService, moderationService, statsService, settingsService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Start background workers
	workers := bot.NewWorkers(discordBot, moderationService, statsService)
	if err := workers.Start(); err != nil {
		discordBot.Close()
		return fmt.Errorf("failed to start background workers: %w", err)
	}

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")
	workers.Stop()

	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}

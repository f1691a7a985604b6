package service

import (
	"context"
	"fmt"

	"rosethorn/models"
)

type guildSettingsService struct {
	uowFactory UnitOfWorkFactory
}

// NewGuildSettingsService creates a new guild settings service
func NewGuildSettingsService(uowFactory UnitOfWorkFactory) GuildSettingsService {
	return &guildSettingsService{
		uowFactory: uowFactory,
	}
}

func (s *guildSettingsService) GetOrCreateSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.GuildSettingsRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return settings, nil
}

func (s *guildSettingsService) UpdateCurrency(ctx context.Context, guildID int64, name, symbol string) error {
	if name == "" {
		return fmt.Errorf("%w: currency name must not be empty", ErrInvalidTarget)
	}
	return s.update(ctx, guildID, func(settings *models.GuildSettings) {
		settings.CurrencyName = name
		if symbol != "" {
			settings.CurrencySymbol = symbol
		}
	})
}

func (s *guildSettingsService) UpdateDailyReward(ctx context.Context, guildID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: daily reward must be positive", ErrInvalidTarget)
	}
	return s.update(ctx, guildID, func(settings *models.GuildSettings) {
		settings.DailyReward = amount
	})
}

func (s *guildSettingsService) UpdateLevelUpBonus(ctx context.Context, guildID int64, enabled bool) error {
	return s.update(ctx, guildID, func(settings *models.GuildSettings) {
		settings.LevelUpBonusEnabled = enabled
	})
}

func (s *guildSettingsService) UpdateLogChannel(ctx context.Context, guildID int64, channelID *int64) error {
	return s.update(ctx, guildID, func(settings *models.GuildSettings) {
		settings.LogChannelID = channelID
	})
}

// update applies a mutation to a guild's settings row inside one
// transaction, creating the row first if needed.
func (s *guildSettingsService) update(ctx context.Context, guildID int64, mutate func(*models.GuildSettings)) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.GuildSettingsRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}

	mutate(settings)

	if err := uow.GuildSettingsRepository().Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

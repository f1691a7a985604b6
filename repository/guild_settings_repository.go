package repository

import (
	"context"
	"fmt"

	"rosethorn/database"
	"rosethorn/models"
)

// GuildSettingsRepository implements the GuildSettingsRepository interface
type GuildSettingsRepository struct {
	q queryable
}

// NewGuildSettingsRepository creates a new guild settings repository
func NewGuildSettingsRepository(db *database.DB) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: db.Pool}
}

// newGuildSettingsRepositoryWithTx creates a new guild settings repository with a transaction
func newGuildSettingsRepositoryWithTx(tx queryable) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: tx}
}

// GetOrCreate retrieves guild settings, inserting column defaults if the
// row does not exist yet. The upsert keeps concurrent first reads safe.
func (r *GuildSettingsRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	query := `
		INSERT INTO guild_settings (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING guild_id, currency_name, currency_symbol, daily_reward,
		          level_up_bonus_enabled, log_channel_id, muted_role_id,
		          created_at, updated_at
	`

	var settings models.GuildSettings
	err := r.q.QueryRow(ctx, query, guildID).Scan(
		&settings.GuildID,
		&settings.CurrencyName,
		&settings.CurrencySymbol,
		&settings.DailyReward,
		&settings.LevelUpBonusEnabled,
		&settings.LogChannelID,
		&settings.MutedRoleID,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings for guild %d: %w", guildID, err)
	}

	return &settings, nil
}

// Update persists modified guild settings
func (r *GuildSettingsRepository) Update(ctx context.Context, settings *models.GuildSettings) error {
	query := `
		UPDATE guild_settings
		SET currency_name = $1,
		    currency_symbol = $2,
		    daily_reward = $3,
		    level_up_bonus_enabled = $4,
		    log_channel_id = $5,
		    muted_role_id = $6,
		    updated_at = NOW()
		WHERE guild_id = $7
	`

	result, err := r.q.Exec(ctx, query,
		settings.CurrencyName,
		settings.CurrencySymbol,
		settings.DailyReward,
		settings.LevelUpBonusEnabled,
		settings.LogChannelID,
		settings.MutedRoleID,
		settings.GuildID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settings for guild %d: %w", settings.GuildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("settings for guild %d not found", settings.GuildID)
	}

	return nil
}

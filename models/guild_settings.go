package models

import (
	"time"
)

// GuildSettings holds per-guild configuration overrides. Zero-value
// fields fall back to the process-level defaults.
type GuildSettings struct {
	GuildID             int64     `db:"guild_id"`
	CurrencyName        string    `db:"currency_name"`
	CurrencySymbol      string    `db:"currency_symbol"`
	DailyReward         int64     `db:"daily_reward"`
	LevelUpBonusEnabled bool      `db:"level_up_bonus_enabled"`
	LogChannelID        *int64    `db:"log_channel_id"` // nil disables log posts
	MutedRoleID         *int64    `db:"muted_role_id"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

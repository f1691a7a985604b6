package models

import (
	"time"
)

// Member represents a user's per-guild economy and moderation state
type Member struct {
	ID            int64      `db:"id"`
	GuildID       int64      `db:"guild_id"`
	UserID        int64      `db:"user_id"`
	Username      string     `db:"username"`
	Balance       int64      `db:"balance"`
	XP            int64      `db:"xp"`
	Level         int        `db:"level"`
	WarningCount  int        `db:"warning_count"`
	CheckInStreak int        `db:"check_in_streak"`
	LastCheckIn   *time.Time `db:"last_check_in"` // UTC calendar date, nil until first check-in
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

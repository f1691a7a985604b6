package models

import (
	"time"
)

// CheckIn represents a single daily check-in record.
// At most one row exists per (guild, user, day).
type CheckIn struct {
	ID        int64     `db:"id"`
	GuildID   int64     `db:"guild_id"`
	UserID    int64     `db:"user_id"`
	Day       time.Time `db:"day"` // UTC date, time component zero
	Streak    int       `db:"streak"`
	Reward    int64     `db:"reward"`
	CreatedAt time.Time `db:"created_at"`
}

// CheckInResult is the outcome of a successful daily check-in
type CheckInResult struct {
	Streak         int
	BaseReward     int64
	StreakBonus    int64
	RandomBonus    int64
	MilestoneBonus int64
	TotalReward    int64
	NewBalance     int64
	XPGained       int64
	NewLevel       int
	LeveledUp      bool
	LevelUpBonus   int64
}

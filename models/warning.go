package models

import (
	"time"
)

// EscalationTier is the moderation action recommended after a warning
type EscalationTier string

const (
	EscalationNone EscalationTier = "none"
	EscalationMute EscalationTier = "mute" // 1 hour timeout
	EscalationBan  EscalationTier = "ban"
)

// Warning represents a single infraction record
type Warning struct {
	ID          int64     `db:"id"`
	GuildID     int64     `db:"guild_id"`
	UserID      int64     `db:"user_id"`
	ModeratorID int64     `db:"moderator_id"`
	Reason      string    `db:"reason"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
}

// WarnResult is the outcome of issuing a warning
type WarnResult struct {
	Warning      *Warning
	WarningCount int
	Tier         EscalationTier
	MuteDuration time.Duration // set when Tier == EscalationMute
}

// Mute represents a timed mute applied to a member
type Mute struct {
	ID          int64      `db:"id"`
	GuildID     int64      `db:"guild_id"`
	UserID      int64      `db:"user_id"`
	ModeratorID int64      `db:"moderator_id"`
	Reason      string     `db:"reason"`
	ExpiresAt   *time.Time `db:"expires_at"` // nil means indefinite
	LiftedAt    *time.Time `db:"lifted_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

// ModLogAction enumerates audited moderation actions
type ModLogAction string

const (
	ModLogActionWarn   ModLogAction = "warn"
	ModLogActionMute   ModLogAction = "mute"
	ModLogActionUnmute ModLogAction = "unmute"
	ModLogActionBan    ModLogAction = "ban"
	ModLogActionKick   ModLogAction = "kick"
)

// ModLog is an append-only moderation audit entry
type ModLog struct {
	ID          int64          `db:"id"`
	GuildID     int64          `db:"guild_id"`
	UserID      int64          `db:"user_id"`
	ModeratorID int64          `db:"moderator_id"`
	Action      ModLogAction   `db:"action"`
	Reason      string         `db:"reason"`
	Metadata    map[string]any `db:"metadata"`
	CreatedAt   time.Time      `db:"created_at"`
}

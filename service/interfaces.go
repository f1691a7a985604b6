package service

import (
	"context"
	"time"

	"rosethorn/events"
	"rosethorn/models"
)

// MemberRepository defines the interface for member data access
type MemberRepository interface {
	// GetByUser retrieves a member record, or nil if none exists
	GetByUser(ctx context.Context, guildID, userID int64) (*models.Member, error)

	// Create creates a new member with the starting balance
	Create(ctx context.Context, guildID, userID int64, username string, startingBalance int64) (*models.Member, error)

	// AddBalance adds to a member's balance atomically
	AddBalance(ctx context.Context, guildID, userID int64, amount int64) error

	// DeductBalance deducts from a member's balance atomically, returning
	// ErrInsufficientFunds if the balance cannot cover the amount
	DeductBalance(ctx context.Context, guildID, userID int64, amount int64) error

	// SetCheckInState updates streak bookkeeping after a check-in
	SetCheckInState(ctx context.Context, guildID, userID int64, streak int, day time.Time) error

	// SetProgress updates a member's XP total and level
	SetProgress(ctx context.Context, guildID, userID int64, xp int64, level int) error

	// IncrementWarningCount bumps the warning counter and returns the new count
	IncrementWarningCount(ctx context.Context, guildID, userID int64) (int, error)

	// GetTopByBalance returns the richest members of a guild
	GetTopByBalance(ctx context.Context, guildID int64, limit int) ([]*models.Member, error)

	// GetTopByStreak returns the members with the longest current streaks
	GetTopByStreak(ctx context.Context, guildID int64, limit int) ([]*models.Member, error)

	// CountByGuild returns the number of member records in a guild
	CountByGuild(ctx context.Context, guildID int64) (int64, error)

	// SumBalances returns the total currency held in a guild
	SumBalances(ctx context.Context, guildID int64) (int64, error)

	// CountActiveStreaks counts members whose streak is unbroken as of day
	CountActiveStreaks(ctx context.Context, guildID int64, day time.Time) (int64, error)
}

// CheckInRepository defines the interface for check-in data access
type CheckInRepository interface {
	// Create appends a check-in row. A duplicate (guild, user, day) row
	// fails with ErrAlreadyClaimed.
	Create(ctx context.Context, checkIn *models.CheckIn) error

	// GetByDay retrieves the check-in for a specific UTC date, or nil
	GetByDay(ctx context.Context, guildID, userID int64, day time.Time) (*models.CheckIn, error)

	// GetLatest retrieves the most recent check-in for a member, or nil
	GetLatest(ctx context.Context, guildID, userID int64) (*models.CheckIn, error)

	// CountByUser returns the lifetime check-in total for a member
	CountByUser(ctx context.Context, guildID, userID int64) (int64, error)

	// CountByDay returns how many members checked in on a given date
	CountByDay(ctx context.Context, guildID int64, day time.Time) (int64, error)

	// TopTotals returns the members with the most lifetime check-ins
	TopTotals(ctx context.Context, guildID int64, limit int) ([]*models.LeaderboardEntry, error)

	// SumRewardsByDay returns the total rewards paid out on a given date
	SumRewardsByDay(ctx context.Context, guildID int64, day time.Time) (int64, error)
}

// WarningRepository defines the interface for warning data access
type WarningRepository interface {
	// Create appends a warning row
	Create(ctx context.Context, warning *models.Warning) error

	// CountActive returns the number of active warnings for a member
	CountActive(ctx context.Context, guildID, userID int64) (int, error)

	// GetActiveByUser returns active warnings for a member, newest first
	GetActiveByUser(ctx context.Context, guildID, userID int64) ([]*models.Warning, error)
}

// MuteRepository defines the interface for mute data access
type MuteRepository interface {
	// Create appends a mute row
	Create(ctx context.Context, mute *models.Mute) error

	// GetActiveByUser returns the unexpired, unlifted mute for a member, or nil
	GetActiveByUser(ctx context.Context, guildID, userID int64) (*models.Mute, error)

	// GetExpired returns mutes past their expiry that have not been lifted
	GetExpired(ctx context.Context, now time.Time) ([]*models.Mute, error)

	// MarkLifted records that a mute was lifted
	MarkLifted(ctx context.Context, muteID int64, at time.Time) error
}

// ShopItemRepository defines the interface for shop item data access
type ShopItemRepository interface {
	// Create creates a new shop item
	Create(ctx context.Context, item *models.ShopItem) error

	// GetByID retrieves an item scoped to a guild, or nil
	GetByID(ctx context.Context, guildID, itemID int64) (*models.ShopItem, error)

	// GetByName retrieves a purchasable item by case-insensitive name match, or nil
	GetByName(ctx context.Context, guildID int64, name string) (*models.ShopItem, error)

	// ListPurchasable returns a guild's purchasable items ordered by price
	ListPurchasable(ctx context.Context, guildID int64) ([]*models.ShopItem, error)

	// DecrementStock atomically reduces finite stock, returning
	// ErrOutOfStock if the remaining stock cannot cover the quantity.
	// Items with unlimited stock are left untouched.
	DecrementStock(ctx context.Context, itemID int64, quantity int) error

	// SetPurchasable enables or disables an item
	SetPurchasable(ctx context.Context, guildID, itemID int64, purchasable bool) error
}

// PurchaseRepository defines the interface for purchase history data access
type PurchaseRepository interface {
	// Create appends a purchase row
	Create(ctx context.Context, purchase *models.Purchase) error

	// GetInventory aggregates a member's purchases per item
	GetInventory(ctx context.Context, guildID, userID int64) ([]*models.InventoryEntry, error)
}

// BalanceHistoryRepository defines the interface for balance audit records
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns balance history for a member, newest first
	GetByUser(ctx context.Context, guildID, userID int64, limit int) ([]*models.BalanceHistory, error)
}

// ModLogRepository defines the interface for moderation audit records
type ModLogRepository interface {
	// Create appends a moderation log entry
	Create(ctx context.Context, entry *models.ModLog) error

	// GetByUser returns moderation history for a member, newest first
	GetByUser(ctx context.Context, guildID, userID int64, limit int) ([]*models.ModLog, error)
}

// GuildSettingsRepository defines the interface for guild settings data access
type GuildSettingsRepository interface {
	// GetOrCreate retrieves guild settings, creating defaults if absent
	GetOrCreate(ctx context.Context, guildID int64) (*models.GuildSettings, error)

	// Update persists modified guild settings
	Update(ctx context.Context, settings *models.GuildSettings) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	MemberRepository() MemberRepository
	CheckInRepository() CheckInRepository
	WarningRepository() WarningRepository
	MuteRepository() MuteRepository
	ShopItemRepository() ShopItemRepository
	PurchaseRepository() PurchaseRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	ModLogRepository() ModLogRepository
	GuildSettingsRepository() GuildSettingsRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create returns a new UnitOfWork
	Create() UnitOfWork
}

// EconomyService defines the interface for member and currency operations
type EconomyService interface {
	// GetOrCreateMember retrieves or lazily creates a member record
	GetOrCreateMember(ctx context.Context, guildID, userID int64, username string) (*models.Member, error)

	// CheckIn performs the daily check-in for a member, granting the
	// streak-based reward and XP. Returns ErrAlreadyClaimed if the member
	// already checked in today.
	CheckIn(ctx context.Context, guildID, userID int64, username string) (*models.CheckInResult, error)

	// StreakStatus reports a member's current streak, whether today is
	// claimed, and their lifetime check-in total. A gap of two or more
	// days reports a streak of zero.
	StreakStatus(ctx context.Context, guildID, userID int64) (*StreakStatus, error)

	// Transfer moves currency between two members
	Transfer(ctx context.Context, guildID, fromUserID, toUserID int64, amount int64) error

	// Award grants (or, with a negative amount, removes) currency by
	// moderator action
	Award(ctx context.Context, guildID, moderatorID, userID int64, amount int64, reason string) (int64, error)
}

// StreakStatus describes a member's check-in state
type StreakStatus struct {
	Streak        int
	ClaimedToday  bool
	StreakBroken  bool
	LastCheckIn   *time.Time
	TotalCheckIns int64
}

// GamblingService defines the interface for games of chance
type GamblingService interface {
	// Gamble resolves a wager on the given game. The wager is debited
	// before the game resolves; winnings are credited after.
	Gamble(ctx context.Context, guildID, userID int64, wager int64, game models.GambleGame) (*models.GambleResult, error)
}

// ShopService defines the interface for shop operations
type ShopService interface {
	// Purchase buys a quantity of an item, debiting balance, decrementing
	// finite stock and recording the purchase atomically
	Purchase(ctx context.Context, guildID, userID int64, itemName string, quantity int) (*models.PurchaseResult, error)

	// ListItems returns a guild's purchasable items
	ListItems(ctx context.Context, guildID int64) ([]*models.ShopItem, error)

	// AddItem creates a new shop item
	AddItem(ctx context.Context, item *models.ShopItem) error

	// RemoveItem disables an item so it can no longer be purchased
	RemoveItem(ctx context.Context, guildID, itemID int64) error

	// Inventory returns a member's accumulated purchases
	Inventory(ctx context.Context, guildID, userID int64) ([]*models.InventoryEntry, error)
}

// ModerationService defines the interface for warnings and mutes
type ModerationService interface {
	// Warn records a warning and returns the escalation tier the caller
	// must execute. The service itself performs no Discord-side action.
	Warn(ctx context.Context, guildID, userID, moderatorID int64, reason string) (*models.WarnResult, error)

	// Warnings returns a member's active warnings
	Warnings(ctx context.Context, guildID, userID int64) ([]*models.Warning, error)

	// Mute records a mute with an optional duration (zero means indefinite)
	Mute(ctx context.Context, guildID, userID, moderatorID int64, duration time.Duration, reason string) (*models.Mute, error)

	// Unmute lifts a member's active mute, reporting whether one existed
	Unmute(ctx context.Context, guildID, userID, moderatorID int64) (bool, error)

	// RecordAction appends a moderation audit entry for an externally
	// executed action (ban, kick)
	RecordAction(ctx context.Context, entry *models.ModLog) error

	// LiftExpiredMutes marks all expired mutes as lifted and returns them
	// so the caller can remove the platform-side restriction
	LiftExpiredMutes(ctx context.Context) ([]*models.Mute, error)
}

// StatsService defines the interface for leaderboards and guild statistics
type StatsService interface {
	// BalanceLeaderboard returns the top balances in a guild
	BalanceLeaderboard(ctx context.Context, guildID int64, limit int) ([]*models.LeaderboardEntry, error)

	// StreakLeaderboard returns the top current streaks in a guild
	StreakLeaderboard(ctx context.Context, guildID int64, limit int) ([]*models.LeaderboardEntry, error)

	// CheckInLeaderboard returns the top lifetime check-in totals
	CheckInLeaderboard(ctx context.Context, guildID int64, limit int) ([]*models.LeaderboardEntry, error)

	// GuildStats summarizes a guild's economy
	GuildStats(ctx context.Context, guildID int64) (*models.EconomyStats, error)

	// DailySummary reports check-in count and payout totals for a date
	DailySummary(ctx context.Context, guildID int64, day time.Time) (checkIns int64, payout int64, err error)
}

// GuildSettingsService defines the interface for per-guild configuration
type GuildSettingsService interface {
	// GetOrCreateSettings retrieves guild settings, creating defaults if absent
	GetOrCreateSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error)

	// UpdateCurrency sets the guild's currency name and symbol
	UpdateCurrency(ctx context.Context, guildID int64, name, symbol string) error

	// UpdateDailyReward sets the guild's base check-in reward
	UpdateDailyReward(ctx context.Context, guildID int64, amount int64) error

	// UpdateLevelUpBonus toggles the level-up currency bonus policy
	UpdateLevelUpBonus(ctx context.Context, guildID int64, enabled bool) error

	// UpdateLogChannel sets the guild's moderation/summary log channel
	UpdateLogChannel(ctx context.Context, guildID int64, channelID *int64) error
}

package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeCheckIn      TransactionType = "checkin"
	TransactionTypeGambleWin    TransactionType = "gamble_win"
	TransactionTypeGambleLoss   TransactionType = "gamble_loss"
	TransactionTypePurchase     TransactionType = "purchase"
	TransactionTypeTransferIn   TransactionType = "transfer_in"
	TransactionTypeTransferOut  TransactionType = "transfer_out"
	TransactionTypeLevelUpBonus TransactionType = "levelup_bonus"
	TransactionTypeAdminAdjust  TransactionType = "admin_adjust"
)

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	GuildID             int64           `db:"guild_id"`
	UserID              int64           `db:"user_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}

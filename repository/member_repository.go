package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"rosethorn/database"
	"rosethorn/models"
	"rosethorn/service"
)

// MemberRepository implements the MemberRepository interface
type MemberRepository struct {
	q queryable
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *database.DB) *MemberRepository {
	return &MemberRepository{q: db.Pool}
}

// newMemberRepositoryWithTx creates a new member repository with a transaction
func newMemberRepositoryWithTx(tx queryable) *MemberRepository {
	return &MemberRepository{q: tx}
}

const memberColumns = `id, guild_id, user_id, username, balance, xp, level, warning_count, check_in_streak, last_check_in, created_at, updated_at`

func scanMember(row pgx.Row) (*models.Member, error) {
	var member models.Member
	err := row.Scan(
		&member.ID,
		&member.GuildID,
		&member.UserID,
		&member.Username,
		&member.Balance,
		&member.XP,
		&member.Level,
		&member.WarningCount,
		&member.CheckInStreak,
		&member.LastCheckIn,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByUser retrieves a member by guild and user ID
func (r *MemberRepository) GetByUser(ctx context.Context, guildID, userID int64) (*models.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE guild_id = $1 AND user_id = $2
	`

	member, err := scanMember(r.q.QueryRow(ctx, query, guildID, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member %d in guild %d: %w", userID, guildID, err)
	}

	return member, nil
}

// Create creates a new member with the starting balance
func (r *MemberRepository) Create(ctx context.Context, guildID, userID int64, username string, startingBalance int64) (*models.Member, error) {
	query := `
		INSERT INTO members (guild_id, user_id, username, balance)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + memberColumns + `
	`

	member, err := scanMember(r.q.QueryRow(ctx, query, guildID, userID, username, startingBalance))
	if err != nil {
		return nil, fmt.Errorf("failed to create member %d in guild %d: %w", userID, guildID, err)
	}

	return member, nil
}

// AddBalance adds to a member's balance atomically
func (r *MemberRepository) AddBalance(ctx context.Context, guildID, userID int64, amount int64) error {
	query := `
		UPDATE members
		SET balance = balance + $1, updated_at = NOW()
		WHERE guild_id = $2 AND user_id = $3
	`

	result, err := r.q.Exec(ctx, query, amount, guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to add balance for member %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return service.ErrMemberNotFound
	}

	return nil
}

// DeductBalance deducts from a member's balance atomically. The guard in
// the WHERE clause makes concurrent overdrafts impossible: the row only
// updates if the balance still covers the amount.
func (r *MemberRepository) DeductBalance(ctx context.Context, guildID, userID int64, amount int64) error {
	query := `
		UPDATE members
		SET balance = balance - $1, updated_at = NOW()
		WHERE guild_id = $2 AND user_id = $3 AND balance >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to deduct balance for member %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return service.ErrInsufficientFunds
	}

	return nil
}

// SetCheckInState updates streak bookkeeping after a check-in
func (r *MemberRepository) SetCheckInState(ctx context.Context, guildID, userID int64, streak int, day time.Time) error {
	query := `
		UPDATE members
		SET check_in_streak = $1, last_check_in = $2, updated_at = NOW()
		WHERE guild_id = $3 AND user_id = $4
	`

	result, err := r.q.Exec(ctx, query, streak, day, guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to set check-in state for member %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return service.ErrMemberNotFound
	}

	return nil
}

// SetProgress updates a member's XP total and level
func (r *MemberRepository) SetProgress(ctx context.Context, guildID, userID int64, xp int64, level int) error {
	query := `
		UPDATE members
		SET xp = $1, level = $2, updated_at = NOW()
		WHERE guild_id = $3 AND user_id = $4
	`

	result, err := r.q.Exec(ctx, query, xp, level, guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to set progress for member %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return service.ErrMemberNotFound
	}

	return nil
}

// IncrementWarningCount bumps the warning counter and returns the new count
func (r *MemberRepository) IncrementWarningCount(ctx context.Context, guildID, userID int64) (int, error) {
	query := `
		UPDATE members
		SET warning_count = warning_count + 1, updated_at = NOW()
		WHERE guild_id = $1 AND user_id = $2
		RETURNING warning_count
	`

	var count int
	err := r.q.QueryRow(ctx, query, guildID, userID).Scan(&count)
	if err == pgx.ErrNoRows {
		return 0, service.ErrMemberNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment warning count for member %d: %w", userID, err)
	}

	return count, nil
}

// GetTopByBalance returns the richest members of a guild
func (r *MemberRepository) GetTopByBalance(ctx context.Context, guildID int64, limit int) ([]*models.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE guild_id = $1
		ORDER BY balance DESC, user_id
		LIMIT $2
	`

	return r.queryMembers(ctx, query, guildID, limit)
}

// GetTopByStreak returns the members with the longest current streaks
func (r *MemberRepository) GetTopByStreak(ctx context.Context, guildID int64, limit int) ([]*models.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE guild_id = $1 AND check_in_streak > 0
		ORDER BY check_in_streak DESC, user_id
		LIMIT $2
	`

	return r.queryMembers(ctx, query, guildID, limit)
}

func (r *MemberRepository) queryMembers(ctx context.Context, query string, args ...any) ([]*models.Member, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

// CountByGuild returns the number of member records in a guild
func (r *MemberRepository) CountByGuild(ctx context.Context, guildID int64) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM members WHERE guild_id = $1`, guildID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members in guild %d: %w", guildID, err)
	}
	return count, nil
}

// SumBalances returns the total currency held in a guild
func (r *MemberRepository) SumBalances(ctx context.Context, guildID int64) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(balance), 0) FROM members WHERE guild_id = $1`, guildID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum balances in guild %d: %w", guildID, err)
	}
	return total, nil
}

// CountActiveStreaks counts members whose streak survives as of day:
// the last check-in was on that day or the day before
func (r *MemberRepository) CountActiveStreaks(ctx context.Context, guildID int64, day time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM members
		WHERE guild_id = $1
		  AND check_in_streak > 0
		  AND last_check_in >= $2::date - 1
	`

	var count int64
	err := r.q.QueryRow(ctx, query, guildID, day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active streaks in guild %d: %w", guildID, err)
	}
	return count, nil
}

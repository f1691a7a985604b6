package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"rosethorn/database"
	"rosethorn/models"
	"rosethorn/service"
)

// CheckInRepository implements the CheckInRepository interface
type CheckInRepository struct {
	q queryable
}

// NewCheckInRepository creates a new check-in repository
func NewCheckInRepository(db *database.DB) *CheckInRepository {
	return &CheckInRepository{q: db.Pool}
}

// newCheckInRepositoryWithTx creates a new check-in repository with a transaction
func newCheckInRepositoryWithTx(tx queryable) *CheckInRepository {
	return &CheckInRepository{q: tx}
}

const uniqueViolation = "23505"

// Create appends a check-in row. The (guild_id, user_id, day) unique
// constraint is the final arbiter against double claims.
func (r *CheckInRepository) Create(ctx context.Context, checkIn *models.CheckIn) error {
	query := `
		INSERT INTO check_ins (guild_id, user_id, day, streak, reward)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		checkIn.GuildID,
		checkIn.UserID,
		checkIn.Day,
		checkIn.Streak,
		checkIn.Reward,
	).Scan(&checkIn.ID, &checkIn.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return service.ErrAlreadyClaimed
	}
	if err != nil {
		return fmt.Errorf("failed to create check-in for member %d: %w", checkIn.UserID, err)
	}

	return nil
}

// GetByDay retrieves the check-in for a specific UTC date, or nil
func (r *CheckInRepository) GetByDay(ctx context.Context, guildID, userID int64, day time.Time) (*models.CheckIn, error) {
	query := `
		SELECT id, guild_id, user_id, day, streak, reward, created_at
		FROM check_ins
		WHERE guild_id = $1 AND user_id = $2 AND day = $3
	`

	checkIn, err := r.scanCheckIn(r.q.QueryRow(ctx, query, guildID, userID, day))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get check-in for member %d: %w", userID, err)
	}

	return checkIn, nil
}

// GetLatest retrieves the most recent check-in for a member, or nil
func (r *CheckInRepository) GetLatest(ctx context.Context, guildID, userID int64) (*models.CheckIn, error) {
	query := `
		SELECT id, guild_id, user_id, day, streak, reward, created_at
		FROM check_ins
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY day DESC
		LIMIT 1
	`

	checkIn, err := r.scanCheckIn(r.q.QueryRow(ctx, query, guildID, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest check-in for member %d: %w", userID, err)
	}

	return checkIn, nil
}

func (r *CheckInRepository) scanCheckIn(row pgx.Row) (*models.CheckIn, error) {
	var checkIn models.CheckIn
	err := row.Scan(
		&checkIn.ID,
		&checkIn.GuildID,
		&checkIn.UserID,
		&checkIn.Day,
		&checkIn.Streak,
		&checkIn.Reward,
		&checkIn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &checkIn, nil
}

// CountByUser returns the lifetime check-in total for a member
func (r *CheckInRepository) CountByUser(ctx context.Context, guildID, userID int64) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM check_ins WHERE guild_id = $1 AND user_id = $2`,
		guildID, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count check-ins for member %d: %w", userID, err)
	}
	return count, nil
}

// CountByDay returns how many members checked in on a given date
func (r *CheckInRepository) CountByDay(ctx context.Context, guildID int64, day time.Time) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM check_ins WHERE guild_id = $1 AND day = $2`,
		guildID, day,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count check-ins for guild %d: %w", guildID, err)
	}
	return count, nil
}

// TopTotals returns the members with the most lifetime check-ins
func (r *CheckInRepository) TopTotals(ctx context.Context, guildID int64, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT c.user_id, m.username, COUNT(*) AS total
		FROM check_ins c
		JOIN members m ON m.guild_id = c.guild_id AND m.user_id = c.user_id
		WHERE c.guild_id = $1
		GROUP BY c.user_id, m.username
		ORDER BY total DESC, c.user_id
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query check-in totals: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.Username, &entry.Value); err != nil {
			return nil, fmt.Errorf("failed to scan check-in total: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// SumRewardsByDay returns the total rewards paid out on a given date
func (r *CheckInRepository) SumRewardsByDay(ctx context.Context, guildID int64, day time.Time) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(reward), 0) FROM check_ins WHERE guild_id = $1 AND day = $2`,
		guildID, day,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum rewards for guild %d: %w", guildID, err)
	}
	return total, nil
}

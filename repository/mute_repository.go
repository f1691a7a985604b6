package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"rosethorn/database"
	"rosethorn/models"
)

// MuteRepository implements the MuteRepository interface
type MuteRepository struct {
	q queryable
}

// NewMuteRepository creates a new mute repository
func NewMuteRepository(db *database.DB) *MuteRepository {
	return &MuteRepository{q: db.Pool}
}

// newMuteRepositoryWithTx creates a new mute repository with a transaction
func newMuteRepositoryWithTx(tx queryable) *MuteRepository {
	return &MuteRepository{q: tx}
}

// Create appends a mute row
func (r *MuteRepository) Create(ctx context.Context, mute *models.Mute) error {
	query := `
		INSERT INTO mutes (guild_id, user_id, moderator_id, reason, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		mute.GuildID,
		mute.UserID,
		mute.ModeratorID,
		mute.Reason,
		mute.ExpiresAt,
	).Scan(&mute.ID, &mute.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create mute for member %d: %w", mute.UserID, err)
	}

	return nil
}

// GetActiveByUser returns the most recent unlifted mute for a member, or nil
func (r *MuteRepository) GetActiveByUser(ctx context.Context, guildID, userID int64) (*models.Mute, error) {
	query := `
		SELECT id, guild_id, user_id, moderator_id, reason, expires_at, lifted_at, created_at
		FROM mutes
		WHERE guild_id = $1 AND user_id = $2 AND lifted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`

	mute, err := scanMute(r.q.QueryRow(ctx, query, guildID, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active mute for member %d: %w", userID, err)
	}

	return mute, nil
}

// GetExpired returns mutes past their expiry that have not been lifted
func (r *MuteRepository) GetExpired(ctx context.Context, now time.Time) ([]*models.Mute, error) {
	query := `
		SELECT id, guild_id, user_id, moderator_id, reason, expires_at, lifted_at, created_at
		FROM mutes
		WHERE lifted_at IS NULL AND expires_at IS NOT NULL AND expires_at <= $1
		ORDER BY expires_at
	`

	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired mutes: %w", err)
	}
	defer rows.Close()

	var mutes []*models.Mute
	for rows.Next() {
		mute, err := scanMute(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mute: %w", err)
		}
		mutes = append(mutes, mute)
	}

	return mutes, rows.Err()
}

// MarkLifted records that a mute was lifted
func (r *MuteRepository) MarkLifted(ctx context.Context, muteID int64, at time.Time) error {
	query := `
		UPDATE mutes
		SET lifted_at = $1
		WHERE id = $2 AND lifted_at IS NULL
	`

	result, err := r.q.Exec(ctx, query, at, muteID)
	if err != nil {
		return fmt.Errorf("failed to lift mute %d: %w", muteID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("mute %d not found or already lifted", muteID)
	}

	return nil
}

func scanMute(row pgx.Row) (*models.Mute, error) {
	var mute models.Mute
	err := row.Scan(
		&mute.ID,
		&mute.GuildID,
		&mute.UserID,
		&mute.ModeratorID,
		&mute.Reason,
		&mute.ExpiresAt,
		&mute.LiftedAt,
		&mute.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &mute, nil
}

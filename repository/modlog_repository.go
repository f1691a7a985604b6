package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"rosethorn/database"
	"rosethorn/models"
)

// ModLogRepository implements the ModLogRepository interface
type ModLogRepository struct {
	q queryable
}

// NewModLogRepository creates a new mod log repository
func NewModLogRepository(db *database.DB) *ModLogRepository {
	return &ModLogRepository{q: db.Pool}
}

// newModLogRepositoryWithTx creates a new mod log repository with a transaction
func newModLogRepositoryWithTx(tx queryable) *ModLogRepository {
	return &ModLogRepository{q: tx}
}

// Create appends a moderation log entry
func (r *ModLogRepository) Create(ctx context.Context, entry *models.ModLog) error {
	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal mod log metadata: %w", err)
	}

	query := `
		INSERT INTO mod_logs (guild_id, user_id, moderator_id, action, reason, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		entry.GuildID,
		entry.UserID,
		entry.ModeratorID,
		entry.Action,
		entry.Reason,
		metadataJSON,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create mod log for member %d: %w", entry.UserID, err)
	}

	return nil
}

// GetByUser returns moderation history for a member, newest first
func (r *ModLogRepository) GetByUser(ctx context.Context, guildID, userID int64, limit int) ([]*models.ModLog, error) {
	query := `
		SELECT id, guild_id, user_id, moderator_id, action, reason, metadata, created_at
		FROM mod_logs
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, guildID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query mod logs for member %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []*models.ModLog
	for rows.Next() {
		var entry models.ModLog
		var metadataJSON []byte
		err := rows.Scan(
			&entry.ID,
			&entry.GuildID,
			&entry.UserID,
			&entry.ModeratorID,
			&entry.Action,
			&entry.Reason,
			&metadataJSON,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mod log: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal mod log metadata: %w", err)
			}
		}

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

package service

import (
	"context"
	"fmt"

	"rosethorn/events"
	"rosethorn/models"
)

// recordBalanceChange persists a balance history row and publishes the
// matching event on the unit of work's transactional bus, so the event
// only escapes if the transaction commits.
func recordBalanceChange(ctx context.Context, uow UnitOfWork, history *models.BalanceHistory) error {
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance change: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		GuildID:         history.GuildID,
		UserID:          history.UserID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		TransactionType: history.TransactionType,
		ChangeAmount:    history.ChangeAmount,
	})

	return nil
}

// getOrCreateMember fetches a member record inside the given unit of
// work, lazily creating it on first interaction.
func getOrCreateMember(ctx context.Context, uow UnitOfWork, guildID, userID int64, username string, startingBalance int64) (*models.Member, error) {
	member, err := uow.MemberRepository().GetByUser(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing member: %w", err)
	}
	if member != nil {
		return member, nil
	}

	// The (guild_id, user_id) unique constraint prevents duplicates under
	// concurrent creation.
	member, err = uow.MemberRepository().Create(ctx, guildID, userID, username, startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	uow.EventBus().Publish(events.MemberCreatedEvent{
		GuildID:  guildID,
		UserID:   userID,
		Username: username,
	})

	return member, nil
}

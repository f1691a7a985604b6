package service

import (
	"context"
	"fmt"

	"rosethorn/models"
)

// Slots win multipliers, chosen uniformly on a win
var slotsMultipliers = []int{2, 3, 5, 10}

type gamblingService struct {
	uowFactory UnitOfWorkFactory
	rng        Rand
}

// NewGamblingService creates a new gambling service
func NewGamblingService(uowFactory UnitOfWorkFactory, rng Rand) GamblingService {
	return &gamblingService{
		uowFactory: uowFactory,
		rng:        rng,
	}
}

func (s *gamblingService) Gamble(ctx context.Context, guildID, userID int64, wager int64, game models.GambleGame) (*models.GambleResult, error) {
	if wager <= 0 {
		return nil, fmt.Errorf("%w: wager must be positive", ErrInvalidWager)
	}
	if !models.ValidGame(game) {
		return nil, fmt.Errorf("unknown game %q", game)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	member, err := uow.MemberRepository().GetByUser(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	if wager > member.Balance {
		return nil, fmt.Errorf("%w: wager exceeds balance", ErrInvalidWager)
	}

	// The wager is debited unconditionally before the game resolves;
	// winnings are credited afterwards. Net change is payout - wager.
	if err := uow.MemberRepository().DeductBalance(ctx, guildID, userID, wager); err != nil {
		return nil, err
	}

	result := &models.GambleResult{
		Game:  game,
		Wager: wager,
	}

	switch game {
	case models.GameCoinflip:
		result.Won = s.rng.Intn(2) == 0
		if result.Won {
			result.Payout = wager * 2
		}
	case models.GameSlots:
		result.Won = s.rng.Float64() < 0.2
		if result.Won {
			result.Multiplier = slotsMultipliers[s.rng.Intn(len(slotsMultipliers))]
			result.Payout = wager * int64(result.Multiplier)
		}
	case models.GameDice:
		result.DiceRoll = s.rng.Intn(6) + 1
		result.Won = result.DiceRoll >= 4
		if result.Won {
			// 1.5x payout in integer currency: odd wagers round down,
			// so a 7-coin win pays 10
			result.Payout = wager * 3 / 2
		}
	}

	if result.Won {
		if err := uow.MemberRepository().AddBalance(ctx, guildID, userID, result.Payout); err != nil {
			return nil, fmt.Errorf("failed to credit payout: %w", err)
		}
	}

	result.NewBalance = member.Balance - wager + result.Payout

	transactionType := models.TransactionTypeGambleLoss
	if result.Won {
		transactionType = models.TransactionTypeGambleWin
	}
	if err := recordBalanceChange(ctx, uow, &models.BalanceHistory{
		GuildID:         guildID,
		UserID:          userID,
		BalanceBefore:   member.Balance,
		BalanceAfter:    result.NewBalance,
		ChangeAmount:    result.Payout - wager,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"game":   string(game),
			"wager":  wager,
			"payout": result.Payout,
		},
	}); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

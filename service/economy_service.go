package service

import (
	"context"
	"fmt"
	"math"

	"rosethorn/config"
	"rosethorn/events"
	"rosethorn/models"
)

type economyService struct {
	uowFactory UnitOfWorkFactory
	rng        Rand
	clock      Clock
}

// NewEconomyService creates a new economy service. The random source and
// clock are injected so check-in rewards are reproducible in tests.
func NewEconomyService(uowFactory UnitOfWorkFactory, rng Rand, clock Clock) EconomyService {
	return &economyService{
		uowFactory: uowFactory,
		rng:        rng,
		clock:      clock,
	}
}

func (s *economyService) GetOrCreateMember(ctx context.Context, guildID, userID int64, username string) (*models.Member, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	member, err := getOrCreateMember(ctx, uow, guildID, userID, username, config.Get().StartingBalance)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return member, nil
}

func (s *economyService) CheckIn(ctx context.Context, guildID, userID int64, username string) (*models.CheckInResult, error) {
	cfg := config.Get()
	today := UTCDate(s.clock.Now())

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	member, err := getOrCreateMember(ctx, uow, guildID, userID, username, cfg.StartingBalance)
	if err != nil {
		return nil, err
	}

	settings, err := uow.GuildSettingsRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}
	baseReward := settings.DailyReward
	if baseReward <= 0 {
		baseReward = cfg.DailyBaseReward
	}

	existing, err := uow.CheckInRepository().GetByDay(ctx, guildID, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to check today's record: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyClaimed
	}

	// Streak continues only when yesterday has a record; any gap resets
	// to day one.
	yesterday := today.AddDate(0, 0, -1)
	previous, err := uow.CheckInRepository().GetByDay(ctx, guildID, userID, yesterday)
	if err != nil {
		return nil, fmt.Errorf("failed to check yesterday's record: %w", err)
	}

	newStreak := 1
	if previous != nil {
		newStreak = member.CheckInStreak + 1
	} else if member.LastCheckIn != nil && UTCDate(*member.LastCheckIn).Equal(yesterday) {
		// Backstop for members whose check-in rows were purged
		newStreak = member.CheckInStreak + 1
	}

	streakBonus := StreakBonus(baseReward, newStreak)
	subtotal := baseReward + streakBonus

	// Single draw in [1,100]: 5% large bonus, 10% small bonus
	randomBonus := int64(0)
	draw := s.rng.Intn(100) + 1
	switch {
	case draw <= 5:
		randomBonus = int64(math.Round(float64(subtotal) * s.rng.Float64()))
	case draw <= 15:
		randomBonus = int64(math.Round(float64(subtotal) * (0.1 + 0.2*s.rng.Float64())))
	}

	milestoneBonus := MilestoneBonus(newStreak)
	totalReward := subtotal + randomBonus + milestoneBonus

	// The (guild, user, day) unique constraint is the backstop against a
	// concurrent claim: the insert fails with ErrAlreadyClaimed and the
	// transaction rolls back without touching the balance.
	if err := uow.CheckInRepository().Create(ctx, &models.CheckIn{
		GuildID: guildID,
		UserID:  userID,
		Day:     today,
		Streak:  newStreak,
		Reward:  totalReward,
	}); err != nil {
		return nil, err
	}

	if err := uow.MemberRepository().AddBalance(ctx, guildID, userID, totalReward); err != nil {
		return nil, fmt.Errorf("failed to add reward: %w", err)
	}

	if err := uow.MemberRepository().SetCheckInState(ctx, guildID, userID, newStreak, today); err != nil {
		return nil, fmt.Errorf("failed to update streak: %w", err)
	}

	newBalance := member.Balance + totalReward
	if err := recordBalanceChange(ctx, uow, &models.BalanceHistory{
		GuildID:         guildID,
		UserID:          userID,
		BalanceBefore:   member.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    totalReward,
		TransactionType: models.TransactionTypeCheckIn,
		TransactionMetadata: map[string]any{
			"streak":          newStreak,
			"streak_bonus":    streakBonus,
			"random_bonus":    randomBonus,
			"milestone_bonus": milestoneBonus,
		},
	}); err != nil {
		return nil, err
	}

	// Check-in XP and level-up check
	newXP := member.XP + cfg.CheckInXP
	newLevel := LevelForXP(newXP)
	leveledUp := newLevel > member.Level

	if err := uow.MemberRepository().SetProgress(ctx, guildID, userID, newXP, newLevel); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	var levelUpBonus int64
	if leveledUp && settings.LevelUpBonusEnabled {
		levelUpBonus = LevelUpBonus(newLevel)
		if err := uow.MemberRepository().AddBalance(ctx, guildID, userID, levelUpBonus); err != nil {
			return nil, fmt.Errorf("failed to add level-up bonus: %w", err)
		}
		if err := recordBalanceChange(ctx, uow, &models.BalanceHistory{
			GuildID:         guildID,
			UserID:          userID,
			BalanceBefore:   newBalance,
			BalanceAfter:    newBalance + levelUpBonus,
			ChangeAmount:    levelUpBonus,
			TransactionType: models.TransactionTypeLevelUpBonus,
			TransactionMetadata: map[string]any{
				"level": newLevel,
			},
		}); err != nil {
			return nil, err
		}
		newBalance += levelUpBonus
	}

	uow.EventBus().Publish(events.CheckInEvent{
		GuildID: guildID,
		UserID:  userID,
		Streak:  newStreak,
		Reward:  totalReward,
	})
	if leveledUp {
		uow.EventBus().Publish(events.LevelUpEvent{
			GuildID:  guildID,
			UserID:   userID,
			OldLevel: member.Level,
			NewLevel: newLevel,
			Bonus:    levelUpBonus,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.CheckInResult{
		Streak:         newStreak,
		BaseReward:     baseReward,
		StreakBonus:    streakBonus,
		RandomBonus:    randomBonus,
		MilestoneBonus: milestoneBonus,
		TotalReward:    totalReward,
		NewBalance:     newBalance,
		XPGained:       cfg.CheckInXP,
		NewLevel:       newLevel,
		LeveledUp:      leveledUp,
		LevelUpBonus:   levelUpBonus,
	}, nil
}

func (s *economyService) StreakStatus(ctx context.Context, guildID, userID int64) (*StreakStatus, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	latest, err := uow.CheckInRepository().GetLatest(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest check-in: %w", err)
	}

	total, err := uow.CheckInRepository().CountByUser(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count check-ins: %w", err)
	}

	status := &StreakStatus{TotalCheckIns: total}
	if latest == nil {
		return status, nil
	}

	last := latest.Day
	status.LastCheckIn = &last

	today := UTCDate(s.clock.Now())
	gap := int(today.Sub(UTCDate(last)).Hours() / 24)
	switch {
	case gap == 0:
		status.Streak = latest.Streak
		status.ClaimedToday = true
	case gap == 1:
		status.Streak = latest.Streak
	default:
		// Two or more missed days: the streak is gone
		status.StreakBroken = true
	}

	return status, nil
}

func (s *economyService) Transfer(ctx context.Context, guildID, fromUserID, toUserID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: transfer amount must be positive", ErrInvalidTarget)
	}
	if fromUserID == toUserID {
		return fmt.Errorf("%w: cannot transfer to yourself", ErrInvalidTarget)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	fromMember, err := uow.MemberRepository().GetByUser(ctx, guildID, fromUserID)
	if err != nil {
		return fmt.Errorf("failed to get sender: %w", err)
	}
	if fromMember == nil {
		return fmt.Errorf("sender: %w", ErrMemberNotFound)
	}

	toMember, err := uow.MemberRepository().GetByUser(ctx, guildID, toUserID)
	if err != nil {
		return fmt.Errorf("failed to get recipient: %w", err)
	}
	if toMember == nil {
		return fmt.Errorf("recipient: %w", ErrMemberNotFound)
	}

	if err := uow.MemberRepository().DeductBalance(ctx, guildID, fromUserID, amount); err != nil {
		return err
	}
	if err := uow.MemberRepository().AddBalance(ctx, guildID, toUserID, amount); err != nil {
		return fmt.Errorf("failed to credit recipient: %w", err)
	}

	if err := recordBalanceChange(ctx, uow, &models.BalanceHistory{
		GuildID:         guildID,
		UserID:          fromUserID,
		BalanceBefore:   fromMember.Balance,
		BalanceAfter:    fromMember.Balance - amount,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeTransferOut,
		TransactionMetadata: map[string]any{
			"recipient_user_id": toUserID,
			"transfer_amount":   amount,
		},
	}); err != nil {
		return err
	}

	if err := recordBalanceChange(ctx, uow, &models.BalanceHistory{
		GuildID:         guildID,
		UserID:          toUserID,
		BalanceBefore:   toMember.Balance,
		BalanceAfter:    toMember.Balance + amount,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeTransferIn,
		TransactionMetadata: map[string]any{
			"sender_user_id":  fromUserID,
			"transfer_amount": amount,
		},
	}); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *economyService) Award(ctx context.Context, guildID, moderatorID, userID int64, amount int64, reason string) (int64, error) {
	if amount == 0 {
		return 0, fmt.Errorf("%w: amount must be non-zero", ErrInvalidTarget)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	member, err := uow.MemberRepository().GetByUser(ctx, guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return 0, ErrMemberNotFound
	}

	if amount > 0 {
		err = uow.MemberRepository().AddBalance(ctx, guildID, userID, amount)
	} else {
		err = uow.MemberRepository().DeductBalance(ctx, guildID, userID, -amount)
	}
	if err != nil {
		return 0, err
	}

	newBalance := member.Balance + amount
	if err := recordBalanceChange(ctx, uow, &models.BalanceHistory{
		GuildID:         guildID,
		UserID:          userID,
		BalanceBefore:   member.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeAdminAdjust,
		TransactionMetadata: map[string]any{
			"moderator_id": moderatorID,
			"reason":       reason,
		},
	}); err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newBalance, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"rosethorn/models"
)

type statsService struct {
	uowFactory UnitOfWorkFactory
	clock      Clock
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory, clock Clock) StatsService {
	return &statsService{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (s *statsService) BalanceLeaderboard(ctx context.Context, guildID int64, limit int) ([]*models.LeaderboardEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	members, err := uow.MemberRepository().GetTopByBalance(ctx, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top balances: %w", err)
	}

	entries := make([]*models.LeaderboardEntry, 0, len(members))
	for _, m := range members {
		entries = append(entries, &models.LeaderboardEntry{
			UserID:   m.UserID,
			Username: m.Username,
			Value:    m.Balance,
		})
	}
	return entries, nil
}

func (s *statsService) StreakLeaderboard(ctx context.Context, guildID int64, limit int) ([]*models.LeaderboardEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	members, err := uow.MemberRepository().GetTopByStreak(ctx, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top streaks: %w", err)
	}

	entries := make([]*models.LeaderboardEntry, 0, len(members))
	for _, m := range members {
		entries = append(entries, &models.LeaderboardEntry{
			UserID:   m.UserID,
			Username: m.Username,
			Value:    int64(m.CheckInStreak),
		})
	}
	return entries, nil
}

func (s *statsService) CheckInLeaderboard(ctx context.Context, guildID int64, limit int) ([]*models.LeaderboardEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.CheckInRepository().TopTotals(ctx, guildID, limit)
}

func (s *statsService) GuildStats(ctx context.Context, guildID int64) (*models.EconomyStats, error) {
	today := UTCDate(s.clock.Now())

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	memberCount, err := uow.MemberRepository().CountByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	totalCurrency, err := uow.MemberRepository().SumBalances(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum balances: %w", err)
	}

	checkInsToday, err := uow.CheckInRepository().CountByDay(ctx, guildID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to count check-ins: %w", err)
	}

	activeStreaks, err := uow.MemberRepository().CountActiveStreaks(ctx, guildID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to count active streaks: %w", err)
	}

	stats := &models.EconomyStats{
		TotalCurrency: totalCurrency,
		MemberCount:   memberCount,
		CheckInsToday: checkInsToday,
		ActiveStreaks: activeStreaks,
	}
	if memberCount > 0 {
		stats.AverageBalance = totalCurrency / memberCount
	}
	return stats, nil
}

func (s *statsService) DailySummary(ctx context.Context, guildID int64, day time.Time) (int64, int64, error) {
	day = UTCDate(day)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	checkIns, err := uow.CheckInRepository().CountByDay(ctx, guildID, day)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count check-ins: %w", err)
	}

	payout, err := uow.CheckInRepository().SumRewardsByDay(ctx, guildID, day)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sum rewards: %w", err)
	}

	return checkIns, payout, nil
}

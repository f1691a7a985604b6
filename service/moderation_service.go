package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"rosethorn/config"
	"rosethorn/events"
	"rosethorn/models"
)

// AutoMuteDuration is the length of the automatic mute at the middle
// escalation tier
const AutoMuteDuration = time.Hour

type moderationService struct {
	uowFactory UnitOfWorkFactory
	clock      Clock
}

// NewModerationService creates a new moderation service
func NewModerationService(uowFactory UnitOfWorkFactory, clock Clock) ModerationService {
	return &moderationService{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// EscalationTierFor maps a warning count to the action the caller must
// execute. Tiers are mutually exclusive: only the highest applicable
// tier fires.
func EscalationTierFor(count int) models.EscalationTier {
	cfg := config.Get()
	switch {
	case count >= cfg.BanWarningThreshold:
		return models.EscalationBan
	case count >= cfg.MuteWarningThreshold:
		return models.EscalationMute
	}
	return models.EscalationNone
}

func (s *moderationService) Warn(ctx context.Context, guildID, userID, moderatorID int64, reason string) (*models.WarnResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := getOrCreateMember(ctx, uow, guildID, userID, "", config.Get().StartingBalance); err != nil {
		return nil, err
	}

	warning := &models.Warning{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		Active:      true,
	}
	if err := uow.WarningRepository().Create(ctx, warning); err != nil {
		return nil, fmt.Errorf("failed to create warning: %w", err)
	}

	count, err := uow.MemberRepository().IncrementWarningCount(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment warning count: %w", err)
	}

	if err := uow.ModLogRepository().Create(ctx, &models.ModLog{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Action:      models.ModLogActionWarn,
		Reason:      reason,
		Metadata: map[string]any{
			"warning_count": count,
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to write mod log: %w", err)
	}

	tier := EscalationTierFor(count)
	uow.EventBus().Publish(events.WarningIssuedEvent{
		GuildID:      guildID,
		UserID:       userID,
		ModeratorID:  moderatorID,
		WarningCount: count,
		Tier:         tier,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	result := &models.WarnResult{
		Warning:      warning,
		WarningCount: count,
		Tier:         tier,
	}
	if tier == models.EscalationMute {
		result.MuteDuration = AutoMuteDuration
	}
	return result, nil
}

func (s *moderationService) Warnings(ctx context.Context, guildID, userID int64) ([]*models.Warning, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.WarningRepository().GetActiveByUser(ctx, guildID, userID)
}

func (s *moderationService) Mute(ctx context.Context, guildID, userID, moderatorID int64, duration time.Duration, reason string) (*models.Mute, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	mute := &models.Mute{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Reason:      reason,
	}
	if duration > 0 {
		expires := s.clock.Now().Add(duration)
		mute.ExpiresAt = &expires
	}

	if err := uow.MuteRepository().Create(ctx, mute); err != nil {
		return nil, fmt.Errorf("failed to create mute: %w", err)
	}

	metadata := map[string]any{}
	if mute.ExpiresAt != nil {
		metadata["expires_at"] = mute.ExpiresAt.Format(time.RFC3339)
	}
	if err := uow.ModLogRepository().Create(ctx, &models.ModLog{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Action:      models.ModLogActionMute,
		Reason:      reason,
		Metadata:    metadata,
	}); err != nil {
		return nil, fmt.Errorf("failed to write mod log: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return mute, nil
}

func (s *moderationService) Unmute(ctx context.Context, guildID, userID, moderatorID int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	mute, err := uow.MuteRepository().GetActiveByUser(ctx, guildID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to get active mute: %w", err)
	}
	if mute == nil {
		return false, nil
	}

	if err := uow.MuteRepository().MarkLifted(ctx, mute.ID, s.clock.Now()); err != nil {
		return false, fmt.Errorf("failed to lift mute: %w", err)
	}

	if err := uow.ModLogRepository().Create(ctx, &models.ModLog{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Action:      models.ModLogActionUnmute,
	}); err != nil {
		return false, fmt.Errorf("failed to write mod log: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, nil
}

func (s *moderationService) RecordAction(ctx context.Context, entry *models.ModLog) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ModLogRepository().Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to write mod log: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *moderationService) LiftExpiredMutes(ctx context.Context) ([]*models.Mute, error) {
	now := s.clock.Now()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	expired, err := uow.MuteRepository().GetExpired(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get expired mutes: %w", err)
	}

	for _, mute := range expired {
		if err := uow.MuteRepository().MarkLifted(ctx, mute.ID, now); err != nil {
			return nil, fmt.Errorf("failed to lift mute %d: %w", mute.ID, err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return expired, nil
}

var durationPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseDuration parses moderator duration strings like "30m", "1h" or
// "2d". An empty string means indefinite and parses to zero.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	match := durationPattern.FindStringSubmatch(s)
	if match == nil {
		return 0, fmt.Errorf("invalid duration %q (expected forms: 30s, 15m, 1h, 2d)", s)
	}

	amount, err := strconv.Atoi(match[1])
	if err != nil || amount <= 0 {
		return 0, fmt.Errorf("invalid duration amount %q", match[1])
	}

	switch match[2] {
	case "s":
		return time.Duration(amount) * time.Second, nil
	case "m":
		return time.Duration(amount) * time.Minute, nil
	case "h":
		return time.Duration(amount) * time.Hour, nil
	default:
		return time.Duration(amount) * 24 * time.Hour, nil
	}
}

package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"rosethorn/service"
)

// Workers runs the bot's scheduled background jobs: the mute expiry
// sweep and the nightly check-in summary.
type Workers struct {
	cron              *cron.Cron
	bot               *Bot
	moderationService service.ModerationService
	statsService      service.StatsService
}

func NewWorkers(bot *Bot, moderationService service.ModerationService, statsService service.StatsService) *Workers {
	return &Workers{
		cron:              cron.New(),
		bot:               bot,
		moderationService: moderationService,
		statsService:      statsService,
	}
}

// Start schedules the background jobs and starts the scheduler
func (w *Workers) Start() error {
	if _, err := w.cron.AddFunc("* * * * *", w.sweepExpiredMutes); err != nil {
		return fmt.Errorf("failed to schedule mute sweep: %w", err)
	}
	if _, err := w.cron.AddFunc("5 0 * * *", w.postDailySummary); err != nil {
		return fmt.Errorf("failed to schedule daily summary: %w", err)
	}
	w.cron.Start()
	log.Info("Background workers started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (w *Workers) Stop() {
	<-w.cron.Stop().Done()
}

// sweepExpiredMutes lifts mutes whose expiry has passed and clears the
// matching Discord timeouts
func (w *Workers) sweepExpiredMutes() {
	ctx := context.Background()
	executor := w.bot.Executor()

	lifted, err := w.moderationService.LiftExpiredMutes(ctx)
	if err != nil {
		log.Errorf("Failed to lift expired mutes: %v", err)
		return
	}

	for _, mute := range lifted {
		guildID := strconv.FormatInt(mute.GuildID, 10)
		userID := strconv.FormatInt(mute.UserID, 10)
		if err := executor.ClearTimeout(guildID, userID); err != nil {
			log.Errorf("Failed to clear timeout for member %s: %v", userID, err)
			continue
		}
		log.Infof("Lifted expired mute for member %s in guild %s", userID, guildID)
	}
}

// postDailySummary posts yesterday's check-in totals to the configured
// log channel shortly after midnight UTC
func (w *Workers) postDailySummary() {
	if w.bot.config.GuildID == "" {
		return
	}
	guildID, err := strconv.ParseInt(w.bot.config.GuildID, 10, 64)
	if err != nil {
		log.Errorf("Invalid guild ID %q: %v", w.bot.config.GuildID, err)
		return
	}

	ctx := context.Background()
	yesterday := time.Now().UTC().AddDate(0, 0, -1)

	checkIns, payout, err := w.statsService.DailySummary(ctx, guildID, yesterday)
	if err != nil {
		log.Errorf("Failed to build daily summary for guild %d: %v", guildID, err)
		return
	}
	if checkIns == 0 {
		return
	}

	message := fmt.Sprintf("🌅 Yesterday: **%d** check-ins paid out **%d** in rewards.", checkIns, payout)
	w.bot.postToLogChannel(ctx, guildID, message)
}

package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"rosethorn/bot/features/checkin"
	"rosethorn/bot/features/economy"
	"rosethorn/bot/features/gambling"
	"rosethorn/bot/features/moderation"
	"rosethorn/bot/features/settings"
	"rosethorn/bot/features/shop"
	"rosethorn/bot/features/stats"
	"rosethorn/events"
	"rosethorn/service"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
}

type Bot struct {
	config          Config
	session         *discordgo.Session
	settingsService service.GuildSettingsService
	eventBus        *events.Bus
	executor        *moderation.Executor

	checkinFeature    *checkin.Feature
	economyFeature    *economy.Feature
	gamblingFeature   *gambling.Feature
	shopFeature       *shop.Feature
	moderationFeature *moderation.Feature
	statsFeature      *stats.Feature
	settingsFeature   *settings.Feature
}

func New(
	config Config,
	economyService service.EconomyService,
	gamblingService service.GamblingService,
	shopService service.ShopService,
	moderationService service.ModerationService,
	statsService service.StatsService,
	settingsService service.GuildSettingsService,
	eventBus *events.Bus,
) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAllWithoutPrivileged | discordgo.IntentsGuildMembers

	executor := moderation.NewExecutor(dg)

	bot := &Bot{
		config:          config,
		session:         dg,
		settingsService: settingsService,
		eventBus:        eventBus,
		executor:        executor,

		checkinFeature:    checkin.New(economyService, settingsService),
		economyFeature:    economy.New(economyService, settingsService),
		gamblingFeature:   gambling.New(gamblingService, economyService, settingsService),
		shopFeature:       shop.New(shopService, economyService, settingsService),
		moderationFeature: moderation.New(moderationService, settingsService, executor),
		statsFeature:      stats.New(statsService, settingsService),
		settingsFeature:   settings.New(settingsService),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	bot.subscribeLogEvents()

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// Executor exposes the Discord-side moderation executor for workers that
// need to clear timeouts outside a command flow
func (b *Bot) Executor() *moderation.Executor {
	return b.executor
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "checkin":
		b.checkinFeature.HandleCheckIn(s, i)
	case "streak":
		b.checkinFeature.HandleStreak(s, i)
	case "balance":
		b.economyFeature.HandleBalance(s, i)
	case "give":
		b.economyFeature.HandleGive(s, i)
	case "award":
		b.economyFeature.HandleAward(s, i)
	case "gamble":
		b.gamblingFeature.HandleCommand(s, i)
	case "shop":
		b.shopFeature.HandleCommand(s, i)
	case "inventory":
		b.shopFeature.HandleInventory(s, i)
	case "warn":
		b.moderationFeature.HandleWarn(s, i)
	case "warnings":
		b.moderationFeature.HandleWarnings(s, i)
	case "mute":
		b.moderationFeature.HandleMute(s, i)
	case "unmute":
		b.moderationFeature.HandleUnmute(s, i)
	case "ban":
		b.moderationFeature.HandleBan(s, i)
	case "leaderboard":
		b.statsFeature.HandleLeaderboard(s, i)
	case "serverstats":
		b.statsFeature.HandleServerStats(s, i)
	case "settings":
		b.settingsFeature.HandleCommand(s, i)
	}
}

// subscribeLogEvents posts notable domain events to the guild's
// configured log channel
func (b *Bot) subscribeLogEvents() {
	b.eventBus.Subscribe(events.EventTypeLevelUp, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.LevelUpEvent)
		if !ok {
			return
		}
		message := fmt.Sprintf("🎉 <@%d> reached **level %d**!", e.UserID, e.NewLevel)
		if e.Bonus > 0 {
			message += fmt.Sprintf(" They earned a bonus of %d.", e.Bonus)
		}
		b.postToLogChannel(ctx, e.GuildID, message)
	})

	b.eventBus.Subscribe(events.EventTypeWarningIssued, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.WarningIssuedEvent)
		if !ok {
			return
		}
		message := fmt.Sprintf("⚠️ <@%d> was warned by <@%d> (warning #%d).", e.UserID, e.ModeratorID, e.WarningCount)
		b.postToLogChannel(ctx, e.GuildID, message)
	})
}

func (b *Bot) postToLogChannel(ctx context.Context, guildID int64, message string) {
	guildSettings, err := b.settingsService.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		log.Errorf("Failed to load settings for guild %d: %v", guildID, err)
		return
	}
	if guildSettings.LogChannelID == nil {
		return
	}

	channelID := strconv.FormatInt(*guildSettings.LogChannelID, 10)
	if _, err := b.session.ChannelMessageSend(channelID, message); err != nil {
		log.Errorf("Failed to post to log channel %s: %v", channelID, err)
	}
}

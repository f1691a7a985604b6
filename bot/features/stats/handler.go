package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"rosethorn/bot/common"
	"rosethorn/models"
)

const leaderboardSize = 10

var medals = []string{"🥇", "🥈", "🥉"}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	settings, err := f.settingsService.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		log.Errorf("Error loading settings for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to load the leaderboard. Please try again.")
		return
	}

	var (
		entries []*models.LeaderboardEntry
		title   string
		format  func(*models.LeaderboardEntry) string
	)
	switch options[0].Name {
	case "balance":
		entries, err = f.statsService.BalanceLeaderboard(ctx, guildID, leaderboardSize)
		title = fmt.Sprintf("Richest in %s", settings.CurrencyName)
		format = func(e *models.LeaderboardEntry) string {
			return common.FormatCurrency(e.Value, settings.CurrencySymbol)
		}
	case "streak":
		entries, err = f.statsService.StreakLeaderboard(ctx, guildID, leaderboardSize)
		title = "Longest Streaks"
		format = func(e *models.LeaderboardEntry) string {
			return fmt.Sprintf("%d day streak", e.Value)
		}
	case "checkins":
		entries, err = f.statsService.CheckInLeaderboard(ctx, guildID, leaderboardSize)
		title = "Most Check-ins"
		format = func(e *models.LeaderboardEntry) string {
			return fmt.Sprintf("%d check-ins", e.Value)
		}
	default:
		return
	}
	if err != nil {
		log.Errorf("Error loading %s leaderboard for guild %d: %v", options[0].Name, guildID, err)
		common.RespondWithError(s, i, "Unable to load the leaderboard. Please try again.")
		return
	}

	if len(entries) == 0 {
		common.RespondWithContent(s, i, "Nothing to rank yet. Start with `/checkin`!", true)
		return
	}

	var lines []string
	for n, entry := range entries {
		rank := fmt.Sprintf("**%d.**", n+1)
		if n < len(medals) {
			rank = medals[n]
		}
		lines = append(lines, fmt.Sprintf("%s <@%d> — %s", rank, entry.UserID, format(entry)))
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Color:       0xF1C40F,
		Description: strings.Join(lines, "\n"),
	}
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to leaderboard command: %v", err)
	}
}

func (f *Feature) handleServerStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	stats, err := f.statsService.GuildStats(ctx, guildID)
	if err != nil {
		log.Errorf("Error loading stats for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to load server stats. Please try again.")
		return
	}

	settings, err := f.settingsService.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		log.Errorf("Error loading settings for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to load server stats. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "Server Stats",
		Color: 0x3498DB,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Members", Value: common.FormatBalance(stats.MemberCount), Inline: true},
			{Name: fmt.Sprintf("Total %s", settings.CurrencyName), Value: common.FormatCurrency(stats.TotalCurrency, settings.CurrencySymbol), Inline: true},
			{Name: "Average Balance", Value: common.FormatCurrency(stats.AverageBalance, settings.CurrencySymbol), Inline: true},
			{Name: "Check-ins Today", Value: common.FormatBalance(stats.CheckInsToday), Inline: true},
			{Name: "Active Streaks", Value: common.FormatBalance(stats.ActiveStreaks), Inline: true},
		},
	}
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to serverstats command: %v", err)
	}
}

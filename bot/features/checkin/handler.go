package checkin

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"rosethorn/bot/common"
	"rosethorn/service"
)

func (f *Feature) handleCheckIn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	user := common.InteractionUser(i)
	userID, err := common.ParseSnowflake(user.ID)
	if err != nil {
		log.Errorf("Error parsing user ID %s: %v", user.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.economyService.CheckIn(ctx, guildID, userID, user.Username)
	if errors.Is(err, service.ErrAlreadyClaimed) {
		common.RespondWithError(s, i, "You already checked in today. Come back tomorrow!")
		return
	}
	if err != nil {
		log.Errorf("Error checking in user %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to check in. Please try again.")
		return
	}

	settings, err := f.settingsService.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		log.Errorf("Error loading settings for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to check in. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "Daily Check-In",
		Color: 0xE91E63,
		Description: fmt.Sprintf("🔥 **Day %d** of your streak! You earned **%s**.",
			result.Streak, common.FormatCurrency(result.TotalReward, settings.CurrencySymbol)),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Base", Value: common.FormatBalance(result.BaseReward), Inline: true},
			{Name: "Streak bonus", Value: common.FormatBalance(result.StreakBonus), Inline: true},
		},
	}
	if result.RandomBonus > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Lucky bonus 🍀", Value: common.FormatBalance(result.RandomBonus), Inline: true,
		})
	}
	if result.MilestoneBonus > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Milestone 🏆", Value: common.FormatBalance(result.MilestoneBonus), Inline: true,
		})
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "New balance", Value: common.FormatCurrency(result.NewBalance, settings.CurrencySymbol),
	})

	if result.LeveledUp {
		msg := fmt.Sprintf("⭐ You reached **level %d**!", result.NewLevel)
		if result.LevelUpBonus > 0 {
			msg += fmt.Sprintf(" Bonus: **%s**", common.FormatCurrency(result.LevelUpBonus, settings.CurrencySymbol))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Level up!", Value: msg})
	}

	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to checkin command: %v", err)
	}
}

func (f *Feature) handleStreak(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	user := common.InteractionUser(i)
	userID, err := common.ParseSnowflake(user.ID)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	status, err := f.economyService.StreakStatus(ctx, guildID, userID)
	if err != nil {
		log.Errorf("Error getting streak for user %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to retrieve your streak. Please try again.")
		return
	}

	var description string
	switch {
	case status.TotalCheckIns == 0:
		description = "You haven't checked in yet. Run `/checkin` to start your streak!"
	case status.StreakBroken:
		description = "💔 Your streak is broken. Run `/checkin` to start a new one."
	case status.ClaimedToday:
		description = fmt.Sprintf("🔥 **Day %d** — today is claimed. See you tomorrow!", status.Streak)
	default:
		description = fmt.Sprintf("🔥 **Day %d** — you haven't claimed today yet. Run `/checkin`!", status.Streak)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Check-In Streak",
		Color:       0xE91E63,
		Description: description,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Lifetime check-ins", Value: fmt.Sprintf("%d", status.TotalCheckIns), Inline: true},
		},
	}
	if status.LastCheckIn != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Last check-in", Value: common.FormatDiscordTimestamp(*status.LastCheckIn, "d"), Inline: true,
		})
	}

	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Error responding to streak command: %v", err)
	}
}

package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"rosethorn/bot/common"
	"rosethorn/service"
)

// adminGuildID resolves the guild after gating on Manage Server
func adminGuildID(s *discordgo.Session, i *discordgo.InteractionCreate) (int64, bool) {
	if !common.HasManageGuild(i) {
		common.RespondWithError(s, i, "You need the Manage Server permission to change settings.")
		return 0, false
	}
	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return 0, false
	}
	return guildID, true
}

func (f *Feature) handleShow(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, ok := adminGuildID(s, i)
	if !ok {
		return
	}

	settings, err := f.settingsService.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		log.Errorf("Error loading settings for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to load settings. Please try again.")
		return
	}

	levelBonus := "disabled"
	if settings.LevelUpBonusEnabled {
		levelBonus = "enabled"
	}
	logChannel := "not set"
	if settings.LogChannelID != nil {
		logChannel = fmt.Sprintf("<#%d>", *settings.LogChannelID)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Server Settings",
		Color: 0x95A5A6,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Currency", Value: fmt.Sprintf("%s (%s)", settings.CurrencyName, settings.CurrencySymbol), Inline: true},
			{Name: "Daily Reward", Value: common.FormatBalance(settings.DailyReward), Inline: true},
			{Name: "Level-up Bonus", Value: levelBonus, Inline: true},
			{Name: "Log Channel", Value: logChannel, Inline: true},
		},
	}
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Error responding to settings show: %v", err)
	}
}

func (f *Feature) handleCurrency(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, ok := adminGuildID(s, i)
	if !ok {
		return
	}

	var name, symbol string
	for _, opt := range options {
		switch opt.Name {
		case "name":
			name = opt.StringValue()
		case "symbol":
			symbol = opt.StringValue()
		}
	}

	if err := f.settingsService.UpdateCurrency(ctx, guildID, name, symbol); err != nil {
		if errors.Is(err, service.ErrInvalidTarget) {
			common.RespondWithError(s, i, "The currency name must not be empty.")
			return
		}
		log.Errorf("Error updating currency for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to update settings. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("currency renamed to **%s**.", name), true); err != nil {
		log.Errorf("Error responding to settings currency: %v", err)
	}
}

func (f *Feature) handleDailyReward(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, ok := adminGuildID(s, i)
	if !ok {
		return
	}

	var amount int64
	for _, opt := range options {
		if opt.Name == "amount" {
			amount = opt.IntValue()
		}
	}

	if err := f.settingsService.UpdateDailyReward(ctx, guildID, amount); err != nil {
		if errors.Is(err, service.ErrInvalidTarget) {
			common.RespondWithError(s, i, "The daily reward must be positive.")
			return
		}
		log.Errorf("Error updating daily reward for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to update settings. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("daily reward set to **%s**.", common.FormatBalance(amount)), true); err != nil {
		log.Errorf("Error responding to settings dailyreward: %v", err)
	}
}

func (f *Feature) handleLevelBonus(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, ok := adminGuildID(s, i)
	if !ok {
		return
	}

	var enabled bool
	for _, opt := range options {
		if opt.Name == "enabled" {
			enabled = opt.BoolValue()
		}
	}

	if err := f.settingsService.UpdateLevelUpBonus(ctx, guildID, enabled); err != nil {
		log.Errorf("Error updating level-up bonus for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to update settings. Please try again.")
		return
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("level-up bonus **%s**.", state), true); err != nil {
		log.Errorf("Error responding to settings levelbonus: %v", err)
	}
}

func (f *Feature) handleLogChannel(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, ok := adminGuildID(s, i)
	if !ok {
		return
	}

	var channelID *int64
	for _, opt := range options {
		if opt.Name == "channel" {
			channel := opt.ChannelValue(s)
			if channel != nil {
				id, err := common.ParseSnowflake(channel.ID)
				if err != nil {
					common.RespondWithError(s, i, "Unable to process request. Please try again.")
					return
				}
				channelID = &id
			}
		}
	}

	if err := f.settingsService.UpdateLogChannel(ctx, guildID, channelID); err != nil {
		log.Errorf("Error updating log channel for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to update settings. Please try again.")
		return
	}

	message := "log channel cleared."
	if channelID != nil {
		message = fmt.Sprintf("log channel set to <#%d>.", *channelID)
	}
	if err := common.RespondWithSuccess(s, i, message, true); err != nil {
		log.Errorf("Error responding to settings logchannel: %v", err)
	}
}

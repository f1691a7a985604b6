package economy

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"rosethorn/bot/common"
	"rosethorn/service"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	member, err := f.economyService.GetOrCreateMember(ctx, guildID, userID, user.Username)
	if err != nil {
		log.Errorf("Error getting member %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	settings, err := f.settingsService.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		log.Errorf("Error loading settings for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, user.ID)
	message := fmt.Sprintf("%s, your balance: **%s** · level %d (%d XP)",
		displayName, common.FormatCurrency(member.Balance, settings.CurrencySymbol), member.Level, member.XP)

	if err := common.RespondWithContent(s, i, message, false); err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}

func (f *Feature) handleGive(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := i.ApplicationCommandData().Options

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	user := common.InteractionUser(i)
	fromUserID, err := common.ParseSnowflake(user.ID)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var amount int64
	var recipient *discordgo.User
	for _, opt := range options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			recipient = opt.UserValue(s)
		}
	}
	if recipient == nil {
		common.RespondWithError(s, i, "You must choose a recipient.")
		return
	}
	if recipient.Bot {
		common.RespondWithError(s, i, "Bots can't hold currency.")
		return
	}

	toUserID, err := common.ParseSnowflake(recipient.ID)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// Recipient record must exist before the transfer can credit it
	if _, err := f.economyService.GetOrCreateMember(ctx, guildID, toUserID, recipient.Username); err != nil {
		log.Errorf("Error creating recipient %d: %v", toUserID, err)
		common.RespondWithError(s, i, "Unable to complete the transfer. Please try again.")
		return
	}

	err = f.economyService.Transfer(ctx, guildID, fromUserID, toUserID, amount)
	switch {
	case errors.Is(err, service.ErrInvalidTarget):
		common.RespondWithError(s, i, "Invalid transfer: pick someone else and a positive amount.")
		return
	case errors.Is(err, service.ErrInsufficientFunds):
		common.RespondWithError(s, i, "You don't have enough to send that.")
		return
	case errors.Is(err, service.ErrMemberNotFound):
		common.RespondWithError(s, i, "Check in first to open your account.")
		return
	case err != nil:
		log.Errorf("Error transferring %d from %d to %d: %v", amount, fromUserID, toUserID, err)
		common.RespondWithError(s, i, "Unable to complete the transfer. Please try again.")
		return
	}

	settings, err := f.settingsService.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		log.Errorf("Error loading settings for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Transfer sent.")
		return
	}

	message := fmt.Sprintf("sent **%s** to <@%s>", common.FormatCurrency(amount, settings.CurrencySymbol), recipient.ID)
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to give command: %v", err)
	}
}

func (f *Feature) handleAward(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if !common.HasManageGuild(i) {
		common.RespondWithError(s, i, "You need the Manage Server permission to award currency.")
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	moderatorID, err := common.ParseSnowflake(common.InteractionUser(i).ID)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var amount int64
	var target *discordgo.User
	var reason string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			target = opt.UserValue(s)
		case "reason":
			reason = opt.StringValue()
		}
	}
	if target == nil {
		common.RespondWithError(s, i, "You must choose a member.")
		return
	}

	targetID, err := common.ParseSnowflake(target.ID)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if _, err := f.economyService.GetOrCreateMember(ctx, guildID, targetID, target.Username); err != nil {
		log.Errorf("Error creating member %d: %v", targetID, err)
		common.RespondWithError(s, i, "Unable to adjust the balance. Please try again.")
		return
	}

	newBalance, err := f.economyService.Award(ctx, guildID, moderatorID, targetID, amount, reason)
	switch {
	case errors.Is(err, service.ErrInvalidTarget):
		common.RespondWithError(s, i, "The amount must be non-zero.")
		return
	case errors.Is(err, service.ErrInsufficientFunds):
		common.RespondWithError(s, i, "That would take the member below zero.")
		return
	case err != nil:
		log.Errorf("Error awarding %d to member %d: %v", amount, targetID, err)
		common.RespondWithError(s, i, "Unable to adjust the balance. Please try again.")
		return
	}

	var message string
	if amount > 0 {
		message = fmt.Sprintf("Awarded **%s** to <@%s>. New balance: **%s**",
			common.FormatBalance(amount), target.ID, common.FormatBalance(newBalance))
	} else {
		message = fmt.Sprintf("Removed **%s** from <@%s>. New balance: **%s**",
			common.FormatBalance(-amount), target.ID, common.FormatBalance(newBalance))
	}
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to award command: %v", err)
	}
}

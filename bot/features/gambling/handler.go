package gambling

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"rosethorn/bot/common"
	"rosethorn/models"
	"rosethorn/service"
)

func (f *Feature) handleGamble(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	var game models.GambleGame
	var wager int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "game":
			game = models.GambleGame(opt.StringValue())
		case "wager":
			wager = opt.IntValue()
		}
	}

	// A member record must exist so the wager has a balance to debit
	if _, err := f.economyService.GetOrCreateMember(ctx, guildID, userID, user.Username); err != nil {
		log.Errorf("Error creating member %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to place your wager. Please try again.")
		return
	}

	result, err := f.gamblingService.Gamble(ctx, guildID, userID, wager, game)
	switch {
	case errors.Is(err, service.ErrInvalidWager):
		common.RespondWithError(s, i, "Invalid wager: it must be positive and within your balance.")
		return
	case errors.Is(err, service.ErrMemberNotFound):
		common.RespondWithError(s, i, "Check in first to open your account.")
		return
	case err != nil:
		log.Errorf("Error gambling for member %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to place your wager. Please try again.")
		return
	}

	settings, err := f.settingsService.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		log.Errorf("Error loading settings for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to place your wager. Please try again.")
		return
	}

	embed := buildResultEmbed(result, settings.CurrencySymbol)
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to gamble command: %v", err)
	}
}

func buildResultEmbed(result *models.GambleResult, symbol string) *discordgo.MessageEmbed {
	var detail string
	switch result.Game {
	case models.GameCoinflip:
		if result.Won {
			detail = "🪙 The coin landed your way!"
		} else {
			detail = "🪙 The coin betrayed you."
		}
	case models.GameSlots:
		if result.Won {
			detail = fmt.Sprintf("🎰 Jackpot! **%dx** multiplier!", result.Multiplier)
		} else {
			detail = "🎰 No match. The reels show no mercy."
		}
	case models.GameDice:
		detail = fmt.Sprintf("🎲 You rolled a **%d**.", result.DiceRoll)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Gamble",
		Description: detail,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Wager", Value: common.FormatCurrency(result.Wager, symbol), Inline: true},
		},
	}

	if result.Won {
		embed.Color = 0x2ECC71
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Payout", Value: common.FormatCurrency(result.Payout, symbol), Inline: true},
			&discordgo.MessageEmbedField{Name: "Net", Value: "+" + common.FormatBalance(result.Net()), Inline: true},
		)
	} else {
		embed.Color = 0xE74C3C
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Net", Value: common.FormatBalance(result.Net()), Inline: true},
		)
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "New balance", Value: common.FormatCurrency(result.NewBalance, symbol),
	})

	return embed
}

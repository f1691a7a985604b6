package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"rosethorn/bot/common"
	"rosethorn/models"
	"rosethorn/service"
)

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	items, err := f.shopService.ListItems(ctx, guildID)
	if err != nil {
		log.Errorf("Error listing shop items for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to load the shop. Please try again.")
		return
	}

	settings, err := f.settingsService.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		log.Errorf("Error loading settings for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to load the shop. Please try again.")
		return
	}

	if len(items) == 0 {
		common.RespondWithContent(s, i, "The shop is empty. Admins can stock it with `/shop add`.", true)
		return
	}

	var lines []string
	for _, item := range items {
		stock := "∞"
		if item.Stock != models.UnlimitedStock {
			stock = fmt.Sprintf("%d left", item.Stock)
		}
		line := fmt.Sprintf("**%s** — %s · %s · %s",
			item.Name, common.FormatCurrency(item.Price, settings.CurrencySymbol), item.Rarity, stock)
		if item.Description != "" {
			line += "\n  " + item.Description
		}
		lines = append(lines, line)
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s Shop", settings.CurrencyName),
		Color:       0x9B59B6,
		Description: strings.Join(lines, "\n"),
	}
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to shop list: %v", err)
	}
}

func (f *Feature) handleBuy(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
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

	var itemName string
	quantity := 1
	for _, opt := range options {
		switch opt.Name {
		case "item":
			itemName = opt.StringValue()
		case "quantity":
			quantity = int(opt.IntValue())
		}
	}

	if _, err := f.economyService.GetOrCreateMember(ctx, guildID, userID, user.Username); err != nil {
		log.Errorf("Error creating member %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to complete the purchase. Please try again.")
		return
	}

	result, err := f.shopService.Purchase(ctx, guildID, userID, itemName, quantity)
	switch {
	case errors.Is(err, service.ErrItemUnavailable):
		common.RespondWithError(s, i, "That item isn't in the shop.")
		return
	case errors.Is(err, service.ErrOutOfStock):
		common.RespondWithError(s, i, "Not enough stock left.")
		return
	case errors.Is(err, service.ErrInsufficientFunds):
		common.RespondWithError(s, i, "You can't afford that.")
		return
	case errors.Is(err, service.ErrInvalidTarget):
		common.RespondWithError(s, i, "The quantity must be positive.")
		return
	case err != nil:
		log.Errorf("Error purchasing %q for member %d: %v", itemName, userID, err)
		common.RespondWithError(s, i, "Unable to complete the purchase. Please try again.")
		return
	}

	settings, err := f.settingsService.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		log.Errorf("Error loading settings for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to complete the purchase. Please try again.")
		return
	}

	message := fmt.Sprintf("bought **%d× %s** for **%s**. New balance: **%s**",
		result.Quantity, result.Item.Name,
		common.FormatCurrency(result.TotalCost, settings.CurrencySymbol),
		common.FormatCurrency(result.NewBalance, settings.CurrencySymbol))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to shop buy: %v", err)
	}
}

func (f *Feature) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	if !common.HasManageGuild(i) {
		common.RespondWithError(s, i, "You need the Manage Server permission to stock the shop.")
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	item := &models.ShopItem{
		GuildID:     guildID,
		Rarity:      models.RarityCommon,
		Stock:       models.UnlimitedStock,
		Purchasable: true,
	}
	for _, opt := range options {
		switch opt.Name {
		case "name":
			item.Name = opt.StringValue()
		case "price":
			item.Price = opt.IntValue()
		case "description":
			item.Description = opt.StringValue()
		case "rarity":
			item.Rarity = models.ItemRarity(opt.StringValue())
		case "stock":
			item.Stock = int(opt.IntValue())
		}
	}

	if err := f.shopService.AddItem(ctx, item); err != nil {
		if errors.Is(err, service.ErrInvalidTarget) {
			common.RespondWithError(s, i, "Invalid item: check the price and stock values.")
			return
		}
		log.Errorf("Error adding shop item %q: %v", item.Name, err)
		common.RespondWithError(s, i, "Unable to add the item. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("added **%s** to the shop.", item.Name), false); err != nil {
		log.Errorf("Error responding to shop add: %v", err)
	}
}

func (f *Feature) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	if !common.HasManageGuild(i) {
		common.RespondWithError(s, i, "You need the Manage Server permission to manage the shop.")
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var itemID int64
	for _, opt := range options {
		if opt.Name == "id" {
			itemID = opt.IntValue()
		}
	}

	if err := f.shopService.RemoveItem(ctx, guildID, itemID); err != nil {
		if errors.Is(err, service.ErrItemUnavailable) {
			common.RespondWithError(s, i, "No item with that ID.")
			return
		}
		log.Errorf("Error removing shop item %d: %v", itemID, err)
		common.RespondWithError(s, i, "Unable to remove the item. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, "item removed from the shop.", false); err != nil {
		log.Errorf("Error responding to shop remove: %v", err)
	}
}

func (f *Feature) handleInventory(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	entries, err := f.shopService.Inventory(ctx, guildID, userID)
	if err != nil {
		log.Errorf("Error loading inventory for member %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to load your inventory. Please try again.")
		return
	}

	if len(entries) == 0 {
		common.RespondWithContent(s, i, "Your inventory is empty. Browse `/shop list`!", true)
		return
	}

	var lines []string
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf("**%d× %s** · %s", entry.Quantity, entry.Item.Name, entry.Item.Rarity))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Inventory",
		Color:       0x9B59B6,
		Description: strings.Join(lines, "\n"),
	}
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Error responding to inventory command: %v", err)
	}
}

package shop

import (
	"github.com/bwmarrin/discordgo"

	"rosethorn/service"
)

type Feature struct {
	shopService     service.ShopService
	economyService  service.EconomyService
	settingsService service.GuildSettingsService
}

func New(shopService service.ShopService, economyService service.EconomyService, settingsService service.GuildSettingsService) *Feature {
	return &Feature{
		shopService:     shopService,
		economyService:  economyService,
		settingsService: settingsService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "list":
		f.handleList(s, i)
	case "buy":
		f.handleBuy(s, i, options[0].Options)
	case "add":
		f.handleAdd(s, i, options[0].Options)
	case "remove":
		f.handleRemove(s, i, options[0].Options)
	}
}

func (f *Feature) HandleInventory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleInventory(s, i)
}

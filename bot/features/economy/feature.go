package economy

import (
	"github.com/bwmarrin/discordgo"

	"rosethorn/service"
)

type Feature struct {
	economyService  service.EconomyService
	settingsService service.GuildSettingsService
}

func New(economyService service.EconomyService, settingsService service.GuildSettingsService) *Feature {
	return &Feature{
		economyService:  economyService,
		settingsService: settingsService,
	}
}

func (f *Feature) HandleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleBalance(s, i)
}

func (f *Feature) HandleGive(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleGive(s, i)
}

func (f *Feature) HandleAward(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleAward(s, i)
}

package checkin

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

func (f *Feature) HandleCheckIn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleCheckIn(s, i)
}

func (f *Feature) HandleStreak(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleStreak(s, i)
}

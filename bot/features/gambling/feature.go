package gambling

import (
	"github.com/bwmarrin/discordgo"

	"rosethorn/service"
)

type Feature struct {
	gamblingService service.GamblingService
	economyService  service.EconomyService
	settingsService service.GuildSettingsService
}

func New(gamblingService service.GamblingService, economyService service.EconomyService, settingsService service.GuildSettingsService) *Feature {
	return &Feature{
		gamblingService: gamblingService,
		economyService:  economyService,
		settingsService: settingsService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleGamble(s, i)
}

package stats

import (
	"github.com/bwmarrin/discordgo"

	"rosethorn/service"
)

type Feature struct {
	statsService    service.StatsService
	settingsService service.GuildSettingsService
}

func New(statsService service.StatsService, settingsService service.GuildSettingsService) *Feature {
	return &Feature{
		statsService:    statsService,
		settingsService: settingsService,
	}
}

func (f *Feature) HandleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleLeaderboard(s, i)
}

func (f *Feature) HandleServerStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleServerStats(s, i)
}

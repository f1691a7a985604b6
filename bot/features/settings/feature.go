package settings

import (
	"github.com/bwmarrin/discordgo"

	"rosethorn/service"
)

type Feature struct {
	settingsService service.GuildSettingsService
}

func New(settingsService service.GuildSettingsService) *Feature {
	return &Feature{settingsService: settingsService}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "show":
		f.handleShow(s, i)
	case "currency":
		f.handleCurrency(s, i, options[0].Options)
	case "dailyreward":
		f.handleDailyReward(s, i, options[0].Options)
	case "levelbonus":
		f.handleLevelBonus(s, i, options[0].Options)
	case "logchannel":
		f.handleLogChannel(s, i, options[0].Options)
	}
}

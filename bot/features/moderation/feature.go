package moderation

import (
	"github.com/bwmarrin/discordgo"

	"rosethorn/service"
)

type Feature struct {
	moderationService service.ModerationService
	settingsService   service.GuildSettingsService
	executor          *Executor
}

func New(moderationService service.ModerationService, settingsService service.GuildSettingsService, executor *Executor) *Feature {
	return &Feature{
		moderationService: moderationService,
		settingsService:   settingsService,
		executor:          executor,
	}
}

func (f *Feature) HandleWarn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleWarn(s, i)
}

func (f *Feature) HandleWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleWarnings(s, i)
}

func (f *Feature) HandleMute(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleMute(s, i)
}

func (f *Feature) HandleUnmute(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleUnmute(s, i)
}

func (f *Feature) HandleBan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleBan(s, i)
}

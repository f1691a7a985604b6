package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"rosethorn/bot/common"
	"rosethorn/models"
	"rosethorn/service"
)

type commandTarget struct {
	guildID     int64
	userID      int64
	moderatorID int64
	user        *discordgo.User
	reason      string
	duration    string
}

// parseTarget pulls the shared guild/moderator/target/reason options out
// of a moderation command
func parseTarget(s *discordgo.Session, i *discordgo.InteractionCreate) (*commandTarget, error) {
	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		return nil, err
	}
	moderatorID, err := common.ParseSnowflake(common.InteractionUser(i).ID)
	if err != nil {
		return nil, err
	}

	target := &commandTarget{guildID: guildID, moderatorID: moderatorID}
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			target.user = opt.UserValue(s)
		case "reason":
			target.reason = opt.StringValue()
		case "duration":
			target.duration = opt.StringValue()
		}
	}
	if target.user == nil {
		return nil, fmt.Errorf("missing user option")
	}
	target.userID, err = common.ParseSnowflake(target.user.ID)
	if err != nil {
		return nil, err
	}
	return target, nil
}

func (f *Feature) handleWarn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if !common.HasModerateMembers(i) {
		common.RespondWithError(s, i, "You need the Moderate Members permission to warn.")
		return
	}

	target, err := parseTarget(s, i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if target.user.Bot {
		common.RespondWithError(s, i, "Bots can't be warned.")
		return
	}

	result, err := f.moderationService.Warn(ctx, target.guildID, target.userID, target.moderatorID, target.reason)
	if err != nil {
		log.Errorf("Error warning member %d: %v", target.userID, err)
		common.RespondWithError(s, i, "Unable to record the warning. Please try again.")
		return
	}

	message := fmt.Sprintf("warned <@%s> (warning #%d)", target.user.ID, result.WarningCount)
	if target.reason != "" {
		message += fmt.Sprintf(": %s", target.reason)
	}

	// Execute the escalation the warning count demands
	switch result.Tier {
	case models.EscalationMute:
		until := time.Now().Add(result.MuteDuration)
		if _, err := f.moderationService.Mute(ctx, target.guildID, target.userID, target.moderatorID, result.MuteDuration, "automatic: warning threshold"); err != nil {
			log.Errorf("Error recording automatic mute for member %d: %v", target.userID, err)
		}
		if err := f.executor.Timeout(i.GuildID, target.user.ID, until); err != nil {
			log.Errorf("Error applying timeout to member %d: %v", target.userID, err)
			message += "\n⚠️ Could not apply the timeout; check the bot's permissions."
		} else {
			message += fmt.Sprintf("\n🔇 Automatically muted for %s.", common.FormatDuration(result.MuteDuration))
		}
	case models.EscalationBan:
		if err := f.moderationService.RecordAction(ctx, &models.ModLog{
			GuildID:     target.guildID,
			UserID:      target.userID,
			ModeratorID: target.moderatorID,
			Action:      models.ModLogActionBan,
			Reason:      "automatic: warning threshold",
		}); err != nil {
			log.Errorf("Error recording automatic ban for member %d: %v", target.userID, err)
		}
		if err := f.executor.Ban(i.GuildID, target.user.ID, "warning threshold reached"); err != nil {
			log.Errorf("Error banning member %d: %v", target.userID, err)
			message += "\n⚠️ Could not apply the ban; check the bot's permissions."
		} else {
			message += "\n🔨 Automatically banned: warning threshold reached."
		}
	}

	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to warn command: %v", err)
	}
}

func (f *Feature) handleWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	target, err := parseTarget(s, i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	warnings, err := f.moderationService.Warnings(ctx, target.guildID, target.userID)
	if err != nil {
		log.Errorf("Error loading warnings for member %d: %v", target.userID, err)
		common.RespondWithError(s, i, "Unable to load warnings. Please try again.")
		return
	}

	if len(warnings) == 0 {
		common.RespondWithContent(s, i, fmt.Sprintf("<@%s> has no active warnings.", target.user.ID), true)
		return
	}

	var lines []string
	for n, w := range warnings {
		reason := w.Reason
		if reason == "" {
			reason = "no reason given"
		}
		lines = append(lines, fmt.Sprintf("%d. %s — %s (by <@%d>)",
			n+1, common.FormatDiscordTimestamp(w.CreatedAt, "d"), reason, w.ModeratorID))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Warnings for %s", target.user.Username),
		Color:       0xE67E22,
		Description: strings.Join(lines, "\n"),
	}
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Error responding to warnings command: %v", err)
	}
}

func (f *Feature) handleMute(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if !common.HasModerateMembers(i) {
		common.RespondWithError(s, i, "You need the Moderate Members permission to mute.")
		return
	}

	target, err := parseTarget(s, i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	duration, err := service.ParseDuration(target.duration)
	if err != nil {
		common.RespondWithError(s, i, "Invalid duration. Use forms like `30m`, `1h` or `2d`.")
		return
	}

	mute, err := f.moderationService.Mute(ctx, target.guildID, target.userID, target.moderatorID, duration, target.reason)
	if err != nil {
		log.Errorf("Error muting member %d: %v", target.userID, err)
		common.RespondWithError(s, i, "Unable to record the mute. Please try again.")
		return
	}

	// Discord timeouts cap at 28 days; indefinite mutes get the cap and
	// rely on the moderator to re-apply or unmute
	until := time.Now().Add(28 * 24 * time.Hour)
	if mute.ExpiresAt != nil {
		until = *mute.ExpiresAt
	}
	if err := f.executor.Timeout(i.GuildID, target.user.ID, until); err != nil {
		log.Errorf("Error applying timeout to member %d: %v", target.userID, err)
		common.RespondWithError(s, i, "Mute recorded, but the timeout could not be applied; check the bot's permissions.")
		return
	}

	message := fmt.Sprintf("muted <@%s> for %s", target.user.ID, common.FormatDuration(duration))
	if target.reason != "" {
		message += fmt.Sprintf(": %s", target.reason)
	}
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to mute command: %v", err)
	}
}

func (f *Feature) handleUnmute(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if !common.HasModerateMembers(i) {
		common.RespondWithError(s, i, "You need the Moderate Members permission to unmute.")
		return
	}

	target, err := parseTarget(s, i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	lifted, err := f.moderationService.Unmute(ctx, target.guildID, target.userID, target.moderatorID)
	if err != nil {
		log.Errorf("Error unmuting member %d: %v", target.userID, err)
		common.RespondWithError(s, i, "Unable to lift the mute. Please try again.")
		return
	}
	if !lifted {
		common.RespondWithError(s, i, "That member has no active mute.")
		return
	}

	if err := f.executor.ClearTimeout(i.GuildID, target.user.ID); err != nil {
		log.Errorf("Error clearing timeout for member %d: %v", target.userID, err)
	}

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("unmuted <@%s>", target.user.ID), false); err != nil {
		log.Errorf("Error responding to unmute command: %v", err)
	}
}

func (f *Feature) handleBan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if i.Member == nil || i.Member.Permissions&(discordgo.PermissionBanMembers|discordgo.PermissionAdministrator) == 0 {
		common.RespondWithError(s, i, "You need the Ban Members permission to ban.")
		return
	}

	target, err := parseTarget(s, i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if err := f.executor.Ban(i.GuildID, target.user.ID, target.reason); err != nil {
		log.Errorf("Error banning member %d: %v", target.userID, err)
		common.RespondWithError(s, i, "Unable to ban; check the bot's permissions.")
		return
	}

	if err := f.moderationService.RecordAction(ctx, &models.ModLog{
		GuildID:     target.guildID,
		UserID:      target.userID,
		ModeratorID: target.moderatorID,
		Action:      models.ModLogActionBan,
		Reason:      target.reason,
	}); err != nil {
		log.Errorf("Error recording ban for member %d: %v", target.userID, err)
	}

	message := fmt.Sprintf("banned <@%s>", target.user.ID)
	if target.reason != "" {
		message += fmt.Sprintf(": %s", target.reason)
	}
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to ban command: %v", err)
	}
}

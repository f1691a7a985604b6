package moderation

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ActionError reports a failed Discord-side moderation action. It is
// distinct from the rule-engine's domain errors: the warning or mute
// record already committed, only the platform action failed.
type ActionError struct {
	Action string
	UserID string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("failed to %s member %s: %v", e.Action, e.UserID, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Executor applies moderation outcomes on the Discord side. The service
// layer only records state; timeouts and bans happen here.
type Executor struct {
	session *discordgo.Session
}

func NewExecutor(session *discordgo.Session) *Executor {
	return &Executor{session: session}
}

// Timeout applies a Discord communication timeout until the given time
func (e *Executor) Timeout(guildID, userID string, until time.Time) error {
	if err := e.session.GuildMemberTimeout(guildID, userID, &until); err != nil {
		return &ActionError{Action: "timeout", UserID: userID, Err: err}
	}
	return nil
}

// ClearTimeout lifts a Discord communication timeout
func (e *Executor) ClearTimeout(guildID, userID string) error {
	if err := e.session.GuildMemberTimeout(guildID, userID, nil); err != nil {
		return &ActionError{Action: "clear timeout for", UserID: userID, Err: err}
	}
	return nil
}

// Ban removes a member from the guild permanently
func (e *Executor) Ban(guildID, userID, reason string) error {
	if err := e.session.GuildBanCreateWithReason(guildID, userID, reason, 0); err != nil {
		return &ActionError{Action: "ban", UserID: userID, Err: err}
	}
	return nil
}

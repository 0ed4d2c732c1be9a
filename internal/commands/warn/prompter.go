// Package warn - the interactive severity prompt
package warn

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WardenGo/pkg/models"
	"github.com/PancyStudios/WardenGo/pkg/prompt"
	"github.com/PancyStudios/WardenGo/pkg/warden"
)

// DMPrompter asks the issuing moderator for a severity over DM. The
// moderator gets the target's initial warnings, the pending record with
// the current state, and the severity menu, then five minutes to answer.
type DMPrompter struct {
	Session *discordgo.Session
	GuildID string
}

// NewDMPrompter creates a prompter bound to the session.
func NewDMPrompter(session *discordgo.Session, guildID string) *DMPrompter {
	return &DMPrompter{Session: session, GuildID: guildID}
}

// RequestSeverity implements warden.SeverityPrompter.
func (p *DMPrompter) RequestSeverity(ctx context.Context, req warden.SeverityRequest) (models.Severity, error) {
	dm, err := p.Session.UserChannelCreate(req.IssuerID)
	if err != nil {
		return 0, fmt.Errorf("opening DM channel: %w", err)
	}

	p.sendInitialWarnings(dm.ID, req)
	p.sendPendingRecord(dm.ID, req)

	if _, err := p.Session.ChannelMessageSend(dm.ID, prompt.SeverityMenu); err != nil {
		return 0, fmt.Errorf("sending severity menu: %w", err)
	}

	msg, err := prompt.NextMessage(ctx, p.Session, dm.ID, req.IssuerID, warden.SeverityTimeout)
	if err != nil {
		return 0, err
	}
	return prompt.ParseSeverity(msg.Content)
}

// sendInitialWarnings lists the target's active initial warnings so the
// moderator can tell a first offense from a repeat.
func (p *DMPrompter) sendInitialWarnings(channelID string, req warden.SeverityRequest) {
	var initial []models.Warning
	for _, w := range req.History {
		if w.Severity == models.SeverityInitial && !w.Removed() {
			initial = append(initial, w)
		}
	}

	header := fmt.Sprintf("%s has %d initial warnings.", p.displayName(req.TargetID), len(initial))
	if len(initial) == 0 {
		_, _ = p.Session.ChannelMessageSend(channelID, header)
		return
	}

	var lines []string
	for _, w := range initial {
		lines = append(lines, warningLine(w, p.GuildID, p.displayName(w.IssuerID), p.displayName(w.RemoverID)))
	}
	embeds := listEmbeds(lines)

	_, _ = p.Session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: header,
		Embeds:  embeds[:1],
	})
	for _, embed := range embeds[1:] {
		_, _ = p.Session.ChannelMessageSendEmbed(channelID, embed)
	}
}

// sendPendingRecord shows the record awaiting a severity together with
// the target's current state.
func (p *DMPrompter) sendPendingRecord(channelID string, req warden.SeverityRequest) {
	embed := warningEmbed(nil, req.Candidate)
	if req.Candidate.ID == 0 {
		embed.Title = "**A warning is being issued...**"
	} else {
		embed.Title = "**A warning is being edited...**"
	}
	embed.Color = colorBlue
	addStateToEmbed(embed, req.State)
	_, _ = p.Session.ChannelMessageSendEmbed(channelID, embed)
}

func (p *DMPrompter) displayName(userID string) string {
	if userID == "" {
		return "Deleted User"
	}
	user, err := p.Session.User(userID)
	if err != nil {
		return "Deleted User"
	}
	if user.Discriminator == "" || user.Discriminator == "0" {
		return user.Username
	}
	return user.Username + "#" + user.Discriminator
}

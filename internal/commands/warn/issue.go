// Package warn - /warn issue command
package warn

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WardenGo/pkg/discord"
	"github.com/PancyStudios/WardenGo/pkg/logger"
	"github.com/PancyStudios/WardenGo/pkg/models"
	"github.com/PancyStudios/WardenGo/pkg/warden"
)

// createIssueCommand creates the /warn issue subcommand
func createIssueCommand() *discord.Command {
	return discord.NewCommand(
		"issue",
		"Issue a warning to a user",
		"warn",
		issueHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "User to warn",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for the warning",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).RequiresDatabase()
}

// issueHandler handles the /warn issue command
func issueHandler(ctx *discord.CommandContext) error {
	if !isStaff(ctx, ctx.User().ID) {
		return ctx.ReplyEphemeral("❌ Only staff can issue warnings.")
	}

	user := ctx.GetUserOption("user")
	if user == nil {
		return ctx.ReplyEphemeral("❌ You must specify a user.")
	}
	if isStaff(ctx, user.ID) {
		return ctx.ReplyEphemeral("❌ User is staff.")
	}

	reason := ctx.GetStringOption("reason")
	if reason == "" {
		return ctx.ReplyEphemeral("❌ You must specify a reason.")
	}

	if err := ctx.Defer(); err != nil {
		return err
	}

	// Provisional message, shown while the severity prompt is pending and
	// deleted as soon as the operation finishes either way. It also anchors
	// the audit link for this warning.
	pending := models.Warning{
		GuildID:   ctx.Interaction.GuildID,
		UserID:    user.ID,
		IssuerID:  ctx.User().ID,
		ChannelID: ctx.Interaction.ChannelID,
		IssueDate: time.Now().UTC(),
		Reason:    reason,
	}
	tempEmbed := warningEmbed(user, pending)
	tempEmbed.Title = "**A warning is being issued...**"
	tempEmbed.Color = colorBlue
	tempEmbed.Footer = nil

	provisional, err := ctx.Session.ChannelMessageSendEmbed(ctx.Interaction.ChannelID, tempEmbed)
	if err != nil {
		return ctx.EditReply("❌ Failed to start the warning: " + err.Error())
	}
	defer func() {
		if err := ctx.Session.ChannelMessageDelete(provisional.ChannelID, provisional.ID); err != nil {
			logger.Warn("Failed to delete provisional message: "+err.Error(), "Warn")
		}
	}()

	opCtx, cancel := context.WithTimeout(context.Background(), warden.SeverityTimeout+30*time.Second)
	defer cancel()

	res, err := svc.Issue(opCtx, warden.IssueRequest{
		GuildID:   ctx.Interaction.GuildID,
		UserID:    user.ID,
		IssuerID:  ctx.User().ID,
		ChannelID: ctx.Interaction.ChannelID,
		MessageID: provisional.ID,
		Reason:    reason,
	})
	if err != nil {
		return ctx.EditReply("❌ " + err.Error())
	}

	embed := issuedEmbed(user, res.Warning, res.State)
	announceEverywhere(ctx, user.ID, embed)
	return ctx.EditReplyEmbed(embed)
}

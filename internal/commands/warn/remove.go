// Package warn - /warn remove command
package warn

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WardenGo/pkg/discord"
	"github.com/PancyStudios/WardenGo/pkg/warden"
)

// createRemoveCommand creates the /warn remove subcommand
func createRemoveCommand() *discord.Command {
	return discord.NewCommand(
		"remove",
		"Remove a warning (kept in the ledger for audit)",
		"warn",
		removeHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "User the warning belongs to",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "id",
			Description: "Warning ID",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for the removal",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "force",
			Description: "Override the issuer-only rule (server owner only)",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).RequiresDatabase()
}

// removeHandler handles the /warn remove command
func removeHandler(ctx *discord.CommandContext) error {
	if !isStaff(ctx, ctx.User().ID) {
		return ctx.ReplyEphemeral("❌ Only staff can remove warnings.")
	}

	user := ctx.GetUserOption("user")
	if user == nil {
		return ctx.ReplyEphemeral("❌ You must specify a user.")
	}
	id := ctx.GetIntOption("id")
	reason := ctx.GetStringOption("reason")
	if reason == "" {
		return ctx.ReplyEphemeral("❌ You must specify a reason.")
	}

	force := ctx.GetBoolOption("force")
	if force && !isOwner(ctx, ctx.User().ID) {
		return ctx.ReplyEphemeral("❌ Only the server owner can force-remove a warning.")
	}

	if err := ctx.Defer(); err != nil {
		return err
	}

	opCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := svc.Remove(opCtx, warden.RemoveRequest{
		GuildID:   ctx.Interaction.GuildID,
		UserID:    user.ID,
		ID:        id,
		RemoverID: ctx.User().ID,
		ChannelID: ctx.Interaction.ChannelID,
		Reason:    reason,
		Force:     force,
	})
	if err != nil {
		return ctx.EditReply("❌ " + err.Error())
	}

	embed := addStateToEmbed(warningEmbed(user, res.Warning), res.State)
	embed.Description = "**A warning was deleted.**"

	announceEverywhere(ctx, user.ID, embed)
	return ctx.EditReplyEmbed(embed)
}

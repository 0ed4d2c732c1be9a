// Package mod - /mod unmute command
package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WardenGo/pkg/discord"
)

// createUnmuteCommand creates the /mod unmute subcommand
func createUnmuteCommand() *discord.Command {
	return discord.NewCommand(
		"unmute",
		"Lift a user's mute",
		"mod",
		unmuteHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "User to unmute",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionModerateMembers)
}

// unmuteHandler handles the /mod unmute command
func unmuteHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("user")
	if user == nil {
		return ctx.ReplyEphemeral("❌ You must specify a user.")
	}

	if mute, ok := watcher.Active(user.ID); ok && mute.Disciplinary {
		return ctx.ReplyEphemeral("❌ This is a disciplinary mute. Remove the strike with `/warn remove` instead.")
	}

	opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := watcher.Unmute(opCtx, user.ID, ctx.User().ID); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Failed to unmute: %v", err))
	}

	return ctx.Reply(fmt.Sprintf("🔊 **%s** has been unmuted.", user.Username))
}

// Package warn - /warn status command
package warn

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WardenGo/pkg/discord"
)

// createStatusCommand creates the /warn status subcommand
func createStatusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Show a user's current warning state",
		"warn",
		statusHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "User to check (defaults to yourself)",
			Required:    false,
		},
	).RequiresDatabase()
}

// statusHandler handles the /warn status command
func statusHandler(ctx *discord.CommandContext) error {
	if !requireBotCommandsChannel(ctx) {
		return nil
	}

	user := ctx.GetUserOption("user")
	if user == nil {
		user = ctx.User()
	}

	opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	state, _, err := svc.Status(opCtx, user.ID)
	if err != nil {
		return ctx.ReplyEphemeral("❌ " + err.Error())
	}

	embed := addStateToEmbed(&discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    user.Username,
			IconURL: user.AvatarURL(""),
		},
	}, state)
	return ctx.ReplyEmbed(embed)
}

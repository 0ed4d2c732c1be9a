// Package warn - /warn list command
package warn

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WardenGo/pkg/discord"
)

// createListCommand creates the /warn list subcommand
func createListCommand() *discord.Command {
	return discord.NewCommand(
		"list",
		"List a user's warnings, including removed ones",
		"warn",
		listHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "User to list (defaults to yourself)",
			Required:    false,
		},
	).RequiresDatabase()
}

// listHandler handles the /warn list command
func listHandler(ctx *discord.CommandContext) error {
	if !requireBotCommandsChannel(ctx) {
		return nil
	}

	user := ctx.GetUserOption("user")
	if user == nil {
		user = ctx.User()
	}

	if err := ctx.Defer(); err != nil {
		return err
	}

	opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, history, err := svc.Status(opCtx, user.ID)
	if err != nil {
		return ctx.EditReply("❌ " + err.Error())
	}

	header := fmt.Sprintf("**%s** has %d warnings.", displayName(ctx, user.ID), len(history))
	if len(history) == 0 {
		return ctx.EditReply(header)
	}

	var lines []string
	for _, w := range history {
		lines = append(lines, warningLine(w, ctx.Interaction.GuildID, displayName(ctx, w.IssuerID), displayName(ctx, w.RemoverID)))
	}
	embeds := listEmbeds(lines)

	content := header
	if _, err := ctx.Session.InteractionResponseEdit(ctx.Interaction.Interaction, &discordgo.WebhookEdit{
		Content: &content,
		Embeds:  &[]*discordgo.MessageEmbed{embeds[0]},
	}); err != nil {
		return err
	}

	// Long audit histories spill into follow-up messages.
	for _, embed := range embeds[1:] {
		if _, err := ctx.Session.ChannelMessageSendEmbed(ctx.Interaction.ChannelID, embed); err != nil {
			return err
		}
	}
	return nil
}

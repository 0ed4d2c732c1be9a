// Package warn - /warn edit command
package warn

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WardenGo/pkg/discord"
	"github.com/PancyStudios/WardenGo/pkg/models"
	"github.com/PancyStudios/WardenGo/pkg/warden"
)

// createEditCommand creates the /warn edit subcommand
func createEditCommand() *discord.Command {
	return discord.NewCommand(
		"edit",
		"Re-run the severity prompt for a warning and optionally change its reason",
		"warn",
		editHandler,
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
			Description: "New reason (leave empty to keep the old one)",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "force",
			Description: "Override the issuer-only rule",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).RequiresDatabase()
}

// editHandler handles the /warn edit command
func editHandler(ctx *discord.CommandContext) error {
	if !isStaff(ctx, ctx.User().ID) {
		return ctx.ReplyEphemeral("❌ Only staff can edit warnings.")
	}

	user := ctx.GetUserOption("user")
	if user == nil {
		return ctx.ReplyEphemeral("❌ You must specify a user.")
	}
	id := ctx.GetIntOption("id")
	reason := ctx.GetStringOption("reason")
	force := ctx.GetBoolOption("force")

	if err := ctx.Defer(); err != nil {
		return err
	}

	opCtx, cancel := context.WithTimeout(context.Background(), warden.SeverityTimeout+30*time.Second)
	defer cancel()

	res, err := svc.Edit(opCtx, warden.EditRequest{
		GuildID:   ctx.Interaction.GuildID,
		UserID:    user.ID,
		ID:        id,
		IssuerID:  ctx.User().ID,
		ChannelID: ctx.Interaction.ChannelID,
		Reason:    reason,
		Force:     force,
	})
	if err != nil {
		return ctx.EditReply("❌ " + err.Error())
	}

	if !res.SeverityChanged && !res.ReasonChanged {
		return ctx.EditReply(fmt.Sprintf("Warning %d is unchanged.", id))
	}

	embed := issuedEmbed(user, res.Warning, res.State)
	if res.SeverityChanged {
		if res.Warning.Severity == models.SeverityInitial {
			addStateToEmbed(embed, res.State)
		}
		embed.Title += fmt.Sprintf(" (Changed from %s)", res.OldSeverity.String())
	}
	if res.ReasonChanged {
		embed.Title += " (Reason updated)"
		embed.Fields = insertField(embed.Fields, 3, &discordgo.MessageEmbedField{
			Name:  "Old Reason",
			Value: res.OldReason,
		})
	}

	announceEverywhere(ctx, user.ID, embed)
	return ctx.EditReplyEmbed(embed)
}

func insertField(fields []*discordgo.MessageEmbedField, i int, f *discordgo.MessageEmbedField) []*discordgo.MessageEmbedField {
	if i > len(fields) {
		i = len(fields)
	}
	fields = append(fields, nil)
	copy(fields[i+1:], fields[i:])
	fields[i] = f
	return fields
}

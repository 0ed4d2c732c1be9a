// Package warn provides the /warn command group: the disciplinary ledger
// with escalation, decay and the interactive severity prompt.
package warn

import (
	"github.com/PancyStudios/WardenGo/pkg/config"
	"github.com/PancyStudios/WardenGo/pkg/discord"
	"github.com/PancyStudios/WardenGo/pkg/warden"
)

var svc *warden.Service

// RegisterWarnCommands registers all /warn subcommands.
func RegisterWarnCommands(client *discord.ExtendedClient, service *warden.Service) {
	svc = service

	issueCmd := createIssueCommand()
	listCmd := createListCommand()
	statusCmd := createStatusCommand()
	editCmd := createEditCommand()
	removeCmd := createRemoveCommand()

	warnGroup := client.CommandHandler.BuildCommandGroup(
		"warn",
		"Disciplinary warnings",
		issueCmd,
		listCmd,
		statusCmd,
		editCmd,
		removeCmd,
	)

	client.CommandHandler.AddGlobalCommand(warnGroup)
}

// isStaff reports whether the user carries the staff role.
func isStaff(ctx *discord.CommandContext, userID string) bool {
	cfg := config.Get()
	return ctx.Client.MemberHasRole(ctx.Interaction.GuildID, userID, cfg.StaffRoleID)
}

// isOwner reports whether the user carries the server owner role.
func isOwner(ctx *discord.CommandContext, userID string) bool {
	cfg := config.Get()
	return ctx.Client.MemberHasRole(ctx.Interaction.GuildID, userID, cfg.OwnerRoleID)
}

// requireBotCommandsChannel restricts read-only subcommands to the bot
// commands channel when one is configured.
func requireBotCommandsChannel(ctx *discord.CommandContext) bool {
	cfg := config.Get()
	if cfg.BotCommandsChannelID == "" || ctx.Interaction.ChannelID == cfg.BotCommandsChannelID {
		return true
	}
	_ = ctx.ReplyEphemeral("❌ This command can only be used in " + mentionChannel(cfg.BotCommandsChannelID) + ".")
	return false
}

// displayName resolves a user ID to username#discriminator for audit
// lines, without pinging them.
func displayName(ctx *discord.CommandContext, userID string) string {
	if userID == "" {
		return "Deleted User"
	}
	user, err := ctx.Session.User(userID)
	if err != nil {
		return "Deleted User"
	}
	if user.Discriminator == "" || user.Discriminator == "0" {
		return user.Username
	}
	return user.Username + "#" + user.Discriminator
}

package utils

import (
	"github.com/PancyStudios/WardenGo/pkg/discord"
	"github.com/PancyStudios/WardenGo/pkg/errors"
)

// createHelpCommand creates the /utils help subcommand
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Show help information",
		"utils",
		helpHandler,
	)
}

// helpHandler handles the /utils help command
func helpHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()
		ctx.Reply(
			"📖 **WardenGo Help**\n\n" +
				"**Available commands:**\n" +
				"• `/utils ping` - Check the latency\n" +
				"• `/utils status` - Bot status\n" +
				"• `/utils stats` - Bot statistics\n" +
				"• `/warn issue <user> <reason>` - Issue a warning (staff)\n" +
				"• `/warn list [user]` - List warnings, removed ones included\n" +
				"• `/warn status [user]` - Current warning state\n" +
				"• `/warn edit <user> <id> [reason]` - Re-run the severity prompt (staff)\n" +
				"• `/warn remove <user> <id> <reason>` - Remove a warning (staff)\n" +
				"• `/mod mute <user> <duration> [reason]` - Mute a user\n" +
				"• `/mod unmute <user>` - Lift a mute",
		)
	}()
	return nil
}

package utils

import (
	"fmt"

	"github.com/PancyStudios/WardenGo/pkg/database"
	"github.com/PancyStudios/WardenGo/pkg/discord"
	"github.com/PancyStudios/WardenGo/pkg/errors"
)

// createStatusCommand creates the /utils status subcommand
func createStatusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Show the bot status",
		"utils",
		statusHandler,
	)
}

// statusHandler handles the /utils status command
func statusHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()
		db := database.Get()
		dbStatus, _ := db.GetStatus()

		ctx.Reply(fmt.Sprintf(
			"📊 **Bot Status**\n"+
				"• Bot: 🟢 Online\n"+
				"• Database: %s\n"+
				"• Guilds: %d",
			dbStatus,
			ctx.Client.GuildCount(),
		))
	}()
	return nil
}

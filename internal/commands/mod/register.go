// Package mod provides moderation commands organized as subcommands under /mod
// Each command is in its own file for better organization
package mod

import (
	"github.com/PancyStudios/WardenGo/pkg/discord"
	"github.com/PancyStudios/WardenGo/pkg/mutes"
)

var watcher *mutes.Watcher

// RegisterModCommands registers all moderation commands as /mod subcommands
func RegisterModCommands(client *discord.ExtendedClient, muteWatcher *mutes.Watcher) {
	watcher = muteWatcher

	muteCmd := createMuteCommand()
	unmuteCmd := createUnmuteCommand()

	// Build the /mod command group with all subcommands
	modGroup := client.CommandHandler.BuildCommandGroup(
		"mod",
		"Moderation commands",
		muteCmd,
		unmuteCmd,
	)

	client.CommandHandler.AddGlobalCommand(modGroup)
}

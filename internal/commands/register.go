// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (utils, warn, mod, dev)
package commands

import (
	"github.com/PancyStudios/WardenGo/internal/commands/dev"
	"github.com/PancyStudios/WardenGo/internal/commands/mod"
	"github.com/PancyStudios/WardenGo/internal/commands/utils"
	"github.com/PancyStudios/WardenGo/internal/commands/warn"
	"github.com/PancyStudios/WardenGo/pkg/database"
	"github.com/PancyStudios/WardenGo/pkg/discord"
	"github.com/PancyStudios/WardenGo/pkg/mutes"
	"github.com/PancyStudios/WardenGo/pkg/warden"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, store *database.WarningStore, svc *warden.Service, watcher *mutes.Watcher) {
	// Utility commands
	utils.RegisterUtilsCommands(client)

	// Warning ledger (/warn issue, list, status, edit, remove)
	warn.RegisterWarnCommands(client, svc)

	// Moderation commands (/mod mute, /mod unmute)
	mod.RegisterModCommands(client, watcher)

	// Dev commands, registered only in the dev guild
	dev.Register(client, store, svc)
}

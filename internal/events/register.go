// Package events provides a registry for organizing bot events.
package events

import (
	"github.com/PancyStudios/WardenGo/pkg/discord"
	"github.com/PancyStudios/WardenGo/pkg/logger"
	"github.com/PancyStudios/WardenGo/pkg/mutes"
)

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient, watcher *mutes.Watcher) {
	logger.System("📋 Registering bot events...", "Events")

	// Ready event (bot startup)
	RegisterReadyEvent(client)

	// Member events (mute reapplication on rejoin)
	RegisterMemberEvents(client, watcher)

	logger.Success("✅ All events registered", "Events")
}

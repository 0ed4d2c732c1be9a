// Package events provides event handlers for member events
package events

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WardenGo/pkg/discord"
	"github.com/PancyStudios/WardenGo/pkg/logger"
	"github.com/PancyStudios/WardenGo/pkg/mutes"
)

// RegisterMemberEvents registers all member-related event handlers
func RegisterMemberEvents(client *discord.ExtendedClient, watcher *mutes.Watcher) {
	client.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		onGuildMemberAdd(watcher, s, m)
	})
}

// onGuildMemberAdd restores an active mute when the user rejoins.
// Leaving and rejoining the server must not shorten a penalty.
func onGuildMemberAdd(watcher *mutes.Watcher, s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	logger.Info(fmt.Sprintf("👋 Member joined: %s#%s in guild %s",
		m.User.Username, m.User.Discriminator, m.GuildID), "Member")

	if watcher != nil {
		watcher.Reapply(m.User.ID)
	}
}

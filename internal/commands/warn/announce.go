// Package warn - announcement delivery for warning actions
package warn

import (
	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WardenGo/pkg/config"
	"github.com/PancyStudios/WardenGo/pkg/discord"
	"github.com/PancyStudios/WardenGo/pkg/logger"
)

// announceEverywhere delivers the embed to the issuer's DMs, the target's
// DMs and the logs channel. The interaction reply already covers the
// invoking channel. Each delivery is best-effort: a closed DM must not
// swallow the rest.
func announceEverywhere(ctx *discord.CommandContext, targetID string, embed *discordgo.MessageEmbed) {
	dmEmbed(ctx.Session, ctx.User().ID, embed)
	dmEmbed(ctx.Session, targetID, embed)

	cfg := config.Get()
	if cfg.LogsChannelID != "" {
		if _, err := ctx.Session.ChannelMessageSendEmbed(cfg.LogsChannelID, embed); err != nil {
			logger.Warn("Failed to announce in logs channel: "+err.Error(), "Warn")
		}
	}
}

func dmEmbed(s *discordgo.Session, userID string, embed *discordgo.MessageEmbed) {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		return
	}
	_, _ = s.ChannelMessageSendEmbed(channel.ID, embed)
}

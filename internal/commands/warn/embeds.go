// Package warn - embed builders shared by the /warn subcommands
package warn

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WardenGo/pkg/models"
	"github.com/PancyStudios/WardenGo/pkg/warnings"
)

const (
	colorGold   = 0xF1C40F
	colorOrange = 0xE67E22
	colorRed    = 0xE74C3C
	colorGreen  = 0x2ECC71
	colorBlue   = 0x3498DB

	embedDescriptionLimit = 2048
)

// warningEmbed builds the base embed describing one warning record.
func warningEmbed(user *discordgo.User, w models.Warning) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Color: colorGold,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: mention(w.UserID), Inline: true},
			{Name: "Moderator", Value: mention(w.IssuerID), Inline: true},
			{Name: "Channel", Value: mentionChannel(w.ChannelID), Inline: true},
			{Name: "Reason", Value: w.Reason},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("ID: %d", w.ID)},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if user != nil {
		embed.Author = &discordgo.MessageEmbedAuthor{
			Name:    user.Username,
			IconURL: user.AvatarURL(""),
		}
	}
	return embed
}

// addStateToEmbed appends the derived state fields. Mute expiry takes
// precedence over probation, probation over the next decay countdown.
func addStateToEmbed(embed *discordgo.MessageEmbed, state warnings.WarningState) *discordgo.MessageEmbed {
	now := time.Now().UTC()

	if state.Warnings > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("Warnings (%d)", state.Warnings),
			Value:  strings.Repeat("⚠️ ", state.Warnings),
			Inline: true,
		})
		embed.Color = colorOrange
	}

	if state.Strikes > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("Strikes (%d)", state.Strikes),
			Value:  strings.Repeat("❌ ", state.Strikes),
			Inline: true,
		})
		embed.Color = colorRed
	}

	switch {
	case state.Warnings == 0 && state.Strikes == 0:
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Warnings (0)",
			Value: "No warnings, well done!",
		})
		embed.Color = colorGreen
	case state.MutedUntil != nil:
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Strike mute penalty expires in",
			Value: humanDuration(state.MutedUntil.Sub(now)),
		})
	case state.LastTick.After(now):
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Probation ends in",
			Value: humanDuration(state.LastTick.Sub(now)),
		})
	default:
		if remaining, next, ok := state.NextExpiry(now); ok {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  fmt.Sprintf("Next %s expires in", next),
				Value: humanDuration(remaining),
			})
		}
	}

	return embed
}

// issuedEmbed is the announcement embed for a newly issued or edited
// warning. Initial warnings do not show the escalation state.
func issuedEmbed(user *discordgo.User, w models.Warning, state warnings.WarningState) *discordgo.MessageEmbed {
	embed := warningEmbed(user, w)
	if w.Severity != models.SeverityInitial {
		embed = addStateToEmbed(embed, state)
	}
	embed.Title = fmt.Sprintf("**%s**", w.Severity.String())
	return embed
}

// warningLine renders one audit line for the list output.
func warningLine(w models.Warning, guildID string, issuerName, removerName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**%s %d (%s", w.Severity.String(), w.ID, w.IssueDate.UTC().Format("01/02/2006"))
	if w.Removed() {
		fmt.Fprintf(&b, ", removed on %s", w.RemoveDate.UTC().Format("01/02/2006"))
	}
	b.WriteString(")**\n")

	b.WriteString(w.Reason)
	b.WriteString("\n")
	if w.RemoveReason != "" {
		fmt.Fprintf(&b, "Remove Reason: %s\n", w.RemoveReason)
	}

	fmt.Fprintf(&b, "[%s](https://discordapp.com/channels/%s/%s/%s) in %s",
		issuerName, guildID, w.ChannelID, w.MessageID, mentionChannel(w.ChannelID))
	if w.Removed() && w.RemoveChannelID != "" && w.RemoveMessageID != "" {
		fmt.Fprintf(&b, " | Removed by [%s](https://discordapp.com/channels/%s/%s/%s) in %s",
			removerName, guildID, w.RemoveChannelID, w.RemoveMessageID, mentionChannel(w.ChannelID))
	}
	b.WriteString("\n\n")

	return b.String()
}

// listEmbeds packs the audit lines into embeds, splitting at the
// description limit.
func listEmbeds(lines []string) []*discordgo.MessageEmbed {
	embeds := []*discordgo.MessageEmbed{{}}
	for _, line := range lines {
		last := embeds[len(embeds)-1]
		if len(last.Description)+len(line) > embedDescriptionLimit {
			embeds = append(embeds, &discordgo.MessageEmbed{})
			last = embeds[len(embeds)-1]
		}
		last.Description += line
	}
	return embeds
}

// humanDuration renders a duration as its two most significant units.
func humanDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if days == 0 && minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	if len(parts) == 0 {
		return "less than a minute"
	}
	return strings.Join(parts, ", ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

func mentionChannel(channelID string) string {
	return fmt.Sprintf("<#%s>", channelID)
}

package dev

import (
	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WardenGo/pkg/database"
	"github.com/PancyStudios/WardenGo/pkg/discord"
	"github.com/PancyStudios/WardenGo/pkg/warden"
)

// Register registers all dev commands as /dev subcommands (only in dev guild)
func Register(client *discord.ExtendedClient, warningStore *database.WarningStore, service *warden.Service) {
	store = warningStore
	svc = service

	evalCmd := CreateEvalCommand()

	devGroup := &discordgo.ApplicationCommand{
		Name:        "dev",
		Description: "Development commands",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        evalCmd.Name,
				Description: evalCmd.Description,
				Options:     evalCmd.Options,
			},
		},
	}

	client.Commands.Set("dev.eval", evalCmd)

	// Register the command group as dev-only command
	client.CommandHandler.AddDevCommand(devGroup)
}

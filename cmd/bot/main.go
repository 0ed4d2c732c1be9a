// Package main is the entry point for the WardenGo application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PancyStudios/WardenGo/internal/commands"
	"github.com/PancyStudios/WardenGo/internal/commands/warn"
	"github.com/PancyStudios/WardenGo/internal/events"
	"github.com/PancyStudios/WardenGo/pkg/config"
	"github.com/PancyStudios/WardenGo/pkg/database"
	"github.com/PancyStudios/WardenGo/pkg/discord"
	"github.com/PancyStudios/WardenGo/pkg/errors"
	"github.com/PancyStudios/WardenGo/pkg/logger"
	"github.com/PancyStudios/WardenGo/pkg/mqtt"
	"github.com/PancyStudios/WardenGo/pkg/mutes"
	"github.com/PancyStudios/WardenGo/pkg/stream"
	"github.com/PancyStudios/WardenGo/pkg/warden"
	"github.com/PancyStudios/WardenGo/pkg/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Starting WardenGo...", "Main")
	logger.Info(fmt.Sprintf("Working directory: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			if err := discordClient.Stop(); err != nil {
				return
			}
		}
	})

	// Initialize database
	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		// Continue without database - it will attempt to reconnect
	}
	defer func() {
		if db != nil {
			if err := db.Disconnect(); err != nil {
				return
			}
		}
	}()

	store := database.NewWarningStore(db)

	// Initialize MQTT
	mqttClientID := "warden"
	if !cfg.IsProd() {
		mqttClientID = "warden_canary"
	}

	mqttClient := mqtt.Init(
		cfg.MQTTHost,
		cfg.MQTTPort,
		cfg.MQTTUser,
		cfg.MQTTPassword,
		mqttClientID,
	)
	defer mqttClient.Destroy()

	// Initialize web server and the live event feed
	hub := stream.NewHub()
	webServer := web.Init(cfg.LogsWebServerHook)
	web.SetupAPIRoutes(webServer, store)
	webServer.GET("/api/modlog", gin.WrapH(hub))
	webServer.StartAsync(cfg.Port)

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	// Mute watcher and the warning service
	watcher, err := mutes.Init(discordClient.Session, cfg.GuildID)
	if err != nil {
		logger.Warn(fmt.Sprintf("Error loading mutes: %v", err), "Main")
	}

	prompter := warn.NewDMPrompter(discordClient.Session, cfg.GuildID)
	svc := warden.NewService(store, watcher, prompter, warden.MultiSink{
		mqtt.NewPublisher(mqttClient),
		hub,
	})

	// Register commands and events
	commands.RegisterAll(discordClient, store, svc, watcher)
	events.RegisterAll(discordClient, watcher)

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func(discordClient *discord.ExtendedClient) {
		_ = discordClient.Stop()
	}(discordClient)

	// Disciplinary mutes are issued in the bot's name.
	svc.SetEnforcer(discordClient.Session.State.User.ID)

	watcher.Start(time.Minute)
	defer watcher.Stop()

	logger.Success("WardenGo started successfully!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Shutting down WardenGo...", "Main")
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}

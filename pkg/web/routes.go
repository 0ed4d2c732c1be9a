// Package web provides API routes for the web server.
package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PancyStudios/WardenGo/pkg/database"
	"github.com/PancyStudios/WardenGo/pkg/discord"
	"github.com/PancyStudios/WardenGo/pkg/models"
	"github.com/PancyStudios/WardenGo/pkg/warnings"
)

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, store *database.WarningStore) {
	api := s.Group("/api")
	{
		api.GET("/status", statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", botInfoHandler)
		api.GET("/warnings/:userId", warningsHandler(store))
	}
}

// statusHandler returns the bot and database status
func statusHandler(c *gin.Context) {
	db := database.Get()
	client := discord.Get()

	dbStatus, dbOnline := db.GetStatus()

	botOnline := false
	if client != nil {
		botOnline = client.IsReady()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"isOnline": botOnline,
		},
	})
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "WardenGo is running",
	})
}

// botInfoHandler returns information about the bot
func botInfoHandler(c *gin.Context) {
	client := discord.Get()

	if client == nil || !client.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "The bot is not available right now.",
		})
		return
	}

	user := client.Session.State.User

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"discriminator": user.Discriminator,
		"avatar":        user.Avatar,
		"guilds":        client.GuildCount(),
		"isReady":       client.IsReady(),
	})
}

// warningsHandler returns a user's warning history and derived state.
func warningsHandler(store *database.WarningStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Store Offline",
				"message": "The warning store is not available right now.",
			})
			return
		}

		userID := c.Param("userId")
		history, err := store.Warnings(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Database Error",
			})
			return
		}

		now := time.Now().UTC()
		state := warnings.StateFromHistory(history)
		state.DecayTo(now)

		active := 0
		for _, w := range history {
			if !w.Removed() {
				active++
			}
		}

		resp := gin.H{
			"userId": userID,
			"state": gin.H{
				"warnings": state.Warnings,
				"strikes":  state.Strikes,
				"muted":    state.Muted(now),
			},
			"total":   len(history),
			"active":  active,
			"history": historyJSON(history),
		}
		if state.MutedUntil != nil {
			resp["state"].(gin.H)["mutedUntil"] = state.MutedUntil.UTC().Format(time.RFC3339)
		}

		c.JSON(http.StatusOK, resp)
	}
}

func historyJSON(history []models.Warning) []gin.H {
	out := make([]gin.H, 0, len(history))
	for _, w := range history {
		entry := gin.H{
			"id":        w.ID,
			"severity":  int(w.Severity),
			"reason":    w.Reason,
			"issuerId":  w.IssuerID,
			"issueDate": w.IssueDate.UTC().Format(time.RFC3339),
			"removed":   w.Removed(),
		}
		if w.Removed() {
			entry["removeDate"] = w.RemoveDate.UTC().Format(time.RFC3339)
			entry["removerId"] = w.RemoverID
			entry["removeReason"] = w.RemoveReason
		}
		out = append(out, entry)
	}
	return out
}

// Package mutes enforces disciplinary mutes through Discord member
// timeouts and keeps them persisted across restarts.
package mutes

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PancyStudios/WardenGo/pkg/database"
	"github.com/PancyStudios/WardenGo/pkg/logger"
	"github.com/PancyStudios/WardenGo/pkg/models"
)

const collectionName = "mutes"

// Watcher owns the mute ledger: it applies and lifts Discord timeouts,
// keeps an in-memory copy of the active mutes, and sweeps expired ones
// on a ticker so a mute lifts even when the bot saw no event for it.
type Watcher struct {
	session *discordgo.Session
	guildID string

	entries map[string]*models.Mute
	mu      sync.RWMutex

	stopSweep chan struct{}
	sweeping  bool
}

var (
	watcher     *Watcher
	watcherOnce sync.Once
)

// Init creates the global watcher and loads the persisted mutes.
func Init(session *discordgo.Session, guildID string) (*Watcher, error) {
	var err error
	watcherOnce.Do(func() {
		watcher = &Watcher{
			session:   session,
			guildID:   guildID,
			entries:   make(map[string]*models.Mute),
			stopSweep: make(chan struct{}),
		}
		err = watcher.Refresh()
	})
	return watcher, err
}

// Get returns the global watcher instance.
func Get() *Watcher {
	return watcher
}

func (w *Watcher) collection() *mongo.Collection {
	db := database.Get()
	if db == nil {
		return nil
	}
	return db.GetCollection(collectionName)
}

// Refresh reloads all mute entries from the database.
func (w *Watcher) Refresh() error {
	coll := w.collection()
	if coll == nil {
		logger.Warn("MuteWatcher: Collection not available", "MuteWatcher")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		logger.Error("MuteWatcher: Error fetching mutes: "+err.Error(), "MuteWatcher")
		return err
	}
	defer func() { _ = cursor.Close(ctx) }()

	newEntries := make(map[string]*models.Mute)
	for cursor.Next(ctx) {
		var entry models.Mute
		if err := cursor.Decode(&entry); err != nil {
			logger.Warn("MuteWatcher: Error decoding mute: "+err.Error(), "MuteWatcher")
			continue
		}
		newEntries[entry.UserID] = &entry
	}
	if err := cursor.Err(); err != nil {
		logger.Error("MuteWatcher: Cursor error: "+err.Error(), "MuteWatcher")
		return err
	}

	w.mu.Lock()
	w.entries = newEntries
	w.mu.Unlock()

	logger.Info(fmt.Sprintf("MuteWatcher: Loaded %d active mutes", len(newEntries)), "MuteWatcher")
	return nil
}

// Mute applies (or extends) a timeout on the user and persists it. Calling
// it again with the same expiry is a no-op. The reason is delivered by DM
// on a best-effort basis.
func (w *Watcher) Mute(ctx context.Context, m models.Mute, reason string) error {
	w.mu.Lock()
	existing, ok := w.entries[m.UserID]
	if ok && existing.ExpiryDate.Equal(m.ExpiryDate) {
		w.mu.Unlock()
		return nil
	}
	entry := m
	w.entries[m.UserID] = &entry
	w.mu.Unlock()

	coll := w.collection()
	if coll == nil {
		return fmt.Errorf("mutes collection not available")
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := coll.ReplaceOne(ctx, bson.M{"_id": m.UserID}, entry, opts); err != nil {
		return fmt.Errorf("persisting mute: %w", err)
	}

	if err := w.applyTimeout(m.UserID, m.ExpiryDate); err != nil {
		logger.Error("MuteWatcher: Error applying timeout for "+m.UserID+": "+err.Error(), "MuteWatcher")
		return err
	}

	if reason != "" {
		w.dm(m.UserID, reason+" Your mute expires "+fmt.Sprintf("<t:%d:R>", m.ExpiryDate.Unix())+".")
	}

	logger.Info(fmt.Sprintf("MuteWatcher: Muted %s until %s", m.UserID, m.ExpiryDate.UTC().Format(time.RFC3339)), "MuteWatcher")
	return nil
}

// Unmute lifts the user's timeout and drops the persisted record. Unmuting
// a user who is not muted is a no-op.
func (w *Watcher) Unmute(ctx context.Context, userID, issuerID string) error {
	w.mu.Lock()
	_, ok := w.entries[userID]
	delete(w.entries, userID)
	w.mu.Unlock()
	if !ok {
		return nil
	}

	if coll := w.collection(); coll != nil {
		if _, err := coll.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
			return fmt.Errorf("deleting mute: %w", err)
		}
	}

	if err := w.applyTimeout(userID, time.Time{}); err != nil {
		logger.Warn("MuteWatcher: Error lifting timeout for "+userID+": "+err.Error(), "MuteWatcher")
	}

	logger.Info("MuteWatcher: Unmuted "+userID, "MuteWatcher")
	return nil
}

// Active returns the user's current mute, if any.
func (w *Watcher) Active(userID string) (*models.Mute, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	entry, ok := w.entries[userID]
	if !ok || entry.Expired(time.Now()) {
		return nil, false
	}
	m := *entry
	return &m, true
}

// Reapply restores the timeout for a user who rejoined while muted. Leaving
// and rejoining must not shorten a disciplinary mute.
func (w *Watcher) Reapply(userID string) {
	mute, ok := w.Active(userID)
	if !ok {
		return
	}
	if err := w.applyTimeout(userID, mute.ExpiryDate); err != nil {
		logger.Error("MuteWatcher: Error reapplying timeout for "+userID+": "+err.Error(), "MuteWatcher")
		return
	}
	logger.Info("MuteWatcher: Reapplied mute for rejoined user "+userID, "MuteWatcher")
}

// Start begins the expiry sweep at the given interval.
func (w *Watcher) Start(interval time.Duration) {
	w.mu.Lock()
	if w.sweeping {
		close(w.stopSweep)
	}
	w.sweeping = true
	w.stopSweep = make(chan struct{})
	stopChan := w.stopSweep
	w.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger.Info("MuteWatcher: Expiry sweep started (interval: "+interval.String()+")", "MuteWatcher")

		for {
			select {
			case <-ticker.C:
				w.sweep()
			case <-stopChan:
				logger.Info("MuteWatcher: Expiry sweep stopped", "MuteWatcher")
				return
			}
		}
	}()
}

// Stop halts the expiry sweep.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sweeping {
		close(w.stopSweep)
		w.sweeping = false
	}
}

// sweep lifts every mute that expired since the last tick. Discord drops
// the timeout on its own at the expiry, so this only cleans our ledger.
func (w *Watcher) sweep() {
	now := time.Now()

	w.mu.RLock()
	var expired []string
	for userID, entry := range w.entries {
		if entry.Expired(now) {
			expired = append(expired, userID)
		}
	}
	w.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, userID := range expired {
		if err := w.Unmute(ctx, userID, ""); err != nil {
			logger.Error("MuteWatcher: Sweep error for "+userID+": "+err.Error(), "MuteWatcher")
		}
	}
}

// applyTimeout sets or clears the member's communication timeout. A zero
// until clears it.
func (w *Watcher) applyTimeout(userID string, until time.Time) error {
	if w.session == nil {
		return nil
	}
	if until.IsZero() {
		return w.session.GuildMemberTimeout(w.guildID, userID, nil)
	}
	return w.session.GuildMemberTimeout(w.guildID, userID, &until)
}

func (w *Watcher) dm(userID, content string) {
	if w.session == nil {
		return
	}
	channel, err := w.session.UserChannelCreate(userID)
	if err != nil {
		return
	}
	_, _ = w.session.ChannelMessageSend(channel.ID, content)
}

// Size returns the number of tracked mutes.
func (w *Watcher) Size() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entries)
}

package mutes

import (
	"context"
	"testing"
	"time"

	"github.com/PancyStudios/WardenGo/pkg/models"
)

func newTestWatcher() *Watcher {
	return &Watcher{
		entries:   make(map[string]*models.Mute),
		stopSweep: make(chan struct{}),
	}
}

func TestActiveIgnoresExpiredEntries(t *testing.T) {
	w := newTestWatcher()
	now := time.Now()

	w.entries["live"] = &models.Mute{UserID: "live", ExpiryDate: now.Add(time.Hour)}
	w.entries["stale"] = &models.Mute{UserID: "stale", ExpiryDate: now.Add(-time.Hour)}

	if _, ok := w.Active("live"); !ok {
		t.Error("expected live mute to be active")
	}
	if _, ok := w.Active("stale"); ok {
		t.Error("expected expired mute to be inactive")
	}
	if _, ok := w.Active("unknown"); ok {
		t.Error("expected unknown user to be inactive")
	}
}

func TestActiveReturnsCopy(t *testing.T) {
	w := newTestWatcher()
	expiry := time.Now().Add(time.Hour)
	w.entries["user"] = &models.Mute{UserID: "user", ExpiryDate: expiry}

	m, ok := w.Active("user")
	if !ok {
		t.Fatal("expected active mute")
	}
	m.ExpiryDate = m.ExpiryDate.Add(time.Hour)

	if !w.entries["user"].ExpiryDate.Equal(expiry) {
		t.Error("mutating the returned mute changed the tracked entry")
	}
}

func TestMuteSameExpiryIsNoOp(t *testing.T) {
	w := newTestWatcher()
	expiry := time.Now().Add(time.Hour)
	w.entries["user"] = &models.Mute{UserID: "user", ExpiryDate: expiry}

	err := w.Mute(context.Background(), models.Mute{UserID: "user", ExpiryDate: expiry}, "reason")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Size() != 1 {
		t.Errorf("expected 1 entry, got %d", w.Size())
	}
}

func TestMuteWithoutDatabaseFails(t *testing.T) {
	w := newTestWatcher()
	mute := models.Mute{UserID: "user", ExpiryDate: time.Now().Add(time.Hour)}

	if err := w.Mute(context.Background(), mute, ""); err == nil {
		t.Error("expected an error when the collection is unavailable")
	}
}

func TestUnmuteRemovesEntry(t *testing.T) {
	w := newTestWatcher()
	w.entries["user"] = &models.Mute{UserID: "user", ExpiryDate: time.Now().Add(time.Hour)}

	if err := w.Unmute(context.Background(), "user", "mod"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Size() != 0 {
		t.Errorf("expected 0 entries, got %d", w.Size())
	}
}

func TestUnmuteUnknownUserIsNoOp(t *testing.T) {
	w := newTestWatcher()

	if err := w.Unmute(context.Background(), "nobody", "mod"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSweepLiftsExpiredMutes(t *testing.T) {
	w := newTestWatcher()
	now := time.Now()
	w.entries["live"] = &models.Mute{UserID: "live", ExpiryDate: now.Add(time.Hour)}
	w.entries["stale"] = &models.Mute{UserID: "stale", ExpiryDate: now.Add(-time.Minute)}

	w.sweep()

	if w.Size() != 1 {
		t.Fatalf("expected 1 entry after sweep, got %d", w.Size())
	}
	if _, ok := w.Active("live"); !ok {
		t.Error("sweep removed a live mute")
	}
}

func TestStartStopIdempotent(t *testing.T) {
	w := newTestWatcher()

	w.Start(time.Hour)
	w.Start(time.Hour)
	w.Stop()
	w.Stop()
}

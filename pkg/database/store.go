package database

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/WardenGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// warningCounterKey is the _id of the counters document backing warning ids.
const warningCounterKey = "warnings"

// WarningStore persists the warning ledger. Reads always go to the
// database: derived state must never be served from a cache that a
// concurrent edit could have invalidated.
type WarningStore struct {
	dbInstance *Database
	warnings   *mongo.Collection
	counters   *mongo.Collection
	locks      *UserLock
}

// NewWarningStore creates a WarningStore on the given database.
func NewWarningStore(db *Database) *WarningStore {
	return &WarningStore{
		dbInstance: db,
		warnings:   db.GetCollection("warnings"),
		counters:   db.GetCollection("counters"),
		locks:      NewUserLock(),
	}
}

func (s *WarningStore) ready() error {
	if !s.dbInstance.Connected() || s.warnings == nil {
		return fmt.Errorf("database not connected")
	}
	return nil
}

// NextID reserves the next warning id from the counters collection.
// Ids are store-assigned and monotonically comparable.
func (s *WarningStore) NextID(ctx context.Context) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": warningCounterKey},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

// Warnings returns a user's full history, removed records included, ordered
// by issue date. The escalation engine filters removed records itself.
func (s *WarningStore) Warnings(ctx context.Context, userID string) ([]models.Warning, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "issueDate", Value: 1}})
	cursor, err := s.warnings.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var history []models.Warning
	if err := cursor.All(ctx, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// Warning fetches one record by id. A missing id returns (nil, nil).
func (s *WarningStore) Warning(ctx context.Context, id int64) (*models.Warning, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var w models.Warning
	err := s.warnings.FindOne(ctx, bson.M{"_id": id}).Decode(&w)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// WithUserWarnings runs fn inside the per-user exclusive scope. fn receives
// the user's current full history and returns the history to persist; it is
// written back (upserting new records) only when fn succeeds. Any operation
// that reads state, suspends on a moderator's decision, and writes a record
// back must run in here, or a concurrent edit on the same user can silently
// lose its update.
func (s *WarningStore) WithUserWarnings(ctx context.Context, userID string, fn func(history []models.Warning) ([]models.Warning, error)) ([]models.Warning, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	history, err := s.Warnings(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := fn(history)
	if err != nil {
		return nil, err
	}

	if err := s.ready(); err != nil {
		return nil, err
	}

	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	for i := range updated {
		if _, err := s.warnings.ReplaceOne(writeCtx, bson.M{"_id": updated[i].ID}, &updated[i], opts); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "confstay/internal/bookings/errors"
	"confstay/pkg/config"
	"confstay/pkg/model"
)

const LockCollectionName = "Room_locks"

// RoomLockRepository provides per-room advisory locks. Acquisition is a
// unique-key insert: the collection's _id is the lock key, so at most one
// request holds a room at a time. A TTL index on expires_at reaps locks
// abandoned by a crashed holder.
type RoomLockRepository interface {
	Acquire(ctx context.Context, roomID int64, ttl time.Duration) (string, error)
	Release(ctx context.Context, lockID string) error
}

type mongoRoomLockRepository struct {
	collection *mongo.Collection
}

func NewMongoRoomLockRepository(cfg *config.Config) RoomLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

// Acquire returns the lock ID on success, or ErrLockHeld when another
// request holds the room.
func (r *mongoRoomLockRepository) Acquire(ctx context.Context, roomID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	lock := &model.RoomLock{
		ID:        fmt.Sprintf("room_lock_%d", roomID),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", bookingserrors.ErrLockHeld
		}
		return "", fmt.Errorf("failed to acquire room lock: %w", err)
	}

	return lock.ID, nil
}

func (r *mongoRoomLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}

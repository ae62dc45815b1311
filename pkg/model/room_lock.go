package model

import "time"

// RoomLock is an advisory lock serializing booking writes against one room.
// The ID is derived from the room id, so a unique-key insert is the acquire
// operation. ExpiresAt backs a TTL index that reaps locks left behind by a
// crashed holder.
type RoomLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

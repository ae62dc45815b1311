package model

import "time"

// Booking binds one user to one room. A user has at most one active booking;
// moves are modeled as create-new + delete-old, never an in-place update.
type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID    int64     `json:"user_id" bson:"user_id" validate:"required,gt=0"`
	RoomID    int64     `json:"room_id" bson:"room_id" validate:"required,gt=0"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// BookingWithRoom is the read shape for a user's active booking joined with
// its room detail.
type BookingWithRoom struct {
	Booking `bson:",inline"`
	Room    Room `json:"room" bson:"room"`
}

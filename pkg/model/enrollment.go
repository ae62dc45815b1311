package model

import "time"

// Enrollment is a user's registration record for the conference. It is
// created upstream by the registration service and is immutable here; its
// existence is a prerequisite for any ticket lookup.
type Enrollment struct {
	ID        int64     `json:"id" bson:"_id"`
	UserID    int64     `json:"user_id" bson:"user_id" validate:"required,gt=0"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

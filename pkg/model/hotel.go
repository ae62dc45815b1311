package model

import "time"

// Hotel is a catalog entry owned by the upstream inventory import.
type Hotel struct {
	ID        int64     `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name" validate:"required,min=1,max=200"`
	Image     string    `json:"image" bson:"image"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Room belongs to one hotel. Capacity is the hard seat limit the allocator
// enforces; it is never mutated by this core.
type Room struct {
	ID        int64     `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name" validate:"required,min=1,max=200"`
	Capacity  int       `json:"capacity" bson:"capacity" validate:"required,gt=0"`
	HotelID   int64     `json:"hotel_id" bson:"hotel_id" validate:"required,gt=0"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// HotelWithRooms is the catalog read shape for a single hotel.
type HotelWithRooms struct {
	Hotel `bson:",inline"`
	Rooms []Room `json:"rooms" bson:"rooms"`
}

package events

import "time"

const (
	TypeBookingCreated = "booking.created"
	TypeBookingMoved   = "booking.moved"
)

// BookingCreated is emitted after a booking transaction commits.
type BookingCreated struct {
	BookingID string    `json:"booking_id"`
	UserID    int64     `json:"user_id"`
	RoomID    int64     `json:"room_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BookingMoved is emitted after a move transaction commits; the previous
// booking id identifies the retired row.
type BookingMoved struct {
	BookingID         string    `json:"booking_id"`
	PreviousBookingID string    `json:"previous_booking_id"`
	UserID            int64     `json:"user_id"`
	RoomID            int64     `json:"room_id"`
	PreviousRoomID    int64     `json:"previous_room_id"`
	MovedAt           time.Time `json:"moved_at"`
}

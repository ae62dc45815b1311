package model

import "time"

const (
	TicketStatusReserved = "RESERVED"
	TicketStatusPaid     = "PAID"
)

// TicketType carries the category flags that decide hotel eligibility.
type TicketType struct {
	ID            int64  `json:"id" bson:"_id"`
	Name          string `json:"name" bson:"name"`
	IsRemote      bool   `json:"is_remote" bson:"is_remote"`
	IncludesHotel bool   `json:"includes_hotel" bson:"includes_hotel"`
}

// Ticket is the purchase record attached to an enrollment. The type document
// is embedded so a single read answers every eligibility question.
type Ticket struct {
	ID           int64      `json:"id" bson:"_id"`
	EnrollmentID int64      `json:"enrollment_id" bson:"enrollment_id" validate:"required,gt=0"`
	Status       string     `json:"status" bson:"status" validate:"required,oneof=RESERVED PAID"`
	Type         TicketType `json:"ticket_type" bson:"ticket_type"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
}

// HotelEligible reports whether this ticket grants access to hotel booking.
// Only paid in-person tickets whose type includes accommodation qualify.
func (t *Ticket) HotelEligible() bool {
	return t.Status == TicketStatusPaid && !t.Type.IsRemote && t.Type.IncludesHotel
}

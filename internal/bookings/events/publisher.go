package events

import (
	"context"
	"strconv"
	"time"

	"confstay/pkg/kafka"
	"confstay/pkg/logger"
	"confstay/pkg/middleware"
	"confstay/pkg/model"
)

// Publisher announces committed booking changes to downstream consumers.
// Publishing is best-effort and post-commit: a failure is logged, never
// surfaced to the caller, and never rolls back a booking.
type Publisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingMoved(ctx context.Context, previousID string, previousRoomID int64, booking *model.Booking)
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, source string, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		source:   source,
		log:      log,
	}
}

func (p *kafkaPublisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	msg := kafka.NewMessage().
		WithKey(strconv.FormatInt(booking.RoomID, 10)).
		WithValue(BookingCreated{
			BookingID: booking.ID,
			UserID:    booking.UserID,
			RoomID:    booking.RoomID,
			CreatedAt: booking.CreatedAt,
		}).
		WithEventType(TypeBookingCreated).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		WithSource(p.source).
		Build()

	p.publish(ctx, msg, booking.ID)
}

func (p *kafkaPublisher) BookingMoved(ctx context.Context, previousID string, previousRoomID int64, booking *model.Booking) {
	msg := kafka.NewMessage().
		WithKey(strconv.FormatInt(booking.RoomID, 10)).
		WithValue(BookingMoved{
			BookingID:         booking.ID,
			PreviousBookingID: previousID,
			UserID:            booking.UserID,
			RoomID:            booking.RoomID,
			PreviousRoomID:    previousRoomID,
			MovedAt:           time.Now().UTC(),
		}).
		WithEventType(TypeBookingMoved).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		WithSource(p.source).
		Build()

	p.publish(ctx, msg, booking.ID)
}

func (p *kafkaPublisher) publish(ctx context.Context, msg kafka.Message, bookingID string) {
	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"event_type", msg.GetEventType(),
			"booking_id", bookingID,
			"error", err,
		)
	}
}

// NoopPublisher is used when event publishing is disabled.
type NoopPublisher struct{}

func (NoopPublisher) BookingCreated(context.Context, *model.Booking) {}

func (NoopPublisher) BookingMoved(context.Context, string, int64, *model.Booking) {}

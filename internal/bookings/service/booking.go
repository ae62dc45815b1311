package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "confstay/internal/bookings/errors"
	"confstay/internal/bookings/events"
	"confstay/internal/bookings/repository"
	"confstay/internal/bookings/validator"
	eligibilityservice "confstay/internal/eligibility/service"
	"confstay/pkg/config"
	apperrors "confstay/pkg/errors"
	"confstay/pkg/model"
)

// BookingService allocates hotel rooms to eligible attendees. A user holds at
// most one active booking; moving to another room replaces the old booking
// atomically.
type BookingService interface {
	GetBooking(ctx context.Context, userID int64) (*model.BookingWithRoom, error)
	CreateBooking(ctx context.Context, userID, roomID int64) (string, error)
	UpdateBooking(ctx context.Context, oldBookingID string, userID, roomID int64) (string, error)
}

type bookingService struct {
	cfg         *config.Config
	repo        repository.BookingRepository
	locks       repository.RoomLockRepository
	capacity    CapacityChecker
	eligibility eligibilityservice.Checker
	validator   *validator.BookingValidator
	publisher   events.Publisher
}

func NewBookingService(
	cfg *config.Config,
	repo repository.BookingRepository,
	locks repository.RoomLockRepository,
	capacity CapacityChecker,
	eligibility eligibilityservice.Checker,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
) BookingService {
	return &bookingService{
		cfg:         cfg,
		repo:        repo,
		locks:       locks,
		capacity:    capacity,
		eligibility: eligibility,
		validator:   bookingValidator,
		publisher:   publisher,
	}
}

// GetBooking returns the caller's active booking with its room. An ineligible
// caller gets the same not-found answer as one with no booking, so the read
// path does not leak eligibility state.
func (s *bookingService) GetBooking(ctx context.Context, userID int64) (*model.BookingWithRoom, error) {
	result, err := s.eligibility.Check(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !result.Eligible {
		s.cfg.Log.Info("Booking lookup for ineligible user", "user_id", userID, "reason", result.Reason)
		return nil, apperrors.NotFound("Booking")
	}

	booking, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Booking")
		}
		s.cfg.Log.Error("Failed to retrieve booking", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

// CreateBooking reserves a seat in the given room. Capacity is checked and the
// booking inserted inside one transaction, guarded by a per-room advisory lock
// so concurrent requests for the same room serialize instead of overbooking.
func (s *bookingService) CreateBooking(ctx context.Context, userID, roomID int64) (string, error) {
	result, err := s.eligibility.Check(ctx, userID)
	if err != nil {
		return "", err
	}
	if !result.Eligible {
		s.cfg.Log.Info("Booking denied for ineligible user", "user_id", userID, "reason", result.Reason)
		return "", apperrors.Forbidden("User is not allowed to book a room")
	}

	lockID, err := s.acquireRoomLock(ctx, roomID)
	if err != nil {
		return "", err
	}
	defer s.releaseRoomLock(ctx, lockID)

	booking := &model.Booking{
		UserID: userID,
		RoomID: roomID,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		usage, err := s.capacity.CheckCapacity(sessCtx, roomID)
		if err != nil {
			if errors.Is(err, bookingserrors.ErrRoomNotFound) {
				return apperrors.NotFound("Room")
			}
			return err
		}
		if usage.Full() {
			return apperrors.Forbidden("Room is at full capacity")
		}

		if err := s.validator.ValidateBooking(booking); err != nil {
			return apperrors.InvalidInput("Invalid booking").WithDetails(map[string]any{
				"validation": err.Error(),
			})
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.publisher.BookingCreated(ctx, booking)

	s.cfg.Log.Info("Booking created",
		"booking_id", booking.ID,
		"user_id", userID,
		"room_id", roomID,
	)
	return booking.ID, nil
}

// UpdateBooking moves the caller's active booking to another room. The new
// booking is created and the old one deleted in a single transaction, so a
// failure past the capacity check leaves the original booking in place.
func (s *bookingService) UpdateBooking(ctx context.Context, oldBookingID string, userID, roomID int64) (string, error) {
	result, err := s.eligibility.Check(ctx, userID)
	if err != nil {
		return "", err
	}
	if !result.Eligible {
		s.cfg.Log.Info("Booking update denied for ineligible user", "user_id", userID, "reason", result.Reason)
		return "", apperrors.Forbidden("User is not allowed to book a room")
	}

	// A stale or foreign booking id gets the same answer as having no
	// booking at all.
	current, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return "", apperrors.Forbidden("Booking does not belong to user")
		}
		s.cfg.Log.Error("Failed to retrieve booking for update", "user_id", userID, "error", err)
		return "", apperrors.Internal("Failed to retrieve booking", err)
	}
	if current.ID != oldBookingID {
		s.cfg.Log.Info("Booking update with stale booking id",
			"user_id", userID,
			"booking_id", oldBookingID,
			"active_booking_id", current.ID,
		)
		return "", apperrors.Forbidden("Booking does not belong to user")
	}

	if err := s.validator.ValidateRoomID(roomID); err != nil {
		s.cfg.Log.Info("Booking update with invalid room id", "user_id", userID, "room_id", roomID)
		return "", apperrors.Forbidden("Invalid room id")
	}

	lockID, err := s.acquireRoomLock(ctx, roomID)
	if err != nil {
		return "", err
	}
	defer s.releaseRoomLock(ctx, lockID)

	booking := &model.Booking{
		UserID: userID,
		RoomID: roomID,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		usage, err := s.capacity.CheckCapacity(sessCtx, roomID)
		if err != nil {
			if errors.Is(err, bookingserrors.ErrRoomNotFound) {
				return apperrors.NotFound("Room")
			}
			return err
		}
		if usage.Full() {
			return apperrors.Forbidden("Room is at full capacity")
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		if err := s.repo.Delete(sessCtx, current.ID); err != nil {
			return apperrors.Internal("Failed to retire previous booking", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.publisher.BookingMoved(ctx, current.ID, current.RoomID, booking)

	s.cfg.Log.Info("Booking moved",
		"booking_id", booking.ID,
		"previous_booking_id", current.ID,
		"user_id", userID,
		"room_id", roomID,
		"previous_room_id", current.RoomID,
	)
	return booking.ID, nil
}

// acquireRoomLock takes the per-room advisory lock, retrying a bounded number
// of times while another request holds it. Exhausting the retries is a
// conflict, not a capacity verdict.
func (s *bookingService) acquireRoomLock(ctx context.Context, roomID int64) (string, error) {
	for attempt := 0; ; attempt++ {
		lockID, err := s.locks.Acquire(ctx, roomID, s.cfg.RoomLockTTL)
		if err == nil {
			return lockID, nil
		}
		if !errors.Is(err, bookingserrors.ErrLockHeld) {
			s.cfg.Log.Error("Failed to acquire room lock", "room_id", roomID, "error", err)
			return "", apperrors.Internal("Failed to acquire room lock", err)
		}
		if attempt >= s.cfg.RoomLockRetries {
			s.cfg.Log.Warn("Room lock contention exhausted retries", "room_id", roomID, "attempts", attempt+1)
			return "", apperrors.Conflict("Room is being booked by another request")
		}

		select {
		case <-ctx.Done():
			return "", apperrors.Internal("Request canceled while waiting for room lock", ctx.Err())
		case <-time.After(s.cfg.RoomLockRetryDelay):
		}
	}
}

// releaseRoomLock drops the advisory lock even when the request context is
// already canceled. A failed release only shortens to the TTL, so it is
// logged and not surfaced.
func (s *bookingService) releaseRoomLock(ctx context.Context, lockID string) {
	if err := s.locks.Release(context.WithoutCancel(ctx), lockID); err != nil {
		s.cfg.Log.Warn("Failed to release room lock", "lock_id", lockID, "error", err)
	}
}

package service

import (
	"context"
	"errors"

	bookingserrors "confstay/internal/bookings/errors"
	"confstay/internal/bookings/repository"
	"confstay/pkg/config"
	apperrors "confstay/pkg/errors"
	"confstay/pkg/model"
)

// RoomUsage reports a room's current occupancy against its capacity. The
// caller decides admission.
type RoomUsage struct {
	Room      *model.Room
	Occupancy int64
}

func (u *RoomUsage) Full() bool {
	return u.Occupancy >= int64(u.Room.Capacity)
}

// CapacityChecker resolves a room and its occupancy. Read-only; when called
// with a SessionContext both reads run inside the caller's transaction.
type CapacityChecker interface {
	CheckCapacity(ctx context.Context, roomID int64) (*RoomUsage, error)
}

type capacityService struct {
	cfg      *config.Config
	rooms    repository.RoomRepository
	bookings repository.BookingRepository
}

func NewCapacityService(
	cfg *config.Config,
	rooms repository.RoomRepository,
	bookings repository.BookingRepository,
) CapacityChecker {
	return &capacityService{
		cfg:      cfg,
		rooms:    rooms,
		bookings: bookings,
	}
}

func (s *capacityService) CheckCapacity(ctx context.Context, roomID int64) (*RoomUsage, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrRoomNotFound) {
			return nil, bookingserrors.ErrRoomNotFound
		}
		s.cfg.Log.Error("Failed to resolve room", "room_id", roomID, "error", err)
		return nil, apperrors.Internal("Failed to resolve room", err)
	}

	occupancy, err := s.bookings.CountByRoom(ctx, roomID)
	if err != nil {
		s.cfg.Log.Error("Failed to count room occupancy", "room_id", roomID, "error", err)
		return nil, apperrors.Internal("Failed to count room occupancy", err)
	}

	return &RoomUsage{Room: room, Occupancy: occupancy}, nil
}

package service

import (
	"context"
	"errors"

	eligibilityservice "confstay/internal/eligibility/service"
	"confstay/internal/hotels/repository"
	"confstay/pkg/config"
	apperrors "confstay/pkg/errors"
	"confstay/pkg/model"
)

// HotelService serves the gated hotel catalog. Unlike the booking read path,
// the catalog distinguishes why a caller is shut out, because the storefront
// renders a different screen per reason.
type HotelService interface {
	ListHotels(ctx context.Context, userID int64) ([]model.Hotel, error)
	GetHotelRooms(ctx context.Context, userID, hotelID int64) (*model.HotelWithRooms, error)
}

type hotelService struct {
	cfg         *config.Config
	repo        repository.HotelRepository
	eligibility eligibilityservice.Checker
}

func NewHotelService(
	cfg *config.Config,
	repo repository.HotelRepository,
	eligibility eligibilityservice.Checker,
) HotelService {
	return &hotelService{
		cfg:         cfg,
		repo:        repo,
		eligibility: eligibility,
	}
}

func (s *hotelService) ListHotels(ctx context.Context, userID int64) ([]model.Hotel, error) {
	if err := s.gate(ctx, userID); err != nil {
		return nil, err
	}

	hotels, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list hotels", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to list hotels", err)
	}
	return hotels, nil
}

func (s *hotelService) GetHotelRooms(ctx context.Context, userID, hotelID int64) (*model.HotelWithRooms, error) {
	if err := s.gate(ctx, userID); err != nil {
		return nil, err
	}

	hotel, err := s.repo.FindByIDWithRooms(ctx, hotelID)
	if err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return nil, apperrors.NotFound("Hotel")
		}
		s.cfg.Log.Error("Failed to retrieve hotel", "user_id", userID, "hotel_id", hotelID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve hotel", err)
	}
	return hotel, nil
}

// gate maps an eligibility verdict to the catalog's error surface. A missing
// enrollment or ticket reads as not found, an unpaid ticket asks for payment,
// and a paid ticket without hotel access is forbidden.
func (s *hotelService) gate(ctx context.Context, userID int64) error {
	result, err := s.eligibility.Check(ctx, userID)
	if err != nil {
		return err
	}
	if result.Eligible {
		return nil
	}

	s.cfg.Log.Info("Hotel catalog denied", "user_id", userID, "reason", result.Reason)
	switch result.Reason {
	case eligibilityservice.ReasonNotEnrolled:
		return apperrors.NotFound("Enrollment")
	case eligibilityservice.ReasonNoTicket:
		return apperrors.NotFound("Ticket")
	case eligibilityservice.ReasonTicketUnpaid:
		return apperrors.PaymentRequired("Ticket has not been paid")
	default:
		return apperrors.Forbidden("Ticket does not include hotel accommodation")
	}
}

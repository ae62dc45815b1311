package service

import (
	"context"
	"errors"

	"confstay/internal/eligibility/repository"
	"confstay/pkg/config"
	apperrors "confstay/pkg/errors"
	"confstay/pkg/model"
)

// Reason classifies why a user is not allowed to touch hotel booking.
type Reason string

const (
	ReasonNone                   Reason = ""
	ReasonNotEnrolled            Reason = "NOT_ENROLLED"
	ReasonNoTicket               Reason = "NO_TICKET"
	ReasonTicketUnpaid           Reason = "TICKET_UNPAID"
	ReasonTicketNotHotelEligible Reason = "TICKET_NOT_HOTEL_ELIGIBLE"
)

// Result is the single canonical eligibility verdict. Every consumer maps
// the reason to its own external error exactly once; the same underlying
// cause never produces inconsistent signals within one operation.
type Result struct {
	Eligible bool
	Reason   Reason
}

var eligible = Result{Eligible: true}

func ineligible(reason Reason) Result {
	return Result{Eligible: false, Reason: reason}
}

// Checker decides whether a user holds a valid in-person, paid,
// hotel-inclusive ticket. Side-effect-free.
type Checker interface {
	Check(ctx context.Context, userID int64) (Result, error)
}

type eligibilityService struct {
	cfg         *config.Config
	enrollments repository.EnrollmentRepository
	tickets     repository.TicketRepository
}

func NewEligibilityService(
	cfg *config.Config,
	enrollments repository.EnrollmentRepository,
	tickets repository.TicketRepository,
) Checker {
	return &eligibilityService{
		cfg:         cfg,
		enrollments: enrollments,
		tickets:     tickets,
	}
}

// Check walks the enrollment -> ticket chain. Storage failures surface as
// internal errors; everything else is a verdict, not an error.
func (s *eligibilityService) Check(ctx context.Context, userID int64) (Result, error) {
	enrollment, err := s.enrollments.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			return ineligible(ReasonNotEnrolled), nil
		}
		s.cfg.Log.Error("Failed to look up enrollment", "user_id", userID, "error", err)
		return Result{}, apperrors.Internal("Failed to check eligibility", err)
	}

	ticket, err := s.tickets.FindByEnrollment(ctx, enrollment.ID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return ineligible(ReasonNoTicket), nil
		}
		s.cfg.Log.Error("Failed to look up ticket", "user_id", userID, "enrollment_id", enrollment.ID, "error", err)
		return Result{}, apperrors.Internal("Failed to check eligibility", err)
	}

	if ticket.Status != model.TicketStatusPaid {
		return ineligible(ReasonTicketUnpaid), nil
	}

	if !ticket.HotelEligible() {
		return ineligible(ReasonTicketNotHotelEligible), nil
	}

	return eligible, nil
}

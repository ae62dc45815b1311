package service

import (
	"context"
	"testing"

	eligibilityservice "confstay/internal/eligibility/service"
	"confstay/internal/hotels/repository"
	"confstay/pkg/config"
	apperrors "confstay/pkg/errors"
	"confstay/pkg/logger"
	"confstay/pkg/model"
)

type mockHotelRepository struct {
	findAllFunc           func(ctx context.Context) ([]model.Hotel, error)
	findByIDWithRoomsFunc func(ctx context.Context, hotelID int64) (*model.HotelWithRooms, error)
}

func (m *mockHotelRepository) FindAll(ctx context.Context) ([]model.Hotel, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []model.Hotel{}, nil
}

func (m *mockHotelRepository) FindByIDWithRooms(ctx context.Context, hotelID int64) (*model.HotelWithRooms, error) {
	if m.findByIDWithRoomsFunc != nil {
		return m.findByIDWithRoomsFunc(ctx, hotelID)
	}
	return nil, repository.ErrHotelNotFound
}

type mockEligibilityChecker struct {
	result eligibilityservice.Result
}

func (m *mockEligibilityChecker) Check(ctx context.Context, userID int64) (eligibilityservice.Result, error) {
	return m.result, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func checkerWith(reason eligibilityservice.Reason) *mockEligibilityChecker {
	return &mockEligibilityChecker{
		result: eligibilityservice.Result{
			Eligible: reason == eligibilityservice.ReasonNone,
			Reason:   reason,
		},
	}
}

func TestListHotels_GateMapping(t *testing.T) {
	tests := []struct {
		name     string
		reason   eligibilityservice.Reason
		wantCode string
	}{
		{name: "not enrolled", reason: eligibilityservice.ReasonNotEnrolled, wantCode: apperrors.CodeNotFound},
		{name: "no ticket", reason: eligibilityservice.ReasonNoTicket, wantCode: apperrors.CodeNotFound},
		{name: "unpaid ticket", reason: eligibilityservice.ReasonTicketUnpaid, wantCode: apperrors.CodePaymentRequired},
		{name: "ticket without hotel access", reason: eligibilityservice.ReasonTicketNotHotelEligible, wantCode: apperrors.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewHotelService(testConfig(), &mockHotelRepository{}, checkerWith(tt.reason))

			_, err := svc.ListHotels(context.Background(), 1)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			appErr, ok := err.(*apperrors.AppError)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, appErr.Code)
			}
		})
	}
}

func TestListHotels_EmptyCatalogIsEmptyList(t *testing.T) {
	svc := NewHotelService(testConfig(), &mockHotelRepository{}, checkerWith(eligibilityservice.ReasonNone))

	hotels, err := svc.ListHotels(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hotels == nil {
		t.Fatal("expected an empty list, got nil")
	}
	if len(hotels) != 0 {
		t.Errorf("expected 0 hotels, got %d", len(hotels))
	}
}

func TestListHotels_ReturnsCatalog(t *testing.T) {
	repo := &mockHotelRepository{
		findAllFunc: func(ctx context.Context) ([]model.Hotel, error) {
			return []model.Hotel{
				{ID: 1, Name: "Grand Plaza"},
				{ID: 2, Name: "Harbor View"},
			}, nil
		},
	}
	svc := NewHotelService(testConfig(), repo, checkerWith(eligibilityservice.ReasonNone))

	hotels, err := svc.ListHotels(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hotels) != 2 {
		t.Errorf("expected 2 hotels, got %d", len(hotels))
	}
}

func TestGetHotelRooms_UnknownHotel(t *testing.T) {
	svc := NewHotelService(testConfig(), &mockHotelRepository{}, checkerWith(eligibilityservice.ReasonNone))

	_, err := svc.GetHotelRooms(context.Background(), 1, 42)
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T (%v)", err, err)
	}
	if appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestGetHotelRooms_ReturnsHotelWithRooms(t *testing.T) {
	repo := &mockHotelRepository{
		findByIDWithRoomsFunc: func(ctx context.Context, hotelID int64) (*model.HotelWithRooms, error) {
			return &model.HotelWithRooms{
				Hotel: model.Hotel{ID: hotelID, Name: "Grand Plaza"},
				Rooms: []model.Room{
					{ID: 10, Name: "Standard", Capacity: 2, HotelID: hotelID},
					{ID: 11, Name: "Suite", Capacity: 4, HotelID: hotelID},
				},
			}, nil
		},
	}
	svc := NewHotelService(testConfig(), repo, checkerWith(eligibilityservice.ReasonNone))

	hotel, err := svc.GetHotelRooms(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hotel.ID != 5 {
		t.Errorf("expected hotel 5, got %d", hotel.ID)
	}
	if len(hotel.Rooms) != 2 {
		t.Errorf("expected 2 rooms, got %d", len(hotel.Rooms))
	}
}

func TestGetHotelRooms_GateRunsBeforeLookup(t *testing.T) {
	repo := &mockHotelRepository{
		findByIDWithRoomsFunc: func(ctx context.Context, hotelID int64) (*model.HotelWithRooms, error) {
			t.Fatal("repository must not be consulted for an ineligible user")
			return nil, nil
		},
	}
	svc := NewHotelService(testConfig(), repo, checkerWith(eligibilityservice.ReasonTicketUnpaid))

	_, err := svc.GetHotelRooms(context.Background(), 1, 5)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

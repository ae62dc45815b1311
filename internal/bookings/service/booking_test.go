package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	bookingserrors "confstay/internal/bookings/errors"
	"confstay/internal/bookings/events"
	"confstay/internal/bookings/repository"
	"confstay/internal/bookings/validator"
	eligibilityservice "confstay/internal/eligibility/service"
	"confstay/pkg/config"
	mongotx "confstay/pkg/db/mongo"
	apperrors "confstay/pkg/errors"
	"confstay/pkg/logger"
	"confstay/pkg/model"
)

type mockBookingRepository struct {
	findActiveByUserFunc   func(ctx context.Context, userID int64) (*model.BookingWithRoom, error)
	createFunc             func(ctx context.Context, booking *model.Booking) error
	deleteFunc             func(ctx context.Context, id string) error
	countByRoomFunc        func(ctx context.Context, roomID int64) (int64, error)
	executeTransactionFunc func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockBookingRepository) FindActiveByUser(ctx context.Context, userID int64) (*model.BookingWithRoom, error) {
	if m.findActiveByUserFunc != nil {
		return m.findActiveByUserFunc(ctx, userID)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = primitive.NewObjectID().Hex()
	return nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingRepository) CountByRoom(ctx context.Context, roomID int64) (int64, error) {
	if m.countByRoomFunc != nil {
		return m.countByRoomFunc(ctx, roomID)
	}
	return 0, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.executeTransactionFunc != nil {
		return m.executeTransactionFunc(ctx, fn)
	}
	return fn(nil)
}

type mockRoomLockRepository struct {
	mu          sync.Mutex
	held        map[string]bool
	acquireFunc func(ctx context.Context, roomID int64, ttl time.Duration) (string, error)
	releases    int
}

func (m *mockRoomLockRepository) Acquire(ctx context.Context, roomID int64, ttl time.Duration) (string, error) {
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, roomID, ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held == nil {
		m.held = make(map[string]bool)
	}
	lockID := lockIDForRoom(roomID)
	if m.held[lockID] {
		return "", bookingserrors.ErrLockHeld
	}
	m.held[lockID] = true
	return lockID, nil
}

func (m *mockRoomLockRepository) Release(ctx context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, lockID)
	m.releases++
	return nil
}

func lockIDForRoom(roomID int64) string {
	return "room_lock_" + strconv.FormatInt(roomID, 10)
}

type mockCapacityChecker struct {
	checkFunc func(ctx context.Context, roomID int64) (*RoomUsage, error)
}

func (m *mockCapacityChecker) CheckCapacity(ctx context.Context, roomID int64) (*RoomUsage, error) {
	if m.checkFunc != nil {
		return m.checkFunc(ctx, roomID)
	}
	return nil, bookingserrors.ErrRoomNotFound
}

type mockEligibilityChecker struct {
	result eligibilityservice.Result
	err    error
}

func (m *mockEligibilityChecker) Check(ctx context.Context, userID int64) (eligibilityservice.Result, error) {
	return m.result, m.err
}

type recordingPublisher struct {
	mu      sync.Mutex
	created []*model.Booking
	moved   []string
}

func (p *recordingPublisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, booking)
}

func (p *recordingPublisher) BookingMoved(ctx context.Context, previousID string, previousRoomID int64, booking *model.Booking) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moved = append(p.moved, previousID)
}

func testConfig() *config.Config {
	return &config.Config{
		RoomLockTTL:        time.Second,
		RoomLockRetries:    3,
		RoomLockRetryDelay: time.Millisecond,
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func eligibleChecker() *mockEligibilityChecker {
	return &mockEligibilityChecker{result: eligibilityservice.Result{Eligible: true}}
}

func ineligibleChecker(reason eligibilityservice.Reason) *mockEligibilityChecker {
	return &mockEligibilityChecker{result: eligibilityservice.Result{Eligible: false, Reason: reason}}
}

func roomUsage(roomID int64, capacity int, occupancy int64) *mockCapacityChecker {
	return &mockCapacityChecker{
		checkFunc: func(ctx context.Context, id int64) (*RoomUsage, error) {
			if id != roomID {
				return nil, bookingserrors.ErrRoomNotFound
			}
			return &RoomUsage{
				Room:      &model.Room{ID: roomID, Name: "Room", Capacity: capacity, HotelID: 1},
				Occupancy: occupancy,
			}, nil
		},
	}
}

func newTestService(
	cfg *config.Config,
	repo repository.BookingRepository,
	locks repository.RoomLockRepository,
	capacity CapacityChecker,
	eligibility eligibilityservice.Checker,
	publisher events.Publisher,
) BookingService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return NewBookingService(cfg, repo, locks, capacity, eligibility, validator.NewBookingValidator(cfg.Log), publisher)
}

func assertAppErrorCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", wantCode)
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != wantCode {
		t.Fatalf("expected code %s, got %s (%s)", wantCode, appErr.Code, appErr.Message)
	}
}

func TestGetBooking_IneligibleReadsAsNotFound(t *testing.T) {
	repo := &mockBookingRepository{
		findActiveByUserFunc: func(ctx context.Context, userID int64) (*model.BookingWithRoom, error) {
			t.Fatal("repository must not be consulted for an ineligible user")
			return nil, nil
		},
	}
	svc := newTestService(testConfig(), repo, &mockRoomLockRepository{}, &mockCapacityChecker{}, ineligibleChecker(eligibilityservice.ReasonTicketUnpaid), nil)

	_, err := svc.GetBooking(context.Background(), 1)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestGetBooking_NoActiveBooking(t *testing.T) {
	svc := newTestService(testConfig(), &mockBookingRepository{}, &mockRoomLockRepository{}, &mockCapacityChecker{}, eligibleChecker(), nil)

	_, err := svc.GetBooking(context.Background(), 1)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestGetBooking_ReturnsBookingWithRoom(t *testing.T) {
	want := &model.BookingWithRoom{
		Booking: model.Booking{ID: "66adc0ffee0000000000cafe", UserID: 1, RoomID: 7},
		Room:    model.Room{ID: 7, Name: "Suite", Capacity: 2, HotelID: 3},
	}
	repo := &mockBookingRepository{
		findActiveByUserFunc: func(ctx context.Context, userID int64) (*model.BookingWithRoom, error) {
			return want, nil
		},
	}
	svc := newTestService(testConfig(), repo, &mockRoomLockRepository{}, &mockCapacityChecker{}, eligibleChecker(), nil)

	got, err := svc.GetBooking(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != want.ID || got.Room.ID != want.Room.ID {
		t.Errorf("expected booking %s in room %d, got %s in room %d", want.ID, want.Room.ID, got.ID, got.Room.ID)
	}
}

func TestCreateBooking_IneligibleIsForbidden(t *testing.T) {
	created := false
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			created = true
			return nil
		},
	}
	svc := newTestService(testConfig(), repo, &mockRoomLockRepository{}, roomUsage(7, 2, 0), ineligibleChecker(eligibilityservice.ReasonNotEnrolled), nil)

	_, err := svc.CreateBooking(context.Background(), 1, 7)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
	if created {
		t.Error("booking must not be created for an ineligible user")
	}
}

func TestCreateBooking_UnknownRoomIsNotFound(t *testing.T) {
	created := false
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			created = true
			return nil
		},
	}
	svc := newTestService(testConfig(), repo, &mockRoomLockRepository{}, &mockCapacityChecker{}, eligibleChecker(), nil)

	_, err := svc.CreateBooking(context.Background(), 1, 99)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
	if created {
		t.Error("booking must not be created for an unknown room")
	}
}

func TestCreateBooking_FullRoomIsForbidden(t *testing.T) {
	created := false
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			created = true
			return nil
		},
	}
	svc := newTestService(testConfig(), repo, &mockRoomLockRepository{}, roomUsage(7, 2, 2), eligibleChecker(), nil)

	_, err := svc.CreateBooking(context.Background(), 1, 7)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
	if created {
		t.Error("booking must not be created in a full room")
	}
}

func TestCreateBooking_Success(t *testing.T) {
	locks := &mockRoomLockRepository{}
	publisher := &recordingPublisher{}
	svc := newTestService(testConfig(), &mockBookingRepository{}, locks, roomUsage(7, 2, 1), eligibleChecker(), publisher)

	bookingID, err := svc.CreateBooking(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bookingID == "" {
		t.Fatal("expected a booking id")
	}
	if locks.releases != 1 {
		t.Errorf("expected 1 lock release, got %d", locks.releases)
	}
	if len(publisher.created) != 1 {
		t.Fatalf("expected 1 created event, got %d", len(publisher.created))
	}
	if publisher.created[0].RoomID != 7 {
		t.Errorf("expected event for room 7, got %d", publisher.created[0].RoomID)
	}
}

func TestCreateBooking_LockContentionIsConflict(t *testing.T) {
	cfg := testConfig()
	attempts := 0
	locks := &mockRoomLockRepository{
		acquireFunc: func(ctx context.Context, roomID int64, ttl time.Duration) (string, error) {
			attempts++
			return "", bookingserrors.ErrLockHeld
		},
	}
	svc := newTestService(cfg, &mockBookingRepository{}, locks, roomUsage(7, 2, 0), eligibleChecker(), nil)

	_, err := svc.CreateBooking(context.Background(), 1, 7)
	assertAppErrorCode(t, err, apperrors.CodeConflict)
	if attempts != cfg.RoomLockRetries+1 {
		t.Errorf("expected %d acquire attempts, got %d", cfg.RoomLockRetries+1, attempts)
	}
}

func TestUpdateBooking_NoActiveBookingIsForbidden(t *testing.T) {
	svc := newTestService(testConfig(), &mockBookingRepository{}, &mockRoomLockRepository{}, roomUsage(7, 2, 0), eligibleChecker(), nil)

	_, err := svc.UpdateBooking(context.Background(), "66adc0ffee0000000000cafe", 1, 7)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestUpdateBooking_StaleBookingIDIsForbidden(t *testing.T) {
	mutated := false
	repo := &mockBookingRepository{
		findActiveByUserFunc: func(ctx context.Context, userID int64) (*model.BookingWithRoom, error) {
			return &model.BookingWithRoom{
				Booking: model.Booking{ID: "66adc0ffee0000000000cafe", UserID: userID, RoomID: 3},
			}, nil
		},
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			mutated = true
			return nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			mutated = true
			return nil
		},
	}
	svc := newTestService(testConfig(), repo, &mockRoomLockRepository{}, roomUsage(7, 2, 0), eligibleChecker(), nil)

	_, err := svc.UpdateBooking(context.Background(), "66adc0ffee0000000000beef", 1, 7)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
	if mutated {
		t.Error("a stale booking id must not mutate anything")
	}
}

func TestUpdateBooking_NonPositiveRoomIDIsForbidden(t *testing.T) {
	mutated := false
	repo := &mockBookingRepository{
		findActiveByUserFunc: func(ctx context.Context, userID int64) (*model.BookingWithRoom, error) {
			return &model.BookingWithRoom{
				Booking: model.Booking{ID: "66adc0ffee0000000000cafe", UserID: userID, RoomID: 3},
			}, nil
		},
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			mutated = true
			return nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			mutated = true
			return nil
		},
	}

	for _, roomID := range []int64{0, -5} {
		svc := newTestService(testConfig(), repo, &mockRoomLockRepository{}, roomUsage(7, 2, 0), eligibleChecker(), nil)

		_, err := svc.UpdateBooking(context.Background(), "66adc0ffee0000000000cafe", 1, roomID)
		assertAppErrorCode(t, err, apperrors.CodeForbidden)
	}
	if mutated {
		t.Error("a non-positive room id must not mutate anything")
	}
}

func TestUpdateBooking_FullDestinationIsForbidden(t *testing.T) {
	mutated := false
	repo := &mockBookingRepository{
		findActiveByUserFunc: func(ctx context.Context, userID int64) (*model.BookingWithRoom, error) {
			return &model.BookingWithRoom{
				Booking: model.Booking{ID: "66adc0ffee0000000000cafe", UserID: userID, RoomID: 3},
			}, nil
		},
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			mutated = true
			return nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			mutated = true
			return nil
		},
	}
	svc := newTestService(testConfig(), repo, &mockRoomLockRepository{}, roomUsage(7, 2, 2), eligibleChecker(), nil)

	_, err := svc.UpdateBooking(context.Background(), "66adc0ffee0000000000cafe", 1, 7)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
	if mutated {
		t.Error("a full destination room must not mutate anything")
	}
}

func TestUpdateBooking_MovesAtomically(t *testing.T) {
	oldID := "66adc0ffee0000000000cafe"
	var createdID string
	var deletedID string
	repo := &mockBookingRepository{
		findActiveByUserFunc: func(ctx context.Context, userID int64) (*model.BookingWithRoom, error) {
			return &model.BookingWithRoom{
				Booking: model.Booking{ID: oldID, UserID: userID, RoomID: 3},
			}, nil
		},
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			booking.ID = primitive.NewObjectID().Hex()
			createdID = booking.ID
			return nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			if createdID == "" {
				t.Error("previous booking deleted before the new one was created")
			}
			deletedID = id
			return nil
		},
	}
	publisher := &recordingPublisher{}
	svc := newTestService(testConfig(), repo, &mockRoomLockRepository{}, roomUsage(7, 2, 1), eligibleChecker(), publisher)

	newID, err := svc.UpdateBooking(context.Background(), oldID, 1, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newID != createdID {
		t.Errorf("expected returned id %s, got %s", createdID, newID)
	}
	if newID == oldID {
		t.Error("a move must produce a new booking id")
	}
	if deletedID != oldID {
		t.Errorf("expected previous booking %s deleted, got %s", oldID, deletedID)
	}
	if len(publisher.moved) != 1 || publisher.moved[0] != oldID {
		t.Errorf("expected one moved event for %s, got %v", oldID, publisher.moved)
	}
}

func TestUpdateBooking_DeleteFailureAbortsMove(t *testing.T) {
	repo := &mockBookingRepository{
		findActiveByUserFunc: func(ctx context.Context, userID int64) (*model.BookingWithRoom, error) {
			return &model.BookingWithRoom{
				Booking: model.Booking{ID: "66adc0ffee0000000000cafe", UserID: userID, RoomID: 3},
			}, nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			return errors.New("write conflict")
		},
	}
	publisher := &recordingPublisher{}
	svc := newTestService(testConfig(), repo, &mockRoomLockRepository{}, roomUsage(7, 2, 0), eligibleChecker(), publisher)

	_, err := svc.UpdateBooking(context.Background(), "66adc0ffee0000000000cafe", 1, 7)
	assertAppErrorCode(t, err, apperrors.CodeInternal)
	if len(publisher.moved) != 0 {
		t.Error("no event must be published for an aborted move")
	}
}

// Concurrent creates against one room must admit exactly min(N, C) users.
// The shared store plays the role of the database; the lock repository
// serializes capacity checks the way the advisory lock does in Mongo.
func TestCreateBooking_ConcurrentRequestsRespectCapacity(t *testing.T) {
	const n = 8
	const capacity = 3

	cfg := testConfig()
	cfg.RoomLockRetries = 1000

	var mu sync.Mutex
	bookings := []*model.Booking{}

	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			mu.Lock()
			defer mu.Unlock()
			booking.ID = primitive.NewObjectID().Hex()
			bookings = append(bookings, booking)
			return nil
		},
	}
	capChecker := &mockCapacityChecker{
		checkFunc: func(ctx context.Context, roomID int64) (*RoomUsage, error) {
			mu.Lock()
			defer mu.Unlock()
			count := int64(0)
			for _, b := range bookings {
				if b.RoomID == roomID {
					count++
				}
			}
			return &RoomUsage{
				Room:      &model.Room{ID: roomID, Name: "Room", Capacity: capacity, HotelID: 1},
				Occupancy: count,
			}, nil
		},
	}
	locks := &mockRoomLockRepository{}
	svc := newTestService(cfg, repo, locks, capChecker, eligibleChecker(), nil)

	var wg sync.WaitGroup
	results := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.CreateBooking(context.Background(), int64(i+1), 7)
		}(i)
	}
	wg.Wait()

	successes := 0
	forbidden := 0
	for i, err := range results {
		switch {
		case err == nil:
			successes++
		default:
			appErr, ok := err.(*apperrors.AppError)
			if !ok {
				t.Fatalf("request %d: unexpected error type %T: %v", i, err, err)
			}
			if appErr.Code != apperrors.CodeForbidden {
				t.Fatalf("request %d: expected FORBIDDEN, got %s", i, appErr.Code)
			}
			forbidden++
		}
	}

	if successes != capacity {
		t.Errorf("expected %d successful bookings, got %d", capacity, successes)
	}
	if forbidden != n-capacity {
		t.Errorf("expected %d rejections, got %d", n-capacity, forbidden)
	}
	if len(bookings) != capacity {
		t.Errorf("expected %d stored bookings, got %d", capacity, len(bookings))
	}
}

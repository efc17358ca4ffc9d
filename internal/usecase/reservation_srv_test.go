package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"movie-reservation/internal/data/entity"
	"movie-reservation/internal/data/repository"
	"movie-reservation/internal/dto/request"
	"movie-reservation/pkg/lock"
	"movie-reservation/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type reservationFixture struct {
	showtimeRepo    *fakeShowtimeRepo
	reservationRepo *fakeReservationRepo
	svc             ReservationService
}

func newReservationFixture() *reservationFixture {
	showtimeRepo := newFakeShowtimeRepo()
	reservationRepo := newFakeReservationRepo()
	repo := &repository.Repository{
		Showtime:    showtimeRepo,
		Reservation: reservationRepo,
	}
	inventory := NewInventoryService(repo, lock.NewKeyedMutex(), nil, nil, zap.NewNop())
	return &reservationFixture{
		showtimeRepo:    showtimeRepo,
		reservationRepo: reservationRepo,
		svc:             NewReservationService(repo, inventory, zap.NewNop()),
	}
}

func createRequest(showtimeID uuid.UUID, seats ...string) *request.CreateReservationRequest {
	selections := make([]request.SeatSelection, len(seats))
	for i, seat := range seats {
		selections[i] = request.SeatSelection{SeatNumber: seat}
	}
	return &request.CreateReservationRequest{
		ShowtimeID: showtimeID.String(),
		Seats:      selections,
	}
}

func TestCreateReservation(t *testing.T) {
	f := newReservationFixture()
	showtime := seedShowtime(t, f.showtimeRepo, 10, 24*time.Hour)
	userID := uuid.New()

	resp, err := f.svc.Create(context.Background(), userID.String(), createRequest(showtime.ID, "A1", "A3"))
	require.NoError(t, err)

	assert.Equal(t, entity.ReservationStatusPending, resp.Status)
	assert.True(t, strings.HasPrefix(resp.BookingReference, "BK"))
	assert.Equal(t, 25.0, resp.TotalAmount)
	require.Len(t, resp.Seats, 2)
	assert.Equal(t, "A1", resp.Seats[0].SeatNumber)
	assert.Equal(t, "premium", resp.Seats[0].SeatType)

	stored, _ := f.showtimeRepo.FindByID(context.Background(), showtime.ID)
	assert.Equal(t, 8, stored.AvailableSeats)
	assert.True(t, stored.SeatMap["A1"].IsBooked)
}

func TestCreateReservationSeatConflict(t *testing.T) {
	f := newReservationFixture()
	showtime := seedShowtime(t, f.showtimeRepo, 10, 24*time.Hour)

	_, err := f.svc.Create(context.Background(), uuid.NewString(), createRequest(showtime.ID, "A1"))
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), uuid.NewString(), createRequest(showtime.ID, "A1"))

	var unavailableErr *SeatsUnavailableError
	require.ErrorAs(t, err, &unavailableErr)
	assert.Equal(t, []string{"A1"}, unavailableErr.Seats)
}

func TestCreateReservationValidation(t *testing.T) {
	f := newReservationFixture()

	_, err := f.svc.Create(context.Background(), uuid.NewString(), &request.CreateReservationRequest{
		ShowtimeID: uuid.NewString(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestCreateReservationReleasesSeatsOnPersistFailure(t *testing.T) {
	f := newReservationFixture()
	showtime := seedShowtime(t, f.showtimeRepo, 10, 24*time.Hour)
	f.reservationRepo.failCreate = true

	_, err := f.svc.Create(context.Background(), uuid.NewString(), createRequest(showtime.ID, "A1", "A2"))
	require.Error(t, err)

	// The committed seats must be freed again, or they leak without an owner.
	stored, _ := f.showtimeRepo.FindByID(context.Background(), showtime.ID)
	assert.Equal(t, 10, stored.AvailableSeats)
	assert.Equal(t, 0, stored.SeatMap.BookedCount())
}

func TestCancelReservation(t *testing.T) {
	f := newReservationFixture()
	showtime := seedShowtime(t, f.showtimeRepo, 10, 24*time.Hour)
	userID := uuid.New()

	created, err := f.svc.Create(context.Background(), userID.String(), createRequest(showtime.ID, "A1", "A2"))
	require.NoError(t, err)

	resp, err := f.svc.Cancel(context.Background(), created.ID, utils.Actor{ID: userID})
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusCancelled, resp.Status)

	stored, _ := f.showtimeRepo.FindByID(context.Background(), showtime.ID)
	assert.Equal(t, 10, stored.AvailableSeats)
	assert.Equal(t, 0, stored.SeatMap.BookedCount())
}

func TestCancelReservationInsideCutoff(t *testing.T) {
	f := newReservationFixture()
	showtime := seedShowtime(t, f.showtimeRepo, 10, 90*time.Minute)
	userID := uuid.New()

	created, err := f.svc.Create(context.Background(), userID.String(), createRequest(showtime.ID, "A1"))
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), created.ID, utils.Actor{ID: userID})
	assert.ErrorIs(t, err, ErrCancellationWindow)

	// Seats stay booked when the cancellation is rejected.
	stored, _ := f.showtimeRepo.FindByID(context.Background(), showtime.ID)
	assert.Equal(t, 9, stored.AvailableSeats)
}

func TestCancelReservationForbidden(t *testing.T) {
	f := newReservationFixture()
	showtime := seedShowtime(t, f.showtimeRepo, 10, 24*time.Hour)
	owner := uuid.New()

	created, err := f.svc.Create(context.Background(), owner.String(), createRequest(showtime.ID, "A1"))
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), created.ID, utils.Actor{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins can cancel on behalf of any user.
	resp, err := f.svc.Cancel(context.Background(), created.ID, utils.Actor{ID: uuid.New(), Role: utils.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusCancelled, resp.Status)
}

func TestCancelReservationAlreadyCancelled(t *testing.T) {
	f := newReservationFixture()
	showtime := seedShowtime(t, f.showtimeRepo, 10, 24*time.Hour)
	userID := uuid.New()

	created, err := f.svc.Create(context.Background(), userID.String(), createRequest(showtime.ID, "A1"))
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), created.ID, utils.Actor{ID: userID})
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), created.ID, utils.Actor{ID: userID})
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	// A repeated cancel must not release anything twice.
	stored, _ := f.showtimeRepo.FindByID(context.Background(), showtime.ID)
	assert.Equal(t, 10, stored.AvailableSeats)
}

func TestCancelReservationNotFound(t *testing.T) {
	f := newReservationFixture()

	_, err := f.svc.Cancel(context.Background(), uuid.NewString(), utils.Actor{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestSetStatusConfirms(t *testing.T) {
	f := newReservationFixture()
	showtime := seedShowtime(t, f.showtimeRepo, 10, 24*time.Hour)
	admin := utils.Actor{ID: uuid.New(), Role: utils.RoleAdmin}

	created, err := f.svc.Create(context.Background(), uuid.NewString(), createRequest(showtime.ID, "A1"))
	require.NoError(t, err)

	resp, err := f.svc.SetStatus(context.Background(), created.ID, &request.UpdateReservationStatusRequest{Status: "confirmed"}, admin)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusConfirmed, resp.Status)

	// Confirmation does not touch seat state.
	stored, _ := f.showtimeRepo.FindByID(context.Background(), showtime.ID)
	assert.Equal(t, 9, stored.AvailableSeats)
}

func TestSetStatusCancelledReleasesSeats(t *testing.T) {
	f := newReservationFixture()
	showtime := seedShowtime(t, f.showtimeRepo, 10, 24*time.Hour)
	admin := utils.Actor{ID: uuid.New(), Role: utils.RoleAdmin}

	created, err := f.svc.Create(context.Background(), uuid.NewString(), createRequest(showtime.ID, "A1", "A2"))
	require.NoError(t, err)

	_, err = f.svc.SetStatus(context.Background(), created.ID, &request.UpdateReservationStatusRequest{Status: "confirmed"}, admin)
	require.NoError(t, err)

	resp, err := f.svc.SetStatus(context.Background(), created.ID, &request.UpdateReservationStatusRequest{Status: "cancelled"}, admin)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusCancelled, resp.Status)

	stored, _ := f.showtimeRepo.FindByID(context.Background(), showtime.ID)
	assert.Equal(t, 10, stored.AvailableSeats)
}

func TestSetStatusInvalidTransitions(t *testing.T) {
	f := newReservationFixture()
	showtime := seedShowtime(t, f.showtimeRepo, 10, 24*time.Hour)
	admin := utils.Actor{ID: uuid.New(), Role: utils.RoleAdmin}

	created, err := f.svc.Create(context.Background(), uuid.NewString(), createRequest(showtime.ID, "A1"))
	require.NoError(t, err)

	_, err = f.svc.SetStatus(context.Background(), created.ID, &request.UpdateReservationStatusRequest{Status: "confirmed"}, admin)
	require.NoError(t, err)

	// Confirmed cannot go back to pending.
	_, err = f.svc.SetStatus(context.Background(), created.ID, &request.UpdateReservationStatusRequest{Status: "pending"}, admin)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.SetStatus(context.Background(), created.ID, &request.UpdateReservationStatusRequest{Status: "cancelled"}, admin)
	require.NoError(t, err)

	// Cancelled is terminal.
	_, err = f.svc.SetStatus(context.Background(), created.ID, &request.UpdateReservationStatusRequest{Status: "confirmed"}, admin)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSetStatusRequiresAdmin(t *testing.T) {
	f := newReservationFixture()
	showtime := seedShowtime(t, f.showtimeRepo, 10, 24*time.Hour)
	userID := uuid.New()

	created, err := f.svc.Create(context.Background(), userID.String(), createRequest(showtime.ID, "A1"))
	require.NoError(t, err)

	_, err = f.svc.SetStatus(context.Background(), created.ID, &request.UpdateReservationStatusRequest{Status: "confirmed"}, utils.Actor{ID: userID})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetByIDAuthorization(t *testing.T) {
	f := newReservationFixture()
	showtime := seedShowtime(t, f.showtimeRepo, 10, 24*time.Hour)
	owner := uuid.New()

	created, err := f.svc.Create(context.Background(), owner.String(), createRequest(showtime.ID, "A1"))
	require.NoError(t, err)

	resp, err := f.svc.GetByID(context.Background(), created.ID, utils.Actor{ID: owner})
	require.NoError(t, err)
	assert.Equal(t, created.BookingReference, resp.BookingReference)

	_, err = f.svc.GetByID(context.Background(), created.ID, utils.Actor{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.GetByID(context.Background(), created.ID, utils.Actor{ID: uuid.New(), Role: utils.RoleAdmin})
	assert.NoError(t, err)
}

func TestGetUserReservations(t *testing.T) {
	f := newReservationFixture()
	showtime := seedShowtime(t, f.showtimeRepo, 30, 24*time.Hour)
	userID := uuid.New()

	for _, seat := range []string{"A1", "A2", "A3"} {
		_, err := f.svc.Create(context.Background(), userID.String(), createRequest(showtime.ID, seat))
		require.NoError(t, err)
	}
	_, err := f.svc.Create(context.Background(), uuid.NewString(), createRequest(showtime.ID, "B1"))
	require.NoError(t, err)

	resp, err := f.svc.GetUserReservations(context.Background(), userID.String(), &request.ListReservationsRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 3)
	assert.Equal(t, int64(3), resp.Pagination.Total)
}

func TestGetUserReservationsStatusFilter(t *testing.T) {
	f := newReservationFixture()
	showtime := seedShowtime(t, f.showtimeRepo, 30, 24*time.Hour)
	userID := uuid.New()

	first, err := f.svc.Create(context.Background(), userID.String(), createRequest(showtime.ID, "A1"))
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), userID.String(), createRequest(showtime.ID, "A2"))
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), first.ID, utils.Actor{ID: userID})
	require.NoError(t, err)

	resp, err := f.svc.GetUserReservations(context.Background(), userID.String(), &request.ListReservationsRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		Status:           "cancelled",
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, first.ID, resp.Data[0].ID)
}

func TestGetAllReservationsFiltersByUser(t *testing.T) {
	f := newReservationFixture()
	showtime := seedShowtime(t, f.showtimeRepo, 30, 24*time.Hour)
	userID := uuid.New()

	_, err := f.svc.Create(context.Background(), userID.String(), createRequest(showtime.ID, "A1"))
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), uuid.NewString(), createRequest(showtime.ID, "A2"))
	require.NoError(t, err)

	resp, err := f.svc.GetAllReservations(context.Background(), &request.AdminListReservationsRequest{
		ListReservationsRequest: request.ListReservationsRequest{
			PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Pagination.Total)

	resp, err = f.svc.GetAllReservations(context.Background(), &request.AdminListReservationsRequest{
		ListReservationsRequest: request.ListReservationsRequest{
			PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		},
		UserID: userID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Pagination.Total)
}

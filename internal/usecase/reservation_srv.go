package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-reservation/internal/data/entity"
	"movie-reservation/internal/data/repository"
	"movie-reservation/internal/dto/request"
	"movie-reservation/internal/dto/response"
	"movie-reservation/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CancellationCutoff is the business rule from the cancellation policy:
// reservations cannot be cancelled once the showtime is this close.
const CancellationCutoff = 2 * time.Hour

// ReservationService drives the reservation state machine and delegates all
// seat-state mutation to the inventory service.
type ReservationService interface {
	Create(ctx context.Context, userID string, req *request.CreateReservationRequest) (*response.ReservationResponse, error)
	Cancel(ctx context.Context, reservationID string, actor utils.Actor) (*response.ReservationResponse, error)
	SetStatus(ctx context.Context, reservationID string, req *request.UpdateReservationStatusRequest, actor utils.Actor) (*response.ReservationResponse, error)
	GetByID(ctx context.Context, reservationID string, actor utils.Actor) (*response.ReservationResponse, error)
	GetUserReservations(ctx context.Context, userID string, req *request.ListReservationsRequest) (*response.PaginatedResponse[response.ReservationResponse], error)
	GetAllReservations(ctx context.Context, req *request.AdminListReservationsRequest) (*response.PaginatedResponse[response.ReservationResponse], error)
}

type reservationService struct {
	repo      *repository.Repository
	inventory InventoryService
	log       *zap.Logger
}

func NewReservationService(repo *repository.Repository, inventory InventoryService, log *zap.Logger) ReservationService {
	return &reservationService{
		repo:      repo,
		inventory: inventory,
		log:       log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) Create(ctx context.Context, userID string, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create reservation validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	showtimeID, err := uuid.Parse(req.ShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("invalid showtime ID format %s: %w", req.ShowtimeID, err)
	}

	// Commit is the last step of validation inside the inventory service, so
	// any failure here leaves nothing to roll back.
	commit, err := s.inventory.ValidateAndReserve(ctx, showtimeID, req.SeatNumbers())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reservation := &entity.Reservation{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingReference: utils.GenerateBookingReference(),
		UserID:           userUUID,
		ShowtimeID:       showtimeID,
		Seats:            commit.Seats,
		TotalAmount:      commit.TotalAmount,
		Status:           entity.ReservationStatusPending,
		BookingDate:      now,
	}

	if err := s.repo.Reservation.Create(ctx, reservation); err != nil {
		// Seats are committed but the reservation record is not; free them
		// again or they stay booked with no owner.
		if _, relErr := s.inventory.Release(ctx, showtimeID, reservation.SeatNumbers()); relErr != nil {
			s.log.Error("Failed to release seats after reservation create failure",
				zap.Error(relErr),
				zap.String("showtime_id", showtimeID.String()),
				zap.Strings("seats", reservation.SeatNumbers()),
			)
		}
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.log.Info("Reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("booking_reference", reservation.BookingReference),
		zap.String("user_id", userID),
		zap.Int("seat_count", len(reservation.Seats)),
		zap.Float64("total_amount", reservation.TotalAmount),
	)

	return response.ReservationToResponse(reservation), nil
}

func (s *reservationService) Cancel(ctx context.Context, reservationID string, actor utils.Actor) (*response.ReservationResponse, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID format %s: %w", reservationID, err)
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cancel reservation: %w", err)
	}
	if reservation == nil {
		return nil, ErrReservationNotFound
	}

	if !actor.IsAdmin() && actor.ID != reservation.UserID {
		return nil, ErrForbidden
	}

	if reservation.Status == entity.ReservationStatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	showtime, err := s.repo.Showtime.FindByID(ctx, reservation.ShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("cancel reservation: %w", err)
	}
	if showtime == nil {
		return nil, ErrShowtimeNotFound
	}

	if time.Until(showtime.StartTime) < CancellationCutoff {
		return nil, ErrCancellationWindow
	}

	return s.cancelAndRelease(ctx, reservation)
}

func (s *reservationService) SetStatus(ctx context.Context, reservationID string, req *request.UpdateReservationStatusRequest, actor utils.Actor) (*response.ReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Set reservation status validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID format %s: %w", reservationID, err)
	}

	newStatus := entity.ReservationStatus(req.Status)
	if !entity.ValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("set reservation status: %w", err)
	}
	if reservation == nil {
		return nil, ErrReservationNotFound
	}

	if !reservation.Status.CanTransitionTo(newStatus) {
		return nil, ErrInvalidTransition
	}

	if newStatus == entity.ReservationStatusCancelled {
		return s.cancelAndRelease(ctx, reservation)
	}

	if err := s.repo.Reservation.UpdateStatus(ctx, reservation.ID, newStatus); err != nil {
		return nil, fmt.Errorf("set reservation status: %w", err)
	}
	reservation.Status = newStatus

	s.log.Info("Reservation status updated",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("status", string(newStatus)),
		zap.String("actor_id", actor.ID.String()),
	)

	return response.ReservationToResponse(reservation), nil
}

// cancelAndRelease is the single transition handler into the cancelled
// state: seats are released first, then the status is committed. If the
// release fails the status stays put, so the seat invariant holds.
func (s *reservationService) cancelAndRelease(ctx context.Context, reservation *entity.Reservation) (*response.ReservationResponse, error) {
	released, err := s.inventory.Release(ctx, reservation.ShowtimeID, reservation.SeatNumbers())
	if err != nil {
		s.log.Error("Failed to release seats for cancellation",
			zap.Error(err),
			zap.String("reservation_id", reservation.ID.String()),
		)
		return nil, fmt.Errorf("release seats for reservation %s: %w", reservation.ID.String(), err)
	}

	if err := s.repo.Reservation.UpdateStatus(ctx, reservation.ID, entity.ReservationStatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel reservation %s: %w", reservation.ID.String(), err)
	}
	reservation.Status = entity.ReservationStatusCancelled

	s.log.Info("Reservation cancelled",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("booking_reference", reservation.BookingReference),
		zap.Strings("released_seats", released),
	)

	return response.ReservationToResponse(reservation), nil
}

func (s *reservationService) GetByID(ctx context.Context, reservationID string, actor utils.Actor) (*response.ReservationResponse, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID format %s: %w", reservationID, err)
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	if reservation == nil {
		return nil, ErrReservationNotFound
	}

	if !actor.IsAdmin() && actor.ID != reservation.UserID {
		return nil, ErrForbidden
	}

	return response.ReservationToResponse(reservation), nil
}

func (s *reservationService) GetUserReservations(ctx context.Context, userID string, req *request.ListReservationsRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	status := entity.ReservationStatus(req.Status)

	reservations, err := s.repo.Reservation.FindByUserID(ctx, userUUID, status, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get user reservations",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("get user reservations: %w", err)
	}

	total, err := s.repo.Reservation.CountByUserID(ctx, userUUID, status)
	if err != nil {
		s.log.Error("Failed to count user reservations", zap.Error(err))
		return nil, fmt.Errorf("count user reservations: %w", err)
	}

	items := make([]response.ReservationResponse, len(reservations))
	for i, reservation := range reservations {
		items[i] = *response.ReservationToResponse(reservation)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *reservationService) GetAllReservations(ctx context.Context, req *request.AdminListReservationsRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	filter := repository.ReservationFilter{
		Status: entity.ReservationStatus(req.Status),
	}
	if req.UserID != "" {
		userUUID, err := uuid.Parse(req.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID format %s: %w", req.UserID, err)
		}
		filter.UserID = userUUID
	}

	reservations, err := s.repo.Reservation.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list reservations", zap.Error(err))
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	total, err := s.repo.Reservation.CountAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count reservations", zap.Error(err))
		return nil, fmt.Errorf("count reservations: %w", err)
	}

	items := make([]response.ReservationResponse, len(reservations))
	for i, reservation := range reservations {
		items[i] = *response.ReservationToResponse(reservation)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-reservation/internal/data/entity"
	"movie-reservation/internal/data/repository"
	"movie-reservation/internal/dto/request"
	"movie-reservation/internal/dto/response"
	"movie-reservation/pkg/lock"
	"movie-reservation/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxCommitRetries bounds the optimistic-update loop. The per-showtime lock
// serializes in-process writers, so a conflict means an out-of-band writer
// touched the row; retry a few times, then give up with a conflict.
const maxCommitRetries = 3

// SeatCommit is the result of a successful validate-and-reserve: the seats
// as committed (type captured at booking time) and the computed total.
type SeatCommit struct {
	Seats       []entity.ReservationSeat
	TotalAmount float64
}

// InventoryService is the sole authority allowed to flip seat booked flags
// and the available-seats counter.
type InventoryService interface {
	// Seat-state operations consumed by the reservation service.
	ValidateAndReserve(ctx context.Context, showtimeID uuid.UUID, seatNumbers []string) (*SeatCommit, error)
	// Release unbooks the given seats. Idempotent per seat: already-free and
	// unknown seats are skipped. Returns the seats actually freed.
	Release(ctx context.Context, showtimeID uuid.UUID, seatNumbers []string) ([]string, error)

	// Public endpoints
	GetAvailableSeats(ctx context.Context, showtimeID string) (*response.AvailableSeatsResponse, error)

	// Admin endpoints
	CreateShowtime(ctx context.Context, req *request.CreateShowtimeRequest) (*response.ShowtimeResponse, error)
	DeactivateShowtime(ctx context.Context, showtimeID string) error
}

type inventoryService struct {
	repo     *repository.Repository
	locks    *lock.KeyedMutex
	notifier SeatNotifier
	cache    SeatsCache
	log      *zap.Logger
}

func NewInventoryService(repo *repository.Repository, locks *lock.KeyedMutex, notifier SeatNotifier, cache SeatsCache, log *zap.Logger) InventoryService {
	return &inventoryService{
		repo:     repo,
		locks:    locks,
		notifier: notifier,
		cache:    cache,
		log:      log.With(zap.String("service", "inventory")),
	}
}

func (s *inventoryService) ValidateAndReserve(ctx context.Context, showtimeID uuid.UUID, seatNumbers []string) (*SeatCommit, error) {
	s.locks.Lock(showtimeID)
	commit, err := s.reserveLocked(ctx, showtimeID, seatNumbers)
	s.locks.Unlock(showtimeID)

	if err != nil {
		return nil, err
	}

	s.afterSeatChange(ctx, showtimeID, seatNumbers)

	s.log.Info("Seats committed",
		zap.String("showtime_id", showtimeID.String()),
		zap.Strings("seats", seatNumbers),
		zap.Float64("total_amount", commit.TotalAmount),
	)

	return commit, nil
}

// reserveLocked runs the check-then-commit sequence under the per-showtime
// lock. The whole sequence restarts on a storage version conflict so no
// partial mutation ever lands.
func (s *inventoryService) reserveLocked(ctx context.Context, showtimeID uuid.UUID, seatNumbers []string) (*SeatCommit, error) {
	for attempt := 0; attempt < maxCommitRetries; attempt++ {
		showtime, err := s.repo.Showtime.FindByID(ctx, showtimeID)
		if err != nil {
			return nil, fmt.Errorf("load showtime: %w", err)
		}
		if showtime == nil || !showtime.IsActive {
			return nil, ErrShowtimeNotFound
		}

		if !showtime.StartTime.After(time.Now()) {
			return nil, ErrPastShowtime
		}

		var unavailable []string
		for _, seatNumber := range seatNumbers {
			state, ok := showtime.SeatMap[seatNumber]
			if !ok {
				return nil, &UnknownSeatError{Seat: seatNumber}
			}
			if state.IsBooked {
				unavailable = append(unavailable, seatNumber)
			}
		}
		if len(unavailable) > 0 {
			return nil, &SeatsUnavailableError{Seats: unavailable}
		}

		// Defensive; the per-seat checks above normally catch this.
		if showtime.AvailableSeats < len(seatNumbers) {
			return nil, ErrInsufficientCapacity
		}

		seats := make([]entity.ReservationSeat, len(seatNumbers))
		totalAmount := 0.0
		for i, seatNumber := range seatNumbers {
			state := showtime.SeatMap[seatNumber]
			state.IsBooked = true
			showtime.SeatMap[seatNumber] = state

			seats[i] = entity.ReservationSeat{
				SeatNumber: seatNumber,
				SeatType:   state.SeatType,
			}
			totalAmount += state.SeatType.Price(showtime.BasePrice)
		}
		showtime.AvailableSeats -= len(seatNumbers)

		err = s.repo.Showtime.CommitSeatState(ctx, showtime)
		if err == repository.ErrVersionConflict {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("commit seats for showtime %s: %w", showtimeID.String(), err)
		}

		return &SeatCommit{Seats: seats, TotalAmount: totalAmount}, nil
	}

	// Out-of-band writers kept winning; report the request as a conflict.
	return nil, &SeatsUnavailableError{Seats: seatNumbers}
}

func (s *inventoryService) Release(ctx context.Context, showtimeID uuid.UUID, seatNumbers []string) ([]string, error) {
	s.locks.Lock(showtimeID)
	released, err := s.releaseLocked(ctx, showtimeID, seatNumbers)
	s.locks.Unlock(showtimeID)

	if err != nil {
		return nil, err
	}

	if len(released) > 0 {
		s.afterSeatChange(ctx, showtimeID, released)
		s.log.Info("Seats released",
			zap.String("showtime_id", showtimeID.String()),
			zap.Strings("seats", released),
		)
	}

	return released, nil
}

func (s *inventoryService) releaseLocked(ctx context.Context, showtimeID uuid.UUID, seatNumbers []string) ([]string, error) {
	for attempt := 0; attempt < maxCommitRetries; attempt++ {
		showtime, err := s.repo.Showtime.FindByID(ctx, showtimeID)
		if err != nil {
			return nil, fmt.Errorf("load showtime: %w", err)
		}
		if showtime == nil {
			return nil, ErrShowtimeNotFound
		}

		// Flip only seats that are currently booked; unknown labels are
		// skipped so a stale reservation snapshot cannot corrupt the count.
		var released []string
		for _, seatNumber := range seatNumbers {
			state, ok := showtime.SeatMap[seatNumber]
			if !ok || !state.IsBooked {
				continue
			}
			state.IsBooked = false
			showtime.SeatMap[seatNumber] = state
			released = append(released, seatNumber)
		}

		if len(released) == 0 {
			return nil, nil
		}
		showtime.AvailableSeats += len(released)

		err = s.repo.Showtime.CommitSeatState(ctx, showtime)
		if err == repository.ErrVersionConflict {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("release seats for showtime %s: %w", showtimeID.String(), err)
		}

		return released, nil
	}

	return nil, fmt.Errorf("release seats for showtime %s: %w", showtimeID.String(), repository.ErrVersionConflict)
}

// afterSeatChange runs outside the critical section: drop the cached seat
// view and fire the best-effort change notification.
func (s *inventoryService) afterSeatChange(ctx context.Context, showtimeID uuid.UUID, seatNumbers []string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, showtimeID.String())
	}

	if s.notifier != nil {
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			// Fire and forget; the publisher logs its own failures.
			_ = s.notifier.NotifySeatsChanged(nctx, showtimeID.String(), seatNumbers)
		}()
	}
}

func (s *inventoryService) GetAvailableSeats(ctx context.Context, showtimeID string) (*response.AvailableSeatsResponse, error) {
	id, err := uuid.Parse(showtimeID)
	if err != nil {
		return nil, fmt.Errorf("invalid showtime ID format %s: %w", showtimeID, err)
	}

	if s.cache != nil {
		var cached response.AvailableSeatsResponse
		if s.cache.Get(ctx, showtimeID, &cached) {
			return &cached, nil
		}
	}

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get available seats: %w", err)
	}
	if showtime == nil {
		return nil, ErrShowtimeNotFound
	}
	if !showtime.IsActive {
		return nil, ErrShowtimeInactive
	}

	resp := response.AvailableSeatsToResponse(showtime)

	if s.cache != nil {
		s.cache.Set(ctx, showtimeID, resp)
	}

	return resp, nil
}

func (s *inventoryService) CreateShowtime(ctx context.Context, req *request.CreateShowtimeRequest) (*response.ShowtimeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create showtime validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID format %s: %w", req.MovieID, err)
	}

	theaterID, err := uuid.Parse(req.TheaterID)
	if err != nil {
		return nil, fmt.Errorf("invalid theater ID format %s: %w", req.TheaterID, err)
	}

	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidShowtimeSlot
	}

	now := time.Now()
	showtime := &entity.Showtime{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MovieID:        movieID,
		TheaterID:      theaterID,
		ScreenNumber:   req.ScreenNumber,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		BasePrice:      req.BasePrice,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		SeatMap:        entity.NewSeatMap(req.TotalSeats),
		Version:        1,
		IsActive:       true,
	}

	if err := s.repo.Showtime.Create(ctx, showtime); err != nil {
		s.log.Error("Failed to create showtime",
			zap.Error(err),
			zap.String("movie_id", req.MovieID),
		)
		return nil, fmt.Errorf("create showtime: %w", err)
	}

	s.log.Info("Showtime created",
		zap.String("showtime_id", showtime.ID.String()),
		zap.Int("total_seats", showtime.TotalSeats),
		zap.Time("start_time", showtime.StartTime),
	)

	return response.ShowtimeToResponse(showtime), nil
}

func (s *inventoryService) DeactivateShowtime(ctx context.Context, showtimeID string) error {
	id, err := uuid.Parse(showtimeID)
	if err != nil {
		return fmt.Errorf("invalid showtime ID format %s: %w", showtimeID, err)
	}

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("deactivate showtime: %w", err)
	}
	if showtime == nil {
		return ErrShowtimeNotFound
	}

	if err := s.repo.Showtime.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("deactivate showtime %s: %w", showtimeID, err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, showtimeID)
	}

	return nil
}

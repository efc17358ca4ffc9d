package usecase

import (
	"context"
	"errors"
	"sync"

	"movie-reservation/internal/data/entity"
	"movie-reservation/internal/data/repository"
	"movie-reservation/internal/dto/response"

	"github.com/google/uuid"
)

// In-memory repositories backing the service tests. The showtime fake keeps
// the same version-conditioned commit contract as the pgx implementation so
// the retry loop is exercised for real.

type fakeShowtimeRepo struct {
	mu        sync.Mutex
	showtimes map[uuid.UUID]*entity.Showtime

	// commitConflicts makes the next N commits fail with a version conflict.
	commitConflicts int
}

func newFakeShowtimeRepo() *fakeShowtimeRepo {
	return &fakeShowtimeRepo{showtimes: make(map[uuid.UUID]*entity.Showtime)}
}

func copyShowtime(s *entity.Showtime) *entity.Showtime {
	c := *s
	c.SeatMap = make(entity.SeatMap, len(s.SeatMap))
	for label, state := range s.SeatMap {
		c.SeatMap[label] = state
	}
	return &c
}

func (r *fakeShowtimeRepo) Create(ctx context.Context, showtime *entity.Showtime) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.showtimes[showtime.ID] = copyShowtime(showtime)
	return nil
}

func (r *fakeShowtimeRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	showtime, ok := r.showtimes[id]
	if !ok {
		return nil, nil
	}
	return copyShowtime(showtime), nil
}

func (r *fakeShowtimeRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	showtime, ok := r.showtimes[id]
	if !ok {
		return errors.New("showtime not found")
	}
	showtime.IsActive = false
	return nil
}

func (r *fakeShowtimeRepo) CommitSeatState(ctx context.Context, showtime *entity.Showtime) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.commitConflicts > 0 {
		r.commitConflicts--
		return repository.ErrVersionConflict
	}

	stored, ok := r.showtimes[showtime.ID]
	if !ok || stored.Version != showtime.Version {
		return repository.ErrVersionConflict
	}

	updated := copyShowtime(showtime)
	updated.Version++
	r.showtimes[showtime.ID] = updated
	showtime.Version++
	return nil
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]*entity.Reservation

	failCreate bool
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[uuid.UUID]*entity.Reservation)}
}

func (r *fakeReservationRepo) Create(ctx context.Context, reservation *entity.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.New("insert failed")
	}
	stored := *reservation
	r.reservations[reservation.ID] = &stored
	return nil
}

func (r *fakeReservationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[id]
	if !ok {
		return nil, nil
	}
	found := *reservation
	return &found, nil
}

func (r *fakeReservationRepo) matches(reservation *entity.Reservation, filter repository.ReservationFilter) bool {
	if filter.Status != "" && reservation.Status != filter.Status {
		return false
	}
	if filter.UserID != uuid.Nil && reservation.UserID != filter.UserID {
		return false
	}
	return true
}

func (r *fakeReservationRepo) FindByUserID(ctx context.Context, userID uuid.UUID, status entity.ReservationStatus, limit, offset int) ([]*entity.Reservation, error) {
	return r.FindAll(ctx, repository.ReservationFilter{Status: status, UserID: userID}, limit, offset)
}

func (r *fakeReservationRepo) CountByUserID(ctx context.Context, userID uuid.UUID, status entity.ReservationStatus) (int64, error) {
	return r.CountAll(ctx, repository.ReservationFilter{Status: status, UserID: userID})
}

func (r *fakeReservationRepo) FindAll(ctx context.Context, filter repository.ReservationFilter, limit, offset int) ([]*entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*entity.Reservation
	for _, reservation := range r.reservations {
		if r.matches(reservation, filter) {
			found := *reservation
			all = append(all, &found)
		}
	}

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeReservationRepo) CountAll(ctx context.Context, filter repository.ReservationFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total int64
	for _, reservation := range r.reservations {
		if r.matches(reservation, filter) {
			total++
		}
	}
	return total, nil
}

func (r *fakeReservationRepo) UpdateStatus(ctx context.Context, reservationID uuid.UUID, status entity.ReservationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[reservationID]
	if !ok {
		return errors.New("reservation not found")
	}
	reservation.Status = status
	return nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls [][]string
}

func (n *fakeNotifier) NotifySeatsChanged(ctx context.Context, showtimeID string, seatNumbers []string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, seatNumbers)
	return nil
}

type fakeSeatsCache struct {
	mu          sync.Mutex
	entries     map[string]any
	invalidated []string
}

func newFakeSeatsCache() *fakeSeatsCache {
	return &fakeSeatsCache{entries: make(map[string]any)}
}

func (c *fakeSeatsCache) Get(ctx context.Context, showtimeID string, dest any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[showtimeID]
	if !ok {
		return false
	}
	if src, ok := value.(*response.AvailableSeatsResponse); ok {
		if d, ok := dest.(*response.AvailableSeatsResponse); ok {
			*d = *src
		}
	}
	return true
}

func (c *fakeSeatsCache) Set(ctx context.Context, showtimeID string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[showtimeID] = value
}

func (c *fakeSeatsCache) Invalidate(ctx context.Context, showtimeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, showtimeID)
	c.invalidated = append(c.invalidated, showtimeID)
}

package usecase

import "context"

// SeatNotifier is the best-effort notification side channel. Delivery
// failures never affect reservation or seat correctness; implementations
// must not block the booking path.
type SeatNotifier interface {
	NotifySeatsChanged(ctx context.Context, showtimeID string, seatNumbers []string) error
}

// SeatsCache is the advisory read cache for the seat-availability endpoint.
// A nil implementation is valid and disables caching.
type SeatsCache interface {
	Get(ctx context.Context, showtimeID string, dest any) bool
	Set(ctx context.Context, showtimeID string, value any)
	Invalidate(ctx context.Context, showtimeID string)
}

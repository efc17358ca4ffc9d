package usecase

import (
	"errors"
	"fmt"
	"strings"
)

// Caller-facing failures. Handlers map these to HTTP statuses with
// errors.Is / errors.As; anything else is treated as an infrastructure
// error and surfaced generically.
var (
	ErrShowtimeNotFound     = errors.New("showtime not found")
	ErrShowtimeInactive     = errors.New("showtime is inactive")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrPastShowtime         = errors.New("cannot book past showtimes")
	ErrInsufficientCapacity = errors.New("not enough available seats")
	ErrForbidden            = errors.New("access denied")
	ErrAlreadyCancelled     = errors.New("reservation is already cancelled")
	ErrCancellationWindow   = errors.New("cannot cancel reservation less than 2 hours before showtime")
	ErrInvalidTransition    = errors.New("invalid reservation status transition")
	ErrInvalidStatus        = errors.New("invalid reservation status")
	ErrInvalidShowtimeSlot  = errors.New("end time must be after start time")
)

// UnknownSeatError reports a requested seat label that does not exist in the
// showtime's seat map.
type UnknownSeatError struct {
	Seat string
}

func (e *UnknownSeatError) Error() string {
	return fmt.Sprintf("seat %s does not exist", e.Seat)
}

// SeatsUnavailableError carries every conflicting seat so the client can
// re-offer alternatives.
type SeatsUnavailableError struct {
	Seats []string
}

func (e *SeatsUnavailableError) Error() string {
	return fmt.Sprintf("seats already booked: %s", strings.Join(e.Seats, ", "))
}

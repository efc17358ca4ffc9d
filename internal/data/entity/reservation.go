package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// ValidStatus reports whether s is one of the known reservation statuses.
func ValidStatus(s ReservationStatus) bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo enforces the reservation state machine:
// pending → confirmed, pending → cancelled, confirmed → cancelled.
// cancelled is terminal.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case ReservationStatusPending:
		return next == ReservationStatusConfirmed || next == ReservationStatusCancelled
	case ReservationStatusConfirmed:
		return next == ReservationStatusCancelled
	default:
		return false
	}
}

// ReservationSeat is the immutable snapshot of one booked seat. The type is
// captured at booking time and stays valid even if the seat map is edited
// later.
type ReservationSeat struct {
	SeatNumber string   `json:"seat_number"`
	SeatType   SeatType `json:"seat_type"`
}

type Reservation struct {
	Base
	BookingReference string            `db:"booking_reference"`
	UserID           uuid.UUID         `db:"user_id"`
	ShowtimeID       uuid.UUID         `db:"showtime_id"`
	Seats            []ReservationSeat `db:"seats"`
	TotalAmount      float64           `db:"total_amount"`
	Status           ReservationStatus `db:"status"`
	PaymentID        *string           `db:"payment_id"`
	BookingDate      time.Time         `db:"booking_date"`
}

// SeatNumbers returns the seat labels of the reservation in booking order.
func (r *Reservation) SeatNumbers() []string {
	numbers := make([]string, len(r.Seats))
	for i, seat := range r.Seats {
		numbers[i] = seat.SeatNumber
	}
	return numbers
}

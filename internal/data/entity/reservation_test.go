package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    ReservationStatus
		to      ReservationStatus
		allowed bool
	}{
		{ReservationStatusPending, ReservationStatusConfirmed, true},
		{ReservationStatusPending, ReservationStatusCancelled, true},
		{ReservationStatusConfirmed, ReservationStatusCancelled, true},
		{ReservationStatusConfirmed, ReservationStatusPending, false},
		{ReservationStatusCancelled, ReservationStatusPending, false},
		{ReservationStatusCancelled, ReservationStatusConfirmed, false},
		{ReservationStatusCancelled, ReservationStatusCancelled, false},
		{ReservationStatusPending, ReservationStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(ReservationStatusPending))
	assert.True(t, ValidStatus(ReservationStatusConfirmed))
	assert.True(t, ValidStatus(ReservationStatusCancelled))
	assert.False(t, ValidStatus("refunded"))
	assert.False(t, ValidStatus(""))
}

func TestSeatNumbersPreservesOrder(t *testing.T) {
	reservation := &Reservation{
		Seats: []ReservationSeat{
			{SeatNumber: "B3", SeatType: SeatTypeStandard},
			{SeatNumber: "A1", SeatType: SeatTypePremium},
		},
	}
	assert.Equal(t, []string{"B3", "A1"}, reservation.SeatNumbers())
}

package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SeatType string

const (
	SeatTypeStandard SeatType = "standard"
	SeatTypePremium  SeatType = "premium"
	SeatTypeVIP      SeatType = "vip"
)

// Price derives a seat's price from its type and the showtime base price.
// Unrecognized types fall through to the standard rate.
func (t SeatType) Price(basePrice float64) float64 {
	switch t {
	case SeatTypePremium:
		return basePrice * 1.5
	case SeatTypeVIP:
		return basePrice * 2
	default:
		return basePrice
	}
}

// SeatState is the per-seat record inside a showtime's seat map.
type SeatState struct {
	IsBooked bool     `json:"is_booked"`
	SeatType SeatType `json:"seat_type"`
}

// SeatMap maps seat label (e.g. "A1") to its state. Keys are fixed at
// showtime creation; only the booked flags change afterwards.
type SeatMap map[string]SeatState

// NewSeatMap lays out totalSeats seats: rows lettered A, B, C... at 10 seats
// per row. The first 20% of seats by index are premium, the rest standard.
// VIP is never auto-assigned, only set through later edits.
func NewSeatMap(totalSeats int) SeatMap {
	seatMap := make(SeatMap, totalSeats)

	premiumCutoff := float64(totalSeats) * 0.2
	for i := 1; i <= totalSeats; i++ {
		row := string(rune('A' + (i-1)/10))
		number := (i-1)%10 + 1

		seatType := SeatTypeStandard
		if float64(i) <= premiumCutoff {
			seatType = SeatTypePremium
		}

		seatMap[fmt.Sprintf("%s%d", row, number)] = SeatState{
			IsBooked: false,
			SeatType: seatType,
		}
	}

	return seatMap
}

// BookedCount returns the number of booked seats in the map.
func (m SeatMap) BookedCount() int {
	count := 0
	for _, seat := range m {
		if seat.IsBooked {
			count++
		}
	}
	return count
}

type Showtime struct {
	Base
	MovieID        uuid.UUID `db:"movie_id"`
	TheaterID      uuid.UUID `db:"theater_id"`
	ScreenNumber   int       `db:"screen_number"`
	StartTime      time.Time `db:"start_time"`
	EndTime        time.Time `db:"end_time"`
	BasePrice      float64   `db:"base_price"`
	TotalSeats     int       `db:"total_seats"`
	AvailableSeats int       `db:"available_seats"`
	SeatMap        SeatMap   `db:"seat_map"`
	Version        int       `db:"version"`
	IsActive       bool      `db:"is_active"`
}

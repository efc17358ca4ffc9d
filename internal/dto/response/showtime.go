package response

import (
	"sort"
	"time"

	"movie-reservation/internal/data/entity"
)

type ShowtimeResponse struct {
	ID             string    `json:"id"`
	MovieID        string    `json:"movie_id"`
	TheaterID      string    `json:"theater_id"`
	ScreenNumber   int       `json:"screen_number"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	BasePrice      float64   `json:"base_price"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func ShowtimeToResponse(showtime *entity.Showtime) *ShowtimeResponse {
	return &ShowtimeResponse{
		ID:             showtime.ID.String(),
		MovieID:        showtime.MovieID.String(),
		TheaterID:      showtime.TheaterID.String(),
		ScreenNumber:   showtime.ScreenNumber,
		StartTime:      showtime.StartTime,
		EndTime:        showtime.EndTime,
		BasePrice:      showtime.BasePrice,
		TotalSeats:     showtime.TotalSeats,
		AvailableSeats: showtime.AvailableSeats,
		IsActive:       showtime.IsActive,
		CreatedAt:      showtime.CreatedAt,
	}
}

type SeatResponse struct {
	SeatNumber string `json:"seat_number"`
	IsBooked   bool   `json:"is_booked"`
	SeatType   string `json:"seat_type"`
}

type AvailableSeatsResponse struct {
	ShowtimeID     string         `json:"showtime_id"`
	AvailableSeats int            `json:"available_seats"`
	TotalSeats     int            `json:"total_seats"`
	Seats          []SeatResponse `json:"seats"`
}

func AvailableSeatsToResponse(showtime *entity.Showtime) *AvailableSeatsResponse {
	seats := make([]SeatResponse, 0, len(showtime.SeatMap))
	for label, state := range showtime.SeatMap {
		seats = append(seats, SeatResponse{
			SeatNumber: label,
			IsBooked:   state.IsBooked,
			SeatType:   string(state.SeatType),
		})
	}

	// Stable order: row letter, then seat number length, then label
	// ("A2" before "A10").
	sort.Slice(seats, func(i, j int) bool {
		a, b := seats[i].SeatNumber, seats[j].SeatNumber
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})

	return &AvailableSeatsResponse{
		ShowtimeID:     showtime.ID.String(),
		AvailableSeats: showtime.AvailableSeats,
		TotalSeats:     showtime.TotalSeats,
		Seats:          seats,
	}
}

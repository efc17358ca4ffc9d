package response

import (
	"time"

	"movie-reservation/internal/data/entity"
)

type ReservationSeatResponse struct {
	SeatNumber string `json:"seat_number"`
	SeatType   string `json:"seat_type"`
}

type ReservationResponse struct {
	ID               string                    `json:"id"`
	BookingReference string                    `json:"booking_reference"`
	UserID           string                    `json:"user_id"`
	ShowtimeID       string                    `json:"showtime_id"`
	Seats            []ReservationSeatResponse `json:"seats"`
	TotalAmount      float64                   `json:"total_amount"`
	Status           entity.ReservationStatus  `json:"status"`
	PaymentID        *string                   `json:"payment_id,omitempty"`
	BookingDate      time.Time                 `json:"booking_date"`
	CreatedAt        time.Time                 `json:"created_at"`
}

func ReservationToResponse(reservation *entity.Reservation) *ReservationResponse {
	seats := make([]ReservationSeatResponse, len(reservation.Seats))
	for i, seat := range reservation.Seats {
		seats[i] = ReservationSeatResponse{
			SeatNumber: seat.SeatNumber,
			SeatType:   string(seat.SeatType),
		}
	}

	return &ReservationResponse{
		ID:               reservation.ID.String(),
		BookingReference: reservation.BookingReference,
		UserID:           reservation.UserID.String(),
		ShowtimeID:       reservation.ShowtimeID.String(),
		Seats:            seats,
		TotalAmount:      reservation.TotalAmount,
		Status:           reservation.Status,
		PaymentID:        reservation.PaymentID,
		BookingDate:      reservation.BookingDate,
		CreatedAt:        reservation.CreatedAt,
	}
}

package request

type SeatSelection struct {
	SeatNumber string `json:"seat_number" validate:"required"`
}

type CreateReservationRequest struct {
	ShowtimeID string          `json:"showtime_id" validate:"required,uuid4"`
	Seats      []SeatSelection `json:"seats" validate:"required,min=1,unique=SeatNumber,dive"`
}

// SeatNumbers flattens the selection into labels, preserving request order.
func (r *CreateReservationRequest) SeatNumbers() []string {
	numbers := make([]string, len(r.Seats))
	for i, seat := range r.Seats {
		numbers[i] = seat.SeatNumber
	}
	return numbers
}

type UpdateReservationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

type ListReservationsRequest struct {
	PaginatedRequest
	Status string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
}

// AdminListReservationsRequest additionally filters by user.
type AdminListReservationsRequest struct {
	ListReservationsRequest
	UserID string `json:"user_id" validate:"omitempty,uuid4"`
}

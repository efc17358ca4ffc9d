package request

import "time"

type CreateShowtimeRequest struct {
	MovieID      string    `json:"movie_id" validate:"required,uuid4"`
	TheaterID    string    `json:"theater_id" validate:"required,uuid4"`
	ScreenNumber int       `json:"screen_number" validate:"required,min=1"`
	StartTime    time.Time `json:"start_time" validate:"required"`
	EndTime      time.Time `json:"end_time" validate:"required"`
	BasePrice    float64   `json:"base_price" validate:"required,gt=0"`
	TotalSeats   int       `json:"total_seats" validate:"required,min=1,max=260"`
}

package repository

import (
	"movie-reservation/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Showtime    ShowtimeRepository
	Reservation ReservationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Showtime:    NewShowtimeRepository(db, log),
		Reservation: NewReservationRepository(db, log),
	}
}

package wire

import (
	"movie-reservation/internal/adaptor"
	"movie-reservation/pkg/middleware"
	"movie-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReservation(
	r chi.Router,
	reservationHandler *adaptor.ReservationHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		// POST /api/reservations - Book seats for a showtime
		r.Post("/api/reservations", reservationHandler.CreateReservation)

		// GET /api/reservations - Caller's reservation history
		r.Get("/api/reservations", reservationHandler.GetUserReservations)

		// GET /api/reservations/{id} - Single reservation (owner or admin)
		r.Get("/api/reservations/{id}", reservationHandler.GetReservationByID)

		// PUT /api/reservations/{id}/cancel - Cancel (owner or admin)
		r.Put("/api/reservations/{id}/cancel", reservationHandler.CancelReservation)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/reservations", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))
		r.Use(middleware.Admin(log))

		// GET /api/admin/reservations - List all reservations
		r.Get("/", reservationHandler.GetAllReservations)

		// PUT /api/admin/reservations/{id}/status - Status override
		r.Put("/{id}/status", reservationHandler.SetReservationStatus)
	})
}

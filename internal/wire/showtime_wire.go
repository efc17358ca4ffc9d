package wire

import (
	"movie-reservation/internal/adaptor"
	"movie-reservation/pkg/middleware"
	"movie-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireShowtime(
	r chi.Router,
	showtimeHandler *adaptor.ShowtimeHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/showtimes/{id}/seats - Seat availability (public)
	r.Get("/api/showtimes/{id}/seats", showtimeHandler.GetAvailableSeats)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/showtimes", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))
		r.Use(middleware.Admin(log))

		// POST /api/admin/showtimes - Create showtime with generated seat map
		r.Post("/", showtimeHandler.CreateShowtime)

		// DELETE /api/admin/showtimes/{id} - Soft-deactivate
		r.Delete("/{id}", showtimeHandler.DeactivateShowtime)
	})
}

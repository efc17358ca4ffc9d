package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"movie-reservation/internal/usecase"
	"movie-reservation/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps domain errors to HTTP responses. Booking conflicts
// carry the conflicting seats so clients can re-offer alternatives.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var unavailable *usecase.SeatsUnavailableError
	var unknownSeat *usecase.UnknownSeatError

	switch {
	case errors.As(err, &unavailable):
		log.Warn(operation+" failed - seats unavailable",
			zap.Strings("unavailable_seats", unavailable.Seats))
		utils.ResponseConflict(w, "Some seats are already booked", map[string]any{
			"unavailable_seats": unavailable.Seats,
		})

	case errors.As(err, &unknownSeat):
		log.Warn(operation+" failed - unknown seat",
			zap.String("seat", unknownSeat.Seat))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrShowtimeNotFound),
		errors.Is(err, usecase.ErrReservationNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrPastShowtime),
		errors.Is(err, usecase.ErrShowtimeInactive),
		errors.Is(err, usecase.ErrInsufficientCapacity),
		errors.Is(err, usecase.ErrAlreadyCancelled),
		errors.Is(err, usecase.ErrCancellationWindow),
		errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrInvalidStatus),
		errors.Is(err, usecase.ErrInvalidShowtimeSlot):
		log.Warn(operation+" failed - rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case strings.Contains(err.Error(), "validation failed"),
		strings.Contains(err.Error(), "invalid"):
		log.Warn(operation+" failed - bad input", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

package usecase

import (
	"movie-reservation/internal/data/repository"
	"movie-reservation/pkg/lock"

	"go.uber.org/zap"
)

type Service struct {
	Inventory   InventoryService
	Reservation ReservationService
}

func NewService(repo *repository.Repository, notifier SeatNotifier, cache SeatsCache, log *zap.Logger) *Service {
	locks := lock.NewKeyedMutex()
	inventory := NewInventoryService(repo, locks, notifier, cache, log)

	return &Service{
		Inventory:   inventory,
		Reservation: NewReservationService(repo, inventory, log),
	}
}

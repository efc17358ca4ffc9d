package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"movie-reservation/internal/data/entity"
	"movie-reservation/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ShowtimeRepository interface {
	Create(ctx context.Context, showtime *entity.Showtime) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error)
	Deactivate(ctx context.Context, id uuid.UUID) error

	// CommitSeatState writes the seat map and available count back as one
	// conditional update. Fails with ErrVersionConflict if another writer
	// got there first, leaving the row untouched.
	CommitSeatState(ctx context.Context, showtime *entity.Showtime) error
}

type showtimeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowtimeRepository(db database.PgxIface, log *zap.Logger) ShowtimeRepository {
	return &showtimeRepository{
		db:  db,
		log: log.With(zap.String("repository", "showtime")),
	}
}

func (r *showtimeRepository) Create(ctx context.Context, showtime *entity.Showtime) error {
	seatMapJSON, err := json.Marshal(showtime.SeatMap)
	if err != nil {
		return fmt.Errorf("marshal seat map: %w", err)
	}

	query := `
		INSERT INTO showtimes (id, movie_id, theater_id, screen_number, start_time, end_time,
			base_price, total_seats, available_seats, seat_map, version, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = r.db.Exec(ctx, query,
		showtime.ID,
		showtime.MovieID,
		showtime.TheaterID,
		showtime.ScreenNumber,
		showtime.StartTime,
		showtime.EndTime,
		showtime.BasePrice,
		showtime.TotalSeats,
		showtime.AvailableSeats,
		seatMapJSON,
		showtime.Version,
		showtime.IsActive,
		showtime.CreatedAt,
		showtime.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create showtime",
			zap.Error(err),
			zap.String("showtime_id", showtime.ID.String()),
		)
		return fmt.Errorf("create showtime %s: %w", showtime.ID.String(), err)
	}

	return nil
}

func (r *showtimeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	query := `
		SELECT id, movie_id, theater_id, screen_number, start_time, end_time,
			base_price, total_seats, available_seats, seat_map, version, is_active, created_at, updated_at
		FROM showtimes
		WHERE id = $1
	`

	var showtime entity.Showtime
	var seatMapJSON []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.TheaterID,
		&showtime.ScreenNumber,
		&showtime.StartTime,
		&showtime.EndTime,
		&showtime.BasePrice,
		&showtime.TotalSeats,
		&showtime.AvailableSeats,
		&seatMapJSON,
		&showtime.Version,
		&showtime.IsActive,
		&showtime.CreatedAt,
		&showtime.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find showtime by ID",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return nil, fmt.Errorf("find showtime by ID %s: %w", id.String(), err)
	}

	if err := json.Unmarshal(seatMapJSON, &showtime.SeatMap); err != nil {
		return nil, fmt.Errorf("unmarshal seat map for showtime %s: %w", id.String(), err)
	}

	return &showtime, nil
}

func (r *showtimeRepository) CommitSeatState(ctx context.Context, showtime *entity.Showtime) error {
	seatMapJSON, err := json.Marshal(showtime.SeatMap)
	if err != nil {
		return fmt.Errorf("marshal seat map: %w", err)
	}

	query := `
		UPDATE showtimes
		SET seat_map = $3, available_seats = $4, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
	`

	result, err := r.db.Exec(ctx, query,
		showtime.ID,
		showtime.Version,
		seatMapJSON,
		showtime.AvailableSeats,
	)

	if err != nil {
		r.log.Error("Failed to commit seat state",
			zap.Error(err),
			zap.String("showtime_id", showtime.ID.String()),
		)
		return fmt.Errorf("commit seat state for showtime %s: %w", showtime.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		r.log.Warn("Seat state commit lost version race",
			zap.String("showtime_id", showtime.ID.String()),
			zap.Int("version", showtime.Version),
		)
		return ErrVersionConflict
	}

	showtime.Version++
	return nil
}

func (r *showtimeRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE showtimes SET is_active = false, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to deactivate showtime",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return fmt.Errorf("deactivate showtime %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("showtime %s not found", id.String())
	}

	r.log.Info("Showtime deactivated", zap.String("showtime_id", id.String()))
	return nil
}

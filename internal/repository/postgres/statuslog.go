package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"equiphire-backend/internal/domain"
	"equiphire-backend/internal/repository"
)

type statusLogRepository struct {
	db *sql.DB
}

func NewStatusLogRepository(db *sql.DB) repository.StatusLogRepository {
	return &statusLogRepository{db: db}
}

func (r *statusLogRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.StatusLogEntry, error) {
	query := `SELECT id, booking_id, previous_status, new_status, action_type, role, note, created_on
	          FROM status_logs WHERE booking_id = $1 ORDER BY created_on, id`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list status log: %w", err)
	}
	defer rows.Close()

	var entries []domain.StatusLogEntry
	for rows.Next() {
		var e domain.StatusLogEntry
		var prev sql.NullString
		if err := rows.Scan(&e.ID, &e.BookingID, &prev, &e.NewStatus, &e.ActionType, &e.Role, &e.Note, &e.CreatedOn); err != nil {
			return nil, fmt.Errorf("scan status log: %w", err)
		}
		if prev.Valid {
			s := domain.BookingStatus(prev.String)
			e.PreviousStatus = &s
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

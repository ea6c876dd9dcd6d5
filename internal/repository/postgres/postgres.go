package postgres

import (
	"database/sql"

	"equiphire-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.BookingRepository
	repository.StatusLogRepository
	repository.DisputeRepository
	repository.PartyRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                  db,
		BookingRepository:   NewBookingRepository(db),
		StatusLogRepository: NewStatusLogRepository(db),
		DisputeRepository:   NewDisputeRepository(db),
		PartyRepository:     NewPartyRepository(db),
	}
}

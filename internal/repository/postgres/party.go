package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"equiphire-backend/internal/domain"
	"equiphire-backend/internal/repository"
)

type partyRepository struct {
	db *sql.DB
}

func NewPartyRepository(db *sql.DB) repository.PartyRepository {
	return &partyRepository{db: db}
}

// GetContact reads from the parties table owned by the identity service.
// This core never writes it.
func (r *partyRepository) GetContact(ctx context.Context, id int64) (*domain.Party, error) {
	p := &domain.Party{}
	query := `SELECT id, name, email FROM parties WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get party %d: %w", id, err)
	}
	return p, nil
}

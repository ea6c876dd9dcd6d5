package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"equiphire-backend/internal/domain"
	"equiphire-backend/internal/repository"

	"github.com/lib/pq"
)

const disputeColumns = `id, booking_id, raised_by, raised_by_role, reason, description, evidence,
	response_text, response_evidence, responded_on, status, resolution_tag, resolution_notes,
	refund_amount_cents, created_on, updated_on, resolved_on`

type disputeRepository struct {
	db *sql.DB
}

func NewDisputeRepository(db *sql.DB) repository.DisputeRepository {
	return &disputeRepository{db: db}
}

func (r *disputeRepository) CreateWithTransition(ctx context.Context, d *domain.Dispute, b *domain.Booking, entry *domain.StatusLogEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create dispute: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	query := `INSERT INTO disputes (booking_id, raised_by, raised_by_role, reason, description, evidence,
	          status, refund_amount_cents, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		d.BookingID, d.RaisedBy, d.RaisedByRole, d.Reason, d.Description, pq.Array(d.Evidence),
		d.Status, d.RefundAmountCents, now, now,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("insert dispute: %w", err)
	}

	// The forced disputed transition shares the dispute's transaction:
	// either both persist or neither does.
	if err := applyTransitionTx(ctx, tx, b); err != nil {
		return err
	}
	if err := insertLogTx(ctx, tx, entry); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create dispute: %w", err)
	}
	d.CreatedOn = now
	d.UpdatedOn = now
	b.Version++
	return nil
}

func (r *disputeRepository) GetByID(ctx context.Context, id int64) (*domain.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE id = $1`
	return scanDispute(r.db.QueryRowContext(ctx, query, id))
}

func (r *disputeRepository) GetOpenByBooking(ctx context.Context, bookingID int64) (*domain.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes
	          WHERE booking_id = $1 AND status IN ($2, $3)
	          ORDER BY created_on DESC LIMIT 1`
	return scanDispute(r.db.QueryRowContext(ctx, query, bookingID, domain.DisputeStatusOpen, domain.DisputeStatusUnderReview))
}

func (r *disputeRepository) UpdateResponse(ctx context.Context, d *domain.Dispute) error {
	query := `UPDATE disputes SET response_text=$1, response_evidence=$2, responded_on=$3, updated_on=$4 WHERE id=$5`
	res, err := r.db.ExecContext(ctx, query, d.ResponseText, pq.Array(d.ResponseEvidence), d.RespondedOn, time.Now(), d.ID)
	if err != nil {
		return fmt.Errorf("update dispute response %d: %w", d.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *disputeRepository) Resolve(ctx context.Context, d *domain.Dispute, b *domain.Booking, entry *domain.StatusLogEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin resolve dispute: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE disputes SET status=$1, resolution_tag=$2, resolution_notes=$3,
	          refund_amount_cents=$4, resolved_on=$5, updated_on=$6 WHERE id=$7`
	res, err := tx.ExecContext(ctx, query,
		d.Status, d.ResolutionTag, d.ResolutionNotes, d.RefundAmountCents, d.ResolvedOn, time.Now(), d.ID)
	if err != nil {
		return fmt.Errorf("resolve dispute %d: %w", d.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}

	if b != nil && entry != nil {
		if err := applyTransitionTx(ctx, tx, b); err != nil {
			return err
		}
		if err := insertLogTx(ctx, tx, entry); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit resolve dispute: %w", err)
	}
	if b != nil {
		b.Version++
	}
	return nil
}

func scanDispute(row rowScanner) (*domain.Dispute, error) {
	d := &domain.Dispute{}
	var responseText, resolutionTag, resolutionNotes sql.NullString
	err := row.Scan(
		&d.ID, &d.BookingID, &d.RaisedBy, &d.RaisedByRole, &d.Reason, &d.Description, pq.Array(&d.Evidence),
		&responseText, pq.Array(&d.ResponseEvidence), &d.RespondedOn, &d.Status, &resolutionTag,
		&resolutionNotes, &d.RefundAmountCents, &d.CreatedOn, &d.UpdatedOn, &d.ResolvedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan dispute: %w", err)
	}
	d.ResponseText = responseText.String
	d.ResolutionTag = domain.ResolutionTag(resolutionTag.String)
	d.ResolutionNotes = resolutionNotes.String
	return d, nil
}

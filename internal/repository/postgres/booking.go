package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"equiphire-backend/internal/domain"
	"equiphire-backend/internal/repository"
)

const bookingColumns = `id, booking_number, contractor_id, owner_id, equipment_id, start_date, end_date,
	status, payment_status, rental_amount_cents, platform_fee_cents, vat_amount_cents,
	deposit_amount_cents, total_amount_cents, owner_payout_cents, cancellation_reason,
	cancelled_by, contractor_notes, owner_notes, version, created_on, updated_on`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking, entry *domain.StatusLogEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create booking: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	query := `INSERT INTO bookings (booking_number, contractor_id, owner_id, equipment_id, start_date, end_date,
	          status, payment_status, rental_amount_cents, platform_fee_cents, vat_amount_cents,
	          deposit_amount_cents, total_amount_cents, owner_payout_cents, cancellation_reason,
	          cancelled_by, contractor_notes, owner_notes, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	          RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		b.BookingNumber, b.ContractorID, b.OwnerID, b.EquipmentID, b.StartDate, b.EndDate,
		b.Status, b.PaymentStatus, b.RentalAmountCents, b.PlatformFeeCents, b.VATAmountCents,
		b.DepositAmountCents, b.TotalAmountCents, b.OwnerPayoutCents, b.CancellationReason,
		b.CancelledBy, b.ContractorNotes, b.OwnerNotes, b.Version, now, now,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	b.CreatedOn = now
	b.UpdatedOn = now

	entry.BookingID = b.ID
	if err := insertLogTx(ctx, tx, entry); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.db.QueryRowContext(ctx, query, id))
}

func (r *bookingRepository) GetByNumber(ctx context.Context, number string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_number = $1`
	return scanBooking(r.db.QueryRowContext(ctx, query, number))
}

func (r *bookingRepository) ApplyTransition(ctx context.Context, b *domain.Booking, entry *domain.StatusLogEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback()

	if err := applyTransitionTx(ctx, tx, b); err != nil {
		return err
	}
	if err := insertLogTx(ctx, tx, entry); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transition: %w", err)
	}
	b.Version++
	return nil
}

// applyTransitionTx writes the mutable booking fields guarded by the
// version the caller observed. Zero rows affected means another writer got
// there first.
func applyTransitionTx(ctx context.Context, tx *sql.Tx, b *domain.Booking) error {
	query := `UPDATE bookings
	          SET status=$1, payment_status=$2, owner_payout_cents=$3,
	              cancellation_reason=$4, cancelled_by=$5, version=version+1, updated_on=$6
	          WHERE id=$7 AND version=$8`
	res, err := tx.ExecContext(ctx, query,
		b.Status, b.PaymentStatus, b.OwnerPayoutCents,
		b.CancellationReason, b.CancelledBy, time.Now(), b.ID, b.Version)
	if err != nil {
		return fmt.Errorf("update booking %d: %w", b.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update booking %d: %w", b.ID, err)
	}
	if n == 0 {
		return domain.ErrConcurrentModification
	}
	return nil
}

func insertLogTx(ctx context.Context, tx *sql.Tx, entry *domain.StatusLogEntry) error {
	query := `INSERT INTO status_logs (booking_id, previous_status, new_status, action_type, role, note, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	var prev *string
	if entry.PreviousStatus != nil {
		s := string(*entry.PreviousStatus)
		prev = &s
	}
	now := time.Now()
	err := tx.QueryRowContext(ctx, query,
		entry.BookingID, prev, entry.NewStatus, entry.ActionType, entry.Role, entry.Note, now,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("insert status log: %w", err)
	}
	entry.CreatedOn = now
	return nil
}

func (r *bookingRepository) UpdateNotes(ctx context.Context, id int64, role domain.Role, notes string) error {
	column := "contractor_notes"
	if role == domain.RoleOwner {
		column = "owner_notes"
	}
	query := fmt.Sprintf(`UPDATE bookings SET %s=$1, updated_on=$2 WHERE id=$3`, column)
	res, err := r.db.ExecContext(ctx, query, notes, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update notes for booking %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *bookingRepository) ListByContractor(ctx context.Context, contractorID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "contractor_id", contractorID, status, page, pageSize)
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "owner_id", ownerID, status, page, pageSize)
}

func (r *bookingRepository) list(ctx context.Context, partyColumn string, partyID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + partyColumn + ` = $1`

	args := []interface{}{partyID}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, count, rows.Err()
}

func (r *bookingRepository) ListReturnsDue(ctx context.Context, asOf string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 AND end_date < $2 ORDER BY end_date`
	rows, err := r.db.QueryContext(ctx, query, domain.BookingStatusOnHire, asOf)
	if err != nil {
		return nil, fmt.Errorf("list returns due: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(
		&b.ID, &b.BookingNumber, &b.ContractorID, &b.OwnerID, &b.EquipmentID, &b.StartDate, &b.EndDate,
		&b.Status, &b.PaymentStatus, &b.RentalAmountCents, &b.PlatformFeeCents, &b.VATAmountCents,
		&b.DepositAmountCents, &b.TotalAmountCents, &b.OwnerPayoutCents, &b.CancellationReason,
		&b.CancelledBy, &b.ContractorNotes, &b.OwnerNotes, &b.Version, &b.CreatedOn, &b.UpdatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	return b, nil
}

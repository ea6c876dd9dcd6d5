package postgres_test

import (
	"context"
	"testing"
	"time"

	"equiphire-backend/internal/domain"
	"equiphire-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingRowColumns = []string{
	"id", "booking_number", "contractor_id", "owner_id", "equipment_id", "start_date", "end_date",
	"status", "payment_status", "rental_amount_cents", "platform_fee_cents", "vat_amount_cents",
	"deposit_amount_cents", "total_amount_cents", "owner_payout_cents", "cancellation_reason",
	"cancelled_by", "contractor_notes", "owner_notes", "version", "created_on", "updated_on",
}

func bookingRow() *sqlmock.Rows {
	return sqlmock.NewRows(bookingRowColumns).
		AddRow(1, "EH-A1B2C3D4", 10, 20, 30, "2026-09-01", "2026-09-05",
			"on_hire", "confirmed", 250000, 25000, 55000,
			100000, 430000, 225000, "",
			"", "", "", 3, time.Now(), time.Now())
}

func TestBookingRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		b := &domain.Booking{
			BookingNumber: "EH-A1B2C3D4",
			ContractorID:  10,
			OwnerID:       20,
			EquipmentID:   30,
			StartDate:     "2026-09-01",
			EndDate:       "2026-09-05",
			Status:        domain.BookingStatusRequested,
			PaymentStatus: domain.PaymentStatusPending,
			Version:       1,
		}
		entry := &domain.StatusLogEntry{
			NewStatus:  domain.BookingStatusRequested,
			ActionType: domain.ActionStatusChange,
			Role:       domain.RoleContractor,
		}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO bookings").
			WithArgs(b.BookingNumber, b.ContractorID, b.OwnerID, b.EquipmentID, b.StartDate, b.EndDate,
				b.Status, b.PaymentStatus, int64(0), int64(0), int64(0),
				int64(0), int64(0), int64(0), "",
				domain.Role(""), "", "", int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery("INSERT INTO status_logs").
			WithArgs(int64(7), nil, entry.NewStatus, entry.ActionType, entry.Role, "", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := repo.Create(ctx, b, entry)
		require.NoError(t, err)
		assert.Equal(t, int64(7), b.ID)
		assert.Equal(t, int64(7), entry.BookingID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(bookingRow())

		b, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "EH-A1B2C3D4", b.BookingNumber)
		assert.Equal(t, domain.BookingStatusOnHire, b.Status)
		assert.Equal(t, int64(3), b.Version)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns))

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookingRepository_ApplyTransition(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		b := &domain.Booking{
			ID:            1,
			Status:        domain.BookingStatusReturned,
			PaymentStatus: domain.PaymentStatusConfirmed,
			Version:       3,
		}
		prev := domain.BookingStatusOnHire
		entry := &domain.StatusLogEntry{
			BookingID:      1,
			PreviousStatus: &prev,
			NewStatus:      domain.BookingStatusReturned,
			ActionType:     domain.ActionStatusChange,
			Role:           domain.RoleContractor,
		}

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE bookings").
			WithArgs(b.Status, b.PaymentStatus, int64(0), "", domain.Role(""),
				sqlmock.AnyArg(), int64(1), int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO status_logs").
			WithArgs(int64(1), string(prev), entry.NewStatus, entry.ActionType, entry.Role, "", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
		mock.ExpectCommit()

		err := repo.ApplyTransition(ctx, b, entry)
		require.NoError(t, err)
		assert.Equal(t, int64(4), b.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("VersionConflict", func(t *testing.T) {
		b := &domain.Booking{ID: 1, Status: domain.BookingStatusReturned, Version: 3}
		prev := domain.BookingStatusOnHire
		entry := &domain.StatusLogEntry{BookingID: 1, PreviousStatus: &prev, NewStatus: b.Status, ActionType: domain.ActionStatusChange, Role: domain.RoleContractor}

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE bookings").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.ApplyTransition(ctx, b, entry)
		assert.ErrorIs(t, err, domain.ErrConcurrentModification)
		assert.Equal(t, int64(3), b.Version, "version unchanged on conflict")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_UpdateNotes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()

	t.Run("OwnerColumn", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET owner_notes").
			WithArgs("needs a low loader", sqlmock.AnyArg(), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateNotes(ctx, 1, domain.RoleOwner, "needs a low loader")
		assert.NoError(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET contractor_notes").
			WithArgs("x", sqlmock.AnyArg(), int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateNotes(ctx, 99, domain.RoleContractor, "x")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookingRepository_ListReturnsDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE status = \\$1 AND end_date < \\$2").
		WithArgs(domain.BookingStatusOnHire, "2026-09-10").
		WillReturnRows(bookingRow())

	due, err := repo.ListReturnsDue(ctx, "2026-09-10")
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, domain.BookingStatusOnHire, due[0].Status)
}

func TestStatusLogRepository_ListByBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewStatusLogRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "booking_id", "previous_status", "new_status", "action_type", "role", "note", "created_on"}).
		AddRow(1, 1, nil, "requested", "status_change", "contractor", "", time.Now()).
		AddRow(2, 1, "requested", "accepted", "status_change", "owner", "", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM status_logs WHERE booking_id = \\$1").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	entries, err := repo.ListByBooking(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Nil(t, entries[0].PreviousStatus)
	require.NotNil(t, entries[1].PreviousStatus)
	assert.Equal(t, domain.BookingStatusRequested, *entries[1].PreviousStatus)
}

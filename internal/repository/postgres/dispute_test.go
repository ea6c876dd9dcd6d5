package postgres_test

import (
	"context"
	"testing"
	"time"

	"equiphire-backend/internal/domain"
	"equiphire-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var disputeRowColumns = []string{
	"id", "booking_id", "raised_by", "raised_by_role", "reason", "description", "evidence",
	"response_text", "response_evidence", "responded_on", "status", "resolution_tag", "resolution_notes",
	"refund_amount_cents", "created_on", "updated_on", "resolved_on",
}

func TestDisputeRepository_CreateWithTransition(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewDisputeRepository(db)
	ctx := context.Background()

	newDispute := func() (*domain.Dispute, *domain.Booking, *domain.StatusLogEntry) {
		d := &domain.Dispute{
			BookingID:    1,
			RaisedBy:     20,
			RaisedByRole: domain.RoleOwner,
			Reason:       "damage on return",
			Evidence:     []string{"photo-1.jpg"},
			Status:       domain.DisputeStatusOpen,
		}
		b := &domain.Booking{
			ID:            1,
			Status:        domain.BookingStatusDisputed,
			PaymentStatus: domain.PaymentStatusConfirmed,
			Version:       5,
		}
		prev := domain.BookingStatusReturned
		entry := &domain.StatusLogEntry{
			BookingID:      1,
			PreviousStatus: &prev,
			NewStatus:      domain.BookingStatusDisputed,
			ActionType:     domain.ActionDispute,
			Role:           domain.RoleOwner,
			Note:           "damage on return",
		}
		return d, b, entry
	}

	t.Run("Success", func(t *testing.T) {
		d, b, entry := newDispute()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO disputes").
			WithArgs(d.BookingID, d.RaisedBy, d.RaisedByRole, d.Reason, d.Description, pq.Array(d.Evidence),
				d.Status, int64(0), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectExec("UPDATE bookings").
			WithArgs(b.Status, b.PaymentStatus, int64(0), "", domain.Role(""),
				sqlmock.AnyArg(), int64(1), int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO status_logs").
			WithArgs(int64(1), "returned", entry.NewStatus, entry.ActionType, entry.Role, entry.Note, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
		mock.ExpectCommit()

		err := repo.CreateWithTransition(ctx, d, b, entry)
		require.NoError(t, err)
		assert.Equal(t, int64(3), d.ID)
		assert.Equal(t, int64(6), b.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	// A lost version race on the booking rolls the dispute insert back.
	t.Run("TransitionConflictRollsBack", func(t *testing.T) {
		d, b, entry := newDispute()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO disputes").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
		mock.ExpectExec("UPDATE bookings").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.CreateWithTransition(ctx, d, b, entry)
		assert.ErrorIs(t, err, domain.ErrConcurrentModification)
		assert.Equal(t, int64(5), b.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDisputeRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewDisputeRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(disputeRowColumns).
			AddRow(3, 1, 20, "owner", "damage on return", "", "{photo-1.jpg}",
				nil, "{}", nil, "open", nil, nil,
				0, time.Now(), time.Now(), nil)

		mock.ExpectQuery("SELECT (.+) FROM disputes WHERE id = \\$1").
			WithArgs(int64(3)).
			WillReturnRows(rows)

		d, err := repo.GetByID(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, domain.DisputeStatusOpen, d.Status)
		assert.Equal(t, domain.RoleOwner, d.RaisedByRole)
		assert.Equal(t, []string{"photo-1.jpg"}, d.Evidence)
		assert.Nil(t, d.RespondedOn)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM disputes WHERE id = \\$1").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(disputeRowColumns))

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDisputeRepository_Resolve(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewDisputeRepository(db)
	ctx := context.Background()

	t.Run("WithForcedTransition", func(t *testing.T) {
		now := time.Now()
		d := &domain.Dispute{
			ID:                3,
			Status:            domain.DisputeStatusResolved,
			ResolutionTag:     domain.ResolutionPartialRefund,
			ResolutionNotes:   "split the repair cost",
			RefundAmountCents: 50000,
			ResolvedOn:        &now,
		}
		b := &domain.Booking{ID: 1, Status: domain.BookingStatusCompleted, PaymentStatus: domain.PaymentStatusConfirmed, Version: 6}
		prev := domain.BookingStatusDisputed
		entry := &domain.StatusLogEntry{
			BookingID:      1,
			PreviousStatus: &prev,
			NewStatus:      domain.BookingStatusCompleted,
			ActionType:     domain.ActionDispute,
			Role:           domain.RoleAdmin,
		}

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE disputes").
			WithArgs(d.Status, d.ResolutionTag, d.ResolutionNotes, d.RefundAmountCents,
				d.ResolvedOn, sqlmock.AnyArg(), int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE bookings").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO status_logs").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(15))
		mock.ExpectCommit()

		err := repo.Resolve(ctx, d, b, entry)
		require.NoError(t, err)
		assert.Equal(t, int64(7), b.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("WithoutTransition", func(t *testing.T) {
		d := &domain.Dispute{ID: 3, Status: domain.DisputeStatusUnderReview, ResolutionTag: domain.ResolutionDeferred}

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE disputes").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Resolve(ctx, d, nil, nil)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

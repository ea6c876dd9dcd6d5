package repository

import (
	"context"

	"equiphire-backend/internal/domain"
)

// BookingRepository persists bookings and their audit log. Every write that
// changes booking status is transactional: the booking row update (guarded
// by the version column) and the status-log insert either both commit or
// neither does. A version mismatch surfaces as domain.ErrConcurrentModification.
type BookingRepository interface {
	// Create inserts the booking in requested status together with its
	// first log entry (previous status null), atomically.
	Create(ctx context.Context, b *domain.Booking, entry *domain.StatusLogEntry) error

	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByNumber(ctx context.Context, number string) (*domain.Booking, error)

	// ApplyTransition writes the booking's mutated fields and appends the
	// log entry in one transaction. The WHERE clause checks b.Version as
	// observed by the caller; on success the stored and in-memory version
	// are incremented.
	ApplyTransition(ctx context.Context, b *domain.Booking, entry *domain.StatusLogEntry) error

	// UpdateNotes writes one party's free-text notes. Independent of
	// status and not version-guarded.
	UpdateNotes(ctx context.Context, id int64, role domain.Role, notes string) error

	ListByContractor(ctx context.Context, contractorID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByOwner(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)

	// ListReturnsDue returns on_hire bookings whose end date is before
	// asOf (yyyy-mm-dd). Used by the return-due sweeper job.
	ListReturnsDue(ctx context.Context, asOf string) ([]domain.Booking, error)
}

type StatusLogRepository interface {
	// ListByBooking returns the full history, oldest first.
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.StatusLogEntry, error)
}

// DisputeRepository persists disputes. The operations that must move the
// parent booking take the booking and log entry and commit everything in
// one transaction, so a failed forced transition leaves no dispute row.
type DisputeRepository interface {
	// CreateWithTransition inserts the dispute and applies the forced
	// disputed transition atomically.
	CreateWithTransition(ctx context.Context, d *domain.Dispute, b *domain.Booking, entry *domain.StatusLogEntry) error

	GetByID(ctx context.Context, id int64) (*domain.Dispute, error)
	GetOpenByBooking(ctx context.Context, bookingID int64) (*domain.Dispute, error)

	// UpdateResponse writes the counter-party response fields.
	UpdateResponse(ctx context.Context, d *domain.Dispute) error

	// Resolve writes the resolution fields and, when b and entry are
	// non-nil, applies the forced terminal transition in the same
	// transaction.
	Resolve(ctx context.Context, d *domain.Dispute, b *domain.Booking, entry *domain.StatusLogEntry) error
}

// PartyRepository resolves contact details for booking parties. Identity
// and profile management live outside this core; this is a read-only view
// used for notifications.
type PartyRepository interface {
	GetContact(ctx context.Context, id int64) (*domain.Party, error)
}

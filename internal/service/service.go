package service

import (
	"context"

	"equiphire-backend/internal/domain"
)

// BookingService is the lifecycle engine: the only component allowed to
// mutate a booking's status. Every mutation re-validates against the
// transition table and writes exactly one status-log entry in the same
// atomic unit as the booking update.
type BookingService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error)

	// RequestTransition validates the edge and the acting role, applies
	// edge-specific side effects, and persists booking + log atomically.
	RequestTransition(ctx context.Context, bookingID int64, target domain.BookingStatus, role domain.Role, note string) (*domain.Booking, error)

	// CanTransition is the pure predicate form of RequestTransition's
	// checks; both read the same transition table.
	CanTransition(b *domain.Booking, target domain.BookingStatus, role domain.Role) bool

	// MarkPaymentMade is the contractor's payment attestation. The status
	// stays pending_payment; only the payment sub-state moves.
	MarkPaymentMade(ctx context.Context, bookingID int64, role domain.Role, note string) (*domain.Booking, error)

	GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	GetBookingByNumber(ctx context.Context, number string) (*domain.Booking, error)
	ListByContractor(ctx context.Context, contractorID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByOwner(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	GetStatusHistory(ctx context.Context, bookingID int64) ([]domain.StatusLogEntry, error)
	GetProgress(ctx context.Context, bookingID int64) ([]domain.Stage, error)
	UpdateNotes(ctx context.Context, bookingID int64, role domain.Role, notes string) error

	// MarkReturnsDue moves every on_hire booking past its end date to
	// return_due under the system role. Called by the scheduled sweeper.
	MarkReturnsDue(ctx context.Context, asOf string) (int, error)
}

type CreateBookingRequest struct {
	ContractorID   int64
	OwnerID        int64
	EquipmentID    int64
	StartDate      string
	EndDate        string
	DailyRateCents int64
	DepositCents   int64
	Note           string
}

type DisputeService interface {
	RaiseDispute(ctx context.Context, bookingID, raisedBy int64, role domain.Role, reason, description string, evidence []string) (*domain.Dispute, error)
	SubmitResponse(ctx context.Context, disputeID int64, role domain.Role, text string, evidence []string) (*domain.Dispute, error)
	ResolveDispute(ctx context.Context, disputeID int64, role domain.Role, newStatus domain.DisputeStatus, tag domain.ResolutionTag, notes string, refundCents int64) (*domain.Dispute, error)
	// GetDispute returns the dispute if the caller is the admin or a
	// party to the parent booking; evidence and resolution notes are not
	// visible to outsiders.
	GetDispute(ctx context.Context, disputeID, userID int64, role domain.Role) (*domain.Dispute, error)

	// GetOpenDispute returns the booking's unresolved dispute, if any,
	// under the same visibility rule.
	GetOpenDispute(ctx context.Context, bookingID, userID int64, role domain.Role) (*domain.Dispute, error)
}

// EmailService sends transition notifications. Delivery is best effort:
// failures are logged by callers, never propagated into the transition.
type EmailService interface {
	SendBookingRequestedNotification(ctx context.Context, email, name, bookingNumber, startDate, endDate string) error
	SendBookingStatusNotification(ctx context.Context, email, name, bookingNumber string, status domain.BookingStatus, note string) error
	SendDisputeRaisedNotification(ctx context.Context, email, name, bookingNumber, reason string) error
	SendDisputeResolvedNotification(ctx context.Context, email, name, bookingNumber string, tag domain.ResolutionTag, notes string) error
}

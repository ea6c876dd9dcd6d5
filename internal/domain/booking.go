package domain

import "time"

type BookingStatus string

const (
	BookingStatusRequested      BookingStatus = "requested"
	BookingStatusAccepted       BookingStatus = "accepted"
	BookingStatusRejected       BookingStatus = "rejected"
	BookingStatusPendingPayment BookingStatus = "pending_payment"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusDelivering     BookingStatus = "delivering"
	BookingStatusOnHire         BookingStatus = "on_hire"
	BookingStatusReturnDue      BookingStatus = "return_due"
	BookingStatusReturned       BookingStatus = "returned"
	BookingStatusCompleted      BookingStatus = "completed"
	BookingStatusCancelled      BookingStatus = "cancelled"
	BookingStatusDisputed       BookingStatus = "disputed"
)

// AllStatuses lists every booking status once, in canonical happy-path order
// followed by the off-path statuses. Used by exhaustive checks and the API
// layer; keep it in sync with the constants above.
var AllStatuses = []BookingStatus{
	BookingStatusRequested,
	BookingStatusAccepted,
	BookingStatusPendingPayment,
	BookingStatusConfirmed,
	BookingStatusDelivering,
	BookingStatusOnHire,
	BookingStatusReturnDue,
	BookingStatusReturned,
	BookingStatusCompleted,
	BookingStatusRejected,
	BookingStatusCancelled,
	BookingStatusDisputed,
}

type PaymentStatus string

const (
	PaymentStatusPending              PaymentStatus = "pending"
	PaymentStatusAwaitingVerification PaymentStatus = "awaiting_verification"
	PaymentStatusConfirmed            PaymentStatus = "confirmed"
	PaymentStatusRefunded             PaymentStatus = "refunded"
	PaymentStatusFailed               PaymentStatus = "failed"
)

type Role string

const (
	RoleContractor Role = "contractor"
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
	// RoleSystem is the actor identity used by scheduled jobs, e.g. the
	// return-due sweeper. It holds exactly one edge in the role matrix.
	RoleSystem Role = "system"
)

type Booking struct {
	ID            int64  `json:"id"`
	BookingNumber string `json:"booking_number"`
	ContractorID  int64  `json:"contractor_id"`
	OwnerID       int64  `json:"owner_id"`
	EquipmentID   int64  `json:"equipment_id"`
	// Dates are date-only, yyyy-mm-dd. End date >= start date.
	StartDate     string        `json:"start_date"`
	EndDate       string        `json:"end_date"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	// Money fields are snapshots computed by the pricing function at
	// creation time and immutable afterwards, except OwnerPayoutCents
	// which is set when the owner verifies payment.
	RentalAmountCents  int64 `json:"rental_amount_cents"`
	PlatformFeeCents   int64 `json:"platform_fee_cents"`
	VATAmountCents     int64 `json:"vat_amount_cents"`
	DepositAmountCents int64 `json:"deposit_amount_cents"`
	TotalAmountCents   int64 `json:"total_amount_cents"`
	OwnerPayoutCents   int64 `json:"owner_payout_cents"`

	CancellationReason string `json:"cancellation_reason,omitempty"`
	CancelledBy        Role   `json:"cancelled_by,omitempty"`

	ContractorNotes string `json:"contractor_notes,omitempty"`
	OwnerNotes      string `json:"owner_notes,omitempty"`

	// Version backs the optimistic-concurrency check: every status write
	// is guarded by WHERE version = <observed> and bumps it by one.
	Version   int64     `json:"version"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

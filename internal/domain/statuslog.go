package domain

import "time"

type ActionType string

const (
	ActionStatusChange  ActionType = "status_change"
	ActionCancellation  ActionType = "cancellation"
	ActionPaymentUpdate ActionType = "payment_update"
	ActionDispute       ActionType = "dispute"
)

// StatusLogEntry is an immutable audit record. One entry is written per
// successful engine operation, inside the same transaction as the booking
// update; entries are never updated or deleted, so the ordered sequence for
// a booking is the authoritative history of every transition.
type StatusLogEntry struct {
	ID        int64 `json:"id"`
	BookingID int64 `json:"booking_id"`
	// PreviousStatus is nil only for the entry written at creation.
	PreviousStatus *BookingStatus `json:"previous_status,omitempty"`
	NewStatus      BookingStatus  `json:"new_status"`
	ActionType     ActionType     `json:"action_type"`
	Role           Role           `json:"role"`
	Note           string         `json:"note,omitempty"`
	CreatedOn      time.Time      `json:"created_on"`
}

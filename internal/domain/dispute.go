package domain

import "time"

type DisputeStatus string

const (
	DisputeStatusOpen        DisputeStatus = "open"
	DisputeStatusUnderReview DisputeStatus = "under_review"
	DisputeStatusResolved    DisputeStatus = "resolved"
	DisputeStatusClosed      DisputeStatus = "closed"
)

// Valid reports whether s is one of the four closed dispute states.
// Statuses arrive off the wire, so writers must check before persisting.
func (s DisputeStatus) Valid() bool {
	switch s {
	case DisputeStatusOpen, DisputeStatusUnderReview, DisputeStatusResolved, DisputeStatusClosed:
		return true
	}
	return false
}

type ResolutionTag string

const (
	// ResolutionFullRefund refunds the contractor in full and cancels the
	// parent booking.
	ResolutionFullRefund ResolutionTag = "full_refund"
	// ResolutionPartialRefund completes the booking with a partial refund.
	ResolutionPartialRefund ResolutionTag = "partial_refund"
	// ResolutionNoRefund completes the booking with no money moved.
	ResolutionNoRefund ResolutionTag = "no_refund"
	// ResolutionDeferred records an interim decision and leaves the parent
	// booking in disputed.
	ResolutionDeferred ResolutionTag = "deferred"
)

// Valid reports whether t is a known resolution tag. An arbitrator ruling
// with a tag outside this set is rejected rather than treated as
// non-forcing.
func (t ResolutionTag) Valid() bool {
	switch t {
	case ResolutionFullRefund, ResolutionPartialRefund, ResolutionNoRefund, ResolutionDeferred:
		return true
	}
	return false
}

// TerminalOutcome returns the booking status a resolution tag forces the
// parent booking into, and whether it forces one at all.
func (t ResolutionTag) TerminalOutcome() (BookingStatus, bool) {
	switch t {
	case ResolutionFullRefund:
		return BookingStatusCancelled, true
	case ResolutionPartialRefund, ResolutionNoRefund:
		return BookingStatusCompleted, true
	}
	return "", false
}

// Dispute is a parallel state machine attached 1:1 (per occurrence) to a
// booking. Creation forces the booking into disputed; resolution can force
// it into a terminal status.
type Dispute struct {
	ID           int64    `json:"id"`
	BookingID    int64    `json:"booking_id"`
	RaisedBy     int64    `json:"raised_by"`
	RaisedByRole Role     `json:"raised_by_role"`
	Reason       string   `json:"reason"`
	Description  string   `json:"description"`
	Evidence     []string `json:"evidence,omitempty"`

	// The counter-party's response, nil fields until submitted and
	// immutable afterwards.
	ResponseText     string     `json:"response_text,omitempty"`
	ResponseEvidence []string   `json:"response_evidence,omitempty"`
	RespondedOn      *time.Time `json:"responded_on,omitempty"`

	Status            DisputeStatus `json:"status"`
	ResolutionTag     ResolutionTag `json:"resolution_tag,omitempty"`
	ResolutionNotes   string        `json:"resolution_notes,omitempty"`
	RefundAmountCents int64         `json:"refund_amount_cents"`

	CreatedOn  time.Time  `json:"created_on"`
	UpdatedOn  time.Time  `json:"updated_on"`
	ResolvedOn *time.Time `json:"resolved_on,omitempty"`
}

// CounterParty returns the role expected to respond to a dispute raised by
// the given role.
func CounterParty(raisedBy Role) Role {
	if raisedBy == RoleOwner {
		return RoleContractor
	}
	return RoleOwner
}

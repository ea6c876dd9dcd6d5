package domain

// Edge is a permitted (from, to) pair in the booking lifecycle.
type Edge struct {
	From BookingStatus
	To   BookingStatus
}

// transitionRoles is the single source of truth for the lifecycle: which
// edges exist and which role may take each one. Both CanTransition and the
// engine's RequestTransition read this table and nothing else, so the
// predicate and the mutator cannot diverge.
//
// The contractor holds every cancellation edge before the equipment is on
// hire; the owner drives acceptance, payment verification and delivery; the
// admin holds only the two escape edges out of disputed; the system role
// holds only the scheduled return-due edge.
var transitionRoles = map[Edge][]Role{
	{BookingStatusRequested, BookingStatusAccepted}:  {RoleOwner},
	{BookingStatusRequested, BookingStatusRejected}:  {RoleOwner},
	{BookingStatusRequested, BookingStatusCancelled}: {RoleContractor},

	{BookingStatusAccepted, BookingStatusPendingPayment}: {RoleOwner},
	{BookingStatusAccepted, BookingStatusCancelled}:      {RoleContractor},

	{BookingStatusPendingPayment, BookingStatusConfirmed}: {RoleOwner},
	{BookingStatusPendingPayment, BookingStatusCancelled}: {RoleContractor},

	{BookingStatusConfirmed, BookingStatusDelivering}: {RoleOwner},
	{BookingStatusConfirmed, BookingStatusOnHire}:     {RoleOwner},
	{BookingStatusConfirmed, BookingStatusCancelled}:  {RoleContractor},

	{BookingStatusDelivering, BookingStatusOnHire}:    {RoleOwner},
	{BookingStatusDelivering, BookingStatusCancelled}: {RoleContractor},

	{BookingStatusOnHire, BookingStatusReturnDue}: {RoleSystem},
	{BookingStatusOnHire, BookingStatusReturned}:  {RoleContractor},
	{BookingStatusOnHire, BookingStatusDisputed}:  {RoleContractor},

	{BookingStatusReturnDue, BookingStatusReturned}: {RoleContractor},
	{BookingStatusReturnDue, BookingStatusDisputed}: {RoleContractor},

	{BookingStatusReturned, BookingStatusCompleted}: {RoleOwner},
	{BookingStatusReturned, BookingStatusDisputed}:  {RoleOwner},

	{BookingStatusDisputed, BookingStatusCompleted}: {RoleAdmin},
	{BookingStatusDisputed, BookingStatusCancelled}: {RoleAdmin},
}

// TransitionExists reports whether the edge is in the table at all,
// independent of role.
func TransitionExists(from, to BookingStatus) bool {
	_, ok := transitionRoles[Edge{from, to}]
	return ok
}

// CanTransition reports whether role may move a booking from one status to
// another. An edge can exist in the table and still be denied for the
// calling role.
func CanTransition(from, to BookingStatus, role Role) bool {
	roles, ok := transitionRoles[Edge{from, to}]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrInvalidTransition when the edge is not in
// the table and ErrForbidden when it is but the role does not hold it.
func ValidateTransition(from, to BookingStatus, role Role) error {
	if !TransitionExists(from, to) {
		return ErrInvalidTransition
	}
	if !CanTransition(from, to, role) {
		return ErrForbidden
	}
	return nil
}

// AllowedTargets returns every status the given role may move the booking
// to from its current status. Consumers use this to decide which actions
// to offer.
func AllowedTargets(from BookingStatus, role Role) []BookingStatus {
	var targets []BookingStatus
	for _, to := range AllStatuses {
		if CanTransition(from, to, role) {
			targets = append(targets, to)
		}
	}
	return targets
}

// IsTerminal reports whether the status has no outgoing edges under normal
// operation. Disputed is not terminal: the admin holds two escape edges.
func IsTerminal(s BookingStatus) bool {
	switch s {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusRejected:
		return true
	}
	return false
}

// CanDispute reports whether role may force the booking into disputed from
// its current status. This is the precondition for raising a dispute.
func CanDispute(from BookingStatus, role Role) bool {
	return CanTransition(from, BookingStatusDisputed, role)
}

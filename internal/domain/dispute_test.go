package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolutionTagTerminalOutcome(t *testing.T) {
	cases := []struct {
		tag    ResolutionTag
		target BookingStatus
		forces bool
	}{
		{ResolutionFullRefund, BookingStatusCancelled, true},
		{ResolutionPartialRefund, BookingStatusCompleted, true},
		{ResolutionNoRefund, BookingStatusCompleted, true},
		{ResolutionDeferred, "", false},
		{"", "", false},
	}
	for _, c := range cases {
		target, forces := c.tag.TerminalOutcome()
		assert.Equal(t, c.forces, forces, "tag %q", c.tag)
		assert.Equal(t, c.target, target, "tag %q", c.tag)
	}
}

// Every forced outcome must be reachable from disputed by the admin, or
// resolution could wedge a booking in disputed forever.
func TestForcedOutcomesAreAdminEscapeEdges(t *testing.T) {
	for _, tag := range []ResolutionTag{ResolutionFullRefund, ResolutionPartialRefund, ResolutionNoRefund} {
		target, forces := tag.TerminalOutcome()
		assert.True(t, forces)
		assert.True(t, CanTransition(BookingStatusDisputed, target, RoleAdmin), "tag %s target %s", tag, target)
	}
}

func TestDisputeStatusValid(t *testing.T) {
	for _, s := range []DisputeStatus{DisputeStatusOpen, DisputeStatusUnderReview, DisputeStatusResolved, DisputeStatusClosed} {
		assert.True(t, s.Valid(), "status %s", s)
	}
	assert.False(t, DisputeStatus("").Valid())
	assert.False(t, DisputeStatus("banana").Valid())
}

func TestResolutionTagValid(t *testing.T) {
	for _, tag := range []ResolutionTag{ResolutionFullRefund, ResolutionPartialRefund, ResolutionNoRefund, ResolutionDeferred} {
		assert.True(t, tag.Valid(), "tag %s", tag)
	}
	assert.False(t, ResolutionTag("").Valid())
	assert.False(t, ResolutionTag("split_the_difference").Valid())
}

func TestCounterParty(t *testing.T) {
	assert.Equal(t, RoleContractor, CounterParty(RoleOwner))
	assert.Equal(t, RoleOwner, CounterParty(RoleContractor))
}

package domain

type StageState string

const (
	StageCompleted StageState = "completed"
	StageCurrent   StageState = "current"
	StagePending   StageState = "pending"
)

// Stage is a display-oriented projection of one happy-path status. Derived,
// never authoritative.
type Stage struct {
	Status BookingStatus   `json:"status"`
	Label  string          `json:"label"`
	Order  int             `json:"order"`
	State  StageState      `json:"state"`
	Log    *StatusLogEntry `json:"log,omitempty"`
}

// HappyPath is the canonical stage ordering. Cancelled, rejected and
// disputed are not stages; consumers render those as a banner.
var HappyPath = []BookingStatus{
	BookingStatusRequested,
	BookingStatusAccepted,
	BookingStatusPendingPayment,
	BookingStatusConfirmed,
	BookingStatusDelivering,
	BookingStatusOnHire,
	BookingStatusReturnDue,
	BookingStatusReturned,
	BookingStatusCompleted,
}

var stageOrder = func() map[BookingStatus]int {
	m := make(map[BookingStatus]int, len(HappyPath))
	for i, s := range HappyPath {
		m[s] = i
	}
	return m
}()

// StatusLabels and StatusColors are total over the closed status set;
// TestStatusMetadataTotal enforces totality since map literals cannot be
// exhaustiveness-checked by the compiler.
var StatusLabels = map[BookingStatus]string{
	BookingStatusRequested:      "Requested",
	BookingStatusAccepted:       "Accepted",
	BookingStatusRejected:       "Rejected",
	BookingStatusPendingPayment: "Awaiting Payment",
	BookingStatusConfirmed:      "Confirmed",
	BookingStatusDelivering:     "Out for Delivery",
	BookingStatusOnHire:         "On Hire",
	BookingStatusReturnDue:      "Return Due",
	BookingStatusReturned:       "Returned",
	BookingStatusCompleted:      "Completed",
	BookingStatusCancelled:      "Cancelled",
	BookingStatusDisputed:       "In Dispute",
}

var StatusColors = map[BookingStatus]string{
	BookingStatusRequested:      "gray",
	BookingStatusAccepted:       "blue",
	BookingStatusRejected:       "red",
	BookingStatusPendingPayment: "amber",
	BookingStatusConfirmed:      "blue",
	BookingStatusDelivering:     "indigo",
	BookingStatusOnHire:         "green",
	BookingStatusReturnDue:      "amber",
	BookingStatusReturned:       "blue",
	BookingStatusCompleted:      "green",
	BookingStatusCancelled:      "red",
	BookingStatusDisputed:       "red",
}

// Project maps the current status and the ordered log history into the
// stage list. It is a total function of its inputs: no hidden state, no
// I/O.
//
// For a booking on the happy path, stages before the current status are
// completed and later ones pending. For cancelled or rejected bookings the
// list is truncated one past the furthest stage reached; for disputed
// bookings the full list is returned with the furthest reached stage
// current.
func Project(current BookingStatus, history []StatusLogEntry) []Stage {
	reached, onPath := stageOrder[current]
	if !onPath {
		reached = 0
		for _, e := range history {
			if idx, ok := stageOrder[e.NewStatus]; ok && idx > reached {
				reached = idx
			}
		}
	}

	// Most recent log entry per stage status, for timestamp display.
	latest := make(map[BookingStatus]*StatusLogEntry, len(history))
	for i := range history {
		e := history[i]
		prev, ok := latest[e.NewStatus]
		if !ok || !e.CreatedOn.Before(prev.CreatedOn) {
			latest[e.NewStatus] = &history[i]
		}
	}

	count := len(HappyPath)
	if current == BookingStatusCancelled || current == BookingStatusRejected {
		count = reached + 2
		if count > len(HappyPath) {
			count = len(HappyPath)
		}
	}

	stages := make([]Stage, 0, count)
	for i := 0; i < count; i++ {
		status := HappyPath[i]
		state := StagePending
		switch {
		case i < reached:
			state = StageCompleted
		case i == reached:
			state = StageCurrent
		}
		stages = append(stages, Stage{
			Status: status,
			Label:  StatusLabels[status],
			Order:  i,
			State:  state,
			Log:    latest[status],
		})
	}
	return stages
}

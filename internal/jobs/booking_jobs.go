package jobs

import (
	"context"
	"time"

	"equiphire-backend/internal/logger"
)

// MarkReturnsDue moves on_hire bookings past their end date to return_due.
// The job is an ordinary engine caller acting under the system role; it
// owns the schedule, not the transition rules.
func (jr *JobRunner) MarkReturnsDue() {
	jr.runWithRecovery("MarkReturnsDue", func() {
		ctx := context.Background()
		asOf := time.Now().UTC().Format("2006-01-02")

		count, err := jr.bookings.MarkReturnsDue(ctx, asOf)
		if err != nil {
			logger.Error("Failed to sweep returns due", "error", err)
			return
		}
		logger.Info("Marked bookings return_due", "count", count, "as_of", asOf)
	})
}

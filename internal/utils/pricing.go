package utils

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Platform commission and VAT rates applied by the marketplace. Pricing is
// a pure function: the booking snapshots its output at creation time and
// never recomputes.
var (
	platformFeeRate = decimal.NewFromFloat(0.10)
	vatRate         = decimal.NewFromFloat(0.20)
)

const dateLayout = "2006-01-02"

// CostBreakdown is the pricing function's output, all values in cents.
type CostBreakdown struct {
	RentalAmountCents  int64
	PlatformFeeCents   int64
	VATAmountCents     int64
	DepositAmountCents int64
	TotalAmountCents   int64
	OwnerPayoutCents   int64
}

// RentalDays returns the rental duration in days, counting both the start
// and the end date. A same-day hire is one day.
func RentalDays(startDate, endDate string) (int, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return 0, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	diff := int(end.Sub(start).Hours() / 24)
	if diff < 0 {
		return 0, fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}
	return diff + 1, nil
}

// ComputeCosts calculates the full financial snapshot for a booking.
// The platform fee is charged on the rental amount, VAT on rental plus fee,
// and the deposit is added to the total untaxed. The owner payout is the
// rental amount net of the platform fee.
func ComputeCosts(dailyRateCents int64, days int, depositCents int64) CostBreakdown {
	rental := decimal.NewFromInt(dailyRateCents).Mul(decimal.NewFromInt(int64(days)))
	fee := rental.Mul(platformFeeRate).Round(0)
	vat := rental.Add(fee).Mul(vatRate).Round(0)
	deposit := decimal.NewFromInt(depositCents)
	total := rental.Add(fee).Add(vat).Add(deposit)

	return CostBreakdown{
		RentalAmountCents:  rental.IntPart(),
		PlatformFeeCents:   fee.IntPart(),
		VATAmountCents:     vat.IntPart(),
		DepositAmountCents: deposit.IntPart(),
		TotalAmountCents:   total.IntPart(),
		OwnerPayoutCents:   rental.Sub(fee).IntPart(),
	}
}

// OwnerPayoutCents recomputes the payout from a booking's stored snapshot.
// Used when the owner verifies payment.
func OwnerPayoutCents(rentalAmountCents, platformFeeCents int64) int64 {
	return rentalAmountCents - platformFeeCents
}

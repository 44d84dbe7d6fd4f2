package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComputeFine returns the late fee for a loan returned at returnedAt.
// A loan is charged per whole day past its due date; partial days are
// not charged, so an on-time or early return always yields zero.
func ComputeFine(dueDate, returnedAt time.Time, finePerDay decimal.Decimal) decimal.Decimal {
	if !returnedAt.After(dueDate) {
		return decimal.Zero
	}
	daysLate := int64(returnedAt.Sub(dueDate) / (24 * time.Hour))
	if daysLate <= 0 {
		return decimal.Zero
	}
	return finePerDay.Mul(decimal.NewFromInt(daysLate))
}

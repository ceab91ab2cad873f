// Package pricing computes receipt totals. The shop always collects
// whole-baht amounts; fractional subtotals are rounded up and the
// adjustment is disclosed on the receipt.
package pricing

import (
	"math"

	"github.com/dinobux/storebot/internal/domain"
)

// Subtotal sums qty times unit price over all items. Empty lists
// subtotal to zero.
func Subtotal(items []domain.LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Qty * item.UnitPrice
	}
	return sum
}

// RoundTotal returns the payable whole-baht total (ceiling of the
// subtotal) and the rounding adjustment to two-decimal precision.
// Inputs are finite by construction: item validation rejects
// non-finite quantities and prices before they reach the ticket.
func RoundTotal(subtotal float64) (total int64, rounding float64) {
	total = int64(math.Ceil(subtotal))
	rounding = math.Round((float64(total)-subtotal)*100) / 100
	return total, rounding
}

// LineTotal is the amount for a single receipt line.
func LineTotal(item domain.LineItem) float64 {
	return item.Qty * item.UnitPrice
}

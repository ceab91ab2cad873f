package domain

import "time"

// LedgerStatus enumerates ledger entry states. Only PAID entries are
// consulted by history queries.
type LedgerStatus string

const (
	LedgerStatusPaid LedgerStatus = "PAID"
)

// LedgerEntry is one completed order. The ledger is append-only: no
// update or delete operations exist anywhere in the codebase.
type LedgerEntry struct {
	OrderNo    string
	UserID     string
	TicketCode string
	AmountBaht int64
	Status     LedgerStatus
	CreatedAt  time.Time
	PaidAt     time.Time
}

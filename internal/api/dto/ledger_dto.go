package dto

import (
	"time"

	"github.com/dinobux/storebot/internal/domain"
	"github.com/dinobux/storebot/internal/service"
)

// LedgerEntryView is one paid order.
type LedgerEntryView struct {
	OrderNo    string    `json:"order_no"`
	TicketCode string    `json:"ticket_code"`
	AmountBaht int64     `json:"amount_baht"`
	Status     string    `json:"status"`
	PaidAt     time.Time `json:"paid_at"`
}

// LedgerHistoryResponse is a customer's payment history.
type LedgerHistoryResponse struct {
	UserID        string            `json:"user_id"`
	TotalPaidBaht int64             `json:"total_paid_baht"`
	Entries       []LedgerEntryView `json:"entries"`
}

// NewLedgerHistoryResponse maps a history aggregate.
func NewLedgerHistoryResponse(history *service.LedgerHistory) LedgerHistoryResponse {
	entries := make([]LedgerEntryView, 0, len(history.Entries))
	for _, entry := range history.Entries {
		entries = append(entries, newLedgerEntryView(entry))
	}
	return LedgerHistoryResponse{
		UserID:        history.UserID,
		TotalPaidBaht: history.TotalPaid,
		Entries:       entries,
	}
}

func newLedgerEntryView(entry domain.LedgerEntry) LedgerEntryView {
	return LedgerEntryView{
		OrderNo:    entry.OrderNo,
		TicketCode: entry.TicketCode,
		AmountBaht: entry.AmountBaht,
		Status:     string(entry.Status),
		PaidAt:     entry.PaidAt,
	}
}

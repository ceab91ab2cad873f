package dto

import (
	"time"

	"github.com/dinobux/storebot/internal/domain"
	"github.com/dinobux/storebot/internal/pricing"
)

// LineItemView is one receipt line with its 1-based position.
type LineItemView struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	Qty       float64 `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// TicketView is the API projection of a ticket with derived totals.
type TicketView struct {
	ChannelID     string         `json:"channel_id"`
	TicketCode    string         `json:"ticket_code"`
	CustomerID    string         `json:"customer_id"`
	StaffID       *string        `json:"staff_id,omitempty"`
	Status        string         `json:"status"`
	Locked        bool           `json:"locked"`
	Items         []LineItemView `json:"items"`
	Subtotal      float64        `json:"subtotal"`
	Rounding      float64        `json:"rounding"`
	TotalBaht     int64          `json:"total_baht"`
	PaymentMethod *string        `json:"payment_method,omitempty"`
	SlipURL       *string        `json:"slip_url,omitempty"`
	Closed        bool           `json:"closed"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewTicketView maps a ticket.
func NewTicketView(t *domain.Ticket) TicketView {
	subtotal := pricing.Subtotal(t.Items)
	total, rounding := pricing.RoundTotal(subtotal)

	items := make([]LineItemView, 0, len(t.Items))
	for i, item := range t.Items {
		items = append(items, LineItemView{
			Index:     i + 1,
			Name:      item.Name,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
			LineTotal: pricing.LineTotal(item),
		})
	}

	var method *string
	if t.PaymentMethod != nil {
		m := string(*t.PaymentMethod)
		method = &m
	}

	return TicketView{
		ChannelID:     t.ChannelID,
		TicketCode:    t.TicketCode,
		CustomerID:    t.CustomerID,
		StaffID:       t.StaffID,
		Status:        string(t.Status),
		Locked:        t.Locked,
		Items:         items,
		Subtotal:      subtotal,
		Rounding:      rounding,
		TotalBaht:     total,
		PaymentMethod: method,
		SlipURL:       t.SlipURL,
		Closed:        t.Closed,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// NewTicketViews maps a slice of tickets.
func NewTicketViews(tickets []domain.Ticket) []TicketView {
	views := make([]TicketView, 0, len(tickets))
	for i := range tickets {
		views = append(views, NewTicketView(&tickets[i]))
	}
	return views
}

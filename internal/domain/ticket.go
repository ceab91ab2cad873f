package domain

import "time"

// TicketStatus enumerates lifecycle states for storefront tickets.
type TicketStatus string

const (
	TicketStatusNew             TicketStatus = "NEW"
	TicketStatusCart            TicketStatus = "CART"
	TicketStatusAwaitingPayment TicketStatus = "AWAITING_PAYMENT"
	TicketStatusVerifying       TicketStatus = "VERIFYING"
	TicketStatusPaid            TicketStatus = "PAID"
	TicketStatusRejected        TicketStatus = "REJECTED"
	TicketStatusClosed          TicketStatus = "CLOSED"
)

// PaymentMethod enumerates the channels a customer can pay through.
type PaymentMethod string

const (
	PaymentPromptPay  PaymentMethod = "PROMPTPAY"
	PaymentBank       PaymentMethod = "BANK"
	PaymentTrueWallet PaymentMethod = "TRUEWALLET"
)

// ParsePaymentMethod validates a raw method string.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	switch PaymentMethod(raw) {
	case PaymentPromptPay, PaymentBank, PaymentTrueWallet:
		return PaymentMethod(raw), true
	default:
		return "", false
	}
}

// LineItem is one receipt line. Insertion order is significant: the
// line numbers shown to users are 1-based positions in the slice.
type LineItem struct {
	Name      string  `json:"name"`
	Qty       float64 `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
}

// Ticket is the aggregate for one support/order session. It is keyed
// by the channel that hosts it; one open ticket per customer at a time.
type Ticket struct {
	ChannelID        string
	TicketCode       string
	CustomerID       string
	StaffID          *string
	Status           TicketStatus
	Locked           bool
	Items            []LineItem
	PaymentMethod    *PaymentMethod
	SlipURL          *string
	ReceiptMessageID *string
	Closed           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CanEditItems reports whether the item list may be mutated.
func (t *Ticket) CanEditItems() bool {
	return !t.Closed && !t.Locked
}

// CanSelectPayment reports whether a payment method may be chosen.
func (t *Ticket) CanSelectPayment() bool {
	return !t.Closed && t.Locked
}

// CanSubmitSlip reports whether a proof-of-payment is accepted.
func (t *Ticket) CanSubmitSlip() bool {
	return !t.Closed && t.Locked && t.PaymentMethod != nil
}

// AssignStaff sets the handling staff member once; later calls keep
// the first assignee.
func (t *Ticket) AssignStaff(staffID string) {
	if t.StaffID == nil {
		t.StaffID = &staffID
	}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (t *Ticket) Clone() *Ticket {
	copied := *t
	copied.Items = append([]LineItem(nil), t.Items...)
	if t.StaffID != nil {
		v := *t.StaffID
		copied.StaffID = &v
	}
	if t.PaymentMethod != nil {
		v := *t.PaymentMethod
		copied.PaymentMethod = &v
	}
	if t.SlipURL != nil {
		v := *t.SlipURL
		copied.SlipURL = &v
	}
	if t.ReceiptMessageID != nil {
		v := *t.ReceiptMessageID
		copied.ReceiptMessageID = &v
	}
	return &copied
}

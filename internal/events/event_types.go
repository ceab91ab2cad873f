package events

import (
	"time"

	"github.com/dinobux/storebot/internal/domain"
)

// EventType enumerates supported event identifiers, one per applied
// ticket transition.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventItemAdded       EventType = "item_added"
	EventItemEdited      EventType = "item_edited"
	EventItemRemoved     EventType = "item_removed"
	EventTicketLocked    EventType = "ticket_locked"
	EventTicketUnlocked  EventType = "ticket_unlocked"
	EventPaymentSelected EventType = "payment_selected"
	EventSlipSubmitted   EventType = "slip_submitted"
	EventPaymentApproved EventType = "payment_approved"
	EventPaymentRejected EventType = "payment_rejected"
	EventTicketClosed    EventType = "ticket_closed"
)

// ActorType differentiates who triggered a transition.
type ActorType string

const (
	ActorCustomer ActorType = "CUSTOMER"
	ActorStaff    ActorType = "STAFF"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type ActorType `json:"type"`
	ID   string    `json:"id"`
}

// Event represents a domain event emitted after a committed transition.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ChannelID  string      `json:"channel_id"`
	TicketCode string      `json:"ticket_code"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// ItemPayload describes an item mutation.
type ItemPayload struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	Qty       float64 `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
}

// StatusPayload describes a status change.
type StatusPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Comment   string              `json:"comment,omitempty"`
}

// PaymentSelectedPayload payload.
type PaymentSelectedPayload struct {
	Method domain.PaymentMethod `json:"method"`
}

// SlipSubmittedPayload payload.
type SlipSubmittedPayload struct {
	SlipURL string `json:"slip_url"`
}

// PaymentApprovedPayload payload.
type PaymentApprovedPayload struct {
	OrderNo    string `json:"order_no"`
	AmountBaht int64  `json:"amount_baht"`
}

// Package platform abstracts the chat platform hosting the storefront.
// The core depends only on this interface; the Telegram adapter lives
// alongside it.
package platform

import "context"

// Action identifiers form the closed vocabulary of the button surface;
// the dispatcher switches over these exhaustively.
const (
	ActionOpenTicket     = "open_ticket"
	ActionCallStaff      = "call_staff"
	ActionCheckInfo      = "check_info"
	ActionChoosePayment  = "choose_payment"
	ActionSubmitSlipHelp = "submit_slip"
	ActionPayPromptPay   = "pay_promptpay"
	ActionPayBank        = "pay_bank"
	ActionPayTrueWallet  = "pay_truewallet"
	ActionStaffLock      = "staff_lock"
	ActionStaffUnlock    = "staff_unlock"
	ActionStaffVerify    = "staff_verify"
	ActionStaffApprove   = "staff_approve"
	ActionStaffMarkPaid  = "staff_mark_paid"
	ActionStaffBadNote   = "staff_bad_note"
	ActionStaffBadSlip   = "staff_bad_slip"
	ActionStaffClose     = "staff_close"
)

// DisabledActionPrefix marks buttons rendered in a disabled state; the
// adapter rewrites their callback data so presses answer with guidance.
const DisabledActionPrefix = "noop:"

// Customer identifies the person a ticket channel is provisioned for.
type Customer struct {
	ID          string
	DisplayName string
}

// Button is one action button attached to a message. Disabled buttons
// are rendered but answer with guidance instead of acting, mirroring
// the lifecycle guards.
type Button struct {
	Label    string
	Action   string
	Disabled bool
}

// Message is platform-agnostic outbound content.
type Message struct {
	Text     string
	ImageURL string
	Buttons  [][]Button
}

// Gateway is the messaging surface consumed by the ticket lifecycle.
type Gateway interface {
	// CreateTicketChannel provisions a private channel visible to the
	// customer and staff, returning its stable id (the ticket key).
	CreateTicketChannel(ctx context.Context, customer Customer) (string, error)
	SendMessage(ctx context.Context, channelID string, msg Message) (string, error)
	EditMessage(ctx context.Context, channelID, messageID string, msg Message) error
	PinMessage(ctx context.Context, channelID, messageID string) error
	// RestrictCustomer revokes the customer's ability to post in the
	// channel; used when a ticket closes.
	RestrictCustomer(ctx context.Context, channelID, customerID string) error
}

// CommandEvent is an inbound slash-style command.
type CommandEvent struct {
	ChannelID   string
	UserID      string
	DisplayName string
	Command     string
	Args        string
}

// ActionEvent is an inbound button press.
type ActionEvent struct {
	ChannelID   string
	UserID      string
	DisplayName string
	Action      string
	CallbackID  string
}

// AttachmentEvent is an inbound file/image upload; the slip trigger.
type AttachmentEvent struct {
	ChannelID     string
	AuthorID      string
	AttachmentURL string
}

// Update is one inbound actor event; exactly one field is set.
type Update struct {
	Command    *CommandEvent
	Action     *ActionEvent
	Attachment *AttachmentEvent
}

// EventSource streams inbound actor events from the platform.
type EventSource interface {
	Updates() <-chan Update
	// AnswerAction acknowledges a button press with a message visible
	// only to the pressing user.
	AnswerAction(ctx context.Context, callbackID, text string) error
}

// Package render projects tickets into the customer-facing receipt.
// Rendering is pure: the same ticket always yields the same summary.
package render

import (
	"fmt"
	"strings"

	"github.com/dinobux/storebot/internal/config"
	"github.com/dinobux/storebot/internal/domain"
	"github.com/dinobux/storebot/internal/platform"
	"github.com/dinobux/storebot/internal/pricing"
)

// Line is one rendered receipt line with its 1-based position.
type Line struct {
	Index     int
	Name      string
	Qty       float64
	UnitPrice float64
	LineTotal float64
}

// Summary is the complete projection of a ticket for display.
type Summary struct {
	Brand        string
	TicketCode   string
	StatusBadge  string
	CustomerID   string
	StaffLabel   string
	Lines        []Line
	Subtotal     float64
	Rounding     float64
	Total        int64
	PaymentLabel string
	RequiredNote string
	SlipURL      string
	PayEnabled   bool
	SlipEnabled  bool
}

// Render builds the summary for a ticket.
func Render(t *domain.Ticket, shop config.ShopConfig) Summary {
	subtotal := pricing.Subtotal(t.Items)
	total, rounding := pricing.RoundTotal(subtotal)

	lines := make([]Line, 0, len(t.Items))
	for i, item := range t.Items {
		lines = append(lines, Line{
			Index:     i + 1,
			Name:      item.Name,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
			LineTotal: pricing.LineTotal(item),
		})
	}

	staffLabel := "waiting for staff"
	if t.StaffID != nil {
		staffLabel = "staff " + *t.StaffID
	}
	slipURL := ""
	if t.SlipURL != nil {
		slipURL = *t.SlipURL
	}

	return Summary{
		Brand:        shop.Brand,
		TicketCode:   t.TicketCode,
		StatusBadge:  StatusBadge(t.Status),
		CustomerID:   t.CustomerID,
		StaffLabel:   staffLabel,
		Lines:        lines,
		Subtotal:     subtotal,
		Rounding:     rounding,
		Total:        total,
		PaymentLabel: PaymentLabel(t.PaymentMethod),
		RequiredNote: shop.RequiredNote,
		SlipURL:      slipURL,
		PayEnabled:   t.CanSelectPayment(),
		SlipEnabled:  t.CanSubmitSlip(),
	}
}

// Text lays out the receipt as plain text.
func (s Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧾 %s • POS Receipt\n", s.Brand)
	fmt.Fprintf(&b, "Ticket: %s\n", s.TicketCode)
	fmt.Fprintf(&b, "👤 Customer: %s\n", s.CustomerID)
	fmt.Fprintf(&b, "👨‍💼 Handled by: %s\n", s.StaffLabel)
	fmt.Fprintf(&b, "📌 Status: %s\n\n", s.StatusBadge)

	b.WriteString("🛍️ Items\n")
	if len(s.Lines) == 0 {
		b.WriteString("— no items yet (waiting for staff) —\n")
	} else {
		for _, line := range s.Lines {
			fmt.Fprintf(&b, "%d. %s\n   Qty %s × %.2f = %.2f\n",
				line.Index, line.Name, formatQty(line.Qty), line.UnitPrice, line.LineTotal)
		}
	}

	fmt.Fprintf(&b, "\n💰 Subtotal: %.2f\n", s.Subtotal)
	fmt.Fprintf(&b, "Rounding (up to whole baht): +%.2f\n", s.Rounding)
	fmt.Fprintf(&b, "✅ Amount due: %d baht\n\n", s.Total)
	fmt.Fprintf(&b, "💳 Payment: %s\n", s.PaymentLabel)
	fmt.Fprintf(&b, "📝 Transfer note (required): %q\n", s.RequiredNote)
	if s.SlipURL != "" {
		fmt.Fprintf(&b, "🧾 Latest slip: %s\n", s.SlipURL)
	}
	return b.String()
}

// Buttons returns the customer action row; enabled state mirrors the
// lifecycle guards.
func (s Summary) Buttons() [][]platform.Button {
	return [][]platform.Button{
		{
			{Label: "Call staff", Action: platform.ActionCallStaff},
			{Label: "Check info", Action: platform.ActionCheckInfo},
		},
		{
			{Label: "Choose payment", Action: platform.ActionChoosePayment, Disabled: !s.PayEnabled},
			{Label: "Send slip", Action: platform.ActionSubmitSlipHelp, Disabled: !s.SlipEnabled},
		},
	}
}

// Message packages the rendered receipt for the platform gateway.
func Message(t *domain.Ticket, shop config.ShopConfig) platform.Message {
	summary := Render(t, shop)
	return platform.Message{
		Text:    summary.Text(),
		Buttons: summary.Buttons(),
	}
}

// StatusBadge maps a status to its display badge.
func StatusBadge(status domain.TicketStatus) string {
	switch status {
	case domain.TicketStatusNew:
		return "🟦 NEW"
	case domain.TicketStatusCart:
		return "🛒 CART"
	case domain.TicketStatusAwaitingPayment:
		return "⏳ AWAITING PAYMENT"
	case domain.TicketStatusVerifying:
		return "🔍 VERIFYING"
	case domain.TicketStatusPaid:
		return "✅ PAID"
	case domain.TicketStatusRejected:
		return "❌ REJECTED"
	case domain.TicketStatusClosed:
		return "🔒 CLOSED"
	default:
		return string(status)
	}
}

// PaymentLabel maps a method to its display label.
func PaymentLabel(method *domain.PaymentMethod) string {
	if method == nil {
		return "not chosen yet"
	}
	switch *method {
	case domain.PaymentPromptPay:
		return "📱 PromptPay QR"
	case domain.PaymentBank:
		return "🏦 Bank transfer"
	case domain.PaymentTrueWallet:
		return "👛 TrueWallet"
	default:
		return string(*method)
	}
}

func formatQty(qty float64) string {
	if qty == float64(int64(qty)) {
		return fmt.Sprintf("%d", int64(qty))
	}
	return fmt.Sprintf("%g", qty)
}

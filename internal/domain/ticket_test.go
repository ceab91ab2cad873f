package domain

import "testing"

func TestLifecycleGuards(t *testing.T) {
	t.Parallel()

	method := PaymentBank
	tests := []struct {
		name       string
		ticket     Ticket
		editItems  bool
		selectPay  bool
		submitSlip bool
	}{
		{"new", Ticket{Status: TicketStatusNew}, true, false, false},
		{"cart", Ticket{Status: TicketStatusCart}, true, false, false},
		{"locked", Ticket{Status: TicketStatusAwaitingPayment, Locked: true}, false, true, false},
		{"locked with method", Ticket{Status: TicketStatusAwaitingPayment, Locked: true, PaymentMethod: &method}, false, true, true},
		{"rejected", Ticket{Status: TicketStatusRejected, Locked: true, PaymentMethod: &method}, false, true, true},
		{"closed", Ticket{Status: TicketStatusClosed, Locked: true, PaymentMethod: &method, Closed: true}, false, false, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := tc.ticket.CanEditItems(); got != tc.editItems {
				t.Errorf("CanEditItems = %v, want %v", got, tc.editItems)
			}
			if got := tc.ticket.CanSelectPayment(); got != tc.selectPay {
				t.Errorf("CanSelectPayment = %v, want %v", got, tc.selectPay)
			}
			if got := tc.ticket.CanSubmitSlip(); got != tc.submitSlip {
				t.Errorf("CanSubmitSlip = %v, want %v", got, tc.submitSlip)
			}
		})
	}
}

func TestAssignStaffKeepsFirst(t *testing.T) {
	t.Parallel()

	var ticket Ticket
	ticket.AssignStaff("staff-1")
	ticket.AssignStaff("staff-2")
	if ticket.StaffID == nil || *ticket.StaffID != "staff-1" {
		t.Fatalf("staff = %v, want staff-1", ticket.StaffID)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	method := PaymentPromptPay
	slip := "https://files/slip.jpg"
	original := &Ticket{
		ChannelID:     "42",
		Items:         []LineItem{{Name: "Gem", Qty: 1, UnitPrice: 10}},
		PaymentMethod: &method,
		SlipURL:       &slip,
	}

	clone := original.Clone()
	clone.Items[0].Name = "changed"
	clone.Items = append(clone.Items, LineItem{Name: "extra"})
	*clone.PaymentMethod = PaymentBank
	*clone.SlipURL = "other"

	if original.Items[0].Name != "Gem" || len(original.Items) != 1 {
		t.Errorf("clone mutation leaked into original items: %+v", original.Items)
	}
	if *original.PaymentMethod != PaymentPromptPay {
		t.Error("clone mutation leaked into original payment method")
	}
	if *original.SlipURL != "https://files/slip.jpg" {
		t.Error("clone mutation leaked into original slip url")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"PROMPTPAY", "BANK", "TRUEWALLET"} {
		if _, ok := ParsePaymentMethod(raw); !ok {
			t.Errorf("ParsePaymentMethod(%q) rejected a valid method", raw)
		}
	}
	for _, raw := range []string{"", "bank", "CASH"} {
		if _, ok := ParsePaymentMethod(raw); ok {
			t.Errorf("ParsePaymentMethod(%q) accepted an invalid method", raw)
		}
	}
}

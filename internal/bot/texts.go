package bot

import (
	"fmt"

	"github.com/dinobux/storebot/internal/config"
	"github.com/dinobux/storebot/internal/domain"
	"github.com/dinobux/storebot/internal/platform"
)

func panelMessage(shop config.ShopConfig) platform.Message {
	text := fmt.Sprintf(
		"🛍️ %s storefront\n\nPress the button below to open a private ticket.\nA staff member will build your order and quote the total there.",
		shop.Brand)
	return platform.Message{
		Text: text,
		Buttons: [][]platform.Button{
			{{Label: "🎫 Open ticket", Action: platform.ActionOpenTicket}},
		},
	}
}

func welcomeText(displayName, ticketCode string, shop config.ShopConfig) string {
	return fmt.Sprintf(
		"👋 Welcome %s!\n\nThis is your private ticket %s with %s.\nTell us what you would like to buy; staff will add the items and lock the total when the order is final.\n\n📝 When you transfer, the note %q is required on the slip.",
		displayName, ticketCode, shop.Brand, shop.RequiredNote)
}

func staffPanelMessage() platform.Message {
	return platform.Message{
		Text: "🛠️ Staff controls\n\nItem commands: /add name | qty | price, /edit index qty price, /del index",
		Buttons: [][]platform.Button{
			{
				{Label: "🔐 Lock total", Action: platform.ActionStaffLock},
				{Label: "🔓 Unlock", Action: platform.ActionStaffUnlock},
			},
			{
				{Label: "🔍 View slip", Action: platform.ActionStaffVerify},
				{Label: "✅ Approve", Action: platform.ActionStaffApprove},
			},
			{
				{Label: "❌ Bad note", Action: platform.ActionStaffBadNote},
				{Label: "❌ Bad slip", Action: platform.ActionStaffBadSlip},
			},
			{
				{Label: "💵 Mark paid", Action: platform.ActionStaffMarkPaid},
				{Label: "🔒 Close ticket", Action: platform.ActionStaffClose},
			},
		},
	}
}

func paymentChoiceMessage() platform.Message {
	return platform.Message{
		Text: "💳 Choose how you want to pay:",
		Buttons: [][]platform.Button{
			{
				{Label: "📱 PromptPay QR", Action: platform.ActionPayPromptPay},
				{Label: "🏦 Bank transfer", Action: platform.ActionPayBank},
			},
			{
				{Label: "👛 TrueWallet", Action: platform.ActionPayTrueWallet},
			},
		},
	}
}

func paymentInstructionMessage(method domain.PaymentMethod, totalBaht int64, shop config.ShopConfig) platform.Message {
	note := fmt.Sprintf("\n\n📝 Transfer note (required): %q\nAmount due: %d baht\nSend a photo of the slip here when done.", shop.RequiredNote, totalBaht)
	switch method {
	case domain.PaymentPromptPay:
		return platform.Message{
			Text:     "📱 PromptPay\nScan the QR code to pay." + note,
			ImageURL: shop.QRImageURL,
		}
	case domain.PaymentBank:
		return platform.Message{Text: "🏦 Bank transfer\n" + shop.BankText + note}
	case domain.PaymentTrueWallet:
		return platform.Message{Text: "👛 TrueWallet\n" + shop.TrueWalletText + note}
	default:
		return platform.Message{Text: "Payment method recorded." + note}
	}
}

const (
	slipHelpText      = "🧾 Send a photo of your payment slip in this channel. Make sure the transfer note is visible."
	staffOnlyText     = "This control is for staff only."
	disabledHintText  = "That action is not available right now; check the receipt status."
	staffCalledText   = "📣 Staff have been notified and will be with you shortly."
	slipReceivedText  = "🧾 Slip received, staff will verify it shortly."
	rejectedNoteText  = "transfer note missing or wrong"
	rejectedSlipText  = "slip unreadable or does not match the amount"
	slipGuidanceText  = "⚠️ Not yet: wait for staff to lock the total and pick a payment method before sending a slip."
	closedCustomer    = "🔒 This ticket is closed. Open a new one from the storefront panel if you need anything else."
	approvedThanks    = "✅ Payment confirmed. Thank you for your purchase!"
	rejectedCustomer  = "❌ Your slip was rejected: %s\nPlease send a corrected slip."
	addUsageText      = "Usage: /add name | qty | price"
	editUsageText     = "Usage: /edit index qty price"
	delUsageText      = "Usage: /del index"
	noTicketHereText  = "This channel has no ticket bound to it."
	checkInfoTemplate = "🎫 %s\nStatus: %s\nAmount due: %d baht\n💸 Lifetime paid: %d baht across %d orders"
)

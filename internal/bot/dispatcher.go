// Package bot translates inbound chat events into ticket lifecycle
// calls and answers actors with outcome or guidance.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dinobux/storebot/internal/config"
	"github.com/dinobux/storebot/internal/domain"
	"github.com/dinobux/storebot/internal/platform"
	"github.com/dinobux/storebot/internal/pricing"
	"github.com/dinobux/storebot/internal/service"
	apperrors "github.com/dinobux/storebot/pkg/util/errorutil"
)

// Dispatcher consumes the platform update stream. Commands carry staff
// item edits, actions carry button presses, attachments carry slips.
type Dispatcher struct {
	gateway  platform.Gateway
	source   platform.EventSource
	tickets  *service.TicketService
	ledger   *service.LedgerService
	telegram config.TelegramConfig
	shop     config.ShopConfig
	logger   *zap.Logger
}

// NewDispatcher constructs the dispatcher.
func NewDispatcher(
	gateway platform.Gateway,
	source platform.EventSource,
	tickets *service.TicketService,
	ledger *service.LedgerService,
	telegram config.TelegramConfig,
	shop config.ShopConfig,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		gateway:  gateway,
		source:   source,
		tickets:  tickets,
		ledger:   ledger,
		telegram: telegram,
		shop:     shop,
		logger:   logger,
	}
}

// Run processes updates until the stream closes or ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-d.source.Updates():
			if !ok {
				return
			}
			switch {
			case update.Command != nil:
				d.handleCommand(ctx, *update.Command)
			case update.Action != nil:
				d.handleAction(ctx, *update.Action)
			case update.Attachment != nil:
				d.handleAttachment(ctx, *update.Attachment)
			}
		}
	}
}

func (d *Dispatcher) isStaff(userID string) bool {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return false
	}
	return d.telegram.IsStaff(id)
}

func (d *Dispatcher) handleCommand(ctx context.Context, cmd platform.CommandEvent) {
	if !d.isStaff(cmd.UserID) {
		return
	}

	switch cmd.Command {
	case "panel":
		if _, err := d.gateway.SendMessage(ctx, cmd.ChannelID, panelMessage(d.shop)); err != nil {
			d.logger.Warn("send panel failed", zap.Error(err))
		}
	case "staff":
		if _, err := d.gateway.SendMessage(ctx, cmd.ChannelID, staffPanelMessage()); err != nil {
			d.logger.Warn("send staff panel failed", zap.Error(err))
		}
	case "add":
		name, qty, price, ok := parseAddArgs(cmd.Args)
		if !ok {
			d.reply(ctx, cmd.ChannelID, addUsageText)
			return
		}
		if _, err := d.tickets.AddItem(ctx, cmd.ChannelID, cmd.UserID, name, qty, price); err != nil {
			d.replyError(ctx, cmd.ChannelID, err)
		}
	case "edit":
		index, qty, price, ok := parseEditArgs(cmd.Args)
		if !ok {
			d.reply(ctx, cmd.ChannelID, editUsageText)
			return
		}
		if _, err := d.tickets.EditItem(ctx, cmd.ChannelID, cmd.UserID, index, qty, price); err != nil {
			d.replyError(ctx, cmd.ChannelID, err)
		}
	case "del":
		index, err := strconv.Atoi(strings.TrimSpace(cmd.Args))
		if err != nil {
			d.reply(ctx, cmd.ChannelID, delUsageText)
			return
		}
		if _, err := d.tickets.RemoveItem(ctx, cmd.ChannelID, cmd.UserID, index); err != nil {
			d.replyError(ctx, cmd.ChannelID, err)
		}
	}
}

func (d *Dispatcher) handleAction(ctx context.Context, act platform.ActionEvent) {
	if strings.HasPrefix(act.Action, platform.DisabledActionPrefix) {
		d.answer(ctx, act.CallbackID, disabledHintText)
		return
	}

	switch act.Action {
	case platform.ActionOpenTicket:
		d.openTicket(ctx, act)
	case platform.ActionCallStaff:
		d.reply(ctx, act.ChannelID, staffCalledText)
		d.answer(ctx, act.CallbackID, "Staff have been notified.")
	case platform.ActionCheckInfo:
		d.checkInfo(ctx, act)
	case platform.ActionChoosePayment:
		d.choosePayment(ctx, act)
	case platform.ActionPayPromptPay:
		d.selectPayment(ctx, act, domain.PaymentPromptPay)
	case platform.ActionPayBank:
		d.selectPayment(ctx, act, domain.PaymentBank)
	case platform.ActionPayTrueWallet:
		d.selectPayment(ctx, act, domain.PaymentTrueWallet)
	case platform.ActionSubmitSlipHelp:
		d.answer(ctx, act.CallbackID, slipHelpText)
	case platform.ActionStaffLock:
		d.staffTransition(ctx, act, "Total locked.", func() error {
			_, err := d.tickets.Lock(ctx, act.ChannelID, act.UserID)
			return err
		})
	case platform.ActionStaffUnlock:
		d.staffTransition(ctx, act, "Items unlocked.", func() error {
			_, err := d.tickets.Unlock(ctx, act.ChannelID, act.UserID)
			return err
		})
	case platform.ActionStaffVerify:
		d.showSlip(ctx, act)
	case platform.ActionStaffApprove, platform.ActionStaffMarkPaid:
		d.approve(ctx, act)
	case platform.ActionStaffBadNote:
		d.rejectSlip(ctx, act, rejectedNoteText)
	case platform.ActionStaffBadSlip:
		d.rejectSlip(ctx, act, rejectedSlipText)
	case platform.ActionStaffClose:
		d.closeTicket(ctx, act)
	default:
		d.logger.Debug("unknown action", zap.String("action", act.Action))
	}
}

// handleAttachment treats every owner upload in a ticket channel as a
// slip submission. Uploads from anyone else are ignored so staff can
// post screenshots without tripping the flow.
func (d *Dispatcher) handleAttachment(ctx context.Context, att platform.AttachmentEvent) {
	_, err := d.tickets.SubmitSlip(ctx, att.ChannelID, att.AuthorID, att.AttachmentURL)
	if err == nil {
		d.reply(ctx, att.ChannelID, slipReceivedText)
		return
	}
	switch {
	case apperrors.IsCode(err, "FORBIDDEN"), apperrors.IsCode(err, "NOT_FOUND"):
		return
	case apperrors.IsCode(err, "PRECONDITION_FAILED"):
		d.reply(ctx, att.ChannelID, slipGuidanceText)
	default:
		d.logger.Error("slip submission failed", zap.String("channel_id", att.ChannelID), zap.Error(err))
	}
}

func (d *Dispatcher) openTicket(ctx context.Context, act platform.ActionEvent) {
	customer := platform.Customer{ID: act.UserID, DisplayName: act.DisplayName}
	ticket, created, err := d.tickets.Open(ctx, customer)
	if err != nil {
		d.answer(ctx, act.CallbackID, apperrors.ToDomainError(err).Message)
		return
	}
	if !created {
		d.answer(ctx, act.CallbackID, fmt.Sprintf("You already have an open ticket: %s", ticket.TicketCode))
		return
	}
	d.reply(ctx, ticket.ChannelID, welcomeText(act.DisplayName, ticket.TicketCode, d.shop))
	d.answer(ctx, act.CallbackID, fmt.Sprintf("🎫 Ticket %s opened, see your new topic.", ticket.TicketCode))
}

func (d *Dispatcher) checkInfo(ctx context.Context, act platform.ActionEvent) {
	ticket, err := d.tickets.Get(ctx, act.ChannelID)
	if err != nil {
		d.answer(ctx, act.CallbackID, noTicketHereText)
		return
	}
	total, _ := pricing.RoundTotal(pricing.Subtotal(ticket.Items))

	var paid int64
	var orders int
	if history, err := d.ledger.History(ctx, ticket.CustomerID, 5); err == nil {
		paid = history.TotalPaid
		orders = len(history.Entries)
	}
	d.answer(ctx, act.CallbackID, fmt.Sprintf(checkInfoTemplate, ticket.TicketCode, ticket.Status, total, paid, orders))
}

func (d *Dispatcher) choosePayment(ctx context.Context, act platform.ActionEvent) {
	ticket, err := d.tickets.Get(ctx, act.ChannelID)
	if err != nil {
		d.answer(ctx, act.CallbackID, noTicketHereText)
		return
	}
	if ticket.CustomerID != act.UserID {
		d.answer(ctx, act.CallbackID, "Only the ticket owner can choose a payment method.")
		return
	}
	if !ticket.CanSelectPayment() {
		d.answer(ctx, act.CallbackID, "Wait for staff to lock the total first.")
		return
	}
	if _, err := d.gateway.SendMessage(ctx, act.ChannelID, paymentChoiceMessage()); err != nil {
		d.logger.Warn("send payment choice failed", zap.Error(err))
	}
	d.answer(ctx, act.CallbackID, "Pick a method below.")
}

func (d *Dispatcher) selectPayment(ctx context.Context, act platform.ActionEvent, method domain.PaymentMethod) {
	ticket, err := d.tickets.SelectPayment(ctx, act.ChannelID, act.UserID, method)
	if err != nil {
		d.answer(ctx, act.CallbackID, apperrors.ToDomainError(err).Message)
		return
	}
	total, _ := pricing.RoundTotal(pricing.Subtotal(ticket.Items))
	if _, err := d.gateway.SendMessage(ctx, act.ChannelID, paymentInstructionMessage(method, total, d.shop)); err != nil {
		d.logger.Warn("send payment instructions failed", zap.Error(err))
	}
	d.answer(ctx, act.CallbackID, "Payment method saved.")
}

func (d *Dispatcher) staffTransition(ctx context.Context, act platform.ActionEvent, done string, fn func() error) {
	if !d.isStaff(act.UserID) {
		d.answer(ctx, act.CallbackID, staffOnlyText)
		return
	}
	if err := fn(); err != nil {
		d.answer(ctx, act.CallbackID, apperrors.ToDomainError(err).Message)
		return
	}
	d.answer(ctx, act.CallbackID, done)
}

func (d *Dispatcher) showSlip(ctx context.Context, act platform.ActionEvent) {
	if !d.isStaff(act.UserID) {
		d.answer(ctx, act.CallbackID, staffOnlyText)
		return
	}
	ticket, err := d.tickets.Get(ctx, act.ChannelID)
	if err != nil {
		d.answer(ctx, act.CallbackID, noTicketHereText)
		return
	}
	if ticket.SlipURL == nil {
		d.answer(ctx, act.CallbackID, "No slip has been submitted yet.")
		return
	}
	d.reply(ctx, act.ChannelID, "🔍 Latest slip: "+*ticket.SlipURL)
	d.answer(ctx, act.CallbackID, "Posted the latest slip link.")
}

func (d *Dispatcher) approve(ctx context.Context, act platform.ActionEvent) {
	if !d.isStaff(act.UserID) {
		d.answer(ctx, act.CallbackID, staffOnlyText)
		return
	}
	if _, err := d.tickets.Approve(ctx, act.ChannelID, act.UserID); err != nil {
		d.answer(ctx, act.CallbackID, apperrors.ToDomainError(err).Message)
		return
	}
	d.reply(ctx, act.ChannelID, approvedThanks)
	d.answer(ctx, act.CallbackID, "Payment approved.")
}

func (d *Dispatcher) rejectSlip(ctx context.Context, act platform.ActionEvent, reason string) {
	if !d.isStaff(act.UserID) {
		d.answer(ctx, act.CallbackID, staffOnlyText)
		return
	}
	if _, err := d.tickets.Reject(ctx, act.ChannelID, act.UserID, reason); err != nil {
		d.answer(ctx, act.CallbackID, apperrors.ToDomainError(err).Message)
		return
	}
	d.reply(ctx, act.ChannelID, fmt.Sprintf(rejectedCustomer, reason))
	d.answer(ctx, act.CallbackID, "Slip rejected.")
}

func (d *Dispatcher) closeTicket(ctx context.Context, act platform.ActionEvent) {
	if !d.isStaff(act.UserID) {
		d.answer(ctx, act.CallbackID, staffOnlyText)
		return
	}
	if _, err := d.tickets.Close(ctx, act.ChannelID, act.UserID); err != nil {
		d.answer(ctx, act.CallbackID, apperrors.ToDomainError(err).Message)
		return
	}
	d.reply(ctx, act.ChannelID, closedCustomer)
	d.answer(ctx, act.CallbackID, "Ticket closed.")
}

func (d *Dispatcher) reply(ctx context.Context, channelID, text string) {
	if text == "" {
		return
	}
	if _, err := d.gateway.SendMessage(ctx, channelID, platform.Message{Text: text}); err != nil {
		d.logger.Warn("send reply failed", zap.String("channel_id", channelID), zap.Error(err))
	}
}

func (d *Dispatcher) replyError(ctx context.Context, channelID string, err error) {
	d.reply(ctx, channelID, "⚠️ "+apperrors.ToDomainError(err).Message)
}

func (d *Dispatcher) answer(ctx context.Context, callbackID, text string) {
	if err := d.source.AnswerAction(ctx, callbackID, text); err != nil {
		d.logger.Warn("answer action failed", zap.Error(err))
	}
}

// parseAddArgs parses "name | qty | price".
func parseAddArgs(args string) (name string, qty, price float64, ok bool) {
	parts := strings.Split(args, "|")
	if len(parts) != 3 {
		return "", 0, 0, false
	}
	name = strings.TrimSpace(parts[0])
	qty, err1 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	price, err2 := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if name == "" || err1 != nil || err2 != nil {
		return "", 0, 0, false
	}
	return name, qty, price, true
}

// parseEditArgs parses "index qty price".
func parseEditArgs(args string) (index int, qty, price float64, ok bool) {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		return 0, 0, 0, false
	}
	index, err1 := strconv.Atoi(fields[0])
	qty, err2 := strconv.ParseFloat(fields[1], 64)
	price, err3 := strconv.ParseFloat(fields[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return index, qty, price, true
}

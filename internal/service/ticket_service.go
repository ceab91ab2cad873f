package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/dinobux/storebot/internal/config"
	"github.com/dinobux/storebot/internal/domain"
	"github.com/dinobux/storebot/internal/events"
	"github.com/dinobux/storebot/internal/lock"
	"github.com/dinobux/storebot/internal/observability"
	"github.com/dinobux/storebot/internal/platform"
	"github.com/dinobux/storebot/internal/pricing"
	"github.com/dinobux/storebot/internal/render"
	"github.com/dinobux/storebot/internal/repository"
	apperrors "github.com/dinobux/storebot/pkg/util/errorutil"
)

// TicketService owns the ticket lifecycle. Every transition runs as
// read, validate, mutate, persist, render under the per-channel lock,
// so two actions on the same ticket can never interleave. A failed
// persist aborts the transition before any event or render is emitted.
type TicketService struct {
	tickets    repository.TicketRepository
	ledger     *LedgerService
	gateway    platform.Gateway
	receipts   *render.Pusher
	dispatcher events.Dispatcher
	creation   CreationLocker
	shop       config.ShopConfig
	logger     *zap.Logger
	metrics    *observability.Metrics
	locks      *lock.KeyedMutex
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	Ledger       *LedgerService
	Gateway      platform.Gateway
	Receipts     *render.Pusher
	Dispatcher   events.Dispatcher
	CreationLock CreationLocker
	Shop         config.ShopConfig
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	Now          func() time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	creation := deps.CreationLock
	if creation == nil {
		creation = NewMemoryCreationLock()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		ledger:     deps.Ledger,
		gateway:    deps.Gateway,
		receipts:   deps.Receipts,
		dispatcher: deps.Dispatcher,
		creation:   creation,
		shop:       deps.Shop,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		locks:      lock.NewKeyedMutex(),
		now:        now,
	}
}

// Open creates a ticket and its channel for the customer, or returns
// the already-open one. The per-customer creation lock makes the
// find-open check and channel provisioning atomic, so two simultaneous
// open requests can never produce two open tickets.
func (s *TicketService) Open(ctx context.Context, customer platform.Customer) (*domain.Ticket, bool, error) {
	release, err := s.creation.Acquire(ctx, customer.ID)
	if err != nil {
		return nil, false, err
	}
	defer release()

	existing, err := s.tickets.FindOpenByCustomer(ctx, customer.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, apperrors.NewInternalError(err)
	}

	channelID, err := s.gateway.CreateTicketChannel(ctx, customer)
	if err != nil {
		return nil, false, apperrors.NewInternalError(err)
	}

	createdAt := s.now()
	ticket := &domain.Ticket{
		ChannelID:  channelID,
		TicketCode: generateTicketCode(),
		CustomerID: customer.ID,
		Status:     domain.TicketStatusNew,
		Items:      []domain.LineItem{},
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}

	receiptID, err := s.gateway.SendMessage(ctx, channelID, render.Message(ticket, s.shop))
	if err != nil {
		return nil, false, apperrors.NewInternalError(err)
	}
	ticket.ReceiptMessageID = &receiptID
	if err := s.gateway.PinMessage(ctx, channelID, receiptID); err != nil {
		s.logger.Warn("pin receipt failed", zap.String("channel_id", channelID), zap.Error(err))
	}

	if err := s.tickets.Put(ctx, ticket); err != nil {
		return nil, false, apperrors.NewInternalError(err)
	}

	s.publish(ctx, ticket, events.Event{
		Type:  events.EventTicketCreated,
		Actor: events.Actor{Type: events.ActorCustomer, ID: customer.ID},
	})
	return ticket, true, nil
}

// Get returns the ticket bound to a channel.
func (s *TicketService) Get(ctx context.Context, channelID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.Get(ctx, channelID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"channel_id": channelID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return ticket, nil
}

// ListOpen returns open tickets for the staff API.
func (s *TicketService) ListOpen(ctx context.Context, limit, offset int) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListOpen(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tickets, nil
}

// AddItem appends a receipt line.
func (s *TicketService) AddItem(ctx context.Context, channelID, staffID, name string, qty, unitPrice float64) (*domain.Ticket, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("item name is required", nil)
	}
	if err := validateItemNumbers(qty, unitPrice); err != nil {
		return nil, err
	}
	return s.transition(ctx, channelID, func(t *domain.Ticket) (events.Event, error) {
		if !t.CanEditItems() {
			return events.Event{}, apperrors.NewPreconditionError("items are locked; unlock before editing")
		}
		t.Items = append(t.Items, domain.LineItem{Name: name, Qty: qty, UnitPrice: unitPrice})
		t.Status = domain.TicketStatusCart
		t.AssignStaff(staffID)
		return events.Event{
			Type:    events.EventItemAdded,
			Actor:   events.Actor{Type: events.ActorStaff, ID: staffID},
			Payload: events.ItemPayload{Index: len(t.Items), Name: name, Qty: qty, UnitPrice: unitPrice},
		}, nil
	})
}

// EditItem replaces qty and unit price at a 1-based position.
func (s *TicketService) EditItem(ctx context.Context, channelID, staffID string, index int, qty, unitPrice float64) (*domain.Ticket, error) {
	if err := validateItemNumbers(qty, unitPrice); err != nil {
		return nil, err
	}
	return s.transition(ctx, channelID, func(t *domain.Ticket) (events.Event, error) {
		if !t.CanEditItems() {
			return events.Event{}, apperrors.NewPreconditionError("items are locked; unlock before editing")
		}
		idx := index - 1
		if idx < 0 || idx >= len(t.Items) {
			return events.Event{}, apperrors.NewNotFound("item", map[string]any{"index": index})
		}
		t.Items[idx].Qty = qty
		t.Items[idx].UnitPrice = unitPrice
		t.Status = domain.TicketStatusCart
		return events.Event{
			Type:    events.EventItemEdited,
			Actor:   events.Actor{Type: events.ActorStaff, ID: staffID},
			Payload: events.ItemPayload{Index: index, Name: t.Items[idx].Name, Qty: qty, UnitPrice: unitPrice},
		}, nil
	})
}

// RemoveItem deletes the line at a 1-based position.
func (s *TicketService) RemoveItem(ctx context.Context, channelID, staffID string, index int) (*domain.Ticket, error) {
	return s.transition(ctx, channelID, func(t *domain.Ticket) (events.Event, error) {
		if !t.CanEditItems() {
			return events.Event{}, apperrors.NewPreconditionError("items are locked; unlock before editing")
		}
		idx := index - 1
		if idx < 0 || idx >= len(t.Items) {
			return events.Event{}, apperrors.NewNotFound("item", map[string]any{"index": index})
		}
		removed := t.Items[idx]
		t.Items = append(t.Items[:idx], t.Items[idx+1:]...)
		if len(t.Items) > 0 {
			t.Status = domain.TicketStatusCart
		} else {
			t.Status = domain.TicketStatusNew
		}
		return events.Event{
			Type:    events.EventItemRemoved,
			Actor:   events.Actor{Type: events.ActorStaff, ID: staffID},
			Payload: events.ItemPayload{Index: index, Name: removed.Name, Qty: removed.Qty, UnitPrice: removed.UnitPrice},
		}, nil
	})
}

// Lock freezes the item list so the total can be quoted and paid.
func (s *TicketService) Lock(ctx context.Context, channelID, staffID string) (*domain.Ticket, error) {
	return s.transition(ctx, channelID, func(t *domain.Ticket) (events.Event, error) {
		if t.Locked {
			return events.Event{}, apperrors.NewPreconditionError("total is already locked")
		}
		old := t.Status
		t.Locked = true
		t.Status = domain.TicketStatusAwaitingPayment
		t.AssignStaff(staffID)
		return events.Event{
			Type:    events.EventTicketLocked,
			Actor:   events.Actor{Type: events.ActorStaff, ID: staffID},
			Payload: events.StatusPayload{OldStatus: old, NewStatus: t.Status},
		}, nil
	})
}

// Unlock reopens the item list.
func (s *TicketService) Unlock(ctx context.Context, channelID, staffID string) (*domain.Ticket, error) {
	return s.transition(ctx, channelID, func(t *domain.Ticket) (events.Event, error) {
		if !t.Locked {
			return events.Event{}, apperrors.NewPreconditionError("total is not locked")
		}
		old := t.Status
		t.Locked = false
		t.Status = domain.TicketStatusCart
		return events.Event{
			Type:    events.EventTicketUnlocked,
			Actor:   events.Actor{Type: events.ActorStaff, ID: staffID},
			Payload: events.StatusPayload{OldStatus: old, NewStatus: t.Status},
		}, nil
	})
}

// SelectPayment records the customer's chosen payment method.
func (s *TicketService) SelectPayment(ctx context.Context, channelID, customerID string, method domain.PaymentMethod) (*domain.Ticket, error) {
	return s.transition(ctx, channelID, func(t *domain.Ticket) (events.Event, error) {
		if t.CustomerID != customerID {
			return events.Event{}, apperrors.NewForbidden("only the ticket owner can choose a payment method")
		}
		if !t.CanSelectPayment() {
			return events.Event{}, apperrors.NewPreconditionError("staff must lock the total before payment")
		}
		t.PaymentMethod = &method
		return events.Event{
			Type:    events.EventPaymentSelected,
			Actor:   events.Actor{Type: events.ActorCustomer, ID: customerID},
			Payload: events.PaymentSelectedPayload{Method: method},
		}, nil
	})
}

// SubmitSlip accepts a proof-of-payment from the ticket owner. A
// resubmission overwrites the previous slip and re-enters VERIFYING.
func (s *TicketService) SubmitSlip(ctx context.Context, channelID, authorID, url string) (*domain.Ticket, error) {
	return s.transition(ctx, channelID, func(t *domain.Ticket) (events.Event, error) {
		if t.CustomerID != authorID {
			return events.Event{}, apperrors.NewForbidden("only the ticket owner can submit a slip")
		}
		if !t.CanSubmitSlip() {
			return events.Event{}, apperrors.NewPreconditionError("wait for staff to lock the total and choose a payment method before sending a slip")
		}
		t.SlipURL = &url
		t.Status = domain.TicketStatusVerifying
		return events.Event{
			Type:    events.EventSlipSubmitted,
			Actor:   events.Actor{Type: events.ActorCustomer, ID: authorID},
			Payload: events.SlipSubmittedPayload{SlipURL: url},
		}, nil
	})
}

// Approve marks the ticket paid and appends the ledger entry. Allowed
// from VERIFYING, or from any locked state as the "mark paid" shortcut.
func (s *TicketService) Approve(ctx context.Context, channelID, staffID string) (*domain.Ticket, error) {
	var entry *domain.LedgerEntry
	ticket, err := s.transition(ctx, channelID, func(t *domain.Ticket) (events.Event, error) {
		if t.Status == domain.TicketStatusPaid {
			return events.Event{}, apperrors.NewPreconditionError("ticket is already paid")
		}
		if t.Status != domain.TicketStatusVerifying && !t.Locked {
			return events.Event{}, apperrors.NewPreconditionError("lock the total before marking paid")
		}
		t.Status = domain.TicketStatusPaid
		t.AssignStaff(staffID)

		total, _ := pricing.RoundTotal(pricing.Subtotal(t.Items))
		now := s.now()
		entry = &domain.LedgerEntry{
			OrderNo:    generateOrderNo(),
			UserID:     t.CustomerID,
			TicketCode: t.TicketCode,
			AmountBaht: total,
			Status:     domain.LedgerStatusPaid,
			CreatedAt:  now,
			PaidAt:     now,
		}
		return events.Event{
			Type:    events.EventPaymentApproved,
			Actor:   events.Actor{Type: events.ActorStaff, ID: staffID},
			Payload: events.PaymentApprovedPayload{OrderNo: entry.OrderNo, AmountBaht: entry.AmountBaht},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	if s.ledger != nil && entry != nil {
		if err := s.ledger.Record(ctx, entry); err != nil {
			// the ticket is already committed as PAID; the ledger miss
			// is logged for manual reconciliation
			s.logger.Error("ledger append failed",
				zap.String("order_no", entry.OrderNo),
				zap.String("ticket_code", entry.TicketCode),
				zap.Error(err))
		}
	}
	return ticket, nil
}

// Reject flags the current slip as not acceptable; the slip reference
// is kept until the customer overwrites it with a new submission.
func (s *TicketService) Reject(ctx context.Context, channelID, staffID, reason string) (*domain.Ticket, error) {
	return s.transition(ctx, channelID, func(t *domain.Ticket) (events.Event, error) {
		if t.Status != domain.TicketStatusVerifying {
			return events.Event{}, apperrors.NewPreconditionError("there is no slip under verification")
		}
		t.Status = domain.TicketStatusRejected
		return events.Event{
			Type:    events.EventPaymentRejected,
			Actor:   events.Actor{Type: events.ActorStaff, ID: staffID},
			Payload: events.StatusPayload{OldStatus: domain.TicketStatusVerifying, NewStatus: t.Status, Comment: reason},
		}, nil
	})
}

// Close terminates the ticket and revokes the customer's send access.
func (s *TicketService) Close(ctx context.Context, channelID, staffID string) (*domain.Ticket, error) {
	ticket, err := s.transition(ctx, channelID, func(t *domain.Ticket) (events.Event, error) {
		old := t.Status
		t.Status = domain.TicketStatusClosed
		t.Closed = true
		return events.Event{
			Type:    events.EventTicketClosed,
			Actor:   events.Actor{Type: events.ActorStaff, ID: staffID},
			Payload: events.StatusPayload{OldStatus: old, NewStatus: t.Status},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.gateway.RestrictCustomer(ctx, channelID, ticket.CustomerID); err != nil {
		s.logger.Warn("restrict customer failed", zap.String("channel_id", channelID), zap.Error(err))
	}
	return ticket, nil
}

// transition runs one guarded mutation under the channel lock. The
// mutation is committed with a single full-record write; events,
// metrics and the receipt refresh happen only after the commit.
func (s *TicketService) transition(ctx context.Context, channelID string, fn func(*domain.Ticket) (events.Event, error)) (*domain.Ticket, error) {
	unlock := s.locks.Lock(channelID)
	defer unlock()

	ticket, err := s.tickets.Get(ctx, channelID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"channel_id": channelID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	if ticket.Closed {
		return nil, apperrors.NewPreconditionError("ticket is closed")
	}

	event, err := fn(ticket)
	if err != nil {
		return nil, err
	}

	ticket.UpdatedAt = s.now()
	if err := s.tickets.Put(ctx, ticket); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, ticket, event)
	if s.receipts != nil {
		s.receipts.Push(ticket)
	}
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, ticket *domain.Ticket, event events.Event) {
	if s.metrics != nil {
		s.metrics.RecordTransition(string(event.Type))
	}
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.ChannelID = ticket.ChannelID
	event.TicketCode = ticket.TicketCode
	event.Timestamp = s.now()
	_ = s.dispatcher.Publish(ctx, event)
}

func validateItemNumbers(qty, unitPrice float64) error {
	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty <= 0 {
		return apperrors.NewValidationError("quantity must be a positive number", nil)
	}
	if math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) || unitPrice < 0 {
		return apperrors.NewValidationError("unit price must be zero or a positive number", nil)
	}
	return nil
}

func generateTicketCode() string {
	return "T-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:5])
}

func generateOrderNo() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

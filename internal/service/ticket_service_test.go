package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/dinobux/storebot/internal/config"
	"github.com/dinobux/storebot/internal/domain"
	"github.com/dinobux/storebot/internal/events"
	"github.com/dinobux/storebot/internal/platform"
	"github.com/dinobux/storebot/internal/render"
	apperrors "github.com/dinobux/storebot/pkg/util/errorutil"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
	failPut bool
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *fakeTicketRepo) Get(_ context.Context, channelID string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[channelID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return t.Clone(), nil
}

func (r *fakeTicketRepo) Put(_ context.Context, t *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failPut {
		return errors.New("storage down")
	}
	r.tickets[t.ChannelID] = t.Clone()
	return nil
}

func (r *fakeTicketRepo) FindOpenByCustomer(_ context.Context, customerID string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.CustomerID == customerID && !t.Closed {
			return t.Clone(), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListOpen(_ context.Context, _, _ int) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for _, t := range r.tickets {
		if !t.Closed {
			out = append(out, *t.Clone())
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tickets)
}

type fakeLedgerRepo struct {
	mu      sync.Mutex
	entries []domain.LedgerEntry
}

func (r *fakeLedgerRepo) Append(_ context.Context, entry *domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLedgerRepo) ListPaidByUser(_ context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range r.entries {
		if e.UserID == userID && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) TotalPaidByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, e := range r.entries {
		if e.UserID == userID {
			total += e.AmountBaht
		}
	}
	return total, nil
}

func (r *fakeLedgerRepo) all() []domain.LedgerEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.LedgerEntry(nil), r.entries...)
}

type fakeGateway struct {
	mu         sync.Mutex
	nextChan   int
	nextMsg    int
	pinned     []string
	restricted []string
}

func (g *fakeGateway) CreateTicketChannel(_ context.Context, _ platform.Customer) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextChan++
	return fmt.Sprintf("chan-%d", g.nextChan), nil
}

func (g *fakeGateway) SendMessage(_ context.Context, _ string, _ platform.Message) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextMsg++
	return fmt.Sprintf("msg-%d", g.nextMsg), nil
}

func (g *fakeGateway) EditMessage(_ context.Context, _, _ string, _ platform.Message) error {
	return nil
}

func (g *fakeGateway) PinMessage(_ context.Context, channelID, messageID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pinned = append(g.pinned, channelID+"/"+messageID)
	return nil
}

func (g *fakeGateway) RestrictCustomer(_ context.Context, channelID, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.restricted = append(g.restricted, channelID)
	return nil
}

func (g *fakeGateway) restrictedChannels() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.restricted...)
}

type eventRecorder struct {
	mu    sync.Mutex
	types []events.EventType
}

func (r *eventRecorder) record(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, event.Type)
	return nil
}

func (r *eventRecorder) seen() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.EventType(nil), r.types...)
}

type testEnv struct {
	svc     *TicketService
	tickets *fakeTicketRepo
	ledger  *fakeLedgerRepo
	gateway *fakeGateway
	events  *eventRecorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tickets := newFakeTicketRepo()
	ledger := &fakeLedgerRepo{}
	gateway := &fakeGateway{}
	recorder := &eventRecorder{}
	logger := zap.NewNop()

	dispatcher := events.NewInMemoryDispatcher()
	for _, et := range []events.EventType{
		events.EventTicketCreated,
		events.EventItemAdded,
		events.EventItemEdited,
		events.EventItemRemoved,
		events.EventTicketLocked,
		events.EventTicketUnlocked,
		events.EventPaymentSelected,
		events.EventSlipSubmitted,
		events.EventPaymentApproved,
		events.EventPaymentRejected,
		events.EventTicketClosed,
	} {
		dispatcher.Subscribe(et, recorder.record)
	}

	shop := config.ShopConfig{Brand: "Dinobux", RequiredNote: "bought from dinobux"}
	svc := NewTicketService(TicketDependencies{
		TicketRepo: tickets,
		Ledger:     NewLedgerService(ledger, logger),
		Gateway:    gateway,
		Receipts:   render.NewPusher(gateway, shop, logger),
		Dispatcher: dispatcher,
		Shop:       shop,
		Logger:     logger,
	})

	return &testEnv{svc: svc, tickets: tickets, ledger: ledger, gateway: gateway, events: recorder}
}

func (e *testEnv) openTicket(t *testing.T, customerID string) *domain.Ticket {
	t.Helper()
	ticket, created, err := e.svc.Open(context.Background(), platform.Customer{ID: customerID, DisplayName: "cust"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !created {
		t.Fatal("Open returned an existing ticket, want a new one")
	}
	return ticket
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !apperrors.IsCode(err, code) {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

func TestOpenCreatesTicket(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	ticket := env.openTicket(t, "1001")

	if ticket.Status != domain.TicketStatusNew {
		t.Errorf("status = %s, want NEW", ticket.Status)
	}
	if ticket.ReceiptMessageID == nil {
		t.Error("receipt message id not recorded")
	}
	if env.tickets.count() != 1 {
		t.Errorf("persisted tickets = %d, want 1", env.tickets.count())
	}
	if seen := env.events.seen(); len(seen) != 1 || seen[0] != events.EventTicketCreated {
		t.Errorf("events = %v, want [ticket_created]", seen)
	}
}

func TestOpenReturnsExistingTicket(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	first := env.openTicket(t, "1001")
	second, created, err := env.svc.Open(context.Background(), platform.Customer{ID: "1001"})
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if created {
		t.Error("second Open created a ticket, want the existing one")
	}
	if second.ChannelID != first.ChannelID {
		t.Errorf("channel = %s, want %s", second.ChannelID, first.ChannelID)
	}
	if env.tickets.count() != 1 {
		t.Errorf("persisted tickets = %d, want 1", env.tickets.count())
	}
}

func TestOpenConcurrentSingleTicket(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	const workers = 16
	var wg sync.WaitGroup
	var createdCount sync.Map
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, created, err := env.svc.Open(context.Background(), platform.Customer{ID: "1001"})
			if err != nil {
				t.Errorf("Open: %v", err)
				return
			}
			createdCount.Store(i, created)
		}(i)
	}
	wg.Wait()

	total := 0
	createdCount.Range(func(_, v any) bool {
		if v.(bool) {
			total++
		}
		return true
	})
	if total != 1 {
		t.Errorf("created = %d, want exactly 1", total)
	}
	if env.tickets.count() != 1 {
		t.Errorf("persisted tickets = %d, want 1", env.tickets.count())
	}
}

func TestItemLifecycle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	ticket := env.openTicket(t, "1001")

	updated, err := env.svc.AddItem(ctx, ticket.ChannelID, "staff-1", "Gem Pack", 3, 33.33)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if updated.Status != domain.TicketStatusCart {
		t.Errorf("status = %s, want CART", updated.Status)
	}
	if updated.StaffID == nil || *updated.StaffID != "staff-1" {
		t.Error("first item add should assign the staff member")
	}

	updated, err = env.svc.EditItem(ctx, ticket.ChannelID, "staff-1", 1, 2, 50)
	if err != nil {
		t.Fatalf("EditItem: %v", err)
	}
	if updated.Items[0].Qty != 2 || updated.Items[0].UnitPrice != 50 {
		t.Errorf("item after edit = %+v", updated.Items[0])
	}

	if _, err := env.svc.EditItem(ctx, ticket.ChannelID, "staff-1", 5, 1, 1); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Errorf("edit out of range: got %v, want NOT_FOUND", err)
	}

	updated, err = env.svc.RemoveItem(ctx, ticket.ChannelID, "staff-1", 1)
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if updated.Status != domain.TicketStatusNew {
		t.Errorf("status after removing last item = %s, want NEW", updated.Status)
	}
	if len(updated.Items) != 0 {
		t.Errorf("items = %d, want 0", len(updated.Items))
	}
}

func TestItemValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	ticket := env.openTicket(t, "1001")

	tests := []struct {
		name  string
		item  string
		qty   float64
		price float64
	}{
		{"empty name", "  ", 1, 10},
		{"zero qty", "Gem", 0, 10},
		{"negative qty", "Gem", -1, 10},
		{"negative price", "Gem", 1, -5},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.AddItem(ctx, ticket.ChannelID, "staff-1", tc.item, tc.qty, tc.price)
			wantCode(t, err, "VALIDATION_FAILED")
		})
	}
}

func TestLockBlocksItemEdits(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	ticket := env.openTicket(t, "1001")

	if _, err := env.svc.AddItem(ctx, ticket.ChannelID, "staff-1", "Gem Pack", 1, 99.99); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	locked, err := env.svc.Lock(ctx, ticket.ChannelID, "staff-1")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if locked.Status != domain.TicketStatusAwaitingPayment || !locked.Locked {
		t.Errorf("after lock: status=%s locked=%v", locked.Status, locked.Locked)
	}

	_, err = env.svc.AddItem(ctx, ticket.ChannelID, "staff-1", "More", 1, 1)
	wantCode(t, err, "PRECONDITION_FAILED")
	_, err = env.svc.Lock(ctx, ticket.ChannelID, "staff-1")
	wantCode(t, err, "PRECONDITION_FAILED")

	unlocked, err := env.svc.Unlock(ctx, ticket.ChannelID, "staff-1")
	if err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if unlocked.Status != domain.TicketStatusCart || unlocked.Locked {
		t.Errorf("after unlock: status=%s locked=%v", unlocked.Status, unlocked.Locked)
	}
	if _, err := env.svc.AddItem(ctx, ticket.ChannelID, "staff-1", "More", 1, 1); err != nil {
		t.Errorf("AddItem after unlock: %v", err)
	}
}

func TestSelectPaymentGuards(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	ticket := env.openTicket(t, "1001")

	_, err := env.svc.SelectPayment(ctx, ticket.ChannelID, "1001", domain.PaymentBank)
	wantCode(t, err, "PRECONDITION_FAILED")

	if _, err := env.svc.AddItem(ctx, ticket.ChannelID, "staff-1", "Gem Pack", 1, 100); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := env.svc.Lock(ctx, ticket.ChannelID, "staff-1"); err != nil {
		t.Fatalf("Lock: %v", err)
	}

	_, err = env.svc.SelectPayment(ctx, ticket.ChannelID, "9999", domain.PaymentBank)
	wantCode(t, err, "FORBIDDEN")

	updated, err := env.svc.SelectPayment(ctx, ticket.ChannelID, "1001", domain.PaymentBank)
	if err != nil {
		t.Fatalf("SelectPayment: %v", err)
	}
	if updated.PaymentMethod == nil || *updated.PaymentMethod != domain.PaymentBank {
		t.Errorf("payment method = %v, want BANK", updated.PaymentMethod)
	}
}

func TestSubmitSlipGuards(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	ticket := env.openTicket(t, "1001")

	_, err := env.svc.SubmitSlip(ctx, ticket.ChannelID, "9999", "https://files/slip.jpg")
	wantCode(t, err, "FORBIDDEN")

	_, err = env.svc.SubmitSlip(ctx, ticket.ChannelID, "1001", "https://files/slip.jpg")
	wantCode(t, err, "PRECONDITION_FAILED")

	if _, err := env.svc.AddItem(ctx, ticket.ChannelID, "staff-1", "Gem Pack", 1, 100); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := env.svc.Lock(ctx, ticket.ChannelID, "staff-1"); err != nil {
		t.Fatalf("Lock: %v", err)
	}

	// locked but no method chosen yet
	_, err = env.svc.SubmitSlip(ctx, ticket.ChannelID, "1001", "https://files/slip.jpg")
	wantCode(t, err, "PRECONDITION_FAILED")

	if _, err := env.svc.SelectPayment(ctx, ticket.ChannelID, "1001", domain.PaymentPromptPay); err != nil {
		t.Fatalf("SelectPayment: %v", err)
	}
	updated, err := env.svc.SubmitSlip(ctx, ticket.ChannelID, "1001", "https://files/slip.jpg")
	if err != nil {
		t.Fatalf("SubmitSlip: %v", err)
	}
	if updated.Status != domain.TicketStatusVerifying {
		t.Errorf("status = %s, want VERIFYING", updated.Status)
	}
}

func TestApproveEndToEnd(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	ticket := env.openTicket(t, "1001")

	if _, err := env.svc.AddItem(ctx, ticket.ChannelID, "staff-1", "Gem Pack", 3, 33.33); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := env.svc.Lock(ctx, ticket.ChannelID, "staff-1"); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if _, err := env.svc.SelectPayment(ctx, ticket.ChannelID, "1001", domain.PaymentBank); err != nil {
		t.Fatalf("SelectPayment: %v", err)
	}
	if _, err := env.svc.SubmitSlip(ctx, ticket.ChannelID, "1001", "https://files/slip.jpg"); err != nil {
		t.Fatalf("SubmitSlip: %v", err)
	}

	paid, err := env.svc.Approve(ctx, ticket.ChannelID, "staff-1")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if paid.Status != domain.TicketStatusPaid {
		t.Errorf("status = %s, want PAID", paid.Status)
	}

	entries := env.ledger.all()
	if len(entries) != 1 {
		t.Fatalf("ledger entries = %d, want 1", len(entries))
	}
	// 3 x 33.33 = 99.99, rounded up to 100
	if entries[0].AmountBaht != 100 {
		t.Errorf("ledger amount = %d, want 100", entries[0].AmountBaht)
	}
	if entries[0].UserID != "1001" || entries[0].TicketCode != ticket.TicketCode {
		t.Errorf("ledger entry = %+v", entries[0])
	}

	// approving twice must not append a second entry
	_, err = env.svc.Approve(ctx, ticket.ChannelID, "staff-1")
	wantCode(t, err, "PRECONDITION_FAILED")
	if got := len(env.ledger.all()); got != 1 {
		t.Errorf("ledger entries after re-approve = %d, want 1", got)
	}
}

func TestApproveRequiresLockedState(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	ticket := env.openTicket(t, "1001")

	_, err := env.svc.Approve(ctx, ticket.ChannelID, "staff-1")
	wantCode(t, err, "PRECONDITION_FAILED")

	// mark-paid shortcut: locked total with no slip is approvable
	if _, err := env.svc.AddItem(ctx, ticket.ChannelID, "staff-1", "Gem Pack", 1, 100); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := env.svc.Lock(ctx, ticket.ChannelID, "staff-1"); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if _, err := env.svc.Approve(ctx, ticket.ChannelID, "staff-1"); err != nil {
		t.Errorf("mark-paid shortcut: %v", err)
	}
}

func TestRejectAndResubmit(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	ticket := env.openTicket(t, "1001")

	_, err := env.svc.Reject(ctx, ticket.ChannelID, "staff-1", "bad note")
	wantCode(t, err, "PRECONDITION_FAILED")

	if _, err := env.svc.AddItem(ctx, ticket.ChannelID, "staff-1", "Gem Pack", 1, 100); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := env.svc.Lock(ctx, ticket.ChannelID, "staff-1"); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if _, err := env.svc.SelectPayment(ctx, ticket.ChannelID, "1001", domain.PaymentTrueWallet); err != nil {
		t.Fatalf("SelectPayment: %v", err)
	}
	if _, err := env.svc.SubmitSlip(ctx, ticket.ChannelID, "1001", "https://files/slip-1.jpg"); err != nil {
		t.Fatalf("SubmitSlip: %v", err)
	}

	rejected, err := env.svc.Reject(ctx, ticket.ChannelID, "staff-1", "note missing")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != domain.TicketStatusRejected {
		t.Errorf("status = %s, want REJECTED", rejected.Status)
	}

	resubmitted, err := env.svc.SubmitSlip(ctx, ticket.ChannelID, "1001", "https://files/slip-2.jpg")
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if resubmitted.Status != domain.TicketStatusVerifying {
		t.Errorf("status after resubmit = %s, want VERIFYING", resubmitted.Status)
	}
	if resubmitted.SlipURL == nil || *resubmitted.SlipURL != "https://files/slip-2.jpg" {
		t.Errorf("slip url = %v, want the new slip", resubmitted.SlipURL)
	}
}

func TestCloseIsTerminal(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	ticket := env.openTicket(t, "1001")

	closed, err := env.svc.Close(ctx, ticket.ChannelID, "staff-1")
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.Status != domain.TicketStatusClosed || !closed.Closed {
		t.Errorf("after close: status=%s closed=%v", closed.Status, closed.Closed)
	}
	if got := env.gateway.restrictedChannels(); len(got) != 1 || got[0] != ticket.ChannelID {
		t.Errorf("restricted channels = %v, want [%s]", got, ticket.ChannelID)
	}

	for name, call := range map[string]func() error{
		"add item": func() error {
			_, err := env.svc.AddItem(ctx, ticket.ChannelID, "staff-1", "Gem", 1, 1)
			return err
		},
		"lock": func() error {
			_, err := env.svc.Lock(ctx, ticket.ChannelID, "staff-1")
			return err
		},
		"select payment": func() error {
			_, err := env.svc.SelectPayment(ctx, ticket.ChannelID, "1001", domain.PaymentBank)
			return err
		},
		"submit slip": func() error {
			_, err := env.svc.SubmitSlip(ctx, ticket.ChannelID, "1001", "https://files/late.jpg")
			return err
		},
		"approve": func() error {
			_, err := env.svc.Approve(ctx, ticket.ChannelID, "staff-1")
			return err
		},
		"close again": func() error {
			_, err := env.svc.Close(ctx, ticket.ChannelID, "staff-1")
			return err
		},
	} {
		if err := call(); !apperrors.IsCode(err, "PRECONDITION_FAILED") {
			t.Errorf("%s on closed ticket: got %v, want PRECONDITION_FAILED", name, err)
		}
	}

	// a closed ticket frees the customer to open a new one
	fresh, created, err := env.svc.Open(ctx, platform.Customer{ID: "1001"})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !created || fresh.ChannelID == ticket.ChannelID {
		t.Errorf("reopen: created=%v channel=%s", created, fresh.ChannelID)
	}
}

func TestPersistFailureAbortsTransition(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	ticket := env.openTicket(t, "1001")
	eventsBefore := len(env.events.seen())

	env.tickets.mu.Lock()
	env.tickets.failPut = true
	env.tickets.mu.Unlock()

	_, err := env.svc.AddItem(ctx, ticket.ChannelID, "staff-1", "Gem Pack", 1, 10)
	wantCode(t, err, "INTERNAL_ERROR")

	env.tickets.mu.Lock()
	env.tickets.failPut = false
	env.tickets.mu.Unlock()

	stored, err := env.svc.Get(ctx, ticket.ChannelID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(stored.Items) != 0 {
		t.Errorf("items = %d, want 0 after failed persist", len(stored.Items))
	}
	if got := len(env.events.seen()); got != eventsBefore {
		t.Errorf("events emitted on failed transition: %d new", got-eventsBefore)
	}
}

func TestTransitionsOnMissingTicket(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.AddItem(ctx, "nope", "staff-1", "Gem", 1, 1)
	wantCode(t, err, "NOT_FOUND")
	_, err = env.svc.Get(ctx, "nope")
	wantCode(t, err, "NOT_FOUND")
}

package render

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dinobux/storebot/internal/domain"
	"github.com/dinobux/storebot/internal/platform"
)

// blockingGateway lets a test hold the first edit open while more
// pushes queue up behind it.
type blockingGateway struct {
	mu      sync.Mutex
	edits   []string
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingGateway() *blockingGateway {
	return &blockingGateway{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *blockingGateway) CreateTicketChannel(context.Context, platform.Customer) (string, error) {
	return "", nil
}

func (g *blockingGateway) SendMessage(context.Context, string, platform.Message) (string, error) {
	return "", nil
}

func (g *blockingGateway) EditMessage(_ context.Context, _, _ string, msg platform.Message) error {
	g.once.Do(func() {
		close(g.started)
		<-g.release
	})
	g.mu.Lock()
	g.edits = append(g.edits, msg.Text)
	g.mu.Unlock()
	return nil
}

func (g *blockingGateway) PinMessage(context.Context, string, string) error { return nil }

func (g *blockingGateway) RestrictCustomer(context.Context, string, string) error { return nil }

func (g *blockingGateway) editTexts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.edits...)
}

func waitIdle(t *testing.T, p *Pusher, channelID string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p.idle(channelID) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("pusher did not go idle")
}

func TestPushCoalescesToLatest(t *testing.T) {
	t.Parallel()

	gateway := newBlockingGateway()
	pusher := NewPusher(gateway, testShop, zap.NewNop())

	msgID := "7"
	ticket := ticketFixture(func(tk *domain.Ticket) {
		tk.ReceiptMessageID = &msgID
	})

	pusher.Push(ticket)
	<-gateway.started

	// queue several stale snapshots and a final one while the first
	// edit is blocked
	for i := 0; i < 5; i++ {
		ticket.Items = append(ticket.Items, domain.LineItem{
			Name:      fmt.Sprintf("item-%d", i),
			Qty:       1,
			UnitPrice: 10,
		})
		pusher.Push(ticket)
	}
	close(gateway.release)

	waitIdle(t, pusher, ticket.ChannelID)

	edits := gateway.editTexts()
	if len(edits) != 2 {
		t.Fatalf("edits = %d, want 2 (first push plus coalesced latest)", len(edits))
	}
	if !strings.Contains(edits[1], "item-4") {
		t.Fatalf("final edit should carry the latest snapshot, got:\n%s", edits[1])
	}
}

func TestPushWithoutReceiptMessage(t *testing.T) {
	t.Parallel()

	gateway := newBlockingGateway()
	pusher := NewPusher(gateway, testShop, zap.NewNop())

	pusher.Push(ticketFixture(nil))

	if !pusher.idle("42") {
		t.Fatal("push without a receipt message should be a no-op")
	}
}

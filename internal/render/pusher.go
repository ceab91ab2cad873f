package render

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dinobux/storebot/internal/config"
	"github.com/dinobux/storebot/internal/domain"
	"github.com/dinobux/storebot/internal/platform"
)

const pushTimeout = 10 * time.Second

// Pusher keeps each ticket's single pinned receipt message current.
// At most one edit is in flight per channel; pushes requested while an
// edit runs coalesce, and only the latest snapshot wins.
type Pusher struct {
	gateway platform.Gateway
	shop    config.ShopConfig
	logger  *zap.Logger

	mu     sync.Mutex
	states map[string]*pushState
}

type pushState struct {
	running bool
	pending *domain.Ticket
}

// NewPusher constructs the receipt pusher.
func NewPusher(gateway platform.Gateway, shop config.ShopConfig, logger *zap.Logger) *Pusher {
	return &Pusher{
		gateway: gateway,
		shop:    shop,
		logger:  logger,
		states:  make(map[string]*pushState),
	}
}

// Push schedules a receipt refresh for the ticket. The snapshot is
// taken synchronously; the edit happens in the background so a slow
// platform never blocks the transition that already committed.
func (p *Pusher) Push(t *domain.Ticket) {
	if t.ReceiptMessageID == nil {
		p.logger.Warn("ticket has no receipt message", zap.String("channel_id", t.ChannelID))
		return
	}
	snapshot := t.Clone()

	p.mu.Lock()
	st, ok := p.states[t.ChannelID]
	if !ok {
		st = &pushState{}
		p.states[t.ChannelID] = st
	}
	if st.running {
		st.pending = snapshot
		p.mu.Unlock()
		return
	}
	st.running = true
	p.mu.Unlock()

	go p.run(st, snapshot)
}

func (p *Pusher) run(st *pushState, snapshot *domain.Ticket) {
	for {
		p.edit(snapshot)

		p.mu.Lock()
		if st.pending != nil {
			snapshot = st.pending
			st.pending = nil
			p.mu.Unlock()
			continue
		}
		st.running = false
		p.mu.Unlock()
		return
	}
}

func (p *Pusher) edit(t *domain.Ticket) {
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	if err := p.gateway.EditMessage(ctx, t.ChannelID, *t.ReceiptMessageID, Message(t, p.shop)); err != nil {
		// the receipt is stale until the next transition; state in the
		// store is already committed and unaffected
		p.logger.Warn("receipt push failed",
			zap.String("channel_id", t.ChannelID),
			zap.Error(err))
	}
}

func (p *Pusher) idle(channelID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.states[channelID]
	return !ok || (!st.running && st.pending == nil)
}

package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/dinobux/storebot/internal/events"
	"github.com/dinobux/storebot/internal/platform"
)

// NotificationService mirrors ticket milestones into the staff log
// channel and the structured log. Delivery is best effort; a missed
// notice never affects the ticket itself.
type NotificationService struct {
	gateway      platform.Gateway
	logChannelID string
	logger       *zap.Logger
}

// NewNotificationService constructs the service. A zero logThreadID
// disables the log channel; events still reach the structured log.
func NewNotificationService(gateway platform.Gateway, logThreadID int64, logger *zap.Logger) *NotificationService {
	logChannelID := ""
	if logThreadID != 0 {
		logChannelID = strconv.FormatInt(logThreadID, 10)
	}
	return &NotificationService{
		gateway:      gateway,
		logChannelID: logChannelID,
		logger:       logger,
	}
}

// Register wires the service into the dispatcher.
func (s *NotificationService) Register(dispatcher events.Dispatcher) {
	for _, t := range []events.EventType{
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
		dispatcher.Subscribe(t, s.handle)
	}
}

func (s *NotificationService) handle(ctx context.Context, event events.Event) error {
	s.logger.Info("ticket event",
		zap.String("event", string(event.Type)),
		zap.String("ticket_code", event.TicketCode),
		zap.String("channel_id", event.ChannelID),
		zap.String("actor_type", string(event.Actor.Type)),
		zap.String("actor_id", event.Actor.ID))

	text := s.notice(event)
	if text == "" || s.logChannelID == "" {
		return nil
	}
	if _, err := s.gateway.SendMessage(ctx, s.logChannelID, platform.Message{Text: text}); err != nil {
		s.logger.Warn("log channel notice failed",
			zap.String("event", string(event.Type)),
			zap.Error(err))
	}
	return nil
}

// notice returns the log-channel text for milestone events; routine
// item edits stay out of the channel to keep it readable.
func (s *NotificationService) notice(event events.Event) string {
	switch event.Type {
	case events.EventTicketCreated:
		return fmt.Sprintf("🆕 Ticket %s opened by customer %s", event.TicketCode, event.Actor.ID)
	case events.EventSlipSubmitted:
		return fmt.Sprintf("🧾 Ticket %s: slip submitted, waiting for verification", event.TicketCode)
	case events.EventPaymentApproved:
		if p, ok := event.Payload.(events.PaymentApprovedPayload); ok {
			return fmt.Sprintf("✅ Ticket %s paid: order %s, %d baht", event.TicketCode, p.OrderNo, p.AmountBaht)
		}
		return fmt.Sprintf("✅ Ticket %s paid", event.TicketCode)
	case events.EventPaymentRejected:
		return fmt.Sprintf("❌ Ticket %s: slip rejected by staff %s", event.TicketCode, event.Actor.ID)
	case events.EventTicketClosed:
		return fmt.Sprintf("🔒 Ticket %s closed by staff %s", event.TicketCode, event.Actor.ID)
	default:
		return ""
	}
}

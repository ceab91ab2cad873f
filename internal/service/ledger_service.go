package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dinobux/storebot/internal/domain"
	"github.com/dinobux/storebot/internal/repository"
	apperrors "github.com/dinobux/storebot/pkg/util/errorutil"
)

// LedgerService fronts the append-only paid-orders ledger.
type LedgerService struct {
	ledger repository.LedgerRepository
	logger *zap.Logger
}

// LedgerHistory is the aggregate view of a customer's paid orders.
type LedgerHistory struct {
	UserID    string               `json:"user_id"`
	TotalPaid int64                `json:"total_paid_baht"`
	Entries   []domain.LedgerEntry `json:"entries"`
}

// NewLedgerService constructs the service.
func NewLedgerService(ledger repository.LedgerRepository, logger *zap.Logger) *LedgerService {
	return &LedgerService{ledger: ledger, logger: logger}
}

// Record appends one paid order. Entries are never updated or deleted.
func (s *LedgerService) Record(ctx context.Context, entry *domain.LedgerEntry) error {
	if entry.Status == "" {
		entry.Status = domain.LedgerStatusPaid
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.PaidAt.IsZero() {
		entry.PaidAt = entry.CreatedAt
	}
	if err := s.ledger.Append(ctx, entry); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.logger.Info("ledger entry recorded",
		zap.String("order_no", entry.OrderNo),
		zap.String("user_id", entry.UserID),
		zap.Int64("amount_baht", entry.AmountBaht))
	return nil
}

// History returns a customer's lifetime total and most recent orders.
func (s *LedgerService) History(ctx context.Context, userID string, limit int) (*LedgerHistory, error) {
	if limit <= 0 {
		limit = 5
	}
	total, err := s.ledger.TotalPaidByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	entries, err := s.ledger.ListPaidByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LedgerHistory{UserID: userID, TotalPaid: total, Entries: entries}, nil
}

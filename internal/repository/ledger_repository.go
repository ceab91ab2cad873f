package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dinobux/storebot/internal/domain"
)

// LedgerRepository stores completed orders. Append-only by contract.
type LedgerRepository interface {
	Append(ctx context.Context, entry *domain.LedgerEntry) error
	ListPaidByUser(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error)
	TotalPaidByUser(ctx context.Context, userID string) (int64, error)
}

type ledgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository instantiates repository.
func NewLedgerRepository(pool *pgxpool.Pool) LedgerRepository {
	return &ledgerRepository{pool: pool}
}

func (r *ledgerRepository) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	const query = `
        INSERT INTO ledger_entries (order_no, user_id, ticket_code, amount_baht, status, created_at, paid_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.pool.Exec(ctx, query,
		entry.OrderNo,
		entry.UserID,
		entry.TicketCode,
		entry.AmountBaht,
		entry.Status,
		entry.CreatedAt,
		entry.PaidAt,
	)
	return err
}

func (r *ledgerRepository) ListPaidByUser(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
        SELECT order_no, user_id, ticket_code, amount_baht, status, created_at, paid_at
        FROM ledger_entries
        WHERE user_id=$1 AND status=$2
        ORDER BY paid_at DESC
        LIMIT $3`
	rows, err := r.pool.Query(ctx, query, userID, domain.LedgerStatusPaid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		if err := rows.Scan(
			&entry.OrderNo,
			&entry.UserID,
			&entry.TicketCode,
			&entry.AmountBaht,
			&entry.Status,
			&entry.CreatedAt,
			&entry.PaidAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *ledgerRepository) TotalPaidByUser(ctx context.Context, userID string) (int64, error) {
	const query = `
        SELECT COALESCE(SUM(amount_baht), 0)
        FROM ledger_entries
        WHERE user_id=$1 AND status=$2`
	var total int64
	if err := r.pool.QueryRow(ctx, query, userID, domain.LedgerStatusPaid).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

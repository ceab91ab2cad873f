package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dinobux/storebot/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Put writes the
// full record and commits before returning: a transition is only
// acknowledged to the actor once its ticket state is durable.
type TicketRepository interface {
	Get(ctx context.Context, channelID string) (*domain.Ticket, error)
	Put(ctx context.Context, ticket *domain.Ticket) error
	FindOpenByCustomer(ctx context.Context, customerID string) (*domain.Ticket, error)
	ListOpen(ctx context.Context, limit, offset int) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `channel_id, ticket_code, customer_id, staff_id, status, locked,
               items, payment_method, slip_url, receipt_message_id, closed, created_at, updated_at`

func (r *ticketRepository) Get(ctx context.Context, channelID string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE channel_id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, channelID)
}

func (r *ticketRepository) Put(ctx context.Context, ticket *domain.Ticket) error {
	items, err := json.Marshal(ticket.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	const query = `
        INSERT INTO tickets (channel_id, ticket_code, customer_id, staff_id, status, locked,
            items, payment_method, slip_url, receipt_message_id, closed, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        ON CONFLICT (channel_id) DO UPDATE SET
            staff_id=EXCLUDED.staff_id,
            status=EXCLUDED.status,
            locked=EXCLUDED.locked,
            items=EXCLUDED.items,
            payment_method=EXCLUDED.payment_method,
            slip_url=EXCLUDED.slip_url,
            receipt_message_id=EXCLUDED.receipt_message_id,
            closed=EXCLUDED.closed,
            updated_at=EXCLUDED.updated_at`
	_, err = r.pool.Exec(ctx, query,
		ticket.ChannelID,
		ticket.TicketCode,
		ticket.CustomerID,
		ticket.StaffID,
		ticket.Status,
		ticket.Locked,
		items,
		ticket.PaymentMethod,
		ticket.SlipURL,
		ticket.ReceiptMessageID,
		ticket.Closed,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	return err
}

func (r *ticketRepository) FindOpenByCustomer(ctx context.Context, customerID string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE customer_id=$1 AND closed=FALSE LIMIT 1`, ticketColumns)
	return r.fetchSingle(ctx, query, customerID)
}

func (r *ticketRepository) ListOpen(ctx context.Context, limit, offset int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE closed=FALSE ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, limit, offset)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	ticket, err := scanTicket(row)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		ticket   domain.Ticket
		itemsRaw []byte
		method   *string
	)
	if err := row.Scan(
		&ticket.ChannelID,
		&ticket.TicketCode,
		&ticket.CustomerID,
		&ticket.StaffID,
		&ticket.Status,
		&ticket.Locked,
		&itemsRaw,
		&method,
		&ticket.SlipURL,
		&ticket.ReceiptMessageID,
		&ticket.Closed,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(itemsRaw) > 0 {
		if err := json.Unmarshal(itemsRaw, &ticket.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
	}
	if method != nil {
		m := domain.PaymentMethod(*method)
		ticket.PaymentMethod = &m
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

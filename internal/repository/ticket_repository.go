package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atende/servicedesk/internal/domain"
	"github.com/atende/servicedesk/pkg/apperrors"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	Statuses []domain.TicketStatus
	Channels []domain.OriginChannel
	Limit    int
	Offset   int
}

// TicketRepository encapsulates ticket persistence. UpdateStatus performs a
// compare-and-set on the previous status so a lost race surfaces as a
// concurrency conflict rather than a silent overwrite.
type TicketRepository interface {
	Insert(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, ticket *domain.Ticket, expectedStatus domain.TicketStatus) error
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, status, origin_channel, contact_address, request_text, last_edited_by, proposed_time, created_at, updated_at`

func (r *ticketRepository) Insert(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (status, origin_channel, contact_address, request_text, last_edited_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return querier(ctx, r.pool).QueryRow(ctx, query,
		ticket.Status,
		ticket.OriginChannel,
		ticket.ContactAddress,
		ticket.RequestText,
		ticket.LastEditedBy,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

// GetByIDForUpdate reads the ticket under a row lock. Must run inside a
// transaction; the lock is held until the caller commits or rolls back.
func (r *ticketRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1 FOR UPDATE`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, ticket *domain.Ticket, expectedStatus domain.TicketStatus) error {
	const query = `
        UPDATE tickets SET status=$1, last_edited_by=$2, updated_at=NOW()
        WHERE id=$3 AND status=$4
        RETURNING updated_at`
	err := querier(ctx, r.pool).QueryRow(ctx, query,
		ticket.Status,
		ticket.LastEditedBy,
		ticket.ID,
		expectedStatus,
	).Scan(&ticket.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewConcurrencyConflict("ticket")
	}
	return err
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := querier(ctx, r.pool).QueryRow(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.Status,
		&ticket.OriginChannel,
		&ticket.ContactAddress,
		&ticket.RequestText,
		&ticket.LastEditedBy,
		&ticket.ProposedTime,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": arg})
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Channels) > 0 {
		placeholders := make([]string, len(filter.Channels))
		for i, channel := range filter.Channels {
			args = append(args, channel)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("origin_channel IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := querier(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Status,
			&ticket.OriginChannel,
			&ticket.ContactAddress,
			&ticket.RequestText,
			&ticket.LastEditedBy,
			&ticket.ProposedTime,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atende/servicedesk/internal/domain"
)

// HistoryRepository stores the append-only audit trail. No update or delete
// is exposed; audit integrity depends on it. Append participates in the
// caller's transaction and never opens one of its own.
type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.HistoryEntry) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.HistoryEntry, error)
}

type historyRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository builds repository.
func NewHistoryRepository(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepository{pool: pool}
}

func (r *historyRepository) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, previous_status, new_status, note, actor_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, occurred_at`
	return querier(ctx, r.pool).QueryRow(ctx, query,
		entry.TicketID,
		entry.PreviousStatus,
		entry.NewStatus,
		entry.Note,
		entry.ActorID,
	).Scan(&entry.ID, &entry.OccurredAt)
}

func (r *historyRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.HistoryEntry, error) {
	const query = `
        SELECT id, ticket_id, previous_status, new_status, note, actor_id, occurred_at
        FROM ticket_history WHERE ticket_id=$1 ORDER BY occurred_at ASC, id ASC`
	rows, err := querier(ctx, r.pool).Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.PreviousStatus,
			&entry.NewStatus,
			&entry.Note,
			&entry.ActorID,
			&entry.OccurredAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

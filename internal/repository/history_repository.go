package repository

import (
	"context"
	"fmt"

	"event-content-service/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryRepository 活動歷史的存取層。
// 審計用途，insert-only：不提供 update 或 delete。
type HistoryRepository interface {
	ListByEventID(ctx context.Context, eventID int) ([]*model.EventHistoryEntry, error)

	// Transaction methods
	Append(ctx context.Context, tx pgx.Tx, entry *model.EventHistoryEntry) (*model.EventHistoryEntry, error)
}

type HistoryRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewHistoryRepository(pool *pgxpool.Pool) HistoryRepository {
	return &HistoryRepositoryImpl{
		pool: pool,
	}
}

func (r *HistoryRepositoryImpl) Append(ctx context.Context, tx pgx.Tx, entry *model.EventHistoryEntry) (*model.EventHistoryEntry, error) {
	query := `
		INSERT INTO event_events (type, timestamp, data, event_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, type, timestamp, data, event_id
	`

	err := tx.QueryRow(ctx, query,
		entry.Type, entry.Timestamp.UTC(), entry.Data, entry.EventID,
	).Scan(
		&entry.ID,
		&entry.Type,
		&entry.Timestamp,
		&entry.Data,
		&entry.EventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append history entry: %w", err)
	}

	return entry, nil
}

func (r *HistoryRepositoryImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.EventHistoryEntry, error) {
	query := `
		SELECT id, type, timestamp, data, event_id
		FROM event_events
		WHERE event_id = $1
		ORDER BY timestamp, id
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*model.EventHistoryEntry, 0)
	for rows.Next() {
		var entry model.EventHistoryEntry
		err := rows.Scan(
			&entry.ID,
			&entry.Type,
			&entry.Timestamp,
			&entry.Data,
			&entry.EventID,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

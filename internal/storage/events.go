package storage

import (
	"context"
	"fmt"
	"time"
)

// LedgerEvent is one audit-journal row, recorded by the worker as it
// drains the AMQP event stream.
type LedgerEvent struct {
	ID         int64
	Kind       string
	EntityID   string
	UserID     string
	Payload    string
	OccurredAt time.Time
	RecordedAt time.Time
}

func (r *SQLiteRepository) AppendEvent(ctx context.Context, e LedgerEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ledger_events (kind, entity_id, user_id, payload, occurred_at, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Kind, e.EntityID, e.UserID, e.Payload, toUnix(e.OccurredAt), toUnix(e.RecordedAt))
	if err != nil {
		return fmt.Errorf("append ledger event: %w", err)
	}
	return nil
}

// ListEvents returns the newest events first, capped by limit.
func (r *SQLiteRepository) ListEvents(ctx context.Context, limit int) ([]LedgerEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, entity_id, user_id, payload, occurred_at, recorded_at
		 FROM ledger_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list ledger events: %w", err)
	}
	defer rows.Close()

	var events []LedgerEvent
	for rows.Next() {
		var (
			e                  LedgerEvent
			occurred, recorded int64
		)
		if err := rows.Scan(&e.ID, &e.Kind, &e.EntityID, &e.UserID, &e.Payload, &occurred, &recorded); err != nil {
			return nil, fmt.Errorf("scan ledger event: %w", err)
		}
		e.OccurredAt = fromUnix(occurred)
		e.RecordedAt = fromUnix(recorded)
		events = append(events, e)
	}
	return events, rows.Err()
}

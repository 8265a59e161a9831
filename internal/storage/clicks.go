package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minglemoody/funnel-tracker/internal/domain"
)

// ClickStore is the append-only ledger of interaction events. Rows are
// inserted exactly once and never updated or deleted; the per-session
// unique-click figure is always derived from this log so the counter and
// the log cannot drift apart.
type ClickStore struct {
	db *sql.DB
}

// NewClickStore creates a ClickStore backed by db.
func NewClickStore(db *sql.DB) *ClickStore {
	return &ClickStore{db: db}
}

// Append persists one click event.
func (s *ClickStore) Append(ctx context.Context, event *domain.ClickEvent) error {
	const q = `
		INSERT INTO click_events
			(id, session_id, event_type, search_term, target_url,
			 ip_address, country, device, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err := s.db.ExecContext(ctx, q,
		event.ID, event.SessionID, event.EventType, event.SearchTerm, event.TargetURL,
		event.Env.IP, event.Env.Country, event.Env.Device, event.OccurredAt,
	); err != nil {
		return fmt.Errorf("append click event: %w", err)
	}

	return nil
}

// CountDistinctTargets returns the cardinality of distinct non-empty
// target URLs ever clicked in the session. Recomputing is idempotent:
// without new events the value is stable.
func (s *ClickStore) CountDistinctTargets(ctx context.Context, sessionID string) (int, error) {
	const q = `
		SELECT COUNT(DISTINCT target_url)
		FROM click_events
		WHERE session_id = $1 AND target_url <> ''`

	var count int
	if err := s.db.QueryRowContext(ctx, q, sessionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count distinct targets: %w", err)
	}

	return count, nil
}

// ListBySession returns the session's events, oldest first.
func (s *ClickStore) ListBySession(ctx context.Context, sessionID string) ([]domain.ClickEvent, error) {
	const q = `
		SELECT id, session_id, event_type, search_term, target_url,
		       ip_address, country, device, occurred_at
		FROM click_events
		WHERE session_id = $1
		ORDER BY occurred_at`

	rows, err := s.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list click events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []domain.ClickEvent
	for rows.Next() {
		var e domain.ClickEvent
		if err := rows.Scan(
			&e.ID, &e.SessionID, &e.EventType, &e.SearchTerm, &e.TargetURL,
			&e.Env.IP, &e.Env.Country, &e.Env.Device, &e.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("scan click event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate click events: %w", err)
	}

	return events, nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minglemoody/funnel-tracker/internal/domain"
)

// AggregateStore manages the one-row-per-session analytics counters.
type AggregateStore struct {
	db *sql.DB
}

// NewAggregateStore creates an AggregateStore backed by db.
func NewAggregateStore(db *sql.DB) *AggregateStore {
	return &AggregateStore{db: db}
}

// RecordPageView creates the session's aggregate row on first sight or
// increments page_views in place. The upsert is a single statement, so two
// near-simultaneous first page views cannot leave two rows or lose an
// increment. The environment snapshot and source stick from the first
// write only.
func (s *AggregateStore) RecordPageView(
	ctx context.Context,
	sessionID, source string,
	env domain.EnvSnapshot,
) error {
	const q = `
		INSERT INTO session_aggregates
			(session_id, ip_address, country, device, source,
			 page_views, clicks, unique_clicks, related_searches, result_clicks, time_spent)
		VALUES ($1, $2, $3, $4, $5, 1, 0, 0, 0, 0, 0)
		ON CONFLICT (session_id)
		DO UPDATE SET page_views = session_aggregates.page_views + 1`

	if _, err := s.db.ExecContext(ctx, q,
		sessionID, env.IP, env.Country, env.Device, source,
	); err != nil {
		return fmt.Errorf("upsert page view: %w", err)
	}

	return nil
}

// ApplyClick advances the click counters for an existing aggregate row:
// clicks is incremented, unique_clicks is overwritten with the value
// recomputed from the ledger, and exactly one of related_searches or
// result_clicks advances depending on eventType. A click arriving before
// any page view finds no row; that is reported as applied=false, not as
// an error, since no ordering is guaranteed between the two paths.
func (s *AggregateStore) ApplyClick(
	ctx context.Context,
	sessionID, eventType string,
	uniqueClicks int,
) (bool, error) {
	const q = `
		UPDATE session_aggregates
		SET clicks = clicks + 1,
		    unique_clicks = $2,
		    related_searches = related_searches + CASE WHEN $3 = 'related_search' THEN 1 ELSE 0 END,
		    result_clicks = result_clicks + CASE WHEN $3 = 'result' THEN 1 ELSE 0 END
		WHERE session_id = $1`

	res, err := s.db.ExecContext(ctx, q, sessionID, uniqueClicks, eventType)
	if err != nil {
		return false, fmt.Errorf("apply click: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return rows > 0, nil
}

// UpdateTimeSpent writes the elapsed active seconds for a session.
// GREATEST keeps the column monotonically non-decreasing even if flushes
// land out of order.
func (s *AggregateStore) UpdateTimeSpent(ctx context.Context, sessionID string, seconds int) error {
	const q = `
		UPDATE session_aggregates
		SET time_spent = GREATEST(time_spent, $2)
		WHERE session_id = $1`

	if _, err := s.db.ExecContext(ctx, q, sessionID, seconds); err != nil {
		return fmt.Errorf("update time spent: %w", err)
	}

	return nil
}

// Get loads the aggregate row for a session.
func (s *AggregateStore) Get(ctx context.Context, sessionID string) (*domain.SessionAggregate, error) {
	const q = `
		SELECT session_id, ip_address, country, device, source,
		       page_views, clicks, unique_clicks, related_searches, result_clicks,
		       time_spent, started_at
		FROM session_aggregates
		WHERE session_id = $1`

	var agg domain.SessionAggregate
	err := s.db.QueryRowContext(ctx, q, sessionID).Scan(
		&agg.SessionID, &agg.Env.IP, &agg.Env.Country, &agg.Env.Device, &agg.Source,
		&agg.PageViews, &agg.Clicks, &agg.UniqueClicks, &agg.RelatedSearches,
		&agg.ResultClicks, &agg.TimeSpentSec, &agg.StartedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get aggregate: %w", err)
	}

	return &agg, nil
}

// Summary totals the counters across all sessions.
func (s *AggregateStore) Summary(ctx context.Context) (*domain.AnalyticsSummary, error) {
	const q = `
		SELECT COUNT(*),
		       COALESCE(SUM(page_views), 0),
		       COALESCE(SUM(clicks), 0),
		       COALESCE(SUM(unique_clicks), 0),
		       COALESCE(SUM(related_searches), 0),
		       COALESCE(SUM(result_clicks), 0)
		FROM session_aggregates`

	var sum domain.AnalyticsSummary
	if err := s.db.QueryRowContext(ctx, q).Scan(
		&sum.Sessions, &sum.PageViews, &sum.Clicks,
		&sum.UniqueClicks, &sum.RelatedSearches, &sum.ResultClicks,
	); err != nil {
		return nil, fmt.Errorf("analytics summary: %w", err)
	}

	return &sum, nil
}

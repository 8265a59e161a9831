// Package analytics maintains the per-session counters: page views,
// clicks with their ledger-derived unique count, and accumulated active
// time.
package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/minglemoody/funnel-tracker/internal/domain"
	"github.com/minglemoody/funnel-tracker/internal/logger"
)

// AggregateStore is the subset of the session aggregate repository the
// tracker writes to.
type AggregateStore interface {
	RecordPageView(ctx context.Context, sessionID, source string, env domain.EnvSnapshot) error
	ApplyClick(ctx context.Context, sessionID, eventType string, uniqueClicks int) (bool, error)
	UpdateTimeSpent(ctx context.Context, sessionID string, seconds int) error
}

// ClickLedger is the append-only event log the tracker feeds and derives
// the unique-click count from.
type ClickLedger interface {
	Append(ctx context.Context, event *domain.ClickEvent) error
	CountDistinctTargets(ctx context.Context, sessionID string) (int, error)
}

// Tracker records analytics for visitor sessions. Storage failures on
// any tracking path are logged and swallowed: the worst degradation is an
// undercounted session, never a blocked page or redirect.
type Tracker struct {
	aggregates AggregateStore
	ledger     ClickLedger
	timeSpent  *TimeTracker
	log        logger.Logger
	now        func() time.Time
}

// NewTracker creates a Tracker. timeSpent may be nil when time tracking
// is not wanted (tests of the counter paths).
func NewTracker(
	aggregates AggregateStore,
	ledger ClickLedger,
	timeSpent *TimeTracker,
	log logger.Logger,
) *Tracker {
	return &Tracker{
		aggregates: aggregates,
		ledger:     ledger,
		timeSpent:  timeSpent,
		log:        log,
		now:        time.Now,
	}
}

// RecordPageView creates or increments the session's aggregate row and
// registers the session with the time tracker. Re-observing a session
// never resets its start reference.
func (t *Tracker) RecordPageView(ctx context.Context, sessionID, source string, env domain.EnvSnapshot) {
	if err := t.aggregates.RecordPageView(ctx, sessionID, source, env); err != nil {
		t.log.Error("Failed to record page view",
			logger.String("session_id", sessionID),
			logger.String("source", source),
			logger.Error(err),
		)
		return
	}

	if t.timeSpent != nil {
		t.timeSpent.Observe(sessionID)
	}
}

// RecordClick appends the event to the ledger, recomputes the session's
// unique-click count from the ledger, and applies the counter update.
// The unique figure is always re-derived rather than incremented so it
// cannot drift from the log. A click arriving before any page view leaves
// the (nonexistent) aggregate untouched.
func (t *Tracker) RecordClick(
	ctx context.Context,
	sessionID, eventType, searchTerm, targetURL string,
	env domain.EnvSnapshot,
) {
	event := &domain.ClickEvent{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		EventType:  eventType,
		SearchTerm: searchTerm,
		TargetURL:  targetURL,
		Env:        env,
		OccurredAt: t.now(),
	}

	if err := t.ledger.Append(ctx, event); err != nil {
		t.log.Error("Failed to append click event",
			logger.String("session_id", sessionID),
			logger.String("event_type", eventType),
			logger.Error(err),
		)
		return
	}

	unique, err := t.ledger.CountDistinctTargets(ctx, sessionID)
	if err != nil {
		t.log.Error("Failed to recompute unique clicks",
			logger.String("session_id", sessionID),
			logger.Error(err),
		)
		return
	}

	applied, err := t.aggregates.ApplyClick(ctx, sessionID, eventType, unique)
	if err != nil {
		t.log.Error("Failed to apply click to aggregate",
			logger.String("session_id", sessionID),
			logger.Error(err),
		)
		return
	}

	if !applied {
		t.log.Debug("Click recorded before first page view",
			logger.String("session_id", sessionID),
		)
	}
}

// Heartbeat flushes the session's elapsed time immediately. The front end
// calls this on visibility change and page unload.
func (t *Tracker) Heartbeat(ctx context.Context, sessionID string) {
	if t.timeSpent == nil {
		return
	}
	t.timeSpent.Flush(ctx, sessionID)
}

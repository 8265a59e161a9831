package handler_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/minglemoody/funnel-tracker/internal/domain"
	"github.com/minglemoody/funnel-tracker/internal/geo"
	"github.com/minglemoody/funnel-tracker/internal/logger"
)

const (
	testCookie    = "fsid"
	testUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0"
	testCountry   = "Canada"
)

// fakeAggregates mirrors the aggregate-row semantics in memory.
type fakeAggregates struct {
	rows map[string]*domain.SessionAggregate
}

func newFakeAggregates() *fakeAggregates {
	return &fakeAggregates{rows: make(map[string]*domain.SessionAggregate)}
}

func (f *fakeAggregates) RecordPageView(_ context.Context, sessionID, source string, env domain.EnvSnapshot) error {
	if row, ok := f.rows[sessionID]; ok {
		row.PageViews++
		return nil
	}
	f.rows[sessionID] = &domain.SessionAggregate{
		SessionID: sessionID,
		Env:       env,
		Source:    source,
		PageViews: 1,
	}
	return nil
}

func (f *fakeAggregates) ApplyClick(_ context.Context, sessionID, eventType string, uniqueClicks int) (bool, error) {
	row, ok := f.rows[sessionID]
	if !ok {
		return false, nil
	}
	row.Clicks++
	row.UniqueClicks = uniqueClicks
	switch eventType {
	case domain.EventRelatedSearch:
		row.RelatedSearches++
	case domain.EventResult:
		row.ResultClicks++
	}
	return true, nil
}

func (f *fakeAggregates) UpdateTimeSpent(_ context.Context, _ string, _ int) error {
	return nil
}

// fakeLedger is an in-memory click ledger.
type fakeLedger struct {
	events    []*domain.ClickEvent
	appendErr error
}

func (f *fakeLedger) Append(_ context.Context, event *domain.ClickEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeLedger) CountDistinctTargets(_ context.Context, sessionID string) (int, error) {
	seen := make(map[string]bool)
	for _, e := range f.events {
		if e.SessionID == sessionID && e.TargetURL != "" {
			seen[e.TargetURL] = true
		}
	}
	return len(seen), nil
}

// newTestLookup serves both geo endpoints from one httptest server so
// handler tests never touch the network.
func newTestLookup(t *testing.T) *geo.Lookup {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("format") == "json" {
			_, _ = w.Write([]byte(`{"ip":"203.0.113.9"}`))
			return
		}
		_, _ = w.Write([]byte(`{"country_name":"` + testCountry + `"}`))
	}))
	t.Cleanup(srv.Close)

	return geo.NewLookup(srv.URL+"?format=json", srv.URL, 2*time.Second, logger.NewNop())
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db, mock
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

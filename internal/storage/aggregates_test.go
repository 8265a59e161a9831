package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minglemoody/funnel-tracker/internal/domain"
	"github.com/minglemoody/funnel-tracker/internal/storage"
)

const testSessionID = "session_1756700000000_a1b2c3d"

func testEnv() domain.EnvSnapshot {
	return domain.EnvSnapshot{
		IP:      "203.0.113.9",
		Country: "Canada",
		Device:  domain.DeviceMobile,
	}
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

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestAggregateStore_RecordPageView(t *testing.T) {
	db, mock := newMockDB(t)
	store := storage.NewAggregateStore(db)
	env := testEnv()

	mock.ExpectExec("INSERT INTO session_aggregates").
		WithArgs(testSessionID, env.IP, env.Country, env.Device, "landing").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.RecordPageView(context.Background(), testSessionID, "landing", env); err != nil {
		t.Fatalf("RecordPageView() error = %v", err)
	}

	expectationsMet(t, mock)
}

func TestAggregateStore_RecordPageView_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	store := storage.NewAggregateStore(db)

	mock.ExpectExec("INSERT INTO session_aggregates").
		WillReturnError(sql.ErrConnDone)

	if err := store.RecordPageView(context.Background(), testSessionID, "landing", testEnv()); err == nil {
		t.Fatal("expected error from failed upsert")
	}

	expectationsMet(t, mock)
}

func TestAggregateStore_ApplyClick(t *testing.T) {
	testCases := []struct {
		name         string
		rowsAffected int64
		wantApplied  bool
	}{
		{"existing aggregate row", 1, true},
		{"click before first page view", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			store := storage.NewAggregateStore(db)

			mock.ExpectExec("UPDATE session_aggregates").
				WithArgs(testSessionID, 2, domain.EventResult).
				WillReturnResult(sqlmock.NewResult(0, tc.rowsAffected))

			applied, err := store.ApplyClick(context.Background(), testSessionID, domain.EventResult, 2)
			if err != nil {
				t.Fatalf("ApplyClick() error = %v", err)
			}
			if applied != tc.wantApplied {
				t.Errorf("ApplyClick() applied = %v, want %v", applied, tc.wantApplied)
			}

			expectationsMet(t, mock)
		})
	}
}

func TestAggregateStore_UpdateTimeSpent(t *testing.T) {
	db, mock := newMockDB(t)
	store := storage.NewAggregateStore(db)

	mock.ExpectExec("UPDATE session_aggregates").
		WithArgs(testSessionID, 42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.UpdateTimeSpent(context.Background(), testSessionID, 42); err != nil {
		t.Fatalf("UpdateTimeSpent() error = %v", err)
	}

	expectationsMet(t, mock)
}

func TestAggregateStore_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	store := storage.NewAggregateStore(db)

	mock.ExpectQuery("SELECT session_id").
		WithArgs(testSessionID).
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), testSessionID)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}

	expectationsMet(t, mock)
}

func TestAggregateStore_Summary(t *testing.T) {
	db, mock := newMockDB(t)
	store := storage.NewAggregateStore(db)

	rows := sqlmock.NewRows([]string{"count", "pv", "clicks", "unique", "rs", "rc"}).
		AddRow(3, 10, 5, 4, 2, 3)
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(rows)

	sum, err := store.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if sum.Sessions != 3 || sum.PageViews != 10 || sum.Clicks != 5 {
		t.Errorf("unexpected summary: %+v", sum)
	}
	if sum.UniqueClicks != 4 || sum.RelatedSearches != 2 || sum.ResultClicks != 3 {
		t.Errorf("unexpected summary counters: %+v", sum)
	}

	expectationsMet(t, mock)
}

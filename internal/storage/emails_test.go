package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minglemoody/funnel-tracker/internal/domain"
	"github.com/minglemoody/funnel-tracker/internal/storage"
)

func TestEmailStore_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	store := storage.NewEmailStore(db)

	mock.ExpectExec("INSERT INTO email_captures").
		WithArgs("cap-1", "visitor@example.com", "wr-1", testSessionID,
			"203.0.113.9", "Canada", domain.DeviceMobile, "https://advertiser.example/offer").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Insert(context.Background(), &domain.EmailCapture{
		ID:           "cap-1",
		Email:        "visitor@example.com",
		WebResultID:  "wr-1",
		SessionID:    testSessionID,
		Env:          testEnv(),
		RedirectedTo: "https://advertiser.example/offer",
	})
	require.NoError(t, err, "Insert() should not error")

	expectationsMet(t, mock)
}

func TestEmailStore_Insert_Error(t *testing.T) {
	db, mock := newMockDB(t)
	store := storage.NewEmailStore(db)

	mock.ExpectExec("INSERT INTO email_captures").
		WillReturnError(errors.New("connection reset"))

	err := store.Insert(context.Background(), &domain.EmailCapture{
		ID:        "cap-1",
		Email:     "visitor@example.com",
		SessionID: testSessionID,
		Env:       testEnv(),
	})
	assert.Error(t, err, "database failure should surface to the caller")
}

func TestEmailStore_List(t *testing.T) {
	db, mock := newMockDB(t)
	store := storage.NewEmailStore(db)

	captured := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "email", "web_result_id", "session_id",
		"ip_address", "country", "device", "redirected_to", "captured_at",
	}).
		AddRow("cap-2", "second@example.com", "wr-2", testSessionID,
			"203.0.113.9", "Canada", domain.DeviceMobile, "https://b.example", captured).
		AddRow("cap-1", "first@example.com", nil, testSessionID,
			"203.0.113.9", "Canada", domain.DeviceMobile, "https://a.example", captured.Add(-time.Minute))
	mock.ExpectQuery("SELECT id, email, web_result_id").
		WithArgs(50).
		WillReturnRows(rows)

	captures, err := store.List(context.Background(), 50)
	require.NoError(t, err, "List() should not error")
	require.Len(t, captures, 2)

	assert.Equal(t, "second@example.com", captures[0].Email)
	assert.Empty(t, captures[1].WebResultID, "NULL web_result_id should scan as empty string")

	expectationsMet(t, mock)
}

package storage_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minglemoody/funnel-tracker/internal/domain"
	"github.com/minglemoody/funnel-tracker/internal/storage"
)

func TestCatalogStore_LatestLanding(t *testing.T) {
	db, mock := newMockDB(t)
	store := storage.NewCatalogStore(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, title, description").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "created_at", "updated_at"}).
			AddRow("lp-1", "Find Great Deals", "Compare offers from top brands", now, now))

	content, err := store.LatestLanding(context.Background())
	require.NoError(t, err, "LatestLanding() should not error")
	require.NotNil(t, content)

	assert.Equal(t, "lp-1", content.ID)
	assert.Equal(t, "Find Great Deals", content.Title)
	assert.Equal(t, "Compare offers from top brands", content.Description)

	expectationsMet(t, mock)
}

func TestCatalogStore_LatestLanding_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	store := storage.NewCatalogStore(db)

	mock.ExpectQuery("SELECT id, title, description").
		WillReturnError(sql.ErrNoRows)

	_, err := store.LatestLanding(context.Background())
	assert.ErrorIs(t, err, storage.ErrNotFound, "empty table should map to ErrNotFound")
}

func TestCatalogStore_SaveLanding(t *testing.T) {
	db, mock := newMockDB(t)
	store := storage.NewCatalogStore(db)

	mock.ExpectExec("INSERT INTO landing_page").
		WithArgs("lp-1", "Find Great Deals", "Compare offers").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.SaveLanding(context.Background(), &domain.LandingContent{
		ID:          "lp-1",
		Title:       "Find Great Deals",
		Description: "Compare offers",
	})
	require.NoError(t, err, "SaveLanding() should not error")

	expectationsMet(t, mock)
}

func TestCatalogStore_ListCategories(t *testing.T) {
	db, mock := newMockDB(t)
	store := storage.NewCatalogStore(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "title", "results_page", "serial_number", "created_at", "updated_at"}).
		AddRow("cat-1", "Travel Deals", "travel", 1, now, now).
		AddRow("cat-2", "Insurance Quotes", "insurance", 2, now, now)
	mock.ExpectQuery("SELECT id, title, results_page").WillReturnRows(rows)

	categories, err := store.ListCategories(context.Background())
	require.NoError(t, err, "ListCategories() should not error")
	require.Len(t, categories, 2)

	assert.Equal(t, "Travel Deals", categories[0].Title)
	assert.Equal(t, "insurance", categories[1].ResultsPage)
}

func TestCatalogStore_UpdateCategory_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	store := storage.NewCatalogStore(db)

	mock.ExpectExec("UPDATE categories").
		WithArgs("cat-missing", "Travel Deals", "travel", 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateCategory(context.Background(), &domain.Category{
		ID:           "cat-missing",
		Title:        "Travel Deals",
		ResultsPage:  "travel",
		SerialNumber: 1,
	})
	assert.ErrorIs(t, err, storage.ErrNotFound, "unknown id should map to ErrNotFound")
}

func TestCatalogStore_DeleteCategory(t *testing.T) {
	db, mock := newMockDB(t)
	store := storage.NewCatalogStore(db)

	mock.ExpectExec("DELETE FROM categories").
		WithArgs("cat-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.DeleteCategory(context.Background(), "cat-1")
	require.NoError(t, err, "DeleteCategory() should not error")

	expectationsMet(t, mock)
}

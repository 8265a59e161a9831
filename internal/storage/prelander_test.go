package storage_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minglemoody/funnel-tracker/internal/storage"
)

var prelanderTestColumns = []string{
	"id", "page_key", "headline", "description", "cta_text", "target_url",
	"headline_color", "description_color", "cta_color",
	"headline_size", "description_size", "text_align",
	"background_mode", "background_color", "background_image_url",
	"logo_url", "logo_position", "logo_size", "main_image_url", "image_ratio",
	"is_active", "created_at", "updated_at",
}

func prelanderRow() []driver.Value {
	now := time.Now().UTC()
	return []driver.Value{
		"cfg-1", "prelander_1756700000000", "Claim Your Reward", "Enter your email", "Continue",
		"https://advertiser.example/offer",
		"#111111", "#333333", "#ff6600",
		32, 18, "center",
		"color", "#ffffff", nil,
		nil, "top-left", 120, nil, "16:9",
		true, now, now,
	}
}

func TestPrelanderStore_GetActiveByKey(t *testing.T) {
	db, mock := newMockDB(t)
	store := storage.NewPrelanderStore(db)

	mock.ExpectQuery("SELECT").
		WithArgs("prelander_1756700000000").
		WillReturnRows(sqlmock.NewRows(prelanderTestColumns).AddRow(prelanderRow()...))

	cfg, err := store.GetActiveByKey(context.Background(), "prelander_1756700000000")
	if err != nil {
		t.Fatalf("GetActiveByKey() error = %v", err)
	}

	if cfg.PageKey != "prelander_1756700000000" {
		t.Errorf("page key = %q, want %q", cfg.PageKey, "prelander_1756700000000")
	}
	if cfg.Headline != "Claim Your Reward" {
		t.Errorf("headline = %q", cfg.Headline)
	}
	if cfg.HeadlineSize != 32 || cfg.DescriptionSize != 18 {
		t.Errorf("sizes = %d/%d, want 32/18", cfg.HeadlineSize, cfg.DescriptionSize)
	}
	if cfg.BackgroundImage != "" || cfg.LogoURL != "" || cfg.MainImageURL != "" {
		t.Errorf("expected NULL image columns to scan as empty strings: %+v", cfg)
	}
	if !cfg.Active {
		t.Error("expected active config")
	}

	expectationsMet(t, mock)
}

func TestPrelanderStore_GetActiveByKey_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	store := storage.NewPrelanderStore(db)

	mock.ExpectQuery("SELECT").
		WithArgs("prelander_unknown").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetActiveByKey(context.Background(), "prelander_unknown")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetActiveByKey() error = %v, want ErrNotFound", err)
	}

	expectationsMet(t, mock)
}

func TestPrelanderStore_Deactivate(t *testing.T) {
	testCases := []struct {
		name         string
		rowsAffected int64
		wantErr      error
	}{
		{"existing config", 1, nil},
		{"unknown id", 0, storage.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			store := storage.NewPrelanderStore(db)

			mock.ExpectExec("UPDATE pre_landing_pages").
				WithArgs("cfg-1").
				WillReturnResult(sqlmock.NewResult(0, tc.rowsAffected))

			err := store.Deactivate(context.Background(), "cfg-1")
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Deactivate() error = %v, want %v", err, tc.wantErr)
			}

			expectationsMet(t, mock)
		})
	}
}

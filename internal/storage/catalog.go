package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minglemoody/funnel-tracker/internal/domain"
)

// CatalogStore persists the landing page copy and its category tiles.
type CatalogStore struct {
	db *sql.DB
}

// NewCatalogStore creates a CatalogStore backed by db.
func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// LatestLanding returns the most recently created landing content row.
func (s *CatalogStore) LatestLanding(ctx context.Context) (*domain.LandingContent, error) {
	const q = `
		SELECT id, title, description, created_at, updated_at
		FROM landing_page
		ORDER BY created_at DESC
		LIMIT 1`

	var lc domain.LandingContent
	err := s.db.QueryRowContext(ctx, q).Scan(
		&lc.ID, &lc.Title, &lc.Description, &lc.CreatedAt, &lc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest landing content: %w", err)
	}

	return &lc, nil
}

// SaveLanding inserts or rewrites the landing content row.
func (s *CatalogStore) SaveLanding(ctx context.Context, lc *domain.LandingContent) error {
	const q = `
		INSERT INTO landing_page (id, title, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (id)
		DO UPDATE SET title = $2, description = $3, updated_at = NOW()`

	if _, err := s.db.ExecContext(ctx, q, lc.ID, lc.Title, lc.Description); err != nil {
		return fmt.Errorf("save landing content: %w", err)
	}

	return nil
}

// ListCategories returns all category tiles ordered by serial number.
func (s *CatalogStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const q = `
		SELECT id, title, results_page, serial_number, created_at, updated_at
		FROM categories
		ORDER BY serial_number`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(
			&c.ID, &c.Title, &c.ResultsPage, &c.SerialNumber,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// CreateCategory inserts a new category tile.
func (s *CatalogStore) CreateCategory(ctx context.Context, c *domain.Category) error {
	const q = `
		INSERT INTO categories (id, title, results_page, serial_number)
		VALUES ($1, $2, $3, $4)`

	if _, err := s.db.ExecContext(ctx, q,
		c.ID, c.Title, c.ResultsPage, c.SerialNumber,
	); err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

// UpdateCategory rewrites a category tile.
func (s *CatalogStore) UpdateCategory(ctx context.Context, c *domain.Category) error {
	const q = `
		UPDATE categories
		SET title = $2, results_page = $3, serial_number = $4, updated_at = NOW()
		WHERE id = $1`

	res, err := s.db.ExecContext(ctx, q, c.ID, c.Title, c.ResultsPage, c.SerialNumber)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	return requireRow(res)
}

// DeleteCategory removes a category tile.
func (s *CatalogStore) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	return requireRow(res)
}

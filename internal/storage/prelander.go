package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minglemoody/funnel-tracker/internal/domain"
)

const prelanderColumns = `
	id, page_key, headline, description, cta_text, target_url,
	headline_color, description_color, cta_color,
	headline_size, description_size, text_align,
	background_mode, background_color, background_image_url,
	logo_url, logo_position, logo_size, main_image_url, image_ratio,
	is_active, created_at, updated_at`

// PrelanderStore persists prelander page configurations.
type PrelanderStore struct {
	db *sql.DB
}

// NewPrelanderStore creates a PrelanderStore backed by db.
func NewPrelanderStore(db *sql.DB) *PrelanderStore {
	return &PrelanderStore{db: db}
}

// GetActiveByKey returns the active configuration for a page key, or
// ErrNotFound when the key is unknown or its configuration was
// deactivated. Numeric fields come back typed; nothing partially-parsed
// leaves this layer.
func (s *PrelanderStore) GetActiveByKey(ctx context.Context, pageKey string) (*domain.PrelanderConfig, error) {
	q := `SELECT ` + prelanderColumns + `
		FROM pre_landing_pages
		WHERE page_key = $1 AND is_active = TRUE`

	cfg, err := s.scanOne(s.db.QueryRowContext(ctx, q, pageKey))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get prelander by key: %w", err)
	}

	return cfg, nil
}

// ListActive returns all active configurations, newest first.
func (s *PrelanderStore) ListActive(ctx context.Context) ([]domain.PrelanderConfig, error) {
	q := `SELECT ` + prelanderColumns + `
		FROM pre_landing_pages
		WHERE is_active = TRUE
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list prelanders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var configs []domain.PrelanderConfig
	for rows.Next() {
		cfg, err := s.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prelander: %w", err)
		}
		configs = append(configs, *cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prelanders: %w", err)
	}

	return configs, nil
}

// Create inserts a new configuration row.
func (s *PrelanderStore) Create(ctx context.Context, cfg *domain.PrelanderConfig) error {
	const q = `
		INSERT INTO pre_landing_pages
			(id, page_key, headline, description, cta_text, target_url,
			 headline_color, description_color, cta_color,
			 headline_size, description_size, text_align,
			 background_mode, background_color, background_image_url,
			 logo_url, logo_position, logo_size, main_image_url, image_ratio,
			 is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	if _, err := s.db.ExecContext(ctx, q,
		cfg.ID, cfg.PageKey, cfg.Headline, cfg.Description, cfg.CTAText, cfg.TargetURL,
		cfg.HeadlineColor, cfg.DescriptionColor, cfg.CTAColor,
		cfg.HeadlineSize, cfg.DescriptionSize, cfg.TextAlign,
		cfg.BackgroundMode, cfg.BackgroundColor, cfg.BackgroundImage,
		cfg.LogoURL, cfg.LogoPosition, cfg.LogoSize, cfg.MainImageURL, cfg.ImageRatio,
		cfg.Active,
	); err != nil {
		return fmt.Errorf("create prelander: %w", err)
	}

	return nil
}

// Deactivate soft-deletes a configuration. The row survives so existing
// analytics keep their context; resolution simply stops finding it.
func (s *PrelanderStore) Deactivate(ctx context.Context, id string) error {
	const q = `
		UPDATE pre_landing_pages
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1`

	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("deactivate prelander: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanOne.
type scanner interface {
	Scan(dest ...any) error
}

func (s *PrelanderStore) scanOne(row scanner) (*domain.PrelanderConfig, error) {
	var (
		cfg             domain.PrelanderConfig
		backgroundImage sql.NullString
		logoURL         sql.NullString
		mainImageURL    sql.NullString
	)

	if err := row.Scan(
		&cfg.ID, &cfg.PageKey, &cfg.Headline, &cfg.Description, &cfg.CTAText, &cfg.TargetURL,
		&cfg.HeadlineColor, &cfg.DescriptionColor, &cfg.CTAColor,
		&cfg.HeadlineSize, &cfg.DescriptionSize, &cfg.TextAlign,
		&cfg.BackgroundMode, &cfg.BackgroundColor, &backgroundImage,
		&logoURL, &cfg.LogoPosition, &cfg.LogoSize, &mainImageURL, &cfg.ImageRatio,
		&cfg.Active, &cfg.CreatedAt, &cfg.UpdatedAt,
	); err != nil {
		return nil, err
	}

	cfg.BackgroundImage = backgroundImage.String
	cfg.LogoURL = logoURL.String
	cfg.MainImageURL = mainImageURL.String

	return &cfg, nil
}

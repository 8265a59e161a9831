package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/minglemoody/funnel-tracker/internal/domain"
)

const webResultColumns = `
	id, results_page, is_sponsored, offer_name, title, description,
	original_link, logo_url, serial_number, access_type, allowed_countries,
	backlink_url, prelander_page_key, created_at, updated_at`

// WebResultStore persists the advertiser destinations listed on results
// pages.
type WebResultStore struct {
	db *sql.DB
}

// NewWebResultStore creates a WebResultStore backed by db.
func NewWebResultStore(db *sql.DB) *WebResultStore {
	return &WebResultStore{db: db}
}

// GetByID loads one web result.
func (s *WebResultStore) GetByID(ctx context.Context, id string) (*domain.WebResult, error) {
	q := `SELECT ` + webResultColumns + ` FROM web_results WHERE id = $1`

	result, err := s.scanOne(s.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get web result: %w", err)
	}

	return result, nil
}

// ListByPage returns the results for one results page ordered by serial
// number.
func (s *WebResultStore) ListByPage(ctx context.Context, resultsPage string) ([]domain.WebResult, error) {
	q := `SELECT ` + webResultColumns + `
		FROM web_results
		WHERE results_page = $1
		ORDER BY serial_number`

	return s.list(ctx, q, resultsPage)
}

// ListAll returns every web result ordered by page then serial number.
func (s *WebResultStore) ListAll(ctx context.Context) ([]domain.WebResult, error) {
	q := `SELECT ` + webResultColumns + `
		FROM web_results
		ORDER BY results_page, serial_number`

	return s.list(ctx, q)
}

// Create inserts a new web result.
func (s *WebResultStore) Create(ctx context.Context, r *domain.WebResult) error {
	const q = `
		INSERT INTO web_results
			(id, results_page, is_sponsored, offer_name, title, description,
			 original_link, logo_url, serial_number, access_type,
			 allowed_countries, backlink_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	if _, err := s.db.ExecContext(ctx, q,
		r.ID, r.ResultsPage, r.Sponsored, r.OfferName, r.Title, r.Description,
		r.OriginalLink, r.LogoURL, r.SerialNumber, r.AccessType,
		pq.Array(r.AllowedCountries), r.BacklinkURL,
	); err != nil {
		return fmt.Errorf("create web result: %w", err)
	}

	return nil
}

// Update rewrites the mutable fields of a web result.
func (s *WebResultStore) Update(ctx context.Context, r *domain.WebResult) error {
	const q = `
		UPDATE web_results
		SET results_page = $2, is_sponsored = $3, offer_name = $4, title = $5,
		    description = $6, original_link = $7, logo_url = $8,
		    serial_number = $9, access_type = $10, allowed_countries = $11,
		    backlink_url = $12, updated_at = NOW()
		WHERE id = $1`

	res, err := s.db.ExecContext(ctx, q,
		r.ID, r.ResultsPage, r.Sponsored, r.OfferName, r.Title,
		r.Description, r.OriginalLink, r.LogoURL,
		r.SerialNumber, r.AccessType, pq.Array(r.AllowedCountries),
		r.BacklinkURL,
	)
	if err != nil {
		return fmt.Errorf("update web result: %w", err)
	}

	return requireRow(res)
}

// Delete removes a web result.
func (s *WebResultStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM web_results WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete web result: %w", err)
	}

	return requireRow(res)
}

// SetPrelanderKey writes the backlink from a web result to its prelander
// configuration.
func (s *WebResultStore) SetPrelanderKey(ctx context.Context, id, pageKey string) error {
	const q = `
		UPDATE web_results
		SET prelander_page_key = $2, updated_at = NOW()
		WHERE id = $1`

	res, err := s.db.ExecContext(ctx, q, id, pageKey)
	if err != nil {
		return fmt.Errorf("set prelander key: %w", err)
	}

	return requireRow(res)
}

func (s *WebResultStore) list(ctx context.Context, q string, args ...any) ([]domain.WebResult, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list web results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []domain.WebResult
	for rows.Next() {
		r, err := s.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan web result: %w", err)
		}
		results = append(results, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate web results: %w", err)
	}

	return results, nil
}

func (s *WebResultStore) scanOne(row scanner) (*domain.WebResult, error) {
	var (
		r            domain.WebResult
		offerName    sql.NullString
		logoURL      sql.NullString
		backlinkURL  sql.NullString
		prelanderKey sql.NullString
	)

	if err := row.Scan(
		&r.ID, &r.ResultsPage, &r.Sponsored, &offerName, &r.Title, &r.Description,
		&r.OriginalLink, &logoURL, &r.SerialNumber, &r.AccessType,
		pq.Array(&r.AllowedCountries), &backlinkURL, &prelanderKey,
		&r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}

	r.OfferName = offerName.String
	r.LogoURL = logoURL.String
	r.BacklinkURL = backlinkURL.String
	r.PrelanderPageKey = prelanderKey.String

	return &r, nil
}

// requireRow converts a zero-rows-affected result into ErrNotFound.
func requireRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

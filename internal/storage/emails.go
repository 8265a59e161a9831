package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minglemoody/funnel-tracker/internal/domain"
)

// EmailStore persists prelander email captures.
type EmailStore struct {
	db *sql.DB
}

// NewEmailStore creates an EmailStore backed by db.
func NewEmailStore(db *sql.DB) *EmailStore {
	return &EmailStore{db: db}
}

// Insert records one email capture.
func (s *EmailStore) Insert(ctx context.Context, capture *domain.EmailCapture) error {
	const q = `
		INSERT INTO email_captures
			(id, email, web_result_id, session_id,
			 ip_address, country, device, redirected_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := s.db.ExecContext(ctx, q,
		capture.ID, capture.Email, capture.WebResultID, capture.SessionID,
		capture.Env.IP, capture.Env.Country, capture.Env.Device, capture.RedirectedTo,
	); err != nil {
		return fmt.Errorf("insert email capture: %w", err)
	}

	return nil
}

// List returns captures newest first, capped at limit.
func (s *EmailStore) List(ctx context.Context, limit int) ([]domain.EmailCapture, error) {
	const q = `
		SELECT id, email, web_result_id, session_id,
		       ip_address, country, device, redirected_to, captured_at
		FROM email_captures
		ORDER BY captured_at DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list email captures: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var captures []domain.EmailCapture
	for rows.Next() {
		var c domain.EmailCapture
		var webResultID sql.NullString
		if err := rows.Scan(
			&c.ID, &c.Email, &webResultID, &c.SessionID,
			&c.Env.IP, &c.Env.Country, &c.Env.Device, &c.RedirectedTo, &c.CapturedAt,
		); err != nil {
			return nil, fmt.Errorf("scan email capture: %w", err)
		}
		c.WebResultID = webResultID.String
		captures = append(captures, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate email captures: %w", err)
	}

	return captures, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventpages/internal/domain"
)

type previewTokenRepository struct {
	DB *sql.DB
}

func NewPreviewTokenRepository(db *sql.DB) domain.PreviewTokenRepository {
	return &previewTokenRepository{
		DB: db,
	}
}

func (r *previewTokenRepository) Create(ctx context.Context, t *domain.PreviewToken) error {
	query := `
		INSERT INTO preview_tokens (event_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query, t.EventID, t.TokenHash, t.ExpiresAt).Scan(&t.ID, &t.CreatedAt)
}

// ResolveHash folds expiry into the lookup so expired and unknown hashes are
// the same ErrNotFound; nothing distinguishes the two cases.
func (r *previewTokenRepository) ResolveHash(ctx context.Context, tokenHash string) (string, error) {
	query := `
		SELECT event_id FROM preview_tokens
		WHERE token_hash = $1 AND expires_at > NOW()
	`
	var eventID string
	err := r.DB.QueryRowContext(ctx, query, tokenHash).Scan(&eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return eventID, nil
}

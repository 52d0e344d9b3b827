package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventpages/internal/domain"
)

type loginCodeRepository struct {
	DB *sql.DB
}

// NewLoginCodeRepository returns a domain.LoginCodeRepository implemented with Postgres.
func NewLoginCodeRepository(db *sql.DB) domain.LoginCodeRepository {
	return &loginCodeRepository{DB: db}
}

func (r *loginCodeRepository) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO login_codes (email, code_hash, expires_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.DB.ExecContext(ctx, query, email, codeHash, expiresAt)
	return err
}

func (r *loginCodeRepository) GetActive(ctx context.Context, email string) (string, string, error) {
	query := `
		SELECT id, code_hash FROM login_codes
		WHERE email = $1 AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`
	var id, codeHash string
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&id, &codeHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", domain.ErrNotFound
		}
		return "", "", err
	}
	return id, codeHash, nil
}

func (r *loginCodeRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM login_codes WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

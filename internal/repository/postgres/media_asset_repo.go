package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventpages/internal/domain"
)

type mediaAssetRepository struct {
	DB *sql.DB
}

func NewMediaAssetRepository(db *sql.DB) domain.MediaAssetRepository {
	return &mediaAssetRepository{
		DB: db,
	}
}

func (r *mediaAssetRepository) Create(ctx context.Context, a *domain.MediaAsset) error {
	query := `
		INSERT INTO media_assets (event_id, kind, storage_key, public_url, width, height, alt_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, a.EventID, a.Kind, a.StorageKey, a.PublicURL, a.Width, a.Height, a.AltText, a.CreatedAt).
		Scan(&a.ID)
}

func (r *mediaAssetRepository) GetByID(ctx context.Context, eventID, assetID string) (*domain.MediaAsset, error) {
	query := `
		SELECT id, event_id, kind, storage_key, public_url, width, height, alt_text, created_at
		FROM media_assets
		WHERE id = $1 AND event_id = $2
	`
	a := &domain.MediaAsset{}
	err := r.DB.QueryRowContext(ctx, query, assetID, eventID).Scan(
		&a.ID, &a.EventID, &a.Kind, &a.StorageKey, &a.PublicURL, &a.Width, &a.Height, &a.AltText, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *mediaAssetRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.MediaAsset, error) {
	query := `
		SELECT id, event_id, kind, storage_key, public_url, width, height, alt_text, created_at
		FROM media_assets
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := make([]*domain.MediaAsset, 0)
	for rows.Next() {
		a := &domain.MediaAsset{}
		if err := rows.Scan(&a.ID, &a.EventID, &a.Kind, &a.StorageKey, &a.PublicURL, &a.Width, &a.Height, &a.AltText, &a.CreatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (r *mediaAssetRepository) Delete(ctx context.Context, eventID, assetID string) error {
	query := `DELETE FROM media_assets WHERE id = $1 AND event_id = $2`
	result, err := r.DB.ExecContext(ctx, query, assetID, eventID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

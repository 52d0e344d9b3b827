package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"eventpages/internal/domain"
)

type pageVersionRepository struct {
	DB *sql.DB
}

func NewPageVersionRepository(db *sql.DB) domain.PageVersionRepository {
	return &pageVersionRepository{
		DB: db,
	}
}

// SaveConfig writes the version row and the live pointer in one transaction.
// The insert runs first so the pointer can never get ahead of the history.
func (r *pageVersionRepository) SaveConfig(ctx context.Context, eventID string, config json.RawMessage, configVersion int, userID string) (*domain.EventPageVersion, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	v := &domain.EventPageVersion{
		EventID:       eventID,
		Config:        config,
		ConfigVersion: configVersion,
		CreatedBy:     userID,
	}
	insert := `
		INSERT INTO event_page_versions (event_id, config, config_version, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := tx.QueryRowContext(ctx, insert, eventID, []byte(config), configVersion, userID).Scan(&v.ID, &v.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert version: %w", err)
	}

	update := `
		UPDATE events
		SET page_config = $1, current_version_id = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := tx.ExecContext(ctx, update, []byte(config), v.ID, eventID)
	if err != nil {
		return nil, fmt.Errorf("update live config: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return v, nil
}

func (r *pageVersionRepository) ListByEventID(ctx context.Context, eventID string, limit int) ([]*domain.EventPageVersion, error) {
	if limit <= 0 || limit > domain.VersionListCap {
		limit = domain.VersionListCap
	}
	query := `
		SELECT id, event_id, config, config_version, created_by, created_at
		FROM event_page_versions
		WHERE event_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	versions := make([]*domain.EventPageVersion, 0)
	for rows.Next() {
		v := &domain.EventPageVersion{}
		var config []byte
		if err := rows.Scan(&v.ID, &v.EventID, &config, &v.ConfigVersion, &v.CreatedBy, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.Config = config
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// GetByID filters on both ids so a version of another event resolves as not found.
func (r *pageVersionRepository) GetByID(ctx context.Context, eventID, versionID string) (*domain.EventPageVersion, error) {
	query := `
		SELECT id, event_id, config, config_version, created_by, created_at
		FROM event_page_versions
		WHERE id = $1 AND event_id = $2
	`
	v := &domain.EventPageVersion{}
	var config []byte
	err := r.DB.QueryRowContext(ctx, query, versionID, eventID).Scan(
		&v.ID, &v.EventID, &config, &v.ConfigVersion, &v.CreatedBy, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	v.Config = config
	return v, nil
}

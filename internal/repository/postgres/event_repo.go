package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventpages/internal/domain"
)

const eventColumns = `id, owner_id, name, slug, template_id, description, starts_at, venue, capacity, page_config, current_version_id, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull, venueNull, currentVersionNull sql.NullString
	var startsNull sql.NullTime
	var capacityNull sql.NullInt64
	var configNull []byte
	err := row.Scan(
		&e.ID, &e.OwnerID, &e.Name, &e.Slug, &e.TemplateID,
		&descNull, &startsNull, &venueNull, &capacityNull,
		&configNull, &currentVersionNull, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if descNull.Valid {
		e.Description = &descNull.String
	}
	if startsNull.Valid {
		e.StartsAt = &startsNull.Time
	}
	if venueNull.Valid {
		e.Venue = &venueNull.String
	}
	if capacityNull.Valid {
		capacity := int(capacityNull.Int64)
		e.Capacity = &capacity
	}
	if len(configNull) > 0 {
		e.PageConfig = configNull
	}
	if currentVersionNull.Valid {
		e.CurrentVersionID = &currentVersionNull.String
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (owner_id, name, slug, template_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, e.OwnerID, e.Name, e.Slug, e.TemplateID, e.CreatedAt, e.UpdatedAt).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	query := fmt.Sprintf(`SELECT %s FROM events WHERE slug = $1`, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, eventColumns)
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if upd.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *upd.Name)
		n++
	}
	if upd.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *upd.Description)
		n++
	}
	if upd.StartsAt != nil {
		setClauses = append(setClauses, fmt.Sprintf("starts_at = $%d", n))
		args = append(args, *upd.StartsAt)
		n++
	}
	if upd.Venue != nil {
		setClauses = append(setClauses, fmt.Sprintf("venue = $%d", n))
		args = append(args, *upd.Venue)
		n++
	}
	if upd.Capacity != nil {
		setClauses = append(setClauses, fmt.Sprintf("capacity = $%d", n))
		args = append(args, *upd.Capacity)
		n++
	}
	if upd.TemplateID != nil {
		setClauses = append(setClauses, fmt.Sprintf("template_id = $%d", n))
		args = append(args, *upd.TemplateID)
		n++
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, eventID)
	}
	args = append(args, eventID)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

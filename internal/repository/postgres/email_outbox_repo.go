package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"eventpages/internal/domain"
)

type emailOutboxRepository struct {
	DB *sql.DB
}

func NewEmailOutboxRepository(db *sql.DB) domain.EmailOutboxRepository {
	return &emailOutboxRepository{DB: db}
}

func (r *emailOutboxRepository) Enqueue(ctx context.Context, msg *domain.OutboxMessage) error {
	vars, err := json.Marshal(msg.Variables)
	if err != nil {
		return fmt.Errorf("marshal variables: %w", err)
	}
	query := `
		INSERT INTO email_outbox (template, recipient, variables, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query, msg.Template, msg.Recipient, vars, domain.OutboxStatusPending).
		Scan(&msg.ID, &msg.CreatedAt)
}

func (r *emailOutboxRepository) ListPending(ctx context.Context, limit int) ([]*domain.OutboxMessage, error) {
	query := `
		SELECT id, template, recipient, variables, status, attempts, created_at
		FROM email_outbox
		WHERE status = $1 AND attempts < $2
		ORDER BY created_at ASC
		LIMIT $3
	`
	rows, err := r.DB.QueryContext(ctx, query, domain.OutboxStatusPending, domain.MaxSendAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]*domain.OutboxMessage, 0)
	for rows.Next() {
		msg := &domain.OutboxMessage{}
		var vars []byte
		if err := rows.Scan(&msg.ID, &msg.Template, &msg.Recipient, &vars, &msg.Status, &msg.Attempts, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if len(vars) > 0 {
			if err := json.Unmarshal(vars, &msg.Variables); err != nil {
				return nil, fmt.Errorf("unmarshal variables for %s: %w", msg.ID, err)
			}
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (r *emailOutboxRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	query := `
		UPDATE email_outbox
		SET status = $1, sent_at = $2, attempts = attempts + 1
		WHERE id = $3
	`
	_, err := r.DB.ExecContext(ctx, query, domain.OutboxStatusSent, sentAt, id)
	return err
}

// MarkFailed bumps the attempt count and keeps the row pending until
// MaxSendAttempts is reached, after which it is marked failed for good.
func (r *emailOutboxRepository) MarkFailed(ctx context.Context, id string, attempts int, lastError string) error {
	status := domain.OutboxStatusPending
	if attempts >= domain.MaxSendAttempts {
		status = domain.OutboxStatusFailed
	}
	query := `
		UPDATE email_outbox
		SET status = $1, attempts = $2, last_error = $3
		WHERE id = $4
	`
	_, err := r.DB.ExecContext(ctx, query, status, attempts, lastError, id)
	return err
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"eventpages/internal/domain"
)

type invitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{
		DB: db,
	}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (event_id, email, status, guest_count, token, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, inv.EventID, inv.Email, inv.Status, inv.GuestCount, inv.Token, inv.SentAt).
		Scan(&inv.ID)
	if err != nil {
		var pqErr *pq.Error
		// 23505 = unique_violation on (event_id, email)
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateInvite
		}
		return err
	}
	return nil
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	query := `
		SELECT id, event_id, email, status, guest_count, token, sent_at, responded_at
		FROM invitations
		WHERE token = $1
	`
	inv := &domain.Invitation{}
	var respondedNull sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, token).Scan(
		&inv.ID, &inv.EventID, &inv.Email, &inv.Status, &inv.GuestCount, &inv.Token, &inv.SentAt, &respondedNull,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if respondedNull.Valid {
		inv.RespondedAt = &respondedNull.Time
	}
	return inv, nil
}

func (r *invitationRepository) ListByEventID(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	countQuery := `
		SELECT COUNT(*) FROM invitations
		WHERE event_id = $1 AND ($2 = '' OR email ILIKE '%' || $2 || '%')
	`
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, eventID, search).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, event_id, email, status, guest_count, token, sent_at, responded_at
		FROM invitations
		WHERE event_id = $1 AND ($2 = '' OR email ILIKE '%' || $2 || '%')
		ORDER BY sent_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, search, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	invs := make([]*domain.Invitation, 0)
	for rows.Next() {
		inv := &domain.Invitation{}
		var respondedNull sql.NullTime
		if err := rows.Scan(&inv.ID, &inv.EventID, &inv.Email, &inv.Status, &inv.GuestCount, &inv.Token, &inv.SentAt, &respondedNull); err != nil {
			return nil, 0, err
		}
		if respondedNull.Valid {
			inv.RespondedAt = &respondedNull.Time
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return invs, total, nil
}

func (r *invitationRepository) SetResponse(ctx context.Context, invitationID, status string, guestCount int, respondedAt time.Time) error {
	query := `
		UPDATE invitations
		SET status = $1, guest_count = $2, responded_at = $3
		WHERE id = $4
	`
	result, err := r.DB.ExecContext(ctx, query, status, guestCount, respondedAt, invitationID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *invitationRepository) CountAcceptedGuests(ctx context.Context, eventID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(guest_count), 0)
		FROM invitations
		WHERE event_id = $1 AND status = $2
	`
	var total int
	err := r.DB.QueryRowContext(ctx, query, eventID, domain.InviteStatusAccepted).Scan(&total)
	return total, err
}

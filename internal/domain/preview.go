package domain

import (
	"context"
	"time"
)

// PreviewToken grants time-limited access to an event's page before publish.
// Only the SHA-256 hash of the token is stored.
type PreviewToken struct {
	ID        string
	EventID   string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// PreviewTokenRepository defines storage for preview tokens.
type PreviewTokenRepository interface {
	Create(ctx context.Context, t *PreviewToken) error
	// ResolveHash returns the event id for an unexpired token hash. Expired and
	// unknown hashes both return ErrNotFound; callers cannot tell them apart.
	ResolveHash(ctx context.Context, tokenHash string) (eventID string, err error)
}

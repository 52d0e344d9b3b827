package domain

import (
	"context"
	"encoding/json"
	"time"
)

// VersionListCap is the maximum number of versions returned by a history listing.
const VersionListCap = 50

// EventPageVersion is one immutable snapshot in an event's page config history.
// Rows are append-only: rollback writes a new row, never mutates or deletes.
// swagger:model EventPageVersion
type EventPageVersion struct {
	ID            string          `json:"id"`
	EventID       string          `json:"event_id"`
	Config        json.RawMessage `json:"config"`
	ConfigVersion int             `json:"config_version"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PageVersionRepository defines storage for the append-only version history.
type PageVersionRepository interface {
	// SaveConfig inserts a version row and updates the event's live config and
	// current version pointer in one transaction. The version row is written
	// first so a failure can never leave the pointer ahead of the history.
	SaveConfig(ctx context.Context, eventID string, config json.RawMessage, configVersion int, userID string) (*EventPageVersion, error)
	// ListByEventID returns versions most-recent-first, capped at limit.
	ListByEventID(ctx context.Context, eventID string, limit int) ([]*EventPageVersion, error)
	// GetByID is scoped to the owning event and must not resolve versions of
	// other events.
	GetByID(ctx context.Context, eventID, versionID string) (*EventPageVersion, error)
}

// RenderedPage is the template-agnostic output of a page render.
type RenderedPage struct {
	TemplateID string    `json:"template_id"`
	Page       *PageNode `json:"page"`
}

// PageNode is one node of the rendered page tree.
type PageNode struct {
	Kind     string            `json:"kind"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     string            `json:"text,omitempty"`
	Children []*PageNode       `json:"children,omitempty"`
}

// PageService defines page config editing, history, rollback, preview tokens,
// and public rendering.
type PageService interface {
	// GetConfig returns the event's live config, migrated to the current
	// schema, falling back to a minimal config when the stored value has no
	// valid migration path.
	GetConfig(ctx context.Context, eventID, callerID string) (*PageConfig, error)
	// SaveConfig validates the raw document, migrating older schema versions
	// forward, and persists the result as a new version plus live pointer
	// update.
	SaveConfig(ctx context.Context, eventID, callerID string, raw json.RawMessage) (*EventPageVersion, error)
	ListVersions(ctx context.Context, eventID, callerID string) ([]*EventPageVersion, error)
	GetVersion(ctx context.Context, eventID, versionID, callerID string) (*EventPageVersion, error)
	// Rollback re-validates the target version's config against the current
	// schema and, if valid, records it as a brand-new version. A version with
	// no migration path is refused and the live pointer stays unchanged.
	Rollback(ctx context.Context, eventID, versionID, callerID string) (*EventPageVersion, error)
	CreatePreviewToken(ctx context.Context, eventID, callerID string, ttl time.Duration) (token string, expiresAt time.Time, err error)
	// RenderPublic renders the live page for a public slug.
	RenderPublic(ctx context.Context, slug string) (*RenderedPage, string, error)
	// RenderPreview resolves a preview token and renders through the public
	// path plus a non-indexable preview banner. Expired and unknown tokens are
	// indistinguishable.
	RenderPreview(ctx context.Context, token string) (*RenderedPage, error)
}

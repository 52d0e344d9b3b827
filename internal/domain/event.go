package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Event represents an event with a public, templated page.
// swagger:model Event
type Event struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	TemplateID  string     `json:"template_id"`
	Description *string    `json:"description,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	Venue       *string    `json:"venue,omitempty"`
	Capacity    *int       `json:"capacity,omitempty"`
	// PageConfig is the live page document as stored. It is an untyped blob at
	// rest and must be re-validated before every render.
	PageConfig json.RawMessage `json:"-"`
	// CurrentVersionID points at the version row the live config came from.
	CurrentVersionID *string   `json:"current_version_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(name, slug, templateID, ownerID string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:       name,
		Slug:       slug,
		TemplateID: templateID,
		OwnerID:    ownerID,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
}

// EventUpdate holds the optional fields of an event update; nil means unchanged.
type EventUpdate struct {
	Name        *string
	Description *string
	StartsAt    *time.Time
	Venue       *string
	Capacity    *int
	TemplateID  *string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	Update(ctx context.Context, eventID string, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for event CRUD and ownership.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, eventID, callerID string) (*Event, error)
	ListMyEvents(ctx context.Context, ownerID string) ([]*Event, error)
	UpdateEvent(ctx context.Context, eventID, ownerID string, upd EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, ownerID string) error
}

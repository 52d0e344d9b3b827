package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"eventpages/internal/domain"
	"eventpages/internal/templates"
)

type eventService struct {
	eventRepo      domain.EventRepository
	registry       *templates.Registry
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository, registry *templates.Registry, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		registry:       registry,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.OwnerID == "" {
		return fmt.Errorf("event owner is required")
	}
	if strings.TrimSpace(event.Name) == "" {
		return domain.ErrInvalidInput
	}
	if event.TemplateID == "" {
		event.TemplateID = templates.DefaultTemplateID
	}
	if !s.registry.Known(event.TemplateID) {
		return domain.ErrInvalidInput
	}
	if event.Capacity != nil && *event.Capacity < 0 {
		return domain.ErrInvalidInput
	}

	if event.Slug == "" {
		slug, err := generateSlug(event.Name)
		if err != nil {
			return fmt.Errorf("generate slug: %w", err)
		}
		event.Slug = slug
	}

	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	return s.eventRepo.Create(ctx, event)
}

const slugSuffixLength = 6

var slugSuffixAlphabet = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

// generateSlug builds a URL slug from the event name plus a random suffix so
// two events with the same name get distinct public URLs.
func generateSlug(name string) (string, error) {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	base := strings.Trim(b.String(), "-")
	if base == "" {
		base = "event"
	}

	suffix := make([]rune, slugSuffixLength)
	max := big.NewInt(int64(len(slugSuffixAlphabet)))
	for i := 0; i < slugSuffixLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		suffix[i] = slugSuffixAlphabet[n.Int64()]
	}
	return base + "-" + string(suffix), nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != callerID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func (s *eventService) ListMyEvents(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, ownerID string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if upd.TemplateID != nil && !s.registry.Known(*upd.TemplateID) {
		return nil, domain.ErrInvalidInput
	}
	if upd.Capacity != nil && *upd.Capacity < 0 {
		return nil, domain.ErrInvalidInput
	}

	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

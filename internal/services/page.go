package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eventpages/internal/domain"
	"eventpages/internal/pageconfig"
	"eventpages/internal/templates"
)

// DefaultPreviewTokenTTL is used when a preview token is requested without an
// explicit lifetime.
const DefaultPreviewTokenTTL = 24 * time.Hour

type pageService struct {
	eventRepo      domain.EventRepository
	versionRepo    domain.PageVersionRepository
	assetRepo      domain.MediaAssetRepository
	previewRepo    domain.PreviewTokenRepository
	resolver       templates.Resolver
	views          domain.PageViewCounter
	contextTimeout time.Duration
}

func NewPageService(
	eventRepo domain.EventRepository,
	versionRepo domain.PageVersionRepository,
	assetRepo domain.MediaAssetRepository,
	previewRepo domain.PreviewTokenRepository,
	resolver templates.Resolver,
	views domain.PageViewCounter,
	timeout time.Duration,
) domain.PageService {
	return &pageService{
		eventRepo:      eventRepo,
		versionRepo:    versionRepo,
		assetRepo:      assetRepo,
		previewRepo:    previewRepo,
		resolver:       resolver,
		views:          views,
		contextTimeout: timeout,
	}
}

func (s *pageService) ownedEvent(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
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

func (s *pageService) GetConfig(ctx context.Context, eventID, callerID string) (*domain.PageConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ownedEvent(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}

	if len(event.PageConfig) == 0 {
		// First read for this event: materialize the minimal config so the
		// editor always starts from a valid document with a version row behind it.
		cfg := pageconfig.CreateMinimalConfig(event.Name)
		raw, err := json.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshal minimal config: %w", err)
		}
		if _, err := s.versionRepo.SaveConfig(ctx, eventID, raw, cfg.SchemaVersion, callerID); err != nil {
			return nil, fmt.Errorf("save minimal config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := pageconfig.ValidateAndMigrate(event.PageConfig)
	if err != nil {
		// The stored blob is unreadable under the current schema. Serve the
		// minimal fallback instead of failing the editor load.
		return pageconfig.CreateMinimalConfig(event.Name), nil
	}
	return cfg, nil
}

func (s *pageService) SaveConfig(ctx context.Context, eventID, callerID string, raw json.RawMessage) (*domain.EventPageVersion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedEvent(ctx, eventID, callerID); err != nil {
		return nil, err
	}

	cfg, err := pageconfig.ValidateAndMigrate(raw)
	if err != nil {
		return nil, err
	}
	canonical, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	version, err := s.versionRepo.SaveConfig(ctx, eventID, canonical, cfg.SchemaVersion, callerID)
	if err != nil {
		return nil, fmt.Errorf("save config: %w", err)
	}
	return version, nil
}

func (s *pageService) ListVersions(ctx context.Context, eventID, callerID string) ([]*domain.EventPageVersion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedEvent(ctx, eventID, callerID); err != nil {
		return nil, err
	}
	versions, err := s.versionRepo.ListByEventID(ctx, eventID, domain.VersionListCap)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	if versions == nil {
		versions = []*domain.EventPageVersion{}
	}
	return versions, nil
}

func (s *pageService) GetVersion(ctx context.Context, eventID, versionID, callerID string) (*domain.EventPageVersion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedEvent(ctx, eventID, callerID); err != nil {
		return nil, err
	}
	version, err := s.versionRepo.GetByID(ctx, eventID, versionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}

func (s *pageService) Rollback(ctx context.Context, eventID, versionID, callerID string) (*domain.EventPageVersion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedEvent(ctx, eventID, callerID); err != nil {
		return nil, err
	}
	target, err := s.versionRepo.GetByID(ctx, eventID, versionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get version: %w", err)
	}

	// The target snapshot may predate the current schema. It must migrate and
	// validate cleanly before it can become the live config; otherwise the
	// rollback is refused and the live pointer stays where it is.
	cfg, err := pageconfig.ValidateAndMigrate(target.Config)
	if err != nil {
		return nil, fmt.Errorf("version %s cannot become the live config: %w", versionID, err)
	}
	canonical, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	version, err := s.versionRepo.SaveConfig(ctx, eventID, canonical, cfg.SchemaVersion, callerID)
	if err != nil {
		return nil, fmt.Errorf("save rollback: %w", err)
	}
	return version, nil
}

func (s *pageService) CreatePreviewToken(ctx context.Context, eventID, callerID string, ttl time.Duration) (string, time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedEvent(ctx, eventID, callerID); err != nil {
		return "", time.Time{}, err
	}
	if ttl <= 0 {
		ttl = DefaultPreviewTokenTTL
	}

	token, err := randomToken(32)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate preview token: %w", err)
	}
	expiresAt := time.Now().Add(ttl)
	if err := s.previewRepo.Create(ctx, &domain.PreviewToken{
		EventID:   eventID,
		TokenHash: hashToken(token),
		ExpiresAt: expiresAt,
	}); err != nil {
		return "", time.Time{}, fmt.Errorf("create preview token: %w", err)
	}
	return token, expiresAt, nil
}

func (s *pageService) RenderPublic(ctx context.Context, slug string) (*domain.RenderedPage, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("get event by slug: %w", err)
	}

	page, err := s.render(ctx, event)
	if err != nil {
		return nil, "", err
	}

	// Best-effort: a counter outage never fails a public render.
	_ = s.views.Record(ctx, event.ID, time.Now())

	return page, event.ID, nil
}

func (s *pageService) RenderPreview(ctx context.Context, token string) (*domain.RenderedPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	eventID, err := s.previewRepo.ResolveHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("resolve preview token: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	page, err := s.render(ctx, event)
	if err != nil {
		return nil, err
	}
	page.Page = templates.WithPreviewBanner(page.Page)
	return page, nil
}

// render resolves the live config (falling back to the minimal config when the
// stored blob is unreadable), the template, and the event's assets, and builds
// the page tree.
func (s *pageService) render(ctx context.Context, event *domain.Event) (*domain.RenderedPage, error) {
	var cfg *domain.PageConfig
	if len(event.PageConfig) > 0 {
		cfg, _ = pageconfig.ValidateAndMigrate(event.PageConfig)
	}
	if cfg == nil {
		cfg = pageconfig.CreateMinimalConfig(event.Name)
	}

	assets, err := s.assetRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	renderer, usedID := s.resolver.Resolve(event.TemplateID)
	return &domain.RenderedPage{
		TemplateID: usedID,
		Page:       renderer.Render(cfg, assets, event.ID),
	}, nil
}

// randomToken returns n random bytes hex-encoded.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// hashToken returns the hex SHA-256 of a token. Only hashes are stored.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

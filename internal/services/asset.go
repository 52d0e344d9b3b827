package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"eventpages/internal/domain"
)

// MaxAssetSize is the upload size limit for a single image.
const MaxAssetSize = 10 << 20

type assetService struct {
	assetRepo      domain.MediaAssetRepository
	eventRepo      domain.EventRepository
	storage        domain.ObjectStorage
	contextTimeout time.Duration
}

func NewAssetService(
	assetRepo domain.MediaAssetRepository,
	eventRepo domain.EventRepository,
	storage domain.ObjectStorage,
	timeout time.Duration,
) domain.AssetService {
	return &assetService{
		assetRepo:      assetRepo,
		eventRepo:      eventRepo,
		storage:        storage,
		contextTimeout: timeout,
	}
}

func (s *assetService) ownedEvent(ctx context.Context, eventID, callerID string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != callerID {
		return domain.ErrForbidden
	}
	return nil
}

func (s *assetService) Upload(ctx context.Context, eventID, callerID string, upload domain.AssetUpload) (*domain.MediaAsset, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.ownedEvent(ctx, eventID, callerID); err != nil {
		return nil, err
	}
	if upload.Kind != domain.AssetKindHero && upload.Kind != domain.AssetKindGallery {
		return nil, domain.ErrInvalidInput
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return nil, domain.ErrInvalidInput
	}
	if len(upload.Data) == 0 || len(upload.Data) > MaxAssetSize {
		return nil, domain.ErrInvalidInput
	}

	suffix, err := randomToken(8)
	if err != nil {
		return nil, fmt.Errorf("generate storage key: %w", err)
	}
	key := fmt.Sprintf("events/%s/%s%s", eventID, suffix, strings.ToLower(path.Ext(upload.FileName)))

	publicURL, err := s.storage.Put(ctx, key, upload.Data, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("store asset: %w", err)
	}

	asset := &domain.MediaAsset{
		EventID:    eventID,
		Kind:       upload.Kind,
		StorageKey: key,
		PublicURL:  publicURL,
		Width:      upload.Width,
		Height:     upload.Height,
		AltText:    upload.AltText,
		CreatedAt:  time.Now(),
	}
	if err := s.assetRepo.Create(ctx, asset); err != nil {
		// Do not leave an orphaned object behind a failed row insert.
		_ = s.storage.Delete(ctx, key)
		return nil, fmt.Errorf("create asset: %w", err)
	}
	return asset, nil
}

func (s *assetService) List(ctx context.Context, eventID, callerID string) ([]*domain.MediaAsset, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.ownedEvent(ctx, eventID, callerID); err != nil {
		return nil, err
	}
	assets, err := s.assetRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	if assets == nil {
		assets = []*domain.MediaAsset{}
	}
	return assets, nil
}

func (s *assetService) Delete(ctx context.Context, eventID, assetID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.ownedEvent(ctx, eventID, callerID); err != nil {
		return err
	}
	asset, err := s.assetRepo.GetByID(ctx, eventID, assetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get asset: %w", err)
	}
	if err := s.assetRepo.Delete(ctx, eventID, assetID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete asset: %w", err)
	}
	// Pages referencing the asset simply render without the image from now on.
	_ = s.storage.Delete(ctx, asset.StorageKey)
	return nil
}

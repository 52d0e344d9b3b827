package domain

import (
	"context"
	"time"
)

// Media asset kinds.
const (
	AssetKindHero    = "hero"
	AssetKindGallery = "gallery"
)

// MediaAsset is an uploaded image owned by an event. Page configs reference
// assets by id only; the bytes live in object storage.
// swagger:model MediaAsset
type MediaAsset struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	Kind       string    `json:"kind"`
	StorageKey string    `json:"-"`
	PublicURL  string    `json:"public_url"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	AltText    string    `json:"alt_text"`
	CreatedAt  time.Time `json:"created_at"`
}

// MediaAssetRepository defines storage operations for media assets.
// Point lookups are scoped by the owning event.
type MediaAssetRepository interface {
	Create(ctx context.Context, asset *MediaAsset) error
	GetByID(ctx context.Context, eventID, assetID string) (*MediaAsset, error)
	ListByEventID(ctx context.Context, eventID string) ([]*MediaAsset, error)
	Delete(ctx context.Context, eventID, assetID string) error
}

// ObjectStorage stores raw bytes and returns a public URL (infrastructure port).
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (publicURL string, err error)
	Delete(ctx context.Context, key string) error
}

// AssetUpload holds the fields of an asset upload request.
type AssetUpload struct {
	Kind        string
	FileName    string
	ContentType string
	Data        []byte
	Width       int
	Height      int
	AltText     string
}

// AssetService defines media asset upload and management.
type AssetService interface {
	Upload(ctx context.Context, eventID, callerID string, upload AssetUpload) (*MediaAsset, error)
	List(ctx context.Context, eventID, callerID string) ([]*MediaAsset, error)
	Delete(ctx context.Context, eventID, assetID, callerID string) error
}

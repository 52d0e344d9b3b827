package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpages/internal/domain"
)

func newTestAssetService(t *testing.T) (domain.AssetService, *fakeEventRepo, *fakeAssetRepo, *fakeStorage) {
	t.Helper()
	events := newFakeEventRepo()
	assets := newFakeAssetRepo()
	storage := newFakeStorage()
	svc := NewAssetService(assets, events, storage, 2*time.Second)
	return svc, events, assets, storage
}

func TestAssetService_Upload(t *testing.T) {
	svc, events, _, storage := newTestAssetService(t)
	ctx := context.Background()
	e := domain.NewEvent("Launch", "launch-abc", "classic", "owner-1", time.Now(), time.Now())
	require.NoError(t, events.Create(ctx, e))

	asset, err := svc.Upload(ctx, e.ID, "owner-1", domain.AssetUpload{
		Kind:        domain.AssetKindHero,
		FileName:    "Banner.PNG",
		ContentType: "image/png",
		Data:        []byte("png-bytes"),
		Width:       1200,
		Height:      630,
		AltText:     "launch banner",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, asset.ID)
	assert.True(t, strings.HasPrefix(asset.StorageKey, "events/"+e.ID+"/"))
	assert.True(t, strings.HasSuffix(asset.StorageKey, ".png"))
	assert.Equal(t, "https://cdn.test/"+asset.StorageKey, asset.PublicURL)
	assert.Contains(t, storage.objects, asset.StorageKey)
}

func TestAssetService_Upload_validation(t *testing.T) {
	svc, events, _, _ := newTestAssetService(t)
	ctx := context.Background()
	e := domain.NewEvent("Launch", "launch-abc", "classic", "owner-1", time.Now(), time.Now())
	require.NoError(t, events.Create(ctx, e))

	cases := []struct {
		name   string
		upload domain.AssetUpload
	}{
		{"unknown kind", domain.AssetUpload{Kind: "banner", ContentType: "image/png", Data: []byte("x")}},
		{"not an image", domain.AssetUpload{Kind: domain.AssetKindHero, ContentType: "application/pdf", Data: []byte("x")}},
		{"empty body", domain.AssetUpload{Kind: domain.AssetKindHero, ContentType: "image/png"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, e.ID, "owner-1", tc.upload)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := svc.Upload(ctx, e.ID, "intruder", domain.AssetUpload{Kind: domain.AssetKindHero, ContentType: "image/png", Data: []byte("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAssetService_List_and_Delete(t *testing.T) {
	svc, events, assets, storage := newTestAssetService(t)
	ctx := context.Background()
	e := domain.NewEvent("Launch", "launch-abc", "classic", "owner-1", time.Now(), time.Now())
	require.NoError(t, events.Create(ctx, e))

	uploaded, err := svc.Upload(ctx, e.ID, "owner-1", domain.AssetUpload{
		Kind: domain.AssetKindGallery, FileName: "a.jpg", ContentType: "image/jpeg", Data: []byte("x"),
	})
	require.NoError(t, err)

	list, err := svc.List(ctx, e.ID, "owner-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, e.ID, uploaded.ID, "owner-1"))
	assert.NotContains(t, storage.objects, uploaded.StorageKey)
	assert.Empty(t, assets.byEvent[e.ID])

	assert.ErrorIs(t, svc.Delete(ctx, e.ID, uploaded.ID, "owner-1"), domain.ErrNotFound)
}

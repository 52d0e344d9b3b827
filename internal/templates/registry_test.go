package templates

import (
	"encoding/json"
	"testing"

	"eventpages/internal/domain"
	"eventpages/internal/pageconfig"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *domain.PageConfig {
	cfg := pageconfig.CreateMinimalConfig("Winter Ball")
	cfg.Hero.Subtitle = "An evening to remember"
	cfg.Hero.ImageAssetID = "asset-hero"
	cfg.Sections = []domain.Section{
		{Type: domain.SectionDetails, Enabled: true, Data: json.RawMessage(`{"heading":"About","body":"Join us"}`)},
		{Type: domain.SectionGallery, Enabled: false, Data: json.RawMessage(`{"assetIds":["asset-1"]}`)},
		{Type: domain.SectionRSVP, Enabled: true, Data: json.RawMessage(`{"prompt":"Will you come?"}`)},
	}
	return cfg
}

func testAssets() []*domain.MediaAsset {
	return []*domain.MediaAsset{
		{ID: "asset-hero", EventID: "ev-1", Kind: domain.AssetKindHero, PublicURL: "https://cdn.example.com/hero.jpg", AltText: "ballroom"},
		{ID: "asset-1", EventID: "ev-1", Kind: domain.AssetKindGallery, PublicURL: "https://cdn.example.com/1.jpg"},
	}
}

// sectionTypes walks the rendered tree and returns the type attr of each
// top-level section node after the hero.
func sectionTypes(page *domain.PageNode) []string {
	var out []string
	for _, child := range page.Children[1:] {
		out = append(out, child.Attrs["type"])
	}
	return out
}

func TestResolve_KnownAndUnknown(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name   string
		id     string
		wantID string
	}{
		{name: "classic", id: "classic", wantID: "classic"},
		{name: "gala", id: "gala", wantID: "gala"},
		{name: "unknown falls back to default", id: "brutalist", wantID: DefaultTemplateID},
		{name: "empty falls back to default", id: "", wantID: DefaultTemplateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer, usedID := reg.Resolve(tt.id)
			require.NotNil(t, renderer, "resolution must never return nil")
			assert.Equal(t, tt.wantID, usedID)
		})
	}
}

func TestRender_DisabledSectionsSkipped(t *testing.T) {
	reg := NewRegistry()
	cfg := testConfig()

	for _, id := range []string{"classic", "gala"} {
		t.Run(id, func(t *testing.T) {
			renderer, _ := reg.Resolve(id)
			page := renderer.Render(cfg, testAssets(), "ev-1")
			require.NotNil(t, page)
			got := sectionTypes(page)
			assert.Equal(t, []string{domain.SectionDetails, domain.SectionRSVP}, got,
				"disabled gallery must be skipped; order preserved")
		})
	}
}

func TestRender_ReenabledSectionRestoresPosition(t *testing.T) {
	reg := NewRegistry()
	cfg := testConfig()
	cfg.Sections[1].Enabled = true

	renderer, _ := reg.Resolve("classic")
	page := renderer.Render(cfg, testAssets(), "ev-1")
	got := sectionTypes(page)
	assert.Equal(t, []string{domain.SectionDetails, domain.SectionGallery, domain.SectionRSVP}, got)
}

func TestRender_UnknownSectionTypeSkipped(t *testing.T) {
	reg := NewRegistry()
	cfg := testConfig()
	cfg.Sections = append(cfg.Sections, domain.Section{Type: "countdown", Enabled: true})

	renderer, _ := reg.Resolve("gala")
	page := renderer.Render(cfg, testAssets(), "ev-1")
	got := sectionTypes(page)
	assert.NotContains(t, got, "countdown")
}

func TestRender_MissingAssetReferenceIsNoImage(t *testing.T) {
	reg := NewRegistry()
	cfg := pageconfig.CreateMinimalConfig("No Assets")
	cfg.Hero.ImageAssetID = "asset-gone"
	cfg.Sections = []domain.Section{
		{Type: domain.SectionGallery, Enabled: true, Data: json.RawMessage(`{"assetIds":["asset-gone","asset-also-gone"]}`)},
	}

	renderer, _ := reg.Resolve("classic")
	page := renderer.Render(cfg, nil, "ev-1")
	require.NotNil(t, page)

	hero := page.Children[0]
	for _, child := range hero.Children {
		assert.NotEqual(t, "image", child.Kind)
	}
	gallery := page.Children[1]
	assert.Empty(t, gallery.Children, "unresolved gallery assets render nothing")
}

func TestRender_MalformedSectionDataRendersZeroValue(t *testing.T) {
	reg := NewRegistry()
	cfg := pageconfig.CreateMinimalConfig("Broken Data")
	cfg.Sections = []domain.Section{
		{Type: domain.SectionDetails, Enabled: true, Data: json.RawMessage(`"not an object"`)},
	}

	renderer, _ := reg.Resolve("classic")
	page := renderer.Render(cfg, nil, "ev-1")
	require.Len(t, page.Children, 2)
	details := page.Children[1]
	assert.Equal(t, domain.SectionDetails, details.Attrs["type"])
}

func TestWithPreviewBanner(t *testing.T) {
	reg := NewRegistry()
	renderer, _ := reg.Resolve("classic")
	page := renderer.Render(testConfig(), testAssets(), "ev-1")

	withBanner := WithPreviewBanner(page)
	require.NotNil(t, withBanner)
	require.NotEmpty(t, withBanner.Children)
	assert.Equal(t, "preview-banner", withBanner.Children[0].Kind)
	assert.Equal(t, "noindex", withBanner.Children[0].Attrs["robots"])
	// Everything after the banner is the untouched public render.
	assert.Equal(t, page.Children, withBanner.Children[1:])
}

// Package templates maps template identifiers to page renderers. The registry
// is an immutable, build-time lookup table; unknown identifiers degrade to the
// default template and never fail resolution.
package templates

import (
	"encoding/json"

	"eventpages/internal/domain"
)

// DefaultTemplateID is the fallback for unknown template identifiers.
const DefaultTemplateID = "classic"

// Renderer turns a validated page config plus the event's media assets into a
// page tree. Renderers may interpret section types with different visual
// treatment but must honor enabled flags and section order identically.
type Renderer interface {
	Render(cfg *domain.PageConfig, assets []*domain.MediaAsset, eventID string) *domain.PageNode
}

// Resolver resolves a template identifier to a renderer. Satisfied by
// *Registry; tests may substitute a fake.
type Resolver interface {
	Resolve(templateID string) (Renderer, string)
}

// Registry is the process-wide renderer table. It is constructed once and
// never mutated; all access goes through Resolve.
type Registry struct {
	renderers map[string]Renderer
	defaultID string
}

// NewRegistry builds the registry with all built-in templates.
func NewRegistry() *Registry {
	return &Registry{
		renderers: map[string]Renderer{
			"classic": &classicRenderer{},
			"gala":    &galaRenderer{},
		},
		defaultID: DefaultTemplateID,
	}
}

// Resolve returns the renderer for templateID and the identifier actually
// used. Unknown identifiers resolve to the default template.
func (r *Registry) Resolve(templateID string) (Renderer, string) {
	if renderer, ok := r.renderers[templateID]; ok {
		return renderer, templateID
	}
	return r.renderers[r.defaultID], r.defaultID
}

// Known reports whether templateID is registered, for validating template
// selection on event updates.
func (r *Registry) Known(templateID string) bool {
	_, ok := r.renderers[templateID]
	return ok
}

// WithPreviewBanner prepends a non-indexable preview banner to a rendered
// page. Preview output is otherwise identical to the public render.
func WithPreviewBanner(page *domain.PageNode) *domain.PageNode {
	if page == nil {
		return nil
	}
	banner := &domain.PageNode{
		Kind:  "preview-banner",
		Attrs: map[string]string{"robots": "noindex"},
		Text:  "Preview — this page is not public",
	}
	out := *page
	out.Children = append([]*domain.PageNode{banner}, page.Children...)
	return &out
}

// indexAssets builds an id lookup over the event's assets.
func indexAssets(assets []*domain.MediaAsset) map[string]*domain.MediaAsset {
	idx := make(map[string]*domain.MediaAsset, len(assets))
	for _, a := range assets {
		idx[a.ID] = a
	}
	return idx
}

// imageNode resolves an asset reference into an image node. A missing or
// unknown reference yields nil (no image), never an error.
func imageNode(idx map[string]*domain.MediaAsset, assetID string) *domain.PageNode {
	if assetID == "" {
		return nil
	}
	asset, ok := idx[assetID]
	if !ok {
		return nil
	}
	return &domain.PageNode{
		Kind: "image",
		Attrs: map[string]string{
			"src": asset.PublicURL,
			"alt": asset.AltText,
		},
	}
}

// decodeData decodes a section payload, tolerating absent or malformed data
// by returning the zero value.
func decodeData[T any](raw json.RawMessage) T {
	var v T
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &v)
	}
	return v
}

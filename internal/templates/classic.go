package templates

import (
	"strconv"

	"eventpages/internal/domain"
)

// classicRenderer is the default template: a single-column page with plain
// section blocks.
type classicRenderer struct{}

func (t *classicRenderer) Render(cfg *domain.PageConfig, assets []*domain.MediaAsset, eventID string) *domain.PageNode {
	idx := indexAssets(assets)
	page := &domain.PageNode{
		Kind: "page",
		Attrs: map[string]string{
			"template":     "classic",
			"preset":       cfg.Theme.Preset,
			"primaryColor": cfg.Theme.PrimaryColor,
			"fontPairing":  cfg.Theme.FontPairing,
		},
	}
	page.Children = append(page.Children, t.hero(cfg.Hero, idx))
	for _, sec := range cfg.Sections {
		if !sec.Enabled {
			continue
		}
		if node := t.section(sec, idx, eventID); node != nil {
			page.Children = append(page.Children, node)
		}
	}
	return page
}

func (t *classicRenderer) hero(h domain.Hero, idx map[string]*domain.MediaAsset) *domain.PageNode {
	node := &domain.PageNode{
		Kind: "hero",
		Attrs: map[string]string{
			"align":   h.Align,
			"overlay": h.Overlay,
		},
		Children: []*domain.PageNode{
			{Kind: "title", Text: h.Title},
		},
	}
	if h.Subtitle != "" {
		node.Children = append(node.Children, &domain.PageNode{Kind: "subtitle", Text: h.Subtitle})
	}
	if img := imageNode(idx, h.ImageAssetID); img != nil {
		node.Children = append(node.Children, img)
	}
	return node
}

// section dispatches on the section type. Unrecognized types return nil and
// are skipped, so configs written for newer templates still render.
func (t *classicRenderer) section(sec domain.Section, idx map[string]*domain.MediaAsset, eventID string) *domain.PageNode {
	switch sec.Type {
	case domain.SectionDetails:
		data := decodeData[domain.DetailsData](sec.Data)
		return &domain.PageNode{
			Kind: "section",
			Attrs: map[string]string{"type": domain.SectionDetails},
			Children: []*domain.PageNode{
				{Kind: "heading", Text: data.Heading},
				{Kind: "paragraph", Text: data.Body},
			},
		}
	case domain.SectionSchedule:
		data := decodeData[domain.ScheduleData](sec.Data)
		node := &domain.PageNode{Kind: "section", Attrs: map[string]string{"type": domain.SectionSchedule}}
		for _, item := range data.Items {
			node.Children = append(node.Children, &domain.PageNode{
				Kind:  "schedule-item",
				Attrs: map[string]string{"time": item.Time},
				Text:  item.Title,
			})
		}
		return node
	case domain.SectionFAQ:
		data := decodeData[domain.FAQData](sec.Data)
		node := &domain.PageNode{Kind: "section", Attrs: map[string]string{"type": domain.SectionFAQ}}
		for _, item := range data.Items {
			node.Children = append(node.Children, &domain.PageNode{
				Kind: "faq-item",
				Children: []*domain.PageNode{
					{Kind: "question", Text: item.Question},
					{Kind: "answer", Text: item.Answer},
				},
			})
		}
		return node
	case domain.SectionGallery:
		data := decodeData[domain.GalleryData](sec.Data)
		node := &domain.PageNode{
			Kind:  "section",
			Attrs: map[string]string{"type": domain.SectionGallery, "layout": "grid"},
		}
		for _, id := range data.AssetIDs {
			if img := imageNode(idx, id); img != nil {
				node.Children = append(node.Children, img)
			}
		}
		if data.Caption != "" {
			node.Children = append(node.Children, &domain.PageNode{Kind: "caption", Text: data.Caption})
		}
		return node
	case domain.SectionRSVP:
		data := decodeData[domain.RSVPData](sec.Data)
		label := data.ButtonLabel
		if label == "" {
			label = "RSVP"
		}
		return &domain.PageNode{
			Kind:  "section",
			Attrs: map[string]string{"type": domain.SectionRSVP, "event": eventID},
			Children: []*domain.PageNode{
				{Kind: "prompt", Text: data.Prompt},
				{Kind: "button", Text: label},
			},
		}
	case domain.SectionSpeakers:
		data := decodeData[domain.SpeakersData](sec.Data)
		node := &domain.PageNode{Kind: "section", Attrs: map[string]string{"type": domain.SectionSpeakers}}
		for _, sp := range data.Speakers {
			card := &domain.PageNode{
				Kind:  "speaker",
				Attrs: map[string]string{"role": sp.Role},
				Text:  sp.Name,
			}
			if img := imageNode(idx, sp.PhotoAssetID); img != nil {
				card.Children = append(card.Children, img)
			}
			node.Children = append(node.Children, card)
		}
		return node
	case domain.SectionSponsors:
		data := decodeData[domain.SponsorsData](sec.Data)
		node := &domain.PageNode{Kind: "section", Attrs: map[string]string{"type": domain.SectionSponsors}}
		for _, sp := range data.Sponsors {
			card := &domain.PageNode{
				Kind:  "sponsor",
				Attrs: map[string]string{"url": sp.URL},
				Text:  sp.Name,
			}
			if img := imageNode(idx, sp.LogoAssetID); img != nil {
				card.Children = append(card.Children, img)
			}
			node.Children = append(node.Children, card)
		}
		return node
	case domain.SectionMap:
		data := decodeData[domain.MapData](sec.Data)
		attrs := map[string]string{"type": domain.SectionMap}
		if data.Lat != nil && data.Lng != nil {
			attrs["lat"] = strconv.FormatFloat(*data.Lat, 'f', -1, 64)
			attrs["lng"] = strconv.FormatFloat(*data.Lng, 'f', -1, 64)
		}
		return &domain.PageNode{
			Kind:     "section",
			Attrs:    attrs,
			Children: []*domain.PageNode{{Kind: "address", Text: data.Address}},
		}
	default:
		return nil
	}
}

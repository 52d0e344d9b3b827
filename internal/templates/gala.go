package templates

import (
	"strconv"

	"eventpages/internal/domain"
)

// galaRenderer is a formal, full-bleed treatment of the same config: panelled
// sections, carousel gallery, banner hero. Section order and enabled flags are
// honored exactly as in classic.
type galaRenderer struct{}

func (t *galaRenderer) Render(cfg *domain.PageConfig, assets []*domain.MediaAsset, eventID string) *domain.PageNode {
	idx := indexAssets(assets)
	page := &domain.PageNode{
		Kind: "page",
		Attrs: map[string]string{
			"template":     "gala",
			"preset":       cfg.Theme.Preset,
			"primaryColor": cfg.Theme.PrimaryColor,
			"fontPairing":  cfg.Theme.FontPairing,
		},
	}

	hero := &domain.PageNode{
		Kind: "hero-banner",
		Attrs: map[string]string{
			"align":   cfg.Hero.Align,
			"overlay": cfg.Hero.Overlay,
		},
		Children: []*domain.PageNode{{Kind: "title", Text: cfg.Hero.Title}},
	}
	if cfg.Hero.Subtitle != "" {
		hero.Children = append(hero.Children, &domain.PageNode{Kind: "tagline", Text: cfg.Hero.Subtitle})
	}
	if img := imageNode(idx, cfg.Hero.ImageAssetID); img != nil {
		hero.Children = append(hero.Children, img)
	}
	page.Children = append(page.Children, hero)

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

func (t *galaRenderer) section(sec domain.Section, idx map[string]*domain.MediaAsset, eventID string) *domain.PageNode {
	panel := func(children ...*domain.PageNode) *domain.PageNode {
		return &domain.PageNode{
			Kind:     "panel",
			Attrs:    map[string]string{"type": sec.Type},
			Children: children,
		}
	}
	switch sec.Type {
	case domain.SectionDetails:
		data := decodeData[domain.DetailsData](sec.Data)
		return panel(
			&domain.PageNode{Kind: "heading", Text: data.Heading},
			&domain.PageNode{Kind: "prose", Text: data.Body},
		)
	case domain.SectionSchedule:
		data := decodeData[domain.ScheduleData](sec.Data)
		node := panel()
		for _, item := range data.Items {
			node.Children = append(node.Children, &domain.PageNode{
				Kind:  "timeline-entry",
				Attrs: map[string]string{"time": item.Time},
				Text:  item.Title,
			})
		}
		return node
	case domain.SectionFAQ:
		data := decodeData[domain.FAQData](sec.Data)
		node := panel()
		for _, item := range data.Items {
			node.Children = append(node.Children, &domain.PageNode{
				Kind:  "accordion-item",
				Attrs: map[string]string{"question": item.Question},
				Text:  item.Answer,
			})
		}
		return node
	case domain.SectionGallery:
		data := decodeData[domain.GalleryData](sec.Data)
		node := &domain.PageNode{
			Kind:  "panel",
			Attrs: map[string]string{"type": domain.SectionGallery, "layout": "carousel"},
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
			label = "Request an invitation"
		}
		return panel(
			&domain.PageNode{Kind: "prompt", Text: data.Prompt},
			&domain.PageNode{Kind: "button", Attrs: map[string]string{"event": eventID, "style": "outline"}, Text: label},
		)
	case domain.SectionSpeakers:
		data := decodeData[domain.SpeakersData](sec.Data)
		node := panel()
		for _, sp := range data.Speakers {
			card := &domain.PageNode{
				Kind:  "portrait",
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
		node := panel()
		for _, sp := range data.Sponsors {
			card := &domain.PageNode{
				Kind:  "sponsor-crest",
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
		node := panel(&domain.PageNode{Kind: "address", Text: data.Address})
		if data.Lat != nil && data.Lng != nil {
			node.Attrs["lat"] = strconv.FormatFloat(*data.Lat, 'f', -1, 64)
			node.Attrs["lng"] = strconv.FormatFloat(*data.Lng, 'f', -1, 64)
		}
		return node
	default:
		return nil
	}
}

package domain

import "encoding/json"

// CurrentSchemaVersion is the schema version every config must satisfy after
// validation and migration.
const CurrentSchemaVersion = 3

// Hero alignment values.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
)

// Hero overlay values.
const (
	OverlayNone   = "none"
	OverlaySoft   = "soft"
	OverlayStrong = "strong"
)

// Section types. The set is closed for validation; renderers skip types they
// do not recognize.
const (
	SectionDetails  = "details"
	SectionSchedule = "schedule"
	SectionFAQ      = "faq"
	SectionGallery  = "gallery"
	SectionRSVP     = "rsvp"
	SectionSpeakers = "speakers"
	SectionSponsors = "sponsors"
	SectionMap      = "map"
)

// Theme describes the visual theme of an event page.
type Theme struct {
	Preset       string `json:"preset"`
	PrimaryColor string `json:"primaryColor"`
	FontPairing  string `json:"fontPairing"`
}

// Hero describes the top banner of an event page. ImageAssetID references a
// MediaAsset by id; the asset itself is never embedded.
type Hero struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle,omitempty"`
	ImageAssetID string `json:"imageAssetId,omitempty"`
	Align        string `json:"align"`
	Overlay      string `json:"overlay"`
}

// Section is one typed, independently enable-able content block. Array order
// is render order; disabled sections are skipped entirely.
type Section struct {
	Type    string          `json:"type"`
	Enabled bool            `json:"enabled"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// UnmarshalJSON defaults Enabled to true when the key is absent, so documents
// written before the enabled flag existed (and hand-written payloads that omit
// it) keep their sections visible.
func (s *Section) UnmarshalJSON(b []byte) error {
	type alias struct {
		Type    string          `json:"type"`
		Enabled *bool           `json:"enabled"`
		Data    json.RawMessage `json:"data"`
	}
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	s.Type = a.Type
	s.Data = a.Data
	s.Enabled = a.Enabled == nil || *a.Enabled
	return nil
}

// PageConfig is the versioned document describing an event's public page.
// It is stored as JSONB on the event and snapshotted into version rows; the
// stored shape is never trusted and is re-validated on every read.
type PageConfig struct {
	SchemaVersion int       `json:"schemaVersion"`
	Theme         Theme     `json:"theme"`
	Hero          Hero      `json:"hero"`
	Sections      []Section `json:"sections"`
}

// Per-type section payloads. Renderers decode Section.Data into these; a
// payload that fails to decode renders as its zero value.

// DetailsData is the payload for a "details" section.
type DetailsData struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// ScheduleItem is one entry in a "schedule" section.
type ScheduleItem struct {
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ScheduleData is the payload for a "schedule" section.
type ScheduleData struct {
	Items []ScheduleItem `json:"items"`
}

// FAQItem is one question/answer pair in a "faq" section.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQData is the payload for a "faq" section.
type FAQData struct {
	Items []FAQItem `json:"items"`
}

// GalleryData is the payload for a "gallery" section. AssetIDs reference
// MediaAssets by id; unresolved ids render as no image.
type GalleryData struct {
	AssetIDs []string `json:"assetIds"`
	Caption  string   `json:"caption,omitempty"`
}

// RSVPData is the payload for an "rsvp" section.
type RSVPData struct {
	Prompt      string `json:"prompt"`
	ButtonLabel string `json:"buttonLabel"`
}

// Speaker is one entry in a "speakers" section.
type Speaker struct {
	Name         string `json:"name"`
	Role         string `json:"role,omitempty"`
	PhotoAssetID string `json:"photoAssetId,omitempty"`
}

// SpeakersData is the payload for a "speakers" section.
type SpeakersData struct {
	Speakers []Speaker `json:"speakers"`
}

// Sponsor is one entry in a "sponsors" section.
type Sponsor struct {
	Name        string `json:"name"`
	LogoAssetID string `json:"logoAssetId,omitempty"`
	URL         string `json:"url,omitempty"`
}

// SponsorsData is the payload for a "sponsors" section.
type SponsorsData struct {
	Sponsors []Sponsor `json:"sponsors"`
}

// MapData is the payload for a "map" section.
type MapData struct {
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

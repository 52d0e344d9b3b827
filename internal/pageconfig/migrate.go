package pageconfig

import (
	"encoding/json"
	"fmt"

	"eventpages/internal/domain"
)

// migrations upgrade a raw document from version N to N+1. They apply
// strictly in ascending order; a document already at the current version
// skips migration entirely.
var migrations = map[int]func([]byte) ([]byte, error){
	1: migrateV1toV2,
	2: migrateV2toV3,
}

// ValidateAndMigrate takes an arbitrary stored value and returns a config
// satisfying the current schema, or an error. A document that validates at
// the current version is returned as-is (idempotent no-op). Otherwise known
// migrations are applied ascending from the document's apparent version,
// re-validating after each step. Callers on render paths must catch
// *MigrationError / *ValidationError and substitute CreateMinimalConfig.
func ValidateAndMigrate(raw []byte) (*domain.PageConfig, error) {
	if len(raw) == 0 {
		return nil, &MigrationError{Version: 0, Reason: "empty document"}
	}
	if cfg, ok := tryCurrent(raw); ok {
		return cfg, nil
	}

	v := apparentVersion(raw)
	if v > domain.CurrentSchemaVersion {
		return nil, &MigrationError{Version: v, Reason: "document is from a newer schema"}
	}
	doc := raw
	for v < domain.CurrentSchemaVersion {
		step, ok := migrations[v]
		if !ok {
			return nil, &MigrationError{Version: v, Reason: "no known transform"}
		}
		out, err := step(doc)
		if err != nil {
			return nil, &MigrationError{Version: v, Reason: err.Error()}
		}
		doc = out
		v++
		if cfg, ok := tryCurrent(doc); ok {
			return cfg, nil
		}
	}

	// Every step applied and the result still fails validation; report why.
	var cfg domain.PageConfig
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, &MigrationError{Version: v, Reason: err.Error()}
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// tryCurrent decodes raw and checks it against the current schema.
func tryCurrent(raw []byte) (*domain.PageConfig, bool) {
	var cfg domain.PageConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, false
	}
	if cfg.SchemaVersion != domain.CurrentSchemaVersion {
		return nil, false
	}
	if err := Validate(&cfg); err != nil {
		return nil, false
	}
	if cfg.Sections == nil {
		cfg.Sections = []domain.Section{}
	}
	return &cfg, true
}

// apparentVersion reads schemaVersion from the raw document. Legacy documents
// predate the field; its absence (or unparseable JSON) means version 1.
func apparentVersion(raw []byte) int {
	var probe struct {
		SchemaVersion int `json:"schemaVersion"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return 1
	}
	if probe.SchemaVersion == 0 {
		return 1
	}
	return probe.SchemaVersion
}

// v1 documents were flat: hero fields at the top level and the theme a bare
// color string.
type v1Document struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Color    string `json:"color"`
	Sections []struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	} `json:"sections"`
}

func migrateV1toV2(raw []byte) ([]byte, error) {
	var doc v1Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode v1 document: %w", err)
	}
	color := doc.Color
	if color == "" {
		color = DefaultPrimaryColor
	}
	out := map[string]any{
		"schemaVersion": 2,
		"theme": map[string]any{
			"preset":       DefaultPreset,
			"primaryColor": color,
			"fontPairing":  DefaultFontPairing,
		},
		"hero": map[string]any{
			"title":    doc.Title,
			"subtitle": doc.Subtitle,
		},
		"sections": doc.Sections,
	}
	return json.Marshal(out)
}

// v2 documents had the current nesting but no enabled flag, alignment, or overlay.
type v2Document struct {
	SchemaVersion int          `json:"schemaVersion"`
	Theme         domain.Theme `json:"theme"`
	Hero          struct {
		Title        string `json:"title"`
		Subtitle     string `json:"subtitle"`
		ImageAssetID string `json:"imageAssetId"`
	} `json:"hero"`
	Sections []struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	} `json:"sections"`
}

func migrateV2toV3(raw []byte) ([]byte, error) {
	var doc v2Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode v2 document: %w", err)
	}
	sections := make([]map[string]any, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		sections = append(sections, map[string]any{
			"type":    s.Type,
			"enabled": true,
			"data":    s.Data,
		})
	}
	out := map[string]any{
		"schemaVersion": 3,
		"theme":         doc.Theme,
		"hero": map[string]any{
			"title":        doc.Hero.Title,
			"subtitle":     doc.Hero.Subtitle,
			"imageAssetId": doc.Hero.ImageAssetID,
			"align":        domain.AlignCenter,
			"overlay":      domain.OverlaySoft,
		},
		"sections": sections,
	}
	return json.Marshal(out)
}

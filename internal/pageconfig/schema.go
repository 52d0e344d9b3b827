// Package pageconfig validates and migrates event page documents. The stored
// shape is never trusted: every read re-runs full validation, and the schema
// here is the single source of truth rather than the storage layer's type.
package pageconfig

import (
	"fmt"
	"regexp"
	"strings"

	"eventpages/internal/domain"
)

// Defaults used by migrations and the minimal fallback config.
const (
	DefaultPreset       = "midnight"
	DefaultPrimaryColor = "#4f46e5"
	DefaultFontPairing  = "serif-sans"
	UntitledEventTitle  = "Untitled event"
)

var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var knownSectionTypes = map[string]struct{}{
	domain.SectionDetails:  {},
	domain.SectionSchedule: {},
	domain.SectionFAQ:      {},
	domain.SectionGallery:  {},
	domain.SectionRSVP:     {},
	domain.SectionSpeakers: {},
	domain.SectionSponsors: {},
	domain.SectionMap:      {},
}

// Validate checks cfg against the current schema. It returns a
// *ValidationError listing every problem found, or nil.
func Validate(cfg *domain.PageConfig) error {
	var problems []string
	if cfg == nil {
		return &ValidationError{Problems: []string{"config is nil"}}
	}
	if cfg.SchemaVersion != domain.CurrentSchemaVersion {
		problems = append(problems, fmt.Sprintf("schemaVersion must be %d, got %d", domain.CurrentSchemaVersion, cfg.SchemaVersion))
	}
	if cfg.Theme.Preset == "" {
		problems = append(problems, "theme.preset is required")
	}
	if !hexColorRegex.MatchString(cfg.Theme.PrimaryColor) {
		problems = append(problems, "theme.primaryColor must be a hex color")
	}
	if cfg.Theme.FontPairing == "" {
		problems = append(problems, "theme.fontPairing is required")
	}
	if strings.TrimSpace(cfg.Hero.Title) == "" {
		problems = append(problems, "hero.title is required")
	}
	if cfg.Hero.Align != domain.AlignLeft && cfg.Hero.Align != domain.AlignCenter {
		problems = append(problems, fmt.Sprintf("hero.align must be %q or %q", domain.AlignLeft, domain.AlignCenter))
	}
	switch cfg.Hero.Overlay {
	case domain.OverlayNone, domain.OverlaySoft, domain.OverlayStrong:
	default:
		problems = append(problems, fmt.Sprintf("hero.overlay must be one of %q, %q, %q", domain.OverlayNone, domain.OverlaySoft, domain.OverlayStrong))
	}
	for i, sec := range cfg.Sections {
		if _, ok := knownSectionTypes[sec.Type]; !ok {
			problems = append(problems, fmt.Sprintf("sections[%d].type %q is not supported", i, sec.Type))
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// CreateMinimalConfig produces a schema-valid config with only a hero derived
// from the given title and no body sections. It is the universal fallback for
// render paths and always succeeds.
func CreateMinimalConfig(title string) *domain.PageConfig {
	title = strings.TrimSpace(title)
	if title == "" {
		title = UntitledEventTitle
	}
	return &domain.PageConfig{
		SchemaVersion: domain.CurrentSchemaVersion,
		Theme: domain.Theme{
			Preset:       DefaultPreset,
			PrimaryColor: DefaultPrimaryColor,
			FontPairing:  DefaultFontPairing,
		},
		Hero: domain.Hero{
			Title:   title,
			Align:   domain.AlignCenter,
			Overlay: domain.OverlaySoft,
		},
		Sections: []domain.Section{},
	}
}

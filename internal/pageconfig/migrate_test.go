package pageconfig

import (
	"encoding/json"
	"strings"
	"testing"

	"eventpages/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCurrentConfig() *domain.PageConfig {
	return &domain.PageConfig{
		SchemaVersion: domain.CurrentSchemaVersion,
		Theme: domain.Theme{
			Preset:       "midnight",
			PrimaryColor: "#4f46e5",
			FontPairing:  "serif-sans",
		},
		Hero: domain.Hero{
			Title:    "Launch Party",
			Subtitle: "Doors at 7",
			Align:    domain.AlignCenter,
			Overlay:  domain.OverlaySoft,
		},
		Sections: []domain.Section{
			{Type: domain.SectionDetails, Enabled: true, Data: json.RawMessage(`{"heading":"About","body":"Come along"}`)},
			{Type: domain.SectionRSVP, Enabled: false, Data: json.RawMessage(`{"prompt":"Coming?","buttonLabel":"RSVP"}`)},
		},
	}
}

func TestValidateAndMigrate_IdempotentOnCurrent(t *testing.T) {
	cfg := validCurrentConfig()
	raw, err := json.Marshal(cfg)
	require.NoError(t, err)

	got, err := ValidateAndMigrate(raw)
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}

func TestValidateAndMigrate_LegacyV1(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "v1 with explicit version",
			raw:  `{"schemaVersion":1,"title":"Summer Gala","subtitle":"Black tie","color":"#aa3366","sections":[{"type":"details","data":{"heading":"About","body":"An evening"}}]}`,
		},
		{
			name: "v1 without version field",
			raw:  `{"title":"Summer Gala","subtitle":"Black tie","color":"#aa3366","sections":[{"type":"faq","data":{"items":[]}}]}`,
		},
		{
			name: "v1 without color falls back to default",
			raw:  `{"title":"Summer Gala","sections":[]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateAndMigrate([]byte(tt.raw))
			require.NoError(t, err)
			require.NoError(t, Validate(got))
			assert.Equal(t, domain.CurrentSchemaVersion, got.SchemaVersion)
			assert.Equal(t, "Summer Gala", got.Hero.Title)
			assert.Equal(t, domain.AlignCenter, got.Hero.Align)
			assert.Equal(t, domain.OverlaySoft, got.Hero.Overlay)
			for _, sec := range got.Sections {
				assert.True(t, sec.Enabled, "migrated sections default to enabled")
			}
		})
	}
}

func TestValidateAndMigrate_LegacyV2(t *testing.T) {
	raw := `{
		"schemaVersion": 2,
		"theme": {"preset":"dawn","primaryColor":"#123abc","fontPairing":"mono"},
		"hero": {"title":"Demo Day","subtitle":"","imageAssetId":"asset-9"},
		"sections": [
			{"type":"schedule","data":{"items":[{"time":"10:00","title":"Keynote"}]}},
			{"type":"sponsors","data":{"sponsors":[]}}
		]
	}`
	got, err := ValidateAndMigrate([]byte(raw))
	require.NoError(t, err)
	require.NoError(t, Validate(got))
	assert.Equal(t, "dawn", got.Theme.Preset)
	assert.Equal(t, "asset-9", got.Hero.ImageAssetID)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, domain.SectionSchedule, got.Sections[0].Type)
	assert.True(t, got.Sections[0].Enabled)
	assert.True(t, got.Sections[1].Enabled)
}

func TestValidateAndMigrate_Failures(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		isMigration bool
	}{
		{name: "empty document", raw: "", isMigration: true},
		{name: "not json", raw: "hero: nope", isMigration: true},
		{name: "newer schema version", raw: `{"schemaVersion":99,"theme":{},"hero":{},"sections":[]}`, isMigration: true},
		{name: "v1 with unsupported section type", raw: `{"title":"X","sections":[{"type":"countdown","data":{}}]}`, isMigration: false},
		{name: "v1 with empty title", raw: `{"sections":[]}`, isMigration: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateAndMigrate([]byte(tt.raw))
			require.Error(t, err)
			require.Nil(t, got)
			var migErr *MigrationError
			var valErr *ValidationError
			if tt.isMigration {
				require.ErrorAs(t, err, &migErr)
			} else {
				require.ErrorAs(t, err, &valErr)
			}
		})
	}
}

func TestValidateAndMigrate_DisabledSectionSurvives(t *testing.T) {
	cfg := validCurrentConfig()
	raw, err := json.Marshal(cfg)
	require.NoError(t, err)

	got, err := ValidateAndMigrate(raw)
	require.NoError(t, err)
	require.Len(t, got.Sections, 2)
	assert.True(t, got.Sections[0].Enabled)
	assert.False(t, got.Sections[1].Enabled, "explicit enabled:false must not be reset")
}

func TestSectionUnmarshal_EnabledDefaultsTrue(t *testing.T) {
	var sec domain.Section
	require.NoError(t, json.Unmarshal([]byte(`{"type":"details","data":{"heading":"A","body":"B"}}`), &sec))
	assert.True(t, sec.Enabled)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"details","enabled":false}`), &sec))
	assert.False(t, sec.Enabled)
}

func TestCreateMinimalConfig(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		wantTitle string
	}{
		{name: "normal title", title: "Team Offsite", wantTitle: "Team Offsite"},
		{name: "empty string", title: "", wantTitle: UntitledEventTitle},
		{name: "whitespace only", title: "   \t\n ", wantTitle: UntitledEventTitle},
		{name: "very long title", title: strings.Repeat("x", 10000), wantTitle: strings.Repeat("x", 10000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := CreateMinimalConfig(tt.title)
			require.NotNil(t, cfg)
			require.NoError(t, Validate(cfg), "minimal config must always be schema-valid")
			assert.Equal(t, tt.wantTitle, cfg.Hero.Title)
			assert.Empty(t, cfg.Sections)
		})
	}
}

func TestValidate_Problems(t *testing.T) {
	cfg := validCurrentConfig()
	cfg.SchemaVersion = 2
	cfg.Theme.PrimaryColor = "blue"
	cfg.Hero.Align = "justify"
	err := Validate(cfg)
	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Len(t, valErr.Problems, 3)
}

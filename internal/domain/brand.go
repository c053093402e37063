package domain

import "strings"

// Brand aggregates everything the prompt pipeline knows about a tenant:
// identity, visual assets, palette, typography, voice, and the optional
// style guide. The row itself is owned by the external database; this type
// only mirrors the fields the generation pipeline reads. An absent field
// means "no opinion", never an error.
type Brand struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slogan      string          `json:"slogan,omitempty"`
	Domain      string          `json:"domain,omitempty"`
	Description string          `json:"description,omitempty"`
	Logos       BrandLogos      `json:"logos"`
	Backdrops   []string        `json:"backdrops,omitempty"`
	Screenshot  string          `json:"screenshot,omitempty"`
	Colors      BrandColors     `json:"colors"`
	Typography  BrandTypography `json:"typography"`
	Voice       BrandVoice      `json:"voice"`
	StyleGuide  *StyleGuide     `json:"style_guide,omitempty"`
}

// BrandLogos holds logo URLs keyed by role.
type BrandLogos struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
	Icon      string `json:"icon,omitempty"`
}

// BrandColors is the palette. Every value is a "#RRGGBB" hex string; empty
// means no opinion.
type BrandColors struct {
	Primary    string `json:"primary,omitempty"`
	Secondary  string `json:"secondary,omitempty"`
	Background string `json:"background,omitempty"`
	Surface    string `json:"surface,omitempty"`
	Text       string `json:"text,omitempty"`
}

// BrandTypography carries display labels for the brand's fonts.
type BrandTypography struct {
	Heading string `json:"heading,omitempty"`
	Body    string `json:"body,omitempty"`
}

// BrandVoice describes tone of voice for generated copy.
type BrandVoice struct {
	Formality  string   `json:"formality,omitempty"`
	Energy     string   `json:"energy,omitempty"`
	Adjectives []string `json:"adjectives,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
}

// StyleGuide is the optional free-text plus structured styling block.
type StyleGuide struct {
	Summary     string         `json:"summary,omitempty"`
	Industry    string         `json:"industry,omitempty"`
	KeyServices []string       `json:"key_services,omitempty"`
	Personality *AdPersonality `json:"ad_personality,omitempty"`
}

// AdPersonality holds the enumerated categorical style-profile fields. All
// fields are soft guidelines for the prompt composer: they bias output, they
// never mandate it. Boolean flags use pointers so "unset" stays distinct
// from "false".
type AdPersonality struct {
	VisualApproach     string   `json:"visual_approach,omitempty"`
	ImagerySubjects    []string `json:"imagery_subjects,omitempty"`
	Theme              string   `json:"theme,omitempty"`
	LayoutDensity      string   `json:"layout_density,omitempty"`
	Whitespace         string   `json:"whitespace,omitempty"`
	ShapeLanguage      string   `json:"shape_language,omitempty"`
	ImageryType        string   `json:"imagery_type,omitempty"`
	ContrastMode       string   `json:"contrast_mode,omitempty"`
	UseGradients       *bool    `json:"use_gradients,omitempty"`
	UseDuotone         *bool    `json:"use_duotone,omitempty"`
	TypographyCategory string   `json:"typography_category,omitempty"`
	HeadlineStyle      string   `json:"headline_style,omitempty"`
	MotionEnergy       string   `json:"motion_energy,omitempty"`
	UseShadows         *bool    `json:"use_shadows,omitempty"`
	UseBorders         *bool    `json:"use_borders,omitempty"`
	UsePatterns        *bool    `json:"use_patterns,omitempty"`
	UseTextures        *bool    `json:"use_textures,omitempty"`
	Archetypes         []string `json:"archetypes,omitempty"`
}

// Personality returns the structured style profile, or nil when the brand
// carries no style guide.
func (b *Brand) Personality() *AdPersonality {
	if b == nil || b.StyleGuide == nil {
		return nil
	}
	return b.StyleGuide.Personality
}

// Summary returns the free-text style-guide summary, if any.
func (b *Brand) Summary() string {
	if b == nil || b.StyleGuide == nil {
		return ""
	}
	return strings.TrimSpace(b.StyleGuide.Summary)
}

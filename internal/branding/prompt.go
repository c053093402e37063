package branding

import (
	"fmt"
	"strings"

	"brandforge/internal/domain"
)

// Defaults applied when a brand has no opinion. Generic values are
// deliberately injected instead of omitting the line, so the image model
// never receives an underspecified prompt.
const (
	defaultColorGuidance = "modern, professional colors"
	defaultVoiceGuidance = "Professional and approachable"
)

// HardConstraints serializes the brand attributes the image model must
// always obey: identity, exact palette, the mandatory logo directive,
// typography, and voice.
func HardConstraints(brand *domain.Brand) string {
	var b strings.Builder
	b.WriteString("BRAND REQUIREMENTS (must be obeyed):\n")
	if brand == nil {
		fmt.Fprintf(&b, "- Color palette: %s\n", defaultColorGuidance)
		fmt.Fprintf(&b, "- Tone of voice: %s\n", defaultVoiceGuidance)
		return b.String()
	}

	if brand.Name != "" {
		fmt.Fprintf(&b, "- Brand name: %s\n", brand.Name)
	}
	if brand.Slogan != "" {
		fmt.Fprintf(&b, "- Tagline: %q\n", brand.Slogan)
	}
	if brand.Domain != "" {
		fmt.Fprintf(&b, "- Website: %s\n", brand.Domain)
	}
	if brand.Description != "" {
		fmt.Fprintf(&b, "- About the brand: %s\n", brand.Description)
	}

	if palette := describePalette(brand.Colors); palette != "" {
		fmt.Fprintf(&b, "- Color palette (use these exact colors): %s\n", palette)
	} else {
		fmt.Fprintf(&b, "- Color palette: %s\n", defaultColorGuidance)
	}

	if brand.Logos.Primary != "" {
		b.WriteString("- The brand logo MUST be included in the design, reproduced exactly as provided, never redrawn or restyled.\n")
	}

	if brand.Typography.Heading != "" || brand.Typography.Body != "" {
		fmt.Fprintf(&b, "- Typography: headings in %s, body text in %s\n",
			valueOr(brand.Typography.Heading, "a clean sans-serif"),
			valueOr(brand.Typography.Body, "a readable sans-serif"))
	}

	fmt.Fprintf(&b, "- Tone of voice: %s\n", describeVoice(brand.Voice))
	return b.String()
}

// SoftGuidelines serializes the optional style-profile fields. These bias
// the output, they never mandate it; each absent field degrades to a generic
// default or is skipped when no useful default exists.
func SoftGuidelines(brand *domain.Brand) string {
	p := brand.Personality()
	if p == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("STYLE GUIDELINES (preferences, not mandates):\n")
	writeIf(&b, "Overall theme", p.Theme)
	writeIf(&b, "Layout density", p.LayoutDensity)
	writeIf(&b, "Whitespace", p.Whitespace)
	writeIf(&b, "Shape language", p.ShapeLanguage)
	writeIf(&b, "Imagery type", p.ImageryType)
	writeIf(&b, "Contrast", p.ContrastMode)
	if p.UseGradients != nil {
		writeFlag(&b, "gradients", *p.UseGradients)
	}
	if p.UseDuotone != nil {
		writeFlag(&b, "duotone treatments", *p.UseDuotone)
	}
	if p.TypographyCategory != "" || p.HeadlineStyle != "" {
		fmt.Fprintf(&b, "- Typography feeling: %s headlines, %s overall\n",
			valueOr(p.HeadlineStyle, "confident"),
			valueOr(p.TypographyCategory, "modern"))
	}
	writeIf(&b, "Motion and energy", p.MotionEnergy)
	elementFlags := []struct {
		label string
		flag  *bool
	}{
		{"drop shadows", p.UseShadows},
		{"borders", p.UseBorders},
		{"patterns", p.UsePatterns},
		{"textures", p.UseTextures},
	}
	for _, e := range elementFlags {
		if e.flag != nil {
			writeFlag(&b, e.label, *e.flag)
		}
	}
	if len(p.Archetypes) > 0 {
		fmt.Fprintf(&b, "- Brand archetypes: %s\n", strings.Join(p.Archetypes, ", "))
	}
	if b.Len() == len("STYLE GUIDELINES (preferences, not mandates):\n") {
		return ""
	}
	return b.String()
}

// AssetInstructions writes one instruction block per attached asset. The
// must_include / style_reference wording here propagates unchanged into the
// final prompt; it is the only signal the image model gets about which
// attached images are mandatory content versus mood boards.
func AssetInstructions(assets []domain.AssetRef) string {
	if len(assets) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("ATTACHED IMAGES:\n")
	for _, asset := range assets {
		switch asset.Role {
		case domain.AssetRoleStyleReference:
			fmt.Fprintf(&b, "- %q is a STYLE REFERENCE: let it influence mood, lighting, and style only. Do NOT copy it or reproduce its content verbatim.\n", asset.DisplayName())
		default:
			fmt.Fprintf(&b, "- %q MUST be included in the design, reproduced faithfully and without alteration.\n", asset.DisplayName())
		}
	}
	return b.String()
}

// AssetInstruction returns the single-asset instruction line used when text
// parts are interleaved with image parts in the outbound request.
func AssetInstruction(asset domain.AssetRef) string {
	if asset.Role == domain.AssetRoleStyleReference {
		return fmt.Sprintf("The next image (%q) is a style reference: use it for mood and style inspiration only, never copy it verbatim.", asset.DisplayName())
	}
	return fmt.Sprintf("The next image (%q) must appear in the final design, reproduced faithfully.", asset.DisplayName())
}

func describePalette(colors domain.BrandColors) string {
	entries := []struct {
		role string
		hex  string
	}{
		{"primary", colors.Primary},
		{"secondary", colors.Secondary},
		{"background", colors.Background},
		{"surface", colors.Surface},
		{"text", colors.Text},
	}
	var parts []string
	for _, e := range entries {
		if e.hex == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s (%s)", e.role, e.hex, DescribeColor(e.hex)))
	}
	return strings.Join(parts, ", ")
}

func describeVoice(voice domain.BrandVoice) string {
	var parts []string
	if voice.Formality != "" {
		parts = append(parts, voice.Formality)
	}
	if voice.Energy != "" {
		parts = append(parts, voice.Energy+" energy")
	}
	if len(voice.Adjectives) > 0 {
		parts = append(parts, strings.Join(voice.Adjectives, ", "))
	}
	if len(parts) == 0 {
		return defaultVoiceGuidance
	}
	return strings.Join(parts, "; ")
}

func writeIf(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) != "" {
		fmt.Fprintf(b, "- %s: %s\n", label, value)
	}
}

func writeFlag(b *strings.Builder, label string, enabled bool) {
	if enabled {
		fmt.Fprintf(b, "- Lean into %s\n", label)
	} else {
		fmt.Fprintf(b, "- Avoid %s\n", label)
	}
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

package branding

import (
	"strings"
	"testing"

	"brandforge/internal/domain"
)

func boolPtr(v bool) *bool { return &v }

func TestHardConstraintsFullBrand(t *testing.T) {
	brand := &domain.Brand{
		Name:   "Acme",
		Slogan: "Build faster",
		Logos:  domain.BrandLogos{Primary: "https://cdn.example.com/logo.png"},
		Colors: domain.BrandColors{Primary: "#9445fc", Background: "#ffffff"},
		Voice:  domain.BrandVoice{Formality: "casual", Adjectives: []string{"bold", "friendly"}},
	}
	got := HardConstraints(brand)

	for _, want := range []string{
		"BRAND REQUIREMENTS (must be obeyed):",
		"Brand name: Acme",
		`Tagline: "Build faster"`,
		"primary #9445fc (vibrant purple)",
		"background #ffffff (white)",
		"logo MUST be included",
		"casual",
		"bold, friendly",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("HardConstraints() missing %q in:\n%s", want, got)
		}
	}
}

func TestHardConstraintsDefaults(t *testing.T) {
	got := HardConstraints(&domain.Brand{Name: "Bare"})
	if !strings.Contains(got, "modern, professional colors") {
		t.Fatalf("expected default color guidance in:\n%s", got)
	}
	if !strings.Contains(got, "Professional and approachable") {
		t.Fatalf("expected default voice guidance in:\n%s", got)
	}
	if strings.Contains(got, "logo MUST") {
		t.Fatalf("logo directive should be absent without a logo:\n%s", got)
	}
}

func TestHardConstraintsNilBrand(t *testing.T) {
	got := HardConstraints(nil)
	if !strings.Contains(got, "modern, professional colors") {
		t.Fatalf("nil brand should still produce defaults:\n%s", got)
	}
}

func TestSoftGuidelinesFlags(t *testing.T) {
	brand := &domain.Brand{
		StyleGuide: &domain.StyleGuide{
			Personality: &domain.AdPersonality{
				Theme:       "futuristic",
				UseShadows:  boolPtr(true),
				UsePatterns: boolPtr(false),
			},
		},
	}
	got := SoftGuidelines(brand)
	if !strings.Contains(got, "STYLE GUIDELINES (preferences, not mandates):") {
		t.Fatalf("missing header in:\n%s", got)
	}
	if !strings.Contains(got, "Lean into drop shadows") {
		t.Fatalf("expected shadow preference in:\n%s", got)
	}
	if !strings.Contains(got, "Avoid patterns") {
		t.Fatalf("expected pattern avoidance in:\n%s", got)
	}
	if strings.Contains(got, "borders") {
		t.Fatalf("unset flags must not be mentioned:\n%s", got)
	}
}

func TestSoftGuidelinesEmptyWithoutPersonality(t *testing.T) {
	if got := SoftGuidelines(&domain.Brand{}); got != "" {
		t.Fatalf("SoftGuidelines() = %q, want empty", got)
	}
	if got := SoftGuidelines(nil); got != "" {
		t.Fatalf("SoftGuidelines(nil) = %q, want empty", got)
	}
}

func TestAssetInstructionsRoles(t *testing.T) {
	assets := []domain.AssetRef{
		{ID: "a1", Name: "Spring banner", Role: domain.AssetRoleMustInclude},
		{ID: "a2", Role: domain.AssetRoleStyleReference},
	}
	got := AssetInstructions(assets)
	if !strings.Contains(got, `"Spring banner" MUST be included`) {
		t.Fatalf("must-include wording missing from:\n%s", got)
	}
	if !strings.Contains(got, `"a2" is a STYLE REFERENCE`) {
		t.Fatalf("style-reference wording missing from:\n%s", got)
	}
	if AssetInstructions(nil) != "" {
		t.Fatalf("no assets should yield no block")
	}
}

func TestAssetInstructionSingle(t *testing.T) {
	must := AssetInstruction(domain.AssetRef{ID: "a1", Role: domain.AssetRoleMustInclude})
	if !strings.Contains(must, "must appear in the final design") {
		t.Fatalf("unexpected must-include instruction: %s", must)
	}
	ref := AssetInstruction(domain.AssetRef{ID: "a2", Role: domain.AssetRoleStyleReference})
	if !strings.Contains(ref, "style reference") {
		t.Fatalf("unexpected style-reference instruction: %s", ref)
	}
}

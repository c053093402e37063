package plan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"brandforge/internal/domain"
	"brandforge/internal/providers/genai"
)

func testBrand() *domain.Brand {
	return &domain.Brand{
		ID:     "b-1",
		Name:   "Acme",
		Slogan: "Build faster",
		Logos:  domain.BrandLogos{Primary: "https://cdn.example.com/logo.png"},
		Colors: domain.BrandColors{Primary: "#9445fc"},
		Voice:  domain.BrandVoice{Adjectives: []string{"bold"}},
	}
}

func TestFallbackPlanEmbedsBrandIdentity(t *testing.T) {
	gen := NewGenerator(nil, zerolog.Nop())
	plan := gen.Generate(context.Background(), Request{
		UserPrompt: "a product announcement",
		Brand:      testBrand(),
	})

	if plan.Source != sourceFallback {
		t.Fatalf("Source = %q, want %q", plan.Source, sourceFallback)
	}
	if plan.Channel != "general" || plan.AspectRatio != "1:1" {
		t.Fatalf("channel/ratio = %q/%q, want general/1:1", plan.Channel, plan.AspectRatio)
	}
	for _, want := range []string{"Acme", "vibrant purple", "#9445fc", "logo MUST be included", "a product announcement", "bold"} {
		if !strings.Contains(plan.FinalPrompt, want) {
			t.Fatalf("FinalPrompt missing %q:\n%s", want, plan.FinalPrompt)
		}
	}
	if gen.FallbackCount() != 1 {
		t.Fatalf("FallbackCount() = %d, want 1", gen.FallbackCount())
	}
}

func TestFallbackChannelClassification(t *testing.T) {
	cases := []struct {
		prompt      string
		wantChannel string
		wantRatio   string
	}{
		{"a post for LinkedIn", "linkedin", "1:1"},
		{"an Instagram story teaser", "instagram_story", "9:16"},
		{"an instagram product shot", "instagram", "1:1"},
		{"facebook ad for spring", "facebook", "4:5"},
		{"twitter banner", "twitter", "16:9"},
		{"youtube cover", "youtube", "16:9"},
		{"a bold thumbnail", "youtube", "16:9"},
		{"just something nice", "general", "1:1"},
	}
	gen := NewGenerator(nil, zerolog.Nop())
	for _, tc := range cases {
		plan := gen.Generate(context.Background(), Request{UserPrompt: tc.prompt, Brand: testBrand()})
		if plan.Channel != tc.wantChannel || plan.AspectRatio != tc.wantRatio {
			t.Fatalf("prompt %q: channel/ratio = %q/%q, want %q/%q",
				tc.prompt, plan.Channel, plan.AspectRatio, tc.wantChannel, tc.wantRatio)
		}
	}
}

func TestFallbackRespectsAspectOverride(t *testing.T) {
	gen := NewGenerator(nil, zerolog.Nop())
	plan := gen.Generate(context.Background(), Request{
		UserPrompt:  "a LinkedIn post",
		Brand:       testBrand(),
		AspectRatio: "16:9",
	})
	if plan.AspectRatio != "16:9" {
		t.Fatalf("AspectRatio = %q, want override 16:9", plan.AspectRatio)
	}
	if !strings.Contains(plan.FinalPrompt, "16:9") {
		t.Fatalf("FinalPrompt does not restate the ratio:\n%s", plan.FinalPrompt)
	}
}

func TestFallbackCarriesAssetInstructions(t *testing.T) {
	gen := NewGenerator(nil, zerolog.Nop())
	plan := gen.Generate(context.Background(), Request{
		UserPrompt: "sale banner",
		Brand:      testBrand(),
		Assets:     []domain.AssetRef{{ID: "a1", Name: "Hero shot", Role: domain.AssetRoleMustInclude}},
		References: []domain.AssetRef{{ID: "r1", Role: domain.AssetRoleStyleReference}},
	})
	if len(plan.AssetInstructions) != 2 {
		t.Fatalf("AssetInstructions = %d entries, want 2", len(plan.AssetInstructions))
	}
	if plan.AssetInstructions[0].AssetID != "a1" || plan.AssetInstructions[1].AssetID != "r1" {
		t.Fatalf("instruction order wrong: %+v", plan.AssetInstructions)
	}
}

func newPlannerWithServer(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := genai.NewClient(genai.Options{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	return NewGenerator(client, zerolog.Nop())
}

func completionResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"parts": []map[string]any{{"text": text}}},
			"finishReason": "STOP",
		}},
	}
}

func TestGenerateParsesModelPlan(t *testing.T) {
	gen := newPlannerWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionResponse("```json\n" +
			`{"channel":"linkedin","objective":"thought leadership","aspect_ratio":"1:1","headline":"Acme","final_prompt":"full prompt text"}` +
			"\n```"))
	})
	plan := gen.Generate(context.Background(), Request{UserPrompt: "linkedin post", Brand: testBrand()})
	if plan.Source != sourceGemini {
		t.Fatalf("Source = %q, want %q", plan.Source, sourceGemini)
	}
	if plan.Channel != "linkedin" || plan.FinalPrompt != "full prompt text" {
		t.Fatalf("unexpected plan: %+v", plan)
	}
	if gen.FallbackCount() != 0 {
		t.Fatalf("FallbackCount() = %d, want 0", gen.FallbackCount())
	}
}

func TestGenerateOverrideBeatsModelRatio(t *testing.T) {
	gen := newPlannerWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionResponse(
			`{"channel":"general","aspect_ratio":"9:16","final_prompt":"p"}`))
	})
	plan := gen.Generate(context.Background(), Request{UserPrompt: "x", Brand: testBrand(), AspectRatio: "4:5"})
	if plan.AspectRatio != "4:5" {
		t.Fatalf("AspectRatio = %q, want caller override 4:5", plan.AspectRatio)
	}
}

func TestGenerateMalformedJSONFallsBack(t *testing.T) {
	gen := newPlannerWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionResponse("not json at all"))
	})
	plan := gen.Generate(context.Background(), Request{UserPrompt: "instagram shot", Brand: testBrand()})
	if plan.Source != sourceFallback {
		t.Fatalf("Source = %q, want fallback after parse failure", plan.Source)
	}
	if plan.Channel != "instagram" {
		t.Fatalf("Channel = %q, want instagram from keyword fallback", plan.Channel)
	}
	if gen.FallbackCount() != 1 {
		t.Fatalf("FallbackCount() = %d, want 1", gen.FallbackCount())
	}
}

func TestGenerateMissingFinalPromptFallsBack(t *testing.T) {
	gen := newPlannerWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionResponse(`{"channel":"general"}`))
	})
	plan := gen.Generate(context.Background(), Request{UserPrompt: "x", Brand: testBrand()})
	if plan.Source != sourceFallback {
		t.Fatalf("Source = %q, want fallback when final_prompt is empty", plan.Source)
	}
}

func TestGenerateUpstreamFailureFallsBack(t *testing.T) {
	gen := newPlannerWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	plan := gen.Generate(context.Background(), Request{UserPrompt: "x", Brand: testBrand()})
	if plan.Source != sourceFallback {
		t.Fatalf("Source = %q, want fallback on upstream error", plan.Source)
	}
}

func TestExtractJSONFragment(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"Here you go:\n{\"a\":1}\nEnjoy!", `{"a":1}`},
		{"", ""},
	}
	for _, tc := range cases {
		if got := extractJSONFragment(tc.in); got != tc.want {
			t.Fatalf("extractJSONFragment(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

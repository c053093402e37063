package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"brandforge/internal/branding"
	"brandforge/internal/domain"
	"brandforge/internal/providers/genai"
)

// AssetInstruction is a per-asset usage directive inside a render plan.
type AssetInstruction struct {
	AssetID     string `json:"asset_id"`
	Instruction string `json:"instruction"`
}

// RenderPlan is the ephemeral, request-scoped output of planning: where the
// image will run, what it should achieve, and the final composed prompt for
// the image model. Not persisted as its own entity; the orchestrator folds
// the interesting bits into the image record's metadata.
type RenderPlan struct {
	Channel           string             `json:"channel"`
	Objective         string             `json:"objective,omitempty"`
	AspectRatio       string             `json:"aspect_ratio,omitempty"`
	Resolution        string             `json:"resolution,omitempty"`
	Headline          string             `json:"headline,omitempty"`
	Subheadline       string             `json:"subheadline,omitempty"`
	CTA               string             `json:"cta,omitempty"`
	AssetInstructions []AssetInstruction `json:"asset_instructions,omitempty"`
	FinalPrompt       string             `json:"final_prompt"`
	Source            string             `json:"source,omitempty"`
}

// Request carries everything planning needs.
type Request struct {
	UserPrompt string
	Brand      *domain.Brand
	Assets     []domain.AssetRef
	References []domain.AssetRef
	// AspectRatio, when non-empty, is a caller override that beats any
	// model recommendation.
	AspectRatio string
}

const (
	sourceGemini   = "gemini"
	sourceFallback = "fallback"
)

// Generator produces render plans via the completion API, degrading to a
// deterministic local heuristic on any failure. Degradations are counted so
// operators can watch the upstream-degradation rate.
type Generator struct {
	client    *genai.Client
	logger    zerolog.Logger
	fallbacks atomic.Int64
}

// NewGenerator wires the planner to a Gemini client. A nil client is valid
// and forces the fallback path for every request.
func NewGenerator(client *genai.Client, logger zerolog.Logger) *Generator {
	return &Generator{client: client, logger: logger}
}

// FallbackCount reports how many plans were produced by the local heuristic
// instead of the completion API.
func (g *Generator) FallbackCount() int64 {
	return g.fallbacks.Load()
}

// Generate builds a render plan. It never fails: any completion-API problem
// (no credential, transport error, non-2xx, unparsable JSON, empty content)
// silently degrades to the deterministic local fallback.
func (g *Generator) Generate(ctx context.Context, req Request) *RenderPlan {
	if g.client == nil || !g.client.Configured() {
		return g.fallback(req, genai.ErrNotConfigured)
	}

	raw, err := g.client.GenerateText(ctx, buildPlanningPrompt(req))
	if err != nil {
		return g.fallback(req, err)
	}

	parsed, err := parsePlanPayload(raw)
	if err != nil {
		return g.fallback(req, err)
	}

	parsed.Source = sourceGemini
	parsed.AspectRatio = branding.NormalizeRatio(parsed.AspectRatio)
	if req.AspectRatio != "" {
		parsed.AspectRatio = req.AspectRatio
	}
	return parsed
}

func (g *Generator) fallback(req Request, cause error) *RenderPlan {
	g.fallbacks.Add(1)
	g.logger.Warn().Err(cause).
		Int64("fallback_count", g.fallbacks.Load()).
		Msg("plan: completion api degraded to local heuristic")
	return buildFallbackPlan(req)
}

// channelRules classify the user prompt into a target channel and aspect
// ratio. Order matters: "instagram story" must win over plain "instagram".
var channelRules = []struct {
	keywords []string
	channel  string
	ratio    string
}{
	{[]string{"linkedin"}, "linkedin", "1:1"},
	{[]string{"instagram", "story"}, "instagram_story", "9:16"},
	{[]string{"instagram"}, "instagram", "1:1"},
	{[]string{"facebook"}, "facebook", "4:5"},
	{[]string{"twitter"}, "twitter", "16:9"},
	{[]string{"youtube"}, "youtube", "16:9"},
	{[]string{"thumbnail"}, "youtube", "16:9"},
}

func classifyChannel(userPrompt string) (string, string) {
	lower := strings.ToLower(userPrompt)
	for _, rule := range channelRules {
		matched := true
		for _, kw := range rule.keywords {
			if !strings.Contains(lower, kw) {
				matched = false
				break
			}
		}
		if matched {
			return rule.channel, rule.ratio
		}
	}
	return "general", "1:1"
}

// buildFallbackPlan derives the full plan structure without the completion
// API: channel and ratio by keyword, a static-template final prompt
// embedding brand colors, voice adjectives, and the mandatory-logo clause.
func buildFallbackPlan(req Request) *RenderPlan {
	channel, ratio := classifyChannel(req.UserPrompt)
	if req.AspectRatio != "" {
		ratio = req.AspectRatio
	}

	titler := cases.Title(language.English)
	objective := titler.String(strings.ReplaceAll(channel, "_", " ")) + " campaign visual"

	plan := &RenderPlan{
		Channel:     channel,
		Objective:   objective,
		AspectRatio: ratio,
		FinalPrompt: buildFallbackPrompt(req, ratio),
		Source:      sourceFallback,
	}
	if req.Brand != nil {
		plan.Headline = req.Brand.Name
		plan.Subheadline = req.Brand.Slogan
	}
	for _, asset := range append(append([]domain.AssetRef{}, req.Assets...), req.References...) {
		plan.AssetInstructions = append(plan.AssetInstructions, AssetInstruction{
			AssetID:     asset.ID,
			Instruction: branding.AssetInstruction(asset),
		})
	}
	return plan
}

func buildFallbackPrompt(req Request, ratio string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a polished %s marketing image.\n", ratio)
	if prompt := strings.TrimSpace(req.UserPrompt); prompt != "" {
		fmt.Fprintf(&b, "Design request: %s\n", prompt)
	}
	b.WriteString(branding.HardConstraints(req.Brand))
	if soft := branding.SoftGuidelines(req.Brand); soft != "" {
		b.WriteString(soft)
	}
	if assets := branding.AssetInstructions(append(append([]domain.AssetRef{}, req.Assets...), req.References...)); assets != "" {
		b.WriteString(assets)
	}
	fmt.Fprintf(&b, "Compose for an exact %s aspect ratio.\n", ratio)
	return b.String()
}

// buildPlanningPrompt is what we send to the completion model. It restates
// any caller aspect-ratio override inside the instructions so the model's
// own output honors it too; the orchestrator still clamps the final value.
func buildPlanningPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You are an expert advertising art director. Respond strictly with JSON matching this schema: ")
	b.WriteString(`{"channel":string,"objective":string,"aspect_ratio":string,"resolution":string,"headline":string,"subheadline":string,"cta":string,"asset_instructions":[{"asset_id":string,"instruction":string}],"final_prompt":string}`)
	b.WriteString("\nThe final_prompt is the complete instruction the image model will receive; it must restate every brand requirement below.\n\n")
	fmt.Fprintf(&b, "User request: %s\n\n", strings.TrimSpace(req.UserPrompt))
	b.WriteString(branding.HardConstraints(req.Brand))
	if soft := branding.SoftGuidelines(req.Brand); soft != "" {
		b.WriteString(soft)
	}
	if assets := branding.AssetInstructions(append(append([]domain.AssetRef{}, req.Assets...), req.References...)); assets != "" {
		b.WriteString(assets)
	}
	if req.AspectRatio != "" {
		fmt.Fprintf(&b, "The aspect ratio is fixed at %s; set aspect_ratio to exactly this value and design final_prompt for it.\n", req.AspectRatio)
	} else {
		fmt.Fprintf(&b, "Choose aspect_ratio from: %s.\n", strings.Join(branding.SupportedRatios, ", "))
	}
	return b.String()
}

// parsePlanPayload decodes the model's JSON, tolerating code fences and
// stray prose around the object. Shape validation is deliberately minimal:
// JSON must parse and final_prompt must be non-empty, nothing more.
func parsePlanPayload(raw string) (*RenderPlan, error) {
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return nil, errors.New("empty payload")
	}
	var decoded RenderPlan
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, err
	}
	if strings.TrimSpace(decoded.FinalPrompt) == "" {
		return nil, errors.New("missing final_prompt")
	}
	return &decoded, nil
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

package branding

import (
	"strings"

	"brandforge/internal/domain"
)

// Template describes one output shape the client can request.
type Template struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Label       string `json:"label"`
	Category    string `json:"category"`
	AspectRatio string `json:"aspect_ratio"`
}

// Catalog is the fixed, ordered set of supported templates.
var Catalog = []Template{
	{ID: "product_showcase", Icon: "📦", Label: "Product Showcase", Category: "product", AspectRatio: "1:1"},
	{ID: "product_flatlay", Icon: "🧺", Label: "Product Flat Lay", Category: "product", AspectRatio: "4:5"},
	{ID: "product_lifestyle", Icon: "🌿", Label: "Lifestyle Shot", Category: "product", AspectRatio: "3:2"},
	{ID: "social_square", Icon: "📱", Label: "Social Post", Category: "social", AspectRatio: "1:1"},
	{ID: "social_story", Icon: "📲", Label: "Story / Reel Cover", Category: "social", AspectRatio: "9:16"},
	{ID: "social_carousel", Icon: "🎠", Label: "Carousel Slide", Category: "social", AspectRatio: "4:5"},
	{ID: "youtube_thumbnail", Icon: "🎬", Label: "Video Thumbnail", Category: "social", AspectRatio: "16:9"},
	{ID: "ad_banner", Icon: "🖼️", Label: "Display Ad Banner", Category: "advertising", AspectRatio: "16:9"},
	{ID: "ad_leaderboard", Icon: "📏", Label: "Leaderboard Ad", Category: "advertising", AspectRatio: "21:9"},
	{ID: "ad_social", Icon: "📣", Label: "Social Ad", Category: "advertising", AspectRatio: "4:5"},
	{ID: "website_hero", Icon: "🖥️", Label: "Website Hero", Category: "website", AspectRatio: "21:9"},
	{ID: "website_feature", Icon: "🧩", Label: "Feature Illustration", Category: "website", AspectRatio: "4:3"},
	{ID: "website_background", Icon: "🌄", Label: "Background Texture", Category: "website", AspectRatio: "16:9"},
	{ID: "promo_sale", Icon: "🏷️", Label: "Sale Announcement", Category: "promotional", AspectRatio: "1:1"},
	{ID: "promo_launch", Icon: "🚀", Label: "Launch Teaser", Category: "promotional", AspectRatio: "4:5"},
	{ID: "promo_event", Icon: "🎟️", Label: "Event Invite", Category: "promotional", AspectRatio: "9:16"},
	{ID: "testimonial_card", Icon: "💬", Label: "Testimonial Card", Category: "promotional", AspectRatio: "5:4"},
}

const (
	// minTemplateMatches is the floor below which attribute matching is
	// considered too weak and keyword fallback kicks in.
	minTemplateMatches = 6
	// maxTemplates caps how many templates a selection returns.
	maxTemplates = 10
)

// visualApproachTemplates maps a brand's declared visual approach to the
// template ids that suit it.
var visualApproachTemplates = map[string][]string{
	"photography":  {"product_showcase", "product_flatlay", "product_lifestyle", "social_square", "website_hero", "ad_social"},
	"illustration": {"social_carousel", "website_feature", "promo_launch", "testimonial_card", "ad_banner"},
	"3d_render":    {"product_showcase", "website_hero", "ad_banner", "promo_launch"},
	"minimalist":   {"website_background", "social_square", "testimonial_card", "ad_leaderboard"},
	"bold_graphic": {"promo_sale", "ad_social", "social_story", "youtube_thumbnail"},
}

// imagerySubjectTemplates maps normalized imagery subjects to template ids.
var imagerySubjectTemplates = map[string][]string{
	"product":    {"product_showcase", "product_flatlay", "promo_sale"},
	"people":     {"product_lifestyle", "testimonial_card", "social_square"},
	"workspace":  {"website_hero", "website_feature", "social_carousel"},
	"food":       {"product_flatlay", "social_square", "promo_event"},
	"technology": {"website_hero", "website_background", "youtube_thumbnail"},
	"abstract":   {"website_background", "ad_leaderboard", "ad_banner"},
	"nature":     {"product_lifestyle", "website_background", "social_story"},
}

// keywordBundles are the hard-coded fallback bundles picked by substring
// matching against the brand's style-guide summary. Order matters: the first
// matching keyword wins.
var keywordBundles = []struct {
	keywords []string
	ids      []string
}{
	{[]string{"saas", "software", "platform"}, []string{"website_hero", "website_feature", "social_square", "ad_banner", "youtube_thumbnail", "testimonial_card"}},
	{[]string{"shop", "store", "ecommerce", "e-commerce"}, []string{"product_showcase", "product_flatlay", "promo_sale", "social_carousel", "ad_social", "social_square"}},
	{[]string{"agency", "consult", "studio"}, []string{"website_hero", "social_square", "testimonial_card", "ad_banner", "social_carousel", "promo_launch"}},
	{[]string{"restaurant", "cafe", "food"}, []string{"product_flatlay", "social_square", "social_story", "promo_event", "promo_sale", "website_hero"}},
	{[]string{"app", "mobile"}, []string{"social_story", "youtube_thumbnail", "website_feature", "ad_social", "promo_launch", "social_square"}},
}

// defaultBundle is the generic balanced selection used when nothing matches.
var defaultBundle = []string{"product_showcase", "social_square", "social_story", "ad_banner", "website_hero", "promo_sale"}

// SelectTemplates picks templates for a brand with a two-tier deterministic
// classifier. Tier one accumulates ids from the brand's visual approach and
// imagery subjects (set union, insertion order kept); if fewer than six ids
// accumulate, tier two falls back to keyword matching on the style-guide
// summary. The result is capped at ten with no duplicates.
func SelectTemplates(brand *domain.Brand) []Template {
	var ids []string
	seen := make(map[string]struct{})
	add := func(candidates []string) {
		for _, id := range candidates {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	if p := brand.Personality(); p != nil {
		if approach := normalizeAttribute(p.VisualApproach); approach != "" {
			add(visualApproachTemplates[approach])
		}
		for _, subject := range p.ImagerySubjects {
			add(imagerySubjectTemplates[normalizeAttribute(subject)])
		}
	}

	if len(ids) < minTemplateMatches {
		ids = fallbackBundle(brand.Summary())
	}
	if len(ids) > maxTemplates {
		ids = ids[:maxTemplates]
	}
	return templatesByID(ids)
}

func fallbackBundle(summary string) []string {
	lower := strings.ToLower(summary)
	for _, bundle := range keywordBundles {
		for _, kw := range bundle.keywords {
			if strings.Contains(lower, kw) {
				return bundle.ids
			}
		}
	}
	return defaultBundle
}

func normalizeAttribute(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "_")
}

func templatesByID(ids []string) []Template {
	byID := make(map[string]Template, len(Catalog))
	for _, t := range Catalog {
		byID[t.ID] = t
	}
	out := make([]Template, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

package branding

import "strings"

// Dimensions is an exact pixel size for one (ratio, tier) pair.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SupportedRatios lists the aspect-ratio labels the image model accepts,
// in canonical order.
var SupportedRatios = []string{"1:1", "2:3", "3:2", "3:4", "4:3", "4:5", "5:4", "9:16", "16:9", "21:9"}

// Resolution tiers supported by the image model.
const (
	Resolution1K = "1K"
	Resolution2K = "2K"
	Resolution4K = "4K"
)

// ratioDimensions reproduces the image model's documented output sizes for
// each ratio at each tier. These values are contractual, not derived.
var ratioDimensions = map[string]map[string]Dimensions{
	"1:1":  {Resolution1K: {1024, 1024}, Resolution2K: {2048, 2048}, Resolution4K: {4096, 4096}},
	"2:3":  {Resolution1K: {848, 1264}, Resolution2K: {1696, 2528}, Resolution4K: {3392, 5056}},
	"3:2":  {Resolution1K: {1264, 848}, Resolution2K: {2528, 1696}, Resolution4K: {5056, 3392}},
	"3:4":  {Resolution1K: {896, 1200}, Resolution2K: {1792, 2400}, Resolution4K: {3584, 4800}},
	"4:3":  {Resolution1K: {1200, 896}, Resolution2K: {2400, 1792}, Resolution4K: {4800, 3584}},
	"4:5":  {Resolution1K: {928, 1152}, Resolution2K: {1856, 2304}, Resolution4K: {3712, 4608}},
	"5:4":  {Resolution1K: {1152, 928}, Resolution2K: {2304, 1856}, Resolution4K: {4608, 3712}},
	"9:16": {Resolution1K: {768, 1376}, Resolution2K: {1536, 2752}, Resolution4K: {3072, 5504}},
	"16:9": {Resolution1K: {1376, 768}, Resolution2K: {2752, 1536}, Resolution4K: {5504, 3072}},
	"21:9": {Resolution1K: {1584, 672}, Resolution2K: {3168, 1344}, Resolution4K: {6336, 2688}},
}

// ratioValues holds each label's numeric width/height ratio.
var ratioValues = map[string]float64{
	"1:1":  1.0,
	"2:3":  2.0 / 3.0,
	"3:2":  3.0 / 2.0,
	"3:4":  3.0 / 4.0,
	"4:3":  4.0 / 3.0,
	"4:5":  4.0 / 5.0,
	"5:4":  5.0 / 4.0,
	"9:16": 9.0 / 16.0,
	"16:9": 16.0 / 9.0,
	"21:9": 21.0 / 9.0,
}

// ratioTolerance is the absolute tolerance when recovering a ratio from
// pixel dimensions.
const ratioTolerance = 0.02

// NormalizeRatio trims the input and returns it when it exact-matches a
// supported label. Anything else (including "auto" and empty) returns ""
// which callers treat as "let the model decide".
func NormalizeRatio(s string) string {
	trimmed := strings.TrimSpace(s)
	if _, ok := ratioDimensions[trimmed]; ok {
		return trimmed
	}
	return ""
}

// DimensionsFor returns the exact pixel size for a ratio at a tier.
func DimensionsFor(ratio, tier string) (Dimensions, bool) {
	tiers, ok := ratioDimensions[strings.TrimSpace(ratio)]
	if !ok {
		return Dimensions{}, false
	}
	dims, ok := tiers[tier]
	return dims, ok
}

// RatioFromDimensions recovers the ratio label for a pixel size, matching
// against the supported ratios within an absolute tolerance of 0.02.
// Returns "" when undetermined. Used to rediscover an edit target's original
// aspect ratio when it was not separately recorded.
func RatioFromDimensions(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	actual := float64(width) / float64(height)
	for _, label := range SupportedRatios {
		want := ratioValues[label]
		diff := actual - want
		if diff < 0 {
			diff = -diff
		}
		if diff <= ratioTolerance {
			return label
		}
	}
	return ""
}

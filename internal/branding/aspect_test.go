package branding

import "testing"

func TestNormalizeRatio(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1:1", "1:1"},
		{" 16:9 ", "16:9"},
		{"auto", ""},
		{"", ""},
		{"7:5", ""},
		{"1:1 ", "1:1"},
	}
	for _, tc := range cases {
		if got := NormalizeRatio(tc.in); got != tc.want {
			t.Fatalf("NormalizeRatio(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDimensionsForCoversEveryRatioAndTier(t *testing.T) {
	for _, ratio := range SupportedRatios {
		for _, tier := range []string{Resolution1K, Resolution2K, Resolution4K} {
			dims, ok := DimensionsFor(ratio, tier)
			if !ok {
				t.Fatalf("DimensionsFor(%q, %q) missing", ratio, tier)
			}
			if dims.Width <= 0 || dims.Height <= 0 {
				t.Fatalf("DimensionsFor(%q, %q) = %+v", ratio, tier, dims)
			}
		}
	}
}

func TestDimensionsForKnownValues(t *testing.T) {
	cases := []struct {
		ratio string
		tier  string
		want  Dimensions
	}{
		{"1:1", Resolution2K, Dimensions{2048, 2048}},
		{"9:16", Resolution1K, Dimensions{768, 1376}},
		{"21:9", Resolution4K, Dimensions{6336, 2688}},
		{"4:5", Resolution2K, Dimensions{1856, 2304}},
	}
	for _, tc := range cases {
		got, ok := DimensionsFor(tc.ratio, tc.tier)
		if !ok || got != tc.want {
			t.Fatalf("DimensionsFor(%q, %q) = %+v ok=%v, want %+v", tc.ratio, tc.tier, got, ok, tc.want)
		}
	}
}

func TestRatioFromDimensions(t *testing.T) {
	// Every published pixel size must map back to its own label.
	for _, ratio := range SupportedRatios {
		for _, tier := range []string{Resolution1K, Resolution2K, Resolution4K} {
			dims, _ := DimensionsFor(ratio, tier)
			if got := RatioFromDimensions(dims.Width, dims.Height); got != ratio {
				t.Fatalf("RatioFromDimensions(%d, %d) = %q, want %q", dims.Width, dims.Height, got, ratio)
			}
		}
	}
	if got := RatioFromDimensions(1000, 1010); got != "1:1" {
		t.Fatalf("RatioFromDimensions(1000, 1010) = %q, want 1:1 within tolerance", got)
	}
	if got := RatioFromDimensions(1000, 3000); got != "" {
		t.Fatalf("RatioFromDimensions(1000, 3000) = %q, want empty for an unsupported shape", got)
	}
	if got := RatioFromDimensions(0, 100); got != "" {
		t.Fatalf("RatioFromDimensions(0, 100) = %q, want empty", got)
	}
}

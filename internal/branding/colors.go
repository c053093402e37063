package branding

import (
	"strconv"
	"strings"
)

// namedColors maps well-known brand colors to their display names. Lookups
// are case-insensitive and tolerate a leading "#".
var namedColors = map[string]string{
	"9445fc": "vibrant purple",
	"1a73e8": "google blue",
	"0a66c2": "linkedin blue",
	"1877f2": "facebook blue",
	"e4405f": "instagram pink",
	"ff0000": "pure red",
	"00ff00": "pure green",
	"0000ff": "pure blue",
	"ffffff": "white",
	"000000": "black",
	"f97316": "warm orange",
	"10b981": "emerald green",
	"0ea5e9": "sky blue",
	"8b5cf6": "soft violet",
	"ec4899": "hot pink",
	"facc15": "golden yellow",
	"14b8a6": "teal",
	"6366f1": "indigo",
	"111827": "charcoal",
	"f3f4f6": "light gray",
}

// DescribeColor turns a hex color into a short human-readable label. Known
// brand colors resolve through the dictionary; anything else goes through a
// coarse brightness/hue heuristic. The function never fails: worst case it
// returns the raw input prefixed with "color ".
func DescribeColor(hex string) string {
	raw := strings.TrimSpace(hex)
	key := strings.ToLower(strings.TrimPrefix(raw, "#"))
	if name, ok := namedColors[key]; ok {
		return name
	}
	if len(key) != 6 {
		return "color " + raw
	}
	r, errR := strconv.ParseUint(key[0:2], 16, 8)
	g, errG := strconv.ParseUint(key[2:4], 16, 8)
	b, errB := strconv.ParseUint(key[4:6], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		return "color " + raw
	}
	return describeRGB(int(r), int(g), int(b))
}

// describeRGB applies ordered heuristics: near-white, near-black, gray, then
// channel dominance.
func describeRGB(r, g, b int) string {
	switch {
	case r > 235 && g > 235 && b > 235:
		return "white"
	case r < 25 && g < 25 && b < 25:
		return "black"
	}

	hi := max3(r, g, b)
	lo := min3(r, g, b)
	if hi-lo < 20 {
		if hi > 170 {
			return "light gray"
		}
		if hi < 85 {
			return "dark gray"
		}
		return "gray"
	}

	switch {
	case r == hi:
		if g > b && g*10 >= r*6 {
			return "orange/yellow"
		}
		if b > g && b*10 >= r*6 {
			return "pink/magenta"
		}
		return "red"
	case g == hi:
		if b*10 >= g*7 {
			return "teal"
		}
		if r*10 >= g*7 {
			return "yellow-green"
		}
		return "green"
	default:
		if r*10 >= b*6 {
			return "purple/violet"
		}
		if g*10 >= b*7 {
			return "cyan"
		}
		return "blue"
	}
}

func max3(a, b, c int) int {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

package branding

import (
	"strings"
	"testing"
)

func TestDescribeColorNamedLookup(t *testing.T) {
	cases := []struct {
		hex  string
		want string
	}{
		{"#9445fc", "vibrant purple"},
		{"9445fc", "vibrant purple"},
		{"#9445FC", "vibrant purple"},
		{"#1a73e8", "google blue"},
		{"#ffffff", "white"},
	}
	for _, tc := range cases {
		if got := DescribeColor(tc.hex); got != tc.want {
			t.Fatalf("DescribeColor(%q) = %q, want %q", tc.hex, got, tc.want)
		}
	}
}

func TestDescribeColorHeuristics(t *testing.T) {
	cases := []struct {
		hex  string
		want string
	}{
		{"#fdfdfd", "white"},
		{"#0a0a0a", "black"},
		{"#b01010", "red"},
		{"#10b010", "green"},
		{"#808080", "gray"},
	}
	for _, tc := range cases {
		got := DescribeColor(tc.hex)
		if !strings.Contains(got, tc.want) {
			t.Fatalf("DescribeColor(%q) = %q, want it to contain %q", tc.hex, got, tc.want)
		}
	}
}

func TestDescribeColorNeverEmpty(t *testing.T) {
	for _, hex := range []string{"", "#12", "not-a-color", "#123456", "#abcdef"} {
		if got := DescribeColor(hex); got == "" {
			t.Fatalf("DescribeColor(%q) returned empty string", hex)
		}
	}
}

package processing_test

import (
	"testing"

	"github.com/canberk17/moving/internal/processing"
	"github.com/stretchr/testify/require"
)

func TestSquashSpace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "collapse whitespace", input: "  Acme\n\n Roofing\tCo ", want: "Acme Roofing Co"},
		{name: "entities kept literal", input: "Smith &amp; Sons", want: "Smith &amp; Sons"},
		{name: "ampersand before letters", input: "Sound &amplifier Co", want: "Sound &amplifier Co"},
		{name: "nbsp", input: "4.5\u00a0/5", want: "4.5 /5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := processing.SquashSpace(tt.input); got != tt.want {
				t.Fatalf("SquashSpace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestJoinAddress(t *testing.T) {
	tests := []struct {
		name         string
		line1, line2 string
		want         string
	}{
		{name: "both lines", line1: "123 Main St", line2: "Toronto, ON M5V 1A1", want: "123 Main St, Toronto, ON M5V 1A1"},
		{name: "only first", line1: "123 Main St", line2: "", want: "123 Main St"},
		{name: "only second", line1: "", line2: "Toronto, ON", want: "Toronto, ON"},
		{name: "neither", line1: "", line2: "  ", want: ""},
		{name: "trailing comma in line", line1: "123 Main St,", line2: "", want: "123 Main St"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, processing.JoinAddress(tt.line1, tt.line2))
		})
	}
}

func TestExtractURLs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "no urls", input: "I could not find it", want: nil},
		{name: "bare url", input: "https://www.bbb.org/ca/on/acme/profile/123", want: []string{"https://www.bbb.org/ca/on/acme/profile/123"}},
		{name: "sentence", input: "The link is https://www.bbb.org/x.", want: []string{"https://www.bbb.org/x"}},
		{name: "markdown", input: "[BBB](https://www.bbb.org/x)", want: []string{"https://www.bbb.org/x"}},
		{name: "duplicates", input: "https://a.org and https://a.org, again http://b.org", want: []string{"https://a.org", "http://b.org"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, processing.ExtractURLs(tt.input))
		})
	}
}

func TestFirstURL(t *testing.T) {
	require.Equal(t, "", processing.FirstURL("nothing here"))
	require.Equal(t, "https://a.org/1", processing.FirstURL("see https://a.org/1 or https://a.org/2"))
}

func TestContainsFold(t *testing.T) {
	require.True(t, processing.ContainsFold("Customer Reviews", "reviews"))
	require.True(t, processing.ContainsFold("REVIEWS", "reviews"))
	require.False(t, processing.ContainsFold("Complaints", "reviews"))
}

func TestNormalizeKey(t *testing.T) {
	require.Equal(t, "acme roofing co", processing.NormalizeKey("  ACME   Roofing\tCo "))
}

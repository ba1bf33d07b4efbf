package linkresolver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/canberk17/moving/internal/linkresolver"
)

type stubSuggester struct {
	link  string
	err   error
	calls int
}

func (s *stubSuggester) SuggestLink(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.link, s.err
}

func TestFallbackURL(t *testing.T) {
	tests := []struct {
		company string
		want    string
	}{
		{company: "Acme Roofing Co", want: "https://www.bbb.org/search?find_country=CAN&find_text=Acme%20Roofing%20Co&page=1&sort=Relevance"},
		{company: "Smith & Sons", want: "https://www.bbb.org/search?find_country=CAN&find_text=Smith%20%26%20Sons&page=1&sort=Relevance"},
		{company: "A+B", want: "https://www.bbb.org/search?find_country=CAN&find_text=A%2BB&page=1&sort=Relevance"},
		{company: "Café", want: "https://www.bbb.org/search?find_country=CAN&find_text=Caf%C3%A9&page=1&sort=Relevance"},
		{company: "A/B Roofing", want: "https://www.bbb.org/search?find_country=CAN&find_text=A/B%20Roofing&page=1&sort=Relevance"},
		{company: "50% Off?", want: "https://www.bbb.org/search?find_country=CAN&find_text=50%25%20Off%3F&page=1&sort=Relevance"},
	}

	for _, tt := range tests {
		t.Run(tt.company, func(t *testing.T) {
			require.Equal(t, tt.want, linkresolver.FallbackURL(tt.company))
		})
	}
}

func TestResolveUsesSuggestion(t *testing.T) {
	s := &stubSuggester{link: "  https://www.bbb.org/ca/on/acme-roofing/profile/123\n"}
	target := linkresolver.New(s, nil).Resolve(context.Background(), "Acme Roofing Co")

	require.True(t, target.Suggested)
	require.Equal(t, "https://www.bbb.org/ca/on/acme-roofing/profile/123", target.URL)
	require.Equal(t, 1, s.calls)
}

func TestResolvePicksURLOutOfProse(t *testing.T) {
	s := &stubSuggester{link: "Here is the link: https://www.bbb.org/ca/on/acme/profile/1."}
	target := linkresolver.New(s, nil).Resolve(context.Background(), "Acme")

	require.True(t, target.Suggested)
	require.Equal(t, "https://www.bbb.org/ca/on/acme/profile/1", target.URL)
}

func TestResolveFallsBack(t *testing.T) {
	tests := []struct {
		name string
		s    *stubSuggester
	}{
		{name: "error", s: &stubSuggester{err: errors.New("timeout")}},
		{name: "empty", s: &stubSuggester{link: "   "}},
		{name: "no url", s: &stubSuggester{link: "I could not find a BBB profile."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := linkresolver.New(tt.s, nil).Resolve(context.Background(), "Acme Roofing Co")
			require.False(t, target.Suggested)
			require.Equal(t, linkresolver.FallbackURL("Acme Roofing Co"), target.URL)
			require.Equal(t, 1, tt.s.calls)
		})
	}
}

func TestResolveWithoutSuggester(t *testing.T) {
	target := linkresolver.New(nil, nil).Resolve(context.Background(), "Acme")
	require.Equal(t, linkresolver.FallbackURL("Acme"), target.URL)
}

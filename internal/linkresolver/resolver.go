// Package linkresolver picks the profile URL to visit for a company.
package linkresolver

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/canberk17/moving/internal/logger"
	"github.com/canberk17/moving/internal/models"
	"github.com/canberk17/moving/internal/processing"
)

const searchEndpoint = "https://www.bbb.org/search"

// LinkSuggester proposes a direct profile link for a company.
type LinkSuggester interface {
	SuggestLink(ctx context.Context, company string) (string, error)
}

// Resolver turns a company name into a profile URL, degrading to the
// registry search page when no usable suggestion is available.
type Resolver struct {
	suggester LinkSuggester
	log       *slog.Logger
}

// New returns a Resolver. A nil suggester always yields the fallback URL.
func New(suggester LinkSuggester, log *slog.Logger) *Resolver {
	if log == nil {
		log = logger.Discard()
	}
	return &Resolver{suggester: suggester, log: log}
}

// Resolve never fails. It makes at most one suggestion call and does not retry.
func (r *Resolver) Resolve(ctx context.Context, company string) models.ResolvedTarget {
	if r.suggester != nil {
		raw, err := r.suggester.SuggestLink(ctx, company)
		switch {
		case err != nil:
			r.log.Warn("link suggestion failed, using search url", slog.Any("err", err))
		default:
			if link := usableLink(raw); link != "" {
				r.log.Debug("using suggested link", slog.String("url", link))
				return models.ResolvedTarget{URL: link, Suggested: true}
			}
			r.log.Warn("link suggestion unusable, using search url", slog.String("suggestion", raw))
		}
	}
	return models.ResolvedTarget{URL: FallbackURL(company)}
}

// FallbackURL builds the registry search URL for company, filtered to Canada,
// first page, sorted by relevance.
func FallbackURL(company string) string {
	return searchEndpoint + "?find_country=CAN&find_text=" + escapeName(company) + "&page=1&sort=Relevance"
}

// escapeName percent-encodes everything except unreserved characters and
// "/", with spaces as %20.
func escapeName(company string) string {
	return nameEscaper.Replace(url.QueryEscape(company))
}

var nameEscaper = strings.NewReplacer("+", "%20", "%2F", "/")

// usableLink returns the first absolute http(s) URL in raw, or "".
func usableLink(raw string) string {
	candidate := processing.FirstURL(strings.TrimSpace(raw))
	if candidate == "" {
		return ""
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

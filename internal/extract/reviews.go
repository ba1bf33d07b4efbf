package extract

import (
	"context"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/canberk17/moving/internal/processing"
)

// ReviewsLinkIndex returns the position of the first navigation link whose
// text mentions reviews, or -1.
func ReviewsLinkIndex(doc *goquery.Document) int {
	idx := -1
	doc.Find(NavLinkSelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if processing.ContainsFold(s.Text(), reviewsLinkText) {
			idx = i
			return false
		}
		return true
	})
	return idx
}

// OpenReviews switches the page to its reviews view. It reports false when the
// tab is missing or the click failed; neither stops the lookup.
func (x *Extractor) OpenReviews(ctx context.Context, page Page) bool {
	doc, err := page.Document(ctx)
	if err != nil {
		x.log.Warn("could not open reviews tab", slog.Any("err", err))
		return false
	}

	idx := ReviewsLinkIndex(doc)
	if idx < 0 {
		x.log.Warn("could not open reviews tab", slog.String("reason", "reviews tab not found"))
		return false
	}

	if err := page.ClickNth(ctx, NavLinkSelector, idx); err != nil {
		x.log.Warn("could not open reviews tab", slog.Any("err", err))
		return false
	}
	return true
}

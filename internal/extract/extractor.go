// Package extract pulls the profile fields out of a rendered registry page.
//
// Every procedure here resolves to a value or a sentinel. Missing markup is an
// expected outcome and is never reported as an error.
package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/canberk17/moving/internal/logger"
	"github.com/canberk17/moving/internal/models"
	"github.com/canberk17/moving/internal/processing"
)

// Page is the subset of a browser session the extractors need.
type Page interface {
	Exists(ctx context.Context, selector string) (bool, error)
	Document(ctx context.Context) (*goquery.Document, error)
	ClickNth(ctx context.Context, selector string, n int) error
}

// Attempt is one step of a selector chain. A zero Timeout means a single
// lookup against the current document; otherwise the selector is polled every
// Poll until it appears or Timeout elapses.
type Attempt struct {
	Selector string
	Timeout  time.Duration
	Poll     time.Duration
}

// Options tune the staged review-score wait.
type Options struct {
	ReviewTimeout time.Duration
	ReviewPoll    time.Duration
}

// Extractor runs the field procedures.
type Extractor struct {
	reviewTimeout time.Duration
	reviewPoll    time.Duration
	log           *slog.Logger
}

// New builds an Extractor. Zero options fall back to a 30s wait polled every second.
func New(opts Options, log *slog.Logger) *Extractor {
	if opts.ReviewTimeout <= 0 {
		opts.ReviewTimeout = 30 * time.Second
	}
	if opts.ReviewPoll <= 0 {
		opts.ReviewPoll = time.Second
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Extractor{
		reviewTimeout: opts.ReviewTimeout,
		reviewPoll:    opts.ReviewPoll,
		log:           log,
	}
}

// FirstText walks attempts in order and returns the text of the first one
// whose selector matches a non-empty element.
func (x *Extractor) FirstText(ctx context.Context, page Page, attempts ...Attempt) (string, bool) {
	for _, a := range attempts {
		if a.Timeout > 0 && !x.waitFor(ctx, page, a) {
			x.log.Debug("selector did not appear",
				slog.String("selector", a.Selector),
				slog.Duration("timeout", a.Timeout),
			)
			continue
		}

		doc, err := page.Document(ctx)
		if err != nil {
			x.log.Debug("snapshot failed", slog.String("selector", a.Selector), slog.Any("err", err))
			continue
		}
		if text := firstText(doc.Selection, a.Selector); text != "" {
			return text, true
		}
	}
	return "", false
}

func (x *Extractor) waitFor(ctx context.Context, page Page, a Attempt) bool {
	poll := a.Poll
	if poll <= 0 {
		poll = time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		if ok, err := page.Exists(ctx, a.Selector); err == nil && ok {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}

// Profile fills the business name, accreditation and address fields of rec
// from one snapshot of page. Each field is extracted independently; a failure
// in one leaves the others untouched.
func (x *Extractor) Profile(ctx context.Context, page Page, rec *models.ExtractedRecord) {
	doc, err := page.Document(ctx)
	if err != nil {
		x.log.Warn("snapshot profile page", slog.Any("err", err))
		return
	}

	x.guard("business_name", func() {
		rec.BusinessName = BusinessName(doc)
	})
	x.guard("accreditation", func() {
		rec.Accredited, rec.AccreditationRating = Accreditation(doc)
	})
	x.guard("address", func() {
		rec.Address = Address(doc)
	})
}

// guard runs one field procedure and contains any panic to that field.
func (x *Extractor) guard(field string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			x.log.Error("field extraction panicked", slog.String("field", field), slog.Any("panic", r))
		}
	}()
	fn()
}

// BusinessName returns the profile heading or models.NotFound.
func BusinessName(doc *goquery.Document) string {
	if name := firstText(doc.Selection, BusinessNameSelector); name != "" {
		return name
	}
	return models.NotFound
}

// Accreditation reports whether the sidebar accreditation heading carries
// the accredited marker. Missing container, missing heading and missing
// marker all read as not accredited.
func Accreditation(doc *goquery.Document) (accredited, rating string) {
	container := doc.Find(AccreditationContainerSelector).First()
	if container.Length() == 0 {
		return models.No, models.NotAvailable
	}

	heading := firstText(container, AccreditationHeadingSelector)
	if !strings.Contains(heading, AccreditedMarker) {
		return models.No, models.NotAvailable
	}
	return models.Yes, heading
}

// Address joins the two address lines, or returns models.NotFound when both
// are absent.
func Address(doc *goquery.Document) string {
	line1 := firstText(doc.Selection, AddressLine1Selector)
	line2 := firstText(doc.Selection, AddressLine2Selector)
	if line1 == "" && line2 == "" {
		return models.NotFound
	}
	return processing.JoinAddress(line1, line2)
}

// ReviewScore waits for the sidebar score, then tries the alternate score
// element once. With wait false the primary selector is only checked once,
// for pages that never became ready.
func (x *Extractor) ReviewScore(ctx context.Context, page Page, wait bool) string {
	primary := Attempt{Selector: ReviewScoreSelector}
	if wait {
		primary.Timeout = x.reviewTimeout
		primary.Poll = x.reviewPoll
	}

	score, ok := x.FirstText(ctx, page, primary, Attempt{Selector: ReviewScoreFallbackSelector})
	if !ok {
		return models.NotFound
	}
	return score
}

func firstText(sel *goquery.Selection, selector string) string {
	return processing.SquashSpace(sel.Find(selector).First().Text())
}

// Package lookup runs the full registry lookup: resolve a profile link, render
// it in a scoped browser session, extract the profile fields and render the
// summary.
package lookup

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/canberk17/moving/internal/browser"
	"github.com/canberk17/moving/internal/extract"
	"github.com/canberk17/moving/internal/logger"
	"github.com/canberk17/moving/internal/metrics"
	"github.com/canberk17/moving/internal/models"
	"github.com/canberk17/moving/internal/summary"
)

// ErrEmptyCompany is returned when the company name is missing or blank.
var ErrEmptyCompany = errors.New("company name not provided")

const readySelector = "body"

// Resolver picks the profile URL for a company. It never fails.
type Resolver interface {
	Resolve(ctx context.Context, company string) models.ResolvedTarget
}

// Options bound the browser phases of a lookup.
type Options struct {
	NavigateTimeout time.Duration
	ReadyTimeout    time.Duration
}

// Service executes lookups. It is safe for concurrent use; every lookup owns
// its own browser session.
type Service struct {
	resolver  Resolver
	launcher  browser.Launcher
	extractor *extract.Extractor
	metrics   *metrics.Metrics
	opts      Options
	log       *slog.Logger
}

func New(
	resolver Resolver,
	launcher browser.Launcher,
	extractor *extract.Extractor,
	m *metrics.Metrics,
	opts Options,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = logger.Discard()
	}
	if extractor == nil {
		extractor = extract.New(extract.Options{}, log)
	}
	if opts.NavigateTimeout <= 0 {
		opts.NavigateTimeout = 60 * time.Second
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = 20 * time.Second
	}
	return &Service{
		resolver:  resolver,
		launcher:  launcher,
		extractor: extractor,
		metrics:   m,
		opts:      opts,
		log:       log,
	}
}

// Lookup resolves company to a profile page and returns its summary. The only
// error is ErrEmptyCompany; every downstream failure degrades to sentinel
// values in the summary.
func (s *Service) Lookup(ctx context.Context, company string) (*models.SummaryResult, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		s.metrics.RecordLookup(metrics.OutcomeInvalid, 0)
		return nil, ErrEmptyCompany
	}

	start := time.Now()
	log := s.log.With(
		slog.String("lookup_id", uuid.NewString()),
		slog.String("company", company),
	)

	target := s.resolver.Resolve(ctx, company)
	s.metrics.RecordLink(target.Suggested)
	log.Info("resolved profile link", slog.String("url", target.URL), slog.Bool("suggested", target.Suggested))

	rec, degraded := s.scrape(ctx, log, target.URL)
	s.recordMisses(rec)

	outcome := metrics.OutcomeOK
	if degraded {
		outcome = metrics.OutcomeDegraded
	}
	elapsed := time.Since(start)
	s.metrics.RecordLookup(outcome, elapsed)
	log.Info("lookup finished", slog.String("outcome", outcome), slog.Duration("elapsed", elapsed))

	result := summary.Build(rec)
	return &result, nil
}

// scrape renders url and fills a record. The session is closed exactly once
// on every path, including a panic inside extraction, and whatever fields were
// gathered before a failure are kept.
func (s *Service) scrape(ctx context.Context, log *slog.Logger, url string) (rec models.ExtractedRecord, degraded bool) {
	rec = models.NewRecord(url)

	sess, err := s.launcher.Open(ctx)
	if err != nil {
		log.Error("open browser session", slog.Any("err", err))
		return rec, true
	}
	s.metrics.SessionOpened()
	defer func() {
		if err := sess.Close(); err != nil {
			log.Warn("close browser session", slog.Any("err", err))
		}
		s.metrics.SessionClosed()
	}()
	defer func() {
		if r := recover(); r != nil {
			log.Error("extraction panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			degraded = true
		}
	}()

	navCtx, cancel := context.WithTimeout(ctx, s.opts.NavigateTimeout)
	err = sess.Navigate(navCtx, url)
	cancel()

	ready := false
	switch {
	case err == nil:
		readyCtx, cancel := context.WithTimeout(ctx, s.opts.ReadyTimeout)
		err = sess.WaitReady(readyCtx, readySelector)
		cancel()
		ready = err == nil
		if !ready {
			log.Warn("page not ready, extracting partial results",
				slog.Duration("timeout", s.opts.ReadyTimeout),
				slog.Any("err", err),
			)
		}
	case errors.Is(err, context.DeadlineExceeded):
		// The load event never fired but the DOM may already hold the profile.
		log.Warn("navigation timed out, extracting partial results",
			slog.String("url", url),
			slog.Duration("timeout", s.opts.NavigateTimeout),
		)
	default:
		log.Warn("navigate to profile", slog.String("url", url), slog.Any("err", err))
		return rec, true
	}
	if !ready {
		degraded = true
	}

	s.extractor.Profile(ctx, sess, &rec)
	if ready {
		s.extractor.OpenReviews(ctx, sess)
	}
	rec.ReviewScore = s.extractor.ReviewScore(ctx, sess, ready)

	return rec, degraded
}

func (s *Service) recordMisses(rec models.ExtractedRecord) {
	if rec.BusinessName == models.NotFound {
		s.metrics.RecordFieldMiss("business_name")
	}
	if rec.Accredited != models.Yes {
		s.metrics.RecordFieldMiss("accreditation")
	}
	if rec.Address == models.NotFound {
		s.metrics.RecordFieldMiss("address")
	}
	if rec.ReviewScore == models.NotFound {
		s.metrics.RecordFieldMiss("review_score")
	}
}

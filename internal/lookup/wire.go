package lookup

import (
	"log/slog"

	"github.com/canberk17/moving/internal/browser"
	"github.com/canberk17/moving/internal/config"
	"github.com/canberk17/moving/internal/extract"
	"github.com/canberk17/moving/internal/linkresolver"
	"github.com/canberk17/moving/internal/llm"
	"github.com/canberk17/moving/internal/logger"
	"github.com/canberk17/moving/internal/metrics"
)

// Build wires the production collaborators: the completion client behind the
// link resolver, a headless Chrome launcher and the field extractor.
func Build(cfg config.Common, m *metrics.Metrics, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}

	client := llm.NewClient(llm.Options{
		APIKey:  cfg.LinkAPIKey,
		BaseURL: cfg.LinkBaseURL,
		Model:   cfg.LinkModel,
		Timeout: cfg.LinkTimeout,
	})
	resolver := linkresolver.New(client, log.With(slog.String("component", "link_resolver")))
	launcher := browser.NewChromeLauncher(cfg.Browser, log.With(slog.String("component", "browser")))
	extractor := extract.New(extract.Options{
		ReviewTimeout: cfg.ReviewTimeout,
		ReviewPoll:    cfg.ReviewPoll,
	}, log.With(slog.String("component", "extract")))

	return New(resolver, launcher, extractor, m, Options{
		NavigateTimeout: cfg.NavigateTimeout,
		ReadyTimeout:    cfg.ReadyTimeout,
	}, log)
}

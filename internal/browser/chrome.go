package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/canberk17/moving/internal/config"
	"github.com/canberk17/moving/internal/logger"
)

// ChromeLauncher starts a fresh headless Chrome process per session.
type ChromeLauncher struct {
	cfg config.Browser
	log *slog.Logger
}

// NewChromeLauncher returns a launcher using cfg for every session.
func NewChromeLauncher(cfg config.Browser, log *slog.Logger) *ChromeLauncher {
	if log == nil {
		log = logger.Discard()
	}
	return &ChromeLauncher{cfg: cfg, log: log}
}

func (l *ChromeLauncher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(l.cfg.WindowWidth, l.cfg.WindowHeight),
		chromedp.UserAgent(l.cfg.UserAgent),
	)
	if p := strings.TrimSpace(l.cfg.ExecPath); p != "" {
		opts = append(opts, chromedp.ExecPath(p))
	}
	return opts
}

// Open allocates a browser and a tab. The browser is started eagerly so that
// later per-call timeouts only bound individual actions and never the
// browser's lifetime.
func (l *ChromeLauncher) Open(ctx context.Context) (Session, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, l.allocatorOptions()...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...any) {
			l.log.Debug("chromedp", slog.String("msg", fmt.Sprintf(format, args...)))
		}),
	)

	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &chromeSession{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
	}, nil
}

type chromeSession struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	closeOnce   sync.Once
	closeErr    error
}

// scope derives a context from the tab that also honours the caller's
// deadline and cancellation.
func (s *chromeSession) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	return mergeContext(s.ctx, ctx)
}

func mergeContext(base, caller context.Context) (context.Context, context.CancelFunc) {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if dl, ok := caller.Deadline(); ok {
		runCtx, cancel = context.WithDeadline(base, dl)
	} else {
		runCtx, cancel = context.WithCancel(base)
	}
	stop := context.AfterFunc(caller, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := s.scope(ctx)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (s *chromeSession) WaitReady(ctx context.Context, selector string) error {
	runCtx, cancel := s.scope(ctx)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.WaitReady(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	return nil
}

func (s *chromeSession) Exists(ctx context.Context, selector string) (bool, error) {
	runCtx, cancel := s.scope(ctx)
	defer cancel()

	var found bool
	script := fmt.Sprintf("document.querySelector(%s) !== null", jsString(selector))
	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, &found)); err != nil {
		return false, fmt.Errorf("query %q: %w", selector, err)
	}
	return found, nil
}

func (s *chromeSession) Document(ctx context.Context) (*goquery.Document, error) {
	runCtx, cancel := s.scope(ctx)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("snapshot document: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func (s *chromeSession) ClickNth(ctx context.Context, selector string, n int) error {
	runCtx, cancel := s.scope(ctx)
	defer cancel()

	var nodes []*cdp.Node
	if err := chromedp.Run(runCtx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return fmt.Errorf("query %q: %w", selector, err)
	}
	if n < 0 || n >= len(nodes) {
		return fmt.Errorf("click %q[%d] of %d: %w", selector, n, len(nodes), ErrNoSuchElement)
	}

	if err := chromedp.Run(runCtx, chromedp.MouseClickNode(nodes[n])); err != nil {
		return fmt.Errorf("click %q[%d]: %w", selector, n, err)
	}
	return nil
}

func (s *chromeSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = chromedp.Cancel(s.ctx)
		s.cancelTab()
		s.cancelAlloc()
	})
	return s.closeErr
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

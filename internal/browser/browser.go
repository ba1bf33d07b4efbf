// Package browser owns headless browser sessions used to render registry
// profile pages.
package browser

import (
	"context"
	"errors"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoSuchElement is returned when a selector matched fewer nodes than an
// operation needed.
var ErrNoSuchElement = errors.New("no such element")

// Session is one exclusively owned page. Close releases the page and its
// browser process; it is safe to call more than once.
type Session interface {
	Navigate(ctx context.Context, url string) error
	WaitReady(ctx context.Context, selector string) error
	Exists(ctx context.Context, selector string) (bool, error)
	Document(ctx context.Context) (*goquery.Document, error)
	ClickNth(ctx context.Context, selector string, n int) error
	Close() error
}

// Launcher opens new sessions. Every call yields an independent page.
type Launcher interface {
	Open(ctx context.Context) (Session, error)
}

package extract_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

type profile struct {
	Name               string
	AccreditationBlock bool
	AccreditationH3    string
	Line1, Line2       string
	NavLinks           []string
}

func (p profile) html() string {
	var b strings.Builder
	b.WriteString(`<html><head><title>profile</title></head><body><div id="content">`)

	b.WriteString(`<div class="bpr-nav"><div><nav><ul>`)
	for _, l := range p.NavLinks {
		fmt.Fprintf(&b, `<li><a href="#">%s</a></li>`, l)
	}
	b.WriteString(`</ul></nav></div></div>`)

	b.WriteString(`<div class="page-vertical-padding bpr-about-body"><div><div class="with-sidebar">`)
	b.WriteString(`<div class="main">`)
	if p.Name != "" {
		fmt.Fprintf(&b, `<h1 id="businessName">%s</h1>`, p.Name)
	}
	b.WriteString(`</div><div class="sidebar stack"><div>Contact</div>`)

	b.WriteString(`<div class="bpr-overview-card container"><div><div class="bpr-overview-address">`)
	if p.Line1 != "" {
		fmt.Fprintf(&b, `<p>%s</p>`, p.Line1)
	} else {
		b.WriteString(`<span class="placeholder"></span>`)
	}
	if p.Line2 != "" {
		fmt.Fprintf(&b, `<p>%s</p>`, p.Line2)
	}
	b.WriteString(`</div></div></div>`)

	b.WriteString(`<div>Hours</div><div>Categories</div>`)
	if p.AccreditationBlock {
		b.WriteString(`<div><div id="accreditation">`)
		if p.AccreditationH3 != "" {
			fmt.Fprintf(&b, `<h3>%s</h3>`, p.AccreditationH3)
		}
		b.WriteString(`</div></div>`)
	}
	b.WriteString(`</div></div></div></div></div></body></html>`)
	return b.String()
}

// reviewsHTML renders the reviews view with an optional primary and
// alternate score element.
func reviewsHTML(primary, alternate string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="content"><div class="page-vertical-padding"><div><div class="with-sidebar">`)
	b.WriteString(`<div class="main">`)
	if alternate != "" {
		fmt.Fprintf(&b, `<span class="bds-body text-size-70">%s</span>`, alternate)
	}
	b.WriteString(`</div><div class="sidebar stack"><div>`)
	if primary != "" {
		fmt.Fprintf(&b, `<div><span>%s</span></div>`, primary)
	}
	b.WriteString(`</div></div></div></div></div></div></body></html>`)
	return b.String()
}

// fakePage serves a fixed HTML document. A selector listed in delays only
// starts to exist after that many Exists calls for it.
type fakePage struct {
	mu       sync.Mutex
	html     string
	delays   map[string]int
	exists   map[string]int
	docCalls int
	docErr   error
	clickErr error
	clicked  []int
	onClick  func(p *fakePage, n int)
}

func newFakePage(html string) *fakePage {
	return &fakePage{html: html, delays: map[string]int{}, exists: map[string]int{}}
}

func (p *fakePage) Exists(_ context.Context, selector string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.exists[selector]++
	if p.exists[selector] <= p.delays[selector] {
		return false, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.html))
	if err != nil {
		return false, err
	}
	return doc.Find(selector).Length() > 0, nil
}

func (p *fakePage) Document(_ context.Context) (*goquery.Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.docCalls++
	if p.docErr != nil {
		return nil, p.docErr
	}
	return goquery.NewDocumentFromReader(strings.NewReader(p.html))
}

func (p *fakePage) ClickNth(_ context.Context, _ string, n int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.clickErr != nil {
		return p.clickErr
	}
	p.clicked = append(p.clicked, n)
	if p.onClick != nil {
		p.onClick(p, n)
	}
	return nil
}

func (p *fakePage) existsCalls(selector string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exists[selector]
}

var errSnapshot = errors.New("target closed")

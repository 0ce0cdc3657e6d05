// Package probe checks the static markup of the practice site against the
// locator maps without starting a browser. It catches renamed ids and classes
// before a slow browser run does.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/die-net/lrucache"
	"github.com/gocolly/colly/v2"
	"github.com/gregjones/httpcache"

	"github.com/stolasapp/logincheck/internal/locator"
)

const (
	userAgent         = "logincheck-probe/1"
	maxHTTPCacheBytes = 8 * 1024 * 1024 // 8 MiB
	maxHTTPCacheAge   = 5 * 60          // seconds
	idleConns         = 10
	idleConnTimeout   = 90 * time.Second
	httpTimeout       = 10 * time.Second
)

// Check is the verdict for one locator on one page.
type Check struct {
	URL     string
	Locator locator.Locator
	Matches int
}

// Found reports whether the locator matched at least one element.
func (c Check) Found() bool {
	return c.Matches > 0
}

// Prober fetches pages through a small in-memory HTTP cache.
type Prober struct {
	client *http.Client
	logger *slog.Logger
}

// New creates a Prober.
func New(logger *slog.Logger) *Prober {
	return &Prober{
		client: &http.Client{
			Transport: &httpcache.Transport{
				Cache: lrucache.New(maxHTTPCacheBytes, maxHTTPCacheAge),
				Transport: &http.Transport{
					Proxy:               http.ProxyFromEnvironment,
					ForceAttemptHTTP2:   true,
					MaxIdleConns:        idleConns,
					MaxIdleConnsPerHost: idleConns,
					IdleConnTimeout:     idleConnTimeout,
					TLSHandshakeTimeout: httpTimeout,
				},
			},
			Timeout: httpTimeout,
		},
		logger: logger.With(slog.String("component", "probe")),
	}
}

// Probe fetches url and counts the matches of every locator in locs.
func (p *Prober) Probe(ctx context.Context, url string, locs locator.Map) ([]Check, error) {
	checks := make([]Check, 0, len(locs))
	for _, loc := range locs.Sorted() {
		checks = append(checks, Check{URL: url, Locator: loc})
	}

	var (
		visited  bool
		fetchErr error
	)
	col := p.newCollector(ctx)
	col.OnHTML("html", func(doc *colly.HTMLElement) {
		visited = true
		for i := range checks {
			checks[i].Matches = count(doc.DOM, checks[i].Locator)
		}
	})
	col.OnError(func(res *colly.Response, err error) {
		fetchErr = fmt.Errorf("status %d: %w", res.StatusCode, err)
	})

	if err := col.Visit(url); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, errors.Join(err, fetchErr))
	}
	if fetchErr != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, fetchErr)
	}
	if !visited {
		return nil, fmt.Errorf("no HTML document at %s", url)
	}

	for _, c := range checks {
		p.logger.DebugContext(ctx, "probed locator",
			slog.String("url", url),
			slog.String("locator", c.Locator.Name),
			slog.Int("matches", c.Matches),
		)
	}
	return checks, nil
}

func (p *Prober) newCollector(ctx context.Context) *colly.Collector {
	col := colly.NewCollector(
		colly.IgnoreRobotsTxt(),
		colly.UserAgent(userAgent),
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
	)
	col.SetClient(p.client)
	return col
}

// count returns the number of elements under root matching loc, applying the
// text filter the way the browser lookup does.
func count(root *goquery.Selection, loc locator.Locator) int {
	sel := root.Find(loc.Selector)
	if loc.Text == "" {
		return sel.Length()
	}
	return sel.FilterFunction(func(_ int, el *goquery.Selection) bool {
		return strings.Contains(el.Text(), loc.Text)
	}).Length()
}

package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/esilv-labs/askcampus/internal/core/domain"
	"github.com/esilv-labs/askcampus/internal/core/ports/driven"
	"github.com/esilv-labs/askcampus/internal/logger"
)

// Ensure Crawler implements the interface.
var _ driven.DocumentSource = (*Crawler)(nil)

// Crawl limits.
const (
	DefaultMaxPages    = 50
	DefaultRatePerSec  = 2
	defaultFetchTime   = 15 * time.Second
	maxPageBytes       = 2 << 20 // 2 MiB per page
	crawlerUserAgent   = "askcampus-indexer/1.0"
	acceptedScheme     = "https"
	acceptedSchemeAlt  = "http"
	contentTypeTextKey = "text/html"
)

// CrawlerConfig configures the web acquisition.
type CrawlerConfig struct {
	// Seeds are the starting pages. Required.
	Seeds []string

	// MaxPages caps one crawl (default: 50).
	MaxPages int

	// RequestsPerSecond rate-limits fetches (default: 2).
	RequestsPerSecond float64

	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

// Crawler fetches the configured pages and the same-host pages they
// link to, breadth first, up to the page cap. Fetches are rate limited
// so the crawl stays polite.
type Crawler struct {
	seeds    []string
	maxPages int
	limiter  *rate.Limiter
	client   *http.Client
}

// NewCrawler creates a crawler from the config.
func NewCrawler(cfg CrawlerConfig) *Crawler {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRatePerSec
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: defaultFetchTime}
	}

	return &Crawler{
		seeds:    cfg.Seeds,
		maxPages: cfg.MaxPages,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		client:   cfg.Client,
	}
}

// Name identifies the source for logging.
func (c *Crawler) Name() string {
	return fmt.Sprintf("crawler:%d seeds", len(c.seeds))
}

// Load crawls from the seeds and returns one document per fetched
// page. Individual page failures are logged and skipped; the crawl
// only fails when the context is cancelled.
func (c *Crawler) Load(ctx context.Context) ([]domain.SourceDocument, error) {
	queue := make([]string, 0, len(c.seeds))
	seen := make(map[string]bool)
	for _, seed := range c.seeds {
		if normalized, ok := normalizeURL(seed); ok && !seen[normalized] {
			seen[normalized] = true
			queue = append(queue, normalized)
		}
	}

	var docs []domain.SourceDocument
	for len(queue) > 0 && len(docs) < c.maxPages {
		if err := c.limiter.Wait(ctx); err != nil {
			return docs, err
		}

		pageURL := queue[0]
		queue = queue[1:]

		page, err := c.fetch(ctx, pageURL)
		if err != nil {
			logger.Warn("Crawler: skipping %s: %v", pageURL, err)
			continue
		}
		if page.Text == "" {
			continue
		}

		docs = append(docs, domain.SourceDocument{Source: pageURL, Text: page.Text})
		logger.Debug("Crawler: fetched %s (%d chars)", pageURL, len(page.Text))

		for _, link := range page.Links {
			resolved, ok := resolveLink(pageURL, link)
			if !ok || seen[resolved] {
				continue
			}
			seen[resolved] = true
			queue = append(queue, resolved)
		}
	}

	logger.Info("Crawler: acquired %d pages", len(docs))
	return docs, nil
}

// fetch retrieves and parses a single page.
func (c *Crawler) fetch(ctx context.Context, pageURL string) (pageContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return pageContent{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", crawlerUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return pageContent{}, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pageContent{}, fmt.Errorf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, contentTypeTextKey) {
		return pageContent{}, fmt.Errorf("unsupported content type %s", ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return pageContent{}, fmt.Errorf("read body: %w", err)
	}
	return parsePage(string(body)), nil
}

// resolveLink resolves a link against its page and keeps it only when
// it stays on the same host.
func resolveLink(pageURL, link string) (string, bool) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Host != base.Host {
		return "", false
	}
	return normalizeURL(resolved.String())
}

// normalizeURL validates the scheme and strips fragments so the same
// page is never fetched twice.
func normalizeURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	if u.Scheme != acceptedScheme && u.Scheme != acceptedSchemeAlt {
		return "", false
	}
	u.Fragment = ""
	return u.String(), true
}

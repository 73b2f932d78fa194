// Package crawler fetches candidate pages for the similarity engine. Every
// URL walks the same path: cache lookup, robots check, bounded fetch, text
// extraction, content-length floor, write-through cache. All failures are
// soft and typed so the caller can tell blocked from failed from too-short.
package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Umar-fr/TextGuard-Plagiarism/internal/cache"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/extract"
)

// FetchStatus classifies the outcome of one URL.
type FetchStatus string

const (
	// StatusFetched means the page was fetched, extracted and cached.
	StatusFetched FetchStatus = "fetched"
	// StatusCached means a fresh cache entry was served without a network call.
	StatusCached FetchStatus = "cached"
	// StatusBlocked means robots exclusion disallowed the URL; no fetch, no cache write.
	StatusBlocked FetchStatus = "blocked"
	// StatusFailed means the fetch or extraction failed; the URL is skipped.
	StatusFailed FetchStatus = "failed"
	// StatusTooShort means the page fell under the content-length floor.
	StatusTooShort FetchStatus = "too_short"
)

// Outcome is the typed result for one URL.
type Outcome struct {
	URL       string
	Status    FetchStatus
	Text      string
	FetchedAt time.Time
	Err       error
}

// Config bounds the crawler's network behavior.
type Config struct {
	TTL          time.Duration
	FetchTimeout time.Duration
	// Delay is the fixed inter-request pause toward target sites.
	Delay     time.Duration
	MinWords  int
	UserAgent string
}

// Crawler manages the fetch/cache lifecycle for candidate URLs. Safe for
// concurrent use; it holds no lock while blocked on the network.
type Crawler struct {
	cfg        Config
	cache      cache.PageCache
	extractor  extract.Extractor
	httpClient *http.Client
	limiter    *rate.Limiter
	robots     *robotsCache

	// now is injectable so TTL boundaries are testable.
	now func() time.Time
}

func New(cfg Config, pageCache cache.PageCache, extractor extract.Extractor) *Crawler {
	return &Crawler{
		cfg:       cfg,
		cache:     pageCache,
		extractor: extractor,
		httpClient: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(cfg.Delay), 1),
		robots:  newRobotsCache(cfg.TTL),
		now:     time.Now,
	}
}

// Fetch resolves one URL through the cache/robots/fetch state machine.
func (c *Crawler) Fetch(ctx context.Context, rawURL string) Outcome {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return Outcome{URL: rawURL, Status: StatusFailed, Err: fmt.Errorf("unsupported URL: %q", rawURL)}
	}

	// 1. Fresh cache entry: no network call.
	if entry, err := c.cache.Get(ctx, rawURL); err == nil {
		if c.now().Sub(entry.FetchedAt) < c.cfg.TTL {
			return Outcome{URL: rawURL, Status: StatusCached, Text: entry.Text, FetchedAt: entry.FetchedAt}
		}
		// Stale: lazily revalidate below.
	}

	// 2. Robots exclusion: skip with no fetch and no cache write.
	if !c.allowed(ctx, parsed) {
		return Outcome{URL: rawURL, Status: StatusBlocked}
	}

	// 3. Bounded fetch.
	body, contentType, err := c.fetchPage(ctx, rawURL)
	if err != nil {
		return Outcome{URL: rawURL, Status: StatusFailed, Err: err}
	}

	// 4. Visible-content extraction.
	text, err := c.extractor.Extract(extractionName(parsed, contentType), body)
	if err != nil {
		return Outcome{URL: rawURL, Status: StatusFailed, Err: fmt.Errorf("extraction failed: %w", err)}
	}

	// 5. Content-length floor against boilerplate and error pages.
	if len(strings.Fields(text)) < c.cfg.MinWords {
		return Outcome{URL: rawURL, Status: StatusTooShort}
	}

	// 6. Write-through the cache; index and store writes belong to the caller.
	fetchedAt := c.now()
	entry := &cache.Entry{Text: text, FetchedAt: fetchedAt}
	if err := c.cache.Set(ctx, rawURL, entry); err != nil {
		log.Warn().Err(err).Str("url", rawURL).Msg("Failed to write page cache entry")
	}

	return Outcome{URL: rawURL, Status: StatusFetched, Text: text, FetchedAt: fetchedAt}
}

// fetchPage issues one paced, bounded GET.
func (c *Crawler) fetchPage(ctx context.Context, rawURL string) ([]byte, string, error) {
	// 7. Fixed inter-request delay toward target sites.
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("fetch cancelled: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create fetch request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read page body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// extractionName gives the extractor a filename hint from the content type
// or URL path.
func extractionName(u *url.URL, contentType string) string {
	if strings.Contains(contentType, "text/html") || strings.Contains(contentType, "application/xhtml") {
		return "page.html"
	}
	if strings.Contains(contentType, "text/plain") {
		return "page.txt"
	}
	if base := u.Path; strings.Contains(base, ".") {
		return base
	}
	return ""
}

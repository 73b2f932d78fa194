package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/temoto/robotstxt"
)

// robotsCache keeps one parsed robots.txt per host so each candidate URL
// does not cost an extra round-trip.
type robotsCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]robotsEntry
}

type robotsEntry struct {
	data      *robotstxt.RobotsData
	fetchedAt time.Time
}

func newRobotsCache(ttl time.Duration) *robotsCache {
	return &robotsCache{
		ttl:     ttl,
		entries: make(map[string]robotsEntry),
	}
}

// allowed reports whether robots exclusion permits fetching the URL.
// An unreachable robots.txt counts as permission; a 5xx counts as a
// temporary blanket disallow (robotstxt package semantics).
func (c *Crawler) allowed(ctx context.Context, u *url.URL) bool {
	data := c.robotsFor(ctx, u)
	if data == nil {
		return true
	}
	return data.FindGroup(c.cfg.UserAgent).Test(u.RequestURI())
}

func (c *Crawler) robotsFor(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	origin := u.Scheme + "://" + u.Host

	c.robots.mu.Lock()
	entry, ok := c.robots.entries[origin]
	c.robots.mu.Unlock()
	if ok && c.now().Sub(entry.fetchedAt) < c.robots.ttl {
		return entry.data
	}

	data, err := c.fetchRobots(ctx, origin)
	if err != nil {
		log.Debug().Err(err).Str("origin", origin).Msg("robots.txt unavailable, allowing fetch")
		data = nil
	}

	c.robots.mu.Lock()
	c.robots.entries[origin] = robotsEntry{data: data, fetchedAt: c.now()}
	c.robots.mu.Unlock()
	return data
}

func (c *Crawler) fetchRobots(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create robots request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read robots.txt: %w", err)
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse robots.txt: %w", err)
	}
	return data, nil
}

package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Umar-fr/TextGuard-Plagiarism/internal/cache"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/extract"
)

const pageBody = `<html><body><article>
The quick brown fox jumps over the lazy dog while the curious cat
watches from the warm windowsill and the afternoon light slowly fades
across the quiet garden outside the old wooden house.
</article></body></html>`

func testConfig() Config {
	return Config{
		TTL:          time.Hour,
		FetchTimeout: 5 * time.Second,
		Delay:        0,
		MinWords:     10,
		UserAgent:    "TextGuardBot/1.0 (+plagiarism-check)",
	}
}

func newTestCrawler(mem *cache.Memory) *Crawler {
	return New(testConfig(), mem, extract.NewDefault())
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches, extracts and caches", func(t *testing.T) {
		var pageHits int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				http.NotFound(w, r)
				return
			}
			atomic.AddInt64(&pageHits, 1)
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(pageBody))
		}))
		defer srv.Close()

		mem := cache.NewMemory()
		c := newTestCrawler(mem)

		out := c.Fetch(ctx, srv.URL+"/article")
		require.NoError(t, out.Err)
		assert.Equal(t, StatusFetched, out.Status)
		assert.Contains(t, out.Text, "quick brown fox")
		assert.Equal(t, 1, mem.Len())

		// Second fetch is served from the cache.
		out = c.Fetch(ctx, srv.URL+"/article")
		assert.Equal(t, StatusCached, out.Status)
		assert.Contains(t, out.Text, "quick brown fox")
		assert.Equal(t, int64(1), atomic.LoadInt64(&pageHits))
	})

	t.Run("ttl boundary", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(pageBody))
		}))
		defer srv.Close()

		mem := cache.NewMemory()
		c := newTestCrawler(mem)

		base := time.Now()
		require.NoError(t, mem.Set(ctx, srv.URL+"/page", &cache.Entry{
			Text:      "cached text from an earlier fetch of this page",
			FetchedAt: base,
		}))

		// Just inside the TTL: served from cache.
		c.now = func() time.Time { return base.Add(time.Hour - time.Second) }
		out := c.Fetch(ctx, srv.URL+"/page")
		assert.Equal(t, StatusCached, out.Status)
		assert.Equal(t, "cached text from an earlier fetch of this page", out.Text)

		// Just past the TTL: refetched and the cache entry replaced.
		c.now = func() time.Time { return base.Add(time.Hour + time.Second) }
		out = c.Fetch(ctx, srv.URL+"/page")
		assert.Equal(t, StatusFetched, out.Status)
		assert.Contains(t, out.Text, "quick brown fox")

		entry, err := mem.Get(ctx, srv.URL+"/page")
		require.NoError(t, err)
		assert.Contains(t, entry.Text, "quick brown fox")
	})

	t.Run("robots disallow blocks without fetching", func(t *testing.T) {
		var pageHits int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
				return
			}
			atomic.AddInt64(&pageHits, 1)
			w.Write([]byte(pageBody))
		}))
		defer srv.Close()

		mem := cache.NewMemory()
		c := newTestCrawler(mem)

		out := c.Fetch(ctx, srv.URL+"/private/secret")
		assert.Equal(t, StatusBlocked, out.Status)
		assert.Equal(t, int64(0), atomic.LoadInt64(&pageHits))
		assert.Equal(t, 0, mem.Len())

		// Paths outside the disallow rule still fetch.
		out = c.Fetch(ctx, srv.URL+"/public/page")
		assert.Equal(t, StatusFetched, out.Status)
		assert.Equal(t, int64(1), atomic.LoadInt64(&pageHits))
	})

	t.Run("content below the word floor", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html><body><p>too short</p></body></html>"))
		}))
		defer srv.Close()

		mem := cache.NewMemory()
		c := newTestCrawler(mem)

		out := c.Fetch(ctx, srv.URL+"/stub")
		assert.Equal(t, StatusTooShort, out.Status)
		assert.Equal(t, 0, mem.Len())
	})

	t.Run("non-2xx response fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "gone", http.StatusGone)
		}))
		defer srv.Close()

		c := newTestCrawler(cache.NewMemory())

		out := c.Fetch(ctx, srv.URL+"/gone")
		assert.Equal(t, StatusFailed, out.Status)
		assert.Error(t, out.Err)
	})

	t.Run("unsupported URL scheme fails", func(t *testing.T) {
		c := newTestCrawler(cache.NewMemory())

		out := c.Fetch(ctx, "ftp://example.com/file")
		assert.Equal(t, StatusFailed, out.Status)
		assert.Error(t, out.Err)
	})

	t.Run("sends the configured user agent", func(t *testing.T) {
		var gotUA string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				http.NotFound(w, r)
				return
			}
			gotUA = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(pageBody))
		}))
		defer srv.Close()

		c := newTestCrawler(cache.NewMemory())
		c.Fetch(ctx, srv.URL+"/page")
		assert.Equal(t, "TextGuardBot/1.0 (+plagiarism-check)", gotUA)
	})
}

func TestDiscover(t *testing.T) {
	ctx := context.Background()

	t.Run("nil provider falls back to seeds", func(t *testing.T) {
		urls := Discover(ctx, nil, []string{"some phrase"}, 5, time.Second, []string{"https://example.com/a"})
		assert.Equal(t, []string{"https://example.com/a"}, urls)
	})

	t.Run("deduplicates and caps", func(t *testing.T) {
		p := providerFunc(func(_ context.Context, _ string, _ int) ([]string, error) {
			return []string{"https://a.test/", "https://b.test/", "https://a.test/"}, nil
		})
		urls := Discover(ctx, p, []string{"one", "two"}, 3, time.Second, nil)
		assert.Len(t, urls, 2)
	})

	t.Run("provider failure falls back to seeds", func(t *testing.T) {
		p := providerFunc(func(_ context.Context, _ string, _ int) ([]string, error) {
			return nil, context.DeadlineExceeded
		})
		urls := Discover(ctx, p, []string{"one"}, 5, time.Second, []string{"https://seed.test/"})
		assert.Equal(t, []string{"https://seed.test/"}, urls)
	})
}

type providerFunc func(ctx context.Context, query string, limit int) ([]string, error)

func (f providerFunc) Search(ctx context.Context, query string, limit int) ([]string, error) {
	return f(ctx, query, limit)
}

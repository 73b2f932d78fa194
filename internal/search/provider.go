// Package search is the web-search collaborator boundary: a phrase query in,
// candidate URLs out. The provider is opaque, rate-limited, and may fail or
// time out; callers bound every call with a context deadline and treat
// failures as soft.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Provider returns candidate URLs for a phrase query. Implementations must
// honor ctx cancellation.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// HTTPProvider talks to a JSON-over-HTTP search service:
// GET {base}/search?q=...&limit=N -> {"results": [{"url": "..."}]}.
type HTTPProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPProvider creates a provider with a bounded per-request timeout; the
// per-call context may shorten it further but never extend it.
func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type searchResponse struct {
	Results []struct {
		URL string `json:"url"`
	} `json:"results"`
}

func (p *HTTPProvider) Search(ctx context.Context, query string, limit int) ([]string, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&limit=%s",
		p.baseURL, url.QueryEscape(query), strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	if p.apiKey != "" {
		req.Header.Set("x-api-key", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	urls := make([]string, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.URL != "" {
			urls = append(urls, r.URL)
		}
	}
	return urls, nil
}

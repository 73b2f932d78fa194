package crawler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Umar-fr/TextGuard-Plagiarism/internal/search"
)

// Discover sends each phrase to the search provider under a hard per-call
// timeout and returns the deduplicated candidate URLs, capped at maxURLs.
// When the provider is missing, keeps failing, or yields nothing, discovery
// degrades to the fallback seed list instead of failing the request.
func Discover(
	ctx context.Context,
	provider search.Provider,
	phrases []string,
	maxURLs int,
	timeout time.Duration,
	fallback []string,
) []string {
	if maxURLs <= 0 {
		return nil
	}
	if provider == nil {
		return capURLs(fallback, maxURLs)
	}

	seen := make(map[string]struct{})
	urls := make([]string, 0, maxURLs)

	for _, phrase := range phrases {
		if ctx.Err() != nil {
			break
		}
		if len(urls) >= maxURLs {
			break
		}

		callCtx, cancel := context.WithTimeout(ctx, timeout)
		results, err := provider.Search(callCtx, phrase, maxURLs-len(urls))
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("phrase", phrase).Msg("Search provider failed for phrase")
			continue
		}

		for _, u := range results {
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			urls = append(urls, u)
			if len(urls) >= maxURLs {
				break
			}
		}
	}

	if len(urls) == 0 {
		log.Info().Int("fallbackSeeds", len(fallback)).Msg("Search discovery yielded no URLs, using fallback seeds")
		return capURLs(fallback, maxURLs)
	}
	return urls
}

func capURLs(urls []string, maxURLs int) []string {
	if len(urls) > maxURLs {
		return urls[:maxURLs]
	}
	return urls
}

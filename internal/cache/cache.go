// Package cache holds the per-URL page cache behind the crawler. Entries
// carry their fetch timestamp; staleness is decided by the crawler against
// its own clock, so the TTL boundary is testable without a real backend.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrMiss reports that no entry exists for the URL.
var ErrMiss = errors.New("cache miss")

// Entry is one cached page body with its fetch timestamp.
type Entry struct {
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// PageCache stores extracted page text keyed by URL.
type PageCache interface {
	Get(ctx context.Context, url string) (*Entry, error)
	Set(ctx context.Context, url string, entry *Entry) error
	Delete(ctx context.Context, url string) error
	Clear(ctx context.Context) error
}

// Key derives the storage key for a URL. Hashing keeps keys bounded and
// free of characters the backend might reject.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

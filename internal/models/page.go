package models

import (
	"time"
)

// Page represents a document in the candidate corpus, either crawled from
// the web or indexed locally. At most one page exists per URL; a re-fetch
// replaces text, sketch and fetch timestamp in place.
type Page struct {
	ID          string    `bson:"_id" json:"id"`
	URL         string    `bson:"url,omitempty" json:"url,omitempty"`
	Label       string    `bson:"label,omitempty" json:"label,omitempty"`
	Domain      string    `bson:"domain,omitempty" json:"domain,omitempty"`
	Text        string    `bson:"text" json:"-"`
	ContentHash string    `bson:"contentHash" json:"contentHash"`
	Words       int       `bson:"words" json:"words"`
	Shingles    int       `bson:"shingles" json:"shingles"`
	FetchedAt   time.Time `bson:"fetchedAt" json:"fetchedAt"`

	// Sketch is persisted with the index snapshot, not with the page
	// document, so the index and its sketches always load together.
	Sketch []uint64 `bson:"-" json:"-"`
}

// DisplayName returns the label for locally indexed documents and the URL
// for crawled pages.
func (p *Page) DisplayName() string {
	if p.Label != "" {
		return p.Label
	}
	return p.URL
}

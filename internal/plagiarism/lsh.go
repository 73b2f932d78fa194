package plagiarism

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// BandedIndex buckets documents by hashed sketch bands. Two sketches that
// agree on any one band land in the same bucket for that band, so candidate
// retrieval is a union of bucket lookups instead of a corpus scan.
//
// The default 32 bands x 4 rows over a 128-position sketch is the offline
// tuning for a similarity threshold around 0.4-0.5: pairs above it are very
// likely to collide in at least one band, pairs well below it rarely do.
// The index is not internally synchronized; the owning service serializes
// mutations and queries.
type BandedIndex struct {
	bands int
	rows  int

	// buckets[band][bandKey] -> set of docIDs
	buckets []map[uint64]map[string]struct{}
	// docs holds the sketch each document was inserted with, so entries can
	// be removed and the whole table serialized.
	docs map[string][]uint64
}

// NewBandedIndex creates an empty index for sketches of the given length.
func NewBandedIndex(bands, rows, sketchLen int) (*BandedIndex, error) {
	if bands <= 0 || rows <= 0 {
		return nil, fmt.Errorf("bands and rows must be positive, got %d x %d", bands, rows)
	}
	if bands*rows > sketchLen {
		return nil, fmt.Errorf("bands*rows (%d) exceeds sketch length %d", bands*rows, sketchLen)
	}

	buckets := make([]map[uint64]map[string]struct{}, bands)
	for i := range buckets {
		buckets[i] = make(map[uint64]map[string]struct{})
	}
	return &BandedIndex{
		bands:   bands,
		rows:    rows,
		buckets: buckets,
		docs:    make(map[string][]uint64),
	}, nil
}

// Insert adds a document to every band bucket its sketch belongs to.
// Re-inserting an existing docID first removes the old entry, so there is
// never more than one entry per document.
func (ix *BandedIndex) Insert(docID string, sketch []uint64) {
	if _, exists := ix.docs[docID]; exists {
		ix.Remove(docID)
	}

	for band := 0; band < ix.bands; band++ {
		key := ix.bandKey(band, sketch)
		bucket := ix.buckets[band][key]
		if bucket == nil {
			bucket = make(map[string]struct{})
			ix.buckets[band][key] = bucket
		}
		bucket[docID] = struct{}{}
	}
	ix.docs[docID] = sketch
}

// Query returns the union of docIDs sharing at least one band bucket with
// the query sketch, excluding selfID. The result is an approximate
// candidate set: callers re-score it with exact Jaccard.
func (ix *BandedIndex) Query(sketch []uint64, selfID string) []string {
	seen := make(map[string]struct{})
	for band := 0; band < ix.bands; band++ {
		key := ix.bandKey(band, sketch)
		for docID := range ix.buckets[band][key] {
			if docID == selfID {
				continue
			}
			seen[docID] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for docID := range seen {
		out = append(out, docID)
	}
	return out
}

// Remove deletes a document from every bucket it occupies. Unknown docIDs
// are a no-op.
func (ix *BandedIndex) Remove(docID string) {
	sketch, exists := ix.docs[docID]
	if !exists {
		return
	}

	for band := 0; band < ix.bands; band++ {
		key := ix.bandKey(band, sketch)
		bucket := ix.buckets[band][key]
		delete(bucket, docID)
		if len(bucket) == 0 {
			delete(ix.buckets[band], key)
		}
	}
	delete(ix.docs, docID)
}

// Len returns the number of indexed documents.
func (ix *BandedIndex) Len() int {
	return len(ix.docs)
}

// Sketch returns the sketch a document was inserted with.
func (ix *BandedIndex) Sketch(docID string) ([]uint64, bool) {
	sketch, ok := ix.docs[docID]
	return sketch, ok
}

// DocIDs returns all indexed document IDs.
func (ix *BandedIndex) DocIDs() []string {
	ids := make([]string, 0, len(ix.docs))
	for id := range ix.docs {
		ids = append(ids, id)
	}
	return ids
}

// bandKey hashes one contiguous band of the sketch.
func (ix *BandedIndex) bandKey(band int, sketch []uint64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	start := band * ix.rows
	for _, v := range sketch[start : start+ix.rows] {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	return h.Sum64()
}

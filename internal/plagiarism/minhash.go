package plagiarism

import (
	"hash/fnv"
	"math/rand"
)

// mersennePrime is the modulus of the universal hash family.
const mersennePrime = (1 << 61) - 1

// EmptySketchValue fills every position of a sketch built from an empty
// shingle set. Such a sketch never collides with a non-empty one.
const EmptySketchValue = ^uint64(0)

// SeedTable holds the (a, b) coefficients of the universal hash family
// (a*h + b) mod p, one pair per sketch position. Index and query sketches
// must be built from the same table, so the table is generated once at
// startup (or loaded with the index snapshot) and persisted alongside it.
type SeedTable struct {
	A []uint64
	B []uint64
}

// NewSeedTable generates a seed table of the given length from a
// deterministic RNG seed.
func NewSeedTable(numPerm int, seed int64) *SeedTable {
	rng := rand.New(rand.NewSource(seed))
	st := &SeedTable{
		A: make([]uint64, numPerm),
		B: make([]uint64, numPerm),
	}
	for i := 0; i < numPerm; i++ {
		st.A[i] = uint64(rng.Int63n(mersennePrime-1)) + 1
		st.B[i] = uint64(rng.Int63n(mersennePrime))
	}
	return st
}

// Len returns the sketch length this table produces.
func (st *SeedTable) Len() int {
	return len(st.A)
}

// Sketch computes the MinHash sketch of a shingle set. Order independent;
// an empty set yields a sketch of EmptySketchValue at every position.
func (st *SeedTable) Sketch(shingles map[string]struct{}) []uint64 {
	sketch := make([]uint64, len(st.A))
	for i := range sketch {
		sketch[i] = EmptySketchValue
	}

	for s := range shingles {
		h := hashShingle(s)
		for i := range sketch {
			x := (st.A[i]*h + st.B[i]) % mersennePrime
			if x < sketch[i] {
				sketch[i] = x
			}
		}
	}
	return sketch
}

func hashShingle(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// EstimateSimilarity returns the fraction of equal positions between two
// sketches built from the same seed table, an unbiased estimator of the
// Jaccard similarity of the underlying shingle sets.
func EstimateSimilarity(a, b []uint64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0.0
	}
	equal := 0
	for i := range a {
		if a[i] == b[i] {
			equal++
		}
	}
	return float64(equal) / float64(len(a))
}

package plagiarism

import (
	"errors"
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// snapshotVersion tags the serialized index format. Bump on any layout
// change; a mismatch at load time is fatal, never a silent reset.
const snapshotVersion = 1

var (
	// ErrCorruptSnapshot reports a snapshot that cannot be decoded.
	ErrCorruptSnapshot = errors.New("corrupt index snapshot")
	// ErrSnapshotVersion reports a snapshot written by an incompatible format version.
	ErrSnapshotVersion = errors.New("index snapshot version mismatch")
)

// EncodeIndex serializes the seed table, banding parameters and every
// document sketch. Buckets are rebuilt on decode, so they are not stored.
func EncodeIndex(ix *BandedIndex, seeds *SeedTable) []byte {
	numPerm := seeds.Len()

	size := varint.PositiveInt.Size(snapshotVersion)
	size += varint.PositiveInt.Size(ix.bands)
	size += varint.PositiveInt.Size(ix.rows)
	size += varint.PositiveInt.Size(numPerm)
	for i := 0; i < numPerm; i++ {
		size += varint.Uint64.Size(seeds.A[i])
		size += varint.Uint64.Size(seeds.B[i])
	}
	size += varint.PositiveInt.Size(len(ix.docs))
	for docID, sketch := range ix.docs {
		size += ord.String.Size(docID)
		for _, v := range sketch {
			size += varint.Uint64.Size(v)
		}
	}

	buf := make([]byte, size)
	n := varint.PositiveInt.Marshal(snapshotVersion, buf)
	n += varint.PositiveInt.Marshal(ix.bands, buf[n:])
	n += varint.PositiveInt.Marshal(ix.rows, buf[n:])
	n += varint.PositiveInt.Marshal(numPerm, buf[n:])
	for i := 0; i < numPerm; i++ {
		n += varint.Uint64.Marshal(seeds.A[i], buf[n:])
		n += varint.Uint64.Marshal(seeds.B[i], buf[n:])
	}
	n += varint.PositiveInt.Marshal(len(ix.docs), buf[n:])
	for docID, sketch := range ix.docs {
		n += ord.String.Marshal(docID, buf[n:])
		for _, v := range sketch {
			n += varint.Uint64.Marshal(v, buf[n:])
		}
	}
	return buf[:n]
}

// DecodeIndex reconstructs the index and seed table from a snapshot,
// rebuilding every band bucket by re-inserting the stored sketches.
func DecodeIndex(data []byte) (*BandedIndex, *SeedTable, error) {
	version, n, err := varint.PositiveInt.Unmarshal(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if version != snapshotVersion {
		return nil, nil, fmt.Errorf("%w: snapshot version %d, want %d", ErrSnapshotVersion, version, snapshotVersion)
	}

	var bands, rows, numPerm int
	var m int
	if bands, m, err = varint.PositiveInt.Unmarshal(data[n:]); err != nil {
		return nil, nil, fmt.Errorf("%w: bands: %v", ErrCorruptSnapshot, err)
	}
	n += m
	if rows, m, err = varint.PositiveInt.Unmarshal(data[n:]); err != nil {
		return nil, nil, fmt.Errorf("%w: rows: %v", ErrCorruptSnapshot, err)
	}
	n += m
	if numPerm, m, err = varint.PositiveInt.Unmarshal(data[n:]); err != nil {
		return nil, nil, fmt.Errorf("%w: permutations: %v", ErrCorruptSnapshot, err)
	}
	n += m
	if numPerm <= 0 {
		return nil, nil, fmt.Errorf("%w: non-positive permutation count %d", ErrCorruptSnapshot, numPerm)
	}

	seeds := &SeedTable{
		A: make([]uint64, numPerm),
		B: make([]uint64, numPerm),
	}
	for i := 0; i < numPerm; i++ {
		if seeds.A[i], m, err = varint.Uint64.Unmarshal(data[n:]); err != nil {
			return nil, nil, fmt.Errorf("%w: seed table: %v", ErrCorruptSnapshot, err)
		}
		n += m
		if seeds.B[i], m, err = varint.Uint64.Unmarshal(data[n:]); err != nil {
			return nil, nil, fmt.Errorf("%w: seed table: %v", ErrCorruptSnapshot, err)
		}
		n += m
	}

	ix, err := NewBandedIndex(bands, rows, numPerm)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	var count int
	if count, m, err = varint.PositiveInt.Unmarshal(data[n:]); err != nil {
		return nil, nil, fmt.Errorf("%w: document count: %v", ErrCorruptSnapshot, err)
	}
	n += m
	for d := 0; d < count; d++ {
		var docID string
		if docID, m, err = ord.String.Unmarshal(data[n:]); err != nil {
			return nil, nil, fmt.Errorf("%w: docID: %v", ErrCorruptSnapshot, err)
		}
		n += m
		sketch := make([]uint64, numPerm)
		for i := 0; i < numPerm; i++ {
			if sketch[i], m, err = varint.Uint64.Unmarshal(data[n:]); err != nil {
				return nil, nil, fmt.Errorf("%w: sketch for %s: %v", ErrCorruptSnapshot, docID, err)
			}
			n += m
		}
		ix.Insert(docID, sketch)
	}

	return ix, seeds, nil
}

package plagiarism

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shingleSet(items ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}

func TestNewSeedTable(t *testing.T) {
	t.Run("deterministic for a fixed seed", func(t *testing.T) {
		a := NewSeedTable(128, 1)
		b := NewSeedTable(128, 1)
		assert.Equal(t, a.A, b.A)
		assert.Equal(t, a.B, b.B)
	})

	t.Run("different seeds give different tables", func(t *testing.T) {
		a := NewSeedTable(128, 1)
		b := NewSeedTable(128, 2)
		assert.NotEqual(t, a.A, b.A)
	})

	t.Run("coefficients stay in the field", func(t *testing.T) {
		st := NewSeedTable(256, 7)
		for i := 0; i < st.Len(); i++ {
			assert.GreaterOrEqual(t, st.A[i], uint64(1))
			assert.Less(t, st.A[i], uint64(mersennePrime))
			assert.Less(t, st.B[i], uint64(mersennePrime))
		}
	})
}

func TestSketch(t *testing.T) {
	seeds := NewSeedTable(128, 1)

	t.Run("identical sets give identical sketches", func(t *testing.T) {
		a := seeds.Sketch(shingleSet("one two", "two three", "three four"))
		b := seeds.Sketch(shingleSet("three four", "one two", "two three"))
		assert.Equal(t, a, b)
	})

	t.Run("empty set yields the sentinel sketch", func(t *testing.T) {
		sketch := seeds.Sketch(nil)
		require.Len(t, sketch, 128)
		for _, v := range sketch {
			assert.Equal(t, EmptySketchValue, v)
		}
	})

	t.Run("empty sketch never matches a non-empty one", func(t *testing.T) {
		empty := seeds.Sketch(nil)
		full := seeds.Sketch(shingleSet("some content here"))
		assert.Equal(t, 0.0, EstimateSimilarity(empty, full))
	})
}

func TestEstimateSimilarity(t *testing.T) {
	seeds := NewSeedTable(128, 1)

	t.Run("identical sets estimate 1", func(t *testing.T) {
		set := shingleSet("aa bb", "bb cc", "cc dd")
		sketch := seeds.Sketch(set)
		assert.Equal(t, 1.0, EstimateSimilarity(sketch, sketch))
	})

	t.Run("disjoint sets estimate near 0", func(t *testing.T) {
		a := seeds.Sketch(shingleSet("alpha beta", "beta gamma", "gamma delta", "delta epsilon"))
		b := seeds.Sketch(shingleSet("uno dos", "dos tres", "tres cuatro", "cuatro cinco"))
		assert.Less(t, EstimateSimilarity(a, b), 0.15)
	})

	t.Run("mismatched lengths estimate 0", func(t *testing.T) {
		assert.Equal(t, 0.0, EstimateSimilarity(make([]uint64, 64), make([]uint64, 128)))
		assert.Equal(t, 0.0, EstimateSimilarity(nil, nil))
	})

	// Mean absolute error against exact Jaccard shrinks as the sketch grows.
	// Positions are independent estimators, so a prefix of a longer sketch is
	// itself a valid smaller sketch.
	t.Run("error shrinks with sketch length", func(t *testing.T) {
		const trials = 200
		rng := rand.New(rand.NewSource(42))
		lengths := []int{16, 64, 128}
		mae := make(map[int]float64, len(lengths))

		for trial := 0; trial < trials; trial++ {
			shared := rng.Intn(80) + 10
			onlyA := rng.Intn(80) + 10
			onlyB := rng.Intn(80) + 10

			setA := make(map[string]struct{})
			setB := make(map[string]struct{})
			for i := 0; i < shared; i++ {
				s := fmt.Sprintf("shared-%d-%d", trial, i)
				setA[s] = struct{}{}
				setB[s] = struct{}{}
			}
			for i := 0; i < onlyA; i++ {
				setA[fmt.Sprintf("a-%d-%d", trial, i)] = struct{}{}
			}
			for i := 0; i < onlyB; i++ {
				setB[fmt.Sprintf("b-%d-%d", trial, i)] = struct{}{}
			}

			exact := Jaccard(setA, setB)
			sketchA := seeds.Sketch(setA)
			sketchB := seeds.Sketch(setB)

			for _, n := range lengths {
				est := EstimateSimilarity(sketchA[:n], sketchB[:n])
				mae[n] += math.Abs(est - exact)
			}
		}
		for _, n := range lengths {
			mae[n] /= trials
		}

		assert.Less(t, mae[64], mae[16])
		assert.Less(t, mae[128], mae[64])
		assert.Less(t, mae[128], 0.06)
	})
}

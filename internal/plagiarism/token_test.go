package plagiarism

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	t.Run("lowercases and splits on non-alphanumerics", func(t *testing.T) {
		tokens := Tokenize("Hello, World! It's 2024.")
		assert.Equal(t, []string{"hello", "world", "it", "2024"}, tokens)
	})

	t.Run("drops single-character tokens", func(t *testing.T) {
		tokens := Tokenize("a b cd e fg")
		assert.Equal(t, []string{"cd", "fg"}, tokens)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Tokenize(""))
		assert.Empty(t, Tokenize("   \t\n  "))
		assert.Empty(t, Tokenize("!?.,;:"))
	})

	t.Run("digits are kept", func(t *testing.T) {
		tokens := Tokenize("version 1.25 released")
		assert.Equal(t, []string{"version", "25", "released"}, tokens)
	})

	t.Run("deterministic", func(t *testing.T) {
		text := "The Quick Brown Fox jumps over the lazy dog"
		assert.Equal(t, Tokenize(text), Tokenize(text))
	})

	t.Run("non-ascii acts as separator", func(t *testing.T) {
		tokens := Tokenize("café au lait")
		assert.Equal(t, []string{"caf", "au", "lait"}, tokens)
	})
}

func TestShingles(t *testing.T) {
	t.Run("sliding windows", func(t *testing.T) {
		tokens := []string{"the", "quick", "brown", "fox", "jumps"}
		set := Shingles(tokens, 3)

		assert.Len(t, set, 3)
		assert.Contains(t, set, "the quick brown")
		assert.Contains(t, set, "quick brown fox")
		assert.Contains(t, set, "brown fox jumps")
	})

	t.Run("short sequence collapses to a single shingle", func(t *testing.T) {
		for _, tokens := range [][]string{
			{"hello"},
			{"hello", "world"},
			{"one", "two", "three"},
		} {
			set := Shingles(tokens, 3)
			assert.Len(t, set, 1)
		}
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		tokens := []string{"ab", "cd", "ab", "cd", "ab", "cd"}
		set := Shingles(tokens, 2)

		assert.Len(t, set, 2)
		assert.Contains(t, set, "ab cd")
		assert.Contains(t, set, "cd ab")
	})

	t.Run("empty tokens", func(t *testing.T) {
		assert.Empty(t, Shingles(nil, 5))
		assert.Empty(t, Shingles([]string{}, 5))
	})
}

func TestSearchPhrases(t *testing.T) {
	tokens := Tokenize("one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen")

	t.Run("samples at an even stride", func(t *testing.T) {
		phrases := SearchPhrases(tokens, 5, 3)
		assert.Len(t, phrases, 3)
		assert.Equal(t, "one two three four five", phrases[0])
	})

	t.Run("short input yields the whole sequence", func(t *testing.T) {
		phrases := SearchPhrases([]string{"just", "three", "tokens"}, 5, 3)
		assert.Equal(t, []string{"just three tokens"}, phrases)
	})

	t.Run("never more phrases than windows", func(t *testing.T) {
		phrases := SearchPhrases([]string{"one", "two", "three", "four"}, 3, 10)
		assert.LessOrEqual(t, len(phrases), 2)
	})

	t.Run("duplicates are dropped", func(t *testing.T) {
		repeated := []string{"ab", "ab", "ab", "ab", "ab", "ab", "ab", "ab"}
		phrases := SearchPhrases(repeated, 2, 4)
		assert.Equal(t, []string{"ab ab"}, phrases)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, SearchPhrases(nil, 5, 3))
		assert.Nil(t, SearchPhrases(tokens, 0, 3))
		assert.Nil(t, SearchPhrases(tokens, 5, 0))
	})
}

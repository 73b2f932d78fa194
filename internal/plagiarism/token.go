package plagiarism

import (
	"strings"
)

// Tokenize normalizes text to an ordered token sequence: ASCII letters are
// lower-cased, any run of characters outside [a-z0-9] acts as a separator,
// and tokens of length <= 1 are dropped. Deterministic and locale
// independent; whitespace-only input yields an empty sequence.
func Tokenize(text string) []string {
	tokens := make([]string, 0, len(text)/6)
	var sb strings.Builder

	flush := func() {
		if sb.Len() > 1 {
			tokens = append(tokens, sb.String())
		}
		sb.Reset()
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z' || c >= '0' && c <= '9':
			sb.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			sb.WriteByte(c + ('a' - 'A'))
		default:
			flush()
		}
	}
	flush()

	return tokens
}

// Shingles derives the set of space-joined k-token windows from a token
// sequence. Duplicate windows collapse. When the sequence is non-empty but
// no longer than k, the single shingle is the whole sequence.
func Shingles(tokens []string, k int) map[string]struct{} {
	set := make(map[string]struct{})
	if len(tokens) == 0 {
		return set
	}
	if len(tokens) <= k {
		set[strings.Join(tokens, " ")] = struct{}{}
		return set
	}
	for i := 0; i+k <= len(tokens); i++ {
		set[strings.Join(tokens[i:i+k], " ")] = struct{}{}
	}
	return set
}

package plagiarism

import (
	"strings"
)

// SearchPhrases draws up to maxPhrases representative phrases of phraseLen
// tokens from the token sequence at an even stride. These are the queries
// sent to the search collaborator; sampling a handful of windows across the
// document finds verbatim sources without issuing a query per shingle.
func SearchPhrases(tokens []string, phraseLen, maxPhrases int) []string {
	if len(tokens) == 0 || phraseLen <= 0 || maxPhrases <= 0 {
		return nil
	}
	if len(tokens) <= phraseLen {
		return []string{strings.Join(tokens, " ")}
	}

	windows := len(tokens) - phraseLen + 1
	count := maxPhrases
	if windows < count {
		count = windows
	}
	stride := windows / count

	phrases := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		start := i * stride
		phrase := strings.Join(tokens[start:start+phraseLen], " ")
		if _, dup := seen[phrase]; dup {
			continue
		}
		seen[phrase] = struct{}{}
		phrases = append(phrases, phrase)
	}
	return phrases
}

package plagiarism

import (
	"context"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/Umar-fr/TextGuard-Plagiarism/internal/models"
	"github.com/rs/zerolog/log"
)

// SemanticScorer is the optional embedding collaborator. Similarity returns
// a value in [0, 1]; any error is treated as a soft failure and the
// candidate is scored lexically only.
type SemanticScorer interface {
	Similarity(ctx context.Context, textA, textB string) (float64, error)
}

// Thresholds are the acceptance and blending parameters of the scorer.
// The defaults (jaccard > 0.15 OR semantic > 0.6, 0.6/0.4 blend) are
// empirically chosen and kept configurable.
type Thresholds struct {
	MinJaccard     float64
	MinSemantic    float64
	LexicalWeight  float64
	SemanticWeight float64
	// SemanticWindow truncates each side to its first N bytes before the
	// embedding call.
	SemanticWindow int
}

// Candidate is one document pending exact re-scoring.
type Candidate struct {
	DocID    string
	URL      string
	Label    string
	Text     string
	Shingles map[string]struct{}
	Words    int
}

// ScoreResult carries the accepted, ranked matches and the aggregate score.
type ScoreResult struct {
	Matches []models.Match
	// Score is |query shingles covered by any accepted match| / |query
	// shingles|, clamped to [0, 1]; zero for an empty query.
	Score float64
}

// ScoreCandidates re-scores every candidate with exact Jaccard over the
// query shingle set, blends in the semantic collaborator when present and
// requested, applies the disjunctive acceptance rule, and ranks accepted
// matches by combined score. Candidates never fail the batch: a semantic
// error only degrades that candidate to lexical scoring.
func ScoreCandidates(
	ctx context.Context,
	queryText string,
	queryShingles map[string]struct{},
	candidates []Candidate,
	semantic SemanticScorer,
	useSemantic bool,
	th Thresholds,
	topK int,
) ScoreResult {
	if len(queryShingles) == 0 || len(candidates) == 0 {
		return ScoreResult{Matches: []models.Match{}}
	}

	if useSemantic && semantic == nil {
		log.Debug().Msg("Semantic scoring requested but no embedding collaborator is configured, using lexical only")
		useSemantic = false
	}

	matched := make(map[string]struct{})
	accepted := make([]models.Match, 0, len(candidates))

	for _, cand := range candidates {
		jaccard := Jaccard(queryShingles, cand.Shingles)

		semScore := 0.0
		semScored := false
		if useSemantic {
			score, err := semantic.Similarity(ctx,
				truncate(queryText, th.SemanticWindow),
				truncate(cand.Text, th.SemanticWindow))
			if err != nil {
				log.Warn().Err(err).Str("docId", cand.DocID).Msg("Semantic scoring failed, falling back to lexical")
			} else {
				semScore = clamp01(score)
				semScored = true
			}
		}

		// Either signal alone is sufficient to accept.
		if jaccard <= th.MinJaccard && semScore <= th.MinSemantic {
			continue
		}

		// A failed semantic call leaves the candidate pure lexical; blending
		// in a zero would deflate it against candidates whose calls succeeded.
		combined := jaccard
		if semScored {
			combined = th.LexicalWeight*jaccard + th.SemanticWeight*semScore
		}
		combined = clamp01(combined)

		for s := range queryShingles {
			if _, ok := cand.Shingles[s]; ok {
				matched[s] = struct{}{}
			}
		}

		accepted = append(accepted, models.Match{
			DocID:    cand.DocID,
			URL:      cand.URL,
			Label:    cand.Label,
			Jaccard:  round5(jaccard),
			Semantic: round5(semScore),
			Combined: round5(combined),
			Percent:  round2(jaccard * 100),
			Words:    cand.Words,
			Shingles: len(cand.Shingles),
		})
	}

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].Combined > accepted[j].Combined
	})
	if topK > 0 && len(accepted) > topK {
		accepted = accepted[:topK]
	}

	score := clamp01(float64(len(matched)) / float64(len(queryShingles)))
	return ScoreResult{Matches: accepted, Score: score}
}

// truncate cuts s to at most n bytes, backing off to a rune boundary so the
// window never carries a split UTF-8 sequence to the embeddings API.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}

func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

func round2(v float64) float64 {
	return math.Round(v*1e2) / 1e2
}

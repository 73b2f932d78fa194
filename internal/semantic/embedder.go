// Package semantic implements the optional embedding collaborator on top of
// an OpenAI-compatible embeddings API. When it is not configured the scorer
// degrades to lexical-only; nothing here is on the required path.
package semantic

import (
	"context"
	"fmt"
	"math"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// EmbeddingScorer scores text similarity as the cosine of the two embedding
// vectors, mapped into [0, 1].
type EmbeddingScorer struct {
	embedder embeddings.Embedder
}

// NewEmbeddingScorer connects to an OpenAI-compatible endpoint (OpenAI,
// Ollama, vLLM, ...).
func NewEmbeddingScorer(baseURL, model, apiKey string) (*EmbeddingScorer, error) {
	opts := []openai.Option{
		openai.WithEmbeddingModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		opts = append(opts, openai.WithToken(apiKey))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return &EmbeddingScorer{embedder: embedder}, nil
}

// Similarity embeds both texts and returns their cosine similarity shifted
// into [0, 1].
func (s *EmbeddingScorer) Similarity(ctx context.Context, textA, textB string) (float64, error) {
	vectors, err := s.embedder.EmbedDocuments(ctx, []string{textA, textB})
	if err != nil {
		return 0, fmt.Errorf("failed to embed texts: %w", err)
	}
	if len(vectors) != 2 {
		return 0, fmt.Errorf("expected 2 embedding vectors, got %d", len(vectors))
	}

	cos, err := Cosine(vectors[0], vectors[1])
	if err != nil {
		return 0, err
	}
	// Cosine is in [-1, 1]; the collaborator contract is [0, 1].
	return (cos + 1.0) / 2.0, nil
}

// Cosine returns the cosine similarity of two equal-length vectors.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d vs %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

package recommend

import (
	"context"
	"log"
	"math"
)

// Embedder is the boundary to a sentence-embedding backend. It returns one
// vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// SemanticScorer computes embedding cosine similarity between a user profile
// text and a batch of vacancy texts. Semantic scoring is an enhancement, not
// a dependency: any backend failure yields a zero score for every vacancy so
// the other signals dominate.
type SemanticScorer struct {
	embedder Embedder
	logger   *log.Logger
}

func NewSemanticScorer(embedder Embedder, logger *log.Logger) *SemanticScorer {
	return &SemanticScorer{embedder: embedder, logger: logger}
}

func (s *SemanticScorer) Scores(ctx context.Context, userText string, vacancyTexts []string) []float64 {
	scores := make([]float64, len(vacancyTexts))
	if s == nil || s.embedder == nil || len(vacancyTexts) == 0 {
		return scores
	}

	inputs := make([]string, 0, len(vacancyTexts)+1)
	inputs = append(inputs, userText)
	inputs = append(inputs, vacancyTexts...)

	vectors, err := s.embedder.Embed(ctx, inputs)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("[Semantic] embedding backend unavailable, scoring zero: %v", err)
		}
		return scores
	}
	if len(vectors) != len(inputs) {
		if s.logger != nil {
			s.logger.Printf("[Semantic] embedding backend returned %d vectors for %d inputs, scoring zero", len(vectors), len(inputs))
		}
		return scores
	}

	userVec := l2Normalize(vectors[0])
	for i, v := range vectors[1:] {
		scores[i] = dot(userVec, l2Normalize(v))
	}
	return scores
}

func l2Normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

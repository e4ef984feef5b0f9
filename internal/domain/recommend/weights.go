package recommend

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidWeights = errors.New("invalid blend weights")

// Weights controls how the four component scores blend into the final rank.
// The weights must sum to 1.0.
type Weights struct {
	Rule     float64
	Lexical  float64
	Semantic float64
	Recency  float64
}

func DefaultWeights() Weights {
	return Weights{Rule: 0.4, Lexical: 0.3, Semantic: 0.2, Recency: 0.1}
}

func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"rule":     w.Rule,
		"lexical":  w.Lexical,
		"semantic": w.Semantic,
		"recency":  w.Recency,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s=%v", ErrInvalidWeights, name, v)
		}
	}

	sum := w.Rule + w.Lexical + w.Semantic + w.Recency
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("%w: weights sum to %v, want 1.0", ErrInvalidWeights, sum)
	}
	return nil
}

package recommend

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

const DefaultLimit = 10

type Candidate struct {
	ID               uuid.UUID
	Title            string
	Company          string
	City             string
	Description      string
	Requirements     string
	Responsibilities string
	PublishedAt      *time.Time
	Skills           []SkillWeight
}

type UserSignals struct {
	SkillIDs   map[uuid.UUID]struct{}
	SkillNames []string
	Keywords   string
	About      string
}

type ScoredVacancy struct {
	VacancyID     uuid.UUID
	Score         float64
	RuleScore     float64
	LexicalScore  float64
	SemanticScore float64
	RecencyScore  float64
}

// Ranker blends skill overlap, lexical similarity, semantic similarity and
// recency into one ranked, truncated list. Rank is a plain synchronous
// function; scheduling and caching live elsewhere.
type Ranker struct {
	weights       Weights
	semantic      *SemanticScorer
	maxVocabulary int
	now           func() time.Time
}

func NewRanker(weights Weights, semantic *SemanticScorer) (*Ranker, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Ranker{
		weights:       weights,
		semantic:      semantic,
		maxVocabulary: defaultMaxVocabulary,
		now:           time.Now,
	}, nil
}

func (r *Ranker) Rank(ctx context.Context, user UserSignals, candidates []Candidate, limit int) []ScoredVacancy {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(candidates) == 0 {
		return []ScoredVacancy{}
	}
	if !user.hasSignal() {
		return []ScoredVacancy{}
	}

	userText := BuildUserProfileText(user.SkillNames, user.Keywords, user.About)
	vacancyTexts := make([]string, len(candidates))
	for i, c := range candidates {
		vacancyTexts[i] = BuildVacancyText(c.Title, c.Description, c.Requirements, c.Responsibilities, c.Company)
	}

	// A fresh vectorizer per pass: term statistics must be fit jointly over
	// this batch only.
	lexScores := NewVectorizer(r.maxVocabulary).LexicalScores(userText, vacancyTexts)
	semScores := r.semantic.Scores(ctx, userText, vacancyTexts)

	now := r.now().UTC()

	out := make([]ScoredVacancy, 0, len(candidates))
	for i, c := range candidates {
		rule := OverlapScore(user.SkillIDs, c.Skills)
		recency := RecencyScore(c.PublishedAt, now)

		final := r.weights.Rule*rule +
			r.weights.Lexical*lexScores[i] +
			r.weights.Semantic*semScores[i] +
			r.weights.Recency*recency
		final = round3(final)

		// A candidate with no signal at all is noise, not a recommendation.
		if final == 0.0 {
			continue
		}

		out = append(out, ScoredVacancy{
			VacancyID:     c.ID,
			Score:         final,
			RuleScore:     round3(rule),
			LexicalScore:  round3(lexScores[i]),
			SemanticScore: round3(semScores[i]),
			RecencyScore:  round3(recency),
		})
	}

	// Stable sort keeps first-seen input order on score ties.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (u UserSignals) hasSignal() bool {
	if len(u.SkillIDs) > 0 || len(u.SkillNames) > 0 {
		return true
	}
	return BuildUserProfileText(nil, u.Keywords, u.About) != ""
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

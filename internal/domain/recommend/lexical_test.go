package recommend

import "testing"

func TestLexicalScores_EmptyUserText(t *testing.T) {
	v := NewVectorizer(0)
	got := v.LexicalScores("   ", []string{"golang backend", "data engineer"})
	if len(got) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(got))
	}
	for i, s := range got {
		if s != 0.0 {
			t.Fatalf("expected 0.0 at %d, got %v", i, s)
		}
	}
}

func TestLexicalScores_EmptyBatch(t *testing.T) {
	v := NewVectorizer(0)
	if got := v.LexicalScores("golang", nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestLexicalScores_RelevantTextScoresHigher(t *testing.T) {
	v := NewVectorizer(0)

	userText := "golang backend postgres docker"
	scores := v.LexicalScores(userText, []string{
		"golang backend engineer postgres docker kubernetes",
		"marketing manager social media campaigns",
	})

	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}
	if scores[0] <= scores[1] {
		t.Fatalf("expected relevant vacancy to score higher: %v vs %v", scores[0], scores[1])
	}
	if scores[1] != 0.0 {
		t.Fatalf("expected fully disjoint vacancy to score 0.0, got %v", scores[1])
	}
	if scores[0] <= 0.0 || scores[0] > 1.0 {
		t.Fatalf("expected score in (0, 1], got %v", scores[0])
	}
}

func TestLexicalScores_CaseInsensitive(t *testing.T) {
	v := NewVectorizer(0)

	lower := v.LexicalScores("golang postgres", []string{"golang postgres"})
	upper := v.LexicalScores("GOLANG POSTGRES", []string{"Golang Postgres"})

	if lower[0] != upper[0] {
		t.Fatalf("expected case-insensitive scoring: %v vs %v", lower[0], upper[0])
	}
	if lower[0] <= 0.99 {
		t.Fatalf("expected near-identical texts to score ~1.0, got %v", lower[0])
	}
}

func TestLexicalScores_BigramsContribute(t *testing.T) {
	v := NewVectorizer(0)

	// Same unigrams, different adjacency: the matching word order shares
	// bigram terms with the user text and must score at least as high.
	scores := v.LexicalScores("machine learning", []string{
		"machine learning",
		"learning machine",
	})
	if scores[0] <= scores[1] {
		t.Fatalf("expected bigram match to score strictly higher: %v vs %v", scores[0], scores[1])
	}
}

func TestLexicalScores_VocabularyCapIsDeterministic(t *testing.T) {
	v := NewVectorizer(3)

	texts := []string{
		"alpha beta gamma delta epsilon",
		"alpha beta gamma",
	}

	first := v.LexicalScores("alpha beta", texts)
	second := NewVectorizer(3).LexicalScores("alpha beta", texts)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected deterministic scores under vocab cap: %v vs %v", first, second)
		}
	}
}

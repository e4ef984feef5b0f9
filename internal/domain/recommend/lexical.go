package recommend

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

const defaultMaxVocabulary = 5000

// Vectorizer computes TF-IDF cosine similarity between one user profile text
// and a batch of vacancy texts. Term statistics are fit jointly over the
// whole batch, so a Vectorizer is built fresh per scoring pass and never
// shared across requests.
type Vectorizer struct {
	maxVocabulary int
}

func NewVectorizer(maxVocabulary int) *Vectorizer {
	if maxVocabulary <= 0 {
		maxVocabulary = defaultMaxVocabulary
	}
	return &Vectorizer{maxVocabulary: maxVocabulary}
}

// LexicalScores returns one similarity in [0, 1] per vacancy text, in input
// order. The vocabulary covers unigrams and bigrams, tokenized
// case-insensitively with no stop-word list so mixed-language corpora are
// not biased toward any one language.
func (v *Vectorizer) LexicalScores(userText string, vacancyTexts []string) []float64 {
	scores := make([]float64, len(vacancyTexts))
	if len(vacancyTexts) == 0 {
		return scores
	}
	if strings.TrimSpace(userText) == "" {
		return scores
	}

	docs := make([][]string, 0, len(vacancyTexts)+1)
	docs = append(docs, terms(userText))
	for _, t := range vacancyTexts {
		docs = append(docs, terms(t))
	}

	vocab := v.buildVocabulary(docs)
	if len(vocab) == 0 {
		return scores
	}

	idf := inverseDocFrequency(docs, vocab)
	userVec := tfidfVector(docs[0], vocab, idf)

	for i := 1; i < len(docs); i++ {
		vec := tfidfVector(docs[i], vocab, idf)
		s := sparseDot(userVec, vec)
		if s < 0 {
			s = 0
		}
		if s > 1 {
			s = 1
		}
		scores[i-1] = s
	}
	return scores
}

// terms extracts lower-cased unigrams plus adjacent-word bigrams.
func terms(text string) []string {
	words := tokenize(text)
	out := make([]string, 0, len(words)*2)
	out = append(out, words...)
	for i := 0; i+1 < len(words); i++ {
		out = append(out, words[i]+" "+words[i+1])
	}
	return out
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		out = append(out, f)
	}
	return out
}

// buildVocabulary keeps the maxVocabulary most frequent terms across the
// corpus; ties break alphabetically so the fit is deterministic.
func (v *Vectorizer) buildVocabulary(docs [][]string) map[string]struct{} {
	counts := make(map[string]int)
	for _, d := range docs {
		for _, t := range d {
			counts[t]++
		}
	}

	if len(counts) <= v.maxVocabulary {
		vocab := make(map[string]struct{}, len(counts))
		for t := range counts {
			vocab[t] = struct{}{}
		}
		return vocab
	}

	type termCount struct {
		term  string
		count int
	}
	all := make([]termCount, 0, len(counts))
	for t, c := range counts {
		all = append(all, termCount{term: t, count: c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].term < all[j].term
	})

	vocab := make(map[string]struct{}, v.maxVocabulary)
	for _, tc := range all[:v.maxVocabulary] {
		vocab[tc.term] = struct{}{}
	}
	return vocab
}

func inverseDocFrequency(docs [][]string, vocab map[string]struct{}) map[string]float64 {
	df := make(map[string]int, len(vocab))
	seen := make(map[string]struct{})
	for _, d := range docs {
		clear(seen)
		for _, t := range d {
			if _, ok := vocab[t]; !ok {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for t, c := range df {
		idf[t] = math.Log((1+n)/(1+float64(c))) + 1
	}
	return idf
}

// tfidfVector builds an L2-normalized sparse TF-IDF vector, so cosine
// similarity between two vectors reduces to their dot product.
func tfidfVector(doc []string, vocab map[string]struct{}, idf map[string]float64) map[string]float64 {
	tf := make(map[string]int)
	for _, t := range doc {
		if _, ok := vocab[t]; !ok {
			continue
		}
		tf[t]++
	}

	vec := make(map[string]float64, len(tf))
	var norm float64
	for t, c := range tf {
		w := float64(c) * idf[t]
		vec[t] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for t := range vec {
		vec[t] /= norm
	}
	return vec
}

func sparseDot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for t, w := range a {
		dot += w * b[t]
	}
	return dot
}

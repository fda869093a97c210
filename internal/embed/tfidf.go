package embed

import (
	"bytes"
	"context"
	"encoding/gob"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// TFIDF is a local, deterministic TF-IDF vectorizer. It builds a vocabulary
// from the corpus during Prepare and embeds text as an L2-normalized
// term-frequency vector scaled by smoothed inverse document frequency.
type TFIDF struct {
	vocabulary map[string]int
	idf        []float64
	prepared   bool

	tokenRe *regexp.Regexp
}

// tfidfState is the gob-serializable fitted state.
type tfidfState struct {
	Vocabulary map[string]int
	IDF        []float64
}

// NewTFIDF creates an unprepared TF-IDF embedder.
func NewTFIDF() *TFIDF {
	return &TFIDF{
		vocabulary: make(map[string]int),
		tokenRe:    regexp.MustCompile(`[a-zA-Z0-9]+`),
	}
}

func (e *TFIDF) Name() string { return "tfidf" }

// Prepare builds the vocabulary and IDF values from the corpus. Vocabulary
// ordering is sorted, so identical corpora produce identical vectors.
func (e *TFIDF) Prepare(_ context.Context, corpus []string) error {
	if len(corpus) == 0 {
		return eris.New("tfidf: empty corpus")
	}

	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return eris.New("tfidf: no tokens in corpus")
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.prepared = true

	return nil
}

func (e *TFIDF) Dimension() int { return len(e.idf) }

// Embed converts text into an L2-normalized TF-IDF vector. Out-of-vocabulary
// tokens are ignored.
func (e *TFIDF) Embed(_ context.Context, text string) ([]float64, error) {
	if !e.prepared {
		return nil, eris.New("tfidf: embed before prepare")
	}

	vec := make([]float64, len(e.idf))
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			vec[idx] += e.idf[idx]
		}
	}

	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum > 0 {
		inv := 1 / math.Sqrt(sum)
		for i := range vec {
			vec[i] *= inv
		}
	}

	return vec, nil
}

// State serializes the fitted vocabulary and IDF table.
func (e *TFIDF) State() ([]byte, error) {
	if !e.prepared {
		return nil, eris.New("tfidf: state before prepare")
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(tfidfState{
		Vocabulary: e.vocabulary,
		IDF:        e.idf,
	}); err != nil {
		return nil, eris.Wrap(err, "tfidf: encode state")
	}
	return buf.Bytes(), nil
}

// Restore loads a previously serialized fitted state.
func (e *TFIDF) Restore(state []byte) error {
	var s tfidfState
	if err := gob.NewDecoder(bytes.NewReader(state)).Decode(&s); err != nil {
		return eris.Wrap(err, "tfidf: decode state")
	}
	e.vocabulary = s.Vocabulary
	e.idf = s.IDF
	e.prepared = true
	return nil
}

func (e *TFIDF) tokenize(text string) []string {
	return e.tokenRe.FindAllString(strings.ToLower(text), -1)
}

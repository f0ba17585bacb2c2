// Package score computes lexical overlap diagnostics between an abstract and
// its generated summaries. Scores never feed back into selection or
// categorization.
//
// Stemming uses the Snowball English (Porter2) stemmer, so a few inflections
// stem differently than under the original Porter algorithm and scores can
// drift slightly from Porter-based ROUGE tooling.
package score

import (
	"github.com/ppiankov/paperdigest/internal/model"
)

// Similarity computes ROUGE-1 and ROUGE-L
type Similarity struct {
	stem bool
}

// NewSimilarity creates a scorer. Stemming is on, as in rouge_score with use_stemmer.
func NewSimilarity() *Similarity {
	return &Similarity{stem: true}
}

// WithoutStemming returns a scorer comparing raw lowercase tokens
func (s *Similarity) WithoutStemming() *Similarity {
	return &Similarity{stem: false}
}

// Score compares candidate against reference. Empty input on either side scores zero.
func (s *Similarity) Score(reference, candidate string) model.ScoredSummary {
	ref := Tokenize(reference, s.stem)
	cand := Tokenize(candidate, s.stem)

	if len(ref) == 0 || len(cand) == 0 {
		return model.ScoredSummary{}
	}

	return model.ScoredSummary{
		Unigram: measure(unigramOverlap(ref, cand), len(ref), len(cand)),
		LCS:     measure(lcsLength(ref, cand), len(ref), len(cand)),
	}
}

// ScoreAll scores every candidate against the same reference, preserving order
func (s *Similarity) ScoreAll(reference string, candidates []model.CandidateSummary) []model.ScoredSummary {
	out := make([]model.ScoredSummary, len(candidates))
	for i, c := range candidates {
		out[i] = s.Score(reference, c.Text)
	}
	return out
}

func measure(hits, refLen, candLen int) model.Measure {
	if hits == 0 {
		return model.Measure{}
	}
	p := float64(hits) / float64(candLen)
	r := float64(hits) / float64(refLen)
	return model.Measure{Precision: p, Recall: r, F: 2 * p * r / (p + r)}
}

// unigramOverlap counts clipped token matches
func unigramOverlap(ref, cand []string) int {
	counts := make(map[string]int, len(ref))
	for _, tok := range ref {
		counts[tok]++
	}

	hits := 0
	for _, tok := range cand {
		if counts[tok] > 0 {
			counts[tok]--
			hits++
		}
	}
	return hits
}

// lcsLength is the classic two-row dynamic program
func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else {
				cur[j] = max(prev[j], cur[j-1])
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// Package selection picks the newsletter summary among critiqued candidates.
package selection

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/paperdigest/internal/llm"
	"github.com/ppiankov/paperdigest/internal/logging"
	"github.com/ppiankov/paperdigest/internal/model"
	"github.com/ppiankov/paperdigest/internal/summarize"
	"go.uber.org/zap"
)

// Unavailable is the rationale when the selection call fails
const Unavailable = "Selection response not available."

// Policy asks the generation service which candidate suits a newsletter,
// then maps the free-text answer back onto one of the inputs.
type Policy struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewPolicy creates a selection policy
func NewPolicy(provider llm.Provider, logger *zap.Logger) *Policy {
	return &Policy{provider: provider, logger: logging.OrNop(logger)}
}

var countWords = []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}

func countWord(n int) string {
	if n >= 0 && n < len(countWords) {
		return countWords[n]
	}
	return strconv.Itoa(n)
}

// Prompt lists the numbered (summary, critique) pairs and asks for a choice.
// A missing critique is rendered empty.
func Prompt(candidates []model.CandidateSummary, critiques []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here are %s summaries with their explanations:\n", countWord(len(candidates)))
	for i, c := range candidates {
		var critique string
		if i < len(critiques) {
			critique = critiques[i]
		}
		fmt.Fprintf(&b, "%d. \"%s\"\nExplanation: %s\n", i+1, c.Text, critique)
	}
	b.WriteString("Which summary would you use for a newsletter and why?")
	return b.String()
}

// SelectBest returns one of candidates, unchanged, together with the raw rationale.
// The pick is the first candidate whose text appears verbatim in the rationale,
// or the first candidate when none does.
func (p *Policy) SelectBest(ctx context.Context, candidates []model.CandidateSummary, critiques []string) model.SelectedSummary {
	if len(candidates) == 0 {
		p.logger.Warn("Selection called without candidates")
		return model.SelectedSummary{
			Candidate: model.CandidateSummary{Text: summarize.SummaryUnavailable},
			Rationale: Unavailable,
		}
	}

	rationale := Unavailable
	res := llm.Call(ctx, p.provider, llm.UserPrompt(Prompt(candidates, critiques)))
	if res.OK() {
		rationale = res.Text
	} else {
		p.logger.Warn("Selection response not available",
			zap.String("failure", res.Failure.String()),
			zap.Error(res.Err))
	}

	idx := Match(candidates, rationale)
	p.logger.Debug("Selected summary", zap.Int("index", idx), zap.String("variant", candidates[idx].Variant.ID))

	return model.SelectedSummary{Candidate: candidates[idx], Rationale: rationale}
}

// Match returns the index of the first candidate with non-empty text contained
// in rationale, or 0.
func Match(candidates []model.CandidateSummary, rationale string) int {
	for i, c := range candidates {
		if c.Text != "" && strings.Contains(rationale, c.Text) {
			return i
		}
	}
	return 0
}

package selection

import (
	"context"
	"testing"

	"github.com/ppiankov/paperdigest/internal/llm/llmtest"
	"github.com/ppiankov/paperdigest/internal/model"
	"github.com/ppiankov/paperdigest/internal/summarize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates(texts ...string) []model.CandidateSummary {
	out := make([]model.CandidateSummary, len(texts))
	for i, text := range texts {
		out[i] = model.CandidateSummary{Text: text, Variant: summarize.EnsembleVariants[i%len(summarize.EnsembleVariants)]}
	}
	return out
}

func TestSelectBest_PicksQuotedCandidate(t *testing.T) {
	cands := candidates("S1", "S2", "S3", "S4")
	stub := llmtest.Fixed(`I would use summary 3: "S3" because it is concise.`)

	sel := NewPolicy(stub, nil).SelectBest(context.Background(), cands, []string{"C1", "C2", "C3", "C4"})

	assert.Equal(t, cands[2], sel.Candidate)
	assert.Equal(t, `I would use summary 3: "S3" because it is concise.`, sel.Rationale)
	assert.Equal(t, "S3", sel.Text())
}

func TestSelectBest_DefaultsToFirst(t *testing.T) {
	cands := candidates("alpha", "beta", "gamma", "delta")
	sel := NewPolicy(llmtest.Fixed("The second one."), nil).SelectBest(context.Background(), cands, nil)

	assert.Equal(t, cands[0], sel.Candidate)
}

func TestSelectBest_FailureKeepsFirst(t *testing.T) {
	cands := candidates("S1", "S2", "S3", "S4")
	sel := NewPolicy(llmtest.Failing(), nil).SelectBest(context.Background(), cands, nil)

	assert.Equal(t, cands[0], sel.Candidate)
	assert.Equal(t, Unavailable, sel.Rationale)
}

func TestSelectBest_FirstMatchWins(t *testing.T) {
	cands := candidates("long summary text", "summary")
	idx := Match(cands, "I prefer: long summary text")
	assert.Equal(t, 0, idx)

	idx = Match(cands, "just the summary")
	assert.Equal(t, 1, idx)
}

// Whatever the rationale says, the selection must be one of the inputs.
func TestSelectBest_Fidelity(t *testing.T) {
	cands := candidates("S1", "S2", "S3", "S4")
	replies := []string{"", "S4", "none of them", "S2 and S1", "Summary not available."}

	for _, reply := range replies {
		sel := NewPolicy(llmtest.Fixed(reply), nil).SelectBest(context.Background(), cands, nil)
		assert.Contains(t, cands, sel.Candidate, "reply %q", reply)
	}
}

func TestSelectBest_NoCandidates(t *testing.T) {
	stub := llmtest.Fixed("S1")
	sel := NewPolicy(stub, nil).SelectBest(context.Background(), nil, nil)

	assert.Equal(t, summarize.SummaryUnavailable, sel.Text())
	assert.Equal(t, Unavailable, sel.Rationale)
	assert.Zero(t, stub.Calls())
}

func TestPrompt(t *testing.T) {
	p := Prompt(candidates("S1", "S2", "S3", "S4"), []string{"E1", "E2", "E3", "E4"})

	want := "Here are four summaries with their explanations:\n" +
		"1. \"S1\"\nExplanation: E1\n" +
		"2. \"S2\"\nExplanation: E2\n" +
		"3. \"S3\"\nExplanation: E3\n" +
		"4. \"S4\"\nExplanation: E4\n" +
		"Which summary would you use for a newsletter and why?"
	assert.Equal(t, want, p)

	p = Prompt(candidates("S1", "S2"), []string{"E1"})
	require.Contains(t, p, "Here are two summaries")
	assert.Contains(t, p, "2. \"S2\"\nExplanation: \n")
}

package categorize

import (
	"context"
	"strings"
	"testing"

	"github.com/ppiankov/paperdigest/internal/llm"
	"github.com/ppiankov/paperdigest/internal/llm/llmtest"
	"github.com/ppiankov/paperdigest/internal/model"
	"github.com/ppiankov/paperdigest/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.New("test", []string{"Bayesian Statistics", "Statistics", "Computational Statistics", "Econometrics"})
	require.NoError(t, err)
	return tax
}

func newEngine(t *testing.T, strategy string, p llm.Provider) *Engine {
	t.Helper()
	e, err := NewEngine(strategy, testTaxonomy(t), p, nil)
	require.NoError(t, err)
	return e
}

func TestNewEngine_Errors(t *testing.T) {
	_, err := NewEngine("fuzzy", testTaxonomy(t), nil, nil)
	assert.Error(t, err)

	_, err = NewEngine(model.StrategyMarker, nil, nil, nil)
	assert.Error(t, err)
}

func TestMarkerStrategy(t *testing.T) {
	tests := []struct {
		name        string
		reply       string
		label       model.Label
		explanation string
		failure     llm.Failure
	}{
		{"exact match", "Category: Econometrics\nExplanation: It models markets.", "Econometrics", "It models markets.", llm.FailureNone},
		{"padded category", "Category:   Computational Statistics  Explanation: MCMC.", "Computational Statistics", "MCMC.", llm.FailureNone},
		{"preamble kept in category", "Sure! Category: Econometrics Explanation: x", model.Uncategorized, ExplanationUnavailable, llm.FailureTaxonomy},
		{"repeated explanation marker", "Category: Econometrics\nExplanation: markets.\nExplanation: again", model.Uncategorized, ExplanationUnavailable, llm.FailureMalformed},
		{"case differs", "Category: econometrics Explanation: x", model.Uncategorized, ExplanationUnavailable, llm.FailureTaxonomy},
		{"unknown label", "Category: Quantum Statistics Explanation: x", model.Uncategorized, ExplanationUnavailable, llm.FailureTaxonomy},
		{"no explanation marker", "Category: Econometrics", model.Uncategorized, ExplanationUnavailable, llm.FailureMalformed},
		{"no category marker", "Econometrics Explanation: x", "Econometrics", "x", llm.FailureNone},
		{"no category marker with noise", "Econometrics. Explanation: x", model.Uncategorized, ExplanationUnavailable, llm.FailureTaxonomy},
		{"explicit uncategorized", "Category: Uncategorized Explanation: Nothing fits.", model.Uncategorized, "Nothing fits.", llm.FailureNone},
		{"empty explanation", "Category: Econometrics Explanation:", "Econometrics", ExplanationUnavailable, llm.FailureNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(t, model.StrategyMarker, llmtest.Fixed(tt.reply)).Categorize(context.Background(), "abstract")
			assert.Equal(t, tt.label, r.Label)
			assert.Equal(t, tt.explanation, r.Explanation)
			assert.Equal(t, tt.failure, r.Failure)
		})
	}
}

func TestSubstringStrategy_DeclaredOrderWins(t *testing.T) {
	// "Statistics" is declared before "Computational Statistics" and matches first.
	r := newEngine(t, model.StrategySubstring, llmtest.Fixed("This is Computational Statistics.")).
		Categorize(context.Background(), "summary")
	assert.Equal(t, model.Label("Statistics"), r.Label)
	assert.Equal(t, "This is Computational Statistics.", r.Explanation)

	r = newEngine(t, model.StrategySubstring, llmtest.Fixed("bayesian statistics, clearly")).
		Categorize(context.Background(), "summary")
	assert.Equal(t, model.Label("Bayesian Statistics"), r.Label)

	r = newEngine(t, model.StrategySubstring, llmtest.Fixed("Astrophysics")).
		Categorize(context.Background(), "summary")
	assert.Equal(t, model.Uncategorized, r.Label)
	assert.Equal(t, llm.FailureTaxonomy, r.Failure)
}

func TestJSONStrategy(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		label   model.Label
		failure llm.Failure
	}{
		{"plain object", `{"category": "Econometrics", "explanation": "markets"}`, "Econometrics", llm.FailureNone},
		{"fenced", "```json\n{\"category\": \"Bayesian Statistics\", \"explanation\": \"priors\"}\n```", "Bayesian Statistics", llm.FailureNone},
		{"unknown label", `{"category": "Chemistry", "explanation": "?"}`, model.Uncategorized, llm.FailureTaxonomy},
		{"falls back to markers", "Category: Econometrics Explanation: markets", "Econometrics", llm.FailureNone},
		{"garbage", "no idea", model.Uncategorized, llm.FailureMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(t, model.StrategyJSON, llmtest.Fixed(tt.reply)).Categorize(context.Background(), "abstract")
			assert.Equal(t, tt.label, r.Label)
			assert.Equal(t, tt.failure, r.Failure)
		})
	}
}

func TestCategorize_ServiceFailure(t *testing.T) {
	for _, strategy := range []string{model.StrategyMarker, model.StrategySubstring, model.StrategyJSON} {
		t.Run(strategy, func(t *testing.T) {
			r := newEngine(t, strategy, llmtest.Failing()).Categorize(context.Background(), "abstract")
			assert.Equal(t, model.Uncategorized, r.Label)
			assert.Equal(t, ExplanationUnavailable, r.Explanation)
			assert.Equal(t, llm.FailureTransport, r.Failure)
			assert.ErrorIs(t, r.Err, llmtest.ErrUnavailable)
		})
	}
}

// Whatever the service answers, the label stays inside the closed set.
func TestCategorize_LabelClosure(t *testing.T) {
	tax := testTaxonomy(t)
	replies := []string{
		"",
		"Category: Econometrics Explanation: ok",
		"Category: Made Up Explanation: ok",
		`{"category": "uncategorized"}`,
		"Category: Explanation: Category: Explanation:",
		"statistics everywhere",
		strings.Repeat("x", 1000),
	}

	for _, strategy := range []string{model.StrategyMarker, model.StrategySubstring, model.StrategyJSON} {
		for _, reply := range replies {
			e, err := NewEngine(strategy, tax, llmtest.Fixed(reply), nil)
			require.NoError(t, err)

			r := e.Categorize(context.Background(), "text")
			assert.True(t, r.Label == model.Uncategorized || tax.Contains(r.Label),
				"strategy %s reply %q produced %q", strategy, reply, r.Label)
		}
	}
}

func TestPrompt(t *testing.T) {
	stub := llmtest.Fixed("Category: Econometrics Explanation: x")
	e := newEngine(t, model.StrategyMarker, stub)
	e.Categorize(context.Background(), "An abstract.")

	require.Len(t, stub.Prompts(), 1)
	prompt := stub.Prompts()[0]
	assert.True(t, strings.HasPrefix(prompt,
		`Categorize the following abstract into one of the given categories and explain why: "An abstract.". Categories: Bayesian Statistics, Statistics, Computational Statistics, Econometrics, Uncategorized.`))
	assert.Contains(t, prompt, "Category: <category> Explanation: <why>")

	simple := newEngine(t, model.StrategySubstring, nil).WithSubject(SubjectSummary)
	assert.Equal(t,
		`Categorize the following summary into one of the given categories: "S". Categories: Bayesian Statistics, Statistics, Computational Statistics, Econometrics, Uncategorized.`,
		simple.Prompt("S"))
	assert.Equal(t, model.StrategySubstring, simple.Strategy())

	assert.Contains(t, newEngine(t, model.StrategyJSON, nil).Prompt("S"), `{"category":`)
}

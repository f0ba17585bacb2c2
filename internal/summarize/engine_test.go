package summarize

import (
	"context"
	"strings"
	"testing"

	"github.com/ppiankov/paperdigest/internal/cache"
	"github.com/ppiankov/paperdigest/internal/llm"
	"github.com/ppiankov/paperdigest/internal/llm/llmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsembleEngine_Success(t *testing.T) {
	stub := llmtest.Fixed("This paper studies sparse PCA. Category: High-Dimensional Statistics")
	e := NewEnsembleEngine(stub, nil)

	r := e.Summarize(context.Background(), "We study sparse PCA.", EnsembleVariants[1])

	assert.Equal(t, llm.FailureNone, r.Failure)
	assert.Equal(t, "This paper studies sparse PCA.", r.Summary)
	assert.Equal(t, "High-Dimensional Statistics", r.Category)

	prompts := stub.Prompts()
	require.Len(t, prompts, 1)
	assert.True(t, strings.HasPrefix(prompts[0], EnsembleVariants[1].Instruction))
	assert.Contains(t, prompts[0], "Here are some examples of summarizing and categorizing abstracts:")
	assert.Contains(t, prompts[0], "Category: Extreme Value Theory")
	assert.Contains(t, prompts[0], `provide the category: "We study sparse PCA.".`)
}

func TestEnsembleEngine_SplitsOnFirstMarker(t *testing.T) {
	stub := llmtest.Fixed("Summary text. Category: Econometrics\nCategory: Biostatistics")
	r := NewEnsembleEngine(stub, nil).Summarize(context.Background(), "a", EnsembleVariants[0])

	assert.Equal(t, "Summary text.", r.Summary)
	assert.Equal(t, "Econometrics\nCategory: Biostatistics", r.Category)
}

func TestEnsembleEngine_Sentinels(t *testing.T) {
	tests := []struct {
		name    string
		stub    *llmtest.Stub
		failure llm.Failure
	}{
		{"service raises", llmtest.Failing(), llm.FailureTransport},
		{"marker missing", llmtest.Fixed("Just a summary with no category."), llm.FailureMalformed},
		{"empty summary part", llmtest.Fixed("Category: Econometrics"), llm.FailureMalformed},
		{"blank response", llmtest.Fixed("   "), llm.FailureEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewEnsembleEngine(tt.stub, nil).Summarize(context.Background(), "abstract", EnsembleVariants[0])
			assert.Equal(t, SummaryUnavailable, r.Summary)
			assert.Equal(t, CategoryUnavailable, r.Category)
			assert.Equal(t, tt.failure, r.Failure)
			assert.Error(t, r.Err)
		})
	}
}

func TestSimpleEngine(t *testing.T) {
	stub := llmtest.Fixed("  A concise sentence.  ")
	e := NewSimpleEngine(stub, nil)

	r := e.Summarize(context.Background(), "An abstract.", SimpleVariant)
	assert.Equal(t, "A concise sentence.", r.Summary)
	assert.Empty(t, r.Category)
	assert.Equal(t, []string{`Summarize the following abstract in one sentence: "An abstract."`}, stub.Prompts())

	failed := NewSimpleEngine(llmtest.Failing(), nil).Summarize(context.Background(), "x", SimpleVariant)
	assert.Equal(t, SummaryUnavailable, failed.Summary)
	assert.Empty(t, failed.Category)
}

func TestEngine_WithParser(t *testing.T) {
	stub := llmtest.Fixed("No marker here.")
	e := NewEnsembleEngine(stub, nil).WithParser(PlainParser{})

	r := e.Summarize(context.Background(), "x", EnsembleVariants[0])
	assert.Equal(t, "No marker here.", r.Summary)
}

func TestCachedEngine_MemoizesPerAbstract(t *testing.T) {
	stub := llmtest.New(func(prompt string) (string, error) {
		if strings.Contains(prompt, "A1") {
			return "S-A1", nil
		}
		return "S-other", nil
	})
	c := cache.NewSummaryCache(nil)
	ce, err := NewCachedEngine(NewSimpleEngine(stub, nil), SimpleVariant, c)
	require.NoError(t, err)

	ctx := context.Background()
	assert.Equal(t, "S-A1", ce.Summarize(ctx, "A1"))
	assert.Equal(t, "S-A1", ce.Summarize(ctx, "A1"))
	assert.Equal(t, "S-other", ce.Summarize(ctx, "A2"))

	assert.Equal(t, 2, stub.Calls())
	assert.Equal(t, 2, c.Len())
}

func TestNewCachedEngine_Nil(t *testing.T) {
	_, err := NewCachedEngine(nil, SimpleVariant, cache.NewSummaryCache(nil))
	assert.Error(t, err)

	_, err = NewCachedEngine(NewSimpleEngine(nil, nil), SimpleVariant, nil)
	assert.Error(t, err)
}

func TestEnsembleVariants(t *testing.T) {
	require.Len(t, EnsembleVariants, 4)
	ids := []string{}
	for _, v := range EnsembleVariants {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"novelty", "methodology", "impact", "challenges"}, ids)
}

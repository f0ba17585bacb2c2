// Package summarize generates candidate summaries for paper abstracts.
package summarize

import (
	"context"
	"errors"

	"github.com/ppiankov/paperdigest/internal/cache"
	"github.com/ppiankov/paperdigest/internal/llm"
	"github.com/ppiankov/paperdigest/internal/logging"
	"github.com/ppiankov/paperdigest/internal/model"
	"go.uber.org/zap"
)

// Sentinels substituted when a summary cannot be produced
const (
	SummaryUnavailable  = "Summary not available."
	CategoryUnavailable = string(model.Uncategorized)
)

// Result is the outcome of one summarization call
type Result struct {
	Summary  string
	Category string // Inline category hint; empty in single-output mode
	Failure  llm.Failure
	Err      error
}

// Candidate wraps the result as a CandidateSummary for variant v
func (r Result) Candidate(v model.PromptVariant) model.CandidateSummary {
	return model.CandidateSummary{Text: r.Summary, Variant: v}
}

// Engine builds prompts, calls the generation service, and parses replies.
// Failures never escape: they become SummaryUnavailable/CategoryUnavailable.
type Engine struct {
	provider llm.Provider
	parser   Parser
	examples []Example
	paired   bool
	logger   *zap.Logger
}

// NewEnsembleEngine asks for summary plus inline category, with few-shot examples
func NewEnsembleEngine(provider llm.Provider, logger *zap.Logger) *Engine {
	return &Engine{
		provider: provider,
		parser:   MarkerParser{},
		examples: FewShotExamples,
		paired:   true,
		logger:   logging.OrNop(logger),
	}
}

// NewSimpleEngine asks for a one-sentence summary only
func NewSimpleEngine(provider llm.Provider, logger *zap.Logger) *Engine {
	return &Engine{
		provider: provider,
		parser:   PlainParser{},
		logger:   logging.OrNop(logger),
	}
}

// WithParser swaps the response parser without touching callers
func (e *Engine) WithParser(p Parser) *Engine {
	clone := *e
	clone.parser = p
	return &clone
}

// Summarize produces one summary of abstract in the style of variant v
func (e *Engine) Summarize(ctx context.Context, abstract string, v model.PromptVariant) Result {
	var prompt string
	if e.paired {
		prompt = BuildPairedPrompt(v, e.examples, abstract)
	} else {
		prompt = BuildSinglePrompt(v, abstract)
	}

	e.logger.Debug("Generating summary", zap.String("variant", v.ID))

	res := llm.Call(ctx, e.provider, llm.UserPrompt(prompt))
	if !res.OK() {
		return e.unavailable(v, res.Failure, res.Err)
	}

	summary, category, err := e.parser.Parse(res.Text)
	if err != nil {
		return e.unavailable(v, llm.FailureMalformed, err)
	}

	return Result{Summary: summary, Category: category}
}

func (e *Engine) unavailable(v model.PromptVariant, f llm.Failure, err error) Result {
	e.logger.Warn("Summary not available",
		zap.String("variant", v.ID),
		zap.String("failure", f.String()),
		zap.Error(err))

	r := Result{Summary: SummaryUnavailable, Failure: f, Err: err}
	if e.paired {
		r.Category = CategoryUnavailable
	}
	return r
}

// CachedEngine memoizes single-variant summaries per exact abstract text
type CachedEngine struct {
	engine  *Engine
	variant model.PromptVariant
	cache   *cache.SummaryCache
}

// NewCachedEngine routes engine calls for variant v through c
func NewCachedEngine(engine *Engine, v model.PromptVariant, c *cache.SummaryCache) (*CachedEngine, error) {
	if engine == nil {
		return nil, errors.New("summarize: nil engine")
	}
	if c == nil {
		return nil, errors.New("summarize: nil cache")
	}
	return &CachedEngine{engine: engine, variant: v, cache: c}, nil
}

// Summarize returns the memoized summary for abstract, generating it on first sight.
// Sentinel results are memoized too, so a failed abstract is not retried within the run.
func (c *CachedEngine) Summarize(ctx context.Context, abstract string) string {
	return c.cache.GetOrCompute(abstract, func() string {
		return c.engine.Summarize(ctx, abstract, c.variant).Summary
	})
}

// Variant returns the variant the cached engine summarizes with
func (c *CachedEngine) Variant() model.PromptVariant {
	return c.variant
}

// Package categorize resolves a paper's abstract or summary to a label of the
// active taxonomy.
package categorize

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/paperdigest/internal/llm"
	"github.com/ppiankov/paperdigest/internal/logging"
	"github.com/ppiankov/paperdigest/internal/model"
	"github.com/ppiankov/paperdigest/internal/taxonomy"
	"go.uber.org/zap"
)

// ExplanationUnavailable accompanies every Uncategorized fallback
const ExplanationUnavailable = "Categorization explanation not available."

// Subjects name what is being categorized in the prompt
const (
	SubjectAbstract = "abstract"
	SubjectSummary  = "summary"
)

// Resolution is the outcome of one categorization.
// Label is always a taxonomy member or model.Uncategorized.
type Resolution struct {
	Label       model.Label
	Explanation string
	Failure     llm.Failure
	Err         error
}

// Engine categorizes text with one configured strategy
type Engine struct {
	strategy string
	subject  string
	tax      *taxonomy.Taxonomy
	parser   Parser
	provider llm.Provider
	logger   *zap.Logger
}

// NewEngine creates an engine for strategy (marker, substring or json)
func NewEngine(strategy string, tax *taxonomy.Taxonomy, provider llm.Provider, logger *zap.Logger) (*Engine, error) {
	if tax == nil {
		return nil, errors.New("categorize: nil taxonomy")
	}

	var parser Parser
	switch strategy {
	case model.StrategyMarker:
		parser = NewMarkerParser(tax)
	case model.StrategySubstring:
		parser = NewSubstringParser(tax)
	case model.StrategyJSON:
		parser = NewJSONParser(tax)
	default:
		return nil, fmt.Errorf("unknown categorization strategy: %s", strategy)
	}

	return &Engine{
		strategy: strategy,
		subject:  SubjectAbstract,
		tax:      tax,
		parser:   parser,
		provider: provider,
		logger:   logging.OrNop(logger),
	}, nil
}

// WithSubject changes the noun used in prompts ("abstract" or "summary")
func (e *Engine) WithSubject(subject string) *Engine {
	clone := *e
	clone.subject = subject
	return &clone
}

// Strategy returns the configured strategy name
func (e *Engine) Strategy() string {
	return e.strategy
}

// Prompt renders the request for text under the engine's strategy
func (e *Engine) Prompt(text string) string {
	categories := e.tax.PromptList()
	switch e.strategy {
	case model.StrategySubstring:
		return fmt.Sprintf("Categorize the following %s into one of the given categories: \"%s\". Categories: %s.",
			e.subject, text, categories)
	case model.StrategyJSON:
		return fmt.Sprintf("Categorize the following %s into one of the given categories and explain why: \"%s\". Categories: %s.\n"+
			"Respond only with a JSON object of the form {\"category\": \"<one of the categories>\", \"explanation\": \"<why>\"}.",
			e.subject, text, categories)
	default:
		return fmt.Sprintf("Categorize the following %s into one of the given categories and explain why: \"%s\". Categories: %s.\n"+
			"Answer in the form \"%s <category> %s <why>\".",
			e.subject, text, categories, CategoryMarker, ExplanationMarker)
	}
}

// Categorize resolves text to a label. It never returns an error: every
// failure resolves to Uncategorized with ExplanationUnavailable.
func (e *Engine) Categorize(ctx context.Context, text string) Resolution {
	res := llm.Call(ctx, e.provider, llm.UserPrompt(e.Prompt(text)))
	if !res.OK() {
		return e.uncategorized(res.Failure, res.Err, "")
	}

	label, explanation, err := e.parser.Parse(res.Text)
	if err != nil {
		failure := llm.FailureMalformed
		if errors.Is(err, ErrUnknownLabel) {
			failure = llm.FailureTaxonomy
		}
		return e.uncategorized(failure, err, res.Text)
	}

	// Parsers already validate; Resolve keeps the closed set closed regardless.
	label = e.tax.Resolve(label)
	if explanation == "" {
		explanation = ExplanationUnavailable
	}

	e.logger.Debug("Categorized", zap.String("label", string(label)), zap.String("strategy", e.strategy))
	return Resolution{Label: label, Explanation: explanation}
}

func (e *Engine) uncategorized(f llm.Failure, err error, response string) Resolution {
	e.logger.Warn("Received uncategorized response",
		zap.String("strategy", e.strategy),
		zap.String("failure", f.String()),
		zap.String("response", response),
		zap.Error(err))

	return Resolution{
		Label:       model.Uncategorized,
		Explanation: ExplanationUnavailable,
		Failure:     f,
		Err:         err,
	}
}

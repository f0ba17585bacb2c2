// Package critique asks the generation service for an advantages/disadvantages
// analysis of each candidate summary.
package critique

import (
	"context"
	"fmt"

	"github.com/ppiankov/paperdigest/internal/llm"
	"github.com/ppiankov/paperdigest/internal/logging"
	"go.uber.org/zap"
)

// Unavailable is appended to the summary when no critique could be produced
const Unavailable = "Chain of thought response not available."

// Engine critiques candidate summaries one at a time
type Engine struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewEngine creates a critique engine
func NewEngine(provider llm.Provider, logger *zap.Logger) *Engine {
	return &Engine{provider: provider, logger: logging.OrNop(logger)}
}

// Prompt returns the critique request for summary
func Prompt(summary string) string {
	return fmt.Sprintf("Explain the advantages and disadvantages of this summary: \"%s\"", summary)
}

// Critique returns the summary followed by its critique, labeled with its
// 1-based ordinal. When the call fails the summary is followed by Unavailable.
func (e *Engine) Critique(ctx context.Context, summary string, ordinal int) string {
	e.logger.Debug("Critiquing summary", zap.Int("ordinal", ordinal))

	res := llm.Call(ctx, e.provider, llm.UserPrompt(Prompt(summary)))
	if !res.OK() {
		e.logger.Warn("Critique not available",
			zap.Int("ordinal", ordinal),
			zap.String("failure", res.Failure.String()),
			zap.Error(res.Err))
		return fmt.Sprintf("%s\n\n%s", summary, Unavailable)
	}

	return fmt.Sprintf("%s\n\nChain of Thought Prompting for summary %d:\n%s", summary, ordinal, res.Text)
}

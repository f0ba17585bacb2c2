package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/ppiankov/paperdigest/internal/delivery"
	"github.com/ppiankov/paperdigest/internal/llm"
	"github.com/ppiankov/paperdigest/internal/model"
	"github.com/ppiankov/paperdigest/internal/source"
	"github.com/ppiankov/paperdigest/internal/worker"
	"go.uber.org/zap"
)

// arxivInterval is the pacing arXiv asks API clients to keep
const arxivInterval = 3 * time.Second

// BuildOptions tweak the production wiring
type BuildOptions struct {
	NoSend   bool
	Logger   *zap.Logger
	Progress io.Writer
}

// BuildDeps wires the real collaborators for cfg: the configured generation
// provider (throttled when rate limiting is on), the arXiv source, and SMTP
func BuildDeps(cfg *model.Config, opts BuildOptions) (Deps, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return Deps{}, fmt.Errorf("create LLM provider: %w", err)
	}
	if limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize); limiter != nil {
		provider = llm.WithLimiter(provider, limiter)
	}

	arxivLimiter := worker.NewLimiter(1/arxivInterval.Seconds(), 1)
	src := source.NewArxivSource(cfg.Source, opts.Logger).WithLimiter(arxivLimiter)

	var sender delivery.Sender = delivery.Disabled{}
	if !opts.NoSend {
		sender = delivery.NewSender(cfg.Delivery.SMTP, opts.Logger)
	}

	return Deps{
		Source:   src,
		Provider: provider,
		Sender:   sender,
		Logger:   opts.Logger,
		Progress: opts.Progress,
	}, nil
}

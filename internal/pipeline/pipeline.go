// Package pipeline runs one digest issue end to end: fetch, summarize,
// critique and select (ensemble mode), categorize, score, aggregate,
// compose, deliver.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/paperdigest/internal/aggregate"
	"github.com/ppiankov/paperdigest/internal/cache"
	"github.com/ppiankov/paperdigest/internal/categorize"
	"github.com/ppiankov/paperdigest/internal/critique"
	"github.com/ppiankov/paperdigest/internal/delivery"
	"github.com/ppiankov/paperdigest/internal/digest"
	"github.com/ppiankov/paperdigest/internal/llm"
	"github.com/ppiankov/paperdigest/internal/logging"
	"github.com/ppiankov/paperdigest/internal/model"
	"github.com/ppiankov/paperdigest/internal/score"
	"github.com/ppiankov/paperdigest/internal/selection"
	"github.com/ppiankov/paperdigest/internal/source"
	"github.com/ppiankov/paperdigest/internal/summarize"
	"github.com/ppiankov/paperdigest/internal/taxonomy"
	"go.uber.org/zap"
)

// Deps are the collaborators a pipeline talks to
type Deps struct {
	Source   source.PaperSource  // Required
	Provider llm.Provider        // nil makes every generation call fail to its sentinel
	Sender   delivery.Sender     // nil disables delivery
	Cache    *cache.SummaryCache // nil creates a fresh cache per run
	Logger   *zap.Logger
	Progress io.Writer // Console narration; nil discards
}

// Pipeline orchestrates one run. All work is sequential: papers in source
// order, variants in declared order.
type Pipeline struct {
	cfg         *model.Config
	tax         *taxonomy.Taxonomy
	source      source.PaperSource
	provider    llm.Provider
	meter       *llm.Meter
	summarizer  *summarize.Engine
	critic      *critique.Engine
	selector    *selection.Policy
	categorizer *categorize.Engine
	similarity  *score.Similarity
	composer    *digest.Composer
	sender      delivery.Sender
	cache       *cache.SummaryCache
	logger      *zap.Logger
	out         io.Writer
	now         func() time.Time
}

// New wires a pipeline for cfg
func New(cfg *model.Config, deps Deps) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("pipeline: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Source == nil {
		return nil, errors.New("pipeline: no paper source")
	}

	tax, err := taxonomy.FromConfig(cfg.Taxonomy)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: %w", err)
	}

	logger := logging.OrNop(deps.Logger)
	out := deps.Progress
	if out == nil {
		out = io.Discard
	}
	sender := deps.Sender
	if sender == nil {
		sender = delivery.Disabled{}
	}

	// Every generation call goes through the meter; a nil provider stays nil
	meter := llm.WithMeter(deps.Provider)
	var provider llm.Provider
	if meter != nil {
		provider = meter
	}

	var summarizer *summarize.Engine
	subject := categorize.SubjectAbstract
	if cfg.Pipeline.Mode == model.ModeSimple {
		summarizer = summarize.NewSimpleEngine(provider, logger)
		subject = categorize.SubjectSummary
	} else {
		summarizer = summarize.NewEnsembleEngine(provider, logger)
	}

	categorizer, err := categorize.NewEngine(cfg.Categorize.Strategy, tax, provider, logger)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:         cfg,
		tax:         tax,
		source:      deps.Source,
		provider:    provider,
		meter:       meter,
		summarizer:  summarizer,
		critic:      critique.NewEngine(provider, logger),
		selector:    selection.NewPolicy(provider, logger),
		categorizer: categorizer.WithSubject(subject),
		similarity:  score.NewSimilarity(),
		composer:    digest.NewComposer(provider, cfg.Digest, cfg.Delivery.Subject, logger),
		sender:      sender,
		cache:       deps.Cache,
		logger:      logger,
		out:         out,
		now:         time.Now,
	}, nil
}

// Taxonomy returns the active taxonomy
func (p *Pipeline) Taxonomy() *taxonomy.Taxonomy {
	return p.tax
}

// Run executes one issue. Component failures degrade to sentinels inside the
// report; only a paper source error or a panic fails the run, and then no
// partial report is returned.
func (p *Pipeline) Run(ctx context.Context) (report *Report, err error) {
	runID := uuid.NewString()
	logger := p.logger.With(zap.String("run_id", runID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Run aborted", zap.Any("panic", r))
			report = nil
			err = fmt.Errorf("run %s aborted: %v", runID, r)
		}
	}()

	runCache := p.cache
	if runCache == nil {
		runCache = cache.NewSummaryCache(nil)
	}

	usageAtStart := p.meter.Usage()

	report = &Report{
		RunID:     runID,
		StartedAt: p.now().UTC(),
		Mode:      p.cfg.Pipeline.Mode,
		Strategy:  p.cfg.Categorize.Strategy,
		Taxonomy:  p.tax.Name(),
	}

	p.narrate("═══════════════════════════════════════════\n")
	p.narrate(" %s · run %s\n", p.cfg.Digest.Title, runID)
	p.narrate("═══════════════════════════════════════════\n")

	if p.provider != nil && !p.provider.IsAvailable(ctx) {
		logger.Warn("Generation service not reachable", zap.String("provider", p.provider.Name()))
		p.narrate("⚠ %s is not reachable; generated sections will fall back to placeholders\n", p.provider.Name())
	}

	p.narrate("Fetching results from %s...\n", p.source.Name())
	papers, err := p.source.Fetch(ctx, source.QueryFromConfig(p.cfg.Source))
	if err != nil {
		logger.Error("Paper source failed", zap.Error(err))
		return nil, fmt.Errorf("fetch papers: %w", err)
	}
	// Repeated IDs are dropped before any generation call, so the
	// aggregator's duplicate count stays zero on this path
	fetched := len(papers)
	papers = source.Dedup(papers)
	report.SourceDuplicates = fetched - len(papers)
	p.narrate("✓ Fetched %d results\n", len(papers))
	logger.Info("Fetched papers", zap.Int("count", len(papers)))

	items := make([]model.ResolvedItem, 0, len(papers))
	for i, paper := range papers {
		p.narrate("\nProcessing paper %d/%d: %s\n", i+1, len(papers), paper.Title)
		p.narrate("Authors: %s\nLink: %s\n", paper.AuthorList(), paper.Link)

		var result PaperResult
		if p.cfg.Pipeline.Mode == model.ModeSimple {
			result = p.processSimple(ctx, logger, runCache, paper)
		} else {
			result = p.processEnsemble(ctx, logger, paper)
		}

		report.Papers = append(report.Papers, result)
		items = append(items, model.ResolvedItem{Summary: result.Selected, Label: result.Label, Paper: paper})
	}

	coll, stats := aggregate.Aggregate(p.tax, items)
	report.Collection = coll
	report.Aggregation = stats
	report.Cache = runCache.Stats()
	p.narrate("\n✓ All papers processed: %d placed in %d categories (%d duplicates dropped)\n",
		stats.Placed, len(coll.NonEmpty()), stats.Duplicates)

	p.narrate("Composing the newsletter...\n")
	d, err := p.composer.Compose(ctx, coll)
	if err != nil {
		return nil, fmt.Errorf("compose digest: %w", err)
	}
	report.Digest = d
	if d.Failures > 0 {
		logger.Warn("Digest has placeholder sections", zap.Int("failures", d.Failures), zap.Int("calls", d.Calls))
	}

	report.Delivery = p.deliver(ctx, logger, d)
	report.Usage = p.meter.Usage().Sub(usageAtStart)
	logger.Info("Generation usage", zap.Int("calls", report.Usage.Calls), zap.Int("tokens", report.Usage.Tokens))
	report.FinishedAt = p.now().UTC()

	return report, nil
}

func (p *Pipeline) processEnsemble(ctx context.Context, logger *zap.Logger, paper *model.Paper) PaperResult {
	variants := summarize.EnsembleVariants
	candidates := make([]model.CandidateSummary, 0, len(variants))
	critiques := make([]string, 0, len(variants))

	for i, v := range variants {
		res := p.summarizer.Summarize(ctx, paper.Abstract, v)
		crit := p.critic.Critique(ctx, res.Summary, i+1)

		cand := res.Candidate(v)
		cand.Critique = crit
		candidates = append(candidates, cand)
		critiques = append(critiques, crit)

		p.narrate("Summary %d (%s): %s\n", i+1, v.ID, res.Summary)
	}

	selected := p.selector.SelectBest(ctx, candidates, critiques)
	p.narrate("Best summary: %s\n", selected.Text())

	resolution := p.categorizer.Categorize(ctx, paper.Abstract)
	p.narrate("Category: %s\n", resolution.Label)

	result := PaperResult{
		PaperID:     paper.ID,
		Title:       paper.Title,
		Candidates:  candidates,
		Selected:    selected,
		Label:       resolution.Label,
		Explanation: resolution.Explanation,
		Failure:     resolution.Failure,
	}
	result.Scores = p.diagnostics(paper.Abstract, candidates)

	logger.Debug("Paper resolved",
		zap.String("paper", paper.ID),
		zap.String("label", string(resolution.Label)),
		zap.String("variant", selected.Candidate.Variant.ID))
	return result
}

func (p *Pipeline) processSimple(ctx context.Context, logger *zap.Logger, c *cache.SummaryCache, paper *model.Paper) PaperResult {
	v := summarize.SimpleVariant

	var text string
	if p.cfg.Cache.Enabled {
		// NewCachedEngine only fails on nil arguments, both set here
		cached, _ := summarize.NewCachedEngine(p.summarizer, v, c)
		text = cached.Summarize(ctx, paper.Abstract)
	} else {
		text = p.summarizer.Summarize(ctx, paper.Abstract, v).Summary
	}
	p.narrate("Summary: %s\n", text)

	candidate := model.CandidateSummary{Text: text, Variant: v}
	resolution := p.categorizer.Categorize(ctx, text)
	p.narrate("Category: %s\n", resolution.Label)

	logger.Debug("Paper resolved", zap.String("paper", paper.ID), zap.String("label", string(resolution.Label)))

	return PaperResult{
		PaperID:     paper.ID,
		Title:       paper.Title,
		Candidates:  []model.CandidateSummary{candidate},
		Selected:    model.SelectedSummary{Candidate: candidate},
		Label:       resolution.Label,
		Explanation: resolution.Explanation,
		Failure:     resolution.Failure,
		Scores:      p.diagnostics(paper.Abstract, []model.CandidateSummary{candidate}),
	}
}

// diagnostics scores candidates against the abstract when enabled.
// The scores are reported only.
func (p *Pipeline) diagnostics(abstract string, candidates []model.CandidateSummary) []model.ScoredSummary {
	if !p.cfg.Output.Diagnostics {
		return nil
	}
	scores := p.similarity.ScoreAll(abstract, candidates)
	for i, s := range scores {
		p.narrate("ROUGE score for summary %d: rouge1 F=%.3f rougeL F=%.3f\n", i+1, s.Unigram.F, s.LCS.F)
	}
	return scores
}

// deliver makes one best-effort send; the outcome is recorded, never returned
func (p *Pipeline) deliver(ctx context.Context, logger *zap.Logger, d *digest.Digest) DeliveryResult {
	if _, off := p.sender.(delivery.Disabled); off {
		logger.Debug("Delivery disabled")
		return DeliveryResult{Skipped: true}
	}

	to, err := delivery.ParseRecipients(p.cfg.Delivery.To)
	if err != nil {
		logger.Warn("Invalid recipients", zap.Error(err))
		return DeliveryResult{Error: err.Error()}
	}

	msg := delivery.Message{
		Subject: d.Subject,
		Body:    d.HTML,
		Text:    d.Text,
		To:      to,
		From:    p.cfg.Delivery.From,
	}
	if err := msg.Validate(); err != nil {
		logger.Warn("Digest not deliverable", zap.Error(err))
		return DeliveryResult{Error: err.Error()}
	}

	err = p.sender.Send(ctx, msg)
	switch {
	case errors.Is(err, delivery.ErrDisabled):
		logger.Debug("Delivery disabled")
		return DeliveryResult{Skipped: true}
	case err != nil:
		logger.Warn("An error occurred while sending the email", zap.Error(err))
		p.narrate("⚠ Email not sent: %v\n", err)
		return DeliveryResult{Error: err.Error()}
	}

	p.narrate("✓ Email sent to %s\n", strings.Join(to, ", "))
	return DeliveryResult{Sent: true, Recipients: to}
}

func (p *Pipeline) narrate(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// Run is shorthand for New followed by Run
func Run(ctx context.Context, cfg *model.Config, deps Deps) (*Report, error) {
	p, err := New(cfg, deps)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx)
}

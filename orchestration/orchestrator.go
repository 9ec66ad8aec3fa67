// Orchestrator - sequences query generation, research, formatting, and the
// two extraction passes into one ProblemAnalysis.
//
// Information Hiding:
// - Fan-out and partial-success policy hidden
// - Deadline handling hidden
// - Concurrent extraction and join hidden

package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/richinex/discoverylens/analysis"
	"github.com/richinex/discoverylens/model"
	"github.com/richinex/discoverylens/research"
)

// Extractor runs the two structured completion passes.
type Extractor interface {
	ExtractAnalysis(ctx context.Context, d model.DiscoveryRequest, researchContext string) (model.AIAnalysisResult, error)
	ExtractMarketValidation(ctx context.Context, researchContext string) (model.MarketValidation, error)
}

// Orchestrator holds the collaborators of a pipeline run. It keeps no
// per-run state, so one instance serves concurrent requests.
type Orchestrator struct {
	searcher  research.Searcher
	extractor Extractor
	opts      Options
	logger    *zap.Logger

	now     func() time.Time
	newID   func() string
	onStage func(discoveryID string, stage Stage)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the time source used for AnalyzedAt.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithIDGenerator overrides analysis id generation.
func WithIDGenerator(newID func() string) Option {
	return func(o *Orchestrator) { o.newID = newID }
}

// WithStageObserver registers a callback invoked on every stage transition.
func WithStageObserver(fn func(discoveryID string, stage Stage)) Option {
	return func(o *Orchestrator) { o.onStage = fn }
}

// New creates an orchestrator.
func New(searcher research.Searcher, extractor Extractor, opts Options, options ...Option) *Orchestrator {
	if opts.MaxResults <= 0 {
		opts.MaxResults = research.DefaultMaxResults
	}
	o := &Orchestrator{
		searcher:  searcher,
		extractor: extractor,
		opts:      opts,
		logger:    zap.NewNop(),
		now:       time.Now,
		newID:     func() string { return "analysis-" + uuid.NewString() },
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// Analyze runs the full pipeline for one discovery. It returns a complete
// ProblemAnalysis or a *PipelineError, never a partial result.
func (o *Orchestrator) Analyze(ctx context.Context, discoveryID string, d model.DiscoveryRequest) (model.ProblemAnalysis, error) {
	start := time.Now()
	log := o.logger.With(zap.String("discovery_id", discoveryID))

	runCtx := ctx
	if o.opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.opts.Timeout)
		defer cancel()
	}

	fail := func(stage Stage, err error) (model.ProblemAnalysis, error) {
		if ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %w", ErrTimeout, o.opts.Timeout, err)
		}
		o.transition(discoveryID, StageFailed)
		log.Error("analysis failed",
			zap.String("stage", stage.String()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return model.ProblemAnalysis{}, &PipelineError{Stage: stage, Err: err}
	}

	o.transition(discoveryID, StageGeneratingQueries)
	queries := analysis.QueryTexts(analysis.GenerateQueries(d))

	o.transition(discoveryID, StageResearching)
	results, err := o.research(runCtx, log, queries)
	if err != nil {
		return fail(StageResearching, err)
	}

	o.transition(discoveryID, StageFormatting)
	researchContext := research.FormatContext(results)

	o.transition(discoveryID, StageExtracting)
	var (
		insights model.AIAnalysisResult
		market   model.MarketValidation
	)
	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		var err error
		insights, err = o.extractor.ExtractAnalysis(gCtx, d, researchContext)
		return err
	})
	g.Go(func() error {
		var err error
		market, err = o.extractor.ExtractMarketValidation(gCtx, researchContext)
		return err
	})
	if err := g.Wait(); err != nil {
		return fail(StageExtracting, err)
	}

	o.transition(discoveryID, StageAssembling)
	result := model.ProblemAnalysis{
		ID:                 o.newID(),
		DiscoveryID:        discoveryID,
		RootCauses:         insights.RootCauses,
		UserPainPoints:     insights.UserPainPoints,
		MarketValidation:   market,
		CompetitorInsights: insights.CompetitorInsights,
		KeyFindings:        insights.KeyFindings,
		RecommendedFocus:   insights.RecommendedFocus,
		ConfidenceScore:    insights.ConfidenceScore,
		AnalyzedAt:         o.now(),
	}

	o.transition(discoveryID, StageDone)
	log.Info("analysis complete",
		zap.String("analysis_id", result.ID),
		zap.Int("query_count", len(queries)),
		zap.Int("confidence_score", result.ConfidenceScore),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// research runs the searches under the configured success policy.
func (o *Orchestrator) research(ctx context.Context, log *zap.Logger, queries []string) (model.ResearchContext, error) {
	if o.opts.failFast() {
		return research.MultiSearch(ctx, o.searcher, queries, o.opts.MaxResults)
	}

	outcomes := research.CollectSearches(ctx, o.searcher, queries, o.opts.MaxResults)
	results, firstErr := research.Succeeded(outcomes)
	if firstErr == nil {
		return results, nil
	}

	ratio := float64(len(results)) / float64(len(queries))
	if len(results) == 0 || ratio < o.opts.MinSuccessRatio {
		return nil, firstErr
	}

	for _, out := range outcomes {
		if out.Err != nil {
			log.Warn("dropping failed research query",
				zap.String("query", out.Query),
				zap.Error(out.Err),
			)
		}
	}
	return results, nil
}

func (o *Orchestrator) transition(discoveryID string, stage Stage) {
	o.logger.Debug("stage", zap.String("discovery_id", discoveryID), zap.String("stage", stage.String()))
	if o.onStage != nil {
		o.onStage(discoveryID, stage)
	}
}

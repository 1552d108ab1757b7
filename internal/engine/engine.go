// Package engine wires the catalog, anti-pattern filter, scorer, diversity
// selector, industry overlay and journey planner into the two public
// operations: Recommend and PlanJourney.
//
// An Engine holds only immutable state and is safe for concurrent use.
package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/compass/internal/antipattern"
	"github.com/mesh-intelligence/compass/internal/catalog"
	"github.com/mesh-intelligence/compass/internal/journey"
	"github.com/mesh-intelligence/compass/internal/overlay"
	"github.com/mesh-intelligence/compass/internal/scoring"
	"github.com/mesh-intelligence/compass/internal/selector"
	"github.com/mesh-intelligence/compass/pkg/types"
)

// DefaultMinScore is the default quality floor. Zero hands every framework
// that survived the anti-pattern filter to the selector.
const DefaultMinScore = 0.0

// Engine computes recommendations and journeys against one catalog.
type Engine struct {
	catalog  *catalog.Catalog
	log      *zap.Logger
	minScore float64
	poolSize int
	planner  *journey.Planner
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for warnings and call summaries.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMinScore sets an optional quality floor for Recommend. Candidates
// below it are dropped before selection unless that would leave none, in
// which case every surviving candidate is ranked and a min_score_relaxed
// warning is recorded.
func WithMinScore(s float64) Option {
	return func(e *Engine) { e.minScore = s }
}

// WithJourneyPoolSize sets how many top-ranked frameworks the journey
// planner considers. n <= 0 keeps the default.
func WithJourneyPoolSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.poolSize = n
		}
	}
}

// WithPhaseCapacity sets the maximum frameworks per journey phase.
func WithPhaseCapacity(n int) Option {
	return func(e *Engine) { e.planner = journey.New(n) }
}

// New returns an engine over c.
func New(c *catalog.Catalog, opts ...Option) (*Engine, error) {
	if c == nil || c.Len() == 0 {
		return nil, types.ErrEmptyCatalog
	}
	e := &Engine{
		catalog:  c,
		log:      zap.NewNop(),
		minScore: DefaultMinScore,
		poolSize: journey.DefaultPoolSize,
		planner:  journey.New(journey.DefaultPhaseCapacity),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.minScore < 0 || e.minScore > 1 {
		return nil, fmt.Errorf("min score %v outside [0,1]", e.minScore)
	}
	return e, nil
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// evaluation is the filtered and scored catalog for one context.
type evaluation struct {
	scored   []types.ScoredFramework // not excluded, catalog order
	excluded []types.Exclusion
	warnings []types.Warning
}

// evaluate validates the context, applies defaults, runs the anti-pattern
// filter over the whole catalog and scores the survivors.
func (e *Engine) evaluate(ctx context.Context, cc types.CompanyContext) (types.CompanyContext, *evaluation, error) {
	if err := ctx.Err(); err != nil {
		return cc, nil, err
	}
	if err := cc.Validate(); err != nil {
		return cc, nil, err
	}
	cc = cc.WithDefaults()

	ev := &evaluation{}
	for _, fw := range e.catalog.All() {
		res := antipattern.Evaluate(fw, cc)
		ev.warnings = append(ev.warnings, res.Warnings...)
		if res.Excluded {
			ev.excluded = append(ev.excluded, types.Exclusion{FrameworkID: fw.ID, Reason: res.Reason})
			continue
		}
		ev.scored = append(ev.scored, scoring.Score(fw, cc))
	}
	if err := ctx.Err(); err != nil {
		return cc, nil, err
	}
	return cc, ev, nil
}

// Recommend returns up to maxFrameworks frameworks for the context, ranked
// and diversified, with industry variants applied. maxFrameworks <= 0 uses
// selector.DefaultMaxFrameworks. An invalid context returns a
// *types.ContextValidationError before any scoring.
func (e *Engine) Recommend(ctx context.Context, cc types.CompanyContext, maxFrameworks int) (*types.Recommendation, error) {
	cc, ev, err := e.evaluate(ctx, cc)
	if err != nil {
		return nil, err
	}
	if maxFrameworks <= 0 {
		maxFrameworks = selector.DefaultMaxFrameworks
	}

	rec := &types.Recommendation{
		Frameworks: []types.FrameworkView{},
		Excluded:   ev.excluded,
		Warnings:   ev.warnings,
	}

	pool := e.applyMinScore(ev.scored, rec)

	var chosen []types.ScoredFramework
	if len(pool) > 0 {
		sel := selector.Select(pool, maxFrameworks)
		chosen = sel.Frameworks
		rec.Relaxed = sel.Relaxed
	} else {
		chosen = e.fallback(ev, maxFrameworks)
		rec.Fallback = true
		if len(chosen) == 0 {
			rec.Warnings = append(rec.Warnings, types.Warning{
				Kind:    types.WarnEmptyFallback,
				Message: "every framework was excluded by its anti-patterns and no universal framework is available",
			})
		}
	}

	for _, s := range chosen {
		if cc.Industry != "" && !overlay.HasVariant(s.Framework, cc.Industry) {
			rec.Warnings = append(rec.Warnings, types.Warning{
				Kind:        types.WarnMissingVariant,
				FrameworkID: s.FrameworkID,
				Message:     fmt.Sprintf("no %q variant; showing generic definition", cc.Industry),
			})
		}
		rec.Frameworks = append(rec.Frameworks, overlay.ToFrameworkView(s, cc.Industry))
	}

	e.logWarnings("recommend", rec.Warnings)
	e.log.Debug("recommendation computed",
		zap.String("catalog", e.catalog.SnapshotID()),
		zap.String("stage", string(cc.Stage)),
		zap.Int("candidates", len(ev.scored)),
		zap.Int("excluded", len(ev.excluded)),
		zap.Int("selected", len(rec.Frameworks)),
		zap.Bool("relaxed", rec.Relaxed),
		zap.Bool("fallback", rec.Fallback))
	return rec, nil
}

// applyMinScore drops candidates below the engine's minimum score. It never
// turns a non-empty candidate list into an empty one.
func (e *Engine) applyMinScore(scored []types.ScoredFramework, rec *types.Recommendation) []types.ScoredFramework {
	if e.minScore <= 0 || len(scored) == 0 {
		return scored
	}
	var kept []types.ScoredFramework
	for _, s := range scored {
		if s.Score >= e.minScore {
			kept = append(kept, s)
		}
	}
	if len(kept) > 0 {
		return kept
	}
	rec.Warnings = append(rec.Warnings, types.Warning{
		Kind:    types.WarnMinScoreRelaxed,
		Message: fmt.Sprintf("no framework reached the minimum score %.2f; ranking all %d candidates", e.minScore, len(scored)),
	})
	return scored
}

// fallback returns the universal frameworks the filter kept, with their
// scores, in fallback order.
func (e *Engine) fallback(ev *evaluation, size int) []types.ScoredFramework {
	byID := make(map[string]types.ScoredFramework, len(ev.scored))
	candidates := make([]*types.Framework, 0, len(ev.scored))
	for _, s := range ev.scored {
		byID[s.FrameworkID] = s
		candidates = append(candidates, s.Framework)
	}
	fws := selector.Fallback(candidates, size)
	out := make([]types.ScoredFramework, len(fws))
	for i, fw := range fws {
		out[i] = byID[fw.ID]
	}
	return out
}

// PlanJourney arranges the top journey-pool frameworks for the context into
// phases over horizonMonths. horizonMonths <= 0 uses
// journey.DefaultHorizonMonths. Excluded frameworks never enter the pool.
func (e *Engine) PlanJourney(ctx context.Context, cc types.CompanyContext, horizonMonths int) (*types.Journey, error) {
	cc, ev, err := e.evaluate(ctx, cc)
	if err != nil {
		return nil, err
	}

	pool := selector.Rank(ev.scored)
	if len(pool) > e.poolSize {
		pool = pool[:e.poolSize]
	}

	j := e.planner.Plan(pool, horizonMonths)
	j.Warnings = append(ev.warnings, j.Warnings...)

	e.logWarnings("journey", j.Warnings)
	e.log.Debug("journey planned",
		zap.String("catalog", e.catalog.SnapshotID()),
		zap.String("stage", string(cc.Stage)),
		zap.Int("pool", len(pool)),
		zap.Int("horizon_months", j.HorizonMonths),
		zap.Int("unscheduled", len(j.Unscheduled)),
		zap.Strings("critical_path", j.CriticalPath))
	return j, nil
}

func (e *Engine) logWarnings(op string, warnings []types.Warning) {
	for _, w := range warnings {
		e.log.Warn(w.Message,
			zap.String("op", op),
			zap.String("kind", w.Kind),
			zap.String("framework", w.FrameworkID))
	}
}

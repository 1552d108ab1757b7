package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/compass/internal/catalog"
	"github.com/mesh-intelligence/compass/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func runway(months float64) *float64 { return &months }

func builtinEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	c, err := catalog.Builtin()
	require.NoError(t, err)
	e, err := New(c, opts...)
	require.NoError(t, err)
	return e
}

func customEngine(t *testing.T, fws []types.Framework, opts ...Option) *Engine {
	t.Helper()
	c, err := catalog.New(fws)
	require.NoError(t, err)
	e, err := New(c, opts...)
	require.NoError(t, err)
	return e
}

func viewIDs(views []types.FrameworkView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

func excludedIDs(ex []types.Exclusion) []string {
	out := make([]string, len(ex))
	for i, x := range ex {
		out[i] = x.FrameworkID
	}
	return out
}

func earlyStartup() types.CompanyContext {
	return types.CompanyContext{
		Stage:     types.StageValidation,
		Problems:  []types.ProblemArchetype{types.ProblemProductMarketFit},
		DataLevel: types.DataBasic,
		TeamSize:  4,
	}
}

func warningKinds(warnings []types.Warning) []string {
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.Kind
	}
	return out
}

// poorFit builds a framework that matches the early startup context on no
// dimension and declares no anti-patterns.
func poorFit(id string, category types.Category) types.Framework {
	return types.Framework{
		ID: id, Name: "Framework " + id, Category: category,
		Effectiveness: 0.5, TimeToValueDays: 200, MinTeamSize: 100,
		Tags: types.Tags{
			Stages:          []types.Stage{types.StageMaturity},
			Problems:        []types.ProblemArchetype{types.ProblemPortfolioAllocation},
			DataRequirement: types.DataRich,
			Complexity:      types.ComplexityExpert,
		},
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, types.ErrEmptyCatalog)

	c, err := catalog.Builtin()
	require.NoError(t, err)
	_, err = New(c, WithMinScore(1.5))
	assert.Error(t, err)
}

func TestRecommendEarlyStartupPrefersDiscovery(t *testing.T) {
	e := builtinEngine(t)

	rec, err := e.Recommend(context.Background(), earlyStartup(), 5)
	require.NoError(t, err)

	ids := viewIDs(rec.Frameworks)
	assert.Contains(t, ids, "customer-development")
	assert.NotContains(t, ids, "bcg-matrix")
	assert.Contains(t, excludedIDs(rec.Excluded), "bcg-matrix")
	for _, x := range rec.Excluded {
		if x.FrameworkID == "bcg-matrix" {
			assert.Equal(t, "portfolio allocation needs several business units", x.Reason)
		}
	}
	assert.LessOrEqual(t, len(rec.Frameworks), 5)
	assert.False(t, rec.Fallback)
}

func TestScoreOrdersDiscoveryAboveMatureFramework(t *testing.T) {
	// Without anti-patterns the portfolio framework still scores lower.
	fws := []types.Framework{
		{
			ID: "customer-development", Name: "Customer Development", Category: types.CategoryProduct,
			Effectiveness: 0.8, TimeToValueDays: 30, MinTeamSize: 1,
			Tags: types.Tags{
				Stages:          []types.Stage{types.StageIdeation, types.StageValidation},
				Problems:        []types.ProblemArchetype{types.ProblemProductMarketFit},
				DataRequirement: types.DataNone,
				Complexity:      types.ComplexityModerate,
			},
		},
		{
			ID: "bcg-matrix", Name: "BCG Matrix", Category: types.CategoryStrategicPlanning,
			Effectiveness: 0.6, TimeToValueDays: 45, MinTeamSize: 20,
			Tags: types.Tags{
				Stages:          []types.Stage{types.StageGrowth, types.StageScale, types.StageMaturity},
				Problems:        []types.ProblemArchetype{types.ProblemPortfolioAllocation},
				DataRequirement: types.DataModerate,
				Complexity:      types.ComplexityModerate,
			},
		},
	}
	e := customEngine(t, fws)

	rec, err := e.Recommend(context.Background(), earlyStartup(), 5)
	require.NoError(t, err)
	require.Equal(t, []string{"customer-development", "bcg-matrix"}, viewIDs(rec.Frameworks))
	assert.Greater(t, rec.Frameworks[0].Score, rec.Frameworks[1].Score)
}

func TestRecommendCrisisPrefersFastFrameworks(t *testing.T) {
	tags := types.Tags{
		Stages:          []types.Stage{types.StageGrowth},
		Problems:        []types.ProblemArchetype{types.ProblemCashCrisis},
		DataRequirement: types.DataNone,
		Complexity:      types.ComplexityPlugAndPlay,
	}
	e := customEngine(t, []types.Framework{
		{ID: "slow", Category: types.CategoryFinancial, Tags: tags, Effectiveness: 0.9, TimeToValueDays: 45, MinTeamSize: 1},
		{ID: "fast", Category: types.CategoryFinancial, Tags: tags, Effectiveness: 0.5, TimeToValueDays: 3, MinTeamSize: 1},
	})

	cc := types.CompanyContext{
		Stage:        types.StageGrowth,
		Problems:     []types.ProblemArchetype{types.ProblemCashCrisis},
		RunwayMonths: runway(3),
	}
	rec, err := e.Recommend(context.Background(), cc, 5)
	require.NoError(t, err)

	require.Equal(t, []string{"fast", "slow"}, viewIDs(rec.Frameworks))
	assert.Equal(t, 1.0, rec.Frameworks[0].SubScores.Timing)
	assert.Equal(t, 0.0, rec.Frameworks[1].SubScores.Timing)
}

func TestRecommendIndustryFallsBackToGeneric(t *testing.T) {
	e := builtinEngine(t)
	cc := types.CompanyContext{
		Stage:     types.StageEarlyTraction,
		Problems:  []types.ProblemArchetype{types.ProblemCashCrisis, types.ProblemPricing},
		DataLevel: types.DataBasic,
		TeamSize:  6,
		Industry:  "aerospace",
	}

	rec, err := e.Recommend(context.Background(), cc, 5)
	require.NoError(t, err)
	require.NotEmpty(t, rec.Frameworks)

	c := e.Catalog()
	for _, v := range rec.Frameworks {
		fw, ok := c.Get(v.ID)
		require.True(t, ok)
		assert.Empty(t, v.Variant)
		assert.Equal(t, fw.Name, v.Name)
		assert.Equal(t, fw.Metrics, v.Metrics)
	}

	missing := 0
	for _, w := range rec.Warnings {
		if w.Kind == types.WarnMissingVariant {
			missing++
		}
	}
	assert.Equal(t, len(rec.Frameworks), missing)
}

func TestRecommendAppliesIndustryVariant(t *testing.T) {
	e := builtinEngine(t)
	cc := types.CompanyContext{
		Stage:     types.StageEarlyTraction,
		Problems:  []types.ProblemArchetype{types.ProblemPricing, types.ProblemFundraising},
		DataLevel: types.DataBasic,
		Industry:  "saas",
	}

	rec, err := e.Recommend(context.Background(), cc, 5)
	require.NoError(t, err)

	var found bool
	for _, v := range rec.Frameworks {
		if v.ID == "unit-economics" {
			found = true
			assert.Equal(t, "saas", v.Variant)
			assert.Equal(t, "SaaS Unit Economics", v.Name)
			assert.Equal(t, 12.0, v.Benchmarks["payback_months"])
		}
	}
	assert.True(t, found, "unit-economics should be recommended, got %v", viewIDs(rec.Frameworks))
}

func TestRecommendLowScoringSurvivorsFillTheList(t *testing.T) {
	fws := []types.Framework{
		poorFit("a", types.CategoryFinancial),
		poorFit("b", types.CategoryGrowth),
		poorFit("c", types.CategoryOperational),
		poorFit("d", types.CategoryProduct),
		poorFit("e", types.CategoryInnovation),
		poorFit("f", types.CategoryOrganizational),
	}

	tests := []struct {
		name     string
		opts     []Option
		max      int
		want     int
		warnings []string
	}{
		{"default floor", nil, 5, 5, []string{}},
		{"more slots than survivors", nil, 8, 6, []string{}},
		{"opt-in floor above every score", []Option{WithMinScore(0.3)}, 5, 5, []string{types.WarnMinScoreRelaxed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := customEngine(t, fws, tt.opts...)

			rec, err := e.Recommend(context.Background(), earlyStartup(), tt.max)
			require.NoError(t, err)

			assert.Empty(t, rec.Excluded)
			assert.Len(t, rec.Frameworks, tt.want)
			assert.False(t, rec.Fallback)
			assert.Equal(t, tt.warnings, warningKinds(rec.Warnings))
			for _, v := range rec.Frameworks {
				assert.Less(t, v.Score, 0.3, v.ID)
			}
		})
	}
}

func TestRecommendMinScoreKeepsQualifiedCandidates(t *testing.T) {
	e := builtinEngine(t, WithMinScore(0.5))

	rec, err := e.Recommend(context.Background(), earlyStartup(), 5)
	require.NoError(t, err)

	require.NotEmpty(t, rec.Frameworks)
	for _, v := range rec.Frameworks {
		assert.GreaterOrEqual(t, v.Score, 0.5, v.ID)
	}
	assert.NotContains(t, warningKinds(rec.Warnings), types.WarnMinScoreRelaxed)
	assert.False(t, rec.Fallback)
}

func TestRecommendMinScoreNeverEmptiesSurvivors(t *testing.T) {
	e := builtinEngine(t, WithMinScore(1))
	cc := types.CompanyContext{
		Stage:    types.StageMaturity,
		Problems: []types.ProblemArchetype{types.ProblemFundraising},
		TeamSize: 2,
	}

	rec, err := e.Recommend(context.Background(), cc, 3)
	require.NoError(t, err)

	assert.False(t, rec.Fallback)
	assert.Len(t, rec.Frameworks, 3)
	assert.Contains(t, warningKinds(rec.Warnings), types.WarnMinScoreRelaxed)
	for _, v := range rec.Frameworks {
		assert.NotContains(t, excludedIDs(rec.Excluded), v.ID)
	}
}

func TestRecommendEmptyFallbackWarns(t *testing.T) {
	// The only universal framework is excluded, so nothing survives and the
	// fallback set has nothing to offer.
	e := customEngine(t, []types.Framework{
		{
			ID: "raci", Category: types.CategoryOrganizational, Effectiveness: 0.5, TimeToValueDays: 5, MinTeamSize: 5,
			Tags: types.Tags{
				Stages:     []types.Stage{types.StageValidation},
				Complexity: types.ComplexityPlugAndPlay,
				Industries: []string{types.IndustryUniversal},
			},
			AntiPatterns: []types.AntiPattern{{When: "team_size < 5"}},
		},
		{
			ID: "niche", Category: types.CategoryGrowth, Effectiveness: 0.9, TimeToValueDays: 200, MinTeamSize: 100,
			Tags:         types.Tags{Stages: []types.Stage{types.StageMaturity}},
			AntiPatterns: []types.AntiPattern{{When: "stage < growth"}},
		},
	})

	rec, err := e.Recommend(context.Background(), earlyStartup(), 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"niche", "raci"}, excludedIDs(rec.Excluded))
	assert.True(t, rec.Fallback)
	assert.Empty(t, rec.Frameworks)
	assert.Equal(t, []string{types.WarnEmptyFallback}, warningKinds(rec.Warnings))
}

func TestRecommendRejectsInvalidContext(t *testing.T) {
	e := builtinEngine(t)

	_, err := e.Recommend(context.Background(), types.CompanyContext{Stage: "teenage"}, 5)
	require.ErrorIs(t, err, types.ErrContextValidation)

	var verr *types.ContextValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Problems, 2)

	_, err = e.PlanJourney(context.Background(), types.CompanyContext{}, 12)
	assert.ErrorIs(t, err, types.ErrContextValidation)
}

func TestRecommendHonorsCancellation(t *testing.T) {
	e := builtinEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Recommend(ctx, earlyStartup(), 5)
	assert.ErrorIs(t, err, context.Canceled)
}

// contexts spans stages, team sizes, crisis and data levels.
func contexts() []types.CompanyContext {
	var out []types.CompanyContext
	stages := []types.Stage{types.StageIdeation, types.StageEarlyTraction, types.StageGrowth, types.StageMaturity}
	problems := [][]types.ProblemArchetype{
		{types.ProblemProductMarketFit},
		{types.ProblemCashCrisis, types.ProblemOperationalInefficiency},
		{types.ProblemPortfolioAllocation, types.ProblemStrategicDirection},
		{types.ProblemTeamScaling, types.ProblemGrowthStall},
	}
	for _, stage := range stages {
		for i, ps := range problems {
			for _, team := range []int{1, 8, 60} {
				cc := types.CompanyContext{
					Stage:     stage,
					Problems:  ps,
					TeamSize:  team,
					DataLevel: []types.DataLevel{types.DataNone, types.DataBasic, types.DataModerate, types.DataRich}[i],
					Industry:  []string{"", "saas", "ecommerce", "aerospace"}[i],
				}
				if i == 1 {
					cc.RunwayMonths = runway(4)
				}
				out = append(out, cc)
			}
		}
	}
	return out
}

func TestExcludedFrameworksNeverSurface(t *testing.T) {
	e := builtinEngine(t)

	for _, cc := range contexts() {
		rec, err := e.Recommend(context.Background(), cc, 5)
		require.NoError(t, err)
		j, err := e.PlanJourney(context.Background(), cc, 12)
		require.NoError(t, err)

		for _, id := range excludedIDs(rec.Excluded) {
			assert.NotContains(t, viewIDs(rec.Frameworks), id, "stage=%s team=%d", cc.Stage, cc.TeamSize)
			assert.Equal(t, -1, j.PhaseOf(id), "stage=%s team=%d", cc.Stage, cc.TeamSize)
			assert.NotContains(t, j.Unscheduled, id)
		}
		for _, v := range rec.Frameworks {
			assert.GreaterOrEqual(t, v.Score, 0.0)
			assert.LessOrEqual(t, v.Score, 1.0)
		}
	}
}

func TestRecommendIsDeterministic(t *testing.T) {
	for _, cc := range contexts() {
		e1 := builtinEngine(t)
		e2 := builtinEngine(t)

		r1, err := e1.Recommend(context.Background(), cc, 5)
		require.NoError(t, err)
		r2, err := e2.Recommend(context.Background(), cc, 5)
		require.NoError(t, err)
		if diff := cmp.Diff(r1, r2); diff != "" {
			t.Fatalf("recommendation differs between runs (-first +second):\n%s", diff)
		}

		j1, err := e1.PlanJourney(context.Background(), cc, 12)
		require.NoError(t, err)
		j2, err := e2.PlanJourney(context.Background(), cc, 12)
		require.NoError(t, err)
		if diff := cmp.Diff(j1, j2); diff != "" {
			t.Fatalf("journey differs between runs (-first +second):\n%s", diff)
		}
	}
}

func TestEngineConcurrentUse(t *testing.T) {
	e := builtinEngine(t)
	ccs := contexts()

	want := make([]*types.Recommendation, len(ccs))
	for i, cc := range ccs {
		rec, err := e.Recommend(context.Background(), cc, 5)
		require.NoError(t, err)
		want[i] = rec
	}

	got := make([]*types.Recommendation, len(ccs))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(8)
	for i, cc := range ccs {
		i, cc := i, cc // per-iteration copies (go directive < 1.22)
		g.Go(func() error {
			rec, err := e.Recommend(ctx, cc, 5)
			if err != nil {
				return fmt.Errorf("context %d: %w", i, err)
			}
			got[i] = rec
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Empty(t, cmp.Diff(want, got))
}

func TestPlanJourneyOnBuiltin(t *testing.T) {
	e := builtinEngine(t, WithJourneyPoolSize(10), WithPhaseCapacity(2))
	cc := types.CompanyContext{
		Stage:     types.StageEarlyTraction,
		Problems:  []types.ProblemArchetype{types.ProblemGrowthStall, types.ProblemStrategicDirection},
		DataLevel: types.DataModerate,
		TeamSize:  12,
	}

	j, err := e.PlanJourney(context.Background(), cc, 12)
	require.NoError(t, err)

	require.Len(t, j.Phases, 4)
	scheduled := 0
	for _, p := range j.Phases {
		assert.LessOrEqual(t, len(p.Frameworks), 2)
		scheduled += len(p.Frameworks)
	}
	assert.Equal(t, 8, scheduled)
	assert.Len(t, j.Unscheduled, 2)
	assert.NotEmpty(t, j.CriticalPath)

	c := e.Catalog()
	for _, p := range j.Phases {
		for _, item := range p.Frameworks {
			fw, _ := c.Get(item.ID)
			for _, pre := range fw.Prerequisites() {
				if at := j.PhaseOf(pre); at >= 0 {
					assert.LessOrEqual(t, at, j.PhaseOf(item.ID), "%s before %s", pre, item.ID)
				}
			}
		}
	}
}

func TestWarningsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e := customEngine(t, []types.Framework{
		{
			ID: "swot", Category: types.CategoryStrategicPlanning, Effectiveness: 0.5, TimeToValueDays: 2,
			Tags: types.Tags{
				Stages:     []types.Stage{types.StageValidation},
				Problems:   []types.ProblemArchetype{types.ProblemProductMarketFit},
				Complexity: types.ComplexityPlugAndPlay,
				Industries: []string{types.IndustryUniversal},
			},
			AntiPatterns: []types.AntiPattern{{When: "moon_phase == full"}},
		},
	}, WithLogger(zap.New(core)))

	rec, err := e.Recommend(context.Background(), earlyStartup(), 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"swot"}, viewIDs(rec.Frameworks))
	require.Len(t, rec.Warnings, 1)
	assert.Equal(t, types.WarnMalformedPredicate, rec.Warnings[0].Kind)

	entries := logs.FilterField(zap.String("kind", types.WarnMalformedPredicate)).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "swot", entries[0].ContextMap()["framework"])
}

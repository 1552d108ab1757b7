package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/compass/pkg/types"
)

func TestStageFit(t *testing.T) {
	tests := []struct {
		name   string
		stages []types.Stage
		stage  types.Stage
		want   float64
	}{
		{"exact match", []types.Stage{types.StageValidation}, types.StageValidation, 1.0},
		{"adjacent stage", []types.Stage{types.StageGrowth}, types.StageScale, 0.6},
		{"two stages apart", []types.Stage{types.StageIdeation}, types.StageEarlyTraction, 0.25},
		{"three stages apart", []types.Stage{types.StageIdeation}, types.StageGrowth, 0},
		{"best of several", []types.Stage{types.StageIdeation, types.StageScale}, types.StageGrowth, 0.6},
		{"untagged framework", nil, types.StageGrowth, Neutral},
		{"unknown context stage", []types.Stage{types.StageGrowth}, "someday", 0},
		{"unknown framework stage ignored", []types.Stage{"bogus", types.StageGrowth}, types.StageGrowth, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, StageFit(tt.stages, tt.stage), 1e-9)
		})
	}
}

func TestDecisionFit(t *testing.T) {
	tests := []struct {
		name string
		tag  types.DecisionContext
		ctx  types.DecisionContext
		want float64
	}{
		{"equal", types.DecisionStrategic, types.DecisionStrategic, 1},
		{"untagged", "", types.DecisionStrategic, Neutral},
		{"context unset", types.DecisionTactical, "", Neutral},
		{"neighbours", types.DecisionStrategic, types.DecisionTactical, 0.5},
		{"ladder ends", types.DecisionStrategic, types.DecisionOperational, 0},
		{"diagnostic", types.DecisionDiagnostic, types.DecisionOperational, 0.25},
		{"unknown value", "whimsical", types.DecisionStrategic, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecisionFit(tt.tag, tt.ctx))
		})
	}
}

func TestDataFit(t *testing.T) {
	tests := []struct {
		name      string
		required  types.DataLevel
		available types.DataLevel
		want      float64
	}{
		{"requirement met", types.DataBasic, types.DataRich, 1},
		{"exact", types.DataModerate, types.DataModerate, 1},
		{"one level short", types.DataModerate, types.DataBasic, 0.5},
		{"two levels short", types.DataRich, types.DataBasic, 0},
		{"three levels short", types.DataRich, types.DataNone, 0},
		{"no requirement", "", types.DataNone, 1},
		{"unknown requirement", "vast", types.DataRich, 0},
		{"unknown availability counts as none", types.DataBasic, "lots", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DataFit(tt.required, tt.available))
		})
	}
}

func TestComplexityFit(t *testing.T) {
	assert.Equal(t, 1.0, ComplexityFit(types.ComplexityModerate, types.ComplexityExpert))
	assert.Equal(t, 1.0, ComplexityFit(types.ComplexityAdvanced, types.ComplexityAdvanced))
	assert.InDelta(t, 0.5, ComplexityFit(types.ComplexityModerate, types.ComplexityPlugAndPlay), 1e-9)
	assert.InDelta(t, 0.25, ComplexityFit(types.ComplexityExpert, types.ComplexityPlugAndPlay), 1e-9)
	assert.Equal(t, 1.0, ComplexityFit("", types.ComplexityPlugAndPlay))
	assert.Equal(t, 0.0, ComplexityFit("galaxy_brain", types.ComplexityExpert))
}

func TestOutcomeFit(t *testing.T) {
	outcomes := []types.OutcomeType{types.OutcomeClarity, types.OutcomeGrowth}

	assert.Equal(t, Neutral, OutcomeFit(outcomes, nil))
	assert.Equal(t, 1.0, OutcomeFit(outcomes, []types.OutcomeType{types.OutcomeGrowth}))
	assert.Equal(t, 0.5, OutcomeFit(outcomes, []types.OutcomeType{types.OutcomeGrowth, types.OutcomeCapital}))
	assert.Equal(t, 0.0, OutcomeFit(nil, []types.OutcomeType{types.OutcomeCapital}))
}

func TestIndustryFit(t *testing.T) {
	assert.Equal(t, 1.0, IndustryFit([]string{"saas", "fintech"}, "saas"))
	assert.Equal(t, universalIndustryFit, IndustryFit([]string{types.IndustryUniversal}, "saas"))
	assert.Equal(t, 0.0, IndustryFit([]string{"manufacturing"}, "saas"))
	assert.Equal(t, Neutral, IndustryFit(nil, "saas"))
	assert.Equal(t, Neutral, IndustryFit([]string{"saas"}, ""))
}

func TestEvaluateStaysInRange(t *testing.T) {
	fw := &types.Framework{
		ID: "swot",
		Tags: types.Tags{
			Stages:          []types.Stage{types.StageGrowth},
			Problems:        []types.ProblemArchetype{types.ProblemStrategicDirection},
			DecisionContext: types.DecisionStrategic,
			DataRequirement: types.DataBasic,
			Complexity:      types.ComplexityPlugAndPlay,
			Outcomes:        []types.OutcomeType{types.OutcomeClarity},
			Industries:      []string{types.IndustryUniversal},
		},
	}
	contexts := []types.CompanyContext{
		{Stage: types.StageGrowth, Problems: []types.ProblemArchetype{types.ProblemStrategicDirection}},
		{Stage: "unknown"},
		{Stage: types.StageMaturity, Problems: []types.ProblemArchetype{"nope"}, DataLevel: "bad", CapabilityTier: "bad", Industry: "x"},
	}

	for _, cc := range contexts {
		d := Evaluate(fw, cc)
		for _, v := range []float64{d.Stage, d.Problem, d.Decision, d.Data, d.Complexity, d.Outcome, d.Industry} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

// Package taxonomy provides the per-dimension fit functions between a
// framework's taxonomy tags and a company context. Every function is total
// and deterministic and returns a value in [0,1]: 0 for inapplicable or
// conflicting, 1 for an exact match.
package taxonomy

import "github.com/mesh-intelligence/compass/pkg/types"

// Dimension names, used in explanations and log fields.
const (
	DimensionStage      = "stage"
	DimensionProblem    = "problem"
	DimensionDecision   = "decision_context"
	DimensionData       = "data_requirements"
	DimensionComplexity = "complexity"
	DimensionOutcome    = "outcome"
	DimensionIndustry   = "industry"
)

// Neutral is the credit given when one side of a comparison is untagged.
const Neutral = 0.5

// stageDistanceFit maps ordinal stage distance to fit. Distances past the
// end of the table score 0.
var stageDistanceFit = []float64{1.0, 0.6, 0.25}

// StageFit returns the best fit between any of the framework's stages and
// the context stage. An untagged framework is stage-agnostic.
func StageFit(stages []types.Stage, stage types.Stage) float64 {
	target, ok := stage.Ordinal()
	if !ok {
		return 0
	}
	if len(stages) == 0 {
		return Neutral
	}
	best := 0.0
	for _, s := range stages {
		o, ok := s.Ordinal()
		if !ok {
			continue
		}
		d := abs(o - target)
		if d < len(stageDistanceFit) && stageDistanceFit[d] > best {
			best = stageDistanceFit[d]
		}
	}
	return best
}

// ProblemFit returns 1 when p is one of the framework's problem archetypes.
func ProblemFit(problems []types.ProblemArchetype, p types.ProblemArchetype) float64 {
	for _, q := range problems {
		if q == p {
			return 1
		}
	}
	return 0
}

// DecisionFit compares decision contexts. Strategic, tactical and
// operational form a ladder where neighbours earn half credit; diagnostic
// work is loosely useful for any decision.
func DecisionFit(tag, ctx types.DecisionContext) float64 {
	if tag == "" || ctx == "" {
		return Neutral
	}
	if !tag.Valid() || !ctx.Valid() {
		return 0
	}
	if tag == ctx {
		return 1
	}
	if tag == types.DecisionDiagnostic || ctx == types.DecisionDiagnostic {
		return 0.25
	}
	if abs(decisionRung(tag)-decisionRung(ctx)) == 1 {
		return 0.5
	}
	return 0
}

func decisionRung(d types.DecisionContext) int {
	switch d {
	case types.DecisionStrategic:
		return 0
	case types.DecisionTactical:
		return 1
	default:
		return 2
	}
}

// DataFit returns 1 when the available data meets the requirement and
// loses half a point per level of shortfall, reaching 0 two levels below.
func DataFit(required, available types.DataLevel) float64 {
	req, ok := required.Ordinal()
	if !ok {
		if required == "" {
			return 1
		}
		return 0
	}
	have, ok := available.Ordinal()
	if !ok {
		have = 0
	}
	shortfall := req - have
	switch {
	case shortfall <= 0:
		return 1
	case shortfall >= 2:
		return 0
	default:
		return 1 - 0.5*float64(shortfall)
	}
}

// ComplexityFit returns 1 when the team's capability reaches the
// framework's tier, else 1/(1+shortfall).
func ComplexityFit(tier types.ComplexityTier, capability types.CapabilityTier) float64 {
	need, ok := tier.Ordinal()
	if !ok {
		if tier == "" {
			return 1
		}
		return 0
	}
	have, ok := capability.Ordinal()
	if !ok {
		have = 1
	}
	if have >= need {
		return 1
	}
	return 1 / float64(1+need-have)
}

// OutcomeFit returns the fraction of the context's goals the framework
// produces. A context without goals gets neutral credit.
func OutcomeFit(outcomes, goals []types.OutcomeType) float64 {
	if len(goals) == 0 {
		return Neutral
	}
	covered := 0
	for _, g := range goals {
		for _, o := range outcomes {
			if o == g {
				covered++
				break
			}
		}
	}
	return float64(covered) / float64(len(goals))
}

// universalIndustryFit is the credit a universal framework gets for a
// specific industry.
const universalIndustryFit = 0.8

// IndustryFit compares a framework's industry tags with the context's
// industry key.
func IndustryFit(industries []string, key string) float64 {
	if key == "" || len(industries) == 0 {
		return Neutral
	}
	fit := 0.0
	for _, ind := range industries {
		if ind == key {
			return 1
		}
		if ind == types.IndustryUniversal {
			fit = universalIndustryFit
		}
	}
	return fit
}

// Evaluate computes all seven dimension fits for one framework and context.
func Evaluate(fw *types.Framework, cc types.CompanyContext) types.Dimensions {
	problem := 0.0
	for _, p := range cc.Problems {
		if ProblemFit(fw.Tags.Problems, p) > problem {
			problem = 1
		}
	}
	return types.Dimensions{
		Stage:      StageFit(fw.Tags.Stages, cc.Stage),
		Problem:    problem,
		Decision:   DecisionFit(fw.Tags.DecisionContext, cc.DecisionContext),
		Data:       DataFit(fw.Tags.DataRequirement, cc.DataLevel),
		Complexity: ComplexityFit(fw.Tags.Complexity, cc.CapabilityTier),
		Outcome:    OutcomeFit(fw.Tags.Outcomes, cc.Goals),
		Industry:   IndustryFit(fw.Tags.Industries, cc.Industry),
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

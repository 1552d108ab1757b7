package types

// Stage is the temporal stage of a company. Stages are ordered; adjacent
// stages earn partial credit when matching a framework's stage tags.
type Stage string

// Stage values in ordinal order.
const (
	StageIdeation      Stage = "ideation"
	StageValidation    Stage = "validation"
	StageEarlyTraction Stage = "early_traction"
	StageGrowth        Stage = "growth"
	StageScale         Stage = "scale"
	StageMaturity      Stage = "maturity"
)

var stageOrdinals = map[Stage]int{
	StageIdeation:      0,
	StageValidation:    1,
	StageEarlyTraction: 2,
	StageGrowth:        3,
	StageScale:         4,
	StageMaturity:      5,
}

// Ordinal returns the position of s in the stage ordering and false if s is
// not a recognized stage.
func (s Stage) Ordinal() (int, bool) {
	o, ok := stageOrdinals[s]
	return o, ok
}

// Valid reports whether s is a recognized stage.
func (s Stage) Valid() bool {
	_, ok := stageOrdinals[s]
	return ok
}

// ProblemArchetype classifies the kind of problem a company is facing.
type ProblemArchetype string

// Problem archetypes.
const (
	ProblemProductMarketFit        ProblemArchetype = "product_market_fit"
	ProblemGrowthStall             ProblemArchetype = "growth_stall"
	ProblemCashCrisis              ProblemArchetype = "cash_crisis"
	ProblemCompetitiveThreat       ProblemArchetype = "competitive_threat"
	ProblemOperationalInefficiency ProblemArchetype = "operational_inefficiency"
	ProblemMarketEntry             ProblemArchetype = "market_entry"
	ProblemPortfolioAllocation     ProblemArchetype = "portfolio_allocation"
	ProblemTeamScaling             ProblemArchetype = "team_scaling"
	ProblemPricing                 ProblemArchetype = "pricing"
	ProblemFundraising             ProblemArchetype = "fundraising"
	ProblemStrategicDirection      ProblemArchetype = "strategic_direction"
	ProblemCustomerRetention       ProblemArchetype = "customer_retention"
)

var validProblems = map[ProblemArchetype]bool{
	ProblemProductMarketFit:        true,
	ProblemGrowthStall:             true,
	ProblemCashCrisis:              true,
	ProblemCompetitiveThreat:       true,
	ProblemOperationalInefficiency: true,
	ProblemMarketEntry:             true,
	ProblemPortfolioAllocation:     true,
	ProblemTeamScaling:             true,
	ProblemPricing:                 true,
	ProblemFundraising:             true,
	ProblemStrategicDirection:      true,
	ProblemCustomerRetention:       true,
}

// Valid reports whether p is a recognized problem archetype.
func (p ProblemArchetype) Valid() bool {
	return validProblems[p]
}

// DecisionContext describes the altitude of the decision a framework supports.
type DecisionContext string

// Decision contexts.
const (
	DecisionStrategic   DecisionContext = "strategic"
	DecisionTactical    DecisionContext = "tactical"
	DecisionOperational DecisionContext = "operational"
	DecisionDiagnostic  DecisionContext = "diagnostic"
)

// Valid reports whether d is a recognized decision context.
func (d DecisionContext) Valid() bool {
	switch d {
	case DecisionStrategic, DecisionTactical, DecisionOperational, DecisionDiagnostic:
		return true
	}
	return false
}

// DataLevel is the amount of data a framework needs or a company has.
type DataLevel string

// Data levels in ordinal order.
const (
	DataNone     DataLevel = "none"
	DataBasic    DataLevel = "basic"
	DataModerate DataLevel = "moderate"
	DataRich     DataLevel = "rich"
)

var dataOrdinals = map[DataLevel]int{
	DataNone:     0,
	DataBasic:    1,
	DataModerate: 2,
	DataRich:     3,
}

// Ordinal returns the position of d in the data-level ordering.
func (d DataLevel) Ordinal() (int, bool) {
	o, ok := dataOrdinals[d]
	return o, ok
}

// ComplexityTier is how demanding a framework is to apply. The same scale
// describes a team's capability (see CapabilityTier).
type ComplexityTier string

// Complexity tiers in ordinal order.
const (
	ComplexityPlugAndPlay ComplexityTier = "plug_and_play"
	ComplexityModerate    ComplexityTier = "moderate"
	ComplexityAdvanced    ComplexityTier = "advanced"
	ComplexityExpert      ComplexityTier = "expert"
)

var complexityOrdinals = map[ComplexityTier]int{
	ComplexityPlugAndPlay: 1,
	ComplexityModerate:    2,
	ComplexityAdvanced:    3,
	ComplexityExpert:      4,
}

// Ordinal returns the position of c in the complexity ordering.
func (c ComplexityTier) Ordinal() (int, bool) {
	o, ok := complexityOrdinals[c]
	return o, ok
}

// CapabilityTier is a team's capability on the complexity scale.
type CapabilityTier = ComplexityTier

// OutcomeType is the kind of result a framework produces.
type OutcomeType string

// Outcome types.
const (
	OutcomeClarity       OutcomeType = "clarity"
	OutcomeGrowth        OutcomeType = "growth"
	OutcomeEfficiency    OutcomeType = "efficiency"
	OutcomeRiskReduction OutcomeType = "risk_reduction"
	OutcomeAlignment     OutcomeType = "alignment"
	OutcomeCapital       OutcomeType = "capital"
)

// IndustryUniversal tags frameworks that apply across every industry.
const IndustryUniversal = "universal"

// Category groups frameworks for diversity constraints.
type Category string

// Framework categories.
const (
	CategoryStrategicPlanning Category = "strategic_planning"
	CategoryMarketAnalysis    Category = "market_analysis"
	CategoryFinancial         Category = "financial"
	CategoryGrowth            Category = "growth"
	CategoryProduct           Category = "product"
	CategoryOperational       Category = "operational"
	CategoryOrganizational    Category = "organizational"
	CategoryInnovation        Category = "innovation"
)

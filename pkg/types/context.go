package types

import "fmt"

// Context defaults.
const (
	DefaultTeamSize         = 1
	DefaultGoalTimelineDays = 90

	// CrisisRunwayMonths is the runway at or below which a company is in
	// crisis mode even without the explicit flag.
	CrisisRunwayMonths = 6.0
)

// CompanyContext describes the situation of one company for one
// recommendation or journey computation. It is a value; the engine never
// modifies it.
type CompanyContext struct {
	Stage    Stage              `json:"stage" yaml:"stage"`
	Problems []ProblemArchetype `json:"problems" yaml:"problems"`

	// ProblemWeights is the optional relevance strength per archetype.
	// Archetypes without an entry weigh 1.
	ProblemWeights map[ProblemArchetype]float64 `json:"problem_weights,omitempty" yaml:"problem_weights,omitempty"`

	DataLevel      DataLevel      `json:"data_level,omitempty" yaml:"data_level,omitempty"`
	TeamSize       int            `json:"team_size,omitempty" yaml:"team_size,omitempty"`
	CapabilityTier CapabilityTier `json:"capability_tier,omitempty" yaml:"capability_tier,omitempty"`
	Industry       string         `json:"industry,omitempty" yaml:"industry,omitempty"`

	CrisisMode   bool     `json:"crisis_mode,omitempty" yaml:"crisis_mode,omitempty"`
	RunwayMonths *float64 `json:"runway_months,omitempty" yaml:"runway_months,omitempty"`

	Goals            []OutcomeType   `json:"goals,omitempty" yaml:"goals,omitempty"`
	GoalTimelineDays int             `json:"goal_timeline_days,omitempty" yaml:"goal_timeline_days,omitempty"`
	DecisionContext  DecisionContext `json:"decision_context,omitempty" yaml:"decision_context,omitempty"`
	Fundraising      bool            `json:"fundraising,omitempty" yaml:"fundraising,omitempty"`
}

// Validate checks the context invariants. It returns a
// *ContextValidationError listing every problem found, or nil.
func (c CompanyContext) Validate() error {
	var problems []string

	switch {
	case c.Stage == "":
		problems = append(problems, "stage is required")
	case !c.Stage.Valid():
		problems = append(problems, fmt.Sprintf("unknown stage %q", c.Stage))
	}

	if len(c.Problems) == 0 {
		problems = append(problems, "at least one problem archetype is required")
	}
	for _, p := range c.Problems {
		if !p.Valid() {
			problems = append(problems, fmt.Sprintf("unknown problem archetype %q", p))
		}
	}
	for p, w := range c.ProblemWeights {
		if w < 0 {
			problems = append(problems, fmt.Sprintf("problem weight for %q must not be negative", p))
		}
	}

	if c.DataLevel != "" {
		if _, ok := c.DataLevel.Ordinal(); !ok {
			problems = append(problems, fmt.Sprintf("unknown data level %q", c.DataLevel))
		}
	}
	if c.CapabilityTier != "" {
		if _, ok := c.CapabilityTier.Ordinal(); !ok {
			problems = append(problems, fmt.Sprintf("unknown capability tier %q", c.CapabilityTier))
		}
	}
	if c.TeamSize < 0 {
		problems = append(problems, "team size must not be negative")
	}
	if c.GoalTimelineDays < 0 {
		problems = append(problems, "goal timeline must not be negative")
	}
	if c.RunwayMonths != nil && *c.RunwayMonths < 0 {
		problems = append(problems, "runway months must not be negative")
	}

	if len(problems) > 0 {
		return &ContextValidationError{Problems: problems}
	}
	return nil
}

// WithDefaults returns a copy of c with defaults applied to unset optional
// fields. The receiver is not modified.
func (c CompanyContext) WithDefaults() CompanyContext {
	out := c
	if out.DataLevel == "" {
		out.DataLevel = DataNone
	}
	if out.TeamSize == 0 {
		out.TeamSize = DefaultTeamSize
	}
	if out.CapabilityTier == "" {
		out.CapabilityTier = ComplexityPlugAndPlay
	}
	if out.GoalTimelineDays == 0 {
		out.GoalTimelineDays = DefaultGoalTimelineDays
	}
	return out
}

// InCrisis reports whether crisis mode applies: the explicit flag, or a
// known runway at or below CrisisRunwayMonths.
func (c CompanyContext) InCrisis() bool {
	if c.CrisisMode {
		return true
	}
	return c.RunwayMonths != nil && *c.RunwayMonths <= CrisisRunwayMonths
}

// ProblemWeight returns the relevance strength of p, defaulting to 1.
func (c CompanyContext) ProblemWeight(p ProblemArchetype) float64 {
	if w, ok := c.ProblemWeights[p]; ok {
		return w
	}
	return 1
}

// HasProblem reports whether p is one of the active problem archetypes.
func (c CompanyContext) HasProblem(p ProblemArchetype) bool {
	for _, q := range c.Problems {
		if q == p {
			return true
		}
	}
	return false
}

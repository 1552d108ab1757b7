package types

// Warning kinds. Warnings record non-fatal anomalies; the computation always
// completes with a safe default.
const (
	WarnMalformedPredicate = "malformed_predicate"
	WarnMissingVariant     = "missing_variant"
	WarnPrerequisiteCycle  = "prerequisite_cycle"
	WarnPhaseCapacity      = "phase_capacity"
	WarnEmptyFallback      = "empty_fallback"
	WarnMinScoreRelaxed    = "min_score_relaxed"
)

// Warning is a non-fatal anomaly attached to a result.
type Warning struct {
	Kind        string `json:"kind" yaml:"kind"`
	FrameworkID string `json:"framework_id,omitempty" yaml:"framework_id,omitempty"`
	Message     string `json:"message" yaml:"message"`
}

// SubScores holds the six weighted scoring factors, each in [0,1].
type SubScores struct {
	Stage      float64 `json:"stage_fit"`
	Problem    float64 `json:"problem_fit"`
	Data       float64 `json:"data_fit"`
	Complexity float64 `json:"complexity_fit"`
	Team       float64 `json:"team_fit"`
	Timing     float64 `json:"timing_fit"`
}

// Dimensions holds the raw taxonomy fit per dimension. They explain a score
// but only some of them feed the weighted sum.
type Dimensions struct {
	Stage      float64 `json:"stage"`
	Problem    float64 `json:"problem"`
	Decision   float64 `json:"decision_context"`
	Data       float64 `json:"data_requirements"`
	Complexity float64 `json:"complexity"`
	Outcome    float64 `json:"outcome"`
	Industry   float64 `json:"industry"`
}

// ScoredFramework is the transient scoring result for one framework.
type ScoredFramework struct {
	Framework     *Framework `json:"-"`
	FrameworkID   string     `json:"framework_id"`
	SubScores     SubScores  `json:"sub_scores"`
	Contributions SubScores  `json:"contributions"` // weight * sub-score; sums to Score
	Score         float64    `json:"score"`
	Dimensions    Dimensions `json:"dimensions"`

	Excluded        bool   `json:"excluded,omitempty"`
	ExclusionReason string `json:"exclusion_reason,omitempty"`
}

// Exclusion records why a framework was removed by the anti-pattern filter.
type Exclusion struct {
	FrameworkID string `json:"framework_id"`
	Reason      string `json:"reason"`
}

// FrameworkView is one entry of a recommendation: scoring explanation plus
// the framework's presentation fields after the industry overlay.
type FrameworkView struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Category      Category           `json:"category"`
	Description   string             `json:"description,omitempty"`
	Score         float64            `json:"score"`
	SubScores     SubScores          `json:"sub_scores"`
	Contributions SubScores          `json:"contributions"`
	Dimensions    Dimensions         `json:"dimensions"`
	Variant       string             `json:"variant,omitempty"`
	Metrics       []Metric           `json:"metrics,omitempty"`
	Axes          []Axis             `json:"axes,omitempty"`
	Benchmarks    map[string]float64 `json:"benchmarks,omitempty"`
}

// Recommendation is the result of a recommend call.
type Recommendation struct {
	Frameworks []FrameworkView `json:"frameworks"`
	Relaxed    bool            `json:"relaxed,omitempty"`
	Fallback   bool            `json:"fallback,omitempty"`
	Excluded   []Exclusion     `json:"excluded,omitempty"`
	Warnings   []Warning       `json:"warnings,omitempty"`
}

// Journey phase names.
const (
	PhaseImmediate = "immediate"
	PhaseShortTerm = "short_term"
	PhaseMidTerm   = "mid_term"
	PhaseLongTerm  = "long_term"
)

// Journey is a phased, dependency-respecting adoption roadmap.
type Journey struct {
	HorizonMonths int       `json:"horizon_months"`
	Phases        []Phase   `json:"phases"`
	CriticalPath  []string  `json:"critical_path"`
	Unscheduled   []string  `json:"unscheduled,omitempty"`
	Warnings      []Warning `json:"warnings,omitempty"`
}

// Phase is one time window of a journey.
type Phase struct {
	Name       string        `json:"name"`
	StartMonth int           `json:"start_month"`
	EndMonth   int           `json:"end_month"`
	Frameworks []JourneyItem `json:"frameworks"`
}

// JourneyItem is a framework assigned to a phase.
type JourneyItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// PhaseOf returns the index of the phase containing the framework ID, or -1.
func (j *Journey) PhaseOf(id string) int {
	for i, p := range j.Phases {
		for _, item := range p.Frameworks {
			if item.ID == id {
				return i
			}
		}
	}
	return -1
}

package types

// Relationship kinds between frameworks.
const (
	RelationPrerequisite         = "prerequisite"          // target must be adopted before this framework
	RelationComplementary        = "complementary"         // target works well alongside
	RelationAlternative          = "alternative"           // target solves the same problem differently
	RelationProgressiveSuccessor = "progressive_successor" // target naturally follows this framework
)

var validRelationKinds = map[string]bool{
	RelationPrerequisite:         true,
	RelationComplementary:        true,
	RelationAlternative:          true,
	RelationProgressiveSuccessor: true,
}

// ValidRelationKind reports whether kind is a recognized relationship kind.
func ValidRelationKind(kind string) bool {
	return validRelationKinds[kind]
}

// Framework is a catalog entry. Frameworks are read-only once the catalog is
// loaded; relationships refer to other frameworks by ID only.
type Framework struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Category    Category `json:"category" yaml:"category"`
	Subcategory string   `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        Tags     `json:"tags" yaml:"tags"`

	// Effectiveness is the historical effectiveness score in [0,1].
	Effectiveness float64 `json:"effectiveness" yaml:"effectiveness"`

	// TimeToValueDays is how long adoption takes before it pays off.
	TimeToValueDays int `json:"time_to_value_days" yaml:"time_to_value_days"`
	MinTeamSize     int `json:"min_team_size" yaml:"min_team_size"`

	Relationships    []RelationshipEdge         `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	AntiPatterns     []AntiPattern              `json:"anti_patterns,omitempty" yaml:"anti_patterns,omitempty"`
	IndustryVariants map[string]IndustryVariant `json:"industry_variants,omitempty" yaml:"industry_variants,omitempty"`

	// Presentation fields. Industry variants may override these.
	Metrics    []Metric           `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Axes       []Axis             `json:"axes,omitempty" yaml:"axes,omitempty"`
	Benchmarks map[string]float64 `json:"benchmarks,omitempty" yaml:"benchmarks,omitempty"`
}

// Tags holds a framework's taxonomy tags, one entry per dimension.
type Tags struct {
	Stages          []Stage            `json:"stages,omitempty" yaml:"stages,omitempty"`
	Problems        []ProblemArchetype `json:"problems,omitempty" yaml:"problems,omitempty"`
	DecisionContext DecisionContext    `json:"decision_context,omitempty" yaml:"decision_context,omitempty"`
	DataRequirement DataLevel          `json:"data_requirement,omitempty" yaml:"data_requirement,omitempty"`
	Complexity      ComplexityTier     `json:"complexity,omitempty" yaml:"complexity,omitempty"`
	Outcomes        []OutcomeType      `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`
	Industries      []string           `json:"industries,omitempty" yaml:"industries,omitempty"`
}

// RelationshipEdge points from a framework to another framework by ID.
type RelationshipEdge struct {
	Target string `json:"target" yaml:"target"`
	Kind   string `json:"kind" yaml:"kind"`
}

// AntiPattern is a condition under which a framework must never be
// recommended. It is written either as a compact expression in When
// ("team_size < 20", "stage not_in {ideation, validation}") or with the
// structured Field/Op/Value(s) fields.
type AntiPattern struct {
	When   string   `json:"when,omitempty" yaml:"when,omitempty"`
	Field  string   `json:"field,omitempty" yaml:"field,omitempty"`
	Op     string   `json:"op,omitempty" yaml:"op,omitempty"`
	Value  string   `json:"value,omitempty" yaml:"value,omitempty"`
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`
	Reason string   `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// IndustryVariant overrides a framework's presentation fields for one
// industry. Empty fields fall through to the generic definition.
type IndustryVariant struct {
	Name        string             `json:"name,omitempty" yaml:"name,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Metrics     []Metric           `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Axes        []Axis             `json:"axes,omitempty" yaml:"axes,omitempty"`
	Benchmarks  map[string]float64 `json:"benchmarks,omitempty" yaml:"benchmarks,omitempty"`
}

// Metric is a named measure a framework tracks.
type Metric struct {
	Key       string  `json:"key" yaml:"key"`
	Name      string  `json:"name" yaml:"name"`
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Unit      string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Axis is one axis of a framework's chart or matrix.
type Axis struct {
	Key        string `json:"key" yaml:"key"`
	Label      string `json:"label" yaml:"label"`
	Definition string `json:"definition,omitempty" yaml:"definition,omitempty"`
}

// Prerequisites returns the IDs this framework declares as prerequisites,
// in declaration order.
func (f *Framework) Prerequisites() []string {
	var ids []string
	for _, e := range f.Relationships {
		if e.Kind == RelationPrerequisite {
			ids = append(ids, e.Target)
		}
	}
	return ids
}

// HasIndustry reports whether the framework is tagged with the industry key.
func (f *Framework) HasIndustry(key string) bool {
	for _, ind := range f.Tags.Industries {
		if ind == key {
			return true
		}
	}
	return false
}

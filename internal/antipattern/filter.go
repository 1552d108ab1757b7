package antipattern

import (
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/compass/pkg/types"
)

// Result is the outcome of filtering one framework.
type Result struct {
	Excluded bool
	Reason   string
	Warnings []types.Warning
}

// Evaluate reports whether any of the framework's anti-patterns matches the
// context. Predicates are ORed; the first match supplies the reason. A
// malformed predicate does not exclude and yields a warning.
func Evaluate(fw *types.Framework, cc types.CompanyContext) Result {
	var res Result
	for i, ap := range fw.AntiPatterns {
		p, err := Compile(ap)
		if err != nil {
			res.Warnings = append(res.Warnings, malformedWarning(fw.ID, i, err))
			continue
		}
		if !res.Excluded && p.Matches(cc) {
			res.Excluded = true
			res.Reason = p.Reason
		}
	}
	return res
}

// Lint compiles every anti-pattern in the catalog and returns a warning per
// malformed predicate.
func Lint(frameworks []*types.Framework) []types.Warning {
	var warnings []types.Warning
	for _, fw := range frameworks {
		for i, ap := range fw.AntiPatterns {
			if _, err := Compile(ap); err != nil {
				warnings = append(warnings, malformedWarning(fw.ID, i, err))
			}
		}
	}
	return warnings
}

func malformedWarning(id string, index int, err error) types.Warning {
	return types.Warning{
		Kind:        types.WarnMalformedPredicate,
		FrameworkID: id,
		Message:     fmt.Sprintf("anti_patterns[%d]: %v", index, err),
	}
}

// Matches evaluates the predicate against a context. Optional context values
// that are absent never match.
func (p *Predicate) Matches(cc types.CompanyContext) bool {
	switch p.kind {
	case kindNumber:
		v, ok := numberField(p.Field, cc)
		if !ok {
			return false
		}
		return compareNumber(p.Op, v, p.numbers)
	case kindOrdinal:
		v, ok := ordinalField(p.Field, cc)
		if !ok {
			return false
		}
		ords := make([]float64, len(p.ords))
		for i, o := range p.ords {
			ords[i] = float64(o)
		}
		return compareNumber(p.Op, float64(v), ords)
	case kindString:
		if cc.Industry == "" {
			return false
		}
		return compareString(p.Op, cc.Industry, p.Values)
	case kindBool:
		want, _ := strconv.ParseBool(p.Values[0])
		got := cc.Fundraising
		if p.Field == FieldCrisisMode {
			got = cc.InCrisis()
		}
		if p.Op == OpEq {
			return got == want
		}
		return got != want
	case kindSet:
		has := setContains(p.Field, cc, p.Values[0])
		if p.Op == OpContains {
			return has
		}
		return !has
	}
	return false
}

func numberField(field string, cc types.CompanyContext) (float64, bool) {
	switch field {
	case FieldTeamSize:
		return float64(cc.TeamSize), true
	case FieldGoalTimeline:
		return float64(cc.GoalTimelineDays), true
	case FieldRunwayMonths:
		if cc.RunwayMonths == nil {
			return 0, false
		}
		return *cc.RunwayMonths, true
	}
	return 0, false
}

func ordinalField(field string, cc types.CompanyContext) (int, bool) {
	switch field {
	case FieldStage:
		return cc.Stage.Ordinal()
	case FieldDataLevel:
		return cc.DataLevel.Ordinal()
	case FieldCapabilityTier:
		return cc.CapabilityTier.Ordinal()
	}
	return 0, false
}

func compareNumber(op string, v float64, values []float64) bool {
	switch op {
	case OpEq:
		return v == values[0]
	case OpNeq:
		return v != values[0]
	case OpLt:
		return v < values[0]
	case OpLte:
		return v <= values[0]
	case OpGt:
		return v > values[0]
	case OpGte:
		return v >= values[0]
	case OpIn, OpNotIn:
		found := false
		for _, x := range values {
			if x == v {
				found = true
				break
			}
		}
		return found == (op == OpIn)
	}
	return false
}

func compareString(op, v string, values []string) bool {
	switch op {
	case OpEq:
		return v == values[0]
	case OpNeq:
		return v != values[0]
	case OpIn, OpNotIn:
		found := false
		for _, x := range values {
			if x == v {
				found = true
				break
			}
		}
		return found == (op == OpIn)
	}
	return false
}

func setContains(field string, cc types.CompanyContext, v string) bool {
	if field == FieldProblems {
		return cc.HasProblem(types.ProblemArchetype(v))
	}
	for _, g := range cc.Goals {
		if string(g) == v {
			return true
		}
	}
	return false
}

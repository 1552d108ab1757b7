// Package antipattern evaluates a framework's anti-pattern predicates
// against a company context. A framework is excluded when any predicate
// matches. Malformed predicates never match; they are reported as warnings
// so catalog tooling can surface them.
package antipattern

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/compass/pkg/types"
)

// ErrMalformedPredicate is wrapped by every predicate compile error.
var ErrMalformedPredicate = errors.New("malformed anti-pattern predicate")

// Operators.
const (
	OpEq          = "=="
	OpNeq         = "!="
	OpLt          = "<"
	OpLte         = "<="
	OpGt          = ">"
	OpGte         = ">="
	OpIn          = "in"
	OpNotIn       = "not_in"
	OpContains    = "contains"
	OpNotContains = "not_contains"
)

// Context fields a predicate may reference.
const (
	FieldTeamSize       = "team_size"
	FieldStage          = "stage"
	FieldDataLevel      = "data_level"
	FieldCapabilityTier = "capability_tier"
	FieldIndustry       = "industry"
	FieldRunwayMonths   = "runway_months"
	FieldCrisisMode     = "crisis_mode"
	FieldFundraising    = "fundraising"
	FieldProblems       = "problems"
	FieldGoals          = "goals"
	FieldGoalTimeline   = "goal_timeline_days"
)

type fieldKind int

const (
	kindNumber fieldKind = iota
	kindOrdinal
	kindString
	kindBool
	kindSet
)

var fieldKinds = map[string]fieldKind{
	FieldTeamSize:       kindNumber,
	FieldRunwayMonths:   kindNumber,
	FieldGoalTimeline:   kindNumber,
	FieldStage:          kindOrdinal,
	FieldDataLevel:      kindOrdinal,
	FieldCapabilityTier: kindOrdinal,
	FieldIndustry:       kindString,
	FieldCrisisMode:     kindBool,
	FieldFundraising:    kindBool,
	FieldProblems:       kindSet,
	FieldGoals:          kindSet,
}

var allowedOps = map[fieldKind]map[string]bool{
	kindNumber:  {OpEq: true, OpNeq: true, OpLt: true, OpLte: true, OpGt: true, OpGte: true, OpIn: true, OpNotIn: true},
	kindOrdinal: {OpEq: true, OpNeq: true, OpLt: true, OpLte: true, OpGt: true, OpGte: true, OpIn: true, OpNotIn: true},
	kindString:  {OpEq: true, OpNeq: true, OpIn: true, OpNotIn: true},
	kindBool:    {OpEq: true, OpNeq: true},
	kindSet:     {OpContains: true, OpNotContains: true},
}

// symbolic operators, longest first so "<=" wins over "<".
var symbolOps = []struct {
	token string
	op    string
}{
	{"<=", OpLte},
	{">=", OpGte},
	{"==", OpEq},
	{"!=", OpNeq},
	{"≤", OpLte},
	{"≥", OpGte},
	{"≠", OpNeq},
	{"∉", OpNotIn},
	{"∈", OpIn},
	{"<", OpLt},
	{">", OpGt},
	{"=", OpEq},
}

// word operators must be followed by whitespace or a set literal.
var wordOps = []string{OpNotContains, OpNotIn, OpContains, OpIn}

// Predicate is a compiled anti-pattern.
type Predicate struct {
	Field  string
	Op     string
	Values []string
	Reason string

	kind    fieldKind
	numbers []float64
	ords    []int
}

// Compile validates an AntiPattern and returns its compiled form. Errors
// wrap ErrMalformedPredicate.
func Compile(ap types.AntiPattern) (*Predicate, error) {
	p := &Predicate{Reason: ap.Reason}

	if strings.TrimSpace(ap.When) != "" {
		field, op, values, err := parseExpr(ap.When)
		if err != nil {
			return nil, err
		}
		p.Field, p.Op, p.Values = field, op, values
	} else {
		p.Field = strings.TrimSpace(ap.Field)
		p.Op = normalizeOp(strings.TrimSpace(ap.Op))
		if len(ap.Values) > 0 {
			p.Values = trimAll(ap.Values)
		} else if ap.Value != "" {
			p.Values = []string{strings.TrimSpace(ap.Value)}
		}
	}

	kind, ok := fieldKinds[p.Field]
	if !ok {
		return nil, fmt.Errorf("%w: unknown field %q", ErrMalformedPredicate, p.Field)
	}
	p.kind = kind
	if !allowedOps[kind][p.Op] {
		return nil, fmt.Errorf("%w: operator %q not supported for field %q", ErrMalformedPredicate, p.Op, p.Field)
	}
	if len(p.Values) == 0 {
		return nil, fmt.Errorf("%w: no value for field %q", ErrMalformedPredicate, p.Field)
	}
	if len(p.Values) > 1 && p.Op != OpIn && p.Op != OpNotIn {
		return nil, fmt.Errorf("%w: operator %q takes a single value", ErrMalformedPredicate, p.Op)
	}

	if err := p.resolveValues(); err != nil {
		return nil, err
	}
	if p.Reason == "" {
		p.Reason = p.String()
	}
	return p, nil
}

// resolveValues converts literal values to the field's comparison domain.
func (p *Predicate) resolveValues() error {
	switch p.kind {
	case kindNumber:
		for _, v := range p.Values {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%w: %q is not a number", ErrMalformedPredicate, v)
			}
			p.numbers = append(p.numbers, n)
		}
	case kindOrdinal:
		for _, v := range p.Values {
			o, ok := ordinalOf(p.Field, v)
			if !ok {
				return fmt.Errorf("%w: unknown %s %q", ErrMalformedPredicate, p.Field, v)
			}
			p.ords = append(p.ords, o)
		}
	case kindBool:
		if _, err := strconv.ParseBool(p.Values[0]); err != nil {
			return fmt.Errorf("%w: %q is not a boolean", ErrMalformedPredicate, p.Values[0])
		}
	}
	return nil
}

// String renders the predicate as an expression.
func (p *Predicate) String() string {
	if p.Op == OpIn || p.Op == OpNotIn {
		return fmt.Sprintf("%s %s {%s}", p.Field, p.Op, strings.Join(p.Values, ", "))
	}
	return fmt.Sprintf("%s %s %s", p.Field, p.Op, strings.Join(p.Values, ", "))
}

// parseExpr splits "field op value" or "field op {a, b}".
func parseExpr(expr string) (string, string, []string, error) {
	s := strings.TrimSpace(expr)

	end := 0
	for end < len(s) && isIdentByte(s[end]) {
		end++
	}
	if end == 0 {
		return "", "", nil, fmt.Errorf("%w: %q has no field", ErrMalformedPredicate, expr)
	}
	field := s[:end]
	rest := strings.TrimSpace(s[end:])

	op := ""
	for _, so := range symbolOps {
		if strings.HasPrefix(rest, so.token) {
			op = so.op
			rest = rest[len(so.token):]
			break
		}
	}
	if op == "" {
		for _, w := range wordOps {
			if strings.HasPrefix(rest, w) {
				tail := rest[len(w):]
				if tail == "" || tail[0] == ' ' || tail[0] == '\t' || tail[0] == '{' {
					op = w
					rest = tail
					break
				}
			}
		}
	}
	if op == "" {
		return "", "", nil, fmt.Errorf("%w: %q has no operator", ErrMalformedPredicate, expr)
	}

	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "{") {
		if !strings.HasSuffix(rest, "}") {
			return "", "", nil, fmt.Errorf("%w: %q has an unterminated set", ErrMalformedPredicate, expr)
		}
		inner := strings.TrimSpace(rest[1 : len(rest)-1])
		if inner == "" {
			return field, op, nil, nil
		}
		return field, op, trimAll(strings.Split(inner, ",")), nil
	}
	if rest == "" {
		return field, op, nil, nil
	}
	return field, op, []string{strings.Trim(rest, `"'`)}, nil
}

func normalizeOp(op string) string {
	for _, so := range symbolOps {
		if op == so.token {
			return so.op
		}
	}
	return op
}

func ordinalOf(field, v string) (int, bool) {
	switch field {
	case FieldStage:
		return types.Stage(v).Ordinal()
	case FieldDataLevel:
		return types.DataLevel(v).Ordinal()
	default:
		return types.ComplexityTier(v).Ordinal()
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.Trim(strings.TrimSpace(v), `"'`)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Package selector ranks scored frameworks and picks the top K under a
// per-category diversity cap.
package selector

import (
	"sort"

	"github.com/mesh-intelligence/compass/pkg/types"
)

// DefaultMaxFrameworks is the list size when the caller does not ask for one.
const DefaultMaxFrameworks = 5

// Selection is the result of Select.
type Selection struct {
	Frameworks []types.ScoredFramework
	// Relaxed is true when the diversity cap had to be raised to fill the
	// list.
	Relaxed bool
}

// CategoryCap returns the number of frameworks a single category may
// contribute to a list of the given size before relaxation: ceil(size/3).
func CategoryCap(size int) int {
	return (size + 2) / 3
}

// Rank sorts scored frameworks by score, then effectiveness, then ID. The
// input slice is not modified.
func Rank(scored []types.ScoredFramework) []types.ScoredFramework {
	out := make([]types.ScoredFramework, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

func less(a, b types.ScoredFramework) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	ea, eb := effectiveness(a), effectiveness(b)
	if ea != eb {
		return ea > eb
	}
	return a.FrameworkID < b.FrameworkID
}

func effectiveness(s types.ScoredFramework) float64 {
	if s.Framework == nil {
		return 0
	}
	return s.Framework.Effectiveness
}

func category(s types.ScoredFramework) types.Category {
	if s.Framework == nil {
		return ""
	}
	return s.Framework.Category
}

// Select ranks the candidates and walks them greedily, skipping a framework
// whose category already holds the cap. When a pass leaves the list short
// while candidates remain, the cap is raised by one and the walk repeats.
// The returned list is in rank order.
func Select(scored []types.ScoredFramework, size int) Selection {
	if size <= 0 {
		size = DefaultMaxFrameworks
	}
	ranked := Rank(scored)

	limit := CategoryCap(size)
	used := make([]bool, len(ranked))
	counts := make(map[types.Category]int)
	accepted := 0
	relaxed := false

	for pass := 0; ; pass++ {
		before := accepted
		for i, s := range ranked {
			if accepted == size {
				break
			}
			if used[i] || counts[category(s)] >= limit {
				continue
			}
			used[i] = true
			counts[category(s)]++
			accepted++
		}
		if pass > 0 && accepted > before {
			relaxed = true
		}
		if accepted == size || accepted == len(ranked) {
			break
		}
		limit++
	}

	out := make([]types.ScoredFramework, 0, accepted)
	for i, s := range ranked {
		if used[i] {
			out = append(out, s)
		}
	}
	return Selection{Frameworks: out, Relaxed: relaxed}
}

// IsUniversal reports whether a framework belongs to the fallback set:
// tagged for every industry and usable without preparation.
func IsUniversal(fw *types.Framework) bool {
	return fw.HasIndustry(types.IndustryUniversal) && fw.Tags.Complexity == types.ComplexityPlugAndPlay
}

// Fallback returns up to size universal frameworks from candidates, ordered
// by effectiveness and then ID.
func Fallback(candidates []*types.Framework, size int) []*types.Framework {
	if size <= 0 {
		size = DefaultMaxFrameworks
	}
	var out []*types.Framework
	for _, fw := range candidates {
		if IsUniversal(fw) {
			out = append(out, fw)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Effectiveness != out[j].Effectiveness {
			return out[i].Effectiveness > out[j].Effectiveness
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > size {
		out = out[:size]
	}
	return out
}

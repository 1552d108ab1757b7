// Package journey turns a pool of scored frameworks into a phased adoption
// roadmap that respects prerequisite relationships.
package journey

import (
	"fmt"
	"sort"

	"github.com/mesh-intelligence/compass/pkg/types"
)

// Planner defaults.
const (
	DefaultHorizonMonths = 12
	DefaultPhaseCapacity = 3
	DefaultPoolSize      = 15
)

// window is a phase's time range in months.
type window struct {
	name  string
	start int
	end   int
}

var baseWindows = []window{
	{types.PhaseImmediate, 0, 1},
	{types.PhaseShortTerm, 1, 3},
	{types.PhaseMidTerm, 3, 6},
	{types.PhaseLongTerm, 6, 0}, // open-ended; ends at the horizon
}

// Windows returns the phases that fit in the horizon. Phases starting at or
// after the horizon are dropped and the last phase ends at the horizon.
func Windows(horizonMonths int) []types.Phase {
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}
	var phases []types.Phase
	for _, w := range baseWindows {
		if w.start >= horizonMonths {
			break
		}
		end := w.end
		if end == 0 || end > horizonMonths {
			end = horizonMonths
		}
		phases = append(phases, types.Phase{Name: w.name, StartMonth: w.start, EndMonth: end, Frameworks: []types.JourneyItem{}})
	}
	phases[len(phases)-1].EndMonth = horizonMonths
	return phases
}

// Planner assigns frameworks to phases.
type Planner struct {
	// Capacity is the maximum number of frameworks per phase.
	Capacity int
}

// New returns a Planner with the given phase capacity; capacity <= 0 uses
// DefaultPhaseCapacity.
func New(capacity int) *Planner {
	if capacity <= 0 {
		capacity = DefaultPhaseCapacity
	}
	return &Planner{Capacity: capacity}
}

// Plan builds a journey from the pool. The pool must already be filtered by
// anti-patterns; its order does not matter. Plan always returns a valid
// journey: prerequisite cycles are broken and frameworks that do not fit
// are listed as unscheduled, both with warnings.
func (p *Planner) Plan(pool []types.ScoredFramework, horizonMonths int) *types.Journey {
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}
	capacity := p.Capacity
	if capacity <= 0 {
		capacity = DefaultPhaseCapacity
	}

	byID := make(map[string]types.ScoredFramework, len(pool))
	for _, s := range pool {
		if _, ok := byID[s.FrameworkID]; !ok {
			byID[s.FrameworkID] = s
		}
	}

	g := buildGraph(pool)
	j := &types.Journey{
		HorizonMonths: horizonMonths,
		Phases:        Windows(horizonMonths),
		CriticalPath:  []string{},
	}
	j.Warnings = append(j.Warnings, g.breakCycles()...)

	phaseOf := make(map[string]int, len(g.nodes))
	var order []string
	for pi := range j.Phases {
		for len(j.Phases[pi].Frameworks) < capacity {
			next, ok := g.pickEligible(phaseOf)
			if !ok {
				break
			}
			phaseOf[next] = pi
			order = append(order, next)
			s := byID[next]
			j.Phases[pi].Frameworks = append(j.Phases[pi].Frameworks, types.JourneyItem{
				ID:    next,
				Name:  frameworkName(s),
				Score: s.Score,
			})
		}
	}

	for _, id := range g.rankedNodes() {
		if _, ok := phaseOf[id]; ok {
			continue
		}
		j.Unscheduled = append(j.Unscheduled, id)
		j.Warnings = append(j.Warnings, types.Warning{
			Kind:        types.WarnPhaseCapacity,
			FrameworkID: id,
			Message:     fmt.Sprintf("no phase capacity left within %d months", horizonMonths),
		})
	}

	j.CriticalPath = g.criticalPath(order, phaseOf)
	return j
}

// pickEligible returns the best unassigned framework whose in-pool
// prerequisites are all assigned.
func (g *graph) pickEligible(assigned map[string]int) (string, bool) {
	best := ""
	found := false
	for _, n := range g.nodes {
		if _, done := assigned[n]; done {
			continue
		}
		ready := true
		for pre := range g.in[n] {
			if _, ok := assigned[pre]; !ok {
				ready = false
				break
			}
		}
		if !ready {
			continue
		}
		if !found || g.score[n] > g.score[best] {
			best, found = n, true
		}
	}
	return best, found
}

// rankedNodes returns nodes by score descending, then ID.
func (g *graph) rankedNodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	// nodes are ID-sorted, so a stable sort by score keeps the ID order
	// among equal scores.
	sort.SliceStable(out, func(i, k int) bool { return g.score[out[i]] > g.score[out[k]] })
	return out
}

type chain struct {
	length int
	sum    float64
	start  string
	prev   string
}

func (c chain) better(o chain) bool {
	if c.length != o.length {
		return c.length > o.length
	}
	if c.sum != o.sum {
		return c.sum > o.sum
	}
	return c.start < o.start
}

// criticalPath returns the longest prerequisite chain among assigned
// frameworks. order must be a topological order of the assigned nodes,
// which the phase assignment order is.
func (g *graph) criticalPath(order []string, assigned map[string]int) []string {
	if len(order) == 0 {
		return []string{}
	}
	best := make(map[string]chain, len(order))
	var top string
	for _, n := range order {
		c := chain{length: 1, sum: g.score[n], start: n}
		for _, pre := range g.predecessors(n) {
			if _, ok := assigned[pre]; !ok {
				continue
			}
			pc := best[pre]
			cand := chain{length: pc.length + 1, sum: pc.sum + g.score[n], start: pc.start, prev: pre}
			if cand.better(c) {
				c = cand
			}
		}
		best[n] = c
		if top == "" || c.better(best[top]) {
			top = n
		}
	}

	var path []string
	for n := top; n != ""; n = best[n].prev {
		path = append(path, n)
	}
	for i, k := 0, len(path)-1; i < k; i, k = i+1, k-1 {
		path[i], path[k] = path[k], path[i]
	}
	return path
}

func frameworkName(s types.ScoredFramework) string {
	if s.Framework == nil {
		return s.FrameworkID
	}
	return s.Framework.Name
}

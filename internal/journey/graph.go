package journey

import (
	"fmt"
	"sort"

	"github.com/mesh-intelligence/compass/pkg/types"
)

// graph is the prerequisite graph over a candidate pool. An edge from -> to
// means from must be adopted no later than to.
type graph struct {
	nodes []string // sorted by ID
	score map[string]float64
	out   map[string]map[string]bool
	in    map[string]map[string]bool
}

// buildGraph adds an edge for every prerequisite relationship whose both
// ends are in the pool. Prerequisites outside the pool are treated as
// already satisfied.
func buildGraph(pool []types.ScoredFramework) *graph {
	g := &graph{
		score: make(map[string]float64, len(pool)),
		out:   make(map[string]map[string]bool, len(pool)),
		in:    make(map[string]map[string]bool, len(pool)),
	}
	for _, s := range pool {
		if _, dup := g.score[s.FrameworkID]; dup {
			continue
		}
		g.nodes = append(g.nodes, s.FrameworkID)
		g.score[s.FrameworkID] = s.Score
		g.out[s.FrameworkID] = make(map[string]bool)
		g.in[s.FrameworkID] = make(map[string]bool)
	}
	sort.Strings(g.nodes)

	for _, s := range pool {
		if s.Framework == nil {
			continue
		}
		for _, pre := range s.Framework.Prerequisites() {
			if _, ok := g.score[pre]; !ok {
				continue
			}
			g.out[pre][s.FrameworkID] = true
			g.in[s.FrameworkID][pre] = true
		}
	}
	return g
}

func (g *graph) removeEdge(from, to string) {
	delete(g.out[from], to)
	delete(g.in[to], from)
}

// successors returns from's dependents in ID order.
func (g *graph) successors(from string) []string {
	return sortedKeys(g.out[from])
}

// predecessors returns to's prerequisites in ID order.
func (g *graph) predecessors(to string) []string {
	return sortedKeys(g.in[to])
}

// breakCycles removes one edge per cycle until the graph is acyclic. The
// removed edge is the one with the lowest weight (sum of endpoint scores),
// ties broken by the "from->to" string. Each removal yields a warning.
func (g *graph) breakCycles() []types.Warning {
	var warnings []types.Warning
	for {
		cycle := g.findCycle()
		if cycle == nil {
			return warnings
		}

		drop := 0
		for i := 1; i < len(cycle); i++ {
			if g.edgeLess(cycle[i], cycle[drop]) {
				drop = i
			}
		}
		e := cycle[drop]
		g.removeEdge(e[0], e[1])

		warnings = append(warnings, types.Warning{
			Kind:        types.WarnPrerequisiteCycle,
			FrameworkID: e[1],
			Message:     fmt.Sprintf("prerequisite cycle %s; dropped edge %s -> %s", cycleString(cycle), e[0], e[1]),
		})
	}
}

func (g *graph) edgeLess(a, b [2]string) bool {
	wa := g.score[a[0]] + g.score[a[1]]
	wb := g.score[b[0]] + g.score[b[1]]
	if wa != wb {
		return wa < wb
	}
	return a[0]+"->"+a[1] < b[0]+"->"+b[1]
}

// findCycle returns the edges of one cycle, or nil. The search visits nodes
// and successors in ID order so the same graph always yields the same cycle.
func (g *graph) findCycle() [][2]string {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(g.nodes))
	var stack []string
	var cycle [][2]string

	var visit func(n string) bool
	visit = func(n string) bool {
		color[n] = grey
		stack = append(stack, n)
		for _, m := range g.successors(n) {
			switch color[m] {
			case grey:
				start := len(stack) - 1
				for stack[start] != m {
					start--
				}
				path := stack[start:]
				for i := range path {
					next := m
					if i+1 < len(path) {
						next = path[i+1]
					}
					cycle = append(cycle, [2]string{path[i], next})
				}
				return true
			case white:
				if visit(m) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return false
	}

	for _, n := range g.nodes {
		if color[n] == white && visit(n) {
			return cycle
		}
	}
	return nil
}

func cycleString(cycle [][2]string) string {
	s := ""
	for _, e := range cycle {
		s += e[0] + " -> "
	}
	return s + cycle[0][0]
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

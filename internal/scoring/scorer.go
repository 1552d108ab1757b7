package scoring

import (
	"math"

	"github.com/mesh-intelligence/compass/internal/taxonomy"
	"github.com/mesh-intelligence/compass/pkg/types"
)

// Timing constants.
const (
	// CrisisFastDays is the time-to-value at or under which a framework
	// gets full timing credit in crisis mode.
	CrisisFastDays = 7
	// CrisisCutoffDays is the time-to-value at which crisis timing credit
	// reaches 0.
	CrisisCutoffDays = 30

	TimingWithinGoal = 0.7
	TimingPastGoal   = 0.3
)

// teamDecay controls how quickly team_fit falls with the relative shortfall.
const teamDecay = 2.5

// Score computes the sub-scores and aggregate for one framework. The
// context must already have defaults applied. Score does not look at
// anti-patterns; the filter runs first.
func Score(fw *types.Framework, cc types.CompanyContext) types.ScoredFramework {
	w := DefaultWeights()
	dims := taxonomy.Evaluate(fw, cc)

	sub := types.SubScores{
		Stage:      clamp(dims.Stage),
		Problem:    clamp(ProblemFit(fw, cc)),
		Data:       clamp(dims.Data),
		Complexity: clamp(dims.Complexity),
		Team:       clamp(TeamFit(fw.MinTeamSize, cc.TeamSize)),
		Timing:     clamp(TimingFit(fw.TimeToValueDays, cc)),
	}
	contrib := types.SubScores{
		Stage:      w.Stage * sub.Stage,
		Problem:    w.Problem * sub.Problem,
		Data:       w.Data * sub.Data,
		Complexity: w.Complexity * sub.Complexity,
		Team:       w.Team * sub.Team,
		Timing:     w.Timing * sub.Timing,
	}
	total := contrib.Stage + contrib.Problem + contrib.Data + contrib.Complexity + contrib.Team + contrib.Timing

	return types.ScoredFramework{
		Framework:     fw,
		FrameworkID:   fw.ID,
		SubScores:     sub,
		Contributions: contrib,
		Score:         clamp(total),
		Dimensions:    dims,
	}
}

// ProblemFit is the weighted fraction of the context's problems that the
// framework addresses.
func ProblemFit(fw *types.Framework, cc types.CompanyContext) float64 {
	var matched, total float64
	for _, p := range cc.Problems {
		w := cc.ProblemWeight(p)
		total += w
		if taxonomy.ProblemFit(fw.Tags.Problems, p) == 1 {
			matched += w
		}
	}
	if total == 0 {
		return 0
	}
	return matched / total
}

// TeamFit is 1 when the team meets the framework's minimum size and
// otherwise exp(-2.5 * shortfall/min), which stays above 0.
func TeamFit(minSize, size int) float64 {
	if minSize <= 0 || size >= minSize {
		return 1
	}
	if size < 0 {
		size = 0
	}
	shortfall := float64(minSize-size) / float64(minSize)
	return math.Exp(-teamDecay * shortfall)
}

// TimingFit favours fast frameworks in crisis mode. In crisis, a
// time-to-value up to 7 days scores 1 and the score falls linearly to 0 at
// 30 days. Otherwise frameworks that pay off within the goal timeline score
// 0.7 and the rest 0.3.
func TimingFit(timeToValueDays int, cc types.CompanyContext) float64 {
	if cc.InCrisis() {
		switch {
		case timeToValueDays <= CrisisFastDays:
			return 1
		case timeToValueDays >= CrisisCutoffDays:
			return 0
		default:
			return float64(CrisisCutoffDays-timeToValueDays) / float64(CrisisCutoffDays-CrisisFastDays)
		}
	}
	timeline := cc.GoalTimelineDays
	if timeline <= 0 {
		timeline = types.DefaultGoalTimelineDays
	}
	if timeToValueDays <= timeline {
		return TimingWithinGoal
	}
	return TimingPastGoal
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

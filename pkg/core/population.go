package core

import (
	"math"
)

// Population is an ordered set of solutions with a parallel slice of
// fitness scores. A score is NaN until the member has been evaluated.
// Populations are replaced wholesale between generations; they are never
// mutated element-wise by the search engines.
type Population struct {
	solutions []Solution
	scores    []float64
}

// NewPopulation builds an unevaluated population over the given solutions.
func NewPopulation(solutions []Solution) *Population {
	scores := make([]float64, len(solutions))
	for i := range scores {
		scores[i] = math.NaN()
	}
	return &Population{
		solutions: append([]Solution(nil), solutions...),
		scores:    scores,
	}
}

// Size returns the number of members.
func (p *Population) Size() int { return len(p.solutions) }

// Solution returns the i-th member.
func (p *Population) Solution(i int) Solution { return p.solutions[i] }

// Score returns the i-th member's fitness, NaN if not yet evaluated.
func (p *Population) Score(i int) float64 { return p.scores[i] }

// SetScore assigns the i-th member's fitness.
func (p *Population) SetScore(i int, score float64) { p.scores[i] = score }

// Scored reports whether the i-th member has been evaluated.
func (p *Population) Scored(i int) bool { return !math.IsNaN(p.scores[i]) }

// Evaluated reports whether every member has an assigned fitness.
func (p *Population) Evaluated() bool {
	for i := range p.scores {
		if math.IsNaN(p.scores[i]) {
			return false
		}
	}
	return len(p.scores) > 0
}

// Best returns the member with the true maximum fitness among evaluated
// members. This is independent of any ordering convention used by
// selection policies.
func (p *Population) Best() (Solution, float64) {
	bestIdx := -1
	bestScore := math.Inf(-1)
	for i, score := range p.scores {
		if math.IsNaN(score) {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return Solution{}, math.NaN()
	}
	return p.solutions[bestIdx].Clone(), bestScore
}

// Snapshot returns independent copies of the members and scores. Callers
// only ever read snapshots; the canonical population stays owned by its
// engine.
func (p *Population) Snapshot() ([]Solution, []float64) {
	solutions := make([]Solution, len(p.solutions))
	for i, s := range p.solutions {
		solutions[i] = s.Clone()
	}
	scores := append([]float64(nil), p.scores...)
	return solutions, scores
}

// Texts returns the prompt strings of a text-mode population.
func (p *Population) Texts() []string {
	texts := make([]string, len(p.solutions))
	for i, s := range p.solutions {
		texts[i] = s.Text()
	}
	return texts
}

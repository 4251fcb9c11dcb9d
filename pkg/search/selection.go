package search

import (
	"math"
	"math/rand"
	"sort"
)

// Selector implements the reusable selection primitives over a scored
// prompt population: best-k selection, fitness-proportional softmax
// sampling, and tournament selection.
type Selector struct {
	rng            *rand.Rand
	temperature    float64
	tournamentSize int
	sample         bool
}

// NewSelector builds a selector. temperature scales the softmax used by
// fitness-weighted sampling; sample switches elite/tournament selection
// from best-k to weighted sampling.
func NewSelector(rng *rand.Rand, temperature float64, tournamentSize int, sample bool) *Selector {
	return &Selector{
		rng:            rng,
		temperature:    temperature,
		tournamentSize: tournamentSize,
		sample:         sample,
	}
}

// argsortAscending returns the indices of fitness sorted ascending.
func argsortAscending(fitness []float64) []int {
	order := make([]int, len(fitness))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return fitness[order[a]] < fitness[order[b]]
	})
	return order
}

// Sample selects n prompts from the scored set. With bySampling it draws
// fitness-weighted (softmax over fitness/temperature) without
// replacement; otherwise it sorts by fitness ascending and returns the
// first n values, the same ranking convention the regeneration report
// uses.
func (s *Selector) Sample(prompts []string, fitness []float64, n int, bySampling bool) []string {
	if n <= 0 {
		return nil
	}
	if n > len(prompts) {
		n = len(prompts)
	}

	if bySampling {
		return s.softmaxSample(prompts, fitness, n)
	}

	order := argsortAscending(fitness)
	selected := make([]string, n)
	for i, idx := range order[:n] {
		selected[i] = prompts[idx]
	}
	return selected
}

// softmaxSample draws n prompts without replacement with probabilities
// proportional to exp(fitness/temperature).
func (s *Selector) softmaxSample(prompts []string, fitness []float64, n int) []string {
	weights := make([]float64, len(fitness))
	maxFit := math.Inf(-1)
	for _, f := range fitness {
		if f/s.temperature > maxFit {
			maxFit = f / s.temperature
		}
	}
	var total float64
	for i, f := range fitness {
		weights[i] = math.Exp(f/s.temperature - maxFit)
		total += weights[i]
	}

	remaining := make([]int, len(prompts))
	for i := range remaining {
		remaining[i] = i
	}

	selected := make([]string, 0, n)
	for len(selected) < n {
		r := s.rng.Float64() * total
		var cumulative float64
		pick := len(remaining) - 1
		for j, idx := range remaining {
			cumulative += weights[idx]
			if r <= cumulative {
				pick = j
				break
			}
		}
		idx := remaining[pick]
		selected = append(selected, prompts[idx])
		total -= weights[idx]
		remaining = append(remaining[:pick], remaining[pick+1:]...)
	}
	return selected
}

// Tournament draws tournamentSize distinct members at random and applies
// the configured sampling-or-best-k rule within that subset, returning n
// selected prompts.
func (s *Selector) Tournament(prompts []string, fitness []float64, n int) []string {
	k := s.tournamentSize
	if k > len(prompts) {
		k = len(prompts)
	}

	perm := s.rng.Perm(len(prompts))[:k]
	subPrompts := make([]string, k)
	subFitness := make([]float64, k)
	for i, idx := range perm {
		subPrompts[i] = prompts[idx]
		subFitness[i] = fitness[idx]
	}

	return s.Sample(subPrompts, subFitness, n, s.sample)
}

package search

import (
	"context"
	"math/rand"
	"time"

	"github.com/evomuse/evomuse/pkg/core"
	"github.com/evomuse/evomuse/pkg/errors"
	"github.com/evomuse/evomuse/pkg/logging"
)

// ContinuousConfig holds the parameters of the reference vector backend.
type ContinuousConfig struct {
	// PopulationSize is the constant population size across generations.
	PopulationSize int `json:"population_size" yaml:"population_size" validate:"min=1"`

	// ElitismFraction of the population carried over unchanged, by true
	// fitness maximum.
	ElitismFraction float64 `json:"elitism_fraction" yaml:"elitism_fraction" validate:"min=0,max=1"`

	// TournamentSize is the subset size contested when picking parents.
	TournamentSize int `json:"tournament_size" yaml:"tournament_size" validate:"min=1"`

	// CrossoverRate is the per-offspring probability of blend crossover;
	// otherwise the first parent is copied through.
	CrossoverRate float64 `json:"crossover_rate" yaml:"crossover_rate" validate:"min=0,max=1"`

	// MutationRate is the per-gene probability of Gaussian perturbation.
	MutationRate float64 `json:"mutation_rate" yaml:"mutation_rate" validate:"min=0,max=1"`

	// MutationStdev is the standard deviation of the perturbation.
	MutationStdev float64 `json:"mutation_stdev" yaml:"mutation_stdev"`

	// Concurrency bounds parallel fitness evaluations. Default 1.
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// DefaultContinuousConfig returns the default vector-backend configuration.
func DefaultContinuousConfig() ContinuousConfig {
	return ContinuousConfig{
		PopulationSize:  20,
		ElitismFraction: 0.1,
		TournamentSize:  4,
		CrossoverRate:   0.9,
		MutationRate:    0.05,
		MutationStdev:   0.1,
		Concurrency:     1,
	}
}

// ContinuousGA is the in-repo reference backend for the vector
// representation: an elitist generational GA with tournament parent
// selection, blend crossover and per-gene Gaussian mutation. External
// optimizers can replace it behind the same core.Searcher contract.
type ContinuousGA struct {
	cfg        ContinuousConfig
	problem    core.Problem
	population *core.Population
	generation int
	rng        *rand.Rand
	logger     *logging.Logger
}

// ContinuousGAOption defines functional options for the backend.
type ContinuousGAOption func(*ContinuousGA)

// WithContinuousRand fixes the random source, for reproducible runs and
// tests.
func WithContinuousRand(rng *rand.Rand) ContinuousGAOption {
	return func(ga *ContinuousGA) {
		ga.rng = rng
	}
}

// NewContinuousGA builds the vector-mode engine.
func NewContinuousGA(cfg ContinuousConfig, prob core.Problem, opts ...ContinuousGAOption) (*ContinuousGA, error) {
	if prob.Representation() != core.RepresentationVector {
		return nil, errors.New(errors.ValidationFailed, "continuous backend requires a vector problem")
	}
	if cfg.PopulationSize <= 0 {
		return nil, errors.New(errors.ValidationFailed, "population size must be positive")
	}
	if cfg.ElitismFraction < 0 || cfg.ElitismFraction > 1 {
		return nil, errors.New(errors.ValidationFailed, "elitism fraction must lie in [0,1]")
	}
	if cfg.TournamentSize <= 0 || cfg.TournamentSize > cfg.PopulationSize {
		return nil, errors.WithFields(
			errors.New(errors.ValidationFailed, "tournament size must lie in [1, population_size]"),
			errors.Fields{"tournament_size": cfg.TournamentSize, "population_size": cfg.PopulationSize})
	}

	ga := &ContinuousGA{
		cfg:     cfg,
		problem: prob,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:  logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(ga)
	}
	return ga, nil
}

// Generation returns the number of completed generations.
func (ga *ContinuousGA) Generation() int { return ga.generation }

// CurrentPopulation implements core.Searcher.
func (ga *ContinuousGA) CurrentPopulation() *core.Population { return ga.population }

// Best implements core.Searcher.
func (ga *ContinuousGA) Best() (core.Solution, float64) {
	if ga.population == nil {
		return core.Solution{}, 0
	}
	return ga.population.Best()
}

// AdvanceGeneration implements core.Searcher.
func (ga *ContinuousGA) AdvanceGeneration(ctx context.Context) error {
	ctx = logging.WithGeneration(ctx, ga.generation+1)

	if ga.population == nil {
		pop, err := ga.problem.GenerateInitial(ctx, ga.cfg.PopulationSize)
		if err != nil {
			return err
		}
		ga.population = pop
	} else {
		next := ga.elites()
		for len(next) < ga.cfg.PopulationSize {
			a := ga.tournamentParent()
			b := ga.tournamentParent()
			child := ga.crossover(a, b)
			ga.mutate(child)
			next = append(next, core.VectorSolution(child))
		}
		ga.population = core.NewPopulation(next)
	}

	if err := evaluateAll(ctx, ga.problem, ga.population, ga.cfg.Concurrency); err != nil {
		return err
	}
	ga.generation++

	if best, score := ga.population.Best(); best.Len() > 0 {
		ga.logger.Debug(ctx, "generation best fitness: %.4f", score)
	}
	return nil
}

// elites keeps the top floor(fraction * population_size) members by true
// fitness maximum.
func (ga *ContinuousGA) elites() []core.Solution {
	n := int(ga.cfg.ElitismFraction * float64(ga.cfg.PopulationSize))
	if n == 0 {
		return nil
	}
	scores := make([]float64, ga.population.Size())
	for i := range scores {
		scores[i] = ga.population.Score(i)
	}
	order := argsortAscending(scores)
	kept := make([]core.Solution, 0, n)
	for i := 0; i < n; i++ {
		kept = append(kept, ga.population.Solution(order[len(order)-1-i]).Clone())
	}
	return kept
}

// tournamentParent draws TournamentSize distinct members and returns the
// fittest one's vector.
func (ga *ContinuousGA) tournamentParent() []float64 {
	perm := ga.rng.Perm(ga.population.Size())[:ga.cfg.TournamentSize]
	best := perm[0]
	for _, idx := range perm[1:] {
		if ga.population.Score(idx) > ga.population.Score(best) {
			best = idx
		}
	}
	return ga.population.Solution(best).Vector()
}

// crossover blends two parents gene-wise with a uniform mixing weight, or
// copies the first parent when the crossover gate does not fire.
func (ga *ContinuousGA) crossover(a, b []float64) []float64 {
	child := make([]float64, len(a))
	if ga.rng.Float64() >= ga.cfg.CrossoverRate {
		copy(child, a)
		return child
	}
	alpha := ga.rng.Float64()
	for i := range child {
		child[i] = alpha*a[i] + (1-alpha)*b[i]
	}
	return child
}

// mutate perturbs genes independently with Gaussian noise.
func (ga *ContinuousGA) mutate(v []float64) {
	for i := range v {
		if ga.rng.Float64() < ga.cfg.MutationRate {
			v[i] += ga.rng.NormFloat64() * ga.cfg.MutationStdev
		}
	}
}

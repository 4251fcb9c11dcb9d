package search

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/evomuse/evomuse/pkg/core"
	"github.com/evomuse/evomuse/pkg/errors"
	"github.com/evomuse/evomuse/pkg/logging"
	"github.com/evomuse/evomuse/pkg/oracle"
)

// DefaultRegenerationTemplate is the oracle instruction for
// full-regeneration stepping. {ranking} receives the scored report of the
// previous generation and {num_generate} the number of prompts still
// needed to refill the population.
const DefaultRegenerationTemplate = "The following music prompts are ranked by the quality of the music they produced:\n" +
	"{ranking}\n" +
	"Generate {num_generate} new prompts that improve on this population. " +
	"Take inspiration from what worked and avoid what did not."

// Config holds the text-mode search knobs.
type Config struct {
	// PopulationSize is the constant population size across generations.
	PopulationSize int `json:"population_size" yaml:"population_size" validate:"min=1"`

	// ElitismFraction of the population carried over unchanged.
	// Elite count = floor(fraction * population_size).
	ElitismFraction float64 `json:"elitism_fraction" yaml:"elitism_fraction" validate:"min=0,max=1"`

	// NoveltyFraction of the population replaced with fresh prompts
	// drawn straight from the oracle for exploration.
	NoveltyFraction float64 `json:"novelty_fraction" yaml:"novelty_fraction" validate:"min=0,max=1"`

	// TournamentSize is the subset size contested during tournament
	// selection.
	TournamentSize int `json:"tournament_size" yaml:"tournament_size" validate:"min=1"`

	// Temperature scales the softmax used by fitness-weighted sampling.
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// Sample switches elite and tournament selection from best-k to
	// fitness-weighted sampling.
	Sample bool `json:"sample" yaml:"sample"`

	// Concurrency bounds parallel fitness evaluations. Default 1,
	// which evaluates strictly in population order.
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// MaxParseRetries caps oracle re-queries on malformed responses.
	MaxParseRetries int `json:"max_parse_retries" yaml:"max_parse_retries"`

	// RegenerationTemplate overrides DefaultRegenerationTemplate.
	RegenerationTemplate string `json:"regeneration_template" yaml:"regeneration_template"`

	// Operators configures the operator-pipeline stepping mode.
	Operators []OperatorConfig `json:"operators" yaml:"operators"`
}

// DefaultConfig returns the default search configuration.
func DefaultConfig() Config {
	return Config{
		PopulationSize:       20,
		ElitismFraction:      0.1,
		NoveltyFraction:      0.1,
		TournamentSize:       4,
		Temperature:          1.0,
		Sample:               false,
		Concurrency:          1,
		MaxParseRetries:      oracle.DefaultMaxRetries,
		RegenerationTemplate: DefaultRegenerationTemplate,
	}
}

// PromptSearcher drives generation-by-generation stepping for the text
// representation. It owns the canonical population; callers read
// snapshots only.
type PromptSearcher struct {
	cfg        Config
	mode       core.Mode
	problem    core.Problem
	prompts    *oracle.PromptGenerator
	selector   *Selector
	pipeline   *Pipeline
	population *core.Population
	generation int
	rng        *rand.Rand
	logger     *logging.Logger
}

// PromptSearcherOption defines functional options for the searcher.
type PromptSearcherOption func(*PromptSearcher)

// WithRand fixes the random source, for reproducible runs and tests.
func WithRand(rng *rand.Rand) PromptSearcherOption {
	return func(ps *PromptSearcher) {
		ps.rng = rng
	}
}

// NewPromptSearcher builds the text-mode engine for the given stepping
// mode. Configuration errors are fatal at construction.
func NewPromptSearcher(cfg Config, mode core.Mode, prob core.Problem, orc oracle.Oracle, opts ...PromptSearcherOption) (*PromptSearcher, error) {
	if mode != core.ModeFullRegeneration && mode != core.ModeOperatorPipeline {
		return nil, errors.WithFields(
			errors.New(errors.ValidationFailed, "prompt searcher requires a text stepping mode"),
			errors.Fields{"mode": mode.String()})
	}
	if cfg.PopulationSize <= 0 {
		return nil, errors.New(errors.ValidationFailed, "population size must be positive")
	}
	if cfg.ElitismFraction < 0 || cfg.ElitismFraction > 1 || cfg.NoveltyFraction < 0 || cfg.NoveltyFraction > 1 {
		return nil, errors.New(errors.ValidationFailed, "elitism and novelty fractions must lie in [0,1]")
	}
	if cfg.ElitismFraction+cfg.NoveltyFraction > 1 {
		return nil, errors.New(errors.ValidationFailed, "elitism and novelty fractions must not sum above 1")
	}
	if cfg.TournamentSize <= 0 || cfg.TournamentSize > cfg.PopulationSize {
		return nil, errors.WithFields(
			errors.New(errors.ValidationFailed, "tournament size must lie in [1, population_size]"),
			errors.Fields{"tournament_size": cfg.TournamentSize, "population_size": cfg.PopulationSize})
	}
	if cfg.Sample && cfg.Temperature <= 0 {
		return nil, errors.New(errors.ValidationFailed, "sampling temperature must be positive")
	}
	if cfg.RegenerationTemplate == "" {
		cfg.RegenerationTemplate = DefaultRegenerationTemplate
	}

	ps := &PromptSearcher{
		cfg:     cfg,
		mode:    mode,
		problem: prob,
		prompts: oracle.NewPromptGenerator(orc, cfg.MaxParseRetries),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:  logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(ps)
	}
	ps.selector = NewSelector(ps.rng, cfg.Temperature, cfg.TournamentSize, cfg.Sample)

	if mode == core.ModeOperatorPipeline {
		pipeline, err := NewPipeline(cfg.Operators, ps.prompts, ps.rng)
		if err != nil {
			return nil, err
		}
		if pipeline.InputArity() > cfg.TournamentSize {
			return nil, errors.WithFields(
				errors.New(errors.ValidationFailed, "first operator input arity exceeds tournament size"),
				errors.Fields{"input_arity": pipeline.InputArity(), "tournament_size": cfg.TournamentSize})
		}
		ps.pipeline = pipeline
	}

	return ps, nil
}

// Generation returns the number of completed generations.
func (ps *PromptSearcher) Generation() int { return ps.generation }

// CurrentPopulation implements core.Searcher.
func (ps *PromptSearcher) CurrentPopulation() *core.Population { return ps.population }

// Best implements core.Searcher, returning the true maximum of the
// current population.
func (ps *PromptSearcher) Best() (core.Solution, float64) {
	if ps.population == nil {
		return core.Solution{}, 0
	}
	return ps.population.Best()
}

// AdvanceGeneration implements core.Searcher. The first call generates
// and evaluates the initial population without applying any stepping
// strategy; later calls replace the population wholesale according to the
// configured mode and evaluate the replacement.
func (ps *PromptSearcher) AdvanceGeneration(ctx context.Context) error {
	ctx = logging.WithGeneration(ctx, ps.generation+1)

	if ps.population == nil {
		pop, err := ps.problem.GenerateInitial(ctx, ps.cfg.PopulationSize)
		if err != nil {
			return err
		}
		ps.population = pop
	} else {
		var prompts []string
		var err error
		switch ps.mode {
		case core.ModeFullRegeneration:
			prompts, err = ps.regenerate(ctx)
		case core.ModeOperatorPipeline:
			prompts, err = ps.evolve(ctx)
		}
		if err != nil {
			return err
		}

		solutions := make([]core.Solution, len(prompts))
		for i, prompt := range prompts {
			solutions[i] = core.TextSolution(prompt)
		}
		ps.population = core.NewPopulation(solutions)
	}

	if err := evaluateAll(ctx, ps.problem, ps.population, ps.cfg.Concurrency); err != nil {
		return err
	}
	ps.generation++

	ps.logger.Debug(ctx, "current population:\n\t- %s", strings.Join(ps.population.Texts(), "\n\t- "))
	return nil
}

// eliteCount derives the number of elites from the configured fraction.
func (ps *PromptSearcher) eliteCount() int {
	return int(ps.cfg.ElitismFraction * float64(ps.cfg.PopulationSize))
}

// novelCount derives the number of injected novel prompts.
func (ps *PromptSearcher) novelCount() int {
	return int(ps.cfg.NoveltyFraction * float64(ps.cfg.PopulationSize))
}

// elites returns the retained members of the current population, selected
// by the configured sampling-or-best-k rule. A zero elite count returns
// nothing without consulting the population.
func (ps *PromptSearcher) elites() []string {
	n := ps.eliteCount()
	if n == 0 {
		return nil
	}
	prompts, scores := ps.population.Texts(), ps.scores()
	return ps.selector.Sample(prompts, scores, n, ps.cfg.Sample)
}

// novel injects fresh prompts drawn straight from the oracle, bypassing
// the population entirely. A zero novelty count never queries the oracle.
func (ps *PromptSearcher) novel(ctx context.Context) ([]string, error) {
	return ps.prompts.GenerateDiverse(ctx, ps.novelCount())
}

func (ps *PromptSearcher) scores() []float64 {
	scores := make([]float64, ps.population.Size())
	for i := range scores {
		scores[i] = ps.population.Score(i)
	}
	return scores
}

// regenerate implements full-regeneration stepping: the ranked report of
// the previous generation is handed to the oracle, which produces the
// replacement prompts beyond the retained elites and injected novelty.
func (ps *PromptSearcher) regenerate(ctx context.Context) ([]string, error) {
	prompts, scores := ps.population.Texts(), ps.scores()
	order := argsortAscending(scores)

	var b strings.Builder
	for _, idx := range order {
		// Scores are rescaled from [-1,1] to a /100 display for the report.
		b.WriteString(strconv.Itoa(idx+1) + ". " + prompts[idx] + " - " +
			strconv.FormatFloat(scores[idx]*50+50, 'f', 2, 64) + " / 100\n")
	}
	ranking := b.String()

	bestIdx := order[0]
	ps.logger.Info(ctx, "population best: %s - %.2f / 100", prompts[bestIdx], scores[bestIdx]*50+50)

	next := ps.elites()
	novel, err := ps.novel(ctx)
	if err != nil {
		return nil, err
	}
	next = append(next, novel...)

	if missing := ps.cfg.PopulationSize - len(next); missing > 0 {
		generated, err := ps.prompts.Collect(ctx, missing, func(remaining int) string {
			r := strings.NewReplacer(
				"{ranking}", ranking,
				"{num_generate}", strconv.Itoa(remaining))
			return r.Replace(ps.cfg.RegenerationTemplate)
		})
		if err != nil {
			return nil, err
		}
		next = append(next, generated...)
	}

	ps.logger.Info(ctx, "finished generating new prompts")
	return next, nil
}

// evolve implements operator-pipeline stepping: tournament-selected parent
// groups are run through the full pipeline until the population quota is
// met.
func (ps *PromptSearcher) evolve(ctx context.Context) ([]string, error) {
	next := ps.elites()
	novel, err := ps.novel(ctx)
	if err != nil {
		return nil, err
	}
	next = append(next, novel...)

	prompts, scores := ps.population.Texts(), ps.scores()
	for len(next) < ps.cfg.PopulationSize {
		group := ps.selector.Tournament(prompts, scores, ps.pipeline.InputArity())
		offspring, err := ps.pipeline.Apply(ctx, group)
		if err != nil {
			return nil, err
		}
		if remaining := ps.cfg.PopulationSize - len(next); len(offspring) > remaining {
			offspring = offspring[:remaining]
		}
		next = append(next, offspring...)
	}
	return next, nil
}

package search

import (
	"context"

	"github.com/google/uuid"

	"github.com/evomuse/evomuse/pkg/core"
	"github.com/evomuse/evomuse/pkg/errors"
	"github.com/evomuse/evomuse/pkg/logging"
)

// Recorder persists run telemetry. Archive failures are reported to the
// evolver, which logs and continues; they never abort a search.
type Recorder interface {
	BeginRun(ctx context.Context, runID, mode string) error
	RecordGeneration(ctx context.Context, runID string, generation int, bestScore float64, best core.Solution) error
	RecordFinalPopulation(ctx context.Context, runID string, solutions []core.Solution, scores []float64) error
	FinishRun(ctx context.Context, runID string) error
}

// Best pairs the winning solution with its fitness.
type Best struct {
	Solution core.Solution
	Fitness  float64
}

// Generation is a snapshot of a full population.
type Generation struct {
	Solutions []core.Solution
	Scores    []float64
}

// Result summarizes a finished run. Best is computed by true fitness
// maximum over the final population.
type Result struct {
	RunID          string
	Best           Best
	LastGeneration Generation
}

// Evolver drives a searcher across generations and records telemetry.
type Evolver struct {
	mode     core.Mode
	searcher core.Searcher
	recorder Recorder
	logger   *logging.Logger
}

// EvolverOption defines functional options for the evolver.
type EvolverOption func(*Evolver)

// WithRecorder attaches run telemetry persistence.
func WithRecorder(r Recorder) EvolverOption {
	return func(e *Evolver) {
		e.recorder = r
	}
}

// NewEvolver wraps a searcher for multi-generation runs.
func NewEvolver(mode core.Mode, searcher core.Searcher, opts ...EvolverOption) *Evolver {
	e := &Evolver{
		mode:     mode,
		searcher: searcher,
		logger:   logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run steps the searcher through generations complete generations and
// returns the run summary. Each run gets a fresh UUID carried through the
// log context and the archive.
func (e *Evolver) Run(ctx context.Context, generations int) (*Result, error) {
	if generations <= 0 {
		return nil, errors.New(errors.InvalidInput, "generation count must be positive")
	}

	runID := uuid.New().String()
	ctx = logging.WithRunID(ctx, runID)
	e.logger.Info(ctx, "starting %s run for %d generations", e.mode, generations)

	if e.recorder != nil {
		if err := e.recorder.BeginRun(ctx, runID, e.mode.String()); err != nil {
			e.logger.Warn(ctx, "archive begin failed: %v", err)
		}
	}

	for gen := 1; gen <= generations; gen++ {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), errors.Canceled, "run canceled")
		default:
		}

		if err := e.searcher.AdvanceGeneration(ctx); err != nil {
			return nil, err
		}

		best, score := e.searcher.Best()
		e.logger.Info(logging.WithGeneration(ctx, gen), "generation complete, best fitness %.4f", score)
		if e.recorder != nil {
			if err := e.recorder.RecordGeneration(ctx, runID, gen, score, best); err != nil {
				e.logger.Warn(ctx, "archive generation record failed: %v", err)
			}
		}
	}

	pop := e.searcher.CurrentPopulation()
	solutions, scores := pop.Snapshot()
	best, fitness := pop.Best()

	if e.recorder != nil {
		if err := e.recorder.RecordFinalPopulation(ctx, runID, solutions, scores); err != nil {
			e.logger.Warn(ctx, "archive population record failed: %v", err)
		}
		if err := e.recorder.FinishRun(ctx, runID); err != nil {
			e.logger.Warn(ctx, "archive finish failed: %v", err)
		}
	}

	return &Result{
		RunID:          runID,
		Best:           Best{Solution: best, Fitness: fitness},
		LastGeneration: Generation{Solutions: solutions, Scores: scores},
	}, nil
}

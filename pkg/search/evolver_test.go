package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evomuse/evomuse/pkg/core"
	"github.com/evomuse/evomuse/pkg/errors"
)

// countingSearcher fabricates a fresh scored population on every step.
type countingSearcher struct {
	advances int
}

func (s *countingSearcher) AdvanceGeneration(ctx context.Context) error {
	s.advances++
	return nil
}

func (s *countingSearcher) CurrentPopulation() *core.Population {
	pop := core.NewPopulation([]core.Solution{
		core.TextSolution("low"),
		core.TextSolution("high"),
	})
	pop.SetScore(0, 0.1)
	pop.SetScore(1, 0.9)
	return pop
}

func (s *countingSearcher) Best() (core.Solution, float64) {
	return s.CurrentPopulation().Best()
}

// countingRecorder tallies archive calls and can simulate failures.
type countingRecorder struct {
	begins, generations, populations, finishes int
	fail                                       bool
}

func (r *countingRecorder) err() error {
	if r.fail {
		return errors.New(errors.Unknown, "archive down")
	}
	return nil
}

func (r *countingRecorder) BeginRun(context.Context, string, string) error {
	r.begins++
	return r.err()
}

func (r *countingRecorder) RecordGeneration(context.Context, string, int, float64, core.Solution) error {
	r.generations++
	return r.err()
}

func (r *countingRecorder) RecordFinalPopulation(context.Context, string, []core.Solution, []float64) error {
	r.populations++
	return r.err()
}

func (r *countingRecorder) FinishRun(context.Context, string) error {
	r.finishes++
	return r.err()
}

func TestEvolverRunStepsEveryGeneration(t *testing.T) {
	searcher := &countingSearcher{}
	recorder := &countingRecorder{}
	e := NewEvolver(core.ModeFullRegeneration, searcher, WithRecorder(recorder))

	result, err := e.Run(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 5, searcher.advances)
	assert.Equal(t, 1, recorder.begins)
	assert.Equal(t, 5, recorder.generations)
	assert.Equal(t, 1, recorder.populations)
	assert.Equal(t, 1, recorder.finishes)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "high", result.Best.Solution.Text())
	assert.InDelta(t, 0.9, result.Best.Fitness, 1e-9)
	assert.Len(t, result.LastGeneration.Solutions, 2)
	assert.Len(t, result.LastGeneration.Scores, 2)
}

func TestEvolverRejectsNonPositiveGenerations(t *testing.T) {
	e := NewEvolver(core.ModeFullRegeneration, &countingSearcher{})
	_, err := e.Run(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.Code(err))
}

func TestEvolverStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	searcher := &countingSearcher{}
	e := NewEvolver(core.ModeFullRegeneration, searcher)
	_, err := e.Run(ctx, 3)

	require.Error(t, err)
	assert.Equal(t, errors.Canceled, errors.Code(err))
	assert.Zero(t, searcher.advances)
}

func TestEvolverSurvivesArchiveFailures(t *testing.T) {
	searcher := &countingSearcher{}
	recorder := &countingRecorder{fail: true}
	e := NewEvolver(core.ModeFullRegeneration, searcher, WithRecorder(recorder))

	result, err := e.Run(context.Background(), 2)
	require.NoError(t, err, "archive failures must not abort the search")
	assert.Equal(t, 2, searcher.advances)
	assert.Equal(t, "high", result.Best.Solution.Text())
}

func TestEvolverWithoutRecorder(t *testing.T) {
	searcher := &countingSearcher{}
	e := NewEvolver(core.ModeOperatorPipeline, searcher)

	result, err := e.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, searcher.advances)
	assert.NotNil(t, result)
}

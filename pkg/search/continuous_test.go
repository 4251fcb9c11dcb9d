package search

import (
	"context"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evomuse/evomuse/internal/testutil"
	"github.com/evomuse/evomuse/pkg/core"
	"github.com/evomuse/evomuse/pkg/oracle"
	"github.com/evomuse/evomuse/pkg/problem"
)

func newVectorProblem(t *testing.T, popSize int, scorer core.FitnessScorer) *problem.MusicSearchProblem {
	t.Helper()
	orc := &testutil.ScriptedOracle{Responses: []string{
		testutil.TagPrompts("a", "b", "c", "d", "e", "f"),
	}}
	gen := &testutil.StubGenerator{EmbeddingLen: 2}
	if scorer == nil {
		scorer = &testutil.StubScorer{}
	}
	prob, err := problem.New(problem.Config{
		Representation: core.RepresentationVector,
		PopulationSize: popSize,
		MaxSeqLen:      2,
	}, gen, scorer, oracle.NewPromptGenerator(orc, 5))
	require.NoError(t, err)
	return prob
}

func testContinuousConfig(popSize int) ContinuousConfig {
	cfg := DefaultContinuousConfig()
	cfg.PopulationSize = popSize
	cfg.TournamentSize = 2
	return cfg
}

func TestContinuousGAInitialGeneration(t *testing.T) {
	prob := newVectorProblem(t, 6, nil)
	ga, err := NewContinuousGA(testContinuousConfig(6), prob,
		WithContinuousRand(rand.New(rand.NewSource(1))))
	require.NoError(t, err)

	require.NoError(t, ga.AdvanceGeneration(context.Background()))

	assert.Equal(t, 1, ga.Generation())
	pop := ga.CurrentPopulation()
	require.Equal(t, 6, pop.Size())
	assert.True(t, pop.Evaluated())
	for i := 0; i < pop.Size(); i++ {
		assert.Equal(t, 4, pop.Solution(i).Len(), "vector length must be max_seq_len * embedding width")
	}
}

func TestContinuousGAPreservesSizeAndLengthAcrossGenerations(t *testing.T) {
	prob := newVectorProblem(t, 6, nil)
	ga, err := NewContinuousGA(testContinuousConfig(6), prob,
		WithContinuousRand(rand.New(rand.NewSource(2))))
	require.NoError(t, err)

	ctx := context.Background()
	for gen := 0; gen < 3; gen++ {
		require.NoError(t, ga.AdvanceGeneration(ctx))
	}

	assert.Equal(t, 3, ga.Generation())
	pop := ga.CurrentPopulation()
	require.Equal(t, 6, pop.Size())
	assert.True(t, pop.Evaluated())
	for i := 0; i < pop.Size(); i++ {
		assert.Equal(t, 4, pop.Solution(i).Len())
	}
}

func TestContinuousGAKeepsElitesByTrueMaximum(t *testing.T) {
	// Deterministic content-dependent scoring: elites re-evaluate to the
	// same fitness, so the population best can never regress.
	scorer := &testutil.StubScorer{
		ScoreFn: func(_ context.Context, artifactPath string) (float64, error) {
			data, err := os.ReadFile(artifactPath)
			if err != nil {
				return 0, err
			}
			sum := 0
			for _, b := range data {
				sum += int(b)
			}
			return float64(sum%97) / 97, nil
		},
	}
	prob := newVectorProblem(t, 6, scorer)

	cfg := testContinuousConfig(6)
	cfg.ElitismFraction = 0.5
	cfg.MutationRate = 0 // keep offspring deterministic apart from crossover
	ga, err := NewContinuousGA(cfg, prob, WithContinuousRand(rand.New(rand.NewSource(3))))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, ga.AdvanceGeneration(ctx))

	first := ga.CurrentPopulation()
	_, bestBefore := first.Best()

	require.NoError(t, ga.AdvanceGeneration(ctx))
	_, bestAfter := ga.CurrentPopulation().Best()

	// With elites retained the best fitness can never regress.
	assert.GreaterOrEqual(t, bestAfter, bestBefore)
}

func TestNewContinuousGAValidation(t *testing.T) {
	prob := newVectorProblem(t, 4, nil)

	cases := []struct {
		name   string
		mutate func(*ContinuousConfig)
	}{
		{"zero population", func(c *ContinuousConfig) { c.PopulationSize = 0 }},
		{"negative elitism", func(c *ContinuousConfig) { c.ElitismFraction = -0.1 }},
		{"oversized tournament", func(c *ContinuousConfig) { c.TournamentSize = 99 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testContinuousConfig(4)
			tc.mutate(&cfg)
			_, err := NewContinuousGA(cfg, prob)
			assert.Error(t, err)
		})
	}
}

func TestNewContinuousGARejectsTextProblem(t *testing.T) {
	orc := &testutil.ScriptedOracle{}
	prob, err := problem.New(problem.Config{
		Representation: core.RepresentationText,
		PopulationSize: 4,
	}, &testutil.StubGenerator{}, &testutil.StubScorer{}, oracle.NewPromptGenerator(orc, 5))
	require.NoError(t, err)

	_, err = NewContinuousGA(testContinuousConfig(4), prob)
	assert.Error(t, err)
}

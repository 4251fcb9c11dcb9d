package main

import (
	"context"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evomuse/evomuse/pkg/core"
)

func scoreSolution(t *testing.T, solution core.Solution) float64 {
	t.Helper()
	gen := &surrogateGenerator{}
	scorer := &surrogateScorer{}

	path, err := gen.Generate(context.Background(), solution, "surrogate_test")
	require.NoError(t, err)
	defer os.Remove(path)

	score, err := scorer.Score(context.Background(), path)
	require.NoError(t, err)
	return score
}

func TestSurrogateRewardsMusicalVocabulary(t *testing.T) {
	musical := scoreSolution(t, core.TextSolution(
		"A melancholic lofi piano ballad with slow drums and ambient strings"))
	generic := scoreSolution(t, core.TextSolution(
		"Some words that have nothing to do with the topic at hand here"))

	assert.Greater(t, musical, generic)
	assert.GreaterOrEqual(t, musical, -1.0)
	assert.LessOrEqual(t, musical, 1.0)
}

func TestSurrogateScoreIsDeterministic(t *testing.T) {
	prompt := core.TextSolution("upbeat jazz with energetic drums")
	assert.Equal(t, scoreSolution(t, prompt), scoreSolution(t, prompt))
}

func TestSurrogateVectorScoreTracksTarget(t *testing.T) {
	onTarget := make([]float64, 16)
	for i := range onTarget {
		onTarget[i] = math.Sin(float64(i) / 4)
	}
	offTarget := make([]float64, 16)
	for i := range offTarget {
		offTarget[i] = -math.Sin(float64(i) / 4)
	}

	assert.Greater(t,
		scoreSolution(t, core.VectorSolution(onTarget)),
		scoreSolution(t, core.VectorSolution(offTarget)))
	assert.InDelta(t, 1.0, scoreSolution(t, core.VectorSolution(onTarget)), 1e-9)
}

func TestSurrogateEmbeddingsAreStableAndSized(t *testing.T) {
	gen := &surrogateGenerator{}
	ctx := context.Background()

	first, err := gen.EmbedText(ctx, []string{"calm piano", "heavy metal"}, 4)
	require.NoError(t, err)
	second, err := gen.EmbedText(ctx, []string{"calm piano", "heavy metal"}, 4)
	require.NoError(t, err)

	require.Len(t, first, 2)
	for i := range first {
		assert.Len(t, first[i], 4*surrogateEmbeddingSize)
		assert.Equal(t, first[i], second[i])
	}
	assert.NotEqual(t, first[0], first[1])
}

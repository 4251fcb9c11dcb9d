package archive

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evomuse/evomuse/pkg/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestArchiveRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.BeginRun(ctx, "run-1", "full-regeneration"))
	require.NoError(t, store.RecordGeneration(ctx, "run-1", 1, 0.25, core.TextSolution("calm piano")))
	require.NoError(t, store.RecordGeneration(ctx, "run-1", 2, 0.75, core.TextSolution("upbeat jazz")))
	require.NoError(t, store.RecordFinalPopulation(ctx, "run-1",
		[]core.Solution{core.TextSolution("calm piano"), core.TextSolution("upbeat jazz")},
		[]float64{0.25, 0.75}))
	require.NoError(t, store.FinishRun(ctx, "run-1"))

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, "full-regeneration", runs[0].Mode)
	assert.True(t, runs[0].Finished)

	gens, err := store.Generations(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, gens, 2)
	assert.Equal(t, 1, gens[0].Generation)
	assert.InDelta(t, 0.25, gens[0].BestScore, 1e-9)
	assert.Equal(t, "calm piano", gens[0].BestSolution)
	assert.Equal(t, "upbeat jazz", gens[1].BestSolution)
}

func TestArchiveUnfinishedRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.BeginRun(ctx, "run-2", "operator-pipeline"))

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.False(t, runs[0].Finished)
}

func TestArchiveVectorSolutionEncoding(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.BeginRun(ctx, "run-3", "continuous"))
	require.NoError(t, store.RecordGeneration(ctx, "run-3", 1, 0.5,
		core.VectorSolution([]float64{0.1, 0.2})))

	gens, err := store.Generations(ctx, "run-3")
	require.NoError(t, err)
	require.Len(t, gens, 1)
	assert.JSONEq(t, "[0.1, 0.2]", gens[0].BestSolution)
}

func TestRecordFinalPopulationRejectsMismatchedLengths(t *testing.T) {
	store := newTestStore(t)
	err := store.RecordFinalPopulation(context.Background(), "run-4",
		[]core.Solution{core.TextSolution("a")}, []float64{0.1, 0.2})
	assert.Error(t, err)
}

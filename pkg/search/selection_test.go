package search

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgsortAscending(t *testing.T) {
	order := argsortAscending([]float64{0.3, -0.5, 0.9, 0.0})
	assert.Equal(t, []int{1, 3, 0, 2}, order)
}

func TestSampleReturnsLowestFitnessFirst(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(1)), 1.0, 2, false)
	prompts := []string{"a", "b", "c", "d"}
	fitness := []float64{0.5, -0.5, 1.0, 0.0}

	selected := s.Sample(prompts, fitness, 2, false)

	// Best-k selection sorts ascending and keeps the head, so the
	// lowest-scored prompts are retained.
	assert.Equal(t, []string{"b", "d"}, selected)
}

func TestSampleEdgeCounts(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(1)), 1.0, 2, false)
	prompts := []string{"a", "b"}
	fitness := []float64{0.1, 0.2}

	assert.Nil(t, s.Sample(prompts, fitness, 0, false))
	assert.Nil(t, s.Sample(prompts, fitness, -3, false))
	assert.Len(t, s.Sample(prompts, fitness, 10, false), 2)
}

func TestSoftmaxSampleFavorsDominantFitness(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(7)), 1.0, 2, true)
	prompts := []string{"weak", "strong", "weaker"}
	fitness := []float64{-100, 100, -100}

	for i := 0; i < 20; i++ {
		selected := s.Sample(prompts, fitness, 1, true)
		assert.Equal(t, []string{"strong"}, selected)
	}
}

func TestSoftmaxSampleWithoutReplacement(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(3)), 1.0, 2, true)
	prompts := []string{"a", "b", "c"}
	fitness := []float64{0.1, 0.2, 0.3}

	selected := s.Sample(prompts, fitness, 3, true)

	assert.Len(t, selected, 3)
	assert.ElementsMatch(t, prompts, selected)
}

func TestTournamentSelectsWithinSubset(t *testing.T) {
	prompts := []string{"a", "b", "c", "d"}
	fitness := []float64{0.4, -0.2, 0.9, 0.1}

	// Tournament over the whole population degenerates to global
	// selection, which under best-k keeps the lowest-scored member.
	s := NewSelector(rand.New(rand.NewSource(5)), 1.0, 4, false)
	selected := s.Tournament(prompts, fitness, 1)
	assert.Equal(t, []string{"b"}, selected)
}

func TestTournamentClampsSubsetSize(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(5)), 1.0, 10, false)
	selected := s.Tournament([]string{"a", "b"}, []float64{0.2, 0.1}, 2)
	assert.ElementsMatch(t, []string{"a", "b"}, selected)
}

package core

import (
	"context"
)

// Searcher is the generation-stepping contract shared by the text-mode
// engine and any continuous-vector backend. A first call to
// AdvanceGeneration generates and evaluates the initial population;
// subsequent calls apply the backend's stepping strategy. After every
// completed call the population has exactly its configured size and every
// member carries a fitness score.
type Searcher interface {
	// AdvanceGeneration advances the search by one generation.
	AdvanceGeneration(ctx context.Context) error

	// Best returns the best solution found in the current population by
	// true maximum fitness.
	Best() (Solution, float64)

	// CurrentPopulation returns the engine's canonical population. Callers
	// must treat it as read-only and use Snapshot for copies.
	CurrentPopulation() *Population
}

// Problem bridges abstract optimization and domain evaluation. It is the
// only component that talks to the artifact generator and fitness scorer.
type Problem interface {
	// GenerateInitial produces exactly n valid solutions. For the vector
	// representation, candidates whose embedding does not match the
	// required length are discarded and resampled.
	GenerateInitial(ctx context.Context, n int) (*Population, error)

	// Evaluate renders a solution into an artifact, scores it, and
	// returns the scalar fitness. Generation or scoring failures
	// propagate and are fatal to the calling generation step.
	Evaluate(ctx context.Context, solution Solution) (float64, error)

	// Representation reports the solution encoding of this problem.
	Representation() Representation

	// SolutionLength returns the required vector length for the vector
	// representation and 0 for text.
	SolutionLength() int
}

// ArtifactGenerator renders candidate solutions into artifacts (audio
// files on disk) and exposes the embedding geometry for vector-mode
// search. Implementations own the expensive, possibly slow generation
// step; calls block the calling goroutine.
type ArtifactGenerator interface {
	// Generate renders the solution and returns the artifact path.
	Generate(ctx context.Context, solution Solution, name string) (string, error)

	// EmbedText converts prompts into per-prompt flattened embeddings of
	// up to maxSeqLen sequence positions. Embeddings that do not reach
	// the full sequence length are returned as-is; callers filter them.
	EmbedText(ctx context.Context, prompts []string, maxSeqLen int) ([][]float64, error)

	// EmbeddingSize returns the width of a single embedding position.
	EmbeddingSize() int
}

// FitnessScorer turns a rendered artifact into a scalar fitness score.
type FitnessScorer interface {
	Score(ctx context.Context, artifactPath string) (float64, error)
}

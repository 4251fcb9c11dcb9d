// Package problem bridges abstract optimization and domain evaluation: it
// produces initial populations and turns candidate solutions into scored
// artifacts via the generator and scorer collaborators.
package problem

import (
	"context"
	"os"
	"time"

	"github.com/evomuse/evomuse/pkg/core"
	"github.com/evomuse/evomuse/pkg/errors"
	"github.com/evomuse/evomuse/pkg/logging"
	"github.com/evomuse/evomuse/pkg/oracle"
)

// intermediateArtifactName is the working name for per-evaluation renders;
// the artifact is deleted as soon as it has been scored.
const intermediateArtifactName = "music_intermediate"

// Config holds the solution-space geometry.
type Config struct {
	// Representation of candidate solutions.
	Representation core.Representation

	// PopulationSize sizes the per-pass progress accounting.
	PopulationSize int

	// MaxSeqLen is the embedding sequence length for the vector
	// representation; ignored for text.
	MaxSeqLen int
}

// MusicSearchProblem implements core.Problem for generative music: a
// solution is rendered to audio by the generator, scored by the fitness
// scorer, and the transient artifact is removed.
type MusicSearchProblem struct {
	cfg       Config
	generator core.ArtifactGenerator
	scorer    core.FitnessScorer
	prompts   *oracle.PromptGenerator
	progress  *ProgressTracker
	logger    *logging.Logger
}

// New builds the problem over its collaborators.
func New(cfg Config, generator core.ArtifactGenerator, scorer core.FitnessScorer, prompts *oracle.PromptGenerator) (*MusicSearchProblem, error) {
	if cfg.PopulationSize <= 0 {
		return nil, errors.New(errors.ValidationFailed, "population size must be positive")
	}
	if cfg.Representation == core.RepresentationVector {
		if cfg.MaxSeqLen <= 0 {
			return nil, errors.New(errors.ValidationFailed, "max_seq_len must be positive for the vector representation")
		}
		if generator.EmbeddingSize() <= 0 {
			return nil, errors.New(errors.ValidationFailed, "generator reports a non-positive embedding size")
		}
	}
	return &MusicSearchProblem{
		cfg:       cfg,
		generator: generator,
		scorer:    scorer,
		prompts:   prompts,
		progress:  NewProgressTracker(cfg.PopulationSize),
		logger:    logging.GetLogger(),
	}, nil
}

// Representation implements core.Problem.
func (p *MusicSearchProblem) Representation() core.Representation {
	return p.cfg.Representation
}

// SolutionLength implements core.Problem.
func (p *MusicSearchProblem) SolutionLength() int {
	if p.cfg.Representation != core.RepresentationVector {
		return 0
	}
	return p.cfg.MaxSeqLen * p.generator.EmbeddingSize()
}

// Progress exposes the per-run progress tracker.
func (p *MusicSearchProblem) Progress() *ProgressTracker {
	return p.progress
}

// GenerateInitial implements core.Problem. Text mode assigns diverse
// oracle prompts directly; vector mode embeds the prompts and resamples
// until exactly n embeddings of the required length have been collected.
// No partial-length solution is ever admitted.
func (p *MusicSearchProblem) GenerateInitial(ctx context.Context, n int) (*core.Population, error) {
	p.logger.Info(ctx, "generating diverse prompts for the initial population of %d solutions", n)

	if p.cfg.Representation == core.RepresentationText {
		prompts, err := p.prompts.GenerateDiverse(ctx, n)
		if err != nil {
			return nil, err
		}
		solutions := make([]core.Solution, n)
		for i, prompt := range prompts {
			solutions[i] = core.TextSolution(prompt)
		}
		return core.NewPopulation(solutions), nil
	}

	wantLen := p.SolutionLength()
	solutions := make([]core.Solution, 0, n)
	for len(solutions) < n {
		prompts, err := p.prompts.GenerateDiverse(ctx, n)
		if err != nil {
			return nil, err
		}
		embeddings, err := p.generator.EmbedText(ctx, prompts, p.cfg.MaxSeqLen)
		if err != nil {
			return nil, errors.Wrap(err, errors.GenerationFailed, "failed to embed initial prompts")
		}
		for _, embedding := range embeddings {
			if len(embedding) != wantLen {
				p.logger.Debug(ctx, "discarding embedding of length %d (want %d)", len(embedding), wantLen)
				continue
			}
			solutions = append(solutions, core.VectorSolution(embedding))
			if len(solutions) == n {
				break
			}
		}
	}
	return core.NewPopulation(solutions), nil
}

// Evaluate implements core.Problem. The generated artifact is transient:
// it is removed from disk once scored. Timing is recorded for progress
// reporting only.
func (p *MusicSearchProblem) Evaluate(ctx context.Context, solution core.Solution) (float64, error) {
	start := time.Now()

	artifactPath, err := p.generator.Generate(ctx, solution, intermediateArtifactName)
	if err != nil {
		return 0, errors.Wrap(err, errors.GenerationFailed, "artifact generation failed")
	}

	score, err := p.scorer.Score(ctx, artifactPath)
	if err != nil {
		return 0, errors.Wrap(err, errors.EvaluationFailed, "fitness scoring failed")
	}

	if removeErr := os.Remove(artifactPath); removeErr != nil && !os.IsNotExist(removeErr) {
		p.logger.Warn(ctx, "failed to remove intermediate artifact %s: %v", artifactPath, removeErr)
	}

	progress := p.progress.Record(time.Since(start))
	p.logger.Info(ctx, "evaluated %d/%d ~ fitness %.2f ~ progress %s / %s ~ sample %.2fs",
		progress.Completed, progress.PassSize, score,
		progress.Elapsed.Round(time.Second), (progress.Elapsed + progress.Remaining).Round(time.Second),
		time.Since(start).Seconds())
	if progress.PassDone {
		p.logger.Info(ctx, "finished evaluation pass: total time %.2fs", progress.Elapsed.Seconds())
	}

	return score, nil
}

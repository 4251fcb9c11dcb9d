package core

import (
	"fmt"

	"github.com/evomuse/evomuse/pkg/errors"
)

// Representation identifies how candidate solutions are encoded. It is
// resolved once at construction time; engines never inspect mode strings
// at runtime.
type Representation int

const (
	// RepresentationText encodes a solution as an opaque prompt string.
	RepresentationText Representation = iota
	// RepresentationVector encodes a solution as a fixed-length embedding.
	RepresentationVector
)

func (r Representation) String() string {
	switch r {
	case RepresentationText:
		return "text"
	case RepresentationVector:
		return "vector"
	default:
		return fmt.Sprintf("representation(%d)", int(r))
	}
}

// Mode selects the stepping strategy for a run.
type Mode int

const (
	// ModeFullRegeneration regenerates the whole population from a ranked
	// feedback report each generation.
	ModeFullRegeneration Mode = iota
	// ModeOperatorPipeline evolves the population through a pipeline of
	// oracle-backed genetic operators.
	ModeOperatorPipeline
	// ModeContinuous optimizes fixed-length embedding vectors with a
	// population-based continuous backend.
	ModeContinuous
)

// ParseMode resolves a configuration mode name. Unknown names are a
// validation failure; there is no runtime fallback.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "full-regeneration":
		return ModeFullRegeneration, nil
	case "operator-pipeline":
		return ModeOperatorPipeline, nil
	case "continuous":
		return ModeContinuous, nil
	default:
		return 0, errors.WithFields(
			errors.New(errors.ValidationFailed, "unknown search mode"),
			errors.Fields{"mode": name})
	}
}

func (m Mode) String() string {
	switch m {
	case ModeFullRegeneration:
		return "full-regeneration"
	case ModeOperatorPipeline:
		return "operator-pipeline"
	case ModeContinuous:
		return "continuous"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Representation returns the solution encoding implied by the mode.
func (m Mode) Representation() Representation {
	if m == ModeContinuous {
		return RepresentationVector
	}
	return RepresentationText
}

// Solution is one candidate in the search space: either an opaque text
// prompt or a fixed-length real-valued vector. The zero value is an empty
// text solution.
type Solution struct {
	repr   Representation
	text   string
	vector []float64
}

// TextSolution wraps a prompt string as a Solution.
func TextSolution(prompt string) Solution {
	return Solution{repr: RepresentationText, text: prompt}
}

// VectorSolution wraps an embedding vector as a Solution. The caller
// retains no ownership: the slice is copied.
func VectorSolution(values []float64) Solution {
	v := make([]float64, len(values))
	copy(v, values)
	return Solution{repr: RepresentationVector, vector: v}
}

// Representation reports how the solution is encoded.
func (s Solution) Representation() Representation { return s.repr }

// Text returns the prompt string for text solutions, "" otherwise.
func (s Solution) Text() string { return s.text }

// Vector returns a copy of the embedding for vector solutions, nil
// otherwise.
func (s Solution) Vector() []float64 {
	if s.vector == nil {
		return nil
	}
	v := make([]float64, len(s.vector))
	copy(v, s.vector)
	return v
}

// Len returns the vector length for vector solutions and 0 for text.
func (s Solution) Len() int { return len(s.vector) }

// Clone returns an independent copy of the solution.
func (s Solution) Clone() Solution {
	if s.repr == RepresentationVector {
		return VectorSolution(s.vector)
	}
	return TextSolution(s.text)
}

func (s Solution) String() string {
	if s.repr == RepresentationVector {
		return fmt.Sprintf("vector[%d]", len(s.vector))
	}
	return s.text
}

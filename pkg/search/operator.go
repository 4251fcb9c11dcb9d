package search

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/evomuse/evomuse/pkg/errors"
	"github.com/evomuse/evomuse/pkg/logging"
	"github.com/evomuse/evomuse/pkg/oracle"
)

// OperatorConfig describes one stage of the genetic operator pipeline.
type OperatorConfig struct {
	// Input is the exact number of parent prompts the stage consumes.
	Input int `json:"input" yaml:"input" validate:"min=1"`

	// Output is the exact number of offspring prompts the stage emits.
	// Must not exceed Input so the pass-through degrade path can
	// subsample without replacement.
	Output int `json:"output" yaml:"output" validate:"min=1"`

	// Probability gates the stage with a single Bernoulli trial per
	// application. On failure the stage degrades to a uniform random
	// subsample of its input instead of querying the oracle.
	Probability float64 `json:"probability" yaml:"probability" validate:"min=0,max=1"`

	// Prompt is the oracle instruction template. The {prompts}
	// placeholder receives the numbered parent group.
	Prompt string `json:"prompt" yaml:"prompt" validate:"required"`
}

// Operator is a single probability-gated transformation of a parent group
// into an offspring group via the oracle.
type Operator struct {
	cfg     OperatorConfig
	prompts *oracle.PromptGenerator
	rng     *rand.Rand
	logger  *logging.Logger
}

// Apply transforms exactly cfg.Input prompts into exactly cfg.Output
// prompts. A failed Bernoulli trial returns a uniform subsample of the
// parents without replacement; a successful one queries the oracle until
// enough valid offspring have been parsed, truncating any surplus.
func (op *Operator) Apply(ctx context.Context, inputs []string) ([]string, error) {
	if len(inputs) != op.cfg.Input {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "operator input group size mismatch"),
			errors.Fields{"got": len(inputs), "want": op.cfg.Input})
	}

	if op.rng.Float64() >= op.cfg.Probability {
		perm := op.rng.Perm(len(inputs))
		out := make([]string, op.cfg.Output)
		for i := range out {
			out[i] = inputs[perm[i]]
		}
		return out, nil
	}

	var b strings.Builder
	for i, prompt := range inputs {
		fmt.Fprintf(&b, "\n%d. %s", i+1, prompt)
	}
	instruction := strings.ReplaceAll(op.cfg.Prompt, "{prompts}", b.String())

	return op.prompts.Collect(ctx, op.cfg.Output, func(int) string { return instruction })
}

// Pipeline chains operators so each stage consumes the previous stage's
// offspring group.
type Pipeline struct {
	stages []*Operator
}

// NewPipeline validates the stage configurations and binds them to the
// prompt generator. Arity chaining is checked at construction: stage i+1
// must consume exactly what stage i emits.
func NewPipeline(cfgs []OperatorConfig, prompts *oracle.PromptGenerator, rng *rand.Rand) (*Pipeline, error) {
	if len(cfgs) == 0 {
		return nil, errors.New(errors.ValidationFailed, "operator pipeline requires at least one stage")
	}

	stages := make([]*Operator, len(cfgs))
	for i, cfg := range cfgs {
		if cfg.Input <= 0 || cfg.Output <= 0 {
			return nil, errors.WithFields(
				errors.New(errors.ValidationFailed, "operator arities must be positive"),
				errors.Fields{"stage": i})
		}
		if cfg.Output > cfg.Input {
			return nil, errors.WithFields(
				errors.New(errors.ValidationFailed, "operator output arity exceeds input arity"),
				errors.Fields{"stage": i, "input": cfg.Input, "output": cfg.Output})
		}
		if cfg.Probability < 0 || cfg.Probability > 1 {
			return nil, errors.WithFields(
				errors.New(errors.ValidationFailed, "operator probability outside [0,1]"),
				errors.Fields{"stage": i, "probability": cfg.Probability})
		}
		if i > 0 && cfg.Input != cfgs[i-1].Output {
			return nil, errors.WithFields(
				errors.New(errors.ValidationFailed, "operator arities do not chain"),
				errors.Fields{"stage": i, "input": cfg.Input, "previous_output": cfgs[i-1].Output})
		}
		stages[i] = &Operator{
			cfg:     cfg,
			prompts: prompts,
			rng:     rng,
			logger:  logging.GetLogger(),
		}
	}
	return &Pipeline{stages: stages}, nil
}

// InputArity is the parent group size the first stage expects.
func (p *Pipeline) InputArity() int {
	return p.stages[0].cfg.Input
}

// OutputArity is the offspring group size the last stage emits.
func (p *Pipeline) OutputArity() int {
	return p.stages[len(p.stages)-1].cfg.Output
}

// Apply runs the parent group through every stage in sequence.
func (p *Pipeline) Apply(ctx context.Context, group []string) ([]string, error) {
	var err error
	for _, stage := range p.stages {
		group, err = stage.Apply(ctx, group)
		if err != nil {
			return nil, err
		}
	}
	return group, nil
}

// Package config loads and validates run configuration: defaults overlaid
// with a YAML file, checked structurally and then cross-field before any
// component is constructed.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/evomuse/evomuse/pkg/core"
	"github.com/evomuse/evomuse/pkg/errors"
	"github.com/evomuse/evomuse/pkg/oracle"
	"github.com/evomuse/evomuse/pkg/search"
)

// Archive configures run telemetry persistence.
type Archive struct {
	// Enabled switches archiving on. Default: false
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file. Default: evomuse.db
	Path string `json:"path" yaml:"path"`
}

// Logging configures log output.
type Logging struct {
	// Level is one of DEBUG, INFO, WARN, ERROR, FATAL. Default: INFO
	Level string `json:"level" yaml:"level"`

	// File adds a plain-text log file alongside console output.
	File string `json:"file" yaml:"file"`
}

// Config is the full run configuration.
type Config struct {
	// Mode selects the stepping strategy: "full-regeneration",
	// "operator-pipeline" or "continuous".
	Mode string `json:"mode" yaml:"mode" validate:"required"`

	// Generations to run. Default: 10
	Generations int `json:"generations" yaml:"generations" validate:"min=1"`

	// MaxSeqLen is the embedding sequence length for continuous mode.
	MaxSeqLen int `json:"max_seq_len" yaml:"max_seq_len"`

	Search     search.Config           `json:"search" yaml:"search"`
	Continuous search.ContinuousConfig `json:"continuous" yaml:"continuous"`
	Oracle     oracle.Config           `json:"oracle" yaml:"oracle"`
	Archive    Archive                 `json:"archive" yaml:"archive"`
	Logging    Logging                 `json:"logging" yaml:"logging"`
}

// Default returns the baseline configuration that YAML files overlay.
func Default() Config {
	return Config{
		Mode:        core.ModeFullRegeneration.String(),
		Generations: 10,
		MaxSeqLen:   16,
		Search:      search.DefaultConfig(),
		Continuous:  search.DefaultContinuousConfig(),
		Archive:     Archive{Path: "evomuse.db"},
		Logging:     Logging{Level: "INFO"},
	}
}

// DefaultOperators is the operator pipeline used when operator-pipeline
// mode is configured without an explicit stage list: a gated crossover of
// two parents followed by a gated mutation of the offspring.
func DefaultOperators() []search.OperatorConfig {
	return []search.OperatorConfig{
		{
			Input:       2,
			Output:      1,
			Probability: 0.9,
			Prompt: "Given the following music prompts:{prompts}\n" +
				"Generate 1 new prompt that combines the musical ideas of both.",
		},
		{
			Input:       1,
			Output:      1,
			Probability: 0.3,
			Prompt: "Given the following music prompt:{prompts}\n" +
				"Generate 1 variation that alters one musical aspect such as genre, mood, tempo or instrumentation.",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result. An
// empty path returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, errors.ResourceNotFound, "failed to read config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(err, errors.InvalidInput, "failed to parse config file")
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks structural constraints and the cross-field rules the
// struct tags cannot express. It also fills in the default operator
// pipeline when operator-pipeline mode has no explicit stages.
func (c *Config) Validate() error {
	mode, err := core.ParseMode(c.Mode)
	if err != nil {
		return err
	}

	if mode == core.ModeOperatorPipeline && len(c.Search.Operators) == 0 {
		c.Search.Operators = DefaultOperators()
	}

	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, errors.ValidationFailed, "invalid configuration")
	}

	switch mode.Representation() {
	case core.RepresentationText:
		s := c.Search
		if s.ElitismFraction+s.NoveltyFraction > 1 {
			return errors.New(errors.ValidationFailed, "elitism and novelty fractions must not sum above 1")
		}
		if s.TournamentSize > s.PopulationSize {
			return errors.WithFields(
				errors.New(errors.ValidationFailed, "tournament size exceeds population size"),
				errors.Fields{"tournament_size": s.TournamentSize, "population_size": s.PopulationSize})
		}
		if mode == core.ModeOperatorPipeline {
			if err := validateOperatorChain(s.Operators, s.TournamentSize); err != nil {
				return err
			}
		}
	case core.RepresentationVector:
		if c.MaxSeqLen <= 0 {
			return errors.New(errors.ValidationFailed, "max_seq_len must be positive for continuous mode")
		}
		if c.Continuous.TournamentSize > c.Continuous.PopulationSize {
			return errors.New(errors.ValidationFailed, "tournament size exceeds population size")
		}
	}
	return nil
}

// validateOperatorChain mirrors the pipeline constructor checks so a bad
// stage list is rejected at config time rather than at engine start.
func validateOperatorChain(ops []search.OperatorConfig, tournamentSize int) error {
	for i, op := range ops {
		if op.Input <= 0 || op.Output <= 0 {
			return errors.WithFields(
				errors.New(errors.ValidationFailed, "operator arities must be positive"),
				errors.Fields{"stage": i})
		}
		if op.Output > op.Input {
			return errors.WithFields(
				errors.New(errors.ValidationFailed, "operator output arity exceeds input arity"),
				errors.Fields{"stage": i})
		}
		if op.Probability < 0 || op.Probability > 1 {
			return errors.WithFields(
				errors.New(errors.ValidationFailed, "operator probability outside [0,1]"),
				errors.Fields{"stage": i})
		}
		if op.Prompt == "" {
			return errors.WithFields(
				errors.New(errors.ValidationFailed, "operator prompt template is empty"),
				errors.Fields{"stage": i})
		}
		if i > 0 && op.Input != ops[i-1].Output {
			return errors.WithFields(
				errors.New(errors.ValidationFailed, "operator arities do not chain"),
				errors.Fields{"stage": i, "input": op.Input, "previous_output": ops[i-1].Output})
		}
	}
	if ops[0].Input > tournamentSize {
		return errors.WithFields(
			errors.New(errors.ValidationFailed, "first operator input arity exceeds tournament size"),
			errors.Fields{"input_arity": ops[0].Input, "tournament_size": tournamentSize})
	}
	return nil
}

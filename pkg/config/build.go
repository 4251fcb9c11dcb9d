package config

import (
	"github.com/evomuse/evomuse/pkg/archive"
	"github.com/evomuse/evomuse/pkg/core"
	"github.com/evomuse/evomuse/pkg/logging"
	"github.com/evomuse/evomuse/pkg/oracle"
	"github.com/evomuse/evomuse/pkg/problem"
	"github.com/evomuse/evomuse/pkg/search"
)

// Runtime bundles the constructed components of a run. Close releases the
// archive store when one is attached.
type Runtime struct {
	Evolver *search.Evolver
	Problem *problem.MusicSearchProblem
	store   *archive.Store
}

// Close releases runtime resources.
func (r *Runtime) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}

// SetupLogging installs the global logger described by the configuration.
func SetupLogging(cfg Logging) error {
	outputs := []logging.Output{logging.NewConsoleOutput(true, logging.WithColor(true))}
	if cfg.File != "" {
		fileOut, err := logging.NewFileOutput(cfg.File)
		if err != nil {
			return err
		}
		outputs = append(outputs, fileOut)
	}
	logging.SetLogger(logging.NewLogger(logging.Config{
		Severity: logging.ParseSeverity(cfg.Level),
		Outputs:  outputs,
	}))
	return nil
}

// Build wires a validated configuration into a ready-to-run evolver. The
// artifact generator and fitness scorer are the caller's domain bindings;
// everything else comes from the configuration.
func Build(cfg Config, generator core.ArtifactGenerator, scorer core.FitnessScorer) (*Runtime, error) {
	mode, err := core.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	orc, err := oracle.New(cfg.Oracle)
	if err != nil {
		return nil, err
	}
	prompts := oracle.NewPromptGenerator(orc, cfg.Search.MaxParseRetries)

	popSize := cfg.Search.PopulationSize
	if mode == core.ModeContinuous {
		popSize = cfg.Continuous.PopulationSize
	}
	prob, err := problem.New(problem.Config{
		Representation: mode.Representation(),
		PopulationSize: popSize,
		MaxSeqLen:      cfg.MaxSeqLen,
	}, generator, scorer, prompts)
	if err != nil {
		return nil, err
	}

	var searcher core.Searcher
	switch mode {
	case core.ModeContinuous:
		searcher, err = search.NewContinuousGA(cfg.Continuous, prob)
	default:
		searcher, err = search.NewPromptSearcher(cfg.Search, mode, prob, orc)
	}
	if err != nil {
		return nil, err
	}

	rt := &Runtime{Problem: prob}
	var opts []search.EvolverOption
	if cfg.Archive.Enabled {
		store, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			return nil, err
		}
		rt.store = store
		opts = append(opts, search.WithRecorder(store))
	}
	rt.Evolver = search.NewEvolver(mode, searcher, opts...)
	return rt, nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evomuse/evomuse/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "full-regeneration", cfg.Mode)
	assert.Equal(t, 10, cfg.Generations)
	assert.Equal(t, 20, cfg.Search.PopulationSize)
	assert.False(t, cfg.Archive.Enabled)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoadOverlaysYAML(t *testing.T) {
	path := writeConfig(t, `
mode: operator-pipeline
generations: 3
search:
  population_size: 8
  elitism_fraction: 0.25
oracle:
  provider: openai
  model: gpt-4o-mini
archive:
  enabled: true
  path: runs.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "operator-pipeline", cfg.Mode)
	assert.Equal(t, 3, cfg.Generations)
	assert.Equal(t, 8, cfg.Search.PopulationSize)
	assert.InDelta(t, 0.25, cfg.Search.ElitismFraction, 1e-9)
	// Untouched fields keep their defaults.
	assert.InDelta(t, 0.1, cfg.Search.NoveltyFraction, 1e-9)
	assert.True(t, cfg.Archive.Enabled)
	assert.Equal(t, "runs.db", cfg.Archive.Path)
	// Operator-pipeline mode without stages gets the default pipeline.
	assert.NotEmpty(t, cfg.Search.Operators)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
	assert.Equal(t, errors.ResourceNotFound, errors.Code(err))
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	cfg := Default()
	cfg.Mode = "simulated-annealing"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, errors.ValidationFailed, errors.Code(err))
}

func TestValidateCrossFieldRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"fractions above one", func(c *Config) {
			c.Search.ElitismFraction = 0.6
			c.Search.NoveltyFraction = 0.6
		}},
		{"tournament exceeds population", func(c *Config) {
			c.Search.TournamentSize = c.Search.PopulationSize + 1
		}},
		{"zero generations", func(c *Config) {
			c.Generations = 0
		}},
		{"continuous without max_seq_len", func(c *Config) {
			c.Mode = "continuous"
			c.MaxSeqLen = 0
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateRejectsBrokenOperatorChain(t *testing.T) {
	cfg := Default()
	cfg.Mode = "operator-pipeline"
	cfg.Search.Operators = DefaultOperators()
	cfg.Search.Operators[1].Input = 3

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, errors.ValidationFailed, errors.Code(err))
}

func TestValidateRejectsOversizedOperatorInput(t *testing.T) {
	cfg := Default()
	cfg.Mode = "operator-pipeline"
	cfg.Search.TournamentSize = 1
	cfg.Search.Operators = DefaultOperators()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, errors.ValidationFailed, errors.Code(err))
}

func TestDefaultOperatorsChain(t *testing.T) {
	ops := DefaultOperators()
	require.Len(t, ops, 2)
	assert.Equal(t, ops[0].Output, ops[1].Input)
	for _, op := range ops {
		assert.Contains(t, op.Prompt, "{prompts}")
	}
}

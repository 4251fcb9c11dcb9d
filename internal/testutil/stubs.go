// Package testutil provides shared stub collaborators for package tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/evomuse/evomuse/pkg/core"
)

// ScriptedOracle replays canned responses in order, repeating the last one
// once the script runs out. It records every instruction it receives.
type ScriptedOracle struct {
	mu           sync.Mutex
	Responses    []string
	Instructions []string
}

func (o *ScriptedOracle) Query(ctx context.Context, instruction string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Instructions = append(o.Instructions, instruction)
	idx := len(o.Instructions) - 1
	if idx >= len(o.Responses) {
		idx = len(o.Responses) - 1
	}
	if idx < 0 {
		return ""
	}
	return o.Responses[idx]
}

// Calls returns how many times the oracle was queried.
func (o *ScriptedOracle) Calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.Instructions)
}

// TagPrompts wraps prompts in the oracle's response tag format.
func TagPrompts(prompts ...string) string {
	var b strings.Builder
	for _, p := range prompts {
		fmt.Fprintf(&b, "<prompt>%s</prompt>", p)
	}
	return b.String()
}

// StubGenerator is a configurable core.ArtifactGenerator. The zero value
// writes tiny artifact files to the OS temp dir and embeds prompts into
// constant-valued vectors of the full expected length.
type StubGenerator struct {
	mu            sync.Mutex
	GenerateFn    func(ctx context.Context, solution core.Solution, name string) (string, error)
	EmbedFn       func(ctx context.Context, prompts []string, maxSeqLen int) ([][]float64, error)
	EmbeddingLen  int // width of one embedding position; defaults to 4
	GenerateCalls int
}

func (g *StubGenerator) EmbeddingSize() int {
	if g.EmbeddingLen == 0 {
		return 4
	}
	return g.EmbeddingLen
}

func (g *StubGenerator) Generate(ctx context.Context, solution core.Solution, name string) (string, error) {
	g.mu.Lock()
	g.GenerateCalls++
	g.mu.Unlock()
	if g.GenerateFn != nil {
		return g.GenerateFn(ctx, solution, name)
	}
	path := filepath.Join(os.TempDir(), fmt.Sprintf("%s_%d.wav", name, os.Getpid()))
	if err := os.WriteFile(path, []byte(solution.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (g *StubGenerator) EmbedText(ctx context.Context, prompts []string, maxSeqLen int) ([][]float64, error) {
	if g.EmbedFn != nil {
		return g.EmbedFn(ctx, prompts, maxSeqLen)
	}
	out := make([][]float64, len(prompts))
	for i, prompt := range prompts {
		vec := make([]float64, maxSeqLen*g.EmbeddingSize())
		for j := range vec {
			vec[j] = float64(len(prompt)%7) / 10
		}
		out[i] = vec
	}
	return out, nil
}

// StubScorer is a configurable core.FitnessScorer. The zero value scores
// every artifact 0.5.
type StubScorer struct {
	mu         sync.Mutex
	ScoreFn    func(ctx context.Context, artifactPath string) (float64, error)
	ScoreCalls int
}

func (s *StubScorer) Score(ctx context.Context, artifactPath string) (float64, error) {
	s.mu.Lock()
	s.ScoreCalls++
	s.mu.Unlock()
	if s.ScoreFn != nil {
		return s.ScoreFn(ctx, artifactPath)
	}
	return 0.5, nil
}

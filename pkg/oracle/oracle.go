// Package oracle implements the text-generation oracle used to seed prompt
// populations and to power the genetic operators. Transport failures never
// surface to callers: a failed query degrades to a fixed fallback prompt.
package oracle

import (
	"context"
	"fmt"

	"github.com/evomuse/evomuse/pkg/errors"
	"github.com/evomuse/evomuse/pkg/logging"
)

// FallbackPrompt is substituted for the oracle's response whenever the
// transport fails. The search keeps moving on a degraded prompt instead of
// stalling on the network.
const FallbackPrompt = "A default music prompt."

// SystemPrompt pins the response contract: every produced prompt must be
// enclosed in <prompt> tags so it survives ParsePrompts.
const SystemPrompt = "You produce prompts used to generate music following the requests of the user. " +
	"You should always respond with the requested prompts by encasing each one of the **final** produced prompts " +
	"in <prompt> and </prompt> tags. Like the followings:\n" +
	" 1. <prompt> A music prompt. </prompt>\n" +
	" 2. <prompt> Another music prompt. </prompt>"

// Oracle is the text-generation collaborator. Query is guaranteed never to
// fail: transport errors are caught internally and replaced with
// FallbackPrompt.
type Oracle interface {
	Query(ctx context.Context, instruction string) string
}

// DefaultMaxRetries bounds the re-query loop for malformed responses. The
// policy is "keep asking until valid", so the bound is generous; it exists
// to turn a livelock into a reportable error when the oracle is embedded
// in a service.
const DefaultMaxRetries = 100

// PromptGenerator layers the parse/accumulate loops on top of a raw
// Oracle: it keeps querying until the requested number of valid tagged
// prompts has been collected, truncating any surplus from the final batch.
type PromptGenerator struct {
	oracle     Oracle
	maxRetries int
	logger     *logging.Logger
}

// NewPromptGenerator wraps an oracle. maxRetries <= 0 selects
// DefaultMaxRetries.
func NewPromptGenerator(oracle Oracle, maxRetries int) *PromptGenerator {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &PromptGenerator{
		oracle:     oracle,
		maxRetries: maxRetries,
		logger:     logging.GetLogger(),
	}
}

// Collect queries the oracle until exactly n valid prompts have been
// gathered. The instruction is rebuilt on every attempt with the number of
// prompts still missing, so templates can ask for exactly the remainder.
// n <= 0 returns nil without ever touching the oracle.
func (g *PromptGenerator) Collect(ctx context.Context, n int, instruction func(remaining int) string) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	prompts := make([]string, 0, n)
	for attempt := 0; attempt < g.maxRetries && len(prompts) < n; attempt++ {
		response := g.oracle.Query(ctx, instruction(n-len(prompts)))
		parsed := ParsePrompts(response)
		if len(parsed) == 0 {
			g.logger.Debug(ctx, "discarding malformed oracle response (attempt %d/%d)", attempt+1, g.maxRetries)
			continue
		}
		if remaining := n - len(prompts); len(parsed) > remaining {
			parsed = parsed[:remaining]
		}
		prompts = append(prompts, parsed...)
	}

	if len(prompts) < n {
		return nil, errors.WithFields(
			errors.New(errors.InvalidResponse, "oracle did not produce enough valid prompts"),
			errors.Fields{"wanted": n, "collected": len(prompts), "max_retries": g.maxRetries})
	}
	return prompts, nil
}

// GenerateDiverse requests n fresh prompts spanning multiple genres and
// moods, bypassing any existing population. Used both for initial
// population fill and for novelty injection.
func (g *PromptGenerator) GenerateDiverse(ctx context.Context, n int) ([]string, error) {
	return g.Collect(ctx, n, func(remaining int) string {
		return fmt.Sprintf(
			"Generate %d diverse prompts for generating music, they should span multiple genres, moods, ...",
			remaining)
	})
}

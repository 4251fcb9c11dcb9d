package search

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/evomuse/evomuse/pkg/core"
)

// evaluateAll assigns a fitness score to every member of the population.
// Concurrency 1 evaluates strictly in order; higher values fan out over a
// bounded worker pool. Per-solution fitness is order-independent, so the
// result is the same either way. The first evaluation error aborts the
// generation step.
func evaluateAll(ctx context.Context, prob core.Problem, pop *core.Population, concurrency int) error {
	if concurrency <= 1 {
		for i := 0; i < pop.Size(); i++ {
			score, err := prob.Evaluate(ctx, pop.Solution(i))
			if err != nil {
				return err
			}
			pop.SetScore(i, score)
		}
		return nil
	}

	var mu sync.Mutex
	var firstErr error
	p := pool.New().WithMaxGoroutines(concurrency)
	for i := 0; i < pop.Size(); i++ {
		i := i
		p.Go(func() {
			score, err := prob.Evaluate(ctx, pop.Solution(i))
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			pop.SetScore(i, score)
		})
	}
	p.Wait()
	return firstErr
}

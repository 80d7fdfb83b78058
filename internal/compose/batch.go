// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"context"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/shenlun/pkg/types"
)

// maxParallel bounds the number of essays generated at once.
const maxParallel = 8

// BatchOptions controls a multi-essay generation run.
type BatchOptions struct {
	Theme  string
	Length int

	// Count is the number of essays to generate; values below 1 mean 1.
	Count int

	// Seed is the base seed. Essay i uses its own PCG stream (Seed, i),
	// so results are reproducible per index regardless of scheduling.
	Seed uint64
}

// NewRand returns the random source used for essay index i under seed.
func NewRand(seed uint64, i int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(i)))
}

// Batch generates opts.Count essays in parallel. Each essay gets its own
// random source, so no state is shared between goroutines. The first error
// cancels the remaining work.
func (g *Generator) Batch(ctx context.Context, opts BatchOptions) ([]types.Essay, error) {
	count := max(opts.Count, 1)
	essays := make([]types.Essay, count)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxParallel)
	for i := range count {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			essay, err := g.Compose(NewRand(opts.Seed, i), opts.Theme, opts.Length)
			if err != nil {
				return fmt.Errorf("essay %d: %w", i+1, err)
			}
			essays[i] = essay
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return essays, nil
}

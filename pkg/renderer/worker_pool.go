package renderer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// TileFunc renders one tile and returns its stats
type TileFunc func(tile *Tile) RenderStats

// WorkerPool renders tiles in parallel on a bounded number of goroutines
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Run renders every tile with fn and returns per-tile stats indexed by tile
// position. Cancellation is checked before each tile starts; a tile that has
// started always finishes.
func (wp *WorkerPool) Run(ctx context.Context, tiles []*Tile, fn TileFunc) ([]RenderStats, error) {
	results := make([]RenderStats, len(tiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	for i, tile := range tiles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Each goroutine owns results[i]
			results[i] = fn(tile)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

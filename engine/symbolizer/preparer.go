package symbolizer

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"
)

// Preparer computes drawing instructions for many symbolizers in parallel.
// Preparation only reads the immutable snapshot, so symbolizers are independent; drawing
// the results stays sequential on the caller's goroutine.
type Preparer struct {
	pool    worker.DynamicWorkerPool
	workers int
	cache   *ExtentCache
	logger  *zap.Logger
}

// NewPreparer creates a Preparer with one worker per spare CPU.
//
// Parameters:
//   - options: functional options to configure the preparer
//
// Returns:
//   - *Preparer: the preparer
func NewPreparer(options ...PreparerBuilderOption) *Preparer {
	p := &Preparer{
		workers: max(runtime.NumCPU()-1, 1),
		logger:  zap.NewNop(),
	}
	for _, option := range options {
		option(p)
	}
	p.pool = worker.NewDynamicWorkerPool(p.workers, 256, 1*time.Second)
	return p
}

// Workers returns the configured worker count.
func (p *Preparer) Workers() int {
	return p.workers
}

// Prepare prepares every symbolizer for ctx. The result keeps the input order.
//
// Parameters:
//   - symbolizers: the symbolizers to prepare
//   - ctx: the render context shared by all of them
//
// Returns:
//   - []Prepared: one entry per symbolizer
func (p *Preparer) Prepare(symbolizers []*PointSymbolizer, ctx RenderContext) []Prepared {
	out := make([]Prepared, len(symbolizers))
	if len(symbolizers) == 0 {
		return out
	}

	// the pool's own Wait blocks until workers idle out, so each batch gets its own barrier
	var wg sync.WaitGroup
	for i, s := range symbolizers {
		wg.Add(1)
		idx, sym := i, s
		p.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				out[idx] = p.prepare(sym, ctx)
				return nil, nil
			},
		})
	}
	wg.Wait()

	p.logger.Debug("symbolizers prepared",
		zap.Int("count", len(symbolizers)),
		zap.Uint64("version", ctx.Snapshot.Version()),
	)
	return out
}

func (p *Preparer) prepare(s *PointSymbolizer, ctx RenderContext) Prepared {
	extent, ok := p.cache.Extent(s, ctx)
	return Prepared{
		Symbolizer: s,
		Extent:     extent,
		HasExtent:  ok,
		Points:     s.ContainerPoints(ctx),
		Rotations:  s.Rotations(ctx),
	}
}

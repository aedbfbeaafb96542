package symbolizer

import "go.uber.org/zap"

// PreparerBuilderOption is a functional option applied to a Preparer during construction via NewPreparer.
type PreparerBuilderOption func(*Preparer)

// WithWorkers sets the number of pool workers. Values below 1 are ignored.
//
// Parameters:
//   - n: worker count
//
// Returns:
//   - PreparerBuilderOption: a function that sets the worker count
func WithWorkers(n int) PreparerBuilderOption {
	return func(p *Preparer) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithExtentCache reuses extents across passes that share a view state.
//
// Parameters:
//   - c: the extent cache
//
// Returns:
//   - PreparerBuilderOption: a function that sets the cache
func WithExtentCache(c *ExtentCache) PreparerBuilderOption {
	return func(p *Preparer) {
		p.cache = c
	}
}

// WithLogger sets the logger for preparation diagnostics.
func WithLogger(l *zap.Logger) PreparerBuilderOption {
	return func(p *Preparer) {
		if l != nil {
			p.logger = l
		}
	}
}

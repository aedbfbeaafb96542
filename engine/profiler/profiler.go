package profiler

import (
	"time"

	"github.com/rcrowley/go-metrics"
	"go.uber.org/zap"
)

const (
	// MetricMatrixRebuild counts genuine camera matrix recomputations.
	MetricMatrixRebuild = "camera.matrix.rebuild"
	// MetricRenderPass counts full layer re-render passes.
	MetricRenderPass = "view.render.pass"
	// MetricRenderDuration times full layer re-render passes.
	MetricRenderDuration = "view.render.duration"
)

// Profiler tracks matrix rebuilds and render passes for performance monitoring.
// A nil *Profiler is valid and records nothing, so components can hold one unconditionally.
type Profiler struct {
	registry    metrics.Registry
	rebuilds    metrics.Counter
	renders     metrics.Counter
	renderTimer metrics.Timer
	logger      *zap.Logger
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithRegistry records into an existing go-metrics registry instead of a private one.
//
// Parameters:
//   - r: the registry to register metrics with
//
// Returns:
//   - ProfilerOption: option function to apply
func WithRegistry(r metrics.Registry) ProfilerOption {
	return func(p *Profiler) {
		p.registry = r
	}
}

// WithLogger sets the logger used by Report.
//
// Parameters:
//   - l: the zap logger
//
// Returns:
//   - ProfilerOption: option function to apply
func WithLogger(l *zap.Logger) ProfilerOption {
	return func(p *Profiler) {
		p.logger = l
	}
}

// NewProfiler creates a new Profiler with a private registry and a no-op logger.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		registry: metrics.NewRegistry(),
		logger:   zap.NewNop(),
	}
	for _, option := range options {
		option(p)
	}
	p.rebuilds = metrics.GetOrRegisterCounter(MetricMatrixRebuild, p.registry)
	p.renders = metrics.GetOrRegisterCounter(MetricRenderPass, p.registry)
	p.renderTimer = metrics.GetOrRegisterTimer(MetricRenderDuration, p.registry)
	return p
}

// MatrixRebuilt records one camera matrix recomputation.
func (p *Profiler) MatrixRebuilt() {
	if p == nil {
		return
	}
	p.rebuilds.Inc(1)
}

// RenderPass records one full re-render and how long it took.
//
// Parameters:
//   - d: wall time spent rendering every layer
func (p *Profiler) RenderPass(d time.Duration) {
	if p == nil {
		return
	}
	p.renders.Inc(1)
	p.renderTimer.Update(d)
}

// Rebuilds returns the number of matrix recomputations recorded so far.
func (p *Profiler) Rebuilds() int64 {
	if p == nil {
		return 0
	}
	return p.rebuilds.Count()
}

// Renders returns the number of render passes recorded so far.
func (p *Profiler) Renders() int64 {
	if p == nil {
		return 0
	}
	return p.renders.Count()
}

// Registry exposes the underlying go-metrics registry, e.g. for exporters.
func (p *Profiler) Registry() metrics.Registry {
	if p == nil {
		return nil
	}
	return p.registry
}

// Report logs the current counters and render timing at info level.
func (p *Profiler) Report() {
	if p == nil {
		return
	}
	t := p.renderTimer.Snapshot()
	p.logger.Info("view profile",
		zap.Int64("matrix_rebuilds", p.rebuilds.Count()),
		zap.Int64("render_passes", p.renders.Count()),
		zap.Duration("render_mean", time.Duration(t.Mean())),
		zap.Duration("render_max", time.Duration(t.Max())),
	)
}

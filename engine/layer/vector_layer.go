package layer

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-map/engine/symbolizer"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrNilSurface is returned when a layer is rendered without a surface.
var ErrNilSurface = errors.New("layer: nil surface")

// RenderStats counts what the last render pass of a layer did.
type RenderStats struct {
	// Drawn is the number of symbolizers drawn.
	Drawn int
	// CulledViewport is the number skipped because their extent missed the viewport.
	CulledViewport int
	// CulledFrustum is the number skipped because no anchor was inside the view frustum.
	CulledFrustum int
}

type vectorLayerImpl struct {
	mu *sync.Mutex

	id          string
	visible     bool
	symbolizers []*symbolizer.PointSymbolizer
	preparer    *symbolizer.Preparer
	stats       RenderStats
	logger      *zap.Logger
}

// VectorLayer draws point symbolizers, skipping those that cannot appear on screen.
type VectorLayer interface {
	Layer

	// SetVisible shows or hides the layer.
	//
	// Parameters:
	//   - visible: whether the layer takes part in render passes
	SetVisible(visible bool)

	// Add appends symbolizers; they draw in insertion order.
	//
	// Parameters:
	//   - symbolizers: the symbolizers to add
	Add(symbolizers ...*symbolizer.PointSymbolizer)

	// Symbolizers returns a copy of the layer's symbolizers.
	//
	// Returns:
	//   - []*symbolizer.PointSymbolizer: the symbolizers
	Symbolizers() []*symbolizer.PointSymbolizer

	// Clear removes every symbolizer.
	Clear()

	// Stats returns the counters of the last render pass.
	//
	// Returns:
	//   - RenderStats: the counters
	Stats() RenderStats
}

var _ VectorLayer = &vectorLayerImpl{}

// NewVectorLayer creates a visible, empty VectorLayer.
//
// Parameters:
//   - id: the unique layer id
//   - options: functional options to configure the layer
//
// Returns:
//   - VectorLayer: the layer
func NewVectorLayer(id string, options ...VectorLayerBuilderOption) VectorLayer {
	l := &vectorLayerImpl{
		mu:      &sync.Mutex{},
		id:      id,
		visible: true,
		logger:  zap.NewNop(),
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *vectorLayerImpl) ID() string {
	return l.id
}

func (l *vectorLayerImpl) Visible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visible
}

func (l *vectorLayerImpl) SetVisible(visible bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visible = visible
}

func (l *vectorLayerImpl) Add(symbolizers ...*symbolizer.PointSymbolizer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range symbolizers {
		if s != nil {
			l.symbolizers = append(l.symbolizers, s)
		}
	}
}

func (l *vectorLayerImpl) Symbolizers() []*symbolizer.PointSymbolizer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*symbolizer.PointSymbolizer(nil), l.symbolizers...)
}

func (l *vectorLayerImpl) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.symbolizers = nil
}

func (l *vectorLayerImpl) Stats() RenderStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Render prepares every symbolizer, culls and draws the rest in order.
// In perspective mode a symbolizer needs at least one anchor inside the view frustum;
// anchors past the far plane would otherwise project onto the sky.
func (l *vectorLayerImpl) Render(ctx symbolizer.RenderContext, surface symbolizer.Surface) error {
	if surface == nil {
		return errors.Wrap(ErrNilSurface, l.id)
	}
	syms := l.Symbolizers()

	var stats RenderStats
	visible := make([]*symbolizer.PointSymbolizer, 0, len(syms))
	for _, s := range syms {
		if !ctx.Sprite && !ctx.Snapshot.IsFlat() && !anyInFrustum(s, ctx) {
			stats.CulledFrustum++
			continue
		}
		visible = append(visible, s)
	}

	var prepared []symbolizer.Prepared
	if l.preparer != nil {
		prepared = l.preparer.Prepare(visible, ctx)
	} else {
		prepared = make([]symbolizer.Prepared, len(visible))
		for i, s := range visible {
			prepared[i] = s.Prepare(ctx)
		}
	}

	viewport := ctx.Snapshot.ContainerExtent()
	for _, p := range prepared {
		if !p.HasExtent || (!ctx.Sprite && !p.Extent.Intersects(viewport)) {
			stats.CulledViewport++
			continue
		}
		p.Draw(surface)
		stats.Drawn++
	}

	l.mu.Lock()
	l.stats = stats
	l.mu.Unlock()

	l.logger.Debug("layer rendered",
		zap.String("layer", l.id),
		zap.Int("drawn", stats.Drawn),
		zap.Int("culled_viewport", stats.CulledViewport),
		zap.Int("culled_frustum", stats.CulledFrustum),
	)
	return nil
}

func anyInFrustum(s *symbolizer.PointSymbolizer, ctx symbolizer.RenderContext) bool {
	for _, rp := range s.RenderPoints() {
		if ctx.Snapshot.InFrustumAtZoom(rp.Point, s.Feature.Zoom) {
			return true
		}
	}
	return false
}

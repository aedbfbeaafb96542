package layer

import (
	"github.com/Carmen-Shannon/oxy-map/engine/symbolizer"
	"go.uber.org/zap"
)

// VectorLayerBuilderOption is a functional option applied to a VectorLayer during construction via NewVectorLayer.
type VectorLayerBuilderOption func(*vectorLayerImpl)

// WithSymbolizers sets the initial symbolizers.
func WithSymbolizers(symbolizers ...*symbolizer.PointSymbolizer) VectorLayerBuilderOption {
	return func(l *vectorLayerImpl) {
		l.symbolizers = append(l.symbolizers, symbolizers...)
	}
}

// WithPreparer prepares symbolizers on a worker pool instead of inline.
//
// Parameters:
//   - p: the shared preparer
//
// Returns:
//   - VectorLayerBuilderOption: a function that sets the preparer
func WithPreparer(p *symbolizer.Preparer) VectorLayerBuilderOption {
	return func(l *vectorLayerImpl) {
		l.preparer = p
	}
}

// WithVisible sets the initial visibility.
func WithVisible(visible bool) VectorLayerBuilderOption {
	return func(l *vectorLayerImpl) {
		l.visible = visible
	}
}

// WithLogger sets the logger for render diagnostics.
func WithLogger(logger *zap.Logger) VectorLayerBuilderOption {
	return func(l *vectorLayerImpl) {
		if logger != nil {
			l.logger = logger
		}
	}
}

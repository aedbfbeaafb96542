package renderer

import (
	"image/color"

	"github.com/Carmen-Shannon/oxy-map/common"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithSize sets the initial raster surface size. Zero keeps the default. Ignored by the terminal backend.
//
// Parameters:
//   - width, height: surface size in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the size option to a renderer
func WithSize(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.width = common.Coalesce(width, r.width)
		r.height = common.Coalesce(height, r.height)
	}
}

// WithScreen draws the terminal backend onto an existing screen, e.g. a tcell simulation screen.
// The caller keeps ownership; Close does not finalize it.
//
// Parameters:
//   - s: an initialized tcell screen
//
// Returns:
//   - RendererBuilderOption: a function that applies the screen option to a renderer
func WithScreen(s tcell.Screen) RendererBuilderOption {
	return func(r *renderer) {
		r.screen = s
	}
}

// WithCellSize sets how many pixels one terminal cell covers.
//
// Parameters:
//   - width, height: cell size in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the cell size option to a renderer
func WithCellSize(width, height float64) RendererBuilderOption {
	return func(r *renderer) {
		if width > 0 && height > 0 {
			r.cellWidth = width
			r.cellHeight = height
		}
	}
}

// WithColors sets the raster background, marker and line colors. Nil values keep the defaults.
func WithColors(background, marker, line color.Color) RendererBuilderOption {
	return func(r *renderer) {
		if background != nil {
			r.background = background
		}
		if marker != nil {
			r.marker = marker
		}
		if line != nil {
			r.line = line
		}
	}
}

// WithLineWidth sets the raster stroke width in pixels.
func WithLineWidth(w float64) RendererBuilderOption {
	return func(r *renderer) {
		if w > 0 {
			r.lineWidth = w
		}
	}
}

// WithLogger sets the logger for renderer diagnostics.
func WithLogger(l *zap.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

package view

import (
	"github.com/Carmen-Shannon/oxy-map/common"
	"github.com/Carmen-Shannon/oxy-map/engine/crs"
	"github.com/Carmen-Shannon/oxy-map/engine/events"
	"github.com/Carmen-Shannon/oxy-map/engine/layer"
	"github.com/Carmen-Shannon/oxy-map/engine/profiler"
	"github.com/Carmen-Shannon/oxy-map/engine/renderer"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// ViewBuilderOption is a functional option for configuring a View.
// Use the With* functions to create options that are applied directly to the view instance.
type ViewBuilderOption func(*viewImpl)

// WithSize sets the viewport size. Defaults to the renderer's size, or 800x600.
//
// Parameters:
//   - width, height: viewport size in pixels
//
// Returns:
//   - ViewBuilderOption: option function to apply
func WithSize(width, height float64) ViewBuilderOption {
	return func(v *viewImpl) {
		v.pendingSize = &common.Size{Width: width, Height: height}
	}
}

// WithFov sets the initial field of view in degrees.
//
// Parameters:
//   - fov: field of view, clamped like SetFov
//
// Returns:
//   - ViewBuilderOption: option function to apply
func WithFov(fov float64) ViewBuilderOption {
	return func(v *viewImpl) {
		v.pendingFov = &fov
	}
}

// WithPitch sets the initial pitch in degrees. Requires a renderer that can rotate.
//
// Parameters:
//   - pitch: tilt, clamped like SetPitch
//
// Returns:
//   - ViewBuilderOption: option function to apply
func WithPitch(pitch float64) ViewBuilderOption {
	return func(v *viewImpl) {
		v.pendingPitch = &pitch
	}
}

// WithBearing sets the initial bearing in degrees. Requires a renderer that can rotate.
//
// Parameters:
//   - bearing: rotation, wrapped like SetBearing
//
// Returns:
//   - ViewBuilderOption: option function to apply
func WithBearing(bearing float64) ViewBuilderOption {
	return func(v *viewImpl) {
		v.pendingBearing = &bearing
	}
}

// WithCenter sets the initial center.
//
// Parameters:
//   - lonlat: lon/lat in degrees
//
// Returns:
//   - ViewBuilderOption: option function to apply
func WithCenter(lonlat orb.Point) ViewBuilderOption {
	return func(v *viewImpl) {
		v.pendingCenter = lonlat
	}
}

// WithZoom sets the initial zoom, clamped to the spatial reference's range.
func WithZoom(zoom float64) ViewBuilderOption {
	return func(v *viewImpl) {
		v.zoom = zoom
	}
}

// WithSpatialReference replaces the default EPSG:3857 spatial reference.
func WithSpatialReference(sr *crs.SpatialReference) ViewBuilderOption {
	return func(v *viewImpl) {
		if sr != nil {
			v.sr = sr
		}
	}
}

// WithRenderer sets the drawing surface.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - ViewBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) ViewBuilderOption {
	return func(v *viewImpl) {
		v.renderer = r
	}
}

// WithZoomState sets the zoom animation query consulted by the fov, pitch and bearing setters.
func WithZoomState(z ZoomState) ViewBuilderOption {
	return func(v *viewImpl) {
		v.zoomState = z
	}
}

// WithEmitter shares an event emitter with other components.
func WithEmitter(e events.Emitter) ViewBuilderOption {
	return func(v *viewImpl) {
		if e != nil {
			v.emitter = e
		}
	}
}

// WithBaseLayer sets the layer drawn first.
func WithBaseLayer(l layer.Layer) ViewBuilderOption {
	return func(v *viewImpl) {
		v.pendingBase = l
	}
}

// WithLayers registers overlays in order.
func WithLayers(layers ...layer.Layer) ViewBuilderOption {
	return func(v *viewImpl) {
		v.pendingLayers = append(v.pendingLayers, layers...)
	}
}

// WithContainerOffset sets the container position of the renderer's top-left corner.
func WithContainerOffset(offset orb.Point) ViewBuilderOption {
	return func(v *viewImpl) {
		v.containerOffset = offset
	}
}

// WithProfiler records matrix rebuilds and render passes into p.
func WithProfiler(p *profiler.Profiler) ViewBuilderOption {
	return func(v *viewImpl) {
		if p != nil {
			v.profiler = p
		}
	}
}

// WithLogger sets the logger. The camera and default renderer get named children of it.
func WithLogger(l *zap.Logger) ViewBuilderOption {
	return func(v *viewImpl) {
		if l != nil {
			v.logger = l
		}
	}
}

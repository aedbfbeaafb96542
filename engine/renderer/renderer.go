package renderer

import (
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/Carmen-Shannon/oxy-map/common"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrNotRaster is returned by image export on a backend that does not produce an image.
var ErrNotRaster = errors.New("renderer: backend does not produce an image")

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	logger      *zap.Logger

	// Pre-creation config collected from builder options
	width, height         int
	screen                tcell.Screen
	ownsScreen            bool
	cellWidth, cellHeight float64
	background            color.Color
	marker                color.Color
	line                  color.Color
	lineWidth             float64
}

// Renderer defines the interface for the drawing surface of a map view.
//
// Layers draw through it during a render pass. Transform calls are scoped with Save/Restore
// and compose so that later calls apply to coordinates first.
type Renderer interface {
	// Name returns the configuration name of the backend.
	//
	// Returns:
	//   - string: "raster" or "terminal"
	Name() string

	// BackendType returns the backend type the renderer was created with.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	BackendType() RendererBackendType

	// Capabilities reports what the backend can draw.
	//
	// Returns:
	//   - Capabilities: the backend capabilities
	Capabilities() Capabilities

	// Resize reconfigures the drawing surface for a new viewport size.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	Resize(width, height int)

	// Size returns the drawing surface size in pixels.
	//
	// Returns:
	//   - common.Size: the surface size
	Size() common.Size

	// Clear erases the surface and resets the transform.
	Clear()

	// Save pushes the current transform.
	Save()

	// Restore pops the transform pushed by the matching Save.
	Restore()

	// Translate moves the origin.
	//
	// Parameters:
	//   - x, y: offset in pixels
	Translate(x, y float64)

	// Rotate rotates about the current origin.
	//
	// Parameters:
	//   - angle: radians, clockwise on screen
	Rotate(angle float64)

	// DrawMarker draws a point symbol centered on (x, y) in the current transform.
	//
	// Parameters:
	//   - x, y: marker center
	//   - width, height: marker size in pixels
	DrawMarker(x, y, width, height float64)

	// DrawLine strokes a segment in the current transform.
	//
	// Parameters:
	//   - x0, y0: start point
	//   - x1, y1: end point
	DrawLine(x0, y0, x1, y1 float64)

	// Present flushes the frame to its destination.
	//
	// Returns:
	//   - error: an error if presenting fails
	Present() error

	// Image returns the current frame of a raster backend.
	//
	// Returns:
	//   - image.Image: the frame
	//   - bool: false for backends without an image
	Image() (image.Image, bool)

	// SavePNG writes the current frame of a raster backend to a file.
	//
	// Parameters:
	//   - path: destination file
	//
	// Returns:
	//   - error: ErrNotRaster or a write error
	SavePNG(path string) error

	// EncodePNG writes the current frame of a raster backend to w.
	//
	// Parameters:
	//   - w: destination writer
	//
	// Returns:
	//   - error: ErrNotRaster or a write error
	EncodePNG(w io.Writer) error

	// Close releases the backend. A terminal screen created by the renderer is finalized.
	Close()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified backend type.
// A terminal renderer without WithScreen opens the controlling terminal.
//
// Parameters:
//   - backendType: the type of drawing backend to use
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
//   - error: an error if the terminal cannot be opened
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		logger:      zap.NewNop(),
		width:       800,
		height:      600,
		cellWidth:   8,
		cellHeight:  16,
		background:  color.White,
		marker:      color.RGBA{R: 0xd0, G: 0x30, B: 0x30, A: 0xff},
		line:        color.RGBA{R: 0x50, G: 0x50, B: 0x50, A: 0xff},
		lineWidth:   1.5,
	}
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeTerminal:
		if r.screen == nil {
			s, err := tcell.NewScreen()
			if err != nil {
				return nil, errors.Wrap(err, "open terminal")
			}
			if err := s.Init(); err != nil {
				return nil, errors.Wrap(err, "init terminal")
			}
			r.screen = s
			r.ownsScreen = true
		}
		r.backend = newTerminalRendererBackend(r.screen, r.cellWidth, r.cellHeight)
	default:
		r.backend = newRasterRendererBackend(r.width, r.height, r.background, r.marker, r.line, r.lineWidth)
	}

	w, h := r.backend.Size()
	r.logger.Debug("renderer created",
		zap.Stringer("backend", backendType),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Bool("rotation", r.backend.Capabilities().Rotation),
	)
	return r, nil
}

func (r *renderer) Name() string {
	return r.backendType.String()
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) Capabilities() Capabilities {
	return r.backend.Capabilities()
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Configure(width, height)
}

func (r *renderer) Size() common.Size {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, h := r.backend.Size()
	return common.Size{Width: float64(w), Height: float64(h)}
}

func (r *renderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Clear()
}

func (r *renderer) Save() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Push()
}

func (r *renderer) Restore() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Pop()
}

func (r *renderer) Translate(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Translate(x, y)
}

func (r *renderer) Rotate(angle float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Rotate(angle)
}

func (r *renderer) DrawMarker(x, y, width, height float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.DrawMarker(x, y, width, height)
}

func (r *renderer) DrawLine(x0, y0, x1, y1 float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.DrawLine(x0, y0, x1, y1)
}

func (r *renderer) Present() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.Present()
}

func (r *renderer) Image() (image.Image, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.backend.(*rasterRendererBackend); ok {
		return b.image(), true
	}
	return nil, false
}

func (r *renderer) SavePNG(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.backend.(*rasterRendererBackend)
	if !ok {
		return ErrNotRaster
	}
	return errors.Wrapf(b.savePNG(path), "save %s", path)
}

func (r *renderer) EncodePNG(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.backend.(*rasterRendererBackend)
	if !ok {
		return ErrNotRaster
	}
	return errors.Wrap(b.encodePNG(w), "encode png")
}

func (r *renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ownsScreen && r.screen != nil {
		r.screen.Fini()
		r.screen = nil
	}
}

package renderer

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
)

// rasterRendererBackend draws into an in-memory RGBA image.
type rasterRendererBackend struct {
	ctx        *gg.Context
	background color.Color
	marker     color.Color
	line       color.Color
	lineWidth  float64
}

var _ RendererBackend = &rasterRendererBackend{}

func newRasterRendererBackend(width, height int, background, marker, line color.Color, lineWidth float64) *rasterRendererBackend {
	b := &rasterRendererBackend{
		background: background,
		marker:     marker,
		line:       line,
		lineWidth:  lineWidth,
	}
	b.Configure(width, height)
	return b
}

func (b *rasterRendererBackend) Capabilities() Capabilities {
	return Capabilities{Rotation: true}
}

// Configure replaces the drawing context. Previous content is discarded.
func (b *rasterRendererBackend) Configure(width, height int) {
	b.ctx = gg.NewContext(max(width, 1), max(height, 1))
	b.Clear()
}

func (b *rasterRendererBackend) Size() (int, int) {
	return b.ctx.Width(), b.ctx.Height()
}

func (b *rasterRendererBackend) Clear() {
	b.ctx.Identity()
	b.ctx.SetColor(b.background)
	b.ctx.Clear()
}

func (b *rasterRendererBackend) Push() {
	b.ctx.Push()
}

func (b *rasterRendererBackend) Pop() {
	b.ctx.Pop()
}

func (b *rasterRendererBackend) Translate(x, y float64) {
	b.ctx.Translate(x, y)
}

func (b *rasterRendererBackend) Rotate(angle float64) {
	b.ctx.Rotate(angle)
}

// DrawMarker fills an ellipse of the given size centered on (x, y).
func (b *rasterRendererBackend) DrawMarker(x, y, width, height float64) {
	b.ctx.SetColor(b.marker)
	b.ctx.DrawEllipse(x, y, width/2, height/2)
	b.ctx.Fill()
}

func (b *rasterRendererBackend) DrawLine(x0, y0, x1, y1 float64) {
	b.ctx.SetColor(b.line)
	b.ctx.SetLineWidth(b.lineWidth)
	b.ctx.DrawLine(x0, y0, x1, y1)
	b.ctx.Stroke()
}

func (b *rasterRendererBackend) Present() error {
	return nil
}

func (b *rasterRendererBackend) image() image.Image {
	return b.ctx.Image()
}

func (b *rasterRendererBackend) savePNG(path string) error {
	return b.ctx.SavePNG(path)
}

func (b *rasterRendererBackend) encodePNG(w io.Writer) error {
	return b.ctx.EncodePNG(w)
}

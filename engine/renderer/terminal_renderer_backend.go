package renderer

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
)

const (
	markerRune = '●'
	lineRune   = '·'
)

// terminalRendererBackend draws onto a tcell screen, one cell per cellWidth x cellHeight pixels.
// Positions follow the full transform, glyphs are never rotated.
type terminalRendererBackend struct {
	screen     tcell.Screen
	cellWidth  float64
	cellHeight float64
	marker     tcell.Style
	line       tcell.Style

	transform transformStack
}

var _ RendererBackend = &terminalRendererBackend{}

func newTerminalRendererBackend(screen tcell.Screen, cellWidth, cellHeight float64) *terminalRendererBackend {
	return &terminalRendererBackend{
		screen:     screen,
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		marker:     tcell.StyleDefault.Foreground(tcell.ColorRed),
		line:       tcell.StyleDefault.Foreground(tcell.ColorGray),
		transform:  newTransformStack(),
	}
}

func (b *terminalRendererBackend) Capabilities() Capabilities {
	return Capabilities{Rotation: false}
}

// Configure is a no-op; the terminal owns its size.
func (b *terminalRendererBackend) Configure(width, height int) {}

// Size returns the screen size in pixels.
func (b *terminalRendererBackend) Size() (int, int) {
	cols, rows := b.screen.Size()
	return int(float64(cols) * b.cellWidth), int(float64(rows) * b.cellHeight)
}

func (b *terminalRendererBackend) Clear() {
	b.transform.reset()
	b.screen.Clear()
}

func (b *terminalRendererBackend) Push() {
	b.transform.push()
}

func (b *terminalRendererBackend) Pop() {
	b.transform.pop()
}

func (b *terminalRendererBackend) Translate(x, y float64) {
	b.transform.current = b.transform.current.Translate(x, y)
}

func (b *terminalRendererBackend) Rotate(angle float64) {
	b.transform.current = b.transform.current.Rotate(angle)
}

func (b *terminalRendererBackend) DrawMarker(x, y, width, height float64) {
	px, py := b.transform.current.TransformPoint(x, y)
	b.setCell(px, py, markerRune, b.marker)
}

// DrawLine plots cells along the part of the segment that is on screen, one per cell step.
// Segments with a non-finite end are dropped.
func (b *terminalRendererBackend) DrawLine(x0, y0, x1, y1 float64) {
	ax, ay := b.transform.current.TransformPoint(x0, y0)
	bx, by := b.transform.current.TransformPoint(x1, y1)
	if !finite(ax, ay, bx, by) {
		return
	}

	cols, rows := b.screen.Size()
	screen := orb.Bound{Max: orb.Point{float64(cols) * b.cellWidth, float64(rows) * b.cellHeight}}
	for _, part := range clip.LineString(screen, orb.LineString{{ax, ay}, {bx, by}}) {
		if len(part) < 2 {
			continue
		}
		p, q := part[0], part[len(part)-1]
		steps := int(math.Max(math.Abs(q.X()-p.X())/b.cellWidth, math.Abs(q.Y()-p.Y())/b.cellHeight)) + 1
		steps = min(steps, cols+rows)
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			b.setCell(p.X()+(q.X()-p.X())*t, p.Y()+(q.Y()-p.Y())*t, lineRune, b.line)
		}
	}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (b *terminalRendererBackend) Present() error {
	b.screen.Show()
	return nil
}

func (b *terminalRendererBackend) setCell(px, py float64, r rune, style tcell.Style) {
	col := int(math.Floor(px / b.cellWidth))
	row := int(math.Floor(py / b.cellHeight))
	cols, rows := b.screen.Size()
	if col < 0 || row < 0 || col >= cols || row >= rows {
		return
	}
	b.screen.SetContent(col, row, r, nil, style)
}

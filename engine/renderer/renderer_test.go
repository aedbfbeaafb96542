package renderer

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var markerColor = color.RGBA{R: 255, A: 255}

// recordingScreen remembers the last rune written to each cell.
type recordingScreen struct {
	tcell.Screen
	cells map[[2]int]rune
}

func (s *recordingScreen) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	s.cells[[2]int{x, y}] = primary
	s.Screen.SetContent(x, y, primary, combining, style)
}

func newSimScreen(t *testing.T) *recordingScreen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, ss.Init())
	ss.SetSize(40, 20)
	return &recordingScreen{Screen: ss, cells: map[[2]int]rune{}}
}

func newRaster(t *testing.T) Renderer {
	t.Helper()
	r, err := NewRenderer(BackendTypeRaster, WithSize(100, 100), WithColors(color.White, markerColor, nil))
	require.NoError(t, err)
	return r
}

func pixel(t *testing.T, r Renderer, x, y int) color.RGBA {
	t.Helper()
	img, ok := r.Image()
	require.True(t, ok)
	cr, cg, cb, ca := img.At(x, y).RGBA()
	return color.RGBA{R: uint8(cr >> 8), G: uint8(cg >> 8), B: uint8(cb >> 8), A: uint8(ca >> 8)}
}

func TestParseBackendType(t *testing.T) {
	bt, ok := ParseBackendType("terminal")
	assert.True(t, ok)
	assert.Equal(t, BackendTypeTerminal, bt)
	assert.Equal(t, "terminal", bt.String())

	bt, ok = ParseBackendType("")
	assert.True(t, ok)
	assert.Equal(t, BackendTypeRaster, bt)

	_, ok = ParseBackendType("webgl")
	assert.False(t, ok)
}

func TestRasterCapabilities(t *testing.T) {
	r := newRaster(t)
	assert.True(t, r.Capabilities().Rotation)
	assert.Equal(t, "raster", r.Name())
	assert.Equal(t, 100.0, r.Size().Width)
}

func TestRasterDrawMarker(t *testing.T) {
	r := newRaster(t)
	r.DrawMarker(20, 30, 6, 6)

	assert.Equal(t, markerColor, pixel(t, r, 20, 30))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, pixel(t, r, 60, 60))
}

func TestRasterRotateAboutOrigin(t *testing.T) {
	r := newRaster(t)
	r.Save()
	r.Translate(50, 50)
	r.Rotate(math.Pi / 2)
	r.DrawMarker(20, 0, 6, 6)
	r.Restore()

	// (20, 0) turned a quarter clockwise lands 20px below the origin
	assert.Equal(t, markerColor, pixel(t, r, 50, 70))
	assert.NotEqual(t, markerColor, pixel(t, r, 70, 50))

	// restored transform draws untranslated
	r.DrawMarker(5, 5, 4, 4)
	assert.Equal(t, markerColor, pixel(t, r, 5, 5))
}

func TestRasterResizeAndEncode(t *testing.T) {
	r := newRaster(t)
	r.Resize(32, 16)
	assert.Equal(t, 32.0, r.Size().Width)
	assert.Equal(t, 16.0, r.Size().Height)

	var buf bytes.Buffer
	require.NoError(t, r.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
}

func TestTerminalRenderer(t *testing.T) {
	screen := newSimScreen(t)
	r, err := NewRenderer(BackendTypeTerminal, WithScreen(screen), WithCellSize(10, 10))
	require.NoError(t, err)
	defer r.Close()

	assert.False(t, r.Capabilities().Rotation)
	assert.Equal(t, 400.0, r.Size().Width)
	assert.Equal(t, 200.0, r.Size().Height)

	r.Save()
	r.Translate(100, 50)
	r.DrawMarker(5, 5, 4, 4)
	r.Restore()
	r.DrawMarker(5, 5, 4, 4)
	require.NoError(t, r.Present())

	assert.Equal(t, markerRune, screen.cells[[2]int{10, 5}])
	assert.Equal(t, markerRune, screen.cells[[2]int{0, 0}])

	// off-screen markers are dropped
	r.DrawMarker(-50, 5000, 4, 4)
	assert.Len(t, screen.cells, 2)
}

func TestTerminalHasNoImage(t *testing.T) {
	r, err := NewRenderer(BackendTypeTerminal, WithScreen(newSimScreen(t)))
	require.NoError(t, err)

	_, ok := r.Image()
	assert.False(t, ok)
	assert.ErrorIs(t, r.SavePNG("out.png"), ErrNotRaster)
}

func TestTerminalLine(t *testing.T) {
	screen := newSimScreen(t)
	r, err := NewRenderer(BackendTypeTerminal, WithScreen(screen), WithCellSize(10, 10))
	require.NoError(t, err)

	r.DrawLine(0, 5, 95, 5)
	for col := 0; col <= 9; col++ {
		assert.Equal(t, lineRune, screen.cells[[2]int{col, 0}], "col %d", col)
	}
}

func TestTerminalLineFarOffScreen(t *testing.T) {
	screen := newSimScreen(t)
	r, err := NewRenderer(BackendTypeTerminal, WithScreen(screen), WithCellSize(10, 10))
	require.NoError(t, err)

	// only the on-screen part is walked, so this returns promptly
	r.DrawLine(-1e15, 5, 1e15, 5)
	assert.Len(t, screen.cells, 40)
	for col := 0; col < 40; col++ {
		assert.Equal(t, lineRune, screen.cells[[2]int{col, 0}], "col %d", col)
	}

	screen.cells = map[[2]int]rune{}
	r.DrawLine(5, 5, math.Inf(1), 5)
	r.DrawLine(math.NaN(), 5, 5, 5)
	r.DrawLine(-100, -100, -50, -50)
	assert.Empty(t, screen.cells)
}

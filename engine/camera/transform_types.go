package camera

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"unsafe"

	"github.com/go-gl/mathgl/mgl64"
)

// CSSMatrix formats a column-major matrix as a CSS matrix3d() transform, the form DOM
// consumers of the camera matrix apply to a pre-positioned container.
//
// Parameters:
//   - m: the matrix
//
// Returns:
//   - string: "matrix3d(m0, m1, ..., m15)"
func CSSMatrix(m mgl64.Mat4) string {
	var b strings.Builder
	b.WriteString("matrix3d(")
	for i, v := range m {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	b.WriteByte(')')
	return b.String()
}

// MatrixUniform is the std430-aligned upload layout of the pixel matrix for renderers that
// draw through a GPU. Size: 64 bytes.
type MatrixUniform struct {
	PixelMatrix [16]float32 // offset 0: map-space to container pixels (mat4x4<f32>)
}

// NewMatrixUniform narrows a projection's pixel matrix to float32. Flat projections
// produce the identity.
//
// Parameters:
//   - p: the projection
//
// Returns:
//   - MatrixUniform: the uniform data
func NewMatrixUniform(p Projection) MatrixUniform {
	m := mgl64.Ident4()
	if pp, ok := p.(PerspectiveProjection); ok {
		m = pp.PixelMatrix
	}
	var u MatrixUniform
	for i, v := range m {
		u.PixelMatrix[i] = float32(v)
	}
	return u
}

// Size returns the size of the MatrixUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (u *MatrixUniform) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes the MatrixUniform struct into a little-endian byte buffer.
//
// Returns:
//   - []byte: the serialized byte buffer
func (u *MatrixUniform) Marshal() []byte {
	buf := make([]byte, u.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(u.PixelMatrix[i]))
	}
	return buf
}

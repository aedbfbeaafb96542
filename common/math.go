package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Identity returns the 4x4 identity matrix.
// All matrices in this package are stored in column-major order (OpenGL convention).
//
// Returns:
//   - mgl64.Mat4: the identity matrix
func Identity() mgl64.Mat4 {
	return mgl64.Ident4()
}

// Mul4 multiplies two 4x4 matrices.
// Result: a * b, so b is applied to a vector first.
//
// Parameters:
//   - a: left-hand matrix
//   - b: right-hand matrix
//
// Returns:
//   - mgl64.Mat4: the product a * b
func Mul4(a, b mgl64.Mat4) mgl64.Mat4 {
	return a.Mul4(b)
}

// Scale post-multiplies m by a scaling matrix.
//
// Parameters:
//   - m: the running matrix
//   - x, y, z: scale factors along each axis
//
// Returns:
//   - mgl64.Mat4: m * S(x, y, z)
func Scale(m mgl64.Mat4, x, y, z float64) mgl64.Mat4 {
	return m.Mul4(mgl64.Scale3D(x, y, z))
}

// Translate post-multiplies m by a translation matrix.
//
// Parameters:
//   - m: the running matrix
//   - x, y, z: translation components
//
// Returns:
//   - mgl64.Mat4: m * T(x, y, z)
func Translate(m mgl64.Mat4, x, y, z float64) mgl64.Mat4 {
	return m.Mul4(mgl64.Translate3D(x, y, z))
}

// RotateX post-multiplies m by a rotation about the X axis.
//
// Parameters:
//   - m: the running matrix
//   - rad: rotation angle in radians (counter-clockwise looking down +X)
//
// Returns:
//   - mgl64.Mat4: m * Rx(rad)
func RotateX(m mgl64.Mat4, rad float64) mgl64.Mat4 {
	return m.Mul4(mgl64.HomogRotate3DX(rad))
}

// RotateZ post-multiplies m by a rotation about the Z axis.
//
// Parameters:
//   - m: the running matrix
//   - rad: rotation angle in radians (counter-clockwise looking down +Z)
//
// Returns:
//   - mgl64.Mat4: m * Rz(rad)
func RotateZ(m mgl64.Mat4, rad float64) mgl64.Mat4 {
	return m.Mul4(mgl64.HomogRotate3DZ(rad))
}

// Perspective creates a perspective projection matrix.
// Uses the OpenGL clip space convention where depth maps to [-1, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl64.Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float64) mgl64.Mat4 {
	f := 1.0 / math.Tan(fovY/2.0)
	nf := 1.0 / (near - far)

	var out mgl64.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = (far + near) * nf
	out[11] = -1.0
	out[14] = 2 * far * near * nf
	return out
}

// Invert4 computes the inverse of a 4x4 column-major matrix using the Laplace
// expansion (cofactor) method. If the matrix is singular, or its determinant is
// not a finite number, the zero matrix is returned together with false.
//
// Parameters:
//   - m: source matrix
//
// Returns:
//   - mgl64.Mat4: the inverse of m
//   - bool: true if the matrix was successfully inverted, false if singular
func Invert4(m mgl64.Mat4) (mgl64.Mat4, bool) {
	// 2x2 sub-determinants of the upper-left and lower-right quadrants.
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return mgl64.Mat4{}, false
	}

	invDet := 1.0 / det

	var out mgl64.Mat4
	out[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * invDet
	out[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * invDet
	out[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * invDet
	out[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * invDet

	out[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * invDet
	out[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * invDet
	out[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * invDet
	out[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * invDet

	out[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * invDet
	out[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * invDet
	out[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * invDet
	out[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * invDet

	out[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * invDet
	out[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * invDet
	out[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * invDet
	out[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * invDet

	return out, true
}

// TransformVec4 applies m to a homogeneous 4-vector.
//
// Parameters:
//   - m: the transform
//   - v: the homogeneous vector
//
// Returns:
//   - mgl64.Vec4: m * v
func TransformVec4(m mgl64.Mat4, v mgl64.Vec4) mgl64.Vec4 {
	return m.Mul4x1(v)
}

// ProjectPoint transforms (x, y, z, 1) by m and performs the perspective divide.
//
// Parameters:
//   - m: the transform
//   - x, y, z: the Euclidean input point
//
// Returns:
//   - px, py, pz: the transformed point divided by w
//   - bool: false if the resulting w is zero and no divide was possible
func ProjectPoint(m mgl64.Mat4, x, y, z float64) (px, py, pz float64, ok bool) {
	v := m.Mul4x1(mgl64.Vec4{x, y, z, 1})
	w := v.W()
	if w == 0 {
		return v.X(), v.Y(), v.Z(), false
	}
	return v.X() / w, v.Y() / w, v.Z() / w, true
}

package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   [3]float64
	Distance float64
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustumFromMatrix extracts frustum planes from a projection matrix.
// For a map view this is the full map-space to clip-space matrix, so the planes
// come out in map-space coordinates.
// Uses the Gribb/Hartmann method for plane extraction.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - m: the clip matrix (column-major)
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustumFromMatrix(m mgl64.Mat4) Frustum {
	var f Frustum

	// For column-major matrix M, element M[row][col] is at index col*4 + row.
	row := func(r int) [4]float64 {
		return [4]float64{m[r], m[4+r], m[8+r], m[12+r]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	set := func(index int, a, b [4]float64, sign float64) {
		p := &f.Planes[index]
		p.Normal[0] = a[0] + sign*b[0]
		p.Normal[1] = a[1] + sign*b[1]
		p.Normal[2] = a[2] + sign*b[2]
		p.Distance = a[3] + sign*b[3]
	}

	set(FrustumLeft, r3, r0, 1)
	set(FrustumRight, r3, r0, -1)
	set(FrustumBottom, r3, r1, 1)
	set(FrustumTop, r3, r1, -1)
	set(FrustumNear, r3, r2, 1)
	set(FrustumFar, r3, r2, -1)

	for i := range f.Planes {
		f.normalizePlane(i)
	}

	return f
}

// ContainsPoint reports whether a point lies inside (or on) all six planes.
//
// Parameters:
//   - x, y, z: the point to test
//
// Returns:
//   - bool: true if the point is inside the frustum
func (f Frustum) ContainsPoint(x, y, z float64) bool {
	for _, p := range f.Planes {
		if p.Normal[0]*x+p.Normal[1]*y+p.Normal[2]*z+p.Distance < 0 {
			return false
		}
	}
	return true
}

// normalizePlane normalizes a frustum plane so that the normal has unit length.
func (f *Frustum) normalizePlane(index int) {
	p := &f.Planes[index]
	length := math.Sqrt(
		p.Normal[0]*p.Normal[0] +
			p.Normal[1]*p.Normal[1] +
			p.Normal[2]*p.Normal[2],
	)

	if length > 0 {
		invLen := 1.0 / length
		p.Normal[0] *= invLen
		p.Normal[1] *= invLen
		p.Normal[2] *= invLen
		p.Distance *= invLen
	}
}

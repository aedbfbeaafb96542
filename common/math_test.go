package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// toDense converts a column-major Mat4 into a row-major gonum matrix.
func toDense(m mgl64.Mat4) *mat.Dense {
	data := make([]float64, 16)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			data[r*4+c] = m[c*4+r]
		}
	}
	return mat.NewDense(4, 4, data)
}

func sampleMatrix() mgl64.Mat4 {
	m := Perspective(0.6435011087932844, 800.0/600.0, 1, 2000)
	m = Scale(m, 1, -1, 1)
	m = Translate(m, 0, 0, -1200)
	m = RotateX(m, mgl64.DegToRad(30))
	m = RotateZ(m, mgl64.DegToRad(-45))
	return Translate(m, -512, -384, 0)
}

func TestInvert4MatchesGonum(t *testing.T) {
	cases := map[string]mgl64.Mat4{
		"identity":    Identity(),
		"scale":       Scale(Identity(), 2, -3, 0.5),
		"translate":   Translate(Identity(), 10, -20, 5),
		"perspective": sampleMatrix(),
		"pixel":       Mul4(Translate(Scale(Identity(), 400, -300, 1), 1, -1, 0), sampleMatrix()),
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			got, ok := Invert4(m)
			require.True(t, ok)

			var want mat.Dense
			require.NoError(t, want.Inverse(toDense(m)))
			assert.True(t, mat.EqualApprox(toDense(got), &want, 1e-9), "inverse differs:\n%v\n%v",
				mat.Formatted(toDense(got)), mat.Formatted(&want))

			// m * m^-1 = I
			assert.True(t, Mul4(m, got).ApproxEqualThreshold(Identity(), 1e-9))
		})
	}
}

func TestInvert4Singular(t *testing.T) {
	_, ok := Invert4(mgl64.Mat4{})
	assert.False(t, ok)

	// two equal columns
	m := Identity()
	m[4], m[5], m[6], m[7] = m[0], m[1], m[2], m[3]
	inv, ok := Invert4(m)
	assert.False(t, ok)
	assert.Equal(t, mgl64.Mat4{}, inv)

	nan := Identity()
	nan[0] = math.NaN()
	_, ok = Invert4(nan)
	assert.False(t, ok)
}

func TestPostMultiplyOrder(t *testing.T) {
	// Translate then scale: the scale is applied to the point first.
	m := Translate(Identity(), 10, 0, 0)
	m = Scale(m, 2, 2, 2)
	x, y, _, ok := ProjectPoint(m, 1, 1, 0)
	require.True(t, ok)
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 2.0, y)

	r := RotateZ(Identity(), math.Pi/2)
	x, y, _, _ = ProjectPoint(r, 1, 0, 0)
	assert.InDelta(t, 0, x, 1e-12)
	assert.InDelta(t, 1, y, 1e-12)

	r = RotateX(Identity(), math.Pi/2)
	_, y, z, _ := ProjectPoint(r, 0, 1, 0)
	assert.InDelta(t, 0, y, 1e-12)
	assert.InDelta(t, 1, z, 1e-12)
}

func TestProjectPoint(t *testing.T) {
	m := Perspective(math.Pi/2, 1, 1, 100)

	// A point on the near plane maps to depth -1, one on the far plane to +1.
	_, _, z, ok := ProjectPoint(m, 0, 0, -1)
	require.True(t, ok)
	assert.InDelta(t, -1, z, 1e-12)
	_, _, z, _ = ProjectPoint(m, 0, 0, -100)
	assert.InDelta(t, 1, z, 1e-12)

	// w is -z, so z = 0 cannot be divided.
	_, _, _, ok = ProjectPoint(m, 5, 5, 0)
	assert.False(t, ok)

	v := TransformVec4(m, mgl64.Vec4{0, 0, -10, 1})
	assert.Equal(t, 10.0, v.W())
}

func TestFrustumContainsPoint(t *testing.T) {
	f := ExtractFrustumFromMatrix(Perspective(math.Pi/2, 1, 1, 100))

	assert.True(t, f.ContainsPoint(0, 0, -10))
	assert.True(t, f.ContainsPoint(9, 9, -10))
	assert.False(t, f.ContainsPoint(11, 0, -10), "right of the frustum")
	assert.False(t, f.ContainsPoint(0, 0, -0.5), "before the near plane")
	assert.False(t, f.ContainsPoint(0, 0, -101), "past the far plane")
	assert.False(t, f.ContainsPoint(0, 0, 10), "behind the eye")

	for _, p := range f.Planes {
		l := math.Sqrt(p.Normal[0]*p.Normal[0] + p.Normal[1]*p.Normal[1] + p.Normal[2]*p.Normal[2])
		assert.InDelta(t, 1, l, 1e-12)
	}
}

func TestWrap(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{90, 90},
		{180, 180},
		{-180, -180},
		{190, -170},
		{-190, 170},
		{360, 0},
		{540, -180},
		{-725, -5},
		{1e300, math.Mod(1e300+180, 360) - 180},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, Wrap(c.in, -180, 180), 1e-9, "Wrap(%v)", c.in)
	}
}

func TestClampAndCoalesce(t *testing.T) {
	assert.Equal(t, 60.0, Clamp(75.0, 0, 60))
	assert.Equal(t, 0.0, Clamp(-5.0, 0, 60))
	assert.Equal(t, 30.0, Clamp(30.0, 0, 60))
	assert.Equal(t, 3, Clamp(3, 1, 5))

	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
	assert.Equal(t, 5.0, Interpolate(0, 10, 0.5))
}

func TestSize(t *testing.T) {
	s := Size{Width: 800, Height: 600}
	assert.False(t, s.IsEmpty())
	assert.Equal(t, orb.Point{400, 300}, s.Half())
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{800, 600}}, s.Bound())

	assert.True(t, Size{Width: 800}.IsEmpty())
	assert.True(t, Size{Width: math.NaN(), Height: 1}.IsEmpty())
	assert.True(t, Size{}.IsEmpty())
}

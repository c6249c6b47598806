package gradient

import (
	"math"
	"testing"

	"github.com/ffigura/ttcr/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// All of the least-squares variants below solve for the negative of the
// applied gradient (the system is built as dx*X+dz*Z = anchorTime-T, and
// T grows along the true gradient direction, so X,Z land on -gradient).
// Every test in this file is built on the affine field T(x,z)=2x-3z+5 or
// T(x,y,z)=x+2y+3z, so every higher-order/cross coefficient must resolve
// to exactly zero and the leading terms to the negated gradient.

func TestLinear2D(t *testing.T) {
	field := func(x, z float64) float64 { return 2*x - 3*z + 5 }
	pts := []geometry.Vec2{
		{X: 0, Z: 1},
		{X: -0.8660254037844387, Z: -0.5},
		{X: 0.8660254037844387, Z: -0.5},
	}
	samples := make([]Sample, len(pts))
	for i, p := range pts {
		samples[i] = Sample{Pos: geometry.Vec3{X: p.X, Z: p.Z}, T: field(p.X, p.Z)}
	}
	g, err := Recover(Linear2D, samples, Options{})
	require.NoError(t, err)
	assert.InDelta(t, -2, g.X, 1e-9)
	assert.InDelta(t, 3, g.Z, 1e-9)
}

func TestHighOrder2D(t *testing.T) {
	field := func(x, z float64) float64 { return 2*x - 3*z + 5 }
	var samples []Sample
	for k := 0; k < 6; k++ {
		theta := float64(k) * math.Pi / 3
		x, z := math.Cos(theta), math.Sin(theta)
		samples = append(samples, Sample{Pos: geometry.Vec3{X: x, Z: z}, T: field(x, z)})
	}
	g, err := Recover(HighOrder2D, samples, Options{})
	require.NoError(t, err)
	assert.InDelta(t, -2, g.X, 1e-9)
	assert.InDelta(t, 3, g.Z, 1e-9)
}

func tetraSamples(field func(x, y, z float64) float64) []Sample {
	pts := []geometry.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	samples := make([]Sample, len(pts))
	for i, p := range pts {
		samples[i] = Sample{Pos: p, T: field(p.X, p.Y, p.Z)}
	}
	return samples
}

func TestLinear3DDirect(t *testing.T) {
	field := func(x, y, z float64) float64 { return x + 2*y + 3*z }
	g, err := Recover(Linear3DDirect, tetraSamples(field), Options{})
	require.NoError(t, err)
	assert.InDelta(t, -1, g.X, 1e-9)
	assert.InDelta(t, -2, g.Y, 1e-9)
	assert.InDelta(t, -3, g.Z, 1e-9)
}

func TestLinear3DPlane(t *testing.T) {
	field := func(x, y, z float64) float64 { return x + 2*y + 3*z }
	g, err := Recover(Linear3DPlane, tetraSamples(field), Options{})
	require.NoError(t, err)
	assert.InDelta(t, -1, g.X, 1e-9)
	assert.InDelta(t, -2, g.Y, 1e-9)
	assert.InDelta(t, -3, g.Z, 1e-9)
}

func TestLinear3DRecentered(t *testing.T) {
	field := func(x, y, z float64) float64 { return x + 2*y + 3*z }
	samples := tetraSamples(field)
	opts := Options{Anchor: samples[0].Pos, HasAnchor: true}
	g, err := Recover(Linear3DRecentered, samples, opts)
	require.NoError(t, err)
	assert.InDelta(t, -1, g.X, 1e-9)
	assert.InDelta(t, -2, g.Y, 1e-9)
	assert.InDelta(t, -3, g.Z, 1e-9)
}

func TestHighOrder3D(t *testing.T) {
	field := func(x, y, z float64) float64 { return x + 2*y + 3*z }
	anchor := geometry.Vec3{0, 0, 0}
	pts := []geometry.Vec3{
		anchor,
		{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
		{-1, 1, 1}, {-1, 1, -1}, {-1, -1, 1}, {-1, -1, -1},
		{2, 0, 0}, {0, 2, 0},
	}
	samples := make([]Sample, len(pts))
	for i, p := range pts {
		samples[i] = Sample{Pos: p, T: field(p.X, p.Y, p.Z)}
	}
	opts := Options{Anchor: anchor, HasAnchor: true}
	g, err := Recover(HighOrder3D, samples, opts)
	require.NoError(t, err)
	assert.InDelta(t, -1, g.X, 1e-6)
	assert.InDelta(t, -2, g.Y, 1e-6)
	assert.InDelta(t, -3, g.Z, 1e-6)
}

func TestRM4D(t *testing.T) {
	field := func(x, y, z float64) float64 { return x + 2*y + 3*z }
	pts := []geometry.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}}
	samples := make([]Sample, len(pts))
	for i, p := range pts {
		samples[i] = Sample{Pos: p, T: field(p.X, p.Y, p.Z)}
	}
	opts := Options{Anchor: geometry.Vec3{0.25, 0.25, 0.25}, HasAnchor: true}
	g, err := Recover(RM4D, samples, opts)
	require.NoError(t, err)
	assert.InDelta(t, -1, g.X, 1e-9)
	assert.InDelta(t, -2, g.Y, 1e-9)
	assert.InDelta(t, -3, g.Z, 1e-9)
}

func cubeSamples(field func(x, y, z float64) float64) []Sample {
	var pts []geometry.Vec3
	for _, x := range []float64{0, 1} {
		for _, y := range []float64{0, 1} {
			for _, z := range []float64{0, 1} {
				pts = append(pts, geometry.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
	samples := make([]Sample, len(pts))
	for i, p := range pts {
		samples[i] = Sample{Pos: p, T: field(p.X, p.Y, p.Z)}
	}
	return samples
}

func TestFReconstruction(t *testing.T) {
	field := func(x, y, z float64) float64 { return x + 2*y + 3*z }
	opts := Options{Anchor: geometry.Vec3{0.5, 0.5, 0.5}, HasAnchor: true}
	g, err := Recover(FReconstruction, cubeSamples(field), opts)
	require.NoError(t, err)
	assert.InDelta(t, -1, g.X, 1e-6)
	assert.InDelta(t, -2, g.Y, 1e-6)
	assert.InDelta(t, -3, g.Z, 1e-6)
}

func TestInterp(t *testing.T) {
	field := func(x, y, z float64) float64 { return x + 2*y + 3*z }
	opts := Options{Anchor: geometry.Vec3{0.5, 0.5, 0.5}, HasAnchor: true}
	g, err := Recover(Interp, cubeSamples(field), opts)
	require.NoError(t, err)
	assert.InDelta(t, -1, g.X, 1e-6)
	assert.InDelta(t, -2, g.Y, 1e-6)
	assert.InDelta(t, -3, g.Z, 1e-6)
}

func TestRecoverInsufficientSamples(t *testing.T) {
	cases := []struct {
		method Method
		n      int
	}{
		{Linear2D, 2},
		{HighOrder2D, 4},
		{Linear3DDirect, 3},
		{Linear3DPlane, 3},
		{HighOrder3D, 8},
		{RM4D, 4},
		{FReconstruction, 7},
		{Interp, 7},
	}
	for _, c := range cases {
		samples := make([]Sample, c.n)
		_, err := Recover(c.method, samples, Options{HasAnchor: true})
		assert.ErrorIs(t, err, ErrInsufficientSamples)
	}
}

func TestRecoverUnknownMethod(t *testing.T) {
	_, err := Recover(Method(999), nil, Options{})
	assert.Error(t, err)
}

func TestRefineConstrained(t *testing.T) {
	a := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	b := mat.NewVecDense(3, []float64{-1, -2, -3})
	g := RefineConstrained(a, b, math.Sqrt(14))

	msg := "system:\n%v\nrhs:\n%v\nresult: %+v"
	fa := mat.Formatted(a, mat.Prefix(""))
	fb := mat.Formatted(b, mat.Prefix(""))
	assert.False(t, math.IsNaN(g.X) || math.IsNaN(g.Y) || math.IsNaN(g.Z), msg, fa, fb, g)
	assert.False(t, math.IsInf(g.X, 0) || math.IsInf(g.Y, 0) || math.IsInf(g.Z, 0), msg, fa, fb, g)

	gotNorm := math.Sqrt(g.X*g.X + g.Y*g.Y + g.Z*g.Z)
	assert.InDelta(t, math.Sqrt(14), gotNorm, 0.5, msg, fa, fb, g)
}

package raypath

import (
	"testing"

	"github.com/ffigura/ttcr/fmm"
	"github.com/ffigura/ttcr/geometry"
	"github.com/ffigura/ttcr/mesh"
	"github.com/stretchr/testify/require"
)

// TestTraceOnNodeSource builds a two-triangle unit-slowness square with the
// source at one corner; the receiver sits at the opposite corner, so the
// traced path must start at rx and end at the source.
func TestTraceOnNodeSource(t *testing.T) {
	m, err := mesh.New2D(
		[][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		[][3]int{{0, 1, 2}, {0, 2, 3}},
		1.0,
	)
	require.NoError(t, err)

	ts := mesh.NewThreadState(m.NumNodes())
	require.NoError(t, fmm.Run(m, ts, []fmm.Source{{Pos: geometry.Vec3{X: 0, Z: 0}, T0: 0}}, 0))

	path, err := Trace(m, ts, []Source{{Pos: geometry.Vec3{X: 0, Z: 0}}}, geometry.Vec3{X: 1, Z: 1})
	require.NoError(t, err)
	require.NotEmpty(t, path)
	require.InDelta(t, 1.0, path[0].X, 1e-9)
	require.InDelta(t, 1.0, path[0].Z, 1e-9)
	last := path[len(path)-1]
	require.InDelta(t, 0, last.X, 1e-9)
	require.InDelta(t, 0, last.Z, 1e-9)
}

// TestTraceReceiverAtSourceReturnsTrivialPath exercises the short-circuit
// when rx is already (within tolerance) at a source.
func TestTraceReceiverAtSourceReturnsTrivialPath(t *testing.T) {
	m, err := mesh.New2D(
		[][2]float64{{0, 0}, {1, 0}, {0, 1}},
		[][3]int{{0, 1, 2}},
		1.0,
	)
	require.NoError(t, err)
	ts := mesh.NewThreadState(m.NumNodes())
	require.NoError(t, fmm.Run(m, ts, []fmm.Source{{Pos: geometry.Vec3{X: 0, Z: 0}, T0: 0}}, 0))

	path, err := Trace(m, ts, []Source{{Pos: geometry.Vec3{X: 0, Z: 0}}}, geometry.Vec3{X: 0, Z: 0})
	require.NoError(t, err)
	require.Len(t, path, 1)
}

// singleTetMesh builds the canonical unit-slowness tetrahedron used by
// several tests: A(0,0,0), B(1,0,0), C(0,1,0), D(0,0,1).
func singleTetMesh(t *testing.T) *mesh.Mesh {
	m, err := mesh.New3D(
		[][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		[][4]int{{0, 1, 2, 3}},
		1.0,
	)
	require.NoError(t, err)
	return m
}

// TestTraceSingleTetFallsBackToParent exercises the degenerate case a pure
// continuous-gradient trace cannot resolve: a point source exactly on a tet
// vertex produces a conical field no single affine gradient fit over the
// tet's four nodes can express, so the receiver at the adjacent vertex must
// fall back to the FMM parent pointer and recover the exact two-point path.
func TestTraceSingleTetFallsBackToParent(t *testing.T) {
	m := singleTetMesh(t)
	ts := mesh.NewThreadState(m.NumNodes())
	require.NoError(t, fmm.Run(m, ts, []fmm.Source{{Pos: geometry.Vec3{X: 0, Y: 0, Z: 0}, T0: 0}}, 0))

	path, err := Trace(m, ts, []Source{{Pos: geometry.Vec3{X: 0, Y: 0, Z: 0}}}, geometry.Vec3{X: 1, Y: 0, Z: 0})
	require.NoError(t, err)
	require.Len(t, path, 2)
	require.InDelta(t, 1, path[0].X, 1e-9)
	require.InDelta(t, 0, path[0].Y, 1e-9)
	require.InDelta(t, 0, path[0].Z, 1e-9)
	require.InDelta(t, 0, path[1].X, 1e-9)
	require.InDelta(t, 0, path[1].Y, 1e-9)
	require.InDelta(t, 0, path[1].Z, 1e-9)
}

// TestTraceTetFanFromInteriorSource places the source at the tet's centroid
// (strictly inside the cell, not coincident with any node) and traces back
// from each of the four vertices in turn; since a single convex tet admits
// a straight line between any interior point and any vertex, every traced
// polyline's total length must equal the straight-line Tx-Rx distance.
func TestTraceTetFanFromInteriorSource(t *testing.T) {
	m := singleTetMesh(t)
	ts := mesh.NewThreadState(m.NumNodes())
	centroid := geometry.Vec3{X: 0.25, Y: 0.25, Z: 0.25}
	require.NoError(t, fmm.Run(m, ts, []fmm.Source{{Pos: centroid, T0: 0}}, 0))

	rxs := []geometry.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
	for _, rx := range rxs {
		path, err := Trace(m, ts, []Source{{Pos: centroid}}, rx)
		require.NoError(t, err)
		require.NotEmpty(t, path)

		var length float64
		for i := 1; i < len(path); i++ {
			length += geometry.Dist3(path[i-1], path[i])
		}
		require.InDelta(t, geometry.Dist3(rx, centroid), length, 1e-6)
	}
}

func TestFindNextCell1AndCell2AgreeOnInteriorEdge(t *testing.T) {
	m, err := mesh.New2D(
		[][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		[][3]int{{0, 1, 2}, {0, 2, 3}},
		1.0,
	)
	require.NoError(t, err)

	// node 3 owns cell 1 ({0,2,3}); the other cell sharing edge (0,2) is 0.
	next1, ok := findNextCell1(m, 0, 2, 3)
	require.True(t, ok)
	require.Equal(t, 0, next1)

	// starting from cell 1 directly should agree.
	next2, ok := findNextCell2(m, 0, 2, 1)
	require.True(t, ok)
	require.Equal(t, next1, next2)
}

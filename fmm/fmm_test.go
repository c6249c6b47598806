package fmm

import (
	"math"
	"testing"

	"github.com/ffigura/ttcr/geometry"
	"github.com/ffigura/ttcr/mesh"
	"github.com/stretchr/testify/require"
)

// TestRunOnNodeSource builds a unit right triangle with unit slowness and a
// source exactly on node 0; Run should freeze the source at t0 and both
// other nodes at their exact geodesic distance, since every edge of this
// mesh is a straight line from the source.
func TestRunOnNodeSource(t *testing.T) {
	m, err := mesh.New2D(
		[][2]float64{{0, 0}, {1, 0}, {0, 1}},
		[][3]int{{0, 1, 2}},
		1.0,
	)
	require.NoError(t, err)

	ts := mesh.NewThreadState(m.NumNodes())
	err = Run(m, ts, []Source{{Pos: geometry.Vec3{X: 0, Z: 0}, T0: 0}}, 0)
	require.NoError(t, err)

	require.True(t, ts.Frozen[0])
	require.True(t, ts.Frozen[1])
	require.True(t, ts.Frozen[2])
	require.InDelta(t, 0, ts.T[0], 1e-9)
	require.InDelta(t, 1, ts.T[1], 1e-9)
	require.InDelta(t, 1, ts.T[2], 1e-9)
}

// TestRunInCellSource places the source strictly inside a single-triangle
// mesh; every node should be frozen from the cell-averaged-slowness
// increment seeded by initBand, and none left at +Inf.
func TestRunInCellSource(t *testing.T) {
	m, err := mesh.New2D(
		[][2]float64{{0, 0}, {2, 0}, {0, 2}},
		[][3]int{{0, 1, 2}},
		1.0,
	)
	require.NoError(t, err)

	ts := mesh.NewThreadState(m.NumNodes())
	err = Run(m, ts, []Source{{Pos: geometry.Vec3{X: 0.4, Z: 0.4}, T0: 0}}, 0)
	require.NoError(t, err)

	for i := 0; i < m.NumNodes(); i++ {
		require.False(t, math.IsInf(ts.T[i], 1), "node %d left unreached", i)
	}
}

// TestRunSourceRadiusNoNodesFails exercises the "no nodes in source
// radius" failure path with a radius smaller than the distance to any
// other node.
func TestRunSourceRadiusNoNodesFails(t *testing.T) {
	m, err := mesh.New2D(
		[][2]float64{{0, 0}, {10, 0}, {0, 10}},
		[][3]int{{0, 1, 2}},
		1.0,
	)
	require.NoError(t, err)

	ts := mesh.NewThreadState(m.NumNodes())
	err = Run(m, ts, []Source{{Pos: geometry.Vec3{X: 0, Z: 0}, T0: 0}}, 0.01)
	require.ErrorIs(t, err, ErrNoNodesInSourceRadius)
}

// TestRunOnNodeSourceTet is TestRunOnNodeSource's tetrahedron analogue: a
// single unit-slowness tet with the source on node 0, so the three other
// nodes sit at their exact geodesic distance of 1 and are frozen directly
// by seedNeighborsOfNode rather than through an eikonal update.
func TestRunOnNodeSourceTet(t *testing.T) {
	m, err := mesh.New3D(
		[][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		[][4]int{{0, 1, 2, 3}},
		1.0,
	)
	require.NoError(t, err)

	ts := mesh.NewThreadState(m.NumNodes())
	err = Run(m, ts, []Source{{Pos: geometry.Vec3{X: 0, Z: 0}, T0: 0}}, 0)
	require.NoError(t, err)

	for i := 0; i < m.NumNodes(); i++ {
		require.True(t, ts.Frozen[i])
	}
	require.InDelta(t, 0, ts.T[0], 1e-9)
	require.InDelta(t, 1, ts.T[1], 1e-9)
	require.InDelta(t, 1, ts.T[2], 1e-9)
	require.InDelta(t, 1, ts.T[3], 1e-9)
	require.Equal(t, 0, ts.ParentNode[1])
	require.Equal(t, 0, ts.ParentNode[2])
	require.Equal(t, 0, ts.ParentNode[3])
}

// unitCubeTetMesh splits the unit cube into six tetrahedra sharing the main
// diagonal from node 0 to node 6, the standard fan decomposition.
func unitCubeTetMesh(t *testing.T) *mesh.Mesh {
	coords := [][3]float64{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
	tets := [][4]int{
		{0, 1, 2, 6},
		{0, 2, 3, 6},
		{0, 3, 7, 6},
		{0, 7, 4, 6},
		{0, 4, 5, 6},
		{0, 5, 1, 6},
	}
	m, err := mesh.New3D(coords, tets, 1.0)
	require.NoError(t, err)
	return m
}

// TestRunSourceRadiusUnitCubeTet exercises the source-radius seeding path on
// a multi-tet mesh: a radius wide enough to reach every node but the far
// corner freezes those directly, and the far corner still converges to a
// finite time through ordinary propagation.
func TestRunSourceRadiusUnitCubeTet(t *testing.T) {
	m := unitCubeTetMesh(t)

	ts := mesh.NewThreadState(m.NumNodes())
	err := Run(m, ts, []Source{{Pos: geometry.Vec3{X: 0, Y: 0, Z: 0}, T0: 0}}, 1.5)
	require.NoError(t, err)

	for i := 0; i < m.NumNodes(); i++ {
		require.False(t, math.IsInf(ts.T[i], 1), "node %d left unreached", i)
		require.True(t, ts.Frozen[i])
	}
	require.InDelta(t, 0, ts.T[0], 1e-9)
	// node 6 (the far corner, outside the radius) only reaches a finite time
	// through ordinary propagation from its frozen neighbors.
	require.Greater(t, ts.T[6], 0.0)
}

func TestRunMultiSourceTakesMinimum(t *testing.T) {
	m, err := mesh.New2D(
		[][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		[][3]int{{0, 1, 2}, {0, 2, 3}},
		1.0,
	)
	require.NoError(t, err)

	ts := mesh.NewThreadState(m.NumNodes())
	err = Run(m, ts, []Source{
		{Pos: geometry.Vec3{X: 0, Z: 0}, T0: 0},
		{Pos: geometry.Vec3{X: 1, Z: 1}, T0: 0},
	}, 0)
	require.NoError(t, err)
	require.InDelta(t, 0, ts.T[0], 1e-9)
	require.InDelta(t, 0, ts.T[2], 1e-9)
}

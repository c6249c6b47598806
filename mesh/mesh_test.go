package mesh

import (
	"math"
	"testing"

	"github.com/ffigura/ttcr/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew2DSquare(t *testing.T) {
	coords := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	tris := [][3]int{{0, 1, 2}, {0, 2, 3}}
	m, err := New2D(coords, tris, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, m.NumNodes())
	assert.Equal(t, 2, m.NumElements())
	assert.InDelta(t, math.Sqrt2, m.Elements[0].L[1], 1e-12) // edge opposite vertex 1 is (0,2), the hypotenuse
}

func TestProcessObtuseVirtualNode(t *testing.T) {
	// A flat, nearly-degenerate triangle with an obtuse apex angle at the
	// third vertex needs a neighbor sharing its base edge to be corrected;
	// build two such triangles sharing edge (0,1).
	coords := [][2]float64{{0, 0}, {10, 0}, {5, 0.1}, {5, -0.1}}
	tris := [][3]int{{0, 1, 2}, {0, 1, 3}}
	m, err := New2D(coords, tris, 1)
	require.NoError(t, err)
	_, hasVN := m.VirtualNodes[0]
	assert.True(t, hasVN, "expected virtual node entry for the obtuse triangle")
}

func TestCellOfAndContains(t *testing.T) {
	coords := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	tris := [][3]int{{0, 1, 2}, {0, 2, 3}}
	m, err := New2D(coords, tris, 1)
	require.NoError(t, err)
	c := m.CellOf(geometry.Vec3{X: 0.9, Z: 0.9})
	assert.Equal(t, 0, c)
	assert.True(t, m.Contains(geometry.Vec3{X: 0.1, Z: 0.1}, 1e-9))
	assert.False(t, m.Contains(geometry.Vec3{X: 5, Z: 5}, 1e-9))
}

func TestThreadStateReset(t *testing.T) {
	ts := NewThreadState(3)
	assert.True(t, math.IsInf(ts.T[0], 1))
	ts.T[0] = 1.5
	ts.Frozen[0] = true
	ts.Reset()
	assert.True(t, math.IsInf(ts.T[0], 1))
	assert.False(t, ts.Frozen[0])
}

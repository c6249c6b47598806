package meshio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const unitSquare = `4 2
0 0 1.0
1 0 1.0
1 1 1.0
0 1 1.0
0 1 2 7
0 2 3 7
`

func TestReadMesh2D(t *testing.T) {
	m, err := ReadMesh2D(strings.NewReader(unitSquare))
	require.NoError(t, err)
	require.Equal(t, 4, m.NumNodes())
	require.Equal(t, 2, m.NumElements())
	require.InDelta(t, 1.0, m.Nodes[0].Slowness, 1e-12)
	require.Equal(t, 7, m.Elements[0].PhysicalEntity)
	require.Equal(t, 7, m.Elements[1].PhysicalEntity)
}

func TestReadMesh2DRejectsTruncatedElement(t *testing.T) {
	_, err := ReadMesh2D(strings.NewReader("4 2\n0 0\n1 0\n1 1\n0 1\n0 1\n"))
	require.Error(t, err)
}

func TestWriteDat(t *testing.T) {
	m, err := ReadMesh2D(strings.NewReader(unitSquare))
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, WriteDat(&buf, m, []float64{0, 1, 2, 3}, false))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
}

func TestWriteVTK(t *testing.T) {
	m, err := ReadMesh2D(strings.NewReader(unitSquare))
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, WriteVTK(&buf, m, []float64{0, 1, 2, 3}))
	out := buf.String()
	require.Contains(t, out, "UnstructuredGrid")
	require.Contains(t, out, "Travel time")
	require.Contains(t, out, "Slowness")
	require.Contains(t, out, "Velocity")
	require.Contains(t, out, "physical_entity")
}

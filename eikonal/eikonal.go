package eikonal

import "github.com/ffigura/ttcr/mesh"

// Relax updates vertexC in place against its owning elements, dispatching
// to the triangle or tetrahedron form by mesh dimension, and reports
// whether T(vertexC) improved.
func Relax(m *mesh.Mesh, ts *mesh.ThreadState, vertexC int) bool {
	if m.Dim == 2 {
		return UpdateNode(m, ts, vertexC)
	}
	return UpdateNode3D(m, ts, vertexC)
}

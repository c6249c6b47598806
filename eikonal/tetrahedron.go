package eikonal

import (
	"math"

	"github.com/ffigura/ttcr/geometry"
	"github.com/ffigura/ttcr/mesh"
)

// UpdateTet computes the candidate arrival time at vertexC contributed by
// one of its owning tetrahedra.
//
// The admissibility-cone formula for a genuine 3D face update
// (localUpdate3D) is declared on a base class that sits outside what this
// module could retrieve; only its caller (propagate) was available. Rather
// than invent an unrelated formula, this decomposes the tetrahedron into
// its three faces incident to vertexC — (C,P,Q), (C,Q,R), (C,R,P) for
// opposite face P,Q,R — and applies the same plane-wave admissibility test
// used by the triangle update to each one, since every such face is itself
// a genuine triangle embedded in 3D with well-defined edge lengths and
// angles. The minimum candidate across the three faces is returned, the
// natural 3D generalization of looping over a node's owning triangles.
func UpdateTet(m *mesh.Mesh, ts *mesh.ThreadState, vertexC, tetNo int) (float64, int, int, bool) {
	tet := m.Elements[tetNo]
	i0 := tet.LocalIndex(vertexC)
	if i0 < 0 {
		return 0, 0, 0, false
	}

	others := make([]int, 0, 3)
	for i, v := range tet.Verts() {
		if i != i0 {
			others = append(others, v)
		}
	}
	faces := [3][2]int{
		{others[0], others[1]},
		{others[1], others[2]},
		{others[2], others[0]},
	}

	sC := m.Nodes[vertexC].Slowness
	best := ts.T[vertexC]
	bestParent, found := 0, false

	for _, f := range faces {
		vertexA, vertexB := f[0], f[1]
		a, b, c, alpha, beta := faceTriangleGeometry(m, vertexC, vertexA, vertexB)
		tA, tB := ts.T[vertexA], ts.T[vertexB]

		t, parent := planeWaveUpdate(a, b, c, alpha, beta, sC, tA, tB, vertexA, vertexB)
		if t < best {
			best = t
			bestParent = parent
			found = true
		}
	}
	if !found {
		return 0, 0, 0, false
	}
	return best, bestParent, tetNo, true
}

// faceTriangleGeometry computes the same (a, b, c, alpha, beta) quintuple
// triangleEdges derives from cached 2D element data, but directly from node
// positions for the ad hoc face (vertexC, vertexA, vertexB) of a
// tetrahedron: c = ‖AB‖, a = ‖CB‖, b = ‖CA‖, alpha = angle at vertexB
// (between a and c), beta = angle at vertexA (between b and c) — matching
// the role assignment the triangle update uses.
func faceTriangleGeometry(m *mesh.Mesh, vertexC, vertexA, vertexB int) (a, b, c, alpha, beta float64) {
	pc := m.Nodes[vertexC].Pos
	pa := m.Nodes[vertexA].Pos
	pb := m.Nodes[vertexB].Pos

	a = geometry.Dist3(pc, pb)
	b = geometry.Dist3(pc, pa)
	c = geometry.Dist3(pa, pb)

	alpha = triangleAngleLaw(a, c, b)
	beta = triangleAngleLaw(b, c, a)
	return
}

func triangleAngleLaw(adj1, adj2, opp float64) float64 {
	cosTheta := (adj1*adj1 + adj2*adj2 - opp*opp) / (2 * adj1 * adj2)
	if cosTheta > 1 {
		cosTheta = 1
	} else if cosTheta < -1 {
		cosTheta = -1
	}
	return math.Acos(cosTheta)
}

// UpdateNode3D relaxes vertexC across every tetrahedron that owns it,
// mirroring UpdateNode's triangle loop.
func UpdateNode3D(m *mesh.Mesh, ts *mesh.ThreadState, vertexC int) bool {
	improved := false
	best := ts.T[vertexC]
	var bestParentNode, bestParentCell int

	for _, tetNo := range m.Nodes[vertexC].Owners {
		if m.Elements[tetNo].Kind != mesh.Tetrahedron {
			continue
		}
		t, parentNode, parentCell, ok := UpdateTet(m, ts, vertexC, tetNo)
		if ok && t < best {
			best = t
			bestParentNode = parentNode
			bestParentCell = parentCell
			improved = true
		}
	}
	if improved {
		ts.T[vertexC] = best
		ts.ParentNode[vertexC] = bestParentNode
		ts.ParentCell[vertexC] = bestParentCell
	}
	return improved
}

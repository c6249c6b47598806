// Package eikonal implements the per-vertex local update used by the
// Fast-Marching propagation loop: a plane-wave admissibility test over the
// triangle (2D) or tetrahedron (3D) opposite the node under update, falling
// back to an edge-limited update when the wavefront would not cross the
// opposing edge/face admissibly, with the obtuse-angle correction applied
// through the mesh's virtual-node unfolding.
package eikonal

import (
	"math"

	"github.com/ffigura/ttcr/mesh"
)

const pi2 = math.Pi / 2

// UpdateTriangle computes the candidate arrival time at vertexC contributed
// by one of its owning triangles, grounded on Grid2Dui::localSolver: it
// selects the opposing edge AB (or its virtual-node unfolding when the
// triangle is obtuse at vertexC), tests plane-wave admissibility, and falls
// back to the edge-limited update otherwise. It returns the candidate and
// whether that candidate improves on ts.T[vertexC].
func UpdateTriangle(m *mesh.Mesh, ts *mesh.ThreadState, vertexC, triangleNo int) (float64, int, int, bool) {
	tri := m.Elements[triangleNo]

	i0 := tri.LocalIndex(vertexC)
	if i0 < 0 {
		return 0, 0, 0, false
	}

	var vertexA, vertexB int
	var a, b, c, alpha, beta float64

	if tri.A[i0] > pi2 {
		if vn, ok := m.VirtualNodes[triangleNo]; ok {
			vertexA, vertexB = vn.Node1, vn.Node2
			c, a, b = vn.E[0], vn.E[1], vn.E[2]
			alpha, beta = vn.A[2], vn.A[1]
		} else {
			vertexA, vertexB, a, b, c, alpha, beta = triangleEdges(tri, i0)
		}
	} else {
		vertexA, vertexB, a, b, c, alpha, beta = triangleEdges(tri, i0)
	}

	sC := m.Nodes[vertexC].Slowness
	tA, tB := ts.T[vertexA], ts.T[vertexB]

	t, parent := planeWaveUpdate(a, b, c, alpha, beta, sC, tA, tB, vertexA, vertexB)
	if t < ts.T[vertexC] {
		return t, parent, triangleNo, true
	}
	return 0, 0, 0, false
}

// triangleEdges extracts the regular (non-obtuse) opposing-edge geometry
// for the triangle vertex at local index i0: vertexA/vertexB are the other
// two vertices, c is the edge between them, a and b the edges from vertexC
// to vertexB and vertexA respectively, alpha the angle at vertexA... no,
// alpha is the angle at vertexB and beta the angle at vertexA, matching the
// source's i1/i2 role assignment.
func triangleEdges(tri mesh.Element, i0 int) (vertexA, vertexB int, a, b, c, alpha, beta float64) {
	i1 := (i0 + 1) % 3
	i2 := (i0 + 2) % 3
	vertexA = tri.I[i1]
	vertexB = tri.I[i2]
	c = tri.L[i0]
	a = tri.L[i1]
	b = tri.L[i2]
	alpha = tri.A[i2]
	beta = tri.A[i1]
	return
}

// planeWaveUpdate applies the admissibility-cone test: if it accepts the
// wavefront update, the "parent" node is the endpoint whose contribution
// weighs more (closer in angle to the incoming wavefront); when it falls
// back to the edge-limited update, the parent is unambiguous — whichever
// of A, B the winning branch used.
func planeWaveUpdate(a, b, c, alpha, beta, sC, tA, tB float64, vertexA, vertexB int) (float64, int) {
	diff := tB - tA
	if math.Abs(diff) <= c*sC {
		theta := math.Asin(math.Abs(diff) / (c * sC))

		lower := math.Max(0, alpha-pi2)
		upper := pi2 - beta
		admissible := (lower <= theta && theta <= upper) ||
			((alpha-pi2) <= theta && theta <= math.Min(0, pi2-beta))

		if admissible {
			h := a * math.Sin(alpha-theta)
			bigH := b * math.Sin(beta+theta)
			t := 0.5*(h*sC+tB) + 0.5*(bigH*sC+tA)
			parent := vertexB
			if tA < tB {
				parent = vertexA
			}
			return t, parent
		}
	}
	return edgeLimited(a, b, sC, tA, tB, vertexA, vertexB)
}

func edgeLimited(a, b, sC, tA, tB float64, vertexA, vertexB int) (float64, int) {
	tViaA := tA + b*sC
	tViaB := tB + a*sC
	if tViaA < tViaB {
		return tViaA, vertexA
	}
	return tViaB, vertexB
}

// UpdateNode relaxes vertexC across every triangle that owns it, keeping the
// minimum candidate, and writes it into ts when it improves on the current
// value. It reports whether an improvement was applied.
func UpdateNode(m *mesh.Mesh, ts *mesh.ThreadState, vertexC int) bool {
	improved := false
	best := ts.T[vertexC]
	var bestParentNode, bestParentCell int

	for _, triangleNo := range m.Nodes[vertexC].Owners {
		if m.Elements[triangleNo].Kind != mesh.Triangle {
			continue
		}
		t, parentNode, parentCell, ok := UpdateTriangle(m, ts, vertexC, triangleNo)
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

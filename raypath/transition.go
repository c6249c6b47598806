package raypath

import (
	"math"

	"github.com/ffigura/ttcr/geometry"
	"github.com/ffigura/ttcr/mesh"
)

const small = 1e-9

// findIntersection tests whether the gradient from currPt points exactly
// along one of the two edges from currPt to i0 or i1; if so it snaps
// curr_pt to that node and reports true (the on-node "break" case).
// Otherwise it updates curr_pt to the intersection of the gradient ray
// with the opposing edge i0-i1 and reports false.
func findIntersection(m *mesh.Mesh, i0, i1 int, g geometry.Vec3, currPt *geometry.Vec3) bool {
	m2, b2 := lineParams(g.X, g.Z, currPt.X, currPt.Z)

	p0, p1 := m.Nodes[i0].Pos, m.Nodes[i1].Pos

	if m1 := slopeTo(p0, *currPt); m1 == m2 {
		*currPt = p0
		return true
	}
	if m1 := slopeTo(p1, *currPt); m1 == m2 {
		*currPt = p1
		return true
	}

	m1, b1 := lineParams(p1.X-p0.X, p1.Z-p0.Z, p1.X, p1.Z)

	*currPt = intersect(m1, b1, m2, b2)
	return false
}

func slopeTo(p, from geometry.Vec3) float64 {
	den := p.X - from.X
	if den == 0 {
		return math.Inf(1)
	}
	return (p.Z - from.Z) / den
}

// lineParams returns the slope/intercept of the line through (x,z) with
// direction (dx,dz); a vertical direction reports an infinite slope and
// the line's constant x as intercept, matching the source's convention.
func lineParams(dx, dz, x, z float64) (m, b float64) {
	if dx == 0 {
		return math.Inf(1), x
	}
	m = dz / dx
	return m, z - m*x
}

func intersect(m1, b1, m2, b2 float64) geometry.Vec3 {
	var x, z float64
	switch {
	case math.IsInf(m1, 1):
		x = b1
		z = m2*x + b2
	case math.IsInf(m2, 1):
		x = b2
		z = m1*x + b1
	default:
		x = (b2 - b1) / (m1 - m2)
		z = m2*x + b2
	}
	return geometry.Vec3{X: x, Z: z}
}

// findNextCell1 returns the cell sharing edge (i0,i1) other than the one
// owning nodeNo, or ok=false on an external edge with no such cell (a
// single-cell edge is a mesh boundary: there is no "other" cell to cross
// into, so this must not hand the caller back the cell it came from).
func findNextCell1(m *mesh.Mesh, i0, i1, nodeNo int) (int, bool) {
	cells := m.EdgeNeighbors(i0, i1)
	if len(cells) != 2 {
		return 0, false
	}
	for _, nc := range m.Nodes[nodeNo].Owners {
		if nc == cells[0] {
			return cells[1], true
		}
		if nc == cells[1] {
			return cells[0], true
		}
	}
	return 0, false
}

// findNextCell2 returns the other cell of the two sharing edge (i0,i1), or
// ok=false on an external edge or mismatch; see findNextCell1 on why a
// single-cell edge cannot be answered with that one cell.
func findNextCell2(m *mesh.Mesh, i0, i1, cellNo int) (int, bool) {
	cells := m.EdgeNeighbors(i0, i1)
	if len(cells) != 2 {
		return 0, false
	}
	if cellNo == cells[0] {
		return cells[1], true
	}
	if cellNo == cells[1] {
		return cells[0], true
	}
	return 0, false
}

// findNextFace1 is findNextCell1's tetrahedron-face analogue: returns the
// tet sharing face (i0,i1,i2) other than the one owning nodeNo.
func findNextFace1(m *mesh.Mesh, i0, i1, i2, nodeNo int) (int, bool) {
	cells := m.FaceNeighbors(i0, i1, i2)
	if len(cells) != 2 {
		return 0, false
	}
	for _, nc := range m.Nodes[nodeNo].Owners {
		if nc == cells[0] {
			return cells[1], true
		}
		if nc == cells[1] {
			return cells[0], true
		}
	}
	return 0, false
}

// findNextFace2 is findNextCell2's tetrahedron-face analogue: returns the
// other tet of the two sharing face (i0,i1,i2).
func findNextFace2(m *mesh.Mesh, i0, i1, i2, cellNo int) (int, bool) {
	cells := m.FaceNeighbors(i0, i1, i2)
	if len(cells) != 2 {
		return 0, false
	}
	if cellNo == cells[0] {
		return cells[1], true
	}
	if cellNo == cells[1] {
		return cells[0], true
	}
	return 0, false
}

package raypath

import (
	"math"

	"github.com/ffigura/ttcr/geometry"
	"github.com/ffigura/ttcr/mesh"
)

// stepInCell implements the in-cell branch of getRaypath_ho: compute the
// gradient over cellNo's node star (a centroid-based fit), then test each of
// the triangle's three edges for an intersection with the gradient ray,
// skipping the edge currPt already lies on when onEdge is set.
func stepInCell(m *mesh.Mesh, ts *mesh.ThreadState, cellNo int, currPt geometry.Vec3, onEdge bool, edgeNodes [2]int, path *[]geometry.Vec3) (geometry.Vec3, int, bool, [2]int, error) {
	verts := m.Neighbors[cellNo]

	g, err := gradientAt2D(m, ts, neighborNodeStar(m, cellNo), currPt)
	if err != nil {
		return geometry.Vec3{}, 0, false, [2]int{}, err
	}
	g = normalize2(g)

	edges := [3][2]int{
		{verts[0], verts[1]},
		{verts[1], verts[2]},
		{verts[2], verts[0]},
	}

	if onEdge {
		m2, _ := lineParams(g.X, g.Z, currPt.X, currPt.Z)
		p0, p1 := m.Nodes[edgeNodes[0]].Pos, m.Nodes[edgeNodes[1]].Pos
		m1, _ := lineParams(p1.X-p0.X, p1.Z-p0.Z, p1.X, p1.Z)

		if math.Abs(m1-m2) < small {
			// gradient runs parallel to the edge we are already on:
			// continue straight along it, choosing direction by the sign
			// of the gradient's x-component against the edge's.
			target := p1
			if sign(p1.X-p0.X) != sign(g.X) {
				target = p0
			}
			newPt := target
			*path = append(*path, newPt)
			if nn := m.NodeAt(newPt, 1e-9); nn >= 0 {
				return newPt, 0, false, [2]int{}, nil
			}
			nextCell, ok := findNextCell2(m, edgeNodes[0], edgeNodes[1], cellNo)
			if !ok {
				return geometry.Vec3{}, 0, false, [2]int{}, ErrFailedToConverge
			}
			return newPt, nextCell, true, edgeNodes, nil
		}
	}

	for _, e := range edges {
		if onEdge && sameEdge(e, edgeNodes) {
			continue
		}
		newPt := currPt
		breakFlag := findIntersection(m, e[0], e[1], g, &newPt)
		if !pointOnSegment(m, e[0], e[1], newPt) {
			continue
		}
		*path = append(*path, newPt)
		if breakFlag || isNode(m, e[0], newPt) || isNode(m, e[1], newPt) {
			return newPt, 0, false, [2]int{}, nil
		}
		nextCell, ok := findNextCell2(m, e[0], e[1], cellNo)
		if !ok {
			return geometry.Vec3{}, 0, false, [2]int{}, ErrFailedToConverge
		}
		return newPt, nextCell, true, [2]int{e[0], e[1]}, nil
	}

	// gradient points slightly outside the triangle (rounding at a near-
	// parallel edge): snap to the nearest of the cell's vertices in the
	// gradient's general direction rather than fail outright.
	best := -1
	bestDot := -math.MaxFloat64
	for _, v := range verts {
		dir := normalize2(m.Nodes[v].Pos.Sub(currPt))
		d := dot2(dir, g)
		if d > bestDot {
			bestDot = d
			best = v
		}
	}
	if best < 0 {
		return geometry.Vec3{}, 0, false, [2]int{}, ErrFailedToConverge
	}
	newPt := m.Nodes[best].Pos
	*path = append(*path, newPt)
	return newPt, 0, false, [2]int{}, nil
}

func sameEdge(e [2]int, edgeNodes [2]int) bool {
	a, b := e[0], e[1]
	if a > b {
		a, b = b, a
	}
	c, d := edgeNodes[0], edgeNodes[1]
	if c > d {
		c, d = d, c
	}
	return a == c && b == d
}

func isNode(m *mesh.Mesh, n int, p geometry.Vec3) bool {
	return geometry.Dist3(m.Nodes[n].Pos, p) < 1e-9
}

// pointOnSegment reports whether p lies within the bounding box of edge
// (i0,i1), rejecting intersections the ray finds on the edge's infinite
// line extension but outside the triangle's actual edge.
func pointOnSegment(m *mesh.Mesh, i0, i1 int, p geometry.Vec3) bool {
	p0, p1 := m.Nodes[i0].Pos, m.Nodes[i1].Pos
	const eps = 1e-9
	minX, maxX := math.Min(p0.X, p1.X), math.Max(p0.X, p1.X)
	minZ, maxZ := math.Min(p0.Z, p1.Z), math.Max(p0.Z, p1.Z)
	return p.X >= minX-eps && p.X <= maxX+eps && p.Z >= minZ-eps && p.Z <= maxZ+eps
}

package raypath

import (
	"math"
	"sort"

	"github.com/ffigura/ttcr/geometry"
	"github.com/ffigura/ttcr/mesh"
)

// stepInCellTet is stepInCell's tetrahedron analogue: compute the gradient
// over cellNo's node star (a centroid-based fit), then Moller-Trumbore test each
// of the tet's four faces, skipping the face currPt already lies on when
// onFace is set.
func stepInCellTet(m *mesh.Mesh, ts *mesh.ThreadState, cellNo int, currPt geometry.Vec3, onFace bool, faceNodes [3]int, path *[]geometry.Vec3) (geometry.Vec3, int, bool, [3]int, error) {
	verts := m.Neighbors[cellNo]

	g, err := gradientAt3D(m, ts, neighborNodeStarTet(m, cellNo))
	if err != nil {
		return geometry.Vec3{}, 0, false, [3]int{}, err
	}
	g = normalize3(g)

	faces := [4][3]int{
		{verts[0], verts[1], verts[2]},
		{verts[0], verts[1], verts[3]},
		{verts[0], verts[2], verts[3]},
		{verts[1], verts[2], verts[3]},
	}

	for _, f := range faces {
		if onFace && sameFace(f, faceNodes) {
			continue
		}
		a, b, c := m.Nodes[f[0]].Pos, m.Nodes[f[1]].Pos, m.Nodes[f[2]].Pos
		t, u, v, ok := geometry.RayTriangleIntersect(currPt, g, a, b, c)
		if !ok || t <= small || u < -small || v < -small || u+v > 1+small {
			continue
		}
		newPt := currPt.Add(g.Scale(t))
		*path = append(*path, newPt)
		if nn := m.NodeAt(newPt, small); nn >= 0 {
			return newPt, 0, false, [3]int{}, nil
		}
		nextCell, ok2 := findNextFace2(m, f[0], f[1], f[2], cellNo)
		if !ok2 {
			return geometry.Vec3{}, 0, false, [3]int{}, ErrFailedToConverge
		}
		return newPt, nextCell, true, f, nil
	}

	// gradient points slightly outside the tet (rounding at a near-parallel
	// face): snap to the nearest of the cell's vertices in the gradient's
	// general direction rather than fail outright.
	best := -1
	bestDot := -math.MaxFloat64
	for _, v := range verts {
		dir := normalize3(m.Nodes[v].Pos.Sub(currPt))
		d := geometry.Dot3(dir, g)
		if d > bestDot {
			bestDot = d
			best = v
		}
	}
	if best < 0 {
		return geometry.Vec3{}, 0, false, [3]int{}, ErrFailedToConverge
	}
	newPt := m.Nodes[best].Pos
	*path = append(*path, newPt)
	return newPt, 0, false, [3]int{}, nil
}

func sameFace(f, faceNodes [3]int) bool {
	a := f
	sort.Ints(a[:])
	b := faceNodes
	sort.Ints(b[:])
	return a == b
}

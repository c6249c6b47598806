package raypath

import (
	"sort"

	"github.com/ffigura/ttcr/geometry"
	"github.com/ffigura/ttcr/mesh"
)

// stepOnNodeTet is stepOnNode's tetrahedron analogue: for each cell owning
// nodeNo, test whether that cell's gradient points into the opposite face
// (the triangle formed by the tet's three other vertices). The first
// admitting cell wins; if none admits, retry with the average of every
// rejected candidate gradient, exactly as stepOnNode does for triangles.
func stepOnNodeTet(m *mesh.Mesh, ts *mesh.ThreadState, nodeNo int, path *[]geometry.Vec3) (geometry.Vec3, int, bool, [3]int, error) {
	owners := m.Nodes[nodeNo].Owners
	var rejected []geometry.Vec3

	if pt, cellNo, onFace, faceNodes, ok, err := tryOwnersTet(m, ts, nodeNo, owners, nil, &rejected, path); ok {
		return pt, cellNo, onFace, faceNodes, err
	} else if err != nil {
		return geometry.Vec3{}, 0, false, [3]int{}, err
	}

	if len(rejected) == 0 {
		if pt, ok := parentFallback(m, ts, nodeNo, path); ok {
			return pt, 0, false, [3]int{}, nil
		}
		return geometry.Vec3{}, 0, false, [3]int{}, ErrFailedToConverge
	}
	var avg geometry.Vec3
	for _, g := range rejected {
		avg = avg.Add(g)
	}
	avg = normalize3(avg.Scale(1 / float64(len(rejected))))

	if pt, cellNo, onFace, faceNodes, ok, err := tryOwnersTet(m, ts, nodeNo, owners, &avg, nil, path); ok {
		return pt, cellNo, onFace, faceNodes, err
	} else if err != nil {
		return geometry.Vec3{}, 0, false, [3]int{}, err
	}
	if pt, ok := parentFallback(m, ts, nodeNo, path); ok {
		return pt, 0, false, [3]int{}, nil
	}
	return geometry.Vec3{}, 0, false, [3]int{}, ErrFailedToConverge
}

// tryOwnersTet is tryOwners' tetrahedron analogue: the admissibility test
// and edge-intersection pair become a single Moller-Trumbore ray/triangle
// test against the tet's opposite face.
func tryOwnersTet(m *mesh.Mesh, ts *mesh.ThreadState, nodeNo int, owners []int, fixedG *geometry.Vec3, rejected *[]geometry.Vec3, path *[]geometry.Vec3) (geometry.Vec3, int, bool, [3]int, bool, error) {
	nodePos := m.Nodes[nodeNo].Pos

	for _, nc := range owners {
		verts := otherThreeVerts(m, nc, nodeNo)

		var g geometry.Vec3
		if fixedG != nil {
			g = *fixedG
		} else {
			var err error
			g, err = gradientAt3D(m, ts, neighborNodeStarTet(m, nc))
			if err != nil {
				continue
			}
			g = normalize3(g)
		}

		a, b, c := m.Nodes[verts[0]].Pos, m.Nodes[verts[1]].Pos, m.Nodes[verts[2]].Pos
		t, u, v, ok := geometry.RayTriangleIntersect(nodePos, g, a, b, c)
		if !ok || t <= small || u < -small || v < -small || u+v > 1+small {
			if rejected != nil {
				*rejected = append(*rejected, g)
			}
			continue
		}

		currPt := nodePos.Add(g.Scale(t))
		*path = append(*path, currPt)
		if nn := m.NodeAt(currPt, small); nn >= 0 {
			return currPt, 0, false, [3]int{}, true, nil
		}
		cellNo, ok2 := findNextFace1(m, verts[0], verts[1], verts[2], nodeNo)
		if !ok2 {
			return geometry.Vec3{}, 0, false, [3]int{}, true, ErrFailedToConverge
		}
		return currPt, cellNo, true, verts, true, nil
	}
	return geometry.Vec3{}, 0, false, [3]int{}, false, nil
}

// otherThreeVerts returns, sorted, the three vertices of tet nc other than
// nodeNo (nc must own exactly 4 vertices including nodeNo).
func otherThreeVerts(m *mesh.Mesh, nc, nodeNo int) [3]int {
	var out [3]int
	n := 0
	for _, v := range m.Neighbors[nc] {
		if v != nodeNo {
			out[n] = v
			n++
		}
	}
	sort.Ints(out[:])
	return out
}

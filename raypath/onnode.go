package raypath

import (
	"math"

	"github.com/ffigura/ttcr/geometry"
	"github.com/ffigura/ttcr/mesh"
)

// stepOnNode implements the on-node branch of getRaypath_ho: for each cell
// owning nodeNo, compute that cell's gradient star and test whether it
// points into the cell (between the node's two other vertices in that
// cell). The first admitting cell wins; if none admits on the first pass,
// retry with the average of every rejected candidate gradient.
func stepOnNode(m *mesh.Mesh, ts *mesh.ThreadState, nodeNo int, path *[]geometry.Vec3) (geometry.Vec3, int, bool, [2]int, error) {
	owners := m.Nodes[nodeNo].Owners
	var rejected []geometry.Vec3

	if pt, cellNo, onEdge, edgeNodes, ok, err := tryOwners(m, ts, nodeNo, owners, nil, &rejected, path); ok {
		return pt, cellNo, onEdge, edgeNodes, err
	} else if err != nil {
		return geometry.Vec3{}, 0, false, [2]int{}, err
	}

	if len(rejected) == 0 {
		if pt, ok := parentFallback(m, ts, nodeNo, path); ok {
			return pt, 0, false, [2]int{}, nil
		}
		return geometry.Vec3{}, 0, false, [2]int{}, ErrFailedToConverge
	}
	var avg geometry.Vec3
	for _, g := range rejected {
		avg = avg.Add(g)
	}
	avg = normalize2(geometry.Vec3{X: avg.X / float64(len(rejected)), Z: avg.Z / float64(len(rejected))})

	if pt, cellNo, onEdge, edgeNodes, ok, err := tryOwners(m, ts, nodeNo, owners, &avg, nil, path); ok {
		return pt, cellNo, onEdge, edgeNodes, err
	} else if err != nil {
		return geometry.Vec3{}, 0, false, [2]int{}, err
	}
	if pt, ok := parentFallback(m, ts, nodeNo, path); ok {
		return pt, 0, false, [2]int{}, nil
	}
	return geometry.Vec3{}, 0, false, [2]int{}, ErrFailedToConverge
}

// tryOwners scans owning cells looking for one whose gradient (fixedG when
// non-nil, otherwise recomputed per cell) points between its two other
// vertices. Rejected per-cell gradients are appended to rejected when it is
// non-nil (the first-pass call collecting candidates for the averaged
// retry).
func tryOwners(m *mesh.Mesh, ts *mesh.ThreadState, nodeNo int, owners []int, fixedG *geometry.Vec3, rejected *[]geometry.Vec3, path *[]geometry.Vec3) (geometry.Vec3, int, bool, [2]int, bool, error) {
	nodePos := m.Nodes[nodeNo].Pos

	for _, nc := range owners {
		nb0, nb1 := otherTwoVerts(m, nc, nodeNo)

		var g geometry.Vec3
		if fixedG != nil {
			g = *fixedG
		} else {
			var err error
			g, err = gradientAt2D(m, ts, neighborNodeStar(m, nc), nodePos)
			if err != nil {
				continue
			}
			g = normalize2(g)
		}

		v1 := normalize2(m.Nodes[nb0].Pos.Sub(nodePos))
		v2 := normalize2(m.Nodes[nb1].Pos.Sub(nodePos))

		theta1 := math.Acos(clampUnit(dot2(v1, g)))
		theta2 := math.Acos(clampUnit(dot2(v1, v2)))

		if theta1 > theta2 || sign(cross2(v1, g)) != sign(cross2(v1, v2)) {
			if rejected != nil {
				*rejected = append(*rejected, g)
			}
			continue
		}

		currPt := nodePos
		breakFlag := findIntersection(m, nb0, nb1, g, &currPt)
		if nn := m.NodeAt(currPt, small); nn >= 0 {
			currPt = m.Nodes[nn].Pos
			breakFlag = true
		}
		*path = append(*path, currPt)
		if breakFlag {
			return currPt, 0, false, [2]int{}, true, nil
		}
		cellNo, ok := findNextCell1(m, nb0, nb1, nodeNo)
		if !ok {
			return geometry.Vec3{}, 0, false, [2]int{}, true, ErrFailedToConverge
		}
		return currPt, cellNo, true, [2]int{nb0, nb1}, true, nil
	}
	return geometry.Vec3{}, 0, false, [2]int{}, false, nil
}

// otherTwoVerts returns, sorted, the two vertices of cell nc other than
// nodeNo (triangles only — nc must own exactly 3 vertices including nodeNo).
func otherTwoVerts(m *mesh.Mesh, nc, nodeNo int) (int, int) {
	var out [2]int
	n := 0
	for _, v := range m.Neighbors[nc] {
		if v != nodeNo {
			out[n] = v
			n++
		}
	}
	if out[0] > out[1] {
		out[0], out[1] = out[1], out[0]
	}
	return out[0], out[1]
}

func dot2(a, b geometry.Vec3) float64   { return a.X*b.X + a.Z*b.Z }
func cross2(a, b geometry.Vec3) float64 { return a.X*b.Z - a.Z*b.X }

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func sign(v float64) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

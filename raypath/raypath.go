// Package raypath traces a ray backward from a receiver to its sources by
// following the negative gradient of the traveltime field node by node,
// edge by edge, and cell by cell, grounded on Grid2Dui::getRaypath_ho.
package raypath

import (
	"errors"
	"math"

	"github.com/ffigura/ttcr/geometry"
	"github.com/ffigura/ttcr/gradient"
	"github.com/ffigura/ttcr/mesh"
)

// ErrFailedToConverge is returned when no cell admits the gradient
// direction and the averaged-gradient retry also fails, or when a
// findNextCell lookup falls off the mesh boundary.
var ErrFailedToConverge = errors.New("raypath: failed to converge")

const minDist = 1e-6

// Source mirrors fmm.Source; duplicated here rather than imported to keep
// raypath decoupled from fmm (a solver facade wires the two together).
type Source struct {
	Pos geometry.Vec3
}

// Trace walks from rx back toward the nearest admissible source, returning
// the polyline of points visited (rx first, source point last). ts must
// already hold a traveltime field consistent with the sources (the result
// of an fmm.Run call for the same sources).
func Trace(m *mesh.Mesh, ts *mesh.ThreadState, sources []Source, rx geometry.Vec3) ([]geometry.Vec3, error) {
	for _, s := range sources {
		if geometry.Dist3(s.Pos, rx) < minDist {
			return []geometry.Vec3{rx}, nil
		}
	}

	txOnNode := make([]bool, len(sources))
	txNode := make([]int, len(sources))
	txCell := make([]int, len(sources))
	for i, s := range sources {
		if nn := m.NodeAt(s.Pos, 1e-9); nn >= 0 {
			txOnNode[i] = true
			txNode[i] = nn
		} else {
			txCell[i] = m.CellOf(s.Pos)
		}
	}

	path := []geometry.Vec3{rx}
	currPt := rx

	var nodeNo, cellNo int
	onNode := false
	if nn := m.NodeAt(currPt, 1e-9); nn >= 0 {
		nodeNo = nn
		onNode = true
	} else {
		cellNo = m.CellOf(currPt)
		if cellNo < 0 {
			return nil, ErrFailedToConverge
		}
	}

	for i := range sources {
		if txOnNode[i] || txCell[i] < 0 {
			continue
		}
		if (onNode && m.Elements[txCell[i]].HasVertex(nodeNo)) || (!onNode && cellNo == txCell[i]) {
			return append(path, sources[i].Pos), nil
		}
	}

	onBoundary := false
	var edgeNodes [2]int
	var faceNodes [3]int

	const maxSteps = 10000
	for step := 0; step < maxSteps; step++ {
		var err error
		if m.Dim == 3 {
			if onNode {
				currPt, cellNo, onBoundary, faceNodes, err = stepOnNodeTet(m, ts, nodeNo, &path)
			} else {
				currPt, cellNo, onBoundary, faceNodes, err = stepInCellTet(m, ts, cellNo, currPt, onBoundary, faceNodes, &path)
			}
		} else {
			if onNode {
				currPt, cellNo, onBoundary, edgeNodes, err = stepOnNode(m, ts, nodeNo, &path)
			} else {
				currPt, cellNo, onBoundary, edgeNodes, err = stepInCell(m, ts, cellNo, currPt, onBoundary, edgeNodes, &path)
			}
		}
		if err != nil {
			return nil, err
		}

		onNode = false
		if nn := m.NodeAt(currPt, 1e-9); nn >= 0 {
			nodeNo = nn
			onNode = true
			onBoundary = false

			for _, s := range sources {
				if geometry.Dist3(currPt, s.Pos) < minDist {
					return path, nil
				}
			}
			continue
		}

		for i := range sources {
			if txOnNode[i] {
				for _, nc := range m.Nodes[txNode[i]].Owners {
					if nc == cellNo {
						path = append(path, sources[i].Pos)
						return path, nil
					}
				}
			} else if cellNo == txCell[i] {
				path = append(path, sources[i].Pos)
				return path, nil
			}
		}
	}
	return nil, ErrFailedToConverge
}

func gradientAt2D(m *mesh.Mesh, ts *mesh.ThreadState, nodes []int, anchor geometry.Vec3) (geometry.Vec3, error) {
	samples := make([]gradient.Sample, len(nodes))
	for i, n := range nodes {
		samples[i] = gradient.Sample{Pos: m.Nodes[n].Pos, T: ts.T[n]}
	}
	if len(samples) >= 5 {
		if g, err := gradient.Recover(gradient.HighOrder2D, samples, gradient.Options{}); err == nil {
			return g, nil
		}
	}
	return gradient.Recover(gradient.Linear2D, samples, gradient.Options{})
}

// neighborNodeStar collects the vertex set of cellNo and every cell sharing
// an edge with it — getNeighborNodes' 2-ring node star, wide enough to feed
// the high-order gradient fit when the mesh is locally dense.
func neighborNodeStar(m *mesh.Mesh, cellNo int) []int {
	seen := map[int]bool{}
	var out []int
	add := func(n int) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	verts := m.Neighbors[cellNo]
	for _, v := range verts {
		add(v)
	}
	for i := 0; i < len(verts); i++ {
		for j := i + 1; j < len(verts); j++ {
			for _, nb := range m.EdgeNeighbors(verts[i], verts[j]) {
				if nb == cellNo {
					continue
				}
				for _, v := range m.Neighbors[nb] {
					add(v)
				}
			}
		}
	}
	return out
}

func normalize2(v geometry.Vec3) geometry.Vec3 {
	n := math.Hypot(v.X, v.Z)
	if n == 0 {
		return v
	}
	return geometry.Vec3{X: v.X / n, Z: v.Z / n}
}

// gradientAt3D is gradientAt2D's tetrahedron analogue: HighOrder3D needs a
// wide enough star to be well-conditioned, Linear3DRecentered is the
// order-independent fallback, mirroring the 2D dispatcher's HighOrder2D/
// Linear2D pair.
func gradientAt3D(m *mesh.Mesh, ts *mesh.ThreadState, nodes []int) (geometry.Vec3, error) {
	samples := make([]gradient.Sample, len(nodes))
	for i, n := range nodes {
		samples[i] = gradient.Sample{Pos: m.Nodes[n].Pos, T: ts.T[n]}
	}
	if len(samples) >= 9 {
		if g, err := gradient.Recover(gradient.HighOrder3D, samples, gradient.Options{}); err == nil {
			return g, nil
		}
	}
	return gradient.Recover(gradient.Linear3DRecentered, samples, gradient.Options{})
}

// neighborNodeStarTet is neighborNodeStar's tetrahedron analogue: the
// 2-ring node star is built across shared faces rather than shared edges,
// since FaceNeighbors (not EdgeNeighbors) identifies cell-to-cell adjacency
// in 3D.
func neighborNodeStarTet(m *mesh.Mesh, cellNo int) []int {
	seen := map[int]bool{}
	var out []int
	add := func(n int) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	verts := m.Neighbors[cellNo]
	for _, v := range verts {
		add(v)
	}
	for i := 0; i < len(verts); i++ {
		for j := i + 1; j < len(verts); j++ {
			for k := j + 1; k < len(verts); k++ {
				for _, nb := range m.FaceNeighbors(verts[i], verts[j], verts[k]) {
					if nb == cellNo {
						continue
					}
					for _, v := range m.Neighbors[nb] {
						add(v)
					}
				}
			}
		}
	}
	return out
}

func normalize3(v geometry.Vec3) geometry.Vec3 {
	n := geometry.Norm3(v)
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// parentFallback is the last resort stepOnNode/stepOnNodeTet reach for when
// no owning cell's gradient admits on either pass: a single reconstructed
// gradient per cell cannot always recover the true, locally-varying
// traveltime gradient exactly (a single flat tet with a point source at one
// vertex is the sharpest case — the affine fit over its four nodes has no
// way to express the conical field a point source actually produces), but
// ts.ParentNode already records the neighbor each node's FMM update
// actually arrived from, which is always a valid, strictly-decreasing-time
// step. Falling back to it guarantees Trace terminates instead of reporting
// ErrFailedToConverge on a mesh that plainly has a path.
func parentFallback(m *mesh.Mesh, ts *mesh.ThreadState, nodeNo int, path *[]geometry.Vec3) (geometry.Vec3, bool) {
	pn := ts.ParentNode[nodeNo]
	if pn < 0 {
		return geometry.Vec3{}, false
	}
	pt := m.Nodes[pn].Pos
	*path = append(*path, pt)
	return pt, true
}

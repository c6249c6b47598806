package mesh

import (
	"github.com/ffigura/ttcr/geometry"
	"github.com/ffigura/ttcr/interp"
)

// ComputeDt returns the average-slowness travel increment between a source
// node and a point of given slowness: (slo+source.Slowness)/2 * distance.
func ComputeDt(source Node, point geometry.Vec3, slo float64) float64 {
	return (slo + source.Slowness) / 2 * geometry.Dist3(source.Pos, point)
}

// ComputeSlowness interpolates the slowness at an arbitrary point from the
// primary nodes of its containing cell; cellNo may be supplied when already
// known (avoids a second CellOf scan), or pass -1 to have it resolved.
func (m *Mesh) ComputeSlowness(p geometry.Vec3, cellNo int) (float64, bool) {
	if cellNo < 0 {
		cellNo = m.CellOf(p)
	}
	if cellNo < 0 {
		return 0, false
	}
	var dists, vals []float64
	for _, nn := range m.Neighbors[cellNo] {
		if !m.Nodes[nn].Primary {
			continue
		}
		dists = append(dists, geometry.Dist3(m.Nodes[nn].Pos, p))
		vals = append(vals, m.Nodes[nn].Slowness)
	}
	return interp.InverseDistance(dists, vals), true
}

// GetTraveltime returns the traveltime at Rx for the given thread: the
// exact node value if Rx coincides with a node, otherwise the minimum over
// the containing cell's neighbor nodes of T(neighbor) + ComputeDt(neighbor,
// Rx, slowness(Rx)), matching Grid2Dui::getTraveltime.
func (m *Mesh) GetTraveltime(rx geometry.Vec3, ts *ThreadState) (t float64, parentNode, parentCell int, ok bool) {
	const tol = 1e-9
	if nn := m.NodeAt(rx, tol); nn >= 0 {
		return ts.T[nn], ts.ParentNode[nn], ts.ParentCell[nn], true
	}

	slo, found := m.ComputeSlowness(rx, -1)
	if !found {
		return 0, -1, -1, false
	}
	cellNo := m.CellOf(rx)
	if cellNo < 0 {
		return 0, -1, -1, false
	}

	best := false
	for _, nn := range m.Neighbors[cellNo] {
		dt := ComputeDt(m.Nodes[nn], rx, slo)
		candidate := ts.T[nn] + dt
		if !best || candidate < t {
			t = candidate
			parentNode = nn
			parentCell = cellNo
			best = true
		}
	}
	return t, parentNode, parentCell, best
}

package fmm

import (
	"errors"

	"github.com/ffigura/ttcr/geometry"
	"github.com/ffigura/ttcr/mesh"
)

// ErrNoNodesInSourceRadius is returned when SourceRadius is positive but no
// mesh node falls within it of a single-source transmitter.
var ErrNoNodesInSourceRadius = errors.New("fmm: no nodes found within source radius")

// Source is one transmitter location and its origin time, grounded on
// initBand's (Tx, t0) pairs.
type Source struct {
	Pos geometry.Vec3
	T0  float64
}

// Seed initializes ts and the narrow band from one or more sources,
// grounded on Grid3Ducfm::initBand: a source coincident with a primary
// node freezes that node directly; a source strictly inside a cell
// freezes every node of that cell at t0 plus the travel increment over the
// straight segment, using the average of the node's slowness and the
// slowness interpolated at the source point. SourceRadius only applies when
// there is exactly one source, following the source's own Tx.size()==1
// guards: with it zero, a single on-node source additionally relaxes and
// freezes its direct neighbors; with it positive, every node
// within that Euclidean radius is frozen directly from the source instead.
func Seed(m *mesh.Mesh, ts *mesh.ThreadState, sources []Source, sourceRadius float64) (*band, error) {
	b := newBand()
	single := len(sources) == 1

	for _, src := range sources {
		const tol = 1e-9
		if nn := m.NodeAt(src.Pos, tol); nn >= 0 {
			freeze(ts, b, nn, src.T0)

			if single {
				if sourceRadius == 0 {
					seedNeighborsOfNode(m, ts, b, nn, src.T0)
				} else if err := seedWithinRadius(m, ts, b, src.Pos, src.T0, sourceRadius, nn); err != nil {
					return nil, err
				}
			}
			continue
		}

		cellNo := m.CellOf(src.Pos)
		if cellNo < 0 {
			continue
		}
		if sourceRadius == 0 || !single {
			slo, _ := m.ComputeSlowness(src.Pos, cellNo)
			for _, nn := range m.Neighbors[cellNo] {
				dt := mesh.ComputeDt(m.Nodes[nn], src.Pos, slo)
				freeze(ts, b, nn, src.T0+dt)
			}
		} else if err := seedWithinRadius(m, ts, b, src.Pos, src.T0, sourceRadius, -1); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func freeze(ts *mesh.ThreadState, b *band, node int, t float64) {
	ts.T[node] = t
	ts.Frozen[node] = true
	ts.InBand[node] = true
	b.push(node, t)
}

func seedNeighborsOfNode(m *mesh.Mesh, ts *mesh.ThreadState, b *band, nn int, t0 float64) {
	for _, cellNo := range m.Nodes[nn].Owners {
		for _, neibNo := range m.Neighbors[cellNo] {
			if neibNo == nn {
				continue
			}
			dt := mesh.ComputeDt(m.Nodes[nn], m.Nodes[neibNo].Pos, m.Nodes[neibNo].Slowness)
			if t0+dt < ts.T[neibNo] {
				ts.T[neibNo] = t0 + dt
				ts.ParentNode[neibNo] = nn
				ts.ParentCell[neibNo] = cellNo
				if !ts.InBand[neibNo] {
					ts.InBand[neibNo] = true
					ts.Frozen[neibNo] = true
					b.push(neibNo, ts.T[neibNo])
				}
			}
		}
	}
}

// seedWithinRadius freezes every node within radius of center directly from
// the source. When the source sits on node nn (excludeNode==nn), those
// nodes' parent is recorded as nn so a raypath trace can fall back to it
// exactly as it would a normal FMM-propagated predecessor; a source
// strictly inside a cell (excludeNode<0) has no single parent node to
// record.
func seedWithinRadius(m *mesh.Mesh, ts *mesh.ThreadState, b *band, center geometry.Vec3, t0, radius float64, excludeNode int) error {
	added := 0
	for no, node := range m.Nodes {
		if no == excludeNode {
			continue
		}
		d := geometry.Dist3(node.Pos, center)
		if d > radius {
			continue
		}
		slown := node.Slowness
		if excludeNode >= 0 {
			slown = averageOwnerSlowness(m, excludeNode)
		}
		dt := d * slown
		if t0+dt < ts.T[no] {
			ts.T[no] = t0 + dt
			if excludeNode >= 0 {
				ts.ParentNode[no] = excludeNode
			}
			if !ts.InBand[no] {
				ts.InBand[no] = true
				ts.Frozen[no] = true
				b.push(no, ts.T[no])
				added++
			}
		}
	}
	if added == 0 {
		return ErrNoNodesInSourceRadius
	}
	return nil
}

// averageOwnerSlowness averages node slowness over the cells owning node —
// the per-node-slowness analogue of the source's per-cell slowness average
// with the source's own owning cells (its per-cell constant-slowness field
// has no equivalent here, since this mesh carries slowness per node).
func averageOwnerSlowness(m *mesh.Mesh, node int) float64 {
	owners := m.Nodes[node].Owners
	if len(owners) == 0 {
		return m.Nodes[node].Slowness
	}
	var sum float64
	var n int
	for _, cellNo := range owners {
		for _, v := range m.Elements[cellNo].Verts() {
			sum += m.Nodes[v].Slowness
			n++
		}
	}
	return sum / float64(n)
}

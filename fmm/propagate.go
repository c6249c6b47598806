package fmm

import (
	"github.com/ffigura/ttcr/eikonal"
	"github.com/ffigura/ttcr/mesh"
)

// Propagate drains the narrow band, grounded on Grid3Ducfm::propagate:
// pop the minimum-traveltime node, freeze it, and relax every unfrozen
// vertex sharing an owning element with it through the eikonal package,
// pushing any node newly brought into the band.
func Propagate(m *mesh.Mesh, ts *mesh.ThreadState, b *band) {
	for b.len() > 0 {
		src := b.pop()
		ts.InBand[src] = false
		ts.Frozen[src] = true

		for _, cellNo := range m.Nodes[src].Owners {
			for _, neibNo := range m.Neighbors[cellNo] {
				if neibNo == src || ts.Frozen[neibNo] {
					continue
				}

				eikonal.Relax(m, ts, neibNo)

				if !ts.InBand[neibNo] {
					ts.InBand[neibNo] = true
					b.push(neibNo, ts.T[neibNo])
				}
			}
		}
	}
}

// Run seeds the narrow band from sources and drains it, the full
// per-source Fast-Marching invocation a solver.Raytrace call makes once
// per transmitter group after ts.Reset().
func Run(m *mesh.Mesh, ts *mesh.ThreadState, sources []Source, sourceRadius float64) error {
	b, err := Seed(m, ts, sources, sourceRadius)
	if err != nil {
		return err
	}
	Propagate(m, ts, b)
	return nil
}

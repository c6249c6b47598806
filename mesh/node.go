package mesh

import "github.com/ffigura/ttcr/geometry"

// Node is a primary mesh vertex or a secondary (auxiliary) node used by
// higher-order variants. Coordinates, slowness and owner list are set once
// at construction and are read-only afterward; traveltime and predecessor
// state live outside the node, in per-thread columnar ThreadState arrays
// (see thread.go), so a Node itself carries no mutable solve state.
type Node struct {
	ID       int
	Pos      geometry.Vec3
	Slowness float64
	Primary  bool
	// Owners lists the indices, into Mesh.Elements, of every element that
	// contains this node. Arena+index, never a direct pointer, so
	// construction never needs to resolve a self-referential cycle.
	Owners []int
}

// X, Y, Z convenience accessors matching the original 2D/3D naming.
func (n Node) X() float64 { return n.Pos.X }
func (n Node) Y() float64 { return n.Pos.Y }
func (n Node) Z() float64 { return n.Pos.Z }

func (n Node) DistanceTo(o Node) float64 {
	return geometry.Dist3(n.Pos, o.Pos)
}

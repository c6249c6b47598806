package mesh

import (
	"fmt"
	"math"
	"sort"

	"github.com/ffigura/ttcr/geometry"
)

// Mesh owns the immutable node and element arrays, the element-to-node
// neighbor table used for cache-local updates, and the virtual-node
// registry built by processObtuse for 2D meshes. Coordinates and
// connectivity never change after New2D/New3D; slowness is settable,
// per-thread traveltime/predecessor state lives in ThreadState.
type Mesh struct {
	Dim       int // 2 or 3
	Nodes     []Node
	Elements  []Element
	nPrimary  int
	// Neighbors[e] is the set of node indices belonging to element e,
	// redundant with Elements[e].Verts() but kept for cache locality
	// during the Fast-Marching main loop.
	Neighbors [][]int
	// VirtualNodes maps a triangle index to its obtuse-angle correction,
	// built once by processObtuse. 2D only.
	VirtualNodes map[int]VirtualNode
	adjacency    map[EdgeKey][]int
	// faceAdjacency maps a tetrahedron face (3 node indices) to the
	// elements touching it; unused for 2D meshes, where an edge already
	// identifies the shared boundary between two triangles.
	faceAdjacency map[FaceKey][]int
}

// VirtualNode is the unfolded support used by the local eikonal solver to
// correct an obtuse triangle: node1/node2 replace the triangle's own
// opposite-edge endpoints, with cached edge lengths and angles.
type VirtualNode struct {
	Node1, Node2 int
	A            [3]float64 // angle at (update vertex, node1, node2)
	E            [3]float64 // edge length opposite (update vertex, node1, node2)
}

// New2D builds a triangle mesh from node coordinates (x,z) and element
// vertex triples, running processObtuse once to populate VirtualNodes.
func New2D(coords [][2]float64, tris [][3]int, slowness float64) (*Mesh, error) {
	m := &Mesh{Dim: 2}
	m.Nodes = make([]Node, len(coords))
	for i, c := range coords {
		m.Nodes[i] = Node{ID: i, Pos: geometry.Vec3{X: c[0], Z: c[1]}, Primary: true, Slowness: slowness}
	}
	m.nPrimary = len(m.Nodes)
	m.Elements = make([]Element, len(tris))
	for e, t := range tris {
		for _, idx := range t {
			if idx < 0 || idx >= len(m.Nodes) {
				return nil, fmt.Errorf("mesh: triangle %d references invalid node %d", e, idx)
			}
		}
		el := Element{Kind: Triangle, I: [4]int{t[0], t[1], t[2], 0}}
		el.computeTriangleGeometry(m.Nodes)
		m.Elements[e] = el
	}
	m.buildOwnersAndNeighbors()
	m.adjacency = m.buildAdjacency()
	m.VirtualNodes = make(map[int]VirtualNode)
	m.processObtuse()
	return m, nil
}

// New3D builds a tetrahedral mesh from node coordinates (x,y,z) and element
// vertex quadruples.
func New3D(coords [][3]float64, tets [][4]int, slowness float64) (*Mesh, error) {
	m := &Mesh{Dim: 3}
	m.Nodes = make([]Node, len(coords))
	for i, c := range coords {
		m.Nodes[i] = Node{ID: i, Pos: geometry.Vec3{X: c[0], Y: c[1], Z: c[2]}, Primary: true, Slowness: slowness}
	}
	m.nPrimary = len(m.Nodes)
	m.Elements = make([]Element, len(tets))
	for e, t := range tets {
		for _, idx := range t {
			if idx < 0 || idx >= len(m.Nodes) {
				return nil, fmt.Errorf("mesh: tetrahedron %d references invalid node %d", e, idx)
			}
		}
		m.Elements[e] = Element{Kind: Tetrahedron, I: [4]int{t[0], t[1], t[2], t[3]}}
	}
	m.buildOwnersAndNeighbors()
	m.adjacency = m.buildAdjacency()
	m.faceAdjacency = m.buildFaceAdjacency()
	m.VirtualNodes = map[int]VirtualNode{}
	return m, nil
}

func (e *Element) computeTriangleGeometry(nodes []Node) {
	p := [3]geometry.Vec3{nodes[e.I[0]].Pos, nodes[e.I[1]].Pos, nodes[e.I[2]].Pos}
	for i := 0; i < 3; i++ {
		j, k := (i+1)%3, (i+2)%3
		e.L[i] = geometry.Dist3(p[j], p[k])
	}
	for i := 0; i < 3; i++ {
		j, k := (i+1)%3, (i+2)%3
		// angle at vertex i, opposite edge L[i]
		a, b, c := e.L[j], e.L[k], e.L[i]
		e.A[i] = triangleAngle(a, b, c)
		_ = j
		_ = k
	}
}

// triangleAngle returns the angle opposite side c in a triangle with sides
// a, b, c (law of cosines), exactly as processObtuse/localSolver compute
// angles from edge lengths.
func triangleAngle(a, b, c float64) float64 {
	cosC := (a*a + b*b - c*c) / (2 * a * b)
	if cosC > 1 {
		cosC = 1
	} else if cosC < -1 {
		cosC = -1
	}
	return math.Acos(cosC)
}

func (m *Mesh) buildOwnersAndNeighbors() {
	m.Neighbors = make([][]int, len(m.Elements))
	for e, el := range m.Elements {
		verts := append([]int(nil), el.Verts()...)
		m.Neighbors[e] = verts
		for _, v := range verts {
			m.Nodes[v].Owners = append(m.Nodes[v].Owners, e)
		}
	}
}

// NumNodes, NumElements, NumPrimary report array sizes.
func (m *Mesh) NumNodes() int    { return len(m.Nodes) }
func (m *Mesh) NumElements() int { return len(m.Elements) }
func (m *Mesh) NumPrimary() int  { return m.nPrimary }

// SetSlowness sets a uniform scalar slowness on every node.
func (m *Mesh) SetSlowness(s float64) {
	for i := range m.Nodes {
		m.Nodes[i].Slowness = s
	}
}

// SetSlownessVector sets a per-node slowness; length must equal NumNodes.
func (m *Mesh) SetSlownessVector(s []float64) error {
	if len(s) != len(m.Nodes) {
		return fmt.Errorf("mesh: slowness vector length %d does not match node count %d", len(s), len(m.Nodes))
	}
	for i, v := range s {
		m.Nodes[i].Slowness = v
	}
	return nil
}

// CellOf returns the index of an element containing p, or -1 if none does
// (a linear scan over insideTriangle/insideTet, as the source does — this
// system targets meshes small enough that a spatial index is not worth the
// added complexity).
func (m *Mesh) CellOf(p geometry.Vec3) int {
	for e, el := range m.Elements {
		if m.elementContains(el, p) {
			return e
		}
	}
	return -1
}

func (m *Mesh) elementContains(el Element, p geometry.Vec3) bool {
	if el.Kind == Triangle {
		if m.Dim == 2 {
			v0 := to2(m.Nodes[el.I[0]].Pos)
			v1 := to2(m.Nodes[el.I[1]].Pos)
			v2 := to2(m.Nodes[el.I[2]].Pos)
			return geometry.InsideTriangle2D(to2(p), v0, v1, v2)
		}
		return geometry.InsideTriangle3D(p, m.Nodes[el.I[0]].Pos, m.Nodes[el.I[1]].Pos, m.Nodes[el.I[2]].Pos)
	}
	return geometry.InsideTet(p, m.Nodes[el.I[0]].Pos, m.Nodes[el.I[1]].Pos, m.Nodes[el.I[2]].Pos, m.Nodes[el.I[3]].Pos)
}

func to2(v geometry.Vec3) geometry.Vec2 { return geometry.Vec2{X: v.X, Z: v.Z} }

// NodeAt returns the index of a node coincident with p within tolerance,
// or -1.
func (m *Mesh) NodeAt(p geometry.Vec3, tol float64) int {
	for i, n := range m.Nodes {
		if geometry.Dist3(n.Pos, p) <= tol {
			return i
		}
	}
	return -1
}

// Contains reports whether p lies on a node or inside some element — the
// concrete form of checkPts used by solver.Raytrace to validate Tx/Rx.
func (m *Mesh) Contains(p geometry.Vec3, tol float64) bool {
	if m.NodeAt(p, tol) >= 0 {
		return true
	}
	return m.CellOf(p) >= 0
}

// processObtuse locates, for every triangle and every vertex whose interior
// angle exceeds pi/2, the neighboring triangle across the opposite edge and
// builds a virtual-node correction from its third vertex. The redesigned
// selection (see DESIGN.md) picks whichever of the opposite triangle's
// three vertices differs from both i1 and i2, rather than the source's
// duplicated-predicate `else if` that could never select the second
// fallback vertex.
func (m *Mesh) processObtuse() {
	const pi2 = math.Pi / 2

	for ntri := range m.Elements {
		tri := m.Elements[ntri]
		if tri.Kind != Triangle {
			continue
		}
		for n := 0; n < 3; n++ {
			if tri.A[n] <= pi2 {
				continue
			}
			i0 := tri.I[n]
			i1 := tri.I[(n+1)%3]
			i2 := tri.I[(n+2)%3]

			oppositeTriangle, found := m.findOppositeTriangle(i1, i2, ntri)
			if !found {
				continue // boundary edge, no correction
			}

			opp := m.Elements[oppositeTriangle]
			var i3 int
			for _, v := range opp.Verts() {
				if v != i1 && v != i2 {
					i3 = v
					break
				}
			}

			node1, node2 := i1, i3
			a := m.Nodes[i1].DistanceTo(m.Nodes[i3])
			b := m.Nodes[i0].DistanceTo(m.Nodes[i3])
			c := m.Nodes[i0].DistanceTo(m.Nodes[i1])
			a0 := triangleAngle(b, c, a)

			if a0 > pi2 { // still obtuse: swap which vertex is replaced
				node1, node2 = i3, i2
				a = m.Nodes[i2].DistanceTo(m.Nodes[i3])
				b = m.Nodes[i0].DistanceTo(m.Nodes[i2])
				c = m.Nodes[i0].DistanceTo(m.Nodes[i3])
				a0 = triangleAngle(b, c, a)
			}

			vn := VirtualNode{
				Node1: node1,
				Node2: node2,
				A:     [3]float64{a0, triangleAngle(c, a, b), triangleAngle(a, b, c)},
				E:     [3]float64{a, b, c},
			}
			m.VirtualNodes[ntri] = vn
		}
	}
}

func (m *Mesh) findOppositeTriangle(i1, i2, exclude int) (int, bool) {
	for _, o1 := range m.Nodes[i1].Owners {
		if o1 == exclude {
			continue
		}
		if m.Elements[o1].HasVertex(i2) {
			return o1, true
		}
	}
	return 0, false
}

// buildAdjacency returns, for every edge of every element (triangles and
// tetrahedra alike) keyed by EdgeKey, the indices of all elements containing
// that edge, the sorted-vertex-key technique used by
// DG3D/mesh/mesh_common.go's BuildConnectivity adapted to triangle/tet
// adjacency rather than a fixed EToE/EToF table.
func (m *Mesh) buildAdjacency() map[EdgeKey][]int {
	adj := make(map[EdgeKey][]int)
	for e, el := range m.Elements {
		verts := el.Verts()
		n := len(verts)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				k := NewEdgeKey(verts[i], verts[j])
				adj[k] = append(adj[k], e)
			}
		}
	}
	return adj
}

// EdgeNeighbors returns, sorted, the element indices sharing edge (i0,i1).
func (m *Mesh) EdgeNeighbors(i0, i1 int) []int {
	cells := append([]int(nil), m.adjacency[NewEdgeKey(i0, i1)]...)
	sort.Ints(cells)
	return cells
}

// buildFaceAdjacency is buildAdjacency's tetrahedron-face analogue: every
// element's four 3-vertex subsets key the elements touching that face. An
// edge in a tet mesh is shared by an arbitrary fan of tetrahedra, so
// EdgeNeighbors cannot identify a cell-to-cell transition across a face;
// this is the lookup 3D ray tracing needs instead.
func (m *Mesh) buildFaceAdjacency() map[FaceKey][]int {
	adj := make(map[FaceKey][]int)
	for e, el := range m.Elements {
		if el.Kind != Tetrahedron {
			continue
		}
		verts := el.Verts()
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				for k := j + 1; k < 4; k++ {
					key := NewFaceKey(verts[i], verts[j], verts[k])
					adj[key] = append(adj[key], e)
				}
			}
		}
	}
	return adj
}

// FaceNeighbors returns, sorted, the element indices touching face
// (i0,i1,i2) — at most two for an interior face, one for a boundary face.
func (m *Mesh) FaceNeighbors(i0, i1, i2 int) []int {
	cells := append([]int(nil), m.faceAdjacency[NewFaceKey(i0, i1, i2)]...)
	sort.Ints(cells)
	return cells
}

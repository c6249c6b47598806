package mesh

// Kind distinguishes a 2D triangle from a 3D tetrahedron element.
type Kind uint8

const (
	Triangle Kind = iota
	Tetrahedron
)

// Element is a triangle (3 node indices) or a tetrahedron (4 node indices),
// with precomputed edge lengths and opposite-vertex angles. Triangles use
// l[0..2]/a[0..2] the way the source does: l[i]/a[i] are the edge length
// and interior angle opposite vertex I[i]. Tetrahedra carry no cached
// lengths or angles: the 3D local solver computes them from node positions
// on each update, since the candidate "opposite face" triangles vary per
// update vertex.
type Element struct {
	Kind           Kind
	I              [4]int // node indices; I[3] unused for triangles
	PhysicalEntity int
	// L and A are populated only for triangles: L[i] is the edge length
	// opposite I[i], A[i] the interior angle at I[i].
	L [3]float64
	A [3]float64
}

func (e Element) NumVerts() int {
	if e.Kind == Triangle {
		return 3
	}
	return 4
}

func (e Element) Verts() []int {
	return e.I[:e.NumVerts()]
}

func (e Element) HasVertex(idx int) bool {
	for _, v := range e.Verts() {
		if v == idx {
			return true
		}
	}
	return false
}

// LocalIndex returns the position of node idx within the element's vertex
// tuple, or -1 if idx is not a vertex of this element.
func (e Element) LocalIndex(idx int) int {
	for i, v := range e.Verts() {
		if v == idx {
			return i
		}
	}
	return -1
}

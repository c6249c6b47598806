package mesh

import "sort"

// FaceKey packs three node indices into an order-independent key, the
// tetrahedron-face analogue of EdgeKey: a face touching nodes 4, 0 and 2 is
// always stored as (0,2,4).
type FaceKey [3]int

func NewFaceKey(i0, i1, i2 int) FaceKey {
	k := FaceKey{i0, i1, i2}
	sort.Ints(k[:])
	return k
}

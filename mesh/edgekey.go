package mesh

import "math"

// EdgeKey packs two node indices into a single comparable, order-independent
// key, the way the source's node→element adjacency bookkeeping does: an
// edge between nodes 4 and 0 is always stored as (0,4).
type EdgeKey uint64

func NewEdgeKey(i0, i1 int) EdgeKey {
	if i0 < 0 || i1 < 0 || i0 > math.MaxUint32 || i1 > math.MaxUint32 {
		panic("mesh: node index out of range for EdgeKey")
	}
	if i0 > i1 {
		i0, i1 = i1, i0
	}
	return EdgeKey(uint64(i0) | uint64(i1)<<32)
}

func (k EdgeKey) Vertices() (i0, i1 int) {
	i1 = int(k >> 32)
	i0 = int(k - EdgeKey(i1)<<32)
	return
}

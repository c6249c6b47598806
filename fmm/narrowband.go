// Package fmm drives the Fast-Marching propagation of a single source
// across a mesh: seeding the narrow band from transmitter locations and
// repeatedly popping the minimum-traveltime node, freezing it, and relaxing
// its still-unfrozen neighbors through the eikonal package.
package fmm

import "container/heap"

// nodeCost is one narrow-band entry: the node index and its current
// traveltime, with a heap-maintained index for Swap bookkeeping.
type nodeCost struct {
	node  int
	t     float64
	index int
}

// narrowBand is a container/heap.Interface min-heap keyed by traveltime,
// the same index-tracking priorityQueue idiom used for Dijkstra-style
// shortest-path search: Swap keeps each element's heap position current so
// a later decrease-key can be implemented as remove-then-reinsert.
type narrowBand []*nodeCost

func (pq narrowBand) Len() int            { return len(pq) }
func (pq narrowBand) Less(i, j int) bool  { return pq[i].t < pq[j].t }
func (pq narrowBand) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *narrowBand) Push(x any) {
	item := x.(*nodeCost)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *narrowBand) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	item.index = -1
	*pq = old[:n-1]
	return item
}

// band wraps narrowBand with heap.Init/Push/Pop and tracks, per node, the
// live entry (if any) so InBand membership and value lookups stay O(1).
type band struct {
	pq      narrowBand
	entries map[int]*nodeCost
}

func newBand() *band {
	b := &band{pq: narrowBand{}, entries: make(map[int]*nodeCost)}
	heap.Init(&b.pq)
	return b
}

func (b *band) push(node int, t float64) {
	nc := &nodeCost{node: node, t: t}
	b.entries[node] = nc
	heap.Push(&b.pq, nc)
}

func (b *band) len() int { return b.pq.Len() }

// pop removes and returns the minimum-traveltime node.
func (b *band) pop() int {
	nc := heap.Pop(&b.pq).(*nodeCost)
	delete(b.entries, nc.node)
	return nc.node
}

package mesh

import "math"

// ThreadState holds one thread's mutable traveltime/predecessor arrays,
// indexed by node index. Per spec.md §9's design note, this is implemented
// as parallel columnar arrays rather than fields on Node, keeping the
// immutable node record free of per-call mutable state; a caller running
// several sources concurrently allocates one ThreadState per thread and
// must not share a ThreadState across threads.
type ThreadState struct {
	T          []float64
	ParentNode []int
	ParentCell []int
	Frozen     []bool
	InBand     []bool
}

// NewThreadState allocates a ThreadState sized for n nodes, with T
// initialized to +Inf and parents to -1 (no predecessor).
func NewThreadState(n int) *ThreadState {
	ts := &ThreadState{
		T:          make([]float64, n),
		ParentNode: make([]int, n),
		ParentCell: make([]int, n),
		Frozen:     make([]bool, n),
		InBand:     make([]bool, n),
	}
	ts.Reset()
	return ts
}

// Reset reinitializes the state in place — the "reinit(thread)" operation
// spec.md §3/§4.8 requires before every raytrace call, so that calling
// raytrace twice with identical inputs produces identical outputs.
func (ts *ThreadState) Reset() {
	for i := range ts.T {
		ts.T[i] = math.Inf(1)
		ts.ParentNode[i] = -1
		ts.ParentCell[i] = -1
		ts.Frozen[i] = false
		ts.InBand[i] = false
	}
}

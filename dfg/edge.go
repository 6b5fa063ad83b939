package dfg

// Edge is a directed value dependency from a producer Node to a consumer
// Node: spec.md §3's DFGEdge. Distance is the dependency's iteration
// distance: 0 for an intra-iteration value, >=1 for a loop-carried value
// (a phi operand coming from the previous iteration's body).
type Edge struct {
	ID       int
	From, To *Node
	Distance int

	// OperandIndex records which operand slot of To this edge feeds,
	// needed when a consumer has more than one predecessor and the
	// router must land the value in a specific operand position.
	OperandIndex int
}

// IsLoopCarried reports whether the edge crosses an iteration boundary.
func (e *Edge) IsLoopCarried() bool {
	return e.Distance > 0
}

// connect appends e to the adjacency lists of both endpoints, keeping the
// "every edge exists in both endpoint adjacency lists" invariant from
// spec.md §3.
func connect(e *Edge) {
	e.From.Succs = append(e.From.Succs, e)
	e.To.Preds = append(e.To.Preds, e)
}

// disconnect removes e from both endpoints' adjacency lists; used by
// fusion when a matched subgraph's internal edges are retired.
func disconnect(e *Edge) {
	e.From.Succs = removeEdge(e.From.Succs, e)
	e.To.Preds = removeEdge(e.To.Preds, e)
}

func removeEdge(list []*Edge, target *Edge) []*Edge {
	out := list[:0]
	for _, e := range list {
		if e != target {
			out = append(out, e)
		}
	}
	return out
}

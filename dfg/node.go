package dfg

import "github.com/sarchlab/cgramap/host"

// Placement is the (tile, start-slot) a scheduler has committed a node to.
// It is nil on every DFGNode until a Mapper places it, and cleared again
// when a mapping attempt is rolled back or a new II is tried.
type Placement struct {
	Row, Column int
	Slot        int
}

// Node is a single DFG operation: spec.md §3's DFGNode. Nodes are stored
// in a dense, id-indexed arena inside a DFG (spec.md §9's "arena + stable
// ids" design note) so cross-references, serialization, and backtracking
// logs can all use plain integers instead of pointers.
type Node struct {
	ID     int
	Opcode string

	TypeClass host.TypeClass
	// Precision is the packed sub-word width in bits (8/16/32/64); only
	// meaningful when the DFG was built with precisionAware set.
	Precision int

	// Cycles is the execution latency in cycles: 1 for single-cycle ops,
	// >1 for multi-cycle ones (idiv, some float ops) unless overridden by
	// optLatency.
	Cycles int

	// FusionGroup is non-nil once a fusion pass has folded this node into
	// a fused op; it names the pattern that matched.
	FusionGroup *string

	// DVFSLatencyMultiple scales Cycles when the node lands in a
	// lower-frequency DVFS island; 1 when DVFS is not in play.
	DVFSLatencyMultiple int

	// Unsupported is set by Build when Opcode is not in the supported
	// whitelist; canMap reports such nodes instead of silently dropping
	// them.
	Unsupported bool

	Preds []*Edge
	Succs []*Edge

	// Placement is nil until a Mapper commits this node to a tile/slot.
	Placement *Placement

	// sourceOpIDs names the host.Operation id(s) this node was built
	// from, preserved for diagnostics and incremental-mapping stable-id
	// matching; a fused node lists every operation it absorbed.
	sourceOpIDs []int
}

// SourceOpIDs returns the host operation ids this node was built from, in
// construction order.
func (n *Node) SourceOpIDs() []int {
	out := make([]int, len(n.sourceOpIDs))
	copy(out, n.sourceOpIDs)
	return out
}

// IsMultiCycle reports whether the node occupies more than one slot per
// execution.
func (n *Node) IsMultiCycle() bool {
	return n.Cycles > 1
}

// Latency is the effective execution latency once DVFS scaling is
// applied.
func (n *Node) Latency() int {
	mult := n.DVFSLatencyMultiple
	if mult < 1 {
		mult = 1
	}
	return n.Cycles * mult
}

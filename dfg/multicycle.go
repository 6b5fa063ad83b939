package dfg

import "fmt"

// splittableOpcodes lists the opcodes "distributed" multi-cycle strategy
// is allowed to break into a chain of single-cycle nodes. Only integer
// divide is named in spec.md §4.1 ("integer division nodes with
// vectorFactorForIdiv = k are split into k single-cycle nodes").
var splittableOpcodes = map[string]bool{
	"sdiv": true,
	"udiv": true,
}

// applyMultiCycleDecomposition implements the three multiCycleStrategy
// values from spec.md §4.1:
//
//   - "exclusive" (default): nodes keep Cycles as-is; the CGRA occupancy
//     model reserves their tile for Cycles consecutive slots.
//   - "distributed": splittable multi-cycle nodes are replaced by a
//     linear chain of vectorFactorForIdiv single-cycle nodes.
//   - "inclusive": like exclusive, but the CGRA model permits other
//     independent operations to share the tile in the gaps; this is a
//     CGRA-side (occupancy policy), not a DFG-side, difference, so no
//     DFG transformation happens here.
func applyMultiCycleDecomposition(d *DFG) {
	if d.opts.MultiCycleStrategy != "distributed" {
		return
	}
	factor := d.opts.VectorFactorForIdiv
	if factor < 1 {
		factor = 1
	}
	if factor == 1 {
		return
	}

	for _, id := range d.sortedNodeIDs() {
		n, ok := d.Node(id)
		if !ok || !splittableOpcodes[n.Opcode] {
			continue
		}
		splitNode(d, n, factor)
	}
}

// splitNode replaces n with a chain of factor single-cycle nodes
// n.0 -> n.1 -> ... -> n.(factor-1), all with distance-0 edges, n.0
// inheriting n's predecessors and n.(factor-1) inheriting its successors.
func splitNode(d *DFG, n *Node, factor int) {
	chain := make([]*Node, factor)
	chain[0] = n
	n.Cycles = 1
	n.DVFSLatencyMultiple = 1

	for i := 1; i < factor; i++ {
		chain[i] = &Node{
			ID:                  nextSplitID(d, n.ID, i),
			Opcode:              n.Opcode,
			TypeClass:           n.TypeClass,
			Cycles:              1,
			DVFSLatencyMultiple: 1,
			Precision:           n.Precision,
			sourceOpIDs:         n.sourceOpIDs,
		}
		d.Nodes = append(d.Nodes, chain[i])
		d.nodesByID[chain[i].ID] = chain[i]
	}

	// Move n's outgoing edges to the last link in the chain.
	tail := chain[factor-1]
	tail.Succs = n.Succs
	for _, e := range tail.Succs {
		e.From = tail
	}
	if tail != n {
		n.Succs = nil
	}

	edgeID := len(d.Edges)
	for i := 0; i < factor-1; i++ {
		e := &Edge{ID: edgeID, From: chain[i], To: chain[i+1], Distance: 0}
		edgeID++
		connect(e)
		d.Edges = append(d.Edges, e)
	}
}

func nextSplitID(d *DFG, baseID, linkIndex int) int {
	candidate := baseID*1000 + linkIndex
	for {
		if _, exists := d.Node(candidate); !exists {
			return candidate
		}
		candidate++
	}
}

// ValidateSplitFactor reports a descriptive error if factor is not a
// usable vectorFactorForIdiv value (>=1).
func ValidateSplitFactor(factor int) error {
	if factor < 1 {
		return fmt.Errorf("dfg: vectorFactorForIdiv must be >= 1, got %d", factor)
	}
	return nil
}

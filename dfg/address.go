package dfg

// collapseAddressChains folds a linear chain of address-computation nodes
// (gep -> gep -> ... -> gep, each link being the sole producer/consumer
// pair) into a single node, per spec.md §4.1: "Address-computation chains
// rooted at an induction variable collapse into a single
// get-element-pointer node." Processing is in ascending id order so the
// result is deterministic regardless of map iteration order elsewhere.
func collapseAddressChains(d *DFG) {
	for {
		merged := false
		for _, rootID := range d.sortedNodeIDs() {
			root, ok := d.Node(rootID)
			if !ok || !addressComputationOpcodes[root.Opcode] {
				continue
			}
			if len(root.Succs) != 1 {
				continue
			}
			succEdge := root.Succs[0]
			next := succEdge.To
			if !addressComputationOpcodes[next.Opcode] || len(next.Preds) != 1 {
				continue
			}
			mergeChainLink(d, root, next, succEdge)
			merged = true
			break
		}
		if !merged {
			return
		}
	}
}

// mergeChainLink absorbs next into root: root keeps its own predecessors,
// adopts next's successors, and the internal edge between them is
// retired.
func mergeChainLink(d *DFG, root, next *Node, internal *Edge) {
	disconnect(internal)
	d.removeEdgeFromSlice(internal)

	for _, e := range next.Succs {
		e.From = root
	}
	root.Succs = append(root.Succs, next.Succs...)
	root.sourceOpIDs = append(root.sourceOpIDs, next.sourceOpIDs...)
	next.Succs = nil

	d.removeNode(next)
}

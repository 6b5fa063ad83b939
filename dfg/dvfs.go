package dfg

// nodeHeight returns, for every node id, the length (in cycles) of the
// longest intra-iteration path starting at that node and running to a
// sink (a node with no non-loop-carried successor). It is
// criticalPathLength's mirror image, walking Succs instead of Preds, used
// only by InitDVFSLatencyMultiple to bound how much slack a node has
// before it threatens the II.
func (d *DFG) nodeHeight() map[int]int {
	height := make(map[int]int, len(d.Nodes))
	memo := make(map[int]bool)

	var visit func(n *Node) int
	visit = func(n *Node) int {
		if memo[n.ID] {
			return height[n.ID]
		}
		best := 0
		for _, e := range n.Succs {
			if e.Distance > 0 {
				continue
			}
			if h := e.To.Cycles*e.To.DVFSLatencyMultiple + visit(e.To); h > best {
				best = h
			}
		}
		height[n.ID] = best
		memo[n.ID] = true
		return best
	}

	for _, id := range d.sortedNodeIDs() {
		n, _ := d.Node(id)
		visit(n)
	}
	return height
}

// InitDVFSLatencyMultiple assigns each node's DVFSLatencyMultiple once II
// and the island geometry are known, mirroring mapperPass.cpp's
// dfg->initDVFSLatencyMultiple(II, DVFSIslandDim, cgra->getFUCount()):
// called once right after II is fixed (ResMII vs. RecMII), before
// mapping. Nodes inside the hottest recurrence SCC keep multiplier 1 —
// they gate II directly and cannot tolerate a downclocked island. Every
// other node is assigned the largest multiplier its slack (the gap
// between II and its critical depth plus height) can absorb without
// pushing any dependent past the period, capped by the number of
// frequency steps an island partition of this size can plausibly offer.
func (d *DFG) InitDVFSLatencyMultiple(ii, islandDim, fuCount int) {
	for _, n := range d.Nodes {
		n.DVFSLatencyMultiple = 1
	}
	if ii <= 0 {
		return
	}

	cap := islandDim
	if fuCount > 0 && fuCount < cap {
		cap = fuCount
	}
	if cap < 1 {
		cap = 1
	}

	hot := d.HotSCCNodeSet()
	depth := d.criticalPathLength()
	height := d.nodeHeight()

	for _, id := range d.sortedNodeIDs() {
		n, _ := d.Node(id)
		if hot[n.ID] || n.Cycles <= 0 {
			continue
		}
		slack := ii - depth[n.ID] - height[n.ID] - n.Cycles
		if slack <= 0 {
			continue
		}
		mult := 1 + slack/n.Cycles
		if mult > cap {
			mult = cap
		}
		n.DVFSLatencyMultiple = mult
	}
}

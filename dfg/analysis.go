package dfg

import "sort"

// OpcodeDistribution returns a histogram of node counts by opcode,
// grounding spec.md §4.1's showOpcodeDistribution as a pure query instead
// of a print statement so both the CLI and tests can use it.
func (d *DFG) OpcodeDistribution() map[string]int {
	hist := make(map[string]int)
	for _, n := range d.Nodes {
		hist[n.Opcode]++
	}
	return hist
}

// criticalPathLength returns, for every node id, the length (in cycles)
// of the longest intra-iteration path ending at that node. Loop-carried
// edges (Distance > 0) are excluded so the computation is a simple
// topological longest-path over what spec.md §3 guarantees is a DAG once
// those edges are removed.
func (d *DFG) criticalPathLength() map[int]int {
	length := make(map[int]int, len(d.Nodes))
	memo := make(map[int]bool)

	var visit func(n *Node) int
	visit = func(n *Node) int {
		if memo[n.ID] {
			return length[n.ID]
		}
		best := 0
		for _, e := range n.Preds {
			if e.Distance > 0 {
				continue
			}
			if l := visit(e.From) + e.From.Cycles; l > best {
				best = l
			}
		}
		length[n.ID] = best
		memo[n.ID] = true
		return best
	}

	for _, id := range d.sortedNodeIDs() {
		n, _ := d.Node(id)
		visit(n)
	}
	return length
}

// ReorderInCriticalFirst produces a topological ordering with
// critical-path length as the secondary sort key (spec.md §4.1). The
// mapper's schedulers do not call it, with or without expandableMapping;
// they order nodes by PriorityOrder. The primary key is
// still topological validity: a node never precedes one of its
// intra-iteration predecessors.
func (d *DFG) ReorderInCriticalFirst() []int {
	length := d.criticalPathLength()

	inDegree := make(map[int]int, len(d.Nodes))
	for _, n := range d.Nodes {
		deg := 0
		for _, e := range n.Preds {
			if e.Distance == 0 {
				deg++
			}
		}
		inDegree[n.ID] = deg
	}

	ready := d.sortedNodeIDs()
	var frontier []int
	for _, id := range ready {
		if inDegree[id] == 0 {
			frontier = append(frontier, id)
		}
	}

	var order []int
	for len(frontier) > 0 {
		sort.Slice(frontier, func(i, j int) bool {
			if length[frontier[i]] != length[frontier[j]] {
				return length[frontier[i]] > length[frontier[j]]
			}
			return frontier[i] < frontier[j]
		})
		id := frontier[0]
		frontier = frontier[1:]
		order = append(order, id)

		n, _ := d.Node(id)
		for _, e := range n.Succs {
			if e.Distance > 0 {
				continue
			}
			inDegree[e.To.ID]--
			if inDegree[e.To.ID] == 0 {
				frontier = append(frontier, e.To.ID)
			}
		}
	}

	d.criticalOrder = order
	return order
}

// PriorityOrder computes the scheduler's placement order per spec.md
// §4.3 step 1: critical-path-first, ties broken by fan-out (descending)
// then by id (ascending). hotSCCNodes, when non-nil, gives a further
// priority boost (placed earlier) to nodes inside a hot SCC under
// DVFSAwareMapping.
func (d *DFG) PriorityOrder(hotSCCNodes map[int]bool) []int {
	length := d.criticalPathLength()
	ids := d.sortedNodeIDs()

	fanOut := make(map[int]int, len(ids))
	for _, n := range d.Nodes {
		fanOut[n.ID] = len(n.Succs)
	}

	sort.Slice(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		if hotSCCNodes != nil && hotSCCNodes[a] != hotSCCNodes[b] {
			return hotSCCNodes[a]
		}
		if length[a] != length[b] {
			return length[a] > length[b]
		}
		if fanOut[a] != fanOut[b] {
			return fanOut[a] > fanOut[b]
		}
		return a < b
	})
	return ids
}

// HotSCCNodeSet returns the set of node ids belonging to the SCC with the
// highest recurrence weight, for DVFSAwareMapping's priority boost.
func (d *DFG) HotSCCNodeSet() map[int]bool {
	var hottest *SCC
	for _, scc := range d.SCCs {
		if hottest == nil || scc.Weight > hottest.Weight {
			hottest = scc
		}
	}
	set := make(map[int]bool)
	if hottest == nil || hottest.Weight == 0 {
		return set
	}
	for _, id := range hottest.NodeIDs {
		set[id] = true
	}
	return set
}

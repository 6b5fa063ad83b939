package dfg

import "sort"

// computeSCCs runs Tarjan's algorithm over d.Nodes/d.Edges and caches the
// resulting components (including recurrence weight) on d.SCCs. Only
// loop-carried edges (Distance > 0) make the graph cyclic at all, per
// spec.md §3's "acyclic modulo loop-carried edges" invariant; any SCC with
// more than one node, or a single node with a self-edge, is therefore a
// recurrence.
func (d *DFG) computeSCCs() {
	t := &tarjan{
		index:   make(map[int]int),
		low:     make(map[int]int),
		onStack: make(map[int]bool),
	}

	for _, id := range d.sortedNodeIDs() {
		if _, seen := t.index[id]; !seen {
			n, _ := d.Node(id)
			t.strongconnect(d, n)
		}
	}

	sort.Slice(t.sccs, func(i, j int) bool {
		return t.sccs[i][0] < t.sccs[j][0]
	})

	d.SCCs = make([]*SCC, 0, len(t.sccs))
	for _, ids := range t.sccs {
		d.SCCs = append(d.SCCs, d.buildSCC(ids))
	}
}

type tarjan struct {
	counter int
	index   map[int]int
	low     map[int]int
	onStack map[int]bool
	stack   []int
	sccs    [][]int
}

func (t *tarjan) strongconnect(d *DFG, n *Node) {
	t.index[n.ID] = t.counter
	t.low[n.ID] = t.counter
	t.counter++
	t.stack = append(t.stack, n.ID)
	t.onStack[n.ID] = true

	succIDs := make([]int, 0, len(n.Succs))
	for _, e := range n.Succs {
		succIDs = append(succIDs, e.To.ID)
	}
	sort.Ints(succIDs)

	for _, wID := range succIDs {
		w, _ := d.Node(wID)
		if _, seen := t.index[wID]; !seen {
			t.strongconnect(d, w)
			if t.low[wID] < t.low[n.ID] {
				t.low[n.ID] = t.low[wID]
			}
		} else if t.onStack[wID] {
			if t.index[wID] < t.low[n.ID] {
				t.low[n.ID] = t.index[wID]
			}
		}
	}

	if t.low[n.ID] == t.index[n.ID] {
		var comp []int
		for {
			top := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[top] = false
			comp = append(comp, top)
			if top == n.ID {
				break
			}
		}
		sort.Ints(comp)
		t.sccs = append(t.sccs, comp)
	}
}

// buildSCC computes the recurrence weight of the component named by ids:
// ceil(sum(node.cycles) / sum(loop-carried edge.distance)) over edges
// with both endpoints in the component. A component that is cyclic only
// through intra-iteration edges cannot exist (spec.md §3's acyclicity
// invariant), but a singleton node with no self-edge has zero recurring
// distance and contributes weight 0 (it is not a true recurrence).
func (d *DFG) buildSCC(ids []int) *SCC {
	inComp := make(map[int]bool, len(ids))
	for _, id := range ids {
		inComp[id] = true
	}

	cycleSum := 0
	for _, id := range ids {
		n, _ := d.Node(id)
		cycleSum += n.Cycles
	}

	distanceSum := 0
	for _, e := range d.Edges {
		if e.Distance == 0 {
			continue
		}
		if inComp[e.From.ID] && inComp[e.To.ID] {
			distanceSum += e.Distance
		}
	}

	weight := 0
	if distanceSum > 0 {
		weight = ceilDiv(cycleSum, distanceSum)
	}

	return &SCC{NodeIDs: ids, Weight: weight}
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// RecMII is the recurrence-limited lower bound on II: the maximum
// recurrence weight over every SCC (spec.md §4.3). A DFG with no
// recurrences at all has RecMII 0.
func (d *DFG) RecMII() int {
	max := 0
	for _, scc := range d.SCCs {
		if scc.Weight > max {
			max = scc.Weight
		}
	}
	return max
}

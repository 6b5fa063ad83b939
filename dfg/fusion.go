package dfg

import (
	"fmt"
	"sort"
)

// defaultFusionPatterns are the built-in patterns named as examples in
// spec.md §4.1. A config's fusionPattern table is overlaid on top of
// these, so a kernel can redefine or extend them without losing the
// built-ins it doesn't mention.
var defaultFusionPatterns = map[string][]string{
	"fma": {"mul", "add"},
	"mux": {"icmp", "select"},
	"load_acc": {"load", "add"},
}

// applyFusion runs every pattern named in d.FusionStrategy against d.Nodes,
// longest pattern first and then in the order the caller listed them in
// fusionStrategy (spec.md §9's resolution of the fusion-pattern-order
// Open Question). Fusion is idempotent: a fused node's opcode is the
// pattern name, which never appears in defaultFusionPatterns' own
// sequences, so a second pass finds nothing new to match.
func applyFusion(d *DFG) error {
	if len(d.FusionStrategy) == 0 {
		return nil
	}

	table := make(map[string][]string, len(defaultFusionPatterns)+len(d.FusionPatternTable))
	for name, seq := range defaultFusionPatterns {
		table[name] = seq
	}
	for name, seq := range d.FusionPatternTable {
		table[name] = seq
	}
	d.FusionPatternTable = table

	active := make([]string, 0, len(d.FusionStrategy))
	for _, name := range d.FusionStrategy {
		if _, ok := table[name]; !ok {
			return fmt.Errorf("dfg: fusionStrategy names unknown pattern %q", name)
		}
		active = append(active, name)
	}

	sort.SliceStable(active, func(i, j int) bool {
		return len(table[active[i]]) > len(table[active[j]])
	})

	for _, name := range active {
		fuseAllMatches(d, name, table[name])
	}

	return nil
}

// fuseAllMatches repeatedly scans nodes in ascending id order and folds
// the first matching chain of pattern into a single fused node, until no
// more matches are found.
func fuseAllMatches(d *DFG, pattern string, sequence []string) {
	if len(sequence) == 0 {
		return
	}
	for {
		chain := findMatch(d, sequence)
		if chain == nil {
			return
		}
		fuseChain(d, pattern, chain)
	}
}

// findMatch looks for a chain of len(sequence) nodes n0 -> n1 -> ... such
// that n_i.Opcode == sequence[i] and every node but the last (the head
// included) has exactly one successor, n_(i+1), so fusing it does not
// silently drop a use by another node. Other predecessors of n_(i+1) are
// not checked; they become external predecessors of the fused node.
func findMatch(d *DFG, sequence []string) []*Node {
	for _, id := range d.sortedNodeIDs() {
		head, ok := d.Node(id)
		if !ok || head.Opcode != sequence[0] {
			continue
		}
		chain := []*Node{head}
		cur := head
		matched := true
		for _, opcode := range sequence[1:] {
			if len(cur.Succs) != 1 {
				matched = false
				break
			}
			next := cur.Succs[0].To
			if next.Opcode != opcode {
				matched = false
				break
			}
			chain = append(chain, next)
			cur = next
		}
		if matched {
			return chain
		}
	}
	return nil
}

// fuseChain replaces chain with one node carrying chain's external
// predecessors and successors, the pattern's name as its opcode, and the
// max cycle cost of the nodes it absorbed (a positive execLatency
// override for the pattern name takes precedence over that max).
func fuseChain(d *DFG, pattern string, chain []*Node) {
	head := chain[0]
	tail := chain[len(chain)-1]

	fused := &Node{
		ID:                  head.ID,
		Opcode:              pattern,
		TypeClass:           head.TypeClass,
		Cycles:              maxCycles(chain),
		DVFSLatencyMultiple: 1,
		Precision:           head.Precision,
	}
	if v, ok := d.opts.ExecLatency[pattern]; ok && v > 0 {
		fused.Cycles = v
	}
	name := pattern
	fused.FusionGroup = &name

	internal := make(map[*Edge]bool)
	for i := 0; i < len(chain)-1; i++ {
		internal[chain[i].Succs[0]] = true
	}

	for _, n := range chain {
		fused.sourceOpIDs = append(fused.sourceOpIDs, n.sourceOpIDs...)
		for _, e := range n.Preds {
			if internal[e] {
				continue
			}
			e.To = fused
			fused.Preds = append(fused.Preds, e)
		}
	}
	for _, e := range tail.Succs {
		e.From = fused
		fused.Succs = append(fused.Succs, e)
	}

	for e := range internal {
		disconnect(e)
	}

	for _, n := range chain {
		n.Preds = nil
		n.Succs = nil
		d.removeNode(n)
	}

	d.Nodes = append(d.Nodes, fused)
	d.nodesByID[fused.ID] = fused
	for e := range internal {
		d.removeEdgeFromSlice(e)
	}
}

func maxCycles(chain []*Node) int {
	max := 1
	for _, n := range chain {
		if n.Cycles > max {
			max = n.Cycles
		}
	}
	return max
}

package mapper

import (
	"github.com/sarchlab/cgramap/cgra"
	"github.com/sarchlab/cgramap/dfg"
)

// IncrementalMap loads placements from prior (a decoded incremental.json,
// see LoadIncrementalJSON) and fixes every node whose source-operation
// signature and opcode still match; nodes with no match, a changed
// opcode, or a prior tile that can no longer host them are treated as
// added/changed and scheduled fresh by the heuristic, per spec.md §4.3.
// It returns ok=false if the fixed placements themselves prove
// infeasible or no prior placements were given — the caller should fall
// back to a full Map in either case.
func (mp *Mapper) IncrementalMap(cg *cgra.CGRA, d *dfg.DFG, prior map[string]PriorPlacement, priorII int) (*Schedule, bool) {
	if len(prior) == 0 || priorII <= 0 {
		return nil, false
	}

	cg.ClearOccupancy()
	clearPlacements(d)

	var changed []int
	for _, n := range d.Nodes {
		pp, ok := prior[sourceOpSignature(n.SourceOpIDs())]
		if !ok || pp.Opcode != n.Opcode {
			changed = append(changed, n.ID)
			continue
		}
		if tile, ok := cg.Node(pp.Row, pp.Column); !ok || !tile.CanSupport(n.Opcode) {
			changed = append(changed, n.ID)
			continue
		}
		if !mp.fixPlacement(cg, n, pp, priorII) {
			cg.ClearOccupancy()
			clearPlacements(d)
			return nil, false
		}
	}

	hotSCC := map[int]bool(nil)
	if mp.DVFSAwareMapping {
		hotSCC = d.HotSCCNodeSet()
	}
	order := d.PriorityOrder(hotSCC)
	rank := make(map[int]int, len(order))
	for i, id := range order {
		rank[id] = i
	}

	sched, ok := mp.backtrackSchedule(cg, d, priorII, changed, rank)
	if !ok {
		cg.ClearOccupancy()
		clearPlacements(d)
		return nil, false
	}
	return sched, true
}

func (mp *Mapper) fixPlacement(cg *cgra.CGRA, n *dfg.Node, pp PriorPlacement, ii int) bool {
	tile, ok := cg.Node(pp.Row, pp.Column)
	if !ok || !tile.CanSupport(n.Opcode) {
		return false
	}

	reserved := make([]int, 0, n.Latency())
	for step := 0; step < n.Latency(); step++ {
		slot := (pp.Slot + step) % ii
		if !tile.TryReserve(slot, cgra.RoleExec, n.ID) {
			for _, s := range reserved {
				tile.Release(s, n.ID)
			}
			return false
		}
		reserved = append(reserved, slot)
	}

	n.Placement = &dfg.Placement{Row: pp.Row, Column: pp.Column, Slot: pp.Slot}
	return true
}

package mapper

import (
	"github.com/sarchlab/cgramap/cgra"
	"github.com/sarchlab/cgramap/dfg"
)

// ExhaustiveMap performs a pure DFS over placements/routings, backing out
// of one candidate entirely before trying the next: spec.md §4.3's
// exhaustive fallback, used for small graphs or static-elastic mode. It
// has no backtrack budget — it either finds a schedule at a given II or
// exhausts every candidate — so it should only be run on DFGs small
// enough that the search tree stays tractable.
func (mp *Mapper) ExhaustiveMap(cg *cgra.CGRA, d *dfg.DFG, startII, capII int) (*Schedule, bool) {
	order := d.PriorityOrder(nil)
	rank := make(map[int]int, len(order))
	for i, id := range order {
		rank[id] = i
	}

	for ii := startII; ii <= capII; ii++ {
		cg.ClearOccupancy()
		clearPlacements(d)

		routes := make(map[int]*Reservations)
		router := &Router{CGRA: cg, II: ii}
		if mp.dfs(d, cg, ii, router, append([]int(nil), order...), rank, routes) {
			sched := newSchedule(ii)
			for edgeID, res := range routes {
				sched.Routes[edgeID] = res.Hops
			}
			if !mp.routeLoopCarried(cg, d, ii, sched) {
				continue
			}
			return sched, true
		}
	}
	return nil, false
}

func (mp *Mapper) dfs(d *dfg.DFG, cg *cgra.CGRA, ii int, router *Router, pending []int, rank map[int]int, routes map[int]*Reservations) bool {
	if len(pending) == 0 {
		return true
	}

	id := pickReady(d, pending, rank)
	if id == -1 {
		return false
	}
	node, _ := d.Node(id)
	remaining := removeID(pending, id)

	e := earliestSlot(node, ii)
	cr, cc := centroid(cg, node)
	tiles := ringOrder(cg, cr, cc)

	for offset := 0; offset < ii; offset++ {
		slot := (e + offset) % ii
		for _, tile := range tiles {
			if !tile.CanSupport(node.Opcode) {
				continue
			}
			rec, ok := mp.tryPlaceAt(d, node, tile, slot, ii, router)
			if !ok {
				continue
			}
			for edgeID, res := range rec.routes {
				routes[edgeID] = res
			}
			if mp.dfs(d, cg, ii, router, remaining, rank, routes) {
				return true
			}
			for edgeID := range rec.routes {
				delete(routes, edgeID)
			}
			rec.undo(d)
		}
	}
	return false
}

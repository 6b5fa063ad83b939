package mapper

import (
	"sort"

	"github.com/sarchlab/cgramap/cgra"
	"github.com/sarchlab/cgramap/dfg"
	"github.com/sarchlab/cgramap/mapperlog"
)

// Mapper runs modulo scheduling over a DFG/CGRA pair: spec.md §4.3.
type Mapper struct {
	DVFSAwareMapping bool

	// BacktrackBudget caps retries per II before heuristicMap declares
	// this II infeasible. BacktrackUndo (k) is how many trailing
	// placements get undone per retry. Neither is exposed as a config
	// knob (spec.md §9 treats both as internal defaults).
	BacktrackBudget int
	BacktrackUndo   int
}

// NewMapper returns a Mapper with the default backtrack budget/undo
// depth from spec.md §4.3.
func NewMapper(dvfsAwareMapping bool) *Mapper {
	return &Mapper{
		DVFSAwareMapping: dvfsAwareMapping,
		BacktrackBudget:  32,
		BacktrackUndo:    1,
	}
}

type placementRecord struct {
	nodeID   int
	tile     *cgra.Node
	slots    []int
	routes   map[int]*Reservations // intra-iteration predecessor edge id -> reservation
}

func (r *placementRecord) undo(d *dfg.DFG) {
	for _, slot := range r.slots {
		r.tile.Release(slot, r.nodeID)
	}
	for _, res := range r.routes {
		res.Undo()
	}
	n, ok := d.Node(r.nodeID)
	if ok {
		n.Placement = nil
	}
}

// HeuristicMap attempts modulo scheduling starting at startII, escalating
// by 1 up to and including capII. It returns the first successful
// schedule, or nil, false if every II up to the cap fails.
func (mp *Mapper) HeuristicMap(cg *cgra.CGRA, d *dfg.DFG, startII, capII int) (*Schedule, bool) {
	hotSCC := map[int]bool(nil)
	if mp.DVFSAwareMapping {
		hotSCC = d.HotSCCNodeSet()
	}

	for ii := startII; ii <= capII; ii++ {
		cg.ClearOccupancy()
		clearPlacements(d)

		sched, ok := mp.tryAtII(cg, d, ii, hotSCC, d.PriorityOrder(hotSCC))
		if ok {
			return sched, true
		}
		mapperlog.Trace("heuristicMap: II infeasible", "ii", ii)
	}
	return nil, false
}

func clearPlacements(d *dfg.DFG) {
	for _, n := range d.Nodes {
		n.Placement = nil
	}
}

// tryAtII runs one full list-scheduling attempt at a fixed II, with
// backtracking, over every node in the DFG.
func (mp *Mapper) tryAtII(cg *cgra.CGRA, d *dfg.DFG, ii int, hotSCC map[int]bool, order []int) (*Schedule, bool) {
	rank := make(map[int]int, len(order))
	for i, id := range order {
		rank[id] = i
	}
	return mp.backtrackSchedule(cg, d, ii, append([]int(nil), order...), rank)
}

// backtrackSchedule places every id in pending (already-placed nodes
// outside pending, e.g. an incremental run's fixed nodes, are left
// untouched and simply count as satisfied predecessors) and then routes
// every loop-carried edge. It is the shared core of heuristic and
// incremental mapping.
func (mp *Mapper) backtrackSchedule(cg *cgra.CGRA, d *dfg.DFG, ii int, pending []int, rank map[int]int) (*Schedule, bool) {
	router := &Router{CGRA: cg, II: ii}
	var history []*placementRecord
	backtracks := 0

	for len(pending) > 0 {
		id := pickReady(d, pending, rank)
		if id == -1 {
			// Nothing in pending has all its intra-iteration
			// predecessors placed: a cycle slipped past DFG
			// construction, or the order is otherwise unsatisfiable.
			return nil, false
		}

		node, _ := d.Node(id)
		rec, ok := mp.placeNode(cg, d, node, ii, router)
		if ok {
			history = append(history, rec)
			pending = removeID(pending, id)
			continue
		}

		backtracks++
		if backtracks > mp.BacktrackBudget {
			for _, r := range history {
				r.undo(d)
			}
			return nil, false
		}

		undoCount := mp.BacktrackUndo
		if undoCount > len(history) {
			undoCount = len(history)
		}
		for i := 0; i < undoCount; i++ {
			last := history[len(history)-1]
			history = history[:len(history)-1]
			last.undo(d)
			pending = append(pending, last.nodeID)
		}
		pending = perturb(pending, id, backtracks)
	}

	sched := newSchedule(ii)
	for _, rec := range history {
		for edgeID, res := range rec.routes {
			sched.Routes[edgeID] = res.Hops
		}
	}

	if !mp.routeLoopCarried(cg, d, ii, sched) {
		for _, r := range history {
			r.undo(d)
		}
		return nil, false
	}

	return sched, true
}

// pickReady returns the id of the node in pending with the best rank
// (lowest value) among those whose Distance==0 predecessors are all
// already placed, or -1 if none qualify.
func pickReady(d *dfg.DFG, pending []int, rank map[int]int) int {
	best := -1
	for _, id := range pending {
		n, ok := d.Node(id)
		if !ok {
			continue
		}
		if !intraPredsPlaced(n) {
			continue
		}
		if best == -1 || rank[id] < rank[best] {
			best = id
		}
	}
	return best
}

func intraPredsPlaced(n *dfg.Node) bool {
	for _, e := range n.Preds {
		if e.Distance == 0 && e.From.Placement == nil {
			return false
		}
	}
	return true
}

func removeID(ids []int, target int) []int {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// perturb gives the backtracking search a deterministic way to make
// progress instead of retrying the same failing candidate forever:
// spec.md §4.3's "retry with a perturbed priority". It rotates the
// failed node to a later position among what's still pending.
func perturb(pending []int, failedID int, seed int) []int {
	pos := -1
	for i, id := range pending {
		if id == failedID {
			pos = i
			break
		}
	}
	if pos == -1 || pos+1 >= len(pending) {
		return pending
	}
	j := pos + 1 + seed%(len(pending)-pos-1)
	out := append([]int(nil), pending...)
	out[pos], out[j] = out[j], out[pos]
	return out
}

// placeNode searches widening concentric rings around the centroid of
// already-placed predecessors (loop-carried ones included) for a (tile,
// slot) able to
// host node for its full latency and route every already-placed
// predecessor edge.
func (mp *Mapper) placeNode(cg *cgra.CGRA, d *dfg.DFG, node *dfg.Node, ii int, router *Router) (*placementRecord, bool) {
	e := earliestSlot(node, ii)
	centroidRow, centroidCol := centroid(cg, node)
	tilesByRing := ringOrder(cg, centroidRow, centroidCol)

	for offset := 0; offset < ii; offset++ {
		slot := (e + offset) % ii
		for _, tile := range tilesByRing {
			if !tile.CanSupport(node.Opcode) {
				continue
			}
			rec, ok := mp.tryPlaceAt(d, node, tile, slot, ii, router)
			if ok {
				return rec, true
			}
		}
	}
	return nil, false
}

func earliestSlot(node *dfg.Node, ii int) int {
	e := 0
	for _, edge := range node.Preds {
		if edge.Distance != 0 || edge.From.Placement == nil {
			continue
		}
		start := edge.From.Placement.Slot + edge.From.Latency()
		if m := start % ii; m > e {
			e = m
		}
	}
	return e
}

func centroid(cg *cgra.CGRA, node *dfg.Node) (int, int) {
	var sumR, sumC, n int
	for _, edge := range node.Preds {
		if edge.From.Placement == nil {
			continue
		}
		sumR += edge.From.Placement.Row
		sumC += edge.From.Placement.Column
		n++
	}
	if n == 0 {
		return cg.Rows / 2, cg.Columns / 2
	}
	return sumR / n, sumC / n
}

// ringOrder returns every tile sorted by Chebyshev distance from
// (centerRow, centerCol), ties broken by (row, column) ascending — a
// deterministic widening concentric-ring search order.
func ringOrder(cg *cgra.CGRA, centerRow, centerCol int) []*cgra.Node {
	tiles := cg.AllNodes()
	sort.Slice(tiles, func(i, j int) bool {
		di, dj := chebyshev(tiles[i], centerRow, centerCol), chebyshev(tiles[j], centerRow, centerCol)
		if di != dj {
			return di < dj
		}
		if tiles[i].Row != tiles[j].Row {
			return tiles[i].Row < tiles[j].Row
		}
		return tiles[i].Column < tiles[j].Column
	})
	return tiles
}

func chebyshev(n *cgra.Node, row, col int) int {
	dr, dc := n.Row-row, n.Column-col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	if dr > dc {
		return dr
	}
	return dc
}

// tryPlaceAt attempts to commit node to tile starting at slot: reserve
// its full latency exclusively, then route every already-placed
// intra-iteration predecessor edge. On any failure it rolls back what it
// reserved and returns false.
func (mp *Mapper) tryPlaceAt(d *dfg.DFG, node *dfg.Node, tile *cgra.Node, slot, ii int, router *Router) (*placementRecord, bool) {
	reservedSlots := make([]int, 0, node.Latency())
	for step := 0; step < node.Latency(); step++ {
		s := (slot + step) % ii
		if !tile.TryReserve(s, cgra.RoleExec, node.ID) {
			for _, done := range reservedSlots {
				tile.Release(done, node.ID)
			}
			return nil, false
		}
		reservedSlots = append(reservedSlots, s)
	}

	node.Placement = &dfg.Placement{Row: tile.Row, Column: tile.Column, Slot: slot}

	routes := make(map[int]*Reservations)
	for _, edge := range node.Preds {
		if edge.Distance != 0 {
			continue
		}
		predTile := tileOrNil(router.CGRA, edge.From.Placement)
		if predTile == nil {
			continue
		}
		completion := (edge.From.Placement.Slot + edge.From.Latency() - 1) % ii
		res, ok := router.Route(edge.ID, predTile, completion, tile, slot)
		if !ok {
			for _, s := range reservedSlots {
				tile.Release(s, node.ID)
			}
			for _, r := range routes {
				r.Undo()
			}
			node.Placement = nil
			return nil, false
		}
		res.Commit()
		routes[edge.ID] = res
	}

	return &placementRecord{nodeID: node.ID, tile: tile, slots: reservedSlots, routes: routes}, true
}

func tileOrNil(cg *cgra.CGRA, p *dfg.Placement) *cgra.Node {
	if p == nil {
		return nil
	}
	n, ok := cg.Node(p.Row, p.Column)
	if !ok {
		return nil
	}
	return n
}

// routeLoopCarried routes every Distance>0 edge once all nodes have a
// final placement. Loop-carried sources and sinks are only guaranteed to
// both be placed after the full pass above, since a phi's loop-carried
// predecessor (e.g. the node it feeds back from) can be scheduled later
// than the phi itself.
func (mp *Mapper) routeLoopCarried(cg *cgra.CGRA, d *dfg.DFG, ii int, sched *Schedule) bool {
	router := &Router{CGRA: cg, II: ii}
	edges := append([]*dfg.Edge(nil), d.Edges...)
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	for _, edge := range edges {
		if edge.Distance == 0 {
			continue
		}
		predTile := tileOrNil(cg, edge.From.Placement)
		succTile := tileOrNil(cg, edge.To.Placement)
		if predTile == nil || succTile == nil {
			return false
		}
		completion := (edge.From.Placement.Slot + edge.From.Latency() - 1) % ii
		res, ok := router.Route(edge.ID, predTile, completion, succTile, edge.To.Placement.Slot)
		if !ok {
			return false
		}
		res.Commit()
		sched.Routes[edge.ID] = res.Hops
	}
	return true
}

package mapper

import (
	"sort"

	"github.com/sarchlab/cgramap/cgra"
)

// congestionWeight scales each link's current usage count into the
// Dijkstra-like edge cost, per spec.md §4.3.1 ("edge cost = 1 +
// congestion-avoidance weight"). Not exposed as a config knob (spec.md §9
// notes the router's weight and backtrack budget are internal defaults).
const congestionWeight = 0.25

// Router finds, for one DFG edge, a sequence of link hops from the
// producer tile/slot to the consumer tile/slot. It does not mutate
// occupancy itself: Route returns the reservations it needs, which the
// caller commits via Reservations.Commit and may undo via
// Reservations.Undo if the surrounding placement attempt fails.
type Router struct {
	CGRA *cgra.CGRA
	II   int
}

// Reservations is the set of tile-transit and link reservations a routed
// edge needs. Uncommitted until Commit is called.
type Reservations struct {
	EdgeID     int
	Hops       []RouteHop
	transits   []transitReservation
	links      []linkReservation
}

type transitReservation struct {
	node *cgra.Node
	slot int
	role cgra.Role
}

type linkReservation struct {
	link *cgra.Link
	slot int
}

// Commit reserves every tile/link this route needs. It assumes Route
// already verified availability, so it always succeeds.
func (r *Reservations) Commit() {
	for _, t := range r.transits {
		t.node.TryReserve(t.slot, t.role, r.EdgeID)
	}
	for _, l := range r.links {
		l.link.TryReserve(l.slot, r.EdgeID)
	}
}

// Undo releases every reservation Commit made.
func (r *Reservations) Undo() {
	for _, t := range r.transits {
		t.node.Release(t.slot, r.EdgeID)
	}
	for _, l := range r.links {
		l.link.Release(l.slot, r.EdgeID)
	}
}

type routeState struct {
	row, col int
}

type frontierEntry struct {
	state routeState
	cost  float64
}

// Route searches for a path from (fromTile, fromSlot) to (toTile, toSlot)
// whose hop count equals (toSlot-fromSlot-1) mod II, per spec.md §4.3.1.
// fromSlot is the producer's completion slot; toSlot is the consumer's
// start slot. It returns ok=false if no such path exists under current
// occupancy.
func (rt *Router) Route(edgeID int, fromTile *cgra.Node, fromSlot int, toTile *cgra.Node, toSlot int) (*Reservations, bool) {
	ii := rt.II
	hops := ((toSlot-fromSlot-1)%ii + ii) % ii

	if fromTile == toTile {
		if hops == 0 {
			return &Reservations{EdgeID: edgeID}, true
		}
		return nil, false
	}
	if hops == 0 {
		return nil, false
	}

	dist := []map[routeState]float64{{{fromTile.Row, fromTile.Column}: 0}}
	prev := []map[routeState]struct {
		from routeState
		link *cgra.Link
		role cgra.Role
	}{{}}

	for step := 0; step < hops; step++ {
		dist = append(dist, make(map[routeState]float64))
		prev = append(prev, make(map[routeState]struct {
			from routeState
			link *cgra.Link
			role cgra.Role
		}))

		frontier := make([]frontierEntry, 0, len(dist[step]))
		for s, c := range dist[step] {
			frontier = append(frontier, frontierEntry{s, c})
		}
		sort.Slice(frontier, func(i, j int) bool {
			if frontier[i].cost != frontier[j].cost {
				return frontier[i].cost < frontier[j].cost
			}
			if frontier[i].state.row != frontier[j].state.row {
				return frontier[i].state.row < frontier[j].state.row
			}
			return frontier[i].state.col < frontier[j].state.col
		})

		edge := step + 1
		slot := (fromSlot + edge) % ii
		isLastHop := step == hops-1

		for _, fe := range frontier {
			for _, side := range []cgra.Side{cgra.North, cgra.East, cgra.South, cgra.West} {
				link, ok := rt.CGRA.LinkBetween(fe.state.row, fe.state.col, side)
				if !ok {
					continue
				}
				if owner, occ := link.OccupiedBy(slot); occ && owner != edgeID {
					continue
				}

				dest := link.To
				var role cgra.Role
				if !isLastHop || dest != toTile {
					// Every tile before the final consumer, including
					// a same-coordinate final tile reached early, is a
					// transit hop and needs bypass/register capacity.
					r, ok := dest.CanTransit(slot)
					if !ok {
						continue
					}
					role = r
				}
				if isLastHop && dest != toTile {
					continue
				}

				next := routeState{dest.Row, dest.Column}
				cost := fe.cost + 1 + congestionWeight*float64(link.UsageCount())
				if existing, ok := dist[step+1][next]; !ok || cost < existing {
					dist[step+1][next] = cost
					prev[step+1][next] = struct {
						from routeState
						link *cgra.Link
						role cgra.Role
					}{fe.state, link, role}
				}
			}
		}
	}

	finalState := routeState{toTile.Row, toTile.Column}
	if _, ok := dist[hops][finalState]; !ok {
		return nil, false
	}

	res := &Reservations{EdgeID: edgeID}
	cur := finalState
	for step := hops; step > 0; step-- {
		p := prev[step][cur]
		slot := (fromSlot + step) % ii
		res.links = append(res.links, linkReservation{p.link, slot})
		if p.link.To != toTile || step != hops {
			res.transits = append(res.transits, transitReservation{p.link.To, slot, p.role})
		}
		res.Hops = append([]RouteHop{{
			FromRow: p.from.row, FromCol: p.from.col,
			ToRow: cur.row, ToCol: cur.col,
			Slot: slot,
		}}, res.Hops...)
		cur = p.from
	}

	return res, true
}

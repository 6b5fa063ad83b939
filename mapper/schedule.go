// Package mapper implements the modulo-scheduling engine: lower bounds
// (ResMII/RecMII), heuristic list-scheduling with backtracking, an
// exhaustive DFS fallback, incremental re-mapping, the router, and
// console/JSON reporting. It consumes a *dfg.DFG and a *cgra.CGRA built
// by its siblings and never constructs either itself.
package mapper

// RouteHop records one link traversal of a routed edge.
type RouteHop struct {
	FromRow, FromCol int
	ToRow, ToCol     int
	Slot             int
}

// Schedule is a complete mapping attempt at a fixed II. Node placements
// live on the DFG nodes themselves (dfg.Node.Placement); Schedule adds
// what the DFG has no room for: each edge's routed path.
type Schedule struct {
	II     int
	Routes map[int][]RouteHop // DFG edge id -> hops (nil if same-tile, no hop needed)
}

func newSchedule(ii int) *Schedule {
	return &Schedule{
		II:     ii,
		Routes: make(map[int][]RouteHop),
	}
}

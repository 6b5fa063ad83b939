package mapper

import (
	"github.com/sarchlab/cgramap/cgra"
	"github.com/sarchlab/cgramap/dfg"
)

// Options selects which search strategy Map uses, mirroring spec.md §6's
// param.json knobs (heuristicMapping, isStaticElasticCGRA).
type Options struct {
	Heuristic         bool
	StaticElasticCGRA bool
}

// Result is one full mapping attempt: the lower bounds that seeded the
// search and the schedule it found, if any.
type Result struct {
	ResMII, RecMII int
	Schedule       *Schedule // nil on failure
}

// Map computes lower bounds and runs the configured search up to the default II cap (ResMII plus the
// grid's total tile count, per spec.md §4.3). It returns ok=false with a
// nil Schedule when mapping is infeasible at every II up to the cap. Map
// does not check that every opcode has a capable tile;
// MissingFunctionalUnits should be checked by the caller first, since an
// unsupported opcode is fatal regardless of II (spec.md §4.3.1's failure
// semantics).
func (mp *Mapper) Map(cg *cgra.CGRA, d *dfg.DFG, opts Options) (*Result, bool) {
	if len(d.Nodes) == 0 {
		return &Result{Schedule: newSchedule(0)}, true
	}

	resMII := ResMII(d, cg)
	recMII := RecMII(d)
	ii := resMII
	if recMII > ii {
		ii = recMII
	}
	cap := resMII + cg.GetFUCount()

	if cg.SupportDVFS {
		d.InitDVFSLatencyMultiple(ii, cg.DVFSIslandDim, cg.GetFUCount())
	}

	result := &Result{ResMII: resMII, RecMII: recMII}

	var sched *Schedule
	var ok bool
	switch {
	case opts.StaticElasticCGRA:
		sched, ok = mp.ExhaustiveMap(cg, d, ii, cap)
	case opts.Heuristic:
		sched, ok = mp.HeuristicMap(cg, d, ii, cap)
	default:
		sched, ok = mp.ExhaustiveMap(cg, d, ii, cap)
	}
	if !ok {
		return result, false
	}
	result.Schedule = sched
	return result, true
}

// ExpandableII reports the smallest II' >= ii under which the DFG maps
// successfully, up to cap — spec.md §4.3's optional ExpandableII
// reporting, computed here by simply re-running the heuristic at
// increasing II rather than symbolically dilating recurrence edges: the
// two are observationally equivalent since a looser II is exactly what
// dilating a recurrence edge's effective distance buys.
func (mp *Mapper) ExpandableII(cg *cgra.CGRA, d *dfg.DFG, ii, cap int) int {
	for candidate := ii; candidate <= cap; candidate++ {
		if _, ok := mp.HeuristicMap(cg, d, candidate, candidate); ok {
			return candidate
		}
	}
	return -1
}

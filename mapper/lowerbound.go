package mapper

import (
	"sort"

	"github.com/sarchlab/cgramap/cgra"
	"github.com/sarchlab/cgramap/dfg"
)

// ResMII computes the resource-limited lower bound on II: spec.md §4.3,
// the ceiling of demand over capable-tile supply maximised over opcode
// classes, separately bounded by total ops over total tiles.
func ResMII(d *dfg.DFG, cg *cgra.CGRA) int {
	dist := d.OpcodeDistribution()
	resMII := 0
	totalOps := 0

	for opcode, count := range dist {
		totalOps += count
		capable := len(cg.TilesSupporting(opcode))
		if capable == 0 {
			// An unsupported opcode makes ResMII meaningless; the
			// caller's canMap check reports this as a hard failure
			// before any II is attempted.
			continue
		}
		bound := ceilDiv(count, capable)
		if bound > resMII {
			resMII = bound
		}
	}

	if total := cg.GetFUCount(); total > 0 {
		if bound := ceilDiv(totalOps, total); bound > resMII {
			resMII = bound
		}
	}

	if resMII == 0 {
		resMII = 1
	}
	return resMII
}

// RecMII computes the recurrence-limited lower bound on II: spec.md
// §4.1's RecMII, maximised over strongly connected components.
func RecMII(d *dfg.DFG) int {
	return d.RecMII()
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

// MissingFunctionalUnits returns, in deterministic order, every opcode in
// d that no tile in cg can support — spec.md §7's unsupported-opcode
// error kind, grounded on the original's canMapImpl.
func MissingFunctionalUnits(d *dfg.DFG, cg *cgra.CGRA) []string {
	dist := d.OpcodeDistribution()
	opcodes := make([]string, 0, len(dist))
	for opcode := range dist {
		opcodes = append(opcodes, opcode)
	}
	sort.Strings(opcodes)

	var missing []string
	for _, opcode := range opcodes {
		if len(cg.TilesSupporting(opcode)) == 0 {
			missing = append(missing, opcode)
		}
	}
	return missing
}

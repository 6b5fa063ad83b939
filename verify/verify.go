// Package verify re-checks a committed schedule's structural legality
// against the CGRA grid it was placed on, independent of the scheduler's
// own occupancy bookkeeping. It is a last-line sanity pass that
// mapperpass runs on every schedule it finds, full or incremental, before
// writing any artifact, grounded on the teacher's RunLint STRUCT checks (PE coordinate bounds,
// per-(PE,timestep) write conflicts), translated from zeonica's per-PE
// instruction programs to this repo's DFG node placements. The teacher's
// companion functional simulator (stepping register/port/memory state to
// check kernel semantics) has no equivalent here: this package validates
// resource legality, not arithmetic correctness, since a DFG node carries
// no operation semantics to re-execute.
package verify

import (
	"fmt"

	"github.com/sarchlab/cgramap/cgra"
	"github.com/sarchlab/cgramap/dfg"
)

// IssueType categorizes a single structural violation.
type IssueType string

const (
	// IssueOutOfBounds means a node's placement names a tile outside the
	// grid.
	IssueOutOfBounds IssueType = "out-of-bounds"
	// IssueCapability means a node's tile cannot execute its opcode.
	IssueCapability IssueType = "unsupported-opcode"
	// IssueSlotConflict means two exec placements land on the same tile
	// at the same cycle within the schedule's II.
	IssueSlotConflict IssueType = "slot-conflict"
)

// Issue is one structural violation found by Schedule.
type Issue struct {
	Type              IssueType
	NodeID            int
	Row, Column, Slot int
	Message           string
}

// Schedule walks every placed node in d and confirms: its tile lies
// inside cg's grid, the tile's functional-unit set covers its opcode,
// and no two exec placements occupy the same tile at the same cycle
// across ii. Unplaced nodes (Placement == nil) are skipped, since a DFG
// mid-search is not a verification target. It returns nil when the
// schedule is fully legal.
func Schedule(cg *cgra.CGRA, d *dfg.DFG, ii int) []Issue {
	var issues []Issue

	type occupiedSlot struct {
		row, column, slot int
	}
	owner := make(map[occupiedSlot]int)

	for _, n := range d.Nodes {
		p := n.Placement
		if p == nil {
			continue
		}

		tile, ok := cg.Node(p.Row, p.Column)
		if !ok {
			issues = append(issues, Issue{
				Type: IssueOutOfBounds, NodeID: n.ID,
				Row: p.Row, Column: p.Column, Slot: p.Slot,
				Message: fmt.Sprintf("node %d placed at (%d,%d) outside the %dx%d grid",
					n.ID, p.Row, p.Column, cg.Rows, cg.Columns),
			})
			continue
		}

		if !tile.CanSupport(n.Opcode) {
			issues = append(issues, Issue{
				Type: IssueCapability, NodeID: n.ID,
				Row: p.Row, Column: p.Column, Slot: p.Slot,
				Message: fmt.Sprintf("tile (%d,%d) cannot execute opcode %q", p.Row, p.Column, n.Opcode),
			})
		}

		for step := 0; step < n.Latency(); step++ {
			slot := (p.Slot + step) % ii
			key := occupiedSlot{p.Row, p.Column, slot}
			if prior, exists := owner[key]; exists && prior != n.ID {
				issues = append(issues, Issue{
					Type: IssueSlotConflict, NodeID: n.ID,
					Row: p.Row, Column: p.Column, Slot: slot,
					Message: fmt.Sprintf("tile (%d,%d) slot %d already executes node %d, conflicts with node %d",
						p.Row, p.Column, slot, prior, n.ID),
				})
				continue
			}
			owner[key] = n.ID
		}
	}

	return issues
}

package cgra

// Role names what a (tile, slot) occupant is doing there: spec.md §3's
// occupancy roles {exec, bypass, reg-hold}.
type Role int

const (
	// RoleExec marks the tile as executing a DFG node this slot.
	RoleExec Role = iota
	// RoleBypass marks the tile as passing a value through without using
	// a register.
	RoleBypass
	// RoleRegHold marks the tile as holding a transiting value in its
	// register file.
	RoleRegHold
)

func (r Role) String() string {
	switch r {
	case RoleExec:
		return "exec"
	case RoleBypass:
		return "bypass"
	case RoleRegHold:
		return "reg-hold"
	default:
		return "unknown"
	}
}

type occupant struct {
	OwnerID int
	Role    Role
}

// Node is one tile of the CGRA grid: spec.md §3's CGRANode. Resource
// reservations are transactional (TryReserve/Release); a failed
// placement attempt must release every reservation it made before trying
// the next candidate (spec.md §5).
type Node struct {
	Row, Column int
	DVFSIsland  int

	capabilities map[string]bool

	RegConstraint     int
	CtrlMemConstraint int
	BypassConstraint  int

	// allowInclusive mirrors multiCycleStrategy == "inclusive": when
	// true, a slot may host more than one occupant as long as at most
	// one of them is RoleExec.
	allowInclusive bool

	occupancy  map[int][]occupant
	regHeld    int
	bypassHeld int
}

func newNode(row, col int, caps map[string]bool, allowInclusive bool) *Node {
	return &Node{
		Row:               row,
		Column:            col,
		capabilities:      caps,
		RegConstraint:     8,
		CtrlMemConstraint: 200,
		BypassConstraint:  4,
		allowInclusive:    allowInclusive,
		occupancy:         make(map[int][]occupant),
	}
}

// CanSupport reports whether this tile's FU set covers opcode
// (post-fusion opcode names included, per spec.md §4.2).
func (n *Node) CanSupport(opcode string) bool {
	return n.capabilities[opcode]
}

// AddCapability extends the tile's FU set, used for parameterizableCGRA's
// additionalFunc.
func (n *Node) AddCapability(opcode string) {
	n.capabilities[opcode] = true
}

// TryReserve attempts to occupy this tile at slot (already reduced mod
// II) for role on behalf of ownerID (a DFG node id for RoleExec, a DFG
// edge id for RoleBypass/RoleRegHold). It returns false and makes no
// change on failure.
func (n *Node) TryReserve(slot int, role Role, ownerID int) bool {
	existing := n.occupancy[slot]

	if len(existing) > 0 {
		if !n.allowInclusive {
			return false
		}
		for _, occ := range existing {
			if occ.Role == RoleExec && role == RoleExec {
				return false
			}
		}
	}

	newSlot := len(existing) == 0
	if newSlot && len(n.occupancy) >= n.CtrlMemConstraint {
		return false
	}

	switch role {
	case RoleBypass:
		if n.bypassHeld >= n.BypassConstraint {
			return false
		}
	case RoleRegHold:
		if n.regHeld >= n.RegConstraint {
			return false
		}
	}

	n.occupancy[slot] = append(existing, occupant{OwnerID: ownerID, Role: role})
	switch role {
	case RoleBypass:
		n.bypassHeld++
	case RoleRegHold:
		n.regHeld++
	}
	return true
}

// Release undoes a TryReserve for the given slot/ownerID, regardless of
// role (a node only ever holds one role at one slot for one owner).
func (n *Node) Release(slot int, ownerID int) {
	existing := n.occupancy[slot]
	out := existing[:0]
	for _, occ := range existing {
		if occ.OwnerID == ownerID {
			switch occ.Role {
			case RoleBypass:
				n.bypassHeld--
			case RoleRegHold:
				n.regHeld--
			}
			continue
		}
		out = append(out, occ)
	}
	if len(out) == 0 {
		delete(n.occupancy, slot)
	} else {
		n.occupancy[slot] = out
	}
}

// CanTransit reports, without reserving anything, whether this tile could
// host a value in transit at slot — bypass preferred over a register hold,
// per spec.md §4.3.1. It is a pure query used by the router to explore
// candidate paths before committing.
func (n *Node) CanTransit(slot int) (Role, bool) {
	existing := n.occupancy[slot]
	if len(existing) > 0 && !n.allowInclusive {
		return 0, false
	}
	newSlot := len(existing) == 0
	if newSlot && len(n.occupancy) >= n.CtrlMemConstraint {
		return 0, false
	}
	if n.bypassHeld < n.BypassConstraint {
		return RoleBypass, true
	}
	if n.regHeld < n.RegConstraint {
		return RoleRegHold, true
	}
	return 0, false
}

// OccupantAt returns the owner id and role executing at slot, if any.
func (n *Node) OccupantAt(slot int) (ownerID int, role Role, ok bool) {
	for _, occ := range n.occupancy[slot] {
		if occ.Role == RoleExec {
			return occ.OwnerID, occ.Role, true
		}
	}
	return 0, 0, false
}

// ClearOccupancy resets all reservations, used between II attempts
// (spec.md §3's "mutable occupancy cleared between II attempts").
func (n *Node) ClearOccupancy() {
	n.occupancy = make(map[int][]occupant)
	n.regHeld = 0
	n.bypassHeld = 0
}

// UsedCtrlMemWords is the number of distinct slots this tile is active in
// across the current II period.
func (n *Node) UsedCtrlMemWords() int {
	return len(n.occupancy)
}

// RegisterHeldCount and BypassHeldCount report current reservation
// levels, used for utilization reporting.
func (n *Node) RegisterHeldCount() int { return n.regHeld }
func (n *Node) BypassHeldCount() int   { return n.bypassHeld }

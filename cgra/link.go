package cgra

// Link is one directed inter-tile connection: spec.md §3's CGRALink. Like
// Node, it is a static resource with per-slot-mod-II occupancy rather
// than a simulated wire.
type Link struct {
	From, To *Node
	Side     Side

	occupant map[int]int // slot -> owning DFG edge id
}

func newLink(from, to *Node, side Side) *Link {
	return &Link{From: from, To: to, Side: side, occupant: make(map[int]int)}
}

// TryReserve occupies this link at slot on behalf of edgeID. At most one
// edge may route through a link in a given slot.
func (l *Link) TryReserve(slot int, edgeID int) bool {
	if owner, ok := l.occupant[slot]; ok && owner != edgeID {
		return false
	}
	l.occupant[slot] = edgeID
	return true
}

// Release undoes a TryReserve for the given slot/edgeID.
func (l *Link) Release(slot int, edgeID int) {
	if owner, ok := l.occupant[slot]; ok && owner == edgeID {
		delete(l.occupant, slot)
	}
}

// ClearOccupancy resets all reservations, used between II attempts.
func (l *Link) ClearOccupancy() {
	l.occupant = make(map[int]int)
}

// OccupiedBy returns the edge id routed through this link at slot, if
// any.
func (l *Link) OccupiedBy(slot int) (edgeID int, ok bool) {
	edgeID, ok = l.occupant[slot]
	return
}

// UsageCount is how many slots across the current II period already route
// through this link, used by the router's congestion-avoidance weight.
func (l *Link) UsageCount() int {
	return len(l.occupant)
}

// Package cgra defines the CGRA resource model: tiles (CGRANode),
// directed inter-tile links (CGRALink), and the grid that assembles them
// (CGRA), per spec.md §3–§4.2. The model is a static resource table, not a
// simulated device: there is no clock and no message passing, only
// per-slot-mod-II occupancy the mapper reserves and releases as it tries
// placements.
package cgra

// Side names one of a tile's four mesh-neighbour directions. It is kept
// from the teacher's device model (zeonica's cgra.Side) because the
// cardinal-direction vocabulary is exactly what a fixed 4-neighbour mesh
// needs; only the Tile/Device types it used to label have been replaced.
type Side int

const (
	North Side = iota
	East
	South
	West
)

// Name returns the human-readable name of the side.
func (s Side) Name() string {
	switch s {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		panic("invalid side")
	}
}

// delta returns the (drow, dcolumn) offset Side moves by.
func (s Side) delta() (int, int) {
	switch s {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case East:
		return 0, 1
	case West:
		return 0, -1
	default:
		panic("invalid side")
	}
}

// opposite returns the side that, taken from the neighbour tile, points
// back at the origin tile.
func (s Side) opposite() Side {
	switch s {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		panic("invalid side")
	}
}

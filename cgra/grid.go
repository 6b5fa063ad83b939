package cgra

import (
	"fmt"
	"sort"
)

// Options configures a CGRA grid construction, mirroring the platform
// knobs of spec.md §6 (rows, columns, DVFS islands, parameterizable
// per-tile capability overlay).
type Options struct {
	Rows, Columns int

	// BaseOpcodes is the FU capability set every tile gets by default,
	// including any post-fusion opcode names (e.g. "fma", "mux",
	// "load_acc") the active fusion strategy can produce.
	BaseOpcodes []string

	// EnableMultipleOps mirrors multiCycleStrategy == "inclusive": tiles
	// may host more than one occupant in a slot as long as at most one
	// is RoleExec.
	EnableMultipleOps bool

	SupportDVFS    bool
	DVFSIslandDim  int // 0 disables partitioning even if SupportDVFS is set

	// Parameterizable gates AdditionalFunc: a heterogeneous overlay of
	// extra per-tile capabilities keyed by "row,column".
	Parameterizable bool
	AdditionalFunc  map[string][]string

	RegConstraint     int // 0 keeps the Node default
	CtrlMemConstraint int
	BypassConstraint  int
}

// CGRA is the static resource grid the mapper places and routes onto:
// spec.md §3's CGRA. Topology is immutable once built; only occupancy
// mutates, and only through Node/Link's reservation API.
type CGRA struct {
	Rows, Columns int
	SupportDVFS   bool
	DVFSIslandDim int

	nodes [][]*Node
	links []*Link
}

// New constructs a CGRA grid from opts. It returns an error if
// AdditionalFunc names a tile outside the grid.
func New(opts Options) (*CGRA, error) {
	if opts.Rows <= 0 || opts.Columns <= 0 {
		return nil, fmt.Errorf("cgra: rows and columns must be positive, got %dx%d", opts.Rows, opts.Columns)
	}

	base := make(map[string]bool, len(opts.BaseOpcodes))
	for _, op := range opts.BaseOpcodes {
		base[op] = true
	}

	g := &CGRA{
		Rows:          opts.Rows,
		Columns:       opts.Columns,
		SupportDVFS:   opts.SupportDVFS,
		DVFSIslandDim: opts.DVFSIslandDim,
	}

	g.nodes = make([][]*Node, opts.Rows)
	for r := 0; r < opts.Rows; r++ {
		g.nodes[r] = make([]*Node, opts.Columns)
		for c := 0; c < opts.Columns; c++ {
			caps := make(map[string]bool, len(base))
			for op := range base {
				caps[op] = true
			}
			n := newNode(r, c, caps, opts.EnableMultipleOps)
			if opts.RegConstraint > 0 {
				n.RegConstraint = opts.RegConstraint
			}
			if opts.CtrlMemConstraint > 0 {
				n.CtrlMemConstraint = opts.CtrlMemConstraint
			}
			if opts.BypassConstraint > 0 {
				n.BypassConstraint = opts.BypassConstraint
			}
			if opts.SupportDVFS && opts.DVFSIslandDim > 0 {
				islandCols := ceilDiv(opts.Columns, opts.DVFSIslandDim)
				n.DVFSIsland = (r/opts.DVFSIslandDim)*islandCols + c/opts.DVFSIslandDim
			}
			g.nodes[r][c] = n
		}
	}

	if opts.Parameterizable {
		keys := make([]string, 0, len(opts.AdditionalFunc))
		for k := range opts.AdditionalFunc {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			n, err := g.nodeByKey(key)
			if err != nil {
				return nil, err
			}
			for _, op := range opts.AdditionalFunc[key] {
				n.AddCapability(op)
			}
		}
	}

	g.wireMesh()
	return g, nil
}

func (g *CGRA) nodeByKey(key string) (*Node, error) {
	var r, c int
	if _, err := fmt.Sscanf(key, "%d,%d", &r, &c); err != nil {
		return nil, fmt.Errorf("cgra: invalid additionalFunc tile key %q: %w", key, err)
	}
	n, ok := g.Node(r, c)
	if !ok {
		return nil, fmt.Errorf("cgra: additionalFunc tile key %q is outside the %dx%d grid", key, g.Rows, g.Columns)
	}
	return n, nil
}

func (g *CGRA) wireMesh() {
	sides := []Side{North, East, South, West}
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Columns; c++ {
			for _, s := range sides {
				dr, dc := s.delta()
				nr, nc := r+dr, c+dc
				if nr < 0 || nr >= g.Rows || nc < 0 || nc >= g.Columns {
					continue
				}
				g.links = append(g.links, newLink(g.nodes[r][c], g.nodes[nr][nc], s))
			}
		}
	}
}

// Node returns the tile at (row, column), or false if out of range.
func (g *CGRA) Node(row, column int) (*Node, bool) {
	if row < 0 || row >= g.Rows || column < 0 || column >= g.Columns {
		return nil, false
	}
	return g.nodes[row][column], true
}

// Neighbor returns the tile reached from (row, column) going side s.
func (g *CGRA) Neighbor(row, column int, s Side) (*Node, bool) {
	dr, dc := s.delta()
	return g.Node(row+dr, column+dc)
}

// LinkBetween returns the directed link from (row,column) toward side s,
// if the mesh has one (edge tiles lack links off-grid).
func (g *CGRA) LinkBetween(row, column int, s Side) (*Link, bool) {
	from, ok := g.Node(row, column)
	if !ok {
		return nil, false
	}
	to, ok := g.Neighbor(row, column, s)
	if !ok {
		return nil, false
	}
	for _, l := range g.links {
		if l.From == from && l.To == to {
			return l, true
		}
	}
	return nil, false
}

// AllNodes returns every tile in deterministic row-major order.
func (g *CGRA) AllNodes() []*Node {
	out := make([]*Node, 0, g.Rows*g.Columns)
	for r := 0; r < g.Rows; r++ {
		out = append(out, g.nodes[r]...)
	}
	return out
}

// AllLinks returns every directed link in construction order (row-major,
// then side order North/East/South/West), which is deterministic.
func (g *CGRA) AllLinks() []*Link {
	return g.links
}

// TilesSupporting returns, in deterministic row-major order, every tile
// whose FU set covers opcode.
func (g *CGRA) TilesSupporting(opcode string) []*Node {
	var out []*Node
	for _, n := range g.AllNodes() {
		if n.CanSupport(opcode) {
			out = append(out, n)
		}
	}
	return out
}

// GetFUCount returns the total number of tiles in the grid.
func (g *CGRA) GetFUCount() int {
	return g.Rows * g.Columns
}

// ClearOccupancy resets every tile and link's reservations, used when the
// mapper starts a fresh II attempt.
func (g *CGRA) ClearOccupancy() {
	for _, n := range g.AllNodes() {
		n.ClearOccupancy()
	}
	for _, l := range g.links {
		l.ClearOccupancy()
	}
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

package mapper

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/cgramap/cgra"
	"github.com/sarchlab/cgramap/dfg"
)

// ShowSchedule renders the per-slot, per-tile operation/routing table:
// spec.md §4.3's showSchedule, using jedib0t/go-pretty/v6/table exactly
// as the teacher's core/util.go PrintState does for register/buffer
// state. A cell shows the opcode executing there, or e<edge id> for a
// routed value reaching that tile at that slot.
func ShowSchedule(w io.Writer, cg *cgra.CGRA, d *dfg.DFG, sched *Schedule) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Schedule (II=%d)", sched.II))

	header := table.Row{"Slot"}
	for _, n := range cg.AllNodes() {
		header = append(header, fmt.Sprintf("(%d,%d)", n.Row, n.Column))
	}
	t.AppendHeader(header)

	byTileSlot := make(map[[3]int]string) // (row, col, slot) -> label
	for _, n := range d.Nodes {
		if n.Placement == nil {
			continue
		}
		for step := 0; step < n.Latency(); step++ {
			slot := (n.Placement.Slot + step) % sched.II
			byTileSlot[[3]int{n.Placement.Row, n.Placement.Column, slot}] = n.Opcode
		}
	}
	edgeIDs := make([]int, 0, len(sched.Routes))
	for id := range sched.Routes {
		edgeIDs = append(edgeIDs, id)
	}
	sort.Ints(edgeIDs)
	for _, id := range edgeIDs {
		for _, h := range sched.Routes[id] {
			key := [3]int{h.ToRow, h.ToCol, h.Slot}
			if byTileSlot[key] == "" {
				byTileSlot[key] = fmt.Sprintf("e%d", id)
			}
		}
	}

	for slot := 0; slot < sched.II; slot++ {
		row := table.Row{slot}
		for _, n := range cg.AllNodes() {
			label := byTileSlot[[3]int{n.Row, n.Column, slot}]
			if label == "" {
				label = "."
			}
			row = append(row, label)
		}
		t.AppendRow(row)
	}

	t.Render()
}

// ShowUtilization renders aggregate FU/link/register usage, and — with
// enablePowerGating — per-island idle counts and a rough DVFS savings
// estimate: spec.md §4.3's showUtilization.
func ShowUtilization(w io.Writer, cg *cgra.CGRA, sched *Schedule, enablePowerGating bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Utilization")
	t.AppendHeader(table.Row{"Tile", "Ctrl words", "Registers held", "Bypass held"})

	for _, n := range cg.AllNodes() {
		t.AppendRow(table.Row{
			fmt.Sprintf("(%d,%d)", n.Row, n.Column),
			n.UsedCtrlMemWords(),
			n.RegisterHeldCount(),
			n.BypassHeldCount(),
		})
	}
	t.Render()

	linkTable := table.NewWriter()
	linkTable.SetOutputMirror(w)
	linkTable.SetTitle("Link usage")
	linkTable.AppendHeader(table.Row{"Link", "Slots used"})
	links := append([]*cgra.Link(nil), cg.AllLinks()...)
	sort.Slice(links, func(i, j int) bool {
		if links[i].From.Row != links[j].From.Row {
			return links[i].From.Row < links[j].From.Row
		}
		if links[i].From.Column != links[j].From.Column {
			return links[i].From.Column < links[j].From.Column
		}
		return links[i].Side < links[j].Side
	})
	for _, l := range links {
		linkTable.AppendRow(table.Row{
			fmt.Sprintf("(%d,%d)->%s", l.From.Row, l.From.Column, l.Side.Name()),
			l.UsageCount(),
		})
	}
	linkTable.Render()

	if !enablePowerGating || !cg.SupportDVFS {
		return
	}

	idleByIsland := make(map[int]int)
	totalByIsland := make(map[int]int)
	for _, n := range cg.AllNodes() {
		totalByIsland[n.DVFSIsland]++
		if n.UsedCtrlMemWords() == 0 {
			idleByIsland[n.DVFSIsland]++
		}
	}
	islands := make([]int, 0, len(totalByIsland))
	for island := range totalByIsland {
		islands = append(islands, island)
	}
	sort.Ints(islands)

	dvfsTable := table.NewWriter()
	dvfsTable.SetOutputMirror(w)
	dvfsTable.SetTitle("DVFS idle / power gating")
	dvfsTable.AppendHeader(table.Row{"Island", "Idle tiles", "Total tiles", "Est. savings"})
	for _, island := range islands {
		idle, total := idleByIsland[island], totalByIsland[island]
		savings := float64(idle) / float64(total)
		dvfsTable.AppendRow(table.Row{island, idle, total, fmt.Sprintf("%.0f%%", savings*100)})
	}
	dvfsTable.Render()
}

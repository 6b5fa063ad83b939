package dfg

import (
	"fmt"
	"io"
	"sort"
)

// WriteDot renders d as Graphviz source, grounding
// mapperPass.cpp's dfg->generateDot(t_F, isTrimmedDemo). When trimmed is
// true, node labels show only id and opcode; otherwise they also include
// type class and cycle cost.
func (d *DFG) WriteDot(w io.Writer, trimmed bool) error {
	if _, err := fmt.Fprintln(w, "digraph DFG {"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "  rankdir=TB;"); err != nil {
		return err
	}

	for _, id := range d.sortedNodeIDs() {
		n, _ := d.Node(id)
		label := fmt.Sprintf("%d: %s", n.ID, n.Opcode)
		if !trimmed {
			label = fmt.Sprintf("%s\\nclass=%d cycles=%d", label, n.TypeClass, n.Cycles)
		}
		shape := "box"
		if n.Unsupported {
			shape = "doubleoctagon"
		}
		if _, err := fmt.Fprintf(w, "  n%d [label=\"%s\" shape=%s];\n", n.ID, label, shape); err != nil {
			return err
		}
	}

	edges := append([]*Edge{}, d.Edges...)
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	for _, e := range edges {
		style := "solid"
		if e.IsLoopCarried() {
			style = "dashed"
		}
		if _, err := fmt.Fprintf(w, "  n%d -> n%d [style=%s label=\"d=%d\"];\n",
			e.From.ID, e.To.ID, style, e.Distance); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

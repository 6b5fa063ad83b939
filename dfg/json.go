package dfg

import (
	"encoding/json"
	"io"
	"sort"
)

// jsonNode and jsonEdge are the stable, deterministically-ordered wire
// shapes for dfg.json (spec.md §6). Field order here is also map key
// order in the marshalled output since both are structs, which is what
// "the JSON schemas must be stable across runs" requires.
type jsonNode struct {
	ID          int    `json:"id"`
	Opcode      string `json:"opcode"`
	TypeClass   int    `json:"typeClass"`
	Cycles      int    `json:"cycles"`
	Precision   int    `json:"precision"`
	FusionGroup string `json:"fusionGroup,omitempty"`
	Unsupported bool   `json:"unsupported,omitempty"`
}

type jsonEdge struct {
	ID       int `json:"id"`
	From     int `json:"from"`
	To       int `json:"to"`
	Distance int `json:"distance"`
}

type jsonDFG struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

// WriteJSON serialises d to dfg.json's schema, grounding
// mapperPass.cpp's dfg->generateJSON(). Nodes and edges are emitted in
// ascending id order, matching sortedNodeIDs everywhere else, so two runs
// over the same DFG produce byte-identical output.
func (d *DFG) WriteJSON(w io.Writer) error {
	out := jsonDFG{}
	for _, id := range d.sortedNodeIDs() {
		n, _ := d.Node(id)
		jn := jsonNode{
			ID:          n.ID,
			Opcode:      n.Opcode,
			TypeClass:   int(n.TypeClass),
			Cycles:      n.Cycles,
			Precision:   n.Precision,
			Unsupported: n.Unsupported,
		}
		if n.FusionGroup != nil {
			jn.FusionGroup = *n.FusionGroup
		}
		out.Nodes = append(out.Nodes, jn)
	}

	edges := make([]*Edge, len(d.Edges))
	copy(edges, d.Edges)
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	for _, e := range edges {
		out.Edges = append(out.Edges, jsonEdge{
			ID:       e.ID,
			From:     e.From.ID,
			To:       e.To.ID,
			Distance: e.Distance,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

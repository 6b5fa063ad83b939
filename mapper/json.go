package mapper

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/xid"

	"github.com/sarchlab/cgramap/dfg"
)

// Deterministic, versioned wire structs (spec.md §6: "JSON schemas must
// be stable across runs, key order deterministic") — the same reasoning
// that keeps dfg's JSON emitter on encoding/json rather than a generic
// reflection-based marshaler (see DESIGN.md).

type jsonPlacement struct {
	NodeID      int    `json:"nodeId"`
	SourceOpIDs []int  `json:"sourceOpIds"`
	Opcode      string `json:"opcode"`
	Row         int    `json:"row"`
	Column      int    `json:"column"`
	Slot        int    `json:"slot"`
}

type jsonRouteHop struct {
	FromRow int `json:"fromRow"`
	FromCol int `json:"fromColumn"`
	ToRow   int `json:"toRow"`
	ToCol   int `json:"toColumn"`
	Slot    int `json:"slot"`
}

type jsonRoute struct {
	EdgeID int            `json:"edgeId"`
	Hops   []jsonRouteHop `json:"hops"`
}

type jsonSchedule struct {
	SnapshotID string          `json:"snapshotId"`
	II         int             `json:"ii"`
	Placements []jsonPlacement `json:"placements"`
	Routes     []jsonRoute     `json:"routes"`
}

// GenerateJSON writes schedule.json: spec.md §4.3's generateJSON,
// stamped with an xid.New() snapshot id the way tracing/jsontracer.go
// stamps its trace files, so repeated mapping attempts of the same
// kernel are distinguishable. An xid encodes its creation time, process
// and a counter, so two runs on identical inputs write schedule.json
// files that differ in snapshotId; every other field is the same.
func GenerateJSON(w io.Writer, d *dfg.DFG, sched *Schedule) error {
	doc := toJSONSchedule(d, sched)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// GenerateJSON4IncrementalMap writes incremental.json: the same
// placement data keyed by stable source-operation ids instead of the
// current run's node ids, so a later incremental-mapping run can match
// nodes across a DFG rebuild even if node numbering shifted (spec.md
// §4.3's generateJSON4IncrementalMap).
func GenerateJSON4IncrementalMap(w io.Writer, d *dfg.DFG, sched *Schedule) error {
	doc := toJSONSchedule(d, sched)
	doc.Routes = nil // incremental files only need placements, per spec.md §4.3
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func toJSONSchedule(d *dfg.DFG, sched *Schedule) jsonSchedule {
	ids := make([]int, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		ids = append(ids, n.ID)
	}
	sort.Ints(ids)

	doc := jsonSchedule{SnapshotID: xid.New().String(), II: sched.II}
	for _, id := range ids {
		n, _ := d.Node(id)
		if n.Placement == nil {
			continue
		}
		doc.Placements = append(doc.Placements, jsonPlacement{
			NodeID:      n.ID,
			SourceOpIDs: n.SourceOpIDs(),
			Opcode:      n.Opcode,
			Row:         n.Placement.Row,
			Column:      n.Placement.Column,
			Slot:        n.Placement.Slot,
		})
	}

	edgeIDs := make([]int, 0, len(sched.Routes))
	for edgeID := range sched.Routes {
		edgeIDs = append(edgeIDs, edgeID)
	}
	sort.Ints(edgeIDs)
	for _, edgeID := range edgeIDs {
		hops := sched.Routes[edgeID]
		jsonHops := make([]jsonRouteHop, len(hops))
		for i, h := range hops {
			jsonHops[i] = jsonRouteHop{
				FromRow: h.FromRow, FromCol: h.FromCol,
				ToRow: h.ToRow, ToCol: h.ToCol,
				Slot: h.Slot,
			}
		}
		doc.Routes = append(doc.Routes, jsonRoute{EdgeID: edgeID, Hops: jsonHops})
	}

	return doc
}

// PriorPlacement is one entry loaded back from an incremental.json file,
// keyed by the stable source-operation-id signature of the node it
// belonged to.
type PriorPlacement struct {
	Opcode      string
	Row, Column int
	Slot        int
}

// LoadIncrementalJSON parses an incremental.json document into a map
// keyed by sourceOpSignature plus the II it was produced at, for
// IncrementalMap to match against the current DFG's nodes.
func LoadIncrementalJSON(r io.Reader) (map[string]PriorPlacement, int, error) {
	var doc jsonSchedule
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, 0, fmt.Errorf("mapper: decoding incremental schedule: %w", err)
	}
	out := make(map[string]PriorPlacement, len(doc.Placements))
	for _, p := range doc.Placements {
		out[sourceOpSignature(p.SourceOpIDs)] = PriorPlacement{
			Opcode: p.Opcode, Row: p.Row, Column: p.Column, Slot: p.Slot,
		}
	}
	return out, doc.II, nil
}

func sourceOpSignature(ids []int) string {
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}

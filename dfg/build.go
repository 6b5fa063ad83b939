package dfg

import (
	"fmt"
	"sort"

	"github.com/sarchlab/cgramap/host"
)

// BuildOptions carries every construction-time parameter spec.md's
// mapperPass.cpp reads out of param.json that Build needs. config.Config
// is translated into a BuildOptions by the mapperpass package; dfg never
// parses configuration itself.
type BuildOptions struct {
	PrecisionAware   bool
	FusionStrategy   []string
	FusionPattern    map[string][]string
	ExecLatency      map[string]int
	PipelinedOpt     []string
	SupportDVFS      bool
	DVFSAwareMapping bool

	// VectorFactorForIdiv splits each integer-divide node into this many
	// chained single-cycle nodes when MultiCycleStrategy is
	// "distributed".
	VectorFactorForIdiv int
	// MultiCycleStrategy is one of "exclusive", "distributed",
	// "inclusive" (spec.md §4.1).
	MultiCycleStrategy string

	// OpcodeOffset replaces the original's global testing_opcode_offset:
	// it is subtracted from every host operation id before it becomes a
	// node id, to normalise numbering skew between IR producers (spec.md
	// §9 design note).
	OpcodeOffset int
}

// DFG is the ordered set of Nodes and Edges extracted from one loop (or
// function), plus the derived analyses of spec.md §3: strongly connected
// components and their recurrence weights, an optional critical-path
// ordering, and the fusion configuration that produced it.
type DFG struct {
	Nodes []*Node
	Edges []*Edge

	nodesByID map[int]*Node

	SCCs          []*SCC
	criticalOrder []int

	FusionPatternTable map[string][]string
	FusionStrategy     []string

	opts BuildOptions
}

// SCC is a strongly connected component of a DFG together with its
// recurrence weight, ceil(sum(node.cycles) / sum(edge.distance)), with
// the distances summed over loop-carried edges inside the component
// (spec.md §4.1).
type SCC struct {
	NodeIDs []int
	Weight  int
}

// Build constructs a DFG from the host operations named by opIDs, which
// must all belong to fn and be given in some deterministic set (typically
// a single loop body, or the whole function when targetFunction is set).
// Operations outside opIDs are treated as external: their results feed
// edges into the DFG but no Node is created for them.
func Build(fn host.Function, opIDs []int, opts BuildOptions) (*DFG, error) {
	inSet := make(map[int]bool, len(opIDs))
	for _, id := range opIDs {
		inSet[id] = true
	}

	byOpID := make(map[int]host.Operation)
	order := make([]host.Operation, 0, len(opIDs))
	for _, op := range fn.Operations() {
		byOpID[op.ID] = op
		if inSet[op.ID] {
			order = append(order, op)
		}
	}
	if len(order) != len(opIDs) {
		return nil, fmt.Errorf("dfg: %d requested operation id(s) not found in function %q",
			len(opIDs)-len(order), fn.Name())
	}

	d := &DFG{
		nodesByID:          make(map[int]*Node, len(order)),
		FusionPatternTable: opts.FusionPattern,
		FusionStrategy:     opts.FusionStrategy,
		opts:               opts,
	}

	producerOf := make(map[int]*Node, len(order)) // host result-id -> node

	for _, op := range order {
		n := &Node{
			ID:                  op.ID - opts.OpcodeOffset,
			Opcode:              op.Opcode,
			TypeClass:           op.TypeClass,
			Cycles:              defaultCycles(op.Opcode, opts.ExecLatency),
			DVFSLatencyMultiple: 1,
			Precision:           defaultPrecision(opts.PrecisionAware),
			sourceOpIDs:         []int{op.ID},
		}
		if !IsSupportedOpcode(op.Opcode) {
			n.Unsupported = true
		}
		d.Nodes = append(d.Nodes, n)
		d.nodesByID[n.ID] = n
		producerOf[op.ResultID] = n
	}

	edgeID := 0
	for i, op := range order {
		consumer := d.Nodes[i]
		for operandIdx, operandID := range op.OperandIDs {
			producer, ok := producerOf[operandID]
			if !ok {
				continue // external / loop-invariant value, no edge
			}

			distance := 0
			if op.Opcode == "phi" && operandIdx > 0 {
				distance = 1
			}

			e := &Edge{
				ID:           edgeID,
				From:         producer,
				To:           consumer,
				Distance:     distance,
				OperandIndex: operandIdx,
			}
			edgeID++
			connect(e)
			d.Edges = append(d.Edges, e)
		}
	}

	collapseAddressChains(d)

	if err := applyFusion(d); err != nil {
		return nil, err
	}

	applyMultiCycleDecomposition(d)

	d.computeSCCs()

	return d, nil
}

func defaultCycles(opcode string, execLatency map[string]int) int {
	if execLatency != nil {
		if v, ok := execLatency[opcode]; ok && v > 0 {
			return v
		}
	}
	if info, ok := supportedOpcodes[opcode]; ok {
		return info.cycles
	}
	return 1
}

func defaultPrecision(precisionAware bool) int {
	if precisionAware {
		return 8
	}
	return 32
}

// Node looks up a node by stable id.
func (d *DFG) Node(id int) (*Node, bool) {
	n, ok := d.nodesByID[id]
	return n, ok
}

// sortedNodeIDs returns node ids in ascending order, the deterministic
// iteration order spec.md §5 requires everywhere.
func (d *DFG) sortedNodeIDs() []int {
	ids := make([]int, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		ids = append(ids, n.ID)
	}
	sort.Ints(ids)
	return ids
}

func (d *DFG) removeNode(target *Node) {
	for _, e := range append([]*Edge{}, target.Preds...) {
		disconnect(e)
		d.removeEdgeFromSlice(e)
	}
	for _, e := range append([]*Edge{}, target.Succs...) {
		disconnect(e)
		d.removeEdgeFromSlice(e)
	}

	out := d.Nodes[:0]
	for _, n := range d.Nodes {
		if n != target {
			out = append(out, n)
		}
	}
	d.Nodes = out
	delete(d.nodesByID, target.ID)
}

func (d *DFG) removeEdgeFromSlice(target *Edge) {
	out := d.Edges[:0]
	for _, e := range d.Edges {
		if e != target {
			out = append(out, e)
		}
	}
	d.Edges = out
}

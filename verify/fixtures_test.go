package verify_test

import (
	"github.com/sarchlab/cgramap/cgra"
	"github.com/sarchlab/cgramap/host"
)

type fakeFunction struct {
	name string
	ops  []host.Operation
}

func (f *fakeFunction) Name() string                 { return f.name }
func (f *fakeFunction) Operations() []host.Operation { return f.ops }

// firLikeFunction mirrors the mapper/dfg packages' fixture of the same
// name: a load/multiply/accumulate/store loop body with a loop-carried
// phi, small enough to map onto a 4x4 grid in tests.
func firLikeFunction() *fakeFunction {
	return &fakeFunction{
		name: "fir",
		ops: []host.Operation{
			{ID: 0, Opcode: "phi", OperandIDs: []int{100, 3}, ResultID: 0, TypeClass: host.TypeInteger},
			{ID: 1, Opcode: "load", OperandIDs: []int{101}, ResultID: 1, TypeClass: host.TypeMemory},
			{ID: 2, Opcode: "mul", OperandIDs: []int{1, 102}, ResultID: 2, TypeClass: host.TypeInteger},
			{ID: 3, Opcode: "add", OperandIDs: []int{0, 2}, ResultID: 3, TypeClass: host.TypeInteger},
			{ID: 4, Opcode: "store", OperandIDs: []int{3, 103}, ResultID: 4, TypeClass: host.TypeMemory},
		},
	}
}

func opIDs(ops []host.Operation) []int {
	ids := make([]int, len(ops))
	for i, op := range ops {
		ids[i] = op.ID
	}
	return ids
}

func newGrid(rows, columns int) *cgra.CGRA {
	g, err := cgra.New(cgra.Options{
		Rows: rows, Columns: columns,
		BaseOpcodes: []string{"phi", "load", "mul", "add", "store"},
	})
	if err != nil {
		panic(err)
	}
	return g
}

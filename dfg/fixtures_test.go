package dfg_test

import "github.com/sarchlab/cgramap/host"

// fakeFunction is a minimal host.Function backed by a literal operation
// list, used across this package's tests in place of a real compiler IR.
type fakeFunction struct {
	name string
	ops  []host.Operation
}

func (f *fakeFunction) Name() string                 { return f.name }
func (f *fakeFunction) Operations() []host.Operation { return f.ops }

func opIDs(ops []host.Operation) []int {
	ids := make([]int, len(ops))
	for i, op := range ops {
		ids[i] = op.ID
	}
	return ids
}

// firLikeFunction returns a small FIR-tap-like function: load, a
// multiply-add pair, and a store, with the accumulator carried via a
// loop-carried phi so RecMII > 0.
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

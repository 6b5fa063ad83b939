package mapperpass_test

import "github.com/sarchlab/cgramap/host"

// fakeFunction is a minimal host.Function backed by a literal operation
// list, standing in for a real compiler IR the way dfg's tests do.
type fakeFunction struct {
	name string
	ops  []host.Operation
}

func (f *fakeFunction) Name() string                 { return f.name }
func (f *fakeFunction) Operations() []host.Operation { return f.ops }

// fakeLoopTree is a literal host.LoopTree: one top-level loop per entry.
type fakeLoopTree struct {
	loops []host.Loop
}

func (t *fakeLoopTree) Loops() []host.Loop { return t.loops }

// firLikeFunction is a small FIR-tap-like function: a loop-carried
// accumulator (phi), a load, a multiply-add pair, and a store. Its single
// top-level loop is its entire body.
func firLikeFunction() (*fakeFunction, *fakeLoopTree) {
	ops := []host.Operation{
		{ID: 0, Opcode: "phi", OperandIDs: []int{100, 3}, ResultID: 0, TypeClass: host.TypeInteger},
		{ID: 1, Opcode: "load", OperandIDs: []int{101}, ResultID: 1, TypeClass: host.TypeMemory},
		{ID: 2, Opcode: "mul", OperandIDs: []int{1, 102}, ResultID: 2, TypeClass: host.TypeInteger},
		{ID: 3, Opcode: "add", OperandIDs: []int{0, 2}, ResultID: 3, TypeClass: host.TypeInteger},
		{ID: 4, Opcode: "store", OperandIDs: []int{3, 103}, ResultID: 4, TypeClass: host.TypeMemory},
	}
	fn := &fakeFunction{name: "fir", ops: ops}
	tree := &fakeLoopTree{loops: []host.Loop{
		{ID: 0, HeaderOpID: 0, BodyOpIDs: []int{0, 1, 2, 3, 4}},
	}}
	return fn, tree
}

// spmvLikeFunction has a multiply immediately feeding an add, the shape
// fusionStrategy=["fma"] collapses into a single node.
func spmvLikeFunction() (*fakeFunction, *fakeLoopTree) {
	ops := []host.Operation{
		{ID: 0, Opcode: "phi", OperandIDs: []int{100, 4}, ResultID: 0, TypeClass: host.TypeFloat},
		{ID: 1, Opcode: "load", OperandIDs: []int{101}, ResultID: 1, TypeClass: host.TypeMemory},
		{ID: 2, Opcode: "load", OperandIDs: []int{102}, ResultID: 2, TypeClass: host.TypeMemory},
		{ID: 3, Opcode: "fmul", OperandIDs: []int{1, 2}, ResultID: 3, TypeClass: host.TypeFloat},
		{ID: 4, Opcode: "fadd", OperandIDs: []int{0, 3}, ResultID: 4, TypeClass: host.TypeFloat},
	}
	fn := &fakeFunction{name: "spmv", ops: ops}
	tree := &fakeLoopTree{loops: []host.Loop{
		{ID: 0, HeaderOpID: 0, BodyOpIDs: []int{0, 1, 2, 3, 4}},
	}}
	return fn, tree
}

// gemmLikeFunction is kernel_gemm's inner-product accumulation, reused
// for the multiCycleStrategy="exclusive" scenario.
func gemmLikeFunction() (*fakeFunction, *fakeLoopTree) {
	ops := []host.Operation{
		{ID: 0, Opcode: "phi", OperandIDs: []int{100, 4}, ResultID: 0, TypeClass: host.TypeFloat},
		{ID: 1, Opcode: "load", OperandIDs: []int{101}, ResultID: 1, TypeClass: host.TypeMemory},
		{ID: 2, Opcode: "load", OperandIDs: []int{102}, ResultID: 2, TypeClass: host.TypeMemory},
		{ID: 3, Opcode: "fmul", OperandIDs: []int{1, 2}, ResultID: 3, TypeClass: host.TypeFloat},
		{ID: 4, Opcode: "fadd", OperandIDs: []int{0, 3}, ResultID: 4, TypeClass: host.TypeFloat},
	}
	fn := &fakeFunction{name: "kernel_gemm", ops: ops}
	tree := &fakeLoopTree{loops: []host.Loop{
		{ID: 0, HeaderOpID: 0, BodyOpIDs: []int{0, 1, 2, 3, 4}},
	}}
	return fn, tree
}

// idivLikeFunction carries a single integer divide, for
// vectorFactorForIdiv/multiCycleStrategy="distributed" coverage.
func idivLikeFunction() (*fakeFunction, *fakeLoopTree) {
	ops := []host.Operation{
		{ID: 0, Opcode: "phi", OperandIDs: []int{100, 2}, ResultID: 0, TypeClass: host.TypeInteger},
		{ID: 1, Opcode: "load", OperandIDs: []int{101}, ResultID: 1, TypeClass: host.TypeMemory},
		{ID: 2, Opcode: "sdiv", OperandIDs: []int{0, 1}, ResultID: 2, TypeClass: host.TypeInteger},
	}
	fn := &fakeFunction{name: "idiv", ops: ops}
	tree := &fakeLoopTree{loops: []host.Loop{
		{ID: 0, HeaderOpID: 0, BodyOpIDs: []int{0, 1, 2}},
	}}
	return fn, tree
}

// bfEncryptLikeFunction stands in for BF_encrypt: a plain add chain, no
// recurrence beyond a trivial phi.
func bfEncryptLikeFunction() (*fakeFunction, *fakeLoopTree) {
	ops := []host.Operation{
		{ID: 0, Opcode: "phi", OperandIDs: []int{100, 2}, ResultID: 0, TypeClass: host.TypeInteger},
		{ID: 1, Opcode: "load", OperandIDs: []int{101}, ResultID: 1, TypeClass: host.TypeMemory},
		{ID: 2, Opcode: "add", OperandIDs: []int{0, 1}, ResultID: 2, TypeClass: host.TypeInteger},
	}
	fn := &fakeFunction{name: "BF_encrypt", ops: ops}
	tree := &fakeLoopTree{loops: []host.Loop{
		{ID: 0, HeaderOpID: 0, BodyOpIDs: []int{0, 1, 2}},
	}}
	return fn, tree
}

// unknownKernelFunction names a function that is in neither the built-in
// registry nor any config's own Kernel field.
func unknownKernelFunction() (*fakeFunction, *fakeLoopTree) {
	ops := []host.Operation{
		{ID: 0, Opcode: "add", OperandIDs: []int{100, 101}, ResultID: 0, TypeClass: host.TypeInteger},
	}
	fn := &fakeFunction{name: "totally_unknown", ops: ops}
	tree := &fakeLoopTree{loops: []host.Loop{
		{ID: 0, HeaderOpID: 0, BodyOpIDs: []int{0}},
	}}
	return fn, tree
}

// xorLikeFunction carries an opcode outside the construction-time
// whitelist, to drive the UnsupportedOpcode Kind.
func xorLikeFunction() (*fakeFunction, *fakeLoopTree) {
	ops := []host.Operation{
		{ID: 0, Opcode: "xor", OperandIDs: []int{100, 101}, ResultID: 0, TypeClass: host.TypeInteger},
	}
	fn := &fakeFunction{name: "fir", ops: ops}
	tree := &fakeLoopTree{loops: []host.Loop{
		{ID: 0, HeaderOpID: 0, BodyOpIDs: []int{0}},
	}}
	return fn, tree
}

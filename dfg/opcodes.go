package dfg

import "github.com/sarchlab/cgramap/host"

// opcodeInfo describes the default cost and classification of a
// supported opcode before any optLatency override is applied.
type opcodeInfo struct {
	class  host.TypeClass
	cycles int
}

// supportedOpcodes is the whitelist from spec.md §4.1: integer/float
// arithmetic, compare, select, loads, stores, address computation, phi,
// and branch-as-control. Opcodes fusion introduces (fma, mux, ...) are
// added by the fusion pattern table, not here, since they only exist
// post-fusion.
var supportedOpcodes = map[string]opcodeInfo{
	"add":   {host.TypeInteger, 1},
	"sub":   {host.TypeInteger, 1},
	"mul":   {host.TypeInteger, 1},
	"sdiv":  {host.TypeInteger, 4},
	"udiv":  {host.TypeInteger, 4},
	"icmp":  {host.TypeInteger, 1},
	"fadd":  {host.TypeFloat, 2},
	"fsub":  {host.TypeFloat, 2},
	"fmul":  {host.TypeFloat, 3},
	"fdiv":  {host.TypeFloat, 8},
	"fcmp":  {host.TypeFloat, 1},
	"select": {host.TypeInteger, 1},
	"load":  {host.TypeMemory, 2},
	"store": {host.TypeMemory, 1},
	"gep":   {host.TypeMemory, 1},
	"phi":   {host.TypeControl, 1},
	"br":    {host.TypeControl, 1},
}

// IsSupportedOpcode reports whether opcode is in the construction-time
// whitelist (pre-fusion).
func IsSupportedOpcode(opcode string) bool {
	_, ok := supportedOpcodes[opcode]
	return ok
}

// SupportedOpcodes lists the construction-time whitelist, for callers
// that need to seed a CGRA's default per-tile capability set (spec.md
// §6's homogeneous default) without reaching into package internals.
func SupportedOpcodes() []string {
	out := make([]string, 0, len(supportedOpcodes))
	for op := range supportedOpcodes {
		out = append(out, op)
	}
	return out
}

// addressComputationOpcodes are collapsed into a single "gep" node when
// they form a linear chain (spec.md §4.1); whether the chain is rooted at
// an induction variable is not checked.
var addressComputationOpcodes = map[string]bool{
	"gep": true,
}

package host

import (
	"encoding/json"
	"fmt"
	"io"
)

// jsonOperation mirrors Operation's field set for decoding a function.json
// document, the thin JSON adapter this package's interfaces are meant to
// make possible: any producer that can dump its IR as this shape can
// drive mapperpass.MapFunction without writing a Go-level compiler
// integration.
type jsonOperation struct {
	ID         int    `json:"id"`
	Opcode     string `json:"opcode"`
	OperandIDs []int  `json:"operandIds"`
	ResultID   int    `json:"resultId"`
	TypeClass  string `json:"typeClass"`
}

type jsonLoop struct {
	ID         int        `json:"id"`
	HeaderOpID int        `json:"headerOpId"`
	BodyOpIDs  []int      `json:"bodyOpIds"`
	SubLoops   []jsonLoop `json:"subLoops,omitempty"`
}

type jsonFunction struct {
	Name       string          `json:"name"`
	Operations []jsonOperation `json:"operations"`
	Loops      []jsonLoop      `json:"loops"`
}

var typeClassNames = map[string]TypeClass{
	"integer": TypeInteger,
	"float":   TypeFloat,
	"memory":  TypeMemory,
	"control": TypeControl,
}

// JSONFunction is a Function and LoopTree backed by a decoded
// function.json document, letting cmd/cgramap run mapperpass.MapFunction
// against a description of a loop body without an in-process compiler.
type JSONFunction struct {
	name  string
	ops   []Operation
	loops []Loop
}

// Name implements Function.
func (f *JSONFunction) Name() string { return f.name }

// Operations implements Function.
func (f *JSONFunction) Operations() []Operation { return f.ops }

// Loops implements LoopTree.
func (f *JSONFunction) Loops() []Loop { return f.loops }

// ReadJSONFunction decodes a function.json document from r into a
// JSONFunction, which satisfies both Function and LoopTree.
func ReadJSONFunction(r io.Reader) (*JSONFunction, error) {
	var doc jsonFunction
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("host: decoding function document: %w", err)
	}

	ops := make([]Operation, len(doc.Operations))
	for i, op := range doc.Operations {
		class, ok := typeClassNames[op.TypeClass]
		if !ok {
			return nil, fmt.Errorf("host: operation %d: unknown typeClass %q", op.ID, op.TypeClass)
		}
		ops[i] = Operation{
			ID:         op.ID,
			Opcode:     op.Opcode,
			OperandIDs: append([]int(nil), op.OperandIDs...),
			ResultID:   op.ResultID,
			TypeClass:  class,
		}
	}

	loops := make([]Loop, len(doc.Loops))
	for i, l := range doc.Loops {
		loops[i] = convertJSONLoop(l)
	}

	return &JSONFunction{name: doc.Name, ops: ops, loops: loops}, nil
}

func convertJSONLoop(l jsonLoop) Loop {
	sub := make([]Loop, len(l.SubLoops))
	for i, s := range l.SubLoops {
		sub[i] = convertJSONLoop(s)
	}
	return Loop{
		ID:         l.ID,
		HeaderOpID: l.HeaderOpID,
		BodyOpIDs:  append([]int(nil), l.BodyOpIDs...),
		SubLoops:   sub,
	}
}

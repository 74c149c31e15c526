package driver

import (
	"fmt"

	"fortio.org/safecast"

	"ilemit/internal/emit"
	"ilemit/internal/fixture"
	"ilemit/internal/il"
	"ilemit/internal/metadata"
	"ilemit/internal/symbols"
)

// encodeMethod encodes body, builds the immutable method body and attaches
// it to method. Contract faults raised by the translator come back as errors.
func encodeMethod(tr *emit.Translator, method symbols.SymbolID, body *fixture.Body) (err error) {
	defer metadata.Recover(&err)
	if body == nil {
		return fmt.Errorf("method %d has no body", method)
	}
	def := tr.MethodDefinition(method)

	code, computed, err := encodeIL(tr, body.Code)
	if err != nil {
		return err
	}
	maxStack := computed
	if body.MaxStack >= 0 {
		maxStack = body.MaxStack
	}
	ms, err := safecast.Conv[uint16](maxStack)
	if err != nil {
		return fmt.Errorf("max stack %d: %w", maxStack, err)
	}

	locals := make([]metadata.LocalVariable, len(body.Locals))
	for i, l := range body.Locals {
		locals[i] = metadata.LocalVariable{
			Name:     l.Name,
			Slot:     i,
			Type:     tr.TranslateType(l.Type, false),
			IsPinned: l.Pinned,
			IsByRef:  l.ByRef,
		}
	}
	tr.SetMethodBody(method, metadata.NewMethodBody(def, code, ms, locals, body.Scopes, body.SequencePoints))
	return nil
}

// encodeIL assembles code, interning string and reference operands in the
// translator's token tables in order of first use.
func encodeIL(tr *emit.Translator, code []fixture.Instr) ([]byte, int, error) {
	var b il.Builder
	for i, ins := range code {
		if err := encodeInstr(tr, &b, ins); err != nil {
			return nil, 0, fmt.Errorf("il[%d] %s: %w", i, ins.Op, err)
		}
	}
	return b.Bytes(), b.MaxStack(), nil
}

func encodeInstr(tr *emit.Translator, b *il.Builder, ins fixture.Instr) error {
	info, ok := ins.Op.Info()
	if !ok {
		return fmt.Errorf("unknown opcode %s", ins.Op)
	}
	switch info.Operand {
	case il.OperandNone:
		return b.Emit(ins.Op)
	case il.OperandUint8:
		return b.EmitUint8(ins.Op, int(ins.Int))
	case il.OperandInt32:
		return b.EmitInt32(ins.Op, ins.Int)
	case il.OperandString:
		tok, err := il.Token(il.TagString, tr.GetOrAssignStringToken(ins.Str))
		if err != nil {
			return err
		}
		return b.EmitToken(ins.Op, tok)
	default:
		ref := tr.Translate(ins.Ref, false)
		tok, err := il.Token(il.TagReference, tr.GetOrAssignReferenceToken(ref))
		if err != nil {
			return err
		}
		return b.EmitToken(ins.Op, tok)
	}
}

package fixture

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ilemit/internal/il"
	"ilemit/internal/metadata"
	"ilemit/internal/symbols"
)

// Body is the code generator output for one method, before encoding.
type Body struct {
	// MaxStack is negative when the encoder should compute it.
	MaxStack       int
	Locals         []Local
	Scopes         []uint32
	SequencePoints []metadata.SequencePoint
	Code           []Instr
}

// Local is one local slot.
type Local struct {
	Name   string
	Type   symbols.SymbolID
	Pinned bool
	ByRef  bool
}

// Instr is one instruction with a resolved operand.
type Instr struct {
	Op il.Opcode
	// Int holds slots and immediates.
	Int int32
	Str string
	// Ref is the type or member a token operand refers to.
	Ref symbols.SymbolID
}

func (l *loader) parseBody(doc *bodyDoc, sc scope) (*Body, error) {
	body := &Body{MaxStack: -1, Scopes: doc.Scopes}
	if doc.MaxStack != nil {
		body.MaxStack = *doc.MaxStack
	}
	if len(doc.Scopes)%2 != 0 {
		return nil, errors.New("body: scopes must be offset/length pairs")
	}
	for i, ld := range doc.Locals {
		typ, err := l.resolve(ld.Type, sc)
		if err != nil {
			return nil, fmt.Errorf("body: local %d: %w", i, err)
		}
		body.Locals = append(body.Locals, Local{Name: ident(ld.Name), Type: typ, Pinned: ld.Pinned, ByRef: ld.ByRef})
	}
	for _, sp := range doc.SequencePoints {
		end, endCol := sp.EndLine, sp.EndColumn
		if end == 0 {
			end = sp.Line
		}
		body.SequencePoints = append(body.SequencePoints, metadata.SequencePoint{
			Offset: sp.Offset, Document: sp.Document,
			StartLine: sp.Line, StartColumn: sp.Column, EndLine: end, EndColumn: endCol,
		})
	}
	sc.locals = body.Locals
	for i, line := range doc.IL {
		ins, err := l.parseInstr(line, sc)
		if err != nil {
			return nil, fmt.Errorf("body: il[%d] %q: %w", i, line, err)
		}
		body.Code = append(body.Code, ins)
	}
	return body, nil
}

func (l *loader) parseInstr(line string, sc scope) (Instr, error) {
	line = strings.TrimSpace(line)
	mnemonic, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	op, ok := il.Lookup(mnemonic)
	if !ok {
		return Instr{}, fmt.Errorf("unknown opcode %q", mnemonic)
	}
	info, _ := op.Info()
	ins := Instr{Op: op}
	if info.Operand != il.OperandNone && rest == "" {
		return Instr{}, fmt.Errorf("%s needs an operand", op)
	}

	var err error
	switch info.Operand {
	case il.OperandNone:
		if rest != "" {
			return Instr{}, fmt.Errorf("%s takes no operand", op)
		}
	case il.OperandUint8:
		ins.Int, err = l.slot(op, rest, sc)
	case il.OperandInt32:
		var v int64
		v, err = strconv.ParseInt(rest, 0, 32)
		ins.Int = int32(v)
	case il.OperandString:
		ins.Str, err = strconv.Unquote(rest)
	case il.OperandType:
		ins.Ref, err = l.resolve(rest, sc)
	case il.OperandField:
		ins.Ref, err = l.resolveMember(rest, sc, symbols.KindField)
	case il.OperandMethod:
		ins.Ref, err = l.resolveMember(rest, sc, symbols.KindMethod)
	case il.OperandToken:
		if strings.Contains(rest, "::") {
			ins.Ref, err = l.resolveMember(rest, sc, symbols.KindInvalid)
		} else {
			ins.Ref, err = l.resolve(rest, sc)
		}
	}
	return ins, err
}

// slot resolves a numeric slot or a parameter or local name. Argument 0 of
// an instance method is the receiver, so named parameters shift by one.
func (l *loader) slot(op il.Opcode, text string, sc scope) (int32, error) {
	if n, err := strconv.ParseUint(text, 10, 8); err == nil {
		return int32(n), nil
	}
	name := ident(text)
	if op == il.LdargS {
		method := l.table.MustGet(sc.method)
		shift := int32(1)
		if method.Has(symbols.FlagStatic) {
			shift = 0
		}
		for i, p := range method.Params {
			if l.table.MustGet(p).Name == name {
				return int32(i) + shift, nil
			}
		}
		return 0, fmt.Errorf("no parameter %q", name)
	}
	for i, loc := range sc.locals {
		if loc.Name == name {
			return int32(i), nil
		}
	}
	return 0, fmt.Errorf("no local %q", name)
}

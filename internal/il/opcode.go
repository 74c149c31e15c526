// Package il encodes and decodes the instruction subset produced for
// method bodies: one opcode byte followed by a little-endian operand.
package il

import "fmt"

// Opcode is a single-byte instruction code.
type Opcode byte

const (
	Nop       Opcode = 0x00
	LdargS    Opcode = 0x0E
	LdlocS    Opcode = 0x11
	StlocS    Opcode = 0x13
	Ldnull    Opcode = 0x14
	LdcI4     Opcode = 0x20
	Dup       Opcode = 0x25
	Pop       Opcode = 0x26
	Call      Opcode = 0x28
	Ret       Opcode = 0x2A
	Callvirt  Opcode = 0x6F
	Ldstr     Opcode = 0x72
	Newobj    Opcode = 0x73
	Castclass Opcode = 0x74
	Ldfld     Opcode = 0x7B
	Stfld     Opcode = 0x7D
	Ldsfld    Opcode = 0x7E
	Stsfld    Opcode = 0x80
	Box       Opcode = 0x8C
	Newarr    Opcode = 0x8D
	Ldtoken   Opcode = 0xD0
)

// Operand describes what follows an opcode.
type Operand uint8

const (
	OperandNone Operand = iota
	// OperandUint8 is an argument or local slot.
	OperandUint8
	OperandInt32
	OperandString
	OperandType
	OperandField
	OperandMethod
	// OperandToken accepts any type or member reference.
	OperandToken
)

// Width returns the operand size in bytes.
func (o Operand) Width() int {
	switch o {
	case OperandNone:
		return 0
	case OperandUint8:
		return 1
	default:
		return 4
	}
}

// IsReference reports whether the operand is a reference token.
func (o Operand) IsReference() bool {
	return o == OperandType || o == OperandField || o == OperandMethod || o == OperandToken
}

// Info is the static description of an opcode.
type Info struct {
	Name    string
	Operand Operand
	// Stack is the net stack effect when it does not depend on a signature.
	Stack int
}

var infos = map[Opcode]Info{
	Nop:       {"nop", OperandNone, 0},
	LdargS:    {"ldarg.s", OperandUint8, 1},
	LdlocS:    {"ldloc.s", OperandUint8, 1},
	StlocS:    {"stloc.s", OperandUint8, -1},
	Ldnull:    {"ldnull", OperandNone, 1},
	LdcI4:     {"ldc.i4", OperandInt32, 1},
	Dup:       {"dup", OperandNone, 1},
	Pop:       {"pop", OperandNone, -1},
	Call:      {"call", OperandMethod, 0},
	Ret:       {"ret", OperandNone, 0},
	Callvirt:  {"callvirt", OperandMethod, 0},
	Ldstr:     {"ldstr", OperandString, 1},
	Newobj:    {"newobj", OperandMethod, 1},
	Castclass: {"castclass", OperandType, 0},
	Ldfld:     {"ldfld", OperandField, 0},
	Stfld:     {"stfld", OperandField, -2},
	Ldsfld:    {"ldsfld", OperandField, 1},
	Stsfld:    {"stsfld", OperandField, -1},
	Box:       {"box", OperandType, 0},
	Newarr:    {"newarr", OperandType, 0},
	Ldtoken:   {"ldtoken", OperandToken, 1},
}

var byName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(infos))
	for op, info := range infos {
		m[info.Name] = op
	}
	return m
}()

// Lookup returns the opcode with the given mnemonic.
func Lookup(name string) (Opcode, bool) {
	op, ok := byName[name]
	return op, ok
}

// Info returns the description of op.
func (op Opcode) Info() (Info, bool) {
	info, ok := infos[op]
	return info, ok
}

func (op Opcode) String() string {
	if info, ok := infos[op]; ok {
		return info.Name
	}
	return fmt.Sprintf("op(0x%02X)", byte(op))
}

package il

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Instruction is one decoded instruction.
type Instruction struct {
	Offset  int
	Op      Opcode
	Operand uint32
}

// Decode splits code into instructions.
func Decode(code []byte) ([]Instruction, error) {
	var out []Instruction
	for pc := 0; pc < len(code); {
		op := Opcode(code[pc])
		info, ok := op.Info()
		if !ok {
			return out, fmt.Errorf("IL_%04X: unknown opcode 0x%02X", pc, code[pc])
		}
		ins := Instruction{Offset: pc, Op: op}
		pc++
		width := info.Operand.Width()
		if pc+width > len(code) {
			return out, fmt.Errorf("IL_%04X: truncated %s operand", ins.Offset, op)
		}
		switch width {
		case 1:
			ins.Operand = uint32(code[pc])
		case 4:
			ins.Operand = binary.LittleEndian.Uint32(code[pc:])
		}
		pc += width
		out = append(out, ins)
	}
	return out, nil
}

// Disassemble renders code one instruction per line. Tokens print raw.
func Disassemble(code []byte) (string, error) {
	ins, err := Decode(code)
	var b strings.Builder
	for _, in := range ins {
		info, _ := in.Op.Info()
		fmt.Fprintf(&b, "IL_%04X: %s", in.Offset, in.Op)
		switch info.Operand {
		case OperandNone:
		case OperandUint8:
			fmt.Fprintf(&b, " %d", in.Operand)
		case OperandInt32:
			fmt.Fprintf(&b, " %d", int32(in.Operand))
		default:
			fmt.Fprintf(&b, " 0x%08X", in.Operand)
		}
		b.WriteByte('\n')
	}
	return b.String(), err
}

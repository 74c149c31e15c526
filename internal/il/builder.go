package il

import (
	"encoding/binary"
	"fmt"

	"fortio.org/safecast"
)

// Token tags carried in the high byte of a token operand.
const (
	TagReference byte = 0x0A
	TagString    byte = 0x70
)

const maxOrdinal = 1<<24 - 1

// Token combines a table tag with a token ordinal.
func Token(tag byte, ordinal uint32) (uint32, error) {
	if ordinal > maxOrdinal {
		return 0, fmt.Errorf("token ordinal %d exceeds %d", ordinal, maxOrdinal)
	}
	return uint32(tag)<<24 | ordinal, nil
}

// SplitToken is the inverse of Token.
func SplitToken(tok uint32) (tag byte, ordinal uint32) {
	return byte(tok >> 24), tok & maxOrdinal
}

// Builder accumulates an instruction stream and tracks the stack depth of
// opcodes with a fixed effect.
type Builder struct {
	code     []byte
	depth    int
	maxStack int
}

// Emit appends an opcode without operand.
func (b *Builder) Emit(op Opcode) error {
	return b.begin(op, OperandNone)
}

// EmitUint8 appends an opcode with a slot operand.
func (b *Builder) EmitUint8(op Opcode, slot int) error {
	if err := b.begin(op, OperandUint8); err != nil {
		return err
	}
	v, err := safecast.Conv[uint8](slot)
	if err != nil {
		return fmt.Errorf("%s: slot %d: %w", op, slot, err)
	}
	b.code = append(b.code, v)
	return nil
}

// EmitInt32 appends an opcode with an immediate operand.
func (b *Builder) EmitInt32(op Opcode, v int32) error {
	if err := b.begin(op, OperandInt32); err != nil {
		return err
	}
	b.code = binary.LittleEndian.AppendUint32(b.code, uint32(v))
	return nil
}

// EmitToken appends an opcode with a string or reference token.
func (b *Builder) EmitToken(op Opcode, tok uint32) error {
	info, ok := op.Info()
	if !ok {
		return fmt.Errorf("unknown opcode %s", op)
	}
	if info.Operand != OperandString && !info.Operand.IsReference() {
		return fmt.Errorf("%s does not take a token", op)
	}
	b.push(op, info)
	b.code = binary.LittleEndian.AppendUint32(b.code, tok)
	return nil
}

func (b *Builder) begin(op Opcode, want Operand) error {
	info, ok := op.Info()
	if !ok {
		return fmt.Errorf("unknown opcode %s", op)
	}
	if info.Operand != want {
		return fmt.Errorf("%s takes a different operand", op)
	}
	b.push(op, info)
	return nil
}

func (b *Builder) push(op Opcode, info Info) {
	b.code = append(b.code, byte(op))
	b.depth = max(b.depth+info.Stack, 0)
	b.maxStack = max(b.maxStack, b.depth)
}

// Bytes returns the encoded stream.
func (b *Builder) Bytes() []byte { return b.code }

// MaxStack is the deepest stack seen, counting fixed effects only.
func (b *Builder) MaxStack() int { return b.maxStack }

// Len reports the current offset.
func (b *Builder) Len() int { return len(b.code) }

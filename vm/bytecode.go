package vm

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// ---------------------------------------------------------------------------
// Opcode definitions
// ---------------------------------------------------------------------------

// Opcode represents a single bytecode instruction.
type Opcode byte

// Control
const (
	OpHALT Opcode = 0x00 // terminate execution, report success
	OpNOP  Opcode = 0xF0 // no operation
)

// Push Constants
const (
	OpDCONSTM1 Opcode = 0x0A // push -1.0
	OpDCONST0  Opcode = 0x0B // push 0.0
	OpDCONST1  Opcode = 0x0C // push 1.0
	OpDCONST2  Opcode = 0x0D // push 2.0
	OpDCONST   Opcode = 0x0F // push inline float64 (8 bytes, little-endian)
)

// Arithmetic
const (
	OpADD Opcode = 0x60 // pop b, pop a, push a+b
	OpSUB Opcode = 0x61 // pop b, pop a, push a-b
	OpMUL Opcode = 0x62 // pop b, pop a, push a*b
	OpDIV Opcode = 0x64 // pop b, pop a, push a/b; b must be nonzero
	OpNEG Opcode = 0x70 // pop a, push -a
)

// Registers and Output
const (
	OpPRINT Opcode = 0xF2 // pop and print top of stack
	OpST1   Opcode = 0xF4 // pop into register 1
	OpLD1   Opcode = 0xF5 // push register 1
	OpST2   Opcode = 0xF6 // pop into register 2
	OpLD2   Opcode = 0xF7 // push register 2
)

// ---------------------------------------------------------------------------
// Opcode metadata
// ---------------------------------------------------------------------------

// OpcodeInfo holds metadata about an opcode.
type OpcodeInfo struct {
	Name         string // human-readable name
	OperandBytes int    // number of operand bytes
	StackEffect  int    // net effect on stack depth
}

// opcodeTable maps opcodes to their metadata. The instruction set is closed:
// a byte absent from this table is not an instruction.
var opcodeTable = map[Opcode]OpcodeInfo{
	OpHALT: {"HALT", 0, 0},
	OpNOP:  {"NOP", 0, 0},

	OpDCONSTM1: {"DCONST_M1", 0, 1},
	OpDCONST0:  {"DCONST_0", 0, 1},
	OpDCONST1:  {"DCONST_1", 0, 1},
	OpDCONST2:  {"DCONST_2", 0, 1},
	OpDCONST:   {"DCONST", 8, 1},

	OpADD: {"ADD", 0, -1}, // pops 2, pushes 1
	OpSUB: {"SUB", 0, -1}, // pops 2, pushes 1
	OpMUL: {"MUL", 0, -1}, // pops 2, pushes 1
	OpDIV: {"DIV", 0, -1}, // pops 2, pushes 1
	OpNEG: {"NEG", 0, 0},  // pops 1, pushes 1

	OpPRINT: {"PRINT", 0, -1},
	OpST1:   {"ST1", 0, -1},
	OpLD1:   {"LD1", 0, 1},
	OpST2:   {"ST2", 0, -1},
	OpLD2:   {"LD2", 0, 1},
}

// DecodeOpcode interprets a raw byte as an opcode. The second return value
// reports whether the byte names an instruction in the set.
func DecodeOpcode(b byte) (Opcode, bool) {
	op := Opcode(b)
	_, ok := opcodeTable[op]
	return op, ok
}

// Info returns the metadata for an opcode.
func (op Opcode) Info() OpcodeInfo {
	if info, ok := opcodeTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN_%02X", byte(op))}
}

// Name returns the human-readable name for an opcode.
func (op Opcode) Name() string {
	return op.Info().Name
}

// OperandBytes returns the number of operand bytes for an opcode.
func (op Opcode) OperandBytes() int {
	return op.Info().OperandBytes
}

// String implements the Stringer interface.
func (op Opcode) String() string {
	return op.Name()
}

// ---------------------------------------------------------------------------
// BytecodeBuilder: Helper for constructing bytecode
// ---------------------------------------------------------------------------

// BytecodeBuilder helps construct bytecode sequences.
type BytecodeBuilder struct {
	bytes []byte
}

// NewBytecodeBuilder creates a new bytecode builder.
func NewBytecodeBuilder() *BytecodeBuilder {
	return &BytecodeBuilder{
		bytes: make([]byte, 0, 32),
	}
}

// Bytes returns the constructed bytecode.
func (b *BytecodeBuilder) Bytes() []byte {
	return b.bytes
}

// Len returns the current length.
func (b *BytecodeBuilder) Len() int {
	return len(b.bytes)
}

// Emit appends an opcode with no operands.
func (b *BytecodeBuilder) Emit(op Opcode) {
	b.bytes = append(b.bytes, byte(op))
}

// EmitRaw appends a raw byte to the bytecode.
func (b *BytecodeBuilder) EmitRaw(data byte) {
	b.bytes = append(b.bytes, data)
}

// EmitFloat64 appends DCONST with its 64-bit float operand (little-endian).
func (b *BytecodeBuilder) EmitFloat64(operand float64) {
	b.bytes = append(b.bytes, byte(OpDCONST))
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(operand))
	b.bytes = append(b.bytes, buf[:]...)
}

// ---------------------------------------------------------------------------
// Disassembly
// ---------------------------------------------------------------------------

// DisassembleInstruction disassembles the instruction at pos and returns its
// string representation together with the position of the next instruction.
// An unrecognized byte renders as a .byte directive so a listing never aborts.
func DisassembleInstruction(code []byte, pos int) (string, int) {
	op, ok := DecodeOpcode(code[pos])
	if !ok {
		return fmt.Sprintf("%04d  .byte 0x%02X", pos, code[pos]), pos + 1
	}

	next := pos + 1
	switch op {
	case OpDCONST:
		if len(code)-next < 8 {
			// Truncated operand: show what remains as raw bytes.
			return fmt.Sprintf("%04d  %s <truncated>", pos, op.Name()), len(code)
		}
		v := math.Float64frombits(binary.LittleEndian.Uint64(code[next:]))
		return fmt.Sprintf("%04d  %s %v", pos, op.Name(), v), next + 8

	default:
		return fmt.Sprintf("%04d  %s", pos, op.Name()), next
	}
}

// Disassemble returns a full disassembly of bytecode.
func Disassemble(code []byte) string {
	var sb strings.Builder
	for pos := 0; pos < len(code); {
		var line string
		line, pos = DisassembleInstruction(code, pos)
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
	}
	return sb.String()
}

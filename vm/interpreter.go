package vm

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// ---------------------------------------------------------------------------
// Main interpreter loop
// ---------------------------------------------------------------------------

// Run executes the program until HALT or the first failure. A nil return
// means the machine reached HALT cleanly. Any other outcome is a
// *MachineError carrying the error kind, the offending opcode byte, and its
// position. The loop aborts on the first failure; PRINT output already
// written stands.
//
// Control is strictly linear (the instruction set has no jumps), so Run
// terminates within len(code) decode steps.
func (m *Machine) Run() error {
	for {
		// Fetch. Running off the end of the code is a caller error (missing
		// HALT) but must never become an out-of-bounds read.
		if m.pc >= len(m.code) {
			return m.fail(UnexpectedEndOfCode, 0, m.pc)
		}
		opPos := m.pc
		raw := m.code[m.pc]
		m.pc++

		// Decode. Unknown bytes never reach the execute switch.
		op, ok := DecodeOpcode(raw)
		if !ok {
			return m.fail(InvalidOpcode, raw, opPos)
		}

		if m.trace != nil {
			line, _ := DisassembleInstruction(m.code, opPos)
			fmt.Fprintln(m.trace, line)
		}

		switch op {
		case OpHALT:
			return nil

		case OpNOP:
			// Do nothing

		// --- Push constants ---
		case OpDCONSTM1:
			if !m.push(-1.0) {
				return m.fail(StackOverflow, raw, opPos)
			}

		case OpDCONST0:
			if !m.push(0.0) {
				return m.fail(StackOverflow, raw, opPos)
			}

		case OpDCONST1:
			if !m.push(1.0) {
				return m.fail(StackOverflow, raw, opPos)
			}

		case OpDCONST2:
			if !m.push(2.0) {
				return m.fail(StackOverflow, raw, opPos)
			}

		case OpDCONST:
			if len(m.code)-m.pc < 8 {
				return m.fail(UnexpectedEndOfCode, raw, opPos)
			}
			v := math.Float64frombits(binary.LittleEndian.Uint64(m.code[m.pc:]))
			m.pc += 8
			if !m.push(v) {
				return m.fail(StackOverflow, raw, opPos)
			}

		// --- Arithmetic ---
		// Binary ops pop b then a and compute a <op> b: the second-popped
		// value is the left operand. Reversing this silently changes SUB
		// and DIV results.
		case OpADD:
			a, b, err := m.popPair(raw, opPos)
			if err != nil {
				return err
			}
			m.stack[m.sp] = a + b
			m.sp++

		case OpSUB:
			a, b, err := m.popPair(raw, opPos)
			if err != nil {
				return err
			}
			m.stack[m.sp] = a - b
			m.sp++

		case OpMUL:
			a, b, err := m.popPair(raw, opPos)
			if err != nil {
				return err
			}
			m.stack[m.sp] = a * b
			m.sp++

		case OpDIV:
			a, b, err := m.popPair(raw, opPos)
			if err != nil {
				return err
			}
			if b == 0.0 {
				return m.fail(DivisionByZero, raw, opPos)
			}
			m.stack[m.sp] = a / b
			m.sp++

		case OpNEG:
			a, ok := m.pop()
			if !ok {
				return m.fail(StackUnderflow, raw, opPos)
			}
			m.stack[m.sp] = -a
			m.sp++

		// --- Registers ---
		case OpST1:
			a, ok := m.pop()
			if !ok {
				return m.fail(StackUnderflow, raw, opPos)
			}
			m.r1 = a

		case OpST2:
			a, ok := m.pop()
			if !ok {
				return m.fail(StackUnderflow, raw, opPos)
			}
			m.r2 = a

		case OpLD1:
			if !m.push(m.r1) {
				return m.fail(StackOverflow, raw, opPos)
			}

		case OpLD2:
			if !m.push(m.r2) {
				return m.fail(StackOverflow, raw, opPos)
			}

		// --- Output ---
		case OpPRINT:
			a, ok := m.pop()
			if !ok {
				return m.fail(StackUnderflow, raw, opPos)
			}
			fmt.Fprintln(m.out, FormatValue(a))

		default:
			// Unreachable: DecodeOpcode only admits bytes in the opcode
			// table, and every table entry has a case above.
			return m.fail(InvalidOpcode, raw, opPos)
		}
	}
}

// popPair pops the two operands of a binary op: b first, then a. After a
// successful popPair the stack has room for the result slot, so the caller
// may write stack[sp] and bump sp directly.
func (m *Machine) popPair(raw byte, opPos int) (a, b float64, err error) {
	b, ok := m.pop()
	if !ok {
		return 0, 0, m.fail(StackUnderflow, raw, opPos)
	}
	a, ok = m.pop()
	if !ok {
		return 0, 0, m.fail(StackUnderflow, raw, opPos)
	}
	return a, b, nil
}

// FormatValue renders a value the way PRINT emits it: the shortest decimal
// form that parses back to the same float64.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

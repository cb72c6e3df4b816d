package vm

import (
	"io"
	"os"
)

// DefaultStackSize is the operand stack capacity used by NewMachine.
const DefaultStackSize = 256

// ---------------------------------------------------------------------------
// Machine: Execution state for one program
// ---------------------------------------------------------------------------

// Machine executes one bytecode program against a bounded operand stack and
// two scalar registers. All state is owned by the Machine; the code buffer is
// borrowed from the caller and never written. A Machine is single-use and
// single-threaded: create one per program, run it, discard it.
type Machine struct {
	code []byte // program, read-only
	pc   int    // index of the next byte to fetch

	stack []float64 // operand stack, fixed capacity
	sp    int       // number of occupied slots (0 == empty)

	r1, r2 float64 // registers, zero-initialized

	out   io.Writer // PRINT destination
	trace io.Writer // optional per-instruction listing, nil when disabled
}

// NewMachine creates a machine for the given program with the default stack
// capacity. PRINT output goes to stdout unless redirected with SetOutput.
func NewMachine(code []byte) *Machine {
	return NewMachineSize(code, DefaultStackSize)
}

// NewMachineSize creates a machine with an explicit stack capacity.
// A non-positive capacity falls back to the default.
func NewMachineSize(code []byte, stackSize int) *Machine {
	if stackSize <= 0 {
		stackSize = DefaultStackSize
	}
	return &Machine{
		code:  code,
		stack: make([]float64, stackSize),
		out:   os.Stdout,
	}
}

// SetOutput redirects PRINT output. Must be called before Run.
func (m *Machine) SetOutput(w io.Writer) {
	m.out = w
}

// SetTrace makes Run write a disassembly line for each instruction before
// executing it. Pass nil to disable. Must be called before Run.
func (m *Machine) SetTrace(w io.Writer) {
	m.trace = w
}

// StackDepth returns the number of values currently on the operand stack.
func (m *Machine) StackDepth() int {
	return m.sp
}

// Registers returns the current values of registers 1 and 2.
func (m *Machine) Registers() (r1, r2 float64) {
	return m.r1, m.r2
}

// ---------------------------------------------------------------------------
// Stack operations
// ---------------------------------------------------------------------------

// push places v on top of the stack. Reports false when the stack is already
// at capacity; the stack is unchanged in that case.
func (m *Machine) push(v float64) bool {
	if m.sp >= len(m.stack) {
		return false
	}
	m.stack[m.sp] = v
	m.sp++
	return true
}

// pop removes and returns the top of the stack. Reports false when the stack
// is empty.
func (m *Machine) pop() (float64, bool) {
	if m.sp <= 0 {
		return 0, false
	}
	m.sp--
	return m.stack[m.sp], true
}

package vm

import "fmt"

// ---------------------------------------------------------------------------
// Error taxonomy
// ---------------------------------------------------------------------------

// ErrorKind classifies the ways an execution can abort. Every kind is fatal
// to the current run; there is no opcode-level recovery.
type ErrorKind int

const (
	// InvalidOpcode means the decoded byte does not name an instruction.
	InvalidOpcode ErrorKind = iota
	// UnexpectedEndOfCode means a fetch (opcode or operand) would read past
	// the end of the code buffer.
	UnexpectedEndOfCode
	// StackUnderflow means a pop was attempted on an empty operand stack.
	StackUnderflow
	// StackOverflow means a push was attempted with the stack at capacity.
	StackOverflow
	// DivisionByZero means DIV executed with a zero right-hand operand.
	DivisionByZero
)

// String returns the canonical name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case InvalidOpcode:
		return "InvalidOpcode"
	case UnexpectedEndOfCode:
		return "UnexpectedEndOfCode"
	case StackUnderflow:
		return "StackUnderflow"
	case StackOverflow:
		return "StackOverflow"
	case DivisionByZero:
		return "DivisionByZero"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// MachineError is the structured failure returned by Run. Pos is the code
// offset of the instruction that failed; Opcode is its raw byte.
type MachineError struct {
	Kind   ErrorKind
	Opcode byte
	Pos    int
}

func (e *MachineError) Error() string {
	switch e.Kind {
	case UnexpectedEndOfCode:
		return fmt.Sprintf("%s at position %d", e.Kind, e.Pos)
	default:
		return fmt.Sprintf("%s: opcode 0x%02X at position %d", e.Kind, e.Opcode, e.Pos)
	}
}

func (m *Machine) fail(kind ErrorKind, op byte, pos int) *MachineError {
	return &MachineError{Kind: kind, Opcode: op, Pos: pos}
}

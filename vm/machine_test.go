package vm

import (
	"math"
	"testing"
)

// ---------------------------------------------------------------------------
// Machine construction tests
// ---------------------------------------------------------------------------

func TestNewMachine(t *testing.T) {
	m := NewMachine([]byte{byte(OpHALT)})
	if m == nil {
		t.Fatal("NewMachine returned nil")
	}
	if len(m.stack) != DefaultStackSize {
		t.Errorf("stack capacity = %d, want %d", len(m.stack), DefaultStackSize)
	}
	if m.StackDepth() != 0 {
		t.Errorf("initial stack depth = %d, want 0", m.StackDepth())
	}
	r1, r2 := m.Registers()
	if r1 != 0 || r2 != 0 {
		t.Errorf("initial registers = (%v, %v), want (0, 0)", r1, r2)
	}
	if m.pc != 0 {
		t.Errorf("initial pc = %d, want 0", m.pc)
	}
}

func TestNewMachineSize(t *testing.T) {
	m := NewMachineSize(nil, 8)
	if len(m.stack) != 8 {
		t.Errorf("stack capacity = %d, want 8", len(m.stack))
	}
}

func TestNewMachineSizeFallback(t *testing.T) {
	for _, size := range []int{0, -1} {
		m := NewMachineSize(nil, size)
		if len(m.stack) != DefaultStackSize {
			t.Errorf("capacity for size %d = %d, want default %d",
				size, len(m.stack), DefaultStackSize)
		}
	}
}

func TestMachineDoesNotCopyCode(t *testing.T) {
	// The code buffer is borrowed, not copied.
	code := []byte{byte(OpHALT)}
	m := NewMachine(code)
	if &m.code[0] != &code[0] {
		t.Error("machine copied the code buffer")
	}
}

// ---------------------------------------------------------------------------
// Stack discipline tests
// ---------------------------------------------------------------------------

func TestPushPop(t *testing.T) {
	m := NewMachineSize(nil, 4)
	for i, v := range []float64{1, 2, 3, 4} {
		if !m.push(v) {
			t.Fatalf("push %d failed below capacity", i)
		}
	}
	if m.push(5) {
		t.Error("push beyond capacity succeeded")
	}
	if m.StackDepth() != 4 {
		t.Errorf("depth after failed push = %d, want 4", m.StackDepth())
	}

	// LIFO order.
	for _, want := range []float64{4, 3, 2, 1} {
		v, ok := m.pop()
		if !ok {
			t.Fatal("pop failed on non-empty stack")
		}
		if v != want {
			t.Errorf("pop = %v, want %v", v, want)
		}
	}
	if _, ok := m.pop(); ok {
		t.Error("pop on empty stack succeeded")
	}
	if m.StackDepth() != 0 {
		t.Errorf("depth after failed pop = %d, want 0", m.StackDepth())
	}
}

func TestPushPreservesBitPatterns(t *testing.T) {
	m := NewMachineSize(nil, 2)
	nan := math.NaN()
	m.push(nan)
	v, _ := m.pop()
	if math.Float64bits(v) != math.Float64bits(nan) {
		t.Errorf("NaN bits changed through the stack: 0x%016X vs 0x%016X",
			math.Float64bits(v), math.Float64bits(nan))
	}
}

// ---------------------------------------------------------------------------
// Error formatting tests
// ---------------------------------------------------------------------------

func TestMachineErrorMessage(t *testing.T) {
	tests := []struct {
		err  *MachineError
		want string
	}{
		{&MachineError{Kind: InvalidOpcode, Opcode: 0x42, Pos: 3},
			"InvalidOpcode: opcode 0x42 at position 3"},
		{&MachineError{Kind: DivisionByZero, Opcode: byte(OpDIV), Pos: 2},
			"DivisionByZero: opcode 0x64 at position 2"},
		{&MachineError{Kind: UnexpectedEndOfCode, Pos: 5},
			"UnexpectedEndOfCode at position 5"},
		{&MachineError{Kind: StackUnderflow, Opcode: byte(OpADD), Pos: 0},
			"StackUnderflow: opcode 0x60 at position 0"},
	}
	for _, tc := range tests {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("Error() = %q, want %q", got, tc.want)
		}
	}
}

func TestErrorKindString(t *testing.T) {
	kinds := map[ErrorKind]string{
		InvalidOpcode:       "InvalidOpcode",
		UnexpectedEndOfCode: "UnexpectedEndOfCode",
		StackUnderflow:      "StackUnderflow",
		StackOverflow:       "StackOverflow",
		DivisionByZero:      "DivisionByZero",
	}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Errorf("String(%d) = %q, want %q", int(k), got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// Value formatting tests
// ---------------------------------------------------------------------------

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{1.0, "1"},
		{-0.5, "-0.5"},
		{0.0, "0"},
		{2.0, "2"},
		{1.0 / 3.0, "0.3333333333333333"},
		{math.Inf(1), "+Inf"},
		{math.NaN(), "NaN"},
	}
	for _, tc := range tests {
		if got := FormatValue(tc.v); got != tc.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tc.v, got, tc.want)
		}
	}
}

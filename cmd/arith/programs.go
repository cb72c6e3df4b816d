package main

import "github.com/kaskamal/arithmetic-machine/vm"

// demoPrograms returns the built-in sample programs: the classic worked
// examples for this machine.
func demoPrograms() []program {
	var out []program

	// 2 - 1, printed.
	b := vm.NewBytecodeBuilder()
	b.Emit(vm.OpDCONST2)
	b.Emit(vm.OpDCONST1)
	b.Emit(vm.OpSUB)
	b.Emit(vm.OpPRINT)
	b.Emit(vm.OpHALT)
	out = append(out, program{name: "subtract", code: b.Bytes()})

	// 1.0 as an inline little-endian constant.
	b = vm.NewBytecodeBuilder()
	b.EmitFloat64(1.0)
	b.Emit(vm.OpPRINT)
	b.Emit(vm.OpHALT)
	out = append(out, program{name: "dconst-one", code: b.Bytes()})

	// The raw bytes of the same constant, spelled out.
	raw := []byte{
		byte(vm.OpDCONST),
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF0, 0x3F,
		byte(vm.OpPRINT),
		byte(vm.OpHALT),
	}
	out = append(out, program{name: "dconst-raw", code: raw})

	// Register round trip: -1.0 / 2.0.
	b = vm.NewBytecodeBuilder()
	b.Emit(vm.OpDCONST2)
	b.Emit(vm.OpST1)
	b.Emit(vm.OpDCONSTM1)
	b.Emit(vm.OpLD1)
	b.Emit(vm.OpDIV)
	b.Emit(vm.OpPRINT)
	b.Emit(vm.OpHALT)
	out = append(out, program{name: "registers", code: b.Bytes()})

	return out
}

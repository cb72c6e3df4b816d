// Package vm implements the arithmetic stack machine.
//
// This package contains:
//   - The closed opcode set and its metadata table
//   - A bytecode builder and disassembler
//   - The machine state (operand stack, registers, program counter)
//   - The decode-dispatch-execute loop
package vm

// Package cpu implements the execution engine and assembler for the µVM
// system.
//
// The CPU consists of eight 32-bit general-purpose registers (r0-r7), a
// program counter, and a Zero/Greater/Less flags register. It drives the
// fetch-decode-execute cycle against a bounds-checked 64KB memory and a
// port-mapped I/O controller, terminating in a Halted or Faulted state.
// Every fault is a value the caller inspects; nothing in the engine panics
// on program input.
//
// The assembler provides a small assembly language for the instruction set,
// supporting labels, equates, and compile-time expression evaluation.
package cpu

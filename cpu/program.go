package cpu

import (
	"iter"
)

// Statement is one assembled source line: its location, the words the
// assembler saw, and the instruction it produced.
type Statement struct {
	LineNo    int      // Source line number.
	Addr      uint32   // Address of the encoded instruction.
	Words     []string // Parsed source words.
	Inst      Instruction
	LinkLabel string // Label to resolve into the address operand.
}

// Program is an assembled instruction stream with its source mapping.
type Program struct {
	Statements []Statement
}

// Debug returns the statement covering the given address, or nil.
func (prog *Program) Debug(addr uint32) (st *Statement) {
	for n := range prog.Statements {
		candidate := &prog.Statements[n]
		width := candidate.Inst.Width()
		if addr >= candidate.Addr && addr < candidate.Addr+width {
			st = candidate
			break
		}
	}

	return
}

// Instructions iterates the program's instructions in address order.
func (prog *Program) Instructions() iter.Seq2[uint32, Instruction] {
	return func(yield func(addr uint32, inst Instruction) bool) {
		for _, st := range prog.Statements {
			if !yield(st.Addr, st.Inst) {
				return
			}
		}
	}
}

// Image returns the flat byte image of the program, from address 0 through
// the end of the last statement. Gaps left by .org are zero-filled, so the
// image loads verbatim at address 0.
func (prog *Program) Image() (image []byte) {
	for _, st := range prog.Statements {
		end := st.Addr + st.Inst.Width()
		for uint32(len(image)) < end {
			image = append(image, 0)
		}
		copy(image[st.Addr:], st.Inst.Encode(nil))
	}

	return
}

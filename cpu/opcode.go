package cpu

import (
	"fmt"
	"strings"
)

// Op is an instruction opcode, the leading byte of every encoding.
type Op uint8

// The instruction set. Each instruction is a leading opcode byte followed
// by a fixed, opcode-specific operand encoding:
//
//   - register operands are one byte each, 0..7
//   - address operands are 16-bit little-endian
//   - port operands are one byte
//   - immediate operands are 32-bit little-endian
const (
	OP_HALT = Op(0x00) // HALT

	OP_ADD = Op(0x01) // ADD dst, srcA, srcB
	OP_SUB = Op(0x02) // SUB dst, srcA, srcB
	OP_MUL = Op(0x03) // MUL dst, srcA, srcB
	OP_DIV = Op(0x04) // DIV dst, srcA, srcB
	OP_AND = Op(0x05) // AND dst, srcA, srcB
	OP_OR  = Op(0x06) // OR dst, srcA, srcB
	OP_XOR = Op(0x07) // XOR dst, srcA, srcB
	OP_NOT = Op(0x08) // NOT dst, src
	OP_SHL = Op(0x09) // SHL dst, src, count
	OP_SHR = Op(0x0A) // SHR dst, src, count

	OP_CMP  = Op(0x0B) // CMP srcA, srcB
	OP_MOV  = Op(0x0C) // MOV dst, src
	OP_MOVI = Op(0x0D) // MOVI dst, imm32

	OP_LOAD  = Op(0x10) // LOAD dst, addr16
	OP_STORE = Op(0x11) // STORE src, addr16

	OP_JMP = Op(0x12) // JMP addr16
	OP_JE  = Op(0x13) // JE addr16
	OP_JNE = Op(0x14) // JNE addr16
	OP_JG  = Op(0x15) // JG addr16
	OP_JL  = Op(0x16) // JL addr16

	OP_INPUT  = Op(0x18) // INPUT dst, port
	OP_OUTPUT = Op(0x19) // OUTPUT port, src
)

// Operand is an operand encoding kind.
type Operand int

const (
	OPERAND_REG  = Operand(0) // One-byte register index.
	OPERAND_ADDR = Operand(1) // 16-bit little-endian memory address.
	OPERAND_PORT = Operand(2) // One-byte I/O port number.
	OPERAND_IMM  = Operand(3) // 32-bit little-endian immediate.
)

// Bytes returns the encoded size of the operand.
func (opr Operand) Bytes() (size uint32) {
	switch opr {
	case OPERAND_REG, OPERAND_PORT:
		size = 1
	case OPERAND_ADDR:
		size = 2
	case OPERAND_IMM:
		size = 4
	}

	return
}

// OpSpec describes one row of the opcode table: the mnemonic and the
// ordered operand encoding that follows the opcode byte.
type OpSpec struct {
	Name     string
	Operands []Operand
}

// Width returns the full encoded width of the instruction, including the
// opcode byte.
func (spec *OpSpec) Width() (width uint32) {
	width = 1
	for _, opr := range spec.Operands {
		width += opr.Bytes()
	}

	return
}

// opcodeTable is the authoritative opcode table. An opcode absent from this
// table is an unknown encoding and faults the decoder.
var opcodeTable = map[Op]OpSpec{
	OP_HALT: {Name: "HALT"},

	OP_ADD: {Name: "ADD", Operands: []Operand{OPERAND_REG, OPERAND_REG, OPERAND_REG}},
	OP_SUB: {Name: "SUB", Operands: []Operand{OPERAND_REG, OPERAND_REG, OPERAND_REG}},
	OP_MUL: {Name: "MUL", Operands: []Operand{OPERAND_REG, OPERAND_REG, OPERAND_REG}},
	OP_DIV: {Name: "DIV", Operands: []Operand{OPERAND_REG, OPERAND_REG, OPERAND_REG}},
	OP_AND: {Name: "AND", Operands: []Operand{OPERAND_REG, OPERAND_REG, OPERAND_REG}},
	OP_OR:  {Name: "OR", Operands: []Operand{OPERAND_REG, OPERAND_REG, OPERAND_REG}},
	OP_XOR: {Name: "XOR", Operands: []Operand{OPERAND_REG, OPERAND_REG, OPERAND_REG}},
	OP_NOT: {Name: "NOT", Operands: []Operand{OPERAND_REG, OPERAND_REG}},
	OP_SHL: {Name: "SHL", Operands: []Operand{OPERAND_REG, OPERAND_REG, OPERAND_REG}},
	OP_SHR: {Name: "SHR", Operands: []Operand{OPERAND_REG, OPERAND_REG, OPERAND_REG}},

	OP_CMP:  {Name: "CMP", Operands: []Operand{OPERAND_REG, OPERAND_REG}},
	OP_MOV:  {Name: "MOV", Operands: []Operand{OPERAND_REG, OPERAND_REG}},
	OP_MOVI: {Name: "MOVI", Operands: []Operand{OPERAND_REG, OPERAND_IMM}},

	OP_LOAD:  {Name: "LOAD", Operands: []Operand{OPERAND_REG, OPERAND_ADDR}},
	OP_STORE: {Name: "STORE", Operands: []Operand{OPERAND_REG, OPERAND_ADDR}},

	OP_JMP: {Name: "JMP", Operands: []Operand{OPERAND_ADDR}},
	OP_JE:  {Name: "JE", Operands: []Operand{OPERAND_ADDR}},
	OP_JNE: {Name: "JNE", Operands: []Operand{OPERAND_ADDR}},
	OP_JG:  {Name: "JG", Operands: []Operand{OPERAND_ADDR}},
	OP_JL:  {Name: "JL", Operands: []Operand{OPERAND_ADDR}},

	OP_INPUT:  {Name: "INPUT", Operands: []Operand{OPERAND_REG, OPERAND_PORT}},
	OP_OUTPUT: {Name: "OUTPUT", Operands: []Operand{OPERAND_PORT, OPERAND_REG}},
}

// Spec returns the opcode table row for the op.
func (op Op) Spec() (spec OpSpec, ok bool) {
	spec, ok = opcodeTable[op]

	return
}

// String returns the mnemonic for the op.
func (op Op) String() (name string) {
	spec, ok := opcodeTable[op]
	if !ok {
		return fmt.Sprintf("OP(0x%02X)", uint8(op))
	}

	return spec.Name
}

// Instruction is a single decoded operation: an opcode plus its typed
// operands. Instructions are produced by Decode (or the assembler) and
// consumed immediately by the CPU; they are not persisted.
type Instruction struct {
	Op   Op
	Reg  [3]uint8 // Register operands, in encoding order.
	Addr uint16   // Address operand (LOAD, STORE, jumps).
	Port uint8    // Port operand (INPUT, OUTPUT).
	Imm  uint32   // Immediate operand (MOVI).
}

// Width returns the encoded width of the instruction in bytes.
func (inst *Instruction) Width() (width uint32) {
	spec, ok := inst.Op.Spec()
	if !ok {
		return
	}

	return spec.Width()
}

// Encode appends the instruction's byte encoding to image.
func (inst *Instruction) Encode(image []byte) (out []byte) {
	out = append(image, byte(inst.Op))

	spec, ok := inst.Op.Spec()
	if !ok {
		return
	}

	var reg int
	for _, opr := range spec.Operands {
		switch opr {
		case OPERAND_REG:
			out = append(out, inst.Reg[reg])
			reg++
		case OPERAND_ADDR:
			out = append(out, byte(inst.Addr), byte(inst.Addr>>8))
		case OPERAND_PORT:
			out = append(out, inst.Port)
		case OPERAND_IMM:
			out = append(out,
				byte(inst.Imm), byte(inst.Imm>>8),
				byte(inst.Imm>>16), byte(inst.Imm>>24))
		}
	}

	return
}

// String returns the instruction in mnemonic form, e.g. "ADD r0, r1, r2".
func (inst Instruction) String() (text string) {
	spec, ok := inst.Op.Spec()
	if !ok {
		return inst.Op.String()
	}

	var args []string
	var reg int
	for _, opr := range spec.Operands {
		switch opr {
		case OPERAND_REG:
			args = append(args, fmt.Sprintf("r%d", inst.Reg[reg]))
			reg++
		case OPERAND_ADDR:
			args = append(args, fmt.Sprintf("0x%04x", inst.Addr))
		case OPERAND_PORT:
			args = append(args, fmt.Sprintf("#%d", inst.Port))
		case OPERAND_IMM:
			args = append(args, fmt.Sprintf("0x%08x", inst.Imm))
		}
	}

	text = spec.Name
	if len(args) != 0 {
		text += " " + strings.Join(args, ", ")
	}

	return
}

package cpu

import (
	"github.com/ezrec/uvm/mmu"
)

// Decode reads the byte sequence at addr and produces a structured
// instruction plus its encoded width.
//
// An unrecognized leading byte returns ErrUnknownOpcode, as does a register
// operand outside the register file. Reading past the end of memory returns
// the MMU's bounds error; the decoder never indexes memory unchecked.
func Decode(mem *mmu.Memory, addr uint32) (inst Instruction, width uint32, err error) {
	lead, err := mem.ReadByte(addr)
	if err != nil {
		return
	}

	inst.Op = Op(lead)
	spec, ok := inst.Op.Spec()
	if !ok {
		err = ErrUnknownOpcode
		return
	}

	next := addr + 1
	var reg int
	for _, opr := range spec.Operands {
		switch opr {
		case OPERAND_REG:
			var value byte
			value, err = mem.ReadByte(next)
			if err != nil {
				return
			}
			if value >= RegisterCount {
				err = ErrUnknownOpcode
				return
			}
			inst.Reg[reg] = value
			reg++
		case OPERAND_ADDR:
			var low, high byte
			low, err = mem.ReadByte(next)
			if err != nil {
				return
			}
			high, err = mem.ReadByte(next + 1)
			if err != nil {
				return
			}
			inst.Addr = uint16(low) | uint16(high)<<8
		case OPERAND_PORT:
			inst.Port, err = mem.ReadByte(next)
			if err != nil {
				return
			}
		case OPERAND_IMM:
			inst.Imm, err = mem.ReadWord(next)
			if err != nil {
				return
			}
		}
		next += opr.Bytes()
	}

	width = spec.Width()

	return
}

package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/uvm/io"
	"github.com/ezrec/uvm/mmu"
)

const (
	// RegisterCount is the number of general-purpose registers.
	RegisterCount = 8
)

var _cpu_defines = map[string]string{
	"REGISTER_COUNT": fmt.Sprintf("%v", RegisterCount),
	"MEMORY_SIZE":    fmt.Sprintf("%v", mmu.Size),
}

// Flags is the condition-code register. Exactly one flag is set by each
// flag-updating instruction; only CMP updates flags.
type Flags struct {
	Zero    bool // Last comparison was equal.
	Greater bool // Last comparison left operand was greater.
	Less    bool // Last comparison left operand was less.
}

// State is the CPU run status. Halted and Faulted are terminal: once
// reached, further Step calls are no-ops returning the same state.
type State int

const (
	Running = State(0)
	Halted  = State(1)
	Faulted = State(2)
)

var stateNames = map[State]string{
	Running: "running",
	Halted:  "halted",
	Faulted: "faulted",
}

// String returns the state name.
func (st State) String() (name string) {
	name, ok := stateNames[st]
	if !ok {
		name = "invalid"
	}

	return
}

// Cpu owns the register file, program counter, and flags, and drives the
// fetch-decode-execute loop against its memory and I/O controller. Each Cpu
// instance is fully independent; instances share nothing and may run
// concurrently with one another.
//
// Comparison (CMP) and the conditional jumps that consume its flags are
// unsigned: registers hold u32 values and arithmetic is unsigned-wrapping
// throughout.
type Cpu struct {
	Verbose bool // Set to enable verbose execution logging.

	Mem *mmu.Memory    // Memory, the sole data store.
	Io  *io.Controller // Port-mapped I/O registry (not owned).

	Reg   [RegisterCount]uint32 // General-purpose register bank.
	Pc    uint32                // Program counter.
	Flags Flags                 // Condition codes from the last CMP.

	state State
	fault *Fault
}

// NewCpu creates a CPU in the Running state with PC at 0, attached to the
// given memory and I/O controller.
func NewCpu(mem *mmu.Memory, ctl *io.Controller) (cpu *Cpu) {
	cpu = &Cpu{
		Mem: mem,
		Io:  ctl,
	}

	return
}

// Defines for the cpu.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// State returns the current run status.
func (cpu *Cpu) State() State {
	return cpu.state
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("   pc: %04X      state: %v\n", cpu.Pc, cpu.state)
	text += fmt.Sprintf("flags: zero=%v greater=%v less=%v\n",
		cpu.Flags.Zero, cpu.Flags.Greater, cpu.Flags.Less)
	for n, val := range cpu.Reg {
		text += fmt.Sprintf("   r%d: %04X_%04X\n", n, val>>16, val&0xffff)
	}

	return
}

// Fault returns the fault that terminated execution, or nil if the CPU has
// not faulted.
func (cpu *Cpu) Fault() *Fault {
	return cpu.fault
}

// Reset returns the CPU to the Running state with cleared registers and
// flags, and PC at the entry address. Memory is not touched.
func (cpu *Cpu) Reset(entry uint32) {
	if cpu.Verbose {
		log.Printf("cpu: reset, entry 0x%04x", entry)
	}

	clear(cpu.Reg[:])
	cpu.Flags = Flags{}
	cpu.Pc = entry
	cpu.state = Running
	cpu.fault = nil
}

// faulted records a fault at the current PC and moves to the terminal
// Faulted state.
func (cpu *Cpu) faulted(cause error) (state State, err error) {
	cpu.fault = &Fault{Pc: cpu.Pc, Err: cause}
	cpu.state = Faulted

	if cpu.Verbose {
		log.Printf("cpu: %v", cpu.fault)
	}

	return cpu.state, cpu.fault
}

// Step executes a single fetch-decode-execute cycle.
//
// On a terminal state, Step does nothing and reports that state again (with
// the fault, if any). Instruction effects are all-or-nothing: a faulting
// instruction leaves registers, flags, memory, and PC exactly as they were
// before the step.
func (cpu *Cpu) Step() (state State, err error) {
	if cpu.state != Running {
		state = cpu.state
		if cpu.fault != nil {
			err = cpu.fault
		}
		return
	}

	inst, width, err := Decode(cpu.Mem, cpu.Pc)
	if err != nil {
		return cpu.faulted(err)
	}

	if cpu.Verbose {
		log.Printf("%04x: %v", cpu.Pc, inst)
	}

	next := cpu.Pc + width

	switch inst.Op {
	case OP_HALT:
		cpu.state = Halted

	case OP_ADD:
		cpu.Reg[inst.Reg[0]] = cpu.Reg[inst.Reg[1]] + cpu.Reg[inst.Reg[2]]
	case OP_SUB:
		cpu.Reg[inst.Reg[0]] = cpu.Reg[inst.Reg[1]] - cpu.Reg[inst.Reg[2]]
	case OP_MUL:
		cpu.Reg[inst.Reg[0]] = cpu.Reg[inst.Reg[1]] * cpu.Reg[inst.Reg[2]]
	case OP_DIV:
		if cpu.Reg[inst.Reg[2]] == 0 {
			return cpu.faulted(ErrDivisionByZero)
		}
		cpu.Reg[inst.Reg[0]] = cpu.Reg[inst.Reg[1]] / cpu.Reg[inst.Reg[2]]

	case OP_AND:
		cpu.Reg[inst.Reg[0]] = cpu.Reg[inst.Reg[1]] & cpu.Reg[inst.Reg[2]]
	case OP_OR:
		cpu.Reg[inst.Reg[0]] = cpu.Reg[inst.Reg[1]] | cpu.Reg[inst.Reg[2]]
	case OP_XOR:
		cpu.Reg[inst.Reg[0]] = cpu.Reg[inst.Reg[1]] ^ cpu.Reg[inst.Reg[2]]
	case OP_NOT:
		cpu.Reg[inst.Reg[0]] = ^cpu.Reg[inst.Reg[1]]
	case OP_SHL:
		cpu.Reg[inst.Reg[0]] = cpu.Reg[inst.Reg[1]] << (cpu.Reg[inst.Reg[2]] & 31)
	case OP_SHR:
		cpu.Reg[inst.Reg[0]] = cpu.Reg[inst.Reg[1]] >> (cpu.Reg[inst.Reg[2]] & 31)

	case OP_CMP:
		a := cpu.Reg[inst.Reg[0]]
		b := cpu.Reg[inst.Reg[1]]
		cpu.Flags = Flags{
			Zero:    a == b,
			Greater: a > b,
			Less:    a < b,
		}
	case OP_MOV:
		cpu.Reg[inst.Reg[0]] = cpu.Reg[inst.Reg[1]]
	case OP_MOVI:
		cpu.Reg[inst.Reg[0]] = inst.Imm

	case OP_LOAD:
		var value uint32
		value, err = cpu.Mem.ReadWord(uint32(inst.Addr))
		if err != nil {
			return cpu.faulted(err)
		}
		cpu.Reg[inst.Reg[0]] = value
	case OP_STORE:
		err = cpu.Mem.WriteWord(uint32(inst.Addr), cpu.Reg[inst.Reg[0]])
		if err != nil {
			return cpu.faulted(err)
		}

	case OP_JMP:
		next = uint32(inst.Addr)
	case OP_JE:
		if cpu.Flags.Zero {
			next = uint32(inst.Addr)
		}
	case OP_JNE:
		if !cpu.Flags.Zero {
			next = uint32(inst.Addr)
		}
	case OP_JG:
		if cpu.Flags.Greater {
			next = uint32(inst.Addr)
		}
	case OP_JL:
		if cpu.Flags.Less {
			next = uint32(inst.Addr)
		}

	case OP_INPUT:
		var value byte
		value, err = cpu.Io.Read(inst.Port)
		if err != nil {
			return cpu.faulted(err)
		}
		cpu.Reg[inst.Reg[0]] = uint32(value)
	case OP_OUTPUT:
		err = cpu.Io.Write(inst.Port, byte(cpu.Reg[inst.Reg[0]]))
		if err != nil {
			return cpu.faulted(err)
		}
	}

	cpu.Pc = next
	state = cpu.state

	return
}

// Run sets PC to the entry address and repeatedly steps until a terminal
// state, returning the terminal state and the fault, if any. A CPU already
// in a terminal state reports it unchanged; reconstruct or Reset to run
// again.
func (cpu *Cpu) Run(entry uint32) (state State, err error) {
	if cpu.state != Running {
		state = cpu.state
		if cpu.fault != nil {
			err = cpu.fault
		}
		return
	}

	cpu.Pc = entry
	for {
		state, err = cpu.Step()
		if state != Running {
			return
		}
	}
}

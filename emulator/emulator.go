// Package emulator assembles a complete µVM instance: one CPU, one 64KB
// memory, and one I/O controller with a console device at port 0. Each
// Emulator is fully self-contained; independent instances may run in
// parallel.
package emulator

import (
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/internal"
	"github.com/ezrec/uvm/io"
	"github.com/ezrec/uvm/mmu"
)

const (
	// CONSOLE_PORT is the port the console device is attached to.
	CONSOLE_PORT = uint8(0)
)

var _emulator_defines = map[string]string{
	"CONSOLE_PORT": fmt.Sprintf("%v", CONSOLE_PORT),
}

// Emulator state. CPU + memory + IO devices.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // The CPU, with its memory and I/O controller.
	Program  *cpu.Program // Source listing of the loaded program, if assembled.

	Console *io.Console // Console device at CONSOLE_PORT.
}

// NewEmulator creates a new emulator with zeroed memory and a console
// attached to stdin/stdout.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(mmu.NewMemory(), io.NewController()),
		Console: io.NewConsole(),
	}

	emu.Cpu.Io.Attach(CONSOLE_PORT, emu.Console)

	return
}

// Defines returns an iterator over all of the defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Load copies a flat byte image into memory at the given address.
func (emu *Emulator) Load(image []byte, addr uint32) (err error) {
	err = emu.Cpu.Mem.Load(image, addr)

	return
}

// LoadProgram loads an assembled program's image at address 0 and keeps
// the source listing for fault reporting.
func (emu *Emulator) LoadProgram(prog *cpu.Program) (err error) {
	err = emu.Load(prog.Image(), 0)
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// Reset returns the CPU to the Running state at the entry address.
// Memory contents are preserved.
func (emu *Emulator) Reset(entry uint32) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset(entry)
}

// LineNo returns the source line number for the current PC, or 0 when no
// program listing is attached.
func (emu *Emulator) LineNo() (lineno int) {
	if emu.Program == nil {
		return
	}

	st := emu.Program.Debug(emu.Cpu.Pc)
	if st != nil {
		lineno = st.LineNo
	}

	return
}

// Step executes a single CPU step.
func (emu *Emulator) Step() (state cpu.State, err error) {
	emu.Cpu.Verbose = emu.Verbose

	state, err = emu.Cpu.Step()
	err = emu.runtime(err)

	return
}

// Run runs from the entry address until the CPU reaches a terminal state,
// returning that state and the fault, if any.
func (emu *Emulator) Run(entry uint32) (state cpu.State, err error) {
	emu.Cpu.Verbose = emu.Verbose

	state, err = emu.Cpu.Run(entry)
	err = emu.runtime(err)

	return
}

// runtime annotates a fault with its source line, when one is known.
func (emu *Emulator) runtime(err error) error {
	if err == nil {
		return nil
	}

	lineno := emu.LineNo()
	if lineno == 0 {
		return err
	}

	return &ErrRuntime{LineNo: lineno, Err: err}
}

package emulator

import (
	"io"
)

// Snapshot writes the raw 64KB memory image to a writer.
func (emu *Emulator) Snapshot(file io.Writer) (err error) {
	err = emu.Cpu.Mem.Marshal(file)

	return
}

// Restore loads a raw memory image from a reader, starting at address 0.
func (emu *Emulator) Restore(file io.Reader) (err error) {
	err = emu.Cpu.Mem.Unmarshal(file)

	return
}

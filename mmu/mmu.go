// Package mmu implements the memory management unit for the µVM system.
//
// The MMU owns a fixed 64KB byte-addressable array and exposes bounds-checked
// byte and 32-bit word accessors. Words occupy 4 consecutive bytes in
// little-endian order; every word operation honors that order. Out-of-range
// accesses return ErrOutOfBounds rather than panicking, so the CPU can fold
// them into its fault state.
package mmu

import (
	"encoding/binary"
	"io"
)

const (
	// Size is the length of the address space in bytes.
	Size = 65536

	// WordBytes is the width of a machine word in bytes.
	WordBytes = 4
)

// Memory is a single 64KB linear address space. The zero value is ready to
// use: memory starts zero-filled, and each instance is fully independent.
type Memory struct {
	data [Size]byte
}

// NewMemory creates a zero-filled memory.
func NewMemory() (mem *Memory) {
	mem = &Memory{}

	return
}

// ReadByte reads the byte at addr.
func (mem *Memory) ReadByte(addr uint32) (value byte, err error) {
	if addr >= Size {
		err = ErrOutOfBounds
		return
	}

	value = mem.data[addr]

	return
}

// WriteByte writes value to the byte at addr.
func (mem *Memory) WriteByte(addr uint32, value byte) (err error) {
	if addr >= Size {
		err = ErrOutOfBounds
		return
	}

	mem.data[addr] = value

	return
}

// ReadWord reads the little-endian 32-bit word at addr. The word must lie
// entirely within the address space.
func (mem *Memory) ReadWord(addr uint32) (value uint32, err error) {
	if addr > Size-WordBytes {
		err = ErrOutOfBounds
		return
	}

	value = binary.LittleEndian.Uint32(mem.data[addr : addr+WordBytes])

	return
}

// WriteWord writes value as a little-endian 32-bit word at addr. The word
// must lie entirely within the address space.
func (mem *Memory) WriteWord(addr uint32, value uint32) (err error) {
	if addr > Size-WordBytes {
		err = ErrOutOfBounds
		return
	}

	binary.LittleEndian.PutUint32(mem.data[addr:addr+WordBytes], value)

	return
}

// Load copies a flat byte image into memory starting at addr.
// Returns ErrOutOfBounds if the image does not fit.
func (mem *Memory) Load(image []byte, addr uint32) (err error) {
	if addr >= Size || len(image) > Size-int(addr) {
		err = ErrOutOfBounds
		return
	}

	copy(mem.data[addr:], image)

	return
}

// Reset zero-fills the entire address space.
func (mem *Memory) Reset() {
	clear(mem.data[:])
}

// Marshal writes the raw memory image to a writer.
func (mem *Memory) Marshal(file io.Writer) (err error) {
	_, err = file.Write(mem.data[:])

	return
}

// Unmarshal loads a raw memory image from a reader, starting at address 0.
// Short images leave the remainder of memory untouched.
func (mem *Memory) Unmarshal(file io.Reader) (err error) {
	_, err = io.ReadFull(file, mem.data[:])
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		err = nil
	}

	return
}

package io

import (
	"io"
	"os"
)

// Console provides blocking byte I/O against a pair of streams, by default
// the process's standard input and output. Reads block until a byte is
// available; a stream at EOF reports ErrInputExhausted.
type Console struct {
	Input  io.Reader
	Output io.Writer
}

var _ Device = (*Console)(nil)

// NewConsole creates a console attached to stdin and stdout.
func NewConsole() (con *Console) {
	con = &Console{
		Input:  os.Stdin,
		Output: os.Stdout,
	}

	return
}

// Read reads the next byte from the input stream, blocking until one is
// available.
func (con *Console) Read() (value byte, err error) {
	var one [1]byte
	_, err = io.ReadFull(con.Input, one[:])
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = ErrInputExhausted
		}
		return
	}

	value = one[0]

	return
}

// Write writes a single byte to the output stream.
func (con *Console) Write(value byte) (err error) {
	_, err = con.Output.Write([]byte{value})

	return
}

// Package io provides the port-mapped I/O subsystem for the µVM emulator.
// It defines the Device capability, the Controller that maps port numbers
// to devices, and device implementations for interactive use (Console),
// deterministic testing (Mock), and in-memory loopback (Buffer).
package io

// Device defines the interface for all I/O devices in the µVM system.
// Devices transfer a single byte per operation; a blocking device may
// block the calling goroutine for the duration of the transfer.
type Device interface {
	// Read reads the next byte from the device.
	Read() (value byte, err error)
	// Write writes a single byte to the device.
	Write(value byte) error
}

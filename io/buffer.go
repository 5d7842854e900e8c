package io

const (
	// BUFFER_DEFAULT_CAPACITY is the default capacity in bytes for a new buffer.
	BUFFER_DEFAULT_CAPACITY = 65536
)

// Buffer implements a bounded FIFO byte queue usable as both the input and
// output side of a device, for loopback programs and tests. Writes append
// at the tail; reads pop from the head.
type Buffer struct {
	Capacity int

	ReadIndex int
	Data      []byte
}

var _ Device = (*Buffer)(nil)

// Rewind resets the read position to the start of the buffered data.
func (buf *Buffer) Rewind() {
	buf.ReadIndex = 0
}

// Reset discards all buffered data.
func (buf *Buffer) Reset() {
	buf.ReadIndex = 0
	buf.Data = buf.Data[:0]
}

// Read pops the next unread byte from the buffer.
// Returns ErrInputExhausted when no unread data remains.
func (buf *Buffer) Read() (value byte, err error) {
	if buf.ReadIndex >= len(buf.Data) {
		err = ErrInputExhausted
		return
	}

	value = buf.Data[buf.ReadIndex]
	buf.ReadIndex++

	return
}

// Write appends a byte at the buffer's tail.
// Returns ErrDeviceFull if the buffer has reached capacity.
func (buf *Buffer) Write(value byte) (err error) {
	if buf.Capacity == 0 {
		buf.Capacity = BUFFER_DEFAULT_CAPACITY
	}

	if len(buf.Data) >= buf.Capacity {
		err = ErrDeviceFull
		return
	}

	buf.Data = append(buf.Data, value)

	return
}

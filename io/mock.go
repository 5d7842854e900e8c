package io

// Mock is a deterministic device for non-interactive tests. It is
// constructed with a predetermined queue of input bytes; reads pop from
// the queue and writes append to Log.
type Mock struct {
	Queue []byte // Remaining input bytes.
	Log   []byte // Every byte written, in order.
}

var _ Device = (*Mock)(nil)

// NewMock creates a mock device with the given input queue.
func NewMock(queue ...byte) (mock *Mock) {
	mock = &Mock{
		Queue: queue,
	}

	return
}

// Read pops the next queued input byte.
// Returns ErrInputExhausted when the queue is empty.
func (mock *Mock) Read() (value byte, err error) {
	if len(mock.Queue) == 0 {
		err = ErrInputExhausted
		return
	}

	value = mock.Queue[0]
	mock.Queue = mock.Queue[1:]

	return
}

// Write appends value to the output log.
func (mock *Mock) Write(value byte) (err error) {
	mock.Log = append(mock.Log, value)

	return
}

package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	uvmio "github.com/ezrec/uvm/io"
	"github.com/ezrec/uvm/mmu"
)

// FuzzDecode feeds arbitrary byte sequences to the decoder. Every decode
// either yields an instruction that re-encodes to the bytes it was decoded
// from, or returns an error; it never panics or reads out of bounds.
func FuzzDecode(f *testing.F) {
	f.Add([]byte{byte(OP_HALT)})
	f.Add([]byte{byte(OP_ADD), 0, 1, 2})
	f.Add([]byte{byte(OP_MOVI), 0, 0xEF, 0xBE, 0xAD, 0xDE})
	f.Add([]byte{byte(OP_JMP), 0x34, 0x12})
	f.Add([]byte{0xFF})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, image []byte) {
		assert := assert.New(t)

		if len(image) > mmu.Size {
			image = image[:mmu.Size]
		}

		mem := mmu.NewMemory()
		assert.NoError(mem.Load(image, 0))

		inst, width, err := Decode(mem, 0)
		if err != nil {
			return
		}

		assert.NotZero(width)
		encoded := inst.Encode(nil)
		assert.Equal(int(width), len(encoded))

		// Zero memory beyond the image decodes as operand bytes, so
		// compare only the bytes the image actually supplied.
		n := min(len(encoded), len(image))
		assert.Equal(image[:n], encoded[:n])
	})
}

// FuzzStep runs a single step over arbitrary memory. The CPU must always
// land in a defined state and never panic, whatever the bytes are.
func FuzzStep(f *testing.F) {
	f.Add([]byte{byte(OP_HALT)}, uint16(0))
	f.Add([]byte{byte(OP_DIV), 0, 1, 2}, uint16(0))
	f.Add([]byte{byte(OP_STORE), 0, 0xFE, 0xFF}, uint16(0))
	f.Add([]byte{byte(OP_INPUT), 0, 9}, uint16(0))
	f.Add([]byte{0xFF}, uint16(0xFFFF))

	f.Fuzz(func(t *testing.T, image []byte, entry uint16) {
		assert := assert.New(t)

		if len(image) > mmu.Size {
			image = image[:mmu.Size]
		}

		mem := mmu.NewMemory()
		assert.NoError(mem.Load(image, 0))

		ctl := uvmio.NewController()
		ctl.Attach(0, uvmio.NewMock(1, 2, 3))

		cpu := NewCpu(mem, ctl)
		cpu.Pc = uint32(entry)

		state, err := cpu.Step()
		switch state {
		case Running, Halted:
			assert.NoError(err)
		case Faulted:
			assert.Error(err)
			assert.NotNil(cpu.Fault())
			assert.Equal(uint32(entry), cpu.Fault().Pc)
		default:
			t.Fatalf("undefined state %v", state)
		}
	})
}

package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func doParse(t *testing.T, lines ...string) (prog *Program, err error) {
	t.Helper()

	asm := &Assembler{}
	prog, err = asm.Parse(strings.NewReader(strings.Join(lines, "\n")))

	return
}

func TestAssembler_Simple(t *testing.T) {
	assert := assert.New(t)

	prog, err := doParse(t,
		"; double the input byte",
		"input r0, 0",
		"add r1, r0, r0",
		"output 0, r1",
		"halt",
	)
	assert.NoError(err)

	want := []byte{
		byte(OP_INPUT), 0, 0,
		byte(OP_ADD), 1, 0, 0,
		byte(OP_OUTPUT), 0, 1,
		byte(OP_HALT),
	}
	assert.Equal(want, prog.Image())
}

func TestAssembler_Labels(t *testing.T) {
	assert := assert.New(t)

	prog, err := doParse(t,
		"start: cmp r0, r1",
		"je done",
		"jmp start",
		"done: halt",
	)
	assert.NoError(err)

	// cmp(3) je(3) jmp(3) halt(1)
	want := []byte{
		byte(OP_CMP), 0, 1,
		byte(OP_JE), 0x09, 0x00,
		byte(OP_JMP), 0x00, 0x00,
		byte(OP_HALT),
	}
	assert.Equal(want, prog.Image())
}

func TestAssembler_EquateAndExpression(t *testing.T) {
	assert := assert.New(t)

	prog, err := doParse(t,
		".equ CONSOLE 0",
		".equ BASE 0x100",
		"movi r0, $(BASE + 2 * 8)",
		"output CONSOLE, r0",
		"halt",
	)
	assert.NoError(err)

	want := []byte{
		byte(OP_MOVI), 0, 0x10, 0x01, 0x00, 0x00,
		byte(OP_OUTPUT), 0, 0,
		byte(OP_HALT),
	}
	assert.Equal(want, prog.Image())
}

func TestAssembler_Origin(t *testing.T) {
	assert := assert.New(t)

	prog, err := doParse(t,
		".org 0x04",
		"entry: halt",
	)
	assert.NoError(err)

	assert.Equal([]byte{0, 0, 0, 0, byte(OP_HALT)}, prog.Image())
	assert.Equal(uint32(4), prog.Statements[0].Addr)
}

func TestAssembler_Predefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("PORT", "3")

	prog, err := asm.Parse(strings.NewReader("input r0, PORT\nhalt"))
	assert.NoError(err)
	assert.Equal([]byte{byte(OP_INPUT), 0, 3, byte(OP_HALT)}, prog.Image())
}

func TestAssembler_Errors(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		Lines []string
		Err   error
	}{
		{Lines: []string{"frobnicate r0"}, Err: ErrOpcodeInvalid},
		{Lines: []string{"add r0, r1"}, Err: ErrOperandCount},
		{Lines: []string{"add r0, r1, r9"}, Err: ErrRegisterInvalid},
		{Lines: []string{"output 256, r0"}, Err: ErrPortInvalid},
		{Lines: []string{"jmp 0x10000"}, Err: ErrAddressInvalid},
		{Lines: []string{"movi r0, hello"}, Err: ErrImmediateInvalid},
		{Lines: []string{".equ A 1", ".equ A 2"}, Err: ErrEquateDuplicate},
		{Lines: []string{".equ A"}, Err: ErrEquateSyntax},
		{Lines: []string{".org"}, Err: ErrOriginSyntax},
		{Lines: []string{"x: halt", "x: halt"}, Err: ErrLabelDuplicate},
		{Lines: []string{"jmp nowhere"}, Err: ErrLabelMissing("nowhere")},
	}

	for _, testcase := range table {
		_, err := doParse(t, testcase.Lines...)
		assert.ErrorIs(err, testcase.Err, "%v", testcase.Lines)

		var syntax *ErrSyntax
		assert.ErrorAs(err, &syntax, "%v", testcase.Lines)
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog, err := doParse(t,
		"movi r0, 1", // 0x0000 .. 0x0005
		"halt",       // 0x0006
	)
	assert.NoError(err)

	st := prog.Debug(0x0003)
	assert.NotNil(st)
	assert.Equal(1, st.LineNo)

	st = prog.Debug(0x0006)
	assert.NotNil(st)
	assert.Equal(OP_HALT, st.Inst.Op)

	assert.Nil(prog.Debug(0x0007))
}

func TestProgram_Instructions(t *testing.T) {
	assert := assert.New(t)

	prog, err := doParse(t,
		"movi r0, 1",
		"halt",
	)
	assert.NoError(err)

	var addrs []uint32
	var ops []Op
	for addr, inst := range prog.Instructions() {
		addrs = append(addrs, addr)
		ops = append(ops, inst.Op)
	}

	assert.Equal([]uint32{0, 6}, addrs)
	assert.Equal([]Op{OP_MOVI, OP_HALT}, ops)
}

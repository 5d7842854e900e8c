package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/uvm/mmu"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for the µVM instruction set.
//
// Source syntax, one statement per line:
//
//	; comment
//	.equ NAME VALUE
//	.org ADDRESS
//	label: MNEMONIC operand, operand, ...
//
// Operands follow the opcode table: registers are r0-r7, addresses are
// numbers or labels, ports and immediates are numbers. Numbers accept any
// strconv base prefix, and $( ... ) evaluates a compile-time expression
// with all numeric equates in scope.
type Assembler struct {
	Verbose    bool        // If set, verbosely logs the assembler actions.
	Statements []Statement // List of generated statements.

	predefine map[string]string // Predefines
	Label     map[string]uint32 // Map of jump labels to addresses.
	Equate    map[string]string // Map of equates.

	addr uint32 // Next statement address.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to register indices.
var regMap = map[string]uint8{
	"r0": 0, "r1": 1, "r2": 2, "r3": 3,
	"r4": 4, "r5": 5, "r6": 6, "r7": 7,
}

// valueOf returns the value of a simple numeric word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	invert := false
	if len(word) != 0 && word[0] == '~' {
		invert = true
		word = word[1:]
	}
	v64, err := strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 <= 0xffffffff && v64 >= -int64(0x80000000) {
		if v64 < 0 {
			value = uint32(0xffffffff + (v64 + 1))
		} else {
			value = uint32(v64)
		}
	}

	if invert {
		value = ^value
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or labels.
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// parseLine expands a single source line into words, handling equates,
// labels, and compile-time evaluations.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	// Operand separators are cosmetic.
	line = strings.ReplaceAll(line, ",", " ")

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	// .org ADDRESS
	if words[0] == ".org" {
		if len(words) != 2 {
			err = ErrOriginSyntax
			return
		}
		var value uint32
		value, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if value >= mmu.Size {
			err = ErrAddressInvalid
			return
		}
		asm.addr = value
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint32, 16)
		}
		asm.Label[label] = asm.addr
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// mnemonicMap maps lower-cased mnemonics to ops.
var mnemonicMap = func() (m map[string]Op) {
	m = make(map[string]Op, len(opcodeTable))
	for op, spec := range opcodeTable {
		m[strings.ToLower(spec.Name)] = op
	}
	return
}()

// parseWords assembles the words of a statement into an instruction.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	op, ok := mnemonicMap[strings.ToLower(words[0])]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}
	spec, _ := op.Spec()

	args := words[1:]
	if len(args) != len(spec.Operands) {
		err = ErrOperandCount
		return
	}

	st := Statement{
		LineNo: lineno,
		Addr:   asm.addr,
		Words:  slices.Clone(words),
		Inst:   Instruction{Op: op},
	}

	var reg int
	for n, opr := range spec.Operands {
		word := args[n]
		switch opr {
		case OPERAND_REG:
			index, ok := regMap[strings.ToLower(word)]
			if !ok {
				err = ErrRegisterInvalid
				return
			}
			st.Inst.Reg[reg] = index
			reg++
		case OPERAND_ADDR:
			var value uint32
			value, err = asm.valueOf(word)
			if err != nil {
				// Not a number; link as a label.
				err = nil
				st.LinkLabel = word
				break
			}
			if value >= mmu.Size {
				err = ErrAddressInvalid
				return
			}
			st.Inst.Addr = uint16(value)
		case OPERAND_PORT:
			var value uint32
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			if value > 0xff {
				err = ErrPortInvalid
				return
			}
			st.Inst.Port = uint8(value)
		case OPERAND_IMM:
			st.Inst.Imm, err = asm.valueOf(word)
			if err != nil {
				err = ErrImmediateInvalid
				return
			}
		}
	}

	asm.Statements = append(asm.Statements, st)
	asm.addr += st.Inst.Width()

	return
}

// Parse parses an input stream into a Program containing statements.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Statements = asm.Statements[:0]
	asm.addr = 0
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	// Final linking of jump labels.
	for n := range asm.Statements {
		st := &asm.Statements[n]

		if len(st.LinkLabel) == 0 {
			continue
		}
		addr, ok := asm.Label[st.LinkLabel]
		if !ok {
			err = ErrLabelMissing(st.LinkLabel)
			return
		}
		st.Inst.Addr = uint16(addr)
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statements),
	}

	return
}

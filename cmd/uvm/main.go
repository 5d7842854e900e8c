package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/emulator"
	"github.com/ezrec/uvm/io"
	"github.com/ezrec/uvm/mmu"
)

// Exit codes, one per fault kind, for scripting.
const (
	EXIT_OK              = 0
	EXIT_FAULT           = 1
	EXIT_UNKNOWN_OPCODE  = 2
	EXIT_DIVISION_ZERO   = 3
	EXIT_OUT_OF_BOUNDS   = 4
	EXIT_INVALID_PORT    = 5
	EXIT_INPUT_EXHAUSTED = 6
	EXIT_USAGE           = 64
)

// faultCode maps a terminal fault to its exit code.
func faultCode(err error) (code int) {
	switch {
	case err == nil:
		code = EXIT_OK
	case errors.Is(err, cpu.ErrUnknownOpcode):
		code = EXIT_UNKNOWN_OPCODE
	case errors.Is(err, cpu.ErrDivisionByZero):
		code = EXIT_DIVISION_ZERO
	case errors.Is(err, mmu.ErrOutOfBounds):
		code = EXIT_OUT_OF_BOUNDS
	case errors.Is(err, io.ErrInvalidPort):
		code = EXIT_INVALID_PORT
	case errors.Is(err, io.ErrInputExhausted):
		code = EXIT_INPUT_EXHAUSTED
	default:
		code = EXIT_FAULT
	}

	return
}

// parseAddr parses a load or entry address in any strconv base.
func parseAddr(text string) (addr uint32, err error) {
	value, err := strconv.ParseUint(text, 0, 32)
	if err != nil {
		return
	}
	if value >= mmu.Size {
		err = mmu.ErrOutOfBounds
		return
	}

	addr = uint32(value)

	return
}

func main() {
	var compile string
	var save string
	var input string
	var output string
	var load string
	var entry string
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&save, "s", "", "Save the memory image to a file, do not execute")
	flag.StringVar(&input, "i", "-", "Console input")
	flag.StringVar(&output, "o", "-", "Console output")
	flag.StringVar(&load, "l", "0", "Load address for a raw image")
	flag.StringVar(&entry, "e", "", "Entry address (defaults to the load address)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	loadAddr, err := parseAddr(load)
	if err != nil {
		log.Printf("-l %v: %v", load, err)
		os.Exit(EXIT_USAGE)
	}

	entryAddr := loadAddr
	if len(entry) != 0 {
		entryAddr, err = parseAddr(entry)
		if err != nil {
			log.Printf("-e %v: %v", entry, err)
			os.Exit(EXIT_USAGE)
		}
	}

	switch {
	case len(compile) != 0:
		if flag.NArg() != 0 {
			log.Printf("%v: unknown arguments: %v", os.Args[0], flag.Args())
			os.Exit(EXIT_USAGE)
		}

		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}

		prog, err := asm.Parse(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		err = emu.LoadProgram(prog)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case flag.NArg() == 1:
		image, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			log.Fatalf("%v: %v", flag.Arg(0), err)
		}

		err = emu.Load(image, loadAddr)
		if err != nil {
			log.Fatalf("%v: %v", flag.Arg(0), err)
		}
	default:
		log.Printf("usage: %v [-c file.asm | file.bin]", os.Args[0])
		os.Exit(EXIT_USAGE)
	}

	if len(save) != 0 {
		ouf, err := os.Create(save)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		defer ouf.Close()

		err = emu.Snapshot(ouf)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	if input != "-" {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Console.Input = inf
	}

	if output != "-" {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Console.Output = ouf
	}

	state, err := emu.Run(entryAddr)
	if state == cpu.Faulted {
		log.Printf("%v", err)
		os.Exit(faultCode(err))
	}
}

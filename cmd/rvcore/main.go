// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/ezrec/rvcore/cpu"
	"github.com/ezrec/rvcore/emulator"
	"github.com/ezrec/rvcore/translate"
)

func main() {
	var compile string
	var image string
	var ram uint
	var limit int
	var divide_trap bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.StringVar(&image, "i", "", "Raw binary image to run")
	flag.UintVar(&ram, "m", emulator.RAM_SIZE, "RAM size in bytes")
	flag.IntVar(&limit, "n", 0, "Maximum instructions to run (0 for no limit)")
	flag.BoolVar(&divide_trap, "d", false, "Fail on divide by zero")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) != 0 && len(image) != 0 {
		log.Fatalf("%v: -c and -i are exclusive", os.Args[0])
	}

	err := emulator.CheckRamSize(uint64(ram))
	if err != nil {
		flag.Usage()
		log.Fatalf("%v: -m: %v", os.Args[0], err)
	}

	emu := emulator.NewEmulator(uint32(ram))
	emu.Verbose = verbose
	emu.DivideTrap = divide_trap

	// Assemble a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for equ, value := range emu.Defines() {
			asm.Predefine(equ, value)
		}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	if len(image) != 0 {
		var err error
		emu.Image, err = os.ReadFile(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
	}

	err = emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	ticks, err := emu.Run(limit)

	p := translate.Printer()
	p.Fprintf(os.Stderr, "%d instructions retired\n", ticks)

	switch {
	case err == nil:
		// Instruction limit reached.
	case errors.Is(err, cpu.ErrSystem):
		// The program ends at its first environment call.
		os.Exit(int(emu.Register.Get(cpu.REG_A0)))
	default:
		log.Print(emu.Hart.String())
		log.Fatal(err)
	}
}

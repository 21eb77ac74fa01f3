// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator loads images into an rvcore hart and runs it.
package emulator

import (
	"bytes"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/rvcore/cpu"
	"github.com/ezrec/rvcore/internal"
	"github.com/ezrec/rvcore/memory"
)

const (
	RAM_BASE = 0x8000_0000 // Reset vector, and load address of the image.
	RAM_SIZE = 0x0100_0000 // 16MiB of RAM.

	RAM_SIZE_MAX = 0x1_0000_0000 - RAM_BASE // RAM must end within the address space.
)

// Emulator state. Hart + bus + RAM.
type Emulator struct {
	Verbose   bool         // If set, enables verbose logging.
	*cpu.Hart              // Reference to the hart simulation.
	Program   *cpu.Program // Reference to the currently running program listing.
	Image     []byte       // Raw image, used when there is no Program.

	Bus memory.Bus  // Address decoding for the hart.
	Ram *memory.Ram // RAM, mapped at RAM_BASE.
}

// NewEmulator creates a new emulator with a RAM of the given size.
func NewEmulator(size uint32) (emu *Emulator) {
	err := CheckRamSize(uint64(size))
	if err != nil {
		panic(fmt.Sprintf("emulator: %v", err))
	}

	emu = &Emulator{
		Ram: memory.NewRam(size),
	}

	err = emu.Bus.Map(RAM_BASE, size, emu.Ram)
	if err != nil {
		panic(fmt.Sprintf("emulator: %v", err))
	}

	emu.Hart = cpu.NewHart(&emu.Bus)

	return
}

// CheckRamSize verifies that a RAM of size bytes can be mapped at RAM_BASE.
func CheckRamSize(size uint64) (err error) {
	if size == 0 || size > RAM_SIZE_MAX {
		err = &ErrRamSize{Size: size}
	}
	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"RAM_BASE":  fmt.Sprintf("%#x", RAM_BASE),
		"RAM_SIZE":  fmt.Sprintf("%#x", emu.Ram.Size()),
		"STACK_TOP": fmt.Sprintf("%#x", emu.StackTop()),
	}

	return internal.IterSeq2Concat(maps.All(defines),
		emu.Hart.Defines(),
	)
}

// StackTop returns the initial stack pointer, the end of RAM.
func (emu *Emulator) StackTop() uint32 {
	return RAM_BASE + emu.Ram.Size()
}

// Reset loads the image into RAM, and resets the hart to RAM_BASE.
func (emu *Emulator) Reset() (err error) {
	emu.Hart.Verbose = emu.Verbose

	image := emu.Image
	if emu.Program != nil {
		image = emu.Program.Binary()
	}

	emu.Ram.Reset()
	n, err := emu.Ram.Load(bytes.NewReader(image))
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: loaded %d bytes at 0x%08x", n, RAM_BASE)
	}

	emu.Hart.Reset(RAM_BASE)
	emu.Hart.Register.Set(cpu.REG_SP, int32(emu.StackTop()))

	return
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil || emu.Hart.Pc < RAM_BASE {
		return 0
	}

	dbg := emu.Program.Debug(emu.Hart.Pc - RAM_BASE)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (err error) {
	// Set hart verbosity
	emu.Hart.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Hart.Tick()
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("\n%v", emu.Hart.String())
	}

	return
}

// Run ticks the emulator until an error, or until limit instructions
// have retired. A limit of zero runs without bound.
func (emu *Emulator) Run(limit int) (ticks int, err error) {
	for limit == 0 || ticks < limit {
		err = emu.Tick()
		if err != nil {
			return
		}
		ticks++
	}

	return
}

package cpu

import (
	"fmt"
)

const (
	REG_COUNT = 32 // Number of general purpose registers.

	REG_ZERO = 0  // Hardwired zero.
	REG_RA   = 1  // Return address.
	REG_SP   = 2  // Stack pointer.
	REG_A0   = 10 // First argument, return value.
)

// registerName holds the ABI names of the registers.
var registerName = [REG_COUNT]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// RegisterName returns the ABI name of a register index.
func RegisterName(index uint32) string {
	if index >= REG_COUNT {
		return fmt.Sprintf("x%d", index)
	}
	return registerName[index]
}

// Registers is the general purpose register file.
// Register x0 always reads as zero, and writes to it are discarded.
type Registers [REG_COUNT]int32

// Get reads a register.
func (regs *Registers) Get(index uint32) int32 {
	index &= 0x1f
	if index == REG_ZERO {
		return 0
	}
	return regs[index]
}

// Set writes a register.
func (regs *Registers) Set(index uint32, value int32) {
	index &= 0x1f
	if index == REG_ZERO {
		return
	}
	regs[index] = value
}

// Reset clears all registers.
func (regs *Registers) Reset() {
	clear(regs[:])
}

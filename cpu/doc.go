// Package cpu implements the RV32IM hart and assembler for the rvcore system.
//
// The hart consists of a program counter (PC), thirty-two 32-bit
// general-purpose registers (x0-x31, with x0 hardwired to zero), and an
// ALU covering the RV32I base integer set plus the M multiply/divide
// extension. Instructions and data are reached through a memory.Memory
// port. Privileged (SYSTEM) instructions are not implemented, and are
// reported as such.
//
// The assembler provides a small RV32IM assembly language, supporting
// macros, labels, equates, and compile-time expression evaluation.
package cpu

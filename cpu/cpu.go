package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/rvcore/memory"
)

var _cpu_defines = map[string]string{
	"XLEN":      "32",
	"REG_COUNT": fmt.Sprintf("%d", REG_COUNT),
}

// State is a snapshot of the architectural state of a hart.
type State struct {
	Pc       uint32
	Register Registers
}

// Hart is the simulation context for a single RV32IM hardware thread.
type Hart struct {
	Verbose    bool // Set to enable verbose logging.
	DivideTrap bool // Set to fail on divide by zero, instead of the RISC-V results.

	Memory memory.Memory // Memory port, exclusively owned by the hart.

	Pc       uint32    // Current program counter.
	Register Registers // Register bank.
	Code     Code      // Most recently retired instruction.

	Ticks int // Retired instruction counter.
}

// NewHart creates a new hart attached to a memory port.
func NewHart(mem memory.Memory) (hart *Hart) {
	hart = &Hart{
		Memory: mem,
	}

	return
}

// Defines for the hart.
func (hart *Hart) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the hart state.
// - Clears the registers.
// - Zeros statistics counters.
// - Sets the program counter to the reset vector.
func (hart *Hart) Reset(pc uint32) {
	if hart.Verbose {
		log.Printf("cpu: reset to 0x%08x", pc)
	}

	hart.Register.Reset()
	hart.Pc = pc
	hart.Code = 0
	hart.Ticks = 0
}

// Snapshot returns a copy of the program counter and register file.
func (hart *Hart) Snapshot() State {
	return State{Pc: hart.Pc, Register: hart.Register}
}

// String returns the current hart state as a string.
func (hart *Hart) String() (text string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%5s: %04X_%04X\n", "pc", hart.Pc>>16, hart.Pc&0xffff)
	for n := range uint32(REG_COUNT) {
		val := uint32(hart.Register.Get(n))
		fmt.Fprintf(&sb, "%5s: %04X_%04X", RegisterName(n), val>>16, val&0xffff)
		if n%4 == 3 {
			sb.WriteString("\n")
		} else {
			sb.WriteString("  ")
		}
	}

	text = sb.String()
	return
}

// Fetch reads the instruction word at the program counter.
func (hart *Hart) Fetch() (code Code, err error) {
	word, err := memory.Read32(hart.Memory, hart.Pc)
	if err != nil {
		err = errors.Join(ErrOpcodeFetch, err)
		return
	}

	code = Code(word)
	return
}

// Tick executes a single instruction cycle.
func (hart *Hart) Tick() (err error) {
	code, err := hart.Fetch()
	if err != nil {
		err = &ErrExecute{Pc: hart.Pc, Err: err}
		return
	}

	return hart.Execute(code)
}

// Execute executes a single instruction, as if fetched from the
// program counter. On failure the program counter is left at the
// failing instruction, and neither registers, memory, nor Code are
// modified.
func (hart *Hart) Execute(code Code) (err error) {
	pc := hart.Pc

	defer func() {
		if err != nil {
			hart.Pc = pc
			err = &ErrExecute{Pc: pc, Code: code, Err: err}
		}
	}()

	if hart.Verbose {
		log.Printf("%08x: %v", pc, code)
	}

	hart.Register[REG_ZERO] = 0
	hart.Pc = pc + 4

	op, err := Decode(code)
	if err != nil {
		err = errors.Join(ErrOpcodeDecode, err)
		return
	}

	regs := &hart.Register
	rd := code.Rd()
	rs1 := regs.Get(code.Rs1())
	rs2 := regs.Get(code.Rs2())

	switch code.Opcode() {
	case OPCODE_OP:
		var value int32
		value, err = hart.doAlu(op, rs1, rs2)
		if err != nil {
			err = errors.Join(ErrOpcodeAlu, err)
			return
		}
		regs.Set(rd, value)
	case OPCODE_OP_IMM:
		var value int32
		value, err = hart.doAlu(op, rs1, code.ImmI())
		if err != nil {
			err = errors.Join(ErrOpcodeAlu, err)
			return
		}
		regs.Set(rd, value)
	case OPCODE_LUI:
		regs.Set(rd, code.ImmU())
	case OPCODE_AUIPC:
		regs.Set(rd, code.ImmU()+int32(pc))
	case OPCODE_JAL:
		regs.Set(rd, int32(pc+4))
		hart.Pc = pc + uint32(code.ImmJ())
	case OPCODE_JALR:
		target := uint32(rs1+code.ImmI()) &^ 1
		regs.Set(rd, int32(pc+4))
		hart.Pc = target
	case OPCODE_BRANCH:
		var taken bool
		taken, err = isTaken(op, rs1, rs2)
		if err != nil {
			return
		}
		if taken {
			hart.Pc = pc + uint32(code.ImmB())
		}
	case OPCODE_LOAD:
		addr := uint32(rs1 + code.ImmI())
		var value int32
		value, err = hart.load(op, addr)
		if err != nil {
			err = errors.Join(ErrOpcodeLoad, err)
			return
		}
		regs.Set(rd, value)
	case OPCODE_STORE:
		addr := uint32(rs1 + code.ImmS())
		err = hart.store(op, addr, rs2)
		if err != nil {
			err = errors.Join(ErrOpcodeStore, err)
			return
		}
	case OPCODE_MISC_MEM:
		// A single hart with synchronous memory has nothing to order,
		// so FENCE retires as a no-op.
	default:
		err = ErrUnimplemented
		return
	}

	hart.Code = code
	hart.Ticks++

	return
}

// load reads memory, sign or zero extending sub-word values.
func (hart *Hart) load(op CodeOp, addr uint32) (value int32, err error) {
	mem := hart.Memory

	switch op {
	case OP_LB:
		var b uint8
		b, err = mem.Read8(addr)
		value = int32(int8(b))
	case OP_LH:
		var h uint16
		h, err = memory.Read16(mem, addr)
		value = int32(int16(h))
	case OP_LW:
		var w uint32
		w, err = memory.Read32(mem, addr)
		value = int32(w)
	case OP_LBU:
		var b uint8
		b, err = mem.Read8(addr)
		value = int32(b)
	case OP_LHU:
		var h uint16
		h, err = memory.Read16(mem, addr)
		value = int32(h)
	default:
		err = ErrUnimplemented
	}

	return
}

// store writes the low 8, 16, or 32 bits of value to memory.
func (hart *Hart) store(op CodeOp, addr uint32, value int32) (err error) {
	mem := hart.Memory

	switch op {
	case OP_SB:
		err = mem.Write8(addr, uint8(value))
	case OP_SH:
		err = memory.Write16(mem, addr, uint16(value))
	case OP_SW:
		err = memory.Write32(mem, addr, uint32(value))
	default:
		err = ErrUnimplemented
	}

	return
}

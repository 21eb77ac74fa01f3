package cpu

import (
	"fmt"
)

// Code is a single 32-bit instruction word.
//
// The low two bits of every word are the 32-bit format marker (0b11),
// and are ignored by the field decoders.
type Code uint32

// Opcode returns the operation group, bits [6:2].
func (code Code) Opcode() CodeOpcode {
	return CodeOpcode((code >> 2) & 0x1f)
}

// Rd returns the destination register index, bits [11:7].
func (code Code) Rd() uint32 {
	return uint32(code>>7) & 0x1f
}

// Funct3 returns bits [14:12].
func (code Code) Funct3() uint32 {
	return uint32(code>>12) & 0x7
}

// Rs1 returns the first source register index, bits [19:15].
func (code Code) Rs1() uint32 {
	return uint32(code>>15) & 0x1f
}

// Rs2 returns the second source register index, bits [24:20].
func (code Code) Rs2() uint32 {
	return uint32(code>>20) & 0x1f
}

// Funct7 returns bits [31:25].
func (code Code) Funct7() uint32 {
	return uint32(code >> 25)
}

// Funct10 returns funct7 and funct3 combined as (funct7 << 3) | funct3.
func (code Code) Funct10() uint32 {
	return (code.Funct7() << 3) | code.Funct3()
}

// ImmI returns the I-type immediate, inst[31:20] sign extended.
func (code Code) ImmI() int32 {
	return int32(code) >> 20
}

// ImmS returns the S-type immediate, inst[31:25] and inst[11:7].
func (code Code) ImmS() int32 {
	return ((int32(code) >> 25) << 5) |
		int32((code>>7)&0x1f)
}

// ImmB returns the B-type branch offset.
//
//	offset[12]   = inst[31]
//	offset[11]   = inst[7]
//	offset[10:5] = inst[30:25]
//	offset[4:1]  = inst[11:8]
func (code Code) ImmB() int32 {
	return ((int32(code) >> 31) << 12) |
		int32((code>>7)&0x1)<<11 |
		int32((code>>25)&0x3f)<<5 |
		int32((code>>8)&0xf)<<1
}

// ImmU returns the U-type immediate, inst[31:12] in place.
func (code Code) ImmU() int32 {
	return int32(code & 0xffff_f000)
}

// ImmJ returns the J-type jump offset.
//
//	offset[20]    = inst[31]
//	offset[19:12] = inst[19:12]
//	offset[11]    = inst[20]
//	offset[10:1]  = inst[30:21]
func (code Code) ImmJ() int32 {
	return ((int32(code) >> 31) << 20) |
		int32(code&0x000f_f000) |
		int32((code>>20)&0x1)<<11 |
		int32((code>>21)&0x3ff)<<1
}

// makeCode creates an instruction word with the fixed fields set.
func makeCode(opcode CodeOpcode, rd, funct3, rs1, rs2, funct7 uint32) Code {
	return Code(((funct7 & 0x7f) << 25) |
		((rs2 & 0x1f) << 20) |
		((rs1 & 0x1f) << 15) |
		((funct3 & 0x7) << 12) |
		((rd & 0x1f) << 7) |
		((uint32(opcode) & 0x1f) << 2) |
		0b11)
}

// encodeImm returns the immediate bits of a format, placed in the word.
func encodeImm(format CodeFormat, imm int32) (bits uint32) {
	u := uint32(imm)
	switch format {
	case FORMAT_I:
		bits = (u & 0xfff) << 20
	case FORMAT_S:
		bits = ((u>>5)&0x7f)<<25 | (u&0x1f)<<7
	case FORMAT_B:
		bits = ((u>>12)&0x1)<<31 |
			((u>>5)&0x3f)<<25 |
			((u>>1)&0xf)<<8 |
			((u>>11)&0x1)<<7
	case FORMAT_U:
		bits = u & 0xffff_f000
	case FORMAT_J:
		bits = ((u>>20)&0x1)<<31 |
			((u>>1)&0x3ff)<<21 |
			((u>>11)&0x1)<<20 |
			u&0x000f_f000
	}

	return
}

// immMask is the set of word bits holding the immediate of a format.
var immMask = map[CodeFormat]uint32{
	FORMAT_R: 0,
	FORMAT_I: 0xfff0_0000,
	FORMAT_S: 0xfe00_0f80,
	FORMAT_B: 0xfe00_0f80,
	FORMAT_U: 0xffff_f000,
	FORMAT_J: 0xffff_f000,
}

// MakeCodeR creates a register-register instruction.
func MakeCodeR(op CodeOp, rd, rs1, rs2 uint32) Code {
	info := op.info()
	return makeCode(info.Opcode, rd, info.Funct&0x7, rs1, rs2, info.Funct>>3)
}

// MakeCodeI creates a register-immediate, load, or jump-register
// instruction. Shift operations take their shift amount as imm.
func MakeCodeI(op CodeOp, rd, rs1 uint32, imm int32) Code {
	info := op.info()
	if op.IsShift() {
		// The funct7 of shifts overlays imm[11:5].
		imm = (imm & 0x1f) | int32(info.Funct>>3)<<5
	}
	return makeCode(info.Opcode, rd, info.Funct&0x7, rs1, 0, 0) | Code(encodeImm(FORMAT_I, imm))
}

// MakeCodeS creates a store instruction.
func MakeCodeS(op CodeOp, rs1, rs2 uint32, imm int32) Code {
	info := op.info()
	return makeCode(info.Opcode, 0, info.Funct, rs1, rs2, 0) | Code(encodeImm(FORMAT_S, imm))
}

// MakeCodeB creates a conditional branch instruction.
func MakeCodeB(op CodeOp, rs1, rs2 uint32, offset int32) Code {
	info := op.info()
	return makeCode(info.Opcode, 0, info.Funct, rs1, rs2, 0) | Code(encodeImm(FORMAT_B, offset))
}

// MakeCodeU creates an upper immediate instruction.
// The immediate is the full 32-bit value; the low 12 bits are discarded.
func MakeCodeU(op CodeOp, rd uint32, imm int32) Code {
	info := op.info()
	return makeCode(info.Opcode, rd, 0, 0, 0, 0) | Code(encodeImm(FORMAT_U, imm))
}

// MakeCodeJ creates a jump-and-link instruction.
func MakeCodeJ(op CodeOp, rd uint32, offset int32) Code {
	info := op.info()
	return makeCode(info.Opcode, rd, 0, 0, 0, 0) | Code(encodeImm(FORMAT_J, offset))
}

// MakeCodeFence creates a memory fence instruction.
func MakeCodeFence() Code {
	return makeCode(OPCODE_MISC_MEM, 0, 0, 0, 0, 0)
}

// WithImm returns the instruction with its immediate replaced.
// Words that do not decode are returned unchanged.
func (code Code) WithImm(imm int32) Code {
	op, err := Decode(code)
	if err != nil {
		return code
	}

	format := op.Format()
	return Code((uint32(code) &^ immMask[format]) | encodeImm(format, imm))
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	op, err := Decode(code)
	if err != nil {
		return fmt.Sprintf(".word 0x%08x", uint32(code))
	}

	rd := RegisterName(code.Rd())
	rs1 := RegisterName(code.Rs1())
	rs2 := RegisterName(code.Rs2())

	switch op.Format() {
	case FORMAT_R:
		out = fmt.Sprintf("%v %v, %v, %v", op, rd, rs1, rs2)
	case FORMAT_I:
		switch {
		case op.IsShift():
			out = fmt.Sprintf("%v %v, %v, %v", op, rd, rs1, code.ImmI()&0x1f)
		case op == OP_FENCE:
			out = op.String()
		case code.Opcode() == OPCODE_OP_IMM:
			out = fmt.Sprintf("%v %v, %v, %v", op, rd, rs1, code.ImmI())
		default:
			out = fmt.Sprintf("%v %v, %v(%v)", op, rd, code.ImmI(), rs1)
		}
	case FORMAT_S:
		out = fmt.Sprintf("%v %v, %v(%v)", op, rs2, code.ImmS(), rs1)
	case FORMAT_B:
		out = fmt.Sprintf("%v %v, %v, %v", op, rs1, rs2, code.ImmB())
	case FORMAT_U:
		out = fmt.Sprintf("%v %v, 0x%x", op, rd, uint32(code.ImmU())>>12)
	case FORMAT_J:
		out = fmt.Sprintf("%v %v, %v", op, rd, code.ImmJ())
	}

	return
}

package cpu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_Fields(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		code   Code
		opcode CodeOpcode
		rd     uint32
		funct3 uint32
		rs1    uint32
		rs2    uint32
		funct7 uint32
	}){
		{"add", 0x003100b3, OPCODE_OP, 1, 0, 2, 3, 0},
		{"sub", 0x403100b3, OPCODE_OP, 1, 0, 2, 3, 0x20},
		{"lui", 0x123450b7, OPCODE_LUI, 1, 5, 8, 0x3, 0x09},
		{"sw", 0x0020a423, OPCODE_STORE, 8, 2, 1, 2, 0},
		{"ecall", 0x00000073, OPCODE_SYSTEM, 0, 0, 0, 0, 0},
		{"ones", 0xffffffff, CodeOpcode(0x1f), 31, 7, 31, 31, 0x7f},
	}

	for _, entry := range table {
		code := entry.code
		assert.Equal(entry.opcode, code.Opcode(), entry.name)
		assert.Equal(entry.rd, code.Rd(), entry.name)
		assert.Equal(entry.funct3, code.Funct3(), entry.name)
		assert.Equal(entry.rs1, code.Rs1(), entry.name)
		assert.Equal(entry.rs2, code.Rs2(), entry.name)
		assert.Equal(entry.funct7, code.Funct7(), entry.name)
		assert.Equal((entry.funct7<<3)|entry.funct3, code.Funct10(), entry.name)
	}
}

func TestCode_FieldsRandom(t *testing.T) {
	assert := assert.New(t)

	for range 1000 {
		opcode := CodeOpcode(rand.Intn(32))
		rd := uint32(rand.Intn(32))
		funct3 := uint32(rand.Intn(8))
		rs1 := uint32(rand.Intn(32))
		rs2 := uint32(rand.Intn(32))
		funct7 := uint32(rand.Intn(128))

		code := makeCode(opcode, rd, funct3, rs1, rs2, funct7)

		assert.Equal(Code(0b11), code&0b11)
		assert.Equal(opcode, code.Opcode())
		assert.Equal(rd, code.Rd())
		assert.Equal(funct3, code.Funct3())
		assert.Equal(rs1, code.Rs1())
		assert.Equal(rs2, code.Rs2())
		assert.Equal(funct7, code.Funct7())
		assert.Equal(funct7*8+funct3, code.Funct10())
	}
}

func TestCode_Immediates(t *testing.T) {
	assert := assert.New(t)

	// addi ra, zero, -1
	assert.Equal(int32(-1), Code(0xfff00093).ImmI())
	// addi ra, zero, 2047
	assert.Equal(int32(2047), Code(0x7ff00093).ImmI())

	// sw sp, 8(ra)
	assert.Equal(int32(8), Code(0x0020a423).ImmS())
	// sw sp, -4(ra)
	assert.Equal(int32(-4), Code(0xfe20ae23).ImmS())

	// bne ra, sp, -8
	assert.Equal(int32(-8), Code(0xfe209ce3).ImmB())
	// beq ra, sp, 16
	assert.Equal(int32(16), Code(0x00208863).ImmB())

	// lui ra, 0x12345
	assert.Equal(int32(0x12345000), Code(0x123450b7).ImmU())
	// lui ra, 0xfffff
	assert.Equal(int32(-4096), Code(0xfffff0b7).ImmU())

	// jal zero, -4
	assert.Equal(int32(-4), Code(0xffdff06f).ImmJ())
	// jal ra, 2048
	assert.Equal(int32(2048), Code(0x001000ef).ImmJ())
	// j .
	assert.Equal(int32(0), Code(0x0000006f).ImmJ())
}

func TestCode_ImmediateRange(t *testing.T) {
	assert := assert.New(t)

	// Extremes of each format.
	assert.Equal(int32(-2048), MakeCodeI(OP_ADDI, 1, 2, -2048).ImmI())
	assert.Equal(int32(2047), MakeCodeS(OP_SW, 1, 2, 2047).ImmS())
	assert.Equal(int32(-2048), MakeCodeS(OP_SW, 1, 2, -2048).ImmS())
	assert.Equal(int32(-4096), MakeCodeB(OP_BEQ, 1, 2, -4096).ImmB())
	assert.Equal(int32(4094), MakeCodeB(OP_BEQ, 1, 2, 4094).ImmB())
	assert.Equal(int32(-(1 << 20)), MakeCodeJ(OP_JAL, 1, -(1 << 20)).ImmJ())
	assert.Equal(int32((1<<20)-2), MakeCodeJ(OP_JAL, 1, (1<<20)-2).ImmJ())
}

func TestCode_EncodeRandom(t *testing.T) {
	assert := assert.New(t)

	for range 1000 {
		i := int32(rand.Intn(1<<12)) - (1 << 11)
		b := (int32(rand.Intn(1<<13)) - (1 << 12)) &^ 1
		u := int32(rand.Uint32() & 0xffff_f000)
		j := (int32(rand.Intn(1<<21)) - (1 << 20)) &^ 1

		code := MakeCodeI(OP_LW, 5, 6, i)
		assert.Equal(i, code.ImmI())
		assert.Equal(uint32(5), code.Rd())
		assert.Equal(uint32(6), code.Rs1())

		code = MakeCodeS(OP_SH, 7, 8, i)
		assert.Equal(i, code.ImmS())
		assert.Equal(uint32(7), code.Rs1())
		assert.Equal(uint32(8), code.Rs2())

		code = MakeCodeB(OP_BGEU, 9, 10, b)
		assert.Equal(b, code.ImmB())
		assert.Equal(uint32(9), code.Rs1())
		assert.Equal(uint32(10), code.Rs2())

		code = MakeCodeU(OP_AUIPC, 11, u)
		assert.Equal(u, code.ImmU())
		assert.Equal(uint32(11), code.Rd())

		code = MakeCodeJ(OP_JAL, 12, j)
		assert.Equal(j, code.ImmJ())
		assert.Equal(uint32(12), code.Rd())

		// Replacing the immediate leaves the other fields alone.
		code = MakeCodeB(OP_BLT, 13, 14, 0).WithImm(b)
		assert.Equal(MakeCodeB(OP_BLT, 13, 14, b), code)
		code = MakeCodeJ(OP_JAL, 15, 0).WithImm(j)
		assert.Equal(MakeCodeJ(OP_JAL, 15, j), code)
	}
}

func TestCode_Make(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Code(0x003100b3), MakeCodeR(OP_ADD, 1, 2, 3))
	assert.Equal(Code(0x403100b3), MakeCodeR(OP_SUB, 1, 2, 3))
	assert.Equal(Code(0x123450b7), MakeCodeU(OP_LUI, 1, 0x12345000))
	assert.Equal(Code(0xfff00093), MakeCodeI(OP_ADDI, 1, 0, -1))
	assert.Equal(Code(0x0020a423), MakeCodeS(OP_SW, 1, 2, 8))
	assert.Equal(Code(0xfe209ce3), MakeCodeB(OP_BNE, 1, 2, -8))
	assert.Equal(Code(0xffdff06f), MakeCodeJ(OP_JAL, 0, -4))
	assert.Equal(Code(0x0000000f), MakeCodeFence())

	// srai ra, sp, 3
	code := MakeCodeI(OP_SRAI, 1, 2, 3)
	assert.Equal(uint32(0x20), code.Funct7())
	assert.Equal(int32(3), code.ImmI()&0x1f)
}

func TestCode_String(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code Code
		text string
	}){
		{0x003100b3, "add ra, sp, gp"},
		{0x403100b3, "sub ra, sp, gp"},
		{0xfff00093, "addi ra, zero, -1"},
		{MakeCodeI(OP_SRAI, 1, 2, 3), "srai ra, sp, 3"},
		{MakeCodeI(OP_LW, 1, 2, 8), "lw ra, 8(sp)"},
		{MakeCodeI(OP_JALR, 0, 1, 0), "jalr zero, 0(ra)"},
		{0x0020a423, "sw sp, 8(ra)"},
		{0xfe209ce3, "bne ra, sp, -8"},
		{0x123450b7, "lui ra, 0x12345"},
		{0x001000ef, "jal ra, 2048"},
		{0x0000000f, "fence"},
		{0x00000073, ".word 0x00000073"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.code.String())
	}
}

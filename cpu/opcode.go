package cpu

import (
	"errors"
	"fmt"
)

// CodeOpcode is an operation group, the 5-bit major opcode.
type CodeOpcode int

//go:generate go tool stringer -linecomment -type=CodeOpcode
const (
	OPCODE_LOAD     = CodeOpcode(0b00000) // load
	OPCODE_MISC_MEM = CodeOpcode(0b00011) // misc-mem
	OPCODE_OP_IMM   = CodeOpcode(0b00100) // op-imm
	OPCODE_AUIPC    = CodeOpcode(0b00101) // auipc
	OPCODE_STORE    = CodeOpcode(0b01000) // store
	OPCODE_OP       = CodeOpcode(0b01100) // op
	OPCODE_LUI      = CodeOpcode(0b01101) // lui
	OPCODE_BRANCH   = CodeOpcode(0b11000) // branch
	OPCODE_JALR     = CodeOpcode(0b11001) // jalr
	OPCODE_JAL      = CodeOpcode(0b11011) // jal
	OPCODE_SYSTEM   = CodeOpcode(0b11100) // system
)

// CodeFormat is an instruction encoding format.
type CodeFormat int

//go:generate go tool stringer -linecomment -type=CodeFormat
const (
	FORMAT_R = CodeFormat(0) // R
	FORMAT_I = CodeFormat(1) // I
	FORMAT_S = CodeFormat(2) // S
	FORMAT_B = CodeFormat(3) // B
	FORMAT_U = CodeFormat(4) // U
	FORMAT_J = CodeFormat(5) // J
)

// CodeOp is a single decoded operation.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_ILLEGAL = CodeOp(iota) // illegal

	// OPCODE_OP
	OP_ADD    // add
	OP_SUB    // sub
	OP_SLL    // sll
	OP_SLT    // slt
	OP_SLTU   // sltu
	OP_XOR    // xor
	OP_SRL    // srl
	OP_SRA    // sra
	OP_OR     // or
	OP_AND    // and
	OP_MUL    // mul
	OP_MULH   // mulh
	OP_MULHSU // mulhsu
	OP_MULHU  // mulhu
	OP_DIV    // div
	OP_DIVU   // divu
	OP_REM    // rem
	OP_REMU   // remu

	// OPCODE_OP_IMM
	OP_ADDI  // addi
	OP_SLLI  // slli
	OP_SLTI  // slti
	OP_SLTIU // sltiu
	OP_XORI  // xori
	OP_SRLI  // srli
	OP_SRAI  // srai
	OP_ORI   // ori
	OP_ANDI  // andi

	OP_LUI   // lui
	OP_AUIPC // auipc
	OP_JAL   // jal
	OP_JALR  // jalr

	// OPCODE_BRANCH
	OP_BEQ  // beq
	OP_BNE  // bne
	OP_BLT  // blt
	OP_BGE  // bge
	OP_BLTU // bltu
	OP_BGEU // bgeu

	// OPCODE_LOAD
	OP_LB  // lb
	OP_LH  // lh
	OP_LW  // lw
	OP_LBU // lbu
	OP_LHU // lhu

	// OPCODE_STORE
	OP_SB // sb
	OP_SH // sh
	OP_SW // sw

	OP_FENCE // fence
)

// Funct7 selectors of the OP and OP-IMM groups.
const (
	FUNCT7_BASE   = 0b0000000 // Plain arithmetic and logic.
	FUNCT7_ALT    = 0b0100000 // Subtract, arithmetic shift right.
	FUNCT7_MULDIV = 0b0000001 // Multiply and divide.
)

// funct10 builds the combined funct7/funct3 selector.
func funct10(funct7, funct3 uint32) uint32 {
	return (funct7 << 3) | funct3
}

// opInfo is an entry in the opcode table.
type opInfo struct {
	Opcode CodeOpcode
	Funct  uint32 // funct10 or funct3, as selected by the group.
	Format CodeFormat
}

// opTable is the opcode table.
var opTable = map[CodeOp]opInfo{
	OP_ADD:    {OPCODE_OP, funct10(FUNCT7_BASE, 0b000), FORMAT_R},
	OP_SUB:    {OPCODE_OP, funct10(FUNCT7_ALT, 0b000), FORMAT_R},
	OP_SLL:    {OPCODE_OP, funct10(FUNCT7_BASE, 0b001), FORMAT_R},
	OP_SLT:    {OPCODE_OP, funct10(FUNCT7_BASE, 0b010), FORMAT_R},
	OP_SLTU:   {OPCODE_OP, funct10(FUNCT7_BASE, 0b011), FORMAT_R},
	OP_XOR:    {OPCODE_OP, funct10(FUNCT7_BASE, 0b100), FORMAT_R},
	OP_SRL:    {OPCODE_OP, funct10(FUNCT7_BASE, 0b101), FORMAT_R},
	OP_SRA:    {OPCODE_OP, funct10(FUNCT7_ALT, 0b101), FORMAT_R},
	OP_OR:     {OPCODE_OP, funct10(FUNCT7_BASE, 0b110), FORMAT_R},
	OP_AND:    {OPCODE_OP, funct10(FUNCT7_BASE, 0b111), FORMAT_R},
	OP_MUL:    {OPCODE_OP, funct10(FUNCT7_MULDIV, 0b000), FORMAT_R},
	OP_MULH:   {OPCODE_OP, funct10(FUNCT7_MULDIV, 0b001), FORMAT_R},
	OP_MULHSU: {OPCODE_OP, funct10(FUNCT7_MULDIV, 0b010), FORMAT_R},
	OP_MULHU:  {OPCODE_OP, funct10(FUNCT7_MULDIV, 0b011), FORMAT_R},
	OP_DIV:    {OPCODE_OP, funct10(FUNCT7_MULDIV, 0b100), FORMAT_R},
	OP_DIVU:   {OPCODE_OP, funct10(FUNCT7_MULDIV, 0b101), FORMAT_R},
	OP_REM:    {OPCODE_OP, funct10(FUNCT7_MULDIV, 0b110), FORMAT_R},
	OP_REMU:   {OPCODE_OP, funct10(FUNCT7_MULDIV, 0b111), FORMAT_R},

	OP_ADDI:  {OPCODE_OP_IMM, 0b000, FORMAT_I},
	OP_SLLI:  {OPCODE_OP_IMM, funct10(FUNCT7_BASE, 0b001), FORMAT_I},
	OP_SLTI:  {OPCODE_OP_IMM, 0b010, FORMAT_I},
	OP_SLTIU: {OPCODE_OP_IMM, 0b011, FORMAT_I},
	OP_XORI:  {OPCODE_OP_IMM, 0b100, FORMAT_I},
	OP_SRLI:  {OPCODE_OP_IMM, funct10(FUNCT7_BASE, 0b101), FORMAT_I},
	OP_SRAI:  {OPCODE_OP_IMM, funct10(FUNCT7_ALT, 0b101), FORMAT_I},
	OP_ORI:   {OPCODE_OP_IMM, 0b110, FORMAT_I},
	OP_ANDI:  {OPCODE_OP_IMM, 0b111, FORMAT_I},

	OP_LUI:   {OPCODE_LUI, 0, FORMAT_U},
	OP_AUIPC: {OPCODE_AUIPC, 0, FORMAT_U},
	OP_JAL:   {OPCODE_JAL, 0, FORMAT_J},
	OP_JALR:  {OPCODE_JALR, 0b000, FORMAT_I},

	OP_BEQ:  {OPCODE_BRANCH, 0b000, FORMAT_B},
	OP_BNE:  {OPCODE_BRANCH, 0b001, FORMAT_B},
	OP_BLT:  {OPCODE_BRANCH, 0b100, FORMAT_B},
	OP_BGE:  {OPCODE_BRANCH, 0b101, FORMAT_B},
	OP_BLTU: {OPCODE_BRANCH, 0b110, FORMAT_B},
	OP_BGEU: {OPCODE_BRANCH, 0b111, FORMAT_B},

	OP_LB:  {OPCODE_LOAD, 0b000, FORMAT_I},
	OP_LH:  {OPCODE_LOAD, 0b001, FORMAT_I},
	OP_LW:  {OPCODE_LOAD, 0b010, FORMAT_I},
	OP_LBU: {OPCODE_LOAD, 0b100, FORMAT_I},
	OP_LHU: {OPCODE_LOAD, 0b101, FORMAT_I},

	OP_SB: {OPCODE_STORE, 0b000, FORMAT_S},
	OP_SH: {OPCODE_STORE, 0b001, FORMAT_S},
	OP_SW: {OPCODE_STORE, 0b010, FORMAT_S},

	OP_FENCE: {OPCODE_MISC_MEM, 0b000, FORMAT_I},
}

type opKey struct {
	Opcode CodeOpcode
	Funct  uint32
}

var (
	opDecode = map[opKey]CodeOp{}  // Reverse of opTable.
	opByName = map[string]CodeOp{} // Mnemonic to operation.
)

func init() {
	for op, info := range opTable {
		opDecode[opKey{info.Opcode, info.Funct}] = op
		opByName[op.String()] = op
	}
}

// info returns the opcode table entry of the operation.
func (op CodeOp) info() opInfo {
	info, ok := opTable[op]
	if !ok {
		panic(fmt.Sprintf("cpu: no encoding for %v", op))
	}
	return info
}

// Format returns the encoding format of the operation.
func (op CodeOp) Format() CodeFormat {
	return op.info().Format
}

// Opcode returns the operation group of the operation.
func (op CodeOp) Opcode() CodeOpcode {
	return op.info().Opcode
}

// IsShift is true for the immediate shift operations, whose funct7
// is carried in the immediate field.
func (op CodeOp) IsShift() bool {
	return op == OP_SLLI || op == OP_SRLI || op == OP_SRAI
}

// LookupOp finds an operation by its mnemonic.
func LookupOp(name string) (op CodeOp, ok bool) {
	op, ok = opByName[name]
	return
}

// selector returns the function code that selects the operation within
// the instruction's group.
func (code Code) selector() uint32 {
	switch code.Opcode() {
	case OPCODE_OP:
		return code.Funct10()
	case OPCODE_OP_IMM:
		// Only shifts use funct7; elsewhere it is immediate data.
		switch code.Funct3() {
		case 0b001, 0b101:
			return code.Funct10()
		}
		return code.Funct3()
	case OPCODE_LUI, OPCODE_AUIPC, OPCODE_JAL:
		return 0
	default:
		return code.Funct3()
	}
}

// Decode classifies an instruction word. Words absent from the opcode
// table, including the whole SYSTEM group, are ErrUnimplemented.
func Decode(code Code) (op CodeOp, err error) {
	if (code & 0b11) != 0b11 {
		err = ErrUnimplemented
		return
	}

	op, ok := opDecode[opKey{code.Opcode(), code.selector()}]
	if !ok {
		err = ErrUnimplemented
		if code.Opcode() == OPCODE_SYSTEM {
			err = errors.Join(ErrUnimplemented, ErrSystem)
		}
		op = OP_ILLEGAL
		return
	}

	return
}

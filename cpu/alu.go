package cpu

import (
	"math"
)

// doAlu performs the requested register-register or register-immediate
// operation, and returns the output value.
func (hart *Hart) doAlu(op CodeOp, a, b int32) (output int32, err error) {
	shamt := uint32(b) & 0x1f // clamp to 31 bits of shift

	switch op {
	case OP_ADD, OP_ADDI:
		output = a + b
	case OP_SUB:
		output = a - b
	case OP_SLL, OP_SLLI:
		output = int32(uint32(a) << shamt)
	case OP_SLT, OP_SLTI:
		output = boolToInt32(a < b)
	case OP_SLTU, OP_SLTIU:
		output = boolToInt32(uint32(a) < uint32(b))
	case OP_XOR, OP_XORI:
		output = a ^ b
	case OP_SRL, OP_SRLI:
		output = int32(uint32(a) >> shamt)
	case OP_SRA, OP_SRAI:
		output = a >> shamt
	case OP_OR, OP_ORI:
		output = a | b
	case OP_AND, OP_ANDI:
		output = a & b
	case OP_MUL:
		output = a * b
	case OP_MULH:
		output = int32((int64(a) * int64(b)) >> 32)
	case OP_MULHSU:
		output = int32((int64(a) * int64(uint32(b))) >> 32)
	case OP_MULHU:
		output = int32((uint64(uint32(a)) * uint64(uint32(b))) >> 32)
	case OP_DIV, OP_DIVU, OP_REM, OP_REMU:
		if b == 0 && hart.DivideTrap {
			err = ErrDivideByZero
			return
		}
		output = doDivide(op, a, b)
	default:
		err = ErrUnimplemented
	}

	return
}

// doDivide performs division and remainder.
//
// Division by zero returns all ones for the quotient and the dividend
// for the remainder. The signed overflow of math.MinInt32 / -1 returns
// the dividend for the quotient and zero for the remainder.
func doDivide(op CodeOp, a, b int32) (output int32) {
	overflow := a == math.MinInt32 && b == -1

	switch op {
	case OP_DIV:
		switch {
		case b == 0:
			output = -1
		case overflow:
			output = a
		default:
			output = a / b
		}
	case OP_DIVU:
		if b == 0 {
			output = -1
		} else {
			output = int32(uint32(a) / uint32(b))
		}
	case OP_REM:
		switch {
		case b == 0:
			output = a
		case overflow:
			output = 0
		default:
			output = a % b
		}
	case OP_REMU:
		if b == 0 {
			output = a
		} else {
			output = int32(uint32(a) % uint32(b))
		}
	}

	return
}

// isTaken evaluates a branch condition.
func isTaken(op CodeOp, a, b int32) (taken bool, err error) {
	switch op {
	case OP_BEQ:
		taken = a == b
	case OP_BNE:
		taken = a != b
	case OP_BLT:
		taken = a < b
	case OP_BGE:
		taken = a >= b
	case OP_BLTU:
		taken = uint32(a) < uint32(b)
	case OP_BGEU:
		taken = uint32(a) >= uint32(b)
	default:
		err = ErrUnimplemented
	}

	return
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

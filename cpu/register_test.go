package cpu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisters_Zero(t *testing.T) {
	assert := assert.New(t)

	regs := &Registers{}
	for range 100 {
		regs.Set(REG_ZERO, rand.Int31())
		assert.Equal(int32(0), regs.Get(REG_ZERO))
		assert.Equal(int32(0), regs[REG_ZERO])
	}

	// Indexes alias modulo 32, so x32 is x0.
	regs.Set(32, 7)
	assert.Equal(int32(0), regs.Get(REG_ZERO))
	assert.Equal(int32(0), regs.Get(32))
}

func TestRegisters_SetGet(t *testing.T) {
	assert := assert.New(t)

	regs := &Registers{}
	for n := uint32(1); n < REG_COUNT; n++ {
		regs.Set(n, -int32(n))
	}
	for n := uint32(1); n < REG_COUNT; n++ {
		assert.Equal(-int32(n), regs.Get(n))
	}

	regs.Reset()
	assert.Equal(Registers{}, *regs)
}

func TestRegisterName(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("zero", RegisterName(0))
	assert.Equal("ra", RegisterName(REG_RA))
	assert.Equal("sp", RegisterName(REG_SP))
	assert.Equal("a0", RegisterName(REG_A0))
	assert.Equal("t6", RegisterName(31))
	assert.Equal("x32", RegisterName(32))
}

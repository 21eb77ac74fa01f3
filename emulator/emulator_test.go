package emulator

import (
	"encoding/binary"
	"errors"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rvcore/cpu"
	"github.com/ezrec/rvcore/memory"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0x1000)

	assert.False(emu.Verbose)
	assert.NotNil(emu.Hart)
	assert.Equal(uint32(0x1000), emu.Ram.Size())
	assert.Equal(uint32(RAM_BASE+0x1000), emu.StackTop())

	assert.Panics(func() { NewEmulator(0) })
}

func TestCheckRamSize(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		size uint64
		ok   bool
	}){
		{0, false},
		{1, true},
		{RAM_SIZE, true},
		{RAM_SIZE_MAX, true},
		{RAM_SIZE_MAX + 1, false},
		{0x1_0000_0000, false},
		{0x1_0000_1000, false},
	}

	for _, entry := range table {
		err := CheckRamSize(entry.size)
		if entry.ok {
			assert.NoError(err, "%#x", entry.size)
			continue
		}

		var sizeErr *ErrRamSize
		assert.True(errors.As(err, &sizeErr), "%#x", entry.size)
		assert.Equal(entry.size, sizeErr.Size)
	}
}

func TestEmulator_Defines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0x1000)
	defines := maps.Collect(emu.Defines())

	assert.Equal("0x80000000", defines["RAM_BASE"])
	assert.Equal("0x1000", defines["RAM_SIZE"])
	assert.Equal("0x80001000", defines["STACK_TOP"])
	assert.Equal("32", defines["XLEN"])
}

// doRun assembles a program with the emulator defines, and runs it
// until the first error.
func doRun(emu *Emulator, program []string, t *testing.T) (ticks int, err error) {
	assert := assert.New(t)

	asm := &cpu.Assembler{}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if !assert.NoError(err) {
		return
	}
	emu.Program = prog

	err = emu.Reset()
	if !assert.NoError(err) {
		return
	}

	ticks, err = emu.Run(1000)
	if err == nil {
		t.Log(emu.Hart.String())
	}

	return
}

func TestEmulator_Program(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		ticks   int
		a0      int32
		lineno  int
	}){
		{
			name: "sum",
			program: []string{
				"	li a0, 0",
				"	li t0, 10",
				"loop:",
				"	add a0, a0, t0",
				"	addi t0, t0, -1",
				"	bnez t0, loop",
				"	ecall",
			},
			ticks:  32,
			a0:     55,
			lineno: 7,
		},
		{
			name: "stack",
			program: []string{
				"	addi sp, sp, -8",
				"	li t0, 0x11223344",
				"	sw t0, 4(sp)",
				"	lbu a0, 4(sp)",
				"	addi sp, sp, 8",
				"	ecall",
			},
			ticks:  6,
			a0:     0x11,
			lineno: 6,
		},
		{
			name: "call",
			program: []string{
				"	li a0, 6",
				"	call double",
				"	ecall",
				"double:",
				"	add a0, a0, a0",
				"	ret",
			},
			ticks:  4,
			a0:     12,
			lineno: 3,
		},
		{
			name: "muldiv",
			program: []string{
				"	li t0, -7",
				"	li t1, 3",
				"	mul t2, t0, t1",
				"	div t3, t2, t1",
				"	rem t4, t0, t1",
				"	add a0, t3, t4",
				"	ecall",
			},
			ticks:  6,
			a0:     -8,
			lineno: 7,
		},
	}

	for _, entry := range table {
		emu := NewEmulator(0x1000)
		ticks, err := doRun(emu, entry.program, t)

		assert.True(errors.Is(err, cpu.ErrSystem), entry.name)
		assert.Equal(entry.ticks, ticks, entry.name)
		assert.Equal(entry.a0, emu.Hart.Register.Get(cpu.REG_A0), entry.name)
		assert.Equal(uint32(RAM_BASE+0x1000), uint32(emu.Hart.Register.Get(cpu.REG_SP)), entry.name)

		var runtime *ErrRuntime
		assert.True(errors.As(err, &runtime), entry.name)
		assert.Equal(entry.lineno, runtime.LineNo, entry.name)
		assert.Equal(entry.lineno, emu.LineNo(), entry.name)
	}
}

func TestEmulator_RamBase(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0x1000)
	_, err := doRun(emu, []string{
		"	li t0, RAM_BASE",
		"	lw a0, 0(t0)",
		"	ecall",
	}, t)

	assert.True(errors.Is(err, cpu.ErrSystem))
	assert.Equal(int32(cpu.MakeCodeU(cpu.OP_LUI, 5, RAM_BASE-0x1_0000_0000)), emu.Hart.Register.Get(cpu.REG_A0))
}

func TestEmulator_Limit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0x1000)
	ticks, err := doRun(emu, []string{"spin: j spin"}, t)

	assert.NoError(err)
	assert.Equal(1000, ticks)
	assert.Equal(uint32(RAM_BASE), emu.Hart.Pc)
	assert.Equal(1, emu.LineNo())
}

func TestEmulator_Fault(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0x1000)
	ticks, err := doRun(emu, []string{
		"	li t0, 0x1000",
		"	jr t0",
	}, t)

	assert.Equal(2, ticks)
	assert.True(errors.Is(err, cpu.ErrOpcodeFetch))
	assert.True(errors.Is(err, &memory.ErrFault{}))
	assert.Equal(uint32(0x1000), emu.Hart.Pc)
	assert.Equal(0, emu.LineNo())
}

func TestEmulator_Image(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0x1000)
	emu.Image = binary.BigEndian.AppendUint32(nil, uint32(cpu.MakeCodeI(cpu.OP_ADDI, cpu.REG_A0, cpu.REG_ZERO, 42)))
	emu.Image = binary.BigEndian.AppendUint32(emu.Image, 0x00000073)

	assert.NoError(emu.Reset())
	assert.Equal(uint32(RAM_BASE), emu.Hart.Pc)

	ticks, err := emu.Run(0)
	assert.Equal(1, ticks)
	assert.True(errors.Is(err, cpu.ErrSystem))
	assert.Equal(int32(42), emu.Hart.Register.Get(cpu.REG_A0))
	assert.Equal(0, emu.LineNo())

	// Reset reloads the image, and clears the hart.
	assert.NoError(emu.Reset())
	assert.Equal(int32(0), emu.Hart.Register.Get(cpu.REG_A0))
	assert.Equal(0, emu.Hart.Ticks)
}

func TestEmulator_ImageTooLarge(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(4)
	emu.Image = make([]byte, 8)

	err := emu.Reset()
	assert.True(errors.Is(err, &memory.ErrFault{}))
}

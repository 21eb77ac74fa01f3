package cpu

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzHart_Execute(f *testing.F) {
	f.Add(uint32(0x003100b3), int32(5), int32(42))
	f.Add(uint32(0x00000073), int32(0), int32(0))
	f.Add(uint32(0x0020a423), int32(0x100), int32(-1))
	f.Add(uint32(0x02c5c533), int32(-1), int32(0))
	f.Add(uint32(0xffdff06f), int32(0), int32(0))
	f.Add(uint32(0x0031a023), int32(0xffe), int32(0))

	f.Fuzz(func(t *testing.T, word uint32, a int32, b int32) {
		assert := assert.New(t)

		hart, ram := newHart()
		hart.Pc = 0x800
		for n := range ram.Data {
			ram.Data[n] = uint8(n * 7)
		}
		image := slices.Clone(ram.Data)
		for n := uint32(1); n < REG_COUNT; n++ {
			hart.Register.Set(n, a+int32(n)*b)
		}
		before := hart.Snapshot()

		code := Code(word)
		_, decodeErr := Decode(code)

		err := hart.Execute(code)
		assert.Equal(int32(0), hart.Register.Get(REG_ZERO))
		assert.Equal(int32(0), hart.Register[REG_ZERO])

		if decodeErr != nil {
			assert.ErrorIs(err, ErrUnimplemented)
		}

		if err != nil {
			assert.Equal(before, hart.Snapshot())
			assert.Equal(image, ram.Data)
			assert.Equal(Code(0), hart.Code)
			assert.Equal(0, hart.Ticks)
		} else {
			assert.Equal(1, hart.Ticks)
		}
	})
}

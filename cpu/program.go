package cpu

import (
	"encoding/binary"
	"iter"
)

// Opcode represents a line of assembled code with its source location and generated instructions.
type Opcode struct {
	LineNo    int      // Source line number.
	Offset    uint32   // Byte offset of the first instruction in the image.
	Words     []string // Source words.
	Codes     []Code   // Generated instruction words.
	LinkLabel string   // Label to resolve into the immediates of Codes.
}

// Program is an assembled image, laid out from offset 0.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode holding the instruction at a byte offset.
func (prog *Program) Debug(offset uint32) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if offset >= op.Offset && offset < op.Offset+4*uint32(len(op.Codes)) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(offset-op.Offset) / 4,
			}
			break
		}
	}

	return
}

// Size returns the image size in bytes.
func (prog *Program) Size() (size uint32) {
	for _, op := range prog.Opcodes {
		end := op.Offset + 4*uint32(len(op.Codes))
		size = max(size, end)
	}

	return
}

// Binary returns the image, each word stored most significant byte first.
func (prog *Program) Binary() (bins []byte) {
	bins = make([]byte, prog.Size())
	for offset, code := range prog.Codes() {
		binary.BigEndian.PutUint32(bins[offset:], uint32(code))
	}

	return
}

// Codes iterates over the instructions and their byte offsets.
func (prog *Program) Codes() iter.Seq2[uint32, Code] {
	return func(yield func(offset uint32, code Code) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Offset+4*uint32(n), code) {
					return
				}
			}
		}
	}
}

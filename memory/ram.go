package memory

import (
	"io"
	"io/fs"
)

// Ram is a flat byte array backing store. Addresses are offsets into Data.
type Ram struct {
	Data []byte
}

var _ Memory = (*Ram)(nil)

// NewRam creates a zeroed RAM of the given size in bytes.
func NewRam(size uint32) *Ram {
	return &Ram{Data: make([]byte, size)}
}

// Size returns the number of bytes in the store.
func (ram *Ram) Size() uint32 {
	return uint32(len(ram.Data))
}

func (ram *Ram) Read8(addr uint32) (value uint8, err error) {
	if uint64(addr) >= uint64(len(ram.Data)) {
		err = &ErrFault{Addr: addr}
		return
	}

	value = ram.Data[addr]
	return
}

func (ram *Ram) Write8(addr uint32, value uint8) (err error) {
	if uint64(addr) >= uint64(len(ram.Data)) {
		err = &ErrFault{Addr: addr, Write: true}
		return
	}

	ram.Data[addr] = value
	return
}

// Reset clears the store to zero.
func (ram *Ram) Reset() {
	clear(ram.Data)
}

// Load copies an image into the store, starting at offset 0.
// An image larger than the store faults at the first byte that does
// not fit, after the bytes that do fit have been written.
func (ram *Ram) Load(image io.Reader) (n int, err error) {
	buff, err := io.ReadAll(image)
	if err != nil {
		return
	}

	n = copy(ram.Data, buff)
	if n < len(buff) {
		err = &ErrFault{Addr: uint32(n), Write: true}
	}

	return
}

// LoadFS loads the named image from a file system.
func (ram *Ram) LoadFS(filesys fs.FS, name string) (n int, err error) {
	inf, err := filesys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	return ram.Load(inf)
}

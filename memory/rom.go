package memory

// Rom is a read-only backing store. Writes fault.
type Rom struct {
	Data []byte
}

var _ Memory = (*Rom)(nil)

func (rom *Rom) Read8(addr uint32) (value uint8, err error) {
	if uint64(addr) >= uint64(len(rom.Data)) {
		err = &ErrFault{Addr: addr}
		return
	}

	value = rom.Data[addr]
	return
}

func (rom *Rom) Write8(addr uint32, value uint8) (err error) {
	err = &ErrFault{Addr: addr, Write: true}
	return
}

// Package memory provides the byte addressable memory port of the rvcore
// hart, a RAM backing store, and a bus that routes accesses to backing
// stores by address.
//
// Multi-byte accesses are composed from single byte accesses at
// consecutive addresses, most significant byte first. That composition is
// the definition of the system byte order; the host byte order never
// leaks through.
package memory

// Memory is a byte addressable read/write capability.
type Memory interface {
	// Read8 reads the byte at addr.
	Read8(addr uint32) (value uint8, err error)
	// Write8 writes the byte at addr.
	Write8(addr uint32, value uint8) (err error)
}

// Read16 reads a halfword as two bytes, most significant first.
func Read16(mem Memory, addr uint32) (value uint16, err error) {
	hi, err := mem.Read8(addr)
	if err != nil {
		return
	}
	lo, err := mem.Read8(addr + 1)
	if err != nil {
		return
	}

	value = (uint16(hi) << 8) | uint16(lo)
	return
}

// Read32 reads a word as two halfwords, most significant first.
func Read32(mem Memory, addr uint32) (value uint32, err error) {
	hi, err := Read16(mem, addr)
	if err != nil {
		return
	}
	lo, err := Read16(mem, addr+2)
	if err != nil {
		return
	}

	value = (uint32(hi) << 16) | uint32(lo)
	return
}

// Write16 writes a halfword as two bytes, most significant first.
// If the second byte faults, the first byte is restored, so a failed
// write leaves the store unchanged.
func Write16(mem Memory, addr uint32, value uint16) (err error) {
	prev, rerr := mem.Read8(addr)

	err = mem.Write8(addr, uint8(value>>8))
	if err != nil {
		return
	}

	err = mem.Write8(addr+1, uint8(value))
	if err != nil && rerr == nil {
		_ = mem.Write8(addr, prev)
	}

	return
}

// Write32 writes a word as two halfwords, most significant first.
// If the second halfword faults, the first halfword is restored.
func Write32(mem Memory, addr uint32, value uint32) (err error) {
	prev, rerr := Read16(mem, addr)

	err = Write16(mem, addr, uint16(value>>16))
	if err != nil {
		return
	}

	err = Write16(mem, addr+2, uint16(value))
	if err != nil && rerr == nil {
		_ = Write16(mem, addr, prev)
	}

	return
}

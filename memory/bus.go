package memory

import (
	"cmp"
	"errors"
	"slices"
)

// Region is a backing store decoded at [Base, Base+Size).
type Region struct {
	Base   uint32
	Size   uint32
	Memory Memory
}

// Contains is true if addr decodes to this region.
func (r Region) Contains(addr uint32) bool {
	return addr >= r.Base && (addr-r.Base) < r.Size
}

func (r Region) end() uint64 {
	return uint64(r.Base) + uint64(r.Size)
}

// Bus routes accesses to the backing store whose region holds the
// address. The store sees the address relative to the region base.
type Bus struct {
	Regions []Region // Sorted by base address.
}

var _ Memory = (*Bus)(nil)

// Map attaches a backing store at [base, base+size).
func (bus *Bus) Map(base, size uint32, mem Memory) (err error) {
	region := Region{Base: base, Size: size, Memory: mem}
	if size == 0 || mem == nil {
		err = ErrRegionEmpty
		return
	}
	if region.end() > (1 << 32) {
		err = ErrRegionWrap
		return
	}

	for _, other := range bus.Regions {
		if uint64(region.Base) < other.end() && uint64(other.Base) < region.end() {
			err = ErrRegionOverlap
			return
		}
	}

	bus.Regions = append(bus.Regions, region)
	slices.SortFunc(bus.Regions, func(a, b Region) int {
		return cmp.Compare(a.Base, b.Base)
	})

	return
}

// Unmap detaches the store mapped at base, if any.
func (bus *Bus) Unmap(base uint32) {
	bus.Regions = slices.DeleteFunc(bus.Regions, func(r Region) bool {
		return r.Base == base
	})
}

// Decode finds the region holding addr.
func (bus *Bus) Decode(addr uint32) (region Region, ok bool) {
	n, found := slices.BinarySearchFunc(bus.Regions, addr, func(r Region, addr uint32) int {
		return cmp.Compare(r.Base, addr)
	})
	if !found {
		// The candidate is the last region starting below addr.
		n--
	}
	if n < 0 {
		return
	}

	region = bus.Regions[n]
	ok = region.Contains(addr)
	return
}

func (bus *Bus) Read8(addr uint32) (value uint8, err error) {
	region, ok := bus.Decode(addr)
	if !ok {
		err = &ErrFault{Addr: addr}
		return
	}

	value, err = region.Memory.Read8(addr - region.Base)
	if err != nil {
		err = rebaseFault(addr, false, err)
	}
	return
}

func (bus *Bus) Write8(addr uint32, value uint8) (err error) {
	region, ok := bus.Decode(addr)
	if !ok {
		err = &ErrFault{Addr: addr, Write: true}
		return
	}

	err = region.Memory.Write8(addr-region.Base, value)
	if err != nil {
		err = rebaseFault(addr, true, err)
	}
	return
}

// rebaseFault reports a backing store error at a bus address. Store
// faults are rebased to the bus address; other errors are kept.
func rebaseFault(addr uint32, write bool, err error) error {
	fault := &ErrFault{Addr: addr, Write: write}
	if errors.Is(err, fault) {
		return fault
	}
	return errors.Join(fault, err)
}

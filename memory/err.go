package memory

import (
	"errors"

	"github.com/ezrec/rvcore/translate"
)

var f = translate.From

var (
	// Bus errors
	ErrRegionEmpty   = errors.New(f("region empty"))
	ErrRegionOverlap = errors.New(f("region overlap"))
	ErrRegionWrap    = errors.New(f("region wraps address space"))
)

// ErrFault reports an access to an address with no backing store.
type ErrFault struct {
	Addr  uint32
	Write bool
}

func (err *ErrFault) Error() string {
	if err.Write {
		return f("memory fault writing 0x%08x", err.Addr)
	}
	return f("memory fault reading 0x%08x", err.Addr)
}

// Is matches any memory fault, regardless of address.
func (err *ErrFault) Is(target error) (ok bool) {
	_, ok = target.(*ErrFault)
	return
}

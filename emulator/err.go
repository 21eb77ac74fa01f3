package emulator

import (
	"github.com/ezrec/rvcore/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrRamSize reports a RAM size that does not fit above RAM_BASE.
type ErrRamSize struct {
	Size uint64
}

func (err *ErrRamSize) Error() string {
	return f("ram size %#x not in 1..%#x", err.Size, uint64(RAM_SIZE_MAX))
}

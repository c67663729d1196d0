package wasm

import (
	"errors"
	"fmt"

	"github.com/viant/wasmlint/wasm/internal/binary"
)

// ErrMalformed matches every decode failure via errors.Is.
var ErrMalformed = errors.New("malformed wasm container")

// Decode failures wrapped by MalformedError.
var (
	ErrInvalidMagic     = errors.New("invalid wasm magic number")
	ErrInvalidVersion   = errors.New("unsupported wasm version")
	ErrTruncated        = binary.ErrTruncated
	ErrOverflow         = binary.ErrOverflow
	ErrInvalidName      = binary.ErrInvalidUTF8
	ErrDuplicateExport  = errors.New("duplicate export name")
	ErrDuplicateSection = errors.New("duplicate export section")
	ErrTrailingBytes    = errors.New("trailing bytes in section")
	ErrInvalidModule    = errors.New("module failed validation")
)

// MalformedError reports where decoding stopped.
type MalformedError struct {
	Err      error
	Section  string
	Position int
}

func (e *MalformedError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("wasm: %s at position %d: %v", e.Section, e.Position, e.Err)
	}
	return fmt.Sprintf("wasm: at position %d: %v", e.Position, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// Is makes every MalformedError match ErrMalformed.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

func malformed(section string, position int, err error) error {
	return &MalformedError{Section: section, Position: position, Err: err}
}

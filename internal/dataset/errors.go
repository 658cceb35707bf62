package dataset

import "errors"

// Failure taxonomy for variable loads. Backends wrap these so callers
// can classify with errors.Is.
var (
	// ErrNotFound reports a variable or group path absent from the tree.
	ErrNotFound = errors.New("variable not found")
	// ErrUnsupportedType reports a non-numeric element kind.
	ErrUnsupportedType = errors.New("unsupported element type")
	// ErrCorrupt reports a declared shape inconsistent with the element count.
	ErrCorrupt = errors.New("shape inconsistent with element count")
	// ErrRead reports an underlying container read failure.
	ErrRead = errors.New("read failed")
)

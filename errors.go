package vecbuf

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidElementSize is returned when element size is not positive.
	ErrInvalidElementSize = errors.New("element size must be positive")
	// ErrInvalidMaxCapacity is returned when max capacity is not positive.
	ErrInvalidMaxCapacity = errors.New("max capacity must be positive")
	// ErrInvalidInitialCapacity is returned when initial capacity is negative
	// or exceeds the representable element count.
	ErrInvalidInitialCapacity = errors.New("invalid initial capacity")
	// ErrInitialCapacityExceedsMax is returned when initial capacity exceeds
	// max capacity.
	ErrInitialCapacityExceedsMax = errors.New("initial capacity exceeds max capacity")
	// ErrNilVector is returned by mutating operations on a nil vector handle.
	ErrNilVector = errors.New("vector is nil")
	// ErrNilElement is returned when a required element buffer is nil.
	ErrNilElement = errors.New("element is nil")
	// ErrNilDestination is returned when a required destination buffer is nil.
	ErrNilDestination = errors.New("destination is nil")
	// ErrShortBuffer is returned when a caller-supplied buffer is smaller
	// than the bytes the operation must move.
	ErrShortBuffer = errors.New("buffer too small for element size")
	// ErrCapacityExhausted is returned when growth is requested at max capacity.
	ErrCapacityExhausted = errors.New("vector at max capacity")
	// ErrAllocationFailed is returned when the underlying allocator fails.
	// The allocator's error (if any) can be accessed via errors.Unwrap.
	ErrAllocationFailed = errors.New("allocation failed")
	// ErrInvalidRange is returned when a [start, end) range is malformed or
	// reaches past the vector length.
	ErrInvalidRange = errors.New("invalid range")
	// ErrEmptyVector is returned by last-element operations on an empty vector.
	ErrEmptyVector = errors.New("vector is empty")
)

// ErrIndexOutOfRange indicates an index outside the valid range of the
// operation. Insert accepts [0, length]; element access accepts [0, length).
type ErrIndexOutOfRange struct {
	Index  int
	Length int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("index out of range: %d with length %d", e.Index, e.Length)
}

// allocFailed wraps an allocator error into the package taxonomy.
func allocFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrAllocationFailed, err)
}

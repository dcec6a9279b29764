package vecbuf

import (
	"bytes"
	"math"
)

const (
	// defaultInitialCapacity is the capacity used for the first growth of a
	// vector that starts with no backing storage. Not 1, because a resize
	// would likely follow immediately.
	defaultInitialCapacity = 10

	// expansionFactor is the capacity multiplier applied on growth.
	expansionFactor = 2
)

// maxElementCount caps the number of elements any vector may address,
// independent of element size.
const maxElementCount = uint64(math.MaxUint32)

// capacityLimit returns the largest representable capacity for the given
// element size. It bounds both the element count and the byte size of the
// backing storage so index-to-offset math cannot overflow.
func capacityLimit(elementSize int) int {
	limit := math.MaxInt / elementSize
	if uint64(limit) > maxElementCount {
		limit = int(maxElementCount)
	}
	return limit
}

// Vector is the shared contract of the contiguous and segmented storage
// strategies: a bounded, growable sequence of fixed-size byte elements.
//
// Implementations are not safe for concurrent use of a single instance;
// the caller serializes access. See the package documentation for the
// lifetime rules of the views returned by Get and Last.
type Vector interface {
	// Push appends a copy of elem, growing capacity if needed.
	Push(elem []byte) error
	// PushN appends n elements read back-to-back from data.
	PushN(data []byte, n int) error
	// Insert places a copy of elem at index i, shifting [i, length) right.
	// i may equal the current length, which appends.
	Insert(i int, elem []byte) error
	// InsertN inserts n elements from data at index i.
	InsertN(i int, data []byte, n int) error

	// Get returns a view of element i aliasing the backing storage.
	Get(i int) ([]byte, error)
	// Copy copies element i into dst.
	Copy(i int, dst []byte) error
	// CopyRange copies elements [start, end) into dst.
	CopyRange(start, end int, dst []byte) error
	// CopyFrom copies elements [i, length) into dst.
	CopyFrom(i int, dst []byte) error
	// Last returns a view of the final element.
	Last() ([]byte, error)
	// CopyLast copies the final element into dst.
	CopyLast(dst []byte) error

	// Set overwrites element i in place. No growth or shift is involved.
	Set(i int, elem []byte) error
	// SetRange overwrites elements [start, end) with elements read
	// back-to-back from data.
	SetRange(start, end int, data []byte) error
	// Fill overwrites every element in [start, end) with elem.
	Fill(start, end int, elem []byte) error

	// Remove deletes element i, copying it into dst first when dst is
	// non-nil, and shifts (i, length) left to close the gap.
	Remove(i int, dst []byte) error
	// RemoveRange deletes elements [start, end), copying them into dst
	// first when dst is non-nil.
	RemoveRange(start, end int, dst []byte) error
	// Pop removes the final element, copying it into dst when dst is non-nil.
	Pop(dst []byte) error

	// Zero clears the bytes of element i without changing length.
	Zero(i int) error
	// ZeroRange clears the bytes of elements [start, end) without changing
	// length.
	ZeroRange(start, end int) error
	// Clear sets length to zero in O(1). Backing storage is kept as is;
	// stale bytes remain but are logically unreachable.
	Clear()
	// HardReset zeroes every live element, then sets length to zero. Use it
	// when residual data must not be observable through stale views.
	HardReset()

	// Grow ensures capacity for n additional elements beyond the current
	// length, allocating eagerly. It fails with ErrCapacityExhausted when
	// the requirement exceeds max capacity.
	Grow(n int) error
	// Destroy returns the backing storage to the allocator and leaves the
	// vector empty with capacity zero. The vector may be reused; the next
	// growing operation allocates fresh storage.
	Destroy()

	Len() int
	Capacity() int
	MaxCapacity() int
	ElementSize() int
	IsEmpty() bool
	// IsFull reports whether length has reached the current capacity.
	IsFull() bool
}

// Equal reports whether two vectors have the same element size, length,
// capacity, max capacity, and byte-identical elements. Vectors backed by
// different allocators or storage strategies can still compare equal.
func Equal(a, b Vector) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Len() != b.Len() ||
		a.ElementSize() != b.ElementSize() ||
		a.Capacity() != b.Capacity() ||
		a.MaxCapacity() != b.MaxCapacity() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		ae, err := a.Get(i)
		if err != nil {
			return false
		}
		be, err := b.Get(i)
		if err != nil {
			return false
		}
		if !bytes.Equal(ae, be) {
			return false
		}
	}
	return true
}

// Concat builds a new contiguous vector holding v1's elements followed by
// v2's. Element sizes must match. The result's capacity and max capacity
// are the sums of the inputs', clamped to the representable limit. The
// result is built with default options unless opts override them.
func Concat(v1, v2 Vector, opts ...Option) (*Contiguous, error) {
	if v1 == nil || v2 == nil {
		return nil, ErrNilVector
	}
	// A typed-nil handle passes the interface check but reports element
	// size 0.
	if v1.ElementSize() <= 0 || v2.ElementSize() <= 0 {
		return nil, ErrNilVector
	}
	if v1.ElementSize() != v2.ElementSize() {
		return nil, ErrInvalidElementSize
	}

	elemSize := v1.ElementSize()
	limit := capacityLimit(elemSize)
	if v2.Len() > limit-v1.Len() {
		return nil, ErrInvalidInitialCapacity
	}

	sumClamped := func(x, y int) int {
		if y > limit-x {
			return limit
		}
		return x + y
	}
	newCap := sumClamped(v1.Capacity(), v2.Capacity())
	newMax := sumClamped(v1.MaxCapacity(), v2.MaxCapacity())
	if newCap == 0 {
		newCap = defaultInitialCapacity
	}
	if newMax < newCap {
		newMax = newCap
	}

	out, err := New(elemSize, newCap, newMax, opts...)
	if err != nil {
		return nil, err
	}
	for _, src := range []Vector{v1, v2} {
		if src.Len() == 0 {
			continue
		}
		buf := make([]byte, src.Len()*elemSize)
		if err := src.CopyRange(0, src.Len(), buf); err != nil {
			return nil, err
		}
		if err := out.PushN(buf, src.Len()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Package alloc provides the allocator capability used by vecbuf vectors.
//
// An Allocator is a small capability record: allocate, reallocate, release.
// Vectors route every storage operation through it, so arena-backed or
// budget-limited storage drops in without touching vector logic. The
// System allocator is the default.
package alloc

import (
	"errors"
)

var (
	// ErrInvalidSize is returned for negative allocation sizes.
	ErrInvalidSize = errors.New("alloc: invalid size")
	// ErrBudgetExceeded is returned by the budgeted allocator when a
	// reservation would exceed the configured memory budget.
	ErrBudgetExceeded = errors.New("alloc: memory budget exceeded")
)

// Allocator supplies raw byte buffers. Implementations must return buffers
// with len == size.
//
// Release is advisory: heap-backed implementations may rely on the garbage
// collector and treat it as a no-op, while accounting or arena
// implementations use it to return budget or reuse space. Callers must not
// touch a buffer after releasing it.
type Allocator interface {
	// Allocate returns a zeroed buffer of exactly size bytes.
	Allocate(size int) ([]byte, error)

	// Reallocate resizes buf from oldSize to newSize bytes, preserving the
	// first min(oldSize, newSize) bytes. The returned buffer may be a new
	// allocation; the old buffer must not be used afterwards.
	Reallocate(buf []byte, oldSize, newSize int) ([]byte, error)

	// Release returns buf to the allocator.
	Release(buf []byte)
}

// System is the default allocator, backed by the Go heap. Release is a
// no-op; the garbage collector reclaims buffers once unreferenced.
//
// There is no system malloc to shim in Go: make is the platform allocation
// primitive, so this is the pass-through default.
type System struct{}

var _ Allocator = System{}

// Allocate implements Allocator.
func (System) Allocate(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}
	return make([]byte, size), nil
}

// Reallocate implements Allocator.
func (s System) Reallocate(buf []byte, oldSize, newSize int) ([]byte, error) {
	if newSize < 0 || oldSize < 0 {
		return nil, ErrInvalidSize
	}
	if newSize <= cap(buf) {
		return buf[:newSize], nil
	}
	nbuf := make([]byte, newSize)
	copy(nbuf, buf[:min(oldSize, newSize)])
	return nbuf, nil
}

// Release implements Allocator.
func (System) Release([]byte) {}

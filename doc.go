// Package vecbuf provides a type-erased, bounded dynamic array of fixed-size
// byte elements with a pluggable allocator.
//
// A vector stores opaque elements of a fixed byte size, addressed by index.
// Capacity grows on demand up to a hard ceiling fixed at construction, and
// every storage operation goes through an injectable allocator
// (see the alloc package), so arena- or budget-backed storage works without
// touching vector logic.
//
// # Storage Strategies
//
// Two implementations share the Vector contract:
//
//   - Contiguous (the default): a single growable buffer. Growth reallocates
//     the buffer, so element views returned by Get become stale across any
//     growing operation.
//   - Segmented: an append-only sequence of fixed-size segments. Growth
//     allocates a new segment and never relocates existing data, so element
//     views stay valid until the element is removed or the vector destroyed.
//     Indexed access pays a shift/mask split instead of one multiply.
//
// # Quick Start
//
//	v, _ := vecbuf.New(4, 16, 1024) // 4-byte elements, capacity 16, ceiling 1024
//	_ = v.Push([]byte{1, 0, 0, 0})
//
//	out := make([]byte, 4)
//	_ = v.Copy(0, out)
//
// With an arena allocator:
//
//	a, _ := alloc.NewArena(1 << 20)
//	defer a.Free()
//	v, _ := vecbuf.New(8, 0, 4096, vecbuf.WithAllocator(a))
//
// # Ownership and Views
//
// Each vector is exclusively owned by its creator; no internal locking
// exists and no two operations on the same instance may run concurrently.
// Distinct instances are independent. Byte slices returned by Get and Last
// alias the backing storage and are valid only until the next operation
// that may reallocate or shift elements (Push, Insert, Remove and friends).
// Use the Copy variants when the caller needs bytes that outlive further
// mutation.
//
// # Nil Handles
//
// Every method is safe to call on a nil vector: scalar accessors return
// zero, IsEmpty reports true, and mutating operations fail with
// ErrNilVector. This mirrors the tolerance callers expect from a handle
// based API.
package vecbuf

package alloc

import (
	"github.com/hupe1980/vecbuf/internal/mem"
)

// Aligned allocates buffers whose first byte sits on a 64-byte boundary,
// matching the alignment SIMD kernels expect. Useful when vector elements
// are themselves SIMD operands (e.g. float32 blocks).
//
// Like System, Release is a no-op and the garbage collector reclaims
// buffers.
type Aligned struct{}

var _ Allocator = Aligned{}

// Allocate implements Allocator.
func (Aligned) Allocate(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}
	return mem.AllocAligned(size), nil
}

// Reallocate implements Allocator.
func (a Aligned) Reallocate(buf []byte, oldSize, newSize int) ([]byte, error) {
	if newSize < 0 || oldSize < 0 {
		return nil, ErrInvalidSize
	}
	// Never reslice in place: the spare capacity of an aligned buffer is
	// the alignment slack, and its start would not stay aligned anyway.
	nbuf := mem.AllocAligned(newSize)
	copy(nbuf, buf[:min(oldSize, newSize)])
	return nbuf, nil
}

// Release implements Allocator.
func (Aligned) Release([]byte) {}

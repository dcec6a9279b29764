package alloc

import (
	"fmt"
	"math/bits"
	"sync"

	"github.com/hupe1980/vecbuf/internal/conv"
	"github.com/hupe1980/vecbuf/internal/mmap"
)

const (
	// DefaultChunkSize is the default size of an arena chunk (1MB).
	DefaultChunkSize = 1024 * 1024
	// DefaultAlignment is the default arena allocation alignment (8 bytes).
	DefaultAlignment = 8
)

// ArenaStats tracks arena memory usage metrics.
//
// Note on semantics:
//   - BytesReserved: total memory currently mapped from the OS
//   - BytesUsed: actual bytes requested by allocations (before alignment)
//   - BytesWasted: padding added for alignment
//   - ActiveChunks: number of chunks currently held
//   - TotalAllocs: cumulative allocation count
type ArenaStats struct {
	ChunksAllocated uint64 // Historical: total chunks ever created
	BytesReserved   uint64 // Current: total memory reserved
	BytesUsed       uint64 // Current: actual bytes used
	BytesWasted     uint64 // Current: alignment padding
	ActiveChunks    uint64 // Current: active chunk count
	TotalAllocs     uint64 // Historical: total allocations
}

type arenaChunk struct {
	data    []byte
	mapping *mmap.Mapping
	offset  int
}

// Arena is a bump allocator backed by anonymous memory mappings. Memory is
// handed out chunk by chunk and only returned to the OS when Free or Reset
// is called, which makes it a good fit for vectors that grow monotonically
// and are destroyed together.
//
// Arena does not reclaim individual buffers: Release is a no-op and
// Reallocate allocates fresh space. A vector that shrinks and regrows will
// therefore consume arena space proportional to its high-water mark.
//
// Arena is safe for concurrent Allocate calls, but Free and Reset must not
// run concurrently with allocations.
type Arena struct {
	chunkSize int
	alignment int

	mu      sync.Mutex
	chunks  []*arenaChunk
	current *arenaChunk
	closed  bool
	stats   ArenaStats

	reserver MemoryReserver
}

var _ Allocator = (*Arena)(nil)

// ArenaOption is a configuration option for Arena.
type ArenaOption func(*Arena)

// WithArenaReserver sets the memory reserver used to account chunk mappings
// against a shared budget.
func WithArenaReserver(reserver MemoryReserver) ArenaOption {
	return func(a *Arena) {
		a.reserver = reserver
	}
}

// NewArena creates a new Arena with the given chunk size. A non-positive
// chunk size selects DefaultChunkSize. The chunk size is rounded up to the
// next power of 2.
func NewArena(chunkSize int, opts ...ArenaOption) (*Arena, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	// Round up to the next power of 2 so chunk sizes stay page-friendly.
	chunkSize = 1 << bits.Len(uint(chunkSize-1))

	a := &Arena{
		chunkSize: chunkSize,
		alignment: DefaultAlignment,
	}

	for _, opt := range opts {
		opt(a)
	}

	if err := a.addChunkLocked(chunkSize); err != nil {
		return nil, err
	}

	return a, nil
}

// addChunkLocked maps a new chunk of at least size bytes and makes it
// current. Callers must hold a.mu (or be the constructor).
func (a *Arena) addChunkLocked(size int) error {
	if size < a.chunkSize {
		size = a.chunkSize
	}

	if a.reserver != nil && !a.reserver.TryAcquireMemory(int64(size)) {
		return ErrBudgetExceeded
	}

	mapping, err := mmap.MapAnon(size)
	if err != nil {
		if a.reserver != nil {
			a.reserver.ReleaseMemory(int64(size))
		}
		return fmt.Errorf("arena: map chunk: %w", err)
	}

	c := &arenaChunk{
		data:    mapping.Bytes(),
		mapping: mapping,
	}

	a.chunks = append(a.chunks, c)
	a.current = c

	sizeU64, _ := conv.IntToUint64(size)
	a.stats.ChunksAllocated++
	a.stats.BytesReserved += sizeU64
	a.stats.ActiveChunks++

	return nil
}

// Allocate implements Allocator. The returned buffer is zeroed; anonymous
// mappings are zero-filled by the OS and chunks are never reused without a
// Reset, which re-zeroes.
func (a *Arena) Allocate(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}
	if size == 0 {
		return []byte{}, nil
	}

	mask := a.alignment - 1
	alignedSize := (size + mask) & ^mask

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, fmt.Errorf("arena: closed")
	}

	curr := a.current
	if curr.offset+alignedSize > len(curr.data) {
		if err := a.addChunkLocked(alignedSize); err != nil {
			return nil, err
		}
		curr = a.current
	}

	start := curr.offset
	curr.offset += alignedSize

	sizeU64, _ := conv.IntToUint64(size)
	wastedU64, _ := conv.IntToUint64(alignedSize - size)
	a.stats.BytesUsed += sizeU64
	a.stats.BytesWasted += wastedU64
	a.stats.TotalAllocs++

	return curr.data[start : start+size : start+alignedSize], nil
}

// Reallocate implements Allocator. The arena cannot grow a buffer in place,
// so this always allocates fresh space and copies.
func (a *Arena) Reallocate(buf []byte, oldSize, newSize int) ([]byte, error) {
	if newSize < 0 || oldSize < 0 {
		return nil, ErrInvalidSize
	}

	nbuf, err := a.Allocate(newSize)
	if err != nil {
		return nil, err
	}
	copy(nbuf, buf[:min(oldSize, newSize)])

	return nbuf, nil
}

// Release implements Allocator. Individual buffers are not reclaimed; space
// is returned in bulk via Free or Reset.
func (a *Arena) Release([]byte) {}

// Stats returns the current arena statistics.
func (a *Arena) Stats() ArenaStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.stats
}

// Usage returns the memory usage percentage.
func (a *Arena) Usage() float64 {
	stats := a.Stats()
	if stats.BytesReserved == 0 {
		return 0
	}
	return float64(stats.BytesUsed) / float64(stats.BytesReserved) * 100
}

// Reset clears all allocations and releases extra chunks, keeping only the
// first chunk for reuse. All buffers allocated before Reset become invalid.
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || len(a.chunks) == 0 {
		return
	}

	first := a.chunks[0]
	for _, c := range a.chunks[1:] {
		a.releaseChunkLocked(c)
	}
	a.chunks = a.chunks[:1]
	a.current = first

	// The first chunk is reused, so it must be zeroed by hand.
	clear(first.data[:first.offset])
	first.offset = 0

	firstU64, _ := conv.IntToUint64(len(first.data))
	a.stats.ActiveChunks = 1
	a.stats.BytesReserved = firstU64
	a.stats.BytesUsed = 0
	a.stats.BytesWasted = 0
}

// Free unmaps all arena memory. All buffers allocated from this arena
// become invalid. The arena cannot be reused afterwards.
func (a *Arena) Free() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}

	for _, c := range a.chunks {
		a.releaseChunkLocked(c)
	}
	a.chunks = nil
	a.current = nil
	a.closed = true

	a.stats.ActiveChunks = 0
	a.stats.BytesReserved = 0
	a.stats.BytesUsed = 0
	a.stats.BytesWasted = 0
}

func (a *Arena) releaseChunkLocked(c *arenaChunk) {
	size := len(c.data)
	_ = c.mapping.Close()
	if a.reserver != nil {
		a.reserver.ReleaseMemory(int64(size))
	}
}

func (a *Arena) String() string {
	stats := a.Stats()
	return fmt.Sprintf(
		"Arena{chunks: %d, reserved: %.2f MB, used: %.2f MB, wasted: %.2f KB, usage: %.1f%%, allocs: %d}",
		stats.ActiveChunks,
		float64(stats.BytesReserved)/(1024*1024),
		float64(stats.BytesUsed)/(1024*1024),
		float64(stats.BytesWasted)/1024,
		a.Usage(),
		stats.TotalAllocs,
	)
}

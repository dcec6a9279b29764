package alloc

import (
	"bytes"
	"sync"
	"testing"
)

func TestArenaAllocate(t *testing.T) {
	a, err := NewArena(4096)
	if err != nil {
		t.Fatalf("NewArena failed: %v", err)
	}
	defer a.Free()

	buf, err := a.Allocate(100)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if len(buf) != 100 {
		t.Errorf("expected len 100, got %d", len(buf))
	}
	for _, b := range buf {
		if b != 0 {
			t.Fatal("expected zeroed buffer")
		}
	}

	// Buffers must not overlap.
	buf2, err := a.Allocate(100)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	for i := range buf {
		buf[i] = 0xAA
	}
	for _, b := range buf2 {
		if b != 0 {
			t.Fatal("allocations overlap")
		}
	}
}

func TestArenaChunkGrowth(t *testing.T) {
	a, err := NewArena(1024)
	if err != nil {
		t.Fatalf("NewArena failed: %v", err)
	}
	defer a.Free()

	// Exceed the first chunk to force a second mapping.
	for i := 0; i < 10; i++ {
		if _, err := a.Allocate(256); err != nil {
			t.Fatalf("Allocate failed: %v", err)
		}
	}

	stats := a.Stats()
	if stats.ActiveChunks < 2 {
		t.Errorf("expected at least 2 chunks, got %d", stats.ActiveChunks)
	}
	if stats.TotalAllocs != 10 {
		t.Errorf("expected 10 allocs, got %d", stats.TotalAllocs)
	}
}

func TestArenaOversizedAllocation(t *testing.T) {
	a, err := NewArena(1024)
	if err != nil {
		t.Fatalf("NewArena failed: %v", err)
	}
	defer a.Free()

	// Larger than the chunk size: gets a dedicated chunk.
	buf, err := a.Allocate(10000)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if len(buf) != 10000 {
		t.Errorf("expected len 10000, got %d", len(buf))
	}
}

func TestArenaReallocate(t *testing.T) {
	a, err := NewArena(4096)
	if err != nil {
		t.Fatalf("NewArena failed: %v", err)
	}
	defer a.Free()

	buf, err := a.Allocate(8)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	copy(buf, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	grown, err := a.Reallocate(buf, 8, 16)
	if err != nil {
		t.Fatalf("Reallocate failed: %v", err)
	}
	if !bytes.Equal(grown[:8], []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Error("content not preserved")
	}
}

func TestArenaReset(t *testing.T) {
	a, err := NewArena(1024)
	if err != nil {
		t.Fatalf("NewArena failed: %v", err)
	}
	defer a.Free()

	buf, err := a.Allocate(512)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	for i := range buf {
		buf[i] = 0xFF
	}
	for i := 0; i < 5; i++ {
		if _, err := a.Allocate(512); err != nil {
			t.Fatalf("Allocate failed: %v", err)
		}
	}

	a.Reset()

	stats := a.Stats()
	if stats.ActiveChunks != 1 {
		t.Errorf("expected 1 chunk after reset, got %d", stats.ActiveChunks)
	}
	if stats.BytesUsed != 0 {
		t.Errorf("expected 0 bytes used after reset, got %d", stats.BytesUsed)
	}

	// The kept chunk hands out zeroed memory again.
	buf, err = a.Allocate(512)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	for _, b := range buf {
		if b != 0 {
			t.Fatal("expected zeroed buffer after reset")
		}
	}
}

func TestArenaFree(t *testing.T) {
	a, err := NewArena(1024)
	if err != nil {
		t.Fatalf("NewArena failed: %v", err)
	}

	if _, err := a.Allocate(100); err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	a.Free()

	if stats := a.Stats(); stats.ActiveChunks != 0 {
		t.Errorf("expected 0 chunks after free, got %d", stats.ActiveChunks)
	}
	if _, err := a.Allocate(100); err == nil {
		t.Error("expected error allocating from freed arena")
	}

	// Idempotent.
	a.Free()
}

func TestArenaConcurrentAllocate(t *testing.T) {
	a, err := NewArena(4096)
	if err != nil {
		t.Fatalf("NewArena failed: %v", err)
	}
	defer a.Free()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				buf, err := a.Allocate(64)
				if err != nil {
					t.Errorf("Allocate failed: %v", err)
					return
				}
				for k := range buf {
					buf[k] = byte(j)
				}
			}
		}()
	}
	wg.Wait()

	if stats := a.Stats(); stats.TotalAllocs != 800 {
		t.Errorf("expected 800 allocs, got %d", stats.TotalAllocs)
	}
}

type fakeReserver struct {
	mu     sync.Mutex
	budget int64
	used   int64
}

func (f *fakeReserver) TryAcquireMemory(bytes int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.used+bytes > f.budget {
		return false
	}
	f.used += bytes
	return true
}

func (f *fakeReserver) ReleaseMemory(bytes int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.used -= bytes
}

func TestArenaWithReserver(t *testing.T) {
	r := &fakeReserver{budget: 2048}

	a, err := NewArena(1024, WithArenaReserver(r))
	if err != nil {
		t.Fatalf("NewArena failed: %v", err)
	}

	// First chunk reserved at construction; a second fits, a third does not.
	if _, err := a.Allocate(1024); err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if _, err := a.Allocate(1024); err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if _, err := a.Allocate(1024); err != ErrBudgetExceeded {
		t.Errorf("expected ErrBudgetExceeded, got %v", err)
	}

	a.Free()

	if r.used != 0 {
		t.Errorf("expected all reservations returned, got %d", r.used)
	}
}

package mmap

import (
	"testing"
)

func TestMapAnon(t *testing.T) {
	m, err := MapAnon(4096)
	if err != nil {
		t.Fatalf("MapAnon failed: %v", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	}()

	if m.Size() != 4096 {
		t.Errorf("Size() = %d, want 4096", m.Size())
	}

	data := m.Bytes()
	if len(data) != 4096 {
		t.Fatalf("len(Bytes()) = %d, want 4096", len(data))
	}

	// Anonymous mappings are zero-filled and writable.
	for _, b := range data {
		if b != 0 {
			t.Fatal("expected zeroed mapping")
		}
	}
	data[0] = 0xAA
	data[4095] = 0xBB
	if data[0] != 0xAA || data[4095] != 0xBB {
		t.Error("mapping not writable")
	}
}

func TestMapAnonInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := MapAnon(size); err != ErrInvalidSize {
			t.Errorf("MapAnon(%d) = %v, want ErrInvalidSize", size, err)
		}
	}
}

func TestMappingClose(t *testing.T) {
	m, err := MapAnon(4096)
	if err != nil {
		t.Fatalf("MapAnon failed: %v", err)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if m.Bytes() != nil {
		t.Error("Bytes() after Close should be nil")
	}

	// Idempotent.
	if err := m.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

package alloc

import (
	"testing"
)

func TestBudgetedAllocate(t *testing.T) {
	r := &fakeReserver{budget: 1024}
	b := NewBudgeted(System{}, r)

	buf, err := b.Allocate(512)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if len(buf) != 512 {
		t.Errorf("expected len 512, got %d", len(buf))
	}
	if r.used != 512 {
		t.Errorf("expected 512 reserved, got %d", r.used)
	}

	if _, err := b.Allocate(1024); err != ErrBudgetExceeded {
		t.Errorf("expected ErrBudgetExceeded, got %v", err)
	}
	if r.used != 512 {
		t.Errorf("failed allocation must not leak budget, got %d", r.used)
	}
}

func TestBudgetedReallocate(t *testing.T) {
	r := &fakeReserver{budget: 1024}
	b := NewBudgeted(nil, r)

	buf, err := b.Allocate(256)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	// Grow: the new size is charged before the old one is returned, so a
	// resize that would transiently exceed the budget fails.
	if _, err := b.Reallocate(buf, 256, 1000); err != ErrBudgetExceeded {
		t.Errorf("expected ErrBudgetExceeded, got %v", err)
	}
	if r.used != 256 {
		t.Errorf("expected 256 reserved after failed realloc, got %d", r.used)
	}

	grown, err := b.Reallocate(buf, 256, 512)
	if err != nil {
		t.Fatalf("Reallocate failed: %v", err)
	}
	if r.used != 512 {
		t.Errorf("expected 512 reserved, got %d", r.used)
	}

	b.Release(grown)
	if r.used != 0 {
		t.Errorf("expected 0 reserved after release, got %d", r.used)
	}
}

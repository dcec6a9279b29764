package conv

import (
	"math"
	"testing"
)

func TestIntToUint64(t *testing.T) {
	v, err := IntToUint64(42)
	if err != nil || v != 42 {
		t.Errorf("IntToUint64(42) = %d, %v", v, err)
	}

	if _, err := IntToUint64(-1); err == nil {
		t.Error("expected error for negative input")
	}
}

func TestUint64ToInt(t *testing.T) {
	v, err := Uint64ToInt(42)
	if err != nil || v != 42 {
		t.Errorf("Uint64ToInt(42) = %d, %v", v, err)
	}

	if _, err := Uint64ToInt(math.MaxUint64); err == nil {
		t.Error("expected error for out-of-range input")
	}
}

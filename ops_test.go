package vecbuf

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vecbuf/testutil"
)

func TestDuplicate(t *testing.T) {
	rng := testutil.NewRNG(31)

	v, err := New(8, 4, 32)
	require.NoError(t, err)
	require.NoError(t, v.PushN(rng.Bulk(6, 8), 6))

	dup, err := v.Duplicate()
	require.NoError(t, err)

	assert.True(t, Equal(v, dup))

	// Mutating the copy leaves the original untouched.
	require.NoError(t, dup.Set(0, rng.Element(8)))
	assert.False(t, Equal(v, dup))
}

func TestEqual(t *testing.T) {
	rng := testutil.NewRNG(32)
	data := rng.Bulk(4, 8)

	build := func(t *testing.T) (*Contiguous, *Contiguous) {
		t.Helper()
		a, err := New(8, 4, 32, WithInitialData(data, 4))
		require.NoError(t, err)
		b, err := New(8, 4, 32, WithInitialData(data, 4))
		require.NoError(t, err)
		return a, b
	}

	t.Run("EqualVectors", func(t *testing.T) {
		a, b := build(t)
		assert.True(t, Equal(a, b))
	})

	t.Run("DifferentContent", func(t *testing.T) {
		a, b := build(t)
		require.NoError(t, b.Set(2, rng.Element(8)))
		assert.False(t, Equal(a, b))
	})

	t.Run("DifferentLength", func(t *testing.T) {
		a, b := build(t)
		require.NoError(t, b.Pop(nil))
		assert.False(t, Equal(a, b))
	})

	t.Run("DifferentCapacity", func(t *testing.T) {
		a, _ := build(t)
		c, err := New(8, 8, 32, WithInitialData(data, 4))
		require.NoError(t, err)
		assert.False(t, Equal(a, c))
	})

	t.Run("Nil", func(t *testing.T) {
		a, _ := build(t)
		assert.False(t, Equal(a, nil))
		assert.False(t, Equal(nil, a))
	})

	t.Run("AcrossStrategies", func(t *testing.T) {
		// Same geometry and content compare equal regardless of storage.
		a, err := New(8, 4, 32, WithInitialData(data, 4))
		require.NoError(t, err)
		s, err := NewSegmented(8, 4, 32, WithSegmentCapacity(4), WithInitialData(data, 4))
		require.NoError(t, err)
		assert.True(t, Equal(a, s))
	})
}

func TestConcat(t *testing.T) {
	rng := testutil.NewRNG(33)

	t.Run("AppendsInOrder", func(t *testing.T) {
		d1 := rng.Bulk(3, 8)
		d2 := rng.Bulk(2, 8)

		v1, err := New(8, 4, 16, WithInitialData(d1, 3))
		require.NoError(t, err)
		v2, err := New(8, 4, 16, WithInitialData(d2, 2))
		require.NoError(t, err)

		out, err := Concat(v1, v2)
		require.NoError(t, err)

		require.Equal(t, 5, out.Len())
		assert.Equal(t, 8, out.Capacity())
		assert.Equal(t, 32, out.MaxCapacity())

		got := make([]byte, 5*8)
		require.NoError(t, out.CopyRange(0, 5, got))
		assert.Equal(t, append(append([]byte{}, d1...), d2...), got)
	})

	t.Run("MismatchedElementSize", func(t *testing.T) {
		v1, err := New(8, 4, 16)
		require.NoError(t, err)
		v2, err := New(4, 4, 16)
		require.NoError(t, err)

		_, err = Concat(v1, v2)
		require.ErrorIs(t, err, ErrInvalidElementSize)
	})

	t.Run("NilInput", func(t *testing.T) {
		v, err := New(8, 4, 16)
		require.NoError(t, err)

		_, err = Concat(v, nil)
		require.ErrorIs(t, err, ErrNilVector)
	})

	t.Run("TypedNilHandles", func(t *testing.T) {
		// A nil *Contiguous stored in a Vector is not interface-nil; it
		// must still be rejected, not dereferenced.
		var n *Contiguous
		_, err := Concat(n, n)
		require.ErrorIs(t, err, ErrNilVector)

		v, err := New(8, 4, 16)
		require.NoError(t, err)
		_, err = Concat(v, (*Segmented)(nil))
		require.ErrorIs(t, err, ErrNilVector)
		_, err = Concat((*Segmented)(nil), v)
		require.ErrorIs(t, err, ErrNilVector)
	})

	t.Run("MixedStrategies", func(t *testing.T) {
		d1 := rng.Bulk(3, 4)
		d2 := rng.Bulk(3, 4)

		v1, err := New(4, 4, 16, WithInitialData(d1, 3))
		require.NoError(t, err)
		v2, err := NewSegmented(4, 4, 16, WithSegmentCapacity(4), WithInitialData(d2, 3))
		require.NoError(t, err)

		out, err := Concat(v1, v2)
		require.NoError(t, err)
		require.Equal(t, 6, out.Len())

		got := make([]byte, 6*4)
		require.NoError(t, out.CopyRange(0, 6, got))
		assert.Equal(t, append(append([]byte{}, d1...), d2...), got)
	})
}

func TestSplitAt(t *testing.T) {
	rng := testutil.NewRNG(34)
	data := rng.Bulk(6, 4)

	t.Run("Contiguous", func(t *testing.T) {
		v, err := New(4, 8, 32, WithInitialData(data, 6))
		require.NoError(t, err)

		tail, err := v.SplitAt(4)
		require.NoError(t, err)

		assert.Equal(t, 4, v.Len())
		require.Equal(t, 2, tail.Len())
		assert.Equal(t, 4, tail.Capacity())
		assert.Equal(t, 8, tail.MaxCapacity())

		got := make([]byte, 2*4)
		require.NoError(t, tail.CopyRange(0, 2, got))
		assert.Equal(t, data[16:], got)
	})

	t.Run("Segmented", func(t *testing.T) {
		v, err := NewSegmented(4, 8, 32, WithSegmentCapacity(4), WithInitialData(data, 6))
		require.NoError(t, err)

		tail, err := v.SplitAt(2)
		require.NoError(t, err)

		assert.Equal(t, 2, v.Len())
		require.Equal(t, 4, tail.Len())

		got := make([]byte, 4*4)
		require.NoError(t, tail.CopyRange(0, 4, got))
		assert.Equal(t, data[8:], got)
	})

	t.Run("BoundaryIndexes", func(t *testing.T) {
		v, err := New(4, 8, 32, WithInitialData(data, 6))
		require.NoError(t, err)

		var oor *ErrIndexOutOfRange
		_, err = v.SplitAt(0)
		require.ErrorAs(t, err, &oor)
		_, err = v.SplitAt(6)
		require.ErrorAs(t, err, &oor)
	})
}

func TestSlice(t *testing.T) {
	rng := testutil.NewRNG(35)
	data := rng.Bulk(6, 4)

	v, err := New(4, 8, 32, WithInitialData(data, 6))
	require.NoError(t, err)

	t.Run("Middle", func(t *testing.T) {
		s, err := v.Slice(2, 5)
		require.NoError(t, err)

		require.Equal(t, 3, s.Len())
		got := make([]byte, 3*4)
		require.NoError(t, s.CopyRange(0, 3, got))
		assert.Equal(t, data[8:20], got)

		// The receiver is untouched.
		assert.Equal(t, 6, v.Len())
	})

	t.Run("Whole", func(t *testing.T) {
		s, err := v.Slice(0, 6)
		require.NoError(t, err)
		assert.True(t, Equal(v, s))
	})

	t.Run("InvalidRange", func(t *testing.T) {
		_, err := v.Slice(3, 3)
		require.ErrorIs(t, err, ErrInvalidRange)
		_, err = v.Slice(0, 7)
		require.ErrorIs(t, err, ErrInvalidRange)
	})
}

// Vectors are single-owner; the supported concurrent pattern is one instance
// per goroutine.
func TestConcurrentIndependentVectors(t *testing.T) {
	var g errgroup.Group

	for i := 0; i < 8; i++ {
		seed := int64(i)
		g.Go(func() error {
			rng := testutil.NewRNG(seed)

			v, err := New(8, 0, 512)
			if err != nil {
				return err
			}

			for j := 0; j < 256; j++ {
				if err := v.Push(rng.Element(8)); err != nil {
					return err
				}
			}
			for j := 0; j < 128; j++ {
				if err := v.Pop(nil); err != nil {
					return err
				}
			}
			if v.Len() != 128 {
				return fmt.Errorf("unexpected length %d", v.Len())
			}
			return nil
		})
	}

	require.NoError(t, g.Wait())
}

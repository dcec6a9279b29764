package vecbuf

import (
	"testing"

	"github.com/hupe1980/vecbuf/alloc"
	"github.com/hupe1980/vecbuf/testutil"
)

func BenchmarkContiguousPush(b *testing.B) {
	rng := testutil.NewRNG(1)
	elem := rng.Element(16)

	v, err := New(16, b.N, b.N+1)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := v.Push(elem); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkContiguousPushWithGrowth(b *testing.B) {
	rng := testutil.NewRNG(1)
	elem := rng.Element(16)

	v, err := New(16, 0, b.N+1)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := v.Push(elem); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSegmentedPush(b *testing.B) {
	rng := testutil.NewRNG(1)
	elem := rng.Element(16)

	v, err := NewSegmented(16, 0, b.N+1)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := v.Push(elem); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkContiguousGet(b *testing.B) {
	rng := testutil.NewRNG(1)

	const n = 1024
	v, err := New(16, n, n, WithInitialData(rng.Bulk(n, 16), n))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := v.Get(i & (n - 1)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSegmentedGet(b *testing.B) {
	rng := testutil.NewRNG(1)

	const n = 1024
	v, err := NewSegmented(16, n, n, WithSegmentCapacity(256), WithInitialData(rng.Bulk(n, 16), n))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := v.Get(i & (n - 1)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkArenaPush(b *testing.B) {
	rng := testutil.NewRNG(1)
	elem := rng.Element(16)

	arena, err := alloc.NewArena(alloc.DefaultChunkSize)
	if err != nil {
		b.Fatal(err)
	}
	defer arena.Free()

	v, err := New(16, 0, b.N+1, WithAllocator(arena))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := v.Push(elem); err != nil {
			b.Fatal(err)
		}
	}
}

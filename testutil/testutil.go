// Package testutil provides deterministic data generators for vecbuf tests
// and benchmarks.
package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Fill fills dst with random bytes.
// Locks only once per call (preferred over calling Uint64 in a loop).
func (r *RNG) Fill(dst []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// rand.Read on a seeded source never returns an error.
	_, _ = r.rand.Read(dst)
}

// Element generates one random element of the given byte size.
func (r *RNG) Element(size int) []byte {
	elem := make([]byte, size)
	r.Fill(elem)
	return elem
}

// Elements generates num random elements of the given byte size.
// Uses a single backing array for efficiency; the elements are laid out
// back-to-back, so Elements(n, s)[0][:n*s] is also a valid bulk buffer.
func (r *RNG) Elements(num, size int) [][]byte {
	data := make([]byte, num*size)
	r.Fill(data)

	elems := make([][]byte, num)
	for i := 0; i < num; i++ {
		elems[i] = data[i*size : (i+1)*size : (i+1)*size]
	}

	return elems
}

// Bulk generates num elements back-to-back in a single buffer, suitable
// for PushN and InsertN.
func (r *RNG) Bulk(num, size int) []byte {
	data := make([]byte, num*size)
	r.Fill(data)
	return data
}

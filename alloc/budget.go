package alloc

// MemoryReserver reserves and releases memory against a shared budget.
// *resource.Controller implements it.
type MemoryReserver interface {
	// TryAcquireMemory reserves bytes without blocking. It returns false if
	// the reservation would exceed the budget.
	TryAcquireMemory(bytes int64) bool

	// ReleaseMemory returns a previous reservation.
	ReleaseMemory(bytes int64)
}

// Budgeted wraps another allocator and charges every buffer against a
// MemoryReserver. Allocations that would exceed the budget fail with
// ErrBudgetExceeded instead of blocking.
type Budgeted struct {
	inner    Allocator
	reserver MemoryReserver
}

var _ Allocator = (*Budgeted)(nil)

// NewBudgeted creates a budgeted allocator around inner. A nil inner
// selects the System allocator.
func NewBudgeted(inner Allocator, reserver MemoryReserver) *Budgeted {
	if inner == nil {
		inner = System{}
	}
	return &Budgeted{
		inner:    inner,
		reserver: reserver,
	}
}

// Allocate implements Allocator.
func (b *Budgeted) Allocate(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}

	if !b.reserver.TryAcquireMemory(int64(size)) {
		return nil, ErrBudgetExceeded
	}

	buf, err := b.inner.Allocate(size)
	if err != nil {
		b.reserver.ReleaseMemory(int64(size))
		return nil, err
	}

	return buf, nil
}

// Reallocate implements Allocator. The new size is reserved before the old
// reservation is returned, so a resize never dips below the budget line
// mid-flight.
func (b *Budgeted) Reallocate(buf []byte, oldSize, newSize int) ([]byte, error) {
	if newSize < 0 || oldSize < 0 {
		return nil, ErrInvalidSize
	}

	if !b.reserver.TryAcquireMemory(int64(newSize)) {
		return nil, ErrBudgetExceeded
	}

	nbuf, err := b.inner.Reallocate(buf, oldSize, newSize)
	if err != nil {
		b.reserver.ReleaseMemory(int64(newSize))
		return nil, err
	}

	b.reserver.ReleaseMemory(int64(oldSize))

	return nbuf, nil
}

// Release implements Allocator.
func (b *Budgeted) Release(buf []byte) {
	b.inner.Release(buf)
	b.reserver.ReleaseMemory(int64(len(buf)))
}

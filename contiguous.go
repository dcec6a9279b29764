package vecbuf

// Contiguous is the single-buffer storage strategy. Growth reallocates the
// buffer, so views returned by Get become stale across any growing
// operation. Indexed access is one multiply and a bounds check.
//
// The zero value is not usable; construct with New.
type Contiguous struct {
	buf       []byte // len(buf) == capacity*elemSize when allocated
	elemSize  int
	length    int
	capacity  int
	maxCap    int
	allocator allocatorRef
	logger    *Logger
	metrics   MetricsCollector
}

var _ Vector = (*Contiguous)(nil)

// validateConfig checks the constructor triple and returns the max capacity
// clamped to the representable limit for the element size. The clamp is
// silent; an oversized ceiling degrades to the limit instead of failing.
func validateConfig(elementSize, initialCapacity, maxCapacity int) (int, error) {
	if elementSize <= 0 {
		return 0, ErrInvalidElementSize
	}
	if maxCapacity <= 0 {
		return 0, ErrInvalidMaxCapacity
	}
	limit := capacityLimit(elementSize)
	if initialCapacity < 0 || initialCapacity > limit {
		return 0, ErrInvalidInitialCapacity
	}
	if initialCapacity > maxCapacity {
		return 0, ErrInitialCapacityExceedsMax
	}
	if maxCapacity > limit {
		maxCapacity = limit
	}
	return maxCapacity, nil
}

// New constructs a contiguous vector of fixed-size elements.
//
// elementSize is the byte size of one element and must be positive.
// initialCapacity slots are allocated eagerly; zero starts the vector with
// no backing storage (allocation happens on first growth). maxCapacity is
// the hard growth ceiling, silently clamped to the platform limit when it
// exceeds it. Construction fails on an invalid triple or when the eager
// allocation fails.
func New(elementSize, initialCapacity, maxCapacity int, opts ...Option) (*Contiguous, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newContiguous(elementSize, initialCapacity, maxCapacity, o)
}

func newContiguous(elementSize, initialCapacity, maxCapacity int, o options) (*Contiguous, error) {
	maxCapacity, err := validateConfig(elementSize, initialCapacity, maxCapacity)
	if err != nil {
		return nil, err
	}

	v := &Contiguous{
		elemSize:  elementSize,
		maxCap:    maxCapacity,
		allocator: o.allocator,
		logger:    o.logger,
		metrics:   o.metrics,
	}

	if initialCapacity > 0 {
		buf, err := v.allocator.Allocate(initialCapacity * elementSize)
		if err != nil {
			return nil, allocFailed(err)
		}
		v.buf = buf
		v.capacity = initialCapacity
	}

	if err := seedInitialData(v, o); err != nil {
		// Return the eager allocation so budgeted and arena allocators
		// get their reservation back.
		v.Destroy()
		return nil, err
	}

	v.logger.LogConstruct("contiguous", elementSize, v.capacity, v.maxCap)
	return v, nil
}

// seedInitialData pushes the WithInitialData payload during construction.
func seedInitialData(v Vector, o options) error {
	if o.initialLen == 0 {
		return nil
	}
	if o.initialLen < 0 {
		return ErrInvalidRange
	}
	if o.initialData == nil {
		return ErrNilElement
	}
	return v.PushN(o.initialData, o.initialLen)
}

// allocatorRef narrows the alloc.Allocator dependency so the vector types
// only name the operations they call.
type allocatorRef interface {
	Allocate(size int) ([]byte, error)
	Reallocate(buf []byte, oldSize, newSize int) ([]byte, error)
	Release(buf []byte)
}

func (v *Contiguous) elem(i int) []byte {
	off := i * v.elemSize
	return v.buf[off : off+v.elemSize : off+v.elemSize]
}

func (v *Contiguous) checkIndex(i int) error {
	if i < 0 || i >= v.length {
		return &ErrIndexOutOfRange{Index: i, Length: v.length}
	}
	return nil
}

func (v *Contiguous) checkRange(start, end int) error {
	if start < 0 || start >= end || end > v.length {
		return ErrInvalidRange
	}
	return nil
}

// grow applies the doubling policy: first growth jumps to the default
// initial capacity, later growths double, and the last growth lands exactly
// on the ceiling so the vector can saturate without overshooting.
func (v *Contiguous) grow() error {
	if v.capacity == v.maxCap {
		return ErrCapacityExhausted
	}
	var newCap int
	switch {
	case v.capacity == 0:
		newCap = defaultInitialCapacity
		if v.maxCap < newCap {
			newCap = v.maxCap
		}
	case v.capacity <= (v.maxCap-1)/expansionFactor:
		newCap = v.capacity * expansionFactor
	default:
		newCap = v.maxCap
	}
	return v.setCapacity(newCap)
}

// ensure guarantees capacity for n more elements, growing exactly to
// length+n rather than doubling. Used by the bulk operations and Grow.
func (v *Contiguous) ensure(n int) error {
	if n <= 0 {
		return nil
	}
	if n > v.maxCap-v.length {
		return ErrCapacityExhausted
	}
	need := v.length + n
	if need <= v.capacity {
		return nil
	}
	return v.setCapacity(need)
}

func (v *Contiguous) setCapacity(newCap int) error {
	var (
		buf []byte
		err error
	)
	if v.capacity == 0 {
		buf, err = v.allocator.Allocate(newCap * v.elemSize)
	} else {
		buf, err = v.allocator.Reallocate(v.buf, v.capacity*v.elemSize, newCap*v.elemSize)
	}
	if err != nil {
		v.logger.LogGrow("contiguous", v.capacity, newCap, err)
		return allocFailed(err)
	}

	old := v.capacity
	v.buf = buf
	v.capacity = newCap
	v.logger.LogGrow("contiguous", old, newCap, nil)
	v.metrics.RecordGrow(old, newCap)
	return nil
}

// shiftRight moves elements [i, length) up by n slots. The caller has
// already ensured capacity for length+n elements. copy handles the overlap.
func (v *Contiguous) shiftRight(i, n int) {
	es := v.elemSize
	copy(v.buf[(i+n)*es:], v.buf[i*es:v.length*es])
}

// shiftLeft moves elements [i, length) down by n slots.
func (v *Contiguous) shiftLeft(i, n int) {
	es := v.elemSize
	copy(v.buf[(i-n)*es:], v.buf[i*es:v.length*es])
}

// Push implements Vector.
func (v *Contiguous) Push(elem []byte) error {
	if v == nil {
		return ErrNilVector
	}
	err := v.push(elem)
	v.metrics.RecordPush(err)
	return err
}

func (v *Contiguous) push(elem []byte) error {
	if elem == nil {
		return ErrNilElement
	}
	if len(elem) < v.elemSize {
		return ErrShortBuffer
	}
	if v.length == v.capacity {
		if err := v.grow(); err != nil {
			return err
		}
	}
	copy(v.buf[v.length*v.elemSize:], elem[:v.elemSize])
	v.length++
	return nil
}

// PushN implements Vector.
func (v *Contiguous) PushN(data []byte, n int) error {
	if v == nil {
		return ErrNilVector
	}
	err := v.pushN(data, n)
	v.metrics.RecordPush(err)
	return err
}

func (v *Contiguous) pushN(data []byte, n int) error {
	if data == nil {
		return ErrNilElement
	}
	if n <= 0 {
		return ErrInvalidRange
	}
	if len(data) < n*v.elemSize {
		return ErrShortBuffer
	}
	if err := v.ensure(n); err != nil {
		return err
	}
	copy(v.buf[v.length*v.elemSize:], data[:n*v.elemSize])
	v.length += n
	return nil
}

// Insert implements Vector.
func (v *Contiguous) Insert(i int, elem []byte) error {
	if v == nil {
		return ErrNilVector
	}
	err := v.insert(i, elem)
	v.metrics.RecordInsert(err)
	return err
}

func (v *Contiguous) insert(i int, elem []byte) error {
	if elem == nil {
		return ErrNilElement
	}
	if len(elem) < v.elemSize {
		return ErrShortBuffer
	}
	if i < 0 || i > v.length {
		return &ErrIndexOutOfRange{Index: i, Length: v.length}
	}
	if v.length == v.capacity {
		if err := v.grow(); err != nil {
			return err
		}
	}
	if i < v.length {
		v.shiftRight(i, 1)
	}
	copy(v.buf[i*v.elemSize:], elem[:v.elemSize])
	v.length++
	return nil
}

// InsertN implements Vector.
func (v *Contiguous) InsertN(i int, data []byte, n int) error {
	if v == nil {
		return ErrNilVector
	}
	err := v.insertN(i, data, n)
	v.metrics.RecordInsert(err)
	return err
}

func (v *Contiguous) insertN(i int, data []byte, n int) error {
	if data == nil {
		return ErrNilElement
	}
	if n <= 0 {
		return ErrInvalidRange
	}
	if i < 0 || i > v.length {
		return &ErrIndexOutOfRange{Index: i, Length: v.length}
	}
	if len(data) < n*v.elemSize {
		return ErrShortBuffer
	}
	if err := v.ensure(n); err != nil {
		return err
	}
	if i < v.length {
		v.shiftRight(i, n)
	}
	copy(v.buf[i*v.elemSize:], data[:n*v.elemSize])
	v.length += n
	return nil
}

// Get implements Vector. The returned slice aliases the backing buffer and
// is valid only until the next potentially reallocating or shifting
// operation.
func (v *Contiguous) Get(i int) ([]byte, error) {
	if v == nil {
		return nil, ErrNilVector
	}
	if err := v.checkIndex(i); err != nil {
		return nil, err
	}
	return v.elem(i), nil
}

// Copy implements Vector.
func (v *Contiguous) Copy(i int, dst []byte) error {
	if v == nil {
		return ErrNilVector
	}
	if dst == nil {
		return ErrNilDestination
	}
	if err := v.checkIndex(i); err != nil {
		return err
	}
	if len(dst) < v.elemSize {
		return ErrShortBuffer
	}
	copy(dst, v.elem(i))
	return nil
}

// CopyRange implements Vector.
func (v *Contiguous) CopyRange(start, end int, dst []byte) error {
	if v == nil {
		return ErrNilVector
	}
	if dst == nil {
		return ErrNilDestination
	}
	if err := v.checkRange(start, end); err != nil {
		return err
	}
	es := v.elemSize
	if len(dst) < (end-start)*es {
		return ErrShortBuffer
	}
	copy(dst, v.buf[start*es:end*es])
	return nil
}

// CopyFrom implements Vector.
func (v *Contiguous) CopyFrom(i int, dst []byte) error {
	if v == nil {
		return ErrNilVector
	}
	return v.CopyRange(i, v.length, dst)
}

// Last implements Vector. The returned slice aliases the backing buffer.
func (v *Contiguous) Last() ([]byte, error) {
	if v == nil {
		return nil, ErrNilVector
	}
	if v.length == 0 {
		return nil, ErrEmptyVector
	}
	return v.elem(v.length - 1), nil
}

// CopyLast implements Vector.
func (v *Contiguous) CopyLast(dst []byte) error {
	if v == nil {
		return ErrNilVector
	}
	if v.length == 0 {
		return ErrEmptyVector
	}
	return v.Copy(v.length-1, dst)
}

// Set implements Vector.
func (v *Contiguous) Set(i int, elem []byte) error {
	if v == nil {
		return ErrNilVector
	}
	if elem == nil {
		return ErrNilElement
	}
	if err := v.checkIndex(i); err != nil {
		return err
	}
	if len(elem) < v.elemSize {
		return ErrShortBuffer
	}
	copy(v.elem(i), elem[:v.elemSize])
	return nil
}

// SetRange implements Vector.
func (v *Contiguous) SetRange(start, end int, data []byte) error {
	if v == nil {
		return ErrNilVector
	}
	if data == nil {
		return ErrNilElement
	}
	if err := v.checkRange(start, end); err != nil {
		return err
	}
	es := v.elemSize
	if len(data) < (end-start)*es {
		return ErrShortBuffer
	}
	copy(v.buf[start*es:end*es], data[:(end-start)*es])
	return nil
}

// Fill implements Vector.
func (v *Contiguous) Fill(start, end int, elem []byte) error {
	if v == nil {
		return ErrNilVector
	}
	if elem == nil {
		return ErrNilElement
	}
	if err := v.checkRange(start, end); err != nil {
		return err
	}
	if len(elem) < v.elemSize {
		return ErrShortBuffer
	}
	for i := start; i < end; i++ {
		copy(v.elem(i), elem[:v.elemSize])
	}
	return nil
}

// Remove implements Vector.
func (v *Contiguous) Remove(i int, dst []byte) error {
	if v == nil {
		return ErrNilVector
	}
	err := v.remove(i, dst)
	v.metrics.RecordRemove(err)
	return err
}

func (v *Contiguous) remove(i int, dst []byte) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	if dst != nil {
		if len(dst) < v.elemSize {
			return ErrShortBuffer
		}
		copy(dst, v.elem(i))
	}
	if i < v.length-1 {
		v.shiftLeft(i+1, 1)
	}
	v.length--
	return nil
}

// RemoveRange implements Vector.
func (v *Contiguous) RemoveRange(start, end int, dst []byte) error {
	if v == nil {
		return ErrNilVector
	}
	err := v.removeRange(start, end, dst)
	v.metrics.RecordRemove(err)
	return err
}

func (v *Contiguous) removeRange(start, end int, dst []byte) error {
	if err := v.checkRange(start, end); err != nil {
		return err
	}
	n := end - start
	if dst != nil {
		if len(dst) < n*v.elemSize {
			return ErrShortBuffer
		}
		copy(dst, v.buf[start*v.elemSize:end*v.elemSize])
	}
	if end < v.length {
		v.shiftLeft(end, n)
	}
	v.length -= n
	return nil
}

// Pop implements Vector.
func (v *Contiguous) Pop(dst []byte) error {
	if v == nil {
		return ErrNilVector
	}
	if v.length == 0 {
		err := ErrEmptyVector
		v.metrics.RecordRemove(err)
		return err
	}
	return v.Remove(v.length-1, dst)
}

// Zero implements Vector.
func (v *Contiguous) Zero(i int) error {
	if v == nil {
		return ErrNilVector
	}
	if err := v.checkIndex(i); err != nil {
		return err
	}
	clear(v.elem(i))
	return nil
}

// ZeroRange implements Vector.
func (v *Contiguous) ZeroRange(start, end int) error {
	if v == nil {
		return ErrNilVector
	}
	if err := v.checkRange(start, end); err != nil {
		return err
	}
	clear(v.buf[start*v.elemSize : end*v.elemSize])
	return nil
}

// Clear implements Vector.
func (v *Contiguous) Clear() {
	if v == nil {
		return
	}
	v.length = 0
}

// HardReset implements Vector.
func (v *Contiguous) HardReset() {
	if v == nil {
		return
	}
	clear(v.buf[:v.length*v.elemSize])
	v.logger.LogHardReset(v.length)
	v.length = 0
}

// Destroy implements Vector.
func (v *Contiguous) Destroy() {
	if v == nil {
		return
	}
	if v.buf != nil {
		v.allocator.Release(v.buf)
		v.buf = nil
	}
	v.length = 0
	v.capacity = 0
}

// Grow implements Vector.
func (v *Contiguous) Grow(n int) error {
	if v == nil {
		return ErrNilVector
	}
	if n < 0 {
		return ErrInvalidRange
	}
	return v.ensure(n)
}

// Len implements Vector.
func (v *Contiguous) Len() int {
	if v == nil {
		return 0
	}
	return v.length
}

// Capacity implements Vector.
func (v *Contiguous) Capacity() int {
	if v == nil {
		return 0
	}
	return v.capacity
}

// MaxCapacity implements Vector.
func (v *Contiguous) MaxCapacity() int {
	if v == nil {
		return 0
	}
	return v.maxCap
}

// ElementSize implements Vector.
func (v *Contiguous) ElementSize() int {
	if v == nil {
		return 0
	}
	return v.elemSize
}

// IsEmpty implements Vector.
func (v *Contiguous) IsEmpty() bool {
	return v == nil || v.length == 0
}

// IsFull implements Vector.
func (v *Contiguous) IsFull() bool {
	if v == nil {
		return false
	}
	return v.length == v.capacity
}

// Duplicate returns a deep copy sharing the allocator, logger, and metrics
// collector of the receiver.
func (v *Contiguous) Duplicate() (*Contiguous, error) {
	if v == nil {
		return nil, ErrNilVector
	}
	dup, err := v.derive(v.capacity, v.maxCap)
	if err != nil {
		return nil, err
	}
	if v.length > 0 {
		if err := dup.PushN(v.buf[:v.length*v.elemSize], v.length); err != nil {
			return nil, err
		}
	}
	return dup, nil
}

// SplitAt truncates the receiver to [0, i) and returns a new vector holding
// [i, length). The new vector is sized for growth: capacity twice and
// ceiling four times its initial length. i must be inside (0, length).
func (v *Contiguous) SplitAt(i int) (*Contiguous, error) {
	if v == nil {
		return nil, ErrNilVector
	}
	if i <= 0 || i >= v.length {
		return nil, &ErrIndexOutOfRange{Index: i, Length: v.length}
	}
	tailLen := v.length - i
	tail, err := v.derive(expansionFactor*tailLen, 2*expansionFactor*tailLen)
	if err != nil {
		return nil, err
	}
	if err := tail.PushN(v.buf[i*v.elemSize:v.length*v.elemSize], tailLen); err != nil {
		return nil, err
	}
	v.length = i
	return tail, nil
}

// Slice returns a new vector holding a copy of elements [start, end),
// sized for growth like SplitAt. The receiver is not mutated.
func (v *Contiguous) Slice(start, end int) (*Contiguous, error) {
	if v == nil {
		return nil, ErrNilVector
	}
	if err := v.checkRange(start, end); err != nil {
		return nil, err
	}
	if start == 0 && end == v.length {
		return v.Duplicate()
	}
	n := end - start
	out, err := v.derive(expansionFactor*n, 2*expansionFactor*n)
	if err != nil {
		return nil, err
	}
	if err := out.PushN(v.buf[start*v.elemSize:end*v.elemSize], n); err != nil {
		return nil, err
	}
	return out, nil
}

// derive constructs an empty sibling with the receiver's configuration.
func (v *Contiguous) derive(initialCap, maxCap int) (*Contiguous, error) {
	return newContiguous(v.elemSize, initialCap, maxCap, options{
		allocator: v.allocator,
		logger:    v.logger,
		metrics:   v.metrics,
	})
}

package vecbuf

import (
	"math/bits"
)

// DefaultSegmentCapacity is the number of element slots per segment when
// WithSegmentCapacity is not given.
const DefaultSegmentCapacity = 1024

// Segmented is the non-relocating storage strategy: an append-only sequence
// of fixed-size segments. Growth allocates a new segment and never moves
// existing data, so element views returned by Get remain valid until the
// element is removed or the vector destroyed. Indexed access splits the
// index with a shift and a mask.
//
// Capacity is tracked in whole segments: a vector constructed with an
// initial capacity that is not a segment multiple starts with the next
// multiple (clamped to max capacity).
//
// The zero value is not usable; construct with NewSegmented.
type Segmented struct {
	segs      [][]byte // each len(seg) == segCap*elemSize
	segCap    int      // elements per segment, power of two
	segBits   uint
	segMask   int
	elemSize  int
	length    int
	capacity  int
	maxCap    int
	allocator allocatorRef
	logger    *Logger
	metrics   MetricsCollector
}

var _ Vector = (*Segmented)(nil)

// NewSegmented constructs a segmented vector of fixed-size elements.
// Parameter validation matches New; WithSegmentCapacity controls the
// segment size.
func NewSegmented(elementSize, initialCapacity, maxCapacity int, opts ...Option) (*Segmented, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newSegmented(elementSize, initialCapacity, maxCapacity, o)
}

func newSegmented(elementSize, initialCapacity, maxCapacity int, o options) (*Segmented, error) {
	maxCapacity, err := validateConfig(elementSize, initialCapacity, maxCapacity)
	if err != nil {
		return nil, err
	}

	segCap := o.segmentCapacity
	if segCap <= 0 {
		segCap = DefaultSegmentCapacity
	}
	// Round up to a power of two so addressing is a shift and a mask.
	segBits := uint(bits.Len(uint(segCap - 1)))
	segCap = 1 << segBits

	v := &Segmented{
		segCap:    segCap,
		segBits:   segBits,
		segMask:   segCap - 1,
		elemSize:  elementSize,
		maxCap:    maxCapacity,
		allocator: o.allocator,
		logger:    o.logger,
		metrics:   o.metrics,
	}

	for v.capacity < initialCapacity {
		if err := v.addSegment(); err != nil {
			return nil, err
		}
	}

	if err := seedInitialData(v, o); err != nil {
		v.Destroy()
		return nil, err
	}

	v.logger.LogConstruct("segmented", elementSize, v.capacity, v.maxCap)
	return v, nil
}

func (v *Segmented) elem(i int) []byte {
	seg := v.segs[i>>v.segBits]
	off := (i & v.segMask) * v.elemSize
	return seg[off : off+v.elemSize : off+v.elemSize]
}

func (v *Segmented) checkIndex(i int) error {
	if i < 0 || i >= v.length {
		return &ErrIndexOutOfRange{Index: i, Length: v.length}
	}
	return nil
}

func (v *Segmented) checkRange(start, end int) error {
	if start < 0 || start >= end || end > v.length {
		return ErrInvalidRange
	}
	return nil
}

// addSegment appends one segment. Existing segments are never resized or
// moved, which is the point of this strategy.
func (v *Segmented) addSegment() error {
	seg, err := v.allocator.Allocate(v.segCap * v.elemSize)
	if err != nil {
		v.logger.LogGrow("segmented", v.capacity, v.capacity+v.segCap, err)
		return allocFailed(err)
	}
	v.segs = append(v.segs, seg)

	old := v.capacity
	newCap := len(v.segs) * v.segCap
	if newCap > v.maxCap || newCap < 0 {
		newCap = v.maxCap
	}
	v.capacity = newCap
	v.logger.LogGrow("segmented", old, newCap, nil)
	v.metrics.RecordGrow(old, newCap)
	return nil
}

func (v *Segmented) grow() error {
	if v.capacity == v.maxCap {
		return ErrCapacityExhausted
	}
	return v.addSegment()
}

func (v *Segmented) ensure(n int) error {
	if n <= 0 {
		return nil
	}
	if n > v.maxCap-v.length {
		return ErrCapacityExhausted
	}
	prevSegs, prevCap := len(v.segs), v.capacity
	for v.length+n > v.capacity {
		if err := v.addSegment(); err != nil {
			// Failed bulk growth leaves the vector unmodified: return
			// the segments this call managed to add.
			for _, seg := range v.segs[prevSegs:] {
				v.allocator.Release(seg)
			}
			v.segs = v.segs[:prevSegs]
			v.capacity = prevCap
			return err
		}
	}
	return nil
}

// shiftRight moves elements [i, length) up by n slots, element by element,
// highest index first. The caller has ensured capacity for length+n.
func (v *Segmented) shiftRight(i, n int) {
	for j := v.length - 1; j >= i; j-- {
		copy(v.elem(j+n), v.elem(j))
	}
}

// shiftLeft moves elements [i, length) down by n slots.
func (v *Segmented) shiftLeft(i, n int) {
	for j := i; j < v.length; j++ {
		copy(v.elem(j-n), v.elem(j))
	}
}

// Push implements Vector.
func (v *Segmented) Push(elem []byte) error {
	if v == nil {
		return ErrNilVector
	}
	err := v.push(elem)
	v.metrics.RecordPush(err)
	return err
}

func (v *Segmented) push(elem []byte) error {
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
	copy(v.elem(v.length), elem[:v.elemSize])
	v.length++
	return nil
}

// PushN implements Vector.
func (v *Segmented) PushN(data []byte, n int) error {
	if v == nil {
		return ErrNilVector
	}
	err := v.pushN(data, n)
	v.metrics.RecordPush(err)
	return err
}

func (v *Segmented) pushN(data []byte, n int) error {
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
	for k := 0; k < n; k++ {
		copy(v.elem(v.length+k), data[k*v.elemSize:(k+1)*v.elemSize])
	}
	v.length += n
	return nil
}

// Insert implements Vector.
func (v *Segmented) Insert(i int, elem []byte) error {
	if v == nil {
		return ErrNilVector
	}
	err := v.insert(i, elem)
	v.metrics.RecordInsert(err)
	return err
}

func (v *Segmented) insert(i int, elem []byte) error {
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
	copy(v.elem(i), elem[:v.elemSize])
	v.length++
	return nil
}

// InsertN implements Vector.
func (v *Segmented) InsertN(i int, data []byte, n int) error {
	if v == nil {
		return ErrNilVector
	}
	err := v.insertN(i, data, n)
	v.metrics.RecordInsert(err)
	return err
}

func (v *Segmented) insertN(i int, data []byte, n int) error {
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
	for k := 0; k < n; k++ {
		copy(v.elem(i+k), data[k*v.elemSize:(k+1)*v.elemSize])
	}
	v.length += n
	return nil
}

// Get implements Vector. Unlike the contiguous strategy, the returned view
// stays valid across growth; it is invalidated only by shifting operations
// (Insert, Remove) at or below the index, HardReset, and Destroy.
func (v *Segmented) Get(i int) ([]byte, error) {
	if v == nil {
		return nil, ErrNilVector
	}
	if err := v.checkIndex(i); err != nil {
		return nil, err
	}
	return v.elem(i), nil
}

// Copy implements Vector.
func (v *Segmented) Copy(i int, dst []byte) error {
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
func (v *Segmented) CopyRange(start, end int, dst []byte) error {
	if v == nil {
		return ErrNilVector
	}
	if dst == nil {
		return ErrNilDestination
	}
	if err := v.checkRange(start, end); err != nil {
		return err
	}
	if len(dst) < (end-start)*v.elemSize {
		return ErrShortBuffer
	}
	for i := start; i < end; i++ {
		copy(dst[(i-start)*v.elemSize:], v.elem(i))
	}
	return nil
}

// CopyFrom implements Vector.
func (v *Segmented) CopyFrom(i int, dst []byte) error {
	if v == nil {
		return ErrNilVector
	}
	return v.CopyRange(i, v.length, dst)
}

// Last implements Vector.
func (v *Segmented) Last() ([]byte, error) {
	if v == nil {
		return nil, ErrNilVector
	}
	if v.length == 0 {
		return nil, ErrEmptyVector
	}
	return v.elem(v.length - 1), nil
}

// CopyLast implements Vector.
func (v *Segmented) CopyLast(dst []byte) error {
	if v == nil {
		return ErrNilVector
	}
	if v.length == 0 {
		return ErrEmptyVector
	}
	return v.Copy(v.length-1, dst)
}

// Set implements Vector.
func (v *Segmented) Set(i int, elem []byte) error {
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
func (v *Segmented) SetRange(start, end int, data []byte) error {
	if v == nil {
		return ErrNilVector
	}
	if data == nil {
		return ErrNilElement
	}
	if err := v.checkRange(start, end); err != nil {
		return err
	}
	if len(data) < (end-start)*v.elemSize {
		return ErrShortBuffer
	}
	for i := start; i < end; i++ {
		copy(v.elem(i), data[(i-start)*v.elemSize:(i-start+1)*v.elemSize])
	}
	return nil
}

// Fill implements Vector.
func (v *Segmented) Fill(start, end int, elem []byte) error {
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
func (v *Segmented) Remove(i int, dst []byte) error {
	if v == nil {
		return ErrNilVector
	}
	err := v.remove(i, dst)
	v.metrics.RecordRemove(err)
	return err
}

func (v *Segmented) remove(i int, dst []byte) error {
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
func (v *Segmented) RemoveRange(start, end int, dst []byte) error {
	if v == nil {
		return ErrNilVector
	}
	err := v.removeRange(start, end, dst)
	v.metrics.RecordRemove(err)
	return err
}

func (v *Segmented) removeRange(start, end int, dst []byte) error {
	if err := v.checkRange(start, end); err != nil {
		return err
	}
	n := end - start
	if dst != nil {
		if len(dst) < n*v.elemSize {
			return ErrShortBuffer
		}
		for i := start; i < end; i++ {
			copy(dst[(i-start)*v.elemSize:], v.elem(i))
		}
	}
	if end < v.length {
		v.shiftLeft(end, n)
	}
	v.length -= n
	return nil
}

// Pop implements Vector.
func (v *Segmented) Pop(dst []byte) error {
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
func (v *Segmented) Zero(i int) error {
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
func (v *Segmented) ZeroRange(start, end int) error {
	if v == nil {
		return ErrNilVector
	}
	if err := v.checkRange(start, end); err != nil {
		return err
	}
	for i := start; i < end; i++ {
		clear(v.elem(i))
	}
	return nil
}

// Clear implements Vector.
func (v *Segmented) Clear() {
	if v == nil {
		return
	}
	v.length = 0
}

// HardReset implements Vector.
func (v *Segmented) HardReset() {
	if v == nil {
		return
	}
	for i := 0; i < v.length; i++ {
		clear(v.elem(i))
	}
	v.logger.LogHardReset(v.length)
	v.length = 0
}

// Destroy implements Vector.
func (v *Segmented) Destroy() {
	if v == nil {
		return
	}
	for _, seg := range v.segs {
		v.allocator.Release(seg)
	}
	v.segs = nil
	v.length = 0
	v.capacity = 0
}

// Grow implements Vector.
func (v *Segmented) Grow(n int) error {
	if v == nil {
		return ErrNilVector
	}
	if n < 0 {
		return ErrInvalidRange
	}
	return v.ensure(n)
}

// Len implements Vector.
func (v *Segmented) Len() int {
	if v == nil {
		return 0
	}
	return v.length
}

// Capacity implements Vector.
func (v *Segmented) Capacity() int {
	if v == nil {
		return 0
	}
	return v.capacity
}

// MaxCapacity implements Vector.
func (v *Segmented) MaxCapacity() int {
	if v == nil {
		return 0
	}
	return v.maxCap
}

// ElementSize implements Vector.
func (v *Segmented) ElementSize() int {
	if v == nil {
		return 0
	}
	return v.elemSize
}

// IsEmpty implements Vector.
func (v *Segmented) IsEmpty() bool {
	return v == nil || v.length == 0
}

// IsFull implements Vector.
func (v *Segmented) IsFull() bool {
	if v == nil {
		return false
	}
	return v.length == v.capacity
}

// SegmentCapacity returns the element slots per segment.
func (v *Segmented) SegmentCapacity() int {
	if v == nil {
		return 0
	}
	return v.segCap
}

// Duplicate returns a deep copy sharing the allocator, logger, metrics
// collector, and segment size of the receiver.
func (v *Segmented) Duplicate() (*Segmented, error) {
	if v == nil {
		return nil, ErrNilVector
	}
	dup, err := v.derive(v.capacity, v.maxCap)
	if err != nil {
		return nil, err
	}
	for i := 0; i < v.length; i++ {
		if err := dup.Push(v.elem(i)); err != nil {
			return nil, err
		}
	}
	return dup, nil
}

// SplitAt truncates the receiver to [0, i) and returns a new vector holding
// [i, length), sized for growth like the contiguous SplitAt. Views into the
// moved tail keep pointing at the receiver's (now unreachable) slots, not
// the new vector.
func (v *Segmented) SplitAt(i int) (*Segmented, error) {
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
	for j := i; j < v.length; j++ {
		if err := tail.Push(v.elem(j)); err != nil {
			return nil, err
		}
	}
	v.length = i
	return tail, nil
}

// Slice returns a new vector holding a copy of elements [start, end). The
// receiver is not mutated.
func (v *Segmented) Slice(start, end int) (*Segmented, error) {
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
	for j := start; j < end; j++ {
		if err := out.Push(v.elem(j)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// derive constructs an empty sibling with the receiver's configuration.
func (v *Segmented) derive(initialCap, maxCap int) (*Segmented, error) {
	return newSegmented(v.elemSize, initialCap, maxCap, options{
		allocator:       v.allocator,
		logger:          v.logger,
		metrics:         v.metrics,
		segmentCapacity: v.segCap,
	})
}

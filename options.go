package vecbuf

import (
	"github.com/hupe1980/vecbuf/alloc"
)

type options struct {
	allocator       alloc.Allocator
	logger          *Logger
	metrics         MetricsCollector
	initialData     []byte
	initialLen      int
	segmentCapacity int
}

func defaultOptions() options {
	return options{
		allocator: alloc.System{},
		logger:    NoopLogger(),
		metrics:   NoopMetricsCollector{},
	}
}

// Option configures vector construction.
//
// Options exist to keep the constructors small: allocator, logging, and
// metrics concerns are injected here instead of through constructor
// variants.
type Option func(*options)

// WithAllocator sets the allocator used for all storage operations of the
// vector. If nil is passed, the system allocator is used.
func WithAllocator(a alloc.Allocator) Option {
	return func(o *options) {
		if a == nil {
			a = alloc.System{}
		}
		o.allocator = a
	}
}

// WithLogger sets the structured logger. If nil is passed, logging is
// disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets a metrics collector for operation counters.
// Pass nil to disable collection.
func WithMetricsCollector(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}

// WithInitialData seeds the vector with n elements read back-to-back from
// data. The elements are pushed during construction; construction fails if
// they do not fit within max capacity or data is shorter than
// n*elementSize bytes.
func WithInitialData(data []byte, n int) Option {
	return func(o *options) {
		o.initialData = data
		o.initialLen = n
	}
}

// WithSegmentCapacity sets the number of element slots per segment for
// NewSegmented. The value is rounded up to a power of two so indexed
// addressing stays a shift and a mask. Contiguous vectors ignore it.
func WithSegmentCapacity(n int) Option {
	return func(o *options) {
		o.segmentCapacity = n
	}
}

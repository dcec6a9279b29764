package vecbuf

import (
	"sync/atomic"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordPush is called after each append operation (Push, PushN, Pop is
	// not a push). err is nil if successful.
	RecordPush(err error)

	// RecordInsert is called after each positional insert (Insert, InsertN).
	RecordInsert(err error)

	// RecordRemove is called after each removal (Remove, RemoveRange, Pop).
	RecordRemove(err error)

	// RecordGrow is called after each successful capacity growth with the
	// capacities before and after.
	RecordGrow(oldCapacity, newCapacity int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPush(error)    {}
func (NoopMetricsCollector) RecordInsert(error)  {}
func (NoopMetricsCollector) RecordRemove(error)  {}
func (NoopMetricsCollector) RecordGrow(int, int) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	PushCount    atomic.Int64
	PushErrors   atomic.Int64
	InsertCount  atomic.Int64
	InsertErrors atomic.Int64
	RemoveCount  atomic.Int64
	RemoveErrors atomic.Int64
	GrowCount    atomic.Int64
	// LastGrowCapacity holds the capacity reached by the most recent growth.
	LastGrowCapacity atomic.Int64
}

// RecordPush implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPush(err error) {
	b.PushCount.Add(1)
	if err != nil {
		b.PushErrors.Add(1)
	}
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(err error) {
	b.InsertCount.Add(1)
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(err error) {
	b.RemoveCount.Add(1)
	if err != nil {
		b.RemoveErrors.Add(1)
	}
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(oldCapacity, newCapacity int) {
	b.GrowCount.Add(1)
	b.LastGrowCapacity.Store(int64(newCapacity))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		PushCount:        b.PushCount.Load(),
		PushErrors:       b.PushErrors.Load(),
		InsertCount:      b.InsertCount.Load(),
		InsertErrors:     b.InsertErrors.Load(),
		RemoveCount:      b.RemoveCount.Load(),
		RemoveErrors:     b.RemoveErrors.Load(),
		GrowCount:        b.GrowCount.Load(),
		LastGrowCapacity: b.LastGrowCapacity.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	PushCount        int64
	PushErrors       int64
	InsertCount      int64
	InsertErrors     int64
	RemoveCount      int64
	RemoveErrors     int64
	GrowCount        int64
	LastGrowCapacity int64
}

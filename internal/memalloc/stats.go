package memalloc

// ScratchStats is a point-in-time usage snapshot of one ScratchAllocator,
// grounded on
// _examples/original_source/source/base/memory/MemoryStats.hpp's
// AllocatorStats::ScratchStats (bytesUsed/bytesTotal/highWaterMark/
// usagePercentage).
type ScratchStats struct {
	BytesUsed       int
	BytesTotal      int
	HighWaterMark   int
	UsagePercentage float64
}

// GetScratchStats snapshots alloc's current usage.
func GetScratchStats(alloc *ScratchAllocator) ScratchStats {
	used, total, hwm := alloc.BytesUsed(), alloc.TotalSize(), alloc.HighWaterMark()
	var pct float64
	if total > 0 {
		pct = float64(used) / float64(total) * 100
	}
	return ScratchStats{BytesUsed: used, BytesTotal: total, HighWaterMark: hwm, UsagePercentage: pct}
}

// HeapStats is a point-in-time usage snapshot of one HeapAllocator.
type HeapStats struct {
	Name            string
	BytesUsed       int64
	Capacity        int64
	UsagePercentage float64
}

// GetHeapStats snapshots h's current usage.
func GetHeapStats(h *HeapAllocator) HeapStats {
	used := h.BytesUsed()
	var pct float64
	if h.capacity > 0 {
		pct = float64(used) / float64(h.capacity) * 100
	}
	return HeapStats{Name: h.Name(), BytesUsed: used, Capacity: h.capacity, UsagePercentage: pct}
}

package memalloc

import "fmt"

// ScratchAllocator is a linear (bump) allocator over one fixed-size byte
// arena: allocations only ever move the cursor forward, and the only way
// to reclaim space is to rewind to an earlier mark. Grounded on
// _examples/original_source/source/base/memory/ScratchAllocator.hpp.
type ScratchAllocator struct {
	name        string
	arena       []byte
	cursor      int
	highWater   int
}

// NewScratchAllocator allocates a fixed-size arena up front.
func NewScratchAllocator(name string, size int) *ScratchAllocator {
	return &ScratchAllocator{name: name, arena: make([]byte, size)}
}

func (s *ScratchAllocator) Name() string { return s.name }

// Allocate bumps the cursor forward by size (rounded up to alignment) and
// returns the backing slice for the caller to use, or an error if the
// arena is exhausted.
func (s *ScratchAllocator) Allocate(size, alignment int) ([]byte, error) {
	aligned := (s.cursor + alignment - 1) &^ (alignment - 1)
	if aligned+size > len(s.arena) {
		return nil, fmt.Errorf("scratch %q: out of memory (requested %d at offset %d, capacity %d)", s.name, size, aligned, len(s.arena))
	}
	s.cursor = aligned + size
	if s.cursor > s.highWater {
		s.highWater = s.cursor
	}
	return s.arena[aligned : aligned+size : aligned+size], nil
}

// Mark captures the current cursor for a ScopedMarker.
func (s *ScratchAllocator) Mark() int { return s.cursor }

// Rewind resets the cursor to a previously captured mark, reclaiming every
// allocation made since.
func (s *ScratchAllocator) Rewind(mark int) { s.cursor = mark }

func (s *ScratchAllocator) BytesUsed() int      { return s.cursor }
func (s *ScratchAllocator) TotalSize() int      { return len(s.arena) }
func (s *ScratchAllocator) HighWaterMark() int  { return s.highWater }

// ScopedMarker ties a scratch allocation's lifetime to a Go scope: Close
// rewinds the arena to the cursor position captured at construction. The
// RAII discipline spec.md §5 requires ("scoped scratch markers restore the
// cursor on drop in all exit paths, including panics") is expressed here by
// always calling Close via defer at the call site — Go has no destructors,
// so unlike the original's stack-unwind-triggered ~ScopedScratchMarker,
// this is a documented caller contract rather than a compiler-enforced one.
type ScopedMarker struct {
	alloc *ScratchAllocator
	mark  int
}

// NewScopedMarker captures alloc's current cursor.
func NewScopedMarker(alloc *ScratchAllocator) *ScopedMarker {
	return &ScopedMarker{alloc: alloc, mark: alloc.Mark()}
}

// Close rewinds the allocator to the marker's captured cursor. Callers
// must `defer marker.Close()` immediately after construction so a panic
// mid-scope still unwinds the scratch cursor.
func (m *ScopedMarker) Close() { m.alloc.Rewind(m.mark) }

package ecs

import (
	"reflect"
	"unsafe"

	"github.com/spiteengine/ecs/internal/memalloc"
)

// ChunkCapacity is the fixed number of entity slots per Chunk (spec.md's
// compile-time C=64), also the bit width bits64 needs for modified/enabled
// tracking. Because C is exactly the width of one machine word, the
// modified/enabled bitsets are a single bits64 field each rather than an
// SBOVector[uint64]: a one-word bitset never has a "spills past inline
// capacity" case to optimize away, so there is nothing for the SBO
// specialization to buy here (SBOVector backs the genuinely
// variable-length small collections instead — see chunkColumn storage
// below and Aspect.ids in aspect.go).
const ChunkCapacity = 64

// chunkColumn is one component's backing storage within a Chunk: a single
// reflect-allocated [ChunkCapacity]T array plus the raw pointer into it, so
// the hot access path (getComponentDataPtrByIndex) never touches reflect
// again.
// Grounded on delaneyj-arche/ecs/archetype.go's layout{pointer,itemSize}
// and on the teacher's compPointers/compSizes arrays in archetype.go.
type chunkColumn struct {
	id       ComponentID
	elemSize uintptr
	backing  reflect.Value // addressable [ChunkCapacity]T array
	ptr      unsafe.Pointer
	modified bits64
	enabled  bits64
}

// Chunk is a fixed-capacity struct-of-arrays slab belonging to one
// Archetype. All columns share one logical length (count); per-column
// aligned offsets are expressed here as independent backing arrays rather
// than a single raw byte buffer (Go has no placement-new into a shared
// arena with arbitrary alignment across pointer-containing types, so each
// column gets a properly typed, GC-visible backing array instead of the
// C++ original's single-allocation-plus-offsets scheme — see DESIGN.md).
// columns is an SBOVector since most archetypes carry only a handful of
// component types and moving a chunkColumn around on grow is just copying
// a few scalars and a pointer — relocating it never invalidates the
// pointer into its own backing array.
type Chunk struct {
	aspect   Aspect
	columns  memalloc.SBOVector[chunkColumn]
	colIndex [maxComponentTypes]int32 // -1 if this chunk doesn't carry that component
	entities [ChunkCapacity]Entity
	count    int
}

func newChunk(aspect Aspect, reg *ComponentMetadataRegistry) *Chunk {
	c := &Chunk{aspect: aspect}
	for i := range c.colIndex {
		c.colIndex[i] = -1
	}
	ids := aspect.IDs()
	for i, id := range ids {
		meta := reg.meta(id)
		backing := reflect.New(reflect.ArrayOf(ChunkCapacity, meta.Type)).Elem()
		c.columns.Push(chunkColumn{
			id:       id,
			elemSize: meta.Size,
			backing:  backing,
			ptr:      backing.Addr().UnsafePointer(),
		})
		c.colIndex[id] = int32(i)
	}
	return c
}

// Count returns the number of live entities in this chunk.
func (c *Chunk) Count() int { return c.count }

// Full reports whether the chunk has no remaining slots.
func (c *Chunk) Full() bool { return c.count >= ChunkCapacity }

// EntityAt returns the entity occupying slot.
func (c *Chunk) EntityAt(slot int) Entity { return c.entities[slot] }

// columnIndex resolves a ComponentID to this chunk's column slice index, or
// -1 if the chunk's aspect doesn't carry that component.
func (c *Chunk) columnIndex(id ComponentID) int {
	if int(id) >= len(c.colIndex) {
		return -1
	}
	return int(c.colIndex[id])
}

// addEntity appends e at slot=count, marks every column modified+enabled at
// that slot, and returns the slot. The caller (Archetype) is responsible
// for subsequently writing component values.
func (c *Chunk) addEntity(e Entity) int {
	assertInvariant(!c.Full(), PoolExhausted, "chunk is full (capacity %d)", ChunkCapacity)
	slot := c.count
	c.entities[slot] = e
	for i := 0; i < c.columns.Len(); i++ {
		col := c.columns.At(i)
		col.modified.set(slot)
		col.enabled.set(slot)
	}
	c.count++
	return slot
}

// removeEntityAndSwap swaps the last live slot into slot (unless slot is
// already last), decrements count, and returns the entity that was moved
// into slot (or UndefinedEntity if slot was last). The caller must run
// destructors for the removed entity's components BEFORE calling this —
// Chunk only relocates the survivor, it never destroys on the removed
// entity's behalf.
func (c *Chunk) removeEntityAndSwap(slot int) Entity {
	assertInvariant(slot < c.count, InvalidHandle, "slot %d >= count %d", slot, c.count)
	last := c.count - 1
	var moved Entity
	if slot != last {
		moved = c.entities[last]
		c.entities[slot] = moved
		for i := 0; i < c.columns.Len(); i++ {
			col := c.columns.At(i)
			dst := unsafe.Add(col.ptr, uintptr(slot)*col.elemSize)
			src := unsafe.Add(col.ptr, uintptr(last)*col.elemSize)
			rawMoveAndDestroy(dst, src, col.elemSize)
			col.modified.copyBit(last, slot)
			col.enabled.copyBit(last, slot)
		}
	}
	c.count--
	return moved
}

// getComponentDataPtrByIndex returns a pointer to the component in column
// colIdx at slot, without marking modified (read path).
func (c *Chunk) getComponentDataPtrByIndex(colIdx, slot int) unsafe.Pointer {
	col := c.columns.At(colIdx)
	return unsafe.Add(col.ptr, uintptr(slot)*col.elemSize)
}

// getMutableComponentDataPtrByIndex returns a pointer to the component in
// column colIdx at slot and marks it modified, matching the original's
// "mutable access marks dirty" conservative semantics.
func (c *Chunk) getMutableComponentDataPtrByIndex(colIdx, slot int) unsafe.Pointer {
	col := c.columns.At(colIdx)
	col.modified.set(slot)
	return unsafe.Add(col.ptr, uintptr(slot)*col.elemSize)
}

func (c *Chunk) isEnabled(colIdx, slot int) bool  { return c.columns.At(colIdx).enabled.has(slot) }
func (c *Chunk) isModified(colIdx, slot int) bool { return c.columns.At(colIdx).modified.has(slot) }

func (c *Chunk) enableComponentByIndex(colIdx, slot int)  { c.columns.At(colIdx).enabled.set(slot) }
func (c *Chunk) disableComponentByIndex(colIdx, slot int) { c.columns.At(colIdx).enabled.clear(slot) }

// resetModificationTracking clears every column's modified bitset (not
// enabled) — invoked between frames so "modified since last frame"
// semantics hold.
func (c *Chunk) resetModificationTracking() {
	for i := 0; i < c.columns.Len(); i++ {
		c.columns.At(i).modified = 0
	}
}

// destroyComponentsAt runs the destructor (if any) for every column except
// those present in skip, at the given slot. Used before removeEntityAndSwap
// so components being relocated to a destination archetype are not
// double-destroyed.
func (c *Chunk) destroyComponentsAt(slot int, skip Aspect, reg *ComponentMetadataRegistry) {
	for i := 0; i < c.columns.Len(); i++ {
		col := c.columns.At(i)
		if skip.Contains(col.id) {
			continue
		}
		meta := reg.meta(col.id)
		if meta.destructor == nil {
			continue
		}
		ptr := unsafe.Add(col.ptr, uintptr(slot)*col.elemSize)
		meta.destructor(ptr)
	}
}

// rawMoveAndDestroy performs a raw byte relocation dst<-src and zeroes src.
// Used for the swap-pop survivor relocation, which never needs a typed
// thunk because it's moving a value already owned by this chunk (no
// cross-type dispatch needed — size is enough).
func rawMoveAndDestroy(dst, src unsafe.Pointer, size uintptr) {
	if size == 0 {
		return
	}
	dstSlice := unsafe.Slice((*byte)(dst), size)
	srcSlice := unsafe.Slice((*byte)(src), size)
	copy(dstSlice, srcSlice)
	for i := range srcSlice {
		srcSlice[i] = 0
	}
}

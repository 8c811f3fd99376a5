package ecs

// Archetype is the runtime storage partition for every entity sharing one
// Aspect: a pool of fixed-capacity Chunks plus a free list, and an
// entity→(chunk,slot) index. Grounded on
// _examples/original_source/source/ecs/storage/Archetype.{hpp,cpp} and on
// the teacher's slots-array lookup idiom in archetype.go.
type Archetype struct {
	aspect       Aspect
	reg          *ComponentMetadataRegistry
	chunks       []*Chunk
	freeChunks   []*Chunk
	firstNonFull int // cached hint; may be stale, re-validated on use
	count        int
	chunkCursor  int // Query iteration cursor into chunks, reset by Query.Reset
}

func newArchetype(aspect Aspect, reg *ComponentMetadataRegistry) *Archetype {
	return &Archetype{aspect: aspect, reg: reg}
}

// Aspect returns this archetype's canonical component set.
func (a *Archetype) Aspect() Aspect { return a.aspect }

// Count returns the number of live entities across all chunks.
func (a *Archetype) Count() int { return a.count }

// ComponentIndex returns the column index for id within every chunk of
// this archetype (chunks of the same archetype always share column
// layout), or -1 if id isn't part of this archetype's aspect.
func (a *Archetype) ComponentIndex(id ComponentID) int {
	if len(a.chunks) == 0 {
		// Column order is derived purely from the aspect, so we can answer
		// even with no chunks yet by checking membership/position.
		for i, cid := range a.aspect.IDs() {
			if cid == id {
				return i
			}
		}
		return -1
	}
	return a.chunks[0].columnIndex(id)
}

// nonFullChunk returns a chunk with spare capacity, using the cached hint
// first, then a linear scan, then a chunk from the free list, then a fresh
// allocation — in that order, matching the original's addEntity procedure.
func (a *Archetype) nonFullChunk() *Chunk {
	if a.firstNonFull < len(a.chunks) && !a.chunks[a.firstNonFull].Full() {
		return a.chunks[a.firstNonFull]
	}
	for i, c := range a.chunks {
		if !c.Full() {
			a.firstNonFull = i
			return c
		}
	}
	if n := len(a.freeChunks); n > 0 {
		c := a.freeChunks[n-1]
		a.freeChunks = a.freeChunks[:n-1]
		a.firstNonFull = len(a.chunks)
		a.chunks = append(a.chunks, c)
		return c
	}
	c := newChunk(a.aspect, a.reg)
	a.firstNonFull = len(a.chunks)
	a.chunks = append(a.chunks, c)
	return c
}

// addEntity inserts e into a non-full chunk and returns its location.
func (a *Archetype) addEntity(e Entity) entityLocation {
	c := a.nonFullChunk()
	slot := c.addEntity(e)
	a.count++
	return entityLocation{archetype: a, chunk: c, slot: slot}
}

// addEntities bulk-inserts entities chunk by chunk: each step takes the
// chunk nonFullChunk returns (an existing non-full chunk, or a new or
// reclaimed one) and fills it as far as it goes. Fresh chunks are obtained
// one at a time as the loop needs them, not precomputed and allocated in a
// single growth step. Returns each entity's location in insertion order.
func (a *Archetype) addEntities(entities []Entity) []entityLocation {
	locations := make([]entityLocation, 0, len(entities))
	remaining := entities

	for len(remaining) > 0 {
		c := a.nonFullChunk()
		space := ChunkCapacity - c.Count()
		n := min(space, len(remaining))
		for i := 0; i < n; i++ {
			slot := c.addEntity(remaining[i])
			locations = append(locations, entityLocation{archetype: a, chunk: c, slot: slot})
		}
		remaining = remaining[n:]
		a.count += n
	}
	return locations
}

// removeEntityAt destroys the entity's components (skipping skipDestruction
// members) then swap-pops it out of chunk, updating the swapped survivor's
// location via updateLocation, and reclaiming the chunk if it becomes
// empty. Mirrors Archetype::removeEntity / removeEntities from the
// original, generalized to a single-slot primitive both call.
func (a *Archetype) removeEntityAt(chunk *Chunk, slot int, skipDestruction Aspect, updateLocation func(Entity, entityLocation)) {
	chunk.destroyComponentsAt(slot, skipDestruction, a.reg)
	moved := chunk.removeEntityAndSwap(slot)
	a.count--
	if moved != UndefinedEntity {
		updateLocation(moved, entityLocation{archetype: a, chunk: chunk, slot: slot})
	}
	if chunk.Count() == 0 {
		a.reclaimEmptyChunk(chunk)
	}
}

// removeEntitiesGrouped removes a batch of (chunk, slot) locations. Per the
// original's removeEntities, slots within each chunk are processed in
// descending order so earlier swap-pops never invalidate a later slot
// index in the same batch.
func (a *Archetype) removeEntitiesGrouped(locs []entityLocation, skipDestruction Aspect, updateLocation func(Entity, entityLocation)) {
	byChunk := make(map[*Chunk][]int)
	for _, l := range locs {
		byChunk[l.chunk] = append(byChunk[l.chunk], l.slot)
	}
	for chunk, slots := range byChunk {
		sortDescending(slots)
		for _, slot := range slots {
			a.removeEntityAt(chunk, slot, skipDestruction, updateLocation)
		}
	}
}

func sortDescending(s []int) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j] < v {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}

// reclaimEmptyChunk moves an emptied chunk to the free list; if it isn't
// the last active chunk, the last active chunk is swapped into its slot in
// a.chunks. Unlike the original (which indexes chunks by position and must
// reindex every entity after such a swap), entityLocation here holds a
// direct *Chunk pointer, so no entity bookkeeping update is needed — only
// the Archetype's own chunks slice changes shape.
func (a *Archetype) reclaimEmptyChunk(chunk *Chunk) {
	idx := -1
	for i, c := range a.chunks {
		if c == chunk {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	last := len(a.chunks) - 1
	if idx != last {
		a.chunks[idx] = a.chunks[last]
	}
	a.chunks = a.chunks[:last]
	a.freeChunks = append(a.freeChunks, chunk)
	a.firstNonFull = 0
}

// destroyAllComponents runs destructors for every live component in every
// chunk; called once at ArchetypeManager teardown.
func (a *Archetype) destroyAllComponents() {
	for _, c := range a.chunks {
		for slot := 0; slot < c.Count(); slot++ {
			c.destroyComponentsAt(slot, Aspect{}, a.reg)
		}
	}
}

package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChunk(t *testing.T, comps ...ComponentID) (*Chunk, *ComponentMetadataRegistry) {
	t.Helper()
	reg := newComponentMetadataRegistry(64)
	RegisterComponent[testPlain](reg)
	aspect := NewAspect(comps...)
	return newChunk(aspect, reg), reg
}

func TestChunkAddEntityAndCount(t *testing.T) {
	reg := newComponentMetadataRegistry(64)
	id := RegisterComponent[testPlain](reg)
	c := newChunk(NewAspect(id), reg)

	e := NewEntity(1, 1)
	slot := c.addEntity(e)
	assert.Equal(t, 0, slot)
	assert.Equal(t, 1, c.Count())
	assert.Equal(t, e, c.EntityAt(slot))
}

func TestChunkFullPanicsOnOverflow(t *testing.T) {
	reg := newComponentMetadataRegistry(64)
	id := RegisterComponent[testPlain](reg)
	c := newChunk(NewAspect(id), reg)
	for i := 0; i < ChunkCapacity; i++ {
		c.addEntity(NewEntity(uint32(i+1), 1))
	}
	assert.True(t, c.Full())
	assert.Panics(t, func() { c.addEntity(NewEntity(999, 1)) })
}

func TestChunkColumnIndexUnknownComponent(t *testing.T) {
	c, _ := newTestChunk(t)
	assert.Equal(t, -1, c.columnIndex(ComponentID(250)))
}

func TestChunkRemoveEntityAndSwapMovesLast(t *testing.T) {
	reg := newComponentMetadataRegistry(64)
	id := RegisterComponent[testPlain](reg)
	c := newChunk(NewAspect(id), reg)

	e1 := NewEntity(1, 1)
	e2 := NewEntity(2, 1)
	e3 := NewEntity(3, 1)
	c.addEntity(e1)
	c.addEntity(e2)
	c.addEntity(e3)

	col := c.columnIndex(id)
	*(*testPlain)(c.getMutableComponentDataPtrByIndex(col, 2)) = testPlain{A: 99}

	moved := c.removeEntityAndSwap(0)
	require.Equal(t, e3, moved)
	assert.Equal(t, 2, c.Count())
	assert.Equal(t, e3, c.EntityAt(0))
	got := (*testPlain)(c.getComponentDataPtrByIndex(col, 0))
	assert.Equal(t, int32(99), got.A)
}

func TestChunkRemoveLastSlotReturnsUndefined(t *testing.T) {
	c, _ := newTestChunk(t)
	e := NewEntity(1, 1)
	c.addEntity(e)
	moved := c.removeEntityAndSwap(0)
	assert.Equal(t, UndefinedEntity, moved)
	assert.Equal(t, 0, c.Count())
}

func TestChunkEnabledDefaultsTrueAndToggle(t *testing.T) {
	reg := newComponentMetadataRegistry(64)
	id := RegisterComponent[testPlain](reg)
	c := newChunk(NewAspect(id), reg)
	c.addEntity(NewEntity(1, 1))
	col := c.columnIndex(id)
	assert.True(t, c.isEnabled(col, 0))
	c.disableComponentByIndex(col, 0)
	assert.False(t, c.isEnabled(col, 0))
	c.enableComponentByIndex(col, 0)
	assert.True(t, c.isEnabled(col, 0))
}

func TestChunkResetModificationTracking(t *testing.T) {
	reg := newComponentMetadataRegistry(64)
	id := RegisterComponent[testPlain](reg)
	c := newChunk(NewAspect(id), reg)
	c.addEntity(NewEntity(1, 1))
	col := c.columnIndex(id)
	assert.True(t, c.isModified(col, 0))
	c.resetModificationTracking()
	assert.False(t, c.isModified(col, 0))
	c.getMutableComponentDataPtrByIndex(col, 0)
	assert.True(t, c.isModified(col, 0))
}

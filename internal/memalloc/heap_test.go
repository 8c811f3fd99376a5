package memalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapAllocatorAllocAndFree(t *testing.T) {
	h := newHeapAllocator("main", 1024)
	handle, buf, err := h.Alloc(256)
	require.NoError(t, err)
	assert.Len(t, buf, 256)
	assert.Equal(t, int64(256), h.BytesUsed())

	h.Free(handle)
	assert.Equal(t, int64(0), h.BytesUsed())
}

func TestHeapAllocatorOutOfMemory(t *testing.T) {
	h := newHeapAllocator("main", 128)
	_, _, err := h.Alloc(256)
	assert.Error(t, err)
}

func TestHeapAllocatorShutdownDetectsLeak(t *testing.T) {
	h := newHeapAllocator("main", 1024)
	_, _, err := h.Alloc(64)
	require.NoError(t, err)

	err = h.Shutdown(false)
	assert.Error(t, err)

	err = h.Shutdown(true)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), h.BytesUsed())
}

func TestAllocatorRegistryCreateIsIdempotent(t *testing.T) {
	r := NewAllocatorRegistry()
	a1 := r.CreateAllocator("gpu", 4096)
	a2 := r.CreateAllocator("gpu", 4096)
	assert.Same(t, a1, a2)
	assert.True(t, r.HasAllocator("gpu"))
	assert.False(t, r.HasAllocator("missing"))
}

func TestAllocatorRegistryShutdownAllCollectsLeaks(t *testing.T) {
	r := NewAllocatorRegistry()
	a := r.CreateAllocator("main", 1024)
	a.Alloc(10)
	r.CreateAllocator("gpu", 1024)

	errs := r.ShutdownAll(false)
	assert.Len(t, errs, 1)
}

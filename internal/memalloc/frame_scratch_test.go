package memalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameScratchRegistryPerWorkerIsolation(t *testing.T) {
	reg := NewFrameScratchRegistry(1024)
	a := reg.Get(WorkerID(0))
	b := reg.Get(WorkerID(1))
	assert.NotSame(t, a, b)

	a.Allocate(100, 1)
	b.Allocate(50, 1)
	assert.Equal(t, 100, a.BytesUsed())
	assert.Equal(t, 50, b.BytesUsed())
}

func TestFrameScratchRegistryGetIsStable(t *testing.T) {
	reg := NewFrameScratchRegistry(1024)
	a1 := reg.Get(WorkerID(3))
	a2 := reg.Get(WorkerID(3))
	assert.Same(t, a1, a2)
}

func TestFrameScratchRegistryResetFrameRewindsEveryWorker(t *testing.T) {
	reg := NewFrameScratchRegistry(1024)
	a := reg.Get(WorkerID(0))
	b := reg.Get(WorkerID(1))
	a.Allocate(50, 1)
	b.Allocate(80, 1)

	reg.ResetFrame()
	assert.Equal(t, 0, a.BytesUsed())
	assert.Equal(t, 0, b.BytesUsed())
}

package memalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSBOVectorStaysInlineUnderCapacity(t *testing.T) {
	var v SBOVector[int]
	for i := 0; i < sboInlineCapacity; i++ {
		v.Push(i)
	}
	assert.True(t, v.IsInline())
	assert.Equal(t, sboInlineCapacity, v.Len())
}

func TestSBOVectorSpillsPastCapacity(t *testing.T) {
	var v SBOVector[int]
	for i := 0; i < sboInlineCapacity+3; i++ {
		v.Push(i)
	}
	assert.False(t, v.IsInline())
	assert.Equal(t, sboInlineCapacity+3, v.Len())
	assert.Equal(t, sboInlineCapacity+2, *v.At(sboInlineCapacity+2))
}

func TestSBOVectorPop(t *testing.T) {
	var v SBOVector[int]
	v.Push(1)
	v.Push(2)
	assert.Equal(t, 2, v.Pop())
	assert.Equal(t, 1, v.Len())
}

func TestSBOVectorClearResetsToInline(t *testing.T) {
	var v SBOVector[int]
	for i := 0; i < sboInlineCapacity+5; i++ {
		v.Push(i)
	}
	v.Clear()
	assert.True(t, v.IsInline())
	assert.Equal(t, 0, v.Len())
}

func TestSBOVectorSliceReflectsStorage(t *testing.T) {
	var v SBOVector[int]
	v.Push(1)
	v.Push(2)
	v.Push(3)
	assert.Equal(t, []int{1, 2, 3}, v.Slice())
}
